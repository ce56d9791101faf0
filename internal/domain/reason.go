package domain

// Reason is the rationale code attached to every decision and skip.
type Reason string

const (
	// Positive-quantity rationales.
	ReasonSalesBased       Reason = "sales_based"
	ReasonZeroStockFloor   Reason = "zero_stock_floor"
	ReasonZeroStockProduct Reason = "zero_stock_product_min"
	ReasonCategoryMinimum  Reason = "category_minimum"
	ReasonProductMinimum   Reason = "product_minimum"
	ReasonMaxInventoryCap  Reason = "max_inventory_cap"
	ReasonShortSupply      Reason = "short_supply_clamp"

	// Zero-quantity rationales.
	ReasonInvalidLotSize     Reason = "invalid_lot_size"
	ReasonInsufficientSupply Reason = "insufficient_warehouse_stock"
	ReasonBelowMinOrder      Reason = "below_minimum_order"
	ReasonExceedsMaximum     Reason = "exceeds_maximum_inventory"
	ReasonZeroComputed       Reason = "computed_zero"
)

var reasonLabels = map[Reason]string{
	ReasonSalesBased:         "Pedido basado en ventas",
	ReasonZeroStockFloor:     "Pedido mínimo por stock 0",
	ReasonZeroStockProduct:   "Pedido mínimo por stock 0 (mínimo producto)",
	ReasonCategoryMinimum:    "Pedido ajustado por mínimo categoría",
	ReasonProductMinimum:     "Pedido ajustado para alcanzar mínimo de inventario (producto)",
	ReasonMaxInventoryCap:    "Pedido ajustado por inventario máximo",
	ReasonShortSupply:        "Ajustado por stock insuficiente en bodega",
	ReasonInvalidLotSize:     "Unidad de reposición inválida",
	ReasonInsufficientSupply: "Stock en bodega insuficiente",
	ReasonBelowMinOrder:      "Cantidad menor que mínimo para pedir",
	ReasonExceedsMaximum:     "Stock en sucursal supera máximo permitido",
	ReasonZeroComputed:       "Cantidad calculada <= 0",
}

// Label returns the human-readable (log) form of a reason code.
func (r Reason) Label() string {
	if label, ok := reasonLabels[r]; ok {
		return label
	}

	return string(r)
}
