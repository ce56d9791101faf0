// backend-go/internal/erp/loader.go
package erp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/blackdogpanama/pedidos/backend-go/internal/catalog"
	"github.com/blackdogpanama/pedidos/backend-go/internal/config"
	"github.com/blackdogpanama/pedidos/backend-go/internal/domain"
)

const (
	fieldLotSize      = "x_studio_unidad_de_reposicin"
	fieldHalloween    = "x_studio_halloween"
	fieldNavidad      = "x_studio_navidad"
	fieldClinicOnly   = "x_studio_solo_clinica"
	fieldMinInventory = "x_studio_inventario_minimo"
	fieldMaxInventory = "x_studio_inventario_maximo"
	fieldLargeItem    = "x_studio_producto_grande"
)

// Loader reads the sales & stock feed and the product catalog from the ERP.
// The connection is established lazily on first use so binaries can start
// while the ERP is unreachable.
type Loader struct {
	cfg config.OdooConfig

	mu     sync.Mutex
	client *Client
}

// NewLoader creates a loader for the given ERP credentials.
func NewLoader(cfg config.OdooConfig) *Loader {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	return &Loader{cfg: cfg}
}

func (l *Loader) connect() (*Client, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.client != nil {
		return l.client, nil
	}

	client, err := Dial(l.cfg)
	if err != nil {
		return nil, err
	}
	l.client = client
	return client, nil
}

// Close drops the ERP connection if one was opened.
func (l *Loader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.client == nil {
		return nil
	}
	err := l.client.Close()
	l.client = nil
	return err
}

// ReplenishmentLines reads every line of every draft replenishment order:
// one (product, store) pair with six months of sales, store on-hand and the
// warehouse-available quantity. A failing order is logged and skipped.
func (l *Loader) ReplenishmentLines(ctx context.Context) ([]domain.DemandLine, error) {
	client, err := l.connect()
	if err != nil {
		return nil, err
	}

	orders, err := client.SearchRead(
		"estimated.replenishment.order",
		[]interface{}{[]interface{}{"state", "=", "draft"}},
		[]string{"id"},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("search draft orders: %w", err)
	}
	log.Info().Int("orders", len(orders)).Msg("draft replenishment orders found")

	lineFields := []string{
		"product_id", "shop_pos_id", "qty_in_wh", "qty_to_hand",
		"qty_month0", "qty_month1", "qty_month2",
		"qty_month3", "qty_month4", "qty_month5",
	}

	var lines []domain.DemandLine
	for _, order := range orders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		orderID, _ := asInt64(order["id"])

		raw, err := client.SearchRead(
			"estimated.replenishment.order.line",
			[]interface{}{[]interface{}{"order_id", "=", orderID}},
			lineFields,
			nil,
		)
		if err != nil {
			log.Error().Err(err).Int64("order_id", orderID).Msg("skipping order: line fetch failed")
			continue
		}

		for _, rec := range raw {
			productID, _, okProduct := many2one(rec["product_id"])
			_, store, okStore := many2one(rec["shop_pos_id"])
			if !okProduct || !okStore {
				continue
			}

			onHand := 0
			if f, ok := asFloat(rec["qty_to_hand"]); ok {
				onHand = int(f)
			}
			warehouse, _ := asFloat(rec["qty_in_wh"])

			lines = append(lines, domain.DemandLine{
				ProductID: productID,
				Store:     store,
				Monthly: []*float64{
					optFloat(rec["qty_month0"]),
					optFloat(rec["qty_month1"]),
					optFloat(rec["qty_month2"]),
					optFloat(rec["qty_month3"]),
					optFloat(rec["qty_month4"]),
					optFloat(rec["qty_month5"]),
				},
				OnHand:       onHand,
				WarehouseQty: warehouse,
			})
		}
	}

	return lines, nil
}

// Products reads the catalog for the given variant ids in bounded batches.
// Templates are prefetched in one call and joined by template id, then by
// barcode and internal reference as fallbacks. A failing batch is logged and
// skipped; its products simply stay absent.
func (l *Loader) Products(ctx context.Context, ids []int64) (map[int64]*catalog.ProductRecord, error) {
	client, err := l.connect()
	if err != nil {
		return nil, err
	}

	templates, err := l.fetchTemplates(client)
	if err != nil {
		return nil, err
	}

	variantFields := []string{
		"id", "barcode", "default_code", "name", "categ_id", "product_tmpl_id",
		fieldLotSize, fieldHalloween, fieldNavidad, fieldClinicOnly,
	}
	options := map[string]interface{}{"context": map[string]interface{}{"lang": "en_US"}}

	records := make(map[int64]*catalog.ProductRecord, len(ids))
	batchSize := l.cfg.BatchSize
	total := (len(ids) + batchSize - 1) / batchSize

	for i := 0; i < len(ids); i += batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := i + batchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[i:end]
		batchNum := i/batchSize + 1

		raw, err := client.Read("product.product", batch, variantFields, options)
		if err != nil {
			log.Error().Err(err).Int("batch", batchNum).Int("of", total).Msg("skipping product batch")
			continue
		}

		for _, rec := range raw {
			p := variantFromRecord(rec)
			p.Template = templates.match(rec, p)
			records[p.ID] = p
		}

		time.Sleep(50 * time.Millisecond)
	}

	log.Info().Int("products", len(records)).Msg("catalog fetch completed")
	return records, nil
}

type templateIndex struct {
	byID      map[int64]*catalog.TemplateRecord
	byBarcode map[string]*catalog.TemplateRecord
	byRef     map[string]*catalog.TemplateRecord
}

func (l *Loader) fetchTemplates(client *Client) (*templateIndex, error) {
	fields := []string{
		"id", "name", "barcode", "default_code",
		fieldLotSize, fieldHalloween, fieldNavidad, fieldClinicOnly,
		fieldMinInventory, fieldMaxInventory, fieldLargeItem,
	}
	options := map[string]interface{}{"context": map[string]interface{}{"lang": "en_US"}}

	raw, err := client.SearchRead("product.template", []interface{}{}, fields, options)
	if err != nil {
		return nil, fmt.Errorf("fetch product templates: %w", err)
	}
	log.Info().Int("templates", len(raw)).Msg("product templates downloaded")

	idx := &templateIndex{
		byID:      make(map[int64]*catalog.TemplateRecord, len(raw)),
		byBarcode: make(map[string]*catalog.TemplateRecord),
		byRef:     make(map[string]*catalog.TemplateRecord),
	}
	for _, rec := range raw {
		t := &catalog.TemplateRecord{
			Name:       asString(rec["name"]),
			Halloween:  asBool(rec[fieldHalloween]),
			Navidad:    asBool(rec[fieldNavidad]),
			ClinicOnly: asBool(rec[fieldClinicOnly]),
			LargeItem:  asBool(rec[fieldLargeItem]),
		}
		t.LotSize, _ = asFloat(rec[fieldLotSize])
		t.MinInventory, _ = asFloat(rec[fieldMinInventory])
		t.MaxInventory, _ = asFloat(rec[fieldMaxInventory])

		if id, ok := asInt64(rec["id"]); ok {
			idx.byID[id] = t
		}
		if barcode := asString(rec["barcode"]); barcode != "" {
			idx.byBarcode[barcode] = t
		}
		if ref := asString(rec["default_code"]); ref != "" {
			idx.byRef[ref] = t
		}
	}
	return idx, nil
}

func (idx *templateIndex) match(rec map[string]interface{}, p *catalog.ProductRecord) *catalog.TemplateRecord {
	if tmplID, _, ok := many2one(rec["product_tmpl_id"]); ok {
		if t, found := idx.byID[tmplID]; found {
			return t
		}
	}
	if p.Barcode != "" {
		if t, found := idx.byBarcode[p.Barcode]; found {
			return t
		}
	}
	if p.InternalRef != "" {
		if t, found := idx.byRef[p.InternalRef]; found {
			return t
		}
	}
	return nil
}

func variantFromRecord(rec map[string]interface{}) *catalog.ProductRecord {
	p := &catalog.ProductRecord{
		Barcode:     asString(rec["barcode"]),
		InternalRef: asString(rec["default_code"]),
		Name:        asString(rec["name"]),
		Halloween:   asBool(rec[fieldHalloween]),
		Navidad:     asBool(rec[fieldNavidad]),
		ClinicOnly:  asBool(rec[fieldClinicOnly]),
	}
	p.ID, _ = asInt64(rec["id"])
	p.LotSize, _ = asFloat(rec[fieldLotSize])
	if _, category, ok := many2one(rec["categ_id"]); ok {
		p.Category = category
	}
	return p
}
