// backend-go/internal/export/xlsx.go
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/blackdogpanama/pedidos/backend-go/internal/domain"
	"github.com/blackdogpanama/pedidos/backend-go/internal/grouping"
)

var sheetHeader = []interface{}{"Código", "Referencia Interna", "Descripción", "Cantidad", "Categoría"}

// writeOrderSheet writes one picker file: a single sheet with the standard
// header row and one line per order item, sorted for printing.
func writeOrderSheet(path string, items []domain.OrderItem) error {
	sorted := make([]domain.OrderItem, len(items))
	copy(sorted, items)
	grouping.SortItems(sorted)

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &sheetHeader); err != nil {
		return fmt.Errorf("failed to write header in %s: %w", path, err)
	}

	for i, item := range sorted {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d in %s: %w", i+2, path, err)
		}
		row := []interface{}{item.Barcode, item.InternalRef, item.Description, item.Quantity, item.Category}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d in %s: %w", i+2, path, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save xlsx file %s: %w", path, err)
	}

	return nil
}
