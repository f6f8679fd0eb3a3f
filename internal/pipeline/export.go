package pipeline

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"specsheet/internal"
)

// ExportProductsToXLSX writes the merged multi-product output, one row per
// orderable part number, columns in the canonical merged order.
func ExportProductsToXLSX(products []internal.Product, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, h := range internal.MergedColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, product := range products {
		r := i + 2
		for j, col := range internal.MergedColumns {
			cell, _ := excelize.CoordinatesToCellName(j+1, r)
			_ = f.SetCellValue(sheet, cell, derefString(product.Fields[col]))
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

// ExportDocumentToXLSX writes one document's field record with the per-field
// confidence breakdown, one row per schema column.
func ExportDocumentToXLSX(result internal.DocumentResult, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{"field", "value", "confidence", "reason", "source", "page"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	cols := Schemas[result.ProductType]
	if cols == nil {
		cols = make([]string, 0, len(result.Fields))
		for field := range result.Fields {
			cols = append(cols, field)
		}
		sort.Strings(cols)
	}

	for i, field := range cols {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		entry := result.Validation[field]
		set(1, field)
		set(2, result.Fields[field])
		set(3, string(entry.Confidence))
		set(4, entry.Reason)
		set(5, entry.Source)
		set(6, derefInt(entry.Page))
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func derefInt(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}
