package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/nithinvarma411/dhanapathrika/internal/domain"
)

const stockSheet = "Stock"

var stockHeaders = []string{
	"Item Name", "Cost Price", "Selling Price", "Available Quantity",
	"Min Quantity", "Unit", "Group", "Item Code",
}

// WriteStockWorkbook writes the stock ledger as an xlsx workbook. Prices are
// written in major currency units, one row per item.
func WriteStockWorkbook(w io.Writer, items []domain.StockItem) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(stockSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	for col, header := range stockHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to compute header cell: %w", err)
		}
		if err := f.SetCellValue(stockSheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, item := range items {
		row := i + 2
		values := []any{
			item.Name,
			float64(item.CostPriceCents) / 100,
			float64(item.SellingPriceCents) / 100,
			item.AvailableQuantity,
			item.MinQuantity,
			string(item.Unit),
			item.Group,
			item.ItemCode,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return fmt.Errorf("failed to compute cell: %w", err)
			}
			if err := f.SetCellValue(stockSheet, cell, value); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
