package export

import (
	"fmt"
	"io"
	"time"

	"transaction-dashboard/internal/analytics"
	"transaction-dashboard/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	TransactionsSheet = "Transactions"
	SummarySheet      = "Summary"
)

var transactionHeader = []interface{}{
	"id", "title", "price", "description", "category", "image", "sold", "dateOfSale",
}

// WriteMonthWorkbook renders one month's listing and totals as XLSX.
func WriteMonthWorkbook(w io.Writer, month string, items []models.Transaction, stats analytics.Statistics) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", TransactionsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(TransactionsSheet, "A1", &transactionHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, t := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			t.ID, t.Title, t.Price, t.Description, t.Category, t.Image, t.Sold,
			t.DateOfSale.UTC().Format(time.RFC3339),
		}
		if err := f.SetSheetRow(TransactionsSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("add summary sheet: %w", err)
	}
	summary := [][]interface{}{
		{"month", month},
		{"totalPrice", stats.TotalPrice},
		{"totalItemSold", stats.TotalItemSold},
		{"totalItemNotSold", stats.TotalItemNotSold},
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
