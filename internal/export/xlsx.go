package export

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/nursyahid/dapur-ledger/internal/aggregate"
)

const reportSheet = "Laporan"

// XLSXRenderer writes the report as an xlsx workbook in OutputDir.
type XLSXRenderer struct {
	OutputDir string
}

// Render implements the Renderer interface.
func (r *XLSXRenderer) Render(_ context.Context, report *aggregate.Report, meta Meta) (string, error) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	index, err := f.NewSheet(reportSheet)
	if err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", fmt.Errorf("failed to drop default sheet: %w", err)
	}

	rows := buildRows(report, meta)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return "", fmt.Errorf("failed to address row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(reportSheet, cell, &row); err != nil {
			return "", fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	path := filepath.Join(r.OutputDir, Filename(meta.PeriodName, meta.GeneratedAt, "xlsx"))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}

	slog.Info("Wrote xlsx report", "path", path, "rows", len(rows))
	return path, nil
}

// buildRows flattens the nested bucket structure into sheet rows: a title
// block, then per date a header row, per supplier its item lines and a
// subtotal, a date total, and finally the grand total.
func buildRows(report *aggregate.Report, meta Meta) [][]any {
	title := meta.Title
	if title == "" {
		title = "Laporan Penjualan"
	}

	rows := [][]any{
		{title, meta.PeriodName},
		{"Generated", meta.GeneratedAt.Format("2006-01-02 15:04")},
		{},
		{"Date", "Supplier", "Item", "Unit", "Qty", "Sell", "Cost", "Total Sell", "Total Cost", "Profit", "Budget"},
	}

	for _, date := range report.Dates {
		rows = append(rows, []any{date.Date})

		for _, supplier := range date.Suppliers {
			for _, item := range supplier.Items {
				rows = append(rows, []any{
					"",
					supplier.TradingUnitName,
					item.ProductName,
					item.Unit,
					item.Quantity,
					item.SellPrice,
					item.CostPrice,
					item.SellTotal(),
					item.CostTotal(),
					item.Profit(),
					item.Budget,
				})
			}
			rows = append(rows, []any{
				"", fmt.Sprintf("Subtotal %s", supplier.TradingUnitName), "", "", "", "", "",
				supplier.Totals.Sell, supplier.Totals.Cost, supplier.Totals.Profit, supplier.Totals.Budget,
			})
		}

		rows = append(rows, []any{
			fmt.Sprintf("Total %s", date.Date), "", "", "", "", "", "",
			date.Totals.Sell, date.Totals.Cost, date.Totals.Profit, date.Totals.Budget,
		})
		rows = append(rows, []any{})
	}

	rows = append(rows, []any{
		"Grand Total", "", "", "", "", "", "",
		report.GrandTotal.Sell, report.GrandTotal.Cost, report.GrandTotal.Profit, report.GrandTotal.Budget,
	})

	return rows
}
