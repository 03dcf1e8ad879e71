package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nursyahid/dapur-ledger/internal/aggregate"
	"github.com/nursyahid/dapur-ledger/internal/cli"
	"github.com/nursyahid/dapur-ledger/internal/common"
	"github.com/nursyahid/dapur-ledger/internal/export"
	"github.com/nursyahid/dapur-ledger/internal/export/sheets"
	"github.com/nursyahid/dapur-ledger/internal/ledger"
	"github.com/nursyahid/dapur-ledger/internal/model"
)

func reportCmd() *cobra.Command {
	var (
		periodName string
		fromStr    string
		toStr      string
		locationID string
		order      string
		format     string
		outDir     string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate the date/supplier sales recap",
		Long: `Report pulls completed transactions from the ledger, folds their lines
into the nested date and supplier summary, and renders it as an xlsx
workbook or a Google Sheets spreadsheet.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if order != string(aggregate.OrderAscending) && order != string(aggregate.OrderDescending) {
				return common.NewUserError(fmt.Sprintf("invalid --order %q (want asc or desc)", order), nil)
			}

			client, err := newLedgerClient()
			if err != nil {
				return err
			}

			filter := ledger.TransactionFilter{LocationID: locationID}

			var period *model.Period
			if periodName != "" {
				period, err = findPeriod(cmd, client, periodName)
				if err != nil {
					return err
				}
				filter.PeriodID = period.ID
			}
			if fromStr != "" {
				from, err := time.ParseInLocation("2006-01-02", fromStr, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --from %q: %w", fromStr, err)
				}
				filter.From = &from
			}
			if toStr != "" {
				to, err := time.ParseInLocation("2006-01-02", toStr, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --to %q: %w", toStr, err)
				}
				filter.To = &to
			}

			transactions, err := client.ListTransactions(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to list transactions: %w", err)
			}

			items := flattenLines(transactions)
			if len(items) == 0 {
				fmt.Println(cli.FormatWarning("No transaction lines match the filter."))
				return nil
			}

			catalog, err := client.SearchProducts(ctx, "", "")
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}

			report := aggregate.Aggregate(items, aggregate.Options{
				Order:   aggregate.Order(order),
				Catalog: catalog,
			})

			meta := export.Meta{
				Title:       "Laporan Penjualan",
				GeneratedAt: time.Now(),
			}
			if period != nil {
				meta.PeriodName = period.Name
			}

			renderer, err := newRenderer(cmd, format, outDir)
			if err != nil {
				return err
			}

			dest, err := renderer.Render(ctx, report, meta)
			if err != nil {
				return fmt.Errorf("failed to render report: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Report written to %s", dest)))
			fmt.Printf("  Dates: %d  Items: %d  Profit: %.2f\n",
				len(report.Dates), report.ItemCount, report.GrandTotal.Profit)
			return nil
		},
	}

	cmd.Flags().StringVar(&periodName, "period", "", "period name to report on")
	cmd.Flags().StringVar(&fromStr, "from", "", "start date filter (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toStr, "to", "", "end date filter (YYYY-MM-DD)")
	cmd.Flags().StringVar(&locationID, "location", "", "location ID filter")
	cmd.Flags().StringVar(&order, "order", string(aggregate.OrderDescending), "date ordering (asc, desc)")
	cmd.Flags().StringVar(&format, "format", "xlsx", "output format (xlsx, sheets)")
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory for xlsx reports")

	return cmd
}

// findPeriod resolves a period by name, case-insensitively.
func findPeriod(cmd *cobra.Command, client *ledger.Client, name string) (*model.Period, error) {
	periods, err := client.ListPeriods(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}

	for i := range periods {
		if strings.EqualFold(periods[i].Name, name) {
			return &periods[i], nil
		}
	}
	return nil, common.NewUserError(fmt.Sprintf("no period named %q", name), nil)
}

// flattenLines collects every line item across transactions, stamping the
// transaction date onto lines that carry none of their own.
func flattenLines(transactions []model.Transaction) []model.TransactionLineItem {
	var items []model.TransactionLineItem
	for _, txn := range transactions {
		for _, line := range txn.Lines {
			if line.Date.IsZero() {
				line.Date = txn.Date
			}
			items = append(items, line)
		}
	}
	return items
}

func newRenderer(cmd *cobra.Command, format, outDir string) (export.Renderer, error) {
	switch format {
	case "xlsx":
		return &export.XLSXRenderer{OutputDir: outDir}, nil
	case "sheets":
		cfg := sheets.DefaultConfig()
		if err := cfg.LoadFromEnv(); err != nil {
			return nil, fmt.Errorf("sheets output not configured: %w", err)
		}
		return sheets.NewWriter(cmd.Context(), cfg, slog.Default())
	default:
		return nil, common.NewUserError(fmt.Sprintf("invalid --format %q (want xlsx or sheets)", format), nil)
	}
}
