package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nursyahid/dapur-ledger/internal/cli"
	"github.com/nursyahid/dapur-ledger/internal/commit"
	"github.com/nursyahid/dapur-ledger/internal/common"
	"github.com/nursyahid/dapur-ledger/internal/ledger"
	"github.com/nursyahid/dapur-ledger/internal/model"
	"github.com/nursyahid/dapur-ledger/internal/schema"
	"github.com/nursyahid/dapur-ledger/internal/validate"
	"github.com/nursyahid/dapur-ledger/internal/workset"
)

func importCmd() *cobra.Command {
	var (
		periodID       string
		locationID     string
		dateStr        string
		requireSup     bool
		autoCreate     bool
		doCommit       bool
		saveSession    string
		restoreSession string
		delay          time.Duration
	)

	cmd := &cobra.Command{
		Use:   "import [file.xlsx]",
		Short: "Import a supplier spreadsheet and reconcile it against the catalog",
		Long: `Import parses a spreadsheet, matches rows against the master catalog,
validates them, and optionally commits the valid rows to the ledger.
Invalid rows are reported with every violation; use --save-session to
park the working set and resume later with --restore-session.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if len(args) == 0 && restoreSession == "" {
				return common.NewUserError("provide a spreadsheet file or --restore-session", nil)
			}

			date := time.Now()
			if dateStr != "" {
				parsed, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --date %q (want YYYY-MM-DD): %w", dateStr, err)
				}
				date = parsed
			}

			client, err := newLedgerClient()
			if err != nil {
				return err
			}

			units, err := client.ListTradingUnits(ctx)
			if err != nil {
				return fmt.Errorf("failed to list trading units: %w", err)
			}
			products, err := client.SearchProducts(ctx, "", "")
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}

			opts := validate.Options{RequireSupplier: requireSup, TransactionLine: true}
			ws := workset.New(nil, units, products, opts)

			if restoreSession != "" {
				store, err := openSessionStore(ctx)
				if err != nil {
					return err
				}
				defer func() { _ = store.Close() }()

				snap, err := store.LoadSnapshot(ctx, restoreSession)
				if err != nil {
					if errors.Is(err, common.ErrNotFound) {
						return common.NewUserError(fmt.Sprintf("no saved session named %q", restoreSession), nil)
					}
					return fmt.Errorf("failed to load session: %w", err)
				}
				ws.Restore(snap)
				fmt.Printf("Restored session %q (%d rows, saved %s)\n",
					snap.Name, len(snap.Candidates), snap.SavedAt.Format("2006-01-02 15:04"))
			} else {
				rows, err := schema.ParseWorkbook(args[0])
				if err != nil {
					return err
				}
				ws = workset.New(rows, units, products, opts)
			}

			valid, invalid := ws.Partition()
			printImportSummary(ws.Len(), valid, invalid)

			if saveSession != "" {
				store, err := openSessionStore(ctx)
				if err != nil {
					return err
				}
				defer func() { _ = store.Close() }()

				snap := ws.Snapshot(saveSession)
				if err := store.SaveSnapshot(ctx, snap); err != nil {
					return fmt.Errorf("failed to save session: %w", err)
				}
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Saved session %q (%d rows)", saveSession, ws.Len())))
			}

			if !doCommit {
				if len(valid) > 0 {
					fmt.Println(cli.SubtleStyle.Render("Dry run; re-run with --commit to submit valid rows."))
				}
				return nil
			}

			return runCommit(ctx, client, commit.Batch{
				PeriodID:   periodID,
				LocationID: locationID,
				Date:       date,
				Records:    valid,
			}, delay, autoCreate)
		},
	}

	cmd.Flags().StringVar(&periodID, "period", "", "period ID to commit into")
	cmd.Flags().StringVar(&locationID, "location", "", "location ID to commit into")
	cmd.Flags().StringVar(&dateStr, "date", "", "transaction date (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&requireSup, "require-supplier", false, "reject rows without a resolvable supplier")
	cmd.Flags().BoolVar(&autoCreate, "auto-create", false, "create missing catalog products during commit")
	cmd.Flags().BoolVar(&doCommit, "commit", false, "submit valid rows to the ledger")
	cmd.Flags().StringVar(&saveSession, "save-session", "", "save the working set under this session name")
	cmd.Flags().StringVar(&restoreSession, "restore-session", "", "resume a previously saved session instead of reading a file")
	cmd.Flags().DurationVar(&delay, "delay", 250*time.Millisecond, "pause between committed records")

	return cmd
}

// printImportSummary reports the partition and every violation on the
// invalid rows.
func printImportSummary(total int, valid, invalid []model.CandidateRecord) {
	fmt.Println(cli.FormatTitle("Import Summary"))
	fmt.Printf("  Rows parsed: %d\n", total)
	fmt.Printf("  Valid:       %s\n", cli.SuccessStyle.Render(fmt.Sprintf("%d", len(valid))))
	fmt.Printf("  Invalid:     %s\n", cli.ErrorStyle.Render(fmt.Sprintf("%d", len(invalid))))

	if len(invalid) == 0 {
		return
	}

	fmt.Println()
	fmt.Println(cli.FormatWarning("Rows needing correction:"))
	for i := range invalid {
		for _, msg := range invalid[i].ErrorStrings() {
			fmt.Printf("  %s\n", cli.ErrorStyle.Render(msg))
		}
	}
}

// runCommit drives the batch commit with a progress bar and prints the
// final outcome, including per-record failure reasons.
func runCommit(ctx context.Context, svc ledger.Service, batch commit.Batch, delay time.Duration, autoCreate bool) error {
	if len(batch.Records) == 0 {
		fmt.Println(cli.FormatWarning("Nothing to commit: no valid rows."))
		return nil
	}

	bar := cli.NewCommitProgress(os.Stderr, len(batch.Records))
	coordinator := commit.New(svc, commit.Config{
		Throttle:   commit.FixedDelay(delay),
		OnProgress: bar.Update,
		AutoCreate: autoCreate,
	})

	result, runErr := coordinator.Run(ctx, batch)
	bar.Finish()
	fmt.Println()

	if result != nil {
		printCommitResult(result)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

func printCommitResult(result *commit.Result) {
	fmt.Println(cli.FormatTitle("Commit Result"))
	fmt.Printf("  Batch:     %s\n", cli.SubtleStyle.Render(result.BatchID))
	fmt.Printf("  Succeeded: %s\n", cli.SuccessStyle.Render(fmt.Sprintf("%d", len(result.Succeeded))))
	fmt.Printf("  Failed:    %s\n", cli.ErrorStyle.Render(fmt.Sprintf("%d", len(result.Failed))))
	if len(result.Skipped) > 0 {
		fmt.Printf("  Skipped:   %s\n", cli.WarningStyle.Render(fmt.Sprintf("%d (canceled)", len(result.Skipped))))
	}

	for _, f := range result.Failed {
		fmt.Printf("  %s\n", cli.FormatError(fmt.Sprintf("row %d %s: %s", f.Record.Row.RowIndex, f.Record.Name, f.Reason)))
	}
}
