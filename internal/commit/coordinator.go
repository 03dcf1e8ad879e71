// Package commit drives the batch submission of validated candidate records
// to the ledger service. Records are processed strictly in order, one at a
// time, so progress is predictable and load on the service stays bounded.
// A failing record is isolated and reported; the batch never aborts because
// of it, and nothing already committed is rolled back.
package commit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nursyahid/dapur-ledger/internal/common"
	"github.com/nursyahid/dapur-ledger/internal/ledger"
	"github.com/nursyahid/dapur-ledger/internal/model"
)

// Throttle is the injected inter-record delay policy. It is called between
// records, never before the first one, and is not a retry or correctness
// mechanism.
type Throttle func(ctx context.Context) error

// FixedDelay returns a throttle that sleeps for a fixed duration, honoring
// context cancellation.
func FixedDelay(d time.Duration) Throttle {
	return func(ctx context.Context) error {
		if d <= 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d):
			return nil
		}
	}
}

// Progress is a snapshot of the running counters. Counters only ever
// increase while a batch runs, and the snapshot is delivered after every
// record so a caller can render live feedback.
type Progress struct {
	Total     int
	Attempted int
	Succeeded int
	Failed    int
}

// ProgressFunc receives a counter snapshot after each processed record.
type ProgressFunc func(Progress)

// Success records one committed candidate.
type Success struct {
	Record        model.CandidateRecord
	ProductID     string
	TransactionID string
}

// Failure records one candidate that could not be committed, with a
// human-readable reason referencing nothing beyond this record.
type Failure struct {
	Record model.CandidateRecord
	Reason string
}

// Result is the outcome of a batch run. Succeeded and Failed are disjoint;
// Skipped holds records never attempted because the run was canceled.
type Result struct {
	BatchID   string
	Succeeded []Success
	Failed    []Failure
	Skipped   []model.CandidateRecord
	Progress  Progress
}

// Batch describes one commit run.
type Batch struct {
	PeriodID   string
	LocationID string
	Date       time.Time
	Records    []model.CandidateRecord
}

// Config holds coordinator options.
type Config struct {
	// Throttle is called between records; nil means no delay.
	Throttle Throttle
	// OnProgress, when set, receives counter snapshots after each record.
	OnProgress ProgressFunc
	// AutoCreate permits creating catalog products for pending-create
	// candidates. When false such candidates fail instead.
	AutoCreate bool
}

// Coordinator submits batches to the ledger service.
type Coordinator struct {
	svc    ledger.Service
	cfg    Config
	logger *slog.Logger
}

// New creates a coordinator with the given ledger service and options.
func New(svc ledger.Service, cfg Config) *Coordinator {
	return &Coordinator{
		svc:    svc,
		cfg:    cfg,
		logger: slog.Default().With("component", "commit"),
	}
}

// Run processes the batch sequentially. It returns a populated result even
// when the context is canceled mid-batch; in that case the remaining
// records are reported as skipped and the context error is returned
// alongside the result.
func (c *Coordinator) Run(ctx context.Context, batch Batch) (*Result, error) {
	if len(batch.Records) == 0 {
		return nil, common.ErrNoCandidates
	}

	result := &Result{
		BatchID:  uuid.NewString(),
		Progress: Progress{Total: len(batch.Records)},
	}

	c.logger.Info("Starting batch commit",
		"batch_id", result.BatchID,
		"records", len(batch.Records),
		"period_id", batch.PeriodID)

	for i := range batch.Records {
		record := batch.Records[i]

		select {
		case <-ctx.Done():
			result.Skipped = append(result.Skipped, batch.Records[i:]...)
			c.logger.Warn("Batch canceled",
				"batch_id", result.BatchID,
				"skipped", len(result.Skipped))
			return result, ctx.Err()
		default:
		}

		if i > 0 && c.cfg.Throttle != nil {
			if err := c.cfg.Throttle(ctx); err != nil {
				result.Skipped = append(result.Skipped, batch.Records[i:]...)
				return result, err
			}
		}

		result.Progress.Attempted++
		c.commitRecord(ctx, batch, record, result)

		if c.cfg.OnProgress != nil {
			c.cfg.OnProgress(result.Progress)
		}
	}

	c.logger.Info("Batch commit complete",
		"batch_id", result.BatchID,
		"succeeded", result.Progress.Succeeded,
		"failed", result.Progress.Failed)

	return result, nil
}

// commitRecord commits one candidate: resolve or create its product, then
// create and complete a single-line draft transaction. Any error marks this
// record failed and the batch moves on.
func (c *Coordinator) commitRecord(ctx context.Context, batch Batch, record model.CandidateRecord, result *Result) {
	if !record.Valid {
		c.fail(result, record, "record has unresolved validation errors")
		return
	}

	productID, err := c.ensureProduct(ctx, record)
	if err != nil {
		c.fail(result, record, err.Error())
		return
	}

	txn, err := c.svc.CreateTransaction(ctx, ledger.CreateTransactionRequest{
		PeriodID:   batch.PeriodID,
		LocationID: batch.LocationID,
		Date:       batch.Date,
		Lines: []ledger.CreateLineRequest{{
			ProductID: productID,
			Unit:      record.Unit,
			Quantity:  record.Quantity,
			SellPrice: record.SellPrice,
			CostPrice: record.CostPrice,
		}},
	})
	if err != nil {
		c.fail(result, record, fmt.Sprintf("submit failed: %v", err))
		return
	}

	if _, err := c.svc.CompleteTransaction(ctx, txn.ID); err != nil {
		// The draft exists and is not rolled back; the reason says so.
		c.fail(result, record, fmt.Sprintf("created draft %s but finalize failed: %v", txn.ID, err))
		return
	}

	result.Progress.Succeeded++
	result.Succeeded = append(result.Succeeded, Success{
		Record:        record,
		ProductID:     productID,
		TransactionID: txn.ID,
	})
}

// ensureProduct returns the catalog product ID for the record, creating the
// product from the row's raw fields when it is pending creation.
func (c *Coordinator) ensureProduct(ctx context.Context, record model.CandidateRecord) (string, error) {
	switch record.Resolution.State {
	case model.ResolutionMatched:
		return record.Resolution.Product.ID, nil

	case model.ResolutionPendingCreate:
		if !c.cfg.AutoCreate {
			return "", fmt.Errorf("product %q not in catalog and auto-create is disabled", record.Name)
		}
		if record.Resolution.TradingUnit == nil {
			return "", fmt.Errorf("product %q needs a supplier before it can be created", record.Name)
		}

		product, err := c.svc.CreateProduct(ctx, ledger.CreateProductRequest{
			Name:          record.Name,
			Unit:          record.Unit,
			SellPrice:     record.SellPrice,
			CostPrice:     record.CostPrice,
			TradingUnitID: record.Resolution.TradingUnit.ID,
		})
		if err != nil {
			return "", fmt.Errorf("create product %q failed: %v", record.Name, err)
		}
		return product.ID, nil

	default:
		return "", fmt.Errorf("product %q is unresolved", record.Name)
	}
}

func (c *Coordinator) fail(result *Result, record model.CandidateRecord, reason string) {
	result.Progress.Failed++
	result.Failed = append(result.Failed, Failure{Record: record, Reason: reason})
	c.logger.Warn("Record failed to commit",
		"row", record.Row.RowIndex,
		"name", record.Name,
		"reason", reason)
}
