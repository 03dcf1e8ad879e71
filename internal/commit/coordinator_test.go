package commit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nursyahid/dapur-ledger/internal/common"
	"github.com/nursyahid/dapur-ledger/internal/ledger"
	"github.com/nursyahid/dapur-ledger/internal/model"
)

func matchedRecord(rowIndex int, name, productID string) model.CandidateRecord {
	return model.CandidateRecord{
		Row:       model.ImportRow{RowIndex: rowIndex},
		Name:      name,
		Unit:      "pcs",
		SellPrice: 5000,
		CostPrice: 4000,
		Quantity:  2,
		Valid:     true,
		Resolution: model.Resolution{
			State:   model.ResolutionMatched,
			Product: &model.Product{ID: productID, Name: name},
		},
	}
}

func pendingCreateRecord(rowIndex int, name string) model.CandidateRecord {
	return model.CandidateRecord{
		Row:       model.ImportRow{RowIndex: rowIndex},
		Name:      name,
		Unit:      "pcs",
		SellPrice: 4000,
		CostPrice: 3000,
		Quantity:  1,
		Valid:     true,
		Resolution: model.Resolution{
			State:       model.ResolutionPendingCreate,
			TradingUnit: &model.TradingUnit{ID: "tu-1", Name: "UD Sumber Makmur"},
		},
	}
}

func testBatch(records ...model.CandidateRecord) Batch {
	return Batch{
		PeriodID:   "period-1",
		LocationID: "loc-1",
		Date:       time.Date(2024, 1, 10, 0, 0, 0, 0, time.Local),
		Records:    records,
	}
}

func TestRunEmptyBatch(t *testing.T) {
	c := New(ledger.NewMockService(), Config{})
	_, err := c.Run(context.Background(), testBatch())
	assert.ErrorIs(t, err, common.ErrNoCandidates)
}

func TestRunAllSucceed(t *testing.T) {
	mock := ledger.NewMockService()
	txnSeq := 0
	mock.CreateTransactionFn = func(_ context.Context, req ledger.CreateTransactionRequest) (*model.Transaction, error) {
		txnSeq++
		return &model.Transaction{ID: fmt.Sprintf("txn-%d", txnSeq), Status: model.StatusDraft}, nil
	}

	c := New(mock, Config{})
	result, err := c.Run(context.Background(), testBatch(
		matchedRecord(2, "Tempe", "p-1"),
		matchedRecord(3, "Tahu", "p-2"),
	))
	require.NoError(t, err)

	assert.Len(t, result.Succeeded, 2)
	assert.Empty(t, result.Failed)
	assert.Empty(t, result.Skipped)
	assert.NotEmpty(t, result.BatchID)
	assert.Equal(t, Progress{Total: 2, Attempted: 2, Succeeded: 2}, result.Progress)

	// One single-line draft per record, each completed.
	require.Len(t, mock.CreateTransactionCalls, 2)
	assert.Len(t, mock.CreateTransactionCalls[0].Lines, 1)
	assert.Equal(t, "p-1", mock.CreateTransactionCalls[0].Lines[0].ProductID)
	assert.Equal(t, []string{"txn-1", "txn-2"}, mock.CompleteCalls)
	assert.Equal(t, "txn-1", result.Succeeded[0].TransactionID)
}

func TestRunIsolatesFailures(t *testing.T) {
	mock := ledger.NewMockService()
	mock.CreateTransactionFn = func(_ context.Context, req ledger.CreateTransactionRequest) (*model.Transaction, error) {
		if req.Lines[0].ProductID == "p-2" {
			return nil, fmt.Errorf("%w: duplicate line", common.ErrLedgerRejected)
		}
		return &model.Transaction{ID: "txn-" + req.Lines[0].ProductID}, nil
	}

	c := New(mock, Config{})
	result, err := c.Run(context.Background(), testBatch(
		matchedRecord(2, "Tempe", "p-1"),
		matchedRecord(3, "Tahu", "p-2"),
		matchedRecord(4, "Sayur", "p-3"),
	))
	require.NoError(t, err)

	assert.Len(t, result.Succeeded, 2)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, 3, result.Failed[0].Record.Row.RowIndex)
	assert.Contains(t, result.Failed[0].Reason, "duplicate line")
	assert.Equal(t, Progress{Total: 3, Attempted: 3, Succeeded: 2, Failed: 1}, result.Progress)

	// The failure did not stop the third record.
	assert.Equal(t, "p-3", result.Succeeded[1].ProductID)
}

func TestRunInvalidRecordFails(t *testing.T) {
	record := matchedRecord(2, "Tempe", "p-1")
	record.Valid = false

	mock := ledger.NewMockService()
	c := New(mock, Config{})
	result, err := c.Run(context.Background(), testBatch(record))
	require.NoError(t, err)

	require.Len(t, result.Failed, 1)
	assert.Contains(t, result.Failed[0].Reason, "validation")
	assert.Empty(t, mock.CreateTransactionCalls)
}

func TestRunAutoCreate(t *testing.T) {
	t.Run("disabled fails the record", func(t *testing.T) {
		mock := ledger.NewMockService()
		c := New(mock, Config{AutoCreate: false})
		result, err := c.Run(context.Background(), testBatch(pendingCreateRecord(2, "Sayur Asem")))
		require.NoError(t, err)

		require.Len(t, result.Failed, 1)
		assert.Contains(t, result.Failed[0].Reason, "auto-create is disabled")
		assert.Empty(t, mock.CreateProductCalls)
	})

	t.Run("enabled creates then commits", func(t *testing.T) {
		mock := ledger.NewMockService()
		mock.CreateProductFn = func(_ context.Context, req ledger.CreateProductRequest) (*model.Product, error) {
			return &model.Product{ID: "p-new", Name: req.Name, TradingUnitID: req.TradingUnitID}, nil
		}

		c := New(mock, Config{AutoCreate: true})
		result, err := c.Run(context.Background(), testBatch(pendingCreateRecord(2, "Sayur Asem")))
		require.NoError(t, err)

		require.Len(t, result.Succeeded, 1)
		assert.Equal(t, "p-new", result.Succeeded[0].ProductID)
		require.Len(t, mock.CreateProductCalls, 1)
		assert.Equal(t, "Sayur Asem", mock.CreateProductCalls[0].Name)
		assert.Equal(t, "tu-1", mock.CreateProductCalls[0].TradingUnitID)
	})

	t.Run("unresolved never commits", func(t *testing.T) {
		record := pendingCreateRecord(2, "Sayur Asem")
		record.Resolution = model.Resolution{State: model.ResolutionUnresolved}

		mock := ledger.NewMockService()
		c := New(mock, Config{AutoCreate: true})
		result, err := c.Run(context.Background(), testBatch(record))
		require.NoError(t, err)

		require.Len(t, result.Failed, 1)
		assert.Contains(t, result.Failed[0].Reason, "unresolved")
	})
}

func TestRunFinalizeFailureKeepsDraft(t *testing.T) {
	mock := ledger.NewMockService()
	mock.CompleteTransactionFn = func(_ context.Context, id string) (*model.Transaction, error) {
		return nil, fmt.Errorf("%w: period closed", common.ErrLedgerRejected)
	}

	c := New(mock, Config{})
	result, err := c.Run(context.Background(), testBatch(matchedRecord(2, "Tempe", "p-1")))
	require.NoError(t, err)

	require.Len(t, result.Failed, 1)
	assert.Contains(t, result.Failed[0].Reason, "finalize failed")
	assert.Contains(t, result.Failed[0].Reason, "mock-transaction")
}

func TestRunCancellationSkipsRemainder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	mock := ledger.NewMockService()
	mock.CreateTransactionFn = func(_ context.Context, req ledger.CreateTransactionRequest) (*model.Transaction, error) {
		cancel() // cancel after the first record is in flight
		return &model.Transaction{ID: "txn-1"}, nil
	}

	c := New(mock, Config{})
	result, err := c.Run(ctx, testBatch(
		matchedRecord(2, "Tempe", "p-1"),
		matchedRecord(3, "Tahu", "p-2"),
		matchedRecord(4, "Sayur", "p-3"),
	))
	assert.ErrorIs(t, err, context.Canceled)

	require.NotNil(t, result)
	assert.Len(t, result.Succeeded, 1)
	assert.Len(t, result.Skipped, 2)
	assert.Equal(t, 3, result.Skipped[0].Row.RowIndex)
	assert.Equal(t, 1, result.Progress.Attempted)
}

func TestRunThrottleBetweenRecordsOnly(t *testing.T) {
	var calls int
	throttle := func(context.Context) error {
		calls++
		return nil
	}

	c := New(ledger.NewMockService(), Config{Throttle: throttle})
	_, err := c.Run(context.Background(), testBatch(
		matchedRecord(2, "Tempe", "p-1"),
		matchedRecord(3, "Tahu", "p-2"),
		matchedRecord(4, "Sayur", "p-3"),
	))
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRunProgressCallback(t *testing.T) {
	var snapshots []Progress
	c := New(ledger.NewMockService(), Config{
		OnProgress: func(p Progress) { snapshots = append(snapshots, p) },
	})

	_, err := c.Run(context.Background(), testBatch(
		matchedRecord(2, "Tempe", "p-1"),
		matchedRecord(3, "Tahu", "p-2"),
	))
	require.NoError(t, err)

	require.Len(t, snapshots, 2)
	assert.Equal(t, Progress{Total: 2, Attempted: 1, Succeeded: 1}, snapshots[0])
	assert.Equal(t, Progress{Total: 2, Attempted: 2, Succeeded: 2}, snapshots[1])
}

func TestFixedDelay(t *testing.T) {
	t.Run("zero is a no-op", func(t *testing.T) {
		assert.NoError(t, FixedDelay(0)(context.Background()))
	})

	t.Run("honors cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, FixedDelay(time.Minute)(ctx), context.Canceled)
	})
}
