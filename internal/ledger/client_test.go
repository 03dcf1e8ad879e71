package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nursyahid/dapur-ledger/internal/common"
	"github.com/nursyahid/dapur-ledger/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)

	// Keep retries fast in tests.
	client.retryOpts.InitialDelay = time.Millisecond
	client.retryOpts.MaxDelay = 5 * time.Millisecond

	return client, server
}

func TestConfigValidate(t *testing.T) {
	assert.Error(t, (&Config{APIKey: "k"}).Validate())
	assert.Error(t, (&Config{BaseURL: "http://x"}).Validate())
	assert.NoError(t, (&Config{BaseURL: "http://x", APIKey: "k"}).Validate())
}

func TestSearchProducts(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/products", r.URL.Path)
		assert.Equal(t, "tempe", r.URL.Query().Get("query"))
		assert.Equal(t, "tu-1", r.URL.Query().Get("trading_unit_id"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode([]model.Product{
			{ID: "p-1", Name: "Tempe", SellPrice: 5000},
		})
	})

	products, err := client.SearchProducts(context.Background(), "tempe", "tu-1")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p-1", products[0].ID)
}

func TestCreateProductValidation(t *testing.T) {
	client, _ := newTestClient(t, func(http.ResponseWriter, *http.Request) {})

	_, err := client.CreateProduct(context.Background(), CreateProductRequest{TradingUnitID: "tu-1"})
	assert.ErrorContains(t, err, "name is required")

	_, err = client.CreateProduct(context.Background(), CreateProductRequest{Name: "Tempe"})
	assert.ErrorContains(t, err, "trading unit ID is required")
}

func TestCreateTransaction(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/transactions", r.URL.Path)

		var req CreateTransactionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "period-1", req.PeriodID)
		require.Len(t, req.Lines, 1)
		assert.Equal(t, "p-1", req.Lines[0].ProductID)

		_ = json.NewEncoder(w).Encode(model.Transaction{ID: "txn-1", Status: model.StatusDraft})
	})

	txn, err := client.CreateTransaction(context.Background(), CreateTransactionRequest{
		PeriodID: "period-1",
		Lines:    []CreateLineRequest{{ProductID: "p-1", Quantity: 2, SellPrice: 5000}},
	})
	require.NoError(t, err)
	assert.Equal(t, "txn-1", txn.ID)

	_, err = client.CreateTransaction(context.Background(), CreateTransactionRequest{})
	assert.ErrorContains(t, err, "at least one line")
}

func TestCompleteTransaction(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/transactions/txn-1/complete", r.URL.Path)
		_ = json.NewEncoder(w).Encode(model.Transaction{ID: "txn-1", Status: model.StatusCompleted})
	})

	txn, err := client.CompleteTransaction(context.Background(), "txn-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, txn.Status)
}

func TestListTransactionsFilter(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.Local)

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "period-1", q.Get("period_id"))
		assert.Equal(t, "2024-01-01", q.Get("from"))
		assert.Equal(t, "2024-01-31", q.Get("to"))
		_ = json.NewEncoder(w).Encode([]model.Transaction{{ID: "txn-1"}})
	})

	txns, err := client.ListTransactions(context.Background(), TransactionFilter{
		PeriodID: "period-1",
		From:     &from,
		To:       &to,
	})
	require.NoError(t, err)
	assert.Len(t, txns, 1)
}

func TestNotFoundIsSentinel(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetTransactionByID(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestServerErrorRetries(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode([]model.TradingUnit{{ID: "tu-1"}})
	})

	units, err := client.ListTradingUnits(context.Background())
	require.NoError(t, err)
	assert.Len(t, units, 1)
	assert.Equal(t, 3, calls)
}

func TestCreateTransactionNotReplayedOnServerError(t *testing.T) {
	var creates int
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		creates++
		if creates == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(model.Transaction{ID: "txn-1"})
	})

	// The server may have persisted the draft before answering 500, so the
	// call must surface the error instead of submitting a second draft.
	_, err := client.CreateTransaction(context.Background(), CreateTransactionRequest{
		Lines: []CreateLineRequest{{ProductID: "p-1", Quantity: 1, SellPrice: 5000}},
	})
	assert.ErrorIs(t, err, common.ErrLedgerConnection)
	assert.Equal(t, 1, creates)
}

func TestCreateProductNotReplayedOnServerError(t *testing.T) {
	var creates int
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		creates++
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.CreateProduct(context.Background(), CreateProductRequest{
		Name:          "Tempe",
		TradingUnitID: "tu-1",
	})
	assert.ErrorIs(t, err, common.ErrLedgerConnection)
	assert.Equal(t, 1, creates)
}

func TestCreateRetriesOnRateLimit(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(model.Transaction{ID: "txn-1"})
	})

	txn, err := client.CreateTransaction(context.Background(), CreateTransactionRequest{
		Lines: []CreateLineRequest{{ProductID: "p-1", Quantity: 1, SellPrice: 5000}},
	})
	require.NoError(t, err)
	assert.Equal(t, "txn-1", txn.ID)
	assert.Equal(t, 2, calls)
}

func TestCompleteTransactionRetriesOnServerError(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(model.Transaction{ID: "txn-1", Status: model.StatusCompleted})
	})

	txn, err := client.CompleteTransaction(context.Background(), "txn-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, txn.Status)
	assert.Equal(t, 2, calls)
}

func TestClientErrorDoesNotRetry(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte("period is closed"))
	})

	_, err := client.ListPeriods(context.Background())
	assert.ErrorIs(t, err, common.ErrLedgerRejected)
	assert.ErrorContains(t, err, "period is closed")
	assert.Equal(t, 1, calls)
}
