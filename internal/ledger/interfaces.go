// Package ledger provides the client for the persistence/catalog service
// that owns master data and committed transactions.
package ledger

import (
	"context"
	"time"

	"github.com/nursyahid/dapur-ledger/internal/model"
)

// TransactionFilter narrows ListTransactions queries.
type TransactionFilter struct {
	PeriodID   string
	LocationID string
	From       *time.Time
	To         *time.Time
}

// CreateProductRequest carries the fields for a new catalog entry.
type CreateProductRequest struct {
	Name          string  `json:"name"`
	Unit          string  `json:"unit"`
	SellPrice     float64 `json:"sell_price"`
	CostPrice     float64 `json:"cost_price"`
	TradingUnitID string  `json:"trading_unit_id"`
}

// CreateLineRequest is one line of a new transaction. Prices are snapshotted
// by the service at creation time.
type CreateLineRequest struct {
	ProductID string  `json:"product_id"`
	Unit      string  `json:"unit"`
	Quantity  float64 `json:"quantity"`
	SellPrice float64 `json:"sell_price"`
	CostPrice float64 `json:"cost_price"`
}

// CreateTransactionRequest creates a draft transaction with its lines.
type CreateTransactionRequest struct {
	PeriodID   string              `json:"period_id"`
	LocationID string              `json:"location_id"`
	Date       time.Time           `json:"date"`
	Lines      []CreateLineRequest `json:"lines"`
}

// Service defines the contract with the ledger backend. This interface
// allows for easy mocking in tests and swapping transports.
type Service interface {
	SearchProducts(ctx context.Context, query, tradingUnitID string) ([]model.Product, error)
	CreateProduct(ctx context.Context, req CreateProductRequest) (*model.Product, error)
	CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*model.Transaction, error)
	// CompleteTransaction finalizes a draft; the operation is idempotent on
	// the service side.
	CompleteTransaction(ctx context.Context, id string) (*model.Transaction, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	ListTradingUnits(ctx context.Context) ([]model.TradingUnit, error)
	ListPeriods(ctx context.Context) ([]model.Period, error)
}
