package ledger

import (
	"context"

	"github.com/nursyahid/dapur-ledger/internal/model"
)

// MockService is a mock implementation of Service for testing.
type MockService struct {
	// Functions that can be set by tests to control behavior
	SearchProductsFn      func(ctx context.Context, query, tradingUnitID string) ([]model.Product, error)
	CreateProductFn       func(ctx context.Context, req CreateProductRequest) (*model.Product, error)
	CreateTransactionFn   func(ctx context.Context, req CreateTransactionRequest) (*model.Transaction, error)
	CompleteTransactionFn func(ctx context.Context, id string) (*model.Transaction, error)
	ListTransactionsFn    func(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	GetTransactionByIDFn  func(ctx context.Context, id string) (*model.Transaction, error)
	ListTradingUnitsFn    func(ctx context.Context) ([]model.TradingUnit, error)
	ListPeriodsFn         func(ctx context.Context) ([]model.Period, error)

	// Call tracking
	CreateProductCalls     []CreateProductRequest
	CreateTransactionCalls []CreateTransactionRequest
	CompleteCalls          []string
	SearchCalls            int
}

var _ Service = (*MockService)(nil)

// NewMockService creates a new mock ledger service.
func NewMockService() *MockService {
	return &MockService{}
}

// SearchProducts implements Service.SearchProducts.
func (m *MockService) SearchProducts(ctx context.Context, query, tradingUnitID string) ([]model.Product, error) {
	m.SearchCalls++
	if m.SearchProductsFn != nil {
		return m.SearchProductsFn(ctx, query, tradingUnitID)
	}
	return []model.Product{}, nil
}

// CreateProduct implements Service.CreateProduct.
func (m *MockService) CreateProduct(ctx context.Context, req CreateProductRequest) (*model.Product, error) {
	m.CreateProductCalls = append(m.CreateProductCalls, req)
	if m.CreateProductFn != nil {
		return m.CreateProductFn(ctx, req)
	}
	return &model.Product{
		ID:            "mock-product",
		Name:          req.Name,
		Unit:          req.Unit,
		SellPrice:     req.SellPrice,
		CostPrice:     req.CostPrice,
		TradingUnitID: req.TradingUnitID,
		Active:        true,
	}, nil
}

// CreateTransaction implements Service.CreateTransaction.
func (m *MockService) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*model.Transaction, error) {
	m.CreateTransactionCalls = append(m.CreateTransactionCalls, req)
	if m.CreateTransactionFn != nil {
		return m.CreateTransactionFn(ctx, req)
	}
	return &model.Transaction{ID: "mock-transaction", PeriodID: req.PeriodID, Date: req.Date, Status: model.StatusDraft}, nil
}

// CompleteTransaction implements Service.CompleteTransaction.
func (m *MockService) CompleteTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	m.CompleteCalls = append(m.CompleteCalls, id)
	if m.CompleteTransactionFn != nil {
		return m.CompleteTransactionFn(ctx, id)
	}
	return &model.Transaction{ID: id, Status: model.StatusCompleted}, nil
}

// ListTransactions implements Service.ListTransactions.
func (m *MockService) ListTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error) {
	if m.ListTransactionsFn != nil {
		return m.ListTransactionsFn(ctx, filter)
	}
	return []model.Transaction{}, nil
}

// GetTransactionByID implements Service.GetTransactionByID.
func (m *MockService) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	if m.GetTransactionByIDFn != nil {
		return m.GetTransactionByIDFn(ctx, id)
	}
	return &model.Transaction{ID: id}, nil
}

// ListTradingUnits implements Service.ListTradingUnits.
func (m *MockService) ListTradingUnits(ctx context.Context) ([]model.TradingUnit, error) {
	if m.ListTradingUnitsFn != nil {
		return m.ListTradingUnitsFn(ctx)
	}
	return []model.TradingUnit{}, nil
}

// ListPeriods implements Service.ListPeriods.
func (m *MockService) ListPeriods(ctx context.Context) ([]model.Period, error) {
	if m.ListPeriodsFn != nil {
		return m.ListPeriodsFn(ctx)
	}
	return []model.Period{}, nil
}
