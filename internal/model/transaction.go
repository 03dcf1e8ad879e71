package model

import "time"

// TransactionStatus tracks a transaction through the ledger workflow.
type TransactionStatus string

// Transaction statuses.
const (
	StatusDraft     TransactionStatus = "draft"
	StatusCompleted TransactionStatus = "completed"
)

// Transaction is a persisted procurement transaction owned by the ledger
// service, carrying its line items fully enriched.
type Transaction struct {
	ID         string
	PeriodID   string
	LocationID string
	Date       time.Time
	Status     TransactionStatus
	Lines      []TransactionLineItem
}

// TransactionLineItem is one price-snapshotted line of a transaction.
// SellPrice and CostPrice are frozen at commit time: they never silently
// track later catalog changes, an explicit sync against the master product
// is required to move them.
type TransactionLineItem struct {
	ID              string
	TransactionID   string
	ProductID       string
	ProductName     string
	TradingUnitID   string
	TradingUnitName string
	Unit            string
	Quantity        float64
	SellPrice       float64
	CostPrice       float64
	Date            time.Time
}

// SellTotal returns quantity times the snapshotted sell price.
func (l TransactionLineItem) SellTotal() float64 {
	return l.Quantity * l.SellPrice
}

// CostTotal returns quantity times the snapshotted cost price.
func (l TransactionLineItem) CostTotal() float64 {
	return l.Quantity * l.CostPrice
}

// Profit returns the keuntungan on this line: sell total minus cost total.
func (l TransactionLineItem) Profit() float64 {
	return l.SellTotal() - l.CostTotal()
}
