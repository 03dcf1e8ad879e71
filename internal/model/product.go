package model

// Product represents a catalog item (barang) owned by a trading unit.
// Prices here are the current master prices; committed transaction lines
// snapshot their own copies and do not track later catalog changes.
type Product struct {
	ID            string
	Name          string
	Unit          string
	SellPrice     float64
	CostPrice     float64
	TradingUnitID string
	Active        bool
}
