// Package model defines the core domain types shared across the application.
package model

import "strings"

// TradingUnit represents a supplier (UD) that kitchens procure goods from.
// Trading units are owned by the ledger service; this side treats them as
// read-only reference data.
type TradingUnit struct {
	ID          string
	Name        string
	ShortCode   string
	BankName    string
	BankAccount string
	Active      bool
}

// DisplayName returns the trimmed name used wherever a supplier is shown or
// stamped onto a record.
func (u *TradingUnit) DisplayName() string {
	return strings.TrimSpace(u.Name)
}
