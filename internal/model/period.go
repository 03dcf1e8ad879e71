package model

import "time"

// Period is a bounded reporting date range transactions are filtered against.
// The ledger service owns period membership; clients only pass period IDs.
type Period struct {
	ID        string
	Name      string
	StartDate time.Time
	EndDate   time.Time
}
