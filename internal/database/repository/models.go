package repository

import "time"

// ConfirmedOrder is one journal row: an order this operator confirmed,
// kept locally so a session can be reviewed after the fact. The backend
// stays authoritative for process state; the journal is an audit trail.
type ConfirmedOrder struct {
	ID              string
	ProcessID       int64
	ProcessOrderID  int64
	OrderID         int64
	Products        string // "name(qty); name(qty)" summary
	StartedAt       *time.Time
	FinishedAt      time.Time
	DurationSeconds *int64
	LabelURL        *string
	CreatedAt       time.Time
}
