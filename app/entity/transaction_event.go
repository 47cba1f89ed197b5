package entity

import "time"

type TransactionEvent struct {
	ID uint64

	TransactionID uint64

	EventType string
	Source    string

	OldStatus *string
	NewStatus string

	CreatedAt time.Time
}
