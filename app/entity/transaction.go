package entity

import "time"

const (
	TransactionStatusPending   = "pending"
	TransactionStatusSucceeded = "succeeded"
	TransactionStatusFailed    = "failed"
)

const PaymentMethodBayarcash = "bayarcash"

type Transaction struct {
	ID   uint64
	UUID string

	OrderID    uint64
	TotalCents int64
	Status     string

	VendorChargeID    *string
	PaymentMethod     string
	PaymentMethodType string
	Note              string

	CreatedAt time.Time
	UpdatedAt time.Time
}
