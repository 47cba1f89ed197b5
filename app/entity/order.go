package entity

import "time"

const (
	OrderPaymentUnpaid            = "unpaid"
	OrderPaymentPending           = "pending"
	OrderPaymentPaid              = "paid"
	OrderPaymentFailed            = "failed"
	OrderPaymentRefunded          = "refunded"
	OrderPaymentPartiallyRefunded = "partially_refunded"
)

// Metadata keys under which gateway-supplied identifiers are stored on the order.
const (
	MetaTransactionID           = "bayarcash_transaction_id"
	MetaExchangeReferenceNumber = "bayarcash_exchange_reference_number"
	MetaExchangeTransactionID   = "bayarcash_exchange_transaction_id"
	MetaStatusDescription       = "bayarcash_status_description"
	MetaPaymentGatewayID        = "bayarcash_payment_gateway_id"
)

type Order struct {
	ID uint64

	Mode          string
	PaymentStatus string

	TotalCents int64
	Currency   string

	CustomerFirstName string
	CustomerFullName  string
	CustomerEmail     string
	BillingPhone      string
	ShippingPhone     string

	Metadata map[string]string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TerminalProtected reports whether the order has reached a payment state
// that no gateway notification may change again.
func (o *Order) TerminalProtected() bool {
	switch o.PaymentStatus {
	case OrderPaymentPaid, OrderPaymentRefunded, OrderPaymentPartiallyRefunded:
		return true
	default:
		return false
	}
}

func (o *Order) SetMeta(key, value string) {
	if value == "" {
		return
	}
	if o.Metadata == nil {
		o.Metadata = map[string]string{}
	}
	o.Metadata[key] = value
}
