package bayarcash

import (
	"errors"
	"net/url"
	"strings"
)

const (
	RecordTypePreTransaction = "pre_transaction"
	RecordTypeTransaction    = "transaction"
)

var ErrUnknownRecordType = errors.New("unknown callback record type")

// Notice is a decoded webhook payload: either *PreTransactionNotice or *TransactionNotice.
type Notice interface {
	RecordType() string
}

// PreTransactionNotice arrives before the payer completes payment and never
// carries a final status.
type PreTransactionNotice struct {
	OrderNumber             string
	ExchangeReferenceNumber string
	TransactionID           string
}

func (*PreTransactionNotice) RecordType() string { return RecordTypePreTransaction }

type TransactionNotice struct {
	OrderNumber             string
	TransactionID           string
	ExchangeReferenceNumber string
	ExchangeTransactionID   string
	Status                  StatusCode
	StatusDescription       string
	PaymentGatewayID        string
}

func (*TransactionNotice) RecordType() string { return RecordTypeTransaction }

// ReturnNotice is what the gateway appends to the browser return URL.
// It always carries a final status.
type ReturnNotice struct {
	OrderID                 string
	Method                  string
	TransactionID           string
	ExchangeReferenceNumber string
	ExchangeTransactionID   string
	Status                  StatusCode
	StatusDescription       string
}

func DecodeCallback(values url.Values) (Notice, error) {
	switch field(values, "record_type") {
	case RecordTypePreTransaction:
		return &PreTransactionNotice{
			OrderNumber:             field(values, "order_number"),
			ExchangeReferenceNumber: field(values, "exchange_reference_number"),
			TransactionID:           field(values, "transaction_id"),
		}, nil
	case RecordTypeTransaction:
		return &TransactionNotice{
			OrderNumber:             field(values, "order_number"),
			TransactionID:           field(values, "transaction_id"),
			ExchangeReferenceNumber: field(values, "exchange_reference_number"),
			ExchangeTransactionID:   field(values, "exchange_transaction_id"),
			Status:                  ParseStatus(values.Get("status")),
			StatusDescription:       field(values, "status_description"),
			PaymentGatewayID:        field(values, "payment_gateway_id"),
		}, nil
	default:
		return nil, ErrUnknownRecordType
	}
}

func DecodeReturn(values url.Values) *ReturnNotice {
	orderID := field(values, "order_id")
	if orderID == "" {
		orderID = field(values, "order_number")
	}
	return &ReturnNotice{
		OrderID:                 orderID,
		Method:                  field(values, "method"),
		TransactionID:           field(values, "transaction_id"),
		ExchangeReferenceNumber: field(values, "exchange_reference_number"),
		ExchangeTransactionID:   field(values, "exchange_transaction_id"),
		Status:                  ParseStatus(values.Get("status")),
		StatusDescription:       field(values, "status_description"),
	}
}

func field(values url.Values, key string) string {
	return strings.TrimSpace(values.Get(key))
}
