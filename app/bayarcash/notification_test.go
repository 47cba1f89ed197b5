package bayarcash

import (
	"errors"
	"net/url"
	"testing"
)

func TestDecodeCallbackPreTransaction(t *testing.T) {
	notice, err := DecodeCallback(url.Values{
		"record_type":               {"pre_transaction"},
		"order_number":              {"7"},
		"exchange_reference_number": {" ref_1 "},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pre, ok := notice.(*PreTransactionNotice)
	if !ok {
		t.Fatalf("expected pre transaction notice, got %T", notice)
	}
	if pre.ExchangeReferenceNumber != "ref_1" || pre.OrderNumber != "7" {
		t.Fatalf("unexpected notice: %+v", pre)
	}
}

func TestDecodeCallbackTransaction(t *testing.T) {
	notice, err := DecodeCallback(url.Values{
		"record_type":        {"transaction"},
		"order_number":       {"7"},
		"status":             {"3"},
		"transaction_id":     {"trx_1"},
		"payment_gateway_id": {"1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	trx, ok := notice.(*TransactionNotice)
	if !ok {
		t.Fatalf("expected transaction notice, got %T", notice)
	}
	if trx.Status != StatusSuccess || trx.TransactionID != "trx_1" || trx.PaymentGatewayID != "1" {
		t.Fatalf("unexpected notice: %+v", trx)
	}
}

func TestDecodeCallbackUnknownRecordType(t *testing.T) {
	if _, err := DecodeCallback(url.Values{"record_type": {"refund"}}); !errors.Is(err, ErrUnknownRecordType) {
		t.Fatalf("expected ErrUnknownRecordType, got %v", err)
	}
}

func TestDecodeReturnFallsBackToOrderNumber(t *testing.T) {
	notice := DecodeReturn(url.Values{"order_number": {"9"}, "status": {"1"}})
	if notice.OrderID != "9" || notice.Status != StatusPending {
		t.Fatalf("unexpected notice: %+v", notice)
	}

	notice = DecodeReturn(url.Values{"order_id": {"7"}, "order_number": {"9"}})
	if notice.OrderID != "7" {
		t.Fatalf("expected order_id to win, got %s", notice.OrderID)
	}
}
