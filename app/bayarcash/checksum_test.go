package bayarcash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"testing"
)

func hmacHex(secret, message string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestSignPaymentIntentUsesSortedFields(t *testing.T) {
	req := &PaymentIntentRequest{
		OrderNumber:    "7",
		Amount:         "14.00",
		PayerName:      "Ali",
		PayerEmail:     "ali@example.com",
		PaymentChannel: 5,
		PortalKey:      "portal",
	}

	got := SignPaymentIntent("secret", req)
	want := hmacHex("secret", "14.00|7|ali@example.com|Ali|5")
	if got != want {
		t.Fatalf("unexpected checksum: got %s want %s", got, want)
	}
}

func TestVerifyCallbackTransactionRecord(t *testing.T) {
	values := url.Values{
		"record_type":               {"transaction"},
		"transaction_id":            {"trx_1"},
		"exchange_reference_number": {"ref_1"},
		"exchange_transaction_id":   {"ex_1"},
		"order_number":              {"7"},
		"currency":                  {"MYR"},
		"amount":                    {"14.00"},
		"payer_name":                {"Ali"},
		"payer_email":               {"ali@example.com"},
		"payer_bank_name":           {"Maybank"},
		"status":                    {"3"},
		"status_description":        {"Approved"},
		"datetime":                  {"2026-10-15 10:00:00"},
		"payment_gateway_id":        {"1"},
	}
	values.Set("checksum", SignCallback("secret", values))

	if !VerifyCallback("secret", values) {
		t.Fatal("expected valid transaction callback")
	}
	if VerifyCallback("other-secret", values) {
		t.Fatal("expected wrong secret to fail")
	}

	values.Set("status", "2")
	if VerifyCallback("secret", values) {
		t.Fatal("expected tampered status to fail")
	}
}

func TestVerifyCallbackPreTransactionRecordIgnoresOtherFields(t *testing.T) {
	values := url.Values{
		"record_type":               {"pre_transaction"},
		"exchange_reference_number": {"ref_1"},
		"order_number":              {"7"},
	}
	values.Set("checksum", hmacHex("secret", "ref_1|7|pre_transaction"))
	values.Set("transaction_id", "not-signed")

	if !VerifyCallback("secret", values) {
		t.Fatal("expected valid pre_transaction callback")
	}
}

func TestVerifyRejectsMissingChecksumOrSecret(t *testing.T) {
	values := url.Values{"order_number": {"7"}, "status": {"3"}}
	if VerifyReturn("secret", values) {
		t.Fatal("expected missing checksum to fail")
	}

	values.Set("checksum", SignReturn("", values))
	if VerifyReturn("", values) {
		t.Fatal("expected empty secret to fail")
	}

	values.Set("checksum", "not-hex")
	if VerifyReturn("secret", values) {
		t.Fatal("expected non hex checksum to fail")
	}
}

func TestVerifyReturn(t *testing.T) {
	values := url.Values{
		"method":         {"bayarcash"},
		"order_id":       {"7"},
		"order_number":   {"7"},
		"transaction_id": {"trx_1"},
		"status":         {"3"},
		"amount":         {"14.00"},
	}
	values.Set("checksum", SignReturn("secret", values))
	if !VerifyReturn("secret", values) {
		t.Fatal("expected return payload to verify")
	}
}
