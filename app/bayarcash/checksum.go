package bayarcash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

var (
	paymentIntentFields = []string{
		"amount", "order_number", "payer_email", "payer_name", "payment_channel",
	}
	transactionCallbackFields = []string{
		"amount", "currency", "datetime", "exchange_reference_number", "exchange_transaction_id",
		"order_number", "payer_bank_name", "payer_email", "payer_name", "record_type",
		"status", "status_description", "transaction_id",
	}
	preTransactionCallbackFields = []string{
		"exchange_reference_number", "order_number", "record_type",
	}
	returnURLFields = []string{
		"amount", "currency", "exchange_reference_number", "exchange_transaction_id",
		"order_number", "payer_bank_name", "status", "status_description", "transaction_id",
	}
)

func SignPaymentIntent(secret string, req *PaymentIntentRequest) string {
	values := url.Values{}
	values.Set("amount", req.Amount)
	values.Set("order_number", req.OrderNumber)
	values.Set("payer_email", req.PayerEmail)
	values.Set("payer_name", req.PayerName)
	values.Set("payment_channel", strconv.Itoa(req.PaymentChannel))
	return checksum(secret, values, paymentIntentFields)
}

// VerifyCallback checks a webhook payload, choosing the field set by record type.
func VerifyCallback(secret string, values url.Values) bool {
	fields := transactionCallbackFields
	if strings.TrimSpace(values.Get("record_type")) == RecordTypePreTransaction {
		fields = preTransactionCallbackFields
	}
	return verify(secret, values, fields)
}

func VerifyReturn(secret string, values url.Values) bool {
	return verify(secret, values, returnURLFields)
}

// SignCallback produces the checksum the gateway would attach to a webhook payload.
func SignCallback(secret string, values url.Values) string {
	fields := transactionCallbackFields
	if strings.TrimSpace(values.Get("record_type")) == RecordTypePreTransaction {
		fields = preTransactionCallbackFields
	}
	return checksum(secret, values, fields)
}

func SignReturn(secret string, values url.Values) string {
	return checksum(secret, values, returnURLFields)
}

func verify(secret string, values url.Values, fields []string) bool {
	supplied := strings.TrimSpace(values.Get("checksum"))
	if supplied == "" || strings.TrimSpace(secret) == "" {
		return false
	}
	candidate, err := hex.DecodeString(supplied)
	if err != nil {
		return false
	}
	expected, err := hex.DecodeString(checksum(secret, values, fields))
	if err != nil {
		return false
	}
	return hmac.Equal(candidate, expected)
}

func checksum(secret string, values url.Values, fields []string) string {
	keys := slices.Clone(fields)
	slices.Sort(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, strings.TrimSpace(values.Get(key)))
	}

	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(mac.Sum(nil))
}
