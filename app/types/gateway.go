package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

type HealthRequest struct{}

type HealthResponse struct {
	Status string `json:"status"`
}

type CreatePaymentRequest struct {
	OrderID        uint64 `json:"order_id"`
	TransactionID  uint64 `json:"transaction_id,omitempty"`
	PaymentChannel int32  `json:"payment_channel,omitempty"`
}

func (r *CreatePaymentRequest) GetOrderID() uint64 {
	if r == nil {
		return 0
	}
	return r.OrderID
}

func (r *CreatePaymentRequest) GetTransactionID() uint64 {
	if r == nil {
		return 0
	}
	return r.TransactionID
}

func (r *CreatePaymentRequest) GetPaymentChannel() int32 {
	if r == nil {
		return 0
	}
	return r.PaymentChannel
}

type CreatePaymentResponse struct {
	Success         bool   `json:"success"`
	PaymentURL      string `json:"payment_url"`
	PaymentIntentID string `json:"payment_intent_id,omitempty"`
}

type GetOrderRequest struct {
	ID uint64 `json:"id"`
}

func (r *GetOrderRequest) GetID() uint64 {
	if r == nil {
		return 0
	}
	return r.ID
}

type Order struct {
	ID            uint64            `json:"id"`
	Mode          string            `json:"mode,omitempty"`
	PaymentStatus string            `json:"payment_status"`
	TotalCents    int64             `json:"total_cents"`
	Currency      string            `json:"currency"`
	Metadata      map[string]string `json:"metadata"`
	CreatedAt     string            `json:"created_at"`
	UpdatedAt     string            `json:"updated_at"`
}

type Transaction struct {
	ID                uint64 `json:"id"`
	UUID              string `json:"uuid"`
	OrderID           uint64 `json:"order_id"`
	TotalCents        int64  `json:"total_cents"`
	Status            string `json:"status"`
	VendorChargeID    string `json:"vendor_charge_id,omitempty"`
	PaymentMethod     string `json:"payment_method"`
	PaymentMethodType string `json:"payment_method_type"`
	Note              string `json:"note,omitempty"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
}

type OrderResponse struct {
	Order       *Order       `json:"order"`
	Transaction *Transaction `json:"transaction,omitempty"`
}

type WebhookURLResponse struct {
	WebhookURL string `json:"webhook_url"`
}

type CallbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// WebhookRequest carries the raw gateway fields; every value stays a string
// because the checksum is computed over the exact text that was sent.
type WebhookRequest struct {
	Values url.Values
}

type ReceiptRequest struct {
	TrxHash string
}

func NewCreatePaymentRequestFromContext(ctx echo.Context) (*CreatePaymentRequest, error) {
	var body CreatePaymentRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

func (r *CreatePaymentRequest) Validate() error {
	if r.GetOrderID() == 0 {
		return errors.New("order_id is required")
	}
	if r.GetPaymentChannel() < 0 {
		return errors.New("payment_channel must be >= 0")
	}
	return nil
}

func NewGetOrderRequestFromContext(ctx echo.Context) (*GetOrderRequest, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return nil, err
	}
	return &GetOrderRequest{ID: id}, nil
}

func (r *GetOrderRequest) Validate() error {
	if r.GetID() == 0 {
		return errors.New("invalid order id")
	}
	return nil
}

func NewReceiptRequestFromContext(ctx echo.Context) *ReceiptRequest {
	return &ReceiptRequest{TrxHash: strings.TrimSpace(ctx.QueryParam("trx_hash"))}
}

func (r *ReceiptRequest) Validate() error {
	if r.TrxHash == "" {
		return errors.New("trx_hash is required")
	}
	return nil
}

// NewWebhookRequestFromContext accepts both form-encoded and JSON callbacks.
func NewWebhookRequestFromContext(ctx echo.Context) (*WebhookRequest, error) {
	rawBody, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return nil, err
	}

	contentType := ctx.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEApplicationJSON) {
		values, err := jsonValues(rawBody)
		if err != nil {
			return nil, err
		}
		return &WebhookRequest{Values: values}, nil
	}

	values, err := url.ParseQuery(string(rawBody))
	if err != nil {
		return nil, err
	}
	return &WebhookRequest{Values: values}, nil
}

func (r *WebhookRequest) Validate() error {
	if len(r.Values) == 0 {
		return errors.New("callback payload is empty")
	}
	return nil
}

func jsonValues(raw []byte) (url.Values, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var body map[string]interface{}
	if err := decoder.Decode(&body); err != nil {
		return nil, err
	}

	values := url.Values{}
	for key, value := range body {
		switch v := value.(type) {
		case nil:
			values.Set(key, "")
		case string:
			values.Set(key, v)
		case json.Number:
			values.Set(key, v.String())
		case bool:
			values.Set(key, strconv.FormatBool(v))
		default:
			return nil, fmt.Errorf("field %s must be a scalar", key)
		}
	}
	return values, nil
}
