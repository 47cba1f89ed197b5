package service

import (
	"errors"

	"github.com/vibast-solutions/ms-go-bayarcash/app/bayarcash"
)

var (
	ErrInvalidRequest       = errors.New("invalid request")
	ErrNotConfigured        = errors.New("bayarcash payment gateway is not properly configured")
	ErrInvalidSignature     = errors.New("invalid callback signature")
	ErrOrderNotFound        = errors.New("order not found")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrUnknownRecordType    = bayarcash.ErrUnknownRecordType
	ErrGatewayRequestFailed = errors.New("gateway request failed")
	ErrMalformedReturnURL   = bayarcash.ErrMalformedReturnURL
	ErrMissingOrderID       = errors.New("order id not found")
	ErrReturnNotApplicable  = errors.New("request is not a bayarcash return")
	ErrInternal             = errors.New("internal error")
)

const (
	GatewayErrorCode     = "bayarcash_error"
	GatewayExceptionCode = "bayarcash_exception"
)

// GatewayError is returned when the intent API refuses or fails a request.
type GatewayError struct {
	Code    string
	Message string
}

func (e *GatewayError) Error() string {
	return e.Code + ": " + e.Message
}

func (e *GatewayError) Unwrap() error {
	return ErrGatewayRequestFailed
}
