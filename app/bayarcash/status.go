package bayarcash

import (
	"strconv"
	"strings"

	"github.com/vibast-solutions/ms-go-bayarcash/app/entity"
)

type StatusCode int

const (
	StatusUnknown   StatusCode = -1
	StatusNew       StatusCode = 0
	StatusPending   StatusCode = 1
	StatusFailed    StatusCode = 2
	StatusSuccess   StatusCode = 3
	StatusCancelled StatusCode = 4
)

// ParseStatus maps a raw gateway status to a code; anything non-numeric is StatusUnknown.
func ParseStatus(raw string) StatusCode {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return StatusUnknown
	}
	return StatusCode(n)
}

// TransactionStatus is total: every code lands on exactly one transaction status.
func (c StatusCode) TransactionStatus() string {
	switch c {
	case StatusSuccess:
		return entity.TransactionStatusSucceeded
	case StatusNew, StatusPending:
		return entity.TransactionStatusPending
	default:
		return entity.TransactionStatusFailed
	}
}
