package mapper

import (
	"time"

	"github.com/vibast-solutions/ms-go-bayarcash/app/entity"
	"github.com/vibast-solutions/ms-go-bayarcash/app/service"
	"github.com/vibast-solutions/ms-go-bayarcash/app/types"
)

func OrderToType(item *entity.Order) *types.Order {
	if item == nil {
		return nil
	}

	return &types.Order{
		ID:            item.ID,
		Mode:          item.Mode,
		PaymentStatus: item.PaymentStatus,
		TotalCents:    item.TotalCents,
		Currency:      item.Currency,
		Metadata:      cloneMetadata(item.Metadata),
		CreatedAt:     formatTime(item.CreatedAt),
		UpdatedAt:     formatTime(item.UpdatedAt),
	}
}

func TransactionToType(item *entity.Transaction) *types.Transaction {
	if item == nil {
		return nil
	}

	return &types.Transaction{
		ID:                item.ID,
		UUID:              item.UUID,
		OrderID:           item.OrderID,
		TotalCents:        item.TotalCents,
		Status:            item.Status,
		VendorChargeID:    derefString(item.VendorChargeID),
		PaymentMethod:     item.PaymentMethod,
		PaymentMethodType: item.PaymentMethodType,
		Note:              item.Note,
		CreatedAt:         formatTime(item.CreatedAt),
		UpdatedAt:         formatTime(item.UpdatedAt),
	}
}

func OrderViewToResponse(view *service.OrderView) *types.OrderResponse {
	if view == nil {
		return &types.OrderResponse{}
	}
	return &types.OrderResponse{
		Order:       OrderToType(view.Order),
		Transaction: TransactionToType(view.Transaction),
	}
}

func PaymentResultToResponse(result *service.PaymentResult) *types.CreatePaymentResponse {
	if result == nil {
		return &types.CreatePaymentResponse{}
	}
	return &types.CreatePaymentResponse{
		Success:         result.Success,
		PaymentURL:      result.PaymentURL,
		PaymentIntentID: result.PaymentIntentID,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func cloneMetadata(src map[string]string) map[string]string {
	if len(src) == 0 {
		return map[string]string{}
	}
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
