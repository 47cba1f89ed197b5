package service

import (
	"context"

	"github.com/vibast-solutions/ms-go-bayarcash/app/entity"
)

type transactionLister interface {
	ListByOrder(ctx context.Context, orderID uint64) ([]*entity.Transaction, error)
}

// OrderStatusSyncer derives the order payment status from its succeeded
// transactions after one of them succeeds.
type OrderStatusSyncer struct {
	transactions transactionLister
}

func NewOrderStatusSyncer(transactions transactionLister) *OrderStatusSyncer {
	return &OrderStatusSyncer{transactions: transactions}
}

func (s *OrderStatusSyncer) Sync(ctx context.Context, order *entity.Order, txn *entity.Transaction) error {
	txns, err := s.transactions.ListByOrder(ctx, order.ID)
	if err != nil {
		return err
	}

	var paid int64
	seen := false
	for _, t := range txns {
		if t.ID == txn.ID {
			seen = true
			t = txn
		}
		if t.Status == entity.TransactionStatusSucceeded {
			paid += t.TotalCents
		}
	}
	if !seen && txn.Status == entity.TransactionStatusSucceeded {
		paid += txn.TotalCents
	}

	if paid >= order.TotalCents {
		order.PaymentStatus = entity.OrderPaymentPaid
	} else {
		order.PaymentStatus = entity.OrderPaymentPending
	}
	return nil
}
