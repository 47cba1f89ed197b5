package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/vibast-solutions/ms-go-bayarcash/app/bayarcash"
	"github.com/vibast-solutions/ms-go-bayarcash/app/entity"
	"github.com/vibast-solutions/ms-go-bayarcash/app/repository"
)

const failedPaymentNote = "Payment failed or cancelled"

const maxNotificationErrorLength = 255

// applyStatus moves the transaction to the state the gateway reported and
// propagates it to the order. Both rows are written through ctx, so inside
// WithOrderLock they commit or roll back together.
func (s *PaymentService) applyStatus(
	ctx context.Context,
	order *entity.Order,
	txn *entity.Transaction,
	code bayarcash.StatusCode,
	source string,
	now time.Time,
) (string, error) {
	oldStatus := txn.Status
	newStatus := code.TransactionStatus()

	txn.Status = newStatus
	txn.UpdatedAt = now
	if newStatus == entity.TransactionStatusFailed {
		txn.Note = failedPaymentNote
		order.PaymentStatus = entity.OrderPaymentFailed
	}

	if err := s.transactionRepo.Update(ctx, txn); err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return "", ErrTransactionNotFound
		}
		return "", err
	}

	if newStatus == entity.TransactionStatusSucceeded {
		if err := s.syncer.Sync(ctx, order, txn); err != nil {
			return "", err
		}
	}

	if err := s.saveOrder(ctx, order, now); err != nil {
		return "", err
	}

	if oldStatus != newStatus {
		old := oldStatus
		_ = s.eventRepo.Create(ctx, &entity.TransactionEvent{
			TransactionID: txn.ID,
			EventType:     "status_changed",
			Source:        source,
			OldStatus:     &old,
			NewStatus:     newStatus,
			CreatedAt:     now,
		})
	}

	return newStatus, nil
}

func (s *PaymentService) saveOrder(ctx context.Context, order *entity.Order, now time.Time) error {
	order.UpdatedAt = now
	if err := s.orderRepo.Update(ctx, order); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	return nil
}

func (s *PaymentService) lockedOrder(ctx context.Context, orderID uint64) (*entity.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

type notificationRecord struct {
	channel    string
	orderID    uint64
	recordType string
	values     url.Values
	protected  bool
	err        error
	note       string
}

// recordNotification writes the audit row for a processed notification. It
// runs outside the order lock and never fails the caller.
func (s *PaymentService) recordNotification(ctx context.Context, rec notificationRecord) {
	now := time.Now().UTC()
	notification := &entity.GatewayNotification{
		Channel:     rec.channel,
		RecordType:  rec.recordType,
		Checksum:    strings.TrimSpace(rec.values.Get("checksum")),
		PayloadJSON: payloadJSON(rec.values),
		Status:      entity.NotificationStatusProcessed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if rec.orderID > 0 {
		id := rec.orderID
		notification.OrderID = &id
	}

	message := rec.note
	switch {
	case rec.err != nil:
		notification.Status = entity.NotificationStatusRejected
		message = rec.err.Error()
	case rec.protected:
		notification.Status = entity.NotificationStatusIgnored
	}
	if message != "" {
		message = truncate(message, maxNotificationErrorLength)
		notification.Error = &message
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		if errors.Is(err, repository.ErrDuplicateNotification) {
			return
		}
		s.logger.WithError(err).WithField("channel", rec.channel).Warn("Failed to record gateway notification")
	}
}

func payloadJSON(values url.Values) string {
	flat := make(map[string]string, len(values))
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		flat[key] = values.Get(key)
	}

	raw, err := json.Marshal(flat)
	if err != nil {
		return "{}"
	}
	return string(raw)
}
