package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/vibast-solutions/ms-go-bayarcash/app/bayarcash"
	"github.com/vibast-solutions/ms-go-bayarcash/app/entity"
)

type WebhookOutcome struct {
	OrderID           uint64
	RecordType        string
	Protected         bool
	TransactionStatus string
}

// HandleWebhook reconciles one server-to-server callback. A nil error means
// the callback must be acknowledged, including when the order was already in
// a terminal state and nothing changed.
func (s *PaymentService) HandleWebhook(ctx context.Context, values url.Values) (outcome *WebhookOutcome, err error) {
	defer s.recoverBoundary(&err, "webhook")

	recordType := strings.TrimSpace(values.Get("record_type"))
	orderID, ok := parseOrderID(values.Get("order_number"))
	if !ok {
		s.recordNotification(ctx, notificationRecord{
			channel:    entity.NotificationChannelWebhook,
			recordType: recordType,
			values:     values,
			err:        ErrOrderNotFound,
		})
		return nil, ErrOrderNotFound
	}

	outcome = &WebhookOutcome{OrderID: orderID, RecordType: recordType}
	err = s.locker.WithOrderLock(ctx, orderID, func(ctx context.Context) error {
		order, err := s.lockedOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if order.TerminalProtected() {
			outcome.Protected = true
			return nil
		}

		creds := bayarcash.ResolveCredentials(s.settings, order.Mode)
		if !bayarcash.VerifyCallback(creds.APISecret, values) {
			return ErrInvalidSignature
		}

		notice, err := bayarcash.DecodeCallback(values)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		switch n := notice.(type) {
		case *bayarcash.PreTransactionNotice:
			order.SetMeta(entity.MetaExchangeReferenceNumber, n.ExchangeReferenceNumber)
			order.SetMeta(entity.MetaTransactionID, n.TransactionID)
			return s.saveOrder(ctx, order, now)
		case *bayarcash.TransactionNotice:
			order.SetMeta(entity.MetaTransactionID, n.TransactionID)
			order.SetMeta(entity.MetaExchangeReferenceNumber, n.ExchangeReferenceNumber)
			order.SetMeta(entity.MetaExchangeTransactionID, n.ExchangeTransactionID)
			order.SetMeta(entity.MetaStatusDescription, n.StatusDescription)
			order.SetMeta(entity.MetaPaymentGatewayID, n.PaymentGatewayID)

			txn, err := s.transactionRepo.FindFirstByMethod(ctx, order.ID, entity.PaymentMethodBayarcash)
			if err != nil {
				return err
			}
			if txn == nil {
				return ErrTransactionNotFound
			}

			status, err := s.applyStatus(ctx, order, txn, n.Status, eventSourceWebhook, now)
			if err != nil {
				return err
			}
			outcome.TransactionStatus = status
			return nil
		default:
			return ErrUnknownRecordType
		}
	})

	s.recordNotification(ctx, notificationRecord{
		channel:    entity.NotificationChannelWebhook,
		orderID:    orderID,
		recordType: recordType,
		values:     values,
		protected:  outcome.Protected,
		err:        err,
	})

	if err != nil {
		if !isTypedFailure(err) {
			s.logger.WithError(err).WithField("order_id", orderID).Error("Webhook reconciliation failed")
		}
		return nil, err
	}
	return outcome, nil
}

func isTypedFailure(err error) bool {
	return errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrTransactionNotFound) ||
		errors.Is(err, ErrInvalidSignature) ||
		errors.Is(err, ErrUnknownRecordType)
}
