package service

import (
	"context"
	"time"

	"github.com/vibast-solutions/ms-go-bayarcash/app/bayarcash"
	"github.com/vibast-solutions/ms-go-bayarcash/app/entity"
)

const invalidReturnSignatureNote = "invalid return signature"

// ReturnGuard marks a request whose return URL was already reconciled.
// One guard belongs to one inbound request.
type ReturnGuard struct {
	processed bool
}

func (g *ReturnGuard) claim() bool {
	if g == nil {
		return true
	}
	if g.processed {
		return false
	}
	g.processed = true
	return true
}

type ReturnOutcome struct {
	OrderID           uint64
	RedirectURL       string
	Protected         bool
	SignatureValid    bool
	TransactionStatus string
}

// HandleReturn reconciles the gateway parameters carried by a browser return
// and resolves where the payer should be sent next. ErrReturnNotApplicable
// means the request is ordinary receipt traffic and must be passed through.
func (s *PaymentService) HandleReturn(ctx context.Context, rawURI string, guard *ReturnGuard) (outcome *ReturnOutcome, err error) {
	defer s.recoverBoundary(&err, "return")

	values, parseErr := bayarcash.RecoverQuery(rawURI)
	if parseErr != nil {
		s.logger.WithError(parseErr).Warn("Return URL could not be fully parsed")
	}
	if !bayarcash.IsReturnRequest(rawURI, values) {
		return nil, ErrReturnNotApplicable
	}
	if !guard.claim() {
		return nil, ErrReturnNotApplicable
	}

	notice := bayarcash.DecodeReturn(values)
	orderID, ok := parseOrderID(notice.OrderID)
	if !ok {
		return nil, ErrMissingOrderID
	}

	outcome = &ReturnOutcome{OrderID: orderID}
	err = s.locker.WithOrderLock(ctx, orderID, func(ctx context.Context) error {
		order, err := s.lockedOrder(ctx, orderID)
		if err != nil {
			return err
		}

		txn, err := s.transactionRepo.FindFirstByMethod(ctx, order.ID, entity.PaymentMethodBayarcash)
		if err != nil {
			return err
		}

		if order.TerminalProtected() {
			outcome.Protected = true
			if txn != nil {
				outcome.RedirectURL = bayarcash.ReceiptURL(s.settings.ReceiptPageURL, txn.UUID)
			} else {
				outcome.RedirectURL = s.receiptPage()
			}
			return nil
		}
		if txn == nil {
			return ErrTransactionNotFound
		}

		creds := bayarcash.ResolveCredentials(s.settings, order.Mode)
		outcome.SignatureValid = bayarcash.VerifyReturn(creds.APISecret, values)
		if !outcome.SignatureValid {
			s.logger.WithField("order_id", order.ID).Warn("Return checksum verification failed")
		}

		order.SetMeta(entity.MetaTransactionID, notice.TransactionID)
		order.SetMeta(entity.MetaExchangeReferenceNumber, notice.ExchangeReferenceNumber)
		order.SetMeta(entity.MetaExchangeTransactionID, notice.ExchangeTransactionID)
		order.SetMeta(entity.MetaStatusDescription, notice.StatusDescription)

		status, err := s.applyStatus(ctx, order, txn, notice.Status, eventSourceReturn, time.Now().UTC())
		if err != nil {
			return err
		}
		outcome.TransactionStatus = status
		outcome.RedirectURL = bayarcash.ReceiptURL(s.settings.ReceiptPageURL, txn.UUID)
		return nil
	})

	rec := notificationRecord{
		channel:    entity.NotificationChannelReturn,
		orderID:    orderID,
		recordType: bayarcash.RecordTypeTransaction,
		values:     values,
		protected:  outcome.Protected,
		err:        err,
	}
	if err == nil && !outcome.Protected && !outcome.SignatureValid {
		rec.note = invalidReturnSignatureNote
	}
	s.recordNotification(ctx, rec)

	if err != nil {
		if !isTypedFailure(err) {
			s.logger.WithError(err).WithField("order_id", orderID).Error("Return reconciliation failed")
		}
		return nil, err
	}
	return outcome, nil
}

func (s *PaymentService) receiptPage() string {
	if s.settings.ReceiptPageURL == "" {
		return "/"
	}
	return s.settings.ReceiptPageURL
}
