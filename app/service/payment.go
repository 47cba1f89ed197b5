package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-bayarcash/app/bayarcash"
	"github.com/vibast-solutions/ms-go-bayarcash/app/entity"
	"github.com/vibast-solutions/ms-go-bayarcash/app/factory"
	"github.com/vibast-solutions/ms-go-bayarcash/app/repository"
	"github.com/vibast-solutions/ms-go-bayarcash/config"
)

const (
	defaultBatchSize = int32(500)

	eventSourceIntent  = "intent"
	eventSourceWebhook = "webhook"
	eventSourceReturn  = "return"
)

type createPaymentRequest interface {
	GetOrderID() uint64
	GetTransactionID() uint64
	GetPaymentChannel() int32
}

type orderRepository interface {
	FindByID(ctx context.Context, id uint64) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
}

type transactionRepository interface {
	FindByID(ctx context.Context, id uint64) (*entity.Transaction, error)
	FindByUUID(ctx context.Context, uuid string) (*entity.Transaction, error)
	FindFirstByMethod(ctx context.Context, orderID uint64, method string) (*entity.Transaction, error)
	ListByOrder(ctx context.Context, orderID uint64) ([]*entity.Transaction, error)
	Update(ctx context.Context, txn *entity.Transaction) error
}

type transactionEventRepository interface {
	Create(ctx context.Context, event *entity.TransactionEvent) error
}

type gatewayNotificationRepository interface {
	Create(ctx context.Context, notification *entity.GatewayNotification) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time, limit int32) (int64, error)
}

type orderLocker interface {
	WithOrderLock(ctx context.Context, orderID uint64, fn func(ctx context.Context) error) error
}

type intentCreator interface {
	CreatePaymentIntent(ctx context.Context, cfg bayarcash.ClientConfig, req *bayarcash.PaymentIntentRequest) (*bayarcash.PaymentIntent, error)
}

type statusSyncer interface {
	Sync(ctx context.Context, order *entity.Order, txn *entity.Transaction) error
}

type PaymentService struct {
	orderRepo        orderRepository
	transactionRepo  transactionRepository
	eventRepo        transactionEventRepository
	notificationRepo gatewayNotificationRepository
	locker           orderLocker
	gateway          intentCreator
	syncer           statusSyncer
	settings         bayarcash.Settings
	notificationsCfg config.NotificationsConfig
	logger           logrus.FieldLogger
}

func NewPaymentService(
	orderRepo orderRepository,
	transactionRepo transactionRepository,
	eventRepo transactionEventRepository,
	notificationRepo gatewayNotificationRepository,
	locker orderLocker,
	gateway intentCreator,
	settings bayarcash.Settings,
	notificationsCfg config.NotificationsConfig,
) *PaymentService {
	return &PaymentService{
		orderRepo:        orderRepo,
		transactionRepo:  transactionRepo,
		eventRepo:        eventRepo,
		notificationRepo: notificationRepo,
		locker:           locker,
		gateway:          gateway,
		syncer:           NewOrderStatusSyncer(transactionRepo),
		settings:         settings,
		notificationsCfg: notificationsCfg,
		logger:           factory.NewModuleLogger("bayarcash-service"),
	}
}

type PaymentResult struct {
	Success         bool
	PaymentURL      string
	PaymentIntentID string
	TransactionUUID string
}

type OrderView struct {
	Order       *entity.Order
	Transaction *entity.Transaction
}

// CreatePayment opens a payment intent for the order's Bayarcash transaction
// and returns the URL the payer must be redirected to.
func (s *PaymentService) CreatePayment(ctx context.Context, req createPaymentRequest) (result *PaymentResult, err error) {
	defer s.recoverBoundary(&err, "create_payment")

	if req.GetOrderID() == 0 {
		return nil, ErrInvalidRequest
	}
	if !s.settings.IsConfigured() {
		return nil, ErrNotConfigured
	}

	order, err := s.orderRepo.FindByID(ctx, req.GetOrderID())
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	txn, err := s.paymentTransaction(ctx, order, req.GetTransactionID())
	if err != nil {
		return nil, err
	}

	creds := bayarcash.ResolveCredentials(s.settings, order.Mode)
	if creds.APIToken == "" || creds.APISecret == "" || creds.PortalKey == "" {
		return nil, ErrNotConfigured
	}

	intentReq := &bayarcash.PaymentIntentRequest{
		OrderNumber:    strconv.FormatUint(order.ID, 10),
		Amount:         bayarcash.FormatAmount(txn.TotalCents),
		PortalKey:      creds.PortalKey,
		PayerName:      payerName(order),
		PayerEmail:     strings.TrimSpace(order.CustomerEmail),
		ReturnURL:      bayarcash.ReturnURL(s.settings.ReceiptPageURL, txn.UUID, order.ID),
		CallbackURL:    strings.TrimSpace(s.settings.CallbackURL),
		PaymentChannel: bayarcash.SelectChannel(s.settings.Channels, int(req.GetPaymentChannel())),
	}
	if phone := bayarcash.NormalizePhone(firstNonEmpty(order.BillingPhone, order.ShippingPhone)); phone != "" {
		intentReq.PayerTelephoneNumber = json.Number(phone)
	}
	intentReq.Checksum = bayarcash.SignPaymentIntent(creds.APISecret, intentReq)

	intent, err := s.gateway.CreatePaymentIntent(ctx, bayarcash.ResolveClient(s.settings, order.Mode), intentReq)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("Payment intent request failed")
		return nil, &GatewayError{Code: GatewayExceptionCode, Message: err.Error()}
	}
	if intent == nil || intent.URL == "" {
		return nil, &GatewayError{Code: GatewayErrorCode, Message: "Failed to create payment intent"}
	}

	if intent.ID != "" {
		if err := s.recordIntent(ctx, txn, intent.ID); err != nil {
			return nil, err
		}
	}

	return &PaymentResult{
		Success:         true,
		PaymentURL:      intent.URL,
		PaymentIntentID: intent.ID,
		TransactionUUID: txn.UUID,
	}, nil
}

func (s *PaymentService) GetOrder(ctx context.Context, id uint64) (*OrderView, error) {
	if id == 0 {
		return nil, ErrInvalidRequest
	}
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	txn, err := s.transactionRepo.FindFirstByMethod(ctx, order.ID, entity.PaymentMethodBayarcash)
	if err != nil {
		return nil, err
	}

	return &OrderView{Order: order, Transaction: txn}, nil
}

// GetReceipt resolves the order behind a receipt link's trx_hash.
func (s *PaymentService) GetReceipt(ctx context.Context, trxHash string) (*OrderView, error) {
	trxHash = strings.TrimSpace(trxHash)
	if trxHash == "" {
		return nil, ErrInvalidRequest
	}
	txn, err := s.transactionRepo.FindByUUID(ctx, trxHash)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, ErrTransactionNotFound
	}

	order, err := s.orderRepo.FindByID(ctx, txn.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	return &OrderView{Order: order, Transaction: txn}, nil
}

// WebhookURL is the callback address merchants register in the gateway dashboard.
func (s *PaymentService) WebhookURL() string {
	return strings.TrimSpace(s.settings.CallbackURL)
}

func (s *PaymentService) paymentTransaction(ctx context.Context, order *entity.Order, transactionID uint64) (*entity.Transaction, error) {
	var (
		txn *entity.Transaction
		err error
	)
	if transactionID > 0 {
		txn, err = s.transactionRepo.FindByID(ctx, transactionID)
	} else {
		txn, err = s.transactionRepo.FindFirstByMethod(ctx, order.ID, entity.PaymentMethodBayarcash)
	}
	if err != nil {
		return nil, err
	}
	if txn == nil || txn.OrderID != order.ID {
		return nil, ErrTransactionNotFound
	}
	return txn, nil
}

func (s *PaymentService) recordIntent(ctx context.Context, txn *entity.Transaction, intentID string) error {
	now := time.Now().UTC()
	if txn.VendorChargeID == nil {
		id := intentID
		txn.VendorChargeID = &id
	}
	txn.PaymentMethod = entity.PaymentMethodBayarcash
	txn.PaymentMethodType = entity.PaymentMethodBayarcash
	txn.UpdatedAt = now

	if err := s.transactionRepo.Update(ctx, txn); err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return ErrTransactionNotFound
		}
		return err
	}

	_ = s.eventRepo.Create(ctx, &entity.TransactionEvent{
		TransactionID: txn.ID,
		EventType:     "payment_intent_created",
		Source:        eventSourceIntent,
		NewStatus:     txn.Status,
		CreatedAt:     now,
	})
	return nil
}

func (s *PaymentService) recoverBoundary(err *error, operation string) {
	if r := recover(); r != nil {
		s.logger.WithField("operation", operation).WithField("panic", fmt.Sprint(r)).Error("Recovered from panic")
		*err = ErrInternal
	}
}

func (s *PaymentService) batchSize() int32 {
	if s.notificationsCfg.BatchSize > 0 {
		return s.notificationsCfg.BatchSize
	}
	return defaultBatchSize
}

func payerName(order *entity.Order) string {
	return firstNonEmpty(order.CustomerFullName, order.CustomerFirstName)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func parseOrderID(raw string) (uint64, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return value[:max]
}
