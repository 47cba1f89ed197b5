package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vibast-solutions/ms-go-bayarcash/app/bayarcash"
	"github.com/vibast-solutions/ms-go-bayarcash/app/entity"
	"github.com/vibast-solutions/ms-go-bayarcash/app/service"
	"github.com/vibast-solutions/ms-go-bayarcash/config"
)

const (
	controllerSecret  = "secret-test"
	controllerReceipt = "https://shop.test/receipt"
)

type controllerStore struct {
	mu           sync.Mutex
	orders       map[uint64]entity.Order
	transactions map[uint64]entity.Transaction
	findErr      error
}

func newControllerStore() *controllerStore {
	s := &controllerStore{
		orders:       map[uint64]entity.Order{},
		transactions: map[uint64]entity.Transaction{},
	}
	s.orders[7] = entity.Order{ID: 7, PaymentStatus: entity.OrderPaymentPending, TotalCents: 1400, Currency: "MYR", CustomerFullName: "Aina Rahman", CustomerEmail: "aina@example.test"}
	s.transactions[70] = entity.Transaction{ID: 70, UUID: "trx-uuid-70", OrderID: 7, TotalCents: 1400, Status: entity.TransactionStatusPending, PaymentMethod: entity.PaymentMethodBayarcash}
	return s
}

func (s *controllerStore) WithOrderLock(ctx context.Context, _ uint64, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *controllerStore) FindByID(_ context.Context, id uint64) (*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	item, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (s *controllerStore) Update(_ context.Context, order *entity.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = *order
	return nil
}

type controllerTransactionRepo struct{ store *controllerStore }

func (r controllerTransactionRepo) FindByID(_ context.Context, id uint64) (*entity.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	item, ok := r.store.transactions[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (r controllerTransactionRepo) FindByUUID(_ context.Context, uuid string) (*entity.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, item := range r.store.transactions {
		if item.UUID == uuid {
			found := item
			return &found, nil
		}
	}
	return nil, nil
}

func (r controllerTransactionRepo) FindFirstByMethod(ctx context.Context, orderID uint64, method string) (*entity.Transaction, error) {
	items, _ := r.ListByOrder(ctx, orderID)
	for _, item := range items {
		if item.PaymentMethod == method {
			return item, nil
		}
	}
	return nil, nil
}

func (r controllerTransactionRepo) ListByOrder(_ context.Context, orderID uint64) ([]*entity.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	items := make([]*entity.Transaction, 0)
	for _, item := range r.store.transactions {
		if item.OrderID == orderID {
			found := item
			items = append(items, &found)
		}
	}
	return items, nil
}

func (r controllerTransactionRepo) Update(_ context.Context, txn *entity.Transaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.transactions[txn.ID] = *txn
	return nil
}

type controllerEventRepo struct{}

func (controllerEventRepo) Create(context.Context, *entity.TransactionEvent) error { return nil }

type controllerNotificationRepo struct{}

func (controllerNotificationRepo) Create(context.Context, *entity.GatewayNotification) error {
	return nil
}

func (controllerNotificationRepo) DeleteOlderThan(context.Context, time.Time, int32) (int64, error) {
	return 0, nil
}

type controllerGateway struct {
	intent *bayarcash.PaymentIntent
	err    error
}

func (g *controllerGateway) CreatePaymentIntent(context.Context, bayarcash.ClientConfig, *bayarcash.PaymentIntentRequest) (*bayarcash.PaymentIntent, error) {
	return g.intent, g.err
}

var errControllerStore = errors.New("database unavailable")

func controllerSettings() bayarcash.Settings {
	return bayarcash.Settings{
		Mode:           bayarcash.ModeTest,
		TestAPIToken:   "token-test",
		TestAPISecret:  controllerSecret,
		PortalKey:      "portal-1",
		SandboxBaseURL: "https://sandbox.test/v3",
		ReceiptPageURL: controllerReceipt,
		CallbackURL:    "https://shop.test/webhooks/bayarcash",
	}
}

func newServiceForTest(store *controllerStore, gateway *controllerGateway) *service.PaymentService {
	if gateway == nil {
		gateway = &controllerGateway{intent: &bayarcash.PaymentIntent{ID: "pi_1", URL: "https://pay.test/pi_1"}}
	}
	return service.NewPaymentService(
		store,
		controllerTransactionRepo{store: store},
		controllerEventRepo{},
		controllerNotificationRepo{},
		store,
		gateway,
		controllerSettings(),
		config.NotificationsConfig{},
	)
}
