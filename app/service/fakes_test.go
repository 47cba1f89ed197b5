package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/vibast-solutions/ms-go-bayarcash/app/bayarcash"
	"github.com/vibast-solutions/ms-go-bayarcash/app/entity"
	"github.com/vibast-solutions/ms-go-bayarcash/app/repository"
	"github.com/vibast-solutions/ms-go-bayarcash/config"
)

const (
	testSecret      = "secret-test"
	testReceiptPage = "https://shop.test/receipt"
)

func testSettings() bayarcash.Settings {
	return bayarcash.Settings{
		Mode:           bayarcash.ModeTest,
		TestAPIToken:   "token-test",
		TestAPISecret:  testSecret,
		LiveAPIToken:   "token-live",
		LiveAPISecret:  "secret-live",
		PortalKey:      "portal-1",
		SandboxBaseURL: "https://sandbox.test/v3",
		LiveBaseURL:    "https://live.test/v3",
		ReceiptPageURL: testReceiptPage,
		CallbackURL:    "https://shop.test/webhooks/bayarcash",
	}
}

// memoryStore keeps copies of every row so only explicit Update calls persist.
type memoryStore struct {
	lock sync.Mutex
	mu   sync.Mutex

	orders        map[uint64]*entity.Order
	transactions  map[uint64]*entity.Transaction
	events        []*entity.TransactionEvent
	notifications []*entity.GatewayNotification
	purgeCalls    []purgeCall
	orderSaveErr  error
}

type purgeCall struct {
	cutoff time.Time
	limit  int32
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		orders:       map[uint64]*entity.Order{},
		transactions: map[uint64]*entity.Transaction{},
	}
}

// WithOrderLock restores orders and transactions when fn fails, the way the
// database rolls back the locked unit.
func (s *memoryStore) WithOrderLock(ctx context.Context, _ uint64, fn func(ctx context.Context) error) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	orders, transactions := s.snapshot()
	if err := fn(ctx); err != nil {
		s.restore(orders, transactions)
		return err
	}
	return nil
}

func (s *memoryStore) snapshot() (map[uint64]*entity.Order, map[uint64]*entity.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := make(map[uint64]*entity.Order, len(s.orders))
	for id, item := range s.orders {
		orders[id] = copyOrder(item)
	}
	transactions := make(map[uint64]*entity.Transaction, len(s.transactions))
	for id, item := range s.transactions {
		copyItem := *item
		transactions[id] = &copyItem
	}
	return orders, transactions
}

func (s *memoryStore) restore(orders map[uint64]*entity.Order, transactions map[uint64]*entity.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = orders
	s.transactions = transactions
}

func (s *memoryStore) putOrder(order *entity.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = copyOrder(order)
}

func (s *memoryStore) putTransaction(txn *entity.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copyItem := *txn
	s.transactions[txn.ID] = &copyItem
}

func (s *memoryStore) order(id uint64) *entity.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item, ok := s.orders[id]; ok {
		return copyOrder(item)
	}
	return nil
}

func (s *memoryStore) transaction(id uint64) *entity.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item, ok := s.transactions[id]; ok {
		copyItem := *item
		return &copyItem
	}
	return nil
}

func (s *memoryStore) notificationList() []*entity.GatewayNotification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*entity.GatewayNotification(nil), s.notifications...)
}

func copyOrder(order *entity.Order) *entity.Order {
	copyItem := *order
	if order.Metadata != nil {
		copyItem.Metadata = make(map[string]string, len(order.Metadata))
		for k, v := range order.Metadata {
			copyItem.Metadata[k] = v
		}
	}
	return &copyItem
}

type memoryOrderRepo struct{ store *memoryStore }

func (r memoryOrderRepo) FindByID(_ context.Context, id uint64) (*entity.Order, error) {
	return r.store.order(id), nil
}

func (r memoryOrderRepo) Update(_ context.Context, order *entity.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.orderSaveErr != nil {
		return r.store.orderSaveErr
	}
	if _, ok := r.store.orders[order.ID]; !ok {
		return repository.ErrOrderNotFound
	}
	r.store.orders[order.ID] = copyOrder(order)
	return nil
}

type memoryTransactionRepo struct{ store *memoryStore }

func (r memoryTransactionRepo) FindByID(_ context.Context, id uint64) (*entity.Transaction, error) {
	return r.store.transaction(id), nil
}

func (r memoryTransactionRepo) FindByUUID(_ context.Context, uuid string) (*entity.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, item := range r.store.transactions {
		if item.UUID == uuid {
			copyItem := *item
			return &copyItem, nil
		}
	}
	return nil, nil
}

func (r memoryTransactionRepo) FindFirstByMethod(ctx context.Context, orderID uint64, method string) (*entity.Transaction, error) {
	items, _ := r.ListByOrder(ctx, orderID)
	for _, item := range items {
		if item.PaymentMethod == method {
			return item, nil
		}
	}
	return nil, nil
}

func (r memoryTransactionRepo) ListByOrder(_ context.Context, orderID uint64) ([]*entity.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	items := make([]*entity.Transaction, 0)
	for _, item := range r.store.transactions {
		if item.OrderID == orderID {
			copyItem := *item
			items = append(items, &copyItem)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r memoryTransactionRepo) Update(_ context.Context, txn *entity.Transaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	existing, ok := r.store.transactions[txn.ID]
	if !ok {
		return repository.ErrTransactionNotFound
	}
	copyItem := *txn
	if existing.VendorChargeID != nil {
		copyItem.VendorChargeID = existing.VendorChargeID
	}
	r.store.transactions[txn.ID] = &copyItem
	return nil
}

type memoryEventRepo struct{ store *memoryStore }

func (r memoryEventRepo) Create(_ context.Context, event *entity.TransactionEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copyItem := *event
	r.store.events = append(r.store.events, &copyItem)
	return nil
}

type memoryNotificationRepo struct {
	store     *memoryStore
	deleteErr error
}

func (r memoryNotificationRepo) Create(_ context.Context, notification *entity.GatewayNotification) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copyItem := *notification
	r.store.notifications = append(r.store.notifications, &copyItem)
	return nil
}

func (r memoryNotificationRepo) DeleteOlderThan(_ context.Context, cutoff time.Time, limit int32) (int64, error) {
	if r.deleteErr != nil {
		return 0, r.deleteErr
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.purgeCalls = append(r.store.purgeCalls, purgeCall{cutoff: cutoff, limit: limit})
	return 3, nil
}

type fakeGateway struct {
	mu       sync.Mutex
	requests []*bayarcash.PaymentIntentRequest
	configs  []bayarcash.ClientConfig
	intent   *bayarcash.PaymentIntent
	err      error
	panicMsg string
}

func (g *fakeGateway) CreatePaymentIntent(_ context.Context, cfg bayarcash.ClientConfig, req *bayarcash.PaymentIntentRequest) (*bayarcash.PaymentIntent, error) {
	if g.panicMsg != "" {
		panic(g.panicMsg)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	copyReq := *req
	g.requests = append(g.requests, &copyReq)
	g.configs = append(g.configs, cfg)
	if g.err != nil {
		return nil, g.err
	}
	return g.intent, nil
}

var errStoreDown = errors.New("store down")

type testHarness struct {
	store   *memoryStore
	gateway *fakeGateway
	svc     *PaymentService
}

func newHarness(settings bayarcash.Settings) *testHarness {
	store := newMemoryStore()
	gateway := &fakeGateway{intent: &bayarcash.PaymentIntent{ID: "pi_123", URL: "https://pay.test/checkout/pi_123"}}
	svc := NewPaymentService(
		memoryOrderRepo{store: store},
		memoryTransactionRepo{store: store},
		memoryEventRepo{store: store},
		memoryNotificationRepo{store: store},
		store,
		gateway,
		settings,
		config.NotificationsConfig{Retention: 24 * time.Hour, BatchSize: 25},
	)
	return &testHarness{store: store, gateway: gateway, svc: svc}
}

// seedOrder stores an unpaid order #7 of 14.00 with one Bayarcash transaction #70.
func (h *testHarness) seedOrder(status string) {
	h.store.putOrder(&entity.Order{
		ID:                7,
		PaymentStatus:     status,
		TotalCents:        1400,
		Currency:          "MYR",
		CustomerFirstName: "Aina",
		CustomerEmail:     "aina@example.test",
		ShippingPhone:     "012-345 6789",
	})
	h.store.putTransaction(&entity.Transaction{
		ID:            70,
		UUID:          "trx-uuid-70",
		OrderID:       7,
		TotalCents:    1400,
		Status:        entity.TransactionStatusPending,
		PaymentMethod: entity.PaymentMethodBayarcash,
	})
}

type paymentRequest struct {
	orderID       uint64
	transactionID uint64
	channel       int32
}

func (r paymentRequest) GetOrderID() uint64       { return r.orderID }
func (r paymentRequest) GetTransactionID() uint64 { return r.transactionID }
func (r paymentRequest) GetPaymentChannel() int32 { return r.channel }
