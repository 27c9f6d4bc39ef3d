package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/gobblego/models"
	"github.com/yeremiapane/gobblego/notify"
	"github.com/yeremiapane/gobblego/utils"
)

// OrderService tracks the table's orders and the payment flow. Order status is
// owned by the backend; this service only requests transitions and refetches.
type OrderService struct {
	backend  Backend
	sessions *SessionService
	cart     *CartService
	notifier notify.Notifier
	currency string

	mutex     sync.Mutex
	orders    []models.Order
	fetched   bool
	fetchedAt time.Time
	lastErr   error
	issued    uint64
	applied   uint64
	closed    bool

	// generation naik setiap Reset; hasil payment dari generation lama dibuang
	generation uint64

	payment     models.PaymentState
	active      *models.PaymentDetails
	checkingOut bool
	metrics     PaymentMetrics
}

// OrderView adalah state order untuk presentation layer.
type OrderView struct {
	Orders        []models.Order  `json:"orders"`
	CanPlaceOrder bool            `json:"can_place_order"`
	PendingTotal  decimal.Decimal `json:"pending_total"`
	Stale         bool            `json:"stale"`
	Error         string          `json:"error,omitempty"`
	Loaded        bool            `json:"loaded"`
}

func NewOrderService(backend Backend, sessions *SessionService, cart *CartService, notifier notify.Notifier, currency string) *OrderService {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	if currency == "" {
		currency = "INR"
	}
	return &OrderService{
		backend:  backend,
		sessions: sessions,
		cart:     cart,
		notifier: notifier,
		currency: currency,
		orders:   []models.Order{},
		payment:  models.PaymentState{Phase: models.PaymentPhaseIdle},
	}
}

// CanPlaceOrder is advisory only; the backend enforces leadership.
func (s *OrderService) CanPlaceOrder() bool {
	return s.sessions.IsLeader()
}

// PlaceOrder converts the session's cart into an order. Non-leaders are
// rejected locally without a network call.
func (s *OrderService) PlaceOrder(ctx context.Context) error {
	session, err := s.sessions.Require()
	if err != nil {
		return s.fail(notify.EventOrderError, err)
	}
	if !session.IsLeader {
		return s.fail(notify.EventOrderError, ErrNotLeader)
	}

	if err := s.backend.PlaceOrder(ctx, models.PlaceOrderRequest{CartID: session.CartID}); err != nil {
		utils.ErrorLogger.Errorf("Failed to place order for cart %s: %v", session.CartID, err)
		s.notifier.Error(notify.EventOrderError, UserMessage(err), nil)
		return err
	}
	utils.InfoLogger.Infof("Order placed for cart %s", session.CartID)
	s.notifier.Info(notify.EventOrderUpdated, "Order placed", nil)

	// Backend bisa saja memulai cart baru setelah order dibuat
	if _, err := s.Refresh(ctx); err != nil {
		utils.ErrorLogger.Warnf("Orders are stale after placing order: %v", err)
	}
	if s.cart != nil {
		s.cart.refetch(ctx)
	}
	return nil
}

// Refresh replaces the local order list. Same sequencing rules as the cart.
func (s *OrderService) Refresh(ctx context.Context) ([]models.Order, error) {
	if _, err := s.sessions.Require(); err != nil {
		return nil, s.fail(notify.EventOrderError, err)
	}

	s.mutex.Lock()
	if s.closed {
		s.mutex.Unlock()
		return nil, ErrViewClosed
	}
	s.issued++
	ticket := s.issued
	s.mutex.Unlock()

	orders, err := s.backend.ListOrders(ctx)

	s.mutex.Lock()
	if s.closed {
		s.mutex.Unlock()
		utils.InfoLogger.Debugf("Discarding orders response #%d after close", ticket)
		return nil, ErrViewClosed
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		current := s.copyOrdersLocked()
		s.mutex.Unlock()
		utils.InfoLogger.Debugf("Discarding orders response #%d: %v", ticket, ctxErr)
		return current, ctxErr
	}
	if ticket <= s.applied {
		current := s.copyOrdersLocked()
		s.mutex.Unlock()
		utils.InfoLogger.Debugf("Discarding superseded orders response #%d", ticket)
		return current, nil
	}
	if err != nil {
		s.lastErr = err
		current := s.copyOrdersLocked()
		s.mutex.Unlock()

		utils.ErrorLogger.Errorf("Failed to fetch orders: %v", err)
		s.notifier.Error(notify.EventOrderError, UserMessage(err), nil)
		return current, err
	}

	s.orders = orders
	s.applied = ticket
	s.fetched = true
	s.fetchedAt = time.Now()
	s.lastErr = nil
	current := s.copyOrdersLocked()
	s.mutex.Unlock()

	return current, nil
}

// UpdateStatus asks the backend for a transition. The local copy only changes
// through the refetch that follows.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) error {
	if _, err := s.sessions.Require(); err != nil {
		return s.fail(notify.EventOrderError, err)
	}
	orderID = strings.TrimSpace(orderID)
	status = models.OrderStatus(strings.TrimSpace(string(status)))
	if orderID == "" || status == "" {
		return s.fail(notify.EventOrderError, ErrInvalidInput)
	}

	if err := s.backend.UpdateOrderStatus(ctx, orderID, models.UpdateOrderStatusRequest{Status: status}); err != nil {
		utils.ErrorLogger.Errorf("Failed to update order %s to %s: %v", orderID, status, err)
		s.notifier.Error(notify.EventOrderError, UserMessage(err), nil)
		return err
	}
	s.notifier.Info(notify.EventOrderUpdated, "Order status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})

	if _, err := s.Refresh(ctx); err != nil {
		utils.ErrorLogger.Warnf("Orders are stale after status update: %v", err)
	}
	return nil
}

func (s *OrderService) Orders() []models.Order {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.copyOrdersLocked()
}

// PendingTotal is the amount due: every order not yet completed.
func (s *OrderService) PendingTotal() decimal.Decimal {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.pendingTotalLocked()
}

func (s *OrderService) pendingTotalLocked() decimal.Decimal {
	total := decimal.Zero
	for _, o := range s.orders {
		if o.Status != models.OrderStatusCompleted {
			total = total.Add(o.TotalAmount)
		}
	}
	return total
}

func (s *OrderService) View() OrderView {
	canPlace := s.CanPlaceOrder()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	view := OrderView{
		Orders:        s.copyOrdersLocked(),
		CanPlaceOrder: canPlace,
		PendingTotal:  s.pendingTotalLocked(),
		Stale:         s.lastErr != nil,
		Loaded:        s.fetched,
	}
	if s.lastErr != nil {
		view.Error = UserMessage(s.lastErr)
	}
	return view
}

func (s *OrderService) Currency() string {
	return s.currency
}

// Reset drops orders and any payment attempt, e.g. after leaving a table.
func (s *OrderService) Reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.orders = []models.Order{}
	s.fetched = false
	s.lastErr = nil
	s.applied = s.issued
	s.generation++
	s.active = nil
	s.checkingOut = false
	s.payment = models.PaymentState{Phase: models.PaymentPhaseIdle}
}

// Close tears the view down; in-flight order and payment responses are ignored.
func (s *OrderService) Close() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.closed = true
	s.generation++
}

func (s *OrderService) fail(event string, err error) error {
	return publishFailure(s.notifier, event, err)
}

func (s *OrderService) copyOrdersLocked() []models.Order {
	out := make([]models.Order, len(s.orders))
	copy(out, s.orders)
	return out
}
