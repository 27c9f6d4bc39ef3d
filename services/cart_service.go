package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/gobblego/database"
	"github.com/yeremiapane/gobblego/models"
	"github.com/yeremiapane/gobblego/notify"
	"github.com/yeremiapane/gobblego/utils"
)

type CartState string

const (
	CartStateLoading CartState = "loading"
	CartStateEmpty   CartState = "empty"
	CartStateReady   CartState = "ready"
)

// CartView is what the presentation layer renders.
type CartView struct {
	State     CartState         `json:"state"`
	CartID    string            `json:"cart_id"`
	Items     []models.CartItem `json:"items"`
	Total     decimal.Decimal   `json:"total"`
	ItemCount int               `json:"item_count"`
	Stale     bool              `json:"stale"`
	Error     string            `json:"error,omitempty"`
	FetchedAt *time.Time        `json:"fetched_at,omitempty"`
}

// CartService mirrors the shared table cart. The backend is the source of truth:
// every mutation is followed by a full refetch and the last applied fetch wins.
// Responses are sequenced with tickets so a slow, older response never
// overwrites a newer one, and nothing is applied after Close.
type CartService struct {
	backend  Backend
	sessions *SessionService
	menu     *MenuService
	store    database.Store
	notifier notify.Notifier

	mutex     sync.Mutex
	items     []models.CartItem
	fetched   bool
	fetchedAt time.Time
	lastErr   error
	issued    uint64
	applied   uint64
	closed    bool

	snapshotCount int
}

func NewCartService(backend Backend, sessions *SessionService, menu *MenuService, store database.Store, notifier notify.Notifier) *CartService {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &CartService{
		backend:  backend,
		sessions: sessions,
		menu:     menu,
		store:    store,
		notifier: notifier,
		items:    []models.CartItem{},
	}
}

// RestoreSnapshot seeds the badge count from the cached snapshot of the current cart.
func (s *CartService) RestoreSnapshot(ctx context.Context) {
	session := s.sessions.Current()
	if !session.Joined() {
		return
	}
	snapshot, err := s.store.LoadCartSnapshot(ctx)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			utils.ErrorLogger.Warnf("Ignoring unreadable cart snapshot: %v", err)
		}
		return
	}
	if snapshot.CartID != session.CartID {
		return
	}

	s.mutex.Lock()
	s.snapshotCount = snapshot.ItemCount
	s.mutex.Unlock()
}

// Fetch replaces the local items with the backend's list.
func (s *CartService) Fetch(ctx context.Context) ([]models.CartItem, error) {
	session, err := s.sessions.Require()
	if err != nil {
		return nil, s.fail(err)
	}

	s.mutex.Lock()
	if s.closed {
		s.mutex.Unlock()
		return nil, ErrViewClosed
	}
	s.issued++
	ticket := s.issued
	s.mutex.Unlock()

	items, err := s.backend.ListCartItems(ctx)

	s.mutex.Lock()
	if s.closed {
		s.mutex.Unlock()
		utils.InfoLogger.Debugf("Discarding cart response #%d after close", ticket)
		return nil, ErrViewClosed
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		// caller sudah berhenti (shutdown, request dibatalkan)
		current := s.copyItemsLocked()
		s.mutex.Unlock()
		utils.InfoLogger.Debugf("Discarding cart response #%d: %v", ticket, ctxErr)
		return current, ctxErr
	}
	if ticket <= s.applied {
		// respons lama, sudah ada fetch yang lebih baru
		current := s.copyItemsLocked()
		s.mutex.Unlock()
		utils.InfoLogger.Debugf("Discarding superseded cart response #%d", ticket)
		return current, nil
	}
	if err != nil {
		s.lastErr = err
		current := s.copyItemsLocked()
		s.mutex.Unlock()

		utils.ErrorLogger.Errorf("Failed to fetch cart items: %v", err)
		s.notifier.Error(notify.EventCartError, UserMessage(err), nil)
		return current, err
	}

	s.items = items
	s.applied = ticket
	s.fetched = true
	s.fetchedAt = time.Now()
	s.lastErr = nil
	count := models.CountCartItems(items)
	current := s.copyItemsLocked()
	s.mutex.Unlock()

	snapshot := models.CartSnapshot{
		CartID:     session.CartID,
		Items:      current,
		ItemCount:  count,
		CapturedAt: time.Now(),
	}
	if err := s.store.SaveCartSnapshot(ctx, snapshot); err != nil {
		utils.ErrorLogger.Warnf("Failed to cache cart snapshot: %v", err)
	}

	s.notifier.Info(notify.EventCartUpdated, "", map[string]interface{}{"item_count": count})
	return current, nil
}

// SetQuantity sets the quantity of an existing line item. Zero deletes it.
func (s *CartService) SetQuantity(ctx context.Context, line models.CartItem, quantity int) error {
	return s.setQuantity(ctx, line, quantity, line.Notes)
}

// SetQuantityByID resolves the line item from the current view.
func (s *CartService) SetQuantityByID(ctx context.Context, cartItemID string, quantity int) error {
	return s.UpdateLine(ctx, cartItemID, quantity, nil)
}

// UpdateLine sets the quantity of a line item and, when notes is non-nil, its
// notes. A nil notes keeps what the line already has.
func (s *CartService) UpdateLine(ctx context.Context, cartItemID string, quantity int, notes *string) error {
	if quantity < 0 {
		return s.fail(ErrInvalidQuantity)
	}
	line, ok := s.Line(cartItemID)
	if !ok {
		return s.fail(ErrItemNotInCart)
	}
	lineNotes := line.Notes
	if notes != nil {
		lineNotes = strings.TrimSpace(*notes)
	}
	return s.setQuantity(ctx, line, quantity, lineNotes)
}

// SetItemQuantity sets the current user's quantity of a catalog item, creating
// the user's line item when it does not exist yet.
func (s *CartService) SetItemQuantity(ctx context.Context, itemID string, quantity int) error {
	if quantity < 0 {
		return s.fail(ErrInvalidQuantity)
	}
	session, err := s.sessions.Require()
	if err != nil {
		return s.fail(err)
	}

	if line, ok := s.ownLine(session.UserID, itemID); ok {
		return s.setQuantity(ctx, line, quantity, line.Notes)
	}
	if quantity == 0 {
		return nil
	}
	return s.create(ctx, itemID, quantity, "")
}

// AddItem adds one unit of a catalog item for the current user.
func (s *CartService) AddItem(ctx context.Context, itemID, notes string) error {
	session, err := s.sessions.Require()
	if err != nil {
		return s.fail(err)
	}
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return s.fail(ErrInvalidInput)
	}

	if line, ok := s.ownLine(session.UserID, itemID); ok {
		if notes == "" {
			notes = line.Notes
		}
		return s.setQuantity(ctx, line, line.Quantity+1, notes)
	}
	return s.create(ctx, itemID, 1, notes)
}

func (s *CartService) setQuantity(ctx context.Context, line models.CartItem, quantity int, notes string) error {
	if quantity < 0 {
		return s.fail(ErrInvalidQuantity)
	}
	if _, err := s.sessions.Require(); err != nil {
		return s.fail(err)
	}
	if line.CartItemID == "" {
		return s.fail(ErrItemNotInCart)
	}

	var err error
	if quantity == 0 {
		err = s.backend.DeleteCartItem(ctx, line.CartItemID)
	} else {
		err = s.backend.UpdateCartItem(ctx, line.CartItemID, models.UpdateCartItemRequest{
			Quantity: quantity,
			Notes:    notes,
		})
	}
	if err != nil {
		utils.ErrorLogger.Errorf("Failed to set quantity of cart item %s to %d: %v", line.CartItemID, quantity, err)
		s.notifier.Error(notify.EventCartError, UserMessage(err), nil)
		return err
	}

	s.refetch(ctx)
	return nil
}

func (s *CartService) create(ctx context.Context, itemID string, quantity int, notes string) error {
	if s.menu != nil {
		if item, ok := s.menu.Find(itemID); ok && !item.IsAvailable {
			return s.fail(ErrItemUnavailable)
		}
	}

	err := s.backend.CreateCartItem(ctx, models.CreateCartItemRequest{
		ItemID:   itemID,
		Quantity: quantity,
		Notes:    notes,
	})
	if err != nil {
		utils.ErrorLogger.Errorf("Failed to add item %s to cart: %v", itemID, err)
		s.notifier.Error(notify.EventCartError, UserMessage(err), nil)
		return err
	}

	s.refetch(ctx)
	return nil
}

// refetch runs after a successful mutation. Its failure marks the view stale
// and is already reported by Fetch.
func (s *CartService) refetch(ctx context.Context) {
	if _, err := s.Fetch(ctx); err != nil && !errors.Is(err, ErrViewClosed) && ctx.Err() == nil {
		utils.ErrorLogger.Warnf("Cart is stale after mutation: %v", err)
	}
}

func (s *CartService) fail(err error) error {
	return publishFailure(s.notifier, notify.EventCartError, err)
}

func (s *CartService) ownLine(userID, itemID string) (models.CartItem, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, it := range s.items {
		if it.UserID == userID && it.ItemID == itemID {
			return it, true
		}
	}
	return models.CartItem{}, false
}

// Line finds a line item by cart_item_id.
func (s *CartService) Line(cartItemID string) (models.CartItem, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, it := range s.items {
		if it.CartItemID == cartItemID {
			return it, true
		}
	}
	return models.CartItem{}, false
}

func (s *CartService) Items() []models.CartItem {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.copyItemsLocked()
}

// Total is recomputed from the current items on every call.
func (s *CartService) Total() decimal.Decimal {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return models.SumCartItems(s.items)
}

// ItemCount is the badge count. Before the first successful fetch it falls
// back to the cached snapshot.
func (s *CartService) ItemCount() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.fetched {
		return s.snapshotCount
	}
	return models.CountCartItems(s.items)
}

func (s *CartService) View() CartView {
	cartID := ""
	if session := s.sessions.Current(); session != nil {
		cartID = session.CartID
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	view := CartView{
		CartID:    cartID,
		Items:     s.copyItemsLocked(),
		Total:     models.SumCartItems(s.items),
		ItemCount: models.CountCartItems(s.items),
		Stale:     s.lastErr != nil,
	}
	switch {
	case !s.fetched:
		view.State = CartStateLoading
		view.ItemCount = s.snapshotCount
	case len(s.items) == 0:
		view.State = CartStateEmpty
	default:
		view.State = CartStateReady
	}
	if s.lastErr != nil {
		view.Error = UserMessage(s.lastErr)
	}
	if s.fetched {
		at := s.fetchedAt
		view.FetchedAt = &at
	}
	return view
}

// Reset drops local state, e.g. after the diner switched tables. Responses
// issued before the reset are discarded.
func (s *CartService) Reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.items = []models.CartItem{}
	s.fetched = false
	s.fetchedAt = time.Time{}
	s.lastErr = nil
	s.snapshotCount = 0
	s.applied = s.issued
}

// Close tears the view down; in-flight responses are ignored from now on.
func (s *CartService) Close() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.closed = true
}

func (s *CartService) copyItemsLocked() []models.CartItem {
	out := make([]models.CartItem, len(s.items))
	copy(out, s.items)
	return out
}
