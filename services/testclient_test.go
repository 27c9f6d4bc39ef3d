package services

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yeremiapane/gobblego/database"
	"github.com/yeremiapane/gobblego/models"
	"github.com/yeremiapane/gobblego/notify"
	"github.com/yeremiapane/gobblego/services/backendtest"
	"github.com/yeremiapane/gobblego/utils"
)

// testClient wires every service against a fake backend, the way main does.
type testClient struct {
	fake     *backendtest.Backend
	server   *httptest.Server
	store    *database.MemoryStore
	hub      *notify.Hub
	sessions *SessionService
	menu     *MenuService
	cart     *CartService
	orders   *OrderService
}

func newTestClient(t *testing.T) *testClient {
	t.Helper()
	utils.SilenceLoggers()

	fake := backendtest.New()
	server := fake.Start()
	t.Cleanup(server.Close)

	backend := NewBackendService(&BackendConfig{BaseURL: backendtest.BaseURL(server), Timeout: 5 * time.Second})
	store := database.NewMemoryStore()
	hub := notify.NewHub(20)
	sessions := NewSessionService(backend, store, hub)
	menu := NewMenuService(backend, hub)
	cart := NewCartService(backend, sessions, menu, store, hub)
	orders := NewOrderService(backend, sessions, cart, hub, "INR")

	return &testClient{
		fake:     fake,
		server:   server,
		store:    store,
		hub:      hub,
		sessions: sessions,
		menu:     menu,
		cart:     cart,
		orders:   orders,
	}
}

// joinAs stores an identity without calling the backend.
func (tc *testClient) joinAs(t *testing.T, userID string, leader bool) {
	t.Helper()
	err := tc.store.SaveSession(context.Background(), models.Session{
		UserID:   userID,
		UserName: "Diner " + userID,
		CartID:   "cart1",
		TableID:  "T1",
		IsLeader: leader,
	})
	if err != nil {
		t.Fatal(err)
	}
	tc.sessions.Load(context.Background())
}
