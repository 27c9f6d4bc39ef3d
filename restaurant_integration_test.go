package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/gobblego/config"
	"github.com/yeremiapane/gobblego/database"
	"github.com/yeremiapane/gobblego/notify"
	"github.com/yeremiapane/gobblego/router"
	"github.com/yeremiapane/gobblego/services"
	"github.com/yeremiapane/gobblego/services/backendtest"
	"github.com/yeremiapane/gobblego/utils"
)

func TestMain(m *testing.M) {
	utils.SilenceLoggers()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type client struct {
	sessions *services.SessionService
	cart     *services.CartService
	orders   *services.OrderService
	router   *gin.Engine
}

func newClient(baseURL string, store database.Store) *client {
	backend := services.NewBackendService(&services.BackendConfig{BaseURL: baseURL, Timeout: 5 * time.Second})
	hub := notify.NewHub(0)
	sessions := services.NewSessionService(backend, store, hub)
	menu := services.NewMenuService(backend, hub)
	cart := services.NewCartService(backend, sessions, menu, store, hub)
	orders := services.NewOrderService(backend, sessions, cart, hub, "INR")

	cfg := &config.Config{}
	cfg.Assets = services.AssetConfig{Bucket: "gobblego", Prefix: "assets", Region: "ap-south-1"}

	r := router.SetupRouter(&router.Dependencies{
		Sessions:    sessions,
		Menu:        menu,
		Cart:        cart,
		Orders:      orders,
		Assets:      config.InitAssets(cfg),
		Hub:         hub,
		Currency:    "INR",
		JoinURLBase: "http://localhost:3000",
	})
	return &client{sessions: sessions, cart: cart, orders: orders, router: r}
}

func (c *client) call(t *testing.T, method, path string, body interface{}) map[string]interface{} {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	require.True(t, w.Code >= 200 && w.Code < 300, "%s %s -> %d %s", method, path, w.Code, w.Body.String())
	data, _ := resp["data"].(map[string]interface{})
	return data
}

// TestEndToEndIntegration menguji flow utama:
// 1. Join meja sebagai leader
// 2. Ambil menu, tambah item ke cart
// 3. Place order -> cart kosong
// 4. Checkout + confirm -> order completed
// 5. Restart client -> session dan badge dipulihkan dari store
func TestEndToEndIntegration(t *testing.T) {
	fake := backendtest.New()
	server := fake.Start()
	defer server.Close()

	store, err := config.InitStore(&config.Config{
		StoreDriver:    "sqlite",
		StoreDSN:       "file:integration?mode=memory&cache=shared",
		StoreNamespace: "table-T7",
	})
	require.NoError(t, err)
	defer store.Close()

	app := newClient(backendtest.BaseURL(server), store)

	// 1. Join
	data := app.call(t, http.MethodPost, "/api/session", map[string]string{"table_id": "T7", "user_name": "Asha"})
	assert.Equal(t, true, data["joined"])
	assert.Equal(t, true, data["can_place_order"])

	// 2. Menu + cart
	data = app.call(t, http.MethodGet, "/api/menu", nil)
	assert.Len(t, data["items"], 3)

	app.call(t, http.MethodPost, "/api/cart/items", map[string]string{"item_id": "A"})
	app.call(t, http.MethodPost, "/api/cart/items", map[string]string{"item_id": "A"})
	data = app.call(t, http.MethodPost, "/api/cart/items", map[string]interface{}{"item_id": "B", "quantity": 1})
	assert.Equal(t, float64(3), data["item_count"])
	assert.Equal(t, "₹13.00", data["total_formatted"])

	// 3. Place order
	data = app.call(t, http.MethodPost, "/api/orders", nil)
	assert.Equal(t, "₹13.00", data["pending_total_formatted"])
	assert.Equal(t, 0, app.cart.ItemCount())

	// 4. Checkout + confirm
	app.call(t, http.MethodPost, "/api/checkout", nil)
	data = app.call(t, http.MethodPost, "/api/checkout/confirm", map[string]string{
		"razorpay_payment_id": "pay_rzp_1",
		"razorpay_order_id":   "order_rzp_1",
		"razorpay_signature":  "sig",
	})
	assert.Equal(t, "₹13.00", data["amount_formatted"])

	data = app.call(t, http.MethodGet, "/api/orders?refresh=true", nil)
	orders, _ := data["orders"].([]interface{})
	require.Len(t, orders, 1)
	assert.Equal(t, "completed", orders[0].(map[string]interface{})["status"])
	assert.Equal(t, "₹0.00", data["pending_total_formatted"])

	// 5. Tambah item lagi, lalu "restart" dengan store yang sama
	app.call(t, http.MethodPost, "/api/cart/items", map[string]string{"item_id": "B"})
	app.cart.Close()

	restarted := newClient(backendtest.BaseURL(server), store)
	session := restarted.sessions.Load(context.Background())
	require.NotNil(t, session)
	assert.Equal(t, "Asha", session.UserName)
	assert.Equal(t, "T7", session.TableID)

	restarted.cart.RestoreSnapshot(context.Background())
	data = restarted.call(t, http.MethodGet, "/api/cart/badge", nil)
	assert.Equal(t, float64(1), data["count"])

	restarted.call(t, http.MethodDelete, "/api/session", nil)
	_, err = store.LoadSession(context.Background())
	assert.ErrorIs(t, err, database.ErrNotFound)
}
