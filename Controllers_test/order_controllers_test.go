package Controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/gobblego/models"
)

type ordersBody struct {
	Orders []struct {
		OrderID        string               `json:"order_id"`
		Status         string               `json:"status"`
		Display        models.StatusDisplay `json:"display"`
		TotalFormatted string               `json:"total_formatted"`
	} `json:"orders"`
	CanPlaceOrder         bool   `json:"can_place_order"`
	PendingTotalFormatted string `json:"pending_total_formatted"`
}

func TestGetOrders(t *testing.T) {
	app := setupApp(t)
	app.joinAs(t, "u1", true)
	app.fake.SeedOrder("o1", models.OrderStatusPending, "13.00")
	app.fake.SeedOrder("o2", models.OrderStatusCompleted, "4.00")

	w, env := app.do(t, http.MethodGet, "/api/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body ordersBody
	require.NoError(t, json.Unmarshal(env.Data, &body))
	require.Len(t, body.Orders, 2)
	assert.True(t, body.CanPlaceOrder)
	assert.Equal(t, "₹13.00", body.Orders[0].TotalFormatted)
	assert.True(t, body.Orders[0].Display.Known)
	assert.Equal(t, "₹13.00", body.PendingTotalFormatted)
}

func TestPlaceOrderAsMember(t *testing.T) {
	app := setupApp(t)
	app.joinAs(t, "u2", false)

	w, env := app.do(t, http.MethodGet, "/api/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"can_place_order":false`)

	w, env = app.do(t, http.MethodPost, "/api/orders", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "only the table leader can place an order", env.Message)
	assert.NotContains(t, app.fake.Requests(), "POST /orders")
}

func TestPlaceOrderAsLeader(t *testing.T) {
	app := setupApp(t)
	app.joinAs(t, "u1", true)
	app.fake.SeedItem("u1", "A", 2)
	app.fake.SeedItem("u2", "B", 1)

	w, env := app.do(t, http.MethodPost, "/api/orders", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var body ordersBody
	require.NoError(t, json.Unmarshal(env.Data, &body))
	require.Len(t, body.Orders, 1)
	assert.Equal(t, "pending", body.Orders[0].Status)
	assert.Equal(t, "₹13.00", body.PendingTotalFormatted)

	// cart dikosongkan backend setelah order dibuat
	w, env = app.do(t, http.MethodGet, "/api/cart/badge", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count": 0}`, string(env.Data))
}

func TestPlaceOrderRejectedByBackend(t *testing.T) {
	app := setupApp(t)
	app.joinAs(t, "u1", true)
	app.fake.RejectOrders("cart is empty")

	w, env := app.do(t, http.MethodPost, "/api/orders", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "cart is empty", env.Message)
}

func TestUpdateOrderStatus(t *testing.T) {
	app := setupApp(t)
	app.joinAs(t, "u1", true)
	app.fake.SeedOrder("o1", models.OrderStatusPending, "13.00")

	w, env := app.do(t, http.MethodPatch, "/api/orders/o1", map[string]string{"status": "preparing"})
	require.Equal(t, http.StatusOK, w.Code)

	var body ordersBody
	require.NoError(t, json.Unmarshal(env.Data, &body))
	require.Len(t, body.Orders, 1)
	assert.Equal(t, "preparing", body.Orders[0].Status)

	w, env = app.do(t, http.MethodPatch, "/api/orders/missing", map[string]string{"status": "preparing"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "order not found", env.Message)
}
