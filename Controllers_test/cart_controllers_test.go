package Controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartBody struct {
	State          string `json:"state"`
	ItemCount      int    `json:"item_count"`
	Total          string `json:"total"`
	TotalFormatted string `json:"total_formatted"`
	Stale          bool   `json:"stale"`
	Error          string `json:"error"`
	Items          []struct {
		CartItemID string `json:"cart_item_id"`
		ItemID     string `json:"item_id"`
		Quantity   int    `json:"quantity"`
		Notes      string `json:"notes"`
	} `json:"items"`
}

func TestCartRoutesRequireSession(t *testing.T) {
	app := setupApp(t)

	for _, tt := range []struct{ method, path string }{
		{http.MethodGet, "/api/cart"},
		{http.MethodPost, "/api/cart/items"},
		{http.MethodGet, "/api/cart/badge"},
		{http.MethodGet, "/api/orders"},
		{http.MethodPost, "/api/orders"},
		{http.MethodPost, "/api/checkout"},
	} {
		w, env := app.do(t, tt.method, tt.path, nil)
		assert.Equal(t, http.StatusConflict, w.Code, tt.path)
		assert.Equal(t, "please join a table", env.Message, tt.path)
	}
	assert.Empty(t, app.fake.Requests())
}

func TestCartView(t *testing.T) {
	app := setupApp(t)
	app.joinAs(t, "u1", true)
	app.fake.SeedItem("u1", "A", 2)
	app.fake.SeedItem("u2", "B", 1)

	w, env := app.do(t, http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var cart cartBody
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	assert.Equal(t, "ready", cart.State)
	assert.Equal(t, 3, cart.ItemCount)
	assert.Equal(t, "13", cart.Total)
	assert.Equal(t, "₹13.00", cart.TotalFormatted)

	w, env = app.do(t, http.MethodGet, "/api/cart/badge", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count": 3}`, string(env.Data))
}

func TestCartAddAndUpdate(t *testing.T) {
	app := setupApp(t)
	app.joinAs(t, "u1", true)

	w, env := app.do(t, http.MethodPost, "/api/cart/items", map[string]string{"item_id": "A", "notes": "crispy"})
	require.Equal(t, http.StatusOK, w.Code)

	var cart cartBody
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	require.Len(t, cart.Items, 1)
	lineID := cart.Items[0].CartItemID

	w, env = app.do(t, http.MethodPut, "/api/cart/items/"+lineID, map[string]int{"quantity": 3})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, "₹15.00", cart.TotalFormatted)

	w, _ = app.do(t, http.MethodPut, "/api/cart/items/"+lineID, map[string]int{"quantity": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = app.do(t, http.MethodPut, "/api/cart/items/"+lineID, map[string]int{"quantity": 0})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	assert.Equal(t, "empty", cart.State)

	w, _ = app.do(t, http.MethodPut, "/api/cart/items/missing", map[string]int{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = app.do(t, http.MethodPut, "/api/cart/items/"+lineID, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartRefreshFailureKeepsLastState(t *testing.T) {
	app := setupApp(t)
	app.joinAs(t, "u1", true)
	app.fake.SeedItem("u1", "A", 2)
	app.do(t, http.MethodGet, "/api/cart", nil)

	app.fake.SetFailList(true)
	w, env := app.do(t, http.MethodPost, "/api/cart/refresh", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "database unavailable", env.Message)

	var cart cartBody
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	assert.True(t, cart.Stale)
	assert.Equal(t, 2, cart.ItemCount)
}

func TestCartUpdateItemNotes(t *testing.T) {
	app := setupApp(t)
	app.joinAs(t, "u1", true)

	w, env := app.do(t, http.MethodPost, "/api/cart/items", map[string]string{"item_id": "A", "notes": "crispy"})
	require.Equal(t, http.StatusOK, w.Code)
	var cart cartBody
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	require.Len(t, cart.Items, 1)
	lineID := cart.Items[0].CartItemID

	w, env = app.do(t, http.MethodPut, "/api/cart/items/"+lineID, map[string]interface{}{"quantity": 2, "notes": "extra chutney"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, "extra chutney", cart.Items[0].Notes)

	// tanpa notes, catatan lama tetap dipakai
	w, env = app.do(t, http.MethodPut, "/api/cart/items/"+lineID, map[string]int{"quantity": 3})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	assert.Equal(t, "extra chutney", cart.Items[0].Notes)
}
