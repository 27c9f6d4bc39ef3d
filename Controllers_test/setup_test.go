package Controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/gobblego/database"
	"github.com/yeremiapane/gobblego/models"
	"github.com/yeremiapane/gobblego/notify"
	"github.com/yeremiapane/gobblego/router"
	"github.com/yeremiapane/gobblego/services"
	"github.com/yeremiapane/gobblego/services/backendtest"
	"github.com/yeremiapane/gobblego/utils"
)

type testApp struct {
	fake     *backendtest.Backend
	store    *database.MemoryStore
	sessions *services.SessionService
	orders   *services.OrderService
	hub      *notify.Hub
	router   *gin.Engine
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.SilenceLoggers()

	fake := backendtest.New()
	server := fake.Start()
	t.Cleanup(server.Close)

	backend := services.NewBackendService(&services.BackendConfig{BaseURL: backendtest.BaseURL(server), Timeout: 5 * time.Second})
	store := database.NewMemoryStore()
	hub := notify.NewHub(20)
	sessions := services.NewSessionService(backend, store, hub)
	menu := services.NewMenuService(backend, hub)
	cart := services.NewCartService(backend, sessions, menu, store, hub)
	orders := services.NewOrderService(backend, sessions, cart, hub, "INR")
	assets := services.NewAssetService(&services.AssetConfig{Bucket: "gobblego", Prefix: "assets", Region: "ap-south-1"}, nil)

	r := router.SetupRouter(&router.Dependencies{
		Sessions:    sessions,
		Menu:        menu,
		Cart:        cart,
		Orders:      orders,
		Assets:      assets,
		Hub:         hub,
		Currency:    "INR",
		JoinURLBase: "https://eat.example.com",
		CORSOrigins: []string{"https://eat.example.com"},
	})

	return &testApp{fake: fake, store: store, sessions: sessions, orders: orders, hub: hub, router: r}
}

// joinAs stores an identity directly, skipping POST /api/session.
func (app *testApp) joinAs(t *testing.T, userID string, leader bool) {
	t.Helper()
	require.NoError(t, app.store.SaveSession(context.Background(), models.Session{
		UserID:   userID,
		UserName: "Diner " + userID,
		CartID:   "cart1",
		TableID:  "T1",
		IsLeader: leader,
	}))
	app.sessions.Load(context.Background())
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (app *testApp) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}
