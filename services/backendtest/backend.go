// Package backendtest runs an in-process ordering backend for tests.
package backendtest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/gobblego/models"
)

// Backend is an in-process ordering API with the same routes as the real one.
// All behaviour switches are guarded by the same mutex as the data.
type Backend struct {
	mutex sync.Mutex

	menu        []models.MenuItem
	users       []models.User
	items       []models.CartItem
	orders      []models.Order
	nextID      int
	requests    []string
	verifyBody  map[string]interface{}
	failVerify  bool
	failList    bool
	rejectOrder string
	checkout    models.PaymentDetails
}

func New() *Backend {
	return &Backend{
		menu: []models.MenuItem{
			{ItemID: "A", ItemName: "Masala Dosa", Price: decimal.RequireFromString("5.00"), Category: "Mains", IsAvailable: true},
			{ItemID: "B", ItemName: "Filter Coffee", Price: decimal.RequireFromString("3.00"), Category: "Drinks", IsAvailable: true},
			{ItemID: "C", ItemName: "Idli", Price: decimal.RequireFromString("2.50"), Category: "Mains", IsAvailable: false},
		},
		checkout: models.PaymentDetails{
			PaymentID:      "pay_1",
			GatewayOrderID: "order_rzp_1",
			Amount:         decimal.RequireFromString("13.00"),
			Currency:       "INR",
		},
	}
}

func (f *Backend) record(c *gin.Context) {
	f.requests = append(f.requests, c.Request.Method+" "+strings.TrimPrefix(c.Request.URL.Path, "/api/v1"))
}

// Requests returns "METHOD /path" for every call seen so far.
func (f *Backend) Requests() []string {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *Backend) price(itemID string) decimal.Decimal {
	for _, m := range f.menu {
		if m.ItemID == itemID {
			return m.Price
		}
	}
	return decimal.Zero
}

func (f *Backend) currentUser(c *gin.Context) string {
	if id, err := c.Cookie("user_id"); err == nil && id != "" {
		return id
	}
	return "u1"
}

// SeedItem adds a line item directly, bypassing the API.
func (f *Backend) SeedItem(userID, itemID string, quantity int) string {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.nextID++
	id := fmt.Sprintf("ci%d", f.nextID)
	f.items = append(f.items, models.CartItem{
		CartItemID: id,
		CartID:     "cart1",
		ItemID:     itemID,
		UserID:     userID,
		Quantity:   quantity,
		ItemPrice:  f.price(itemID),
	})
	return id
}

func (f *Backend) SeedOrder(id string, status models.OrderStatus, amount string) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.orders = append(f.orders, models.Order{
		OrderID:     id,
		CartID:      "cart1",
		UserID:      "u1",
		Status:      status,
		TotalAmount: decimal.RequireFromString(amount),
	})
}

// Router returns the gin engine serving /api/v1.
func (f *Backend) Router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		f.mutex.Lock()
		f.record(c)
		f.mutex.Unlock()
		c.Next()
	})

	api := r.Group("/api/v1")
	api.GET("/menu", func(c *gin.Context) {
		f.mutex.Lock()
		defer f.mutex.Unlock()
		category := c.Query("category")
		out := []models.MenuItem{}
		for _, m := range f.menu {
			if category == "" || m.Category == category {
				out = append(out, m)
			}
		}
		c.JSON(http.StatusOK, out)
	})
	api.GET("/users/:table_id", func(c *gin.Context) {
		f.mutex.Lock()
		defer f.mutex.Unlock()
		out := []models.User{}
		for _, u := range f.users {
			if u.TableID == c.Param("table_id") {
				out = append(out, u)
			}
		}
		c.JSON(http.StatusOK, out)
	})
	api.POST("/users/", func(c *gin.Context) {
		var req models.JoinTableRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.UserName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_name is required"})
			return
		}
		f.mutex.Lock()
		defer f.mutex.Unlock()
		leader := true
		for _, u := range f.users {
			if u.TableID == req.TableID {
				leader = false
			}
		}
		user := models.User{
			UserID:   fmt.Sprintf("u%d", len(f.users)+1),
			UserName: req.UserName,
			CartID:   "cart1",
			TableID:  req.TableID,
			IsLeader: leader,
		}
		f.users = append(f.users, user)
		c.SetCookie("user_id", user.UserID, 3600, "/", "", false, true)
		c.JSON(http.StatusCreated, user)
	})
	api.GET("/cart/items", func(c *gin.Context) {
		f.mutex.Lock()
		defer f.mutex.Unlock()
		if f.failList {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, append([]models.CartItem{}, f.items...))
	})
	api.POST("/cart/items", func(c *gin.Context) {
		var req models.CreateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cart item"})
			return
		}
		user := f.currentUser(c)
		f.mutex.Lock()
		defer f.mutex.Unlock()
		f.nextID++
		f.items = append(f.items, models.CartItem{
			CartItemID: fmt.Sprintf("ci%d", f.nextID),
			CartID:     "cart1",
			ItemID:     req.ItemID,
			UserID:     user,
			Quantity:   req.Quantity,
			ItemPrice:  f.price(req.ItemID),
			Notes:      req.Notes,
		})
		c.JSON(http.StatusCreated, gin.H{"message": "created"})
	})
	api.PUT("/cart/items/:id", func(c *gin.Context) {
		var req models.UpdateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quantity"})
			return
		}
		f.mutex.Lock()
		defer f.mutex.Unlock()
		for i := range f.items {
			if f.items[i].CartItemID == c.Param("id") {
				f.items[i].Quantity = req.Quantity
				f.items[i].Notes = req.Notes
				c.JSON(http.StatusOK, f.items[i])
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "cart item not found"})
	})
	api.DELETE("/cart/items/:id", func(c *gin.Context) {
		f.mutex.Lock()
		defer f.mutex.Unlock()
		for i := range f.items {
			if f.items[i].CartItemID == c.Param("id") {
				f.items = append(f.items[:i], f.items[i+1:]...)
				c.Status(http.StatusNoContent)
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "cart item not found"})
	})
	api.POST("/orders", func(c *gin.Context) {
		var req models.PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.CartID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart_id is required"})
			return
		}
		f.mutex.Lock()
		defer f.mutex.Unlock()
		if f.rejectOrder != "" {
			c.JSON(http.StatusForbidden, gin.H{"message": f.rejectOrder})
			return
		}
		f.orders = append(f.orders, models.Order{
			OrderID:     fmt.Sprintf("o%d", len(f.orders)+1),
			CartID:      req.CartID,
			UserID:      f.currentUser(c),
			Status:      models.OrderStatusPending,
			TotalAmount: models.SumCartItems(f.items),
		})
		f.items = nil
		c.JSON(http.StatusCreated, gin.H{"message": "order placed"})
	})
	api.GET("/orders", func(c *gin.Context) {
		f.mutex.Lock()
		defer f.mutex.Unlock()
		c.JSON(http.StatusOK, append([]models.Order{}, f.orders...))
	})
	api.PATCH("/orders/:id", func(c *gin.Context) {
		var req models.UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		f.mutex.Lock()
		defer f.mutex.Unlock()
		for i := range f.orders {
			if f.orders[i].OrderID == c.Param("id") {
				f.orders[i].Status = req.Status
				c.JSON(http.StatusOK, f.orders[i])
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
	})
	api.POST("/orders/checkout", func(c *gin.Context) {
		f.mutex.Lock()
		defer f.mutex.Unlock()
		c.JSON(http.StatusOK, f.checkout)
	})
	api.POST("/payments/verify", func(c *gin.Context) {
		var body map[string]interface{}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		f.mutex.Lock()
		defer f.mutex.Unlock()
		f.verifyBody = body
		if f.failVerify {
			c.JSON(http.StatusBadRequest, gin.H{"error": "signature mismatch"})
			return
		}
		for i := range f.orders {
			f.orders[i].Status = models.OrderStatusCompleted
		}
		c.JSON(http.StatusOK, gin.H{"message": "payment verified"})
	})
	return r
}

// Start serves the backend; BaseURL is server.URL + "/api/v1".
func (f *Backend) Start() *httptest.Server {
	return httptest.NewServer(f.Router())
}

func BaseURL(server *httptest.Server) string {
	return server.URL + "/api/v1"
}

func (f *Backend) SetFailList(fail bool) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.failList = fail
}

func (f *Backend) SetFailVerify(fail bool) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.failVerify = fail
}

// RejectOrders makes POST /orders answer 403 with the given message.
func (f *Backend) RejectOrders(message string) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.rejectOrder = message
}

func (f *Backend) SetNotes(cartItemID, notes string) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	for i := range f.items {
		if f.items[i].CartItemID == cartItemID {
			f.items[i].Notes = notes
		}
	}
}

// VerifyBody is the last body received by POST /payments/verify.
func (f *Backend) VerifyBody() map[string]interface{} {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.verifyBody
}

func (f *Backend) Orders() []models.Order {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return append([]models.Order(nil), f.orders...)
}
