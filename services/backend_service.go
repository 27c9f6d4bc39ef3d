package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yeremiapane/gobblego/models"
	"github.com/yeremiapane/gobblego/utils"
)

// Backend is the remote ordering API consumed by the client (see BackendService).
type Backend interface {
	ListMenu(ctx context.Context, category string) ([]models.MenuItem, error)
	ListTableMembers(ctx context.Context, tableID string) ([]models.User, error)
	JoinTable(ctx context.Context, req models.JoinTableRequest) (*models.User, error)

	ListCartItems(ctx context.Context) ([]models.CartItem, error)
	CreateCartItem(ctx context.Context, req models.CreateCartItemRequest) error
	UpdateCartItem(ctx context.Context, cartItemID string, req models.UpdateCartItemRequest) error
	DeleteCartItem(ctx context.Context, cartItemID string) error

	PlaceOrder(ctx context.Context, req models.PlaceOrderRequest) error
	ListOrders(ctx context.Context) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, req models.UpdateOrderStatusRequest) error
	Checkout(ctx context.Context) (*models.PaymentDetails, error)
	VerifyPayment(ctx context.Context, req models.VerifyPaymentRequest) error
}

// BackendConfig holds the backend connection settings
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// BackendService talks JSON over HTTP to the ordering backend.
type BackendService struct {
	config     *BackendConfig
	httpClient *http.Client
}

// NewBackendService creates a client with its own cookie jar so the backend
// session cookie travels with every call.
func NewBackendService(config *BackendConfig) *BackendService {
	jar, _ := cookiejar.New(nil)
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &BackendService{
		config: config,
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
	}
}

func (bs *BackendService) ListMenu(ctx context.Context, category string) ([]models.MenuItem, error) {
	query := url.Values{}
	if category != "" {
		query.Set("category", category)
	}
	var items []models.MenuItem
	if err := bs.do(ctx, http.MethodGet, "/menu", query, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (bs *BackendService) ListTableMembers(ctx context.Context, tableID string) ([]models.User, error) {
	var users []models.User
	if err := bs.do(ctx, http.MethodGet, "/users/"+url.PathEscape(tableID), nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (bs *BackendService) JoinTable(ctx context.Context, req models.JoinTableRequest) (*models.User, error) {
	var user models.User
	if err := bs.do(ctx, http.MethodPost, "/users/", nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (bs *BackendService) ListCartItems(ctx context.Context) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := bs.do(ctx, http.MethodGet, "/cart/items", nil, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return items, nil
}

func (bs *BackendService) CreateCartItem(ctx context.Context, req models.CreateCartItemRequest) error {
	return bs.do(ctx, http.MethodPost, "/cart/items", nil, req, nil)
}

func (bs *BackendService) UpdateCartItem(ctx context.Context, cartItemID string, req models.UpdateCartItemRequest) error {
	return bs.do(ctx, http.MethodPut, "/cart/items/"+url.PathEscape(cartItemID), nil, req, nil)
}

func (bs *BackendService) DeleteCartItem(ctx context.Context, cartItemID string) error {
	return bs.do(ctx, http.MethodDelete, "/cart/items/"+url.PathEscape(cartItemID), nil, nil, nil)
}

func (bs *BackendService) PlaceOrder(ctx context.Context, req models.PlaceOrderRequest) error {
	return bs.do(ctx, http.MethodPost, "/orders", nil, req, nil)
}

func (bs *BackendService) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := bs.do(ctx, http.MethodGet, "/orders", nil, nil, &orders); err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

func (bs *BackendService) UpdateOrderStatus(ctx context.Context, orderID string, req models.UpdateOrderStatusRequest) error {
	return bs.do(ctx, http.MethodPatch, "/orders/"+url.PathEscape(orderID), nil, req, nil)
}

func (bs *BackendService) Checkout(ctx context.Context) (*models.PaymentDetails, error) {
	var details models.PaymentDetails
	if err := bs.do(ctx, http.MethodPost, "/orders/checkout", nil, struct{}{}, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

func (bs *BackendService) VerifyPayment(ctx context.Context, req models.VerifyPaymentRequest) error {
	return bs.do(ctx, http.MethodPost, "/payments/verify", nil, req, nil)
}

// do sends one request and decodes a 2xx body into out (when out is non-nil).
func (bs *BackendService) do(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) error {
	endpoint := strings.TrimRight(bs.config.BaseURL, "/") + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Method: method, Path: path, Err: fmt.Errorf("error marshaling request: %w", err)}
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: fmt.Errorf("error creating request: %w", err)}
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := bs.httpClient.Do(req)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: fmt.Errorf("error reading response: %w", err)}
	}

	utils.InfoLogger.WithFields(map[string]interface{}{
		"request_id": requestID,
		"status":     resp.StatusCode,
		"latency":    time.Since(start).String(),
	}).Debugf("backend %s %s", method, path)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    backendMessage(respBody),
		}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &TransportError{Method: method, Path: path, Err: fmt.Errorf("error unmarshaling response: %w", err)}
	}
	return nil
}

// backendMessage extracts a human readable reason from an error body.
func backendMessage(body []byte) string {
	var payload struct {
		Error   interface{} `json:"error"`
		Message string      `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if s, ok := payload.Error.(string); ok && s != "" {
			return s
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}

// IsNotFound reports whether the backend answered 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
