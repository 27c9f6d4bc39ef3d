package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/gobblego/models"
	"github.com/yeremiapane/gobblego/services"
	"github.com/yeremiapane/gobblego/utils"
)

type OrderController struct {
	Orders   *services.OrderService
	Currency string
}

func NewOrderController(orders *services.OrderService, currency string) *OrderController {
	return &OrderController{Orders: orders, Currency: currency}
}

type orderRow struct {
	models.Order
	Display        models.StatusDisplay `json:"display"`
	TotalFormatted string               `json:"total_formatted"`
}

type ordersResponse struct {
	Orders                []orderRow      `json:"orders"`
	CanPlaceOrder         bool            `json:"can_place_order"`
	PendingTotal          decimal.Decimal `json:"pending_total"`
	PendingTotalFormatted string          `json:"pending_total_formatted"`
	Stale                 bool            `json:"stale"`
	Error                 string          `json:"error,omitempty"`
}

func (oc *OrderController) payload() ordersResponse {
	view := oc.Orders.View()
	rows := make([]orderRow, 0, len(view.Orders))
	for _, o := range view.Orders {
		rows = append(rows, orderRow{
			Order:          o,
			Display:        o.Status.Display(),
			TotalFormatted: utils.FormatCurrency(o.TotalAmount, oc.Currency),
		})
	}
	return ordersResponse{
		Orders:                rows,
		CanPlaceOrder:         view.CanPlaceOrder,
		PendingTotal:          view.PendingTotal,
		PendingTotalFormatted: utils.FormatCurrency(view.PendingTotal, oc.Currency),
		Stale:                 view.Stale,
		Error:                 view.Error,
	}
}

// GetOrders -> list order beserta status display dan amount due
func (oc *OrderController) GetOrders(c *gin.Context) {
	if !oc.Orders.View().Loaded || c.Query("refresh") == "true" {
		if _, err := oc.Orders.Refresh(c.Request.Context()); err != nil {
			respondServiceError(c, err, oc.payload())
			return
		}
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", oc.payload())
}

// PlaceOrder -> hanya leader; cart berpindah menjadi order di backend
func (oc *OrderController) PlaceOrder(c *gin.Context) {
	if err := oc.Orders.PlaceOrder(c.Request.Context()); err != nil {
		respondServiceError(c, err, nil)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order placed", oc.payload())
}

// UpdateOrderStatus -> minta transisi status ke backend
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := oc.Orders.UpdateStatus(c.Request.Context(), c.Param("order_id"), req.Status); err != nil {
		respondServiceError(c, err, nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", oc.payload())
}
