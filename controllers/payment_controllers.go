package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/gobblego/models"
	"github.com/yeremiapane/gobblego/services"
	"github.com/yeremiapane/gobblego/utils"
)

type PaymentController struct {
	Orders   *services.OrderService
	Currency string
}

func NewPaymentController(orders *services.OrderService, currency string) *PaymentController {
	return &PaymentController{Orders: orders, Currency: currency}
}

// GetPayment -> state pembayaran saat ini
func (pc *PaymentController) GetPayment(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Payment", pc.Orders.Payment())
}

// Checkout -> buat attempt baru dan kembalikan handle untuk UI gateway
func (pc *PaymentController) Checkout(c *gin.Context) {
	handle, err := pc.Orders.Checkout(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, pc.Orders.Payment())
		return
	}

	amountDue := pc.Orders.PendingTotal()
	utils.RespondJSON(c, http.StatusCreated, "Checkout started", gin.H{
		"payment":              handle,
		"amount_due":           amountDue,
		"amount_due_formatted": utils.FormatCurrency(amountDue, pc.Currency),
	})
}

// ConfirmPayment -> teruskan konfirmasi gateway ke backend untuk diverifikasi
func (pc *PaymentController) ConfirmPayment(c *gin.Context) {
	var req models.GatewayConfirmation
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	receipt, err := pc.Orders.ConfirmPayment(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, pc.Orders.Payment())
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment successful", gin.H{
		"receipt":          receipt,
		"amount_formatted": utils.FormatCurrency(receipt.Amount, pc.Currency),
	})
}

// ReportFailure -> callback kegagalan dari gateway
func (pc *PaymentController) ReportFailure(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	// body boleh kosong
	_ = c.ShouldBindJSON(&req)

	if err := pc.Orders.ReportGatewayFailure(req.Reason); err != nil {
		respondServiceError(c, err, nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment failure recorded", pc.Orders.Payment())
}

func (pc *PaymentController) DismissReceipt(c *gin.Context) {
	pc.Orders.DismissReceipt()
	utils.RespondJSON(c, http.StatusOK, "Payment", pc.Orders.Payment())
}
