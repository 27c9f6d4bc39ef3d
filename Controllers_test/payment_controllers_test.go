package Controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/gobblego/models"
)

var confirmation = map[string]string{
	"razorpay_payment_id": "pay_rzp_9",
	"razorpay_order_id":   "order_rzp_1",
	"razorpay_signature":  "sig",
}

type paymentBody struct {
	Phase   string `json:"phase"`
	Error   string `json:"error"`
	Metrics struct {
		Checkouts            int64 `json:"checkouts"`
		Verified             int64 `json:"verified"`
		VerificationFailures int64 `json:"verification_failures"`
		GatewayFailures      int64 `json:"gateway_failures"`
	} `json:"metrics"`
}

func TestCheckoutAndConfirm(t *testing.T) {
	app := setupApp(t)
	app.joinAs(t, "u1", true)
	app.fake.SeedOrder("o1", models.OrderStatusServed, "13.00")
	app.do(t, http.MethodGet, "/api/orders", nil)

	w, env := app.do(t, http.MethodPost, "/api/checkout", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	var started struct {
		Payment struct {
			PaymentID      string `json:"payment_id"`
			GatewayOrderID string `json:"razorpay_order_id"`
		} `json:"payment"`
		AmountDueFormatted string `json:"amount_due_formatted"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &started))
	assert.Equal(t, "pay_1", started.Payment.PaymentID)
	assert.Equal(t, "order_rzp_1", started.Payment.GatewayOrderID)
	assert.Equal(t, "₹13.00", started.AmountDueFormatted)

	// checkout kedua ditolak selama attempt masih berjalan
	w, _ = app.do(t, http.MethodPost, "/api/checkout", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env = app.do(t, http.MethodPost, "/api/checkout/confirm", confirmation)
	require.Equal(t, http.StatusOK, w.Code)

	var confirmed struct {
		Receipt struct {
			GatewayPaymentID string `json:"gateway_payment_id"`
		} `json:"receipt"`
		AmountFormatted string `json:"amount_formatted"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &confirmed))
	assert.Equal(t, "pay_rzp_9", confirmed.Receipt.GatewayPaymentID)
	assert.Equal(t, "₹13.00", confirmed.AmountFormatted)
	assert.Equal(t, "pay_1", app.fake.VerifyBody()["payment_id"])

	for _, o := range app.fake.Orders() {
		assert.Equal(t, models.OrderStatusCompleted, o.Status)
	}

	w, env = app.do(t, http.MethodGet, "/api/checkout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var payment paymentBody
	require.NoError(t, json.Unmarshal(env.Data, &payment))
	assert.Equal(t, "succeeded", payment.Phase)
	assert.EqualValues(t, 1, payment.Metrics.Checkouts)
	assert.EqualValues(t, 1, payment.Metrics.Verified)

	w, env = app.do(t, http.MethodDelete, "/api/checkout/receipt", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &payment))
	assert.Equal(t, "idle", payment.Phase)
}

func TestConfirmWithoutCheckout(t *testing.T) {
	app := setupApp(t)
	app.joinAs(t, "u1", true)

	w, env := app.do(t, http.MethodPost, "/api/checkout/confirm", confirmation)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "no active payment to verify", env.Message)
	assert.NotContains(t, app.fake.Requests(), "POST /payments/verify")

	w, _ = app.do(t, http.MethodPost, "/api/checkout/confirm", map[string]string{"razorpay_payment_id": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfirmVerificationFailure(t *testing.T) {
	app := setupApp(t)
	app.joinAs(t, "u1", true)
	app.fake.SetFailVerify(true)

	w, _ := app.do(t, http.MethodPost, "/api/checkout", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := app.do(t, http.MethodPost, "/api/checkout/confirm", confirmation)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "signature mismatch", env.Message)

	var payment paymentBody
	require.NoError(t, json.Unmarshal(env.Data, &payment))
	assert.Equal(t, "verification_failed", payment.Phase)
	assert.EqualValues(t, 1, payment.Metrics.VerificationFailures)

	// attempt masih ada, jadi verifikasi bisa diulang
	app.fake.SetFailVerify(false)
	w, _ = app.do(t, http.MethodPost, "/api/checkout/confirm", confirmation)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReportGatewayFailure(t *testing.T) {
	app := setupApp(t)
	app.joinAs(t, "u1", true)

	w, _ := app.do(t, http.MethodPost, "/api/checkout/failure", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	app.do(t, http.MethodPost, "/api/checkout", nil)
	w, env := app.do(t, http.MethodPost, "/api/checkout/failure", map[string]string{"reason": "card declined"})
	require.Equal(t, http.StatusOK, w.Code)

	var payment paymentBody
	require.NoError(t, json.Unmarshal(env.Data, &payment))
	assert.Equal(t, "gateway_failed", payment.Phase)
	assert.Equal(t, "card declined", payment.Error)
	assert.EqualValues(t, 1, payment.Metrics.GatewayFailures)
	assert.NotContains(t, app.fake.Requests(), "POST /payments/verify")
}
