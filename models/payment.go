package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentDetails is the gateway order handle for one checkout attempt.
type PaymentDetails struct {
	PaymentID      string          `json:"payment_id"`
	GatewayOrderID string          `json:"razorpay_order_id"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
}

// GatewayConfirmation holds the signed fields handed back by the gateway UI on success.
type GatewayConfirmation struct {
	GatewayPaymentID string `json:"razorpay_payment_id"`
	GatewayOrderID   string `json:"razorpay_order_id"`
	Signature        string `json:"razorpay_signature"`
}

// VerifyPaymentRequest is the confirmation plus the attempt's payment_id.
type VerifyPaymentRequest struct {
	PaymentID        string `json:"payment_id"`
	GatewayPaymentID string `json:"razorpay_payment_id"`
	GatewayOrderID   string `json:"razorpay_order_id"`
	Signature        string `json:"razorpay_signature"`
}

func NewVerifyPaymentRequest(paymentID string, c GatewayConfirmation) VerifyPaymentRequest {
	return VerifyPaymentRequest{
		PaymentID:        paymentID,
		GatewayPaymentID: c.GatewayPaymentID,
		GatewayOrderID:   c.GatewayOrderID,
		Signature:        c.Signature,
	}
}

type PaymentPhase string

const (
	PaymentPhaseIdle               PaymentPhase = "idle"
	PaymentPhaseInitiated          PaymentPhase = "initiated"
	PaymentPhaseVerifying          PaymentPhase = "verifying"
	PaymentPhaseSucceeded          PaymentPhase = "succeeded"
	PaymentPhaseVerificationFailed PaymentPhase = "verification_failed"
	PaymentPhaseGatewayFailed      PaymentPhase = "gateway_failed"
)

// PaymentReceipt is shown only after the backend verified the payment.
type PaymentReceipt struct {
	GatewayPaymentID string          `json:"gateway_payment_id"`
	GatewayOrderID   string          `json:"gateway_order_id"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	VerifiedAt       time.Time       `json:"verified_at"`
}

type PaymentState struct {
	Phase   PaymentPhase    `json:"phase"`
	Handle  *PaymentDetails `json:"handle,omitempty"`
	Receipt *PaymentReceipt `json:"receipt,omitempty"`
	Error   string          `json:"error,omitempty"`
}
