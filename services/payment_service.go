package services

import (
	"context"
	"strings"
	"time"

	"github.com/yeremiapane/gobblego/models"
	"github.com/yeremiapane/gobblego/notify"
	"github.com/yeremiapane/gobblego/utils"
)

// PaymentMetrics menyimpan metrik pembayaran sejak proses dimulai
type PaymentMetrics struct {
	Checkouts            int64 `json:"checkouts"`
	Verified             int64 `json:"verified"`
	VerificationFailures int64 `json:"verification_failures"`
	GatewayFailures      int64 `json:"gateway_failures"`
}

// PaymentView is the payment state plus counters.
type PaymentView struct {
	models.PaymentState
	Metrics PaymentMetrics `json:"metrics"`
}

// Checkout starts one payment attempt and returns the gateway handle. Only one
// attempt may be pending at a time.
func (s *OrderService) Checkout(ctx context.Context) (*models.PaymentDetails, error) {
	if _, err := s.sessions.Require(); err != nil {
		return nil, s.fail(notify.EventPaymentError, err)
	}

	s.mutex.Lock()
	if s.checkingOut || s.payment.Phase == models.PaymentPhaseInitiated || s.payment.Phase == models.PaymentPhaseVerifying {
		s.mutex.Unlock()
		return nil, s.fail(notify.EventPaymentError, ErrCheckoutInProgress)
	}
	s.checkingOut = true
	generation := s.generation
	s.mutex.Unlock()

	details, err := s.backend.Checkout(ctx)

	s.mutex.Lock()
	if generation != s.generation {
		// meja ditinggalkan selama checkout berjalan
		s.mutex.Unlock()
		utils.ErrorLogger.Warn("Discarding checkout response after the session changed")
		return nil, ErrSessionChanged
	}
	s.checkingOut = false
	if err != nil {
		s.payment.Error = UserMessage(err)
		s.mutex.Unlock()

		utils.ErrorLogger.Errorf("Failed to start checkout: %v", err)
		s.notifier.Error(notify.EventPaymentFailed, "Could not start payment: "+UserMessage(err), nil)
		return nil, err
	}

	if details.Currency == "" {
		details.Currency = s.currency
	}
	handle := *details
	s.active = &handle
	s.metrics.Checkouts++
	s.payment = models.PaymentState{
		Phase:  models.PaymentPhaseInitiated,
		Handle: &handle,
	}
	s.mutex.Unlock()

	utils.InfoLogger.Infof("Checkout started payment=%s gateway_order=%s", handle.PaymentID, handle.GatewayOrderID)
	s.notifier.Info(notify.EventPaymentPending, "Complete the payment to finish your order", handle)

	out := handle
	return &out, nil
}

// ConfirmPayment forwards the gateway confirmation for verification. The
// payment counts as successful only after the backend accepted it.
func (s *OrderService) ConfirmPayment(ctx context.Context, confirmation models.GatewayConfirmation) (*models.PaymentReceipt, error) {
	if _, err := s.sessions.Require(); err != nil {
		return nil, s.fail(notify.EventPaymentError, err)
	}
	if strings.TrimSpace(confirmation.GatewayPaymentID) == "" ||
		strings.TrimSpace(confirmation.GatewayOrderID) == "" ||
		strings.TrimSpace(confirmation.Signature) == "" {
		return nil, s.fail(notify.EventPaymentError, ErrInvalidInput)
	}

	s.mutex.Lock()
	if s.active == nil {
		s.mutex.Unlock()
		return nil, s.fail(notify.EventPaymentError, ErrNoActivePayment)
	}
	if s.payment.Phase == models.PaymentPhaseVerifying {
		s.mutex.Unlock()
		return nil, s.fail(notify.EventPaymentError, ErrCheckoutInProgress)
	}
	attempt := *s.active
	amountDue := s.pendingTotalLocked()
	generation := s.generation
	s.payment.Phase = models.PaymentPhaseVerifying
	s.payment.Error = ""
	s.mutex.Unlock()

	err := s.backend.VerifyPayment(ctx, models.NewVerifyPaymentRequest(attempt.PaymentID, confirmation))

	s.mutex.Lock()
	if generation != s.generation {
		// Reset/Close selama verifikasi, hasilnya bukan milik session ini lagi
		s.mutex.Unlock()
		utils.ErrorLogger.Warnf("Discarding verification of payment %s after the session changed (err=%v)", attempt.PaymentID, err)
		return nil, ErrSessionChanged
	}
	if err != nil {
		s.payment.Phase = models.PaymentPhaseVerificationFailed
		s.payment.Error = UserMessage(err)
		s.metrics.VerificationFailures++
		s.mutex.Unlock()

		utils.ErrorLogger.Errorf("Payment verification failed for payment %s: %v", attempt.PaymentID, err)
		s.notifier.Error(notify.EventPaymentFailed, "Payment verification failed: "+UserMessage(err), map[string]interface{}{
			"payment_id": attempt.PaymentID,
		})
		return nil, err
	}

	receipt := models.PaymentReceipt{
		GatewayPaymentID: confirmation.GatewayPaymentID,
		GatewayOrderID:   confirmation.GatewayOrderID,
		Amount:           amountDue,
		Currency:         attempt.Currency,
		VerifiedAt:       time.Now(),
	}
	s.active = nil
	s.metrics.Verified++
	s.payment = models.PaymentState{
		Phase:   models.PaymentPhaseSucceeded,
		Receipt: &receipt,
	}
	s.mutex.Unlock()

	utils.InfoLogger.Infof("Payment %s verified", attempt.PaymentID)
	s.notifier.Info(notify.EventPaymentSuccess, "Payment successful", receipt)

	if _, err := s.Refresh(ctx); err != nil {
		utils.ErrorLogger.Warnf("Orders are stale after payment: %v", err)
	}
	return &receipt, nil
}

// ReportGatewayFailure records a failure reported by the gateway UI and
// abandons the attempt.
func (s *OrderService) ReportGatewayFailure(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "Payment was not completed"
	}

	s.mutex.Lock()
	if s.active == nil {
		s.mutex.Unlock()
		return s.fail(notify.EventPaymentError, ErrNoActivePayment)
	}
	if s.payment.Phase == models.PaymentPhaseVerifying {
		s.mutex.Unlock()
		return s.fail(notify.EventPaymentError, ErrCheckoutInProgress)
	}
	paymentID := s.active.PaymentID
	s.active = nil
	s.metrics.GatewayFailures++
	s.payment = models.PaymentState{
		Phase: models.PaymentPhaseGatewayFailed,
		Error: reason,
	}
	s.mutex.Unlock()

	utils.ErrorLogger.Warnf("Gateway reported failure for payment %s: %s", paymentID, reason)
	s.notifier.Error(notify.EventPaymentFailed, "Payment failed: "+reason, map[string]interface{}{
		"payment_id": paymentID,
	})
	return nil
}

func (s *OrderService) Payment() PaymentView {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	state := s.payment
	if state.Handle != nil {
		handle := *state.Handle
		state.Handle = &handle
	}
	if state.Receipt != nil {
		receipt := *state.Receipt
		state.Receipt = &receipt
	}
	return PaymentView{PaymentState: state, Metrics: s.metrics}
}

// DismissReceipt clears a finished banner. A pending attempt is kept so a
// failed verification can still be retried.
func (s *OrderService) DismissReceipt() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.active != nil {
		s.payment.Error = ""
		return
	}
	s.payment = models.PaymentState{Phase: models.PaymentPhaseIdle}
}
