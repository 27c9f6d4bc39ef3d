package services

import (
	"errors"
	"fmt"

	"github.com/yeremiapane/gobblego/notify"
	"github.com/yeremiapane/gobblego/utils"
)

// Local precondition failures. None of them reaches the network.
var (
	ErrNoSession          = errors.New("please join a table first")
	ErrInvalidQuantity    = errors.New("quantity must not be negative")
	ErrNotLeader          = errors.New("only the table leader can place an order")
	ErrInvalidInput       = errors.New("invalid input")
	ErrCheckoutInProgress = errors.New("a checkout is already in progress")
	ErrNoActivePayment    = errors.New("no active payment to verify")
	ErrItemNotInCart      = errors.New("item is not in the cart")
	ErrItemUnavailable    = errors.New("item is currently unavailable")
	ErrViewClosed         = errors.New("view has been closed")
	ErrSessionChanged     = errors.New("the table session changed during the payment")
)

// APIError is a mutation or query the backend rejected (validation, authorization, ...).
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: backend returned %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: backend returned %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// TransportError wraps network failures and undecodable responses.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

type ErrorKind string

const (
	KindNone         ErrorKind = ""
	KindTransport    ErrorKind = "transport"
	KindRejected     ErrorKind = "rejected"
	KindPrecondition ErrorKind = "precondition"
)

// Classify maps an error onto the three-way taxonomy used for user notifications.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return KindRejected
	}
	var tErr *TransportError
	if errors.As(err, &tErr) {
		return KindTransport
	}
	return KindPrecondition
}

// UserMessage is the short text shown in a transient notification.
func UserMessage(err error) string {
	var apiErr *APIError
	switch Classify(err) {
	case KindTransport:
		return "Could not reach the restaurant. Please try again."
	case KindRejected:
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return apiErr.Message
		}
		return "The restaurant rejected the request."
	case KindPrecondition:
		return err.Error()
	}
	return ""
}

// publishFailure logs err and shows it to the diner as a transient error notice.
// Local precondition failures are logged as warnings.
func publishFailure(notifier notify.Notifier, event string, err error) error {
	if Classify(err) == KindPrecondition {
		utils.ErrorLogger.Warnf("%s: %v", event, err)
	} else {
		utils.ErrorLogger.Errorf("%s: %v", event, err)
	}
	notifier.Error(event, UserMessage(err), nil)
	return err
}
