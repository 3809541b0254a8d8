package common

import (
	"errors"
	"fmt"
)

// ErrTransient and ErrPermanent split every dispatch failure into two classes
// so callers can decide whether a later attempt is worthwhile. The dispatcher
// itself never retries.
var (
	ErrTransient = errors.New("transient error")
	ErrPermanent = errors.New("permanent error")
)

// Kind names a dispatch failure category.
type Kind string

const (
	KindInvalidInput               Kind = "invalid_input"
	KindMissingSenderConfiguration Kind = "missing_sender_configuration"
	KindNetwork                    Kind = "network_error"
	KindTimeout                    Kind = "timeout_error"
	KindInvalidProviderResponse    Kind = "invalid_provider_response"
	KindProviderRejected           Kind = "provider_rejected"
	KindDeliveryFailed             Kind = "delivery_failed"
)

// Sentinels matching each Kind through errors.Is.
var (
	ErrInvalidInput               = errors.New("invalid input")
	ErrMissingSenderConfiguration = errors.New("missing sender configuration")
	ErrNetwork                    = errors.New("network error")
	ErrTimeout                    = errors.New("timeout error")
	ErrInvalidProviderResponse    = errors.New("invalid provider response")
	ErrProviderRejected           = errors.New("provider rejected")
	ErrDeliveryFailed             = errors.New("delivery failed")
)

var kindSentinels = map[Kind]error{
	KindInvalidInput:               ErrInvalidInput,
	KindMissingSenderConfiguration: ErrMissingSenderConfiguration,
	KindNetwork:                    ErrNetwork,
	KindTimeout:                    ErrTimeout,
	KindInvalidProviderResponse:    ErrInvalidProviderResponse,
	KindProviderRejected:           ErrProviderRejected,
	KindDeliveryFailed:             ErrDeliveryFailed,
}

// Transient reports whether failures of this kind may succeed on a later
// attempt.
func (k Kind) Transient() bool {
	return k == KindNetwork || k == KindTimeout
}

// Error is the only error type returned by the dispatcher. Reason carries the
// provider supplied text (rejection message or recipient status) when there
// is one; Err keeps the underlying cause.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

// NewError builds a classified error.
func NewError(kind Kind, reason string, cause error) *Error {
	return &Error{Kind: kind, Reason: reason, Err: cause}
}

func (e *Error) Error() string {
	label := string(e.Kind)
	if sentinel, ok := kindSentinels[e.Kind]; ok {
		label = sentinel.Error()
	}
	switch {
	case e.Reason != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", label, e.Reason, e.Err)
	case e.Reason != "":
		return fmt.Sprintf("%s: %s", label, e.Reason)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", label, e.Err)
	default:
		return label
	}
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is matches the kind sentinel and the transient/permanent class.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if sentinel, ok := kindSentinels[e.Kind]; ok && target == sentinel {
		return true
	}
	if e.Kind.Transient() {
		return target == ErrTransient
	}
	return target == ErrPermanent
}

// KindOf extracts the failure kind from err. Unclassified errors report
// false.
func KindOf(err error) (Kind, bool) {
	var dispatchErr *Error
	if errors.As(err, &dispatchErr) {
		return dispatchErr.Kind, true
	}
	return "", false
}

// ReasonOf returns the provider supplied reason attached to err, if any.
func ReasonOf(err error) string {
	var dispatchErr *Error
	if errors.As(err, &dispatchErr) {
		return dispatchErr.Reason
	}
	return ""
}
