package common

import "context"

// Dispatcher sends one message to one recipient through the SMS provider and
// classifies the result. Every non-nil error is an *Error.
type Dispatcher interface {
	Dispatch(ctx context.Context, req DispatchRequest) (*Delivery, error)
}
