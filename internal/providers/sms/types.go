package sms

import (
	"context"
	"net/http"
	"time"
)

// SandboxSender is the sender token Africa's Talking requires in sandbox mode.
const SandboxSender = "sandbox"

// Payload encapsulates one provider request: recipients, message text and the
// sender token.
type Payload struct {
	To      []string
	Message string
	From    string
}

// RawResponse describes the low-level provider response. Code is the HTTP
// status and Body the undecoded response envelope.
type RawResponse struct {
	Code      int
	Body      string
	Timestamp time.Time
}

// Provider is the transport boundary to the SMS gateway. Send returns an
// error only when no response was obtained (connection refused, DNS failure,
// timeout); any HTTP response, including non-2xx, comes back as a
// RawResponse for the caller to interpret.
type Provider interface {
	Send(ctx context.Context, payload *Payload) (*RawResponse, error)
}

// HTTPClient abstracts the http.Client Do method for easier testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
