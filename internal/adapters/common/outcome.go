package common

import "unicode/utf8"

// DefaultRawBodyLimit defines the maximum number of characters retained from a
// provider response body when it is attached to a log entry or error.
const DefaultRawBodyLimit = 1024

// DispatchRequest is one caller supplied send: a raw recipient string and the
// message text.
type DispatchRequest struct {
	Recipient string `json:"recipient"`
	Body      string `json:"body"`
}

// Delivery is the success side of a dispatch.
type Delivery struct {
	Recipient         string `json:"recipient"`
	ProviderMessageID string `json:"provider_message_id"`
	Cost              string `json:"cost"`
	Status            string `json:"status"`
	StatusCode        int    `json:"status_code,omitempty"`
}

// Outcome pairs a delivery with its failure. Exactly one of the two is set.
type Outcome struct {
	Delivery *Delivery
	Err      error
}

// Delivered reports whether the dispatch succeeded.
func (o Outcome) Delivered() bool {
	return o.Err == nil && o.Delivery != nil
}

// Kind returns the failure kind, or "" for a delivered outcome.
func (o Outcome) Kind() Kind {
	kind, _ := KindOf(o.Err)
	return kind
}

// TruncateRaw trims the supplied string to the specified rune limit. If limit
// is zero or negative it returns an empty string.
func TruncateRaw(raw string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(raw) <= limit {
		return raw
	}
	return string([]rune(raw)[:limit])
}
