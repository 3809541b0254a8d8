package sms

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// MessageDataKey is the top-level key wrapping the send result.
const MessageDataKey = "SMSMessageData"

// SuccessStatus is the per-recipient status reported for an accepted message.
const SuccessStatus = "Success"

// ErrMalformedEnvelope is returned when a response body does not have the
// shape of a send result.
var ErrMalformedEnvelope = errors.New("malformed sms envelope")

// Envelope is the decoded send result.
type Envelope struct {
	Message    string
	Recipients []RecipientStatus
}

// RecipientStatus reports what happened to one recipient.
type RecipientStatus struct {
	StatusCode int
	Number     string
	Status     string
	Cost       string
	MessageID  string
}

type envelopeWire struct {
	SMSMessageData *messageDataWire `json:"SMSMessageData"`
}

type messageDataWire struct {
	Message    string          `json:"Message"`
	Recipients []recipientWire `json:"Recipients"`
}

type recipientWire struct {
	StatusCode json.Number `json:"statusCode,omitempty"`
	Number     string      `json:"number"`
	Status     *string     `json:"status"`
	Cost       string      `json:"cost"`
	MessageID  string      `json:"messageId"`
}

// DecodeEnvelope decodes a provider response body. The SMSMessageData object
// must be present and every recipient entry must carry a status; anything
// else is ErrMalformedEnvelope. A missing or null Recipients list decodes as
// empty.
func DecodeEnvelope(body []byte) (*Envelope, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedEnvelope)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	rawData, ok := top[MessageDataKey]
	if !ok || !bytes.HasPrefix(bytes.TrimSpace(rawData), []byte("{")) {
		return nil, fmt.Errorf("%w: missing %s object", ErrMalformedEnvelope, MessageDataKey)
	}

	var data messageDataWire
	if err := json.Unmarshal(rawData, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}

	env := &Envelope{Message: strings.TrimSpace(data.Message)}
	for idx, r := range data.Recipients {
		if r.Status == nil {
			return nil, fmt.Errorf("%w: recipient[%d] has no status", ErrMalformedEnvelope, idx)
		}
		entry := RecipientStatus{
			Number:    r.Number,
			Status:    *r.Status,
			Cost:      r.Cost,
			MessageID: r.MessageID,
		}
		if r.StatusCode != "" {
			code, err := r.StatusCode.Int64()
			if err != nil {
				return nil, fmt.Errorf("%w: recipient[%d] status code: %v", ErrMalformedEnvelope, idx, err)
			}
			entry.StatusCode = int(code)
		}
		env.Recipients = append(env.Recipients, entry)
	}
	return env, nil
}

// EncodeEnvelope renders env in the provider's wire format.
func EncodeEnvelope(env Envelope) ([]byte, error) {
	data := &messageDataWire{Message: env.Message, Recipients: []recipientWire{}}
	for _, r := range env.Recipients {
		status := r.Status
		wire := recipientWire{
			Number:    r.Number,
			Status:    &status,
			Cost:      r.Cost,
			MessageID: r.MessageID,
		}
		if r.StatusCode != 0 {
			wire.StatusCode = json.Number(fmt.Sprintf("%d", r.StatusCode))
		}
		data.Recipients = append(data.Recipients, wire)
	}
	return json.Marshal(envelopeWire{SMSMessageData: data})
}
