package sms

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"reflect"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

// Scenario enumerates the mock behaviours supported by the SMS provider.
type Scenario string

const (
	ScenarioSuccess     Scenario = "success"
	ScenarioRejected    Scenario = "rejected"
	ScenarioBlacklisted Scenario = "blacklisted"
	ScenarioMalformed   Scenario = "malformed"
	ScenarioNetwork     Scenario = "network"
	ScenarioTimeout     Scenario = "timeout"
)

// ParseScenario maps a configuration value onto a Scenario.
func ParseScenario(value string) (Scenario, error) {
	s := Scenario(strings.ToLower(strings.TrimSpace(value)))
	switch s {
	case "":
		return ScenarioSuccess, nil
	case ScenarioSuccess, ScenarioRejected, ScenarioBlacklisted, ScenarioMalformed, ScenarioNetwork, ScenarioTimeout:
		return s, nil
	default:
		return "", fmt.Errorf("sms mock: unknown scenario %q", value)
	}
}

// Option customises the mock provider.
type Option func(*MockProvider)

// WithScenario sets the behaviour of every Send.
func WithScenario(s Scenario) Option {
	return func(p *MockProvider) {
		p.scenario = s
	}
}

// WithLatency configures the artificial latency injected before responding.
func WithLatency(d time.Duration) Option {
	return func(p *MockProvider) {
		if d < 0 {
			d = 0
		}
		p.latency = d
	}
}

// WithMockClock overrides the clock used to timestamp responses.
func WithMockClock(now func() time.Time) Option {
	return func(p *MockProvider) {
		if now != nil {
			p.now = now
		}
	}
}

// MockProvider is a deterministic stand-in for the SMS gateway. It answers
// with real envelopes and real transport error values so the dispatcher's
// classification runs unchanged.
type MockProvider struct {
	logger   zerolog.Logger
	scenario Scenario
	latency  time.Duration
	now      func() time.Time

	mu    sync.Mutex
	seq   int
	calls []Payload
}

// NewMockProvider constructs a mock SMS provider.
func NewMockProvider(logger zerolog.Logger, opts ...Option) *MockProvider {
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	p := &MockProvider{
		logger:   logger,
		scenario: ScenarioSuccess,
		latency:  25 * time.Millisecond,
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Calls returns a copy of every payload received so far.
func (p *MockProvider) Calls() []Payload {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Payload, len(p.calls))
	copy(out, p.calls)
	return out
}

// Send simulates one provider exchange according to the configured scenario.
func (p *MockProvider) Send(ctx context.Context, payload *Payload) (*RawResponse, error) {
	if payload == nil {
		return nil, errors.New("sms mock: payload is required")
	}
	if len(payload.To) == 0 {
		return nil, errors.New("sms mock: at least one recipient is required")
	}

	p.mu.Lock()
	p.seq++
	seq := p.seq
	p.calls = append(p.calls, Payload{
		To:      append([]string(nil), payload.To...),
		Message: payload.Message,
		From:    payload.From,
	})
	p.mu.Unlock()

	if p.latency > 0 {
		timer := time.NewTimer(p.latency)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.logger.Debug().
		Str("scenario", string(p.scenario)).
		Strs("to", payload.To).
		Msg("sms mock send")

	switch p.scenario {
	case ScenarioNetwork:
		return nil, &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}
	case ScenarioTimeout:
		return nil, &net.OpError{Op: "read", Net: "tcp", Err: os.ErrDeadlineExceeded}
	case ScenarioMalformed:
		return p.response(http.StatusOK, `{"error":"unexpected"}`), nil
	case ScenarioRejected:
		return p.envelope(Envelope{Message: "InvalidSenderId"})
	case ScenarioBlacklisted:
		return p.envelope(Envelope{
			Message: "Sent to 0/1 Total Cost: 0",
			Recipients: []RecipientStatus{{
				StatusCode: 406,
				Number:     payload.To[0],
				Status:     "UserInBlacklist",
				Cost:       "0",
			}},
		})
	case ScenarioSuccess:
		return p.envelope(Envelope{
			Message: "Sent to 1/1 Total Cost: KES 0.8000",
			Recipients: []RecipientStatus{{
				StatusCode: 101,
				Number:     payload.To[0],
				Status:     SuccessStatus,
				Cost:       "KES 0.8000",
				MessageID:  fmt.Sprintf("ATXid_mock%06d", seq),
			}},
		})
	default:
		return nil, fmt.Errorf("sms mock: unknown scenario %q", p.scenario)
	}
}

func (p *MockProvider) envelope(env Envelope) (*RawResponse, error) {
	body, err := EncodeEnvelope(env)
	if err != nil {
		return nil, fmt.Errorf("sms mock: encode envelope: %w", err)
	}
	return p.response(http.StatusCreated, string(body)), nil
}

func (p *MockProvider) response(code int, body string) *RawResponse {
	return &RawResponse{Code: code, Body: body, Timestamp: p.now()}
}
