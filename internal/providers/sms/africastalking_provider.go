package sms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/txn-receipt-sms/internal/config"
)

const (
	sandboxBaseURL    = "https://api.sandbox.africastalking.com"
	productionBaseURL = "https://api.africastalking.com"
	messagingPath     = "/version1/messaging"
	defaultTimeout    = 30 * time.Second
	defaultBodyLimit  = 16 * 1024
)

// AfricasTalkingOption customises the behaviour of the Africa's Talking provider.
type AfricasTalkingOption func(*AfricasTalkingProvider)

// WithHTTPClient overrides the HTTP client used to talk to the API.
func WithHTTPClient(client HTTPClient) AfricasTalkingOption {
	return func(p *AfricasTalkingProvider) {
		if client != nil {
			p.httpClient = client
		}
	}
}

// WithBaseURL sets the API base URL. Useful for tests.
func WithBaseURL(baseURL string) AfricasTalkingOption {
	return func(p *AfricasTalkingProvider) {
		if strings.TrimSpace(baseURL) != "" {
			p.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
		}
	}
}

// WithClock overrides the clock used for timestamps.
func WithClock(now func() time.Time) AfricasTalkingOption {
	return func(p *AfricasTalkingProvider) {
		if now != nil {
			p.now = now
		}
	}
}

// WithBodyLimit adjusts how many bytes are retained from the HTTP response body.
func WithBodyLimit(limit int64) AfricasTalkingOption {
	return func(p *AfricasTalkingProvider) {
		if limit > 0 {
			p.maxBodyBytes = limit
		}
	}
}

// AfricasTalkingProvider implements Provider against the Africa's Talking
// bulk SMS endpoint.
type AfricasTalkingProvider struct {
	logger       zerolog.Logger
	apiKey       string
	username     string
	baseURL      string
	httpClient   HTTPClient
	now          func() time.Time
	maxBodyBytes int64
}

// NewAfricasTalkingProvider constructs the provider. timeout bounds each HTTP
// exchange; it is the only deadline applied to a dispatch.
func NewAfricasTalkingProvider(cfg config.AfricasTalkingConfig, timeout time.Duration, logger zerolog.Logger, opts ...AfricasTalkingOption) (*AfricasTalkingProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("africastalking provider: api key is required")
	}
	if strings.TrimSpace(cfg.Username) == "" {
		return nil, errors.New("africastalking provider: username is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	baseURL := productionBaseURL
	if cfg.Sandbox() {
		baseURL = sandboxBaseURL
	}

	provider := &AfricasTalkingProvider{
		logger:       logger,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		username:     strings.TrimSpace(cfg.Username),
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: timeout},
		now:          time.Now,
		maxBodyBytes: defaultBodyLimit,
	}
	WithBaseURL(cfg.BaseURL)(provider)

	for _, opt := range opts {
		if opt != nil {
			opt(provider)
		}
	}

	return provider, nil
}

// Send posts the payload to the messaging endpoint. HTTP error statuses are
// returned as a RawResponse, not as an error.
func (p *AfricasTalkingProvider) Send(ctx context.Context, payload *Payload) (*RawResponse, error) {
	if payload == nil {
		return nil, errors.New("africastalking provider: payload is required")
	}
	if len(payload.To) == 0 {
		return nil, errors.New("africastalking provider: at least one recipient is required")
	}

	form := url.Values{}
	form.Set("username", p.username)
	form.Set("to", strings.Join(payload.To, ","))
	form.Set("message", payload.Message)
	if payload.From != "" {
		form.Set("from", payload.From)
	}

	endpoint := p.baseURL + messagingPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("africastalking provider: new request: %w", err)
	}
	req.Header.Set("apiKey", p.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	start := p.now()
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("africastalking provider: http do: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, p.maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("africastalking provider: read body: %w", err)
	}

	p.logger.Debug().
		Str("endpoint", endpoint).
		Int("http_status", resp.StatusCode).
		Dur("duration", p.now().Sub(start)).
		Msg("africastalking response received")

	return &RawResponse{
		Code:      resp.StatusCode,
		Body:      string(body),
		Timestamp: p.now(),
	}, nil
}
