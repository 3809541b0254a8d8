package sms

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	common "github.com/example/txn-receipt-sms/internal/adapters/common"
	"github.com/example/txn-receipt-sms/internal/config"
	"github.com/example/txn-receipt-sms/internal/observability/metrics"
	smsprovider "github.com/example/txn-receipt-sms/internal/providers/sms"
	"github.com/example/txn-receipt-sms/internal/util"
)

var dispatchTracer = otel.Tracer("txn-receipt-sms.dispatcher")

const outcomeDelivered = "delivered"

// Option modifies dispatcher behaviour.
type Option func(*Dispatcher)

// WithMetrics records every outcome and provider latency on m.
func WithMetrics(m *metrics.DispatchMetrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithRawBodyLimit overrides how much of a provider body is kept in debug
// logs.
func WithRawBodyLimit(limit int) Option {
	return func(d *Dispatcher) {
		if limit > 0 {
			d.maxRawChars = limit
		}
	}
}

// WithIDGenerator overrides how dispatch correlation ids are produced.
func WithIDGenerator(fn func() string) Option {
	return func(d *Dispatcher) {
		if fn != nil {
			d.newID = fn
		}
	}
}

// Dispatcher sends one SMS per call through the provider and classifies the
// result. It holds only immutable settings and goroutine-safe collaborators,
// so Dispatch may be called concurrently.
type Dispatcher struct {
	logger      zerolog.Logger
	provider    smsprovider.Provider
	settings    ProviderSettings
	metrics     *metrics.DispatchMetrics
	maxRawChars int
	now         func() time.Time
	newID       func() string
}

var _ common.Dispatcher = (*Dispatcher)(nil)

// NewDispatcher constructs a dispatcher using the supplied provider and
// account configuration.
func NewDispatcher(provider smsprovider.Provider, cfg config.AfricasTalkingConfig, logger zerolog.Logger, opts ...Option) (*Dispatcher, error) {
	if provider == nil {
		return nil, errors.New("sms dispatcher: provider dependency is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	d := &Dispatcher{
		logger:      logger,
		provider:    provider,
		settings:    SettingsFromConfig(cfg),
		maxRawChars: common.DefaultRawBodyLimit,
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d, nil
}

// Settings returns the resolved provider settings.
func (d *Dispatcher) Settings() ProviderSettings {
	return d.settings
}

// Dispatch makes exactly one send attempt. Every non-nil error is a
// *common.Error; nothing is retried.
func (d *Dispatcher) Dispatch(ctx context.Context, req common.DispatchRequest) (*common.Delivery, error) {
	dispatchID := d.newID()
	ctx, span := dispatchTracer.Start(ctx, "sms.Dispatch", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("sms.dispatch_id", dispatchID),
		attribute.String("sms.mode", d.settings.Mode),
	)

	log := d.logger.With().
		Str("dispatch_id", dispatchID).
		Str("mode", d.settings.Mode).
		Logger()

	delivery, err := d.dispatch(ctx, req, log)
	if err != nil {
		kind, _ := common.KindOf(err)
		d.metrics.ObserveOutcome(string(kind), d.settings.Mode)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(kind))
		log.Warn().
			Str("kind", string(kind)).
			Bool("transient", kind.Transient()).
			Err(err).
			Msg("sms dispatch failed")
		return nil, err
	}

	d.metrics.ObserveOutcome(outcomeDelivered, d.settings.Mode)
	span.SetAttributes(attribute.String("sms.provider_message_id", delivery.ProviderMessageID))
	log.Info().
		Str("recipient", delivery.Recipient).
		Str("provider_message_id", delivery.ProviderMessageID).
		Str("cost", delivery.Cost).
		Msg("sms delivered")
	return delivery, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, req common.DispatchRequest, log zerolog.Logger) (*common.Delivery, error) {
	if strings.TrimSpace(req.Recipient) == "" {
		return nil, common.NewError(common.KindInvalidInput, "recipient is required", nil)
	}
	if req.Body == "" {
		return nil, common.NewError(common.KindInvalidInput, "message body is required", nil)
	}

	recipient, err := util.NormalizeRecipient(req.Recipient)
	if err != nil {
		return nil, common.NewError(common.KindInvalidInput, "recipient has no digits", err)
	}

	payload, err := BuildPayload(recipient, req.Body, d.settings)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("recipient", recipient).
		Str("from", payload.From).
		Msg("sms request built")

	start := d.now()
	raw, err := d.provider.Send(ctx, payload)
	d.metrics.ObserveProviderLatency(d.settings.Mode, d.now().Sub(start))
	if err != nil {
		return nil, classifyTransportError(err)
	}

	delivery, err := interpretResponse(raw, recipient)
	if err != nil {
		if kind, _ := common.KindOf(err); raw != nil && kind == common.KindInvalidProviderResponse {
			log.Debug().
				Int("http_status", raw.Code).
				Str("raw", common.TruncateRaw(raw.Body, d.maxRawChars)).
				Msg("unexpected provider response")
		}
		return nil, err
	}
	return delivery, nil
}

// DispatchAsync runs Dispatch on its own goroutine. The returned channel
// yields exactly one Outcome and is then closed.
func (d *Dispatcher) DispatchAsync(ctx context.Context, req common.DispatchRequest) <-chan common.Outcome {
	out := make(chan common.Outcome, 1)
	go func() {
		defer close(out)
		delivery, err := d.Dispatch(ctx, req)
		out <- common.Outcome{Delivery: delivery, Err: err}
	}()
	return out
}
