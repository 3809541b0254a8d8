package receipt

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/rs/zerolog"

	common "github.com/example/txn-receipt-sms/internal/adapters/common"
	"github.com/example/txn-receipt-sms/internal/models"
	"github.com/example/txn-receipt-sms/internal/util"
)

// AsyncDispatcher starts a dispatch and hands back a channel carrying its
// single outcome.
type AsyncDispatcher interface {
	DispatchAsync(ctx context.Context, req common.DispatchRequest) <-chan common.Outcome
}

// Receipt is the result of a submission.
type Receipt struct {
	Transaction models.Transaction `json:"transaction"`
	SMS         string             `json:"sms"`
	Recipient   string             `json:"recipient"`
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the submission clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithReferenceGenerator overrides NewReference.
func WithReferenceGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newReference = fn
		}
	}
}

// WithComposer overrides the default composer.
func WithComposer(c *Composer) Option {
	return func(s *Service) {
		if c != nil {
			s.composer = c
		}
	}
}

// Service records transactions, renders their receipt and relays it by SMS
// without waiting for the outcome.
type Service struct {
	logger       zerolog.Logger
	store        *Store
	composer     *Composer
	dispatcher   AsyncDispatcher
	countryCode  string
	now          func() time.Time
	newReference func() string

	inflight sync.WaitGroup
}

// NewService wires the receipt flow. A nil dispatcher disables SMS relay.
func NewService(store *Store, dispatcher AsyncDispatcher, countryCode string, logger zerolog.Logger, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("receipt service: store dependency is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	s := &Service{
		logger:       logger,
		store:        store,
		composer:     NewComposer(),
		dispatcher:   dispatcher,
		countryCode:  countryCode,
		now:          time.Now,
		newReference: NewReference,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Submit validates and stores the transaction, renders its SMS and starts the
// dispatch. The dispatch outcome is only logged; it never fails the
// submission.
func (s *Service) Submit(ctx context.Context, in models.TransactionInput) (*Receipt, error) {
	now := s.now()
	txn, err := in.Validate(now)
	if err != nil {
		return nil, err
	}
	txn.ReferenceNumber = s.newReference()
	txn.SubmittedAt = now.UTC()

	if err := s.store.Put(txn); err != nil {
		return nil, fmt.Errorf("receipt service: store: %w", err)
	}

	receipt := &Receipt{
		Transaction: txn,
		SMS:         s.composer.Compose(txn),
		Recipient:   util.ApplyDefaultCountryCode(txn.PhoneNumber, s.countryCode),
	}

	log := s.logger.With().Str("reference", txn.ReferenceNumber).Logger()
	log.Info().
		Str("sms", receipt.SMS).
		Msg("receipt sms rendered")

	if s.dispatcher != nil {
		s.relay(context.WithoutCancel(ctx), receipt, log)
	}
	return receipt, nil
}

// Lookup returns a stored transaction.
func (s *Service) Lookup(reference string) (models.Transaction, error) {
	return s.store.Get(reference)
}

// Wait blocks until every relay started by Submit has finished or ctx is
// done.
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) relay(ctx context.Context, receipt *Receipt, log zerolog.Logger) {
	outcomes := s.dispatcher.DispatchAsync(ctx, common.DispatchRequest{
		Recipient: receipt.Recipient,
		Body:      receipt.SMS,
	})

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		outcome := <-outcomes
		if outcome.Delivered() {
			log.Info().
				Str("provider_message_id", outcome.Delivery.ProviderMessageID).
				Msg("receipt sms sent")
			return
		}
		log.Error().
			Str("kind", string(outcome.Kind())).
			Err(outcome.Err).
			Msg("receipt sms failed")
	}()
}
