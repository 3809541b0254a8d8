package factory

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	adaptersms "github.com/example/txn-receipt-sms/internal/adapters/sms"
	"github.com/example/txn-receipt-sms/internal/config"
	"github.com/example/txn-receipt-sms/internal/observability/tracing"
	smsprovider "github.com/example/txn-receipt-sms/internal/providers/sms"
)

// SMS constructs the configured SMS transport. Supports Africa's Talking and
// the mock backend.
func SMS(cfg config.Config, logger zerolog.Logger) (smsprovider.Provider, error) {
	backend := normalize(cfg.Providers.SMSProvider, config.SMSProviderAfricasTalking)
	switch backend {
	case config.SMSProviderAfricasTalking:
		timeout := time.Duration(cfg.Timeouts.ProviderTimeoutSeconds) * time.Second
		var opts []smsprovider.AfricasTalkingOption
		if client := tracing.HTTPClient(cfg.Tracing.Enabled, timeout); client != nil {
			opts = append(opts, smsprovider.WithHTTPClient(client))
		}
		provider, err := smsprovider.NewAfricasTalkingProvider(cfg.Providers.AfricasTalking, timeout, logger, opts...)
		if err != nil {
			return nil, fmt.Errorf("factory: africastalking provider init: %w", err)
		}
		logger.Info().
			Str("backend", backend).
			Str("mode", cfg.Providers.AfricasTalking.ResolveMode()).
			Msg("sms provider initialised")
		return provider, nil
	case config.SMSProviderMock:
		scenario, err := smsprovider.ParseScenario(cfg.Providers.MockScenario)
		if err != nil {
			return nil, fmt.Errorf("factory: mock provider init: %w", err)
		}
		provider := smsprovider.NewMockProvider(logger, smsprovider.WithScenario(scenario))
		logger.Info().
			Str("backend", backend).
			Str("scenario", string(scenario)).
			Msg("sms provider initialised")
		return provider, nil
	default:
		return nil, fmt.Errorf("factory: unsupported sms provider backend %q", cfg.Providers.SMSProvider)
	}
}

// Dispatcher wires the configured transport into a ready-to-use dispatcher.
func Dispatcher(cfg config.Config, logger zerolog.Logger, opts ...adaptersms.Option) (*adaptersms.Dispatcher, error) {
	provider, err := SMS(cfg, logger)
	if err != nil {
		return nil, err
	}
	dispatcher, err := adaptersms.NewDispatcher(provider, cfg.Providers.AfricasTalking, logger, opts...)
	if err != nil {
		return nil, fmt.Errorf("factory: dispatcher init: %w", err)
	}
	return dispatcher, nil
}

func normalize(value, def string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return def
	}
	return value
}
