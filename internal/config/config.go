package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Provider backends accepted by SMS_PROVIDER.
const (
	SMSProviderAfricasTalking = "africastalking"
	SMSProviderMock           = "mock"
)

// Operating modes for the Africa's Talking account.
const (
	ModeSandbox    = "sandbox"
	ModeProduction = "production"
)

// Config captures all runtime configuration for the receipt simulator and its
// SMS dispatcher. It is loaded once at startup and passed to constructors.
type Config struct {
	App       AppConfig
	Providers ProviderConfig
	Timeouts  TimeoutConfig
	Dispatch  DispatchConfig
	Tracing   TracingConfig
}

// AppConfig contains generic application level settings.
type AppConfig struct {
	Env                string
	Port               int
	LogLevel           string
	DefaultCountryCode string
}

// AfricasTalkingConfig stores the account used to relay SMS receipts.
type AfricasTalkingConfig struct {
	APIKey   string
	Username string
	// Mode is either ModeSandbox or ModeProduction. When AT_MODE is unset it
	// is derived from Username.
	Mode     string
	SenderID string
	BaseURL  string
}

// Sandbox reports whether the account operates against the sandbox.
func (c AfricasTalkingConfig) Sandbox() bool {
	return c.ResolveMode() == ModeSandbox
}

// ResolveMode returns the effective operating mode.
func (c AfricasTalkingConfig) ResolveMode() string {
	if mode := strings.ToLower(strings.TrimSpace(c.Mode)); mode != "" {
		return mode
	}
	if strings.EqualFold(strings.TrimSpace(c.Username), ModeSandbox) {
		return ModeSandbox
	}
	return ModeProduction
}

// ProviderConfig wraps configuration for the outbound SMS provider.
type ProviderConfig struct {
	SMSProvider    string
	MockScenario   string
	AfricasTalking AfricasTalkingConfig
}

// TimeoutConfig contains timeout thresholds for outbound providers.
type TimeoutConfig struct {
	ProviderTimeoutSeconds int
}

// DispatchConfig bounds how many independent dispatches a caller may run at
// once.
type DispatchConfig struct {
	Concurrency int
}

// TracingConfig controls OTLP trace export.
type TracingConfig struct {
	Enabled  bool
	Endpoint string
	Insecure bool
}

// Load reads environment variables, applies defaults, validates required
// values and returns a populated Config instance.
func Load() (*Config, error) {
	_ = godotenv.Load()

	ldr := &envLoader{}

	cfg := &Config{}
	cfg.App.Env = ldr.getString("APP_ENV", "development", false)
	cfg.App.Port = ldr.getInt("APP_PORT", 3000, false)
	cfg.App.LogLevel = ldr.getString("LOG_LEVEL", "info", false)
	cfg.App.DefaultCountryCode = strings.TrimPrefix(ldr.getString("DEFAULT_COUNTRY_CODE", "234", false), "+")

	cfg.Providers.SMSProvider = strings.ToLower(ldr.getString("SMS_PROVIDER", SMSProviderAfricasTalking, false))
	switch cfg.Providers.SMSProvider {
	case SMSProviderAfricasTalking, SMSProviderMock:
	default:
		ldr.addError(fmt.Sprintf("SMS_PROVIDER must be one of [%s %s]", SMSProviderAfricasTalking, SMSProviderMock))
	}

	cfg.Providers.MockScenario = ldr.getString("SMS_MOCK_SCENARIO", "success", false)

	atRequired := cfg.Providers.SMSProvider == SMSProviderAfricasTalking
	at := &cfg.Providers.AfricasTalking
	at.APIKey = ldr.getString("AT_API_KEY", "", atRequired)
	at.Username = ldr.getString("AT_USERNAME", "", atRequired)
	at.Mode = strings.ToLower(ldr.getString("AT_MODE", "", false))
	at.SenderID = ldr.getString("AT_SENDER", "", false)
	at.BaseURL = ldr.getString("AT_BASE_URL", "", false)

	// The mock backend needs no account, so without one it runs as sandbox
	// and no sender id is required.
	if cfg.Providers.SMSProvider == SMSProviderMock && at.Mode == "" && at.Username == "" {
		at.Mode = ModeSandbox
	}

	switch at.Mode {
	case "", ModeSandbox, ModeProduction:
	default:
		ldr.addError(fmt.Sprintf("AT_MODE must be one of [%s %s]", ModeSandbox, ModeProduction))
	}

	cfg.Timeouts.ProviderTimeoutSeconds = ldr.getInt("PROVIDER_TIMEOUT_SECONDS", 30, false)
	if cfg.Timeouts.ProviderTimeoutSeconds <= 0 {
		ldr.addError("PROVIDER_TIMEOUT_SECONDS must be positive")
	}

	cfg.Dispatch.Concurrency = ldr.getInt("DISPATCH_CONCURRENCY", 4, false)
	if cfg.Dispatch.Concurrency < 1 {
		ldr.addError("DISPATCH_CONCURRENCY must be >= 1")
	}

	cfg.Tracing.Enabled = ldr.getBool("TRACING_ENABLED", false)
	cfg.Tracing.Endpoint = ldr.getString("OTEL_EXPORTER_OTLP_ENDPOINT", "", false)
	cfg.Tracing.Insecure = ldr.getBool("OTEL_EXPORTER_OTLP_INSECURE", false)

	if err := ldr.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

type envLoader struct {
	errs []string
}

func (l *envLoader) validate() error {
	if len(l.errs) == 0 {
		return nil
	}
	return fmt.Errorf("config validation failed: %s", strings.Join(l.errs, "; "))
}

func (l *envLoader) getString(key, def string, required bool) string {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.TrimSpace(val)
		if val == "" {
			if required {
				l.addError(fmt.Sprintf("%s is required", key))
			}
			return def
		}
		return val
	}
	if required {
		l.addError(fmt.Sprintf("%s is required", key))
	}
	return def
}

func (l *envLoader) getInt(key string, def int, required bool) int {
	raw := l.getString(key, "", required)
	if raw == "" {
		return def
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		l.addError(fmt.Sprintf("%s must be a valid integer", key))
		return def
	}
	return i
}

func (l *envLoader) getBool(key string, def bool) bool {
	raw := l.getString(key, "", false)
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		l.addError(fmt.Sprintf("%s must be a boolean", key))
		return def
	}
	return b
}

func (l *envLoader) addError(err string) {
	l.errs = append(l.errs, err)
}
