package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/txn-receipt-sms/internal/config"
)

const simpleTimeFormat = "02-01-2006 15:04:05"

// New constructs the root zerolog logger for a binary. Development
// environments receive human readable console logs, everything else emits
// JSON. Every entry carries the service name.
func New(app config.AppConfig, service string, writers ...io.Writer) (*zerolog.Logger, error) {
	lvl, err := parseLevel(app.LogLevel)
	if err != nil {
		return nil, err
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = simpleTimeFormat
	zerolog.DurationFieldUnit = time.Millisecond

	var output io.Writer = os.Stdout
	if len(writers) > 0 {
		output = io.MultiWriter(writers...)
	}
	if isDevelopment(app.Env) {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: simpleTimeFormat}
	}

	ctx := zerolog.New(output).With().Timestamp()
	if service = strings.TrimSpace(service); service != "" {
		ctx = ctx.Str("service", service)
	}
	logger := ctx.Logger().Level(lvl)
	return &logger, nil
}

// Component derives a child logger tagged with the component name.
func Component(parent zerolog.Logger, name string) zerolog.Logger {
	return parent.With().Str("component", name).Logger()
}

func isDevelopment(env string) bool {
	return strings.EqualFold(env, "development") || strings.EqualFold(env, "dev")
}

func parseLevel(level string) (zerolog.Level, error) {
	level = strings.TrimSpace(level)
	if level == "" {
		level = zerolog.InfoLevel.String()
	}
	return zerolog.ParseLevel(strings.ToLower(level))
}
