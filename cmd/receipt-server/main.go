package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	adaptersms "github.com/example/txn-receipt-sms/internal/adapters/sms"
	"github.com/example/txn-receipt-sms/internal/config"
	"github.com/example/txn-receipt-sms/internal/http/handlers"
	"github.com/example/txn-receipt-sms/internal/http/router"
	"github.com/example/txn-receipt-sms/internal/logger"
	"github.com/example/txn-receipt-sms/internal/observability/metrics"
	"github.com/example/txn-receipt-sms/internal/observability/tracing"
	"github.com/example/txn-receipt-sms/internal/providers/factory"
	"github.com/example/txn-receipt-sms/internal/receipt"
)

const serviceName = "receipt-server"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fail("config load", err)
	}

	baseLogger, err := logger.New(cfg.App, serviceName)
	if err != nil {
		fail("logger init", err)
	}
	log := *baseLogger

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, serviceName, func(err error) {
		log.Warn().Err(err).Msg("tracing export error")
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise tracing")
	}

	dispatcher, err := factory.Dispatcher(*cfg, logger.Component(log, "sms-dispatcher"),
		adaptersms.WithMetrics(metrics.NewDispatchMetrics(nil)))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise sms dispatcher")
	}

	svc, err := receipt.NewService(receipt.NewStore(), dispatcher, cfg.App.DefaultCountryCode, logger.Component(log, "receipt"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise receipt service")
	}

	handler := router.New(&router.Config{
		Logger:         logger.Component(log, "http"),
		Transactions:   handlers.NewTransactionHandler(svc, logger.Component(log, "transactions")),
		MetricsHandler: promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.App.Port),
		Handler:           tracing.WrapHandler(cfg.Tracing.Enabled, serviceName, handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	log.Info().
		Str("addr", srv.Addr).
		Str("mode", dispatcher.Settings().Mode).
		Msg("receipt server started")

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server terminated with error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Timeouts.ProviderTimeoutSeconds+5)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}
	if err := svc.Wait(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("pending sms dispatches abandoned")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracing shutdown failed")
	}
}

func fail(stage string, err error) {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	logger.Fatal().Err(err).Str("stage", stage).Msg("receipt server init failed")
}
