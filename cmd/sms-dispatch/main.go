package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	common "github.com/example/txn-receipt-sms/internal/adapters/common"
	"github.com/example/txn-receipt-sms/internal/config"
	"github.com/example/txn-receipt-sms/internal/logger"
	"github.com/example/txn-receipt-sms/internal/observability/tracing"
	"github.com/example/txn-receipt-sms/internal/providers/factory"
	"github.com/example/txn-receipt-sms/internal/util"
	"github.com/example/txn-receipt-sms/internal/worker"
)

const serviceName = "sms-dispatch"

type recipientList []string

func (r *recipientList) String() string { return strings.Join(*r, ",") }

func (r *recipientList) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*r = append(*r, part)
		}
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout))
}

func run(ctx context.Context, args []string, out io.Writer) int {
	fs := flag.NewFlagSet(serviceName, flag.ContinueOnError)
	var (
		recipients recipientList
		message    string
		localize   bool
	)
	fs.Var(&recipients, "to", "recipient phone number; repeat or comma-separate for several")
	fs.StringVar(&message, "message", "", "message text")
	fs.BoolVar(&localize, "localize", true, "prefix local numbers with DEFAULT_COUNTRY_CODE")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if len(recipients) == 0 || strings.TrimSpace(message) == "" {
		fmt.Fprintln(out, "usage: sms-dispatch -to <number> [-to <number>...] -message <text>")
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		initFailed("config load", err)
		return 1
	}
	baseLogger, err := logger.New(cfg.App, serviceName, os.Stderr)
	if err != nil {
		initFailed("logger init", err)
		return 1
	}
	log := *baseLogger

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, serviceName, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialise tracing")
		return 1
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Error().Err(err).Msg("tracing shutdown failed")
		}
	}()

	dispatcher, err := factory.Dispatcher(*cfg, logger.Component(log, "sms-dispatcher"))
	if err != nil {
		log.Error().Err(err).Msg("failed to initialise sms dispatcher")
		return 1
	}
	fanout, err := worker.NewFanout(dispatcher, cfg.Dispatch.Concurrency, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialise fanout")
		return 1
	}

	reqs := make([]common.DispatchRequest, len(recipients))
	for i, recipient := range recipients {
		if localize {
			recipient = util.ApplyDefaultCountryCode(recipient, cfg.App.DefaultCountryCode)
		}
		reqs[i] = common.DispatchRequest{Recipient: recipient, Body: message}
	}

	return report(out, reqs, fanout.Run(ctx, reqs))
}

func report(out io.Writer, reqs []common.DispatchRequest, outcomes []common.Outcome) int {
	code := 0
	for i, outcome := range outcomes {
		if outcome.Delivered() {
			fmt.Fprintf(out, "%s\tdelivered\t%s\t%s\n", outcome.Delivery.Recipient, outcome.Delivery.ProviderMessageID, outcome.Delivery.Cost)
			continue
		}
		code = 1
		var dispatchErr *common.Error
		reason := outcome.Err.Error()
		if errors.As(outcome.Err, &dispatchErr) && dispatchErr.Reason != "" {
			reason = dispatchErr.Reason
		}
		fmt.Fprintf(out, "%s\t%s\t%s\n", reqs[i].Recipient, outcome.Kind(), reason)
	}
	return code
}

// initFailed reports failures that happen before the configured logger exists.
func initFailed(stage string, err error) {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	logger.Error().Err(err).Str("stage", stage).Msg("sms dispatch init failed")
}
