package worker

import (
	"context"
	"errors"
	"reflect"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	common "github.com/example/txn-receipt-sms/internal/adapters/common"
)

// Fanout runs independent dispatches with bounded concurrency. Each request
// gets exactly one attempt; failures do not affect the others.
type Fanout struct {
	dispatcher common.Dispatcher
	logger     zerolog.Logger
	semaphore  *semaphore.Weighted
}

// NewFanout constructs a fan-out runner allowing at most concurrency
// dispatches in flight.
func NewFanout(dispatcher common.Dispatcher, concurrency int, logger zerolog.Logger) (*Fanout, error) {
	if dispatcher == nil {
		return nil, errors.New("worker: dispatcher dependency is required")
	}
	if concurrency < 1 {
		return nil, errors.New("worker: concurrency must be >= 1")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	return &Fanout{
		dispatcher: dispatcher,
		logger:     logger.With().Str("component", "fanout").Logger(),
		semaphore:  semaphore.NewWeighted(int64(concurrency)),
	}, nil
}

// Run dispatches every request and returns the outcomes in request order.
// Requests not started before ctx is done are reported as network failures
// without reaching the provider.
func (f *Fanout) Run(ctx context.Context, reqs []common.DispatchRequest) []common.Outcome {
	outcomes := make([]common.Outcome, len(reqs))
	var wg sync.WaitGroup

	for i, req := range reqs {
		if err := f.semaphore.Acquire(ctx, 1); err != nil {
			f.logger.Warn().
				Int("index", i).
				Err(err).
				Msg("fanout: context done before dispatch started")
			outcomes[i] = common.Outcome{Err: common.NewError(common.KindNetwork, "not dispatched", err)}
			continue
		}

		wg.Add(1)
		go func(i int, req common.DispatchRequest) {
			defer wg.Done()
			defer f.semaphore.Release(1)
			delivery, err := f.dispatcher.Dispatch(ctx, req)
			outcomes[i] = common.Outcome{Delivery: delivery, Err: err}
		}(i, req)
	}

	wg.Wait()
	return outcomes
}
