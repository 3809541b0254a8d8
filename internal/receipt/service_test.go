package receipt_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	common "github.com/example/txn-receipt-sms/internal/adapters/common"
	"github.com/example/txn-receipt-sms/internal/models"
	"github.com/example/txn-receipt-sms/internal/receipt"
)

type recordingDispatcher struct {
	mu       sync.Mutex
	requests []common.DispatchRequest
	outcome  common.Outcome
}

func (d *recordingDispatcher) DispatchAsync(_ context.Context, req common.DispatchRequest) <-chan common.Outcome {
	d.mu.Lock()
	d.requests = append(d.requests, req)
	d.mu.Unlock()
	ch := make(chan common.Outcome, 1)
	ch <- d.outcome
	close(ch)
	return ch
}

func (d *recordingDispatcher) Requests() []common.DispatchRequest {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]common.DispatchRequest(nil), d.requests...)
}

var submittedAt = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T, dispatcher receipt.AsyncDispatcher, logger zerolog.Logger) (*receipt.Service, *receipt.Store) {
	t.Helper()
	store := receipt.NewStore(receipt.WithStoreClock(func() time.Time { return submittedAt }))
	svc, err := receipt.NewService(store, dispatcher, "234", logger,
		receipt.WithClock(func() time.Time { return submittedAt }),
		receipt.WithReferenceGenerator(func() string { return "REF000000001" }),
		receipt.WithComposer(receipt.NewComposer(receipt.WithBalanceOffset(func() float64 { return 0 }))),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc, store
}

func input() models.TransactionInput {
	return models.TransactionInput{
		AccountName:     "Ada Obi",
		BankName:        "First Bank",
		AccountNumber:   "0123456789",
		PhoneNumber:     "08031234567",
		Amount:          "2500",
		Narration:       "rent",
		TransactionDate: "2025-03-09T14:30",
	}
}

func TestNewServiceRequiresStore(t *testing.T) {
	if _, err := receipt.NewService(nil, nil, "234", zerolog.Nop()); err == nil {
		t.Fatalf("expected error without store")
	}
}

func TestSubmitStoresAndRelays(t *testing.T) {
	dispatcher := &recordingDispatcher{outcome: common.Outcome{Delivery: &common.Delivery{ProviderMessageID: "ATXid_1"}}}
	svc, _ := newService(t, dispatcher, zerolog.Nop())

	rec, err := svc.Submit(context.Background(), input())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected wait error: %v", err)
	}

	if rec.Transaction.ReferenceNumber != "REF000000001" || !rec.Transaction.SubmittedAt.Equal(submittedAt) {
		t.Fatalf("unexpected transaction %+v", rec.Transaction)
	}
	if rec.Recipient != "+2348031234567" {
		t.Fatalf("expected local number rewritten with country code, got %q", rec.Recipient)
	}
	if !strings.Contains(rec.SMS, "CR Amt:2,500.00") {
		t.Fatalf("unexpected sms %q", rec.SMS)
	}

	stored, err := svc.Lookup("ref000000001")
	if err != nil || stored.AccountName != "Ada Obi" {
		t.Fatalf("expected stored transaction, got %+v / %v", stored, err)
	}

	reqs := dispatcher.Requests()
	if len(reqs) != 1 || reqs[0].Recipient != "+2348031234567" || reqs[0].Body != rec.SMS {
		t.Fatalf("unexpected dispatch requests %+v", reqs)
	}
}

func TestSubmitDispatchFailureDoesNotFailSubmission(t *testing.T) {
	var buf bytes.Buffer
	dispatcher := &recordingDispatcher{outcome: common.Outcome{Err: common.NewError(common.KindNetwork, "", errors.New("connection refused"))}}
	svc, _ := newService(t, dispatcher, zerolog.New(&buf))

	if _, err := svc.Submit(context.Background(), input()); err != nil {
		t.Fatalf("submission must not fail on dispatch failure: %v", err)
	}
	if err := svc.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected wait error: %v", err)
	}
	if !strings.Contains(buf.String(), `"kind":"network_error"`) {
		t.Fatalf("expected failure to be logged, got %s", buf.String())
	}
}

func TestSubmitInvalidInput(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	svc, store := newService(t, dispatcher, zerolog.Nop())

	in := input()
	in.AccountNumber = "123"
	if _, err := svc.Submit(context.Background(), in); !errors.Is(err, models.ErrInvalidTransaction) {
		t.Fatalf("expected invalid transaction, got %v", err)
	}
	if store.Len() != 0 || len(dispatcher.Requests()) != 0 {
		t.Fatalf("invalid submissions must not be stored or relayed")
	}
}

func TestSubmitWithoutDispatcher(t *testing.T) {
	svc, _ := newService(t, nil, zerolog.Nop())
	if _, err := svc.Submit(context.Background(), input()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSubmitDuplicateReference(t *testing.T) {
	svc, _ := newService(t, nil, zerolog.Nop())
	if _, err := svc.Submit(context.Background(), input()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Submit(context.Background(), input()); !errors.Is(err, receipt.ErrDuplicateReference) {
		t.Fatalf("expected duplicate reference error, got %v", err)
	}
}
