package tracing_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/txn-receipt-sms/internal/config"
	"github.com/example/txn-receipt-sms/internal/observability/tracing"
)

func TestInitDisabledIsNoop(t *testing.T) {
	shutdown, err := tracing.Init(context.Background(), config.TracingConfig{}, "test", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("unexpected shutdown error: %v", err)
	}
}

func TestWrapHandler(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	if got := tracing.WrapHandler(false, "test", inner); got == nil {
		t.Fatalf("expected handler")
	}

	wrapped := tracing.WrapHandler(true, "test", inner)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected wrapped handler to pass through status, got %d", rec.Code)
	}
}

func TestHTTPClient(t *testing.T) {
	if tracing.HTTPClient(false, time.Second) != nil {
		t.Fatalf("expected nil client when tracing disabled")
	}
	client := tracing.HTTPClient(true, 2*time.Second)
	if client == nil || client.Timeout != 2*time.Second || client.Transport == nil {
		t.Fatalf("unexpected client %+v", client)
	}
}
