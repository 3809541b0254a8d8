package receipt_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/example/txn-receipt-sms/internal/models"
	"github.com/example/txn-receipt-sms/internal/receipt"
)

func TestStorePutGet(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	store := receipt.NewStore(receipt.WithStoreClock(func() time.Time { return now }))

	txn := models.Transaction{ReferenceNumber: "ABC123DEF456", AccountName: "Ada", SubmittedAt: now}
	if err := store.Put(txn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := store.Get(" abc123def456 ")
	if err != nil {
		t.Fatalf("unexpected lookup error: %v", err)
	}
	if got.AccountName != "Ada" {
		t.Fatalf("unexpected transaction %+v", got)
	}

	if err := store.Put(txn); !errors.Is(err, receipt.ErrDuplicateReference) {
		t.Fatalf("expected duplicate reference error, got %v", err)
	}
	if _, err := store.Get("missing"); !errors.Is(err, receipt.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := store.Put(models.Transaction{}); err == nil {
		t.Fatalf("expected error for missing reference")
	}
}

func TestStoreExpiry(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	store := receipt.NewStore(receipt.WithTTL(time.Hour), receipt.WithStoreClock(func() time.Time { return clock() }))

	if err := store.Put(models.Transaction{ReferenceNumber: "OLD", SubmittedAt: now}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	now = now.Add(2 * time.Hour)
	if _, err := store.Get("OLD"); !errors.Is(err, receipt.ErrNotFound) {
		t.Fatalf("expected expired entry to be hidden, got %v", err)
	}

	if err := store.Put(models.Transaction{ReferenceNumber: "NEW", SubmittedAt: now}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("expected expired entry to be pruned, len=%d", store.Len())
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := receipt.NewStore(receipt.WithTTL(0))
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ref := fmt.Sprintf("REF%09d", i)
			if err := store.Put(models.Transaction{ReferenceNumber: ref}); err != nil {
				t.Errorf("put %s: %v", ref, err)
				return
			}
			if _, err := store.Get(ref); err != nil {
				t.Errorf("get %s: %v", ref, err)
			}
		}(i)
	}
	wg.Wait()
	if store.Len() != 50 {
		t.Fatalf("expected 50 entries, got %d", store.Len())
	}
}
