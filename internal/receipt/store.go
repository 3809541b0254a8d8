package receipt

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/example/txn-receipt-sms/internal/models"
)

// DefaultTTL is how long a submitted transaction stays retrievable.
const DefaultTTL = 24 * time.Hour

var (
	ErrNotFound           = errors.New("transaction not found")
	ErrDuplicateReference = errors.New("duplicate transaction reference")
)

// StoreOption customises a Store.
type StoreOption func(*Store)

// WithTTL overrides DefaultTTL. Non-positive values keep entries forever.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithStoreClock overrides the clock used for expiry.
func WithStoreClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store keeps submitted transactions in memory keyed by reference. It is safe
// for concurrent use.
type Store struct {
	mu    sync.RWMutex
	items map[string]models.Transaction
	ttl   time.Duration
	now   func() time.Time
}

// NewStore constructs an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		items: make(map[string]models.Transaction),
		ttl:   DefaultTTL,
		now:   time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Put saves txn under its reference. Expired entries are pruned first.
func (s *Store) Put(txn models.Transaction) error {
	key := normalizeReference(txn.ReferenceNumber)
	if key == "" {
		return errors.New("receipt store: reference is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	if _, exists := s.items[key]; exists {
		return ErrDuplicateReference
	}
	s.items[key] = txn
	return nil
}

// Get looks a transaction up by reference, case-insensitively.
func (s *Store) Get(reference string) (models.Transaction, error) {
	key := normalizeReference(reference)

	s.mu.RLock()
	txn, ok := s.items[key]
	s.mu.RUnlock()
	if !ok || s.expired(txn) {
		return models.Transaction{}, ErrNotFound
	}
	return txn, nil
}

// Len reports how many entries are held, including expired ones not yet
// pruned.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) pruneLocked() {
	if s.ttl <= 0 {
		return
	}
	for key, txn := range s.items {
		if s.expired(txn) {
			delete(s.items, key)
		}
	}
}

func (s *Store) expired(txn models.Transaction) bool {
	return s.ttl > 0 && s.now().Sub(txn.SubmittedAt) > s.ttl
}

func normalizeReference(reference string) string {
	return strings.ToUpper(strings.TrimSpace(reference))
}
