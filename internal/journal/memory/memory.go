package memory

import (
	"context"
	"sync"

	"relieffund/internal/ledger"
)

// Store keeps records in memory. It backs tests and journal-less deployments
// where durability is explicitly not wanted.
type Store struct {
	mu      sync.Mutex
	records []ledger.Record
}

func New() *Store {
	return &Store{}
}

func (s *Store) Append(_ context.Context, rec ledger.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

func (s *Store) Load(_ context.Context) ([]ledger.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ledger.Record(nil), s.records...), nil
}

func (s *Store) Close() error { return nil }
