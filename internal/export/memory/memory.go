package memory

import (
	"context"
	"fmt"
	"sync"

	"budgetplan/internal/core"
)

// Store is an in-memory row appender used in tests and local runs
// without Google credentials.
type Store struct {
	mu   sync.Mutex
	rows []Row
}

type Row struct {
	UserEmail   string
	Transaction core.Transaction
}

func New() *Store {
	return &Store{}
}

// Append stores the transaction and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, userEmail string, t core.Transaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, Row{UserEmail: userEmail, Transaction: t})
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (s *Store) Rows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Row(nil), s.rows...)
}
