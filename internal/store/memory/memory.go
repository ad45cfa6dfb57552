// Package memory is the in-memory store implementation, used as the default
// backend and in tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"kharcha/internal/core"
	"kharcha/internal/store"
)

type Store struct {
	mu     sync.Mutex
	items  []core.Transaction
	budget core.BudgetConfig
}

func New() *Store {
	return &Store{budget: core.DefaultBudget()}
}

// Create validates and stores the transaction, assigning a fresh id.
func (s *Store) Create(_ context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	tx.ID = uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, tx)
	return tx.ID, nil
}

// List returns transactions newest first.
func (s *Store) List(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, 0, len(s.items))
	for i := len(s.items) - 1; i >= 0; i-- {
		out = append(out, s.items[i])
	}
	return out, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, tx := range s.items {
		if tx.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) ReadBudget(_ context.Context) (core.BudgetConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budget, nil
}

func (s *Store) WriteBudget(_ context.Context, cfg core.BudgetConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budget = cfg
	return nil
}
