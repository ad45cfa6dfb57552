// Package store defines the persistence boundary. The surrounding
// application treats transaction and budget storage as an external
// collaborator; any conforming implementation (SQLite, in-memory) is
// substitutable without touching the parser, categorizer or insight engine.
package store

import (
	"context"
	"errors"

	"kharcha/internal/core"
)

// ErrNotFound is returned when a transaction id does not exist.
var ErrNotFound = errors.New("transaction not found")

// Ports for outbound adapters.
type (
	TransactionWriter interface {
		// Create persists the transaction and returns the assigned id.
		Create(ctx context.Context, tx core.Transaction) (id string, err error)
	}

	TransactionLister interface {
		// List returns all transactions ordered by recency, newest first.
		List(ctx context.Context) ([]core.Transaction, error)
	}

	TransactionDeleter interface {
		Delete(ctx context.Context, id string) error
	}

	// BudgetReader returns the stored budget configuration, falling back
	// to defaults when none has been written yet.
	BudgetReader interface {
		ReadBudget(ctx context.Context) (core.BudgetConfig, error)
	}

	// BudgetWriter replaces the budget configuration wholesale.
	BudgetWriter interface {
		WriteBudget(ctx context.Context, cfg core.BudgetConfig) error
	}
)
