package adapters

import (
	"context"

	"kharcha/internal/core"
	"kharcha/internal/services"
	"kharcha/internal/storage"
)

// SQLiteAdapter combines the SQLite repository and the transaction service
// into the backend surface: writes and deletes go through the service so
// created events are published, reads hit the repository directly.
type SQLiteAdapter struct {
	storage *storage.SQLiteRepository
	service *services.TransactionService
}

func NewSQLiteAdapter(storage *storage.SQLiteRepository, service *services.TransactionService) *SQLiteAdapter {
	return &SQLiteAdapter{
		storage: storage,
		service: service,
	}
}

// Create implements store.TransactionWriter.
func (a *SQLiteAdapter) Create(ctx context.Context, tx core.Transaction) (string, error) {
	return a.service.Create(ctx, tx)
}

// List implements store.TransactionLister.
func (a *SQLiteAdapter) List(ctx context.Context) ([]core.Transaction, error) {
	return a.storage.List(ctx)
}

// Delete implements store.TransactionDeleter.
func (a *SQLiteAdapter) Delete(ctx context.Context, id string) error {
	return a.service.Delete(ctx, id)
}

// ReadBudget implements store.BudgetReader.
func (a *SQLiteAdapter) ReadBudget(ctx context.Context) (core.BudgetConfig, error) {
	return a.storage.ReadBudget(ctx)
}

// WriteBudget implements store.BudgetWriter.
func (a *SQLiteAdapter) WriteBudget(ctx context.Context, cfg core.BudgetConfig) error {
	return a.storage.WriteBudget(ctx, cfg)
}
