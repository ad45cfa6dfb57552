// Package storage is the SQLite-backed store implementation.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"kharcha/internal/core"
	"kharcha/internal/store"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Create implements store.TransactionWriter.
func (r *SQLiteRepository) Create(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	tx.ID = uuid.NewString()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, amount, merchant, category, direction, original_text, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tx.ID,
		tx.Amount.String(),
		tx.Merchant,
		string(tx.Category),
		string(tx.Direction),
		tx.OriginalText,
		tx.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", tx.ID,
		"merchant", tx.Merchant,
		"amount", tx.Amount.String(),
		"direction", tx.Direction,
		"category", tx.Category)

	return tx.ID, nil
}

// List implements store.TransactionLister, newest first.
func (r *SQLiteRepository) List(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, amount, merchant, category, direction, original_text, created_at
		FROM transactions
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			tx                  core.Transaction
			amount, cat, dir, at string
		)
		if err := rows.Scan(&tx.ID, &amount, &tx.Merchant, &cat, &dir, &tx.OriginalText, &at); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse amount %q: %w", amount, err)
		}
		tx.Category = core.Category(cat)
		tx.Direction = core.Direction(dir)
		tx.CreatedAt, err = time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", at, err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// Get returns a single transaction by id.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, amount, merchant, category, direction, original_text, created_at
		FROM transactions WHERE id = ?`, id)

	var (
		tx                   core.Transaction
		amount, cat, dir, at string
	)
	err := row.Scan(&tx.ID, &amount, &tx.Merchant, &cat, &dir, &tx.OriginalText, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, store.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	tx.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	tx.Category = core.Category(cat)
	tx.Direction = core.Direction(dir)
	tx.CreatedAt, err = time.Parse(time.RFC3339Nano, at)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse created_at %q: %w", at, err)
	}
	return tx, nil
}

// Delete implements store.TransactionDeleter.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ReadBudget implements store.BudgetReader. A missing row yields the
// default configuration rather than an error.
func (r *SQLiteRepository) ReadBudget(ctx context.Context) (core.BudgetConfig, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT monthly_limit, daily_limit FROM budget_config WHERE id = 1`)

	var monthly, daily string
	err := row.Scan(&monthly, &daily)
	if errors.Is(err, sql.ErrNoRows) {
		return core.DefaultBudget(), nil
	}
	if err != nil {
		return core.BudgetConfig{}, fmt.Errorf("read budget: %w", err)
	}

	var cfg core.BudgetConfig
	cfg.MonthlyLimit, err = decimal.NewFromString(monthly)
	if err != nil {
		return core.BudgetConfig{}, fmt.Errorf("parse monthly limit %q: %w", monthly, err)
	}
	cfg.DailyLimit, err = decimal.NewFromString(daily)
	if err != nil {
		return core.BudgetConfig{}, fmt.Errorf("parse daily limit %q: %w", daily, err)
	}
	return cfg, nil
}

// WriteBudget implements store.BudgetWriter, replacing the config wholesale.
func (r *SQLiteRepository) WriteBudget(ctx context.Context, cfg core.BudgetConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO budget_config (id, monthly_limit, daily_limit, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			monthly_limit = excluded.monthly_limit,
			daily_limit = excluded.daily_limit,
			updated_at = excluded.updated_at`,
		cfg.MonthlyLimit.String(),
		cfg.DailyLimit.String(),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("write budget: %w", err)
	}
	return nil
}
