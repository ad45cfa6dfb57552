// Package services orchestrates store writes with async event publishing.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"kharcha/internal/core"
	"kharcha/internal/store"
)

// Publisher is the slice of the AMQP client the service needs. Nil means
// eventing is disabled.
type Publisher interface {
	PublishTransactionCreated(ctx context.Context, id string) error
	Close() error
}

// TransactionService persists transactions and notifies the digest worker.
// Publishing is best-effort: the store write is the source of truth and a
// broker failure never fails the request.
type TransactionService struct {
	writer    store.TransactionWriter
	deleter   store.TransactionDeleter
	publisher Publisher
}

func NewTransactionService(writer store.TransactionWriter, deleter store.TransactionDeleter, publisher Publisher) *TransactionService {
	return &TransactionService{
		writer:    writer,
		deleter:   deleter,
		publisher: publisher,
	}
}

// Create saves the transaction and publishes a created event.
func (s *TransactionService) Create(ctx context.Context, tx core.Transaction) (string, error) {
	id, err := s.writer.Create(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("save transaction: %w", err)
	}

	if s.publisher == nil {
		return id, nil
	}
	if err := s.publisher.PublishTransactionCreated(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction created message",
			"id", id, "error", err)
		// Transaction is saved; the digest worker will catch up on its
		// periodic re-evaluation.
	}
	return id, nil
}

// Delete removes the transaction from the store.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	if err := s.deleter.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

// Close releases the publisher connection if one is configured.
func (s *TransactionService) Close() error {
	if s.publisher != nil {
		return s.publisher.Close()
	}
	return nil
}
