// Package worker re-evaluates budget insights out of band and surfaces
// danger/warning results as alert log lines. It reacts to
// transaction-created events and additionally re-runs on a fixed interval
// so missed events are eventually covered.
package worker

import (
	"context"
	"fmt"
	"time"

	"kharcha/internal/amqp"
	"kharcha/internal/core"
	"kharcha/internal/insight"
	"kharcha/internal/log"
	"kharcha/internal/store"
)

type InsightWorker struct {
	lister store.TransactionLister
	budget store.BudgetReader
	engine *insight.Engine
	logger *log.Logger
}

func NewInsightWorker(lister store.TransactionLister, budget store.BudgetReader, engine *insight.Engine, logger *log.Logger) *InsightWorker {
	if logger == nil {
		logger = log.New(log.Config{Component: log.ComponentWorker})
	}
	return &InsightWorker{
		lister: lister,
		budget: budget,
		engine: engine,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleTransactionCreated processes a single created event from AMQP.
func (w *InsightWorker) HandleTransactionCreated(ctx context.Context, msg *amqp.TransactionCreatedMessage) error {
	w.logger.InfoContext(ctx, "Processing transaction created message",
		log.FieldTransactionID, msg.ID)
	return w.Evaluate(ctx)
}

// Evaluate reads current store state, runs the insight engine and logs the
// results. Success insights only show at debug level; danger and warning
// become alert lines.
func (w *InsightWorker) Evaluate(ctx context.Context) error {
	txs, err := w.lister.List(ctx)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}
	cfg, err := w.budget.ReadBudget(ctx)
	if err != nil {
		return fmt.Errorf("read budget: %w", err)
	}

	for _, ins := range w.engine.Evaluate(txs, cfg) {
		switch ins.Severity {
		case core.SeverityDanger, core.SeverityWarning:
			w.logger.WarnContext(ctx, "Budget alert",
				log.FieldSeverity, ins.Severity,
				"message", ins.Message,
				"suggestion", ins.Suggestion)
		default:
			w.logger.Debug("Budget status",
				log.FieldSeverity, ins.Severity,
				"message", ins.Message)
		}
	}
	return nil
}

// Run re-evaluates on a fixed interval until ctx is done. The first
// evaluation happens immediately on startup.
func (w *InsightWorker) Run(ctx context.Context, interval time.Duration) error {
	if err := w.Evaluate(ctx); err != nil {
		w.logger.ErrorContext(ctx, "Initial insight evaluation failed", log.FieldError, err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "Stopping periodic evaluation", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if err := w.Evaluate(ctx); err != nil {
				w.logger.ErrorContext(ctx, "Periodic insight evaluation failed", log.FieldError, err)
			}
		}
	}
}
