package worker

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"kharcha/internal/amqp"
	"kharcha/internal/core"
	"kharcha/internal/insight"
	"kharcha/internal/log"
	"kharcha/internal/store/memory"
)

func newTestWorker(t *testing.T, st *memory.Store, buf *bytes.Buffer) *InsightWorker {
	t.Helper()
	logger := log.New(log.Config{
		Component: log.ComponentWorker,
		Handler:   slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
	engine := insight.NewEngineWithClock(func() time.Time {
		return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	})
	return NewInsightWorker(st, st, engine, logger)
}

func TestEvaluateLogsAlertOnOverrun(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	if _, err := st.Create(ctx, core.Transaction{
		Amount:    decimal.NewFromInt(31000),
		Merchant:  "Swiggy Foods",
		Category:  core.CategoryFood,
		Direction: core.Expense,
		CreatedAt: time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var buf bytes.Buffer
	w := newTestWorker(t, st, &buf)
	if err := w.Evaluate(ctx); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Budget alert") || !strings.Contains(out, "danger") {
		t.Fatalf("expected danger alert in log output, got:\n%s", out)
	}
}

func TestEvaluateQuietWhenOnTrack(t *testing.T) {
	st := memory.New()
	var buf bytes.Buffer
	w := newTestWorker(t, st, &buf)
	if err := w.Evaluate(context.Background()); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if strings.Contains(buf.String(), "Budget alert") {
		t.Fatalf("on-track state must not alert, got:\n%s", buf.String())
	}
}

func TestHandleTransactionCreated(t *testing.T) {
	st := memory.New()
	var buf bytes.Buffer
	w := newTestWorker(t, st, &buf)
	msg := amqp.NewTransactionCreatedMessage("tx-1")
	if err := w.HandleTransactionCreated(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !strings.Contains(buf.String(), "tx-1") {
		t.Fatalf("expected transaction id in log output")
	}
}
