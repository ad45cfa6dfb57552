package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"kharcha/internal/core"
)

// transactionJSON mirrors the wire shape the mobile client already uses:
// "type" for direction, "timestamp" for creation time. Amounts travel as
// strings to keep decimal precision.
type transactionJSON struct {
	ID           string `json:"id,omitempty"`
	Amount       string `json:"amount"`
	Merchant     string `json:"merchant"`
	Category     string `json:"category"`
	Type         string `json:"type"`
	OriginalText string `json:"originalText,omitempty"`
	Timestamp    string `json:"timestamp"`
}

type insightJSON struct {
	Severity   string `json:"severity"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

type budgetJSON struct {
	MonthlyLimit string `json:"monthlyLimit"`
	DailyLimit   string `json:"dailyLimit"`
}

type errorJSON struct {
	Error string `json:"error"`
}

func toTransactionJSON(tx core.Transaction) transactionJSON {
	return transactionJSON{
		ID:           tx.ID,
		Amount:       tx.Amount.String(),
		Merchant:     tx.Merchant,
		Category:     string(tx.Category),
		Type:         string(tx.Direction),
		OriginalText: tx.OriginalText,
		Timestamp:    tx.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toInsightJSON(ins []core.Insight) []insightJSON {
	out := make([]insightJSON, len(ins))
	for i, in := range ins {
		out[i] = insightJSON{
			Severity:   string(in.Severity),
			Message:    in.Message,
			Suggestion: in.Suggestion,
		}
	}
	return out
}

func toBudgetJSON(cfg core.BudgetConfig) budgetJSON {
	return budgetJSON{
		MonthlyLimit: cfg.MonthlyLimit.String(),
		DailyLimit:   cfg.DailyLimit.String(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorJSON{Error: msg})
}

// decodeJSON limits body size and rejects unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<16)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// parseAmount accepts decimal strings like "1850.50".
func parseAmount(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
