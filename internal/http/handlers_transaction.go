package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"kharcha/internal/category"
	"kharcha/internal/core"
	"kharcha/internal/store"
)

type createTransactionRequest struct {
	Amount   string `json:"amount"`
	Merchant string `json:"merchant"`
	Category string `json:"category,omitempty"`
	Type     string `json:"type"`
}

type listTransactionsResponse struct {
	Transactions []transactionJSON `json:"transactions"`
	TotalIncome  string            `json:"totalIncome"`
	TotalExpense string            `json:"totalExpense"`
}

// handleCreateTransaction records a manual entry. Category is optional:
// when omitted it is inferred from the merchant name, with income entries
// defaulting to the Income label.
func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	amount, ok := parseAmount(req.Amount)
	if !ok || !amount.IsPositive() {
		writeError(w, http.StatusUnprocessableEntity, "amount must be a positive decimal")
		return
	}

	merchant := strings.TrimSpace(req.Merchant)
	if merchant == "" {
		merchant = core.UnknownMerchant
	}

	direction := core.Direction(req.Type)
	if !direction.IsValid() {
		writeError(w, http.StatusUnprocessableEntity, "type must be income or expense")
		return
	}

	var cat core.Category
	switch {
	case req.Category != "":
		cat = core.Category(req.Category)
		if !cat.IsValid() {
			writeError(w, http.StatusUnprocessableEntity, "unknown category")
			return
		}
	case direction == core.Income:
		cat = core.CategoryIncome
	default:
		cat = category.Categorize(merchant)
	}

	tx := core.Transaction{
		Amount:    amount,
		Merchant:  merchant,
		Category:  cat,
		Direction: direction,
		CreatedAt: time.Now(),
	}
	if err := tx.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := s.store.Create(r.Context(), tx)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to save transaction",
			"error", err,
			"merchant", tx.Merchant,
			"amount", tx.Amount.String(),
			"operation", "create")
		writeError(w, http.StatusInternalServerError, "failed to save transaction")
		return
	}
	tx.ID = id
	s.invalidateInsights()

	slog.InfoContext(r.Context(), "Transaction created",
		"transaction_id", id,
		"merchant", tx.Merchant,
		"amount", tx.Amount.String(),
		"category", tx.Category,
		"direction", tx.Direction)

	writeJSON(w, http.StatusCreated, toTransactionJSON(tx))
}

// handleListTransactions returns all transactions newest first along with
// running income/expense totals for the dashboard.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.store.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list transactions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	totalIncome := decimal.Zero
	totalExpense := decimal.Zero
	items := make([]transactionJSON, len(txs))
	for i, tx := range txs {
		items[i] = toTransactionJSON(tx)
		switch tx.Direction {
		case core.Income:
			totalIncome = totalIncome.Add(tx.Amount)
		case core.Expense:
			totalExpense = totalExpense.Add(tx.Amount)
		}
	}

	writeJSON(w, http.StatusOK, listTransactionsResponse{
		Transactions: items,
		TotalIncome:  totalIncome.String(),
		TotalExpense: totalExpense.String(),
	})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := s.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to delete transaction",
			"error", err, "transaction_id", id)
		writeError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}
	s.invalidateInsights()

	slog.InfoContext(r.Context(), "Transaction deleted", "transaction_id", id)
	w.WriteHeader(http.StatusNoContent)
}
