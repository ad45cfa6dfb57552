package http

import (
	"log/slog"
	"net/http"

	"kharcha/internal/core"
)

func (s *Server) handleReadBudget(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.store.ReadBudget(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to read budget", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read budget")
		return
	}
	writeJSON(w, http.StatusOK, toBudgetJSON(cfg))
}

// handleWriteBudget replaces the budget configuration wholesale. Limit
// validation lives here, not in the insight engine.
func (s *Server) handleWriteBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetJSON
	if !decodeJSON(w, r, &req) {
		return
	}

	monthly, ok := parseAmount(req.MonthlyLimit)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "monthlyLimit must be a decimal")
		return
	}
	daily, ok := parseAmount(req.DailyLimit)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "dailyLimit must be a decimal")
		return
	}

	cfg := core.BudgetConfig{MonthlyLimit: monthly, DailyLimit: daily}
	if err := cfg.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.store.WriteBudget(r.Context(), cfg); err != nil {
		slog.ErrorContext(r.Context(), "Failed to write budget", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to write budget")
		return
	}
	s.invalidateInsights()

	slog.InfoContext(r.Context(), "Budget updated",
		"monthly_limit", cfg.MonthlyLimit.String(),
		"daily_limit", cfg.DailyLimit.String())

	writeJSON(w, http.StatusOK, toBudgetJSON(cfg))
}
