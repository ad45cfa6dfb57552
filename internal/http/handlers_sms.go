package http

import (
	"log/slog"
	"net/http"
	"strings"
)

type smsRequest struct {
	Text string `json:"text"`
}

// handleParsePreview parses the SMS text without persisting anything,
// mirroring the live preview in the client.
func (s *Server) handleParsePreview(w http.ResponseWriter, r *http.Request) {
	var req smsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	tx, err := s.parser.Parse(req.Text)
	if err != nil {
		// The only parse failure is a missing amount; everything else
		// degrades to defaults inside the parser.
		writeError(w, http.StatusUnprocessableEntity, "could not detect transaction details")
		return
	}

	writeJSON(w, http.StatusOK, toTransactionJSON(tx))
}

// handleParseAndSave parses the SMS text and persists the result in one
// step.
func (s *Server) handleParseAndSave(w http.ResponseWriter, r *http.Request) {
	var req smsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	tx, err := s.parser.Parse(req.Text)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "could not detect transaction details")
		return
	}

	id, err := s.store.Create(r.Context(), tx)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to save parsed transaction",
			"error", err,
			"merchant", tx.Merchant,
			"amount", tx.Amount.String())
		writeError(w, http.StatusInternalServerError, "failed to save transaction")
		return
	}
	tx.ID = id
	s.invalidateInsights()

	slog.InfoContext(r.Context(), "Transaction created from SMS",
		"transaction_id", id,
		"merchant", tx.Merchant,
		"amount", tx.Amount.String(),
		"category", tx.Category,
		"direction", tx.Direction)

	writeJSON(w, http.StatusCreated, toTransactionJSON(tx))
}
