package http

import (
	"log/slog"
	"net/http"
)

type insightsResponse struct {
	Insights []insightJSON `json:"insights"`
}

// handleInsights evaluates the insight engine over current store state.
// Results are cached briefly since clients poll this endpoint; any write
// invalidates the cache.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if cached, ok := s.insightCache.Get(insightCacheKey); ok {
		writeJSON(w, http.StatusOK, insightsResponse{Insights: toInsightJSON(cached)})
		return
	}

	txs, err := s.store.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list transactions for insights", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to evaluate insights")
		return
	}
	cfg, err := s.store.ReadBudget(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to read budget for insights", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to evaluate insights")
		return
	}

	insights := s.engine.Evaluate(txs, cfg)
	s.insightCache.Set(insightCacheKey, insights)

	writeJSON(w, http.StatusOK, insightsResponse{Insights: toInsightJSON(insights)})
}
