package http

import (
	"log/slog"
	"net/http"

	"presupuesto/internal/core"
)

// handleOverview serves the month dashboard: totals, net, and the
// expense breakdown by category.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	year, month := parseYearMonth(r)
	key := s.cacheKey(year, month)

	if cached, found := s.overviewCache.Get(key); found {
		slog.DebugContext(r.Context(), "Overview cache hit", "year", year, "month", month)
		respondJSON(w, http.StatusOK, overviewResponse(cached))
		return
	}

	overview, err := s.ledger.Overview(r.Context(), year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Month overview failed",
			"error", err, "year", year, "month", month)
		respondError(w, http.StatusInternalServerError, "could not load overview")
		return
	}
	overview.Year, overview.Month = year, month

	s.overviewCache.Set(key, overview)
	respondJSON(w, http.StatusOK, overviewResponse(overview))
}

func overviewResponse(overview core.MonthOverview) map[string]any {
	if overview.ByCategory == nil {
		overview.ByCategory = []core.CategoryAmount{}
	}
	return map[string]any{
		"overview": overview,
		"net":      overview.Net(),
	}
}
