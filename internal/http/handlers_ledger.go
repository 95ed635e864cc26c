package http

import (
	"log/slog"
	"net/http"

	"presupuesto/internal/core"
)

// entryRequest is the JSON payload for recording an expense or income.
// Amounts arrive as decimal strings to avoid float rounding on input.
type entryRequest struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	s.handleEntries(w, r, core.KindExpense)
}

func (s *Server) handleIncomes(w http.ResponseWriter, r *http.Request) {
	s.handleEntries(w, r, core.KindIncome)
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request, kind core.CategoryKind) {
	switch r.Method {
	case http.MethodGet:
		s.listEntries(w, r, kind)
	case http.MethodPost:
		s.createEntry(w, r, kind)
	default:
		w.Header().Set("Allow", "GET, POST")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request, kind core.CategoryKind) {
	year, month := parseYearMonth(r)

	entries, err := s.ledger.ListEntries(r.Context(), year, month, kind)
	if err != nil {
		slog.ErrorContext(r.Context(), "List entries failed",
			"error", err, "year", year, "month", month, "kind", kind)
		respondError(w, http.StatusInternalServerError, "could not list entries")
		return
	}
	if entries == nil {
		entries = []core.Entry{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"year":    year,
		"month":   month,
		"entries": entries,
	})
}

func (s *Server) createEntry(w http.ResponseWriter, r *http.Request, kind core.CategoryKind) {
	var req entryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		slog.ErrorContext(r.Context(), "Bad entry request", "error", err)
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid date, expected YYYY-MM-DD")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	entry := core.Entry{
		Date:        date,
		Description: sanitizeInput(req.Description),
		Amount:      core.Money{Cents: cents},
		Category:    sanitizeInput(req.Category),
		Kind:        kind,
	}

	id, err := s.ledger.RecordEntry(r.Context(), entry)
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			slog.ErrorContext(r.Context(), "Failed to record entry",
				"error", err, "description", entry.Description, "kind", kind)
			respondError(w, status, "could not record entry")
			return
		}
		respondError(w, status, err.Error())
		return
	}

	s.invalidateOverview(date.Year(), date.Month())

	entry.ID = id
	respondJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	s.deleteEntry(w, r, "/api/expenses/")
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	s.deleteEntry(w, r, "/api/incomes/")
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request, prefix string) {
	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", "DELETE")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id, err := idFromPath(r.URL.Path, prefix)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	year, month, err := s.ledger.DeleteEntry(r.Context(), id)
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			slog.ErrorContext(r.Context(), "Failed to delete entry", "error", err, "id", id)
			respondError(w, status, "could not delete entry")
			return
		}
		respondError(w, status, err.Error())
		return
	}

	s.invalidateOverview(year, month)
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	kind := core.CategoryKind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = core.KindExpense
	}
	if err := kind.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "unknown kind, expected expense or income")
		return
	}

	categories, err := s.ledger.ListCategories(r.Context(), kind)
	if err != nil {
		slog.ErrorContext(r.Context(), "List categories failed", "error", err, "kind", kind)
		respondError(w, http.StatusInternalServerError, "could not list categories")
		return
	}
	if categories == nil {
		categories = []core.Category{}
	}

	respondJSON(w, http.StatusOK, map[string]any{"categories": categories})
}
