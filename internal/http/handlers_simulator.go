package http

import (
	"log/slog"
	"net/http"

	"presupuesto/internal/invest"
)

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var in invest.ScenarioInput
	if err := decodeJSON(w, r, &in); err != nil {
		slog.ErrorContext(r.Context(), "Bad schedule request", "error", err)
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.simulator.Project(r.Context(), in)
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			slog.ErrorContext(r.Context(), "Projection failed", "error", err)
			respondError(w, status, "projection failed")
			return
		}
		respondError(w, status, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}

type compareRequest struct {
	Scenario   invest.ScenarioInput   `json:"scenario"`
	Candidates []invest.RateCandidate `json:"candidates"`
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req compareRequest
	if err := decodeJSON(w, r, &req); err != nil {
		slog.ErrorContext(r.Context(), "Bad compare request", "error", err)
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comparisons, err := s.simulator.Compare(r.Context(), req.Scenario, req.Candidates)
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			slog.ErrorContext(r.Context(), "Comparison failed", "error", err)
			respondError(w, status, "comparison failed")
			return
		}
		respondError(w, status, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"comparisons": comparisons})
}

type targetIncomeRequest struct {
	AnnualRate          float64 `json:"annual_rate"`
	TargetMonthlyIncome float64 `json:"target_monthly_income"`
}

func (s *Server) handleTargetIncome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req targetIncomeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		slog.ErrorContext(r.Context(), "Bad target income request", "error", err)
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.simulator.TargetIncome(r.Context(), req.AnnualRate, req.TargetMonthlyIncome)
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			slog.ErrorContext(r.Context(), "Target income solve failed", "error", err)
			respondError(w, status, "target income solve failed")
			return
		}
		respondError(w, status, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}
