package http

import (
	"log/slog"
	"net/http"

	"presupuesto/internal/core"
	"presupuesto/internal/invest"
)

type scenarioRequest struct {
	Name  string               `json:"name"`
	Input invest.ScenarioInput `json:"input"`
}

func (s *Server) handleScenarios(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listScenarios(w, r)
	case http.MethodPost:
		s.createScenario(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listScenarios(w http.ResponseWriter, r *http.Request) {
	scenarios, err := s.scenarios.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List scenarios failed", "error", err)
		respondError(w, http.StatusInternalServerError, "could not list scenarios")
		return
	}
	if scenarios == nil {
		scenarios = []core.SavedScenario{}
	}

	respondJSON(w, http.StatusOK, map[string]any{"scenarios": scenarios})
}

func (s *Server) createScenario(w http.ResponseWriter, r *http.Request) {
	var req scenarioRequest
	if err := decodeJSON(w, r, &req); err != nil {
		slog.ErrorContext(r.Context(), "Bad scenario request", "error", err)
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	scenario := core.SavedScenario{
		Name:  sanitizeInput(req.Name),
		Input: req.Input,
	}

	id, err := s.scenarios.Save(r.Context(), scenario)
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			slog.ErrorContext(r.Context(), "Failed to save scenario", "error", err, "name", scenario.Name)
			respondError(w, status, "could not save scenario")
			return
		}
		respondError(w, status, err.Error())
		return
	}

	scenario.ID = id
	respondJSON(w, http.StatusCreated, scenario)
}

func (s *Server) handleScenarioByID(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r.URL.Path, "/api/scenarios/")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid scenario id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getScenario(w, r, id)
	case http.MethodDelete:
		s.deleteScenario(w, r, id)
	default:
		w.Header().Set("Allow", "GET, DELETE")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) getScenario(w http.ResponseWriter, r *http.Request, id int64) {
	scenario, err := s.scenarios.Get(r.Context(), id)
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			slog.ErrorContext(r.Context(), "Get scenario failed", "error", err, "id", id)
			respondError(w, status, "could not load scenario")
			return
		}
		respondError(w, status, err.Error())
		return
	}

	// Replay the stored inputs so the response always carries a fresh
	// projection alongside the scenario itself.
	projection, err := s.simulator.Project(r.Context(), scenario.Input)
	if err != nil {
		slog.ErrorContext(r.Context(), "Stored scenario no longer projectable", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "could not project scenario")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"scenario":   scenario,
		"projection": projection,
	})
}

func (s *Server) deleteScenario(w http.ResponseWriter, r *http.Request, id int64) {
	if err := s.scenarios.Delete(r.Context(), id); err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			slog.ErrorContext(r.Context(), "Delete scenario failed", "error", err, "id", id)
			respondError(w, status, "could not delete scenario")
			return
		}
		respondError(w, status, err.Error())
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
