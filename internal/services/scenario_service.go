package services

import (
	"context"
	"fmt"
	"log/slog"

	"presupuesto/internal/amqp"
	"presupuesto/internal/core"
	"presupuesto/internal/storage"
)

// ScenarioService persists named projection scenarios and notifies the
// worker when one is saved.
type ScenarioService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewScenarioService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *ScenarioService {
	return &ScenarioService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// Save validates and persists a scenario, then publishes a saved event.
func (s *ScenarioService) Save(ctx context.Context, scenario core.SavedScenario) (int64, error) {
	if err := scenario.Validate(); err != nil {
		return 0, err
	}

	id, err := s.storage.SaveScenario(ctx, scenario)
	if err != nil {
		return 0, fmt.Errorf("save scenario: %w", err)
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.PublishScenarioSaved(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish scenario event",
				"id", id, "error", err)
			// Don't fail the request - scenario is saved locally
		}
	}

	return id, nil
}

// Get fetches one scenario by ID.
func (s *ScenarioService) Get(ctx context.Context, id int64) (core.SavedScenario, error) {
	return s.storage.GetScenario(ctx, id)
}

// List returns every saved scenario, most recent first.
func (s *ScenarioService) List(ctx context.Context) ([]core.SavedScenario, error) {
	return s.storage.ListScenarios(ctx)
}

// Delete removes a scenario by ID.
func (s *ScenarioService) Delete(ctx context.Context, id int64) error {
	return s.storage.DeleteScenario(ctx, id)
}
