package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"presupuesto/internal/amqp"
	"presupuesto/internal/core"
	"presupuesto/internal/storage"
)

// LedgerService orchestrates ledger operations across SQLite and AMQP
type LedgerService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewLedgerService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *LedgerService {
	return &LedgerService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// RecordEntry saves an entry locally and publishes a report event
func (s *LedgerService) RecordEntry(ctx context.Context, e core.Entry) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}

	// Save to SQLite first (fast, reliable)
	id, err := s.storage.CreateEntry(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("save entry: %w", err)
	}

	// Publish async report event (non-blocking)
	if err := s.publishLedgerEvent(ctx, id, e.Date.Year(), e.Date.Month()); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"id", id, "error", err)
		// Don't fail the request - entry is saved locally
	}

	return id, nil
}

// DeleteEntry soft deletes an entry and publishes a report event so the
// month's snapshot gets recomputed without the deleted row. The month
// comes from the entry's stored date, never from the caller, and is
// returned so callers can invalidate their own caches for it.
func (s *LedgerService) DeleteEntry(ctx context.Context, id int64) (year, month int, err error) {
	entry, err := s.storage.GetEntry(ctx, id)
	if err != nil {
		return 0, 0, err
	}

	if err := s.storage.SoftDeleteEntry(ctx, id); err != nil {
		return 0, 0, err
	}

	year, month = entry.Date.Year(), entry.Date.Month()
	if err := s.publishLedgerEvent(ctx, id, year, month); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"id", id, "error", err)
	}

	return year, month, nil
}

// ListEntries returns the live entries of one kind for a month.
func (s *LedgerService) ListEntries(ctx context.Context, year, month int, kind core.CategoryKind) ([]core.Entry, error) {
	return s.storage.ListEntries(ctx, year, month, kind)
}

// ListCategories returns the categories available for one kind.
func (s *LedgerService) ListCategories(ctx context.Context, kind core.CategoryKind) ([]core.Category, error) {
	return s.storage.ListCategories(ctx, kind)
}

// Overview aggregates a month live from the entries table, falling back
// to the worker's snapshot when the live query fails.
func (s *LedgerService) Overview(ctx context.Context, year, month int) (core.MonthOverview, error) {
	overview, err := s.storage.MonthOverview(ctx, year, month)
	if err == nil {
		return overview, nil
	}

	slog.WarnContext(ctx, "Live overview failed, trying snapshot",
		"year", year, "month", month, "error", err)

	snapshot, snapErr := s.storage.GetSnapshot(ctx, year, month)
	if snapErr != nil {
		if errors.Is(snapErr, storage.ErrNotFound) {
			return core.MonthOverview{}, err
		}
		return core.MonthOverview{}, fmt.Errorf("overview fallback: %w", snapErr)
	}

	return snapshotToOverview(snapshot)
}

func (s *LedgerService) publishLedgerEvent(ctx context.Context, id int64, year, month int) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping ledger event")
		return nil
	}

	return s.amqpClient.PublishLedgerRecorded(ctx, id, year, month)
}

// Close closes both storage and AMQP connections
func (s *LedgerService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}

	return nil
}
