package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"presupuesto/internal/amqp"
	"presupuesto/internal/core"
	"presupuesto/internal/storage"
)

// ReportProcessor recomputes month snapshots in the worker. Ledger
// events carry the affected month; scenario events and the periodic
// sweep refresh the current month.
type ReportProcessor struct {
	storage *storage.SQLiteRepository

	// Months touched since the last sweep, keyed year*100+month.
	mu      sync.Mutex
	pending map[int]struct{}
}

func NewReportProcessor(storage *storage.SQLiteRepository) *ReportProcessor {
	return &ReportProcessor{
		storage: storage,
		pending: make(map[int]struct{}),
	}
}

// HandleEvent refreshes the snapshot for the month an event names.
func (p *ReportProcessor) HandleEvent(ctx context.Context, event *amqp.ReportEvent) error {
	year, month := event.Year, event.Month
	if year == 0 || month == 0 {
		now := time.Now()
		year, month = now.Year(), int(now.Month())
	}

	if err := p.RefreshMonth(ctx, year, month); err != nil {
		return fmt.Errorf("refresh month %d-%02d: %w", year, month, err)
	}

	p.markClean(year, month)
	return nil
}

// RefreshMonth recomputes one month's totals and writes the snapshot.
func (p *ReportProcessor) RefreshMonth(ctx context.Context, year, month int) error {
	overview, err := p.storage.MonthOverview(ctx, year, month)
	if err != nil {
		return fmt.Errorf("aggregate month: %w", err)
	}

	snapshot, err := overviewToSnapshot(overview)
	if err != nil {
		return err
	}

	return p.storage.UpsertSnapshot(ctx, snapshot)
}

// Sweep refreshes the current month plus any months marked pending.
// The periodic sweep covers events lost while the worker was down.
func (p *ReportProcessor) Sweep(ctx context.Context) {
	now := time.Now()
	p.markPending(now.Year(), int(now.Month()))

	p.mu.Lock()
	months := make([]int, 0, len(p.pending))
	for ym := range p.pending {
		months = append(months, ym)
	}
	p.mu.Unlock()

	for _, ym := range months {
		year, month := ym/100, ym%100
		if err := p.RefreshMonth(ctx, year, month); err != nil {
			slog.ErrorContext(ctx, "Sweep failed for month",
				"year", year, "month", month, "error", err)
			continue
		}
		p.markClean(year, month)
	}
}

func (p *ReportProcessor) markPending(year, month int) {
	p.mu.Lock()
	p.pending[year*100+month] = struct{}{}
	p.mu.Unlock()
}

func (p *ReportProcessor) markClean(year, month int) {
	p.mu.Lock()
	delete(p.pending, year*100+month)
	p.mu.Unlock()
}

func overviewToSnapshot(o core.MonthOverview) (storage.ReportSnapshot, error) {
	byCategory, err := json.Marshal(o.ByCategory)
	if err != nil {
		return storage.ReportSnapshot{}, fmt.Errorf("encode category breakdown: %w", err)
	}

	return storage.ReportSnapshot{
		Year:               o.Year,
		Month:              o.Month,
		TotalExpensesCents: o.TotalExpenses.Cents,
		TotalIncomesCents:  o.TotalIncomes.Cents,
		ByCategoryJSON:     string(byCategory),
		RefreshedAt:        time.Now(),
	}, nil
}

func snapshotToOverview(s storage.ReportSnapshot) (core.MonthOverview, error) {
	overview := core.MonthOverview{
		Year:          s.Year,
		Month:         s.Month,
		TotalExpenses: core.Money{Cents: s.TotalExpensesCents},
		TotalIncomes:  core.Money{Cents: s.TotalIncomesCents},
	}
	if s.ByCategoryJSON != "" {
		if err := json.Unmarshal([]byte(s.ByCategoryJSON), &overview.ByCategory); err != nil {
			return core.MonthOverview{}, fmt.Errorf("decode category breakdown: %w", err)
		}
	}
	return overview, nil
}
