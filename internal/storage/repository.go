package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"presupuesto/internal/core"
	"presupuesto/internal/invest"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateEntry inserts a ledger entry and returns its ID.
func (r *SQLiteRepository) CreateEntry(ctx context.Context, e core.Entry) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO entries (entry_date, year, month, description, amount_cents, category, kind)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Date.Format(dateLayout), e.Date.Year(), e.Date.Month(),
		e.Description, e.Amount.Cents, e.Category, string(e.Kind))
	if err != nil {
		return 0, fmt.Errorf("create entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("entry id: %w", err)
	}

	slog.InfoContext(ctx, "Entry saved",
		"id", id,
		"description", e.Description,
		"amount_cents", e.Amount.Cents,
		"category", e.Category,
		"kind", e.Kind)

	return id, nil
}

// GetEntry fetches one live entry by ID.
func (r *SQLiteRepository) GetEntry(ctx context.Context, id int64) (core.Entry, error) {
	var (
		e       core.Entry
		dateStr string
		kindStr string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, entry_date, description, amount_cents, category, kind
		FROM entries WHERE id = ? AND deleted_at IS NULL`, id).
		Scan(&e.ID, &dateStr, &e.Description, &e.Amount.Cents, &e.Category, &kindStr)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Entry{}, ErrNotFound
	}
	if err != nil {
		return core.Entry{}, fmt.Errorf("get entry %d: %w", id, err)
	}
	t, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return core.Entry{}, fmt.Errorf("parse entry date %q: %w", dateStr, err)
	}
	e.Date = core.Date{Time: t}
	e.Kind = core.CategoryKind(kindStr)
	return e, nil
}

// SoftDeleteEntry marks an entry deleted without removing the row.
func (r *SQLiteRepository) SoftDeleteEntry(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE entries SET deleted_at = datetime('now') WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("soft delete entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("soft delete entry: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Entry soft deleted", "id", id)
	return nil
}

// ListEntries returns the live entries of one kind for a year+month.
func (r *SQLiteRepository) ListEntries(ctx context.Context, year, month int, kind core.CategoryKind) ([]core.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, entry_date, description, amount_cents, category, kind
		FROM entries
		WHERE year = ? AND month = ? AND kind = ? AND deleted_at IS NULL
		ORDER BY entry_date, id`,
		year, month, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list entries (year=%d, month=%d, kind=%s): %w", year, month, kind, err)
	}
	defer rows.Close()

	var entries []core.Entry
	for rows.Next() {
		var (
			e       core.Entry
			dateStr string
			kindStr string
		)
		if err := rows.Scan(&e.ID, &dateStr, &e.Description, &e.Amount.Cents, &e.Category, &kindStr); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		t, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse entry date %q: %w", dateStr, err)
		}
		e.Date = core.Date{Time: t}
		e.Kind = core.CategoryKind(kindStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListCategories returns the categories of one kind, ordered by name.
func (r *SQLiteRepository) ListCategories(ctx context.Context, kind core.CategoryKind) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, kind FROM categories WHERE kind = ? ORDER BY name`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list categories (kind=%s): %w", kind, err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var (
			c       core.Category
			kindStr string
		)
		if err := rows.Scan(&c.ID, &c.Name, &kindStr); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Kind = core.CategoryKind(kindStr)
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// MonthOverview aggregates a month's totals and the expense breakdown
// by category, straight from the entries table.
func (r *SQLiteRepository) MonthOverview(ctx context.Context, year, month int) (core.MonthOverview, error) {
	overview := core.MonthOverview{Year: year, Month: month}

	err := r.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN kind = 'expense' THEN amount_cents END), 0),
			COALESCE(SUM(CASE WHEN kind = 'income' THEN amount_cents END), 0)
		FROM entries
		WHERE year = ? AND month = ? AND deleted_at IS NULL`,
		year, month).Scan(&overview.TotalExpenses.Cents, &overview.TotalIncomes.Cents)
	if err != nil {
		return overview, fmt.Errorf("month totals (year=%d, month=%d): %w", year, month, err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT category, SUM(amount_cents)
		FROM entries
		WHERE year = ? AND month = ? AND kind = 'expense' AND deleted_at IS NULL
		GROUP BY category
		ORDER BY SUM(amount_cents) DESC`,
		year, month)
	if err != nil {
		return overview, fmt.Errorf("category sums (year=%d, month=%d): %w", year, month, err)
	}
	defer rows.Close()

	for rows.Next() {
		var ca core.CategoryAmount
		if err := rows.Scan(&ca.Name, &ca.Amount.Cents); err != nil {
			return overview, fmt.Errorf("scan category sum: %w", err)
		}
		overview.ByCategory = append(overview.ByCategory, ca)
	}
	return overview, rows.Err()
}

// SaveScenario inserts a named scenario and returns its ID.
func (r *SQLiteRepository) SaveScenario(ctx context.Context, s core.SavedScenario) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO scenarios (name, initial_amount, monthly_contribution, term_months, annual_rate, compounding_frequency)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.Name, s.Input.InitialAmount, s.Input.MonthlyContribution,
		s.Input.TermMonths, s.Input.AnnualRate, string(s.Input.Frequency))
	if err != nil {
		return 0, fmt.Errorf("save scenario: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("scenario id: %w", err)
	}

	slog.InfoContext(ctx, "Scenario saved",
		"id", id,
		"name", s.Name,
		"annual_rate", s.Input.AnnualRate,
		"term_months", s.Input.TermMonths)

	return id, nil
}

// GetScenario fetches one scenario by ID.
func (r *SQLiteRepository) GetScenario(ctx context.Context, id int64) (core.SavedScenario, error) {
	s, err := scanScenario(r.db.QueryRowContext(ctx, `
		SELECT id, name, initial_amount, monthly_contribution, term_months, annual_rate, compounding_frequency, created_at, updated_at
		FROM scenarios WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.SavedScenario{}, ErrNotFound
	}
	if err != nil {
		return core.SavedScenario{}, fmt.Errorf("get scenario %d: %w", id, err)
	}
	return s, nil
}

// ListScenarios returns every saved scenario, most recent first.
func (r *SQLiteRepository) ListScenarios(ctx context.Context) ([]core.SavedScenario, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, initial_amount, monthly_contribution, term_months, annual_rate, compounding_frequency, created_at, updated_at
		FROM scenarios ORDER BY updated_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	defer rows.Close()

	var scenarios []core.SavedScenario
	for rows.Next() {
		s, err := scanScenario(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scenario: %w", err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, rows.Err()
}

// DeleteScenario removes a scenario by ID.
func (r *SQLiteRepository) DeleteScenario(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM scenarios WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete scenario: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete scenario: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Scenario deleted", "id", id)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScenario(row rowScanner) (core.SavedScenario, error) {
	var (
		s                    core.SavedScenario
		freq                 string
		createdAt, updatedAt string
	)
	err := row.Scan(&s.ID, &s.Name, &s.Input.InitialAmount, &s.Input.MonthlyContribution,
		&s.Input.TermMonths, &s.Input.AnnualRate, &freq, &createdAt, &updatedAt)
	if err != nil {
		return core.SavedScenario{}, err
	}
	s.Input.Frequency = invest.Frequency(freq)
	if t, err := time.Parse(time.DateTime, createdAt); err == nil {
		s.CreatedAt = t
	}
	if t, err := time.Parse(time.DateTime, updatedAt); err == nil {
		s.UpdatedAt = t
	}
	return s, nil
}

// ReportSnapshot is one precomputed month row written by the report
// worker and read by the dashboard as a fallback.
type ReportSnapshot struct {
	Year               int
	Month              int
	TotalExpensesCents int64
	TotalIncomesCents  int64
	ByCategoryJSON     string
	RefreshedAt        time.Time
}

// UpsertSnapshot writes or replaces the snapshot row for its month.
func (r *SQLiteRepository) UpsertSnapshot(ctx context.Context, s ReportSnapshot) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO report_snapshots (year, month, total_expenses_cents, total_incomes_cents, by_category, refreshed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (year, month) DO UPDATE SET
			total_expenses_cents = excluded.total_expenses_cents,
			total_incomes_cents  = excluded.total_incomes_cents,
			by_category          = excluded.by_category,
			refreshed_at         = excluded.refreshed_at`,
		s.Year, s.Month, s.TotalExpensesCents, s.TotalIncomesCents,
		s.ByCategoryJSON, s.RefreshedAt.UTC().Format(time.DateTime))
	if err != nil {
		return fmt.Errorf("upsert snapshot (year=%d, month=%d): %w", s.Year, s.Month, err)
	}

	slog.InfoContext(ctx, "Report snapshot refreshed", "year", s.Year, "month", s.Month)
	return nil
}

// GetSnapshot reads the snapshot row for a month.
func (r *SQLiteRepository) GetSnapshot(ctx context.Context, year, month int) (ReportSnapshot, error) {
	var (
		s           ReportSnapshot
		refreshedAt string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT year, month, total_expenses_cents, total_incomes_cents, by_category, refreshed_at
		FROM report_snapshots WHERE year = ? AND month = ?`,
		year, month).Scan(&s.Year, &s.Month, &s.TotalExpensesCents, &s.TotalIncomesCents, &s.ByCategoryJSON, &refreshedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ReportSnapshot{}, ErrNotFound
	}
	if err != nil {
		return ReportSnapshot{}, fmt.Errorf("get snapshot (year=%d, month=%d): %w", year, month, err)
	}
	if t, err := time.Parse(time.DateTime, refreshedAt); err == nil {
		s.RefreshedAt = t
	}
	return s, nil
}
