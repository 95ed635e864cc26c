package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"presupuesto/internal/core"
	"presupuesto/internal/invest"
)

func testRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testEntry(kind core.CategoryKind, category string, cents int64) core.Entry {
	return core.Entry{
		Date:        core.NewDate(2026, 8, 15),
		Description: "prueba",
		Amount:      core.Money{Cents: cents},
		Category:    category,
		Kind:        kind,
	}
}

func TestCreateAndListEntries(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	id, err := repo.CreateEntry(ctx, testEntry(core.KindExpense, "Mercado", 45_000_00))
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}
	if id == 0 {
		t.Fatal("CreateEntry() returned zero id")
	}

	if _, err := repo.CreateEntry(ctx, testEntry(core.KindIncome, "Salario", 3_000_000_00)); err != nil {
		t.Fatalf("CreateEntry(income) error = %v", err)
	}

	expenses, err := repo.ListEntries(ctx, 2026, 8, core.KindExpense)
	if err != nil {
		t.Fatalf("ListEntries() error = %v", err)
	}
	if len(expenses) != 1 {
		t.Fatalf("expenses = %d, want 1", len(expenses))
	}
	e := expenses[0]
	if e.ID != id {
		t.Errorf("entry ID = %d, want %d", e.ID, id)
	}
	if e.Amount.Cents != 45_000_00 {
		t.Errorf("Amount.Cents = %d, want 4500000", e.Amount.Cents)
	}
	if e.Date.Year() != 2026 || int(e.Date.Month()) != 8 || e.Date.Day() != 15 {
		t.Errorf("Date = %v, want 2026-08-15", e.Date)
	}
	if e.Kind != core.KindExpense {
		t.Errorf("Kind = %q, want expense", e.Kind)
	}

	// The income entry must not leak into the expense listing.
	incomes, err := repo.ListEntries(ctx, 2026, 8, core.KindIncome)
	if err != nil {
		t.Fatalf("ListEntries(income) error = %v", err)
	}
	if len(incomes) != 1 {
		t.Errorf("incomes = %d, want 1", len(incomes))
	}

	// Other months are empty.
	other, err := repo.ListEntries(ctx, 2026, 9, core.KindExpense)
	if err != nil {
		t.Fatalf("ListEntries(other month) error = %v", err)
	}
	if len(other) != 0 {
		t.Errorf("other month entries = %d, want 0", len(other))
	}
}

func TestGetEntry(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	id, err := repo.CreateEntry(ctx, testEntry(core.KindIncome, "Salario", 250_000_00))
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}

	got, err := repo.GetEntry(ctx, id)
	if err != nil {
		t.Fatalf("GetEntry() error = %v", err)
	}
	if got.ID != id || got.Amount.Cents != 250_000_00 || got.Kind != core.KindIncome {
		t.Errorf("GetEntry() = %+v", got)
	}
	if got.Date.Year() != 2026 || got.Date.Month() != 8 {
		t.Errorf("stored date = %v, want 2026-08", got.Date)
	}

	if _, err := repo.GetEntry(ctx, 99999); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetEntry(unknown) error = %v, want ErrNotFound", err)
	}

	// Soft-deleted entries are gone from point reads too.
	if err := repo.SoftDeleteEntry(ctx, id); err != nil {
		t.Fatalf("SoftDeleteEntry() error = %v", err)
	}
	if _, err := repo.GetEntry(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetEntry(deleted) error = %v, want ErrNotFound", err)
	}
}

func TestSoftDeleteEntry(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	id, err := repo.CreateEntry(ctx, testEntry(core.KindExpense, "Transporte", 12_000_00))
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}

	if err := repo.SoftDeleteEntry(ctx, id); err != nil {
		t.Fatalf("SoftDeleteEntry() error = %v", err)
	}

	entries, err := repo.ListEntries(ctx, 2026, 8, core.KindExpense)
	if err != nil {
		t.Fatalf("ListEntries() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries after delete = %d, want 0", len(entries))
	}

	// Deleting again reports not found.
	if err := repo.SoftDeleteEntry(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second SoftDeleteEntry() error = %v, want ErrNotFound", err)
	}
	if err := repo.SoftDeleteEntry(ctx, 99999); !errors.Is(err, ErrNotFound) {
		t.Errorf("SoftDeleteEntry(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestListCategoriesSeeded(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	expenses, err := repo.ListCategories(ctx, core.KindExpense)
	if err != nil {
		t.Fatalf("ListCategories(expense) error = %v", err)
	}
	if len(expenses) == 0 {
		t.Fatal("no seeded expense categories")
	}
	found := false
	for _, c := range expenses {
		if c.Kind != core.KindExpense {
			t.Errorf("category %q has kind %q, want expense", c.Name, c.Kind)
		}
		if c.Name == "Vivienda" {
			found = true
		}
	}
	if !found {
		t.Error("seeded category Vivienda missing")
	}

	incomes, err := repo.ListCategories(ctx, core.KindIncome)
	if err != nil {
		t.Fatalf("ListCategories(income) error = %v", err)
	}
	if len(incomes) == 0 {
		t.Fatal("no seeded income categories")
	}
}

func TestMonthOverviewAggregates(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	for _, e := range []core.Entry{
		testEntry(core.KindExpense, "Vivienda", 150_000_00),
		testEntry(core.KindExpense, "Mercado", 100_000_00),
		testEntry(core.KindExpense, "Mercado", 50_000_00),
		testEntry(core.KindIncome, "Salario", 400_000_00),
	} {
		if _, err := repo.CreateEntry(ctx, e); err != nil {
			t.Fatalf("CreateEntry() error = %v", err)
		}
	}

	overview, err := repo.MonthOverview(ctx, 2026, 8)
	if err != nil {
		t.Fatalf("MonthOverview() error = %v", err)
	}

	if overview.TotalExpenses.Cents != 300_000_00 {
		t.Errorf("TotalExpenses = %d, want 30000000", overview.TotalExpenses.Cents)
	}
	if overview.TotalIncomes.Cents != 400_000_00 {
		t.Errorf("TotalIncomes = %d, want 40000000", overview.TotalIncomes.Cents)
	}
	if overview.Net().Cents != 100_000_00 {
		t.Errorf("Net() = %d, want 10000000", overview.Net().Cents)
	}

	// Breakdown covers expenses only, biggest category first.
	if len(overview.ByCategory) != 2 {
		t.Fatalf("ByCategory length = %d, want 2", len(overview.ByCategory))
	}
	if overview.ByCategory[0].Name != "Vivienda" && overview.ByCategory[0].Name != "Mercado" {
		t.Fatalf("unexpected category %q", overview.ByCategory[0].Name)
	}
	if overview.ByCategory[0].Amount.Cents < overview.ByCategory[1].Amount.Cents {
		t.Error("categories not ordered by descending amount")
	}

	empty, err := repo.MonthOverview(ctx, 2025, 1)
	if err != nil {
		t.Fatalf("MonthOverview(empty month) error = %v", err)
	}
	if empty.TotalExpenses.Cents != 0 || empty.TotalIncomes.Cents != 0 {
		t.Errorf("empty month totals = %d/%d, want 0/0",
			empty.TotalExpenses.Cents, empty.TotalIncomes.Cents)
	}
}

func TestScenarioLifecycle(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	scenario := core.SavedScenario{
		Name: "retiro temprano",
		Input: invest.ScenarioInput{
			InitialAmount:       500_000,
			MonthlyContribution: 100_000,
			TermMonths:          240,
			AnnualRate:          8.25,
			Frequency:           invest.Daily,
		},
	}

	id, err := repo.SaveScenario(ctx, scenario)
	if err != nil {
		t.Fatalf("SaveScenario() error = %v", err)
	}

	got, err := repo.GetScenario(ctx, id)
	if err != nil {
		t.Fatalf("GetScenario() error = %v", err)
	}
	if got.Name != scenario.Name {
		t.Errorf("Name = %q, want %q", got.Name, scenario.Name)
	}
	if got.Input != scenario.Input {
		t.Errorf("Input = %+v, want %+v", got.Input, scenario.Input)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not populated")
	}

	list, err := repo.ListScenarios(ctx)
	if err != nil {
		t.Fatalf("ListScenarios() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("scenarios = %d, want 1", len(list))
	}

	if err := repo.DeleteScenario(ctx, id); err != nil {
		t.Fatalf("DeleteScenario() error = %v", err)
	}
	if _, err := repo.GetScenario(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetScenario(deleted) error = %v, want ErrNotFound", err)
	}
	if err := repo.DeleteScenario(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteScenario(deleted) error = %v, want ErrNotFound", err)
	}
}

func TestSnapshotUpsert(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	if _, err := repo.GetSnapshot(ctx, 2026, 8); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetSnapshot(missing) error = %v, want ErrNotFound", err)
	}

	first := ReportSnapshot{
		Year: 2026, Month: 8,
		TotalExpensesCents: 100,
		TotalIncomesCents:  200,
		ByCategoryJSON:     `[{"name":"Mercado","amount":{"cents":100}}]`,
	}
	if err := repo.UpsertSnapshot(ctx, first); err != nil {
		t.Fatalf("UpsertSnapshot() error = %v", err)
	}

	// Second write for the same month replaces the row.
	second := first
	second.TotalExpensesCents = 500
	if err := repo.UpsertSnapshot(ctx, second); err != nil {
		t.Fatalf("UpsertSnapshot(replace) error = %v", err)
	}

	got, err := repo.GetSnapshot(ctx, 2026, 8)
	if err != nil {
		t.Fatalf("GetSnapshot() error = %v", err)
	}
	if got.TotalExpensesCents != 500 {
		t.Errorf("TotalExpensesCents = %d, want 500", got.TotalExpensesCents)
	}
	if got.TotalIncomesCents != 200 {
		t.Errorf("TotalIncomesCents = %d, want 200", got.TotalIncomesCents)
	}
}
