package services

import (
	"context"
	"errors"
	"testing"

	"presupuesto/internal/invest"
)

// mapCache is an in-memory ResultCache that counts operations.
type mapCache struct {
	data map[string]string
	gets int
	sets int
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string]string)}
}

func (c *mapCache) Get(_ context.Context, key string) (string, bool) {
	c.gets++
	v, ok := c.data[key]
	return v, ok
}

func (c *mapCache) Set(_ context.Context, key, value string) error {
	c.sets++
	c.data[key] = value
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func validInput() invest.ScenarioInput {
	return invest.ScenarioInput{
		InitialAmount:       500_000,
		MonthlyContribution: 100_000,
		TermMonths:          12,
		AnnualRate:          8.25,
		Frequency:           invest.Monthly,
	}
}

func TestProjectCachesResult(t *testing.T) {
	cache := newMapCache()
	svc := NewSimulatorService(cache)
	ctx := context.Background()

	first, err := svc.Project(ctx, validInput())
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if len(first.Schedule) != 12 {
		t.Fatalf("schedule length = %d, want 12", len(first.Schedule))
	}
	if cache.sets != 1 {
		t.Errorf("cache sets after first call = %d, want 1", cache.sets)
	}

	second, err := svc.Project(ctx, validInput())
	if err != nil {
		t.Fatalf("Project() second call error = %v", err)
	}
	if cache.sets != 1 {
		t.Errorf("cache sets after second call = %d, want 1 (hit expected)", cache.sets)
	}
	if second.Summary.FinalBalance != first.Summary.FinalBalance {
		t.Errorf("cached FinalBalance = %v, want %v", second.Summary.FinalBalance, first.Summary.FinalBalance)
	}
}

func TestProjectCorruptCacheEntryIsMiss(t *testing.T) {
	cache := newMapCache()
	svc := NewSimulatorService(cache)
	ctx := context.Background()

	in := validInput()
	cache.data[scheduleKey(in)] = "{not json"

	result, err := svc.Project(ctx, in)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if result.Summary.TotalContributions != 1_200_000 {
		t.Errorf("TotalContributions = %v, want 1200000", result.Summary.TotalContributions)
	}
	// The bad entry must have been overwritten with a decodable one.
	if _, err := svc.Project(ctx, in); err != nil {
		t.Fatalf("Project() after overwrite error = %v", err)
	}
	if cache.sets != 1 {
		t.Errorf("cache sets = %d, want 1", cache.sets)
	}
}

func TestProjectInvalidInputNotCached(t *testing.T) {
	cache := newMapCache()
	svc := NewSimulatorService(cache)

	in := validInput()
	in.AnnualRate = 150

	_, err := svc.Project(context.Background(), in)
	if !errors.Is(err, invest.ErrRateOutOfRange) {
		t.Fatalf("Project() error = %v, want ErrRateOutOfRange", err)
	}
	if cache.sets != 0 {
		t.Errorf("cache sets = %d, want 0 for invalid input", cache.sets)
	}
}

func TestProjectWorksWithoutCache(t *testing.T) {
	svc := NewSimulatorService(nil)

	result, err := svc.Project(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if len(result.Schedule) != 12 {
		t.Errorf("schedule length = %d, want 12", len(result.Schedule))
	}
}

func TestCompareDistinctCandidateSetsGetDistinctKeys(t *testing.T) {
	cache := newMapCache()
	svc := NewSimulatorService(cache)
	ctx := context.Background()

	in := validInput()
	a := []invest.RateCandidate{{Rate: 10, Label: "cdt"}}
	b := []invest.RateCandidate{{Rate: 12, Label: "fondo"}}

	resA, err := svc.Compare(ctx, in, a)
	if err != nil {
		t.Fatalf("Compare(a) error = %v", err)
	}
	resB, err := svc.Compare(ctx, in, b)
	if err != nil {
		t.Fatalf("Compare(b) error = %v", err)
	}

	if cache.sets != 2 {
		t.Errorf("cache sets = %d, want 2 distinct keys", cache.sets)
	}
	if resA[1].Rate == resB[1].Rate {
		t.Error("candidate rates collided across distinct comparisons")
	}
}

func TestTargetIncomeCached(t *testing.T) {
	cache := newMapCache()
	svc := NewSimulatorService(cache)
	ctx := context.Background()

	first, err := svc.TargetIncome(ctx, 12, 1_000_000)
	if err != nil {
		t.Fatalf("TargetIncome() error = %v", err)
	}
	second, err := svc.TargetIncome(ctx, 12, 1_000_000)
	if err != nil {
		t.Fatalf("TargetIncome() second call error = %v", err)
	}
	if cache.sets != 1 {
		t.Errorf("cache sets = %d, want 1", cache.sets)
	}
	if first.RequiredCapital != second.RequiredCapital {
		t.Errorf("cached RequiredCapital = %v, want %v", second.RequiredCapital, first.RequiredCapital)
	}

	if _, err := svc.TargetIncome(ctx, 0, 1_000_000); !errors.Is(err, invest.ErrRateNotPositive) {
		t.Errorf("TargetIncome(0) error = %v, want ErrRateNotPositive", err)
	}
}
