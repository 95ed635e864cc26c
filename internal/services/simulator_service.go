package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"presupuesto/internal/cache"
	"presupuesto/internal/invest"
)

// SimulatorService runs projection requests through the engine and
// memoizes results in a cache. The engine itself is deterministic, so
// identical inputs always hit the same key.
type SimulatorService struct {
	cache cache.ResultCache
}

func NewSimulatorService(resultCache cache.ResultCache) *SimulatorService {
	return &SimulatorService{cache: resultCache}
}

// ProjectionResult pairs the summary with its full schedule.
type ProjectionResult struct {
	Summary  invest.Summary        `json:"summary"`
	Schedule []invest.PeriodDetail `json:"schedule"`
}

// Project computes the schedule and summary for one scenario.
func (s *SimulatorService) Project(ctx context.Context, in invest.ScenarioInput) (ProjectionResult, error) {
	key := scheduleKey(in)

	var result ProjectionResult
	if s.lookup(ctx, key, &result) {
		return result, nil
	}

	schedule, err := invest.Schedule(in)
	if err != nil {
		return ProjectionResult{}, err
	}

	result = ProjectionResult{
		Summary:  invest.SummarizeSchedule(in, schedule),
		Schedule: schedule,
	}
	s.store(ctx, key, result)
	return result, nil
}

// Compare runs the base scenario against alternative rates.
func (s *SimulatorService) Compare(ctx context.Context, in invest.ScenarioInput, candidates []invest.RateCandidate) ([]invest.RateComparison, error) {
	key := compareKey(in, candidates)

	var result []invest.RateComparison
	if s.lookup(ctx, key, &result) {
		return result, nil
	}

	result, err := invest.CompareRates(in, candidates)
	if err != nil {
		return nil, err
	}

	s.store(ctx, key, result)
	return result, nil
}

// TargetIncome solves for the capital that yields a monthly income.
func (s *SimulatorService) TargetIncome(ctx context.Context, annualRate, monthlyIncome float64) (invest.TargetIncomeResult, error) {
	key := fmt.Sprintf("target:%g:%g", annualRate, monthlyIncome)

	var result invest.TargetIncomeResult
	if s.lookup(ctx, key, &result) {
		return result, nil
	}

	result, err := invest.RequiredCapital(annualRate, monthlyIncome)
	if err != nil {
		return invest.TargetIncomeResult{}, err
	}

	s.store(ctx, key, result)
	return result, nil
}

// lookup reads and decodes a cached value. A decode failure is treated
// as a miss so a stale or corrupt entry never poisons a response.
func (s *SimulatorService) lookup(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		slog.WarnContext(ctx, "Discarding undecodable cached result", "key", key, "error", err)
		return false
	}
	slog.DebugContext(ctx, "Simulator cache hit", "key", key)
	return true
}

func (s *SimulatorService) store(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		slog.WarnContext(ctx, "Failed to encode result for cache", "key", key, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, string(raw)); err != nil {
		slog.WarnContext(ctx, "Failed to cache result", "key", key, "error", err)
	}
}

func scheduleKey(in invest.ScenarioInput) string {
	return fmt.Sprintf("schedule:%g:%g:%d:%g:%s",
		in.InitialAmount, in.MonthlyContribution, in.TermMonths, in.AnnualRate, in.Frequency)
}

func compareKey(in invest.ScenarioInput, candidates []invest.RateCandidate) string {
	key := "compare:" + scheduleKey(in)
	for _, c := range candidates {
		key += fmt.Sprintf(":%g|%s", c.Rate, c.Label)
	}
	return key
}
