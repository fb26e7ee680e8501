package l2_service

import (
	"context"
	"fmt"
	"screenerbacktest/internal/domain"
	"screenerbacktest/internal/logger"
	"screenerbacktest/internal/repository"
	"sort"
	"time"

	"github.com/maja42/goval"
	"github.com/shopspring/decimal"
)

type ScreenerService interface {
	// Select filters the active universe by the request's fundamental
	// constraints, ranks survivors, and returns the top candidates in
	// rank order. Fewer survivors than the portfolio size is not an
	// error; the caller gets whatever passed.
	Select(ctx context.Context, req domain.BacktestRequest, asOf time.Time) ([]Candidate, error)
}

// Candidate is a ranked screener pick. Fundamentals are the snapshot
// the rank was computed from, so downstream weighting reuses them
// instead of re-querying.
type Candidate struct {
	Security     domain.Security
	Fundamentals domain.FundamentalSnapshot
	Score        decimal.Decimal
}

func NewScreenerService(fundamentalsRepository repository.FundamentalsRepository) ScreenerService {
	return screenerServiceHandler{
		FundamentalsRepository: fundamentalsRepository,
	}
}

type screenerServiceHandler struct {
	FundamentalsRepository repository.FundamentalsRepository
}

func (h screenerServiceHandler) Select(ctx context.Context, req domain.BacktestRequest, asOf time.Time) ([]Candidate, error) {
	log := logger.FromContext(ctx)

	universe, err := h.FundamentalsRepository.ListLatest(asOf)
	if err != nil {
		return nil, err
	}

	candidates := []Candidate{}
	for _, row := range universe {
		if !passesFilters(req, row.Fundamentals) {
			continue
		}
		score, err := scoreSnapshot(req, row.Fundamentals)
		if err != nil {
			return nil, fmt.Errorf("failed to score %s: %w", row.Security.Symbol, err)
		}
		candidates = append(candidates, Candidate{
			Security:     row.Security,
			Fundamentals: row.Fundamentals,
			Score:        score,
		})
	}

	// stable sort keeps the repository's security-id ordering for ties,
	// which makes runs reproducible
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score.GreaterThan(candidates[j].Score)
	})

	if len(candidates) < req.PortfolioSize {
		log.Warnw("screener passed fewer securities than the portfolio size",
			"asOf", asOf.Format(time.DateOnly),
			"passed", len(candidates),
			"portfolioSize", req.PortfolioSize)
	} else {
		candidates = candidates[:req.PortfolioSize]
	}

	return candidates, nil
}

// passesFilters applies the hard constraints. A snapshot missing a
// constrained metric fails that constraint; filters never treat
// missing data as passing.
func passesFilters(req domain.BacktestRequest, f domain.FundamentalSnapshot) bool {
	if req.MinMarketCap != nil {
		floor := req.MinMarketCap.Mul(domain.MarketCapUnitScale)
		if f.MarketCap == nil || f.MarketCap.LessThan(floor) {
			return false
		}
	}
	if req.MaxMarketCap != nil {
		ceiling := req.MaxMarketCap.Mul(domain.MarketCapUnitScale)
		if f.MarketCap == nil || f.MarketCap.GreaterThan(ceiling) {
			return false
		}
	}
	if req.MinRoce != nil {
		if f.Roce == nil || f.Roce.LessThan(*req.MinRoce) {
			return false
		}
	}
	if req.PatPositive {
		if f.Pat == nil || !f.Pat.IsPositive() {
			return false
		}
	}
	return true
}

func scoreSnapshot(req domain.BacktestRequest, f domain.FundamentalSnapshot) (decimal.Decimal, error) {
	if req.ScoreExpression != "" {
		return evaluateScoreExpression(req.ScoreExpression, f)
	}

	score := decimal.Zero
	for _, metric := range req.RankingMetrics {
		value := f.Metric(metric.Name)
		if value == nil {
			continue
		}
		if metric.HigherIsBetter {
			score = score.Add(*value)
		} else {
			score = score.Sub(*value)
		}
	}
	return score, nil
}

// evaluateScoreExpression scores a snapshot with a caller-supplied
// expression over the metric names, e.g. "roce * 2 - debt_to_equity".
// Unreported metrics evaluate as zero, matching the additive scorer.
func evaluateScoreExpression(expression string, f domain.FundamentalSnapshot) (decimal.Decimal, error) {
	variables := map[string]interface{}{}
	for _, name := range domain.MetricNames() {
		value := f.Metric(name)
		if value == nil {
			variables[name] = float64(0)
			continue
		}
		variables[name] = value.InexactFloat64()
	}

	result, err := goval.NewEvaluator().Evaluate(expression, variables, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("score expression %q: %w", expression, err)
	}

	switch v := result.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	}
	return decimal.Zero, fmt.Errorf("score expression %q evaluated to non-numeric %T", expression, result)
}
