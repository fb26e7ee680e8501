package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type RebalanceFrequency string

const (
	RebalanceQuarterly RebalanceFrequency = "quarterly"
	RebalanceYearly    RebalanceFrequency = "yearly"
)

func NewRebalanceFrequency(s string) (RebalanceFrequency, error) {
	switch RebalanceFrequency(s) {
	case RebalanceQuarterly, RebalanceYearly:
		return RebalanceFrequency(s), nil
	}
	return "", fmt.Errorf("unknown rebalancing frequency %q", s)
}

type WeightingMethod string

const (
	WeightEqual          WeightingMethod = "equal"
	WeightMarketCap      WeightingMethod = "market_cap"
	WeightMetricWeighted WeightingMethod = "metric_weighted"
)

func NewWeightingMethod(s string) (WeightingMethod, error) {
	switch WeightingMethod(s) {
	case WeightEqual, WeightMarketCap, WeightMetricWeighted:
		return WeightingMethod(s), nil
	}
	return "", fmt.Errorf("unknown weighting method %q", s)
}

// RankingMetric is one term of the additive ranking score. A metric the
// snapshot does not report contributes zero to the score.
type RankingMetric struct {
	Name           string `json:"name"`
	HigherIsBetter bool   `json:"higherIsBetter"`
}

// MarketCapUnitScale converts the request's market-cap bounds (crores)
// into the unit fundamentals are stored in. The upstream data feed is
// inconsistent about this factor, so it lives here as a single validated
// constant rather than being inlined at the query site.
var MarketCapUnitScale = decimal.NewFromInt(10_000_000)

// BacktestRequest is the immutable input to one run.
type BacktestRequest struct {
	StartDate          time.Time
	EndDate            time.Time
	PortfolioSize      int
	RebalanceFrequency RebalanceFrequency
	WeightingMethod    WeightingMethod
	InitialCapital     decimal.Decimal

	MinMarketCap *decimal.Decimal
	MaxMarketCap *decimal.Decimal
	MinRoce      *decimal.Decimal
	PatPositive  bool

	RankingMetrics []RankingMetric

	// ScoreExpression, when set, replaces the additive ranking score with
	// an expression evaluated against the snapshot's metric set, e.g.
	// "roce * 2 - debt_to_equity".
	ScoreExpression string

	// informational only for now
	BenchmarkSymbol string
}

// Validate applies the configuration-error taxonomy: any failure here
// aborts the run before simulation starts.
func (r BacktestRequest) Validate() error {
	if r.EndDate.Before(r.StartDate) {
		return fmt.Errorf("invalid date range: end %s before start %s",
			r.EndDate.Format(time.DateOnly), r.StartDate.Format(time.DateOnly))
	}
	if r.PortfolioSize < 1 || r.PortfolioSize > 100 {
		return fmt.Errorf("portfolio size must be between 1 and 100, got %d", r.PortfolioSize)
	}
	if _, err := NewRebalanceFrequency(string(r.RebalanceFrequency)); err != nil {
		return err
	}
	if _, err := NewWeightingMethod(string(r.WeightingMethod)); err != nil {
		return err
	}
	if !r.InitialCapital.IsPositive() {
		return fmt.Errorf("initial capital must be positive, got %s", r.InitialCapital)
	}
	for _, m := range r.RankingMetrics {
		if !knownMetric(m.Name) {
			return fmt.Errorf("unknown ranking metric %q", m.Name)
		}
	}
	return nil
}

func knownMetric(name string) bool {
	for _, n := range MetricNames() {
		if n == name {
			return true
		}
	}
	return false
}
