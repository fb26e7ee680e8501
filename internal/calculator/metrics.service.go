package calculator

import (
	"math"
	"screenerbacktest/internal/domain"
	"sync"

	"github.com/montanaflynn/stats"
)

const tradingDaysPerYear = 252

// PerformanceCalculator turns a run's snapshot and transaction history
// into the full analytics report. Every statistic tolerates empty or
// single-point input and falls back to zero instead of erroring, since
// short backtests are valid runs.
type PerformanceCalculator struct {
	// RiskFreeRate is the annual rate used in the Sharpe and Sortino
	// numerators, expressed as a fraction.
	RiskFreeRate float64
	// AttributionWorkers bounds the per-security attribution pool.
	AttributionWorkers int
	// LeaderCount is how many winners and losers the report carries.
	LeaderCount int
}

func NewPerformanceCalculator() PerformanceCalculator {
	return PerformanceCalculator{
		RiskFreeRate:       0.06,
		AttributionWorkers: 4,
		LeaderCount:        5,
	}
}

// Compute assembles the report. The series statistics are independent
// reads over the same immutable returns slice, so they run
// concurrently; only the join waits.
func (c PerformanceCalculator) Compute(snapshots []domain.PortfolioSnapshot, transactions []domain.Transaction) domain.PerformanceReport {
	returns := returnsSeries(snapshots)

	report := domain.PerformanceReport{}

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		report.Volatility, report.SharpeRatio, report.SortinoRatio = c.riskRatios(returns)
		report.Var95 = valueAtRisk95(returns)
		report.Skewness = standardizedMoment(returns, 3)
		report.Kurtosis = standardizedMoment(returns, 4)
	}()

	go func() {
		defer wg.Done()
		report.DrawdownSeries = drawdownSeries(snapshots)
		report.MaxDrawdown = maxDrawdown(report.DrawdownSeries)
		report.CalmarRatio = calmarRatio(returns, report.MaxDrawdown.Drawdown)
	}()

	go func() {
		defer wg.Done()
		report.EquityCurve = equityCurve(snapshots)
		report.ProfitableDays, report.UnprofitableDays, report.ProfitableDaysRatio = profitableDays(returns)
	}()

	var attribution attributionResult
	go func() {
		defer wg.Done()
		attribution = c.attributeTrades(transactions)
	}()

	wg.Wait()

	report.ReturnsSeries = returnsPoints(snapshots, returns)
	report.WinRate = attribution.WinRate
	report.ProfitFactor = attribution.ProfitFactor
	report.TotalTrades = attribution.TotalTrades
	report.TopWinners = attribution.TopWinners(c.LeaderCount)
	report.TopLosers = attribution.TopLosers(c.LeaderCount)

	return report
}

// returnsSeries is the period-over-period change of snapshot total
// value, as fractions. The first snapshot has no prior value so it
// contributes no point.
func returnsSeries(snapshots []domain.PortfolioSnapshot) []float64 {
	if len(snapshots) < 2 {
		return []float64{}
	}

	out := make([]float64, 0, len(snapshots)-1)
	for i := 1; i < len(snapshots); i++ {
		prev := snapshots[i-1].TotalValue.InexactFloat64()
		curr := snapshots[i].TotalValue.InexactFloat64()
		if prev == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, (curr-prev)/prev)
	}
	return out
}

func returnsPoints(snapshots []domain.PortfolioSnapshot, returns []float64) []domain.ReturnPoint {
	out := make([]domain.ReturnPoint, 0, len(returns))
	for i, r := range returns {
		out = append(out, domain.ReturnPoint{
			Date:   snapshots[i+1].Date,
			Return: r,
		})
	}
	return out
}

func (c PerformanceCalculator) riskRatios(returns []float64) (volatility, sharpe, sortino float64) {
	if len(returns) < 2 {
		return 0, 0, 0
	}

	stdev, err := stats.StandardDeviationSample(returns)
	if err != nil {
		return 0, 0, 0
	}
	volatility = stdev * math.Sqrt(tradingDaysPerYear)

	mean, err := stats.Mean(returns)
	if err != nil {
		return volatility, 0, 0
	}
	excess := mean*tradingDaysPerYear - c.RiskFreeRate

	if volatility > 0 {
		sharpe = excess / volatility
	}

	downside := []float64{}
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}
	if len(downside) >= 2 {
		downsideStdev, err := stats.StandardDeviationSample(downside)
		if err == nil && downsideStdev > 0 {
			sortino = excess / (downsideStdev * math.Sqrt(tradingDaysPerYear))
		}
	}

	return volatility, sharpe, sortino
}

func calmarRatio(returns []float64, maxDrawdownPct float64) float64 {
	if len(returns) == 0 || maxDrawdownPct == 0 {
		return 0
	}
	mean, err := stats.Mean(returns)
	if err != nil {
		return 0
	}
	return (mean * tradingDaysPerYear) / math.Abs(maxDrawdownPct/100)
}

// valueAtRisk95 is the 5th percentile of the returns distribution.
func valueAtRisk95(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	v, err := stats.Percentile(returns, 5)
	if err != nil {
		return 0
	}
	return v
}

// standardizedMoment computes the nth standardized central moment with
// the population standard deviation as the scale. Third is skewness,
// fourth is kurtosis.
func standardizedMoment(returns []float64, n int) float64 {
	if len(returns) < 2 {
		return 0
	}
	mean, err := stats.Mean(returns)
	if err != nil {
		return 0
	}
	stdev, err := stats.StandardDeviationPopulation(returns)
	if err != nil || stdev == 0 {
		return 0
	}

	sum := 0.0
	for _, r := range returns {
		sum += math.Pow((r-mean)/stdev, float64(n))
	}
	return sum / float64(len(returns))
}

// drawdownSeries tracks the running peak of total value. Drawdown is
// the percentage decline from that peak; duration counts consecutive
// periods strictly below it, resetting on every new peak.
func drawdownSeries(snapshots []domain.PortfolioSnapshot) []domain.DrawdownPoint {
	out := make([]domain.DrawdownPoint, 0, len(snapshots))
	if len(snapshots) == 0 {
		return out
	}

	peak := snapshots[0].TotalValue
	duration := 0
	for _, s := range snapshots {
		if s.TotalValue.GreaterThanOrEqual(peak) {
			peak = s.TotalValue
			duration = 0
		} else {
			duration++
		}

		drawdown := 0.0
		if peakF := peak.InexactFloat64(); peakF > 0 {
			drawdown = (s.TotalValue.InexactFloat64() - peakF) / peakF * 100
		}

		out = append(out, domain.DrawdownPoint{
			Date:       s.Date,
			TotalValue: s.TotalValue,
			Peak:       peak,
			Drawdown:   drawdown,
			Duration:   duration,
		})
	}
	return out
}

// maxDrawdown finds the deepest trough and brackets it: the start is
// the last point within 1% of the peak before the trough, the recovery
// is the first point back within 1% of the peak after it.
func maxDrawdown(series []domain.DrawdownPoint) domain.MaxDrawdown {
	if len(series) == 0 {
		return domain.MaxDrawdown{}
	}

	troughIdx := 0
	for i, p := range series {
		if p.Drawdown < series[troughIdx].Drawdown {
			troughIdx = i
		}
	}
	trough := series[troughIdx]
	if trough.Drawdown == 0 {
		return domain.MaxDrawdown{}
	}

	nearPeak := func(p domain.DrawdownPoint) bool {
		peak := trough.Peak.InexactFloat64()
		return peak > 0 && p.TotalValue.InexactFloat64() >= peak*0.99
	}

	out := domain.MaxDrawdown{
		Drawdown: trough.Drawdown,
		Duration: trough.Duration,
	}
	troughDate := trough.Date
	out.Trough = &troughDate

	for i := troughIdx; i >= 0; i-- {
		if nearPeak(series[i]) {
			start := series[i].Date
			out.Start = &start
			break
		}
	}
	for i := troughIdx + 1; i < len(series); i++ {
		if nearPeak(series[i]) {
			recovery := series[i].Date
			out.RecoveryDate = &recovery
			break
		}
	}

	return out
}

func equityCurve(snapshots []domain.PortfolioSnapshot) []domain.EquityPoint {
	out := make([]domain.EquityPoint, 0, len(snapshots))
	if len(snapshots) == 0 {
		return out
	}

	initial := snapshots[0].TotalValue.InexactFloat64()
	prev := initial
	for _, s := range snapshots {
		value := s.TotalValue.InexactFloat64()
		point := domain.EquityPoint{
			Date:       s.Date,
			TotalValue: s.TotalValue,
		}
		if prev > 0 {
			point.PeriodReturn = (value - prev) / prev
		}
		if initial > 0 {
			point.CumulativeReturn = value/initial - 1
		}
		out = append(out, point)
		prev = value
	}
	// the first point has no prior period
	out[0].PeriodReturn = 0
	return out
}

func profitableDays(returns []float64) (profitable, unprofitable int, ratio float64) {
	for _, r := range returns {
		if r > 0 {
			profitable++
		} else if r < 0 {
			unprofitable++
		}
	}
	if total := profitable + unprofitable; total > 0 {
		ratio = float64(profitable) / float64(total)
	}
	return profitable, unprofitable, ratio
}
