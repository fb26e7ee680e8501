package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type ReturnPoint struct {
	Date   time.Time `json:"date"`
	Return float64   `json:"return"`
}

type EquityPoint struct {
	Date             time.Time       `json:"date"`
	TotalValue       decimal.Decimal `json:"totalValue"`
	PeriodReturn     float64         `json:"periodReturn"`
	CumulativeReturn float64         `json:"cumulativeReturn"`
}

type DrawdownPoint struct {
	Date       time.Time       `json:"date"`
	TotalValue decimal.Decimal `json:"totalValue"`
	Peak       decimal.Decimal `json:"peak"`
	// percentage decline from the running peak, <= 0
	Drawdown float64 `json:"drawdown"`
	// consecutive periods strictly below the most recent peak
	Duration int `json:"duration"`
}

// SecurityPerformance is the FIFO-matched attribution result for one
// security across the whole run.
type SecurityPerformance struct {
	SecurityID       int64           `json:"securityId"`
	Symbol           string          `json:"symbol"`
	SecurityName     string          `json:"securityName"`
	TotalReturn      float64         `json:"totalReturn"`
	AnnualizedReturn float64         `json:"annualizedReturn"`
	TotalPnl         decimal.Decimal `json:"totalPnl"`
	Trades           int             `json:"trades"`
	WinRate          float64         `json:"winRate"`
	HoldingDays      int             `json:"holdingPeriodDays"`
}

type MaxDrawdown struct {
	Drawdown     float64    `json:"drawdown"`
	Duration     int        `json:"duration"`
	Start        *time.Time `json:"start,omitempty"`
	Trough       *time.Time `json:"trough,omitempty"`
	RecoveryDate *time.Time `json:"recoveryDate,omitempty"`
}

// PerformanceReport is the analytics engine's full output. Every field
// has a zero-value fallback so degenerate runs still produce a complete
// report.
type PerformanceReport struct {
	Volatility   float64     `json:"volatility"`
	SharpeRatio  float64     `json:"sharpeRatio"`
	SortinoRatio float64     `json:"sortinoRatio"`
	CalmarRatio  float64     `json:"calmarRatio"`
	Var95        float64     `json:"var95"`
	Skewness     float64     `json:"skewness"`
	Kurtosis     float64     `json:"kurtosis"`
	MaxDrawdown  MaxDrawdown `json:"maxDrawdown"`

	WinRate      float64 `json:"winRate"`
	ProfitFactor float64 `json:"profitFactor"`
	TotalTrades  int     `json:"totalTrades"`

	ProfitableDays      int     `json:"profitableDays"`
	UnprofitableDays    int     `json:"unprofitableDays"`
	ProfitableDaysRatio float64 `json:"profitableDaysRatio"`

	ReturnsSeries  []ReturnPoint   `json:"returnsSeries"`
	EquityCurve    []EquityPoint   `json:"equityCurve"`
	DrawdownSeries []DrawdownPoint `json:"drawdownSeries"`

	TopWinners []SecurityPerformance `json:"topWinners"`
	TopLosers  []SecurityPerformance `json:"topLosers"`
}

// BacktestReport is the complete run output. It is always fully
// populated - partial failures are described inside it (skipped
// rebalances, unliquidated positions) rather than surfaced as errors.
type BacktestReport struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`

	InitialCapital   decimal.Decimal `json:"initialCapital"`
	FinalValue       decimal.Decimal `json:"finalValue"`
	TotalReturnPct   float64         `json:"totalReturnPct"`
	AnnualizedReturn float64         `json:"annualizedReturn"`
	TotalProfitLoss  decimal.Decimal `json:"totalProfitLoss"`

	RebalanceDates    []time.Time `json:"rebalanceDates"`
	SkippedRebalances int         `json:"skippedRebalances"`

	TotalTransactions int `json:"totalTransactions"`
	BuyTransactions   int `json:"buyTransactions"`
	SellTransactions  int `json:"sellTransactions"`

	Transactions          []Transaction          `json:"transactions"`
	Snapshots             []PortfolioSnapshot    `json:"snapshots"`
	UnliquidatedPositions []UnliquidatedPosition `json:"unliquidatedPositions"`

	Performance PerformanceReport `json:"performance"`
}

// RenderText produces the plain-text summary used by the script runner.
func (r BacktestReport) RenderText() string {
	var b strings.Builder

	fmt.Fprintf(&b, "BACKTEST PERFORMANCE REPORT\n")
	fmt.Fprintf(&b, "===========================\n\n")
	fmt.Fprintf(&b, "SUMMARY:\n")
	fmt.Fprintf(&b, "  Initial Capital:   %s\n", r.InitialCapital.StringFixed(2))
	fmt.Fprintf(&b, "  Final Value:       %s\n", r.FinalValue.StringFixed(2))
	fmt.Fprintf(&b, "  Total Return:      %.2f%%\n", r.TotalReturnPct)
	fmt.Fprintf(&b, "  Annualized Return: %.2f%%\n", r.AnnualizedReturn)
	fmt.Fprintf(&b, "  Total P&L:         %s\n", r.TotalProfitLoss.StringFixed(2))
	fmt.Fprintf(&b, "  Rebalances:        %d (%d skipped)\n\n", len(r.RebalanceDates), r.SkippedRebalances)

	p := r.Performance
	fmt.Fprintf(&b, "RISK:\n")
	fmt.Fprintf(&b, "  Volatility:        %.4f\n", p.Volatility)
	fmt.Fprintf(&b, "  Max Drawdown:      %.2f%%\n", p.MaxDrawdown.Drawdown)
	fmt.Fprintf(&b, "  VaR (95%%):         %.4f\n", p.Var95)
	fmt.Fprintf(&b, "  Skewness:          %.3f\n", p.Skewness)
	fmt.Fprintf(&b, "  Kurtosis:          %.3f\n\n", p.Kurtosis)

	fmt.Fprintf(&b, "RATIOS:\n")
	fmt.Fprintf(&b, "  Sharpe:            %.3f\n", p.SharpeRatio)
	fmt.Fprintf(&b, "  Sortino:           %.3f\n", p.SortinoRatio)
	fmt.Fprintf(&b, "  Calmar:            %.3f\n\n", p.CalmarRatio)

	fmt.Fprintf(&b, "TRADING:\n")
	fmt.Fprintf(&b, "  Transactions:      %d (%d buys, %d sells)\n", r.TotalTransactions, r.BuyTransactions, r.SellTransactions)
	fmt.Fprintf(&b, "  Round Trips:       %d\n", p.TotalTrades)
	fmt.Fprintf(&b, "  Win Rate:          %.2f%%\n", p.WinRate*100)
	fmt.Fprintf(&b, "  Profit Factor:     %.2f\n\n", p.ProfitFactor)

	writeLeaders := func(title string, perfs []SecurityPerformance) {
		fmt.Fprintf(&b, "%s:\n", title)
		for i, s := range perfs {
			fmt.Fprintf(&b, "  %d. %s - %s\n", i+1, s.Symbol, s.SecurityName)
			fmt.Fprintf(&b, "     Return: %.2f%%  Annualized: %.2f%%  P&L: %s  Held: %d days\n",
				s.TotalReturn, s.AnnualizedReturn, s.TotalPnl.StringFixed(2), s.HoldingDays)
		}
		b.WriteString("\n")
	}
	writeLeaders("TOP WINNERS", p.TopWinners)
	writeLeaders("TOP LOSERS", p.TopLosers)

	if len(r.UnliquidatedPositions) > 0 {
		fmt.Fprintf(&b, "UNLIQUIDATED POSITIONS:\n")
		for _, u := range r.UnliquidatedPositions {
			fmt.Fprintf(&b, "  %s: %s shares at avg cost %s\n", u.Symbol, u.Quantity, u.AvgCost.StringFixed(2))
		}
	}

	return b.String()
}
