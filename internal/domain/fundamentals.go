package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PeriodType string

const (
	PeriodTypeQuarterly PeriodType = "Q"
	PeriodTypeAnnual    PeriodType = "A"
)

// FundamentalSnapshot is one reported set of fundamentals for a security.
// The screener always works off the snapshot with the latest report date
// on or before the rebalance date.
type FundamentalSnapshot struct {
	SecurityID int64
	ReportDate time.Time
	PeriodType PeriodType

	Revenue           *decimal.Decimal
	Pat               *decimal.Decimal
	Ebitda            *decimal.Decimal
	OperatingProfit   *decimal.Decimal
	FreeCashFlow      *decimal.Decimal
	MarketCap         *decimal.Decimal
	SharesOutstanding *int64
	Roce              *decimal.Decimal
	Roe               *decimal.Decimal
	Roa               *decimal.Decimal
	Eps               *decimal.Decimal
	PeRatio           *decimal.Decimal
	PbRatio           *decimal.Decimal
	DebtToEquity      *decimal.Decimal
}

// Metric returns the named metric value, or nil when the metric is
// unknown or unreported. Rankers treat nil as a zero contribution.
func (f FundamentalSnapshot) Metric(name string) *decimal.Decimal {
	switch name {
	case "revenue":
		return f.Revenue
	case "pat":
		return f.Pat
	case "ebitda":
		return f.Ebitda
	case "operating_profit":
		return f.OperatingProfit
	case "free_cash_flow":
		return f.FreeCashFlow
	case "market_cap":
		return f.MarketCap
	case "roce":
		return f.Roce
	case "roe":
		return f.Roe
	case "roa":
		return f.Roa
	case "eps":
		return f.Eps
	case "pe_ratio":
		return f.PeRatio
	case "pb_ratio":
		return f.PbRatio
	case "debt_to_equity":
		return f.DebtToEquity
	}
	return nil
}

// MetricNames lists every metric the ranker may reference, in the order
// they appear on the snapshot.
func MetricNames() []string {
	return []string{
		"revenue", "pat", "ebitda", "operating_profit", "free_cash_flow",
		"market_cap", "roce", "roe", "roa", "eps", "pe_ratio", "pb_ratio",
		"debt_to_equity",
	}
}
