package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// serialize decimals as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

// CurrencyPlaces is the fixed monetary precision. Every cash amount,
// price extension and snapshot total is rounded half-up to this many
// places so repeated rebalances cannot accumulate rounding drift.
const CurrencyPlaces = 2

// WeightPlaces is the precision used for intermediate weight fractions.
const WeightPlaces = 6

// RoundCurrency rounds half-up (away from zero on the half) to
// CurrencyPlaces.
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPlaces)
}

type TransactionAction string

const (
	ActionBuy  TransactionAction = "BUY"
	ActionSell TransactionAction = "SELL"
)

// Lot is a parcel of shares acquired in one buy. Sells consume lots in
// acquisition order (FIFO); a fully consumed lot is removed.
type Lot struct {
	SecurityID int64
	AcquiredOn time.Time
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
}

// Holding is the aggregated view over a security's open lots. It is
// derived on demand and never stored independently.
type Holding struct {
	SecurityID int64
	Symbol     string
	Quantity   decimal.Decimal
	AvgCost    decimal.Decimal
}

// Transaction is one executed order. The history is append-only; sells
// record the quantity actually sold after capping at the held quantity.
type Transaction struct {
	Date           time.Time         `json:"date"`
	SecurityID     int64             `json:"securityId"`
	Symbol         string            `json:"symbol"`
	SecurityName   string            `json:"securityName"`
	Action         TransactionAction `json:"action"`
	Quantity       decimal.Decimal   `json:"quantity"`
	Price          decimal.Decimal   `json:"price"`
	GrossValue     decimal.Decimal   `json:"grossValue"`
	CashAfter      decimal.Decimal   `json:"cashAfter"`
	PortfolioValue decimal.Decimal   `json:"portfolioValue"`
}

type HoldingDetail struct {
	SecurityID   int64           `json:"securityId"`
	Symbol       string          `json:"symbol"`
	Quantity     decimal.Decimal `json:"quantity"`
	AvgCost      decimal.Decimal `json:"avgCost"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	MarketValue  decimal.Decimal `json:"marketValue"`
}

// PortfolioSnapshot records the full portfolio state at one rebalance
// date. Invariant: TotalValue = Cash + sum of holding market values,
// rounded to CurrencyPlaces.
type PortfolioSnapshot struct {
	Date       time.Time       `json:"date"`
	Cash       decimal.Decimal `json:"cash"`
	Holdings   []HoldingDetail `json:"holdings"`
	TotalValue decimal.Decimal `json:"totalValue"`
}

// UnliquidatedPosition is a holding that could not be priced at the end
// date. It is reported rather than silently valued at zero.
type UnliquidatedPosition struct {
	SecurityID int64           `json:"securityId"`
	Symbol     string          `json:"symbol"`
	Quantity   decimal.Decimal `json:"quantity"`
	AvgCost    decimal.Decimal `json:"avgCost"`
}
