package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Security struct {
	SecurityID int64  `json:"securityId"`
	Symbol     string `json:"symbol"`
	Name       string `json:"name"`
}

type PricePoint struct {
	SecurityID    int64
	Date          time.Time
	Close         *decimal.Decimal
	AdjustedClose *decimal.Decimal
}

// TradePrice returns the price the engine should trade at: the adjusted
// close when present, otherwise the raw close. Nil means no usable price
// on this date.
func (p PricePoint) TradePrice() *decimal.Decimal {
	if p.AdjustedClose != nil {
		return p.AdjustedClose
	}
	return p.Close
}

type PriceSource int

const (
	PriceSourceExact PriceSource = iota
	PriceSourceFallback
	PriceSourceExtendedFallback
)

func (s PriceSource) String() string {
	switch s {
	case PriceSourceExact:
		return "exact"
	case PriceSourceFallback:
		return "fallback"
	case PriceSourceExtendedFallback:
		return "extended_fallback"
	}
	return "unknown"
}

// ResolvedPrice is the result of a successful price lookup. A nil
// *ResolvedPrice from the resolver means NotAvailable - callers must
// treat that as a first-class outcome, never as zero.
type ResolvedPrice struct {
	SecurityID int64
	Date       time.Time
	Price      decimal.Decimal
	Source     PriceSource
}
