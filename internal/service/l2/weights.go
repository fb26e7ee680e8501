package l2_service

import (
	"fmt"
	"screenerbacktest/internal/domain"

	"github.com/shopspring/decimal"
)

// Allocate converts ranked candidates into target weights. Non-empty
// input yields weights summing to 1; empty input yields an empty map.
// Candidates that a method cannot weight (no market cap, non-positive
// score) stay in the map at weight zero so callers can see them and
// exclude them safely.
func Allocate(candidates []Candidate, method domain.WeightingMethod) (map[int64]decimal.Decimal, error) {
	switch method {
	case domain.WeightEqual:
		return equalWeights(candidates), nil
	case domain.WeightMarketCap:
		return proportionalWeights(candidates, func(c Candidate) *decimal.Decimal {
			return c.Fundamentals.MarketCap
		}), nil
	case domain.WeightMetricWeighted:
		return proportionalWeights(candidates, func(c Candidate) *decimal.Decimal {
			return &c.Score
		}), nil
	}
	return nil, fmt.Errorf("unknown weighting method %q", method)
}

func equalWeights(candidates []Candidate) map[int64]decimal.Decimal {
	out := map[int64]decimal.Decimal{}
	if len(candidates) == 0 {
		return out
	}
	weight := decimal.NewFromInt(1).DivRound(decimal.NewFromInt(int64(len(candidates))), domain.WeightPlaces)
	for _, c := range candidates {
		out[c.Security.SecurityID] = weight
	}
	return out
}

// proportionalWeights weights each candidate by its positive value's
// share of the positive total. Missing or non-positive values weight
// zero; when nothing is positive, everything weights zero.
func proportionalWeights(candidates []Candidate, value func(Candidate) *decimal.Decimal) map[int64]decimal.Decimal {
	out := map[int64]decimal.Decimal{}

	total := decimal.Zero
	for _, c := range candidates {
		v := value(c)
		if v != nil && v.IsPositive() {
			total = total.Add(*v)
		}
	}

	for _, c := range candidates {
		v := value(c)
		if v == nil || !v.IsPositive() || total.IsZero() {
			out[c.Security.SecurityID] = decimal.Zero
			continue
		}
		out[c.Security.SecurityID] = v.DivRound(total, domain.WeightPlaces)
	}

	return out
}
