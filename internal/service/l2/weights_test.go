package l2_service

import (
	"screenerbacktest/internal/domain"
	"screenerbacktest/internal/util"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func candidate(id int64, symbol string, marketCap *decimal.Decimal, score decimal.Decimal) Candidate {
	return Candidate{
		Security:     domain.Security{SecurityID: id, Symbol: symbol},
		Fundamentals: domain.FundamentalSnapshot{SecurityID: id, MarketCap: marketCap},
		Score:        score,
	}
}

func requireWeightsSumToOne(t *testing.T, weights map[int64]decimal.Decimal) {
	t.Helper()
	sum := decimal.Zero
	for _, w := range weights {
		sum = sum.Add(w)
	}
	tolerance := decimal.New(1, -6)
	require.True(t, sum.Sub(decimal.NewFromInt(1)).Abs().LessThanOrEqual(tolerance),
		"weights sum to %s", sum)
}

func TestAllocateEqual(t *testing.T) {
	candidates := []Candidate{
		candidate(1, "A", nil, decimal.NewFromInt(3)),
		candidate(2, "B", nil, decimal.NewFromInt(2)),
		candidate(3, "C", nil, decimal.NewFromInt(1)),
	}

	weights, err := Allocate(candidates, domain.WeightEqual)
	require.NoError(t, err)
	require.Len(t, weights, 3)
	require.Equal(t, "0.333333", weights[1].String())
	requireWeightsSumToOne(t, weights)
}

func TestAllocateMarketCapProportional(t *testing.T) {
	candidates := []Candidate{
		candidate(1, "BIG", util.DecimalPointer(decimal.NewFromInt(750)), decimal.Zero),
		candidate(2, "SMALL", util.DecimalPointer(decimal.NewFromInt(250)), decimal.Zero),
	}

	weights, err := Allocate(candidates, domain.WeightMarketCap)
	require.NoError(t, err)
	require.Equal(t, "0.75", weights[1].String())
	require.Equal(t, "0.25", weights[2].String())
	requireWeightsSumToOne(t, weights)
}

func TestAllocateMarketCapMissingGetsZeroWeight(t *testing.T) {
	candidates := []Candidate{
		candidate(1, "CAPPED", util.DecimalPointer(decimal.NewFromInt(500)), decimal.Zero),
		candidate(2, "NOCAP", nil, decimal.Zero),
	}

	weights, err := Allocate(candidates, domain.WeightMarketCap)
	require.NoError(t, err)
	require.Len(t, weights, 2, "unweightable securities must stay in the map")
	require.Equal(t, "1", weights[1].String())
	require.True(t, weights[2].IsZero())
}

func TestAllocateMetricWeightedIgnoresNonPositiveScores(t *testing.T) {
	candidates := []Candidate{
		candidate(1, "WIN", nil, decimal.NewFromInt(30)),
		candidate(2, "ALSO", nil, decimal.NewFromInt(10)),
		candidate(3, "LOSS", nil, decimal.NewFromInt(-5)),
	}

	weights, err := Allocate(candidates, domain.WeightMetricWeighted)
	require.NoError(t, err)
	require.Equal(t, "0.75", weights[1].String())
	require.Equal(t, "0.25", weights[2].String())
	require.True(t, weights[3].IsZero())
	requireWeightsSumToOne(t, weights)
}

func TestAllocateEmptyInput(t *testing.T) {
	weights, err := Allocate(nil, domain.WeightEqual)
	require.NoError(t, err)
	require.Empty(t, weights)
}

func TestAllocateUnknownMethod(t *testing.T) {
	_, err := Allocate([]Candidate{candidate(1, "A", nil, decimal.Zero)}, domain.WeightingMethod("momentum"))
	require.Error(t, err)
}
