package l2_service

import (
	"context"
	"screenerbacktest/internal/domain"
	"screenerbacktest/internal/repository"
	mock_repository "screenerbacktest/internal/repository/mocks"
	"screenerbacktest/internal/util"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func universeRow(id int64, symbol string, marketCapCrores float64, roce float64, pat float64) repository.SecurityFundamentals {
	return repository.SecurityFundamentals{
		Security: domain.Security{SecurityID: id, Symbol: symbol, Name: symbol + " Ltd"},
		Fundamentals: domain.FundamentalSnapshot{
			SecurityID: id,
			MarketCap:  util.DecimalPointer(decimal.NewFromFloat(marketCapCrores).Mul(domain.MarketCapUnitScale)),
			Roce:       util.DecimalPointer(decimal.NewFromFloat(roce)),
			Pat:        util.DecimalPointer(decimal.NewFromFloat(pat)),
		},
	}
}

func baseRequest() domain.BacktestRequest {
	return domain.BacktestRequest{
		StartDate:          util.NewDate(2020, 1, 1),
		EndDate:            util.NewDate(2021, 1, 1),
		PortfolioSize:      2,
		RebalanceFrequency: domain.RebalanceQuarterly,
		WeightingMethod:    domain.WeightEqual,
		InitialCapital:     decimal.NewFromInt(100_000),
		RankingMetrics: []domain.RankingMetric{
			{Name: "roce", HigherIsBetter: true},
		},
	}
}

func TestSelectFiltersAndRanks(t *testing.T) {
	ctrl := gomock.NewController(t)
	fundamentalsRepository := mock_repository.NewMockFundamentalsRepository(ctrl)
	service := NewScreenerService(fundamentalsRepository)

	asOf := util.NewDate(2020, 3, 31)
	req := baseRequest()
	req.MinMarketCap = util.DecimalPointer(decimal.NewFromInt(500))
	req.MinRoce = util.DecimalPointer(decimal.NewFromInt(10))
	req.PatPositive = true

	fundamentalsRepository.EXPECT().ListLatest(asOf).Return([]repository.SecurityFundamentals{
		universeRow(1, "SMALL", 100, 40, 50),  // below market cap floor
		universeRow(2, "LOWRET", 900, 5, 80),  // below min roce
		universeRow(3, "LOSSCO", 900, 25, -3), // negative pat
		universeRow(4, "STEADY", 900, 18, 120),
		universeRow(5, "PRIME", 2_000, 32, 400),
		universeRow(6, "RUNNER", 1_500, 22, 150),
	}, nil)

	candidates, err := service.Select(context.Background(), req, asOf)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	require.Equal(t, "PRIME", candidates[0].Security.Symbol)
	require.Equal(t, "RUNNER", candidates[1].Security.Symbol)
}

func TestSelectMissingMetricContributesZero(t *testing.T) {
	ctrl := gomock.NewController(t)
	fundamentalsRepository := mock_repository.NewMockFundamentalsRepository(ctrl)
	service := NewScreenerService(fundamentalsRepository)

	asOf := util.NewDate(2020, 3, 31)
	req := baseRequest()
	req.PortfolioSize = 3
	req.RankingMetrics = []domain.RankingMetric{
		{Name: "roce", HigherIsBetter: true},
		{Name: "debt_to_equity", HigherIsBetter: false},
	}

	unlevered := universeRow(1, "NODEBT", 800, 15, 10)
	levered := universeRow(2, "LEVERED", 800, 15, 10)
	levered.Fundamentals.DebtToEquity = util.DecimalPointer(decimal.NewFromFloat(2.5))

	fundamentalsRepository.EXPECT().ListLatest(asOf).Return([]repository.SecurityFundamentals{levered, unlevered}, nil)

	candidates, err := service.Select(context.Background(), req, asOf)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	// missing debt_to_equity scores 15, reported 2.5 scores 12.5
	require.Equal(t, "NODEBT", candidates[0].Security.Symbol)
	require.Equal(t, "15", candidates[0].Score.String())
	require.Equal(t, "12.5", candidates[1].Score.String())
}

func TestSelectStableOrderOnTies(t *testing.T) {
	ctrl := gomock.NewController(t)
	fundamentalsRepository := mock_repository.NewMockFundamentalsRepository(ctrl)
	service := NewScreenerService(fundamentalsRepository)

	asOf := util.NewDate(2020, 3, 31)
	req := baseRequest()
	req.PortfolioSize = 3

	fundamentalsRepository.EXPECT().ListLatest(asOf).Return([]repository.SecurityFundamentals{
		universeRow(7, "TIE1", 800, 20, 10),
		universeRow(3, "TIE2", 800, 20, 10),
		universeRow(9, "TIE3", 800, 20, 10),
	}, nil)

	candidates, err := service.Select(context.Background(), req, asOf)
	require.NoError(t, err)
	require.Len(t, candidates, 3)
	require.Equal(t, []string{"TIE1", "TIE2", "TIE3"}, []string{
		candidates[0].Security.Symbol,
		candidates[1].Security.Symbol,
		candidates[2].Security.Symbol,
	})
}

func TestSelectReturnsFewerThanPortfolioSize(t *testing.T) {
	ctrl := gomock.NewController(t)
	fundamentalsRepository := mock_repository.NewMockFundamentalsRepository(ctrl)
	service := NewScreenerService(fundamentalsRepository)

	asOf := util.NewDate(2020, 3, 31)
	req := baseRequest()
	req.PortfolioSize = 10

	fundamentalsRepository.EXPECT().ListLatest(asOf).Return([]repository.SecurityFundamentals{
		universeRow(1, "ONLY", 800, 20, 10),
	}, nil)

	candidates, err := service.Select(context.Background(), req, asOf)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
}

func TestSelectScoreExpression(t *testing.T) {
	ctrl := gomock.NewController(t)
	fundamentalsRepository := mock_repository.NewMockFundamentalsRepository(ctrl)
	service := NewScreenerService(fundamentalsRepository)

	asOf := util.NewDate(2020, 3, 31)
	req := baseRequest()
	req.PortfolioSize = 2
	req.ScoreExpression = "roce * 2 - debt_to_equity"

	plain := universeRow(1, "PLAIN", 800, 10, 5)
	levered := universeRow(2, "LEVERED", 800, 12, 5)
	levered.Fundamentals.DebtToEquity = util.DecimalPointer(decimal.NewFromInt(8))

	fundamentalsRepository.EXPECT().ListLatest(asOf).Return([]repository.SecurityFundamentals{plain, levered}, nil)

	candidates, err := service.Select(context.Background(), req, asOf)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	// PLAIN: 10*2 - 0 = 20, LEVERED: 12*2 - 8 = 16
	require.Equal(t, "PLAIN", candidates[0].Security.Symbol)
	require.Equal(t, "LEVERED", candidates[1].Security.Symbol)
}
