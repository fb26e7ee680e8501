package l1_service

import (
	"context"
	"screenerbacktest/internal/domain"
	mock_repository "screenerbacktest/internal/repository/mocks"
	"screenerbacktest/internal/util"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestResolveExactDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	priceRepository := mock_repository.NewMockPriceRepository(ctrl)
	service := NewPriceService(priceRepository)

	asOf := util.NewDate(2021, 6, 30)
	priceRepository.EXPECT().
		ListBetween([]int64{1}, asOf, asOf).
		Return([]domain.PricePoint{
			{
				SecurityID: 1,
				Date:       asOf,
				Close:      util.DecimalPointer(decimal.NewFromInt(250)),
			},
		}, nil)

	resolved, err := service.Resolve(context.Background(), 1, asOf)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	require.Equal(t, domain.PriceSourceExact, resolved.Source)
	require.Equal(t, "250", resolved.Price.String())
	require.Equal(t, asOf, resolved.Date)
}

func TestResolveFallsBackToPriorPrice(t *testing.T) {
	ctrl := gomock.NewController(t)
	priceRepository := mock_repository.NewMockPriceRepository(ctrl)
	service := NewPriceService(priceRepository)

	asOf := util.NewDate(2021, 6, 30)
	priorDate := util.NewDate(2021, 6, 20)

	priceRepository.EXPECT().
		ListBetween([]int64{1}, asOf, asOf).
		Return([]domain.PricePoint{}, nil)
	priceRepository.EXPECT().
		ListBetween([]int64{1}, asOf.AddDate(0, 0, -30), asOf).
		Return([]domain.PricePoint{
			{
				SecurityID: 1,
				Date:       priorDate,
				Close:      util.DecimalPointer(decimal.NewFromFloat(98.5)),
			},
		}, nil)

	resolved, err := service.Resolve(context.Background(), 1, asOf)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	require.Equal(t, domain.PriceSourceFallback, resolved.Source)
	require.Equal(t, priorDate, resolved.Date)
	require.Equal(t, "98.5", resolved.Price.String())
}

func TestResolveExtendedFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	priceRepository := mock_repository.NewMockPriceRepository(ctrl)
	service := NewPriceService(priceRepository)

	asOf := util.NewDate(2021, 6, 30)
	staleDate := util.NewDate(2021, 4, 15)

	priceRepository.EXPECT().
		ListBetween([]int64{1}, asOf, asOf).
		Return(nil, nil)
	priceRepository.EXPECT().
		ListBetween([]int64{1}, asOf.AddDate(0, 0, -30), asOf).
		Return(nil, nil)
	priceRepository.EXPECT().
		ListBetween([]int64{1}, asOf.AddDate(0, 0, -90), asOf).
		Return([]domain.PricePoint{
			{
				SecurityID: 1,
				Date:       staleDate,
				Close:      util.DecimalPointer(decimal.NewFromInt(77)),
			},
		}, nil)

	resolved, err := service.Resolve(context.Background(), 1, asOf)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	require.Equal(t, domain.PriceSourceExtendedFallback, resolved.Source)
	require.Equal(t, staleDate, resolved.Date)
}

func TestResolveNotAvailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	priceRepository := mock_repository.NewMockPriceRepository(ctrl)
	service := NewPriceService(priceRepository)

	asOf := util.NewDate(2021, 6, 30)
	priceRepository.EXPECT().
		ListBetween(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil).
		Times(3)

	resolved, err := service.Resolve(context.Background(), 1, asOf)
	require.NoError(t, err)
	require.Nil(t, resolved)
}

func TestResolvePrefersAdjustedClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	priceRepository := mock_repository.NewMockPriceRepository(ctrl)
	service := NewPriceService(priceRepository)

	asOf := util.NewDate(2021, 6, 30)
	priceRepository.EXPECT().
		ListBetween([]int64{1}, asOf, asOf).
		Return([]domain.PricePoint{
			{
				SecurityID:    1,
				Date:          asOf,
				Close:         util.DecimalPointer(decimal.NewFromInt(500)),
				AdjustedClose: util.DecimalPointer(decimal.NewFromInt(125)),
			},
		}, nil)

	resolved, err := service.Resolve(context.Background(), 1, asOf)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	require.Equal(t, "125", resolved.Price.String())
}

func TestResolveManyServesAllFromOneRangeQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	priceRepository := mock_repository.NewMockPriceRepository(ctrl)
	service := NewPriceService(priceRepository)

	asOf := util.NewDate(2021, 6, 30)
	priceRepository.EXPECT().
		ListBetween([]int64{1, 2, 3, 4}, asOf.AddDate(0, 0, -90), asOf).
		Return([]domain.PricePoint{
			{SecurityID: 3, Date: util.NewDate(2021, 4, 20), Close: util.DecimalPointer(decimal.NewFromInt(25))},
			{SecurityID: 2, Date: util.NewDate(2021, 6, 10), Close: util.DecimalPointer(decimal.NewFromInt(50))},
			{SecurityID: 1, Date: asOf, Close: util.DecimalPointer(decimal.NewFromInt(100))},
		}, nil).
		Times(1)

	resolved, err := service.ResolveMany(context.Background(), []int64{1, 2, 3, 4}, asOf)
	require.NoError(t, err)
	require.Len(t, resolved, 3)
	require.Equal(t, domain.PriceSourceExact, resolved[1].Source)
	require.Equal(t, domain.PriceSourceFallback, resolved[2].Source)
	require.Equal(t, domain.PriceSourceExtendedFallback, resolved[3].Source)
	require.Equal(t, "50", resolved[2].Price.String())
	require.NotContains(t, resolved, int64(4))
}

func TestResolveSkipsNonPositivePrices(t *testing.T) {
	ctrl := gomock.NewController(t)
	priceRepository := mock_repository.NewMockPriceRepository(ctrl)
	service := NewPriceService(priceRepository)

	asOf := util.NewDate(2021, 6, 30)
	priorDate := util.NewDate(2021, 6, 25)
	zeroPoint := domain.PricePoint{
		SecurityID:    1,
		Date:          asOf,
		Close:         util.DecimalPointer(decimal.NewFromInt(500)),
		AdjustedClose: util.DecimalPointer(decimal.Zero),
	}

	priceRepository.EXPECT().
		ListBetween([]int64{1}, asOf, asOf).
		Return([]domain.PricePoint{zeroPoint}, nil)
	priceRepository.EXPECT().
		ListBetween([]int64{1}, asOf.AddDate(0, 0, -30), asOf).
		Return([]domain.PricePoint{
			{
				SecurityID: 1,
				Date:       priorDate,
				Close:      util.DecimalPointer(decimal.NewFromInt(480)),
			},
			zeroPoint,
		}, nil)

	resolved, err := service.Resolve(context.Background(), 1, asOf)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	require.Equal(t, domain.PriceSourceFallback, resolved.Source)
	require.Equal(t, priorDate, resolved.Date)
	require.Equal(t, "480", resolved.Price.String())
}

func TestResolveCachesRangeQueries(t *testing.T) {
	ctrl := gomock.NewController(t)
	priceRepository := mock_repository.NewMockPriceRepository(ctrl)
	service := NewPriceService(priceRepository)

	asOf := util.NewDate(2021, 6, 30)
	priceRepository.EXPECT().
		ListBetween([]int64{1}, asOf, asOf).
		Return([]domain.PricePoint{
			{
				SecurityID: 1,
				Date:       asOf,
				Close:      util.DecimalPointer(decimal.NewFromInt(10)),
			},
		}, nil).
		Times(1)

	for i := 0; i < 3; i++ {
		resolved, err := service.Resolve(context.Background(), 1, asOf)
		require.NoError(t, err)
		require.NotNil(t, resolved)
	}
}
