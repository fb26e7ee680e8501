package calculator

import (
	"screenerbacktest/internal/domain"
	"screenerbacktest/internal/util"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func tx(date time.Time, securityID int64, symbol string, action domain.TransactionAction, quantity, price int64) domain.Transaction {
	return domain.Transaction{
		Date:       date,
		SecurityID: securityID,
		Symbol:     symbol,
		Action:     action,
		Quantity:   decimal.NewFromInt(quantity),
		Price:      decimal.NewFromInt(price),
		GrossValue: decimal.NewFromInt(quantity * price),
	}
}

func TestFIFOMatchingPartialSell(t *testing.T) {
	transactions := []domain.Transaction{
		tx(util.NewDate(2020, 1, 1), 1, "ACME", domain.ActionBuy, 100, 50),
		tx(util.NewDate(2020, 4, 1), 1, "ACME", domain.ActionSell, 60, 70),
	}

	result := matchSecurityTrades(transactions)
	require.Equal(t, 1, result.Performance.Trades)
	require.Equal(t, "1200", result.Performance.TotalPnl.String())
	require.Equal(t, 1, result.Wins)
	// 1200 profit on 3000 matched cost
	require.InDelta(t, 40.0, result.Performance.TotalReturn, 1e-9)
	require.Equal(t, 91, result.Performance.HoldingDays)
}

func TestHoldingPeriodEndsAtLastSell(t *testing.T) {
	// a buy after the last sell extends the open position, not the
	// realized holding period
	transactions := []domain.Transaction{
		tx(util.NewDate(2020, 1, 1), 1, "ACME", domain.ActionBuy, 100, 50),
		tx(util.NewDate(2020, 4, 1), 1, "ACME", domain.ActionSell, 60, 70),
		tx(util.NewDate(2020, 10, 1), 1, "ACME", domain.ActionBuy, 20, 80),
	}

	result := matchSecurityTrades(transactions)
	require.Equal(t, 91, result.Performance.HoldingDays)
}

func TestHoldingPeriodWithoutSellsEndsAtLastBuy(t *testing.T) {
	transactions := []domain.Transaction{
		tx(util.NewDate(2020, 1, 1), 1, "ACME", domain.ActionBuy, 100, 50),
		tx(util.NewDate(2020, 3, 1), 1, "ACME", domain.ActionBuy, 50, 60),
	}

	result := matchSecurityTrades(transactions)
	require.Equal(t, 60, result.Performance.HoldingDays)
	require.Equal(t, 0, result.Performance.Trades)
}

func TestFIFOMatchingConsumesOldestLotsFirst(t *testing.T) {
	transactions := []domain.Transaction{
		tx(util.NewDate(2020, 1, 1), 1, "ACME", domain.ActionBuy, 10, 100),
		tx(util.NewDate(2020, 2, 1), 1, "ACME", domain.ActionBuy, 10, 200),
		tx(util.NewDate(2020, 3, 1), 1, "ACME", domain.ActionSell, 15, 150),
	}

	result := matchSecurityTrades(transactions)
	// 10 @ (150-100) + 5 @ (150-200) = 500 - 250
	require.Equal(t, "250", result.Performance.TotalPnl.String())
	require.Equal(t, 1, result.Performance.Trades)
}

func TestFIFOMatchingDeterministic(t *testing.T) {
	calc := NewPerformanceCalculator()
	transactions := []domain.Transaction{}
	for id := int64(1); id <= 20; id++ {
		transactions = append(transactions,
			tx(util.NewDate(2020, 1, 1), id, "S", domain.ActionBuy, 10, 100+id),
			tx(util.NewDate(2020, 6, 1), id, "S", domain.ActionSell, 10, 90+2*id),
		)
	}

	first := calc.attributeTrades(transactions)
	for i := 0; i < 5; i++ {
		again := calc.attributeTrades(transactions)
		require.Equal(t, first.PerSecurity, again.PerSecurity)
		require.Equal(t, first.WinRate, again.WinRate)
		require.Equal(t, first.ProfitFactor, again.ProfitFactor)
	}
}

func TestPortfolioWinRateAndProfitFactor(t *testing.T) {
	calc := NewPerformanceCalculator()
	transactions := []domain.Transaction{
		tx(util.NewDate(2020, 1, 1), 1, "WIN", domain.ActionBuy, 10, 100),
		tx(util.NewDate(2020, 6, 1), 1, "WIN", domain.ActionSell, 10, 140), // +400
		tx(util.NewDate(2020, 1, 1), 2, "LOSS", domain.ActionBuy, 10, 100),
		tx(util.NewDate(2020, 6, 1), 2, "LOSS", domain.ActionSell, 10, 80), // -200
	}

	result := calc.attributeTrades(transactions)
	require.Equal(t, 2, result.TotalTrades)
	require.InDelta(t, 0.5, result.WinRate, 1e-9)
	require.InDelta(t, 2.0, result.ProfitFactor, 1e-9)
}

func TestProfitFactorZeroWhenNoLosses(t *testing.T) {
	calc := NewPerformanceCalculator()
	transactions := []domain.Transaction{
		tx(util.NewDate(2020, 1, 1), 1, "WIN", domain.ActionBuy, 10, 100),
		tx(util.NewDate(2020, 6, 1), 1, "WIN", domain.ActionSell, 10, 140),
	}

	result := calc.attributeTrades(transactions)
	require.Zero(t, result.ProfitFactor)
}

func TestTopLosersOrderedWorstFirst(t *testing.T) {
	result := attributionResult{
		PerSecurity: []domain.SecurityPerformance{
			{SecurityID: 1, Symbol: "A", TotalReturn: 12},
			{SecurityID: 2, Symbol: "B", TotalReturn: -30},
			{SecurityID: 3, Symbol: "C", TotalReturn: -5},
			{SecurityID: 4, Symbol: "D", TotalReturn: 40},
		},
	}

	losers := result.TopLosers(2)
	require.Equal(t, "B", losers[0].Symbol)
	require.Equal(t, "C", losers[1].Symbol)

	winners := result.TopWinners(2)
	require.Equal(t, "D", winners[0].Symbol)
	require.Equal(t, "A", winners[1].Symbol)
}

func TestAttributeTradesEmptyHistory(t *testing.T) {
	calc := NewPerformanceCalculator()
	result := calc.attributeTrades(nil)
	require.Zero(t, result.TotalTrades)
	require.Zero(t, result.WinRate)
	require.Empty(t, result.PerSecurity)
}
