package calculator

import (
	"math"
	"screenerbacktest/internal/domain"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type attributionResult struct {
	PerSecurity []domain.SecurityPerformance

	WinRate      float64
	ProfitFactor float64
	TotalTrades  int
}

func (r attributionResult) TopWinners(n int) []domain.SecurityPerformance {
	ranked := make([]domain.SecurityPerformance, len(r.PerSecurity))
	copy(ranked, r.PerSecurity)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalReturn > ranked[j].TotalReturn
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// TopLosers ranks worst-first.
func (r attributionResult) TopLosers(n int) []domain.SecurityPerformance {
	ranked := make([]domain.SecurityPerformance, len(r.PerSecurity))
	copy(ranked, r.PerSecurity)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalReturn < ranked[j].TotalReturn
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// attributeTrades runs FIFO matching per security. Securities are
// independent of one another, so they are dispatched to a bounded
// worker pool; the transaction order within one security is preserved
// by the grouping, which keeps the matching deterministic.
func (c PerformanceCalculator) attributeTrades(transactions []domain.Transaction) attributionResult {
	grouped := map[int64][]domain.Transaction{}
	ids := []int64{}
	for _, tx := range transactions {
		if _, seen := grouped[tx.SecurityID]; !seen {
			ids = append(ids, tx.SecurityID)
		}
		grouped[tx.SecurityID] = append(grouped[tx.SecurityID], tx)
	}

	workers := c.AttributionWorkers
	if workers < 1 {
		workers = 1
	}

	work := make(chan int64)
	results := make(chan securityAttribution)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range work {
				results <- matchSecurityTrades(grouped[id])
			}
		}()
	}

	go func() {
		for _, id := range ids {
			work <- id
		}
		close(work)
		wg.Wait()
		close(results)
	}()

	perSecurity := []securityAttribution{}
	for r := range results {
		perSecurity = append(perSecurity, r)
	}
	sort.Slice(perSecurity, func(i, j int) bool {
		return perSecurity[i].Performance.SecurityID < perSecurity[j].Performance.SecurityID
	})

	out := attributionResult{}
	wins := 0
	grossProfit := decimal.Zero
	grossLoss := decimal.Zero
	for _, s := range perSecurity {
		out.PerSecurity = append(out.PerSecurity, s.Performance)
		out.TotalTrades += s.Performance.Trades
		wins += s.Wins
		grossProfit = grossProfit.Add(s.GrossProfit)
		grossLoss = grossLoss.Add(s.GrossLoss)
	}

	if out.TotalTrades > 0 {
		out.WinRate = float64(wins) / float64(out.TotalTrades)
	}
	if grossLoss.IsPositive() {
		out.ProfitFactor, _ = grossProfit.Div(grossLoss).Float64()
	}

	return out
}

type securityAttribution struct {
	Performance domain.SecurityPerformance

	Wins        int
	GrossProfit decimal.Decimal
	GrossLoss   decimal.Decimal
}

// matchSecurityTrades consumes one security's chronological transaction
// list. Each sell closes against the oldest open buy lots first and
// counts as one round-trip trade; whatever remains open at the end
// contributes holding period but no realized P&L.
func matchSecurityTrades(transactions []domain.Transaction) securityAttribution {
	type openLot struct {
		quantity decimal.Decimal
		unitCost decimal.Decimal
	}

	out := securityAttribution{
		GrossProfit: decimal.Zero,
		GrossLoss:   decimal.Zero,
	}
	if len(transactions) == 0 {
		return out
	}

	first := transactions[0]
	out.Performance = domain.SecurityPerformance{
		SecurityID:   first.SecurityID,
		Symbol:       first.Symbol,
		SecurityName: first.SecurityName,
		TotalPnl:     decimal.Zero,
	}

	openLots := []openLot{}
	matchedCost := decimal.Zero
	firstBuy := first.Date
	lastBuy := first.Date
	var lastSell *time.Time

	for _, tx := range transactions {
		switch tx.Action {
		case domain.ActionBuy:
			openLots = append(openLots, openLot{quantity: tx.Quantity, unitCost: tx.Price})
			lastBuy = tx.Date

		case domain.ActionSell:
			remaining := tx.Quantity
			pnl := decimal.Zero
			cost := decimal.Zero
			for len(openLots) > 0 && remaining.IsPositive() {
				lot := &openLots[0]
				matched := decimal.Min(lot.quantity, remaining)
				pnl = pnl.Add(matched.Mul(tx.Price.Sub(lot.unitCost)))
				cost = cost.Add(matched.Mul(lot.unitCost))
				lot.quantity = lot.quantity.Sub(matched)
				remaining = remaining.Sub(matched)
				if lot.quantity.IsZero() {
					openLots = openLots[1:]
				}
			}

			pnl = domain.RoundCurrency(pnl)
			out.Performance.TotalPnl = out.Performance.TotalPnl.Add(pnl)
			out.Performance.Trades++
			matchedCost = matchedCost.Add(cost)
			if pnl.IsPositive() {
				out.Wins++
				out.GrossProfit = out.GrossProfit.Add(pnl)
			} else if pnl.IsNegative() {
				out.GrossLoss = out.GrossLoss.Add(pnl.Abs())
			}
			sellDate := tx.Date
			lastSell = &sellDate
		}
	}

	if out.Performance.Trades > 0 {
		out.Performance.WinRate = float64(out.Wins) / float64(out.Performance.Trades)
	}
	if matchedCost.IsPositive() {
		ret, _ := out.Performance.TotalPnl.Div(matchedCost).Float64()
		out.Performance.TotalReturn = ret * 100
	}

	// the holding period closes at the last sell; a position never sold
	// runs through its last buy instead
	periodEnd := lastBuy
	if lastSell != nil {
		periodEnd = *lastSell
	}

	days := int(periodEnd.Sub(firstBuy).Hours() / 24)
	out.Performance.HoldingDays = days
	if days > 0 {
		growth := 1 + out.Performance.TotalReturn/100
		if growth > 0 {
			out.Performance.AnnualizedReturn = (math.Pow(growth, 365.25/float64(days)) - 1) * 100
		}
	}

	return out
}
