package l3_service

import (
	"context"
	"fmt"
	"math"
	"screenerbacktest/internal/calculator"
	"screenerbacktest/internal/domain"
	"screenerbacktest/internal/ledger"
	"screenerbacktest/internal/logger"
	"screenerbacktest/internal/repository"
	l1_service "screenerbacktest/internal/service/l1"
	l2_service "screenerbacktest/internal/service/l2"
	"screenerbacktest/internal/util"
	"time"

	"github.com/shopspring/decimal"
)

type BacktestService interface {
	// Run executes one backtest. Configuration errors fail immediately;
	// everything after validation is reported inside the result rather
	// than surfaced as an error, except context cancellation.
	Run(ctx context.Context, req domain.BacktestRequest) (*domain.BacktestReport, error)
}

func NewBacktestService(
	priceRepository repository.PriceRepository,
	screenerService l2_service.ScreenerService,
	performanceCalculator calculator.PerformanceCalculator,
) BacktestService {
	return backtestServiceHandler{
		PriceRepository:       priceRepository,
		ScreenerService:       screenerService,
		PerformanceCalculator: performanceCalculator,
	}
}

type backtestServiceHandler struct {
	PriceRepository       repository.PriceRepository
	ScreenerService       l2_service.ScreenerService
	PerformanceCalculator calculator.PerformanceCalculator
}

func (h backtestServiceHandler) Run(ctx context.Context, req domain.BacktestRequest) (*domain.BacktestReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	profile := domain.RunProfileFromContext(ctx)
	book := ledger.New(req.InitialCapital, log)

	// the price cache must not outlive this run, so each run gets a
	// fresh resolver over the shared repository
	prices := l1_service.NewPriceService(h.PriceRepository)

	rebalanceDates := rebalanceDates(req.StartDate, req.EndDate, req.RebalanceFrequency)
	skipped := 0

	// the dates must run in order - every rebalance depends on the
	// ledger state the previous one produced
	for _, date := range rebalanceDates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		executed, err := h.rebalanceAt(ctx, prices, book, req, date)
		if err != nil {
			log.Errorw("rebalance failed, skipping date",
				"date", date.Format(time.DateOnly), "error", err)
			skipped++
			continue
		}
		if !executed {
			skipped++
		}
		profile.Mark("rebalance " + date.Format(time.DateOnly))
	}

	unliquidated, err := h.liquidate(ctx, prices, book, req.EndDate)
	if err != nil {
		return nil, err
	}
	profile.Mark("liquidation")

	report := h.assembleReport(book, req, rebalanceDates, skipped, unliquidated)
	profile.Mark("analytics")
	return report, nil
}

// rebalanceDates is the start date plus every calendar period end
// strictly between start and end. The end date itself is the
// liquidation point, never a rebalance.
func rebalanceDates(start, end time.Time, frequency domain.RebalanceFrequency) []time.Time {
	periodEnd := util.QuarterEnd
	if frequency == domain.RebalanceYearly {
		periodEnd = util.YearEnd
	}

	dates := []time.Time{start}
	for d := periodEnd(start); d.Before(end); d = periodEnd(d.AddDate(0, 0, 1)) {
		if d.After(start) {
			dates = append(dates, d)
		}
	}
	return dates
}

// rebalanceAt runs one date's selection, allocation and trade cycle.
// The bool mirrors the ledger's: false means the date was skipped under
// the drift tolerance.
func (h backtestServiceHandler) rebalanceAt(ctx context.Context, prices l1_service.PriceService, book *ledger.Ledger, req domain.BacktestRequest, date time.Time) (bool, error) {
	log := logger.FromContext(ctx)

	candidates, err := h.ScreenerService.Select(ctx, req, date)
	if err != nil {
		return false, err
	}
	if len(candidates) == 0 {
		return false, fmt.Errorf("no securities passed the screen on %s", date.Format(time.DateOnly))
	}

	weights, err := l2_service.Allocate(candidates, req.WeightingMethod)
	if err != nil {
		return false, err
	}

	// price the candidates; the unpriceable and the zero-weighted fall
	// out here and the surviving weights are renormalized
	targets := []ledger.Target{}
	targetWeight := decimal.Zero
	for _, c := range candidates {
		weight := weights[c.Security.SecurityID]
		if !weight.IsPositive() {
			continue
		}
		resolved, err := prices.Resolve(ctx, c.Security.SecurityID, date)
		if err != nil {
			return false, err
		}
		if resolved == nil {
			log.Warnw("excluding unpriceable security from rebalance",
				"symbol", c.Security.Symbol, "date", date.Format(time.DateOnly))
			continue
		}
		targets = append(targets, ledger.Target{
			Security: c.Security,
			Weight:   weight,
			Price:    resolved.Price,
		})
		targetWeight = targetWeight.Add(weight)
	}
	if len(targets) == 0 {
		return false, fmt.Errorf("no target security could be priced on %s", date.Format(time.DateOnly))
	}
	if !targetWeight.Equal(decimal.NewFromInt(1)) && targetWeight.IsPositive() {
		for i := range targets {
			targets[i].Weight = targets[i].Weight.DivRound(targetWeight, domain.WeightPlaces)
		}
	}

	heldPrices, err := h.heldPrices(ctx, prices, book, date)
	if err != nil {
		return false, err
	}

	return book.Rebalance(date, targets, heldPrices)
}

func (h backtestServiceHandler) heldPrices(ctx context.Context, priceService l1_service.PriceService, book *ledger.Ledger, date time.Time) (map[int64]decimal.Decimal, error) {
	held := book.HeldSecurityIDs()
	if len(held) == 0 {
		return map[int64]decimal.Decimal{}, nil
	}

	resolved, err := priceService.ResolveMany(ctx, held, date)
	if err != nil {
		return nil, err
	}

	prices := map[int64]decimal.Decimal{}
	for id, r := range resolved {
		prices[id] = r.Price
	}
	return prices, nil
}

func (h backtestServiceHandler) liquidate(ctx context.Context, priceService l1_service.PriceService, book *ledger.Ledger, endDate time.Time) ([]domain.UnliquidatedPosition, error) {
	prices, err := h.heldPrices(ctx, priceService, book, endDate)
	if err != nil {
		return nil, err
	}
	return book.Liquidate(endDate, prices), nil
}

func (h backtestServiceHandler) assembleReport(book *ledger.Ledger, req domain.BacktestRequest, rebalanceDates []time.Time, skipped int, unliquidated []domain.UnliquidatedPosition) *domain.BacktestReport {
	snapshots := book.Snapshots()
	transactions := book.Transactions()

	finalValue := book.Cash()
	if len(snapshots) > 0 {
		finalValue = snapshots[len(snapshots)-1].TotalValue
	}

	report := &domain.BacktestReport{
		StartDate:             req.StartDate,
		EndDate:               req.EndDate,
		InitialCapital:        req.InitialCapital,
		FinalValue:            finalValue,
		TotalProfitLoss:       finalValue.Sub(req.InitialCapital),
		RebalanceDates:        rebalanceDates,
		SkippedRebalances:     skipped,
		TotalTransactions:     len(transactions),
		Transactions:          transactions,
		Snapshots:             snapshots,
		UnliquidatedPositions: unliquidated,
	}

	for _, tx := range transactions {
		switch tx.Action {
		case domain.ActionBuy:
			report.BuyTransactions++
		case domain.ActionSell:
			report.SellTransactions++
		}
	}

	if req.InitialCapital.IsPositive() {
		totalReturn, _ := finalValue.Sub(req.InitialCapital).Div(req.InitialCapital).Float64()
		report.TotalReturnPct = totalReturn * 100
		report.AnnualizedReturn = annualizedReturn(req.InitialCapital, finalValue, req.StartDate, req.EndDate)
	}

	report.Performance = h.PerformanceCalculator.Compute(snapshots, transactions)
	return report
}

// annualizedReturn compounds the total growth over the elapsed days.
// Zero or negative elapsed time reports zero rather than dividing by
// zero.
func annualizedReturn(initial, final decimal.Decimal, start, end time.Time) float64 {
	days := end.Sub(start).Hours() / 24
	if days <= 0 || !initial.IsPositive() || !final.IsPositive() {
		return 0
	}
	growth, _ := final.Div(initial).Float64()
	return (math.Pow(growth, 365.25/days) - 1) * 100
}
