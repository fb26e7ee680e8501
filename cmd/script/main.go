package main

import (
	"context"
	"fmt"
	"log"
	"screenerbacktest/internal/calculator"
	"screenerbacktest/internal/domain"
	"screenerbacktest/internal/fixtures"
	l2_service "screenerbacktest/internal/service/l2"
	l3_service "screenerbacktest/internal/service/l3"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// Runs a backtest against CSV fixtures and prints the plain-text
// report. Useful for validating strategy parameters without a
// database.

var flags struct {
	companiesPath    string
	pricesPath       string
	fundamentalsPath string

	start     string
	end       string
	size      int
	frequency string
	method    string
	capital   float64

	minMarketCap float64
	minRoce      float64
	patPositive  bool
	metrics      []string
	expression   string
}

var rootCmd = &cobra.Command{
	Use:   "backtest",
	Short: "run a screener backtest from CSV fixtures",
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := buildRequest()
		if err != nil {
			return err
		}

		dataset, err := fixtures.LoadDataset(flags.companiesPath, flags.pricesPath, flags.fundamentalsPath)
		if err != nil {
			return err
		}

		backtestService := l3_service.NewBacktestService(
			dataset.PriceRepository(),
			l2_service.NewScreenerService(dataset.FundamentalsRepository()),
			calculator.NewPerformanceCalculator(),
		)

		profile := domain.NewRunProfile()
		ctx := context.WithValue(context.Background(), domain.ContextProfileKey, profile)

		report, err := backtestService.Run(ctx, req)
		if err != nil {
			return err
		}
		profile.End()

		fmt.Print(report.RenderText())
		fmt.Printf("completed in %dms over %d phases\n", profile.TotalMs, len(profile.Phases))
		return nil
	},
}

func buildRequest() (domain.BacktestRequest, error) {
	req := domain.BacktestRequest{
		PortfolioSize:      flags.size,
		RebalanceFrequency: domain.RebalanceFrequency(flags.frequency),
		WeightingMethod:    domain.WeightingMethod(flags.method),
		InitialCapital:     decimal.NewFromFloat(flags.capital),
		PatPositive:        flags.patPositive,
		ScoreExpression:    flags.expression,
	}

	var err error
	req.StartDate, err = time.Parse(time.DateOnly, flags.start)
	if err != nil {
		return req, fmt.Errorf("invalid --start: %w", err)
	}
	req.EndDate, err = time.Parse(time.DateOnly, flags.end)
	if err != nil {
		return req, fmt.Errorf("invalid --end: %w", err)
	}

	if flags.minMarketCap > 0 {
		v := decimal.NewFromFloat(flags.minMarketCap)
		req.MinMarketCap = &v
	}
	if flags.minRoce > 0 {
		v := decimal.NewFromFloat(flags.minRoce)
		req.MinRoce = &v
	}

	// metrics are name or name:asc, where asc means lower is better
	for _, m := range flags.metrics {
		metric := domain.RankingMetric{Name: m, HigherIsBetter: true}
		if n, found := strings.CutSuffix(m, ":asc"); found {
			metric = domain.RankingMetric{Name: n, HigherIsBetter: false}
		}
		req.RankingMetrics = append(req.RankingMetrics, metric)
	}

	return req, nil
}

func init() {
	rootCmd.Flags().StringVar(&flags.companiesPath, "companies", "companies.csv", "companies fixture path")
	rootCmd.Flags().StringVar(&flags.pricesPath, "prices", "prices.csv", "prices fixture path")
	rootCmd.Flags().StringVar(&flags.fundamentalsPath, "fundamentals", "fundamentals.csv", "fundamentals fixture path")

	rootCmd.Flags().StringVar(&flags.start, "start", "", "backtest start date (YYYY-MM-DD)")
	rootCmd.Flags().StringVar(&flags.end, "end", "", "backtest end date (YYYY-MM-DD)")
	rootCmd.Flags().IntVar(&flags.size, "size", 10, "portfolio size")
	rootCmd.Flags().StringVar(&flags.frequency, "frequency", "quarterly", "rebalance frequency (quarterly|yearly)")
	rootCmd.Flags().StringVar(&flags.method, "method", "equal", "weighting method (equal|market_cap|metric_weighted)")
	rootCmd.Flags().Float64Var(&flags.capital, "capital", 1_000_000, "initial capital")

	rootCmd.Flags().Float64Var(&flags.minMarketCap, "min-market-cap", 0, "minimum market cap in crores")
	rootCmd.Flags().Float64Var(&flags.minRoce, "min-roce", 0, "minimum return on capital employed")
	rootCmd.Flags().BoolVar(&flags.patPositive, "pat-positive", false, "require positive profit after tax")
	rootCmd.Flags().StringSliceVar(&flags.metrics, "metric", []string{"roce"}, "ranking metrics, name or name:asc")
	rootCmd.Flags().StringVar(&flags.expression, "expression", "", "custom score expression, e.g. 'roce * 2 - debt_to_equity'")

	rootCmd.MarkFlagRequired("start")
	rootCmd.MarkFlagRequired("end")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
