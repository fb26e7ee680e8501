package api

import (
	"context"
	"screenerbacktest/internal/domain"
	"screenerbacktest/internal/logger"
	"screenerbacktest/internal/util"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type BacktestRequest struct {
	StartDate          string  `json:"startDate"`
	EndDate            string  `json:"endDate"`
	PortfolioSize      int     `json:"portfolioSize"`
	RebalanceFrequency string  `json:"rebalanceFrequency"`
	WeightingMethod    string  `json:"weightingMethod"`
	InitialCapital     float64 `json:"initialCapital"`

	// market-cap bounds in crores
	MinMarketCap *float64 `json:"minMarketCap"`
	MaxMarketCap *float64 `json:"maxMarketCap"`
	MinRoce      *float64 `json:"minRoce"`
	PatPositive  bool     `json:"patPositive"`

	RankingMetrics []struct {
		Name           string `json:"name"`
		HigherIsBetter bool   `json:"higherIsBetter"`
	} `json:"rankingMetrics"`
	ScoreExpression string `json:"scoreExpression"`

	BenchmarkSymbol string `json:"benchmarkSymbol"`
}

func (r BacktestRequest) toDomain() (domain.BacktestRequest, error) {
	out := domain.BacktestRequest{
		PortfolioSize:      r.PortfolioSize,
		RebalanceFrequency: domain.RebalanceFrequency(r.RebalanceFrequency),
		WeightingMethod:    domain.WeightingMethod(r.WeightingMethod),
		InitialCapital:     decimal.NewFromFloat(r.InitialCapital),
		PatPositive:        r.PatPositive,
		ScoreExpression:    r.ScoreExpression,
		BenchmarkSymbol:    r.BenchmarkSymbol,
	}

	var err error
	out.StartDate, err = time.Parse(time.DateOnly, r.StartDate)
	if err != nil {
		return out, err
	}
	out.EndDate, err = time.Parse(time.DateOnly, r.EndDate)
	if err != nil {
		return out, err
	}

	if r.MinMarketCap != nil {
		out.MinMarketCap = util.DecimalPointer(decimal.NewFromFloat(*r.MinMarketCap))
	}
	if r.MaxMarketCap != nil {
		out.MaxMarketCap = util.DecimalPointer(decimal.NewFromFloat(*r.MaxMarketCap))
	}
	if r.MinRoce != nil {
		out.MinRoce = util.DecimalPointer(decimal.NewFromFloat(*r.MinRoce))
	}

	for _, m := range r.RankingMetrics {
		out.RankingMetrics = append(out.RankingMetrics, domain.RankingMetric{
			Name:           m.Name,
			HigherIsBetter: m.HigherIsBetter,
		})
	}

	return out, nil
}

func (m ApiHandler) backtest(c *gin.Context) {
	var requestBody BacktestRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	req, err := requestBody.toDomain()
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	profile := domain.NewRunProfile()
	ctx := context.WithValue(c.Request.Context(), domain.ContextProfileKey, profile)

	report, err := m.BacktestService.Run(ctx, req)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	profile.End()
	logger.FromContext(ctx).Infow("backtest profile",
		"totalMs", profile.TotalMs, "phases", len(profile.Phases))

	c.JSON(200, gin.H{
		"message": "backtest completed",
		"data":    report,
	})
}
