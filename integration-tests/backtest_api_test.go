package integration_tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"screenerbacktest/api"
	"screenerbacktest/internal/calculator"
	"screenerbacktest/internal/domain"
	"screenerbacktest/internal/fixtures"
	l2_service "screenerbacktest/internal/service/l2"
	l3_service "screenerbacktest/internal/service/l3"
	"screenerbacktest/internal/util"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const companiesCsv = `id,symbol,name
1,ALPHA,Alpha Industries
2,BRAVO,Bravo Corp
3,CHARLIE,Charlie Ltd
`

// quarterly closes for 2020
const pricesCsv = `security_id,date,close,adjusted_close
1,2020-01-01,100,
1,2020-03-31,120,
1,2020-06-30,140,
1,2020-09-30,150,
1,2020-12-31,160,
2,2020-01-01,100,
2,2020-03-31,100,
2,2020-06-30,100,
2,2020-09-30,100,
2,2020-12-31,100,
3,2020-01-01,50,
3,2020-03-31,50,
3,2020-06-30,50,
3,2020-09-30,50,
3,2020-12-31,80,
`

// CHARLIE overtakes ALPHA mid-year, forcing a composition change at
// the June rebalance
const fundamentalsCsv = `security_id,report_date,period_type,revenue,pat,market_cap,roce,roe,eps,pe_ratio,debt_to_equity
1,2019-12-31,A,5000,400,80000000000,30,,,,
2,2019-12-31,A,4000,300,60000000000,20,,,,
3,2019-12-31,A,1000,50,20000000000,10,,,,
1,2020-06-30,Q,1200,-20,70000000000,5,,,,
3,2020-06-30,Q,800,120,30000000000,40,,,,
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	dataset, err := fixtures.LoadDataset(
		write("companies.csv", companiesCsv),
		write("prices.csv", pricesCsv),
		write("fundamentals.csv", fundamentalsCsv),
	)
	require.NoError(t, err)

	handler := api.ApiHandler{
		BacktestService: l3_service.NewBacktestService(
			dataset.PriceRepository(),
			l2_service.NewScreenerService(dataset.FundamentalsRepository()),
			calculator.NewPerformanceCalculator(),
		),
		CompanyRepository: dataset.CompanyRepository(),
	}

	server := httptest.NewServer(handler.Router())
	t.Cleanup(server.Close)
	return server
}

func TestBacktestEndToEnd(t *testing.T) {
	server := newTestServer(t)

	requestBody := map[string]interface{}{
		"startDate":          "2020-01-01",
		"endDate":            "2020-12-31",
		"portfolioSize":      2,
		"rebalanceFrequency": "quarterly",
		"weightingMethod":    "equal",
		"initialCapital":     100_000,
		"rankingMetrics": []map[string]interface{}{
			{"name": "roce", "higherIsBetter": true},
		},
	}
	payload, err := json.Marshal(requestBody)
	require.NoError(t, err)

	resp, err := http.Post(server.URL+"/backtest", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	var envelope struct {
		Message string                `json:"message"`
		Data    domain.BacktestReport `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Equal(t, "backtest completed", envelope.Message)

	report := envelope.Data
	require.Equal(t, "", cmp.Diff(
		[]time.Time{
			util.NewDate(2020, 1, 1),
			util.NewDate(2020, 3, 31),
			util.NewDate(2020, 6, 30),
			util.NewDate(2020, 9, 30),
		},
		report.RebalanceDates,
	))

	// initial construction holds the top-ranked ALPHA and BRAVO
	require.NotEmpty(t, report.Snapshots)
	first := report.Snapshots[0]
	require.Len(t, first.Holdings, 2)
	require.Equal(t, "ALPHA", first.Holdings[0].Symbol)
	require.Equal(t, "BRAVO", first.Holdings[1].Symbol)

	// the refreshed fundamentals move CHARLIE into the portfolio
	finalHeld := map[string]bool{}
	for _, tx := range report.Transactions {
		if tx.Symbol == "CHARLIE" && tx.Action == domain.ActionBuy {
			finalHeld["CHARLIE"] = true
		}
	}
	require.True(t, finalHeld["CHARLIE"], "expected a CHARLIE buy after the June fundamentals refresh")

	// everything was liquidated at the end date
	require.Empty(t, report.UnliquidatedPositions)
	require.True(t, report.FinalValue.IsPositive())
	require.Equal(t, report.TotalTransactions, report.BuyTransactions+report.SellTransactions)

	// conservation: every snapshot total equals cash plus market value
	decimalComparer := cmp.Comparer(func(d1, d2 decimal.Decimal) bool {
		return d1.Sub(d2).Abs().LessThanOrEqual(decimal.NewFromFloat(0.01))
	})
	for _, snapshot := range report.Snapshots {
		holdingsValue := decimal.Zero
		for _, h := range snapshot.Holdings {
			holdingsValue = holdingsValue.Add(h.MarketValue)
		}
		require.Equal(t, "", cmp.Diff(snapshot.TotalValue, snapshot.Cash.Add(holdingsValue), decimalComparer),
			"snapshot %s", snapshot.Date.Format(time.DateOnly))
	}
}

func TestUniverseEndToEnd(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/universe")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	var envelope struct {
		Data []domain.Security `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Len(t, envelope.Data, 3)
}

func TestBacktestRejectsInvalidConfiguration(t *testing.T) {
	server := newTestServer(t)

	payload := []byte(`{
		"startDate": "2020-01-01",
		"endDate": "2019-01-01",
		"portfolioSize": 2,
		"rebalanceFrequency": "quarterly",
		"weightingMethod": "equal",
		"initialCapital": 100000
	}`)

	resp, err := http.Post(server.URL+"/backtest", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 500, resp.StatusCode)
}
