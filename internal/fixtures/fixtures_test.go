package fixtures

import (
	"os"
	"path/filepath"
	"screenerbacktest/internal/util"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPrices(t *testing.T) {
	path := writeFixture(t, "prices.csv",
		"security_id,date,close,adjusted_close\n"+
			"1,2020-01-01,100.5,\n"+
			"1,2020-01-02,101.25,50.625\n")

	prices, err := LoadPrices(path)
	require.NoError(t, err)
	require.Len(t, prices, 2)

	require.Equal(t, int64(1), prices[0].SecurityID)
	require.Equal(t, util.NewDate(2020, 1, 1), prices[0].Date)
	require.Equal(t, "100.5", prices[0].Close.String())
	require.Nil(t, prices[0].AdjustedClose)

	require.NotNil(t, prices[1].AdjustedClose)
	require.Equal(t, "50.625", prices[1].AdjustedClose.String())
}

func TestLoadPricesDropsZeroAdjustedClose(t *testing.T) {
	path := writeFixture(t, "prices.csv",
		"security_id,date,close,adjusted_close\n"+
			"1,2020-01-01,100,0\n")

	prices, err := LoadPrices(path)
	require.NoError(t, err)
	require.Len(t, prices, 1)
	require.Nil(t, prices[0].AdjustedClose)
}

func TestLoadPricesRejectsBadDate(t *testing.T) {
	path := writeFixture(t, "prices.csv",
		"security_id,date,close,adjusted_close\n"+
			"1,01/02/2020,100,\n")

	_, err := LoadPrices(path)
	require.Error(t, err)
}

func TestDatasetLatestFundamentals(t *testing.T) {
	companies := writeFixture(t, "companies.csv",
		"id,symbol,name\n1,ACME,Acme Industries\n")
	prices := writeFixture(t, "prices.csv",
		"security_id,date,close,adjusted_close\n1,2020-01-01,100,\n")
	fundamentals := writeFixture(t, "fundamentals.csv",
		"security_id,report_date,period_type,revenue,pat,market_cap,roce,roe,eps,pe_ratio,debt_to_equity\n"+
			"1,2019-12-31,Q,1000,50,90000,20,,,,\n"+
			"1,2020-03-31,Q,1100,60,95000,22,,,,\n")

	dataset, err := LoadDataset(companies, prices, fundamentals)
	require.NoError(t, err)

	repo := dataset.FundamentalsRepository()

	// mid-period asOf picks the earlier snapshot
	snapshot, err := repo.Latest(1, util.NewDate(2020, 2, 1))
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	require.Equal(t, util.NewDate(2019, 12, 31), snapshot.ReportDate)

	snapshot, err = repo.Latest(1, util.NewDate(2020, 6, 30))
	require.NoError(t, err)
	require.Equal(t, util.NewDate(2020, 3, 31), snapshot.ReportDate)

	// nothing reported yet
	snapshot, err = repo.Latest(1, util.NewDate(2019, 1, 1))
	require.NoError(t, err)
	require.Nil(t, snapshot)

	rows, err := repo.ListLatest(util.NewDate(2020, 6, 30))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "ACME", rows[0].Security.Symbol)
}
