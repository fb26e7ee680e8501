package fixtures

import (
	"fmt"
	"os"
	"screenerbacktest/internal/domain"
	"screenerbacktest/internal/util"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// CSV fixture loading. The script runner and tests feed the engine
// from flat files with these layouts instead of a live database.

type companyRow struct {
	ID     int64  `csv:"id"`
	Symbol string `csv:"symbol"`
	Name   string `csv:"name"`
}

type priceRow struct {
	SecurityID    int64    `csv:"security_id"`
	Date          string   `csv:"date"`
	Close         float64  `csv:"close"`
	AdjustedClose *float64 `csv:"adjusted_close"`
}

type fundamentalRow struct {
	SecurityID   int64    `csv:"security_id"`
	ReportDate   string   `csv:"report_date"`
	PeriodType   string   `csv:"period_type"`
	Revenue      *float64 `csv:"revenue"`
	Pat          *float64 `csv:"pat"`
	MarketCap    *float64 `csv:"market_cap"`
	Roce         *float64 `csv:"roce"`
	Roe          *float64 `csv:"roe"`
	Eps          *float64 `csv:"eps"`
	PeRatio      *float64 `csv:"pe_ratio"`
	DebtToEquity *float64 `csv:"debt_to_equity"`
}

func LoadCompanies(path string) ([]domain.Security, error) {
	rows := []companyRow{}
	if err := unmarshalFile(path, &rows); err != nil {
		return nil, err
	}

	out := make([]domain.Security, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Security{
			SecurityID: row.ID,
			Symbol:     row.Symbol,
			Name:       row.Name,
		})
	}
	return out, nil
}

func LoadPrices(path string) ([]domain.PricePoint, error) {
	rows := []priceRow{}
	if err := unmarshalFile(path, &rows); err != nil {
		return nil, err
	}

	out := make([]domain.PricePoint, 0, len(rows))
	for _, row := range rows {
		date, err := time.Parse(time.DateOnly, row.Date)
		if err != nil {
			return nil, fmt.Errorf("%s: bad date %q: %w", path, row.Date, err)
		}
		out = append(out, domain.PricePoint{
			SecurityID:    row.SecurityID,
			Date:          date,
			Close:         util.DecimalPointer(decimal.NewFromFloat(row.Close)),
			AdjustedClose: optionalPrice(row.AdjustedClose),
		})
	}
	return out, nil
}

func LoadFundamentals(path string) ([]domain.FundamentalSnapshot, error) {
	rows := []fundamentalRow{}
	if err := unmarshalFile(path, &rows); err != nil {
		return nil, err
	}

	out := make([]domain.FundamentalSnapshot, 0, len(rows))
	for _, row := range rows {
		date, err := time.Parse(time.DateOnly, row.ReportDate)
		if err != nil {
			return nil, fmt.Errorf("%s: bad report date %q: %w", path, row.ReportDate, err)
		}
		out = append(out, domain.FundamentalSnapshot{
			SecurityID:   row.SecurityID,
			ReportDate:   date,
			PeriodType:   domain.PeriodType(row.PeriodType),
			Revenue:      optionalDecimal(row.Revenue),
			Pat:          optionalDecimal(row.Pat),
			MarketCap:    optionalDecimal(row.MarketCap),
			Roce:         optionalDecimal(row.Roce),
			Roe:          optionalDecimal(row.Roe),
			Eps:          optionalDecimal(row.Eps),
			PeRatio:      optionalDecimal(row.PeRatio),
			DebtToEquity: optionalDecimal(row.DebtToEquity),
		})
	}
	return out, nil
}

func unmarshalFile(path string, out interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := gocsv.UnmarshalFile(f, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func optionalDecimal(v *float64) *decimal.Decimal {
	if v == nil {
		return nil
	}
	return util.DecimalPointer(decimal.NewFromFloat(*v))
}

// optionalPrice treats empty and non-positive price cells as absent.
// gocsv unmarshals an empty cell into a pointer to zero, and a zero
// price must never enter the store.
func optionalPrice(v *float64) *decimal.Decimal {
	if v == nil || *v <= 0 {
		return nil
	}
	return util.DecimalPointer(decimal.NewFromFloat(*v))
}
