package fixtures

import (
	"screenerbacktest/internal/domain"
	"screenerbacktest/internal/repository"
	"sort"
	"time"
)

// Dataset is an in-memory stand-in for the database, built from CSV
// fixtures. It satisfies the repository interfaces so the engine runs
// unchanged against it.
type Dataset struct {
	Companies    []domain.Security
	Prices       []domain.PricePoint
	Fundamentals []domain.FundamentalSnapshot
}

// LoadDataset reads the three fixture files and indexes them.
func LoadDataset(companiesPath, pricesPath, fundamentalsPath string) (*Dataset, error) {
	companies, err := LoadCompanies(companiesPath)
	if err != nil {
		return nil, err
	}
	prices, err := LoadPrices(pricesPath)
	if err != nil {
		return nil, err
	}
	fundamentals, err := LoadFundamentals(fundamentalsPath)
	if err != nil {
		return nil, err
	}

	sort.Slice(prices, func(i, j int) bool { return prices[i].Date.Before(prices[j].Date) })

	return &Dataset{
		Companies:    companies,
		Prices:       prices,
		Fundamentals: fundamentals,
	}, nil
}

func (d *Dataset) CompanyRepository() repository.CompanyRepository {
	return datasetCompanies{d}
}

func (d *Dataset) PriceRepository() repository.PriceRepository {
	return datasetPrices{d}
}

func (d *Dataset) FundamentalsRepository() repository.FundamentalsRepository {
	return datasetFundamentals{d}
}

type datasetCompanies struct{ d *Dataset }

func (r datasetCompanies) Get(securityID int64) (*domain.Security, error) {
	for _, c := range r.d.Companies {
		if c.SecurityID == securityID {
			return &c, nil
		}
	}
	return nil, nil
}

func (r datasetCompanies) GetBySymbol(symbol string) (*domain.Security, error) {
	for _, c := range r.d.Companies {
		if c.Symbol == symbol {
			return &c, nil
		}
	}
	return nil, nil
}

func (r datasetCompanies) ListActive() ([]domain.Security, error) {
	out := make([]domain.Security, len(r.d.Companies))
	copy(out, r.d.Companies)
	sort.Slice(out, func(i, j int) bool { return out[i].SecurityID < out[j].SecurityID })
	return out, nil
}

func (r datasetCompanies) Stats() (*repository.UniverseStats, error) {
	withFundamentals := map[int64]bool{}
	for _, f := range r.d.Fundamentals {
		withFundamentals[f.SecurityID] = true
	}
	return &repository.UniverseStats{
		TotalSecurities:            int64(len(r.d.Companies)),
		SecuritiesWithFundamentals: int64(len(withFundamentals)),
	}, nil
}

type datasetPrices struct{ d *Dataset }

func (r datasetPrices) ListBetween(securityIDs []int64, start, end time.Time) ([]domain.PricePoint, error) {
	wanted := map[int64]bool{}
	for _, id := range securityIDs {
		wanted[id] = true
	}

	out := []domain.PricePoint{}
	for _, p := range r.d.Prices {
		if !wanted[p.SecurityID] || p.Date.Before(start) || p.Date.After(end) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type datasetFundamentals struct{ d *Dataset }

func (r datasetFundamentals) Latest(securityID int64, asOf time.Time) (*domain.FundamentalSnapshot, error) {
	var latest *domain.FundamentalSnapshot
	for i := range r.d.Fundamentals {
		f := r.d.Fundamentals[i]
		if f.SecurityID != securityID || f.ReportDate.After(asOf) {
			continue
		}
		if latest == nil || f.ReportDate.After(latest.ReportDate) {
			latest = &f
		}
	}
	return latest, nil
}

func (r datasetFundamentals) ListLatest(asOf time.Time) ([]repository.SecurityFundamentals, error) {
	companies, _ := datasetCompanies{r.d}.ListActive()

	out := []repository.SecurityFundamentals{}
	for _, c := range companies {
		latest, err := r.Latest(c.SecurityID, asOf)
		if err != nil {
			return nil, err
		}
		if latest == nil {
			continue
		}
		out = append(out, repository.SecurityFundamentals{
			Security:     c,
			Fundamentals: *latest,
		})
	}
	return out, nil
}
