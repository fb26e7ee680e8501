package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"screenerbacktest/internal/db/models/postgres/public/model"
	"screenerbacktest/internal/db/models/postgres/public/table"
	"screenerbacktest/internal/domain"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
)

type CompanyRepository interface {
	Get(securityID int64) (*domain.Security, error)
	GetBySymbol(symbol string) (*domain.Security, error)
	ListActive() ([]domain.Security, error)
	Stats() (*UniverseStats, error)
}

type UniverseStats struct {
	TotalSecurities            int64 `json:"totalSecurities"`
	TotalSectors               int64 `json:"totalSectors"`
	SecuritiesWithFundamentals int64 `json:"securitiesWithFundamentals"`
}

func NewCompanyRepository(db *sql.DB) CompanyRepository {
	return companyRepositoryHandler{Db: db}
}

type companyRepositoryHandler struct {
	Db *sql.DB
}

func (h companyRepositoryHandler) Get(securityID int64) (*domain.Security, error) {
	query := table.Company.
		SELECT(table.Company.AllColumns).
		WHERE(table.Company.ID.EQ(postgres.Int64(securityID)))

	out := model.Company{}
	err := query.Query(h.Db, &out)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get company %d: %w", securityID, err)
	}

	return securityFromModel(out), nil
}

func (h companyRepositoryHandler) GetBySymbol(symbol string) (*domain.Security, error) {
	query := table.Company.
		SELECT(table.Company.AllColumns).
		WHERE(table.Company.Symbol.EQ(postgres.String(symbol)))

	out := model.Company{}
	err := query.Query(h.Db, &out)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get company %s: %w", symbol, err)
	}

	return securityFromModel(out), nil
}

func (h companyRepositoryHandler) ListActive() ([]domain.Security, error) {
	query := table.Company.
		SELECT(table.Company.AllColumns).
		WHERE(table.Company.IsActive.IS_TRUE()).
		ORDER_BY(table.Company.ID.ASC())

	results := []model.Company{}
	err := query.Query(h.Db, &results)
	if err != nil {
		return nil, fmt.Errorf("failed to list active companies: %w", err)
	}

	out := make([]domain.Security, 0, len(results))
	for _, c := range results {
		out = append(out, *securityFromModel(c))
	}

	return out, nil
}

func (h companyRepositoryHandler) Stats() (*UniverseStats, error) {
	query := table.Company.
		LEFT_JOIN(table.FundamentalData, table.FundamentalData.CompanyID.EQ(table.Company.ID)).
		SELECT(
			postgres.COUNT(postgres.DISTINCT(table.Company.ID)).AS("stats.total_securities"),
			postgres.COUNT(postgres.DISTINCT(table.Company.Sector)).AS("stats.total_sectors"),
			postgres.COUNT(postgres.DISTINCT(table.FundamentalData.CompanyID)).AS("stats.securities_with_fundamentals"),
		).
		WHERE(table.Company.IsActive.IS_TRUE())

	out := struct {
		TotalSecurities            int64 `alias:"stats.total_securities"`
		TotalSectors               int64 `alias:"stats.total_sectors"`
		SecuritiesWithFundamentals int64 `alias:"stats.securities_with_fundamentals"`
	}{}
	err := query.Query(h.Db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to get universe stats: %w", err)
	}

	return &UniverseStats{
		TotalSecurities:            out.TotalSecurities,
		TotalSectors:               out.TotalSectors,
		SecuritiesWithFundamentals: out.SecuritiesWithFundamentals,
	}, nil
}

func securityFromModel(c model.Company) *domain.Security {
	return &domain.Security{
		SecurityID: c.ID,
		Symbol:     c.Symbol,
		Name:       c.Name,
	}
}
