package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"screenerbacktest/internal/db/models/postgres/public/model"
	"screenerbacktest/internal/db/models/postgres/public/table"
	"screenerbacktest/internal/domain"
	"time"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
)

type FundamentalsRepository interface {
	// Latest returns the snapshot with the greatest report date on or
	// before asOf, or nil when the security has no qualifying snapshot.
	Latest(securityID int64, asOf time.Time) (*domain.FundamentalSnapshot, error)
	// ListLatest returns, for every active company, its latest snapshot
	// on or before asOf, paired with the security identity. Securities
	// without a qualifying snapshot are omitted.
	ListLatest(asOf time.Time) ([]SecurityFundamentals, error)
}

type SecurityFundamentals struct {
	Security     domain.Security
	Fundamentals domain.FundamentalSnapshot
}

func NewFundamentalsRepository(db *sql.DB) FundamentalsRepository {
	return fundamentalsRepositoryHandler{Db: db}
}

type fundamentalsRepositoryHandler struct {
	Db *sql.DB
}

func (h fundamentalsRepositoryHandler) Latest(securityID int64, asOf time.Time) (*domain.FundamentalSnapshot, error) {
	query := table.FundamentalData.
		SELECT(table.FundamentalData.AllColumns).
		WHERE(
			postgres.AND(
				table.FundamentalData.CompanyID.EQ(postgres.Int64(securityID)),
				table.FundamentalData.ReportDate.LT_EQ(postgres.DateT(asOf)),
			),
		).
		ORDER_BY(table.FundamentalData.ReportDate.DESC()).
		LIMIT(1)

	out := model.FundamentalData{}
	err := query.Query(h.Db, &out)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get fundamentals for %d as of %s: %w",
			securityID, asOf.Format(time.DateOnly), err)
	}

	snapshot := snapshotFromModel(out)
	return &snapshot, nil
}

func (h fundamentalsRepositoryHandler) ListLatest(asOf time.Time) ([]SecurityFundamentals, error) {
	latest := table.FundamentalData.
		SELECT(
			table.FundamentalData.CompanyID,
			postgres.MAX(table.FundamentalData.ReportDate).AS("latest_date"),
		).
		WHERE(table.FundamentalData.ReportDate.LT_EQ(postgres.DateT(asOf))).
		GROUP_BY(table.FundamentalData.CompanyID).
		AsTable("latest")

	latestCompanyID := table.FundamentalData.CompanyID.From(latest)
	latestDate := postgres.DateColumn("latest_date").From(latest)

	query := table.FundamentalData.
		INNER_JOIN(latest,
			table.FundamentalData.CompanyID.EQ(latestCompanyID).
				AND(table.FundamentalData.ReportDate.EQ(latestDate)),
		).
		INNER_JOIN(table.Company, table.Company.ID.EQ(table.FundamentalData.CompanyID)).
		SELECT(table.Company.AllColumns, table.FundamentalData.AllColumns).
		WHERE(table.Company.IsActive.IS_TRUE()).
		ORDER_BY(table.Company.ID.ASC())

	results := []struct {
		model.Company
		model.FundamentalData
	}{}
	err := query.Query(h.Db, &results)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest fundamentals as of %s: %w",
			asOf.Format(time.DateOnly), err)
	}

	out := make([]SecurityFundamentals, 0, len(results))
	for _, row := range results {
		out = append(out, SecurityFundamentals{
			Security:     *securityFromModel(row.Company),
			Fundamentals: snapshotFromModel(row.FundamentalData),
		})
	}

	return out, nil
}

func snapshotFromModel(f model.FundamentalData) domain.FundamentalSnapshot {
	return domain.FundamentalSnapshot{
		SecurityID:        f.CompanyID,
		ReportDate:        f.ReportDate,
		PeriodType:        domain.PeriodType(f.PeriodType),
		Revenue:           f.Revenue,
		Pat:               f.Pat,
		Ebitda:            f.Ebitda,
		OperatingProfit:   f.OperatingProfit,
		FreeCashFlow:      f.FreeCashFlow,
		MarketCap:         f.MarketCap,
		SharesOutstanding: f.SharesOutstanding,
		Roce:              f.Roce,
		Roe:               f.Roe,
		Roa:               f.Roa,
		Eps:               f.Eps,
		PeRatio:           f.PeRatio,
		PbRatio:           f.PbRatio,
		DebtToEquity:      f.DebtToEquity,
	}
}
