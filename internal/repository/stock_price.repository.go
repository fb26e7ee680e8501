package repository

import (
	"database/sql"
	"fmt"
	"screenerbacktest/internal/db/models/postgres/public/model"
	"screenerbacktest/internal/db/models/postgres/public/table"
	"screenerbacktest/internal/domain"
	"time"

	"github.com/go-jet/jet/v2/postgres"
)

type PriceRepository interface {
	// ListBetween returns the raw price series, ordered by date ascending,
	// for the given securities over [start, end].
	ListBetween(securityIDs []int64, start, end time.Time) ([]domain.PricePoint, error)
}

func NewPriceRepository(db *sql.DB) PriceRepository {
	return priceRepositoryHandler{Db: db}
}

type priceRepositoryHandler struct {
	Db *sql.DB
}

func (h priceRepositoryHandler) ListBetween(securityIDs []int64, start, end time.Time) ([]domain.PricePoint, error) {
	if len(securityIDs) == 0 {
		return nil, nil
	}

	ids := make([]postgres.Expression, 0, len(securityIDs))
	for _, id := range securityIDs {
		ids = append(ids, postgres.Int64(id))
	}

	query := table.StockPrice.
		SELECT(table.StockPrice.AllColumns).
		WHERE(
			postgres.AND(
				table.StockPrice.CompanyID.IN(ids...),
				table.StockPrice.Date.BETWEEN(postgres.DateT(start), postgres.DateT(end)),
			),
		).
		ORDER_BY(table.StockPrice.Date.ASC())

	results := []model.StockPrice{}
	err := query.Query(h.Db, &results)
	if err != nil {
		return nil, fmt.Errorf("failed to list prices between %s and %s: %w",
			start.Format(time.DateOnly), end.Format(time.DateOnly), err)
	}

	out := make([]domain.PricePoint, 0, len(results))
	for _, p := range results {
		out = append(out, domain.PricePoint{
			SecurityID:    p.CompanyID,
			Date:          p.Date,
			Close:         p.Close,
			AdjustedClose: p.AdjustedClose,
		})
	}

	return out, nil
}
