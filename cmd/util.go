package cmd

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"screenerbacktest/api"
	"screenerbacktest/internal/calculator"
	"screenerbacktest/internal/repository"
	l2_service "screenerbacktest/internal/service/l2"
	l3_service "screenerbacktest/internal/service/l3"
	"screenerbacktest/internal/util"

	_ "github.com/lib/pq"
)

func CloseDependencies(handler *api.ApiHandler) {
	err := handler.Db.Close()
	if err != nil {
		log.Fatalf("failed to close db: %v", err)
	}
}

func InitializeDependencies() (*api.ApiHandler, error) {
	secrets, err := util.LoadSecrets()
	if err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	dbConn, err := sql.Open("postgres", secrets.Db.ToConnectionStr())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	companyRepository := repository.NewCompanyRepository(dbConn)
	priceRepository := repository.NewPriceRepository(dbConn)
	fundamentalsRepository := repository.NewFundamentalsRepository(dbConn)

	screenerService := l2_service.NewScreenerService(fundamentalsRepository)
	backtestService := l3_service.NewBacktestService(
		priceRepository,
		screenerService,
		calculator.NewPerformanceCalculator(),
	)

	apiHandler := &api.ApiHandler{
		Db:                     dbConn,
		BacktestService:        backtestService,
		CompanyRepository:      companyRepository,
		FundamentalsRepository: fundamentalsRepository,
		JwtSecret:              os.Getenv("SCREENER_JWT_SECRET"),
	}

	return apiHandler, nil
}
