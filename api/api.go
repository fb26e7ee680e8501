package api

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"screenerbacktest/internal/logger"
	"screenerbacktest/internal/repository"
	l3_service "screenerbacktest/internal/service/l3"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ApiHandler struct {
	Db                     *sql.DB
	BacktestService        l3_service.BacktestService
	CompanyRepository      repository.CompanyRepository
	FundamentalsRepository repository.FundamentalsRepository

	// JwtSecret enables bearer-token auth on mutating routes when set.
	JwtSecret string
}

func (m ApiHandler) Router() *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(m.logRequestMiddleware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to screenerbacktest"})
	})
	router.GET("/universe", m.universe)
	router.GET("/universe/stats", m.universeStats)
	router.POST("/backtest", m.authMiddleware, m.backtest)

	return router
}

func (m ApiHandler) StartApi(port int) error {
	return m.Router().Run(fmt.Sprintf(":%d", port))
}

func returnErrorJson(err error, c *gin.Context) {
	returnErrorJsonCode(err, c, 500)
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	logger.Error(fmt.Errorf("request failed: %w", err))
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r responseBodyWriter) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// logRequestMiddleware stamps each request with an id, hangs a scoped
// logger on the request context, and logs the outcome with timing.
func (m ApiHandler) logRequestMiddleware(ctx *gin.Context) {
	requestID := uuid.NewString()
	log := logger.New().With("requestId", requestID, "route", ctx.Request.URL.Path)

	w := &responseBodyWriter{body: &bytes.Buffer{}, ResponseWriter: ctx.Writer}
	ctx.Writer = w

	body, err := ctx.GetRawData()
	if err != nil {
		log.Warnw("failed to read request body", "error", err)
	}
	ctx.Request.Body = io.NopCloser(bytes.NewReader(body))

	requestCtx := context.WithValue(ctx.Request.Context(), logger.ContextKey, log)
	ctx.Request = ctx.Request.WithContext(requestCtx)

	start := time.Now().UTC()
	ctx.Next()

	log.Infow("request completed",
		"method", ctx.Request.Method,
		"status", ctx.Writer.Status(),
		"durationMs", time.Since(start).Milliseconds(),
	)
}
