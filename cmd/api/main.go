package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"ledgerly/internal/app"
	"ledgerly/internal/config"
	_ "ledgerly/internal/docs" // Import swagger docs
	"ledgerly/internal/handlers"
	"ledgerly/internal/logger"
	"ledgerly/internal/middleware"
	"ledgerly/internal/validator"
)

// @title           Ledgerly API
// @version         1.0
// @description     Ledgerly records brokerage transactions, caches market data and computes daily portfolio performance. It also categorizes bank statement lines.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description Key guarding write routes when API_KEY is set.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Register()

	a, err := app.New(appConfig)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	if err := a.ReconcileLabels(); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           newRouter(a),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting Ledgerly server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newRouter(a *app.App) *gin.Engine {
	transactionHandler := handlers.NewTransactionHandler(a.Ledger)
	marketHandler := handlers.NewMarketHandler(a.Market)
	performanceHandler := handlers.NewPerformanceHandler(a.Perf)
	categoryHandler := handlers.NewCategoryHandler(a.Expense)
	runHandler := handlers.NewRunHandler(a.Runs)

	router := gin.New()
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Reads are open
	v1.GET("/transactions", transactionHandler.ListTransactions)
	v1.GET("/market/prices/:ticker", marketHandler.GetPrices)
	v1.GET("/market/securities", marketHandler.ListSecurities)
	v1.GET("/performance", performanceHandler.GetPerformance)
	v1.GET("/performance/summary", performanceHandler.GetSummary)
	v1.GET("/categories", categoryHandler.ListCategories)
	v1.GET("/operations/unprocessed", categoryHandler.ListUnprocessed)
	v1.GET("/operations/categorized", categoryHandler.ListCategorized)
	v1.GET("/operations/:id", categoryHandler.GetOperation)
	v1.GET("/runs", runHandler.ListRuns)

	// Writes need the API key when one is configured
	write := v1.Group("/")
	write.Use(middleware.APIKeyAuth(a.Config.APIKey))
	write.POST("/transactions/ingest", transactionHandler.Ingest)
	write.POST("/market/refresh", marketHandler.Refresh)
	write.POST("/performance/recompute", performanceHandler.Recompute)
	write.DELETE("/categories/:name", categoryHandler.DeleteCategory)
	write.DELETE("/categories/:name/sub-categories/:sub", categoryHandler.DeleteSubCategory)
	write.POST("/operations", categoryHandler.ImportOperations)
	write.POST("/operations/:id/category", categoryHandler.LinkOperation)
	write.DELETE("/operations/:id/category", categoryHandler.UnlinkOperation)

	return router
}
