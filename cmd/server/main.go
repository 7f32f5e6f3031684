package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mgrist/texlien/internal/auth"
	"github.com/mgrist/texlien/internal/config"
	"github.com/mgrist/texlien/internal/database"
	"github.com/mgrist/texlien/internal/handlers"
	"github.com/mgrist/texlien/internal/logger"
	"github.com/mgrist/texlien/internal/mailer"
	"github.com/mgrist/texlien/internal/middleware"
	"github.com/mgrist/texlien/internal/repository"
	"github.com/mgrist/texlien/internal/scheduler"
	"github.com/mgrist/texlien/internal/scraper"
	"github.com/mgrist/texlien/internal/services"
)

const (
	shutdownTimeout = 30 * time.Second

	dallasSaleListURL = "https://www.dallascounty.org/departments/tax/tax-sales.php"
	collinSaleListURL = "https://www.collincountytx.gov/tax-sales/current.html"
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Server.Env)
	log.Info("Starting texlien API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	// Create database connection pool
	ctx := context.Background()
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
			"name": cfg.Database.Name,
		})
	}
	defer db.Close()

	log.Info("Database connection established", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Name,
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})

	// Initialize repository layer
	userRepo := repository.NewUserRepository(db)
	countyRepo := repository.NewCountyRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	taxSaleRepo := repository.NewTaxSaleRepository(db)
	investmentRepo := repository.NewInvestmentRepository(db)
	alertRepo := repository.NewAlertRepository(db)

	// Initialize service layer
	tokens := auth.JWT{
		Secret:   []byte(cfg.Auth.JWTSecret),
		TokenTTL: time.Duration(cfg.Auth.TokenTTLMins) * time.Minute,
	}
	mail := mailer.New(cfg.SMTP)

	fetcher := scraper.NewFetcher(cfg.Scraper.UserAgent, time.Duration(cfg.Scraper.TimeoutSecs)*time.Second)
	scrapers := []scraper.Scraper{
		scraper.NewDallasScraper(fetcher, dallasSaleListURL),
		scraper.NewCollinScraper(fetcher, collinSaleListURL),
	}

	authService := services.NewAuthService(userRepo, tokens, log)
	propertyService := services.NewPropertyService(propertyRepo, log)
	investmentService := services.NewInvestmentService(investmentRepo, taxSaleRepo, propertyRepo, log)
	portfolioService := services.NewPortfolioService(investmentRepo, log)
	alertService := services.NewAlertService(alertRepo, investmentRepo, userRepo, mail, cfg.Alerts.HorizonDays, log)
	scraperService := services.NewScraperService(scrapers, countyRepo, propertyRepo, taxSaleRepo, log)

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	// Register health check routes
	healthHandler := handlers.NewHealthHandler(db, cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/api/v1/info", healthHandler.Info)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	propertyHandler := handlers.NewPropertyHandler(propertyService)
	investmentHandler := handlers.NewInvestmentHandler(investmentService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	alertHandler := handlers.NewAlertHandler(alertService)
	taxSaleHandler := handlers.NewTaxSaleHandler(taxSaleRepo, scraperService)

	// Register API v1 routes
	v1 := router.Group("/api/v1")
	{
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
		}

		// Everything below requires a valid bearer token.
		protected := v1.Group("")
		protected.Use(middleware.Auth(tokens))

		properties := protected.Group("/properties")
		{
			properties.GET("", propertyHandler.Search)
			properties.POST("", propertyHandler.Create)
			properties.GET("/:id", propertyHandler.Get)
			properties.DELETE("/:id", propertyHandler.Deactivate)
			properties.PUT("/:id/enrichment", propertyHandler.SaveEnrichment)
			properties.GET("/:id/score", propertyHandler.Score)
		}

		taxSales := protected.Group("/tax-sales")
		{
			taxSales.GET("/upcoming", taxSaleHandler.Upcoming)
			taxSales.GET("/:id", taxSaleHandler.Get)
			taxSales.POST("/:id/outcome", taxSaleHandler.RecordOutcome)
		}

		investments := protected.Group("/investments")
		{
			investments.POST("", investmentHandler.Create)
			investments.GET("", investmentHandler.List)
			investments.GET("/:id", investmentHandler.Get)
			investments.GET("/:id/metrics", investmentHandler.Metrics)
			investments.POST("/:id/redemption", investmentHandler.Redeem)
			investments.GET("/:id/redemption", investmentHandler.GetRedemption)
			investments.POST("/:id/clear-title", investmentHandler.ClearTitle)
			investments.POST("/:id/sold", investmentHandler.Sell)
		}

		protected.GET("/portfolio/summary", portfolioHandler.Summary)

		alerts := protected.Group("/alerts")
		{
			alerts.GET("", alertHandler.List)
			alerts.POST("/:id/read", alertHandler.MarkRead)
		}

		admin := protected.Group("/admin")
		{
			admin.POST("/scrape", taxSaleHandler.Scrape)
			admin.POST("/alerts/run", alertHandler.Run)
		}
	}

	// Start background jobs
	jobs := scheduler.New(log, ctx)
	if _, err := jobs.Add("deadline-alerts", cfg.Alerts.CronSpec, func(ctx context.Context) error {
		if _, err := alertService.EvaluateDeadlines(ctx, time.Now().UTC()); err != nil {
			return err
		}
		return alertService.DeliverPending(ctx)
	}); err != nil {
		log.Fatal("Failed to schedule alert job", err, map[string]interface{}{
			"spec": cfg.Alerts.CronSpec,
		})
	}
	if cfg.Scraper.CronSpec != "" {
		if _, err := jobs.Add("sale-list-import", cfg.Scraper.CronSpec, func(ctx context.Context) error {
			_, err := scraperService.ImportAll(ctx)
			return err
		}); err != nil {
			log.Fatal("Failed to schedule scraper job", err, map[string]interface{}{
				"spec": cfg.Scraper.CronSpec,
			})
		}
	}
	jobs.Start()
	defer jobs.Stop()

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
