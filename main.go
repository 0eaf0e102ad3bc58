package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"woo-analytics/api"
	"woo-analytics/config"
	"woo-analytics/fetcher/woocommerce"
	"woo-analytics/models"
	"woo-analytics/services"
	"woo-analytics/storage"
	"woo-analytics/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()
	if cfg.Debug {
		logger.EnableDebug()
	}

	logger.Info("=== WooCommerce Order Analytics starting ===")
	logger.Info("Config — period: %s → %s | status: %s",
		cfg.StartDate.Format("2006-01-02"), cfg.EndDate.Format("2006-01-02"), cfg.Status)

	schemes, err := services.LoadSchemes(cfg.BucketsConfig)
	if err != nil {
		logger.Error("Failed to load bucket schemes: %v", err)
		os.Exit(1)
	}

	fetcher := woocommerce.New(cfg.SourceURL, logger)
	cleaner := services.NewCleaner(logger)
	analytics := services.NewAnalytics(logger, schemes)
	pipeline := services.NewPipeline(cfg.SourceURL, fetcher, cleaner, analytics, logger)

	if cfg.ListenAddr != "" {
		serve(cfg, pipeline, logger)
		return
	}

	report, err := pipeline.Run(cfg.StartDate, cfg.EndDate, cfg.Status)
	if err != nil {
		if errors.Is(err, services.ErrNoOrders) {
			logger.Warn("No orders found for the selected period. Nothing to analyse.")
			return
		}
		logger.Error("Pipeline run failed: %v", err)
		os.Exit(1)
	}

	analytics.Print(report)

	exportCSV(cfg, report, logger)

	if cfg.ArchiveEnabled {
		archive(cfg, report, logger)
	}

	fmt.Printf("  Done. Orders CSV → %s | Products CSV → %s\n\n",
		cfg.OrdersCSVPath, cfg.ProductsCSVPath)
}

// serve keeps the dashboard API live while the first report loads in the
// background, exactly one pipeline run per refresh request afterwards.
func serve(cfg *config.Config, pipeline *services.Pipeline, logger *utils.Logger) {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	h := api.NewHandler(nil, pipeline, logger)
	h.RegisterRoutes(e)

	go func() {
		report, err := pipeline.Run(cfg.StartDate, cfg.EndDate, cfg.Status)
		if err != nil {
			logger.Error("Initial pipeline run failed: %v", err)
			return
		}
		h.SetData(report)
		logger.Info("Initial report loaded — API fully ready")
	}()

	logger.Info("Dashboard API listening on %s (data loading in background...)", cfg.ListenAddr)
	e.Logger.Fatal(e.Start(cfg.ListenAddr))
}

func exportCSV(cfg *config.Config, report *models.Report, logger *utils.Logger) {
	ordersCSV, err := storage.NewOrdersCSV(cfg.OrdersCSVPath)
	if err != nil {
		logger.Error("Failed to create orders CSV: %v", err)
	} else {
		defer ordersCSV.Close()
		if err := ordersCSV.WriteOrders(report.Orders); err != nil {
			logger.Error("Orders CSV write failed: %v", err)
		} else {
			logger.Info("Orders table saved to %s", cfg.OrdersCSVPath)
		}
	}

	productsCSV, err := storage.NewProductsCSV(cfg.ProductsCSVPath)
	if err != nil {
		logger.Error("Failed to create products CSV: %v", err)
		return
	}
	defer productsCSV.Close()
	if err := productsCSV.WriteProducts(report.Products); err != nil {
		logger.Error("Products CSV write failed: %v", err)
	} else {
		logger.Info("Products table saved to %s", cfg.ProductsCSVPath)
	}
}

func archive(cfg *config.Config, report *models.Report, logger *utils.Logger) {
	aw, err := storage.NewArchiveWriter(cfg.DSN(), logger)
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL archive: %v", err)
		return
	}
	defer aw.Close()

	if err := aw.Archive(report); err != nil {
		logger.Error("Report archive failed: %v", err)
		return
	}
	logger.Info("Run %s archived to PostgreSQL (report_runs)", report.RunID)
}
