package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"bl-extractor/internal/cache"
	"bl-extractor/internal/config"
	"bl-extractor/internal/database"
	"bl-extractor/internal/document"
	"bl-extractor/internal/metrics"
	"bl-extractor/internal/ocr"
	"bl-extractor/internal/parser"
	"bl-extractor/internal/ratelimit"
	"bl-extractor/internal/server"
)

func main() {
	// Load configuration
	cfg, err := config.LoadServerConfigWithEnvFile(os.Getenv("BLX_ENV_FILE"))
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	// Initialize database
	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Error("Failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("Database initialized", "path", cfg.DBPath)

	cacheManager := cache.NewManager(db.ParseCache, cfg.DisableCache, cfg.CacheTTL, logger)
	defer cacheManager.Close()

	ctx := context.Background()
	ocrClient, err := ocr.NewClient(ctx, cfg.OCRConfig(), logger)
	if err != nil {
		logger.Error("Failed to create OCR client", "provider", cfg.OCRProvider, "error", err)
		os.Exit(1)
	}
	logger.Info("OCR client ready", "provider", cfg.OCRProvider)

	m := metrics.New()
	extractor := parser.NewExtractor(
		parser.WithRules(cfg.ParserRules()),
		parser.WithLogger(logger),
	)
	service := document.NewService(extractor, ocrClient,
		document.WithAuditStore(db.Extractions),
		document.WithCache(cacheManager),
		document.WithMetrics(m),
		document.WithLogger(logger),
	)

	handler := server.NewRouter(server.Dependencies{
		Parser:      service,
		Extractions: db.Extractions,
		DB:          db,
		Cache:       cacheManager,
		Metrics:     m,
		Limiter:     ratelimit.NewLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.DisableRateLimit),
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:    cfg.Address(),
		Handler: handler,

		// OCR of large scans can take a while; the write timeout covers it
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.OCRTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := server.Run(ctx, srv, cfg.ShutdownTimeout, logger); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}
