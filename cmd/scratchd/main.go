package main

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/lazzyms/scratch-reveal-deals/internal/adapters/catalog"
	httpadapter "github.com/lazzyms/scratch-reveal-deals/internal/adapters/http"
	"github.com/lazzyms/scratch-reveal-deals/internal/adapters/ledger/sqlite"
	"github.com/lazzyms/scratch-reveal-deals/internal/app"
	"github.com/lazzyms/scratch-reveal-deals/internal/config"
	"github.com/lazzyms/scratch-reveal-deals/internal/ports"
	"github.com/lazzyms/scratch-reveal-deals/internal/render"
)

// stdRNG delegates to math/rand/v2 (auto-seeded).
type stdRNG struct{}

func (stdRNG) Intn(n int) int { return rand.IntN(n) }

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	renderer, err := render.New()
	if err != nil {
		logger.Error("failed to load fonts", "error", err)
		os.Exit(1)
	}
	defer renderer.Close()

	var ledger ports.RevealLedger
	if cfg.LedgerPath != "" {
		store, err := sqlite.Open(cfg.LedgerPath)
		if err != nil {
			logger.Error("failed to open reveal ledger", "path", cfg.LedgerPath, "error", err)
			os.Exit(1)
		}
		defer store.Close()
		ledger = store
		logger.Info("reveal ledger opened", "path", cfg.LedgerPath)
	}

	svc := app.NewCardService(catalog.NewEmbeddedStore(), renderer, ledger, stdRNG{}, app.Options{
		Width:       cfg.CardWidth,
		Height:      cfg.CardHeight,
		Scale:       cfg.PixelScale,
		BrushRadius: cfg.BrushRadius,
		Threshold:   cfg.RevealThreshold,
		CatalogID:   cfg.CatalogID,
		TTL:         cfg.CardTTL,
		MaxCards:    cfg.MaxCards,
	}, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(httpadapter.RequestIDMiddleware())
	e.Use(httpadapter.LoggingMiddleware(logger))

	handler := httpadapter.NewHandler(svc, httpadapter.DefaultPageCopy(cfg.BrandName, cfg.CardWidth, cfg.CardHeight))
	handler.Register(e)

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting server", "addr", cfg.HTTPAddr, "catalog", cfg.CatalogID)
		if err := e.Start(cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
