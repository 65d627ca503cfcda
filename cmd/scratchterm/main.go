// Command scratchterm plays a scratch card in the terminal.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/lazzyms/scratch-reveal-deals/internal/adapters/catalog"
	"github.com/lazzyms/scratch-reveal-deals/internal/adapters/chime"
	"github.com/lazzyms/scratch-reveal-deals/internal/adapters/ledger/sqlite"
	"github.com/lazzyms/scratch-reveal-deals/internal/adapters/terminal"
	"github.com/lazzyms/scratch-reveal-deals/internal/app"
	"github.com/lazzyms/scratch-reveal-deals/internal/config"
	"github.com/lazzyms/scratch-reveal-deals/internal/ports"
	"github.com/lazzyms/scratch-reveal-deals/internal/render"
)

type stdRNG struct{}

func (stdRNG) Intn(n int) int { return rand.IntN(n) }

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "scratchterm:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// The screen owns stdout, so logs go to a file when one is configured.
	logger := slog.New(slog.DiscardHandler)
	if cfg.TermLogPath != "" {
		f, err := os.OpenFile(cfg.TermLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.LogLevel}))
	}

	renderer, err := render.New()
	if err != nil {
		return fmt.Errorf("load fonts: %w", err)
	}
	defer renderer.Close()

	var ledger ports.RevealLedger
	if cfg.LedgerPath != "" {
		store, err := sqlite.Open(cfg.LedgerPath)
		if err != nil {
			return fmt.Errorf("open reveal ledger: %w", err)
		}
		defer store.Close()
		ledger = store
	}

	svc := app.NewCardService(catalog.NewEmbeddedStore(), renderer, ledger, stdRNG{}, app.Options{
		Width:       cfg.CardWidth,
		Height:      cfg.CardHeight,
		Scale:       cfg.PixelScale,
		BrushRadius: cfg.BrushRadius,
		Threshold:   cfg.RevealThreshold,
		CatalogID:   cfg.CatalogID,
	}, logger)

	var ch terminal.Chime
	if cfg.Audio {
		player := chime.New()
		if err := player.Init(); err != nil {
			// Non-fatal, the card works without sound.
			logger.Warn("audio init failed", "error", err)
		} else {
			defer player.Close()
			ch = player
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("new screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return terminal.NewHost(screen, svc, ch, logger).Run(ctx)
}
