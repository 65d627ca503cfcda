package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevelName    string        `env:"LOG_LEVEL" envDefault:"info"`
	CardWidth       int           `env:"CARD_WIDTH" envDefault:"300"`
	CardHeight      int           `env:"CARD_HEIGHT" envDefault:"200"`
	PixelScale      int           `env:"CARD_PIXEL_SCALE" envDefault:"2"`
	BrushRadius     float64       `env:"SCRATCH_BRUSH_RADIUS" envDefault:"30"`
	RevealThreshold float64       `env:"SCRATCH_REVEAL_THRESHOLD" envDefault:"60"`
	CatalogID       string        `env:"OFFER_CATALOG" envDefault:"default"`
	CardTTL         time.Duration `env:"CARD_TTL" envDefault:"30m"`
	MaxCards        int           `env:"MAX_CARDS" envDefault:"1000"`
	LedgerPath      string        `env:"LEDGER_PATH"`
	BrandName       string        `env:"BRAND_NAME" envDefault:"M&M Candles"`
	Audio           bool          `env:"AUDIO" envDefault:"true"`
	TermLogPath     string        `env:"SCRATCHTERM_LOG"`

	LogLevel slog.Level
}

func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	level, err := parseLogLevel(c.LogLevelName)
	if err != nil {
		return Config{}, err
	}
	c.LogLevel = level

	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	if c.CardWidth <= 0 || c.CardHeight <= 0 {
		return fmt.Errorf("invalid card size %dx%d", c.CardWidth, c.CardHeight)
	}
	if c.PixelScale < 1 || c.PixelScale > 4 {
		return fmt.Errorf("CARD_PIXEL_SCALE must be between 1 and 4, got %d", c.PixelScale)
	}
	if c.BrushRadius <= 0 {
		return fmt.Errorf("SCRATCH_BRUSH_RADIUS must be positive, got %g", c.BrushRadius)
	}
	if c.RevealThreshold <= 0 || c.RevealThreshold > 100 {
		return fmt.Errorf("SCRATCH_REVEAL_THRESHOLD must be in (0, 100], got %g", c.RevealThreshold)
	}
	if strings.TrimSpace(c.CatalogID) == "" {
		return fmt.Errorf("OFFER_CATALOG is required")
	}
	if c.MaxCards < 0 {
		return fmt.Errorf("MAX_CARDS must not be negative, got %d", c.MaxCards)
	}
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
}
