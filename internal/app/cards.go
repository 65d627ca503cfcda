package app

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"github.com/lazzyms/scratch-reveal-deals/internal/domain"
	"github.com/lazzyms/scratch-reveal-deals/internal/ports"
	"github.com/lazzyms/scratch-reveal-deals/internal/scratch"
)

// placeholder covers cards whose overlay could not be painted.
var placeholder = color.RGBA{R: 0x94, G: 0xa3, B: 0xb8, A: 0xff}

// Options sizes and tunes every card the service creates.
type Options struct {
	Width       int
	Height      int
	Scale       int
	BrushRadius float64
	Threshold   float64
	CatalogID   string
	TTL         time.Duration
	MaxCards    int
}

// EventInput is one application-level input sample (no HTTP types).
type EventInput struct {
	Type string
	X, Y float64
}

// CardView is the application-level state of a card.
type CardView struct {
	ID             string
	Width          int
	Height         int
	Coverage       float64
	Revealed       bool
	Offer          *domain.Offer // nil until revealed
	Message        string
	PreventDefault bool
}

type card struct {
	mu           sync.Mutex
	id           string
	offer        domain.Offer
	surface      *scratch.Surface
	prize        *image.RGBA
	lastUsed     time.Time
	justRevealed bool
}

// CardService owns scratch cards: one offer, prize face and surface each.
type CardService struct {
	catalogs ports.CatalogStore
	renderer ports.CardRenderer
	ledger   ports.RevealLedger
	rng      domain.RNG
	opts     Options
	logger   *slog.Logger
	now      func() time.Time

	mu    sync.Mutex
	cards map[string]*card
}

func NewCardService(cs ports.CatalogStore, r ports.CardRenderer, ledger ports.RevealLedger, rng domain.RNG, opts Options, logger *slog.Logger) *CardService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CardService{
		catalogs: cs,
		renderer: r,
		ledger:   ledger,
		rng:      rng,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
		cards:    make(map[string]*card),
	}
}

// NewCard picks an offer and mounts a fresh card for it.
func (s *CardService) NewCard(ctx context.Context) (CardView, error) {
	catalog, err := s.catalogs.GetCatalog(ctx, s.opts.CatalogID)
	if err != nil {
		return CardView{}, fmt.Errorf("get catalog: %w", err)
	}
	offer, err := domain.PickOffer(catalog, s.rng)
	if err != nil {
		return CardView{}, fmt.Errorf("pick offer: %w", err)
	}
	prize, err := s.renderer.PaintPrize(offer, s.opts.Width, s.opts.Height, s.opts.Scale)
	if err != nil {
		return CardView{}, fmt.Errorf("paint prize: %w", err)
	}

	c := &card{id: uuid.NewString(), offer: offer, prize: prize}
	c.surface = scratch.New(s.opts.Width, s.opts.Height,
		scratch.WithScale(s.opts.Scale),
		scratch.WithBrushRadius(s.opts.BrushRadius),
		scratch.WithThreshold(s.opts.Threshold),
		scratch.WithPainter(s.renderer),
		scratch.WithOnReveal(func() { c.justRevealed = true }),
		scratch.WithLogger(s.logger.With("card_id", c.id)),
	)

	s.mu.Lock()
	now := s.now()
	s.evictLocked(now)
	c.lastUsed = now
	s.cards[c.id] = c
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "card created", "card_id", c.id, "surface", c.surface)

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view(), nil
}

// HandleEvents applies an ordered batch of input events to a card.
func (s *CardService) HandleEvents(ctx context.Context, id string, inputs []EventInput) (CardView, error) {
	events := make([]scratch.Event, len(inputs))
	for i, in := range inputs {
		t, err := scratch.ParseEventType(in.Type)
		if err != nil {
			return CardView{}, fmt.Errorf("%w: %w", domain.ErrInvalidEvent, err)
		}
		if !finite(in.X) || !finite(in.Y) {
			return CardView{}, fmt.Errorf("%w: event %d has a non-finite position", domain.ErrInvalidEvent, i)
		}
		events[i] = scratch.Event{Type: t, Point: scratch.Point{X: in.X, Y: in.Y}}
	}

	c, err := s.lookup(id)
	if err != nil {
		return CardView{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var prevent bool
	for _, ev := range events {
		if c.surface.Handle(ev).PreventDefault {
			prevent = true
		}
	}
	if c.justRevealed {
		c.justRevealed = false
		// Recorded even when the client has already gone away.
		s.recordReveal(context.WithoutCancel(ctx), c)
	}

	v := c.view()
	v.PreventDefault = prevent
	return v, nil
}

// Card returns the current state of a card.
func (s *CardService) Card(_ context.Context, id string) (CardView, error) {
	c, err := s.lookup(id)
	if err != nil {
		return CardView{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view(), nil
}

// Image returns the prize face with the remaining overlay on top.
func (s *CardService) Image(_ context.Context, id string) (*image.RGBA, error) {
	c, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	out := image.NewRGBA(c.prize.Bounds())
	if !c.surface.Available() && !c.surface.Revealed() {
		// Without an overlay the prize must stay hidden.
		draw.Draw(out, out.Bounds(), image.NewUniform(placeholder), image.Point{}, draw.Src)
		return out, nil
	}
	copy(out.Pix, c.prize.Pix)
	c.surface.DrawOver(out)
	return out, nil
}

// Discard unmounts a card and releases its buffers.
func (s *CardService) Discard(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cards[id]; !ok {
		return domain.ErrCardNotFound
	}
	delete(s.cards, id)
	return nil
}

// RecentReveals lists the latest recorded reveals.
func (s *CardService) RecentReveals(ctx context.Context, limit int) ([]domain.Reveal, error) {
	if s.ledger == nil {
		return nil, nil
	}
	reveals, err := s.ledger.RecentReveals(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent reveals: %w", err)
	}
	return reveals, nil
}

func (s *CardService) lookup(id string) (*card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cards[id]
	if !ok {
		return nil, domain.ErrCardNotFound
	}
	now := s.now()
	if s.expired(c, now) {
		delete(s.cards, id)
		return nil, domain.ErrCardNotFound
	}
	c.lastUsed = now
	return c, nil
}

func (s *CardService) expired(c *card, now time.Time) bool {
	return s.opts.TTL > 0 && now.Sub(c.lastUsed) > s.opts.TTL
}

// evictLocked drops expired cards and, at capacity, the least recently used one.
func (s *CardService) evictLocked(now time.Time) {
	for id, c := range s.cards {
		if s.expired(c, now) {
			delete(s.cards, id)
		}
	}
	if s.opts.MaxCards <= 0 || len(s.cards) < s.opts.MaxCards {
		return
	}
	var oldest *card
	for _, c := range s.cards {
		if oldest == nil || c.lastUsed.Before(oldest.lastUsed) {
			oldest = c
		}
	}
	if oldest != nil {
		delete(s.cards, oldest.id)
		s.logger.Info("card evicted", "card_id", oldest.id, "cards", len(s.cards))
	}
}

func (s *CardService) recordReveal(ctx context.Context, c *card) {
	s.logger.InfoContext(ctx, "card revealed", "card_id", c.id, "label", c.offer.Label, "lucky", c.offer.IsLucky)
	if s.ledger == nil {
		return
	}
	err := s.ledger.RecordReveal(ctx, domain.Reveal{
		CardID:      c.id,
		Label:       c.offer.Label,
		Description: c.offer.Description,
		IsLucky:     c.offer.IsLucky,
		RevealedAt:  s.now(),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "record reveal failed", "card_id", c.id, "error", err)
	}
}

// view must be called with c.mu held.
func (c *card) view() CardView {
	w, h := c.surface.Size()
	v := CardView{
		ID:       c.id,
		Width:    w,
		Height:   h,
		Coverage: c.surface.MeasureCoverage(),
		Revealed: c.surface.Revealed(),
	}
	if v.Revealed {
		offer := c.offer
		v.Offer = &offer
		v.Message = domain.RevealMessage(offer)
	}
	return v
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
