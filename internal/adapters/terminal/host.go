// Package terminal hosts a scratch card in a terminal. The card image is
// drawn with half-block cells and mouse drags scratch it.
package terminal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"

	"github.com/lazzyms/scratch-reveal-deals/internal/app"
)

// Chime is played once when a card is revealed.
type Chime interface {
	Play()
}

type Host struct {
	screen tcell.Screen
	svc    *app.CardService
	chime  Chime
	logger *slog.Logger

	view     app.CardView
	viewport Viewport
	pressed  bool
	status   string

	heldOutside bool
}

// NewHost wraps an initialised screen. chime may be nil.
func NewHost(screen tcell.Screen, svc *app.CardService, chime Chime, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Host{screen: screen, svc: svc, chime: chime, logger: logger}
}

// Run shows a fresh card and processes input until the user quits or ctx
// is cancelled. The caller owns the screen and finalises it.
func (h *Host) Run(ctx context.Context) error {
	h.screen.EnableMouse()
	if err := h.reset(ctx); err != nil {
		return err
	}
	h.draw(ctx)

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			cont, err := h.handle(ctx, ev)
			if err != nil {
				return err
			}
			if !cont {
				return nil
			}
			h.draw(ctx)
		}
	}
}

func (h *Host) handle(ctx context.Context, ev tcell.Event) (bool, error) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			return false, nil
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'):
			return false, nil
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 'r' || ev.Rune() == 'R'):
			return true, h.reset(ctx)
		}
	case *tcell.EventMouse:
		return true, h.handleMouse(ctx, ev)
	case *tcell.EventResize:
		h.screen.Sync()
	}
	return true, nil
}

// handleMouse turns button-1 transitions into pointer events.
func (h *Host) handleMouse(ctx context.Context, ev *tcell.EventMouse) error {
	col, row := ev.Position()
	x, y, inside := h.viewport.ToCard(col, row)
	down := ev.Buttons()&tcell.Button1 != 0

	if !down {
		h.heldOutside = false
	}

	var input app.EventInput
	switch {
	case down && h.heldOutside:
		// A drag that left the card, or began outside it, scratches
		// nothing until the button is released.
		return nil
	case down && !h.pressed:
		if !inside {
			h.heldOutside = true
			return nil
		}
		h.pressed = true
		input = app.EventInput{Type: "pointerdown", X: x, Y: y}
	case down && !inside:
		h.pressed = false
		h.heldOutside = true
		input = app.EventInput{Type: "pointerleave"}
	case down:
		input = app.EventInput{Type: "pointermove", X: x, Y: y}
	case h.pressed:
		h.pressed = false
		input = app.EventInput{Type: "pointerup", X: x, Y: y}
	default:
		return nil
	}
	return h.send(ctx, input)
}

func (h *Host) send(ctx context.Context, input app.EventInput) error {
	wasRevealed := h.view.Revealed
	v, err := h.svc.HandleEvents(ctx, h.view.ID, []app.EventInput{input})
	if err != nil {
		return fmt.Errorf("handle %s: %w", input.Type, err)
	}
	h.view = v
	if v.Revealed && !wasRevealed {
		h.status = v.Message
		if v.Offer != nil && v.Offer.Description != "" {
			h.status += " " + v.Offer.Description
		}
		if h.chime != nil {
			h.chime.Play()
		}
	}
	return nil
}

func (h *Host) reset(ctx context.Context) error {
	if h.view.ID != "" {
		if err := h.svc.Discard(ctx, h.view.ID); err != nil {
			h.logger.WarnContext(ctx, "discard card failed", "card_id", h.view.ID, "error", err)
		}
	}
	v, err := h.svc.NewCard(ctx)
	if err != nil {
		return fmt.Errorf("new card: %w", err)
	}
	h.view = v
	h.pressed = false
	h.heldOutside = false
	h.status = "Drag with the mouse to scratch."
	return nil
}

func (h *Host) draw(ctx context.Context) {
	h.screen.Clear()
	cols, rows := h.screen.Size()
	h.viewport = Fit(cols, rows, h.view.Width, h.view.Height)

	if !h.viewport.Empty() {
		img, err := h.svc.Image(ctx, h.view.ID)
		if err != nil {
			h.logger.WarnContext(ctx, "card image failed", "card_id", h.view.ID, "error", err)
		} else {
			px := h.viewport.Sample(img)
			for r := 0; r < h.viewport.Rows; r++ {
				for c := 0; c < h.viewport.Cols; c++ {
					top := px.RGBAAt(c, r*2)
					bottom := px.RGBAAt(c, r*2+1)
					style := tcell.StyleDefault.
						Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
						Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
					h.screen.SetContent(h.viewport.Left+c, h.viewport.Top+r, '▀', nil, style)
				}
			}
		}
	}

	statusRow := h.viewport.Top + h.viewport.Rows
	h.putString(0, statusRow, h.status, tcell.StyleDefault.Bold(h.view.Revealed))
	h.putString(0, statusRow+1, "r: new card  q: quit", tcell.StyleDefault.Dim(true))
	h.screen.Show()
}

func (h *Host) putString(col, row int, s string, style tcell.Style) {
	for _, r := range s {
		h.screen.SetContent(col, row, r, nil, style)
		col++
	}
}
