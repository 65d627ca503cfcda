package scratch_test

import (
	"errors"
	"image"
	"image/color"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/lazzyms/scratch-reveal-deals/internal/scratch"
)

// solidPainter paints the overlay in one opaque colour.
type solidPainter struct {
	c   color.RGBA
	err error
}

func (p solidPainter) PaintOverlay(width, height, scale int) (*image.RGBA, error) {
	if p.err != nil {
		return nil, p.err
	}
	img := image.NewRGBA(image.Rect(0, 0, width*scale, height*scale))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = p.c.R, p.c.G, p.c.B, p.c.A
	}
	return img, nil
}

var purple = color.RGBA{R: 0x8b, G: 0x5c, B: 0xf6, A: 0xff}

func newSurface(t *testing.T, w, h int, opts ...scratch.Option) *scratch.Surface {
	t.Helper()
	opts = append([]scratch.Option{scratch.WithPainter(solidPainter{c: purple})}, opts...)
	s := scratch.New(w, h, opts...)
	if !s.Available() {
		t.Fatal("expected surface to be available")
	}
	return s
}

func TestNew_BufferIsOversampled(t *testing.T) {
	s := newSurface(t, 300, 200)

	if got := s.Bounds(); got != image.Rect(0, 0, 600, 400) {
		t.Errorf("expected 600x400 buffer, got %v", got)
	}
	if cov := s.MeasureCoverage(); cov != 0 {
		t.Errorf("expected fresh surface to be fully opaque, coverage %.2f", cov)
	}
}

func TestApplyStroke_SingleStrokeStaysBelowThreshold(t *testing.T) {
	revealed := 0
	s := newSurface(t, 300, 200, scratch.WithOnReveal(func() { revealed++ }))

	s.ApplyStroke(scratch.Point{X: 150, Y: 100})
	cov := s.MeasureCoverage()

	// Radius 30 display units is 60 buffer pixels at scale 2.
	want := math.Pi * 60 * 60 / (600 * 400) * 100
	if math.Abs(cov-want) > 0.1 {
		t.Errorf("expected coverage ~%.2f%%, got %.2f%%", want, cov)
	}
	if s.CheckReveal() {
		t.Error("expected no reveal below threshold")
	}
	if s.Revealed() || revealed != 0 {
		t.Errorf("expected unrevealed surface, revealed=%v callbacks=%d", s.Revealed(), revealed)
	}
}

func TestCheckReveal_FiresOnceWhenCovered(t *testing.T) {
	revealed := 0
	s := newSurface(t, 300, 200, scratch.WithOnReveal(func() { revealed++ }))

	transitions := 0
	for y := 0.0; y <= 200; y += 20 {
		for x := 0.0; x <= 300; x += 20 {
			s.ApplyStroke(scratch.Point{X: x, Y: y})
			if s.CheckReveal() {
				transitions++
			}
		}
	}

	if !s.Revealed() {
		t.Fatal("expected surface to be revealed")
	}
	if transitions != 1 {
		t.Errorf("expected exactly one transition, got %d", transitions)
	}
	if revealed != 1 {
		t.Errorf("expected callback to fire once, got %d", revealed)
	}
	if cov := s.MeasureCoverage(); cov != 100 {
		t.Errorf("expected buffer to be fully cleared after reveal, got %.2f%%", cov)
	}

	s.ApplyStroke(scratch.Point{X: 150, Y: 100})
	if s.CheckReveal() {
		t.Error("expected no second transition")
	}
	if revealed != 1 {
		t.Errorf("expected callback to stay at one call, got %d", revealed)
	}
}

func TestCheckReveal_RepeatedStrokesBelowThreshold(t *testing.T) {
	s := newSurface(t, 300, 200)

	for i := 0; i < 500; i++ {
		s.ApplyStroke(scratch.Point{X: 40, Y: 40})
		if s.CheckReveal() {
			t.Fatalf("stroke %d: unexpected reveal", i)
		}
	}
	if s.Revealed() {
		t.Error("expected surface to stay hidden")
	}
}

func TestCheckReveal_ThresholdIsInclusive(t *testing.T) {
	probe := newSurface(t, 100, 100)
	probe.ApplyStroke(scratch.Point{X: 50, Y: 50})
	cov := probe.MeasureCoverage()

	s := newSurface(t, 100, 100, scratch.WithThreshold(cov))
	s.ApplyStroke(scratch.Point{X: 50, Y: 50})
	if !s.CheckReveal() {
		t.Errorf("expected reveal when coverage equals threshold %.4f", cov)
	}
}

func TestMeasureCoverage_Monotonic(t *testing.T) {
	s := newSurface(t, 300, 200, scratch.WithThreshold(101))
	rng := rand.New(rand.NewPCG(1, 2))

	prev := s.MeasureCoverage()
	for i := 0; i < 200; i++ {
		s.ApplyStroke(scratch.Point{X: rng.Float64() * 320, Y: rng.Float64()*220 - 10})
		cov := s.MeasureCoverage()
		if cov < prev {
			t.Fatalf("stroke %d: coverage decreased from %.4f to %.4f", i, prev, cov)
		}
		prev = cov
	}
}

func TestApplyStroke_ClipsToBuffer(t *testing.T) {
	s := newSurface(t, 50, 50)

	s.ApplyStroke(scratch.Point{X: -500, Y: -500})
	if cov := s.MeasureCoverage(); cov != 0 {
		t.Errorf("expected stroke outside the surface to erase nothing, got %.2f%%", cov)
	}

	s.ApplyStroke(scratch.Point{X: 0, Y: 0})
	if cov := s.MeasureCoverage(); cov <= 0 {
		t.Error("expected corner stroke to erase part of the buffer")
	}
}

func TestNew_UnavailableSurfaceIsNoOp(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		opts []scratch.Option
	}{
		{name: "zero size", w: 0, h: 200, opts: []scratch.Option{scratch.WithPainter(solidPainter{c: purple})}},
		{name: "negative size", w: 300, h: -1, opts: []scratch.Option{scratch.WithPainter(solidPainter{c: purple})}},
		{name: "no painter", w: 300, h: 200},
		{name: "painter error", w: 300, h: 200, opts: []scratch.Option{scratch.WithPainter(solidPainter{err: errors.New("no context")})}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			opts := append(tt.opts, scratch.WithOnReveal(func() { called = true }), scratch.WithThreshold(0))
			s := scratch.New(tt.w, tt.h, opts...)

			if s.Available() {
				t.Fatal("expected unavailable surface")
			}
			s.ApplyStroke(scratch.Point{X: 10, Y: 10})
			if cov := s.MeasureCoverage(); cov != 0 {
				t.Errorf("expected zero coverage, got %.2f", cov)
			}
			if s.CheckReveal() || s.Revealed() || called {
				t.Error("expected no reveal on unavailable surface")
			}
			resp := s.Handle(scratch.Event{Type: scratch.PointerDown, Point: scratch.Point{X: 10, Y: 10}})
			if resp.Erased || resp.Revealed {
				t.Errorf("expected no-op response, got %+v", resp)
			}

			dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
			s.DrawOver(dst)
			for _, b := range dst.Pix {
				if b != 0 {
					t.Fatal("expected DrawOver to leave dst untouched")
				}
			}
		})
	}
}

func TestDrawOver_ShowsPrizeThroughScratches(t *testing.T) {
	s := newSurface(t, 100, 100)
	s.ApplyStroke(scratch.Point{X: 20, Y: 20})

	red := color.RGBA{R: 0xff, A: 0xff}
	dst := image.NewRGBA(s.Bounds())
	for i := 0; i < len(dst.Pix); i += 4 {
		dst.Pix[i], dst.Pix[i+3] = red.R, red.A
	}
	s.DrawOver(dst)

	if got := dst.RGBAAt(40, 40); got != red {
		t.Errorf("expected prize under scratch at (40,40), got %v", got)
	}
	if got := dst.RGBAAt(180, 180); got != purple {
		t.Errorf("expected overlay at (180,180), got %v", got)
	}
}
