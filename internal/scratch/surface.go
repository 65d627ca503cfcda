// Package scratch implements the scratch-off surface of a scratch card: an
// opacity buffer over a hidden prize that strokes erase until enough of it
// is transparent to reveal the prize.
//
// A Surface is owned by a single card and is not safe for concurrent use.
package scratch

import (
	"image"
	"log/slog"
	"math"

	"golang.org/x/image/draw"
)

const (
	// DefaultScale is the number of buffer pixels per display unit.
	DefaultScale = 2
	// DefaultBrushRadius is the brush radius in display units.
	DefaultBrushRadius = 30
	// DefaultThreshold is the coverage percentage that reveals the prize.
	DefaultThreshold = 60
)

// Point is a position in display units, relative to the top-left corner.
type Point struct {
	X, Y float64
}

// Painter paints the opaque decorative layer that covers the prize.
// The returned image must be width*scale by height*scale pixels.
type Painter interface {
	PaintOverlay(width, height, scale int) (*image.RGBA, error)
}

// Option configures a Surface.
type Option func(*Surface)

// WithScale sets the oversampling factor between display units and buffer pixels.
func WithScale(scale int) Option {
	return func(s *Surface) { s.scale = scale }
}

// WithBrushRadius sets the brush radius in display units.
func WithBrushRadius(r float64) Option {
	return func(s *Surface) { s.brushRadius = r }
}

// WithThreshold sets the coverage percentage at which the surface reveals.
func WithThreshold(pct float64) Option {
	return func(s *Surface) { s.threshold = pct }
}

// WithPainter sets the painter for the decorative layer.
func WithPainter(p Painter) Option {
	return func(s *Surface) { s.painter = p }
}

// WithOnReveal registers a callback invoked once, when the surface reveals.
func WithOnReveal(fn func()) Option {
	return func(s *Surface) { s.onReveal = fn }
}

// WithLogger sets the logger used to report degraded surfaces.
func WithLogger(l *slog.Logger) Option {
	return func(s *Surface) { s.logger = l }
}

// Surface is an opacity buffer sized to the display area times the scale.
type Surface struct {
	width, height int
	scale         int
	brushRadius   float64
	threshold     float64

	painter  Painter
	onReveal func()
	logger   *slog.Logger

	layer *image.RGBA  // decorative colours
	mask  *image.Alpha // opacity; nil when the surface is unavailable
	total int

	revealed bool
	pressing bool
}

// New initializes a surface for a display area of width by height units.
// A non-positive size, a missing painter or a painter error leave the
// surface unavailable: every operation on it is then a no-op.
func New(width, height int, opts ...Option) *Surface {
	s := &Surface{
		width:       width,
		height:      height,
		scale:       DefaultScale,
		brushRadius: DefaultBrushRadius,
		threshold:   DefaultThreshold,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.scale < 1 {
		s.scale = 1
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}

	if width <= 0 || height <= 0 {
		s.logger.Warn("scratch surface unavailable", "reason", "empty layout", "width", width, "height", height)
		return s
	}
	if s.painter == nil {
		s.logger.Warn("scratch surface unavailable", "reason", "no painter")
		return s
	}

	bw, bh := width*s.scale, height*s.scale
	layer, err := s.painter.PaintOverlay(width, height, s.scale)
	if err != nil {
		s.logger.Warn("scratch surface unavailable", "reason", "paint overlay", "error", err)
		return s
	}
	if layer == nil || layer.Bounds().Dx() != bw || layer.Bounds().Dy() != bh {
		s.logger.Warn("scratch surface unavailable", "reason", "overlay size mismatch")
		return s
	}

	mask := image.NewAlpha(image.Rect(0, 0, bw, bh))
	for i := range mask.Pix {
		mask.Pix[i] = 0xff
	}

	s.layer = layer
	s.mask = mask
	s.total = bw * bh
	return s
}

// Available reports whether the surface has a drawable buffer.
func (s *Surface) Available() bool { return s.mask != nil }

// Revealed reports whether the reveal has fired.
func (s *Surface) Revealed() bool { return s.revealed }

// Bounds returns the buffer rectangle in device pixels.
func (s *Surface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.width*s.scale, s.height*s.scale)
}

// Size returns the display size in units.
func (s *Surface) Size() (width, height int) { return s.width, s.height }

// ApplyStroke erases a disc of the brush radius centred at p.
// A buffer pixel is erased when its centre lies inside the disc.
func (s *Surface) ApplyStroke(p Point) {
	if s.mask == nil || s.revealed {
		return
	}

	scale := float64(s.scale)
	cx, cy := p.X*scale, p.Y*scale
	r := s.brushRadius * scale
	if r <= 0 {
		return
	}

	b := s.mask.Rect
	x0 := max(b.Min.X, int(math.Floor(cx-r)))
	x1 := min(b.Max.X, int(math.Ceil(cx+r)))
	y0 := max(b.Min.Y, int(math.Floor(cy-r)))
	y1 := min(b.Max.Y, int(math.Ceil(cy+r)))
	r2 := r * r

	for y := y0; y < y1; y++ {
		dy := float64(y) + 0.5 - cy
		row := s.mask.Pix[(y-b.Min.Y)*s.mask.Stride:]
		for x := x0; x < x1; x++ {
			dx := float64(x) + 0.5 - cx
			if dx*dx+dy*dy <= r2 {
				row[x-b.Min.X] = 0
			}
		}
	}
}

// MeasureCoverage returns the percentage of fully transparent buffer pixels.
func (s *Surface) MeasureCoverage() float64 {
	if s.mask == nil || s.total == 0 {
		return 0
	}
	transparent := 0
	for _, a := range s.mask.Pix {
		if a == 0 {
			transparent++
		}
	}
	return float64(transparent) / float64(s.total) * 100
}

// CheckReveal fires the reveal when coverage has reached the threshold.
// It reports whether this call performed the transition.
func (s *Surface) CheckReveal() bool {
	if s.mask == nil || s.revealed {
		return false
	}
	if s.MeasureCoverage() < s.threshold {
		return false
	}

	s.revealed = true
	s.pressing = false
	clear(s.mask.Pix)
	if s.onReveal != nil {
		s.onReveal()
	}
	return true
}

// DrawOver composites the decorative layer through the opacity buffer onto dst.
// dst is expected to share the buffer's bounds.
func (s *Surface) DrawOver(dst draw.Image) {
	if s.mask == nil || s.revealed {
		return
	}
	draw.DrawMask(dst, s.mask.Rect, s.layer, image.Point{}, s.mask, image.Point{}, draw.Over)
}

// LogValue summarises the surface for structured logs.
func (s *Surface) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("width", s.width),
		slog.Int("height", s.height),
		slog.Bool("available", s.mask != nil),
		slog.Bool("revealed", s.revealed),
	)
}

var _ slog.LogValuer = (*Surface)(nil)
