// Package render paints scratch card artwork with gg: the decorative layer
// that covers the prize and the prize face underneath it.
package render

import (
	"fmt"
	"image"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/draw"

	"github.com/lazzyms/scratch-reveal-deals/internal/domain"
	"github.com/lazzyms/scratch-reveal-deals/internal/scratch"
)

// Overlay colours and copy.
var (
	overlayFrom = gg.Hex("#c4b5fd")
	overlayTo   = gg.Hex("#8b5cf6")
	overlayInk  = gg.RGBA2(1, 1, 1, 0.9)
)

const (
	overlayTitle    = "SCRATCH HERE"
	overlaySubtitle = "to reveal your discount!"
	luckyCaption    = "Discount Unlocked!"
)

// Theme is the visual treatment of a prize face.
type Theme struct {
	From, To gg.RGBA
	Ink      gg.RGBA
	Frame    gg.RGBA
	Glow     bool // lucky offers get a framed, glowing face
}

var (
	luckyTheme = Theme{
		From:  gg.Hex("#fde68a"),
		To:    gg.Hex("#f59e0b"),
		Ink:   gg.Hex("#78350f"),
		Frame: gg.RGBA2(1, 1, 1, 0.85),
		Glow:  true,
	}
	plainTheme = Theme{
		From: gg.Hex("#cbd5e1"),
		To:   gg.Hex("#64748b"),
		Ink:  gg.White,
	}
)

// ThemeFor picks the prize treatment for an offer.
func ThemeFor(o domain.Offer) Theme {
	if o.IsLucky {
		return luckyTheme
	}
	return plainTheme
}

// Renderer paints card layers. It is safe for concurrent use; every call
// uses its own drawing context.
type Renderer struct {
	fonts *fontSet
}

// New parses the embedded fonts.
func New() (*Renderer, error) {
	fonts, err := loadFonts()
	if err != nil {
		return nil, err
	}
	return &Renderer{fonts: fonts}, nil
}

// Close releases the font sources.
func (r *Renderer) Close() error {
	return r.fonts.Close()
}

var _ scratch.Painter = (*Renderer)(nil)

// PaintOverlay paints the gradient and "SCRATCH HERE" copy at buffer resolution.
func (r *Renderer) PaintOverlay(width, height, scale int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 || scale <= 0 {
		return nil, fmt.Errorf("invalid overlay size %dx%d@%d", width, height, scale)
	}
	s := float64(scale)
	bw, bh := float64(width)*s, float64(height)*s

	dc := gg.NewContext(width*scale, height*scale)
	defer dc.Close()

	dc.ClearWithColor(overlayTo)
	dc.SetFillBrush(gg.NewLinearGradientBrush(0, 0, bw, bh).
		AddColorStop(0, overlayFrom).
		AddColorStop(1, overlayTo))
	dc.DrawRectangle(0, 0, bw, bh)
	if err := dc.Fill(); err != nil {
		return nil, fmt.Errorf("fill overlay: %w", err)
	}

	dc.SetFillBrush(gg.Solid(overlayInk))
	dc.SetFont(r.fonts.bold.Face(24 * s))
	dc.DrawStringAnchored(overlayTitle, bw/2, bh/2-10*s, 0.5, 0.5)
	dc.SetFont(r.fonts.regular.Face(16 * s))
	dc.DrawStringAnchored(overlaySubtitle, bw/2, bh/2+20*s, 0.5, 0.5)

	return toRGBA(dc.Image()), nil
}

// PaintPrize paints the face hidden under the overlay.
func (r *Renderer) PaintPrize(o domain.Offer, width, height, scale int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 || scale <= 0 {
		return nil, fmt.Errorf("invalid prize size %dx%d@%d", width, height, scale)
	}
	s := float64(scale)
	bw, bh := float64(width)*s, float64(height)*s
	theme := ThemeFor(o)

	dc := gg.NewContext(width*scale, height*scale)
	defer dc.Close()

	dc.ClearWithColor(theme.To)
	dc.SetFillBrush(gg.NewLinearGradientBrush(0, 0, bw, bh).
		AddColorStop(0, theme.From).
		AddColorStop(1, theme.To))
	dc.DrawRectangle(0, 0, bw, bh)
	if err := dc.Fill(); err != nil {
		return nil, fmt.Errorf("fill prize: %w", err)
	}

	if theme.Glow {
		inset := 8 * s
		dc.SetStrokeBrush(gg.Solid(theme.Frame))
		dc.SetLineWidth(4 * s)
		dc.DrawRoundedRectangle(inset, inset, bw-2*inset, bh-2*inset, 12*s)
		if err := dc.Stroke(); err != nil {
			return nil, fmt.Errorf("stroke frame: %w", err)
		}
	}

	maxW := bw * 0.85
	dc.SetFillBrush(gg.Solid(theme.Ink))
	dc.SetFont(fitFace(r.fonts.bold, o.Label, 40*s, maxW))
	dc.DrawStringAnchored(o.Label, bw/2, bh/2-16*s, 0.5, 0.5)

	dc.SetFont(fitFace(r.fonts.regular, o.Description, 14*s, maxW))
	dc.DrawStringAnchored(o.Description, bw/2, bh/2+18*s, 0.5, 0.5)

	if theme.Glow {
		dc.SetFont(fitFace(r.fonts.regular, luckyCaption, 12*s, maxW))
		dc.DrawStringAnchored(luckyCaption, bw/2, bh/2+42*s, 0.5, 0.5)
	}

	return toRGBA(dc.Image()), nil
}

// fitFace shrinks size until s fits within maxW.
func fitFace(src *text.FontSource, s string, size, maxW float64) text.Face {
	face := src.Face(size)
	for size > 8 {
		if w, _ := text.Measure(s, face); w <= maxW {
			break
		}
		size *= 0.9
		face = src.Face(size)
	}
	return face
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}
