package terminal

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// statusRows is reserved below the card for the message and key help.
const statusRows = 2

// Viewport places a card of Width x Height display units on a grid of
// terminal cells. Each cell shows two vertically stacked pixels.
type Viewport struct {
	Left, Top  int
	Cols, Rows int
	Width      int
	Height     int
}

// Fit returns the largest viewport with the card's aspect ratio that fits
// a screen of cols x rows cells, centred horizontally.
func Fit(screenCols, screenRows, width, height int) Viewport {
	v := Viewport{Width: width, Height: height}
	rows := screenRows - statusRows
	if screenCols <= 0 || rows <= 0 || width <= 0 || height <= 0 {
		return v
	}

	// A cell is two pixels tall, so pixel height is rows*2.
	cols := screenCols
	pxRows := cols * height / width
	if pxRows > rows*2 {
		pxRows = rows * 2
		cols = pxRows * width / height
	}
	v.Cols = max(cols, 1)
	v.Rows = max(pxRows/2, 1)
	v.Left = (screenCols - v.Cols) / 2
	return v
}

// Empty reports whether the viewport has no drawable area.
func (v Viewport) Empty() bool { return v.Cols == 0 || v.Rows == 0 }

// ToCard maps a cell to the display coordinates of its centre. ok is
// false when the cell lies outside the card.
func (v Viewport) ToCard(col, row int) (x, y float64, ok bool) {
	if v.Empty() {
		return 0, 0, false
	}
	c, r := col-v.Left, row-v.Top
	if c < 0 || r < 0 || c >= v.Cols || r >= v.Rows {
		return 0, 0, false
	}
	x = (float64(c) + 0.5) * float64(v.Width) / float64(v.Cols)
	y = (float64(r) + 0.5) * float64(v.Height) / float64(v.Rows)
	return x, y, true
}

// Sample downscales src to one pixel column per cell and two pixel rows
// per cell.
func (v Viewport) Sample(src image.Image) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, v.Cols, v.Rows*2))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}
