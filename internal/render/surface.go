// Package render draws the dashboard and wallet screens onto a Surface.
//
// Renderers only issue primitive drawing calls; they never touch pixels.
// Coordinates are panel pixels with the origin top left, and text is
// positioned by the top-left corner of its bounding box.
package render

// Color is a packed RGB565 value, the panel's native format.
type Color uint16

// Font selects one of the panel's text faces.
type Font int

const (
	FontSmall  Font = iota // captions and footers
	FontBody               // running text
	FontLabel              // headers and buttons
	FontMedium             // secondary figures
	FontHero               // block height, balance
)

// Surface is the drawing capability set the renderers need.
type Surface interface {
	Size() (w, h int)
	FillScreen(c Color)
	FillRect(x, y, w, h int, c Color)
	FillRoundRect(x, y, w, h, r int, c Color)
	DrawHLine(x, y, w int, c Color)
	DrawVLine(x, y, h int, c Color)
	FillCircle(cx, cy, r int, c Color)
	// DrawText draws s and returns its advance width.
	DrawText(x, y int, f Font, c Color, s string) int
	TextBounds(f Font, s string) (w, h int)
	// Present publishes everything drawn since the last Present.
	Present()
}

// centerX returns the x that centers s horizontally within [x0, x0+w).
func centerX(s Surface, x0, w int, f Font, text string) int {
	tw, _ := s.TextBounds(f, text)
	return x0 + (w-tw)/2
}

// centerY returns the y that centers text vertically within [y0, y0+h).
func centerY(s Surface, y0, h int, f Font, text string) int {
	_, th := s.TextBounds(f, text)
	return y0 + (h-th)/2
}
