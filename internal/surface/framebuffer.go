// Package surface provides the pixel-backed implementations of
// render.Surface: an in-memory RGB565 panel and its terminal mirror.
package surface

import (
	"errors"
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/b0ase/ckb-s3/internal/render"
)

// ErrNoFrame is returned before the first Present.
var ErrNoFrame = errors.New("no frame presented")

// fontScale is each face's magnification of the 7x13 bitmap font, in
// half steps.
var fontScale = map[render.Font]int{
	render.FontSmall:  4,
	render.FontBody:   4,
	render.FontLabel:  5,
	render.FontMedium: 5,
	render.FontHero:   10,
}

var face = basicfont.Face7x13

// Framebuffer is a double-buffered RGB565 panel. Drawing goes to the back
// buffer from the owning loop; Present copies it to the front buffer,
// which other goroutines may read at any time.
type Framebuffer struct {
	w, h int
	back []uint16

	mu     sync.RWMutex
	front  []uint16
	frames uint64
}

func NewFramebuffer(w, h int) *Framebuffer {
	return &Framebuffer{
		w:     w,
		h:     h,
		back:  make([]uint16, w*h),
		front: make([]uint16, w*h),
	}
}

func (f *Framebuffer) Size() (int, int) { return f.w, f.h }

func (f *Framebuffer) set(x, y int, c render.Color) {
	if x < 0 || y < 0 || x >= f.w || y >= f.h {
		return
	}
	f.back[y*f.w+x] = uint16(c)
}

func (f *Framebuffer) FillScreen(c render.Color) {
	for i := range f.back {
		f.back[i] = uint16(c)
	}
}

func (f *Framebuffer) FillRect(x, y, w, h int, c render.Color) {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, f.w), min(y+h, f.h)
	for yy := y0; yy < y1; yy++ {
		row := f.back[yy*f.w : (yy+1)*f.w]
		for xx := x0; xx < x1; xx++ {
			row[xx] = uint16(c)
		}
	}
}

func (f *Framebuffer) FillRoundRect(x, y, w, h, r int, c render.Color) {
	r = min(r, w/2, h/2)
	if r <= 0 {
		f.FillRect(x, y, w, h, c)
		return
	}
	f.FillRect(x+r, y, w-2*r, h, c)
	f.FillRect(x, y+r, r, h-2*r, c)
	f.FillRect(x+w-r, y+r, r, h-2*r, c)
	f.fillQuadrants(x+r, y+r, x+w-r-1, y+h-r-1, r, c)
}

// fillQuadrants fills the four corner quarter-discs of radius r centred
// on the given corner points.
func (f *Framebuffer) fillQuadrants(lx, ty, rx, by, r int, c render.Color) {
	for dy := 0; dy <= r; dy++ {
		for dx := 0; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			f.set(lx-dx, ty-dy, c)
			f.set(rx+dx, ty-dy, c)
			f.set(lx-dx, by+dy, c)
			f.set(rx+dx, by+dy, c)
		}
	}
}

func (f *Framebuffer) DrawHLine(x, y, w int, c render.Color) { f.FillRect(x, y, w, 1, c) }

func (f *Framebuffer) DrawVLine(x, y, h int, c render.Color) { f.FillRect(x, y, 1, h, c) }

func (f *Framebuffer) FillCircle(cx, cy, r int, c render.Color) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				f.set(cx+dx, cy+dy, c)
			}
		}
	}
}

func scaled(n, s2 int) int { return (n*s2 + 1) / 2 }

func (f *Framebuffer) TextBounds(fn render.Font, s string) (int, int) {
	s2 := fontScale[fn]
	adv := font.MeasureString(face, s).Ceil()
	return scaled(adv, s2), scaled(face.Height, s2)
}

// DrawText rasterizes s with the bitmap face into a mask, then blits the
// mask magnified by the font's scale with nearest-neighbour sampling.
func (f *Framebuffer) DrawText(x, y int, fn render.Font, c render.Color, s string) int {
	s2 := fontScale[fn]
	adv := font.MeasureString(face, s).Ceil()
	if adv == 0 {
		return 0
	}
	mask := image.NewAlpha(image.Rect(0, 0, adv, face.Height))
	d := font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(s)

	dw, dh := scaled(adv, s2), scaled(face.Height, s2)
	for dy := 0; dy < dh; dy++ {
		sy := dy * 2 / s2
		for dx := 0; dx < dw; dx++ {
			if mask.AlphaAt(dx*2/s2, sy).A >= 0x80 {
				f.set(x+dx, y+dy, c)
			}
		}
	}
	return dw
}

// Present publishes the back buffer.
func (f *Framebuffer) Present() {
	f.mu.Lock()
	copy(f.front, f.back)
	f.frames++
	f.mu.Unlock()
}

// Frames is the number of frames presented so far.
func (f *Framebuffer) Frames() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.frames
}

// PixelAt returns the presented RGB565 value at x, y.
func (f *Framebuffer) PixelAt(x, y int) render.Color {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if x < 0 || y < 0 || x >= f.w || y >= f.h {
		return 0
	}
	return render.Color(f.front[y*f.w+x])
}

// Snapshot converts the presented frame to 8-bit RGB.
func (f *Framebuffer) Snapshot() (*image.RGBA, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.frames == 0 {
		return nil, ErrNoFrame
	}
	img := image.NewRGBA(image.Rect(0, 0, f.w, f.h))
	for i, v := range f.front {
		img.SetRGBA(i%f.w, i/f.w, Expand565(render.Color(v)))
	}
	return img, nil
}

func renderColor(v uint16) render.Color { return render.Color(v) }

// Expand565 widens a packed color to 8 bits per channel by bit replication.
func Expand565(c render.Color) color.RGBA {
	v := uint16(c)
	r5 := uint8(v>>11) & 0x1F
	g6 := uint8(v>>5) & 0x3F
	b5 := uint8(v) & 0x1F
	return color.RGBA{R: r5<<3 | r5>>2, G: g6<<2 | g6>>4, B: b5<<3 | b5>>2, A: 0xFF}
}
