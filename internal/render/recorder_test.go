package render

import (
	"fmt"
	"strings"
)

type textOp struct {
	X, Y  int
	Font  Font
	Color Color
	Text  string
}

// recorder is a Surface that logs every call instead of drawing.
type recorder struct {
	w, h     int
	ops      []string
	texts    []textOp
	presents int
}

func newRecorder() *recorder { return &recorder{w: 480, h: 480} }

func (r *recorder) Size() (int, int) { return r.w, r.h }

func (r *recorder) FillScreen(c Color) {
	r.ops = append(r.ops, fmt.Sprintf("screen %04X", uint16(c)))
}

func (r *recorder) FillRect(x, y, w, h int, c Color) {
	r.ops = append(r.ops, fmt.Sprintf("rect %d,%d %dx%d %04X", x, y, w, h, uint16(c)))
}

func (r *recorder) FillRoundRect(x, y, w, h, rad int, c Color) {
	r.ops = append(r.ops, fmt.Sprintf("rrect %d,%d %dx%d r%d %04X", x, y, w, h, rad, uint16(c)))
}

func (r *recorder) DrawHLine(x, y, w int, c Color) {
	r.ops = append(r.ops, fmt.Sprintf("hline %d,%d %d", x, y, w))
}

func (r *recorder) DrawVLine(x, y, h int, c Color) {
	r.ops = append(r.ops, fmt.Sprintf("vline %d,%d %d", x, y, h))
}

func (r *recorder) FillCircle(cx, cy, rad int, c Color) {
	r.ops = append(r.ops, fmt.Sprintf("circle %d,%d r%d %04X", cx, cy, rad, uint16(c)))
}

func (r *recorder) DrawText(x, y int, f Font, c Color, s string) int {
	r.texts = append(r.texts, textOp{X: x, Y: y, Font: f, Color: c, Text: s})
	r.ops = append(r.ops, "text "+s)
	w, _ := r.TextBounds(f, s)
	return w
}

func (r *recorder) TextBounds(f Font, s string) (int, int) {
	return len(s) * 8 * (int(f) + 1), 12 * (int(f) + 1)
}

func (r *recorder) Present() { r.presents++ }

func (r *recorder) reset() {
	r.ops, r.texts, r.presents = nil, nil, 0
}

// text returns the first drawn text op containing substr.
func (r *recorder) text(substr string) (textOp, bool) {
	for _, t := range r.texts {
		if strings.Contains(t.Text, substr) {
			return t, true
		}
	}
	return textOp{}, false
}

func (r *recorder) has(prefix string) bool {
	for _, op := range r.ops {
		if strings.HasPrefix(op, prefix) {
			return true
		}
	}
	return false
}

func (r *recorder) count(prefix string) int {
	n := 0
	for _, op := range r.ops {
		if strings.HasPrefix(op, prefix) {
			n++
		}
	}
	return n
}
