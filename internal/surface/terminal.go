package surface

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/b0ase/ckb-s3/internal/logging"
	"github.com/b0ase/ckb-s3/internal/touch"
)

// Each terminal cell shows a 4x8 pixel block as two half-block glyphs.
const (
	CellW = 4
	CellH = 8
)

var log = logging.For("surface")

// Terminal mirrors a Framebuffer onto a tcell screen and turns mouse
// button 1 into touch input. Its event goroutine only records pointer
// state; the frame is copied by Refresh from the owning loop.
type Terminal struct {
	screen tcell.Screen
	fb     *Framebuffer

	mu      sync.Mutex
	pressed bool
	at      touch.Point

	quit chan struct{}
	once sync.Once
	done chan struct{}
}

// OpenTerminal takes over the controlling terminal.
func OpenTerminal(fb *Framebuffer) (*Terminal, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminal(s, fb)
}

// NewTerminal initializes s and starts its event goroutine.
func NewTerminal(s tcell.Screen, fb *Framebuffer) (*Terminal, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.EnableMouse()
	s.HideCursor()
	s.Clear()

	t := &Terminal{
		screen: s,
		fb:     fb,
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go t.events()
	return t, nil
}

func (t *Terminal) events() {
	defer close(t.done)
	for {
		ev := t.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventMouse:
			cx, cy := ev.Position()
			t.mu.Lock()
			t.pressed = ev.Buttons()&tcell.Button1 != 0
			t.at = CellToPixel(cx, cy)
			t.mu.Unlock()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyEscape || ev.Rune() == 'q' {
				t.once.Do(func() { close(t.quit) })
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

// CellToPixel maps a terminal cell to the panel pixel at its centre.
func CellToPixel(cx, cy int) touch.Point {
	return touch.Point{X: cx*CellW + CellW/2, Y: cy*CellH + CellH/2}
}

// Read implements touch.Input with the latest pointer state.
func (t *Terminal) Read() (touch.Point, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.at, t.pressed
}

// Quit is closed when the user asks to leave (q, Esc or Ctrl-C).
func (t *Terminal) Quit() <-chan struct{} { return t.quit }

// Refresh copies the presented frame to the terminal. The upper half of
// each cell averages the block's top four pixel rows, the lower half the
// bottom four.
func (t *Terminal) Refresh() {
	w, h := t.fb.Size()
	t.fb.mu.RLock()
	for cy := 0; cy*CellH < h; cy++ {
		for cx := 0; cx*CellW < w; cx++ {
			top := t.average(cx*CellW, cy*CellH, CellH/2)
			bottom := t.average(cx*CellW, cy*CellH+CellH/2, CellH/2)
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			t.screen.SetContent(cx, cy, '▀', nil, style)
		}
	}
	t.fb.mu.RUnlock()
	t.screen.Show()
}

// average must be called with fb.mu held.
func (t *Terminal) average(x0, y0, rows int) tcell.Color {
	var r, g, b, n int32
	for y := y0; y < y0+rows && y < t.fb.h; y++ {
		for x := x0; x < x0+CellW && x < t.fb.w; x++ {
			c := Expand565(renderColor(t.fb.front[y*t.fb.w+x]))
			r += int32(c.R)
			g += int32(c.G)
			b += int32(c.B)
			n++
		}
	}
	if n == 0 {
		return tcell.ColorBlack
	}
	return tcell.NewRGBColor(r/n, g/n, b/n)
}

// Close restores the terminal.
func (t *Terminal) Close() {
	t.screen.Fini()
	<-t.done
	log.Debug("terminal closed")
}
