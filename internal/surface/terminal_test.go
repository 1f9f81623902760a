package surface

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b0ase/ckb-s3/internal/touch"
)

var _ touch.Input = (*Terminal)(nil)

func newSimTerminal(t *testing.T, fb *Framebuffer) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	term, err := NewTerminal(screen, fb)
	require.NoError(t, err)
	screen.SetSize(120, 60)
	t.Cleanup(term.Close)
	return term, screen
}

func TestTerminalRefreshMirrorsFrame(t *testing.T) {
	fb := NewFramebuffer(480, 480)
	fb.FillScreen(0x0000)
	fb.FillRect(0, 0, 4, 4, 0xF800) // top half of cell 0,0
	fb.FillRect(0, 4, 4, 4, 0x001F) // bottom half of cell 0,0
	fb.FillRect(4, 0, 4, 8, 0x07E0) // all of cell 1,0
	fb.Present()

	term, screen := newSimTerminal(t, fb)
	term.Refresh()

	ch, _, style, _ := screen.GetContent(0, 0)
	assert.Equal(t, '▀', ch)
	fg, bg, _ := style.Decompose()
	r, g, b := fg.RGB()
	assert.Equal(t, [3]int32{255, 0, 0}, [3]int32{r, g, b})
	r, g, b = bg.RGB()
	assert.Equal(t, [3]int32{0, 0, 255}, [3]int32{r, g, b})

	_, _, style, _ = screen.GetContent(1, 0)
	fg, bg, _ = style.Decompose()
	assert.Equal(t, fg, bg)
}

func TestTerminalMouseIsTouch(t *testing.T) {
	term, screen := newSimTerminal(t, NewFramebuffer(480, 480))

	_, pressed := term.Read()
	assert.False(t, pressed)

	screen.InjectMouse(10, 40, tcell.Button1, tcell.ModNone)
	assert.Eventually(t, func() bool {
		p, ok := term.Read()
		return ok && p == touch.Point{X: 42, Y: 324}
	}, time.Second, 5*time.Millisecond)

	screen.InjectMouse(10, 40, tcell.ButtonNone, tcell.ModNone)
	assert.Eventually(t, func() bool {
		_, ok := term.Read()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestTerminalQuitKey(t *testing.T) {
	term, screen := newSimTerminal(t, NewFramebuffer(480, 480))
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case <-term.Quit():
	case <-time.After(time.Second):
		t.Fatal("quit not signalled")
	}
}

func TestCellToPixel(t *testing.T) {
	assert.Equal(t, touch.Point{X: 2, Y: 4}, CellToPixel(0, 0))
	assert.Equal(t, touch.Point{X: 478, Y: 476}, CellToPixel(119, 59))
}
