// Package touch models the panel's single-point touch input.
package touch

import (
	"sync"
	"time"
)

// Point is a pixel coordinate on the panel.
type Point struct {
	X, Y int
}

// Input reports whether the panel is pressed and where. It is sampled
// once per loop iteration.
type Input interface {
	Read() (Point, bool)
}

// Debouncer swallows samples for a fixed window after an accepted touch,
// turning a held finger into one logical tap.
type Debouncer struct {
	Window time.Duration
	until  time.Time
	now    func() time.Time
}

func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{Window: window, now: time.Now}
}

// Accept reports whether a sample should be handled, and opens the quiet
// window when it is.
func (d *Debouncer) Accept(pressed bool) bool {
	if !pressed {
		return false
	}
	now := d.now()
	if now.Before(d.until) {
		return false
	}
	d.until = now.Add(d.Window)
	return true
}

// Script replays a fixed sequence of samples, then reports no touch.
type Script struct {
	mu      sync.Mutex
	samples []Sample
}

type Sample struct {
	P       Point
	Pressed bool
}

func NewScript(samples ...Sample) *Script {
	return &Script{samples: samples}
}

// Tap is a pressed sample at x, y.
func Tap(x, y int) Sample { return Sample{P: Point{X: x, Y: y}, Pressed: true} }

func (s *Script) Read() (Point, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.samples) == 0 {
		return Point{}, false
	}
	next := s.samples[0]
	s.samples = s.samples[1:]
	return next.P, next.Pressed
}

// Remaining is the number of unread samples.
func (s *Script) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.samples)
}
