package tui

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/san-kum/spintop/internal/arena"
)

const (
	width       = 70
	height      = 30
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer draws the arena as plain ANSI text. It is a sim.Observer and
// skips steps that arrive faster than its frame rate.
type LiveRenderer struct {
	out       io.Writer
	title     string
	frameRate int
	now       func() time.Time
	lastFrame time.Time
	canvas    [][]rune
	frames    int
}

func NewLiveRenderer(title string, frameRate int) *LiveRenderer {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	if frameRate <= 0 {
		frameRate = 30
	}
	return &LiveRenderer{
		out:       os.Stdout,
		title:     title,
		frameRate: frameRate,
		now:       time.Now,
		canvas:    canvas,
	}
}

// SetOutput redirects rendering, mainly for tests.
func (r *LiveRenderer) SetOutput(w io.Writer) { r.out = w }

// Frames is the number of frames actually drawn.
func (r *LiveRenderer) Frames() int { return r.frames }

func (r *LiveRenderer) OnStep(a *arena.Arena, res arena.StepResult) {
	now := r.now()
	if !r.lastFrame.IsZero() && now.Sub(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = now

	r.clear()
	r.drawArena(a.Snapshot())
	r.render(res)
	r.frames++
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

// project maps arena pixels to character cells. Cells are about twice as
// tall as they are wide, so x gets twice the scale of y.
func (r *LiveRenderer) project(s arena.Snapshot, x, y float64) (int, int) {
	sy := float64(height-1) / (2 * s.Radius)
	sx := math.Min(2*sy, float64(width-1)/(2*s.Radius))
	cx := float64(width-1) / 2
	cy := float64(height-1) / 2
	return int(math.Round(cx + (x-s.Center.X)*sx)), int(math.Round(cy + (y-s.Center.Y)*sy))
}

func (r *LiveRenderer) drawArena(s arena.Snapshot) {
	rim := '.'
	if s.FlashIntensity > 0 {
		rim = '*'
	}
	for i := range 180 {
		th := float64(i) * 2 * math.Pi / 180
		x, y := r.project(s, s.Center.X+s.Radius*math.Cos(th), s.Center.Y+s.Radius*math.Sin(th))
		r.set(x, y, rim)
	}
	cx, cy := r.project(s, s.Center.X, s.Center.Y)
	r.set(cx, cy, '+')

	for _, t := range s.Tops {
		x, y := r.project(s, t.X, t.Y)
		r.set(x, y, glyph(t))
	}
}

func glyph(t arena.TopView) rune {
	switch {
	case t.Selected:
		return '@'
	case t.CollisionFlash > 0:
		return '#'
	case t.Palette.Primary == arena.Palettes[1].Primary:
		return 'O'
	default:
		return 'o'
	}
}

func (r *LiveRenderer) render(res arena.StepResult) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  frame=%d\n", r.title, res.Frame))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")
	b.WriteString(fmt.Sprintf("  live=%d collisions=%d removed=%d flash=%.2f\n", res.Live, res.Collisions, res.Removed, res.Flash))

	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
