package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/spintop/internal/arena"
	"github.com/san-kum/spintop/internal/telemetry"
)

const (
	width           = 64
	height          = 32
	historyCapacity = 600
	frameRate       = 60
)

// Arrow geometry in arena pixels.
const (
	arrowBase     = 25.0
	arrowMax      = 40.0
	arrowPerSpeed = 8.0
	arrowHead     = 8.0
	restingSpeed  = 0.01
	selectionGap  = 4.0
	centerDot     = 4.0
)

type TickMsg time.Time

// Model is the live arena: it steps the simulation on every tick, turns mouse
// clicks into spawns and selections, and renders snapshots.
type Model struct {
	arena     *arena.Arena
	reset     func() *arena.Arena
	exporter  *telemetry.Exporter
	rng       arena.Rand
	width     int
	height    int
	canvas    *Canvas
	proj      Projection
	running   bool
	theme     int
	styles    palette
	live      []float64
	hits      []float64
	recording bool
	recorder  *Recorder
	gifPath   string
	notice    string
	showHelp  bool
}

type Option func(*Model)

// WithExporter forwards spawns and per-step samples to a telemetry exporter.
func WithExporter(e *telemetry.Exporter) Option {
	return func(m *Model) { m.exporter = e }
}

func WithRand(rng arena.Rand) Option {
	return func(m *Model) { m.rng = rng }
}

func WithTheme(name string) Option {
	return func(m *Model) { m.theme = themeIndex(name) }
}

// WithSize sets the canvas size in terminal cells.
func WithSize(w, h int) Option {
	return func(m *Model) { m.width, m.height = w, h }
}

// WithGIFPath sets where recordings are written.
func WithGIFPath(path string) Option {
	return func(m *Model) { m.gifPath = path }
}

// NewModel builds a live view over the arena returned by newArena. The same
// factory is used when the arena is cleared.
func NewModel(newArena func() *arena.Arena, opts ...Option) Model {
	m := Model{
		arena:   newArena(),
		reset:   newArena,
		width:   width,
		height:  height,
		running: true,
		gifPath: "spintop.gif",
		live:    make([]float64, 0, historyCapacity),
		hits:    make([]float64, 0, historyCapacity),
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.rng == nil {
		m.rng = arena.NewRand(0)
	}
	m.styles = newPalette(Themes[m.theme])
	m.resize(m.width, m.height)
	return m
}

// Arena exposes the arena currently on screen.
func (m Model) Arena() *arena.Arena { return m.arena }

func (m Model) Running() bool { return m.running }

// Frame draws the current arena and returns the canvas.
func (m Model) Frame() *Canvas {
	m.draw()
	return m.canvas
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	m.canvas = NewCanvas(w, h)
	dw, dh := m.canvas.Dots()
	m.proj = NewProjection(m.arena.Center(), m.arena.Radius(), dw, dh)
	m.recorder = nil
	m.recording = false
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recording {
				m.stopRecording()
			}
			return m, tea.Quit
		case " ", "space":
			m.running = !m.running
		case "s":
			if !m.running {
				m.step()
			}
		case "r":
			m.spawnRandom()
		case "c":
			m.arena = m.reset()
			m.live = m.live[:0]
			m.hits = m.hits[:0]
			m.notice = "cleared"
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
			m.styles = newPalette(Themes[m.theme])
			m.notice = "theme " + Themes[m.theme].Name
		case "g":
			if m.recording {
				m.stopRecording()
			} else {
				m.recording = true
				m.recorder = NewRecorder(m.width, m.height)
				m.notice = "recording"
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			x, y := m.cellToArena(msg.X, msg.Y)
			m.click(x, y)
		}
	case tea.WindowSizeMsg:
		h := min(msg.Height-2*canvasRow, (msg.Width-statsWidth-2*canvasCol-1)/2)
		if h >= 8 && (h != m.height || 2*h != m.width) {
			m.resize(2*h, h)
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

// cellToArena maps a terminal cell to the arena point under its center.
func (m Model) cellToArena(col, row int) (float64, float64) {
	dx := (col-canvasCol)*2 + 1
	dy := (row-canvasRow)*4 + 2
	return m.proj.ToArena(dx, dy)
}

func (m *Model) click(x, y float64) {
	t, spawned, ok := m.arena.Click(x, y)
	switch {
	case !ok:
		return
	case spawned:
		m.notice = fmt.Sprintf("spawned #%d", m.arena.Spawned())
		if m.exporter != nil {
			m.exporter.Spawn(m.arena, x, y)
		}
	case t.Selected:
		m.notice = "selected"
	default:
		m.notice = "deselected"
	}
}

// spawnRandom drops a top at a uniformly random point inside the arena.
func (m *Model) spawnRandom() {
	c := m.arena.Center()
	r := m.arena.Radius() * math.Sqrt(m.rng.Float64()) * 0.95
	th := m.rng.Float64() * 2 * math.Pi
	x, y := c.X+r*math.Cos(th), c.Y+r*math.Sin(th)
	if _, ok := m.arena.Spawn(x, y); ok {
		m.notice = fmt.Sprintf("spawned #%d", m.arena.Spawned())
		if m.exporter != nil {
			m.exporter.Spawn(m.arena, x, y)
		}
	}
}

func (m *Model) step() {
	res := m.arena.Step()
	if m.exporter != nil {
		m.exporter.Observe(m.arena, res)
	}
	m.live = appendCapped(m.live, float64(res.Live))
	m.hits = appendCapped(m.hits, float64(res.Collisions))
	if m.recording && m.recorder != nil {
		m.draw()
		m.recorder.Capture(m.canvas)
	}
}

func (m *Model) stopRecording() {
	m.recording = false
	if m.recorder == nil {
		return
	}
	if err := m.recorder.Save(m.gifPath); err != nil {
		m.notice = "gif: " + err.Error()
	} else {
		m.notice = fmt.Sprintf("saved %d frames to %s", m.recorder.Len(), m.gifPath)
	}
	m.recorder = nil
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

// View renders the canvas next to the stats panel.
func (m Model) View() string {
	m.draw()
	st := m.styles
	canvasView := st.canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(st.header.Render("SPINTOP") + "\n")
	if m.recording {
		s.WriteString(st.alert.Render("● REC") + "  ")
	}
	if m.running {
		s.WriteString(st.running.Render("RUNNING"))
	} else {
		s.WriteString(st.paused.Render("PAUSED"))
	}
	s.WriteString("\n")

	if len(m.live) > 1 {
		chart := asciigraph.Plot(m.live, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Live tops"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Frame", fmt.Sprintf("%d", m.arena.Frame()))
	row("Tops", fmt.Sprintf("%d live / %d spawned", m.arena.Len(), m.arena.Spawned()))
	row("Flash", ProgressBar(m.arena.FlashIntensity(), 20))
	row("Hits", Sparkline(m.hits, 24))
	if m.exporter != nil {
		stats := m.exporter.Stats()
		sent, failed := 0, 0
		for _, c := range stats {
			sent += c.Sent
			failed += c.Failed
		}
		row("Telemetry", fmt.Sprintf("%d sent, %d failed", sent, failed))
	}

	s.WriteString("\nSELECTED\n")
	if t := m.arena.Selected(); t != nil {
		for _, line := range SelectedInfo(m.arena, t) {
			row(line[0], line[1])
		}
	} else {
		s.WriteString(st.label.Render("  (none)") + "\n")
	}

	if m.notice != "" {
		s.WriteString("\n" + st.value.Render(m.notice) + "\n")
	}
	s.WriteString(st.help.Render("─────────────────────\nClick:Spawn/Select SP:Pause\nR:Random C:Clear T:Theme\nG:Record ?:Help Q:Quit"))

	statsView := st.stats.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          CONTROLS                    ║
╠══════════════════════════════════════╣
║  Click    - Spawn, or toggle a top   ║
║  Space    - Pause/Resume             ║
║  S        - Single step when paused  ║
║  R        - Spawn at random point    ║
║  C        - Clear the arena          ║
║  T        - Cycle themes             ║
║  G        - Toggle GIF recording     ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// SelectedInfo lists the label/value rows shown for the selected top.
func SelectedInfo(a *arena.Arena, t *arena.Top) [][2]string {
	dx, dy := t.DirectionVector()
	_, _, nd := a.Normalize(t.X, t.Y)
	deg := math.Mod(t.Angle*180/math.Pi, 360)
	if deg < 0 {
		deg += 360
	}
	return [][2]string{
		{"Position", fmt.Sprintf("(%.2f, %.2f)", t.X, t.Y)},
		{"Velocity", fmt.Sprintf("(%.3f, %.3f)", t.VX, t.VY)},
		{"Speed", fmt.Sprintf("%.3f px/frame", t.Speed())},
		{"Direction", fmt.Sprintf("(%.3f, %.3f)", dx, dy)},
		{"Distance", fmt.Sprintf("%.2f × radius", nd)},
		{"Spin", fmt.Sprintf("%.3f rad/frame", t.AngularVelocity)},
		{"Angle", fmt.Sprintf("%.1f°", deg)},
	}
}

// Arrow returns the drawable direction and length of a top's velocity arrow.
// Tops that are almost at rest point right.
func Arrow(t arena.TopView) (dirX, dirY, length float64) {
	dirX, dirY = t.DirX, t.DirY
	if t.Speed < restingSpeed {
		dirX, dirY = 1, 0
	}
	length = math.Max(arrowBase, math.Min(t.Speed*arrowPerSpeed, arrowMax))
	return dirX, dirY, length
}

// draw renders the current snapshot onto the canvas.
func (m *Model) draw() {
	m.canvas.Clear()
	snap := m.arena.Snapshot()

	cx, cy := m.proj.ToDots(snap.Center.X, snap.Center.Y)
	m.canvas.DrawCircle(cx, cy, m.proj.Length(snap.Radius))
	m.canvas.FillCircle(cx, cy, m.proj.Length(centerDot)/2)

	for _, t := range snap.Tops {
		m.drawArrow(t)
	}
	for _, t := range snap.Tops {
		m.drawTop(t)
	}

	if snap.FlashIntensity > 0 {
		m.canvas.Invert()
	}
}

func (m *Model) drawArrow(t arena.TopView) {
	dirX, dirY, length := Arrow(t)
	tipX, tipY := t.X+dirX*length, t.Y+dirY*length

	x0, y0 := m.proj.ToDots(t.X, t.Y)
	x1, y1 := m.proj.ToDots(tipX, tipY)
	m.canvas.DrawLine(x0, y0, x1, y1)

	heading := math.Atan2(dirY, dirX)
	for _, side := range []float64{-math.Pi / 6, math.Pi / 6} {
		hx := tipX - arrowHead*math.Cos(heading+side)
		hy := tipY - arrowHead*math.Sin(heading+side)
		x2, y2 := m.proj.ToDots(hx, hy)
		m.canvas.DrawLine(x1, y1, x2, y2)
	}
}

// drawTop draws light-primary tops as filled disks with a dark core and
// dark-primary tops as rings with a light core.
func (m *Model) drawTop(t arena.TopView) {
	x, y := m.proj.ToDots(t.X, t.Y)
	r := max(1, m.proj.Length(t.Radius))
	core := int(math.Round(float64(r) * 0.6))
	filled := t.Palette.Primary == arena.Palettes[1].Primary

	if filled {
		m.canvas.FillCircle(x, y, r)
		m.canvas.EraseCircle(x, y, core)
	} else {
		m.canvas.EraseCircle(x, y, r)
		m.canvas.DrawCircle(x, y, r)
		m.canvas.FillCircle(x, y, core)
	}

	// spokes only read at a usable size
	if r >= 4 {
		for i := range 6 {
			a := t.Angle*2 + float64(i)*math.Pi/3
			sx := x + int(math.Round(math.Cos(a)*float64(r)*0.3))
			sy := y + int(math.Round(math.Sin(a)*float64(r)*0.3))
			ex := x + int(math.Round(math.Cos(a)*float64(r)*0.9))
			ey := y + int(math.Round(math.Sin(a)*float64(r)*0.9))
			walkLine(sx, sy, ex, ey, m.canvas.Toggle)
		}
	}

	if t.Selected {
		m.canvas.DrawCircle(x, y, r+max(1, m.proj.Length(selectionGap)))
	}
}
