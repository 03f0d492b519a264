package viz

import (
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/spintop/internal/arena"
	"github.com/san-kum/spintop/internal/telemetry"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("cell 0 = %U, want U+2801", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("cell 1 = %U, want U+2880", c.Grid[0][1])
	}
	if !c.IsSet(3, 3) || c.IsSet(2, 3) {
		t.Error("IsSet disagrees with Set")
	}
	c.Unset(0, 0)
	if c.Grid[0][0] != blank {
		t.Errorf("cell 0 = %U after Unset", c.Grid[0][0])
	}
	c.Set(-1, 0)
	c.Set(4, 0)
	c.Set(0, 4)
	if c.IsSet(-1, 0) || c.IsSet(4, 0) {
		t.Error("out of range dots must stay unlit")
	}
}

func TestCanvasInvert(t *testing.T) {
	c := NewCanvas(1, 1)
	c.Set(0, 0)
	c.Invert()
	if c.IsSet(0, 0) {
		t.Error("lit dot still lit after Invert")
	}
	for y := range 4 {
		for x := range 2 {
			if (x != 0 || y != 0) && !c.IsSet(x, y) {
				t.Errorf("dot (%d,%d) not lit after Invert", x, y)
			}
		}
	}
	c.Invert()
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("double Invert = %U, want U+2801", c.Grid[0][0])
	}
}

func TestCanvasCircle(t *testing.T) {
	c := NewCanvas(20, 10)
	c.DrawCircle(20, 20, 8)
	for _, p := range [][2]int{{28, 20}, {12, 20}, {20, 28}, {20, 12}} {
		if !c.IsSet(p[0], p[1]) {
			t.Errorf("outline missing %v", p)
		}
	}
	if c.IsSet(20, 20) {
		t.Error("outline lit its center")
	}

	c.FillCircle(20, 20, 3)
	if !c.IsSet(20, 20) || !c.IsSet(23, 20) || c.IsSet(23, 23) {
		t.Error("fill does not match the disk")
	}
	c.EraseCircle(20, 20, 1)
	if c.IsSet(20, 20) || !c.IsSet(22, 20) {
		t.Error("erase does not match the disk")
	}
}

func TestCanvasLine(t *testing.T) {
	c := NewCanvas(10, 2)
	c.DrawLine(0, 0, 9, 0)
	for x := 0; x <= 9; x++ {
		if !c.IsSet(x, 0) {
			t.Fatalf("dot %d missing", x)
		}
	}
	c.EraseLine(0, 0, 4, 0)
	if c.IsSet(4, 0) || !c.IsSet(5, 0) {
		t.Error("erase line overshoots")
	}
}

func TestProjection(t *testing.T) {
	center := arena.Point{X: 350, Y: 350}
	p := NewProjection(center, 300, 128, 128)

	wantScale := 128.0 / 700.0
	if math.Abs(p.Scale-wantScale) > 1e-12 {
		t.Fatalf("scale = %v, want %v", p.Scale, wantScale)
	}
	x, y := p.ToDots(350, 350)
	if x != 64 || y != 64 {
		t.Errorf("center at (%d,%d), want (64,64)", x, y)
	}
	if got := p.Length(300); got != 55 {
		t.Errorf("radius = %d dots, want 55", got)
	}

	ax, ay := p.ToArena(x, y)
	if math.Abs(ax-350) > 1/p.Scale || math.Abs(ay-350) > 1/p.Scale {
		t.Errorf("round trip = (%v,%v)", ax, ay)
	}

	// wide canvas centers horizontally
	w := NewProjection(center, 300, 256, 128)
	if x, _ := w.ToDots(350, 350); x != 128 {
		t.Errorf("wide center x = %d, want 128", x)
	}
}

func TestArrow(t *testing.T) {
	tests := []struct {
		name       string
		view       arena.TopView
		dx, dy, ln float64
	}{
		{"resting points right", arena.TopView{Speed: 0.005, DirX: 0, DirY: 1}, 1, 0, 25},
		{"slow uses base", arena.TopView{Speed: 2, DirX: 0, DirY: -1}, 0, -1, 25},
		{"scales with speed", arena.TopView{Speed: 4, DirX: 1, DirY: 0}, 1, 0, 32},
		{"capped", arena.TopView{Speed: 10, DirX: -1, DirY: 0}, -1, 0, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dx, dy, ln := Arrow(tt.view)
			if dx != tt.dx || dy != tt.dy || ln != tt.ln {
				t.Errorf("Arrow = (%v,%v,%v), want (%v,%v,%v)", dx, dy, ln, tt.dx, tt.dy, tt.ln)
			}
		})
	}
}

func TestSelectedInfo(t *testing.T) {
	a := arena.New(300, arena.WithRand(arena.NewRand(1)))
	top, _ := a.Spawn(500, 350)
	top.VX, top.VY = 3, 4
	top.Angle = -math.Pi / 2

	rows := SelectedInfo(a, top)
	got := map[string]string{}
	for _, r := range rows {
		got[r[0]] = r[1]
	}
	want := map[string]string{
		"Position":  "(500.00, 350.00)",
		"Velocity":  "(3.000, 4.000)",
		"Speed":     "5.000 px/frame",
		"Direction": "(0.600, 0.800)",
		"Distance":  "0.50 × radius",
		"Angle":     "270.0°",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
}

func newTestModel(opts ...Option) Model {
	factory := func() *arena.Arena {
		return arena.New(300, arena.WithRand(arena.NewRand(1)))
	}
	return NewModel(factory, append([]Option{WithRand(arena.NewRand(2))}, opts...)...)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestModelClickSpawnsAndToggles(t *testing.T) {
	sink := &telemetry.MemorySink{}
	m := newTestModel(WithExporter(telemetry.NewExporter(sink)))

	press := tea.MouseMsg{X: 33, Y: 16, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	m, _ = update(t, m, press)
	if m.Arena().Len() != 1 {
		t.Fatalf("live = %d after click, want 1", m.Arena().Len())
	}
	top := m.Arena().Top(0)
	if math.Hypot(top.X-350, top.Y-350) > 20 {
		t.Errorf("spawned at (%v,%v), want near the center", top.X, top.Y)
	}
	if !slices.Contains(sink.Addresses(), "/stfs/spawn") {
		t.Errorf("addresses = %v, want a spawn message", sink.Addresses())
	}

	m, _ = update(t, m, press)
	if m.Arena().Len() != 1 || m.Arena().Top(0).Selected {
		t.Error("second click on the same top must deselect, not spawn")
	}

	release := tea.MouseMsg{X: 33, Y: 16, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}
	m, _ = update(t, m, release)
	if m.Arena().Len() != 1 {
		t.Error("release must not spawn")
	}

	outside := tea.MouseMsg{X: 2, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	m, _ = update(t, m, outside)
	if m.Arena().Len() != 1 {
		t.Error("click outside the arena must be ignored")
	}
}

func TestModelKeys(t *testing.T) {
	m := newTestModel()

	m, _ = update(t, m, key("r"))
	m, _ = update(t, m, key("r"))
	if m.Arena().Len() != 2 {
		t.Fatalf("live = %d after two random spawns", m.Arena().Len())
	}

	m, _ = update(t, m, key(" "))
	if m.Running() {
		t.Fatal("space must pause")
	}
	frame := m.Arena().Frame()
	m, cmd := update(t, m, TickMsg(time.Now()))
	if cmd == nil {
		t.Error("tick must schedule the next tick")
	}
	if m.Arena().Frame() != frame {
		t.Error("paused model stepped on tick")
	}
	m, _ = update(t, m, key("s"))
	if m.Arena().Frame() != frame+1 {
		t.Error("s must single step while paused")
	}

	m, _ = update(t, m, key(" "))
	m, _ = update(t, m, TickMsg(time.Now()))
	if m.Arena().Frame() != frame+2 {
		t.Error("running model must step on tick")
	}

	m, _ = update(t, m, key("c"))
	if m.Arena().Len() != 0 || m.Arena().Frame() != 0 {
		t.Error("c must replace the arena")
	}

	_, cmd = update(t, m, key("q"))
	if cmd == nil {
		t.Fatal("q must return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q must quit")
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel()
	m, _ = update(t, m, key("r"))
	m, _ = update(t, m, TickMsg(time.Now()))
	m, _ = update(t, m, TickMsg(time.Now()))

	v := m.View()
	for _, want := range []string{"SPINTOP", "RUNNING", "Position", "Angle", "Live tops"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModelResize(t *testing.T) {
	m := newTestModel()
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 200, Height: 42})
	if m.canvas.Height != 40 || m.canvas.Width != 80 {
		t.Errorf("canvas = %dx%d, want 80x40", m.canvas.Width, m.canvas.Height)
	}
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 10})
	if m.canvas.Height != 40 {
		t.Error("tiny windows must keep the previous canvas")
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder(4, 2)
	path := filepath.Join(t.TempDir(), "out.gif")
	if err := r.Save(path); err != ErrNoFrames {
		t.Fatalf("empty save err = %v, want ErrNoFrames", err)
	}

	c := NewCanvas(4, 2)
	c.DrawLine(0, 0, 7, 7)
	r.Capture(c)
	r.Capture(c)
	if r.Len() != 2 {
		t.Fatalf("frames = %d", r.Len())
	}
	if got := r.frames[0].ColorIndexAt(0, 0); got != 1 {
		t.Errorf("first dot pixel = %d, want lit", got)
	}
	if err := r.Save(path); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("gif not written: %v", err)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil, 4); got != "────" {
		t.Errorf("empty = %q", got)
	}
	if got := Sparkline([]float64{0, 7, 0, 7, 3.5}, 3); got != "▁█▄" {
		t.Errorf("got %q", got)
	}
}
