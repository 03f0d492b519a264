package export

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/san-kum/spintop/internal/arena"
	"github.com/san-kum/spintop/internal/viz"
)

func wellFormed(t *testing.T, doc string) {
	t.Helper()
	d := xml.NewDecoder(strings.NewReader(doc))
	for {
		_, err := d.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			t.Fatalf("malformed svg: %v", err)
		}
	}
}

func TestSnapshotToSVG(t *testing.T) {
	a := arena.New(300, arena.WithRand(arena.NewRand(5)))
	a.Spawn(350, 350)
	a.Spawn(300, 300)

	var buf bytes.Buffer
	if err := SnapshotToSVG(&buf, a.Snapshot()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	wellFormed(t, out)

	if got := strings.Count(out, `class="top"`); got != 2 {
		t.Errorf("tops = %d, want 2", got)
	}
	if got := strings.Count(out, `class="selection"`); got != 1 {
		t.Errorf("selection rings = %d, want 1", got)
	}
	if !strings.Contains(out, `r="300.0" fill="none"`) {
		t.Error("arena rim missing")
	}
	if !strings.Contains(out, `fill="#1a1a1a"`) {
		t.Error("idle background expected")
	}
	if !strings.Contains(out, `viewBox="0.0 0.0 700.0 700.0"`) {
		t.Error("viewBox must cover the arena plus padding")
	}
}

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 2) != "" {
		t.Error("nil canvas must render nothing")
	}
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	out := CanvasToSVG(c, 2)
	wellFormed(t, out)
	if got := strings.Count(out, "<circle"); got != 2 {
		t.Errorf("dots = %d, want 2", got)
	}
	if !strings.Contains(out, `cx="7.0" cy="7.0"`) {
		t.Errorf("dot (3,3) misplaced:\n%s", out)
	}
}

func TestSeriesToSVG(t *testing.T) {
	if SeriesToSVG([]float64{1}, 100, 50, "#fff") != "" {
		t.Error("single point must render nothing")
	}
	out := SeriesToSVG([]float64{3, 2, 2, 1}, 300, 100, "#00ff88")
	wellFormed(t, out)
	if got := strings.Count(out, " L"); got != 3 {
		t.Errorf("segments = %d, want 3", got)
	}
	if !strings.Contains(out, "M0.0,") || !strings.Contains(out, "L300.0,") {
		t.Error("series must span the full width")
	}
}
