package export

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/spintop/internal/arena"
	"github.com/san-kum/spintop/internal/viz"
)

// SnapshotToSVG writes a still of the arena in its own pixel coordinates:
// background and rim, velocity arrows, then the tops on top of them.
func SnapshotToSVG(w io.Writer, s arena.Snapshot) error {
	bw := bufio.NewWriter(w)
	side := 2 * (s.Radius + arena.CanvasPadding)
	originX := s.Center.X - side/2
	originY := s.Center.Y - side/2

	bg, fg := "#1a1a1a", "#ffffff"
	if s.FlashIntensity > 0 {
		bg, fg = "#ffffff", "#000000"
	}

	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="%.1f %.1f %.1f %.1f">
<rect x="%.1f" y="%.1f" width="100%%" height="100%%" fill="%s"/>
`, side, side, originX, originY, side, side, originX, originY, bg)
	fmt.Fprintf(bw, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s"/>
<circle cx="%.1f" cy="%.1f" r="4" fill="%s"/>
`, s.Center.X, s.Center.Y, s.Radius, fg, s.Center.X, s.Center.Y, fg)

	for _, t := range s.Tops {
		writeArrow(bw, t)
	}
	for _, t := range s.Tops {
		writeTop(bw, t)
	}

	bw.WriteString("</svg>\n")
	return bw.Flush()
}

func contrast(t arena.TopView) string {
	if t.Selected {
		return "#ffffff"
	}
	if t.Palette.Primary == "#000000" {
		return "#ffffff"
	}
	return "#000000"
}

func writeArrow(w io.Writer, t arena.TopView) {
	dx, dy, length := viz.Arrow(t)
	tipX, tipY := t.X+dx*length, t.Y+dy*length
	heading := math.Atan2(dy, dx)
	const head = 8.0

	fmt.Fprintf(w, `<path fill="none" stroke="%s" d="M%.1f,%.1f L%.1f,%.1f M%.1f,%.1f L%.1f,%.1f M%.1f,%.1f L%.1f,%.1f"/>
`, contrast(t),
		t.X, t.Y, tipX, tipY,
		tipX, tipY, tipX-head*math.Cos(heading-math.Pi/6), tipY-head*math.Sin(heading-math.Pi/6),
		tipX, tipY, tipX-head*math.Cos(heading+math.Pi/6), tipY-head*math.Sin(heading+math.Pi/6))
}

func writeTop(w io.Writer, t arena.TopView) {
	fmt.Fprintf(w, `<g class="top" data-index="%d">
<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="#ffffff"/>
<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, t.Index, t.X, t.Y, t.Radius, t.Palette.Primary, t.X, t.Y, t.Radius*0.6, t.Palette.Accent)

	for i := range 6 {
		a := math.Mod(t.Angle*2+float64(i)*math.Pi/3, 2*math.Pi)
		stroke := "#ffffff"
		if i%2 == 1 {
			stroke = contrast(arena.TopView{Palette: t.Palette})
		}
		fmt.Fprintf(w, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>
`, t.X+math.Cos(a)*t.Radius*0.3, t.Y+math.Sin(a)*t.Radius*0.3,
			t.X+math.Cos(a)*t.Radius*0.9, t.Y+math.Sin(a)*t.Radius*0.9, stroke)
	}

	fmt.Fprintf(w, `<circle cx="%.1f" cy="%.1f" r="3" fill="#ffffff"/>
`, t.X, t.Y)
	if t.Selected {
		fmt.Fprintf(w, `<circle class="selection" cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="#ffffff"/>
`, t.X, t.Y, t.Radius+4)
	}
	io.WriteString(w, "</g>\n")
}

// CanvasToSVG converts a braille canvas to SVG, one circle per lit dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	dotsW, dotsH := canvas.Dots()
	width := float64(dotsW) * scale
	height := float64(dotsH) * scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height))

	dotRadius := scale * 0.4
	for y := 0; y < dotsH; y++ {
		for x := 0; x < dotsW; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesToSVG plots a frame series as a polyline, e.g. the live count of a
// stored run.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	lo -= span * 0.1
	span *= 1.2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	last := float64(len(values) - 1)
	for i, v := range values {
		x := float64(i) / last * float64(width)
		y := float64(height) - (v-lo)/span*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
