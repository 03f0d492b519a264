package storage

import (
	"encoding/json"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/spintop/internal/arena"
	"github.com/san-kum/spintop/internal/sim"
)

type ExportData struct {
	Run     RunMetadata        `json:"run"`
	Steps   int                `json:"steps"`
	Frames  []sim.Frame        `json:"frames"`
	Metrics map[string]float64 `json:"metrics"`
	Final   *arena.Snapshot    `json:"final,omitempty"`
}

// ExportJSON writes a run as one indented JSON document. A zero Final
// snapshot (loaded runs do not store one) is omitted.
func ExportJSON(w io.Writer, meta RunMetadata, result *sim.Result) error {
	data := ExportData{
		Run:     meta,
		Steps:   result.StepsTaken,
		Frames:  result.Frames,
		Metrics: result.Metrics,
	}
	if result.Final.Frame > 0 || len(result.Final.Tops) > 0 {
		final := result.Final
		data.Final = &final
	}
	if data.Frames == nil {
		data.Frames = []sim.Frame{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportCSV writes the frame log with a header row.
func ExportCSV(w io.Writer, frames []sim.Frame) error {
	if frames == nil {
		frames = []sim.Frame{}
	}
	return gocsv.Marshal(&frames, w)
}
