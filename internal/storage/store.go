// Package storage persists run records: metadata.json plus a per-frame
// frames.csv under one directory per run.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/spintop/internal/arena"
	"github.com/san-kum/spintop/internal/sim"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Radius     float64            `json:"radius"`
	Frames     int                `json:"frames"`
	Tops       int                `json:"tops"`
	Spawned    int                `json:"spawned"`
	StepsTaken int                `json:"steps_taken"`
	FinalLive  int                `json:"final_live"`
	Params     arena.Params       `json:"params"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes a run and returns its id. The Timestamp, ID and result-derived
// fields of meta are filled in.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	if meta.Name == "" {
		meta.Name = "run"
	}
	meta.Timestamp = s.now()
	meta.Spawned = result.Spawned
	meta.StepsTaken = result.StepsTaken
	meta.FinalLive = len(result.Final.Tops)
	meta.Metrics = result.Metrics

	runID, runDir, err := s.allocate(meta.Name, meta.Timestamp)
	if err != nil {
		return "", err
	}
	meta.ID = runID

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		return "", err
	}
	defer f.Close()

	frames := result.Frames
	if frames == nil {
		frames = []sim.Frame{}
	}
	if err := gocsv.Marshal(&frames, f); err != nil {
		return "", fmt.Errorf("storage: write frames: %w", err)
	}
	return runID, nil
}

// allocate creates a fresh run directory, suffixing the id when two runs land
// in the same second.
func (s *Store) allocate(name string, ts time.Time) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	base := fmt.Sprintf("%s_%d", name, ts.Unix())
	id := base
	for n := 2; ; n++ {
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
		id = fmt.Sprintf("%s_%d", base, n)
	}
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID > runs[j].ID
		}
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: decode %s metadata: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer f.Close()

	frames := []sim.Frame{}
	if err := gocsv.Unmarshal(f, &frames); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return frames, nil
		}
		return nil, fmt.Errorf("storage: read %s frames: %w", runID, err)
	}
	return frames, nil
}

// LoadResult reassembles the stored parts of a run.
func (s *Store) LoadResult(runID string) (*RunMetadata, *sim.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, &sim.Result{
		Frames:     frames,
		Metrics:    meta.Metrics,
		Spawned:    meta.Spawned,
		StepsTaken: meta.StepsTaken,
	}, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
