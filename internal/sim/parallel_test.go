package sim

import (
	"context"
	"math"
	"testing"
)

func TestEnsembleRun(t *testing.T) {
	e := NewEnsemble(testFactory, func() []Metric { return []Metric{&testMetric{}} }, 4, 10)

	results, err := e.Run(context.Background(), Config{Frames: 60, Tops: 8, SpawnRadius: 0.8})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r.StepsTaken != 60 {
			t.Errorf("run %d took %d steps", i, r.StepsTaken)
		}
		if _, ok := r.Metrics["test"]; !ok {
			t.Errorf("run %d missing metric", i)
		}
	}

	summary := Summarize(results)
	if len(summary) != 1 || summary[0].Name != "test" || summary[0].N != 4 {
		t.Errorf("unexpected summary %+v", summary)
	}
}

func TestEnsembleInvalidConfig(t *testing.T) {
	e := NewEnsemble(testFactory, nil, 2, 1)
	if _, err := e.Run(context.Background(), Config{}); err == nil {
		t.Error("expected error for zero frames")
	}
}

func TestSummarize(t *testing.T) {
	results := []*Result{
		{Metrics: map[string]float64{"a": 1, "b": 10}},
		{Metrics: map[string]float64{"a": 3, "b": 10}},
	}

	s := Summarize(results)
	if len(s) != 2 || s[0].Name != "a" || s[1].Name != "b" {
		t.Fatalf("unexpected summary %+v", s)
	}
	if s[0].Mean != 2 || math.Abs(s[0].Std-math.Sqrt2) > 1e-12 {
		t.Errorf("a: mean=%v std=%v", s[0].Mean, s[0].Std)
	}
	if s[1].Std != 0 {
		t.Errorf("b std = %v", s[1].Std)
	}
	if Summarize(nil) != nil {
		t.Error("empty input should summarize to nil")
	}
}
