package metrics

import (
	"testing"

	"github.com/san-kum/spintop/internal/arena"
	"github.com/san-kum/spintop/internal/sim"
)

func observeAll(m sim.Metric, results ...arena.StepResult) {
	for _, r := range results {
		m.Observe(nil, r)
	}
}

func TestPopulation(t *testing.T) {
	p := NewPopulation()
	observeAll(p, arena.StepResult{Live: 4}, arena.StepResult{Live: 2}, arena.StepResult{Live: 0})

	if p.Value() != 2 {
		t.Errorf("mean = %v, want 2", p.Value())
	}
	if p.Peak() != 4 {
		t.Errorf("peak = %v, want 4", p.Peak())
	}
	p.Reset()
	if p.Value() != 0 || p.Peak() != 0 {
		t.Error("reset should clear samples")
	}
}

func TestSurvival(t *testing.T) {
	tests := []struct {
		name string
		live []int
		want float64
	}{
		{"never empties", []int{3, 2, 1}, 3},
		{"empties on frame two", []int{1, 0, 0, 0}, 2},
		{"starts empty", []int{0, 0}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSurvival()
			for _, n := range tt.live {
				s.Observe(nil, arena.StepResult{Live: n})
			}
			if s.Value() != tt.want {
				t.Errorf("survival = %v, want %v", s.Value(), tt.want)
			}
		})
	}
}

func TestCollisionRate(t *testing.T) {
	c := NewCollisionRate()
	observeAll(c,
		arena.StepResult{Live: 3, Collisions: 2},
		arena.StepResult{Live: 3, Collisions: 0},
		arena.StepResult{Live: 0, Collisions: 0},
	)

	if c.Value() != 1 {
		t.Errorf("rate = %v, want 1", c.Value())
	}
	if c.Total() != 2 {
		t.Errorf("total = %v, want 2", c.Total())
	}
}

func TestDefault(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Default() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %s", m.Name())
		}
		seen[m.Name()] = true
	}
	if len(seen) != 5 {
		t.Errorf("expected 5 metrics, got %d", len(seen))
	}
}
