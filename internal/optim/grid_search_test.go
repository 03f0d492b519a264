package optim

import (
	"context"
	"errors"
	"testing"
)

func bowl(_ context.Context, p map[string]float64) (map[string]float64, error) {
	x, y := p["x"]-1, p["y"]+2
	return map[string]float64{"loss": x*x + y*y, "gain": -(x*x + y*y)}, nil
}

func TestGridSearchMinimize(t *testing.T) {
	g := NewGridSearch([]string{"x", "y"}, [][]float64{{0, 1, 2}, {-3, -2, 0}})
	best, trials, err := g.Search(t.Context(), bowl, "loss", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(trials) != 9 {
		t.Errorf("trials = %d, want 9", len(trials))
	}
	if best.Params["x"] != 1 || best.Params["y"] != -2 || best.Value != 0 {
		t.Errorf("best = %+v", best)
	}
}

func TestGridSearchMaximize(t *testing.T) {
	g := NewGridSearch([]string{"x"}, [][]float64{{-1, 0, 3}})
	best, _, err := g.Search(t.Context(), bowl, "gain", true)
	if err != nil {
		t.Fatal(err)
	}
	if best.Params["x"] != 0 {
		t.Errorf("best x = %v, want 0", best.Params["x"])
	}
}

func TestGridSearchErrors(t *testing.T) {
	g := NewGridSearch([]string{"x"}, [][]float64{{1}})
	if _, _, err := g.Search(t.Context(), bowl, "missing", false); err == nil {
		t.Error("unknown metric must fail")
	}

	boom := errors.New("boom")
	failing := func(context.Context, map[string]float64) (map[string]float64, error) { return nil, boom }
	if _, _, err := g.Search(t.Context(), failing, "loss", false); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}

	empty := NewGridSearch([]string{"x"}, [][]float64{{}})
	if _, _, err := empty.Search(t.Context(), bowl, "loss", false); !errors.Is(err, ErrNoCandidates) {
		t.Errorf("err = %v, want ErrNoCandidates", err)
	}

	if _, _, err := NewGridSearch([]string{"x"}, nil).Search(t.Context(), bowl, "loss", false); err == nil {
		t.Error("mismatched ranges must fail")
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	if _, _, err := g.Search(ctx, bowl, "loss", false); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
