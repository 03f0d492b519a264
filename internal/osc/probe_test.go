package osc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/san-kum/spintop/internal/telemetry"
)

func TestProbe(t *testing.T) {
	sink := &telemetry.MemorySink{}
	var seqs []int
	sent, err := Probe(t.Context(), sink, "/stfs", 3, time.Millisecond, func(r ProbeResult) {
		seqs = append(seqs, r.Seq)
	})
	if err != nil {
		t.Fatal(err)
	}
	if sent != 3 || len(seqs) != 3 || seqs[2] != 3 {
		t.Fatalf("sent = %d, seqs = %v", sent, seqs)
	}
	msgs := sink.Messages()
	if msgs[0].Address != "/stfs/probe" || msgs[1].Args[0] != int32(2) {
		t.Errorf("unexpected messages %v", msgs)
	}
}

func TestProbeCountsFailures(t *testing.T) {
	boom := errors.New("boom")
	sink := &telemetry.MemorySink{Err: boom}
	var failed int
	sent, err := Probe(t.Context(), sink, "/stfs", 2, time.Millisecond, func(r ProbeResult) {
		if errors.Is(r.Err, boom) {
			failed++
		}
	})
	if err != nil || sent != 0 || failed != 2 {
		t.Errorf("sent = %d, failed = %d, err = %v", sent, failed, err)
	}
}

func TestProbeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	sink := &telemetry.MemorySink{}
	sent, err := Probe(ctx, sink, "/stfs", 5, time.Hour, func(ProbeResult) { cancel() })
	if !errors.Is(err, context.Canceled) || sent != 1 {
		t.Errorf("sent = %d, err = %v", sent, err)
	}
}
