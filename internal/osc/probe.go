package osc

import (
	"context"
	"time"

	"github.com/san-kum/spintop/internal/telemetry"
)

// Probe defaults: five datagrams 200 ms apart.
const (
	ProbeCount = 5
	ProbeGap   = 200 * time.Millisecond
)

// ProbeResult is the outcome of one probe datagram.
type ProbeResult struct {
	Seq int
	Err error
}

// Probe sends count messages {prefix}/probe [seq] through sink, gap apart,
// and reports each send. It stops early when ctx is cancelled and returns
// the number of successful sends.
func Probe(ctx context.Context, sink telemetry.Sink, prefix string, count int, gap time.Duration, report func(ProbeResult)) (int, error) {
	sent := 0
	t := time.NewTicker(gap)
	defer t.Stop()
	for i := 1; i <= count; i++ {
		if i > 1 {
			select {
			case <-ctx.Done():
				return sent, ctx.Err()
			case <-t.C:
			}
		}
		err := sink.Send(telemetry.Message{Address: prefix + "/probe", Args: []any{int32(i)}})
		if err == nil {
			sent++
		}
		if report != nil {
			report(ProbeResult{Seq: i, Err: err})
		}
	}
	return sent, nil
}
