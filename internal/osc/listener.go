package osc

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"github.com/san-kum/spintop/internal/telemetry"
)

const maxDatagram = 65507

// Listen reads OSC datagrams from conn and forwards every decoded message to
// sink until ctx is cancelled or conn fails. Undecodable packets are logged
// and skipped.
func Listen(ctx context.Context, conn net.PacketConn, sink telemetry.Sink) error {
	buf := make([]byte, maxDatagram)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		n, from, err := conn.ReadFrom(buf)
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			return err
		}

		msgs, err := Decode(buf[:n])
		if err != nil {
			slog.Warn("osc_decode_failed", "from", from.String(), "bytes", n, "error", err)
			continue
		}
		for _, m := range msgs {
			if err := sink.Send(m); err != nil {
				slog.Warn("osc_forward_failed", "address", m.Address, "error", err)
			}
		}
	}
}
