package telemetry

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/san-kum/spintop/internal/arena"
)

// Channel names a telemetry stream for bookkeeping.
type Channel string

const (
	ChannelSpawn     Channel = "spawn"
	ChannelCollision Channel = "collision"
	ChannelPosition  Channel = "position"
)

// SpeedScale maps top speed into [0, 1] for the per-top message.
const SpeedScale = 10.0

type ChannelStats struct {
	Sent   int
	Failed int
}

// Stats counts delivered and failed sends per channel.
type Stats map[Channel]ChannelStats

// Exporter samples an arena after each step and emits messages when the
// per-channel windows allow. Send failures are logged and counted, never
// returned.
type Exporter struct {
	sink      Sink
	prefix    string
	logger    *slog.Logger
	collision *Limiter
	position  *Limiter
	stats     Stats
}

type ExporterOption func(*exporterConfig)

type exporterConfig struct {
	prefix            string
	clock             Clock
	logger            *slog.Logger
	collisionInterval time.Duration
	positionInterval  time.Duration
}

func WithPrefix(prefix string) ExporterOption {
	return func(c *exporterConfig) { c.prefix = prefix }
}

func WithClock(clock Clock) ExporterOption {
	return func(c *exporterConfig) { c.clock = clock }
}

func WithLogger(l *slog.Logger) ExporterOption {
	return func(c *exporterConfig) { c.logger = l }
}

// WithIntervals overrides the collision and position windows. Non-positive
// values keep the defaults.
func WithIntervals(collision, position time.Duration) ExporterOption {
	return func(c *exporterConfig) {
		if collision > 0 {
			c.collisionInterval = collision
		}
		if position > 0 {
			c.positionInterval = position
		}
	}
}

func NewExporter(sink Sink, opts ...ExporterOption) *Exporter {
	cfg := exporterConfig{
		prefix:            DefaultPrefix,
		clock:             time.Now,
		collisionInterval: CollisionInterval,
		positionInterval:  PositionInterval,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if sink == nil {
		sink = Discard
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return &Exporter{
		sink:      sink,
		prefix:    cfg.prefix,
		logger:    cfg.logger,
		collision: NewLimiter(cfg.collisionInterval, cfg.clock),
		position:  NewLimiter(cfg.positionInterval, cfg.clock),
		stats:     Stats{},
	}
}

func (e *Exporter) Prefix() string { return e.prefix }

// Stats returns a copy of the per-channel counters.
func (e *Exporter) Stats() Stats {
	out := make(Stats, len(e.stats))
	for k, v := range e.stats {
		out[k] = v
	}
	return out
}

// Spawn emits {prefix}/spawn with the normalized spawn point. It is not
// throttled.
func (e *Exporter) Spawn(a *arena.Arena, x, y float64) {
	nx, ny, _ := a.Normalize(x, y)
	e.send(ChannelSpawn, Message{
		Address: e.prefix + "/spawn",
		Args:    []any{float32(nx), float32(ny)},
	})
}

// Observe samples the arena after a step. A collision message goes out only
// when res recorded at least one impulse; the per-top batch and summary go out
// whenever the position window is open, even for an empty arena.
func (e *Exporter) Observe(a *arena.Arena, res arena.StepResult) {
	if res.Collisions > 0 && e.collision.Allow() {
		e.send(ChannelCollision, Message{
			Address: e.prefix + "/collision",
			Args:    []any{float32(a.FlashIntensity())},
		})
	}

	if !e.position.Allow() {
		return
	}
	for i := 0; i < a.Len(); i++ {
		e.send(ChannelPosition, e.topMessage(a, i))
	}
	e.send(ChannelPosition, Message{
		Address: e.prefix + "/summary",
		Args:    []any{int32(a.Len()), float32(a.FlashIntensity())},
	})
}

func (e *Exporter) topMessage(a *arena.Arena, i int) Message {
	t := a.Top(i)
	nx, ny, nd := a.Normalize(t.X, t.Y)
	return Message{
		Address: fmt.Sprintf("%s/top/%d", e.prefix, i),
		Args: []any{
			float32(nx),
			float32(ny),
			float32(nd),
			float32(math.Min(t.Speed()/SpeedScale, 1)),
			float32(t.AngularVelocity),
			float32(t.CollisionFlash),
		},
	}
}

func (e *Exporter) send(ch Channel, m Message) {
	s := e.stats[ch]
	if err := e.sink.Send(m); err != nil {
		s.Failed++
		e.stats[ch] = s
		e.logger.Warn("telemetry_send_failed", "channel", string(ch), "address", m.Address, "error", err)
		return
	}
	s.Sent++
	e.stats[ch] = s
}
