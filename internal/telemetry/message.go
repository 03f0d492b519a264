// Package telemetry turns arena state into rate-limited event messages for an
// external synthesis process.
//
// Messages are transport agnostic: an address path and an ordered argument
// list. Concrete transports live in internal/osc and internal/relay.
package telemetry

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// DefaultPrefix is prepended to every address the Exporter emits.
const DefaultPrefix = "/stfs"

// Message is a single event. Args hold float32, int32 or string values.
type Message struct {
	Address string `json:"address"`
	Args    []any  `json:"args"`
}

func (m Message) String() string {
	parts := make([]string, len(m.Args))
	for i, a := range m.Args {
		parts[i] = fmt.Sprint(a)
	}
	return m.Address + " [" + strings.Join(parts, " ") + "]"
}

// Sink receives messages. Implementations must not retain m.Args.
type Sink interface {
	Send(m Message) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Message) error

func (f SinkFunc) Send(m Message) error { return f(m) }

// Discard drops every message.
var Discard Sink = SinkFunc(func(Message) error { return nil })

// MemorySink records every message it receives. Safe for concurrent use.
type MemorySink struct {
	mu   sync.Mutex
	msgs []Message
	Err  error // returned from Send when set; the message is still recorded
}

func (s *MemorySink) Send(m Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	args := make([]any, len(m.Args))
	copy(args, m.Args)
	s.msgs = append(s.msgs, Message{Address: m.Address, Args: args})
	return s.Err
}

func (s *MemorySink) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.msgs))
	copy(out, s.msgs)
	return out
}

// Addresses returns the address of every recorded message in arrival order.
func (s *MemorySink) Addresses() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.msgs))
	for i, m := range s.msgs {
		out[i] = m.Address
	}
	return out
}

func (s *MemorySink) Reset() {
	s.mu.Lock()
	s.msgs = nil
	s.mu.Unlock()
}

// LogSink writes every message at debug level.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Send(m Message) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("telemetry", "address", m.Address, "args", m.Args)
	return nil
}

// Multi fans a message out to every sink. All sinks are tried; their errors
// are joined.
func Multi(sinks ...Sink) Sink {
	return multi(sinks)
}

type multi []Sink

func (ms multi) Send(m Message) error {
	var errs []error
	for _, s := range ms {
		if err := s.Send(m); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
