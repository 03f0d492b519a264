// Package osc carries telemetry messages over UDP as OSC 1.0 packets.
package osc

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"

	goosc "github.com/hypebeast/go-osc/osc"

	"github.com/san-kum/spintop/internal/telemetry"
)

const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 57120 // PureData / SuperCollider default
)

var ErrClosed = errors.New("osc: sink closed")

// Encode converts a telemetry message into an OSC packet. float64 and int
// arguments are narrowed to the 32-bit OSC types.
func Encode(m telemetry.Message) ([]byte, error) {
	msg := goosc.NewMessage(m.Address)
	for i, arg := range m.Args {
		switch v := arg.(type) {
		case float64:
			msg.Append(float32(v))
		case int:
			msg.Append(int32(v))
		case float32, int32, int64, string, bool, nil:
			msg.Append(v)
		default:
			return nil, fmt.Errorf("osc: unsupported argument %d of type %T", i, arg)
		}
	}
	return msg.MarshalBinary()
}

// Decode parses a single OSC packet. Bundles are flattened in order.
func Decode(b []byte) ([]telemetry.Message, error) {
	p, err := goosc.ParsePacket(string(b))
	if err != nil {
		return nil, fmt.Errorf("osc: parse packet: %w", err)
	}
	var out []telemetry.Message
	flatten(p, &out)
	return out, nil
}

func flatten(p goosc.Packet, out *[]telemetry.Message) {
	switch v := p.(type) {
	case *goosc.Message:
		args := make([]any, len(v.Arguments))
		copy(args, v.Arguments)
		*out = append(*out, telemetry.Message{Address: v.Address, Args: args})
	case *goosc.Bundle:
		for _, m := range v.Messages {
			flatten(m, out)
		}
		for _, b := range v.Bundles {
			flatten(b, out)
		}
	}
}

// UDPSink sends each message as one datagram. Safe for concurrent use.
type UDPSink struct {
	mu     sync.Mutex
	conn   net.Conn
	target string
}

// Dial resolves host:port and returns a connected sink. UDP dialing does not
// contact the peer, so an absent receiver only shows up as send errors.
func Dial(host string, port int) (*UDPSink, error) {
	if host == "" {
		host = DefaultHost
	}
	if port == 0 {
		port = DefaultPort
	}
	target := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := net.Dial("udp", target)
	if err != nil {
		return nil, fmt.Errorf("osc: dial %s: %w", target, err)
	}
	return &UDPSink{conn: conn, target: target}, nil
}

func (s *UDPSink) Target() string { return s.target }

func (s *UDPSink) Send(m telemetry.Message) error {
	b, err := Encode(m)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return ErrClosed
	}
	if _, err := s.conn.Write(b); err != nil {
		return fmt.Errorf("osc: send %s to %s: %w", m.Address, s.target, err)
	}
	return nil
}

func (s *UDPSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
