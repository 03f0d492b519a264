package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/san-kum/spintop/internal/osc"
	"github.com/san-kum/spintop/internal/relay"
	"github.com/san-kum/spintop/internal/telemetry"
	"github.com/spf13/cobra"
)

func runRelay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	t := cfg.Telemetry

	h := &relay.Handler{Host: t.OSCHost, Port: t.OSCPort, Prefix: t.Prefix}
	if s, err := osc.Dial(t.OSCHost, t.OSCPort); err != nil {
		slog.Warn("osc_init_failed", "target", net.JoinHostPort(t.OSCHost, fmt.Sprint(t.OSCPort)), "error", err)
		h.InitErr = err
	} else {
		defer s.Close()
		h.Sink = s
	}

	hub := relay.NewHub()
	defer hub.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           relay.Mux(h, hub),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	slog.Info("relay_listening", "addr", addr, "osc", h.Sink != nil)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	t := cfg.Telemetry

	s, err := osc.Dial(t.OSCHost, t.OSCPort)
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Printf("probing %s\n\n", s.Target())
	sent, err := osc.Probe(cmd.Context(), s, t.Prefix, osc.ProbeCount, osc.ProbeGap, func(r osc.ProbeResult) {
		if r.Err != nil {
			fmt.Printf("✗ message %d: %v\n", r.Seq, r.Err)
			return
		}
		fmt.Printf("✓ message %d sent to %s\n", r.Seq, s.Target())
	})
	fmt.Printf("\nsent %d of %d\n", sent, osc.ProbeCount)
	if sent < osc.ProbeCount {
		fmt.Println("if nothing arrives, check that the receiver listens on this port on all interfaces and that the firewall allows UDP")
	}
	return err
}

func runMonitor(cmd *cobra.Command, args []string) error {
	conn, err := net.ListenPacket("udp", listen)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fmt.Printf("listening on %s\n", conn.LocalAddr())
	printer := telemetry.SinkFunc(func(m telemetry.Message) error {
		fmt.Println(m.String())
		return nil
	})
	err = osc.Listen(ctx, conn, printer)
	if errors.Is(err, context.Canceled) || errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}
