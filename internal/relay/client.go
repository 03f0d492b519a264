package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/san-kum/spintop/internal/telemetry"
)

// HTTPSink posts each message as JSON to a relay Handler.
type HTTPSink struct {
	URL    string
	Client *http.Client
}

func NewHTTPSink(url string) *HTTPSink {
	return &HTTPSink{URL: url, Client: &http.Client{Timeout: 2 * time.Second}}
}

func (s *HTTPSink) Send(m telemetry.Message) error {
	body, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("relay: encode %s: %w", m.Address, err)
	}
	resp, err := s.Client.Post(s.URL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("relay: post %s: %w", m.Address, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("relay: %s: status %d: %s", m.Address, resp.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}

// Probe fetches the relay status.
func (s *HTTPSink) Probe(ctx context.Context) (Status, error) {
	var st Status
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return st, err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return st, fmt.Errorf("relay: status: %w", err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return st, fmt.Errorf("relay: decode status: %w", err)
	}
	return st, nil
}
