// Package relay exposes telemetry over HTTP and WebSocket.
//
// Handler accepts JSON messages on /api/osc and forwards them to an inner
// sink (typically an osc.UDPSink). HTTPSink is the client half. Hub
// broadcasts every message it receives to connected WebSocket clients.
package relay

import (
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/san-kum/spintop/internal/telemetry"
)

const maxBody = 1 << 20

// Status is the GET /api/osc response.
type Status struct {
	OSCEnabled bool   `json:"oscEnabled"`
	Host       string `json:"host"`
	Port       int    `json:"port"`
	Error      string `json:"error,omitempty"`
}

type sendResult struct {
	Success bool   `json:"success"`
	Address string `json:"address"`
	Args    []any  `json:"args"`
	SentTo  string `json:"sentTo"`
}

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Handler serves /api/osc. A nil Sink reports OSC as disabled and answers
// POSTs with 503.
type Handler struct {
	Sink    telemetry.Sink
	Host    string
	Port    int
	InitErr error // why Sink is nil, if known
	Prefix  string
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.status(w)
	case http.MethodPost:
		h.forward(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
	}
}

func (h *Handler) status(w http.ResponseWriter) {
	st := Status{OSCEnabled: h.Sink != nil, Host: h.Host, Port: h.Port}
	if h.InitErr != nil {
		st.Error = h.InitErr.Error()
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *Handler) forward(w http.ResponseWriter, r *http.Request) {
	prefix := h.Prefix
	if prefix == "" {
		prefix = telemetry.DefaultPrefix
	}
	msg := telemetry.Message{Address: prefix, Args: []any{}}

	// Bodies without a JSON content type fall back to the bare prefix.
	if isJSON(r.Header.Get("Content-Type")) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "read body", Details: err.Error()})
			return
		}
		if len(strings.TrimSpace(string(body))) > 0 {
			var in struct {
				Address string `json:"address"`
				Args    []any  `json:"args"`
			}
			if err := json.Unmarshal(body, &in); err != nil {
				writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid JSON in request body", Details: err.Error()})
				return
			}
			if in.Address != "" {
				msg.Address = in.Address
			}
			if in.Args != nil {
				msg.Args = narrow(in.Args)
			}
		}
	}

	if h.Sink == nil {
		details := "OSC client failed to initialize"
		if h.InitErr != nil {
			details = h.InitErr.Error()
		}
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "OSC not initialized", Details: details})
		return
	}

	if err := h.Sink.Send(msg); err != nil {
		slog.Warn("relay_send_failed", "address", msg.Address, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, sendResult{
		Success: true,
		Address: msg.Address,
		Args:    msg.Args,
		SentTo:  h.target(),
	})
}

func (h *Handler) target() string {
	if h.Host == "" {
		return ""
	}
	return net.JoinHostPort(h.Host, strconv.Itoa(h.Port))
}

// narrow maps JSON numbers onto OSC-friendly types: integral values become
// int32, everything else float32.
func narrow(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case float64:
			if v == float64(int32(v)) {
				out[i] = int32(v)
			} else {
				out[i] = float32(v)
			}
		default:
			out[i] = v
		}
	}
	return out
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == "application/json"
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("relay_write_failed", "error", err)
	}
}
