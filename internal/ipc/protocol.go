package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandGetMonitors CommandType = "GET_MONITORS"
	CommandGetEffects  CommandType = "GET_EFFECTS"
	CommandSnapshot    CommandType = "SNAPSHOT"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Name             string         `json:"name"`
	Version          string         `json:"version"`
	Mode             string         `json:"mode"`
	Started          bool           `json:"started"`
	UptimeSeconds    int64          `json:"uptime_seconds"`
	Backgrounds      int            `json:"backgrounds"`
	ActiveEffects    int            `json:"active_effects"`
	EffectCounts     map[string]int `json:"effect_counts,omitempty"`
	TrackedActors    int            `json:"tracked_actors"`
	SwitchInProgress bool           `json:"switch_in_progress"`
	KeymapLayout     string         `json:"keymap_layout,omitempty"`
	KeymapVariant    string         `json:"keymap_variant,omitempty"`
	KeymapOptions    string         `json:"keymap_options,omitempty"`
}

// MonitorInfo represents information about a single monitor and its
// background.
type MonitorInfo struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	X               int    `json:"x"`
	Y               int    `json:"y"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	BackgroundColor string `json:"background_color,omitempty"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// EffectInfo describes one running effect.
type EffectInfo struct {
	ID         string  `json:"id"`
	Category   string  `json:"category"`
	Actor      uint64  `json:"actor"`
	ActorName  string  `json:"actor_name"`
	Progress   float64 `json:"progress"`
	DurationMS int64   `json:"duration_ms"`
}

// EffectsData represents the data returned by GET_EFFECTS
type EffectsData struct {
	Effects []EffectInfo `json:"effects"`
}

// SnapshotPayload represents the payload for the SNAPSHOT command
type SnapshotPayload struct {
	Path string `json:"path"`
}

// SnapshotData represents the data returned by SNAPSHOT
type SnapshotData struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
