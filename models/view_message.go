package models

import (
	"encoding/json"
	"time"
)

// Client message types on the view WebSocket.
const (
	MESSAGE_SELECT = "select"
	MESSAGE_RESET  = "reset"
	MESSAGE_RESIZE = "resize"
)

// Server message types on the view WebSocket.
const (
	MESSAGE_FLY_TO = "fly_to"
	MESSAGE_STATE  = "state"
	MESSAGE_ERROR  = "error"
)

// ClientMessage is a message sent by the map surface.
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// SelectPayload names a marker, a legend date, or raw coordinates.
type SelectPayload struct {
	MarkerKey string   `json:"marker_key,omitempty"`
	Date      string   `json:"date,omitempty"`
	Lat       *float64 `json:"lat,omitempty"`
	Lng       *float64 `json:"lng,omitempty"`
	Input     string   `json:"input,omitempty"`
}

type ResetPayload struct {
	Source string `json:"source"`
}

type ResizePayload struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ServerMessage is a message pushed to the map surface.
type ServerMessage struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// NewServerMessage stamps a message with the current time.
func NewServerMessage(msgType string, payload interface{}) ServerMessage {
	return ServerMessage{Type: msgType, Payload: payload, Timestamp: time.Now().UTC()}
}
