package models

import (
	"github.com/sambhav874/WingHeights/internal/storage"
)

// MessageRequest is an inbound chat turn over HTTP.
type MessageRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// MessageResponse is the structured outbound message for one turn.
type MessageResponse struct {
	SessionID     string `json:"session_id,omitempty"`
	Response      string `json:"response"`
	RequiresInput bool   `json:"requires_input"`
	TokenCount    int    `json:"token_count"`
	MaxTokens     int    `json:"max_tokens"`
}

// AppointmentSubmission is the direct finalize path: a complete structured
// payload supplied at once, bypassing the field-by-field collector.
type AppointmentSubmission struct {
	SessionID string                     `json:"session_id"`
	Details   *storage.AppointmentRecord `json:"appointment_details"`
}

// Socket event names.
const (
	EventSessionCreated    = "session_created"
	EventMessage           = "message"
	EventSubmitAppointment = "submit_appointment"
	EventResponse          = "response"
	EventError             = "error"
)

// SocketEvent is an inbound WebSocket frame.
type SocketEvent struct {
	Event   string                     `json:"event"`
	Message string                     `json:"message,omitempty"`
	Details *storage.AppointmentRecord `json:"appointment_details,omitempty"`
}

// SocketResponse is an outbound WebSocket frame.
type SocketResponse struct {
	Event         string `json:"event"`
	SessionID     string `json:"session_id,omitempty"`
	Response      string `json:"response,omitempty"`
	RequiresInput bool   `json:"requires_input,omitempty"`
	TokenCount    int    `json:"token_count,omitempty"`
	MaxTokens     int    `json:"max_tokens,omitempty"`
	Error         string `json:"error,omitempty"`
}
