// internal/model/event.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of event
type EventType string

const (
	EventInstrumentConnected    EventType = "INSTRUMENT_CONNECTED"
	EventInstrumentDisconnected EventType = "INSTRUMENT_DISCONNECTED"
	EventInstrumentError        EventType = "INSTRUMENT_ERROR"
	EventSettingsApplied        EventType = "SETTINGS_APPLIED"
	EventSettingsRejected       EventType = "SETTINGS_REJECTED"
	EventCaptureStarted         EventType = "CAPTURE_STARTED"
	EventCaptureCompleted       EventType = "CAPTURE_COMPLETED"
	EventCaptureFailed          EventType = "CAPTURE_FAILED"
	EventWaveformFrame          EventType = "WAVEFORM_FRAME"
	EventMeterReading           EventType = "METER_READING"
	EventGeneratorUpdate        EventType = "GENERATOR_UPDATE"
	EventScreenChange           EventType = "SCREEN_CHANGE"
	EventHealthUpdate           EventType = "HEALTH_UPDATE"
	EventStatusChange           EventType = "STATUS_CHANGE"
)

// InstrumentEvent represents an event in the system
type InstrumentEvent struct {
	ID           uuid.UUID  `json:"id"`
	EventType    EventType  `json:"event_type"`
	InstrumentID uuid.UUID  `json:"instrument_id"`
	Data         JSONObject `json:"data"`
	Timestamp    time.Time  `json:"timestamp"`
	Source       string     `json:"source"`
	Severity     string     `json:"severity"` // INFO, WARNING, ERROR, CRITICAL
}

// EventData structures for different event types

// InstrumentConnectedEventData represents instrument connection event
type InstrumentConnectedEventData struct {
	InstrumentInfo Instrument       `json:"instrument_info"`
	ConnectionTime time.Time        `json:"connection_time"`
	PreviousStatus InstrumentStatus `json:"previous_status"`
	ConnectionType ConnectionType   `json:"connection_type"`
}

// InstrumentErrorEventData represents instrument error event
type InstrumentErrorEventData struct {
	ErrorCode    string    `json:"error_code"`
	ErrorMessage string    `json:"error_message"`
	ErrorTime    time.Time `json:"error_time"`
	Severity     string    `json:"severity"`
	Recovery     bool      `json:"auto_recovery_possible"`
}

// CaptureEventData represents capture-related events
type CaptureEventData struct {
	SessionID    uuid.UUID     `json:"session_id"`
	Mode         CaptureMode   `json:"mode"`
	Status       CaptureStatus `json:"status"`
	FrameCount   int           `json:"frame_count"`
	DurationMs   *int          `json:"duration_ms,omitempty"`
	ErrorMessage *string       `json:"error_message,omitempty"`
}

// WaveformFrameEventData carries one decoded frame to subscribers
type WaveformFrameEventData struct {
	SessionID  uuid.UUID `json:"session_id"`
	Sequence   int       `json:"sequence"`
	Triggered  bool      `json:"triggered"`
	Ch1Samples []byte    `json:"ch1_samples,omitempty"`
	Ch2Samples []byte    `json:"ch2_samples,omitempty"`
}

// HealthUpdateEventData represents health status updates
type HealthUpdateEventData struct {
	HealthScore   int      `json:"health_score"`
	PreviousScore int      `json:"previous_score"`
	ResponseTime  int      `json:"response_time_ms"`
	ErrorRate     float64  `json:"error_rate"`
	UptimePercent float64  `json:"uptime_percent"`
	Alerts        []string `json:"alerts,omitempty"`
}
