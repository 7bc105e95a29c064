// pkg/instrument/types.go
package instrument

import (
	"time"

	"github.com/shopspring/decimal"

	"scope-service/internal/model"
)

// Core data structures

// InstrumentInfo contains basic instrument information
type InstrumentInfo struct {
	Brand           model.InstrumentBrand `json:"brand"`
	Model           string                `json:"model"`
	SerialNumber    string                `json:"serial_number"`
	FirmwareVersion string                `json:"firmware_version"`
	HardwareVersion string                `json:"hardware_version"`
	Capabilities    []model.Capability    `json:"capabilities"`
	ConnectionType  model.ConnectionType  `json:"connection_type"`
	Manufacturer    string                `json:"manufacturer"`
}

// InstrumentStatus represents current instrument status
type InstrumentStatus struct {
	Status       model.InstrumentStatus `json:"status"`
	IsReady      bool                   `json:"is_ready"`
	HasError     bool                   `json:"has_error"`
	ErrorCode    string                 `json:"error_code,omitempty"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	LastResponse time.Time              `json:"last_response"`
	ScreenMode   model.ScreenMode       `json:"screen_mode,omitempty"`
	Streaming    bool                   `json:"streaming"`
}

// OperationResult represents the result of an instrument operation
type OperationResult struct {
	Success      bool                   `json:"success"`
	ErrorCode    string                 `json:"error_code,omitempty"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	Data         map[string]interface{} `json:"data,omitempty"`
	Duration     string                 `json:"duration"`
	Timestamp    time.Time              `json:"timestamp"`
}

// HealthMetrics contains instrument health information
type HealthMetrics struct {
	HealthScore     int           `json:"health_score"` // 0-100
	ResponseTime    time.Duration `json:"response_time"`
	SuccessRate     float64       `json:"success_rate"` // 0.0-1.0
	ErrorCount      int64         `json:"error_count"`
	TotalOperations int64         `json:"total_operations"`
	UptimePercent   float64       `json:"uptime_percent"`
	LastErrorTime   *time.Time    `json:"last_error_time,omitempty"`
	LastSuccessTime *time.Time    `json:"last_success_time,omitempty"`
}

// EventHandler handles instrument events
type EventHandler interface {
	OnInstrumentConnected(instrumentID string)
	OnInstrumentDisconnected(instrumentID string, reason string)
	OnInstrumentError(instrumentID string, err error)
	OnOperationCompleted(instrumentID string, operationID string, result *OperationResult)
	OnStatusChanged(instrumentID string, oldStatus, newStatus model.InstrumentStatus)
	OnWaveformFrame(instrumentID string, frame *WaveformFrame)
	OnMeterReading(instrumentID string, reading *MeterMeasurement)
}

// Acquisition types

// WaveformFrame represents one decoded acquisition frame
type WaveformFrame struct {
	Sequence     int       `json:"sequence"`
	Triggered    bool      `json:"triggered"`
	Ch1Overrange bool      `json:"ch1_overrange"`
	Ch2Overrange bool      `json:"ch2_overrange"`
	Ch1Samples   []byte    `json:"ch1_samples,omitempty"`
	Ch2Samples   []byte    `json:"ch2_samples,omitempty"`
	Ch1Volts     []float64 `json:"ch1_volts,omitempty"`
	Ch2Volts     []float64 `json:"ch2_volts,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// MeterMeasurement represents one multimeter reading.
// The value keeps the instrument's mantissa and exponent exactly, so a
// reading of 12.345 V never turns into 12.344999.
type MeterMeasurement struct {
	Mode      model.MeterMode `json:"mode"`
	Value     decimal.Decimal `json:"value"`
	Unit      string          `json:"unit"`
	Overload  bool            `json:"overload"`
	Timestamp time.Time       `json:"timestamp"`
}
