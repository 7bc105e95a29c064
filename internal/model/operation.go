// internal/model/operation.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OperationType represents the type of operation
type OperationType string

const (
	OperationTypeCapture            OperationType = "CAPTURE"
	OperationTypeApplySettings      OperationType = "APPLY_SETTINGS"
	OperationTypeStreamStart        OperationType = "STREAM_START"
	OperationTypeStreamStop         OperationType = "STREAM_STOP"
	OperationTypeReadMeter          OperationType = "READ_METER"
	OperationTypeConfigureGenerator OperationType = "CONFIGURE_GENERATOR"
	OperationTypeGeneratorRun       OperationType = "GENERATOR_RUN"
	OperationTypeSetScreen          OperationType = "SET_SCREEN"
	OperationTypeStatusCheck        OperationType = "STATUS_CHECK"
)

// OperationStatus represents the status of an operation
type OperationStatus string

const (
	OperationStatusPending    OperationStatus = "PENDING"
	OperationStatusProcessing OperationStatus = "PROCESSING"
	OperationStatusSuccess    OperationStatus = "SUCCESS"
	OperationStatusFailed     OperationStatus = "FAILED"
	OperationStatusTimeout    OperationStatus = "TIMEOUT"
	OperationStatusCancelled  OperationStatus = "CANCELLED"
)

// OperationPriority represents operation priority
type OperationPriority int

const (
	PriorityUltraCritical OperationPriority = 1 // Stream stops, emergency disconnects
	PriorityHigh          OperationPriority = 2 // Triggered captures, settings pushes
	PriorityNormal        OperationPriority = 3 // Meter readings, generator updates
	PriorityLow           OperationPriority = 4 // Status checks, screen switches
	PriorityBackground    OperationPriority = 5 // Bulk exports, archival
)

// InstrumentOperation represents an operation performed on an instrument
type InstrumentOperation struct {
	ID            uuid.UUID         `json:"id" db:"id"`
	InstrumentID  uuid.UUID         `json:"instrument_id" db:"instrument_id"`
	OperationType OperationType     `json:"operation_type" db:"operation_type"`
	OperationData JSONObject        `json:"operation_data" db:"operation_data"`
	Priority      OperationPriority `json:"priority" db:"priority"`
	Status        OperationStatus   `json:"status" db:"status"`
	StartedAt     time.Time         `json:"started_at" db:"started_at"`
	CompletedAt   *time.Time        `json:"completed_at" db:"completed_at"`
	DurationMs    *int              `json:"duration_ms" db:"duration_ms"`
	ErrorMessage  *string           `json:"error_message" db:"error_message"`
	RetryCount    int               `json:"retry_count" db:"retry_count"`
	CorrelationID *uuid.UUID        `json:"correlation_id" db:"correlation_id"`
	Result        JSONObject        `json:"result" db:"result"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
}

// IsCompleted checks if operation is completed (success or failed)
func (op *InstrumentOperation) IsCompleted() bool {
	return op.Status == OperationStatusSuccess ||
		op.Status == OperationStatusFailed ||
		op.Status == OperationStatusTimeout ||
		op.Status == OperationStatusCancelled
}

// IsCritical checks if operation has critical priority
func (op *InstrumentOperation) IsCritical() bool {
	return op.Priority <= PriorityHigh
}

// Operation data structures for different operation types

// CaptureOperationData represents capture operation data
type CaptureOperationData struct {
	Settings   map[string]interface{} `json:"settings,omitempty"`
	FrameCount int                    `json:"frame_count"`
	IntervalMs int                    `json:"interval_ms"`
	Persist    bool                   `json:"persist"`
}

// MeterOperationData represents multimeter read operation data
type MeterOperationData struct {
	Mode    MeterMode `json:"mode"`
	Samples int       `json:"samples"`
	Persist bool      `json:"persist"`
}

// GeneratorOperationData represents generator configuration data
type GeneratorOperationData struct {
	Wave      GeneratorWave   `json:"wave"`
	Frequency uint32          `json:"frequency_hz"`
	Amplitude decimal.Decimal `json:"amplitude_v"`
	Offset    decimal.Decimal `json:"offset_v"`
	Running   bool            `json:"running"`
}

// ScreenOperationData represents front-panel screen switch data
type ScreenOperationData struct {
	Mode ScreenMode `json:"mode"`
}
