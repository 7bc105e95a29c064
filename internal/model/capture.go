// internal/model/capture.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CaptureMode represents how a capture session acquires frames
type CaptureMode string

const (
	CaptureModeSingle CaptureMode = "SINGLE"
	CaptureModeStream CaptureMode = "STREAM"
)

// CaptureStatus represents the status of a capture session
type CaptureStatus string

const (
	CaptureStatusPending   CaptureStatus = "PENDING"
	CaptureStatusAcquiring CaptureStatus = "ACQUIRING"
	CaptureStatusCompleted CaptureStatus = "COMPLETED"
	CaptureStatusFailed    CaptureStatus = "FAILED"
	CaptureStatusStopped   CaptureStatus = "STOPPED"
)

// CaptureSession represents one acquisition run on an instrument
type CaptureSession struct {
	ID           uuid.UUID     `json:"id" db:"id"`
	InstrumentID uuid.UUID     `json:"instrument_id" db:"instrument_id"`
	Mode         CaptureMode   `json:"mode" db:"mode"`
	Status       CaptureStatus `json:"status" db:"status"`
	Settings     JSONObject    `json:"settings" db:"settings"`
	FrameCount   int           `json:"frame_count" db:"frame_count"`
	StartedAt    time.Time     `json:"started_at" db:"started_at"`
	CompletedAt  *time.Time    `json:"completed_at" db:"completed_at"`
	DurationMs   *int          `json:"duration_ms" db:"duration_ms"`
	ErrorMessage *string       `json:"error_message" db:"error_message"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
}

// IsCompleted checks if the session reached a terminal state
func (cs *CaptureSession) IsCompleted() bool {
	return cs.Status == CaptureStatusCompleted ||
		cs.Status == CaptureStatusFailed ||
		cs.Status == CaptureStatusStopped
}

// WaveformRecord represents one archived waveform frame
type WaveformRecord struct {
	ID           uuid.UUID `json:"id" db:"id"`
	SessionID    uuid.UUID `json:"session_id" db:"session_id"`
	Sequence     int       `json:"sequence" db:"sequence"`
	Triggered    bool      `json:"triggered" db:"triggered"`
	Ch1Samples   int       `json:"ch1_samples" db:"ch1_samples"`
	Ch2Samples   int       `json:"ch2_samples" db:"ch2_samples"`
	Ch1Overrange bool      `json:"ch1_overrange" db:"ch1_overrange"`
	Ch2Overrange bool      `json:"ch2_overrange" db:"ch2_overrange"`
	RawSamples   []byte    `json:"raw_samples,omitempty" db:"raw_samples"`
	RecordedAt   time.Time `json:"recorded_at" db:"recorded_at"`
}

// MeterMode represents a multimeter measurement mode
type MeterMode string

const (
	MeterModeVoltageDC   MeterMode = "VOLTAGE_DC"
	MeterModeVoltageAC   MeterMode = "VOLTAGE_AC"
	MeterModeCurrentDC   MeterMode = "CURRENT_DC"
	MeterModeCurrentAC   MeterMode = "CURRENT_AC"
	MeterModeResistance  MeterMode = "RESISTANCE"
	MeterModeCapacitance MeterMode = "CAPACITANCE"
)

// Unit returns the measurement unit for the mode
func (m MeterMode) Unit() string {
	switch m {
	case MeterModeVoltageDC, MeterModeVoltageAC:
		return "V"
	case MeterModeCurrentDC, MeterModeCurrentAC:
		return "A"
	case MeterModeResistance:
		return "Ohm"
	case MeterModeCapacitance:
		return "F"
	default:
		return ""
	}
}

// MeterReading represents one archived multimeter measurement.
// Values keep the device's mantissa/exponent form, so decimal avoids
// the rounding a float64 column would introduce.
type MeterReading struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	InstrumentID uuid.UUID       `json:"instrument_id" db:"instrument_id"`
	Mode         MeterMode       `json:"mode" db:"mode"`
	Value        decimal.Decimal `json:"value" db:"value"`
	Unit         string          `json:"unit" db:"unit"`
	Overload     bool            `json:"overload" db:"overload"`
	RecordedAt   time.Time       `json:"recorded_at" db:"recorded_at"`
}

// GeneratorWave represents an output waveform shape
type GeneratorWave string

const (
	GeneratorWaveSine     GeneratorWave = "SINE"
	GeneratorWaveSquare   GeneratorWave = "SQUARE"
	GeneratorWaveTriangle GeneratorWave = "TRIANGLE"
	GeneratorWaveRamp     GeneratorWave = "RAMP"
	GeneratorWaveDC       GeneratorWave = "DC"
)

// GeneratorState represents the generator output configuration.
// Amplitude and offset carry exact decimal volts; the driver converts
// them to the device's millivolt wire encoding.
type GeneratorState struct {
	Wave      GeneratorWave   `json:"wave"`
	Frequency uint32          `json:"frequency_hz"`
	Amplitude decimal.Decimal `json:"amplitude_v"`
	Offset    decimal.Decimal `json:"offset_v"`
	Running   bool            `json:"running"`
}

// ScreenMode represents the instrument front-panel display mode
type ScreenMode string

const (
	ScreenModeScope      ScreenMode = "SCOPE"
	ScreenModeMultimeter ScreenMode = "MULTIMETER"
	ScreenModeGenerator  ScreenMode = "GENERATOR"
)
