// pkg/instrument/interfaces.go
package instrument

import (
	"context"
	"time"

	"scope-service/internal/model"
)

// InstrumentDriver is the main interface that all hardware drivers must implement
type InstrumentDriver interface {
	// Connection management
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	IsConnected() bool

	// Instrument information
	GetInstrumentInfo() (*InstrumentInfo, error)
	GetCapabilities() []model.Capability
	GetStatus() (*InstrumentStatus, error)

	// Operations
	ExecuteOperation(ctx context.Context, operation *model.InstrumentOperation) (*OperationResult, error)

	// Health and monitoring
	Ping(ctx context.Context) error
	GetHealthMetrics() (*HealthMetrics, error)

	// Configuration
	Configure(config interface{}) error
	Reset(ctx context.Context) error

	// Event handling
	SetEventHandler(handler EventHandler)

	// Cleanup
	Close() error
}

// OscilloscopeDriver extends InstrumentDriver for waveform acquisition
type OscilloscopeDriver interface {
	InstrumentDriver

	// Acquisition settings, keyed the way the capture settings record
	// marshals to JSON
	ApplyCaptureSettings(ctx context.Context, settings map[string]interface{}) error
	GetCaptureSettings() map[string]interface{}

	// Frame acquisition
	CaptureFrame(ctx context.Context) (*WaveformFrame, error)
	StreamFrames(ctx context.Context, interval time.Duration, fn func(*WaveformFrame) error) error
}

// MultimeterDriver extends InstrumentDriver for measurement operations
type MultimeterDriver interface {
	InstrumentDriver

	// Measurement operations
	Measure(ctx context.Context, mode model.MeterMode) (*MeterMeasurement, error)
}

// GeneratorDriver extends InstrumentDriver for signal output operations
type GeneratorDriver interface {
	InstrumentDriver

	// Output configuration
	ConfigureOutput(ctx context.Context, state model.GeneratorState) error
	SetOutputRunning(ctx context.Context, running bool) error
	GetOutputState() model.GeneratorState
}

// ScreenDriver extends InstrumentDriver for front-panel control
type ScreenDriver interface {
	InstrumentDriver

	// Screen operations
	SetScreenMode(ctx context.Context, mode model.ScreenMode) error
	GetScreenMode() model.ScreenMode
}
