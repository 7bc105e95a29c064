// internal/driver/hantek2d72/driver.go
package hantek2d72

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"scope-service/internal/hantek"
	"scope-service/internal/model"
	"scope-service/internal/transport"
	"scope-service/internal/utils"
	"scope-service/pkg/instrument"
)

// Driver implements instrument.InstrumentDriver for Hantek 2000-series
// handheld oscilloscopes, together with the oscilloscope, multimeter,
// generator and screen extensions the hardware supports.
type Driver struct {
	config        *Config
	session       *hantek.Session
	transport     transport.DeviceTransport
	logger        *utils.InstrumentLogger
	eventHandler  instrument.EventHandler
	healthMetrics *instrument.HealthMetrics
	info          *instrument.InstrumentInfo
	mutex         sync.RWMutex
	lastPing      time.Time
	screenMode    model.ScreenMode
	generator     model.GeneratorState
	sequence      int
	streamCancel  context.CancelFunc
}

// Config represents Hantek driver configuration
type Config struct {
	InstrumentID     string                 `json:"instrument_id"`
	Model            string                 `json:"model"`
	ConnectionType   model.ConnectionType   `json:"connection_type"`
	ConnectionConfig map[string]interface{} `json:"connection_config"`
	AckTimeout       time.Duration          `json:"ack_timeout"`
	ReadTimeout      time.Duration          `json:"read_timeout"`
}

// NewDriver creates a new Hantek oscilloscope driver
func NewDriver(inst *model.Instrument, connectionConfig interface{}, logger *zap.Logger) (instrument.InstrumentDriver, error) {
	connConfig, err := parseConnectionConfig(connectionConfig)
	if err != nil {
		return nil, fmt.Errorf("invalid connection configuration: %w", err)
	}

	config := &Config{
		InstrumentID:     inst.InstrumentID,
		Model:            inst.Model,
		ConnectionType:   inst.ConnectionType,
		ConnectionConfig: connConfig,
		AckTimeout:       1 * time.Second,
		ReadTimeout:      3 * time.Second,
	}

	instrumentLogger := utils.NewInstrumentLogger(logger, inst.InstrumentID, string(inst.InstrumentType), string(inst.Brand))

	deviceTransport, err := transport.CreateTransport(inst.ConnectionType, connConfig, instrumentLogger.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s transport: %w", inst.ConnectionType, err)
	}

	d := newDriver(inst, config, deviceTransport, instrumentLogger)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := d.session.Connect(ctx); err != nil {
		instrumentLogger.Error("Failed to open session during driver creation", zap.Error(err))
		instrumentLogger.Warn("Driver created without active connection, will retry on first operation")
		return d, nil
	}

	d.lastPing = time.Now()
	instrumentLogger.Info("Hantek driver created with active connection",
		zap.String("connection_type", string(inst.ConnectionType)),
		zap.String("model", inst.Model),
	)

	return d, nil
}

// newDriver wires a driver around an existing transport
func newDriver(inst *model.Instrument, config *Config, deviceTransport transport.DeviceTransport, instrumentLogger *utils.InstrumentLogger) *Driver {
	session := hantek.NewSession(inst.InstrumentID, deviceTransport, hantek.SessionConfig{
		AckTimeout:  config.AckTimeout,
		ReadTimeout: config.ReadTimeout,
	}, instrumentLogger.Logger)

	d := &Driver{
		config:    config,
		session:   session,
		transport: deviceTransport,
		logger:    instrumentLogger,
		healthMetrics: &instrument.HealthMetrics{
			HealthScore: 0,
		},
		info: &instrument.InstrumentInfo{
			Brand:          inst.Brand,
			Model:          inst.Model,
			ConnectionType: inst.ConnectionType,
			Capabilities:   capabilitiesForModel(inst.Model),
			Manufacturer:   "Qingdao Hantek Electronic Co., Ltd.",
		},
		screenMode: model.ScreenModeScope,
		generator: model.GeneratorState{
			Wave:      model.GeneratorWaveSine,
			Frequency: 1000,
		},
	}

	if inst.SerialNumber != nil {
		d.info.SerialNumber = *inst.SerialNumber
	}
	if inst.FirmwareVersion != nil {
		d.info.FirmwareVersion = *inst.FirmwareVersion
	}

	session.SetEventHandler(&sessionEvents{driver: d})

	return d
}

// Connect establishes the instrument session
func (d *Driver) Connect(ctx context.Context) error {
	startTime := time.Now()

	if err := d.session.Connect(ctx); err != nil {
		d.recordOutcome(false, time.Since(startTime))
		d.logger.LogConnection("connect", false, err)
		return err
	}

	d.mutex.Lock()
	d.lastPing = time.Now()
	d.mutex.Unlock()

	d.recordOutcome(true, time.Since(startTime))
	d.logger.LogConnection("connect", true, nil)
	return nil
}

// Disconnect closes the instrument session
func (d *Driver) Disconnect(ctx context.Context) error {
	d.mutex.Lock()
	if d.streamCancel != nil {
		d.streamCancel()
		d.streamCancel = nil
	}
	d.mutex.Unlock()

	if err := d.session.Disconnect(); err != nil {
		d.logger.LogConnection("disconnect", false, err)
		return err
	}

	d.logger.LogConnection("disconnect", true, nil)
	return nil
}

// IsConnected returns connection status
func (d *Driver) IsConnected() bool {
	return d.session.State() != hantek.StateDisconnected && d.transport.IsOpen()
}

// GetInstrumentInfo returns instrument information
func (d *Driver) GetInstrumentInfo() (*instrument.InstrumentInfo, error) {
	return d.info, nil
}

// GetCapabilities returns instrument capabilities
func (d *Driver) GetCapabilities() []model.Capability {
	return capabilitiesForModel(d.config.Model)
}

// GetStatus returns current instrument status
func (d *Driver) GetStatus() (*instrument.InstrumentStatus, error) {
	d.mutex.RLock()
	lastPing := d.lastPing
	screenMode := d.screenMode
	d.mutex.RUnlock()

	state := d.session.State()
	status := &instrument.InstrumentStatus{
		LastResponse: lastPing,
		ScreenMode:   screenMode,
	}

	switch state {
	case hantek.StateStreaming:
		status.Status = model.InstrumentStatusStreaming
		status.Streaming = true
	case hantek.StateConnected:
		status.Status = model.InstrumentStatusOnline
		status.IsReady = true
	default:
		status.Status = model.InstrumentStatusOffline
	}

	return status, nil
}

// Ping tests instrument connectivity
func (d *Driver) Ping(ctx context.Context) error {
	if !d.IsConnected() {
		return fmt.Errorf("instrument not connected")
	}

	startTime := time.Now()
	if err := d.transport.Ping(ctx); err != nil {
		d.recordOutcome(false, time.Since(startTime))
		return fmt.Errorf("ping failed: %w", err)
	}

	d.mutex.Lock()
	d.lastPing = time.Now()
	d.mutex.Unlock()

	d.recordOutcome(true, time.Since(startTime))
	return nil
}

// GetHealthMetrics returns health metrics
func (d *Driver) GetHealthMetrics() (*instrument.HealthMetrics, error) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	metrics := *d.healthMetrics
	return &metrics, nil
}

// Configure updates driver timeouts. Transport settings are fixed for
// the lifetime of the driver; changing endpoints means re-registering.
func (d *Driver) Configure(config interface{}) error {
	configMap, err := parseConnectionConfig(config)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	if v, ok := configMap["ack_timeout"].(string); ok {
		if t, err := time.ParseDuration(v); err == nil {
			d.config.AckTimeout = t
		}
	}
	if v, ok := configMap["read_timeout"].(string); ok {
		if t, err := time.ParseDuration(v); err == nil {
			d.config.ReadTimeout = t
		}
	}

	d.logger.Info("Driver reconfigured",
		zap.Duration("ack_timeout", d.config.AckTimeout),
		zap.Duration("read_timeout", d.config.ReadTimeout),
	)
	return nil
}

// Reset pushes the power-on configuration back to the instrument
func (d *Driver) Reset(ctx context.Context) error {
	if !d.IsConnected() {
		return fmt.Errorf("instrument not connected")
	}

	if err := d.session.ApplySettings(ctx, hantek.DefaultSettings()); err != nil {
		return fmt.Errorf("failed to reset acquisition settings: %w", err)
	}
	if err := d.session.SetScreen(ctx, model.ScreenModeScope); err != nil {
		return fmt.Errorf("failed to reset screen: %w", err)
	}

	d.mutex.Lock()
	d.screenMode = model.ScreenModeScope
	d.mutex.Unlock()

	d.logger.Info("Instrument reset to power-on configuration")
	return nil
}

// SetEventHandler sets event handler
func (d *Driver) SetEventHandler(handler instrument.EventHandler) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.eventHandler = handler
}

// Close cleans up resources
func (d *Driver) Close() error {
	return d.Disconnect(context.Background())
}

// ApplyCaptureSettings merges the given fields into the current
// acquisition settings and pushes the result to the instrument
func (d *Driver) ApplyCaptureSettings(ctx context.Context, settings map[string]interface{}) error {
	merged, err := mergeCaptureSettings(d.session.Settings(), settings)
	if err != nil {
		return err
	}

	startTime := time.Now()
	err = d.session.ApplySettings(ctx, merged)
	d.recordOutcome(err == nil, time.Since(startTime))
	return err
}

// GetCaptureSettings returns the acquisition settings as a JSON-shaped map
func (d *Driver) GetCaptureSettings() map[string]interface{} {
	return captureSettingsMap(d.session.Settings())
}

// CaptureFrame acquires a single waveform frame
func (d *Driver) CaptureFrame(ctx context.Context) (*instrument.WaveformFrame, error) {
	startTime := time.Now()

	buf, flags, err := d.session.ReadFrame(ctx)
	if err != nil {
		d.recordOutcome(false, time.Since(startTime))
		return nil, err
	}

	frame := d.buildFrame(buf, flags)
	d.recordOutcome(true, time.Since(startTime))

	d.mutex.RLock()
	handler := d.eventHandler
	d.mutex.RUnlock()
	if handler != nil {
		handler.OnWaveformFrame(d.config.InstrumentID, frame)
	}

	return frame, nil
}

// StreamFrames polls the instrument for frames until the context is
// cancelled or the consumer returns an error
func (d *Driver) StreamFrames(ctx context.Context, interval time.Duration, fn func(*instrument.WaveformFrame) error) error {
	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	d.mutex.Lock()
	d.streamCancel = cancel
	d.mutex.Unlock()
	defer func() {
		d.mutex.Lock()
		d.streamCancel = nil
		d.mutex.Unlock()
	}()

	return d.session.Stream(streamCtx, interval, func(buf *hantek.SampleBuffer, flags hantek.StatusFlags) error {
		frame := d.buildFrame(buf, flags)

		d.mutex.RLock()
		handler := d.eventHandler
		d.mutex.RUnlock()
		if handler != nil {
			handler.OnWaveformFrame(d.config.InstrumentID, frame)
		}

		return fn(frame)
	})
}

// Measure reads one multimeter value
func (d *Driver) Measure(ctx context.Context, mode model.MeterMode) (*instrument.MeterMeasurement, error) {
	startTime := time.Now()

	reading, err := d.session.ReadMeter(ctx, mode)
	if err != nil {
		d.recordOutcome(false, time.Since(startTime))
		return nil, err
	}

	d.recordOutcome(true, time.Since(startTime))
	measurement := &instrument.MeterMeasurement{
		Mode:      reading.Mode,
		Value:     reading.Value,
		Unit:      reading.Mode.Unit(),
		Overload:  reading.Overload,
		Timestamp: time.Now(),
	}

	d.logger.LogMeasurement(string(measurement.Mode), measurement.Value.String(), measurement.Unit)

	d.mutex.RLock()
	handler := d.eventHandler
	d.mutex.RUnlock()
	if handler != nil {
		handler.OnMeterReading(d.config.InstrumentID, measurement)
	}

	return measurement, nil
}

// ConfigureOutput pushes the full generator configuration
func (d *Driver) ConfigureOutput(ctx context.Context, state model.GeneratorState) error {
	startTime := time.Now()

	if err := d.session.ConfigureGenerator(ctx, state); err != nil {
		d.recordOutcome(false, time.Since(startTime))
		return err
	}

	d.mutex.Lock()
	d.generator = state
	d.mutex.Unlock()

	d.recordOutcome(true, time.Since(startTime))
	return nil
}

// SetOutputRunning starts or stops the generator output
func (d *Driver) SetOutputRunning(ctx context.Context, running bool) error {
	startTime := time.Now()

	if err := d.session.SetGeneratorRunning(ctx, running); err != nil {
		d.recordOutcome(false, time.Since(startTime))
		return err
	}

	d.mutex.Lock()
	d.generator.Running = running
	d.mutex.Unlock()

	d.recordOutcome(true, time.Since(startTime))
	return nil
}

// GetOutputState returns the last generator configuration pushed
func (d *Driver) GetOutputState() model.GeneratorState {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	return d.generator
}

// SetScreenMode switches the instrument front panel
func (d *Driver) SetScreenMode(ctx context.Context, mode model.ScreenMode) error {
	startTime := time.Now()

	if err := d.session.SetScreen(ctx, mode); err != nil {
		d.recordOutcome(false, time.Since(startTime))
		return err
	}

	d.mutex.Lock()
	d.screenMode = mode
	d.mutex.Unlock()

	d.recordOutcome(true, time.Since(startTime))
	return nil
}

// GetScreenMode returns the last screen mode pushed
func (d *Driver) GetScreenMode() model.ScreenMode {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	return d.screenMode
}

// buildFrame converts a decoded sample buffer into the driver frame type
func (d *Driver) buildFrame(buf *hantek.SampleBuffer, flags hantek.StatusFlags) *instrument.WaveformFrame {
	settings := d.session.Settings()

	d.mutex.Lock()
	d.sequence++
	sequence := d.sequence
	d.mutex.Unlock()

	frame := &instrument.WaveformFrame{
		Sequence:     sequence,
		Triggered:    flags.Triggered(),
		Ch1Overrange: flags.Ch1Overrange(),
		Ch2Overrange: flags.Ch2Overrange(),
		Timestamp:    time.Now(),
	}

	if flags.SettingsError() {
		d.logger.Warn("Device reported settings error on capture",
			zap.Int("sequence", sequence))
	}

	if len(buf.Ch1) > 0 {
		frame.Ch1Samples = buf.Ch1
		frame.Ch1Volts = buf.Volts(hantek.Channel1, settings.Ch1.Scale)
	}
	if len(buf.Ch2) > 0 {
		frame.Ch2Samples = buf.Ch2
		frame.Ch2Volts = buf.Volts(hantek.Channel2, settings.Ch2.Scale)
	}

	return frame
}

// recordOutcome updates instrument health metrics
func (d *Driver) recordOutcome(success bool, responseTime time.Duration) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.healthMetrics.TotalOperations++
	d.healthMetrics.ResponseTime = responseTime

	now := time.Now()
	if success {
		d.healthMetrics.LastSuccessTime = &now
	} else {
		d.healthMetrics.ErrorCount++
		d.healthMetrics.LastErrorTime = &now
	}
	d.healthMetrics.SuccessRate = float64(d.healthMetrics.TotalOperations-d.healthMetrics.ErrorCount) / float64(d.healthMetrics.TotalOperations)

	d.healthMetrics.HealthScore = int(d.healthMetrics.SuccessRate * 100)
	if responseTime > 5*time.Second {
		d.healthMetrics.HealthScore -= 10
	}
	if d.healthMetrics.HealthScore < 0 {
		d.healthMetrics.HealthScore = 0
	}
}

// sessionEvents bridges protocol session events to the driver handler
type sessionEvents struct {
	driver *Driver
}

func (e *sessionEvents) OnConnected(instrumentID string) {
	e.driver.mutex.RLock()
	handler := e.driver.eventHandler
	e.driver.mutex.RUnlock()
	if handler != nil {
		handler.OnInstrumentConnected(instrumentID)
		handler.OnStatusChanged(instrumentID, model.InstrumentStatusOffline, model.InstrumentStatusOnline)
	}
}

func (e *sessionEvents) OnDisconnected(instrumentID string) {
	e.driver.mutex.RLock()
	handler := e.driver.eventHandler
	e.driver.mutex.RUnlock()
	if handler != nil {
		handler.OnInstrumentDisconnected(instrumentID, "session closed")
		handler.OnStatusChanged(instrumentID, model.InstrumentStatusOnline, model.InstrumentStatusOffline)
	}
}

func (e *sessionEvents) OnSettingsApplied(instrumentID string, settings hantek.CaptureSettings) {
	e.driver.logger.Debug("Acquisition settings confirmed",
		zap.Int("depth", settings.Depth),
		zap.String("timebase", settings.TimeScale.String()),
	)
}

func (e *sessionEvents) OnFrame(string, *hantek.SampleBuffer, hantek.StatusFlags) {
	// Frames are published by CaptureFrame and StreamFrames, which see
	// the decoded buffer and the settings that produced it together.
}

func (e *sessionEvents) OnError(instrumentID string, err error) {
	e.driver.mutex.RLock()
	handler := e.driver.eventHandler
	e.driver.mutex.RUnlock()
	if handler != nil {
		handler.OnInstrumentError(instrumentID, err)
	}
}

// parseConnectionConfig normalizes the connection config input types
func parseConnectionConfig(config interface{}) (map[string]interface{}, error) {
	var configMap map[string]interface{}

	switch v := config.(type) {
	case map[string]interface{}:
		configMap = v
	case model.JSONObject:
		configMap = map[string]interface{}(v)
	case *model.JSONObject:
		if v != nil {
			configMap = map[string]interface{}(*v)
		} else {
			return nil, fmt.Errorf("config is nil")
		}
	default:
		return nil, fmt.Errorf("invalid config type: %T, expected map[string]interface{} or model.JSONObject", config)
	}

	if configMap == nil {
		return nil, fmt.Errorf("config map is nil")
	}

	return configMap, nil
}

// capabilitiesForModel returns capabilities based on the model number.
// The 2D series carries the arbitrary waveform generator, the 2C series
// does not.
func capabilitiesForModel(deviceModel string) []model.Capability {
	capabilities := []model.Capability{
		model.CapabilityCapture,
		model.CapabilityStream,
		model.CapabilityTrigger,
		model.CapabilityDualChan,
		model.CapabilityMultimeter,
		model.CapabilityScreen,
		model.CapabilityStatus,
	}

	if strings.HasPrefix(deviceModel, "2D") {
		capabilities = append(capabilities, model.CapabilityGenerator)
	}

	return capabilities
}
