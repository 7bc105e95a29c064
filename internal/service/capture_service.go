// internal/service/capture_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"scope-service/internal/config"
	"scope-service/internal/model"
	"scope-service/internal/repository"
	"scope-service/internal/utils"
	"scope-service/pkg/instrument"
)

// errStreamBudget stops a bounded stream once it has delivered the
// requested number of frames
var errStreamBudget = errors.New("stream frame budget reached")

// EventPublisher pushes instrument events to connected subscribers.
// The websocket layer implements it; keeping the interface here avoids
// a service-to-handler import cycle.
type EventPublisher interface {
	PublishInstrumentEvent(instrumentID string, eventType model.EventType, data map[string]interface{})
}

// CaptureService orchestrates waveform acquisition, meter readings and
// signal generator control for connected instruments
type CaptureService struct {
	captureRepo    repository.CaptureRepository
	readingRepo    repository.ReadingRepository
	instrumentRepo repository.InstrumentRepository
	driverManager  *DriverManager
	config         *config.Config
	logger         *utils.ServiceLogger
	auditLogger    *utils.AuditLogger
	publisher      EventPublisher
	mutex          sync.Mutex
	activeStreams  map[uuid.UUID]context.CancelFunc
}

// NewCaptureService creates a new capture service instance
func NewCaptureService(
	captureRepo repository.CaptureRepository,
	readingRepo repository.ReadingRepository,
	instrumentRepo repository.InstrumentRepository,
	driverManager *DriverManager,
	config *config.Config,
	logger *zap.Logger,
) *CaptureService {
	return &CaptureService{
		captureRepo:    captureRepo,
		readingRepo:    readingRepo,
		instrumentRepo: instrumentRepo,
		driverManager:  driverManager,
		config:         config,
		logger:         utils.NewServiceLogger(logger, "capture-service"),
		auditLogger:    utils.NewAuditLogger(logger),
		activeStreams:  make(map[uuid.UUID]context.CancelFunc),
	}
}

// SetEventPublisher wires the websocket fan-out. Must be called before
// the first capture; events are silently skipped while unset.
func (cs *CaptureService) SetEventPublisher(publisher EventPublisher) {
	cs.publisher = publisher
}

// Capture settings

// ApplySettings pushes acquisition settings to a connected instrument
func (cs *CaptureService) ApplySettings(ctx context.Context, instrumentID string, settings map[string]interface{}) error {
	inst, scope, err := cs.resolveScope(ctx, instrumentID)
	if err != nil {
		return err
	}

	if err := scope.ApplyCaptureSettings(ctx, settings); err != nil {
		cs.publish(inst, model.EventSettingsRejected, map[string]interface{}{
			"settings": settings,
			"error":    err.Error(),
		})
		return fmt.Errorf("failed to apply settings: %w", err)
	}

	cs.publish(inst, model.EventSettingsApplied, map[string]interface{}{
		"settings": scope.GetCaptureSettings(),
	})

	return nil
}

// GetSettings returns the instrument's current acquisition settings
func (cs *CaptureService) GetSettings(ctx context.Context, instrumentID string) (map[string]interface{}, error) {
	_, scope, err := cs.resolveScope(ctx, instrumentID)
	if err != nil {
		return nil, err
	}
	return scope.GetCaptureSettings(), nil
}

// Single capture

// SingleCapture acquires one waveform frame and archives it
func (cs *CaptureService) SingleCapture(ctx context.Context, instrumentID string, req *CaptureRequest) (*CaptureResult, error) {
	inst, scope, err := cs.resolveScope(ctx, instrumentID)
	if err != nil {
		return nil, err
	}

	if req.Settings != nil {
		if err := scope.ApplyCaptureSettings(ctx, req.Settings); err != nil {
			return nil, fmt.Errorf("failed to apply settings: %w", err)
		}
	}

	session := &model.CaptureSession{
		ID:           uuid.New(),
		InstrumentID: inst.ID,
		Mode:         model.CaptureModeSingle,
		Status:       model.CaptureStatusAcquiring,
		Settings:     model.JSONObject(scope.GetCaptureSettings()),
		StartedAt:    time.Now(),
		CreatedAt:    time.Now(),
	}

	if err := cs.captureRepo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create capture session: %w", err)
	}

	cs.publishCaptureEvent(inst, model.EventCaptureStarted, session)

	frame, err := scope.CaptureFrame(ctx)
	if err != nil {
		cs.finishSession(ctx, session, model.CaptureStatusFailed, 0, err)
		cs.publishCaptureEvent(inst, model.EventCaptureFailed, session)
		return nil, fmt.Errorf("capture failed: %w", err)
	}

	record := waveformRecord(session.ID, frame)
	if err := cs.captureRepo.CreateWaveform(ctx, record); err != nil {
		cs.logger.Error("Failed to archive waveform",
			zap.String("session_id", session.ID.String()),
			zap.Error(err),
		)
	}

	cs.finishSession(ctx, session, model.CaptureStatusCompleted, 1, nil)
	cs.publishCaptureEvent(inst, model.EventCaptureCompleted, session)

	cs.auditLogger.LogCaptureSession(
		inst.InstrumentID,
		session.ID.String(),
		string(session.Mode),
		1,
		string(session.Status),
	)

	return &CaptureResult{
		SessionID: session.ID,
		Frame:     frame,
	}, nil
}

// Streaming

// StartStream begins a streaming capture session. The session runs in
// the background until it hits the frame budget, fails, or is stopped.
func (cs *CaptureService) StartStream(ctx context.Context, instrumentID string, req *StreamRequest) (*model.CaptureSession, error) {
	inst, scope, err := cs.resolveScope(ctx, instrumentID)
	if err != nil {
		return nil, err
	}

	cs.mutex.Lock()
	if len(cs.activeStreams) >= cs.config.Stream.MaxSessions {
		cs.mutex.Unlock()
		return nil, fmt.Errorf("stream session limit reached: %d", cs.config.Stream.MaxSessions)
	}
	cs.mutex.Unlock()

	if req.Settings != nil {
		if err := scope.ApplyCaptureSettings(ctx, req.Settings); err != nil {
			return nil, fmt.Errorf("failed to apply settings: %w", err)
		}
	}

	interval := req.Interval
	if interval <= 0 {
		interval = cs.config.Stream.DefaultInterval
	}
	if interval < cs.config.Stream.MinInterval {
		interval = cs.config.Stream.MinInterval
	}

	session := &model.CaptureSession{
		ID:           uuid.New(),
		InstrumentID: inst.ID,
		Mode:         model.CaptureModeStream,
		Status:       model.CaptureStatusAcquiring,
		Settings:     model.JSONObject(scope.GetCaptureSettings()),
		StartedAt:    time.Now(),
		CreatedAt:    time.Now(),
	}

	if err := cs.captureRepo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create capture session: %w", err)
	}

	streamCtx, cancel := context.WithCancel(context.Background())
	cs.mutex.Lock()
	cs.activeStreams[session.ID] = cancel
	cs.mutex.Unlock()

	if err := cs.instrumentRepo.UpdateStatus(ctx, inst.ID, model.InstrumentStatusStreaming); err != nil {
		cs.logger.Error("Failed to update instrument status", zap.Error(err))
	}

	cs.publishCaptureEvent(inst, model.EventCaptureStarted, session)

	go cs.runStream(streamCtx, inst, scope, session, interval, req.MaxFrames)

	return session, nil
}

// StopStream stops a running stream session
func (cs *CaptureService) StopStream(ctx context.Context, sessionID uuid.UUID) error {
	cs.mutex.Lock()
	cancel, exists := cs.activeStreams[sessionID]
	cs.mutex.Unlock()

	if !exists {
		return fmt.Errorf("no active stream for session: %s", sessionID)
	}

	cancel()
	cs.logger.Info("Stream stop requested", zap.String("session_id", sessionID.String()))
	return nil
}

// StopInstrumentStreams stops every active stream on an instrument
func (cs *CaptureService) StopInstrumentStreams(ctx context.Context, instrumentID string) int {
	inst, err := cs.instrumentRepo.GetByInstrumentID(ctx, instrumentID)
	if err != nil {
		return 0
	}

	stopped := 0
	cs.mutex.Lock()
	cancels := make(map[uuid.UUID]context.CancelFunc, len(cs.activeStreams))
	for id, cancel := range cs.activeStreams {
		cancels[id] = cancel
	}
	cs.mutex.Unlock()

	for sessionID, cancel := range cancels {
		session, err := cs.captureRepo.GetSession(ctx, sessionID)
		if err != nil || session.InstrumentID != inst.ID {
			continue
		}
		cancel()
		stopped++
	}

	return stopped
}

// runStream drives a streaming session to completion
func (cs *CaptureService) runStream(ctx context.Context, inst *model.Instrument, scope instrument.OscilloscopeDriver, session *model.CaptureSession, interval time.Duration, maxFrames int) {
	defer func() {
		cs.mutex.Lock()
		delete(cs.activeStreams, session.ID)
		cs.mutex.Unlock()
	}()

	frames := 0
	startTime := time.Now()

	err := scope.StreamFrames(ctx, interval, func(frame *instrument.WaveformFrame) error {
		frames++

		cs.publish(inst, model.EventWaveformFrame, map[string]interface{}{
			"session_id":    session.ID.String(),
			"sequence":      frame.Sequence,
			"triggered":     frame.Triggered,
			"ch1_overrange": frame.Ch1Overrange,
			"ch2_overrange": frame.Ch2Overrange,
			"ch1_volts":     frame.Ch1Volts,
			"ch2_volts":     frame.Ch2Volts,
		})

		if cs.config.Stream.PersistFrames {
			persistCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := cs.captureRepo.CreateWaveform(persistCtx, waveformRecord(session.ID, frame)); err != nil {
				cs.logger.Error("Failed to archive stream frame",
					zap.String("session_id", session.ID.String()),
					zap.Int("sequence", frame.Sequence),
					zap.Error(err),
				)
			}
			cancel()
		}

		if maxFrames > 0 && frames >= maxFrames {
			return errStreamBudget
		}
		return nil
	})

	finishCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch {
	case err == nil:
		// Context cancelled through StopStream or shutdown
		cs.finishSession(finishCtx, session, model.CaptureStatusStopped, frames, nil)
		cs.publishCaptureEvent(inst, model.EventCaptureCompleted, session)
	case errors.Is(err, errStreamBudget):
		cs.finishSession(finishCtx, session, model.CaptureStatusCompleted, frames, nil)
		cs.publishCaptureEvent(inst, model.EventCaptureCompleted, session)
	default:
		cs.finishSession(finishCtx, session, model.CaptureStatusFailed, frames, err)
		cs.publishCaptureEvent(inst, model.EventCaptureFailed, session)
	}

	// The instrument leaves streaming state with the session
	if cs.driverHasNoStreams(inst.ID) {
		if err := cs.instrumentRepo.UpdateStatus(finishCtx, inst.ID, model.InstrumentStatusOnline); err != nil {
			cs.logger.Error("Failed to restore instrument status", zap.Error(err))
		}
	}

	instrumentLogger := utils.NewInstrumentLogger(cs.logger.Logger, inst.InstrumentID, string(inst.InstrumentType), string(inst.Brand))
	instrumentLogger.LogAcquisition(session.ID.String(), frames, time.Since(startTime), session.Status != model.CaptureStatusFailed, err)

	cs.auditLogger.LogCaptureSession(
		inst.InstrumentID,
		session.ID.String(),
		string(session.Mode),
		frames,
		string(session.Status),
	)
}

// driverHasNoStreams reports whether no active stream remains for the
// given instrument row ID
func (cs *CaptureService) driverHasNoStreams(instrumentID uuid.UUID) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cs.mutex.Lock()
	sessionIDs := make([]uuid.UUID, 0, len(cs.activeStreams))
	for id := range cs.activeStreams {
		sessionIDs = append(sessionIDs, id)
	}
	cs.mutex.Unlock()

	for _, sessionID := range sessionIDs {
		session, err := cs.captureRepo.GetSession(ctx, sessionID)
		if err == nil && session.InstrumentID == instrumentID {
			return false
		}
	}
	return true
}

// Session queries

// GetSession retrieves a capture session
func (cs *CaptureService) GetSession(ctx context.Context, sessionID uuid.UUID) (*model.CaptureSession, error) {
	session, err := cs.captureRepo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	return session, nil
}

// ListSessions lists capture sessions with filtering
func (cs *CaptureService) ListSessions(ctx context.Context, filter *CaptureSessionFilter) ([]*model.CaptureSession, *PaginationResult, error) {
	sessions, total, err := cs.captureRepo.ListSessions(ctx, filter.toRepoFilter())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	pagination := &PaginationResult{
		Total:      total,
		Page:       filter.Page,
		PerPage:    filter.PerPage,
		TotalPages: (total + filter.PerPage - 1) / filter.PerPage,
	}

	return sessions, pagination, nil
}

// GetSessionWaveforms lists archived frames for a session
func (cs *CaptureService) GetSessionWaveforms(ctx context.Context, sessionID uuid.UUID, limit, offset int) ([]*model.WaveformRecord, int, error) {
	if _, err := cs.captureRepo.GetSession(ctx, sessionID); err != nil {
		return nil, 0, fmt.Errorf("session not found: %w", err)
	}

	records, total, err := cs.captureRepo.ListWaveforms(ctx, sessionID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list waveforms: %w", err)
	}

	return records, total, nil
}

// Multimeter

// ReadMeter takes one or more measurements and archives them
func (cs *CaptureService) ReadMeter(ctx context.Context, instrumentID string, req *MeterRequest) (*MeterResult, error) {
	inst, driverInstance, err := cs.resolveDriver(ctx, instrumentID)
	if err != nil {
		return nil, err
	}

	meter, ok := driverInstance.(instrument.MultimeterDriver)
	if !ok {
		return nil, fmt.Errorf("instrument does not support meter readings: %s", instrumentID)
	}

	mode := req.Mode
	if mode == "" {
		mode = model.MeterModeVoltageDC
	}

	samples := req.Samples
	if samples <= 0 {
		samples = 1
	}

	readings := make([]*model.MeterReading, 0, samples)
	for i := 0; i < samples; i++ {
		measurement, err := meter.Measure(ctx, mode)
		if err != nil {
			return nil, fmt.Errorf("measurement failed: %w", err)
		}

		reading := &model.MeterReading{
			ID:           uuid.New(),
			InstrumentID: inst.ID,
			Mode:         measurement.Mode,
			Value:        measurement.Value,
			Unit:         measurement.Unit,
			Overload:     measurement.Overload,
			RecordedAt:   measurement.Timestamp,
		}

		if err := cs.readingRepo.Create(ctx, reading); err != nil {
			cs.logger.Error("Failed to archive meter reading",
				zap.String("instrument_id", instrumentID),
				zap.Error(err),
			)
		}

		cs.publish(inst, model.EventMeterReading, map[string]interface{}{
			"mode":     string(measurement.Mode),
			"value":    measurement.Value.String(),
			"unit":     measurement.Unit,
			"overload": measurement.Overload,
		})

		readings = append(readings, reading)
	}

	return &MeterResult{
		Mode:     mode,
		Unit:     mode.Unit(),
		Readings: readings,
	}, nil
}

// GetMeterHistory lists archived readings with filtering
func (cs *CaptureService) GetMeterHistory(ctx context.Context, filter *MeterHistoryFilter) ([]*model.MeterReading, *PaginationResult, error) {
	readings, total, err := cs.readingRepo.List(ctx, filter.toRepoFilter())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list readings: %w", err)
	}

	pagination := &PaginationResult{
		Total:      total,
		Page:       filter.Page,
		PerPage:    filter.PerPage,
		TotalPages: (total + filter.PerPage - 1) / filter.PerPage,
	}

	return readings, pagination, nil
}

// GetLatestReading returns the most recent archived reading for a mode
func (cs *CaptureService) GetLatestReading(ctx context.Context, instrumentID string, mode model.MeterMode) (*model.MeterReading, error) {
	inst, err := cs.instrumentRepo.GetByInstrumentID(ctx, instrumentID)
	if err != nil {
		return nil, fmt.Errorf("instrument not found: %w", err)
	}

	reading, err := cs.readingRepo.GetLatest(ctx, inst.ID, mode)
	if err != nil {
		return nil, fmt.Errorf("no reading found: %w", err)
	}

	return reading, nil
}

// Signal generator

// ConfigureGenerator pushes a generator configuration to an instrument
func (cs *CaptureService) ConfigureGenerator(ctx context.Context, instrumentID string, req *GeneratorRequest) (*model.GeneratorState, error) {
	inst, driverInstance, err := cs.resolveDriver(ctx, instrumentID)
	if err != nil {
		return nil, err
	}

	generator, ok := driverInstance.(instrument.GeneratorDriver)
	if !ok {
		return nil, fmt.Errorf("instrument does not have a signal generator: %s", instrumentID)
	}

	state := generator.GetOutputState()
	if req.Wave != nil {
		state.Wave = *req.Wave
	}
	if req.Frequency != nil {
		state.Frequency = *req.Frequency
	}
	if req.Amplitude != nil {
		state.Amplitude = *req.Amplitude
	}
	if req.Offset != nil {
		state.Offset = *req.Offset
	}
	if req.Running != nil {
		state.Running = *req.Running
	}

	if err := cs.validateGeneratorState(state); err != nil {
		return nil, fmt.Errorf("invalid generator configuration: %w", err)
	}

	if err := generator.ConfigureOutput(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to configure generator: %w", err)
	}

	applied := generator.GetOutputState()
	cs.publish(inst, model.EventGeneratorUpdate, map[string]interface{}{
		"wave":         string(applied.Wave),
		"frequency_hz": applied.Frequency,
		"amplitude_v":  applied.Amplitude.String(),
		"offset_v":     applied.Offset.String(),
		"running":      applied.Running,
	})

	return &applied, nil
}

// SetGeneratorRunning starts or stops the generator output
func (cs *CaptureService) SetGeneratorRunning(ctx context.Context, instrumentID string, running bool) (*model.GeneratorState, error) {
	inst, driverInstance, err := cs.resolveDriver(ctx, instrumentID)
	if err != nil {
		return nil, err
	}

	generator, ok := driverInstance.(instrument.GeneratorDriver)
	if !ok {
		return nil, fmt.Errorf("instrument does not have a signal generator: %s", instrumentID)
	}

	if err := generator.SetOutputRunning(ctx, running); err != nil {
		return nil, fmt.Errorf("failed to set generator output: %w", err)
	}

	state := generator.GetOutputState()
	cs.publish(inst, model.EventGeneratorUpdate, map[string]interface{}{
		"wave":         string(state.Wave),
		"frequency_hz": state.Frequency,
		"amplitude_v":  state.Amplitude.String(),
		"offset_v":     state.Offset.String(),
		"running":      state.Running,
	})

	return &state, nil
}

// GetGeneratorState returns the generator's current configuration
func (cs *CaptureService) GetGeneratorState(ctx context.Context, instrumentID string) (*model.GeneratorState, error) {
	_, driverInstance, err := cs.resolveDriver(ctx, instrumentID)
	if err != nil {
		return nil, err
	}

	generator, ok := driverInstance.(instrument.GeneratorDriver)
	if !ok {
		return nil, fmt.Errorf("instrument does not have a signal generator: %s", instrumentID)
	}

	state := generator.GetOutputState()
	return &state, nil
}

// Screen control

// SetScreenMode switches the instrument front panel display
func (cs *CaptureService) SetScreenMode(ctx context.Context, instrumentID string, mode model.ScreenMode) error {
	inst, driverInstance, err := cs.resolveDriver(ctx, instrumentID)
	if err != nil {
		return err
	}

	screen, ok := driverInstance.(instrument.ScreenDriver)
	if !ok {
		return fmt.Errorf("instrument does not support screen control: %s", instrumentID)
	}

	previous := screen.GetScreenMode()
	if err := screen.SetScreenMode(ctx, mode); err != nil {
		return fmt.Errorf("failed to set screen mode: %w", err)
	}

	cs.publish(inst, model.EventScreenChange, map[string]interface{}{
		"previous_mode": string(previous),
		"mode":          string(mode),
	})

	return nil
}

// GetScreenMode returns the instrument's current display mode
func (cs *CaptureService) GetScreenMode(ctx context.Context, instrumentID string) (model.ScreenMode, error) {
	_, driverInstance, err := cs.resolveDriver(ctx, instrumentID)
	if err != nil {
		return "", err
	}

	screen, ok := driverInstance.(instrument.ScreenDriver)
	if !ok {
		return "", fmt.Errorf("instrument does not support screen control: %s", instrumentID)
	}

	return screen.GetScreenMode(), nil
}

// Shutdown stops all active streams. Used during service shutdown.
func (cs *CaptureService) Shutdown(ctx context.Context) {
	cs.mutex.Lock()
	cancels := make([]context.CancelFunc, 0, len(cs.activeStreams))
	for _, cancel := range cs.activeStreams {
		cancels = append(cancels, cancel)
	}
	cs.mutex.Unlock()

	for _, cancel := range cancels {
		cancel()
	}

	if len(cancels) > 0 {
		cs.logger.Info("Active streams stopped", zap.Int("count", len(cancels)))
	}
}

// Helper methods

// resolveDriver finds the instrument and its live driver
func (cs *CaptureService) resolveDriver(ctx context.Context, instrumentID string) (*model.Instrument, instrument.InstrumentDriver, error) {
	inst, err := cs.instrumentRepo.GetByInstrumentID(ctx, instrumentID)
	if err != nil {
		return nil, nil, fmt.Errorf("instrument not found: %w", err)
	}

	driverInstance, exists := cs.driverManager.Get(instrumentID)
	if !exists {
		return nil, nil, fmt.Errorf("instrument has no active connection: %s", instrumentID)
	}

	return inst, driverInstance, nil
}

// resolveScope finds the instrument and its driver as an oscilloscope
func (cs *CaptureService) resolveScope(ctx context.Context, instrumentID string) (*model.Instrument, instrument.OscilloscopeDriver, error) {
	inst, driverInstance, err := cs.resolveDriver(ctx, instrumentID)
	if err != nil {
		return nil, nil, err
	}

	scope, ok := driverInstance.(instrument.OscilloscopeDriver)
	if !ok {
		return nil, nil, fmt.Errorf("instrument does not support waveform capture: %s", instrumentID)
	}

	return inst, scope, nil
}

// finishSession stamps a terminal status onto a session
func (cs *CaptureService) finishSession(ctx context.Context, session *model.CaptureSession, status model.CaptureStatus, frames int, cause error) {
	completedAt := time.Now()
	durationMs := int(completedAt.Sub(session.StartedAt).Milliseconds())

	session.Status = status
	session.FrameCount = frames
	session.CompletedAt = &completedAt
	session.DurationMs = &durationMs
	if cause != nil {
		errorMsg := cause.Error()
		session.ErrorMessage = &errorMsg
	}

	if err := cs.captureRepo.UpdateSession(ctx, session); err != nil {
		cs.logger.Error("Failed to update capture session",
			zap.String("session_id", session.ID.String()),
			zap.Error(err),
		)
	}
}

// validateGeneratorState checks a configuration against the service limits
func (cs *CaptureService) validateGeneratorState(state model.GeneratorState) error {
	limits := cs.config.Generator

	if state.Frequency == 0 {
		return fmt.Errorf("frequency must be positive")
	}
	if limits.MaxFrequencyHz > 0 && state.Frequency > limits.MaxFrequencyHz {
		return fmt.Errorf("frequency %d Hz exceeds limit %d Hz", state.Frequency, limits.MaxFrequencyHz)
	}

	if limits.MaxAmplitudeV > 0 {
		maxAmplitude := decimal.NewFromFloat(limits.MaxAmplitudeV)
		if state.Amplitude.GreaterThan(maxAmplitude) {
			return fmt.Errorf("amplitude %s V exceeds limit %s V", state.Amplitude, maxAmplitude)
		}
	}
	if state.Amplitude.IsNegative() {
		return fmt.Errorf("amplitude must not be negative")
	}

	minOffset := decimal.NewFromFloat(limits.MinOffsetV)
	maxOffset := decimal.NewFromFloat(limits.MaxOffsetV)
	if state.Offset.LessThan(minOffset) || state.Offset.GreaterThan(maxOffset) {
		return fmt.Errorf("offset %s V outside range [%s, %s]", state.Offset, minOffset, maxOffset)
	}

	return nil
}

// publish sends an event through the configured publisher
func (cs *CaptureService) publish(inst *model.Instrument, eventType model.EventType, data map[string]interface{}) {
	if cs.publisher == nil {
		return
	}
	cs.publisher.PublishInstrumentEvent(inst.InstrumentID, eventType, data)
}

// publishCaptureEvent sends a session lifecycle event
func (cs *CaptureService) publishCaptureEvent(inst *model.Instrument, eventType model.EventType, session *model.CaptureSession) {
	data := map[string]interface{}{
		"session_id":  session.ID.String(),
		"mode":        string(session.Mode),
		"status":      string(session.Status),
		"frame_count": session.FrameCount,
	}
	if session.DurationMs != nil {
		data["duration_ms"] = *session.DurationMs
	}
	if session.ErrorMessage != nil {
		data["error_message"] = *session.ErrorMessage
	}
	cs.publish(inst, eventType, data)
}

// waveformRecord converts a driver frame to its archive row
func waveformRecord(sessionID uuid.UUID, frame *instrument.WaveformFrame) *model.WaveformRecord {
	raw := make([]byte, 0, len(frame.Ch1Samples)+len(frame.Ch2Samples))
	raw = append(raw, frame.Ch1Samples...)
	raw = append(raw, frame.Ch2Samples...)

	return &model.WaveformRecord{
		ID:           uuid.New(),
		SessionID:    sessionID,
		Sequence:     frame.Sequence,
		Triggered:    frame.Triggered,
		Ch1Samples:   len(frame.Ch1Samples),
		Ch2Samples:   len(frame.Ch2Samples),
		Ch1Overrange: frame.Ch1Overrange,
		Ch2Overrange: frame.Ch2Overrange,
		RawSamples:   raw,
		RecordedAt:   frame.Timestamp,
	}
}

// DTOs for Capture Service

// CaptureRequest represents a single capture request
type CaptureRequest struct {
	Settings map[string]interface{} `json:"settings,omitempty"`
}

// CaptureResult represents a completed single capture
type CaptureResult struct {
	SessionID uuid.UUID                 `json:"session_id"`
	Frame     *instrument.WaveformFrame `json:"frame"`
}

// StreamRequest represents a stream start request
type StreamRequest struct {
	Settings  map[string]interface{} `json:"settings,omitempty"`
	Interval  time.Duration          `json:"-"`
	MaxFrames int                    `json:"max_frames,omitempty"`
}

// CaptureSessionFilter represents session listing filters
type CaptureSessionFilter struct {
	InstrumentID *uuid.UUID           `json:"instrument_id,omitempty"`
	Mode         *model.CaptureMode   `json:"mode,omitempty"`
	Status       *model.CaptureStatus `json:"status,omitempty"`
	StartDate    *time.Time           `json:"start_date,omitempty"`
	EndDate      *time.Time           `json:"end_date,omitempty"`
	Page         int                  `json:"page"`
	PerPage      int                  `json:"per_page"`
}

// toRepoFilter converts to repository filter
func (f *CaptureSessionFilter) toRepoFilter() *repository.CaptureFilter {
	return &repository.CaptureFilter{
		InstrumentID: f.InstrumentID,
		Mode:         f.Mode,
		Status:       f.Status,
		StartDate:    f.StartDate,
		EndDate:      f.EndDate,
		Page:         f.Page,
		PerPage:      f.PerPage,
	}
}

// MeterRequest represents a meter read request
type MeterRequest struct {
	Mode    model.MeterMode `json:"mode"`
	Samples int             `json:"samples"`
}

// MeterResult represents archived measurements from one request
type MeterResult struct {
	Mode     model.MeterMode       `json:"mode"`
	Unit     string                `json:"unit"`
	Readings []*model.MeterReading `json:"readings"`
}

// MeterHistoryFilter represents reading history filters
type MeterHistoryFilter struct {
	InstrumentID *uuid.UUID       `json:"instrument_id,omitempty"`
	Mode         *model.MeterMode `json:"mode,omitempty"`
	StartDate    *time.Time       `json:"start_date,omitempty"`
	EndDate      *time.Time       `json:"end_date,omitempty"`
	Page         int              `json:"page"`
	PerPage      int              `json:"per_page"`
}

// toRepoFilter converts to repository filter
func (f *MeterHistoryFilter) toRepoFilter() *repository.ReadingFilter {
	return &repository.ReadingFilter{
		InstrumentID: f.InstrumentID,
		Mode:         f.Mode,
		StartDate:    f.StartDate,
		EndDate:      f.EndDate,
		Page:         f.Page,
		PerPage:      f.PerPage,
	}
}

// GeneratorRequest represents a partial generator configuration update
type GeneratorRequest struct {
	Wave      *model.GeneratorWave `json:"wave,omitempty"`
	Frequency *uint32              `json:"frequency_hz,omitempty"`
	Amplitude *decimal.Decimal     `json:"amplitude_v,omitempty"`
	Offset    *decimal.Decimal     `json:"offset_v,omitempty"`
	Running   *bool                `json:"running,omitempty"`
}
