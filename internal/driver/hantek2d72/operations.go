// internal/driver/hantek2d72/operations.go
package hantek2d72

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"scope-service/internal/hantek"
	"scope-service/internal/model"
	"scope-service/pkg/instrument"
)

// errStreamComplete stops a bounded stream once the requested frame
// count has been delivered. It never escapes the handler.
var errStreamComplete = errors.New("stream complete")

// ExecuteOperation executes an instrument operation
func (d *Driver) ExecuteOperation(ctx context.Context, operation *model.InstrumentOperation) (*instrument.OperationResult, error) {
	startTime := time.Now()

	var result *instrument.OperationResult
	var err error

	switch operation.OperationType {
	case model.OperationTypeCapture:
		result, err = d.handleCaptureOperation(ctx, operation)
	case model.OperationTypeApplySettings:
		result, err = d.handleApplySettingsOperation(ctx, operation)
	case model.OperationTypeStreamStart:
		result, err = d.handleStreamStartOperation(ctx, operation)
	case model.OperationTypeStreamStop:
		result, err = d.handleStreamStopOperation(ctx, operation)
	case model.OperationTypeReadMeter:
		result, err = d.handleMeterOperation(ctx, operation)
	case model.OperationTypeConfigureGenerator:
		result, err = d.handleGeneratorConfigOperation(ctx, operation)
	case model.OperationTypeGeneratorRun:
		result, err = d.handleGeneratorRunOperation(ctx, operation)
	case model.OperationTypeSetScreen:
		result, err = d.handleScreenOperation(ctx, operation)
	case model.OperationTypeStatusCheck:
		result, err = d.handleStatusOperation(ctx, operation)
	default:
		return nil, fmt.Errorf("unsupported operation: %s", operation.OperationType)
	}

	duration := time.Since(startTime)
	d.logger.LogOperation(string(operation.OperationType), operation.ID.String(), duration, err == nil, err)

	if err != nil {
		return nil, err
	}

	result.Duration = duration.String()
	result.Timestamp = time.Now()

	return result, nil
}

// handleCaptureOperation acquires a single frame, optionally applying
// acquisition settings first
func (d *Driver) handleCaptureOperation(ctx context.Context, operation *model.InstrumentOperation) (*instrument.OperationResult, error) {
	d.logger.Info("Processing capture operation", zap.String("operation_id", operation.ID.String()))

	if settings, ok := operation.OperationData["settings"].(map[string]interface{}); ok {
		if err := d.ApplyCaptureSettings(ctx, settings); err != nil {
			return nil, fmt.Errorf("failed to apply capture settings: %w", err)
		}
	}

	frame, err := d.CaptureFrame(ctx)
	if err != nil {
		return nil, fmt.Errorf("capture failed: %w", err)
	}

	return &instrument.OperationResult{
		Success: true,
		Data: map[string]interface{}{
			"sequence":      frame.Sequence,
			"triggered":     frame.Triggered,
			"ch1_samples":   len(frame.Ch1Samples),
			"ch2_samples":   len(frame.Ch2Samples),
			"ch1_overrange": frame.Ch1Overrange,
			"ch2_overrange": frame.Ch2Overrange,
			"frame":         frame,
		},
	}, nil
}

// handleApplySettingsOperation pushes acquisition settings without
// capturing
func (d *Driver) handleApplySettingsOperation(ctx context.Context, operation *model.InstrumentOperation) (*instrument.OperationResult, error) {
	d.logger.Info("Processing settings operation", zap.String("operation_id", operation.ID.String()))

	settings, ok := operation.OperationData["settings"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("settings object is required")
	}

	if err := d.ApplyCaptureSettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to apply capture settings: %w", err)
	}

	return &instrument.OperationResult{
		Success: true,
		Data: map[string]interface{}{
			"applied":  true,
			"settings": d.GetCaptureSettings(),
		},
	}, nil
}

// handleStreamStartOperation runs a bounded acquisition burst. Open
// ended streams go through the streaming API, which owns the websocket
// fan-out; a queued operation always terminates.
func (d *Driver) handleStreamStartOperation(ctx context.Context, operation *model.InstrumentOperation) (*instrument.OperationResult, error) {
	frameCount := 10
	if v, ok := operation.OperationData["frame_count"].(float64); ok && v > 0 {
		frameCount = int(v)
	}
	interval := 100 * time.Millisecond
	if v, ok := operation.OperationData["interval_ms"].(float64); ok && v > 0 {
		interval = time.Duration(v) * time.Millisecond
	}

	d.logger.Info("Processing stream operation",
		zap.String("operation_id", operation.ID.String()),
		zap.Int("frame_count", frameCount),
		zap.Duration("interval", interval),
	)

	if settings, ok := operation.OperationData["settings"].(map[string]interface{}); ok {
		if err := d.ApplyCaptureSettings(ctx, settings); err != nil {
			return nil, fmt.Errorf("failed to apply capture settings: %w", err)
		}
	}

	startTime := time.Now()
	delivered := 0
	triggered := 0

	err := d.StreamFrames(ctx, interval, func(frame *instrument.WaveformFrame) error {
		delivered++
		if frame.Triggered {
			triggered++
		}
		if delivered >= frameCount {
			return errStreamComplete
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStreamComplete) {
		return nil, fmt.Errorf("stream failed after %d frames: %w", delivered, err)
	}

	duration := time.Since(startTime)

	return &instrument.OperationResult{
		Success: true,
		Data: map[string]interface{}{
			"frames_delivered": delivered,
			"frames_triggered": triggered,
			"interval_ms":      interval.Milliseconds(),
			"stream_duration":  duration.Milliseconds(),
		},
	}, nil
}

// handleStreamStopOperation cancels an active stream, if any
func (d *Driver) handleStreamStopOperation(_ context.Context, operation *model.InstrumentOperation) (*instrument.OperationResult, error) {
	d.logger.Info("Processing stream stop operation", zap.String("operation_id", operation.ID.String()))

	d.mutex.Lock()
	stopped := d.streamCancel != nil
	if stopped {
		d.streamCancel()
		d.streamCancel = nil
	}
	d.mutex.Unlock()

	return &instrument.OperationResult{
		Success: true,
		Data: map[string]interface{}{
			"stopped": stopped,
		},
	}, nil
}

// handleMeterOperation reads one or more multimeter values
func (d *Driver) handleMeterOperation(ctx context.Context, operation *model.InstrumentOperation) (*instrument.OperationResult, error) {
	mode := model.MeterModeVoltageDC
	if v, ok := operation.OperationData["mode"].(string); ok && v != "" {
		mode = model.MeterMode(v)
	}
	samples := 1
	if v, ok := operation.OperationData["samples"].(float64); ok && v > 0 {
		samples = int(v)
	}

	d.logger.Info("Processing meter operation",
		zap.String("operation_id", operation.ID.String()),
		zap.String("mode", string(mode)),
		zap.Int("samples", samples),
	)

	values := make([]string, 0, samples)
	overload := false
	var last *instrument.MeterMeasurement

	for i := 0; i < samples; i++ {
		measurement, err := d.Measure(ctx, mode)
		if err != nil {
			return nil, fmt.Errorf("meter read %d/%d failed: %w", i+1, samples, err)
		}
		values = append(values, measurement.Value.String())
		if measurement.Overload {
			overload = true
		}
		last = measurement
	}

	return &instrument.OperationResult{
		Success: true,
		Data: map[string]interface{}{
			"mode":     string(mode),
			"unit":     last.Unit,
			"value":    last.Value.String(),
			"values":   values,
			"overload": overload,
		},
	}, nil
}

// handleGeneratorConfigOperation pushes the generator configuration.
// Missing fields keep their last pushed value.
func (d *Driver) handleGeneratorConfigOperation(ctx context.Context, operation *model.InstrumentOperation) (*instrument.OperationResult, error) {
	d.logger.Info("Processing generator operation", zap.String("operation_id", operation.ID.String()))

	state := d.GetOutputState()
	raw, err := json.Marshal(operation.OperationData)
	if err != nil {
		return nil, fmt.Errorf("invalid generator operation data: %w", err)
	}
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("invalid generator operation data: %w", err)
	}

	if err := d.ConfigureOutput(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to configure generator: %w", err)
	}

	return &instrument.OperationResult{
		Success: true,
		Data: map[string]interface{}{
			"wave":         string(state.Wave),
			"frequency_hz": state.Frequency,
			"amplitude_v":  state.Amplitude.String(),
			"offset_v":     state.Offset.String(),
			"running":      state.Running,
		},
	}, nil
}

// handleGeneratorRunOperation starts or stops the generator output
func (d *Driver) handleGeneratorRunOperation(ctx context.Context, operation *model.InstrumentOperation) (*instrument.OperationResult, error) {
	running, ok := operation.OperationData["running"].(bool)
	if !ok {
		return nil, fmt.Errorf("running flag is required")
	}

	d.logger.Info("Processing generator run operation",
		zap.String("operation_id", operation.ID.String()),
		zap.Bool("running", running),
	)

	if err := d.SetOutputRunning(ctx, running); err != nil {
		return nil, fmt.Errorf("failed to set generator output: %w", err)
	}

	return &instrument.OperationResult{
		Success: true,
		Data: map[string]interface{}{
			"running": running,
		},
	}, nil
}

// handleScreenOperation switches the front-panel display mode
func (d *Driver) handleScreenOperation(ctx context.Context, operation *model.InstrumentOperation) (*instrument.OperationResult, error) {
	modeValue, ok := operation.OperationData["mode"].(string)
	if !ok || modeValue == "" {
		return nil, fmt.Errorf("screen mode is required")
	}
	mode := model.ScreenMode(modeValue)

	d.logger.Info("Processing screen operation",
		zap.String("operation_id", operation.ID.String()),
		zap.String("mode", string(mode)),
	)

	if err := d.SetScreenMode(ctx, mode); err != nil {
		return nil, fmt.Errorf("failed to set screen mode: %w", err)
	}

	return &instrument.OperationResult{
		Success: true,
		Data: map[string]interface{}{
			"mode": string(mode),
		},
	}, nil
}

// handleStatusOperation reports session and transport state
func (d *Driver) handleStatusOperation(_ context.Context, operation *model.InstrumentOperation) (*instrument.OperationResult, error) {
	d.logger.Debug("Processing status operation", zap.String("operation_id", operation.ID.String()))

	status, err := d.GetStatus()
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	stats := d.session.TransportStats()
	metrics, _ := d.GetHealthMetrics()

	return &instrument.OperationResult{
		Success: true,
		Data: map[string]interface{}{
			"status":         string(status.Status),
			"is_ready":       status.IsReady,
			"streaming":      status.Streaming,
			"screen_mode":    string(status.ScreenMode),
			"frames_written": stats.FramesWritten,
			"frames_read":    stats.FramesRead,
			"bytes_written":  stats.BytesWritten,
			"bytes_read":     stats.BytesRead,
			"health_score":   metrics.HealthScore,
		},
	}, nil
}

// mergeCaptureSettings overlays the given JSON-shaped fields onto the
// current settings, so partial updates touch only the named fields
func mergeCaptureSettings(current hantek.CaptureSettings, overrides map[string]interface{}) (hantek.CaptureSettings, error) {
	raw, err := json.Marshal(overrides)
	if err != nil {
		return current, fmt.Errorf("%w: %v", hantek.ErrInvalidSettings, err)
	}
	if err := json.Unmarshal(raw, &current); err != nil {
		return current, fmt.Errorf("%w: %v", hantek.ErrInvalidSettings, err)
	}
	return current, nil
}

// captureSettingsMap renders settings as the JSON object the API serves
func captureSettingsMap(settings hantek.CaptureSettings) map[string]interface{} {
	raw, err := json.Marshal(settings)
	if err != nil {
		return map[string]interface{}{}
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]interface{}{}
	}
	return out
}
