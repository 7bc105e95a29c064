// internal/driver/hantek2d72/driver_test.go
package hantek2d72

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scope-service/internal/hantek"
	"scope-service/internal/model"
	"scope-service/internal/transport"
	"scope-service/internal/utils"
	"scope-service/pkg/instrument"
)

// fakeTransport answers like the instrument: setting writes get an
// echoing ack, capture requests get a waveform sized by the request,
// meter queries get a fixed 12.345 reading.
type fakeTransport struct {
	mu       sync.Mutex
	opened   bool
	writeErr error
	writes   [][]byte
}

func (f *fakeTransport) Open(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = true
	return nil
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = false
	return nil
}

func (f *fakeTransport) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opened
}

func (f *fakeTransport) Write(ctx context.Context, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes = append(f.writes, append([]byte(nil), data...))
	return nil
}

func (f *fakeTransport) Read(ctx context.Context, maxBytes int, timeout time.Duration) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.writes) == 0 {
		return nil, fmt.Errorf("%w: read without request", transport.ErrIo)
	}

	last := f.writes[len(f.writes)-1]
	switch binary.LittleEndian.Uint16(last[2:4]) {
	case hantek.FuncScopeCapture:
		ch1 := int(binary.LittleEndian.Uint16(last[5:7]))
		ch2 := int(binary.LittleEndian.Uint16(last[7:9]))
		frame := []byte{
			hantek.WaveformMarker, 0x01,
			byte(ch1), byte(ch1 >> 8),
			byte(ch2), byte(ch2 >> 8),
			0x00, 0x00,
		}
		for i := 0; i < ch1 && i < ch2; i++ {
			frame = append(frame, 140, 120)
		}
		return frame, nil
	case hantek.FuncMeterQuery:
		return []byte{0x00, 0x0A, 0x04, 0x00, last[5], 0x39, 0x30, 0x00, 0x00, 0xFD}, nil
	default:
		return []byte{0x00, 0x0A, last[2], last[3], last[4], 0x00, 0x00, 0x00, 0x00, 0x00}, nil
	}
}

func (f *fakeTransport) GetTransportType() model.ConnectionType {
	return model.ConnectionTypeUSB
}

func (f *fakeTransport) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.opened {
		return transport.ErrNotOpen
	}
	return nil
}

func (f *fakeTransport) Stats() transport.TransportStats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return transport.TransportStats{
		FramesWritten: int64(len(f.writes)),
		IsConnected:   f.opened,
	}
}

func (f *fakeTransport) setWriteErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeErr = err
}

func (f *fakeTransport) functionWrites(function uint16) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, w := range f.writes {
		if binary.LittleEndian.Uint16(w[2:4]) == function {
			n++
		}
	}
	return n
}

type recordedEvents struct {
	mu            sync.Mutex
	connected     int
	disconnected  int
	statusChanges []model.InstrumentStatus
	frames        int
	readings      int
	errs          []error
}

func (r *recordedEvents) OnInstrumentConnected(string) {
	r.mu.Lock()
	r.connected++
	r.mu.Unlock()
}

func (r *recordedEvents) OnInstrumentDisconnected(string, string) {
	r.mu.Lock()
	r.disconnected++
	r.mu.Unlock()
}

func (r *recordedEvents) OnInstrumentError(_ string, err error) {
	r.mu.Lock()
	r.errs = append(r.errs, err)
	r.mu.Unlock()
}

func (r *recordedEvents) OnOperationCompleted(string, string, *instrument.OperationResult) {}

func (r *recordedEvents) OnStatusChanged(_ string, _, newStatus model.InstrumentStatus) {
	r.mu.Lock()
	r.statusChanges = append(r.statusChanges, newStatus)
	r.mu.Unlock()
}

func (r *recordedEvents) OnWaveformFrame(string, *instrument.WaveformFrame) {
	r.mu.Lock()
	r.frames++
	r.mu.Unlock()
}

func (r *recordedEvents) OnMeterReading(string, *instrument.MeterMeasurement) {
	r.mu.Lock()
	r.readings++
	r.mu.Unlock()
}

func (r *recordedEvents) frameCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func newTestDriver(t *testing.T, fake *fakeTransport) *Driver {
	t.Helper()

	serial := "CN2D72000123"
	inst := &model.Instrument{
		InstrumentID:   "scope-1",
		InstrumentType: model.InstrumentTypeOscilloscope,
		Brand:          model.BrandHantek,
		Model:          "2D72",
		SerialNumber:   &serial,
		ConnectionType: model.ConnectionTypeUSB,
	}
	config := &Config{
		InstrumentID:   "scope-1",
		Model:          "2D72",
		ConnectionType: model.ConnectionTypeUSB,
		AckTimeout:     50 * time.Millisecond,
		ReadTimeout:    50 * time.Millisecond,
	}
	logger := utils.NewInstrumentLogger(zap.NewNop(), "scope-1", "OSCILLOSCOPE", "HANTEK")

	return newDriver(inst, config, fake, logger)
}

func newOperation(opType model.OperationType, data model.JSONObject) *model.InstrumentOperation {
	return &model.InstrumentOperation{
		ID:            uuid.New(),
		InstrumentID:  uuid.New(),
		OperationType: opType,
		OperationData: data,
	}
}

func TestNewDriverRejectsBadConfig(t *testing.T) {
	inst := &model.Instrument{
		InstrumentID:   "scope-1",
		Brand:          model.BrandHantek,
		Model:          "2D72",
		ConnectionType: model.ConnectionTypeUSB,
	}

	if _, err := NewDriver(inst, "not a map", zap.NewNop()); err == nil {
		t.Fatal("NewDriver accepted a string connection config")
	}
}

func TestDriverLifecycle(t *testing.T) {
	fake := &fakeTransport{}
	d := newTestDriver(t, fake)
	events := &recordedEvents{}
	d.SetEventHandler(events)
	ctx := context.Background()

	if d.IsConnected() {
		t.Fatal("IsConnected = true before Connect")
	}

	if err := d.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if !d.IsConnected() {
		t.Fatal("IsConnected = false after Connect")
	}

	status, err := d.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if status.Status != model.InstrumentStatusOnline {
		t.Errorf("Status = %s, want %s", status.Status, model.InstrumentStatusOnline)
	}
	if !status.IsReady {
		t.Error("IsReady = false while connected")
	}

	if err := d.Ping(ctx); err != nil {
		t.Errorf("Ping: %v", err)
	}

	if err := d.Disconnect(ctx); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if d.IsConnected() {
		t.Fatal("IsConnected = true after Disconnect")
	}

	events.mu.Lock()
	defer events.mu.Unlock()
	if events.connected != 1 || events.disconnected != 1 {
		t.Errorf("connected/disconnected events = %d/%d, want 1/1", events.connected, events.disconnected)
	}
	if len(events.statusChanges) != 2 ||
		events.statusChanges[0] != model.InstrumentStatusOnline ||
		events.statusChanges[1] != model.InstrumentStatusOffline {
		t.Errorf("status changes = %v", events.statusChanges)
	}
}

func TestDriverCapabilitiesByModel(t *testing.T) {
	tests := []struct {
		model        string
		hasGenerator bool
	}{
		{"2D72", true},
		{"2D42", true},
		{"2C72", false},
		{"2C42", false},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			capabilities := capabilitiesForModel(tt.model)

			found := false
			for _, c := range capabilities {
				if c == model.CapabilityGenerator {
					found = true
				}
			}
			if found != tt.hasGenerator {
				t.Errorf("generator capability = %v, want %v", found, tt.hasGenerator)
			}
		})
	}
}

func TestDriverGetInstrumentInfo(t *testing.T) {
	d := newTestDriver(t, &fakeTransport{})

	info, err := d.GetInstrumentInfo()
	if err != nil {
		t.Fatalf("GetInstrumentInfo: %v", err)
	}
	if info.Brand != model.BrandHantek {
		t.Errorf("Brand = %s", info.Brand)
	}
	if info.Model != "2D72" {
		t.Errorf("Model = %s", info.Model)
	}
	if info.SerialNumber != "CN2D72000123" {
		t.Errorf("SerialNumber = %s", info.SerialNumber)
	}
}

func TestDriverExecuteCapture(t *testing.T) {
	fake := &fakeTransport{}
	d := newTestDriver(t, fake)
	events := &recordedEvents{}
	d.SetEventHandler(events)
	ctx := context.Background()

	if err := d.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	op := newOperation(model.OperationTypeCapture, model.JSONObject{
		"settings": map[string]interface{}{"depth": float64(600)},
	})
	result, err := d.ExecuteOperation(ctx, op)
	if err != nil {
		t.Fatalf("ExecuteOperation: %v", err)
	}
	if !result.Success {
		t.Fatal("Success = false")
	}
	if got := result.Data["ch1_samples"].(int); got != 600 {
		t.Errorf("ch1_samples = %d, want 600", got)
	}
	if got := result.Data["triggered"].(bool); !got {
		t.Error("triggered = false")
	}
	if result.Duration == "" {
		t.Error("Duration not stamped")
	}
	if events.frameCount() != 1 {
		t.Errorf("waveform events = %d, want 1", events.frameCount())
	}

	metrics, err := d.GetHealthMetrics()
	if err != nil {
		t.Fatalf("GetHealthMetrics: %v", err)
	}
	if metrics.ErrorCount != 0 {
		t.Errorf("ErrorCount = %d", metrics.ErrorCount)
	}
	if metrics.HealthScore != 100 {
		t.Errorf("HealthScore = %d, want 100", metrics.HealthScore)
	}
}

func TestDriverExecuteMeter(t *testing.T) {
	fake := &fakeTransport{}
	d := newTestDriver(t, fake)
	events := &recordedEvents{}
	d.SetEventHandler(events)
	ctx := context.Background()

	if err := d.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	op := newOperation(model.OperationTypeReadMeter, model.JSONObject{
		"mode":    string(model.MeterModeVoltageAC),
		"samples": float64(3),
	})
	result, err := d.ExecuteOperation(ctx, op)
	if err != nil {
		t.Fatalf("ExecuteOperation: %v", err)
	}

	if got := result.Data["value"].(string); got != "12.345" {
		t.Errorf("value = %s, want 12.345", got)
	}
	if got := result.Data["unit"].(string); got != "V" {
		t.Errorf("unit = %s, want V", got)
	}
	if got := result.Data["values"].([]string); len(got) != 3 {
		t.Errorf("values count = %d, want 3", len(got))
	}
	if got := result.Data["overload"].(bool); got {
		t.Error("overload = true for in-range reading")
	}

	events.mu.Lock()
	readings := events.readings
	events.mu.Unlock()
	if readings != 3 {
		t.Errorf("meter events = %d, want 3", readings)
	}
}

func TestDriverExecuteGeneratorAndScreen(t *testing.T) {
	fake := &fakeTransport{}
	d := newTestDriver(t, fake)
	ctx := context.Background()

	if err := d.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	op := newOperation(model.OperationTypeConfigureGenerator, model.JSONObject{
		"wave":         "SQUARE",
		"frequency_hz": float64(5000),
		"amplitude_v":  2.5,
		"offset_v":     -0.5,
		"running":      true,
	})
	if _, err := d.ExecuteOperation(ctx, op); err != nil {
		t.Fatalf("configure generator: %v", err)
	}

	state := d.GetOutputState()
	if state.Wave != model.GeneratorWaveSquare {
		t.Errorf("Wave = %s", state.Wave)
	}
	if state.Frequency != 5000 {
		t.Errorf("Frequency = %d", state.Frequency)
	}
	if state.Amplitude.String() != "2.5" {
		t.Errorf("Amplitude = %s", state.Amplitude)
	}
	if !state.Running {
		t.Error("Running = false after configure")
	}

	op = newOperation(model.OperationTypeGeneratorRun, model.JSONObject{"running": false})
	if _, err := d.ExecuteOperation(ctx, op); err != nil {
		t.Fatalf("generator run: %v", err)
	}
	if d.GetOutputState().Running {
		t.Error("Running = true after stop")
	}

	op = newOperation(model.OperationTypeSetScreen, model.JSONObject{"mode": "MULTIMETER"})
	if _, err := d.ExecuteOperation(ctx, op); err != nil {
		t.Fatalf("set screen: %v", err)
	}
	if d.GetScreenMode() != model.ScreenModeMultimeter {
		t.Errorf("ScreenMode = %s", d.GetScreenMode())
	}

	if n := fake.functionWrites(hantek.FuncGeneratorSetting); n != 6 {
		t.Errorf("generator writes = %d, want 6", n)
	}
	if n := fake.functionWrites(hantek.FuncScreenSetting); n != 1 {
		t.Errorf("screen writes = %d, want 1", n)
	}
}

func TestDriverExecuteBoundedStream(t *testing.T) {
	fake := &fakeTransport{}
	d := newTestDriver(t, fake)
	events := &recordedEvents{}
	d.SetEventHandler(events)
	ctx := context.Background()

	if err := d.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	op := newOperation(model.OperationTypeStreamStart, model.JSONObject{
		"frame_count": float64(3),
		"interval_ms": float64(1),
	})
	result, err := d.ExecuteOperation(ctx, op)
	if err != nil {
		t.Fatalf("ExecuteOperation: %v", err)
	}

	if got := result.Data["frames_delivered"].(int); got != 3 {
		t.Errorf("frames_delivered = %d, want 3", got)
	}
	if events.frameCount() != 3 {
		t.Errorf("waveform events = %d, want 3", events.frameCount())
	}

	status, _ := d.GetStatus()
	if status.Streaming {
		t.Error("Streaming = true after bounded stream finished")
	}
}

func TestDriverExecuteStreamStopWithoutStream(t *testing.T) {
	fake := &fakeTransport{}
	d := newTestDriver(t, fake)
	ctx := context.Background()

	if err := d.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	result, err := d.ExecuteOperation(ctx, newOperation(model.OperationTypeStreamStop, model.JSONObject{}))
	if err != nil {
		t.Fatalf("ExecuteOperation: %v", err)
	}
	if result.Data["stopped"].(bool) {
		t.Error("stopped = true with no active stream")
	}
}

func TestDriverExecuteStatus(t *testing.T) {
	fake := &fakeTransport{}
	d := newTestDriver(t, fake)
	ctx := context.Background()

	if err := d.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	result, err := d.ExecuteOperation(ctx, newOperation(model.OperationTypeStatusCheck, model.JSONObject{}))
	if err != nil {
		t.Fatalf("ExecuteOperation: %v", err)
	}
	if got := result.Data["status"].(string); got != string(model.InstrumentStatusOnline) {
		t.Errorf("status = %s", got)
	}
	if got := result.Data["is_ready"].(bool); !got {
		t.Error("is_ready = false")
	}
}

func TestDriverExecuteUnsupported(t *testing.T) {
	d := newTestDriver(t, &fakeTransport{})

	_, err := d.ExecuteOperation(context.Background(), newOperation("FEED_PAPER", model.JSONObject{}))
	if err == nil {
		t.Fatal("ExecuteOperation accepted an unsupported operation")
	}
}

func TestDriverApplyCaptureSettingsMerge(t *testing.T) {
	fake := &fakeTransport{}
	d := newTestDriver(t, fake)
	ctx := context.Background()

	if err := d.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	if err := d.ApplyCaptureSettings(ctx, map[string]interface{}{"depth": float64(3000)}); err != nil {
		t.Fatalf("ApplyCaptureSettings: %v", err)
	}

	settings := d.GetCaptureSettings()
	if got := settings["depth"].(float64); got != 3000 {
		t.Errorf("depth = %v, want 3000", got)
	}

	ch1 := settings["ch1"].(map[string]interface{})
	if got := ch1["enabled"].(bool); !got {
		t.Error("ch1.enabled lost during partial update")
	}

	err := d.ApplyCaptureSettings(ctx, map[string]interface{}{
		"trigger": map[string]interface{}{"level": float64(140)},
	})
	if err != nil {
		t.Fatalf("ApplyCaptureSettings trigger: %v", err)
	}

	trigger := d.GetCaptureSettings()["trigger"].(map[string]interface{})
	if got := trigger["level"].(float64); got != 140 {
		t.Errorf("trigger.level = %v, want 140", got)
	}
	if got := d.GetCaptureSettings()["depth"].(float64); got != 3000 {
		t.Errorf("depth = %v after trigger update, want 3000", got)
	}
}

func TestDriverApplyCaptureSettingsInvalid(t *testing.T) {
	fake := &fakeTransport{}
	d := newTestDriver(t, fake)
	ctx := context.Background()

	if err := d.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	err := d.ApplyCaptureSettings(ctx, map[string]interface{}{"depth": float64(99999)})
	if !errors.Is(err, hantek.ErrInvalidSettings) {
		t.Fatalf("err = %v, want ErrInvalidSettings", err)
	}
}

func TestDriverReset(t *testing.T) {
	fake := &fakeTransport{}
	d := newTestDriver(t, fake)
	ctx := context.Background()

	if err := d.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := d.SetScreenMode(ctx, model.ScreenModeGenerator); err != nil {
		t.Fatalf("SetScreenMode: %v", err)
	}
	if err := d.ApplyCaptureSettings(ctx, map[string]interface{}{"depth": float64(6000)}); err != nil {
		t.Fatalf("ApplyCaptureSettings: %v", err)
	}

	if err := d.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	if d.GetScreenMode() != model.ScreenModeScope {
		t.Errorf("ScreenMode = %s after reset", d.GetScreenMode())
	}
	if got := d.GetCaptureSettings()["depth"].(float64); got != 1200 {
		t.Errorf("depth = %v after reset, want 1200", got)
	}
}

func TestDriverHealthMetricsTrackFailures(t *testing.T) {
	fake := &fakeTransport{}
	d := newTestDriver(t, fake)
	ctx := context.Background()

	if err := d.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	fake.setWriteErr(fmt.Errorf("%w: endpoint stalled", transport.ErrIo))
	if _, err := d.CaptureFrame(ctx); err == nil {
		t.Fatal("CaptureFrame succeeded with failing transport")
	}
	fake.setWriteErr(nil)

	metrics, err := d.GetHealthMetrics()
	if err != nil {
		t.Fatalf("GetHealthMetrics: %v", err)
	}
	if metrics.ErrorCount == 0 {
		t.Error("ErrorCount = 0 after failed capture")
	}
	if metrics.HealthScore == 100 {
		t.Error("HealthScore = 100 after failed capture")
	}
	if metrics.LastErrorTime == nil {
		t.Error("LastErrorTime not set")
	}
}
