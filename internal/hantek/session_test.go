// internal/hantek/session_test.go
package hantek

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"scope-service/internal/model"
	"scope-service/internal/transport"
)

type readResult struct {
	data []byte
	err  error
}

// fakeTransport records every exchange and answers like the instrument
// would: setting writes get an echoing ack, capture requests get a
// waveform sized by the request, meter queries get a fixed reading.
// Scripted results and forced timeouts override the auto responses.
type fakeTransport struct {
	mu     sync.Mutex
	opened bool
	closes int

	openErr  error
	writeErr error

	ops    []string
	writes [][]byte

	ackStatus    byte
	timeoutsLeft int
	scripted     []readResult
}

func (f *fakeTransport) Open(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return f.openErr
	}
	f.opened = true
	return nil
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = false
	f.closes++
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
	f.ops = append(f.ops, "W")
	return nil
}

func (f *fakeTransport) Read(ctx context.Context, maxBytes int, timeout time.Duration) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, "R")

	if len(f.scripted) > 0 {
		next := f.scripted[0]
		f.scripted = f.scripted[1:]
		return next.data, next.err
	}
	if f.timeoutsLeft > 0 {
		f.timeoutsLeft--
		return nil, fmt.Errorf("%w: no data within %s", transport.ErrTimeout, timeout)
	}
	if len(f.writes) == 0 {
		return nil, fmt.Errorf("%w: read without request", transport.ErrIo)
	}

	last := f.writes[len(f.writes)-1]
	switch binary.LittleEndian.Uint16(last[2:4]) {
	case FuncScopeCapture:
		ch1 := int(binary.LittleEndian.Uint16(last[5:7]))
		ch2 := int(binary.LittleEndian.Uint16(last[7:9]))
		frame := buildWaveformFrame(0x01,
			bytes.Repeat([]byte{130}, ch1),
			bytes.Repeat([]byte{131}, ch2),
		)
		return frame, nil
	case FuncMeterQuery:
		return []byte{0x00, 0x0A, 0x04, 0x00, last[5], 0x39, 0x30, 0x00, 0x00, 0xFD}, nil
	default:
		return []byte{0x00, 0x0A, last[2], last[3], last[4], f.ackStatus, 0x00, 0x00, 0x00, 0x00}, nil
	}
}

func (f *fakeTransport) GetTransportType() model.ConnectionType {
	return model.ConnectionTypeUSB
}

func (f *fakeTransport) Ping(ctx context.Context) error {
	return nil
}

func (f *fakeTransport) Stats() transport.TransportStats {
	return transport.TransportStats{}
}

func (f *fakeTransport) snapshotOps() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ops...)
}

func (f *fakeTransport) snapshotWrites() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]byte, len(f.writes))
	copy(out, f.writes)
	return out
}

func (f *fakeTransport) closeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closes
}

func (f *fakeTransport) captureWrites() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, w := range f.writes {
		if binary.LittleEndian.Uint16(w[2:4]) == FuncScopeCapture {
			n++
		}
	}
	return n
}

type recordedEvents struct {
	mu           sync.Mutex
	connected    int
	disconnected int
	applied      int
	frames       int
	errs         []error
}

func (r *recordedEvents) OnConnected(string)    { r.mu.Lock(); r.connected++; r.mu.Unlock() }
func (r *recordedEvents) OnDisconnected(string) { r.mu.Lock(); r.disconnected++; r.mu.Unlock() }
func (r *recordedEvents) OnSettingsApplied(string, CaptureSettings) {
	r.mu.Lock()
	r.applied++
	r.mu.Unlock()
}
func (r *recordedEvents) OnFrame(string, *SampleBuffer, StatusFlags) {
	r.mu.Lock()
	r.frames++
	r.mu.Unlock()
}
func (r *recordedEvents) OnError(_ string, err error) {
	r.mu.Lock()
	r.errs = append(r.errs, err)
	r.mu.Unlock()
}

func newTestSession(t *testing.T, fake *fakeTransport) *Session {
	t.Helper()
	return NewSession("scope-1", fake, SessionConfig{}, zap.NewNop())
}

func connectTestSession(t *testing.T, fake *fakeTransport) *Session {
	t.Helper()
	s := newTestSession(t, fake)
	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	return s
}

func TestSessionConnectDeviceNotFound(t *testing.T) {
	fake := &fakeTransport{
		openErr: fmt.Errorf("%w (VID: 0483, PID: 2D42)", transport.ErrDeviceNotFound),
	}
	s := newTestSession(t, fake)

	err := s.Connect(context.Background())
	if !errors.Is(err, transport.ErrDeviceNotFound) {
		t.Fatalf("Connect() error = %v, want ErrDeviceNotFound", err)
	}
	if s.State() != StateDisconnected {
		t.Errorf("State() = %s, want DISCONNECTED", s.State())
	}
}

func TestSessionLifecycle(t *testing.T) {
	fake := &fakeTransport{}
	s := newTestSession(t, fake)

	if s.State() != StateDisconnected {
		t.Fatalf("State() = %s, want DISCONNECTED", s.State())
	}
	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if s.State() != StateConnected {
		t.Errorf("State() = %s, want CONNECTED", s.State())
	}

	// Connecting twice is a no-op
	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("second Connect() error = %v", err)
	}

	if err := s.Disconnect(); err != nil {
		t.Fatalf("Disconnect() error = %v", err)
	}
	if s.State() != StateDisconnected {
		t.Errorf("State() = %s, want DISCONNECTED", s.State())
	}
	if fake.closeCount() != 1 {
		t.Errorf("close count = %d, want 1", fake.closeCount())
	}

	// Disconnecting twice is a no-op
	if err := s.Disconnect(); err != nil {
		t.Fatalf("second Disconnect() error = %v", err)
	}
	if fake.closeCount() != 1 {
		t.Errorf("close count after repeat = %d, want 1", fake.closeCount())
	}
}

func TestSessionRequiresConnection(t *testing.T) {
	fake := &fakeTransport{}
	s := newTestSession(t, fake)
	ctx := context.Background()

	settings := DefaultSettings()
	if err := s.ApplySettings(ctx, settings); !errors.Is(err, ErrNotConnected) {
		t.Errorf("ApplySettings() error = %v, want ErrNotConnected", err)
	}
	if _, _, err := s.ReadFrame(ctx); !errors.Is(err, ErrNotConnected) {
		t.Errorf("ReadFrame() error = %v, want ErrNotConnected", err)
	}
	if err := s.SetScreen(ctx, model.ScreenModeScope); !errors.Is(err, ErrNotConnected) {
		t.Errorf("SetScreen() error = %v, want ErrNotConnected", err)
	}
	if _, err := s.ReadMeter(ctx, model.MeterModeVoltageDC); !errors.Is(err, ErrNotConnected) {
		t.Errorf("ReadMeter() error = %v, want ErrNotConnected", err)
	}
	if err := s.Stream(ctx, time.Millisecond, func(*SampleBuffer, StatusFlags) error { return nil }); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Stream() error = %v, want ErrNotConnected", err)
	}
}

func TestSessionExchangeOrdering(t *testing.T) {
	fake := &fakeTransport{}
	s := connectTestSession(t, fake)
	ctx := context.Background()

	settings := DefaultSettings()
	if err := s.ApplySettings(ctx, settings); err != nil {
		t.Fatalf("ApplySettings() error = %v", err)
	}

	ops := fake.snapshotOps()
	if len(ops) != 24 {
		t.Fatalf("full push issued %d transport calls, want 24", len(ops))
	}

	baseline := len(ops)

	// A single changed field followed by a frame read must produce
	// exactly two writes and two reads, strictly alternating.
	settings.Trigger.Level = 150
	if err := s.ApplySettings(ctx, settings); err != nil {
		t.Fatalf("ApplySettings() error = %v", err)
	}
	if _, _, err := s.ReadFrame(ctx); err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}

	ops = fake.snapshotOps()
	tail := ops[baseline:]
	want := []string{"W", "R", "W", "R"}
	if len(tail) != len(want) {
		t.Fatalf("tail ops = %v, want %v", tail, want)
	}
	for i := range want {
		if tail[i] != want[i] {
			t.Fatalf("tail ops = %v, want %v", tail, want)
		}
	}

	// Every write is answered before the next one is issued
	for i, op := range ops {
		wantOp := "W"
		if i%2 == 1 {
			wantOp = "R"
		}
		if op != wantOp {
			t.Fatalf("ops[%d] = %s, want %s (no interleaved frames)", i, op, wantOp)
		}
	}

	writes := fake.snapshotWrites()
	levelFrame := writes[len(writes)-2]
	if levelFrame[4] != ScopeTriggerLevel || levelFrame[5] != 150 {
		t.Errorf("second to last write = % X, want trigger level 150", levelFrame)
	}
	captureFrame := writes[len(writes)-1]
	if binary.LittleEndian.Uint16(captureFrame[2:4]) != FuncScopeCapture {
		t.Errorf("last write = % X, want capture request", captureFrame)
	}
}

func TestSessionApplySettingsNoChange(t *testing.T) {
	fake := &fakeTransport{}
	s := connectTestSession(t, fake)
	ctx := context.Background()

	settings := DefaultSettings()
	if err := s.ApplySettings(ctx, settings); err != nil {
		t.Fatalf("first ApplySettings() error = %v", err)
	}
	before := len(fake.snapshotWrites())

	if err := s.ApplySettings(ctx, settings); err != nil {
		t.Fatalf("second ApplySettings() error = %v", err)
	}
	if after := len(fake.snapshotWrites()); after != before {
		t.Errorf("unchanged settings issued %d extra writes, want 0", after-before)
	}
}

func TestSessionApplySettingsValidation(t *testing.T) {
	fake := &fakeTransport{}
	s := connectTestSession(t, fake)

	bad := DefaultSettings()
	bad.Depth = 0

	if err := s.ApplySettings(context.Background(), bad); !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("ApplySettings() error = %v, want ErrInvalidSettings", err)
	}
	if n := len(fake.snapshotWrites()); n != 0 {
		t.Errorf("invalid settings reached the wire, %d writes", n)
	}
}

func TestSessionSettingsRejected(t *testing.T) {
	fake := &fakeTransport{ackStatus: 0x01}
	s := connectTestSession(t, fake)
	ctx := context.Background()

	next := DefaultSettings()
	next.Depth = 500

	err := s.ApplySettings(ctx, next)
	if !errors.Is(err, ErrSettingsRejected) {
		t.Fatalf("ApplySettings() error = %v, want ErrSettingsRejected", err)
	}
	if n := len(fake.snapshotWrites()); n != 1 {
		t.Errorf("writes after rejection = %d, want 1 (stop at first rejected frame)", n)
	}
	if got := s.Settings().Depth; got != 1200 {
		t.Errorf("Settings().Depth = %d, want 1200 (rejected record not kept)", got)
	}

	// After the instrument recovers, the next push starts over with the
	// full record.
	fake.mu.Lock()
	fake.ackStatus = 0x00
	fake.mu.Unlock()

	if err := s.ApplySettings(ctx, next); err != nil {
		t.Fatalf("ApplySettings() after recovery error = %v", err)
	}
	if n := len(fake.snapshotWrites()); n != 13 {
		t.Errorf("total writes = %d, want 13 (1 rejected + 12 full push)", n)
	}
}

func TestSessionReadFrameDecodesSamples(t *testing.T) {
	fake := &fakeTransport{}
	s := connectTestSession(t, fake)

	buf, flags, err := s.ReadFrame(context.Background())
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	if !flags.Triggered() {
		t.Error("Triggered() = false, want true")
	}
	if len(buf.Ch1) != 1200 || len(buf.Ch2) != 1200 {
		t.Fatalf("sample counts = (%d, %d), want (1200, 1200)", len(buf.Ch1), len(buf.Ch2))
	}
	if buf.Ch1[0] != 130 || buf.Ch2[0] != 131 {
		t.Errorf("first samples = (%d, %d), want (130, 131)", buf.Ch1[0], buf.Ch2[0])
	}
}

func TestSessionReadFrameRetriesOnce(t *testing.T) {
	fake := &fakeTransport{timeoutsLeft: 1}
	s := connectTestSession(t, fake)

	buf, _, err := s.ReadFrame(context.Background())
	if err != nil {
		t.Fatalf("ReadFrame() error = %v, want retry to succeed", err)
	}
	if len(buf.Ch1) != 1200 {
		t.Errorf("Ch1 samples = %d, want 1200", len(buf.Ch1))
	}
	if n := fake.captureWrites(); n != 2 {
		t.Errorf("capture requests = %d, want 2 (original plus one retry)", n)
	}
}

func TestSessionReadFrameAcquisitionFailed(t *testing.T) {
	fake := &fakeTransport{timeoutsLeft: 2}
	s := connectTestSession(t, fake)

	_, _, err := s.ReadFrame(context.Background())
	if !errors.Is(err, ErrAcquisitionFailed) {
		t.Fatalf("ReadFrame() error = %v, want ErrAcquisitionFailed", err)
	}
	if n := fake.captureWrites(); n != 2 {
		t.Errorf("capture requests = %d, want exactly 2 (one retry, no more)", n)
	}
}

func TestSessionReadFrameMalformed(t *testing.T) {
	fake := &fakeTransport{
		scripted: []readResult{
			{data: []byte{0x55, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 130}},
		},
	}
	s := connectTestSession(t, fake)

	_, _, err := s.ReadFrame(context.Background())
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("ReadFrame() error = %v, want ErrMalformedResponse", err)
	}
	if n := fake.captureWrites(); n != 1 {
		t.Errorf("capture requests = %d, want 1 (malformed frames are not retried)", n)
	}
}

func TestSessionDisconnectAfterFailure(t *testing.T) {
	fake := &fakeTransport{
		scripted: []readResult{
			{err: fmt.Errorf("%w: broken pipe", transport.ErrIo)},
		},
	}
	s := connectTestSession(t, fake)

	if _, _, err := s.ReadFrame(context.Background()); !errors.Is(err, transport.ErrIo) {
		t.Fatalf("ReadFrame() error = %v, want ErrIo", err)
	}

	if err := s.Disconnect(); err != nil {
		t.Fatalf("Disconnect() after failure error = %v", err)
	}
	if fake.closeCount() != 1 {
		t.Errorf("close count = %d, want 1 (transport released despite failure)", fake.closeCount())
	}
	if s.State() != StateDisconnected {
		t.Errorf("State() = %s, want DISCONNECTED", s.State())
	}
}

func TestSessionAckEchoMismatch(t *testing.T) {
	fake := &fakeTransport{
		scripted: []readResult{
			{data: []byte{0x00, 0x0A, 0x03, 0x00, 0x77, 0x00, 0x00, 0x00, 0x00, 0x00}},
		},
	}
	s := connectTestSession(t, fake)

	err := s.SetScreen(context.Background(), model.ScreenModeScope)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("SetScreen() error = %v, want ErrMalformedResponse for wrong echo", err)
	}
}

func TestSessionStream(t *testing.T) {
	fake := &fakeTransport{}
	s := connectTestSession(t, fake)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	frames := 0
	err := s.Stream(ctx, time.Millisecond, func(buf *SampleBuffer, flags StatusFlags) error {
		frames++
		if frames == 3 {
			cancel()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Stream() error = %v, want clean stop on cancel", err)
	}
	if frames != 3 {
		t.Errorf("frames = %d, want 3 (cancellation lands between frames)", frames)
	}
	if s.State() != StateConnected {
		t.Errorf("State() = %s, want CONNECTED after stream", s.State())
	}
}

func TestSessionStreamConsumerError(t *testing.T) {
	fake := &fakeTransport{}
	s := connectTestSession(t, fake)

	errStop := errors.New("sink full")
	frames := 0
	err := s.Stream(context.Background(), time.Millisecond, func(*SampleBuffer, StatusFlags) error {
		frames++
		if frames == 2 {
			return errStop
		}
		return nil
	})
	if !errors.Is(err, errStop) {
		t.Fatalf("Stream() error = %v, want consumer error", err)
	}
	if frames != 2 {
		t.Errorf("frames = %d, want 2", frames)
	}
	if s.State() != StateConnected {
		t.Errorf("State() = %s, want CONNECTED", s.State())
	}
}

func TestSessionStreamExclusive(t *testing.T) {
	fake := &fakeTransport{}
	s := connectTestSession(t, fake)

	release := make(chan struct{})
	errStop := errors.New("released")
	done := make(chan error, 1)
	go func() {
		done <- s.Stream(context.Background(), time.Millisecond, func(*SampleBuffer, StatusFlags) error {
			<-release
			return errStop
		})
	}()

	deadline := time.Now().Add(2 * time.Second)
	for s.State() != StateStreaming {
		if time.Now().After(deadline) {
			t.Fatal("stream never reached STREAMING state")
		}
		time.Sleep(time.Millisecond)
	}

	err := s.Stream(context.Background(), time.Millisecond, func(*SampleBuffer, StatusFlags) error { return nil })
	if !errors.Is(err, ErrAlreadyStreaming) {
		t.Errorf("second Stream() error = %v, want ErrAlreadyStreaming", err)
	}

	close(release)
	if err := <-done; !errors.Is(err, errStop) {
		t.Fatalf("first Stream() error = %v, want %v", err, errStop)
	}
}

func TestSessionScreenAndGenerator(t *testing.T) {
	fake := &fakeTransport{}
	s := connectTestSession(t, fake)
	ctx := context.Background()

	if err := s.SetScreen(ctx, model.ScreenModeGenerator); err != nil {
		t.Fatalf("SetScreen() error = %v", err)
	}

	state := model.GeneratorState{
		Wave:      model.GeneratorWaveSine,
		Frequency: 1000,
		Amplitude: decimal.RequireFromString("2.5"),
		Offset:    decimal.Zero,
		Running:   true,
	}
	if err := s.ConfigureGenerator(ctx, state); err != nil {
		t.Fatalf("ConfigureGenerator() error = %v", err)
	}
	if err := s.SetGeneratorRunning(ctx, false); err != nil {
		t.Fatalf("SetGeneratorRunning() error = %v", err)
	}

	writes := fake.snapshotWrites()
	if len(writes) != 7 {
		t.Fatalf("writes = %d, want 7 (screen + 5 generator params + stop)", len(writes))
	}
	last := writes[len(writes)-1]
	if last[4] != GeneratorRun || last[5] != 0 {
		t.Errorf("last write = % X, want generator stop", last)
	}
}

func TestSessionReadMeter(t *testing.T) {
	fake := &fakeTransport{}
	s := connectTestSession(t, fake)

	m, err := s.ReadMeter(context.Background(), model.MeterModeVoltageDC)
	if err != nil {
		t.Fatalf("ReadMeter() error = %v", err)
	}
	if m.Mode != model.MeterModeVoltageDC {
		t.Errorf("Mode = %s, want VOLTAGE_DC", m.Mode)
	}
	if want := decimal.New(12345, -3); !m.Value.Equal(want) {
		t.Errorf("Value = %s, want %s", m.Value, want)
	}
}

func TestSessionEventHandler(t *testing.T) {
	fake := &fakeTransport{}
	s := newTestSession(t, fake)
	events := &recordedEvents{}
	s.SetEventHandler(events)
	ctx := context.Background()

	if err := s.Connect(ctx); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if err := s.ApplySettings(ctx, DefaultSettings()); err != nil {
		t.Fatalf("ApplySettings() error = %v", err)
	}
	if _, _, err := s.ReadFrame(ctx); err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}

	fake.mu.Lock()
	fake.timeoutsLeft = 2
	fake.mu.Unlock()
	if _, _, err := s.ReadFrame(ctx); err == nil {
		t.Fatal("ReadFrame() error = nil, want acquisition failure")
	}

	if err := s.Disconnect(); err != nil {
		t.Fatalf("Disconnect() error = %v", err)
	}

	events.mu.Lock()
	defer events.mu.Unlock()
	if events.connected != 1 || events.disconnected != 1 {
		t.Errorf("connect/disconnect events = %d/%d, want 1/1", events.connected, events.disconnected)
	}
	if events.applied != 1 {
		t.Errorf("settings events = %d, want 1", events.applied)
	}
	if events.frames != 1 {
		t.Errorf("frame events = %d, want 1", events.frames)
	}
	if len(events.errs) != 1 || !errors.Is(events.errs[0], ErrAcquisitionFailed) {
		t.Errorf("error events = %v, want one ErrAcquisitionFailed", events.errs)
	}
}
