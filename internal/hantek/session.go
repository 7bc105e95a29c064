// internal/hantek/session.go
package hantek

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"scope-service/internal/model"
	"scope-service/internal/transport"
)

// Session errors
var (
	ErrNotConnected      = errors.New("session not connected")
	ErrAlreadyStreaming  = errors.New("session already streaming")
	ErrSettingsRejected  = errors.New("settings rejected by instrument")
	ErrAcquisitionFailed = errors.New("acquisition failed")
)

// State is the session lifecycle position
type State int

const (
	StateDisconnected State = iota
	StateConnected
	StateStreaming
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateConnected:
		return "CONNECTED"
	case StateStreaming:
		return "STREAMING"
	default:
		return "DISCONNECTED"
	}
}

// EventHandler receives session lifecycle callbacks. Implementations
// are injected by the caller; a nil handler disables callbacks.
// Handlers run on the calling goroutine and must not call back into
// the session.
type EventHandler interface {
	OnConnected(instrumentID string)
	OnDisconnected(instrumentID string)
	OnSettingsApplied(instrumentID string, settings CaptureSettings)
	OnFrame(instrumentID string, buf *SampleBuffer, flags StatusFlags)
	OnError(instrumentID string, err error)
}

// FrameFunc consumes one streamed waveform frame. Returning an error
// stops the stream.
type FrameFunc func(buf *SampleBuffer, flags StatusFlags) error

// SessionConfig holds the session timing parameters
type SessionConfig struct {
	AckTimeout  time.Duration `json:"ack_timeout"`
	ReadTimeout time.Duration `json:"read_timeout"`
}

// Session owns one instrument connection and serializes every exchange
// on it. The transport is claimed on Connect and released on
// Disconnect; all commands follow the strict write-then-read cadence
// the instrument requires, so a mutex guards each full exchange.
type Session struct {
	instrumentID string
	transport    transport.DeviceTransport
	config       SessionConfig
	logger       *zap.Logger

	mutex    sync.Mutex
	state    State
	settings CaptureSettings
	pushed   bool
	handler  EventHandler
}

// NewSession creates a session over the given transport. The session
// starts disconnected with the instrument's boot defaults as its
// settings record.
func NewSession(instrumentID string, t transport.DeviceTransport, config SessionConfig, logger *zap.Logger) *Session {
	if config.AckTimeout <= 0 {
		config.AckTimeout = 1 * time.Second
	}
	if config.ReadTimeout <= 0 {
		config.ReadTimeout = 3 * time.Second
	}

	return &Session{
		instrumentID: instrumentID,
		transport:    t,
		config:       config,
		settings:     DefaultSettings(),
		state:        StateDisconnected,
		logger: logger.With(
			zap.String("instrument_id", instrumentID),
		),
	}
}

// SetEventHandler installs the callback sink
func (s *Session) SetEventHandler(handler EventHandler) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.handler = handler
}

// InstrumentID returns the identifier the session was created for
func (s *Session) InstrumentID() string {
	return s.instrumentID
}

// State returns the current lifecycle state
func (s *Session) State() State {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.state
}

// Settings returns a copy of the session's settings record
func (s *Session) Settings() CaptureSettings {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.settings
}

// TransportStats returns the transport's counters
func (s *Session) TransportStats() transport.TransportStats {
	return s.transport.Stats()
}

// Connect opens and claims the transport. Connecting an already
// connected session is a no-op.
func (s *Session) Connect(ctx context.Context) error {
	s.mutex.Lock()
	if s.state != StateDisconnected {
		s.mutex.Unlock()
		return nil
	}

	if err := s.transport.Open(ctx); err != nil {
		s.mutex.Unlock()
		return fmt.Errorf("failed to open transport: %w", err)
	}

	s.state = StateConnected
	handler := s.handler
	s.mutex.Unlock()

	s.logger.Info("Session connected")
	if handler != nil {
		handler.OnConnected(s.instrumentID)
	}
	return nil
}

// Disconnect releases the transport regardless of the session's prior
// state. Safe to call repeatedly and after failures.
func (s *Session) Disconnect() error {
	s.mutex.Lock()
	if s.state == StateDisconnected {
		s.mutex.Unlock()
		return nil
	}

	closeErr := s.transport.Close()
	s.state = StateDisconnected
	s.pushed = false
	handler := s.handler
	s.mutex.Unlock()

	s.logger.Info("Session disconnected")
	if handler != nil {
		handler.OnDisconnected(s.instrumentID)
	}

	if closeErr != nil {
		return fmt.Errorf("failed to close transport: %w", closeErr)
	}
	return nil
}

// ApplySettings validates and pushes a settings record. The first push
// after connecting writes every field; later pushes write only the
// fields that changed. Each field frame is confirmed by the instrument
// before the next is sent.
func (s *Session) ApplySettings(ctx context.Context, settings CaptureSettings) error {
	s.mutex.Lock()
	err := s.applySettingsLocked(ctx, settings)
	handler := s.handler
	s.mutex.Unlock()

	if err != nil {
		if handler != nil {
			handler.OnError(s.instrumentID, err)
		}
		return err
	}

	if handler != nil {
		handler.OnSettingsApplied(s.instrumentID, settings)
	}
	return nil
}

func (s *Session) applySettingsLocked(ctx context.Context, settings CaptureSettings) error {
	if s.state == StateDisconnected {
		return ErrNotConnected
	}

	if err := settings.Validate(); err != nil {
		return err
	}

	var frames []CommandFrame
	if s.pushed {
		frames = EncodeSettingsDelta(&s.settings, &settings)
	} else {
		frames = EncodeSettings(&settings)
	}

	for _, frame := range frames {
		if err := s.confirmedWrite(ctx, frame); err != nil {
			return err
		}
	}

	s.settings = settings
	s.pushed = true

	s.logger.Info("Settings applied", zap.Int("frames", len(frames)))
	return nil
}

// ReadFrame requests and decodes one waveform frame sized by the
// current settings. A timed out attempt is retried once; a second
// timeout surfaces as an acquisition failure.
func (s *Session) ReadFrame(ctx context.Context) (*SampleBuffer, StatusFlags, error) {
	s.mutex.Lock()
	buf, flags, err := s.readFrameLocked(ctx)
	handler := s.handler
	s.mutex.Unlock()

	if err != nil {
		if handler != nil {
			handler.OnError(s.instrumentID, err)
		}
		return nil, 0, err
	}

	if handler != nil {
		handler.OnFrame(s.instrumentID, buf, flags)
	}
	return buf, flags, nil
}

func (s *Session) readFrameLocked(ctx context.Context) (*SampleBuffer, StatusFlags, error) {
	if s.state == StateDisconnected {
		return nil, 0, ErrNotConnected
	}

	ch1, ch2 := s.settings.SampleCounts()
	request := EncodeCaptureRequest(ch1, ch2)
	expected := WaveformHeaderSize + ch1 + ch2

	data, err := s.exchange(ctx, request, expected, s.config.ReadTimeout)
	if transport.IsTimeout(err) {
		s.logger.Warn("Capture timed out, retrying once", zap.Error(err))
		data, err = s.exchange(ctx, request, expected, s.config.ReadTimeout)
		if transport.IsTimeout(err) {
			return nil, 0, fmt.Errorf("%w: capture timed out after retry: %v", ErrAcquisitionFailed, err)
		}
	}
	if err != nil {
		return nil, 0, err
	}

	return DecodeWaveform(data)
}

// Stream polls frames until the context is cancelled or a frame or
// consumer error occurs. Cancellation takes effect between frames.
// Only one stream may run at a time; settings changes interleave
// between frames through the session mutex.
func (s *Session) Stream(ctx context.Context, interval time.Duration, fn FrameFunc) error {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}

	s.mutex.Lock()
	switch s.state {
	case StateDisconnected:
		s.mutex.Unlock()
		return ErrNotConnected
	case StateStreaming:
		s.mutex.Unlock()
		return ErrAlreadyStreaming
	}
	s.state = StateStreaming
	s.mutex.Unlock()

	defer func() {
		s.mutex.Lock()
		if s.state == StateStreaming {
			s.state = StateConnected
		}
		s.mutex.Unlock()
	}()

	s.logger.Info("Streaming started", zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		buf, flags, err := s.ReadFrame(ctx)
		if err != nil {
			return err
		}
		if err := fn(buf, flags); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			s.logger.Info("Streaming stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// SetScreen switches the instrument front panel display mode
func (s *Session) SetScreen(ctx context.Context, mode model.ScreenMode) error {
	frame, err := EncodeScreenSelect(mode)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.state == StateDisconnected {
		return ErrNotConnected
	}
	return s.confirmedWrite(ctx, frame)
}

// ConfigureGenerator pushes the generator waveform parameters and run
// state, each confirmed in sequence
func (s *Session) ConfigureGenerator(ctx context.Context, state model.GeneratorState) error {
	waveFrame, err := EncodeGeneratorWave(state.Wave)
	if err != nil {
		return err
	}

	frames := []CommandFrame{
		waveFrame,
		EncodeGeneratorFrequency(state.Frequency),
		EncodeGeneratorAmplitude(state.Amplitude),
		EncodeGeneratorOffset(state.Offset),
		EncodeGeneratorRun(state.Running),
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.state == StateDisconnected {
		return ErrNotConnected
	}

	for _, frame := range frames {
		if err := s.confirmedWrite(ctx, frame); err != nil {
			return err
		}
	}

	s.logger.Info("Generator configured",
		zap.String("wave", string(state.Wave)),
		zap.Uint32("frequency_hz", state.Frequency),
		zap.Bool("running", state.Running),
	)
	return nil
}

// SetGeneratorRunning starts or stops the generator output without
// touching its other parameters
func (s *Session) SetGeneratorRunning(ctx context.Context, running bool) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.state == StateDisconnected {
		return ErrNotConnected
	}
	return s.confirmedWrite(ctx, EncodeGeneratorRun(running))
}

// ReadMeter requests one multimeter reading in the given mode
func (s *Session) ReadMeter(ctx context.Context, mode model.MeterMode) (Measurement, error) {
	frame, err := EncodeMeterQuery(mode)
	if err != nil {
		return Measurement{}, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.state == StateDisconnected {
		return Measurement{}, ErrNotConnected
	}

	data, err := s.exchange(ctx, frame, MeterFrameSize, s.config.ReadTimeout)
	if err != nil {
		return Measurement{}, err
	}

	return DecodeMeterReading(data)
}

// confirmedWrite sends one command frame and checks its
// acknowledgement. Caller must hold the session mutex.
func (s *Session) confirmedWrite(ctx context.Context, frame CommandFrame) error {
	data, err := s.exchange(ctx, frame, AckFrameSize, s.config.AckTimeout)
	if err != nil {
		return err
	}

	ack, err := DecodeAck(data)
	if err != nil {
		return err
	}

	if ack.Function != frame.Function() || ack.Opcode != frame.Opcode() {
		return fmt.Errorf("%w: ack echoes 0x%04X/0x%02X, want 0x%04X/0x%02X",
			ErrMalformedResponse, ack.Function, ack.Opcode, frame.Function(), frame.Opcode())
	}

	if ack.Status.Rejected() || ack.Status.Busy() {
		return fmt.Errorf("%w: opcode 0x%02X declined with status 0x%02X",
			ErrSettingsRejected, frame.Opcode(), byte(ack.Status))
	}

	return nil
}

// exchange performs one write followed by one bounded read. Caller
// must hold the session mutex; the pairing is what keeps frames from
// interleaving on the wire.
func (s *Session) exchange(ctx context.Context, frame CommandFrame, maxLen int, timeout time.Duration) ([]byte, error) {
	if err := s.transport.Write(ctx, frame[:]); err != nil {
		return nil, err
	}
	return s.transport.Read(ctx, maxLen, timeout)
}
