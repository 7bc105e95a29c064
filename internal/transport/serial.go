// internal/transport/serial.go
package transport

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
	"go.uber.org/zap"

	"scope-service/internal/model"
)

// SerialTransport implements DeviceTransport for serial port connections.
// Bench instruments with SCPI-over-serial front ends attach through this
// path instead of the bulk USB one.
type SerialTransport struct {
	config *SerialConfig
	port   serial.Port
	logger *zap.Logger
	mutex  sync.RWMutex
	isOpen bool

	statsMutex sync.Mutex
	stats      TransportStats
}

// NewSerialTransport creates a new serial transport
func NewSerialTransport(config *SerialConfig, logger *zap.Logger) DeviceTransport {
	return &SerialTransport{
		config: config,
		logger: logger.With(
			zap.String("transport", "serial"),
			zap.String("port", config.Port),
		),
	}
}

// Open opens the configured serial port
func (st *SerialTransport) Open(ctx context.Context) error {
	st.mutex.Lock()
	defer st.mutex.Unlock()

	if st.isOpen {
		return nil
	}

	st.logger.Info("Opening serial transport",
		zap.String("port", st.config.Port),
		zap.Int("baud_rate", st.config.BaudRate),
	)

	mode := &serial.Mode{
		BaudRate: st.config.BaudRate,
		DataBits: st.config.DataBits,
		StopBits: serialStopBits(st.config.StopBits),
		Parity:   serialParity(st.config.Parity),
	}

	port, err := serial.Open(st.config.Port, mode)
	if err != nil {
		var portErr *serial.PortError
		if errors.As(err, &portErr) && portErr.Code() == serial.PortNotFound {
			return fmt.Errorf("%w: serial port %s", ErrDeviceNotFound, st.config.Port)
		}
		return fmt.Errorf("failed to open serial port %s: %w", st.config.Port, err)
	}

	st.port = port
	st.isOpen = true

	st.statsMutex.Lock()
	st.stats.IsConnected = true
	st.stats.LastActivity = time.Now()
	st.statsMutex.Unlock()

	st.logger.Info("Serial transport opened successfully")
	return nil
}

// Close closes the serial port. Safe to call in any state.
func (st *SerialTransport) Close() error {
	st.mutex.Lock()
	defer st.mutex.Unlock()

	if !st.isOpen {
		return nil
	}

	var closeErr error
	if st.port != nil {
		closeErr = st.port.Close()
		st.port = nil
	}
	st.isOpen = false

	st.statsMutex.Lock()
	st.stats.IsConnected = false
	st.statsMutex.Unlock()

	if closeErr != nil {
		return fmt.Errorf("failed to close serial port: %w", closeErr)
	}

	st.logger.Info("Serial transport closed successfully")
	return nil
}

// IsOpen returns whether the transport is open
func (st *SerialTransport) IsOpen() bool {
	st.mutex.RLock()
	defer st.mutex.RUnlock()
	return st.isOpen && st.port != nil
}

// Write sends data over the serial port
func (st *SerialTransport) Write(ctx context.Context, data []byte) error {
	st.mutex.RLock()
	port := st.port
	open := st.isOpen
	st.mutex.RUnlock()

	if !open || port == nil {
		return ErrNotOpen
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	startTime := time.Now()
	n, err := port.Write(data)
	if err != nil {
		st.recordError()
		st.logger.Error("Serial write failed", zap.Error(err))
		return fmt.Errorf("%w: write failed: %v", ErrIo, err)
	}

	if n != len(data) {
		st.recordError()
		return fmt.Errorf("%w: incomplete write, wrote %d of %d bytes", ErrIo, n, len(data))
	}

	st.recordWrite(len(data), time.Since(startTime))
	st.logger.Debug("Serial write completed", zap.Int("bytes", len(data)))
	return nil
}

// Read accumulates up to maxBytes within the timeout. The port read
// timeout is re-armed with the remaining budget on every pass, so a
// device that trickles bytes still completes within one deadline.
func (st *SerialTransport) Read(ctx context.Context, maxBytes int, timeout time.Duration) ([]byte, error) {
	st.mutex.RLock()
	port := st.port
	open := st.isOpen
	st.mutex.RUnlock()

	if !open || port == nil {
		return nil, ErrNotOpen
	}

	if timeout <= 0 {
		timeout = st.config.Timeout
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	deadline := time.Now().Add(timeout)
	buffer := make([]byte, maxBytes)
	total := 0
	startTime := time.Now()

	for total < maxBytes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}

		if err := port.SetReadTimeout(remaining); err != nil {
			st.recordError()
			return nil, fmt.Errorf("%w: failed to set read timeout: %v", ErrIo, err)
		}

		n, err := port.Read(buffer[total:])
		if err != nil {
			st.recordError()
			st.logger.Error("Serial read failed", zap.Error(err))
			return nil, fmt.Errorf("%w: read failed: %v", ErrIo, err)
		}
		if n == 0 {
			// Timeout tick with nothing buffered means the device is done.
			break
		}
		total += n
	}

	if total == 0 {
		st.recordError()
		return nil, fmt.Errorf("%w: no data within %s", ErrTimeout, timeout)
	}

	data := make([]byte, total)
	copy(data, buffer[:total])

	st.recordRead(total, time.Since(startTime))
	st.logger.Debug("Serial read completed", zap.Int("bytes", total))
	return data, nil
}

// GetTransportType returns the transport type
func (st *SerialTransport) GetTransportType() model.ConnectionType {
	return model.ConnectionTypeSerial
}

// Ping checks port liveness through the modem status lines
func (st *SerialTransport) Ping(ctx context.Context) error {
	st.mutex.RLock()
	port := st.port
	open := st.isOpen
	st.mutex.RUnlock()

	if !open || port == nil {
		return ErrNotOpen
	}

	if _, err := port.GetModemStatusBits(); err != nil {
		st.recordError()
		return fmt.Errorf("%w: ping failed: %v", ErrIo, err)
	}

	st.statsMutex.Lock()
	st.stats.LastActivity = time.Now()
	st.statsMutex.Unlock()
	return nil
}

// Stats returns a snapshot of transport statistics
func (st *SerialTransport) Stats() TransportStats {
	st.statsMutex.Lock()
	defer st.statsMutex.Unlock()
	return st.stats
}

// Helper methods

func (st *SerialTransport) recordWrite(bytes int, latency time.Duration) {
	st.statsMutex.Lock()
	defer st.statsMutex.Unlock()
	st.stats.BytesWritten += int64(bytes)
	st.stats.FramesWritten++
	st.stats.LastActivity = time.Now()
	st.updateAverageLatency(latency)
}

func (st *SerialTransport) recordRead(bytes int, latency time.Duration) {
	st.statsMutex.Lock()
	defer st.statsMutex.Unlock()
	st.stats.BytesRead += int64(bytes)
	st.stats.FramesRead++
	st.stats.LastActivity = time.Now()
	st.updateAverageLatency(latency)
}

func (st *SerialTransport) recordError() {
	st.statsMutex.Lock()
	defer st.statsMutex.Unlock()
	st.stats.ErrorCount++
}

// updateAverageLatency updates the running average latency.
// Caller must hold statsMutex.
func (st *SerialTransport) updateAverageLatency(newLatency time.Duration) {
	if st.stats.AverageLatency == 0 {
		st.stats.AverageLatency = newLatency
	} else {
		st.stats.AverageLatency = (st.stats.AverageLatency + newLatency) / 2
	}
}

// serialStopBits maps a numeric stop bit count to the serial library enum
func serialStopBits(bits int) serial.StopBits {
	switch bits {
	case 2:
		return serial.TwoStopBits
	default:
		return serial.OneStopBit
	}
}

// serialParity maps a parity name to the serial library enum
func serialParity(parity string) serial.Parity {
	switch strings.ToLower(parity) {
	case "odd":
		return serial.OddParity
	case "even":
		return serial.EvenParity
	default:
		return serial.NoParity
	}
}
