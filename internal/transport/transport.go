// internal/transport/transport.go
package transport

import (
	"context"
	"errors"
	"time"

	"scope-service/internal/model"
)

// Transport-level errors. The session layer decides retry policy; this
// package only classifies failures.
var (
	// ErrDeviceNotFound means no device matched the configured IDs at open time.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrTimeout means a read or write did not complete within its deadline.
	ErrTimeout = errors.New("i/o timeout")

	// ErrIo means the transfer failed for a reason other than a timeout;
	// the connection should be presumed dead.
	ErrIo = errors.New("i/o error")

	// ErrNotOpen means an operation was attempted on a closed transport.
	ErrNotOpen = errors.New("transport not open")
)

// IsTimeout reports whether err is a transport timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// DeviceTransport represents a raw frame channel to an instrument.
// Implementations hold an exclusive claim on the underlying device
// while open and must release it on Close.
type DeviceTransport interface {
	// Connection lifecycle
	Open(ctx context.Context) error
	Close() error
	IsOpen() bool

	// Frame exchange. Write sends one command frame; Read returns at
	// most maxBytes from the device, failing with ErrTimeout when
	// nothing arrives within timeout. Neither retries.
	Write(ctx context.Context, data []byte) error
	Read(ctx context.Context, maxBytes int, timeout time.Duration) ([]byte, error)

	// Transport information
	GetTransportType() model.ConnectionType

	// Health and diagnostics
	Ping(ctx context.Context) error
	Stats() TransportStats
}

// TransportStats provides transport-level statistics
type TransportStats struct {
	BytesWritten   int64         `json:"bytes_written"`
	BytesRead      int64         `json:"bytes_read"`
	FramesWritten  int64         `json:"frames_written"`
	FramesRead     int64         `json:"frames_read"`
	ErrorCount     int64         `json:"error_count"`
	LastActivity   time.Time     `json:"last_activity"`
	AverageLatency time.Duration `json:"average_latency"`
	IsConnected    bool          `json:"is_connected"`
}
