// internal/transport/usb.go
package transport

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/gousb"
	"go.uber.org/zap"

	"scope-service/internal/model"
)

// USBTransport implements DeviceTransport for USB bulk connections
type USBTransport struct {
	config   *USBConfig
	ctx      *gousb.Context
	device   *gousb.Device
	intf     *gousb.Interface
	intfDone func()
	outEndpt *gousb.OutEndpoint
	inEndpt  *gousb.InEndpoint
	logger   *zap.Logger
	mutex    sync.RWMutex
	isOpen   bool

	statsMutex sync.Mutex
	stats      TransportStats
}

// NewUSBTransport creates a new USB transport
func NewUSBTransport(config *USBConfig, logger *zap.Logger) DeviceTransport {
	return &USBTransport{
		config: config,
		logger: logger.With(
			zap.String("transport", "usb"),
			zap.String("vendor_id", config.VendorID),
			zap.String("product_id", config.ProductID),
		),
	}
}

// Open claims the USB device. The search is bounded by the configured
// connect timeout so a missing device fails instead of hanging.
func (ut *USBTransport) Open(ctx context.Context) error {
	ut.mutex.Lock()
	defer ut.mutex.Unlock()

	if ut.isOpen {
		return nil
	}

	ut.logger.Info("Opening USB transport",
		zap.String("vendor_id", ut.config.VendorID),
		zap.String("product_id", ut.config.ProductID),
		zap.Int("interface", ut.config.Interface),
	)

	vendorID, err := parseHexID(ut.config.VendorID)
	if err != nil {
		return fmt.Errorf("invalid vendor ID: %w", err)
	}

	productID, err := parseHexID(ut.config.ProductID)
	if err != nil {
		return fmt.Errorf("invalid product ID: %w", err)
	}

	connectTimeout := ut.config.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 5 * time.Second
	}
	openCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	ut.ctx = gousb.NewContext()

	device, err := ut.findAndOpenDevice(openCtx, vendorID, productID)
	if err != nil {
		ut.ctx.Close()
		ut.ctx = nil
		return err
	}

	// The scope firmware binds a usbfs kernel driver on some hosts;
	// detach it before claiming the interface.
	if err := device.SetAutoDetach(true); err != nil {
		ut.logger.Warn("Failed to enable kernel driver auto-detach", zap.Error(err))
	}

	intf, done, err := device.DefaultInterface()
	if err != nil {
		device.Close()
		ut.ctx.Close()
		ut.ctx = nil
		return fmt.Errorf("failed to claim interface: %w", err)
	}

	outEndpt, err := intf.OutEndpoint(ut.config.OutEndpoint)
	if err != nil {
		done()
		device.Close()
		ut.ctx.Close()
		ut.ctx = nil
		return fmt.Errorf("failed to get out endpoint %d: %w", ut.config.OutEndpoint, err)
	}

	inEndpt, err := intf.InEndpoint(ut.config.InEndpoint)
	if err != nil {
		done()
		device.Close()
		ut.ctx.Close()
		ut.ctx = nil
		return fmt.Errorf("failed to get in endpoint %d: %w", ut.config.InEndpoint, err)
	}

	ut.device = device
	ut.intf = intf
	ut.intfDone = done
	ut.outEndpt = outEndpt
	ut.inEndpt = inEndpt
	ut.isOpen = true

	ut.statsMutex.Lock()
	ut.stats.IsConnected = true
	ut.stats.LastActivity = time.Now()
	ut.statsMutex.Unlock()

	ut.logger.Info("USB transport opened successfully",
		zap.Int("max_packet_size", inEndpt.Desc.MaxPacketSize),
	)
	return nil
}

// Close releases the interface, the device and the USB context.
// Safe to call in any state.
func (ut *USBTransport) Close() error {
	ut.mutex.Lock()
	defer ut.mutex.Unlock()

	if !ut.isOpen {
		return nil
	}

	if ut.intfDone != nil {
		ut.intfDone()
		ut.intfDone = nil
	}
	ut.intf = nil

	if ut.device != nil {
		ut.device.Close()
		ut.device = nil
	}

	if ut.ctx != nil {
		ut.ctx.Close()
		ut.ctx = nil
	}

	ut.outEndpt = nil
	ut.inEndpt = nil
	ut.isOpen = false

	ut.statsMutex.Lock()
	ut.stats.IsConnected = false
	ut.statsMutex.Unlock()

	ut.logger.Info("USB transport closed successfully")
	return nil
}

// IsOpen returns whether the transport is open
func (ut *USBTransport) IsOpen() bool {
	ut.mutex.RLock()
	defer ut.mutex.RUnlock()
	return ut.isOpen && ut.device != nil && ut.outEndpt != nil
}

// Write sends one frame to the bulk OUT endpoint
func (ut *USBTransport) Write(ctx context.Context, data []byte) error {
	ut.mutex.RLock()
	outEndpt := ut.outEndpt
	open := ut.isOpen
	ut.mutex.RUnlock()

	if !open || outEndpt == nil {
		return ErrNotOpen
	}

	startTime := time.Now()
	n, err := outEndpt.WriteContext(ctx, data)
	if err != nil {
		ut.recordError()
		ut.logger.Error("USB write failed", zap.Error(err))
		return classifyTransferError(err, "write")
	}

	if n != len(data) {
		ut.recordError()
		return fmt.Errorf("%w: incomplete write, wrote %d of %d bytes", ErrIo, n, len(data))
	}

	ut.recordWrite(len(data), time.Since(startTime))
	ut.logger.Debug("USB write completed", zap.Int("bytes", len(data)))
	return nil
}

// Read reads up to maxBytes from the bulk IN endpoint. The buffer is
// rounded up to a whole number of USB packets so a device that pads
// its last packet does not overflow the transfer.
func (ut *USBTransport) Read(ctx context.Context, maxBytes int, timeout time.Duration) ([]byte, error) {
	ut.mutex.RLock()
	inEndpt := ut.inEndpt
	open := ut.isOpen
	ut.mutex.RUnlock()

	if !open || inEndpt == nil {
		return nil, ErrNotOpen
	}

	if timeout <= 0 {
		timeout = ut.config.ReadTimeout
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	readCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	packetSize := inEndpt.Desc.MaxPacketSize
	if packetSize <= 0 {
		packetSize = 64
	}
	bufSize := ((maxBytes + packetSize - 1) / packetSize) * packetSize
	if bufSize == 0 {
		bufSize = packetSize
	}
	buffer := make([]byte, bufSize)

	startTime := time.Now()
	n, err := inEndpt.ReadContext(readCtx, buffer)
	if err != nil {
		ut.recordError()
		return nil, classifyTransferError(err, "read")
	}

	if n > maxBytes {
		n = maxBytes
	}
	data := make([]byte, n)
	copy(data, buffer[:n])

	ut.recordRead(n, time.Since(startTime))
	ut.logger.Debug("USB read completed", zap.Int("bytes", n))
	return data, nil
}

// GetTransportType returns the transport type
func (ut *USBTransport) GetTransportType() model.ConnectionType {
	return model.ConnectionTypeUSB
}

// Ping verifies the device still answers control transfers. It uses a
// descriptor read so no acquisition state on the instrument changes.
func (ut *USBTransport) Ping(ctx context.Context) error {
	ut.mutex.RLock()
	device := ut.device
	open := ut.isOpen
	ut.mutex.RUnlock()

	if !open || device == nil {
		return ErrNotOpen
	}

	if _, err := device.Manufacturer(); err != nil {
		ut.recordError()
		return fmt.Errorf("%w: ping failed: %v", ErrIo, err)
	}

	ut.statsMutex.Lock()
	ut.stats.LastActivity = time.Now()
	ut.statsMutex.Unlock()
	return nil
}

// Stats returns a snapshot of transport statistics
func (ut *USBTransport) Stats() TransportStats {
	ut.statsMutex.Lock()
	defer ut.statsMutex.Unlock()
	return ut.stats
}

// Helper methods

// findAndOpenDevice enumerates matching devices within the open deadline
func (ut *USBTransport) findAndOpenDevice(ctx context.Context, vendorID, productID gousb.ID) (*gousb.Device, error) {
	type openResult struct {
		device *gousb.Device
		err    error
	}
	done := make(chan openResult, 1)

	go func() {
		devices, err := ut.ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
			return desc.Vendor == vendorID && desc.Product == productID
		})
		if err != nil {
			for _, dev := range devices {
				dev.Close()
			}
			done <- openResult{err: fmt.Errorf("failed to enumerate USB devices: %w", err)}
			return
		}

		if len(devices) == 0 {
			done <- openResult{err: fmt.Errorf("%w (VID: %04X, PID: %04X)", ErrDeviceNotFound, uint16(vendorID), uint16(productID))}
			return
		}

		if len(devices) > 1 {
			for i := 1; i < len(devices); i++ {
				devices[i].Close()
			}
			ut.logger.Warn("Multiple matching USB devices found, using first one")
		}

		done <- openResult{device: devices[0]}
	}()

	select {
	case result := <-done:
		return result.device, result.err
	case <-ctx.Done():
		// The enumeration goroutine will close any late device when it
		// finishes; report not-found within the deadline.
		go func() {
			if result := <-done; result.device != nil {
				result.device.Close()
			}
		}()
		return nil, fmt.Errorf("%w: connect timed out (VID: %04X, PID: %04X)", ErrDeviceNotFound, uint16(vendorID), uint16(productID))
	}
}

func (ut *USBTransport) recordWrite(bytes int, latency time.Duration) {
	ut.statsMutex.Lock()
	defer ut.statsMutex.Unlock()
	ut.stats.BytesWritten += int64(bytes)
	ut.stats.FramesWritten++
	ut.stats.LastActivity = time.Now()
	ut.updateAverageLatency(latency)
}

func (ut *USBTransport) recordRead(bytes int, latency time.Duration) {
	ut.statsMutex.Lock()
	defer ut.statsMutex.Unlock()
	ut.stats.BytesRead += int64(bytes)
	ut.stats.FramesRead++
	ut.stats.LastActivity = time.Now()
	ut.updateAverageLatency(latency)
}

func (ut *USBTransport) recordError() {
	ut.statsMutex.Lock()
	defer ut.statsMutex.Unlock()
	ut.stats.ErrorCount++
}

// updateAverageLatency updates the running average latency.
// Caller must hold statsMutex.
func (ut *USBTransport) updateAverageLatency(newLatency time.Duration) {
	if ut.stats.AverageLatency == 0 {
		ut.stats.AverageLatency = newLatency
	} else {
		ut.stats.AverageLatency = (ut.stats.AverageLatency + newLatency) / 2
	}
}

// parseHexID parses hex ID string (0x1234 or 1234)
func parseHexID(hexStr string) (gousb.ID, error) {
	if len(hexStr) > 2 && hexStr[:2] == "0x" {
		hexStr = hexStr[2:]
	}

	id, err := strconv.ParseUint(hexStr, 16, 16)
	if err != nil {
		return 0, err
	}

	return gousb.ID(id), nil
}

// classifyTransferError maps gousb failures onto the transport taxonomy
func classifyTransferError(err error, op string) error {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, gousb.TransferTimedOut) ||
		errors.Is(err, gousb.ErrorTimeout) {
		return fmt.Errorf("%w: %s timed out", ErrTimeout, op)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %s failed: %v", ErrIo, op, err)
}
