// internal/discovery/serial/scanner.go
package serial

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"go.bug.st/serial/enumerator"
	"go.uber.org/zap"

	"scope-service/internal/discovery"
	"scope-service/internal/model"
)

// Config holds serial scanner configuration
type Config struct {
	// IncludeBridgeChips reports ports behind common UART bridge chips as
	// low confidence generic instruments. Off by default because the same
	// chips sit in front of everything from relays to 3D printers.
	IncludeBridgeChips bool
	DefaultBaudRate    int
}

// DefaultConfig returns the default scanner configuration
func DefaultConfig() *Config {
	return &Config{
		IncludeBridgeChips: false,
		DefaultBaudRate:    115200,
	}
}

type serialIdentity struct {
	brand          model.InstrumentBrand
	model          string
	instrumentType model.InstrumentType
	capabilities   []string
	confidence     float64
}

// knownSerialInstruments maps USB VID:PID pairs of CDC serial ports to the
// instrument behind them. Confidence stays below the USB scanner's values so
// the direct USB connection wins when both transports are visible.
var knownSerialInstruments = map[string]serialIdentity{
	"0483:2D42": {
		brand:          model.BrandHantek,
		model:          "2D72",
		instrumentType: model.InstrumentTypeOscilloscope,
		capabilities:   []string{"capture", "stream", "trigger", "multimeter", "screen", "generator", "dual_channel"},
		confidence:     0.80,
	},
	"5345:1234": {
		brand:          model.BrandOwon,
		model:          "HDS272S",
		instrumentType: model.InstrumentTypeOscilloscope,
		capabilities:   []string{"capture", "multimeter", "generator", "dual_channel"},
		confidence:     0.75,
	},
}

// handheldTokens are the model markers that show up in the USB serial number
// string of the shared family product ID.
var handheldTokens = []string{"2D72", "2D42", "2C72", "2C42"}

// bridgeChips maps the VIDs of common USB to UART bridges to a chip name
var bridgeChips = map[string]string{
	"0403": "FTDI",
	"10C4": "CP210x",
	"1A86": "CH340",
}

// Scanner scans serial ports for attached instruments
type Scanner struct {
	logger *zap.Logger
	config *Config
}

// NewScanner creates a serial scanner with default configuration
func NewScanner(logger *zap.Logger) *Scanner {
	return NewScannerWithConfig(logger, DefaultConfig())
}

// NewScannerWithConfig creates a serial scanner with custom configuration
func NewScannerWithConfig(logger *zap.Logger, config *Config) *Scanner {
	if config == nil {
		config = DefaultConfig()
	}
	return &Scanner{
		logger: logger,
		config: config,
	}
}

// GetScannerType returns the scanner type
func (s *Scanner) GetScannerType() string {
	return "serial"
}

// IsAvailable checks whether serial enumeration works on this platform
func (s *Scanner) IsAvailable() bool {
	switch runtime.GOOS {
	case "linux", "darwin", "windows":
		return true
	}
	return false
}

// Scan enumerates serial ports and identifies attached instruments
func (s *Scanner) Scan(ctx context.Context) ([]*discovery.DiscoveredInstrument, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("serial port enumeration failed: %w", err)
	}

	s.logger.Debug("Serial enumeration completed", zap.Int("ports_seen", len(ports)))

	var instruments []*discovery.DiscoveredInstrument
	for _, port := range ports {
		select {
		case <-ctx.Done():
			return instruments, ctx.Err()
		default:
		}

		// Legacy COM ports carry no identity to match on
		if !port.IsUSB {
			continue
		}

		if instrument := s.identifyPort(port); instrument != nil {
			instruments = append(instruments, instrument)
		}
	}

	s.logger.Info("Serial instrument scan completed",
		zap.Int("ports_seen", len(ports)),
		zap.Int("instruments_found", len(instruments)),
	)

	return instruments, nil
}

// identifyPort matches a USB serial port against the known instrument table
func (s *Scanner) identifyPort(port *enumerator.PortDetails) *discovery.DiscoveredInstrument {
	vid := strings.ToUpper(port.VID)
	pid := strings.ToUpper(port.PID)

	if identity, ok := knownSerialInstruments[fmt.Sprintf("%s:%s", vid, pid)]; ok {
		instrumentModel := refineHandheldModel(identity.model, port.SerialNumber)

		s.logger.Debug("Identified known instrument on serial port",
			zap.String("port", port.Name),
			zap.String("brand", string(identity.brand)),
			zap.String("model", instrumentModel),
		)

		return &discovery.DiscoveredInstrument{
			ConnectionType: model.ConnectionTypeSerial,
			ConnectionInfo: s.createSerialConnectionInfo(port),
			Brand:          identity.brand,
			Model:          instrumentModel,
			InstrumentType: identity.instrumentType,
			Capabilities:   identity.capabilities,
			Confidence:     identity.confidence,
			SerialNumber:   port.SerialNumber,
			Location:       port.Name,
		}
	}

	if !s.config.IncludeBridgeChips {
		return nil
	}

	chip, ok := bridgeChips[vid]
	if !ok {
		return nil
	}

	return &discovery.DiscoveredInstrument{
		ConnectionType: model.ConnectionTypeSerial,
		ConnectionInfo: s.createSerialConnectionInfo(port),
		Brand:          model.BrandGeneric,
		Model:          fmt.Sprintf("%s serial device", chip),
		InstrumentType: model.InstrumentTypeOscilloscope,
		Capabilities:   []string{"capture"},
		Confidence:     0.25,
		SerialNumber:   port.SerialNumber,
		Location:       port.Name,
	}
}

// createSerialConnectionInfo builds the connection configuration used to
// open the port later
func (s *Scanner) createSerialConnectionInfo(port *enumerator.PortDetails) map[string]interface{} {
	info := map[string]interface{}{
		"port":      port.Name,
		"baud_rate": s.config.DefaultBaudRate,
	}
	if port.VID != "" {
		info["usb_vid"] = strings.ToUpper(port.VID)
		info["usb_pid"] = strings.ToUpper(port.PID)
	}
	if port.SerialNumber != "" {
		info["usb_serial"] = port.SerialNumber
	}
	return info
}

// refineHandheldModel narrows the shared family identity down to the exact
// model when the serial number string contains a model token
func refineHandheldModel(fallback, serialNumber string) string {
	upper := strings.ToUpper(serialNumber)
	for _, token := range handheldTokens {
		if strings.Contains(upper, token) {
			return token
		}
	}
	return fallback
}
