// internal/discovery/usb/scanner.go
package usb

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/gousb"
	"go.uber.org/zap"

	"scope-service/internal/discovery"
	"scope-service/internal/model"
)

// USB device classes that instruments show up under. Most instruments are
// vendor-specific, CDC serial adapters, or USBTMC (application specific).
const (
	ClassCDC                 = 0x02
	ClassCDCData             = 0x0A
	ClassApplicationSpecific = 0xFE
	ClassVendorSpecific      = 0xFF
)

// Config holds USB scanner configuration
type Config struct {
	ScanTimeout          time.Duration
	EnableDebug          bool
	SkipPermissionCheck  bool
	FilterByClass        bool
	TestConnection       bool
	MaxConcurrentDevices int
}

// DefaultConfig returns the default scanner configuration
func DefaultConfig() *Config {
	return &Config{
		ScanTimeout:          10 * time.Second,
		EnableDebug:          false,
		SkipPermissionCheck:  false,
		FilterByClass:        true,
		TestConnection:       false,
		MaxConcurrentDevices: 5,
	}
}

// Scanner scans the USB bus for attached instruments
type Scanner struct {
	logger       *zap.Logger
	config       *Config
	instrumentDB *InstrumentDatabase
}

// NewScanner creates a USB scanner with default configuration
func NewScanner(logger *zap.Logger) *Scanner {
	return NewScannerWithConfig(logger, DefaultConfig())
}

// NewScannerWithConfig creates a USB scanner with custom configuration
func NewScannerWithConfig(logger *zap.Logger, config *Config) *Scanner {
	if config == nil {
		config = DefaultConfig()
	}
	return &Scanner{
		logger:       logger,
		config:       config,
		instrumentDB: NewInstrumentDatabase(),
	}
}

// GetScannerType returns the scanner type
func (s *Scanner) GetScannerType() string {
	return "usb"
}

// IsAvailable checks whether USB scanning works on this platform
func (s *Scanner) IsAvailable() bool {
	switch runtime.GOOS {
	case "linux", "darwin", "windows":
	default:
		return false
	}

	// gousb panics when libusb cannot be initialized
	available := true
	func() {
		defer func() {
			if r := recover(); r != nil {
				available = false
			}
		}()
		testCtx := gousb.NewContext()
		testCtx.Close()
	}()

	return available
}

// Scan enumerates the USB bus and identifies attached instruments
func (s *Scanner) Scan(ctx context.Context) ([]*discovery.DiscoveredInstrument, error) {
	s.logger.Info("Starting USB instrument scan",
		zap.Duration("timeout", s.config.ScanTimeout),
		zap.Bool("filter_by_class", s.config.FilterByClass),
		zap.Int("known_products", s.instrumentDB.GetTotalProductCount()),
	)

	scanCtx, cancel := context.WithTimeout(ctx, s.config.ScanTimeout)
	defer cancel()

	usbCtx := gousb.NewContext()
	defer usbCtx.Close()

	if s.config.EnableDebug {
		usbCtx.Debug(4)
	}

	if err := s.preScanChecks(usbCtx); err != nil {
		return nil, err
	}

	// Collect descriptors without opening anything. The visitor returns
	// false so OpenDevices never claims a device handle.
	var descriptors []*gousb.DeviceDesc
	_, err := usbCtx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		descriptors = append(descriptors, desc)
		return false
	})
	if err != nil {
		s.logger.Warn("Some USB devices could not be enumerated cleanly", zap.Error(err))
	}

	s.logger.Debug("USB enumeration completed", zap.Int("devices_seen", len(descriptors)))

	instruments := s.processDevicesConcurrently(scanCtx, usbCtx, descriptors)
	instruments = s.postProcessInstruments(instruments)

	s.logger.Info("USB instrument scan completed",
		zap.Int("devices_seen", len(descriptors)),
		zap.Int("instruments_found", len(instruments)),
	)

	return instruments, nil
}

// preScanChecks verifies the bus can be enumerated before the real scan
func (s *Scanner) preScanChecks(usbCtx *gousb.Context) error {
	if s.config.SkipPermissionCheck {
		return nil
	}

	count := 0
	_, err := usbCtx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		count++
		return false
	})
	if err != nil && count == 0 {
		return fmt.Errorf("USB enumeration failed: %w", err)
	}

	s.logger.Debug("Pre-scan check completed", zap.Int("total_usb_devices", count))
	return nil
}

// processDevicesConcurrently identifies devices with a bounded worker pool
func (s *Scanner) processDevicesConcurrently(ctx context.Context, usbCtx *gousb.Context, descriptors []*gousb.DeviceDesc) []*discovery.DiscoveredInstrument {
	results := make(chan *discovery.DiscoveredInstrument, len(descriptors))
	semaphore := make(chan struct{}, s.config.MaxConcurrentDevices)
	var wg sync.WaitGroup

	for _, desc := range descriptors {
		wg.Add(1)
		go func(desc *gousb.DeviceDesc) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			select {
			case <-ctx.Done():
				return
			default:
			}

			if instrument := s.processDevice(usbCtx, desc); instrument != nil {
				results <- instrument
			}
		}(desc)
	}

	wg.Wait()
	close(results)

	var instruments []*discovery.DiscoveredInstrument
	for instrument := range results {
		instruments = append(instruments, instrument)
	}
	return instruments
}

// processDevice identifies a single USB device
func (s *Scanner) processDevice(usbCtx *gousb.Context, desc *gousb.DeviceDesc) *discovery.DiscoveredInstrument {
	var instrument *discovery.DiscoveredInstrument

	if info := s.instrumentDB.GetProductInfo(desc.Vendor, desc.Product); info != nil {
		instrument = s.identifyKnownInstrument(usbCtx, desc, info)
	} else {
		if s.config.FilterByClass && !isInstrumentClass(desc) {
			return nil
		}
		instrument = s.identifyGenericInstrument(usbCtx, desc)
	}

	if instrument != nil && s.config.TestConnection {
		if !s.testInstrumentAccess(usbCtx, desc) {
			instrument.Confidence *= 0.5
			s.logger.Debug("Instrument failed access test, confidence reduced",
				zap.String("model", instrument.Model),
				zap.Float64("confidence", instrument.Confidence),
			)
		}
	}

	return instrument
}

// identifyKnownInstrument builds a discovery result from the database entry
func (s *Scanner) identifyKnownInstrument(usbCtx *gousb.Context, desc *gousb.DeviceDesc, info *ProductInfo) *discovery.DiscoveredInstrument {
	vendor := s.instrumentDB.GetVendorInfo(desc.Vendor)
	serialNumber, productName := s.readStringDescriptors(usbCtx, desc)

	// Family product IDs cover several models; the descriptor strings
	// tell the variants apart.
	info = s.instrumentDB.RefineHandheldModel(info, productName, serialNumber)

	if serialNumber == "" {
		serialNumber = syntheticSerial(desc)
	}

	s.logger.Debug("Identified known instrument",
		zap.String("brand", string(vendor.Brand)),
		zap.String("model", info.Model),
		zap.String("serial_number", serialNumber),
		zap.Float64("confidence", info.Confidence),
	)

	return &discovery.DiscoveredInstrument{
		ConnectionType: model.ConnectionTypeUSB,
		ConnectionInfo: s.createUSBConnectionInfo(desc, serialNumber),
		Brand:          vendor.Brand,
		Model:          info.Model,
		InstrumentType: info.InstrumentType,
		Capabilities:   info.Capabilities,
		Confidence:     info.Confidence,
		SerialNumber:   serialNumber,
		Location:       createLocationString(desc),
	}
}

// identifyGenericInstrument builds a low-confidence result for an unknown device
func (s *Scanner) identifyGenericInstrument(usbCtx *gousb.Context, desc *gousb.DeviceDesc) *discovery.DiscoveredInstrument {
	serialNumber, productName := s.readStringDescriptors(usbCtx, desc)

	brand := model.BrandGeneric
	confidence := 0.3
	if vendor := s.instrumentDB.GetVendorInfo(desc.Vendor); vendor != nil {
		brand = vendor.Brand
		confidence = 0.45
	}

	instrumentModel := productName
	if instrumentModel == "" {
		instrumentModel = fmt.Sprintf("USB-%04X:%04X", uint16(desc.Vendor), uint16(desc.Product))
	}
	if serialNumber == "" {
		serialNumber = syntheticSerial(desc)
	}

	return &discovery.DiscoveredInstrument{
		ConnectionType: model.ConnectionTypeUSB,
		ConnectionInfo: s.createUSBConnectionInfo(desc, serialNumber),
		Brand:          brand,
		Model:          instrumentModel,
		InstrumentType: model.InstrumentTypeOscilloscope,
		Capabilities:   []string{"capture"},
		Confidence:     confidence,
		SerialNumber:   serialNumber,
		Location:       createLocationString(desc),
	}
}

// readStringDescriptors opens the device briefly to read its serial number
// and product strings. Both come back empty when the device cannot be
// opened, which is what happens without udev permissions.
func (s *Scanner) readStringDescriptors(usbCtx *gousb.Context, desc *gousb.DeviceDesc) (string, string) {
	devices, err := usbCtx.OpenDevices(func(d *gousb.DeviceDesc) bool {
		return d.Bus == desc.Bus && d.Address == desc.Address
	})
	defer func() {
		for _, dev := range devices {
			dev.Close()
		}
	}()
	if err != nil {
		s.logger.Debug("Could not open device for descriptor strings",
			zap.String("vendor_id", fmt.Sprintf("0x%04X", uint16(desc.Vendor))),
			zap.String("product_id", fmt.Sprintf("0x%04X", uint16(desc.Product))),
			zap.Error(err),
		)
		return "", ""
	}
	if len(devices) == 0 {
		return "", ""
	}

	var serialNumber, productName string
	if value, err := devices[0].SerialNumber(); err == nil {
		serialNumber = strings.TrimSpace(value)
	}
	if value, err := devices[0].Product(); err == nil {
		productName = strings.TrimSpace(value)
	}
	return serialNumber, productName
}

// testInstrumentAccess verifies the device handle can be opened. The default
// interface is not claimed because a claim would break a session already
// running against the instrument.
func (s *Scanner) testInstrumentAccess(usbCtx *gousb.Context, desc *gousb.DeviceDesc) bool {
	devices, err := usbCtx.OpenDevices(func(d *gousb.DeviceDesc) bool {
		return d.Bus == desc.Bus && d.Address == desc.Address
	})
	defer func() {
		for _, dev := range devices {
			dev.Close()
		}
	}()
	return err == nil && len(devices) > 0
}

// createUSBConnectionInfo builds the connection configuration used to open
// the instrument later
func (s *Scanner) createUSBConnectionInfo(desc *gousb.DeviceDesc, serialNumber string) map[string]interface{} {
	info := map[string]interface{}{
		"vendor_id":      fmt.Sprintf("0x%04X", uint16(desc.Vendor)),
		"product_id":     fmt.Sprintf("0x%04X", uint16(desc.Product)),
		"bus":            desc.Bus,
		"address":        desc.Address,
		"usb_version":    desc.Spec.String(),
		"device_version": desc.Device.String(),
		"class":          desc.Class.String(),
		"sub_class":      desc.SubClass.String(),
		"protocol":       desc.Protocol.String(),
		"interface":      0,
	}
	if serialNumber != "" {
		info["serial_number"] = serialNumber
	}
	return info
}

// createLocationString builds a human readable bus location
func createLocationString(desc *gousb.DeviceDesc) string {
	return fmt.Sprintf("USB-Bus%d-Port%d", desc.Bus, desc.Port)
}

// syntheticSerial builds a stable fallback identifier for devices whose
// serial number string cannot be read
func syntheticSerial(desc *gousb.DeviceDesc) string {
	return fmt.Sprintf("USB-%04X%04X-%d", uint16(desc.Vendor), uint16(desc.Product), desc.Address)
}

// isInstrumentClass checks the device and interface classes against the
// classes instruments enumerate with
func isInstrumentClass(desc *gousb.DeviceDesc) bool {
	if classMatches(uint8(desc.Class)) {
		return true
	}
	for _, cfg := range desc.Configs {
		for _, intf := range cfg.Interfaces {
			for _, setting := range intf.AltSettings {
				if classMatches(uint8(setting.Class)) {
					return true
				}
			}
		}
	}
	return false
}

func classMatches(class uint8) bool {
	switch class {
	case ClassCDC, ClassCDCData, ClassApplicationSpecific, ClassVendorSpecific:
		return true
	}
	return false
}

// postProcessInstruments deduplicates scan results and orders them by
// confidence
func (s *Scanner) postProcessInstruments(instruments []*discovery.DiscoveredInstrument) []*discovery.DiscoveredInstrument {
	seen := make(map[string]bool)
	var unique []*discovery.DiscoveredInstrument

	for _, instrument := range instruments {
		key := fmt.Sprintf("%v:%v:%s",
			instrument.ConnectionInfo["vendor_id"],
			instrument.ConnectionInfo["product_id"],
			instrument.SerialNumber,
		)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, instrument)
	}

	// Highest confidence first
	for i := 0; i < len(unique); i++ {
		for j := i + 1; j < len(unique); j++ {
			if unique[j].Confidence > unique[i].Confidence {
				unique[i], unique[j] = unique[j], unique[i]
			}
		}
	}

	return unique
}
