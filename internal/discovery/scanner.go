// internal/discovery/scanner.go
package discovery

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"scope-service/internal/model"
)

// InstrumentScanner probes one transport for attached instruments
type InstrumentScanner interface {
	Scan(ctx context.Context) ([]*DiscoveredInstrument, error)
	GetScannerType() string
	IsAvailable() bool
}

// DiscoveredInstrument represents an instrument found during a scan
type DiscoveredInstrument struct {
	ConnectionType model.ConnectionType   `json:"connection_type"`
	ConnectionInfo map[string]interface{} `json:"connection_info"`
	Brand          model.InstrumentBrand  `json:"brand"`
	Model          string                 `json:"model"`
	InstrumentType model.InstrumentType   `json:"instrument_type"`
	Capabilities   []string               `json:"capabilities"`
	Confidence     float64                `json:"confidence"` // 0.0-1.0
	SerialNumber   string                 `json:"serial_number,omitempty"`
	Location       string                 `json:"location,omitempty"`
}

// ScannerManager fans scan requests out to the registered scanners
type ScannerManager struct {
	scanners map[string]InstrumentScanner
	logger   *zap.Logger
}

// NewScannerManager creates a new scanner manager
func NewScannerManager(logger *zap.Logger) *ScannerManager {
	return &ScannerManager{
		scanners: make(map[string]InstrumentScanner),
		logger:   logger,
	}
}

// RegisterScanner registers an instrument scanner
func (sm *ScannerManager) RegisterScanner(scanner InstrumentScanner) {
	scannerType := scanner.GetScannerType()
	sm.scanners[scannerType] = scanner
	sm.logger.Info("Scanner registered", zap.String("type", scannerType))
}

// ScanAll scans all registered scanner types
func (sm *ScannerManager) ScanAll(ctx context.Context) ([]*DiscoveredInstrument, error) {
	var allInstruments []*DiscoveredInstrument

	for scannerType, scanner := range sm.scanners {
		if !scanner.IsAvailable() {
			sm.logger.Debug("Scanner not available, skipping", zap.String("type", scannerType))
			continue
		}

		instruments, err := scanner.Scan(ctx)
		if err != nil {
			sm.logger.Error("Scanner failed", zap.String("type", scannerType), zap.Error(err))
			continue
		}

		allInstruments = append(allInstruments, instruments...)
		sm.logger.Info("Scanner completed",
			zap.String("type", scannerType),
			zap.Int("instruments_found", len(instruments)),
		)
	}

	return allInstruments, nil
}

// ScanByType scans a specific scanner type
func (sm *ScannerManager) ScanByType(ctx context.Context, scannerType string) ([]*DiscoveredInstrument, error) {
	scanner, exists := sm.scanners[scannerType]
	if !exists {
		return nil, fmt.Errorf("scanner type not found: %s", scannerType)
	}

	if !scanner.IsAvailable() {
		return nil, fmt.Errorf("scanner not available: %s", scannerType)
	}

	return scanner.Scan(ctx)
}

// GetAvailableScanners returns the available scanner types
func (sm *ScannerManager) GetAvailableScanners() []string {
	var available []string
	for scannerType, scanner := range sm.scanners {
		if scanner.IsAvailable() {
			available = append(available, scannerType)
		}
	}
	return available
}
