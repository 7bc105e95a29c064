// internal/service/discovery_service.go
package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"scope-service/internal/config"
	"scope-service/internal/discovery"
	"scope-service/internal/discovery/serial"
	"scope-service/internal/discovery/usb"
	internalDriver "scope-service/internal/driver"
	"scope-service/internal/model"
	"scope-service/internal/utils"
	"scope-service/pkg/instrumenttypes"
)

// DiscoveryService finds attached instruments and can register them
type DiscoveryService struct {
	instrumentService *InstrumentService
	driverRegistry    *internalDriver.Registry
	scannerManager    *discovery.ScannerManager
	config            *config.Config
	logger            *utils.ServiceLogger
}

// NewDiscoveryService creates a new discovery service
func NewDiscoveryService(
	instrumentService *InstrumentService,
	driverRegistry *internalDriver.Registry,
	config *config.Config,
	logger *zap.Logger,
) *DiscoveryService {
	serviceLogger := utils.NewServiceLogger(logger, "discovery-service")

	ds := &DiscoveryService{
		instrumentService: instrumentService,
		driverRegistry:    driverRegistry,
		scannerManager:    discovery.NewScannerManager(logger),
		config:            config,
		logger:            serviceLogger,
	}

	ds.initializeScanners()

	return ds
}

// initializeScanners registers all available scanners
func (ds *DiscoveryService) initializeScanners() {
	if usbScanner := usb.NewScanner(ds.logger.Logger); usbScanner.IsAvailable() {
		ds.scannerManager.RegisterScanner(usbScanner)
	}

	if serialScanner := serial.NewScanner(ds.logger.Logger); serialScanner.IsAvailable() {
		ds.scannerManager.RegisterScanner(serialScanner)
	}

	ds.logger.Info("Discovery scanners initialized",
		zap.Strings("available_scanners", ds.scannerManager.GetAvailableScanners()),
	)
}

// ScanInstruments scans for attached instruments
func (ds *DiscoveryService) ScanInstruments(ctx context.Context, req *ScanRequest) ([]*DiscoveredInstrument, error) {
	ds.logger.Info("Starting instrument scan", zap.String("type", req.ScanType))

	if req.Timeout != "" {
		if timeout, err := time.ParseDuration(req.Timeout); err == nil {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
	}

	var instruments []*discovery.DiscoveredInstrument
	var err error

	switch req.ScanType {
	case "all", "":
		instruments, err = ds.scannerManager.ScanAll(ctx)
	case "usb", "serial":
		instruments, err = ds.scannerManager.ScanByType(ctx, req.ScanType)
	default:
		return nil, fmt.Errorf("unsupported scan type: %s", req.ScanType)
	}

	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	result := make([]*DiscoveredInstrument, len(instruments))
	for i, inst := range instruments {
		result[i] = ds.convertToServiceDTO(inst)
	}

	ds.logger.Info("Instrument scan completed",
		zap.Int("instruments_found", len(result)),
		zap.String("scan_type", req.ScanType),
	)

	return result, nil
}

// convertToServiceDTO converts a discovery result to the service DTO
func (ds *DiscoveryService) convertToServiceDTO(inst *discovery.DiscoveredInstrument) *DiscoveredInstrument {
	return &DiscoveredInstrument{
		ConnectionType: inst.ConnectionType,
		ConnectionInfo: inst.ConnectionInfo,
		Brand:          inst.Brand,
		Model:          inst.Model,
		InstrumentType: inst.InstrumentType,
		Capabilities:   inst.Capabilities,
		Confidence:     inst.Confidence,
		SerialNumber:   inst.SerialNumber,
		Location:       inst.Location,
	}
}

// AutoSetupInstruments scans the bus and registers every instrument that
// passes the filter
func (ds *DiscoveryService) AutoSetupInstruments(ctx context.Context, req *AutoSetupRequest) (*AutoSetupResult, error) {
	ds.logger.Info("Starting auto-setup process", zap.Bool("auto_connect", req.AutoConnect))

	scanReq := &ScanRequest{
		ScanType: "all",
		Timeout:  "30s",
	}

	instruments, err := ds.ScanInstruments(ctx, scanReq)
	if err != nil {
		return nil, fmt.Errorf("instrument scan failed: %w", err)
	}

	result := &AutoSetupResult{
		TotalScanned:     len(instruments),
		SetupInstruments: []*SetupInstrumentResult{},
		Errors:           []string{},
	}

	if len(instruments) == 0 {
		ds.logger.Info("No instruments found during auto-setup scan")
		return result, nil
	}

	userID := req.UserID
	if userID == "" {
		userID = "auto-setup"
	}

	for i, inst := range instruments {
		if !ds.shouldSetupInstrument(inst, req.InstrumentFilter) {
			ds.logger.Debug("Instrument filtered out",
				zap.String("brand", string(inst.Brand)),
				zap.String("model", inst.Model),
				zap.Float64("confidence", inst.Confidence),
			)
			continue
		}

		instrumentID := ds.autoInstrumentID(inst, i)

		setupResult := &SetupInstrumentResult{
			InstrumentID:   instrumentID,
			ConnectionType: inst.ConnectionType,
			Brand:          inst.Brand,
			Model:          inst.Model,
			Status:         "PENDING",
		}

		if existing, err := ds.instrumentService.GetInstrument(ctx, instrumentID); err == nil && existing != nil {
			setupResult.Status = "ALREADY_EXISTS"
			setupResult.Error = "instrument already registered"
			result.SetupInstruments = append(result.SetupInstruments, setupResult)
			continue
		}

		regReq := ds.registrationRequest(inst, instrumentID, userID)
		if _, err := ds.instrumentService.RegisterInstrument(ctx, regReq); err != nil {
			setupResult.Status = "FAILED"
			setupResult.Error = err.Error()
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("instrument %s: %v", instrumentID, err))

			ds.logger.Error("Failed to register instrument during auto-setup",
				zap.String("instrument_id", instrumentID),
				zap.Error(err),
			)

			result.SetupInstruments = append(result.SetupInstruments, setupResult)
			continue
		}

		setupResult.Status = "SUCCESS"
		result.SuccessfullySetup++

		ds.logger.Info("Instrument auto-setup completed",
			zap.String("instrument_id", instrumentID),
			zap.String("brand", string(inst.Brand)),
			zap.String("model", inst.Model),
			zap.Float64("confidence", inst.Confidence),
		)

		// Leaves the instrument online through the shared driver cache
		if req.AutoConnect {
			if err := ds.instrumentService.ConnectInstrument(ctx, instrumentID); err != nil {
				ds.logger.Warn("Auto-connect failed after registration",
					zap.String("instrument_id", instrumentID),
					zap.Error(err),
				)
			} else {
				setupResult.Connected = true
			}
		}

		result.SetupInstruments = append(result.SetupInstruments, setupResult)
	}

	ds.logger.Info("Auto-setup process completed",
		zap.Int("total_scanned", result.TotalScanned),
		zap.Int("successfully_setup", result.SuccessfullySetup),
		zap.Int("failed", result.Failed),
	)

	return result, nil
}

// shouldSetupInstrument checks the discovered instrument against the filter.
// Without an explicit min_confidence the cutoff is 0.7 so low confidence
// generic matches never register themselves.
func (ds *DiscoveryService) shouldSetupInstrument(inst *DiscoveredInstrument, filter map[string]string) bool {
	minConfidence := 0.7

	if filter != nil {
		if brandFilter, exists := filter["brand"]; exists {
			if string(inst.Brand) != brandFilter {
				return false
			}
		}

		if typeFilter, exists := filter["instrument_type"]; exists {
			if string(inst.InstrumentType) != typeFilter {
				return false
			}
		}

		if connectionFilter, exists := filter["connection_type"]; exists {
			if string(inst.ConnectionType) != connectionFilter {
				return false
			}
		}

		if confidenceFilter, exists := filter["min_confidence"]; exists {
			if parsed, err := strconv.ParseFloat(confidenceFilter, 64); err == nil {
				minConfidence = parsed
			}
		}
	}

	return inst.Confidence >= minConfidence
}

// autoInstrumentID builds a registration ID for a discovered instrument.
// Serial numbers give a stable ID so a rescan finds the existing record
// instead of registering a duplicate.
func (ds *DiscoveryService) autoInstrumentID(inst *DiscoveredInstrument, index int) string {
	if inst.SerialNumber != "" {
		return fmt.Sprintf("AUTO_%s_%s", inst.Brand, sanitizeIDComponent(inst.SerialNumber))
	}
	return fmt.Sprintf("AUTO_%s_%s_%d", inst.Brand, inst.InstrumentType, index+1)
}

// sanitizeIDComponent keeps instrument IDs to letters, digits and underscores
func sanitizeIDComponent(value string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(value) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// registrationRequest builds a registration request from a discovered instrument
func (ds *DiscoveryService) registrationRequest(inst *DiscoveredInstrument, instrumentID, userID string) *RegisterInstrumentRequest {
	var serialNumber *string
	if inst.SerialNumber != "" {
		serialNumber = &inst.SerialNumber
	}

	var location *string
	if inst.Location != "" {
		location = &inst.Location
	}

	return &RegisterInstrumentRequest{
		InstrumentID:     instrumentID,
		InstrumentType:   inst.InstrumentType,
		Brand:            inst.Brand,
		Model:            inst.Model,
		SerialNumber:     serialNumber,
		ConnectionType:   inst.ConnectionType,
		ConnectionConfig: inst.ConnectionInfo,
		Location:         location,
		UserID:           userID,
	}
}

// GetSupportedInstruments returns every brand and model the driver registry
// can create a driver for
func (ds *DiscoveryService) GetSupportedInstruments() *SupportedInstrumentsResponse {
	drivers := ds.driverRegistry.ListDrivers()

	instrumentMap := make(map[string]map[string][]string)

	for _, driverKey := range drivers {
		brandStr := string(driverKey.Brand)
		typeStr := string(driverKey.InstrumentType)

		if instrumentMap[brandStr] == nil {
			instrumentMap[brandStr] = make(map[string][]string)
		}

		if instrumentMap[brandStr][typeStr] == nil {
			instrumentMap[brandStr][typeStr] = []string{}
		}

		if driverKey.Model != "*" {
			instrumentMap[brandStr][typeStr] = append(instrumentMap[brandStr][typeStr], driverKey.Model)
		}
	}

	return &SupportedInstrumentsResponse{
		TotalBrands:  len(instrumentMap),
		Instruments:  instrumentMap,
		Capabilities: instrumenttypes.InstrumentCapabilities,
	}
}

// GetInstrumentTypeCapabilities returns the standard capabilities for an
// instrument type
func (ds *DiscoveryService) GetInstrumentTypeCapabilities(instrumentType string) ([]string, error) {
	if caps, exists := instrumenttypes.InstrumentCapabilities[instrumentType]; exists {
		return caps, nil
	}

	return nil, fmt.Errorf("instrument type not supported: %s", instrumentType)
}

// DTOs for Discovery Service

// ScanRequest represents an instrument scan request
type ScanRequest struct {
	ScanType string `json:"scan_type"` // all, usb, serial
	Timeout  string `json:"timeout"`
}

// DiscoveredInstrument represents a discovered instrument
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

// AutoSetupRequest represents an auto-setup request
type AutoSetupRequest struct {
	InstrumentFilter map[string]string `json:"instrument_filter,omitempty"`
	AutoConnect      bool              `json:"auto_connect"`
	UserID           string            `json:"user_id,omitempty"`
}

// AutoSetupResult represents an auto-setup result
type AutoSetupResult struct {
	TotalScanned      int                      `json:"total_scanned"`
	SuccessfullySetup int                      `json:"successfully_setup"`
	Failed            int                      `json:"failed"`
	SetupInstruments  []*SetupInstrumentResult `json:"setup_instruments"`
	Errors            []string                 `json:"errors,omitempty"`
}

// SetupInstrumentResult represents an individual instrument setup result
type SetupInstrumentResult struct {
	InstrumentID   string                `json:"instrument_id"`
	ConnectionType model.ConnectionType  `json:"connection_type"`
	Brand          model.InstrumentBrand `json:"brand"`
	Model          string                `json:"model"`
	Status         string                `json:"status"` // SUCCESS, FAILED, ALREADY_EXISTS
	Connected      bool                  `json:"connected"`
	Error          string                `json:"error,omitempty"`
}

// SupportedInstrumentsResponse represents the supported instruments response
type SupportedInstrumentsResponse struct {
	TotalBrands  int                            `json:"total_brands"`
	Instruments  map[string]map[string][]string `json:"instruments"`
	Capabilities map[string][]string            `json:"capabilities"`
}
