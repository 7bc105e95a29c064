// internal/service/instrument_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scope-service/internal/config"
	internalDriver "scope-service/internal/driver"
	"scope-service/internal/model"
	"scope-service/internal/repository"
	"scope-service/internal/utils"
	"scope-service/pkg/instrument"
)

// InstrumentService handles instrument management business logic
type InstrumentService struct {
	instrumentRepo repository.InstrumentRepository
	operationRepo  repository.OperationRepository
	driverManager  *DriverManager
	driverRegistry *internalDriver.Registry
	config         *config.Config
	logger         *utils.ServiceLogger
	auditLogger    *utils.AuditLogger
}

// NewInstrumentService creates a new instrument service instance
func NewInstrumentService(
	instrumentRepo repository.InstrumentRepository,
	operationRepo repository.OperationRepository,
	driverManager *DriverManager,
	driverRegistry *internalDriver.Registry,
	config *config.Config,
	logger *zap.Logger,
) *InstrumentService {
	return &InstrumentService{
		instrumentRepo: instrumentRepo,
		operationRepo:  operationRepo,
		driverManager:  driverManager,
		driverRegistry: driverRegistry,
		config:         config,
		logger:         utils.NewServiceLogger(logger, "instrument-service"),
		auditLogger:    utils.NewAuditLogger(logger),
	}
}

// RegisterInstrument registers a new instrument in the system
func (is *InstrumentService) RegisterInstrument(ctx context.Context, req *RegisterInstrumentRequest) (*model.Instrument, error) {
	// Validate request
	if err := is.validateRegisterRequest(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Check if instrument already exists
	existing, err := is.instrumentRepo.GetByInstrumentID(ctx, req.InstrumentID)
	if err == nil && existing != nil {
		return nil, fmt.Errorf("instrument with ID %s already exists", req.InstrumentID)
	}

	// Verify driver support
	if !is.driverRegistry.IsSupported(req.Brand, req.InstrumentType, req.Model) {
		return nil, fmt.Errorf("unsupported instrument: %s %s %s", req.Brand, req.InstrumentType, req.Model)
	}

	// Create instrument model
	inst := &model.Instrument{
		ID:               uuid.New(),
		InstrumentID:     req.InstrumentID,
		InstrumentType:   req.InstrumentType,
		Brand:            req.Brand,
		Model:            req.Model,
		SerialNumber:     req.SerialNumber,
		FirmwareVersion:  req.FirmwareVersion,
		ConnectionType:   req.ConnectionType,
		ConnectionConfig: model.JSONObject(req.ConnectionConfig),
		Capabilities:     is.getInstrumentCapabilities(req.InstrumentType, req.Brand, req.Model),
		Location:         req.Location,
		Status:           model.InstrumentStatusOffline,
		ErrorInfo:        model.JSONObject{},
		PerformanceMetrics: model.JSONObject{
			"total_operations": 0,
			"success_rate":     0.0,
			"error_count":      0,
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	// Save to database
	if err := is.instrumentRepo.Create(ctx, inst); err != nil {
		is.logger.Error("Failed to create instrument", zap.Error(err))
		return nil, fmt.Errorf("failed to create instrument: %w", err)
	}

	// Audit log
	is.auditLogger.LogInstrumentRegistration(
		inst.InstrumentID,
		string(inst.InstrumentType),
		string(inst.Brand),
		req.UserID,
		true,
	)

	is.logger.Info("Instrument registered successfully",
		zap.String("instrument_id", inst.InstrumentID),
		zap.String("instrument_type", string(inst.InstrumentType)),
		zap.String("brand", string(inst.Brand)),
	)

	return inst, nil
}

// ConnectInstrument attempts to connect to an instrument
func (is *InstrumentService) ConnectInstrument(ctx context.Context, instrumentID string) error {
	// Get instrument from database
	inst, err := is.instrumentRepo.GetByInstrumentID(ctx, instrumentID)
	if err != nil {
		return fmt.Errorf("instrument not found: %w", err)
	}

	// Create instrument logger
	instrumentLogger := utils.NewInstrumentLogger(is.logger.Logger, inst.InstrumentID, string(inst.InstrumentType), string(inst.Brand))

	// Update status to connecting
	inst.Status = model.InstrumentStatusConnecting
	if err := is.instrumentRepo.UpdateStatus(ctx, inst.ID, inst.Status); err != nil {
		instrumentLogger.Error("Failed to update instrument status", zap.Error(err))
	}

	// Get or create the driver
	driverInstance, err := is.driverManager.Acquire(inst)
	if err != nil {
		instrumentLogger.LogConnection("create_driver", false, err)
		is.updateInstrumentError(ctx, inst, err)
		return fmt.Errorf("failed to create driver: %w", err)
	}

	// Attempt connection
	connectCtx, cancel := context.WithTimeout(ctx, is.config.Instrument.OperationTimeout)
	defer cancel()

	if err := driverInstance.Connect(connectCtx); err != nil {
		instrumentLogger.LogConnection("connect", false, err)
		is.updateInstrumentError(ctx, inst, err)
		return fmt.Errorf("failed to connect to instrument: %w", err)
	}

	// Update instrument status
	inst.Status = model.InstrumentStatusOnline
	inst.LastPing = &[]time.Time{time.Now()}[0]
	inst.ErrorInfo = model.JSONObject{}

	if err := is.instrumentRepo.Update(ctx, inst); err != nil {
		instrumentLogger.Error("Failed to update instrument after connection", zap.Error(err))
	}

	instrumentLogger.LogConnection("connect", true, nil)

	// Start health monitoring
	go is.startHealthMonitoring(inst, driverInstance)

	return nil
}

// DisconnectInstrument disconnects an instrument
func (is *InstrumentService) DisconnectInstrument(ctx context.Context, instrumentID string) error {
	inst, err := is.instrumentRepo.GetByInstrumentID(ctx, instrumentID)
	if err != nil {
		return fmt.Errorf("instrument not found: %w", err)
	}

	instrumentLogger := utils.NewInstrumentLogger(is.logger.Logger, inst.InstrumentID, string(inst.InstrumentType), string(inst.Brand))

	// Release the cached driver
	if err := is.driverManager.Release(ctx, instrumentID); err != nil {
		instrumentLogger.Warn("Driver release failed", zap.Error(err))
	}

	// Update status
	inst.Status = model.InstrumentStatusOffline
	if err := is.instrumentRepo.UpdateStatus(ctx, inst.ID, inst.Status); err != nil {
		instrumentLogger.Error("Failed to update instrument status", zap.Error(err))
	}

	instrumentLogger.LogConnection("disconnect", true, nil)
	return nil
}

// GetInstrument retrieves instrument information
func (is *InstrumentService) GetInstrument(ctx context.Context, instrumentID string) (*model.Instrument, error) {
	inst, err := is.instrumentRepo.GetByInstrumentID(ctx, instrumentID)
	if err != nil {
		return nil, fmt.Errorf("instrument not found: %w", err)
	}
	return inst, nil
}

// ListInstruments retrieves instruments with filtering
func (is *InstrumentService) ListInstruments(ctx context.Context, filter *InstrumentFilter) ([]*model.Instrument, *PaginationResult, error) {
	instruments, total, err := is.instrumentRepo.List(ctx, filter.toRepoFilter())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list instruments: %w", err)
	}

	pagination := &PaginationResult{
		Total:      total,
		Page:       filter.Page,
		PerPage:    filter.PerPage,
		TotalPages: (total + filter.PerPage - 1) / filter.PerPage,
	}

	return instruments, pagination, nil
}

// UpdateInstrument updates instrument metadata fields
func (is *InstrumentService) UpdateInstrument(ctx context.Context, instrumentID string, req *UpdateInstrumentRequest) (*model.Instrument, error) {
	inst, err := is.instrumentRepo.GetByInstrumentID(ctx, instrumentID)
	if err != nil {
		return nil, fmt.Errorf("instrument not found: %w", err)
	}

	if req.Location != nil {
		inst.Location = req.Location
	}
	if req.FirmwareVersion != nil {
		inst.FirmwareVersion = req.FirmwareVersion
	}
	if req.SerialNumber != nil {
		inst.SerialNumber = req.SerialNumber
	}
	inst.UpdatedAt = time.Now()

	if err := is.instrumentRepo.Update(ctx, inst); err != nil {
		return nil, fmt.Errorf("failed to update instrument: %w", err)
	}

	is.logger.Info("Instrument updated",
		zap.String("instrument_id", instrumentID),
		zap.String("user_id", req.UserID),
	)

	return inst, nil
}

// UpdateInstrumentConfiguration updates instrument connection configuration
func (is *InstrumentService) UpdateInstrumentConfiguration(ctx context.Context, instrumentID string, config map[string]interface{}, userID string) error {
	inst, err := is.instrumentRepo.GetByInstrumentID(ctx, instrumentID)
	if err != nil {
		return fmt.Errorf("instrument not found: %w", err)
	}

	// A cached driver holds the old transport settings
	if _, connected := is.driverManager.Get(instrumentID); connected {
		return fmt.Errorf("cannot reconfigure connected instrument, disconnect first")
	}

	oldConfig := inst.ConnectionConfig
	inst.ConnectionConfig = model.JSONObject(config)
	inst.UpdatedAt = time.Now()

	if err := is.instrumentRepo.Update(ctx, inst); err != nil {
		return fmt.Errorf("failed to update instrument configuration: %w", err)
	}

	// Audit log
	is.auditLogger.LogInstrumentConfiguration(instrumentID, userID, oldConfig, config)

	is.logger.Info("Instrument configuration updated",
		zap.String("instrument_id", instrumentID),
		zap.String("user_id", userID),
	)

	return nil
}

// DeleteInstrument removes an instrument from the system
func (is *InstrumentService) DeleteInstrument(ctx context.Context, instrumentID string, userID string) error {
	inst, err := is.instrumentRepo.GetByInstrumentID(ctx, instrumentID)
	if err != nil {
		return fmt.Errorf("instrument not found: %w", err)
	}

	// Check if instrument is connected
	if inst.Status == model.InstrumentStatusOnline || inst.Status == model.InstrumentStatusStreaming {
		return fmt.Errorf("cannot delete connected instrument, disconnect first")
	}

	if err := is.instrumentRepo.Delete(ctx, inst.ID); err != nil {
		return fmt.Errorf("failed to delete instrument: %w", err)
	}

	is.logger.Info("Instrument deleted",
		zap.String("instrument_id", instrumentID),
		zap.String("user_id", userID),
	)

	return nil
}

// GetInstrumentHealth retrieves instrument health metrics
func (is *InstrumentService) GetInstrumentHealth(ctx context.Context, instrumentID string) (*InstrumentHealthInfo, error) {
	inst, err := is.instrumentRepo.GetByInstrumentID(ctx, instrumentID)
	if err != nil {
		return nil, fmt.Errorf("instrument not found: %w", err)
	}

	// Prefer live metrics from the connected driver
	if driverInstance, exists := is.driverManager.Get(instrumentID); exists {
		if metrics, err := driverInstance.GetHealthMetrics(); err == nil {
			responseTimeMs := int(metrics.ResponseTime.Milliseconds())
			errorRate := 1.0 - metrics.SuccessRate
			return &InstrumentHealthInfo{
				InstrumentID: instrumentID,
				HealthScore:  metrics.HealthScore,
				Status:       string(inst.Status),
				LastCheck:    inst.LastPing,
				ResponseTime: &responseTimeMs,
				ErrorRate:    &errorRate,
				Uptime:       &metrics.UptimePercent,
				Live:         true,
			}, nil
		}
	}

	// Fall back to the latest persisted health log
	healthLogs, err := is.instrumentRepo.GetHealthLogs(ctx, inst.ID, 1)
	if err != nil || len(healthLogs) == 0 {
		return &InstrumentHealthInfo{
			InstrumentID: instrumentID,
			HealthScore:  0,
			Status:       string(inst.Status),
			LastCheck:    inst.LastPing,
		}, nil
	}

	latestHealth := healthLogs[0]
	return &InstrumentHealthInfo{
		InstrumentID: instrumentID,
		HealthScore:  latestHealth.HealthScore,
		Status:       string(inst.Status),
		LastCheck:    inst.LastPing,
		ResponseTime: latestHealth.ResponseTime,
		ErrorRate:    latestHealth.ErrorRate,
		Uptime:       latestHealth.Uptime,
	}, nil
}

// GetInstrumentStats returns aggregate counts over the registry
func (is *InstrumentService) GetInstrumentStats(ctx context.Context) (*repository.InstrumentStats, error) {
	stats, err := is.instrumentRepo.GetInstrumentStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get instrument stats: %w", err)
	}
	return stats, nil
}

// TestInstrument performs an instrument connectivity test
func (is *InstrumentService) TestInstrument(ctx context.Context, instrumentID string) (*TestResult, error) {
	inst, err := is.instrumentRepo.GetByInstrumentID(ctx, instrumentID)
	if err != nil {
		return nil, fmt.Errorf("instrument not found: %w", err)
	}

	instrumentLogger := utils.NewInstrumentLogger(is.logger.Logger, inst.InstrumentID, string(inst.InstrumentType), string(inst.Brand))

	startTime := time.Now()

	// A connected instrument is tested through its live driver
	if driverInstance, exists := is.driverManager.Get(instrumentID); exists {
		testCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		if err := driverInstance.Ping(testCtx); err != nil {
			instrumentLogger.LogConnection("test", false, err)
			return &TestResult{
				Success:      false,
				ErrorMessage: err.Error(),
				Duration:     time.Since(startTime).String(),
			}, nil
		}

		info, err := driverInstance.GetInstrumentInfo()
		if err != nil {
			instrumentLogger.Warn("Failed to get instrument info during test", zap.Error(err))
		}

		instrumentLogger.LogConnection("test", true, nil)
		return &TestResult{
			Success:        true,
			Duration:       time.Since(startTime).String(),
			InstrumentInfo: info,
		}, nil
	}

	// Otherwise probe with a throwaway driver
	driverInstance, err := is.driverRegistry.CreateDriver(inst, inst.ConnectionConfig)
	if err != nil {
		return &TestResult{
			Success:      false,
			ErrorMessage: err.Error(),
			Duration:     time.Since(startTime).String(),
		}, nil
	}
	defer driverInstance.Close()

	testCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := driverInstance.Connect(testCtx); err != nil {
		instrumentLogger.LogConnection("test", false, err)
		return &TestResult{
			Success:      false,
			ErrorMessage: err.Error(),
			Duration:     time.Since(startTime).String(),
		}, nil
	}
	defer driverInstance.Disconnect(testCtx)

	if err := driverInstance.Ping(testCtx); err != nil {
		return &TestResult{
			Success:      false,
			ErrorMessage: err.Error(),
			Duration:     time.Since(startTime).String(),
		}, nil
	}

	info, err := driverInstance.GetInstrumentInfo()
	if err != nil {
		instrumentLogger.Warn("Failed to get instrument info during test", zap.Error(err))
	}

	instrumentLogger.LogConnection("test", true, nil)

	return &TestResult{
		Success:        true,
		Duration:       time.Since(startTime).String(),
		InstrumentInfo: info,
	}, nil
}

// Helper methods

// validateRegisterRequest validates instrument registration request
func (is *InstrumentService) validateRegisterRequest(req *RegisterInstrumentRequest) error {
	if req.InstrumentID == "" {
		return fmt.Errorf("instrument_id is required")
	}
	if req.InstrumentType == "" {
		return fmt.Errorf("instrument_type is required")
	}
	if req.Brand == "" {
		return fmt.Errorf("brand is required")
	}
	if req.Model == "" {
		return fmt.Errorf("model is required")
	}
	if req.ConnectionType == "" {
		return fmt.Errorf("connection_type is required")
	}
	if req.ConnectionConfig == nil {
		return fmt.Errorf("connection_config is required")
	}
	return nil
}

// getInstrumentCapabilities returns capabilities for instrument type, brand and model
func (is *InstrumentService) getInstrumentCapabilities(instrumentType model.InstrumentType, brand model.InstrumentBrand, instrumentModel string) model.JSONArray {
	capabilities := []interface{}{}

	switch instrumentType {
	case model.InstrumentTypeOscilloscope:
		capabilities = append(capabilities,
			string(model.CapabilityCapture),
			string(model.CapabilityStream),
			string(model.CapabilityTrigger),
			string(model.CapabilityDualChan),
			string(model.CapabilityStatus),
		)
		if brand == model.BrandHantek {
			capabilities = append(capabilities,
				string(model.CapabilityMultimeter),
				string(model.CapabilityScreen),
			)
			if strings.HasPrefix(instrumentModel, "2D") {
				capabilities = append(capabilities, string(model.CapabilityGenerator))
			}
		}
	case model.InstrumentTypeMultimeter:
		capabilities = append(capabilities,
			string(model.CapabilityMultimeter),
			string(model.CapabilityStatus),
		)
	case model.InstrumentTypeGenerator:
		capabilities = append(capabilities,
			string(model.CapabilityGenerator),
			string(model.CapabilityStatus),
		)
	case model.InstrumentTypeLogicAnalyzer:
		capabilities = append(capabilities,
			string(model.CapabilityCapture),
			string(model.CapabilityStream),
			string(model.CapabilityStatus),
		)
	}

	return model.JSONArray(capabilities)
}

// updateInstrumentError updates instrument with error information
func (is *InstrumentService) updateInstrumentError(ctx context.Context, inst *model.Instrument, err error) {
	inst.Status = model.InstrumentStatusError
	inst.ErrorInfo = model.JSONObject{
		"last_error":     err.Error(),
		"error_time":     time.Now(),
		"error_count":    1,
		"critical_error": true,
	}

	if updateErr := is.instrumentRepo.Update(ctx, inst); updateErr != nil {
		is.logger.Error("Failed to update instrument error", zap.Error(updateErr))
	}
}

// startHealthMonitoring persists periodic health snapshots for a
// connected instrument. The loop exits when the driver disconnects.
func (is *InstrumentService) startHealthMonitoring(inst *model.Instrument, driverInstance instrument.InstrumentDriver) {
	instrumentLogger := utils.NewInstrumentLogger(is.logger.Logger, inst.InstrumentID, string(inst.InstrumentType), string(inst.Brand))

	ticker := time.NewTicker(is.config.Instrument.HealthCheckInterval)
	defer ticker.Stop()

	for range ticker.C {
		if !driverInstance.IsConnected() {
			instrumentLogger.Info("Health monitoring stopped, instrument disconnected")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

		startTime := time.Now()
		err := driverInstance.Ping(ctx)
		responseTime := time.Since(startTime)

		if err != nil {
			instrumentLogger.Warn("Instrument ping failed", zap.Error(err))
			cancel()
			continue
		}

		if err := is.instrumentRepo.UpdateLastPing(ctx, inst.ID, time.Now()); err != nil {
			instrumentLogger.Error("Failed to update last ping", zap.Error(err))
		}

		metrics, err := driverInstance.GetHealthMetrics()
		if err != nil {
			instrumentLogger.Warn("Failed to read health metrics", zap.Error(err))
			cancel()
			continue
		}

		errorRate := 1.0 - metrics.SuccessRate
		responseTimeMs := int(responseTime.Milliseconds())
		health := &model.InstrumentHealth{
			InstrumentID: inst.ID,
			HealthScore:  metrics.HealthScore,
			ResponseTime: &responseTimeMs,
			ErrorRate:    &errorRate,
			Uptime:       &metrics.UptimePercent,
			RecordedAt:   time.Now(),
		}

		if err := is.instrumentRepo.CreateHealthLog(ctx, health); err != nil {
			instrumentLogger.Error("Failed to persist health log", zap.Error(err))
		}

		instrumentLogger.LogHealth(metrics.HealthScore, responseTime, errorRate)
		cancel()
	}
}

// Data Transfer Objects

// RegisterInstrumentRequest represents instrument registration request
type RegisterInstrumentRequest struct {
	InstrumentID     string                 `json:"instrument_id"`
	InstrumentType   model.InstrumentType   `json:"instrument_type"`
	Brand            model.InstrumentBrand  `json:"brand"`
	Model            string                 `json:"model"`
	SerialNumber     *string                `json:"serial_number,omitempty"`
	FirmwareVersion  *string                `json:"firmware_version,omitempty"`
	ConnectionType   model.ConnectionType   `json:"connection_type"`
	ConnectionConfig map[string]interface{} `json:"connection_config"`
	Location         *string                `json:"location,omitempty"`
	UserID           string                 `json:"user_id"`
}

// UpdateInstrumentRequest represents an instrument metadata update
type UpdateInstrumentRequest struct {
	Location        *string `json:"location,omitempty"`
	FirmwareVersion *string `json:"firmware_version,omitempty"`
	SerialNumber    *string `json:"serial_number,omitempty"`
	UserID          string  `json:"-"`
}

// InstrumentFilter represents instrument listing filters
type InstrumentFilter struct {
	InstrumentType *model.InstrumentType   `json:"instrument_type,omitempty"`
	Brand          *model.InstrumentBrand  `json:"brand,omitempty"`
	Status         *model.InstrumentStatus `json:"status,omitempty"`
	ConnectionType *model.ConnectionType   `json:"connection_type,omitempty"`
	Location       *string                 `json:"location,omitempty"`
	SearchTerm     *string                 `json:"search,omitempty"`
	Page           int                     `json:"page"`
	PerPage        int                     `json:"per_page"`
	SortBy         string                  `json:"sort_by"`
	SortOrder      string                  `json:"sort_order"`
}

// toRepoFilter converts to repository filter
func (f *InstrumentFilter) toRepoFilter() *repository.InstrumentFilter {
	return &repository.InstrumentFilter{
		InstrumentType: f.InstrumentType,
		Brand:          f.Brand,
		Status:         f.Status,
		ConnectionType: f.ConnectionType,
		Location:       f.Location,
		SearchTerm:     f.SearchTerm,
		Page:           f.Page,
		PerPage:        f.PerPage,
		SortBy:         f.SortBy,
		SortOrder:      f.SortOrder,
	}
}

// PaginationResult represents pagination information
type PaginationResult struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
}

// InstrumentHealthInfo represents instrument health information
type InstrumentHealthInfo struct {
	InstrumentID string     `json:"instrument_id"`
	HealthScore  int        `json:"health_score"`
	Status       string     `json:"status"`
	LastCheck    *time.Time `json:"last_check,omitempty"`
	ResponseTime *int       `json:"response_time,omitempty"`
	ErrorRate    *float64   `json:"error_rate,omitempty"`
	Uptime       *float64   `json:"uptime,omitempty"`
	Live         bool       `json:"live"`
}

// TestResult represents instrument test result
type TestResult struct {
	Success        bool                       `json:"success"`
	Duration       string                     `json:"duration"`
	ErrorMessage   string                     `json:"error_message,omitempty"`
	InstrumentInfo *instrument.InstrumentInfo `json:"instrument_info,omitempty"`
}
