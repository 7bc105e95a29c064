// internal/service/operation_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scope-service/internal/config"
	"scope-service/internal/model"
	"scope-service/internal/repository"
	"scope-service/internal/utils"
)

// OperationService handles instrument operation business logic
type OperationService struct {
	operationRepo  repository.OperationRepository
	instrumentRepo repository.InstrumentRepository
	driverManager  *DriverManager
	config         *config.Config
	logger         *utils.ServiceLogger
	auditLogger    *utils.AuditLogger
}

// NewOperationService creates a new operation service instance
func NewOperationService(
	operationRepo repository.OperationRepository,
	instrumentRepo repository.InstrumentRepository,
	driverManager *DriverManager,
	config *config.Config,
	logger *zap.Logger,
) *OperationService {
	return &OperationService{
		operationRepo:  operationRepo,
		instrumentRepo: instrumentRepo,
		driverManager:  driverManager,
		config:         config,
		logger:         utils.NewServiceLogger(logger, "operation-service"),
		auditLogger:    utils.NewAuditLogger(logger),
	}
}

// ExecuteOperation executes an operation on an instrument
func (os *OperationService) ExecuteOperation(ctx context.Context, req *OperationRequest) (*OperationResponse, error) {
	priority := req.Priority
	if priority == 0 {
		priority = model.PriorityNormal
	}

	// Create operation record
	operation := &model.InstrumentOperation{
		ID:            uuid.New(),
		InstrumentID:  req.InstrumentID,
		OperationType: req.OperationType,
		OperationData: model.JSONObject(req.Data),
		Priority:      priority,
		Status:        model.OperationStatusPending,
		StartedAt:     time.Now(),
		CorrelationID: req.CorrelationID,
		CreatedAt:     time.Now(),
	}

	// Save operation to database
	if err := os.operationRepo.Create(ctx, operation); err != nil {
		return nil, fmt.Errorf("failed to create operation: %w", err)
	}

	// Create operation logger
	opLogger := utils.NewOperationLogger(os.logger.Logger, string(req.OperationType), operation.ID.String())
	opLogger.Start(zap.String("instrument_id", req.InstrumentID.String()))

	// Get instrument
	inst, err := os.instrumentRepo.GetByID(ctx, req.InstrumentID)
	if err != nil {
		os.updateOperationError(ctx, operation, err)
		opLogger.Error(err)
		return nil, fmt.Errorf("instrument not found: %w", err)
	}

	// Check if instrument is connected
	if inst.Status != model.InstrumentStatusOnline && inst.Status != model.InstrumentStatusStreaming {
		err := fmt.Errorf("instrument is not online: %s", inst.Status)
		os.updateOperationError(ctx, operation, err)
		opLogger.Error(err)
		return nil, err
	}

	// Operations go through the live driver, not a fresh one
	driverInstance, exists := os.driverManager.Get(inst.InstrumentID)
	if !exists {
		err := fmt.Errorf("instrument has no active connection: %s", inst.InstrumentID)
		os.updateOperationError(ctx, operation, err)
		opLogger.Error(err)
		return nil, err
	}

	// Update operation status to processing
	operation.Status = model.OperationStatusProcessing
	if err := os.operationRepo.UpdateStatus(ctx, operation.ID, operation.Status); err != nil {
		os.logger.Error("Failed to update operation status", zap.Error(err))
	}

	// Execute operation with timeout
	timeout := os.getOperationTimeout(req.OperationType)
	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := driverInstance.ExecuteOperation(execCtx, operation)
	if err != nil {
		if execCtx.Err() == context.DeadlineExceeded {
			os.updateOperationTimeout(ctx, operation, err)
		} else {
			os.updateOperationError(ctx, operation, err)
		}
		opLogger.Error(err)
		return nil, fmt.Errorf("operation execution failed: %w", err)
	}

	// Update operation as completed
	completedAt := time.Now()
	durationMs := int(completedAt.Sub(operation.StartedAt).Milliseconds())
	operation.Status = model.OperationStatusSuccess
	operation.CompletedAt = &completedAt
	operation.DurationMs = &durationMs
	operation.Result = model.JSONObject(result.Data)

	if err := os.operationRepo.Update(ctx, operation); err != nil {
		os.logger.Error("Failed to update operation", zap.Error(err))
	}

	opLogger.Success(
		zap.String("duration", result.Duration),
		zap.Any("result", result.Data),
	)

	return &OperationResponse{
		OperationID: operation.ID,
		Success:     true,
		Result:      result.Data,
		Duration:    result.Duration,
	}, nil
}

// QueueOperation stores an operation for later execution. Used when
// the instrument is busy or a client wants fire-and-forget semantics.
func (os *OperationService) QueueOperation(ctx context.Context, req *OperationRequest) (*model.InstrumentOperation, error) {
	priority := req.Priority
	if priority == 0 {
		priority = model.PriorityNormal
	}

	operation := &model.InstrumentOperation{
		ID:            uuid.New(),
		InstrumentID:  req.InstrumentID,
		OperationType: req.OperationType,
		OperationData: model.JSONObject(req.Data),
		Priority:      priority,
		Status:        model.OperationStatusPending,
		StartedAt:     time.Now(),
		CorrelationID: req.CorrelationID,
		CreatedAt:     time.Now(),
	}

	if err := os.operationRepo.Create(ctx, operation); err != nil {
		return nil, fmt.Errorf("failed to queue operation: %w", err)
	}

	os.logger.Info("Operation queued",
		zap.String("operation_id", operation.ID.String()),
		zap.String("operation_type", string(operation.OperationType)),
		zap.Int("priority", int(operation.Priority)),
	)

	return operation, nil
}

// ProcessPendingOperations drains the pending queue for instruments
// that have a live driver. Called periodically from the background
// worker.
func (os *OperationService) ProcessPendingOperations(ctx context.Context, limit int) int {
	operations, err := os.operationRepo.ListPending(ctx, limit)
	if err != nil {
		os.logger.Error("Failed to list pending operations", zap.Error(err))
		return 0
	}

	processed := 0
	for _, operation := range operations {
		inst, err := os.instrumentRepo.GetByID(ctx, operation.InstrumentID)
		if err != nil {
			os.updateOperationError(ctx, operation, err)
			continue
		}

		driverInstance, exists := os.driverManager.Get(inst.InstrumentID)
		if !exists {
			// Stays queued until the instrument comes back
			continue
		}

		opLogger := utils.NewOperationLogger(os.logger.Logger, string(operation.OperationType), operation.ID.String())
		opLogger.Start(zap.String("instrument_id", inst.InstrumentID))

		operation.Status = model.OperationStatusProcessing
		if err := os.operationRepo.UpdateStatus(ctx, operation.ID, operation.Status); err != nil {
			os.logger.Error("Failed to update operation status", zap.Error(err))
		}

		execCtx, cancel := context.WithTimeout(ctx, os.getOperationTimeout(operation.OperationType))
		result, err := driverInstance.ExecuteOperation(execCtx, operation)
		cancel()

		if err != nil {
			operation.RetryCount++
			if operation.RetryCount >= os.config.Instrument.MaxRetryAttempts {
				os.updateOperationError(ctx, operation, err)
			} else {
				// Back to the queue for another attempt
				operation.Status = model.OperationStatusPending
				if updateErr := os.operationRepo.Update(ctx, operation); updateErr != nil {
					os.logger.Error("Failed to requeue operation", zap.Error(updateErr))
				}
			}
			opLogger.Error(err, zap.Int("retry_count", operation.RetryCount))
			continue
		}

		completedAt := time.Now()
		durationMs := int(completedAt.Sub(operation.StartedAt).Milliseconds())
		operation.Status = model.OperationStatusSuccess
		operation.CompletedAt = &completedAt
		operation.DurationMs = &durationMs
		operation.Result = model.JSONObject(result.Data)

		if err := os.operationRepo.Update(ctx, operation); err != nil {
			os.logger.Error("Failed to update operation", zap.Error(err))
		}

		opLogger.Success(zap.String("duration", result.Duration))
		processed++
	}

	return processed
}

// GetOperation retrieves operation details
func (os *OperationService) GetOperation(ctx context.Context, operationID uuid.UUID) (*model.InstrumentOperation, error) {
	operation, err := os.operationRepo.GetByID(ctx, operationID)
	if err != nil {
		return nil, fmt.Errorf("operation not found: %w", err)
	}
	return operation, nil
}

// ListOperations lists operations with filtering
func (os *OperationService) ListOperations(ctx context.Context, filter *OperationFilter) ([]*model.InstrumentOperation, *PaginationResult, error) {
	operations, total, err := os.operationRepo.List(ctx, filter.toRepoFilter())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list operations: %w", err)
	}

	pagination := &PaginationResult{
		Total:      total,
		Page:       filter.Page,
		PerPage:    filter.PerPage,
		TotalPages: (total + filter.PerPage - 1) / filter.PerPage,
	}

	return operations, pagination, nil
}

// CancelOperation cancels a pending operation
func (os *OperationService) CancelOperation(ctx context.Context, operationID uuid.UUID, reason string) error {
	operation, err := os.operationRepo.GetByID(ctx, operationID)
	if err != nil {
		return fmt.Errorf("operation not found: %w", err)
	}

	if operation.Status != model.OperationStatusPending && operation.Status != model.OperationStatusProcessing {
		return fmt.Errorf("cannot cancel operation in status: %s", operation.Status)
	}

	completedAt := time.Now()
	operation.Status = model.OperationStatusCancelled
	operation.CompletedAt = &completedAt
	operation.ErrorMessage = &reason

	if err := os.operationRepo.Update(ctx, operation); err != nil {
		return fmt.Errorf("failed to cancel operation: %w", err)
	}

	os.logger.Info("Operation cancelled",
		zap.String("operation_id", operationID.String()),
		zap.String("reason", reason),
	)

	return nil
}

// GetOperationStats returns aggregate operation statistics
func (os *OperationService) GetOperationStats(ctx context.Context, filter *OperationStatsFilter) (*repository.OperationStats, error) {
	stats, err := os.operationRepo.GetOperationStats(ctx, filter.toRepoFilter())
	if err != nil {
		return nil, fmt.Errorf("failed to get operation stats: %w", err)
	}
	return stats, nil
}

// GetInstrumentOperationSummary returns a per-instrument usage summary
func (os *OperationService) GetInstrumentOperationSummary(ctx context.Context, instrumentID uuid.UUID, period string) (*repository.OperationSummary, error) {
	summary, err := os.operationRepo.GetInstrumentOperationSummary(ctx, instrumentID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to get operation summary: %w", err)
	}
	return summary, nil
}

// Helper methods

// updateOperationError updates operation with error
func (os *OperationService) updateOperationError(ctx context.Context, operation *model.InstrumentOperation, err error) {
	completedAt := time.Now()
	operation.Status = model.OperationStatusFailed
	operation.CompletedAt = &completedAt
	errorMsg := err.Error()
	operation.ErrorMessage = &errorMsg

	if updateErr := os.operationRepo.Update(ctx, operation); updateErr != nil {
		os.logger.Error("Failed to update operation error", zap.Error(updateErr))
	}
}

// updateOperationTimeout marks an operation that hit its deadline
func (os *OperationService) updateOperationTimeout(ctx context.Context, operation *model.InstrumentOperation, err error) {
	completedAt := time.Now()
	operation.Status = model.OperationStatusTimeout
	operation.CompletedAt = &completedAt
	errorMsg := err.Error()
	operation.ErrorMessage = &errorMsg

	if updateErr := os.operationRepo.Update(ctx, operation); updateErr != nil {
		os.logger.Error("Failed to update operation timeout", zap.Error(updateErr))
	}
}

// getOperationTimeout returns timeout for operation type
func (os *OperationService) getOperationTimeout(operationType model.OperationType) time.Duration {
	switch operationType {
	case model.OperationTypeStreamStart:
		// Bounded streams deliver many frames before returning
		return 2 * time.Minute
	case model.OperationTypeCapture:
		return 30 * time.Second
	case model.OperationTypeReadMeter:
		return 15 * time.Second
	default:
		return os.config.Instrument.OperationTimeout
	}
}

// DTOs for Operation Service

// OperationRequest represents operation execution request
type OperationRequest struct {
	InstrumentID  uuid.UUID               `json:"instrument_id"`
	OperationType model.OperationType     `json:"operation_type"`
	Data          map[string]interface{}  `json:"data"`
	Priority      model.OperationPriority `json:"priority"`
	CorrelationID *uuid.UUID              `json:"correlation_id,omitempty"`
}

// OperationResponse represents operation execution response
type OperationResponse struct {
	OperationID  uuid.UUID              `json:"operation_id"`
	Success      bool                   `json:"success"`
	Result       map[string]interface{} `json:"result,omitempty"`
	Duration     string                 `json:"duration"`
	ErrorMessage string                 `json:"error_message,omitempty"`
}

// OperationFilter represents operation listing filters
type OperationFilter struct {
	InstrumentID  *uuid.UUID               `json:"instrument_id,omitempty"`
	OperationType *model.OperationType     `json:"operation_type,omitempty"`
	Status        *model.OperationStatus   `json:"status,omitempty"`
	Priority      *model.OperationPriority `json:"priority,omitempty"`
	StartDate     *time.Time               `json:"start_date,omitempty"`
	EndDate       *time.Time               `json:"end_date,omitempty"`
	Page          int                      `json:"page"`
	PerPage       int                      `json:"per_page"`
	SortBy        string                   `json:"sort_by"`
	SortOrder     string                   `json:"sort_order"`
}

// toRepoFilter converts to repository filter
func (of *OperationFilter) toRepoFilter() *repository.OperationFilter {
	return &repository.OperationFilter{
		InstrumentID:  of.InstrumentID,
		OperationType: of.OperationType,
		Status:        of.Status,
		Priority:      of.Priority,
		StartDate:     of.StartDate,
		EndDate:       of.EndDate,
		Page:          of.Page,
		PerPage:       of.PerPage,
		SortBy:        of.SortBy,
		SortOrder:     of.SortOrder,
	}
}

// OperationStatsFilter narrows operation statistics queries
type OperationStatsFilter struct {
	InstrumentID *uuid.UUID `json:"instrument_id,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
}

// toRepoFilter converts to repository filter
func (f *OperationStatsFilter) toRepoFilter() *repository.OperationStatsFilter {
	return &repository.OperationStatsFilter{
		InstrumentID: f.InstrumentID,
		StartDate:    f.StartDate,
		EndDate:      f.EndDate,
	}
}
