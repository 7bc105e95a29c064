// internal/handler/operation_handler.go
package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"scope-service/internal/model"
	"scope-service/internal/service"
	"scope-service/internal/utils"
)

// OperationHandler handles operation-related HTTP requests
type OperationHandler struct {
	operationService *service.OperationService
	logger           *utils.ServiceLogger
}

// NewOperationHandler creates a new operation handler
func NewOperationHandler(operationService *service.OperationService, logger *zap.Logger) *OperationHandler {
	return &OperationHandler{
		operationService: operationService,
		logger:           utils.NewServiceLogger(logger, "operation-handler"),
	}
}

// RegisterRoutes registers operation-related routes
func (h *OperationHandler) RegisterRoutes(router *gin.RouterGroup) {
	operations := router.Group("/operations")
	{
		operations.POST("", h.ExecuteOperation)
		operations.POST("/queue", h.QueueOperation)
		operations.GET("", h.ListOperations)
		operations.GET("/stats", h.GetOperationStats)
		operations.GET("/:id", h.GetOperation)
		operations.PUT("/:id/cancel", h.CancelOperation)
	}
}

// RegisterInstrumentRoutes registers instrument-scoped operation routes.
// A separate prefix avoids a wildcard clash with the instrument routes.
func (h *OperationHandler) RegisterInstrumentRoutes(router *gin.RouterGroup) {
	instrumentOps := router.Group("/instrument-ops/:instrument_id")
	{
		instrumentOps.POST("/operations", h.ExecuteInstrumentOperation)
		instrumentOps.GET("/operations", h.ListInstrumentOperations)
		instrumentOps.GET("/summary", h.GetInstrumentOperationSummary)
		instrumentOps.POST("/status-check", h.StatusCheckOperation)
	}
}

// ExecuteOperation handles general operation execution
// @Summary Execute operation
// @Description Execute an operation against a connected instrument and record the outcome
// @Tags Operations
// @Accept json
// @Produce json
// @Param request body service.OperationRequest true "Operation request"
// @Success 200 {object} utils.APIResponse{data=service.OperationResponse} "Operation executed successfully"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 500 {object} utils.APIResponse "Operation failed"
// @Router /operations [post]
func (h *OperationHandler) ExecuteOperation(c *gin.Context) {
	var req service.OperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	response, err := h.operationService.ExecuteOperation(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("Failed to execute operation", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to execute operation", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Operation executed successfully", response)
}

// QueueOperation queues an operation for asynchronous execution
// @Summary Queue operation
// @Description Queue an operation to run when the instrument is available. The pending worker picks it up.
// @Tags Operations
// @Accept json
// @Produce json
// @Param request body service.OperationRequest true "Operation request"
// @Success 202 {object} utils.APIResponse{data=model.InstrumentOperation} "Operation queued"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 500 {object} utils.APIResponse "Queue failed"
// @Router /operations/queue [post]
func (h *OperationHandler) QueueOperation(c *gin.Context) {
	var req service.OperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	operation, err := h.operationService.QueueOperation(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("Failed to queue operation", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to queue operation", err)
		return
	}

	utils.SuccessResponse(c, http.StatusAccepted, "Operation queued", operation)
}

// ExecuteInstrumentOperation handles instrument-scoped operation execution
func (h *OperationHandler) ExecuteInstrumentOperation(c *gin.Context) {
	instrumentIDStr := c.Param("instrument_id")
	instrumentID, err := uuid.Parse(instrumentIDStr)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid instrument ID", err)
		return
	}

	var req InstrumentOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	operationReq := &service.OperationRequest{
		InstrumentID:  instrumentID,
		OperationType: req.OperationType,
		Data:          req.Data,
		Priority:      req.Priority,
	}

	if req.CorrelationID != nil {
		if correlationID, err := uuid.Parse(*req.CorrelationID); err == nil {
			operationReq.CorrelationID = &correlationID
		}
	}

	response, err := h.operationService.ExecuteOperation(c.Request.Context(), operationReq)
	if err != nil {
		h.logger.Error("Failed to execute instrument operation", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to execute operation", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Operation executed successfully", response)
}

// StatusCheckOperation runs a status check through the operation pipeline
// @Summary Status check operation
// @Description Query instrument status and record it as an operation
// @Tags Operations
// @Accept json
// @Produce json
// @Param instrument_id path string true "Instrument ID"
// @Success 200 {object} utils.APIResponse{data=service.OperationResponse} "Status check completed"
// @Failure 400 {object} utils.APIResponse "Invalid instrument ID"
// @Failure 500 {object} utils.APIResponse "Status check failed"
// @Router /instrument-ops/{instrument_id}/status-check [post]
func (h *OperationHandler) StatusCheckOperation(c *gin.Context) {
	instrumentIDStr := c.Param("instrument_id")
	instrumentID, err := uuid.Parse(instrumentIDStr)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid instrument ID", err)
		return
	}

	operationReq := &service.OperationRequest{
		InstrumentID:  instrumentID,
		OperationType: model.OperationTypeStatusCheck,
		Data:          map[string]interface{}{},
		Priority:      model.PriorityLow,
	}

	response, err := h.operationService.ExecuteOperation(c.Request.Context(), operationReq)
	if err != nil {
		h.logger.Error("Failed to execute status check", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to check status", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Status check completed", response)
}

// GetOperation retrieves operation by ID
// @Summary Get operation details
// @Description Get operation details and status by operation ID
// @Tags Operations
// @Accept json
// @Produce json
// @Param id path string true "Operation ID"
// @Success 200 {object} utils.APIResponse{data=model.InstrumentOperation} "Operation retrieved successfully"
// @Failure 400 {object} utils.APIResponse "Invalid operation ID"
// @Failure 404 {object} utils.APIResponse "Operation not found"
// @Router /operations/{id} [get]
func (h *OperationHandler) GetOperation(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid operation ID", err)
		return
	}

	operation, err := h.operationService.GetOperation(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get operation", zap.Error(err))
		utils.ErrorResponse(c, http.StatusNotFound, "Operation not found", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Operation retrieved successfully", operation)
}

// ListOperations lists operations with filtering
// @Summary List operations
// @Description Get list of operations with filtering and pagination
// @Tags Operations
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param instrument_id query string false "Filter by instrument ID"
// @Param operation_type query string false "Filter by operation type" Enums(CAPTURE, APPLY_SETTINGS, STREAM_START, STREAM_STOP, READ_METER, CONFIGURE_GENERATOR, GENERATOR_RUN, SET_SCREEN, STATUS_CHECK)
// @Param status query string false "Filter by status" Enums(PENDING, PROCESSING, SUCCESS, FAILED, TIMEOUT, CANCELLED)
// @Param start_date query string false "Start date filter (RFC3339)"
// @Param end_date query string false "End date filter (RFC3339)"
// @Success 200 {object} utils.APIResponse{data=object{operations=[]model.InstrumentOperation,pagination=service.PaginationResult}} "Operations retrieved successfully"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /operations [get]
func (h *OperationHandler) ListOperations(c *gin.Context) {
	filter := &service.OperationFilter{
		Page:      1,
		PerPage:   20,
		SortBy:    "created_at",
		SortOrder: "desc",
	}

	if page := c.Query("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil && p > 0 {
			filter.Page = p
		}
	}
	if perPage := c.Query("per_page"); perPage != "" {
		if pp, err := strconv.Atoi(perPage); err == nil && pp > 0 && pp <= 100 {
			filter.PerPage = pp
		}
	}

	if instrumentID := c.Query("instrument_id"); instrumentID != "" {
		if id, err := uuid.Parse(instrumentID); err == nil {
			filter.InstrumentID = &id
		}
	}
	if operationType := c.Query("operation_type"); operationType != "" {
		ot := model.OperationType(operationType)
		filter.OperationType = &ot
	}
	if status := c.Query("status"); status != "" {
		s := model.OperationStatus(status)
		filter.Status = &s
	}
	if startDate := c.Query("start_date"); startDate != "" {
		if date, err := time.Parse(time.RFC3339, startDate); err == nil {
			filter.StartDate = &date
		}
	}
	if endDate := c.Query("end_date"); endDate != "" {
		if date, err := time.Parse(time.RFC3339, endDate); err == nil {
			filter.EndDate = &date
		}
	}

	operations, pagination, err := h.operationService.ListOperations(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list operations", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to list operations", err)
		return
	}

	response := gin.H{
		"operations": operations,
		"pagination": pagination,
	}

	utils.SuccessResponse(c, http.StatusOK, "Operations retrieved successfully", response)
}

// ListInstrumentOperations handles instrument-scoped operation listing
func (h *OperationHandler) ListInstrumentOperations(c *gin.Context) {
	instrumentIDStr := c.Param("instrument_id")
	instrumentID, err := uuid.Parse(instrumentIDStr)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid instrument ID", err)
		return
	}

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	filter := &service.OperationFilter{
		InstrumentID: &instrumentID,
		Page:         1,
		PerPage:      limit,
		SortBy:       "created_at",
		SortOrder:    "desc",
	}

	operations, pagination, err := h.operationService.ListOperations(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list instrument operations", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to list operations", err)
		return
	}

	response := gin.H{
		"operations": operations,
		"pagination": pagination,
	}

	utils.SuccessResponse(c, http.StatusOK, "Instrument operations retrieved successfully", response)
}

// GetOperationStats retrieves operation statistics
// @Summary Get operation statistics
// @Description Get operation counts and success rates, optionally filtered by instrument and time range
// @Tags Operations
// @Accept json
// @Produce json
// @Param instrument_id query string false "Filter by instrument ID"
// @Param start_date query string false "Start date filter (RFC3339)"
// @Param end_date query string false "End date filter (RFC3339)"
// @Success 200 {object} utils.APIResponse{data=repository.OperationStats} "Statistics retrieved successfully"
// @Failure 500 {object} utils.APIResponse "Failed to get statistics"
// @Router /operations/stats [get]
func (h *OperationHandler) GetOperationStats(c *gin.Context) {
	filter := &service.OperationStatsFilter{}

	if instrumentID := c.Query("instrument_id"); instrumentID != "" {
		if id, err := uuid.Parse(instrumentID); err == nil {
			filter.InstrumentID = &id
		}
	}
	if startDate := c.Query("start_date"); startDate != "" {
		if date, err := time.Parse(time.RFC3339, startDate); err == nil {
			filter.StartDate = &date
		}
	}
	if endDate := c.Query("end_date"); endDate != "" {
		if date, err := time.Parse(time.RFC3339, endDate); err == nil {
			filter.EndDate = &date
		}
	}

	stats, err := h.operationService.GetOperationStats(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to get operation stats", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to get operation statistics", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Statistics retrieved successfully", stats)
}

// GetInstrumentOperationSummary retrieves a per-instrument usage summary
// @Summary Get instrument operation summary
// @Description Get operation counts grouped by type for one instrument over a period
// @Tags Operations
// @Accept json
// @Produce json
// @Param instrument_id path string true "Instrument ID"
// @Param period query string false "Summary period" Enums(1h, 24h, 7d, 30d) default(24h)
// @Success 200 {object} utils.APIResponse{data=repository.OperationSummary} "Summary retrieved successfully"
// @Failure 400 {object} utils.APIResponse "Invalid instrument ID"
// @Failure 500 {object} utils.APIResponse "Failed to get summary"
// @Router /instrument-ops/{instrument_id}/summary [get]
func (h *OperationHandler) GetInstrumentOperationSummary(c *gin.Context) {
	instrumentIDStr := c.Param("instrument_id")
	instrumentID, err := uuid.Parse(instrumentIDStr)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid instrument ID", err)
		return
	}

	period := c.DefaultQuery("period", "24h")

	summary, err := h.operationService.GetInstrumentOperationSummary(c.Request.Context(), instrumentID, period)
	if err != nil {
		h.logger.Error("Failed to get operation summary", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to get operation summary", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Summary retrieved successfully", summary)
}

// CancelOperation cancels an operation
// @Summary Cancel operation
// @Description Cancel a pending or processing operation
// @Tags Operations
// @Accept json
// @Produce json
// @Param id path string true "Operation ID"
// @Param request body CancelOperationRequest true "Cancel operation request"
// @Success 200 {object} utils.APIResponse "Operation cancelled successfully"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 500 {object} utils.APIResponse "Cancel failed"
// @Router /operations/{id}/cancel [put]
func (h *OperationHandler) CancelOperation(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid operation ID", err)
		return
	}

	var req CancelOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.operationService.CancelOperation(c.Request.Context(), id, req.Reason); err != nil {
		h.logger.Error("Failed to cancel operation", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to cancel operation", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Operation cancelled successfully", gin.H{"operation_id": id})
}

// Request DTOs for operations

// InstrumentOperationRequest represents an instrument-scoped operation request
type InstrumentOperationRequest struct {
	OperationType model.OperationType     `json:"operation_type" binding:"required"`
	Data          map[string]interface{}  `json:"data" binding:"required"`
	Priority      model.OperationPriority `json:"priority"`
	CorrelationID *string                 `json:"correlation_id,omitempty"`
}

// CancelOperationRequest represents an operation cancellation request
type CancelOperationRequest struct {
	Reason string `json:"reason" binding:"required"`
}
