// internal/handler/instrument_handler.go
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"scope-service/internal/model"
	"scope-service/internal/service"
	"scope-service/internal/utils"
)

// InstrumentHandler handles instrument-related HTTP requests
type InstrumentHandler struct {
	instrumentService *service.InstrumentService
	logger            *utils.ServiceLogger
}

// NewInstrumentHandler creates a new instrument handler
func NewInstrumentHandler(instrumentService *service.InstrumentService, logger *zap.Logger) *InstrumentHandler {
	return &InstrumentHandler{
		instrumentService: instrumentService,
		logger:            utils.NewServiceLogger(logger, "instrument-handler"),
	}
}

// RegisterRoutes registers instrument-related routes
func (h *InstrumentHandler) RegisterRoutes(router *gin.RouterGroup) {
	instruments := router.Group("/instruments")
	{
		instruments.POST("", h.RegisterInstrument)
		instruments.GET("", h.ListInstruments)
		instruments.GET("/stats", h.GetInstrumentStats)

		instrumentRoutes := instruments.Group("/:id")
		{
			instrumentRoutes.GET("", h.GetInstrument)
			instrumentRoutes.PUT("", h.UpdateInstrument)
			instrumentRoutes.DELETE("", h.DeleteInstrument)
			instrumentRoutes.POST("/connect", h.ConnectInstrument)
			instrumentRoutes.POST("/disconnect", h.DisconnectInstrument)
			instrumentRoutes.POST("/test", h.TestInstrument)
			instrumentRoutes.GET("/health", h.GetInstrumentHealth)
			instrumentRoutes.PUT("/config", h.UpdateInstrumentConfig)
		}
	}
}

// RegisterInstrument registers a new instrument
// @Summary Register a new instrument
// @Description Register a new instrument in the system with connection configuration
// @Tags Instruments
// @Accept json
// @Produce json
// @Param request body service.RegisterInstrumentRequest true "Instrument registration request"
// @Success 201 {object} utils.APIResponse{data=model.Instrument} "Instrument registered successfully"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /instruments [post]
func (h *InstrumentHandler) RegisterInstrument(c *gin.Context) {
	var req service.RegisterInstrumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.LogAPIRequest(c.Request.Method, c.Request.URL.Path, c.Request.UserAgent(), c.ClientIP(), 400, 0)
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	// User ID comes from the auth middleware when enabled
	if userID, exists := c.Get("user_id"); exists {
		req.UserID = userID.(string)
	}

	inst, err := h.instrumentService.RegisterInstrument(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("Failed to register instrument", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to register instrument", err)
		return
	}

	h.logger.Info("Instrument registered successfully", zap.String("instrument_id", inst.InstrumentID))
	utils.SuccessResponse(c, http.StatusCreated, "Instrument registered successfully", inst)
}

// ListInstruments lists instruments with filtering and pagination
// @Summary List instruments
// @Description Get list of instruments with filtering and pagination support
// @Tags Instruments
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param instrument_type query string false "Filter by instrument type" Enums(OSCILLOSCOPE, GENERATOR, MULTIMETER, LOGIC_ANALYZER)
// @Param brand query string false "Filter by brand" Enums(HANTEK, OWON, RIGOL, SIGLENT, UNI_T, GENERIC)
// @Param status query string false "Filter by status" Enums(ONLINE, OFFLINE, ERROR, STREAMING, CONNECTING, MAINTENANCE)
// @Param connection_type query string false "Filter by connection type" Enums(USB, SERIAL)
// @Param location query string false "Filter by location"
// @Param search query string false "Search in instrument ID, model and serial number"
// @Param sort_by query string false "Sort by field" default(created_at)
// @Param sort_order query string false "Sort order" Enums(asc, desc) default(desc)
// @Success 200 {object} utils.APIResponse{data=object{instruments=[]model.Instrument,pagination=service.PaginationResult}} "Instruments retrieved successfully"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /instruments [get]
func (h *InstrumentHandler) ListInstruments(c *gin.Context) {
	filter := &service.InstrumentFilter{
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

	if instrumentType := c.Query("instrument_type"); instrumentType != "" {
		it := model.InstrumentType(instrumentType)
		filter.InstrumentType = &it
	}
	if brand := c.Query("brand"); brand != "" {
		b := model.InstrumentBrand(brand)
		filter.Brand = &b
	}
	if status := c.Query("status"); status != "" {
		s := model.InstrumentStatus(status)
		filter.Status = &s
	}
	if connectionType := c.Query("connection_type"); connectionType != "" {
		ct := model.ConnectionType(connectionType)
		filter.ConnectionType = &ct
	}
	if location := c.Query("location"); location != "" {
		filter.Location = &location
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}

	if sortBy := c.Query("sort_by"); sortBy != "" {
		filter.SortBy = sortBy
	}
	if sortOrder := c.Query("sort_order"); sortOrder != "" {
		filter.SortOrder = sortOrder
	}

	instruments, pagination, err := h.instrumentService.ListInstruments(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list instruments", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to list instruments", err)
		return
	}

	response := gin.H{
		"instruments": instruments,
		"pagination":  pagination,
	}

	utils.SuccessResponse(c, http.StatusOK, "Instruments retrieved successfully", response)
}

// GetInstrument retrieves instrument by ID
// @Summary Get instrument details
// @Description Get instrument details and current status by instrument ID
// @Tags Instruments
// @Accept json
// @Produce json
// @Param id path string true "Instrument ID"
// @Success 200 {object} utils.APIResponse{data=model.Instrument} "Instrument retrieved successfully"
// @Failure 400 {object} utils.APIResponse "Invalid instrument ID"
// @Failure 404 {object} utils.APIResponse "Instrument not found"
// @Router /instruments/{id} [get]
func (h *InstrumentHandler) GetInstrument(c *gin.Context) {
	instrumentID := c.Param("id")
	if instrumentID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Instrument ID is required", nil)
		return
	}

	inst, err := h.instrumentService.GetInstrument(c.Request.Context(), instrumentID)
	if err != nil {
		h.logger.Error("Failed to get instrument", zap.Error(err), zap.String("instrument_id", instrumentID))
		utils.ErrorResponse(c, http.StatusNotFound, "Instrument not found", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Instrument retrieved successfully", inst)
}

// UpdateInstrument updates instrument metadata
// @Summary Update instrument
// @Description Update instrument metadata such as location and firmware version
// @Tags Instruments
// @Accept json
// @Produce json
// @Param id path string true "Instrument ID"
// @Param request body service.UpdateInstrumentRequest true "Instrument update request"
// @Success 200 {object} utils.APIResponse{data=model.Instrument} "Instrument updated successfully"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 500 {object} utils.APIResponse "Update failed"
// @Router /instruments/{id} [put]
func (h *InstrumentHandler) UpdateInstrument(c *gin.Context) {
	instrumentID := c.Param("id")
	if instrumentID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Instrument ID is required", nil)
		return
	}

	var req service.UpdateInstrumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.UserID = getUserID(c)

	inst, err := h.instrumentService.UpdateInstrument(c.Request.Context(), instrumentID, &req)
	if err != nil {
		h.logger.Error("Failed to update instrument", zap.Error(err), zap.String("instrument_id", instrumentID))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to update instrument", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Instrument updated successfully", inst)
}

// DeleteInstrument removes an instrument
// @Summary Delete instrument
// @Description Remove an instrument from the system. The instrument must be disconnected first.
// @Tags Instruments
// @Accept json
// @Produce json
// @Param id path string true "Instrument ID"
// @Success 200 {object} utils.APIResponse "Instrument deleted successfully"
// @Failure 400 {object} utils.APIResponse "Invalid instrument ID"
// @Failure 500 {object} utils.APIResponse "Deletion failed"
// @Router /instruments/{id} [delete]
func (h *InstrumentHandler) DeleteInstrument(c *gin.Context) {
	instrumentID := c.Param("id")
	if instrumentID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Instrument ID is required", nil)
		return
	}

	userID := getUserID(c)
	if err := h.instrumentService.DeleteInstrument(c.Request.Context(), instrumentID, userID); err != nil {
		h.logger.Error("Failed to delete instrument", zap.Error(err), zap.String("instrument_id", instrumentID))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to delete instrument", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Instrument deleted successfully", gin.H{"instrument_id": instrumentID})
}

// ConnectInstrument connects to an instrument
// @Summary Connect to instrument
// @Description Open the transport, claim the instrument and bring it online
// @Tags Instruments
// @Accept json
// @Produce json
// @Param id path string true "Instrument ID"
// @Success 200 {object} utils.APIResponse "Instrument connected successfully"
// @Failure 400 {object} utils.APIResponse "Invalid instrument ID"
// @Failure 500 {object} utils.APIResponse "Connection failed"
// @Router /instruments/{id}/connect [post]
func (h *InstrumentHandler) ConnectInstrument(c *gin.Context) {
	instrumentID := c.Param("id")
	if instrumentID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Instrument ID is required", nil)
		return
	}

	if err := h.instrumentService.ConnectInstrument(c.Request.Context(), instrumentID); err != nil {
		h.logger.Error("Failed to connect instrument", zap.Error(err), zap.String("instrument_id", instrumentID))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to connect instrument", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Instrument connected successfully", gin.H{"instrument_id": instrumentID})
}

// DisconnectInstrument disconnects from an instrument
// @Summary Disconnect from instrument
// @Description Stop any running streams and release the instrument
// @Tags Instruments
// @Accept json
// @Produce json
// @Param id path string true "Instrument ID"
// @Success 200 {object} utils.APIResponse "Instrument disconnected successfully"
// @Failure 400 {object} utils.APIResponse "Invalid instrument ID"
// @Failure 500 {object} utils.APIResponse "Disconnection failed"
// @Router /instruments/{id}/disconnect [post]
func (h *InstrumentHandler) DisconnectInstrument(c *gin.Context) {
	instrumentID := c.Param("id")
	if instrumentID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Instrument ID is required", nil)
		return
	}

	if err := h.instrumentService.DisconnectInstrument(c.Request.Context(), instrumentID); err != nil {
		h.logger.Error("Failed to disconnect instrument", zap.Error(err), zap.String("instrument_id", instrumentID))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to disconnect instrument", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Instrument disconnected successfully", gin.H{"instrument_id": instrumentID})
}

// TestInstrument tests instrument connectivity
// @Summary Test instrument connectivity
// @Description Test connection and basic functionality of an instrument
// @Tags Instruments
// @Accept json
// @Produce json
// @Param id path string true "Instrument ID"
// @Success 200 {object} utils.APIResponse{data=service.TestResult} "Instrument test completed"
// @Failure 400 {object} utils.APIResponse "Invalid instrument ID"
// @Failure 500 {object} utils.APIResponse "Test failed"
// @Router /instruments/{id}/test [post]
func (h *InstrumentHandler) TestInstrument(c *gin.Context) {
	instrumentID := c.Param("id")
	if instrumentID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Instrument ID is required", nil)
		return
	}

	result, err := h.instrumentService.TestInstrument(c.Request.Context(), instrumentID)
	if err != nil {
		h.logger.Error("Failed to test instrument", zap.Error(err), zap.String("instrument_id", instrumentID))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to test instrument", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Instrument test completed", result)
}

// GetInstrumentHealth retrieves instrument health metrics
// @Summary Get instrument health
// @Description Get current health metrics and status of an instrument
// @Tags Instruments
// @Accept json
// @Produce json
// @Param id path string true "Instrument ID"
// @Success 200 {object} utils.APIResponse{data=service.InstrumentHealthInfo} "Instrument health retrieved successfully"
// @Failure 400 {object} utils.APIResponse "Invalid instrument ID"
// @Failure 500 {object} utils.APIResponse "Failed to get instrument health"
// @Router /instruments/{id}/health [get]
func (h *InstrumentHandler) GetInstrumentHealth(c *gin.Context) {
	instrumentID := c.Param("id")
	if instrumentID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Instrument ID is required", nil)
		return
	}

	health, err := h.instrumentService.GetInstrumentHealth(c.Request.Context(), instrumentID)
	if err != nil {
		h.logger.Error("Failed to get instrument health", zap.Error(err), zap.String("instrument_id", instrumentID))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to get instrument health", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Instrument health retrieved successfully", health)
}

// GetInstrumentStats retrieves fleet-wide instrument statistics
// @Summary Get instrument statistics
// @Description Get counts of instruments grouped by status, type and brand
// @Tags Instruments
// @Accept json
// @Produce json
// @Success 200 {object} utils.APIResponse{data=repository.InstrumentStats} "Statistics retrieved successfully"
// @Failure 500 {object} utils.APIResponse "Failed to get statistics"
// @Router /instruments/stats [get]
func (h *InstrumentHandler) GetInstrumentStats(c *gin.Context) {
	stats, err := h.instrumentService.GetInstrumentStats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get instrument stats", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to get instrument statistics", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Statistics retrieved successfully", stats)
}

// UpdateInstrumentConfig updates instrument connection configuration
// @Summary Update instrument configuration
// @Description Update instrument connection configuration. The instrument must be disconnected.
// @Tags Instruments
// @Accept json
// @Produce json
// @Param id path string true "Instrument ID"
// @Param request body UpdateConfigRequest true "Configuration update request"
// @Success 200 {object} utils.APIResponse "Instrument configuration updated successfully"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 500 {object} utils.APIResponse "Update failed"
// @Router /instruments/{id}/config [put]
func (h *InstrumentHandler) UpdateInstrumentConfig(c *gin.Context) {
	instrumentID := c.Param("id")
	if instrumentID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Instrument ID is required", nil)
		return
	}

	var req UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	userID := getUserID(c)
	if err := h.instrumentService.UpdateInstrumentConfiguration(c.Request.Context(), instrumentID, req.Config, userID); err != nil {
		h.logger.Error("Failed to update instrument config", zap.Error(err), zap.String("instrument_id", instrumentID))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to update instrument configuration", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Instrument configuration updated successfully", gin.H{"instrument_id": instrumentID})
}

// Helper functions and DTOs

// getUserID extracts user ID from context
func getUserID(c *gin.Context) string {
	if userID, exists := c.Get("user_id"); exists {
		return userID.(string)
	}
	return ""
}

// UpdateConfigRequest represents a configuration update request
type UpdateConfigRequest struct {
	Config map[string]interface{} `json:"config"`
}
