// internal/handler/capture_handler.go
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

// CaptureHandler handles acquisition, meter, generator and screen requests
type CaptureHandler struct {
	captureService *service.CaptureService
	logger         *utils.ServiceLogger
}

// NewCaptureHandler creates a new capture handler
func NewCaptureHandler(captureService *service.CaptureService, logger *zap.Logger) *CaptureHandler {
	return &CaptureHandler{
		captureService: captureService,
		logger:         utils.NewServiceLogger(logger, "capture-handler"),
	}
}

// RegisterRoutes registers capture, session, meter, generator and screen routes.
// Each concern gets its own prefix so the parameter segments never collide.
func (h *CaptureHandler) RegisterRoutes(router *gin.RouterGroup) {
	capture := router.Group("/capture/:instrument_id")
	{
		capture.PUT("/settings", h.ApplySettings)
		capture.GET("/settings", h.GetSettings)
		capture.POST("/single", h.SingleCapture)
		capture.POST("/stream/start", h.StartStream)
		capture.POST("/stream/stop", h.StopInstrumentStreams)
	}

	sessions := router.Group("/sessions")
	{
		sessions.GET("", h.ListSessions)
		sessions.GET("/:session_id", h.GetSession)
		sessions.PUT("/:session_id/stop", h.StopStream)
		sessions.GET("/:session_id/waveforms", h.GetSessionWaveforms)
	}

	meter := router.Group("/meter/:instrument_id")
	{
		meter.POST("/read", h.ReadMeter)
		meter.GET("/latest", h.GetLatestReading)
	}
	router.GET("/readings", h.ListMeterReadings)

	generator := router.Group("/generator/:instrument_id")
	{
		generator.PUT("", h.ConfigureGenerator)
		generator.GET("", h.GetGeneratorState)
		generator.PUT("/run", h.SetGeneratorRunning)
	}

	screen := router.Group("/screen/:instrument_id")
	{
		screen.GET("", h.GetScreenMode)
		screen.PUT("", h.SetScreenMode)
	}
}

// ApplySettings pushes capture settings to an instrument
// @Summary Apply capture settings
// @Description Apply channel, timebase and trigger settings to a connected oscilloscope
// @Tags Capture
// @Accept json
// @Produce json
// @Param instrument_id path string true "Instrument ID"
// @Param request body ApplySettingsRequest true "Capture settings"
// @Success 200 {object} utils.APIResponse "Settings applied successfully"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 500 {object} utils.APIResponse "Apply failed"
// @Router /capture/{instrument_id}/settings [put]
func (h *CaptureHandler) ApplySettings(c *gin.Context) {
	instrumentID := c.Param("instrument_id")

	var req ApplySettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.captureService.ApplySettings(c.Request.Context(), instrumentID, req.Settings); err != nil {
		h.logger.Error("Failed to apply capture settings",
			zap.String("instrument_id", instrumentID),
			zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to apply settings", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Settings applied successfully", gin.H{
		"instrument_id": instrumentID,
	})
}

// GetSettings returns the settings last pushed to an instrument
// @Summary Get capture settings
// @Description Get the capture settings currently applied to an oscilloscope
// @Tags Capture
// @Accept json
// @Produce json
// @Param instrument_id path string true "Instrument ID"
// @Success 200 {object} utils.APIResponse{data=object} "Settings retrieved successfully"
// @Failure 500 {object} utils.APIResponse "Retrieval failed"
// @Router /capture/{instrument_id}/settings [get]
func (h *CaptureHandler) GetSettings(c *gin.Context) {
	instrumentID := c.Param("instrument_id")

	settings, err := h.captureService.GetSettings(c.Request.Context(), instrumentID)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to get settings", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Settings retrieved successfully", settings)
}

// SingleCapture acquires one waveform frame
// @Summary Single capture
// @Description Trigger a single waveform acquisition and return the decoded frame
// @Tags Capture
// @Accept json
// @Produce json
// @Param instrument_id path string true "Instrument ID"
// @Param request body service.CaptureRequest false "Capture request with optional settings"
// @Success 200 {object} utils.APIResponse{data=service.CaptureResult} "Capture completed successfully"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 500 {object} utils.APIResponse "Capture failed"
// @Router /capture/{instrument_id}/single [post]
func (h *CaptureHandler) SingleCapture(c *gin.Context) {
	instrumentID := c.Param("instrument_id")

	req := &service.CaptureRequest{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(req); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	result, err := h.captureService.SingleCapture(c.Request.Context(), instrumentID, req)
	if err != nil {
		h.logger.Error("Single capture failed",
			zap.String("instrument_id", instrumentID),
			zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Capture failed", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Capture completed successfully", result)
}

// StartStream starts continuous waveform streaming
// @Summary Start waveform stream
// @Description Start a streaming session that captures frames at a fixed interval and publishes them over WebSocket
// @Tags Capture
// @Accept json
// @Produce json
// @Param instrument_id path string true "Instrument ID"
// @Param request body StreamStartRequest false "Stream options"
// @Success 200 {object} utils.APIResponse{data=model.CaptureSession} "Stream started successfully"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 500 {object} utils.APIResponse "Stream start failed"
// @Router /capture/{instrument_id}/stream/start [post]
func (h *CaptureHandler) StartStream(c *gin.Context) {
	instrumentID := c.Param("instrument_id")

	var req StreamStartRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	streamReq := &service.StreamRequest{
		Settings:  req.Settings,
		Interval:  time.Duration(req.IntervalMS) * time.Millisecond,
		MaxFrames: req.MaxFrames,
	}

	session, err := h.captureService.StartStream(c.Request.Context(), instrumentID, streamReq)
	if err != nil {
		h.logger.Error("Failed to start stream",
			zap.String("instrument_id", instrumentID),
			zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to start stream", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Stream started successfully", session)
}

// StopInstrumentStreams stops all streams running on an instrument
// @Summary Stop instrument streams
// @Description Stop every active streaming session on the instrument
// @Tags Capture
// @Accept json
// @Produce json
// @Param instrument_id path string true "Instrument ID"
// @Success 200 {object} utils.APIResponse "Streams stopped"
// @Router /capture/{instrument_id}/stream/stop [post]
func (h *CaptureHandler) StopInstrumentStreams(c *gin.Context) {
	instrumentID := c.Param("instrument_id")

	stopped := h.captureService.StopInstrumentStreams(c.Request.Context(), instrumentID)

	utils.SuccessResponse(c, http.StatusOK, "Streams stopped", gin.H{
		"instrument_id":   instrumentID,
		"stopped_streams": stopped,
	})
}

// StopStream stops one streaming session
// @Summary Stop stream session
// @Description Stop a single streaming session by session ID
// @Tags Sessions
// @Accept json
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} utils.APIResponse "Stream stopped"
// @Failure 400 {object} utils.APIResponse "Invalid session ID"
// @Failure 404 {object} utils.APIResponse "No active stream for session"
// @Router /sessions/{session_id}/stop [put]
func (h *CaptureHandler) StopStream(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid session ID", err)
		return
	}

	if err := h.captureService.StopStream(c.Request.Context(), sessionID); err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Failed to stop stream", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Stream stopped", gin.H{"session_id": sessionID})
}

// GetSession retrieves a capture session by ID
// @Summary Get capture session
// @Description Get capture session details by session ID
// @Tags Sessions
// @Accept json
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} utils.APIResponse{data=model.CaptureSession} "Session retrieved successfully"
// @Failure 400 {object} utils.APIResponse "Invalid session ID"
// @Failure 404 {object} utils.APIResponse "Session not found"
// @Router /sessions/{session_id} [get]
func (h *CaptureHandler) GetSession(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid session ID", err)
		return
	}

	session, err := h.captureService.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Session not found", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Session retrieved successfully", session)
}

// ListSessions lists capture sessions with filtering
// @Summary List capture sessions
// @Description Get capture sessions with filtering and pagination
// @Tags Sessions
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param instrument_id query string false "Filter by instrument record ID (UUID)"
// @Param mode query string false "Filter by capture mode" Enums(SINGLE, STREAM)
// @Param status query string false "Filter by status" Enums(PENDING, ACQUIRING, COMPLETED, FAILED, STOPPED)
// @Param start_date query string false "Start date filter (RFC3339)"
// @Param end_date query string false "End date filter (RFC3339)"
// @Success 200 {object} utils.APIResponse{data=object{sessions=[]model.CaptureSession,pagination=service.PaginationResult}} "Sessions retrieved successfully"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /sessions [get]
func (h *CaptureHandler) ListSessions(c *gin.Context) {
	filter := &service.CaptureSessionFilter{
		Page:    1,
		PerPage: 20,
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
	if mode := c.Query("mode"); mode != "" {
		m := model.CaptureMode(mode)
		filter.Mode = &m
	}
	if status := c.Query("status"); status != "" {
		s := model.CaptureStatus(status)
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

	sessions, pagination, err := h.captureService.ListSessions(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list sessions", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to list sessions", err)
		return
	}

	response := gin.H{
		"sessions":   sessions,
		"pagination": pagination,
	}

	utils.SuccessResponse(c, http.StatusOK, "Sessions retrieved successfully", response)
}

// GetSessionWaveforms returns archived frames for a session
// @Summary Get session waveforms
// @Description Get stored waveform frames for a capture session, newest first
// @Tags Sessions
// @Accept json
// @Produce json
// @Param session_id path string true "Session ID"
// @Param limit query int false "Maximum frames to return" default(20)
// @Param offset query int false "Frames to skip" default(0)
// @Success 200 {object} utils.APIResponse{data=object{waveforms=[]model.WaveformRecord,total=int}} "Waveforms retrieved successfully"
// @Failure 400 {object} utils.APIResponse "Invalid session ID"
// @Failure 500 {object} utils.APIResponse "Retrieval failed"
// @Router /sessions/{session_id}/waveforms [get]
func (h *CaptureHandler) GetSessionWaveforms(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid session ID", err)
		return
	}

	limit := 20
	offset := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	waveforms, total, err := h.captureService.GetSessionWaveforms(c.Request.Context(), sessionID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to get session waveforms", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to get waveforms", err)
		return
	}

	response := gin.H{
		"waveforms": waveforms,
		"total":     total,
		"limit":     limit,
		"offset":    offset,
	}

	utils.SuccessResponse(c, http.StatusOK, "Waveforms retrieved successfully", response)
}

// ReadMeter takes multimeter measurements
// @Summary Read multimeter
// @Description Take one or more multimeter measurements in the requested mode and archive them
// @Tags Meter
// @Accept json
// @Produce json
// @Param instrument_id path string true "Instrument ID"
// @Param request body service.MeterRequest true "Meter request"
// @Success 200 {object} utils.APIResponse{data=service.MeterResult} "Measurement completed"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 500 {object} utils.APIResponse "Measurement failed"
// @Router /meter/{instrument_id}/read [post]
func (h *CaptureHandler) ReadMeter(c *gin.Context) {
	instrumentID := c.Param("instrument_id")

	var req service.MeterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.captureService.ReadMeter(c.Request.Context(), instrumentID, &req)
	if err != nil {
		h.logger.Error("Meter read failed",
			zap.String("instrument_id", instrumentID),
			zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Measurement failed", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Measurement completed", result)
}

// GetLatestReading returns the most recent archived measurement
// @Summary Get latest reading
// @Description Get the most recent archived measurement for an instrument and mode
// @Tags Meter
// @Accept json
// @Produce json
// @Param instrument_id path string true "Instrument ID"
// @Param mode query string true "Meter mode" Enums(VOLTAGE_DC, VOLTAGE_AC, CURRENT_DC, CURRENT_AC, RESISTANCE, CAPACITANCE)
// @Success 200 {object} utils.APIResponse{data=model.MeterReading} "Reading retrieved successfully"
// @Failure 400 {object} utils.APIResponse "Missing mode"
// @Failure 404 {object} utils.APIResponse "No readings found"
// @Router /meter/{instrument_id}/latest [get]
func (h *CaptureHandler) GetLatestReading(c *gin.Context) {
	instrumentID := c.Param("instrument_id")

	mode := c.Query("mode")
	if mode == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Query parameter 'mode' is required", nil)
		return
	}

	reading, err := h.captureService.GetLatestReading(c.Request.Context(), instrumentID, model.MeterMode(mode))
	if err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "No readings found", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Reading retrieved successfully", reading)
}

// ListMeterReadings lists archived measurements with filtering
// @Summary List meter readings
// @Description Get archived multimeter measurements with filtering and pagination
// @Tags Meter
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param instrument_id query string false "Filter by instrument record ID (UUID)"
// @Param mode query string false "Filter by meter mode" Enums(VOLTAGE_DC, VOLTAGE_AC, CURRENT_DC, CURRENT_AC, RESISTANCE, CAPACITANCE)
// @Param start_date query string false "Start date filter (RFC3339)"
// @Param end_date query string false "End date filter (RFC3339)"
// @Success 200 {object} utils.APIResponse{data=object{readings=[]model.MeterReading,pagination=service.PaginationResult}} "Readings retrieved successfully"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /readings [get]
func (h *CaptureHandler) ListMeterReadings(c *gin.Context) {
	filter := &service.MeterHistoryFilter{
		Page:    1,
		PerPage: 20,
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
	if mode := c.Query("mode"); mode != "" {
		m := model.MeterMode(mode)
		filter.Mode = &m
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

	readings, pagination, err := h.captureService.GetMeterHistory(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list readings", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to list readings", err)
		return
	}

	response := gin.H{
		"readings":   readings,
		"pagination": pagination,
	}

	utils.SuccessResponse(c, http.StatusOK, "Readings retrieved successfully", response)
}

// ConfigureGenerator updates signal generator settings
// @Summary Configure generator
// @Description Update waveform, frequency, amplitude or offset on the signal generator. Omitted fields keep their value.
// @Tags Generator
// @Accept json
// @Produce json
// @Param instrument_id path string true "Instrument ID"
// @Param request body service.GeneratorRequest true "Generator settings"
// @Success 200 {object} utils.APIResponse{data=model.GeneratorState} "Generator configured successfully"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 500 {object} utils.APIResponse "Configuration failed"
// @Router /generator/{instrument_id} [put]
func (h *CaptureHandler) ConfigureGenerator(c *gin.Context) {
	instrumentID := c.Param("instrument_id")

	var req service.GeneratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	state, err := h.captureService.ConfigureGenerator(c.Request.Context(), instrumentID, &req)
	if err != nil {
		h.logger.Error("Failed to configure generator",
			zap.String("instrument_id", instrumentID),
			zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to configure generator", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Generator configured successfully", state)
}

// SetGeneratorRunning starts or stops generator output
// @Summary Run or stop generator
// @Description Toggle signal generator output without changing its settings
// @Tags Generator
// @Accept json
// @Produce json
// @Param instrument_id path string true "Instrument ID"
// @Param request body GeneratorRunRequest true "Run state"
// @Success 200 {object} utils.APIResponse{data=model.GeneratorState} "Generator output updated"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 500 {object} utils.APIResponse "Update failed"
// @Router /generator/{instrument_id}/run [put]
func (h *CaptureHandler) SetGeneratorRunning(c *gin.Context) {
	instrumentID := c.Param("instrument_id")

	var req GeneratorRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	state, err := h.captureService.SetGeneratorRunning(c.Request.Context(), instrumentID, *req.Running)
	if err != nil {
		h.logger.Error("Failed to set generator output",
			zap.String("instrument_id", instrumentID),
			zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to update generator output", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Generator output updated", state)
}

// GetGeneratorState returns the cached generator state
// @Summary Get generator state
// @Description Get the current signal generator configuration and run state
// @Tags Generator
// @Accept json
// @Produce json
// @Param instrument_id path string true "Instrument ID"
// @Success 200 {object} utils.APIResponse{data=model.GeneratorState} "State retrieved successfully"
// @Failure 500 {object} utils.APIResponse "Retrieval failed"
// @Router /generator/{instrument_id} [get]
func (h *CaptureHandler) GetGeneratorState(c *gin.Context) {
	instrumentID := c.Param("instrument_id")

	state, err := h.captureService.GetGeneratorState(c.Request.Context(), instrumentID)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to get generator state", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "State retrieved successfully", state)
}

// SetScreenMode switches the instrument front panel mode
// @Summary Set screen mode
// @Description Switch the instrument display between scope, multimeter and generator screens
// @Tags Screen
// @Accept json
// @Produce json
// @Param instrument_id path string true "Instrument ID"
// @Param request body ScreenModeRequest true "Screen mode"
// @Success 200 {object} utils.APIResponse "Screen mode updated"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 500 {object} utils.APIResponse "Update failed"
// @Router /screen/{instrument_id} [put]
func (h *CaptureHandler) SetScreenMode(c *gin.Context) {
	instrumentID := c.Param("instrument_id")

	var req ScreenModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.captureService.SetScreenMode(c.Request.Context(), instrumentID, req.Mode); err != nil {
		h.logger.Error("Failed to set screen mode",
			zap.String("instrument_id", instrumentID),
			zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to set screen mode", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Screen mode updated", gin.H{
		"instrument_id": instrumentID,
		"mode":          req.Mode,
	})
}

// GetScreenMode returns the current front panel mode
// @Summary Get screen mode
// @Description Get the screen mode the instrument is currently showing
// @Tags Screen
// @Accept json
// @Produce json
// @Param instrument_id path string true "Instrument ID"
// @Success 200 {object} utils.APIResponse "Screen mode retrieved"
// @Failure 500 {object} utils.APIResponse "Retrieval failed"
// @Router /screen/{instrument_id} [get]
func (h *CaptureHandler) GetScreenMode(c *gin.Context) {
	instrumentID := c.Param("instrument_id")

	mode, err := h.captureService.GetScreenMode(c.Request.Context(), instrumentID)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to get screen mode", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Screen mode retrieved", gin.H{
		"instrument_id": instrumentID,
		"mode":          mode,
	})
}

// Request DTOs for capture operations

// ApplySettingsRequest wraps a settings map for the settings endpoint
type ApplySettingsRequest struct {
	Settings map[string]interface{} `json:"settings" binding:"required"`
}

// StreamStartRequest represents stream start options
type StreamStartRequest struct {
	Settings   map[string]interface{} `json:"settings,omitempty"`
	IntervalMS int                    `json:"interval_ms,omitempty"`
	MaxFrames  int                    `json:"max_frames,omitempty"`
}

// GeneratorRunRequest toggles generator output
type GeneratorRunRequest struct {
	Running *bool `json:"running" binding:"required"`
}

// ScreenModeRequest selects a front panel screen
type ScreenModeRequest struct {
	Mode model.ScreenMode `json:"mode" binding:"required"`
}
