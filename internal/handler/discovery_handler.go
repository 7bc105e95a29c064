// internal/handler/discovery_handler.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"scope-service/internal/service"
	"scope-service/internal/utils"
)

// DiscoveryHandler handles instrument discovery requests
type DiscoveryHandler struct {
	discoveryService *service.DiscoveryService
	logger           *utils.ServiceLogger
}

// NewDiscoveryHandler creates a new discovery handler
func NewDiscoveryHandler(discoveryService *service.DiscoveryService, logger *zap.Logger) *DiscoveryHandler {
	return &DiscoveryHandler{
		discoveryService: discoveryService,
		logger:           utils.NewServiceLogger(logger, "discovery-handler"),
	}
}

// RegisterRoutes registers discovery routes
func (h *DiscoveryHandler) RegisterRoutes(router *gin.RouterGroup) {
	discovery := router.Group("/discovery")
	{
		discovery.GET("/scan", h.ScanInstruments)
		discovery.POST("/auto-setup", h.AutoSetupInstruments)
		discovery.GET("/supported", h.GetSupportedInstruments)
		discovery.GET("/capabilities/:type", h.GetCapabilities)
	}
}

// ScanInstruments scans for attached instruments
// @Summary Scan for instruments
// @Description Scan USB and serial buses for attached instruments without registering them
// @Tags Discovery
// @Accept json
// @Produce json
// @Param type query string false "Scan type" Enums(all, usb, serial) default(all)
// @Param timeout query string false "Scan timeout" default(30s)
// @Success 200 {object} utils.APIResponse{data=object{instruments_found=int,instruments=[]service.DiscoveredInstrument}} "Instrument scan completed"
// @Failure 500 {object} utils.APIResponse "Scan failed"
// @Router /discovery/scan [get]
func (h *DiscoveryHandler) ScanInstruments(c *gin.Context) {
	scanType := c.DefaultQuery("type", "all") // all, usb, serial
	timeout := c.DefaultQuery("timeout", "30s")

	req := &service.ScanRequest{
		ScanType: scanType,
		Timeout:  timeout,
	}

	instruments, err := h.discoveryService.ScanInstruments(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("Failed to scan instruments", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to scan instruments", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Instrument scan completed", gin.H{
		"instruments_found": len(instruments),
		"instruments":       instruments,
	})
}

// AutoSetupInstruments registers discovered instruments automatically
// @Summary Auto-setup instruments
// @Description Scan all buses and register every instrument that passes the filter. Optionally connects them.
// @Tags Discovery
// @Accept json
// @Produce json
// @Param request body AutoSetupInstrumentsRequest true "Auto-setup request"
// @Success 200 {object} utils.APIResponse{data=service.AutoSetupResult} "Auto-setup completed"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 500 {object} utils.APIResponse "Auto-setup failed"
// @Router /discovery/auto-setup [post]
func (h *DiscoveryHandler) AutoSetupInstruments(c *gin.Context) {
	var req AutoSetupInstrumentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.discoveryService.AutoSetupInstruments(c.Request.Context(), &service.AutoSetupRequest{
		InstrumentFilter: req.InstrumentFilter,
		AutoConnect:      req.AutoConnect,
		UserID:           getUserID(c),
	})
	if err != nil {
		h.logger.Error("Failed to auto-setup instruments", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to auto-setup instruments", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Auto-setup completed", result)
}

// GetSupportedInstruments returns supported instrument models
// @Summary Get supported instruments
// @Description Get all instrument brands and models the registered drivers can operate
// @Tags Discovery
// @Accept json
// @Produce json
// @Success 200 {object} utils.APIResponse{data=service.SupportedInstrumentsResponse} "Supported instruments retrieved"
// @Router /discovery/supported [get]
func (h *DiscoveryHandler) GetSupportedInstruments(c *gin.Context) {
	supported := h.discoveryService.GetSupportedInstruments()
	utils.SuccessResponse(c, http.StatusOK, "Supported instruments retrieved", supported)
}

// GetCapabilities returns capabilities for an instrument type
// @Summary Get instrument type capabilities
// @Description Get the capability list for an instrument type
// @Tags Discovery
// @Accept json
// @Produce json
// @Param type path string true "Instrument type" Enums(OSCILLOSCOPE, GENERATOR, MULTIMETER, LOGIC_ANALYZER)
// @Success 200 {object} utils.APIResponse{data=object{instrument_type=string,capabilities=[]string}} "Capabilities retrieved"
// @Failure 404 {object} utils.APIResponse "Instrument type not supported"
// @Router /discovery/capabilities/{type} [get]
func (h *DiscoveryHandler) GetCapabilities(c *gin.Context) {
	instrumentType := c.Param("type")

	capabilities, err := h.discoveryService.GetInstrumentTypeCapabilities(instrumentType)
	if err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Instrument type not supported", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Capabilities retrieved", gin.H{
		"instrument_type": instrumentType,
		"capabilities":    capabilities,
	})
}

// AutoSetupInstrumentsRequest represents an auto-setup request
type AutoSetupInstrumentsRequest struct {
	InstrumentFilter map[string]string `json:"instrument_filter,omitempty"`
	AutoConnect      bool              `json:"auto_connect"`
}
