// internal/handler/websocket_handler.go
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"scope-service/internal/model"
	"scope-service/internal/service"
	"scope-service/internal/utils"
)

// WebSocketHandler manages WebSocket connections for real-time communication
type WebSocketHandler struct {
	upgrader          websocket.Upgrader
	connections       *ConnectionManager
	instrumentService *service.InstrumentService
	captureService    *service.CaptureService
	logger            *utils.ServiceLogger
	eventBus          *EventBus
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(
	instrumentService *service.InstrumentService,
	captureService *service.CaptureService,
	logger *zap.Logger,
) *WebSocketHandler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// In production, implement proper origin checking
			return true
		},
	}

	handler := &WebSocketHandler{
		upgrader:          upgrader,
		connections:       NewConnectionManager(),
		instrumentService: instrumentService,
		captureService:    captureService,
		logger:            utils.NewServiceLogger(logger, "websocket-handler"),
		eventBus:          NewEventBus(logger),
	}

	// All instrument events flow through the bus before fan-out
	go handler.eventBus.Start()
	go handler.consumeEvents(handler.eventBus.Subscribe(TopicAll))

	return handler
}

// RegisterRoutes registers WebSocket routes
func (h *WebSocketHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Instrument-specific WebSocket connections
	router.GET("/instruments/:instrument_id", h.HandleInstrumentConnection)

	// General instrument events WebSocket
	router.GET("/events", h.HandleEventConnection)

	// Operation status WebSocket
	router.GET("/operations", h.HandleOperationConnection)

	// Session-scoped waveform stream
	router.GET("/sessions/:session_id", h.HandleSessionConnection)
}

// HandleInstrumentConnection handles instrument-specific WebSocket connections
func (h *WebSocketHandler) HandleInstrumentConnection(c *gin.Context) {
	instrumentID := c.Param("instrument_id")
	if instrumentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "instrument_id is required"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade WebSocket connection", zap.Error(err))
		return
	}

	client := &Client{
		ID:           uuid.New().String(),
		Connection:   conn,
		Send:         make(chan []byte, 256),
		Type:         "instrument",
		InstrumentID: &instrumentID,
		UserAgent:    c.Request.UserAgent(),
		RemoteAddr:   c.Request.RemoteAddr,
		ConnectedAt:  time.Now(),
	}

	h.connections.Register(client)
	h.logger.Info("Instrument WebSocket client connected",
		zap.String("client_id", client.ID),
		zap.String("instrument_id", instrumentID),
		zap.String("remote_addr", client.RemoteAddr),
	)

	// Send initial instrument status
	go h.sendInitialInstrumentStatus(client, instrumentID)

	go h.handleClientRead(client)
	go h.handleClientWrite(client)
}

// HandleEventConnection handles general event WebSocket connections
func (h *WebSocketHandler) HandleEventConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade WebSocket connection", zap.Error(err))
		return
	}

	client := &Client{
		ID:          uuid.New().String(),
		Connection:  conn,
		Send:        make(chan []byte, 256),
		Type:        "events",
		UserAgent:   c.Request.UserAgent(),
		RemoteAddr:  c.Request.RemoteAddr,
		ConnectedAt: time.Now(),
	}

	h.connections.Register(client)
	h.logger.Info("Event WebSocket client connected",
		zap.String("client_id", client.ID),
	)

	go h.handleClientRead(client)
	go h.handleClientWrite(client)
}

// HandleOperationConnection handles operation status WebSocket connections
func (h *WebSocketHandler) HandleOperationConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade WebSocket connection", zap.Error(err))
		return
	}

	client := &Client{
		ID:          uuid.New().String(),
		Connection:  conn,
		Send:        make(chan []byte, 256),
		Type:        "operations",
		UserAgent:   c.Request.UserAgent(),
		RemoteAddr:  c.Request.RemoteAddr,
		ConnectedAt: time.Now(),
	}

	h.connections.Register(client)
	h.logger.Info("Operation WebSocket client connected",
		zap.String("client_id", client.ID),
	)

	go h.handleClientRead(client)
	go h.handleClientWrite(client)
}

// HandleSessionConnection handles session-scoped waveform stream connections
func (h *WebSocketHandler) HandleSessionConnection(c *gin.Context) {
	sessionID := c.Param("session_id")
	if _, err := uuid.Parse(sessionID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session_id"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade WebSocket connection", zap.Error(err))
		return
	}

	client := &Client{
		ID:          uuid.New().String(),
		Connection:  conn,
		Send:        make(chan []byte, 256),
		Type:        "stream",
		SessionID:   &sessionID,
		UserAgent:   c.Request.UserAgent(),
		RemoteAddr:  c.Request.RemoteAddr,
		ConnectedAt: time.Now(),
	}

	h.connections.Register(client)
	h.logger.Info("Session WebSocket client connected",
		zap.String("client_id", client.ID),
		zap.String("session_id", sessionID),
	)

	go h.handleClientRead(client)
	go h.handleClientWrite(client)
}

// handleClientRead handles reading messages from WebSocket client
func (h *WebSocketHandler) handleClientRead(client *Client) {
	defer func() {
		h.connections.Unregister(client)
		client.Connection.Close()
	}()

	// Set read deadline and pong handler
	client.Connection.SetReadDeadline(time.Now().Add(60 * time.Second))
	client.Connection.SetPongHandler(func(string) error {
		client.Connection.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, messageBytes, err := client.Connection.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Error("WebSocket read error",
					zap.Error(err),
					zap.String("client_id", client.ID),
				)
			}
			break
		}

		var message WebSocketMessage
		if err := json.Unmarshal(messageBytes, &message); err != nil {
			h.logger.Error("Failed to parse WebSocket message",
				zap.Error(err),
				zap.String("client_id", client.ID),
			)
			continue
		}

		h.handleClientMessage(client, &message)
	}
}

// handleClientWrite handles writing messages to WebSocket client
func (h *WebSocketHandler) handleClientWrite(client *Client) {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		client.Connection.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			client.Connection.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				client.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := client.Connection.WriteMessage(websocket.TextMessage, message); err != nil {
				h.logger.Error("WebSocket write error",
					zap.Error(err),
					zap.String("client_id", client.ID),
				)
				return
			}

		case <-ticker.C:
			client.Connection.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleClientMessage handles incoming client messages
func (h *WebSocketHandler) handleClientMessage(client *Client, message *WebSocketMessage) {
	switch message.Type {
	case "subscribe":
		h.handleSubscription(client, message)
	case "unsubscribe":
		h.handleUnsubscription(client, message)
	case "instrument_command":
		h.handleInstrumentCommand(client, message)
	case "ping":
		h.sendMessage(client, &WebSocketMessage{
			Type:      "pong",
			Timestamp: time.Now(),
		})
	default:
		h.logger.Warn("Unknown message type",
			zap.String("type", message.Type),
			zap.String("client_id", client.ID),
		)
	}
}

// handleSubscription handles client subscription requests
func (h *WebSocketHandler) handleSubscription(client *Client, message *WebSocketMessage) {
	if data, ok := message.Data.(map[string]interface{}); ok {
		if topic, ok := data["topic"].(string); ok {
			client.Subscribe(topic)
			h.logger.Info("Client subscribed to topic",
				zap.String("client_id", client.ID),
				zap.String("topic", topic),
			)

			h.sendMessage(client, &WebSocketMessage{
				Type: "subscription_confirmed",
				Data: map[string]interface{}{
					"topic": topic,
				},
				Timestamp: time.Now(),
			})
		}
	}
}

// handleUnsubscription handles client unsubscription requests
func (h *WebSocketHandler) handleUnsubscription(client *Client, message *WebSocketMessage) {
	if data, ok := message.Data.(map[string]interface{}); ok {
		if topic, ok := data["topic"].(string); ok {
			client.Unsubscribe(topic)
			h.logger.Info("Client unsubscribed from topic",
				zap.String("client_id", client.ID),
				zap.String("topic", topic),
			)
		}
	}
}

// handleInstrumentCommand handles instrument command messages
func (h *WebSocketHandler) handleInstrumentCommand(client *Client, message *WebSocketMessage) {
	if client.InstrumentID == nil {
		h.sendError(client, "instrument_command only available on instrument connections")
		return
	}

	data, ok := message.Data.(map[string]interface{})
	if !ok {
		h.sendError(client, "invalid command data")
		return
	}

	command, ok := data["command"].(string)
	if !ok {
		h.sendError(client, "command is required")
		return
	}

	go h.executeInstrumentCommand(client, *client.InstrumentID, command, data)
}

// executeInstrumentCommand executes an instrument command
func (h *WebSocketHandler) executeInstrumentCommand(client *Client, instrumentID, command string, data map[string]interface{}) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	var result interface{}

	switch command {
	case "connect":
		err = h.instrumentService.ConnectInstrument(ctx, instrumentID)
		result = map[string]interface{}{"connected": err == nil}

	case "disconnect":
		err = h.instrumentService.DisconnectInstrument(ctx, instrumentID)
		result = map[string]interface{}{"disconnected": err == nil}

	case "test":
		var testResult *service.TestResult
		testResult, err = h.instrumentService.TestInstrument(ctx, instrumentID)
		result = testResult

	case "status":
		var health *service.InstrumentHealthInfo
		health, err = h.instrumentService.GetInstrumentHealth(ctx, instrumentID)
		result = health

	case "read_meter":
		mode, _ := data["mode"].(string)
		if mode == "" {
			h.sendError(client, "mode is required for read_meter")
			return
		}
		var meterResult *service.MeterResult
		meterResult, err = h.captureService.ReadMeter(ctx, instrumentID, &service.MeterRequest{
			Mode: model.MeterMode(mode),
		})
		result = meterResult

	case "stop_streams":
		stopped := h.captureService.StopInstrumentStreams(ctx, instrumentID)
		result = map[string]interface{}{"stopped_streams": stopped}

	default:
		h.sendError(client, fmt.Sprintf("unknown command: %s", command))
		return
	}

	response := &WebSocketMessage{
		Type: "command_response",
		Data: map[string]interface{}{
			"command": command,
			"success": err == nil,
			"result":  result,
		},
		Timestamp: time.Now(),
	}

	if err != nil {
		response.Data.(map[string]interface{})["error"] = err.Error()
	}

	h.sendMessage(client, response)
}

// sendInitialInstrumentStatus sends initial instrument status to client
func (h *WebSocketHandler) sendInitialInstrumentStatus(client *Client, instrumentID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	inst, err := h.instrumentService.GetInstrument(ctx, instrumentID)
	if err != nil {
		h.sendError(client, fmt.Sprintf("failed to get instrument: %v", err))
		return
	}

	health, err := h.instrumentService.GetInstrumentHealth(ctx, instrumentID)
	if err != nil {
		h.logger.Error("Failed to get instrument health", zap.Error(err))
	}

	message := &WebSocketMessage{
		Type: "initial_status",
		Data: map[string]interface{}{
			"instrument": inst,
			"health":     health,
		},
		Timestamp: time.Now(),
	}

	h.sendMessage(client, message)
}

// sendMessage sends a message to a client
func (h *WebSocketHandler) sendMessage(client *Client, message *WebSocketMessage) {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("Failed to marshal WebSocket message", zap.Error(err))
		return
	}

	select {
	case client.Send <- messageBytes:
	default:
		h.logger.Warn("Client send channel full, dropping message",
			zap.String("client_id", client.ID),
		)
	}
}

// sendError sends an error message to a client
func (h *WebSocketHandler) sendError(client *Client, errorMsg string) {
	message := &WebSocketMessage{
		Type: "error",
		Data: map[string]interface{}{
			"error": errorMsg,
		},
		Timestamp: time.Now(),
	}
	h.sendMessage(client, message)
}

// PublishInstrumentEvent queues an instrument event for broadcast. It
// implements the capture layer's publisher interface.
func (h *WebSocketHandler) PublishInstrumentEvent(instrumentID string, eventType model.EventType, data map[string]interface{}) {
	h.eventBus.Publish(Event{
		Type:      string(eventType),
		Source:    instrumentID,
		Data:      data,
		Timestamp: time.Now(),
	})
}

// consumeEvents drains the bus and routes each event to its audiences
func (h *WebSocketHandler) consumeEvents(events <-chan Event) {
	for event := range events {
		message := &WebSocketMessage{
			Type: "instrument_event",
			Data: map[string]interface{}{
				"instrument_id": event.Source,
				"event_type":    event.Type,
				"data":          event.Data,
			},
			Timestamp: event.Timestamp,
		}

		h.broadcastToInstrumentClients(event.Source, message)
		h.broadcastToEventClients(message, event.Type)

		// Waveform and capture events carry a session reference; stream
		// clients follow exactly one session
		if sessionID, ok := event.Data["session_id"].(string); ok {
			h.broadcastToSessionClients(sessionID, message)
		}
	}
}

// BroadcastOperationEvent broadcasts operation events to relevant clients
func (h *WebSocketHandler) BroadcastOperationEvent(operationID uuid.UUID, instrumentID string, eventType string, data interface{}) {
	message := &WebSocketMessage{
		Type: "operation_event",
		Data: map[string]interface{}{
			"operation_id":  operationID.String(),
			"instrument_id": instrumentID,
			"event_type":    eventType,
			"data":          data,
		},
		Timestamp: time.Now(),
	}

	h.broadcastToOperationClients(message)
	h.broadcastToInstrumentClients(instrumentID, message)
}

// broadcastToInstrumentClients broadcasts to clients watching one instrument
func (h *WebSocketHandler) broadcastToInstrumentClients(instrumentID string, message *WebSocketMessage) {
	clients := h.connections.GetInstrumentClients(instrumentID)
	h.broadcastToClients(clients, message)
}

// broadcastToEventClients broadcasts to event clients that want the type
func (h *WebSocketHandler) broadcastToEventClients(message *WebSocketMessage, eventType string) {
	var interested []*Client
	for _, client := range h.connections.GetEventClients() {
		if client.WantsEvent(eventType) {
			interested = append(interested, client)
		}
	}
	h.broadcastToClients(interested, message)
}

// broadcastToOperationClients broadcasts to all operation clients
func (h *WebSocketHandler) broadcastToOperationClients(message *WebSocketMessage) {
	clients := h.connections.GetOperationClients()
	h.broadcastToClients(clients, message)
}

// broadcastToSessionClients broadcasts to clients following one session
func (h *WebSocketHandler) broadcastToSessionClients(sessionID string, message *WebSocketMessage) {
	clients := h.connections.GetSessionClients(sessionID)
	h.broadcastToClients(clients, message)
}

// broadcastToClients broadcasts message to specified clients
func (h *WebSocketHandler) broadcastToClients(clients []*Client, message *WebSocketMessage) {
	if len(clients) == 0 {
		return
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("Failed to marshal broadcast message", zap.Error(err))
		return
	}

	for _, client := range clients {
		select {
		case client.Send <- messageBytes:
		default:
			h.logger.Warn("Client send channel full during broadcast",
				zap.String("client_id", client.ID),
			)
		}
	}
}

// GetConnectionStats returns connection statistics
func (h *WebSocketHandler) GetConnectionStats() *ConnectionStats {
	return h.connections.GetStats()
}
