// internal/handler/event_bus.go
package handler

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scope-service/internal/model"
	"scope-service/pkg/instrument"
)

// TopicAll delivers every event regardless of type
const TopicAll = "*"

// EventBus manages event distribution
type EventBus struct {
	subscribers map[string][]chan Event
	events      chan Event
	mutex       sync.RWMutex
	logger      *zap.Logger
}

// Event represents a system event
type Event struct {
	Type      string                 `json:"type"`
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
}

// NewEventBus creates a new event bus
func NewEventBus(logger *zap.Logger) *EventBus {
	return &EventBus{
		subscribers: make(map[string][]chan Event),
		events:      make(chan Event, 1000),
		logger:      logger,
	}
}

// Start starts the event bus
func (eb *EventBus) Start() {
	for event := range eb.events {
		eb.distributeEvent(event)
	}
}

// Publish publishes an event
func (eb *EventBus) Publish(event Event) {
	select {
	case eb.events <- event:
	default:
		if eb.logger != nil {
			eb.logger.Warn("Event bus full, dropping event",
				zap.String("event_type", event.Type),
			)
		}
	}
}

// Subscribe subscribes to events of a specific type, or to everything
// with TopicAll
func (eb *EventBus) Subscribe(eventType string) <-chan Event {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	subscriber := make(chan Event, 100)
	eb.subscribers[eventType] = append(eb.subscribers[eventType], subscriber)
	return subscriber
}

// distributeEvent distributes an event to subscribers
func (eb *EventBus) distributeEvent(event Event) {
	eb.mutex.RLock()
	subscribers := make([]chan Event, 0, len(eb.subscribers[event.Type])+len(eb.subscribers[TopicAll]))
	subscribers = append(subscribers, eb.subscribers[event.Type]...)
	subscribers = append(subscribers, eb.subscribers[TopicAll]...)
	eb.mutex.RUnlock()

	for _, subscriber := range subscribers {
		select {
		case subscriber <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}

// InstrumentEventHandler bridges driver callbacks into the WebSocket
// broadcast pipeline. The driver manager installs it on every driver
// it creates.
type InstrumentEventHandler struct {
	websocketHandler *WebSocketHandler
	logger           *zap.Logger
}

// NewInstrumentEventHandler creates a new instrument event handler
func NewInstrumentEventHandler(websocketHandler *WebSocketHandler, logger *zap.Logger) *InstrumentEventHandler {
	return &InstrumentEventHandler{
		websocketHandler: websocketHandler,
		logger:           logger,
	}
}

// OnInstrumentConnected handles instrument connected events
func (ieh *InstrumentEventHandler) OnInstrumentConnected(instrumentID string) {
	ieh.websocketHandler.PublishInstrumentEvent(instrumentID, model.EventInstrumentConnected, map[string]interface{}{
		"status":  "online",
		"message": "Instrument connected successfully",
	})

	ieh.logger.Info("Instrument connected event broadcasted", zap.String("instrument_id", instrumentID))
}

// OnInstrumentDisconnected handles instrument disconnected events
func (ieh *InstrumentEventHandler) OnInstrumentDisconnected(instrumentID string, reason string) {
	ieh.websocketHandler.PublishInstrumentEvent(instrumentID, model.EventInstrumentDisconnected, map[string]interface{}{
		"status": "offline",
		"reason": reason,
	})

	ieh.logger.Info("Instrument disconnected event broadcasted",
		zap.String("instrument_id", instrumentID),
		zap.String("reason", reason),
	)
}

// OnInstrumentError handles instrument error events
func (ieh *InstrumentEventHandler) OnInstrumentError(instrumentID string, err error) {
	ieh.websocketHandler.PublishInstrumentEvent(instrumentID, model.EventInstrumentError, map[string]interface{}{
		"status": "error",
		"error":  err.Error(),
	})

	ieh.logger.Error("Instrument error event broadcasted",
		zap.String("instrument_id", instrumentID),
		zap.Error(err),
	)
}

// OnOperationCompleted handles operation completed events
func (ieh *InstrumentEventHandler) OnOperationCompleted(instrumentID string, operationID string, result *instrument.OperationResult) {
	id, err := uuid.Parse(operationID)
	if err != nil {
		ieh.logger.Warn("Operation completed with unparseable ID",
			zap.String("instrument_id", instrumentID),
			zap.String("operation_id", operationID),
		)
		return
	}

	eventType := "completed"
	if result != nil && !result.Success {
		eventType = "failed"
	}

	ieh.websocketHandler.BroadcastOperationEvent(id, instrumentID, eventType, result)
}

// OnStatusChanged handles instrument status change events
func (ieh *InstrumentEventHandler) OnStatusChanged(instrumentID string, oldStatus, newStatus model.InstrumentStatus) {
	ieh.websocketHandler.PublishInstrumentEvent(instrumentID, model.EventStatusChange, map[string]interface{}{
		"old_status": string(oldStatus),
		"new_status": string(newStatus),
	})

	ieh.logger.Info("Instrument status change event broadcasted",
		zap.String("instrument_id", instrumentID),
		zap.String("old_status", string(oldStatus)),
		zap.String("new_status", string(newStatus)),
	)
}

// OnWaveformFrame handles per-frame driver callbacks. Frame fan-out
// happens in the capture layer where the session is known; broadcasting
// here as well would deliver every frame twice.
func (ieh *InstrumentEventHandler) OnWaveformFrame(instrumentID string, frame *instrument.WaveformFrame) {
	ieh.logger.Debug("Waveform frame received",
		zap.String("instrument_id", instrumentID),
		zap.Int("sequence", frame.Sequence),
		zap.Bool("triggered", frame.Triggered),
	)
}

// OnMeterReading handles per-reading driver callbacks. Same split as
// frames: the capture layer broadcasts readings with archive context.
func (ieh *InstrumentEventHandler) OnMeterReading(instrumentID string, reading *instrument.MeterMeasurement) {
	ieh.logger.Debug("Meter reading received",
		zap.String("instrument_id", instrumentID),
		zap.String("mode", string(reading.Mode)),
		zap.String("value", reading.Value.String()),
	)
}
