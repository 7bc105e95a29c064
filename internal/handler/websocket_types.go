// internal/handler/websocket_types.go
package handler

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client represents a WebSocket client
type Client struct {
	ID           string          `json:"id"`
	Connection   *websocket.Conn `json:"-"`
	Send         chan []byte     `json:"-"`
	Type         string          `json:"type"` // instrument, events, operations, stream
	InstrumentID *string         `json:"instrument_id,omitempty"`
	SessionID    *string         `json:"session_id,omitempty"`
	UserAgent    string          `json:"user_agent"`
	RemoteAddr   string          `json:"remote_addr"`
	ConnectedAt  time.Time       `json:"connected_at"`

	subMutex      sync.RWMutex
	subscriptions map[string]bool
}

// Subscribe adds an event topic to the client's subscription set
func (c *Client) Subscribe(topic string) {
	c.subMutex.Lock()
	defer c.subMutex.Unlock()

	if c.subscriptions == nil {
		c.subscriptions = make(map[string]bool)
	}
	c.subscriptions[topic] = true
}

// Unsubscribe removes an event topic from the client's subscription set
func (c *Client) Unsubscribe(topic string) {
	c.subMutex.Lock()
	defer c.subMutex.Unlock()

	delete(c.subscriptions, topic)
}

// WantsEvent reports whether the client should receive an event type.
// A client with no subscriptions receives everything.
func (c *Client) WantsEvent(eventType string) bool {
	c.subMutex.RLock()
	defer c.subMutex.RUnlock()

	if len(c.subscriptions) == 0 {
		return true
	}
	return c.subscriptions[eventType]
}

// Subscriptions returns a copy of the client's subscription topics
func (c *Client) Subscriptions() []string {
	c.subMutex.RLock()
	defer c.subMutex.RUnlock()

	topics := make([]string, 0, len(c.subscriptions))
	for topic := range c.subscriptions {
		topics = append(topics, topic)
	}
	return topics
}

// WebSocketMessage represents a WebSocket message
type WebSocketMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id,omitempty"`
}

// ConnectionManager manages WebSocket connections
type ConnectionManager struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager() *ConnectionManager {
	manager := &ConnectionManager{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}

	go manager.run()
	return manager
}

// run starts the connection manager
func (cm *ConnectionManager) run() {
	for {
		select {
		case client := <-cm.register:
			cm.mutex.Lock()
			cm.clients[client.ID] = client
			cm.mutex.Unlock()

		case client := <-cm.unregister:
			cm.mutex.Lock()
			if _, ok := cm.clients[client.ID]; ok {
				delete(cm.clients, client.ID)
				close(client.Send)
			}
			cm.mutex.Unlock()
		}
	}
}

// Register registers a new client
func (cm *ConnectionManager) Register(client *Client) {
	cm.register <- client
}

// Unregister unregisters a client
func (cm *ConnectionManager) Unregister(client *Client) {
	cm.unregister <- client
}

// GetInstrumentClients returns clients watching a specific instrument
func (cm *ConnectionManager) GetInstrumentClients(instrumentID string) []*Client {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	var clients []*Client
	for _, client := range cm.clients {
		if client.InstrumentID != nil && *client.InstrumentID == instrumentID {
			clients = append(clients, client)
		}
	}
	return clients
}

// GetEventClients returns all event clients
func (cm *ConnectionManager) GetEventClients() []*Client {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	var clients []*Client
	for _, client := range cm.clients {
		if client.Type == "events" {
			clients = append(clients, client)
		}
	}
	return clients
}

// GetOperationClients returns all operation clients
func (cm *ConnectionManager) GetOperationClients() []*Client {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	var clients []*Client
	for _, client := range cm.clients {
		if client.Type == "operations" {
			clients = append(clients, client)
		}
	}
	return clients
}

// GetSessionClients returns clients following one capture session
func (cm *ConnectionManager) GetSessionClients(sessionID string) []*Client {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	var clients []*Client
	for _, client := range cm.clients {
		if client.SessionID != nil && *client.SessionID == sessionID {
			clients = append(clients, client)
		}
	}
	return clients
}

// GetStats returns connection statistics
func (cm *ConnectionManager) GetStats() *ConnectionStats {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	stats := &ConnectionStats{
		TotalConnections: len(cm.clients),
		ByType:           make(map[string]int),
		Clients:          make([]*Client, 0, len(cm.clients)),
	}

	for _, client := range cm.clients {
		stats.ByType[client.Type]++
		stats.Clients = append(stats.Clients, client)
	}

	return stats
}

// ConnectionStats represents connection statistics
type ConnectionStats struct {
	TotalConnections int            `json:"total_connections"`
	ByType           map[string]int `json:"by_type"`
	Clients          []*Client      `json:"clients"`
}
