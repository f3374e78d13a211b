package websocket

import (
	"encoding/json"
	"sync"

	"github.com/gocomet/carpool/pkg/logger"
)

// Client types
const (
	ClientDashboard = "dashboard"
	ClientUser      = "user"
)

// Hub maintains active client connections and broadcasts ride updates
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	logger     *logger.Logger
}

// Message represents a WebSocket message
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// NewHub creates a new WebSocket hub
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     log.Named("ws"),
	}
}

// Run starts the hub's main loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("Client registered",
				logger.String("client_id", client.ID),
				logger.Alias(client.UserID),
				logger.String("client_type", client.UserType),
			)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.logger.Info("Client unregistered",
					logger.String("client_id", client.ID),
				)
			}
			h.mu.Unlock()

		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Stop ends Run and closes every client's send channel
func (h *Hub) Stop() {
	close(h.done)
}

// Register registers a new client. It is a no-op once the hub stopped.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister unregisters a client. It is a no-op once the hub stopped, so
// pumps exiting during shutdown never block.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Audience selects the clients a message goes to. A client matching more
// than one criterion still receives the message once.
type Audience struct {
	RideID     string // clients subscribed to this ride
	Alias      string // every connection of this user
	ClientType string // every client of this type
}

func (a Audience) includes(c *Client) bool {
	if a.RideID != "" && c.IsSubscribedToRide(a.RideID) {
		return true
	}
	if a.Alias != "" && c.UserID == a.Alias {
		return true
	}
	return a.ClientType != "" && c.UserType == a.ClientType
}

// Broadcast sends message to every client in audience and returns how many
// clients accepted it. Clients with a full buffer are skipped.
func (h *Hub) Broadcast(audience Audience, message Message) int {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("Failed to marshal broadcast message", logger.Err(err))
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := 0
	for client := range h.clients {
		if !audience.includes(client) {
			continue
		}
		select {
		case client.Send <- data:
			sent++
		default:
			h.logger.Warn("Failed to send message to client",
				logger.String("client_id", client.ID),
				logger.String("message_type", message.Type),
			)
		}
	}
	return sent
}

// GetActiveConnections returns the number of active connections
func (h *Hub) GetActiveConnections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
