package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Hub tracks connected portal users and fans messages out to them.
type Hub struct {
	clients     map[*Client]bool
	userClients map[int64][]*Client
	Register    chan *Client
	unregister  chan *Client
	logger      *zap.Logger
	mu          sync.RWMutex
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:     make(map[*Client]bool),
		userClients: make(map[int64][]*Client),
		Register:    make(chan *Client),
		unregister:  make(chan *Client),
		logger:      logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.userClients[client.UserID] = append(h.userClients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Debug("websocket client connected", zap.Int64("userID", client.UserID))
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				conns := h.userClients[client.UserID]
				for i, c := range conns {
					if c == client {
						h.userClients[client.UserID] = append(conns[:i], conns[i+1:]...)
						break
					}
				}
				if len(h.userClients[client.UserID]) == 0 {
					delete(h.userClients, client.UserID)
				}
			}
			h.mu.Unlock()
			h.logger.Debug("websocket client disconnected", zap.Int64("userID", client.UserID))
		}
	}
}

// SendToUser pushes an envelope to every active connection of a user.
// Users without an open connection are silently skipped.
func (h *Hub) SendToUser(userID int64, messageType string, payload interface{}) error {
	envelope := Envelope{
		Type:      messageType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}

	raw, err := json.Marshal(envelope)
	if err != nil {
		h.logger.Error("failed to marshal websocket envelope", zap.Error(err))
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.userClients[userID] {
		select {
		case client.Send <- raw:
		default:
			// Slow consumer, drop the message rather than block the hub.
		}
	}
	return nil
}

// SendToUsers delivers the same payload to several users, e.g. everyone
// watching a ticket thread.
func (h *Hub) SendToUsers(userIDs []int64, messageType string, payload interface{}) {
	for _, id := range userIDs {
		_ = h.SendToUser(id, messageType, payload)
	}
}
