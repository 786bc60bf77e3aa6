package server

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"warung-pos/internal/services"
	warung_errors "warung-pos/pkg/errors"
	"warung-pos/pkg/events"

	"github.com/google/uuid"
)

// Hub maintains the set of active clients and fans delta events out to them.
// Events scoped to a chat go to that chat's participants; unscoped events
// (profile and presence changes) go to every connected client.
type Hub struct {
	clients         map[uuid.UUID]map[string]*Client
	register        chan *Client
	unregister      chan *Client
	broadcast       chan *BroadcastMessage
	broker          events.Broker
	chatService     *services.ChatService
	typingService   *services.TypingService
	presenceService *services.PresenceService
	rateLimiter     *ConnectionRateLimiter
	logger          *WebSocketLogger
	mu              sync.RWMutex
	stopChan        chan struct{}
	isRunning       int32
}

// BroadcastMessage represents an event to fan out
type BroadcastMessage struct {
	UserIDs []uuid.UUID
	ChatID  *uuid.UUID
	Event   events.Event
}

// ConnectionRateLimiter tracks new connections per user
type ConnectionRateLimiter struct {
	connectionsPerUser map[uuid.UUID][]time.Time
	mu                 sync.Mutex
}

func NewConnectionRateLimiter() *ConnectionRateLimiter {
	crl := &ConnectionRateLimiter{
		connectionsPerUser: make(map[uuid.UUID][]time.Time),
	}
	go crl.cleanupLoop()
	return crl
}

func (w *ConnectionRateLimiter) AllowConnection(userID uuid.UUID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-1 * time.Minute)

	valid := []time.Time{}
	for _, t := range w.connectionsPerUser[userID] {
		if t.After(windowStart) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= 10 {
		return false
	}

	w.connectionsPerUser[userID] = append(valid, now)
	return true
}

func (w *ConnectionRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		w.cleanup()
	}
}

func (w *ConnectionRateLimiter) cleanup() {
	w.mu.Lock()
	defer w.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for userID, times := range w.connectionsPerUser {
		valid := []time.Time{}
		for _, t := range times {
			if t.After(cutoff) {
				valid = append(valid, t)
			}
		}
		if len(valid) == 0 {
			delete(w.connectionsPerUser, userID)
		} else {
			w.connectionsPerUser[userID] = valid
		}
	}
}

// AllowConnection reports whether the user may open another connection right
// now. Checked before the HTTP upgrade so a throttled caller gets a 429
// instead of a silently dropped socket.
func (h *Hub) AllowConnection(userID uuid.UUID) error {
	if !h.rateLimiter.AllowConnection(userID) {
		return warung_errors.ErrRateLimited
	}
	return nil
}

// NewHub creates a new Hub
func NewHub(
	broker events.Broker,
	chatService *services.ChatService,
	typingService *services.TypingService,
	presenceService *services.PresenceService,
) *Hub {
	return &Hub{
		clients:         make(map[uuid.UUID]map[string]*Client),
		register:        make(chan *Client, 256),
		unregister:      make(chan *Client, 256),
		broadcast:       make(chan *BroadcastMessage, 256),
		broker:          broker,
		chatService:     chatService,
		typingService:   typingService,
		presenceService: presenceService,
		rateLimiter:     NewConnectionRateLimiter(),
		logger:          NewWebSocketLogger(),
		stopChan:        make(chan struct{}),
	}
}

// Run starts the Hub
func (h *Hub) Run(ctx context.Context) {
	atomic.StoreInt32(&h.isRunning, 1)
	defer atomic.StoreInt32(&h.isRunning, 0)

	if h.broker != nil {
		_ = h.broker.Subscribe(ctx, services.EventsChannel, func(ctx context.Context, event events.Event) error {
			h.broadcast <- &BroadcastMessage{ChatID: event.ChatID, Event: event}
			return nil
		})
	}

	for {
		select {
		case client := <-h.register:
			h.handleRegister(client)

		case client := <-h.unregister:
			h.handleUnregister(client)

		case msg := <-h.broadcast:
			h.handleBroadcast(msg)

		case <-h.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) handleRegister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.userID] == nil {
		h.clients[client.userID] = make(map[string]*Client)
	}

	const maxConnectionsPerUser = 10
	if len(h.clients[client.userID]) >= maxConnectionsPerUser {
		h.logger.Warn("max connections per user reached", client.userID, client.clientID)
		for id, c := range h.clients[client.userID] {
			h.removeClient(c)
			delete(h.clients[client.userID], id)
			break
		}
	}

	firstConnection := len(h.clients[client.userID]) == 0
	h.clients[client.userID][client.clientID] = client

	if firstConnection && h.presenceService != nil {
		if err := h.presenceService.SetOnline(context.Background(), client.userID); err != nil {
			h.logger.Error("set online failed", client.userID, client.clientID, err)
		}
	}

	h.logger.Info("client connected", client.userID, client.clientID)

	go client.writePump()
	go client.readPump()
}

func (h *Hub) handleUnregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	userClients, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := userClients[client.clientID]; !ok {
		return
	}

	delete(userClients, client.clientID)
	h.removeClient(client)

	if len(userClients) == 0 {
		delete(h.clients, client.userID)
		if h.presenceService != nil {
			if err := h.presenceService.SetOffline(context.Background(), client.userID); err != nil {
				h.logger.Error("set offline failed", client.userID, client.clientID, err)
			}
		}
	}

	h.logger.Info("client disconnected", client.userID, client.clientID)
}

func (h *Hub) removeClient(client *Client) {
	client.close()
}

func (h *Hub) handleBroadcast(msg *BroadcastMessage) {
	data, err := json.Marshal(msg.Event)
	if err != nil {
		return
	}

	switch {
	case msg.ChatID != nil:
		// Resolve the recipient list fresh so a chat created moments ago
		// still reaches its members.
		participants, err := h.chatService.GetParticipants(context.Background(), *msg.ChatID)
		if err != nil {
			return
		}
		h.mu.RLock()
		for _, p := range participants {
			h.broadcastToUser(p.UserID, data)
		}
		h.mu.RUnlock()

	case len(msg.UserIDs) > 0:
		h.mu.RLock()
		for _, userID := range msg.UserIDs {
			h.broadcastToUser(userID, data)
		}
		h.mu.RUnlock()

	default:
		h.mu.RLock()
		for userID := range h.clients {
			h.broadcastToUser(userID, data)
		}
		h.mu.RUnlock()
	}
}

func (h *Hub) broadcastToUser(userID uuid.UUID, data []byte) {
	if userClients, ok := h.clients[userID]; ok {
		for _, client := range userClients {
			if !client.trySend(data) {
				h.logger.Warn("client send dropped", client.userID, client.clientID)
			}
		}
	}
}

// Stop gracefully shuts down the Hub
func (h *Hub) Stop() {
	close(h.stopChan)

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, userClients := range h.clients {
		for _, client := range userClients {
			h.removeClient(client)
		}
	}
	h.clients = make(map[uuid.UUID]map[string]*Client)
}
