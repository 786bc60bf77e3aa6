package server

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

var (
	newline = []byte{'\n'}
	space   = []byte{' '}
)

// Rate limits per minute
type RateLimits struct {
	MaxTypingEvents int
	MaxReadMarkers  int
	MaxPingMessages int
}

var DefaultRateLimits = RateLimits{
	MaxTypingEvents: 60,
	MaxReadMarkers:  120,
	MaxPingMessages: 60,
}

// ClientRateLimiter tracks rate limits per client
type ClientRateLimiter struct {
	typingTokens int
	readTokens   int
	pingTokens   int
	lastRefill   time.Time
	mu           sync.Mutex
}

func NewClientRateLimiter() *ClientRateLimiter {
	return &ClientRateLimiter{
		typingTokens: DefaultRateLimits.MaxTypingEvents,
		readTokens:   DefaultRateLimits.MaxReadMarkers,
		pingTokens:   DefaultRateLimits.MaxPingMessages,
		lastRefill:   time.Now(),
	}
}

func (rl *ClientRateLimiter) Allow(msgType string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastRefill) >= time.Minute {
		rl.typingTokens = DefaultRateLimits.MaxTypingEvents
		rl.readTokens = DefaultRateLimits.MaxReadMarkers
		rl.pingTokens = DefaultRateLimits.MaxPingMessages
		rl.lastRefill = now
	}

	switch msgType {
	case "typing:start", "typing:stop":
		if rl.typingTokens > 0 {
			rl.typingTokens--
			return true
		}
	case "read":
		if rl.readTokens > 0 {
			rl.readTokens--
			return true
		}
	case "ping":
		if rl.pingTokens > 0 {
			rl.pingTokens--
			return true
		}
	}
	return false
}

// Client represents a single WebSocket connection
type Client struct {
	hub          *Hub
	conn         *websocket.Conn
	send         chan []byte
	userID       uuid.UUID
	clientID     string
	rateLimiter  *ClientRateLimiter
	connectedAt  time.Time
	lastActivity time.Time
	logger       *WebSocketLogger

	closeMu sync.Mutex
	closed  bool
}

// ClientMessage represents a message from the client
type ClientMessage struct {
	Type   string    `json:"type"`
	ChatID uuid.UUID `json:"chat_id,omitempty"`
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID, clientID string, logger *WebSocketLogger) *Client {
	now := time.Now()
	return &Client{
		hub:          hub,
		conn:         conn,
		send:         make(chan []byte, 256),
		userID:       userID,
		clientID:     clientID,
		rateLimiter:  NewClientRateLimiter(),
		connectedAt:  now,
		lastActivity: now,
		logger:       logger,
	}
}

// trySend queues data for the write pump. It reports false when the client
// is already closed or its buffer is full; the hub may evict a client while
// its read pump is still handling a frame, so writes to send must never race
// the close.
func (c *Client) trySend(data []byte) bool {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// close tears the client down exactly once.
func (c *Client) close() {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	if c.conn != nil {
		c.conn.Close()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		c.lastActivity = time.Now()
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("websocket unexpected close", c.userID, c.clientID, err)
			}
			break
		}

		message = bytes.TrimSpace(bytes.Replace(message, newline, space, -1))
		c.lastActivity = time.Now()

		if err := c.handleMessage(message); err != nil {
			c.logger.Error("websocket handle message failed", c.userID, c.clientID, err)
		}
	}
}

func (c *Client) handleMessage(message []byte) error {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		return err
	}

	if !c.rateLimiter.Allow(msg.Type) {
		c.logger.Warn("rate limit exceeded", c.userID, c.clientID, zap.String("msg_type", msg.Type))
		return nil
	}

	switch msg.Type {
	case "typing:start":
		return c.handleTyping(msg, true)
	case "typing:stop":
		return c.handleTyping(msg, false)
	case "read":
		return c.handleRead(msg)
	case "ping":
		return c.handlePing()
	default:
		c.logger.Warn("unknown message type", c.userID, c.clientID, zap.String("msg_type", msg.Type))
		return nil
	}
}

func (c *Client) handleTyping(msg ClientMessage, isTyping bool) error {
	if c.hub.typingService == nil {
		return nil
	}
	return c.hub.typingService.SetTyping(context.Background(), msg.ChatID, c.userID, isTyping)
}

func (c *Client) handleRead(msg ClientMessage) error {
	if c.hub.chatService == nil {
		return nil
	}
	return c.hub.chatService.MarkRead(context.Background(), msg.ChatID, c.userID)
}

func (c *Client) handlePing() error {
	c.trySend([]byte(`{"type":"pong"}`))
	return nil
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write(newline)
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

			if time.Since(c.lastActivity) > pongWait*2 {
				c.logger.Info("client idle timeout", c.userID, c.clientID)
				return
			}
		}
	}
}
