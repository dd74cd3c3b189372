package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"predu/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
	sendBuffer     = 64
)

// Client represents a WebSocket connection client
type Client struct {
	ID      string
	Conn    *websocket.Conn
	Session *ClientSession

	send   chan []byte
	mu     sync.Mutex
	closed bool
}

func NewClient(id string, conn *websocket.Conn) *Client {
	return &Client{
		ID:   id,
		Conn: conn,
		send: make(chan []byte, sendBuffer),
	}
}

// Enqueue queues a frame for the write pump. Frames for a closed client, or
// beyond a full buffer, are dropped.
func (c *Client) Enqueue(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- message:
		return true
	default:
		logger.Warn("WebSocket: send buffer full for client %s, dropping frame", c.ID)
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Manager manages all active WebSocket connections
type Manager struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Register hands the client to the main loop. It returns false once the
// manager has stopped.
func (m *Manager) Register(c *Client) bool {
	select {
	case m.register <- c:
		return true
	case <-m.done:
		return false
	}
}

// Unregister is a no-op once the manager has stopped; shutdown already
// closed every client.
func (m *Manager) Unregister(c *Client) {
	select {
	case m.unregister <- c:
	case <-m.done:
	}
}

// Start runs the manager's main loop in a goroutine. Cancelling ctx closes
// every remaining connection.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		defer close(m.done)
		for {
			select {
			case client := <-m.register:
				m.mutex.Lock()
				m.clients[client.ID] = client
				m.mutex.Unlock()
				logger.Info("WebSocket: client registered: %s", client.ID)

			case client := <-m.unregister:
				m.mutex.Lock()
				if _, ok := m.clients[client.ID]; ok {
					delete(m.clients, client.ID)
					client.close()
				}
				m.mutex.Unlock()
				logger.Info("WebSocket: client unregistered: %s", client.ID)

			case <-ctx.Done():
				m.mutex.Lock()
				for id, client := range m.clients {
					client.Conn.Close()
					client.close()
					delete(m.clients, id)
				}
				m.mutex.Unlock()
				return
			}
		}
	}()
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients)
}

// ReadPump reads messages from the WebSocket connection until it fails, then
// tears the session down.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		if c.Session != nil {
			c.Session.Close()
		}
		m.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket: read error for %s: %v", c.ID, err)
			}
			break
		}

		if c.Session != nil {
			c.Session.HandleClientMessage(message)
		}
	}
}

// WritePump sends queued frames and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn("WebSocket: write error for %s: %v", c.ID, err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
