package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/nacara/nacara/internal/logging"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Send pings to peer with this period.
	pingPeriod = 54 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Client is one connected browser tab.
type Client struct {
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

// Hub keeps the live reload connections and fans messages out to them.
type Hub struct {
	clients    map[*websocket.Conn]*Client
	mutex      sync.RWMutex
	broadcast  chan []byte
	register   chan *Client
	unregister chan *websocket.Conn
	done       chan struct{}
	logger     logging.Logger
}

// NewHub creates a hub. Run must be called for it to deliver messages.
func NewHub(logger logging.Logger) *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]*Client),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		logger:     logger.WithComponent("livereload"),
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// Broadcast queues message for every client. The message is dropped when
// the queue is full.
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	case <-h.done:
	default:
		h.logger.Warn(context.Background(), nil, "Live reload queue full, message dropped")
	}
}

// Run delivers messages until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		h.mutex.Lock()
		for conn, client := range h.clients {
			close(client.send)
			conn.Close(websocket.StatusGoingAway, "server shutting down")
		}
		h.clients = make(map[*websocket.Conn]*Client)
		h.mutex.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client.conn] = client
			count := len(h.clients)
			h.mutex.Unlock()
			h.logger.Debug(ctx, "Client connected", "clients", count)

		case conn := <-h.unregister:
			h.mutex.Lock()
			if client, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				close(client.send)
			}
			count := len(h.clients)
			h.mutex.Unlock()
			h.logger.Debug(ctx, "Client disconnected", "clients", count)

		case message := <-h.broadcast:
			h.mutex.Lock()
			for conn, client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow client, drop it
					delete(h.clients, conn)
					close(client.send)
					conn.Close(websocket.StatusPolicyViolation, "too slow")
				}
			}
			h.mutex.Unlock()
		}
	}
}

// ServeHTTP upgrades the request to a live reload connection.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !checkOrigin(r) {
		http.Error(w, "Origin not allowed", http.StatusForbidden)
		return
	}

	// Origin already checked, loopback aliases included
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.logger.Warn(r.Context(), err, "WebSocket upgrade failed")
		return
	}

	client := &Client{
		conn: conn,
		send: make(chan []byte, 16),
		hub:  h,
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	go client.writePump()
	go client.readPump()
}

// checkOrigin accepts browsers on the page served by this server. The
// loopback names are interchangeable.
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return false
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if originURL.Scheme != "http" && originURL.Scheme != "https" {
		return false
	}

	return sameHost(originURL.Host, r.Host)
}

func sameHost(a, b string) bool {
	if strings.EqualFold(a, b) {
		return true
	}
	return strings.EqualFold(loopback(a), loopback(b))
}

func loopback(hostport string) string {
	for _, name := range []string{"localhost:", "127.0.0.1:", "[::1]:"} {
		if strings.HasPrefix(strings.ToLower(hostport), name) {
			return "loopback:" + hostport[len(name):]
		}
	}
	return hostport
}

// readPump drains the connection until the peer goes away
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c.conn:
		case <-c.hub.done:
		}
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMessageSize)

	for {
		_, _, err := c.conn.Read(context.Background())
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && status != -1 {
				c.hub.logger.Debug(context.Background(), "WebSocket closed", "status", status.String())
			}
			return
		}
	}
}

// writePump pumps messages to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Write(ctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
