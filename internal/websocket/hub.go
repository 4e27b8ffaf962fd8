package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"proddash/internal/config"
	"proddash/internal/infrastructure"
)

// Message types pushed to browsers
const (
	TypeConnection = "connection"
	TypeDataUpdate = "data_update"
)

// Message is the envelope of every frame the hub sends.
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// Hub maintains the set of active clients and broadcasts messages to the clients
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	cfg      config.WebSocketConfig
	origins  []string
	upgrader websocket.Upgrader
	metrics  *infrastructure.DashboardMetrics
	logger   *slog.Logger

	totalConnections int64
	messagesSent     int64
	messagesDropped  int64

	// Control
	quit    chan struct{}
	done    chan struct{}
	running bool
}

// NewHub creates a hub. allowedOrigins lists browser origins accepted on
// upgrade besides the server's own host; metrics may be nil.
func NewHub(cfg config.WebSocketConfig, allowedOrigins []string, metrics *infrastructure.DashboardMetrics, logger *slog.Logger) *Hub {
	defaults := config.Default().WebSocket
	if cfg.PingPeriod <= 0 {
		cfg.PingPeriod = defaults.PingPeriod
	}
	if cfg.PongWait <= cfg.PingPeriod {
		cfg.PongWait = cfg.PingPeriod * 2
	}
	if cfg.WriteWait <= 0 {
		cfg.WriteWait = defaults.WriteWait
	}

	h := &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		cfg:        cfg,
		origins:    allowedOrigins,
		metrics:    metrics,
		logger:     infrastructure.WithComponent(logger, "websocket.hub"),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// Start starts the hub loop. Calling it twice has no effect.
func (h *Hub) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return
	}
	h.running = true
	go h.run()
}

// Running reports whether the hub loop is active.
func (h *Hub) Running() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.running
}

func (h *Hub) run() {
	defer close(h.done)

	for {
		select {
		case <-h.quit:
			h.logger.Info("Hub shutting down")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.totalConnections++
			count := len(h.clients)
			h.mu.Unlock()

			ctx := client.context()
			h.metrics.AddWebSocketClients(ctx, 1)
			h.logger.InfoContext(ctx, "Client registered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr))

			if msg, err := h.encode(TypeConnection, map[string]string{
				"status":    "connected",
				"client_id": client.id,
			}, client.traceID); err == nil {
				select {
				case client.send <- msg:
				default:
					h.logger.WarnContext(ctx, "Failed to send connection message - client buffer full",
						slog.String("client_id", client.id))
				}
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				h.removeLocked(client)
				count := len(h.clients)
				h.mu.Unlock()

				h.logger.InfoContext(client.context(), "Client unregistered",
					slog.Int("total_clients", count),
					slog.String("client_id", client.id),
					slog.Duration("connection_duration", time.Since(client.connectedAt)))
			} else {
				h.mu.Unlock()
			}

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					h.messagesSent++
				default:
					// A client that cannot keep up is dropped; the browser
					// reconnects and reloads.
					h.messagesDropped++
					h.removeLocked(client)
					h.logger.Warn("Dropped slow client", slog.String("client_id", client.id))
				}
			}
			h.mu.Unlock()
		}
	}
}

// removeLocked closes the client's queue. h.mu must be held.
func (h *Hub) removeLocked(client *Client) {
	delete(h.clients, client)
	close(client.send)
	h.metrics.AddWebSocketClients(context.Background(), -1)
}

// Register adds a client. It returns false if the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client. It is safe to call after Stop.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast sends one message to every client. It drops the message when the
// hub is not running.
func (h *Hub) Broadcast(messageType string, data interface{}) {
	if !h.Running() {
		return
	}
	msg, err := h.encode(messageType, data, "")
	if err != nil {
		h.logger.Error("Error marshaling broadcast message",
			slog.String("type", messageType),
			slog.String("error", err.Error()))
		return
	}

	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

func (h *Hub) encode(messageType string, data interface{}, traceID string) ([]byte, error) {
	return json.Marshal(Message{
		Type:      messageType,
		Data:      data,
		Timestamp: time.Now().Format(time.RFC3339),
		TraceID:   traceID,
	})
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stats returns hub counters for the status endpoint.
func (h *Hub) Stats() map[string]interface{} {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return map[string]interface{}{
		"active_clients":    len(h.clients),
		"total_connections": h.totalConnections,
		"messages_sent":     h.messagesSent,
		"messages_dropped":  h.messagesDropped,
	}
}

// Stop ends the hub loop and closes every client queue, which makes each
// write pump send a close frame.
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.quit)
	<-h.done

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		h.removeLocked(client)
	}
}

// ServeHTTP upgrades the request and attaches a client to the hub.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := infrastructure.EnsureTraceID(r.Context())
	traceID := infrastructure.GetTraceID(ctx)

	if !h.Running() {
		http.Error(w, "live updates unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already written the error response.
		h.logger.WarnContext(ctx, "WebSocket upgrade failed",
			slog.String("error", err.Error()),
			slog.String("origin", r.Header.Get("Origin")))
		return
	}

	client := NewClient(h, conn, traceID, h.logger)
	if !h.Register(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

// checkOrigin accepts requests without an Origin header, same-host origins
// and the configured allow list. "*" allows everything.
func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || origin == "http://"+r.Host || origin == "https://"+r.Host {
		return true
	}
	for _, allowed := range h.origins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	h.logger.WarnContext(r.Context(), "WebSocket origin check - origin not allowed",
		slog.String("origin", origin),
		slog.Any("allowed_origins", h.origins))
	return false
}
