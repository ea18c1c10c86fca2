package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"healthguard-backend/internal/models"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *client) write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub pushes session events to the websocket clients watching that session.
// With Redis, events go through pub/sub so every instance serving a client
// of the session receives them; without it they fan out in process.
type Hub struct {
	mu          sync.RWMutex
	connections map[uuid.UUID][]*client
	cancelFuncs map[uuid.UUID]context.CancelFunc
	redisClient *redis.Client
	validate    func(uuid.UUID) error
	logger      *zap.SugaredLogger
}

// NewHub builds a hub. redisClient may be nil. validate rejects unknown
// sessions at upgrade time.
func NewHub(redisClient *redis.Client, validate func(uuid.UUID) error, logger *zap.SugaredLogger) *Hub {
	return &Hub{
		connections: make(map[uuid.UUID][]*client),
		cancelFuncs: make(map[uuid.UUID]context.CancelFunc),
		redisClient: redisClient,
		validate:    validate,
		logger:      logger,
	}
}

func channelName(sessionID uuid.UUID) string {
	return "session_updates:" + sessionID.String()
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.URL.Query().Get("session"))
	if err != nil {
		http.Error(w, "invalid session", http.StatusBadRequest)
		return
	}
	if h.validate != nil {
		if err := h.validate(sessionID); err != nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnw("WebSocket upgrade failed", "session", sessionID, "error", err)
		return
	}

	c := &client{conn: conn}
	h.registerConnection(sessionID, c)

	// Reads only detect disconnects; clients send nothing.
	go func() {
		defer h.unregisterConnection(sessionID, c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) registerConnection(sessionID uuid.UUID, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[sessionID] = append(h.connections[sessionID], c)

	if len(h.connections[sessionID]) == 1 && h.redisClient != nil {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancelFuncs[sessionID] = cancel
		go h.subscribeToPubSub(ctx, sessionID)
	}

	h.logger.Infow("WebSocket connected", "session", sessionID, "total", len(h.connections[sessionID]))
}

func (h *Hub) unregisterConnection(sessionID uuid.UUID, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c.conn.Close()

	conns := h.connections[sessionID]
	for i, existing := range conns {
		if existing == c {
			h.connections[sessionID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}

	if len(h.connections[sessionID]) == 0 {
		delete(h.connections, sessionID)
		if cancel, ok := h.cancelFuncs[sessionID]; ok {
			cancel()
			delete(h.cancelFuncs, sessionID)
		}
	}

	h.logger.Infow("WebSocket disconnected", "session", sessionID)
}

func (h *Hub) subscribeToPubSub(ctx context.Context, sessionID uuid.UUID) {
	pubsub := h.redisClient.Subscribe(ctx, channelName(sessionID))
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(sessionID, []byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(sessionID uuid.UUID, data []byte) {
	h.mu.RLock()
	clients := append([]*client(nil), h.connections[sessionID]...)
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.write(data); err != nil {
			h.logger.Warnw("WebSocket write failed", "session", sessionID, "error", err)
		}
	}
}

// Publish sends msg to every client of the session.
func (h *Hub) Publish(ctx context.Context, sessionID uuid.UUID, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Errorw("Failed to encode event", "type", msg.Type, "error", err)
		return
	}

	if h.redisClient == nil {
		h.broadcast(sessionID, data)
		return
	}
	if err := h.redisClient.Publish(ctx, channelName(sessionID), data).Err(); err != nil {
		h.logger.Warnw("Failed to publish event", "session", sessionID, "type", msg.Type, "error", err)
	}
}

func (h *Hub) Connections(sessionID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[sessionID])
}

// Close drops every subscription and connection.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, cancel := range h.cancelFuncs {
		cancel()
		delete(h.cancelFuncs, id)
	}
	for id, clients := range h.connections {
		for _, c := range clients {
			c.conn.Close()
		}
		delete(h.connections, id)
	}
}
