package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"lecturelens-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "session_events"

// Hub routes live transcript and note updates to the viewers of each
// session. Sessions are rooms: every client watching a session receives the
// same stream. Redis pub/sub relays messages to rooms hosted on other
// instances.
type Hub struct {
	// SessionID -> connected viewers of that session
	rooms map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.rooms[client.SessionID] = append(h.rooms[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Viewer joined session", map[string]interface{}{
				"session_id": client.SessionID,
				"user_id":    client.UserID,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.SessionID]; ok {
				for i, c := range clients {
					if c == client {
						h.rooms[client.SessionID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.rooms[client.SessionID]) == 0 {
					delete(h.rooms, client.SessionID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToSession delivers an envelope to every viewer of the session,
// local and remote.
func (h *Hub) BroadcastToSession(sessionID uuid.UUID, messageType string, payload interface{}) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": messageType,
		"data": payload,
	})

	h.deliverLocal(sessionID, data)

	if h.rdb != nil {
		envelope, _ := json.Marshal(map[string]interface{}{
			"session_id": sessionID.String(),
			"message":    data,
		})
		h.rdb.Publish(context.Background(), clusterChannel, envelope)
	}
}

func (h *Hub) deliverLocal(sessionID uuid.UUID, data []byte) {
	h.mu.RLock()
	clients, ok := h.rooms[sessionID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Viewer send buffer full, dropping connection", map[string]interface{}{
				"session_id": sessionID,
				"user_id":    client.UserID,
			})
			h.unregister <- client
		}
	}
}

func (h *Hub) subscribeToRedis() {
	// Every instance subscribes to the same channel and delivers to the
	// session rooms it hosts; rooms it doesn't host are skipped.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload struct {
			SessionID string          `json:"session_id"`
			Message   json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		sid, err := uuid.Parse(payload.SessionID)
		if err != nil {
			continue
		}

		h.deliverLocal(sid, payload.Message)
	}
}
