package websocket

import (
	"context"

	"lecturelens-be/pkg/presence"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs attaches a viewer connection to its session room and tracks its
// presence for the lifetime of the connection.
func ServeWs(hub *Hub, tracker *presence.Tracker, c *websocket.Conn, sessionID, userID uuid.UUID) {
	client := &Client{Hub: hub, Conn: c, SessionID: sessionID, UserID: userID, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	if tracker != nil {
		if count, err := tracker.Join(context.Background(), sessionID, userID); err == nil {
			hub.BroadcastToSession(sessionID, "presence", map[string]interface{}{"viewer_count": count})
		}
	}

	go client.writePump()
	client.readPump() // Run readPump in current goroutine (handler)

	if tracker != nil {
		if count, err := tracker.Leave(context.Background(), sessionID, userID); err == nil {
			hub.BroadcastToSession(sessionID, "presence", map[string]interface{}{"viewer_count": count})
		}
	}
}
