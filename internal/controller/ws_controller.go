package controller

import (
	"os"

	"lecturelens-be/internal/pkg/logger"
	"lecturelens-be/internal/service"
	internalWS "lecturelens-be/internal/websocket"
	"lecturelens-be/pkg/presence"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type IWsController interface {
	RegisterRoutes(r fiber.Router)
	ServeWs(ctx *fiber.Ctx) error
}

type wsController struct {
	sessionService service.ISessionService
	hub            *internalWS.Hub
	presence       *presence.Tracker
	logger         logger.ILogger
}

func NewWsController(sessionService service.ISessionService, hub *internalWS.Hub, tracker *presence.Tracker, log logger.ILogger) IWsController {
	return &wsController{
		sessionService: sessionService,
		hub:            hub,
		presence:       tracker,
		logger:         log,
	}
}

func (c *wsController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ws/v1")
	h.Get("session/:id", c.ServeWs)
}

// ServeWs upgrades the connection and joins the caller to the session
// room. Browsers cannot set headers on the WebSocket handshake, so the
// token is also accepted as a query param.
func (c *wsController) ServeWs(ctx *fiber.Ctx) error {
	tokenStr := ctx.Query("token")
	if tokenStr == "" {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}

	if tokenStr == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (Query 'token' or Header 'Authorization')"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		c.logger.Warn("WsController", "Invalid token in WS handshake", map[string]interface{}{"error": err})
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token missing user_id"})
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID format in token"})
	}

	sessionID, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}

	// Ownership check before the upgrade. An unknown session and
	// someone else's session look identical to the caller.
	if _, err := c.sessionService.Show(ctx.Context(), userID, sessionID); err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}

	if websocket.IsWebSocketUpgrade(ctx) {
		return websocket.New(func(conn *websocket.Conn) {
			c.logger.Info("WsController", "Starting WebSocket session", map[string]interface{}{"user_id": userID, "session_id": sessionID})
			internalWS.ServeWs(c.hub, c.presence, conn, sessionID, userID)
			c.logger.Info("WsController", "WebSocket session ended", map[string]interface{}{"user_id": userID, "session_id": sessionID})
		})(ctx)
	}
	return fiber.ErrUpgradeRequired
}
