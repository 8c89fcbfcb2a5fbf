package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/arsalan-d/MomentumBack/internal/models"
	chatws "github.com/arsalan-d/MomentumBack/internal/websocket"
	"github.com/arsalan-d/MomentumBack/pkg/utils"
)

type chatApplicationService interface {
	SendMessage(ctx context.Context, sender models.Identity, receiverID int64, content string) (*models.ChatMessage, error)
}

// ChatHandler owns the websocket side of messaging: authenticating the
// upgrade and handing the socket to the hub's pumps.
type ChatHandler struct {
	service   chatApplicationService
	hub       *chatws.Hub
	jwtSecret string
}

func NewChatHandler(service chatApplicationService, hub *chatws.Hub, jwtSecret string) *ChatHandler {
	return &ChatHandler{
		service:   service,
		hub:       hub,
		jwtSecret: jwtSecret,
	}
}

func (h *ChatHandler) WebSocketAuth(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).
			JSON(fiber.Map{"error": "WebSocket upgrade required"})
	}

	claims, err := h.parseWSClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"error": "Invalid or expired token"})
	}

	c.Locals("user_id", claims.UserID)
	c.Locals("role", claims.Role)
	return c.Next()
}

func (h *ChatHandler) HandleWebSocket(conn *websocket.Conn) {
	idStr, _ := conn.Locals("user_id").(string)
	role, _ := conn.Locals("role").(string)

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 || !models.ValidRole(role) {
		_ = conn.Close()
		return
	}

	client := chatws.NewClient(h.hub, conn, models.Identity{ID: id, Role: role})
	h.hub.Register(client)
	go client.WritePump()
	client.ReadPump(h.service)
}

func (h *ChatHandler) parseWSClaims(c *fiber.Ctx) (*utils.Claims, error) {
	tokenString := strings.TrimSpace(c.Query("token"))
	if tokenString == "" {
		authHeader := strings.TrimSpace(c.Get("Authorization"))
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
	}

	if tokenString == "" {
		return nil, errors.New("missing token")
	}

	return utils.ValidateToken(tokenString, h.jwtSecret)
}
