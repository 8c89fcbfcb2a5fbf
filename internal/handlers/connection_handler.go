package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/arsalan-d/MomentumBack/internal/models"
	"github.com/arsalan-d/MomentumBack/internal/services"
)

type connectionApplicationService interface {
	RequestCoach(ctx context.Context, actor models.Identity, coachID int64) (*models.Connection, error)
	Decide(ctx context.Context, actor models.Identity, userID int64, status string) (*models.Connection, error)
	List(ctx context.Context, actor models.Identity) ([]models.Connection, error)
}

type ConnectionHandler struct {
	service connectionApplicationService
}

func NewConnectionHandler(service connectionApplicationService) *ConnectionHandler {
	return &ConnectionHandler{service: service}
}

type requestConnectionRequest struct {
	CoachID int64 `json:"coach_id"`
}

type decideConnectionRequest struct {
	Status string `json:"status"`
}

func (h *ConnectionHandler) RequestConnection(c *fiber.Ctx) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req requestConnectionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	connection, err := h.service.RequestCoach(c.Context(), caller, req.CoachID)
	if err != nil {
		return mapConnectionError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"connection": connection})
}

func (h *ConnectionHandler) DecideConnection(c *fiber.Ctx) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	userID, err := strconv.ParseInt(c.Params("userId"), 10, 64)
	if err != nil || userID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	var req decideConnectionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	connection, err := h.service.Decide(c.Context(), caller, userID, req.Status)
	if err != nil {
		return mapConnectionError(c, err)
	}

	return c.JSON(fiber.Map{"connection": connection})
}

func (h *ConnectionHandler) ListConnections(c *fiber.Ctx) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	connections, err := h.service.List(c.Context(), caller)
	if err != nil {
		return mapConnectionError(c, err)
	}

	return c.JSON(fiber.Map{"connections": connections})
}

func mapConnectionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).
			JSON(fiber.Map{"error": "Connection is already active"})
	case errors.Is(err, services.ErrCoachNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Coach not found"})
	case errors.Is(err, services.ErrConnectionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Connection not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to process connection request"})
	}
}
