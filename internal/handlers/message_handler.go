package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/arsalan-d/MomentumBack/internal/models"
	"github.com/arsalan-d/MomentumBack/internal/services"
)

type messageApplicationService interface {
	ConversationWith(ctx context.Context, caller models.Identity, otherID int64) ([]models.MessageView, error)
	Contacts(ctx context.Context, caller models.Identity) ([]models.Contact, error)
}

type MessageHandler struct {
	service messageApplicationService
}

func NewMessageHandler(service messageApplicationService) *MessageHandler {
	return &MessageHandler{service: service}
}

// GetConversation serves the caller's full history with the other party.
// The other id is a coach id when the caller is a user and a user id when
// the caller is a coach. Serving history marks the received side as read.
func (h *MessageHandler) GetConversation(c *fiber.Ctx) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	otherID, err := strconv.ParseInt(c.Params("otherId"), 10, 64)
	if err != nil || otherID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid contact id"})
	}

	views, err := h.service.ConversationWith(c.Context(), caller, otherID)
	if err != nil {
		return mapMessageError(c, err)
	}

	return c.JSON(views)
}

func (h *MessageHandler) ListContacts(c *fiber.Ctx) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	contacts, err := h.service.Contacts(c.Context(), caller)
	if err != nil {
		return mapMessageError(c, err)
	}

	return c.JSON(fiber.Map{"contacts": contacts})
}

func mapMessageError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	default:
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to fetch messages"})
	}
}
