package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/arsalan-d/MomentumBack/internal/models"
)

// callerIdentity rebuilds the authenticated identity the auth middleware
// stashed in Locals.
func callerIdentity(c *fiber.Ctx) (models.Identity, error) {
	role, ok := c.Locals("role").(string)
	if !ok || !models.ValidRole(role) {
		return models.Identity{}, strconv.ErrSyntax
	}

	idStr, ok := c.Locals("user_id").(string)
	if !ok {
		return models.Identity{}, strconv.ErrSyntax
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return models.Identity{}, strconv.ErrSyntax
	}

	return models.Identity{ID: id, Role: role}, nil
}
