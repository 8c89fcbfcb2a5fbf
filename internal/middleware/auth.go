package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/arsalan-d/MomentumBack/pkg/utils"
)

// AuthRequired verifies the bearer token and stashes the caller's id and
// role in Locals, where handlers rebuild the Identity pair. Role is part of
// the key: user 7 and coach 7 are different principals.
func AuthRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			return unauthorized(c, "Missing or malformed authorization header")
		}

		claims, err := utils.ValidateToken(token, secret)
		if err != nil {
			return unauthorized(c, "Invalid or expired token")
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	fields := strings.Fields(c.Get(fiber.HeaderAuthorization))
	if len(fields) != 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", false
	}
	return fields[1], true
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": message})
}
