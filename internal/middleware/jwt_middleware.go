package middleware

import (
	"log"
	"strings"

	"lapak/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Locals keys under which the authenticated identity is stored.
const (
	LocalUserID  = "user_id"
	LocalIsAdmin = "is_admin"
)

// AuthRequired is a Fiber middleware that rejects requests without a valid
// bearer access token and stores the decoded identity in the context for
// downstream handlers.
func AuthRequired(tokens *services.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		claims, err := tokens.ParseAccessToken(parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalIsAdmin, claims.IsAdmin)

		return c.Next()
	}
}

// AdminRequired rejects authenticated callers that are not administrators.
// It must run after AuthRequired; a request that never passed the auth
// gate carries no identity and is rejected too.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isAdmin, ok := c.Locals(LocalIsAdmin).(bool)
		if !ok || !isAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Access denied",
			})
		}
		return c.Next()
	}
}

// UserID returns the authenticated caller's ID from the context.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}

// IsAdmin reports whether the authenticated caller is an administrator.
func IsAdmin(c *fiber.Ctx) bool {
	isAdmin, _ := c.Locals(LocalIsAdmin).(bool)
	return isAdmin
}
