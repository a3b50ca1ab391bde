package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/homechef/internal/config"
	"github.com/example/homechef/internal/models"
	"github.com/example/homechef/internal/utils"
)

const (
	userContextKey  = "currentUserID"
	roleContextKey  = "currentUserRole"
	tokenContextKey = "currentToken"
)

// AuthMiddleware validates bearer tokens and loads the authenticated user's ID
// and role into context. A token must both carry a valid signature and still
// exist in auth_tokens; logout deletes the record, revoking the token.
func AuthMiddleware(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		userID, err := utils.ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		var record models.AuthToken
		if err := db.Where("token = ? AND user_id = ?", parts[1], userID).
			First(&record).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "token revoked or unknown")
		}
		if record.ExpiresAt.Before(time.Now()) {
			return fiber.NewError(fiber.StatusUnauthorized, "token expired")
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "account not found")
		}

		c.Locals(userContextKey, userID)
		c.Locals(roleContextKey, user.Role)
		c.Locals(tokenContextKey, parts[1])
		return c.Next()
	}
}

// RequireRole rejects requests from accounts with a different role.
func RequireRole(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		current, ok := GetCurrentUserRole(c)
		if !ok || current != role {
			return fiber.NewError(fiber.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}

// GetCurrentUserID extracts the authenticated user ID from context.
func GetCurrentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	value := c.Locals(userContextKey)
	if value == nil {
		return uuid.Nil, false
	}

	if id, ok := value.(uuid.UUID); ok {
		return id, true
	}

	return uuid.Nil, false
}

// GetCurrentUserRole extracts the authenticated user's role from context.
func GetCurrentUserRole(c *fiber.Ctx) (models.Role, bool) {
	value := c.Locals(roleContextKey)
	if value == nil {
		return "", false
	}

	if role, ok := value.(models.Role); ok {
		return role, true
	}

	return "", false
}

// GetCurrentToken returns the raw bearer token used for this request.
func GetCurrentToken(c *fiber.Ctx) (string, bool) {
	value := c.Locals(tokenContextKey)
	if value == nil {
		return "", false
	}

	if token, ok := value.(string); ok {
		return token, true
	}

	return "", false
}
