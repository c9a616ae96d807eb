package middleware

import (
	"errors"
	"strings"

	"quizapp/backend/config"
	"quizapp/backend/models"
	"quizapp/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserKey is the locals key under which Protect stores the resolved user.
const UserKey = "user"

// Protect resolves the bearer token into a user and stores it in locals.
// When roles are given the user must hold one of them, otherwise 403.
// The token is read from the cookie first, then the Authorization header.
// Every request re-resolves the user against the database; there is no
// session cache.
func Protect(db *gorm.DB, cfg *config.Config, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return utils.FailWithCode(c, fiber.StatusUnauthorized, "Unauthorized", "NO_TOKEN")
		}

		userID, err := utils.VerifyJWTToken(token, cfg)
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				return utils.FailWithCode(c, fiber.StatusUnauthorized, "Token expired", "TOKEN_EXPIRED")
			}
			return utils.FailWithCode(c, fiber.StatusUnauthorized, "Unauthorized", "INVALID_TOKEN")
		}

		var user models.User
		if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
			return utils.FailWithCode(c, fiber.StatusUnauthorized, "Unauthorized", "USER_NOT_FOUND")
		}

		if len(roles) > 0 && !hasRole(user.Role, roles) {
			return utils.FailWithCode(c, fiber.StatusForbidden, "Forbidden", "NOT_ADMIN")
		}

		c.Locals(UserKey, &user)
		return c.Next()
	}
}

// CurrentUser returns the user attached by Protect.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(UserKey).(*models.User)
	return user
}

func extractToken(c *fiber.Ctx) string {
	if cookie := c.Cookies("token"); cookie != "" {
		return cookie
	}
	auth := c.Get("Authorization")
	if auth == "" {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}

func hasRole(role string, roles []string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
