package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/hireos/hireos/internal/model"
	"github.com/hireos/hireos/internal/repository"
)

const (
	LocalUser = "authUser"
)

// Auth resolves the session to a user and their account. Every protected
// handler downstream reads the tenant scope from locals; a request that
// reaches a handler without it was a programming error, not a user one.
func Auth(users *repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies("session")
		if token == "" {
			header := c.Get("Authorization")
			token = strings.TrimPrefix(header, "Bearer ")
			if token == header {
				token = ""
			}
		}
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "no session")
		}

		user, err := users.FindBySessionToken(token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid session")
		}

		c.Locals(LocalUser, user)
		return c.Next()
	}
}

// UserFrom returns the authenticated user placed by Auth.
func UserFrom(c *fiber.Ctx) *model.User {
	user, _ := c.Locals(LocalUser).(*model.User)
	return user
}
