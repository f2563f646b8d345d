package api

import (
	"github.com/gofiber/fiber/v2"
)

var passwordChangeAllowedPaths = map[string]struct{}{
	"/api/auth/change-password": {},
	"/api/auth/logout":          {},
}

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	user, err := handler.authenticateRequest(c)
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	c.Locals(contextUserKey, user)
	if user.MustChangePassword {
		if _, allowed := passwordChangeAllowedPaths[c.Path()]; !allowed {
			return apiError(c, fiber.StatusForbidden, "password change required")
		}
	}
	return c.Next()
}
