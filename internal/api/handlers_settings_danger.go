package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/medminder/internal/services"
)

func (handler *Handler) DeleteAccount(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := deleteAccountInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid password")
	}

	switch err := handler.settings.ValidateDeleteAccountPassword(user.PasswordHash, input.Password); {
	case errors.Is(err, services.ErrSettingsPasswordMissing):
		return apiError(c, fiber.StatusBadRequest, "invalid password")
	case errors.Is(err, services.ErrSettingsPasswordInvalid):
		return apiError(c, fiber.StatusUnauthorized, "invalid password")
	}

	if err := handler.settings.DeleteAccount(user.ID); err != nil {
		handler.log.Error("delete account", "user_id", user.ID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to delete account")
	}

	handler.clearAuthCookie(c)
	handler.log.Info("account deleted", "user_id", user.ID)
	return c.JSON(fiber.Map{"ok": true})
}
