package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/medminder/internal/models"
	"github.com/terraincognita07/medminder/internal/services"
)

func (handler *Handler) GetProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(fiber.Map{"profile": profileResponse(*user)})
}

func (handler *Handler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := profileInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	updated, status, err := handler.settings.UpdateProfile(*user, services.ProfileUpdate{
		DisplayName:      input.DisplayName,
		TelegramChatID:   input.TelegramChatID,
		RemindersEnabled: input.RemindersEnabled,
	})
	switch {
	case errors.Is(err, services.ErrSettingsDisplayNameTooLong):
		return apiError(c, fiber.StatusBadRequest, "display name too long")
	case errors.Is(err, services.ErrSettingsInvalidTelegramChatID):
		return apiError(c, fiber.StatusBadRequest, "invalid telegram chat id")
	case err != nil:
		handler.log.Error("update profile", "user_id", user.ID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to update profile")
	}

	c.Locals(contextUserKey, &updated)
	return c.JSON(fiber.Map{
		"ok":      true,
		"status":  status,
		"profile": profileResponse(updated),
	})
}

func profileResponse(user models.User) fiber.Map {
	return fiber.Map{
		"email":             user.Email,
		"display_name":      user.DisplayName,
		"telegram_chat_id":  user.TelegramChatID,
		"reminders_enabled": user.RemindersEnabled,
	}
}
