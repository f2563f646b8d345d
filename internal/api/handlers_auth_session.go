package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/medminder/internal/models"
	"github.com/terraincognita07/medminder/internal/services"
)

func (handler *Handler) Register(c *fiber.Ctx) error {
	credentials := credentialsInput{}
	if err := c.BodyParser(&credentials); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if credentials.ConfirmPassword != "" && strings.TrimSpace(credentials.ConfirmPassword) != strings.TrimSpace(credentials.Password) {
		return apiError(c, fiber.StatusBadRequest, "password mismatch")
	}

	user, err := handler.authService.Register(credentials.Email, credentials.Password)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrAuthCredentialsInvalid):
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	case errors.Is(err, services.ErrWeakPassword):
		return apiError(c, fiber.StatusBadRequest, "weak password")
	case errors.Is(err, services.ErrEmailAlreadyExists):
		return apiError(c, fiber.StatusConflict, "email already exists")
	default:
		handler.log.Error("register user", "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to create account")
	}

	token, err := handler.issueSession(c, &user, credentials.RememberMe)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	handler.log.Info("user registered", "user_id", user.ID)
	return c.Status(fiber.StatusCreated).JSON(sessionResponse(&user, token))
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	now := handler.now()
	limiterKey := requestLimiterKey(c)
	if handler.loginLimiter.blocked(limiterKey, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	credentials := credentialsInput{}
	if err := c.BodyParser(&credentials); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, err := handler.authService.Authenticate(credentials.Email, credentials.Password)
	if err != nil {
		handler.loginLimiter.addFailure(limiterKey, now)
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	}
	handler.loginLimiter.reset(limiterKey)

	token, err := handler.issueSession(c, &user, credentials.RememberMe)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.JSON(sessionResponse(&user, token))
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

func sessionResponse(user *models.User, token string) fiber.Map {
	return fiber.Map{
		"token": token,
		"user":  user,
	}
}
