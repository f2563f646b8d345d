package api

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/medminder/internal/services"
)

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (handler *Handler) BMI(c *fiber.Ctx) error {
	weight, weightErr := strconv.ParseFloat(strings.TrimSpace(c.Query("weight")), 64)
	height, heightErr := strconv.ParseFloat(strings.TrimSpace(c.Query("height")), 64)
	if weightErr != nil || heightErr != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid body measurement")
	}

	bmi, err := services.CalculateBMI(weight, height)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(fiber.Map{
		"bmi":      bmi,
		"category": services.BMICategory(bmi),
	})
}

func (handler *Handler) HealthScore(c *fiber.Ctx) error {
	payload := healthScorePayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	return c.JSON(fiber.Map{
		"score":   services.HealthScore(payload.Metrics),
		"average": services.Average(payload.History),
	})
}

func (handler *Handler) NotFound(c *fiber.Ctx) error {
	return apiError(c, fiber.StatusNotFound, "not found")
}
