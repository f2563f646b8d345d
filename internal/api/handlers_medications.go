package api

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/terraincognita07/medminder/internal/models"
	"github.com/terraincognita07/medminder/internal/services"
)

const maxUpcomingDoseLimit = 50

func (handler *Handler) ListMedications(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	medications, err := handler.medications.List(user.ID)
	if err != nil {
		return handler.medicationStorageError(c, user.ID, err)
	}
	return c.JSON(medicationsResponse(medications))
}

func (handler *Handler) AddMedication(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := medicationPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	medication, err := services.NormalizeMedicationInput(services.MedicationInput{
		ID:        payload.ID.String(),
		Name:      payload.Name,
		Dosage:    payload.Dosage,
		Frequency: payload.Frequency,
		Time:      payload.Time,
		Notes:     payload.Notes,
	})
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	if medication.ID == "" {
		medication.ID = models.MedicationID(uuid.NewString())
	}

	medications, err := handler.medications.Add(user.ID, medication)
	if errors.Is(err, services.ErrDuplicateMedicationID) {
		return apiError(c, fiber.StatusConflict, "medication id already exists")
	}
	if err != nil {
		return handler.medicationStorageError(c, user.ID, err)
	}
	response := medicationsResponse(medications)
	response["medication"] = medication
	return c.Status(fiber.StatusCreated).JSON(response)
}

func (handler *Handler) DeleteMedication(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	medications, err := handler.medications.Remove(user.ID, medicationIDParam(c))
	if err != nil {
		return handler.medicationStorageError(c, user.ID, err)
	}
	return c.JSON(medicationsResponse(medications))
}

func (handler *Handler) ToggleMedication(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	medications, err := handler.medications.ToggleTaken(user.ID, medicationIDParam(c))
	if err != nil {
		return handler.medicationStorageError(c, user.ID, err)
	}
	return c.JSON(medicationsResponse(medications))
}

func (handler *Handler) UpcomingDoses(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	limit, ok := parseUpcomingLimit(c.Query("limit"))
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid limit")
	}

	doses, err := handler.medications.Upcoming(user.ID, limit)
	if err != nil {
		return handler.medicationStorageError(c, user.ID, err)
	}
	if doses == nil {
		doses = []models.DoseInstance{}
	}
	return c.JSON(fiber.Map{"doses": doses})
}

func medicationIDParam(c *fiber.Ctx) models.MedicationID {
	return models.MedicationID(strings.TrimSpace(c.Params("id")))
}

func parseUpcomingLimit(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return services.DefaultUpcomingDoseLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, false
	}
	if limit > maxUpcomingDoseLimit {
		limit = maxUpcomingDoseLimit
	}
	return limit, true
}

func (handler *Handler) medicationStorageError(c *fiber.Ctx, userID uint, err error) error {
	handler.log.Error("medication storage", "user_id", userID, "error", err)
	return apiError(c, fiber.StatusInternalServerError, "failed to access medications")
}

func medicationsResponse(medications []models.Medication) fiber.Map {
	if medications == nil {
		medications = []models.Medication{}
	}
	return fiber.Map{"medications": medications}
}
