package api

import (
	"github.com/terraincognita07/medminder/internal/db"
	"github.com/terraincognita07/medminder/internal/services"
	"gorm.io/gorm"
)

func (handler *Handler) withDependencies(database *gorm.DB, medications *services.MedicationService) *Handler {
	handler.repositories = db.NewRepositories(database)
	handler.authService = services.NewAuthService(handler.repositories.Users, handler.now)
	if medications == nil {
		medications = services.NewMedicationService(handler.repositories.KeyValues, handler.now, handler.log)
	}
	handler.medications = medications
	handler.settings = services.NewSettingsService(handler.repositories.Users, medications)
	return handler
}
