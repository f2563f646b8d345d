package api

import "github.com/terraincognita07/medminder/internal/models"

type credentialsInput struct {
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
	RememberMe      bool   `json:"remember_me" form:"remember_me"`
}

type changePasswordInput struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

type profileInput struct {
	DisplayName      *string `json:"display_name" form:"display_name"`
	TelegramChatID   *string `json:"telegram_chat_id" form:"telegram_chat_id"`
	RemindersEnabled *bool   `json:"reminders_enabled" form:"reminders_enabled"`
}

type deleteAccountInput struct {
	Password string `json:"password" form:"password"`
}

type medicationPayload struct {
	ID        models.MedicationID `json:"id" form:"id"`
	Name      string              `json:"name" form:"name"`
	Dosage    string              `json:"dosage" form:"dosage"`
	Frequency string              `json:"frequency" form:"frequency"`
	Time      string              `json:"time" form:"time"`
	Notes     string              `json:"notes" form:"notes"`
}

type healthScorePayload struct {
	Metrics map[string]float64 `json:"metrics"`
	History []float64          `json:"history"`
}
