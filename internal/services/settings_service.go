package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/terraincognita07/medminder/internal/models"
	"github.com/terraincognita07/medminder/internal/security"
)

var (
	ErrSettingsPasswordMissing = errors.New("settings password missing")
	ErrSettingsPasswordInvalid = errors.New("settings password invalid")
	ErrUpdateProfileFailed     = errors.New("update profile failed")
	ErrDeleteAccountFailed     = errors.New("delete account failed")
)

type SettingsUserRepository interface {
	UpdateByID(userID uint, updates map[string]any) error
	DeleteAccount(userID uint) error
}

// MedicationPurger drops every medication stored for a user.
type MedicationPurger interface {
	Purge(userID uint) error
}

// ProfileUpdate carries the submitted profile fields. Nil fields keep their
// current value.
type ProfileUpdate struct {
	DisplayName      *string
	TelegramChatID   *string
	RemindersEnabled *bool
}

type SettingsService struct {
	users       SettingsUserRepository
	medications MedicationPurger
}

func NewSettingsService(users SettingsUserRepository, medications MedicationPurger) *SettingsService {
	return &SettingsService{users: users, medications: medications}
}

// UpdateProfile validates update, stores the changed columns and returns the
// user as it is now persisted together with the status code for the client.
func (service *SettingsService) UpdateProfile(user models.User, update ProfileUpdate) (models.User, string, error) {
	updates := make(map[string]any, 3)
	updated := user

	if update.DisplayName != nil {
		displayName, err := service.NormalizeDisplayName(*update.DisplayName)
		if err != nil {
			return user, "", err
		}
		updates["display_name"] = displayName
		updated.DisplayName = displayName
	}
	if update.TelegramChatID != nil {
		chatID, err := service.NormalizeTelegramChatID(*update.TelegramChatID)
		if err != nil {
			return user, "", err
		}
		updates["telegram_chat_id"] = chatID
		updated.TelegramChatID = chatID
	}
	if update.RemindersEnabled != nil {
		updates["reminders_enabled"] = *update.RemindersEnabled
		updated.RemindersEnabled = *update.RemindersEnabled
	}

	status := service.ResolveProfileUpdateStatus(user.DisplayName, updated.DisplayName)
	if len(updates) == 0 {
		return updated, status, nil
	}
	if err := service.users.UpdateByID(user.ID, updates); err != nil {
		return user, "", fmt.Errorf("%w: %v", ErrUpdateProfileFailed, err)
	}
	return updated, status, nil
}

func (service *SettingsService) ValidateDeleteAccountPassword(passwordHash string, rawPassword string) error {
	password := strings.TrimSpace(rawPassword)
	if password == "" {
		return ErrSettingsPasswordMissing
	}
	if !security.PasswordMatches(passwordHash, password) {
		return ErrSettingsPasswordInvalid
	}
	return nil
}

// DeleteAccount purges the user's medications, then removes the user row. A
// failed purge leaves the account in place.
func (service *SettingsService) DeleteAccount(userID uint) error {
	if service.medications != nil {
		if err := service.medications.Purge(userID); err != nil {
			return fmt.Errorf("%w: %v", ErrDeleteAccountFailed, err)
		}
	}
	if err := service.users.DeleteAccount(userID); err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteAccountFailed, err)
	}
	return nil
}
