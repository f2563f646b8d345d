package services

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxSettingsDisplayNameLength = 64

var (
	ErrSettingsDisplayNameTooLong    = errors.New("settings display name too long")
	ErrSettingsInvalidTelegramChatID = errors.New("settings telegram chat id invalid")
)

// Numeric ids cover private chats and groups; @names cover public channels.
var telegramChatIDPattern = regexp.MustCompile(`^(-?\d{1,20}|@[A-Za-z][A-Za-z0-9_]{4,31})$`)

func (service *SettingsService) NormalizeDisplayName(raw string) (string, error) {
	displayName := strings.TrimSpace(raw)
	if utf8.RuneCountInString(displayName) > maxSettingsDisplayNameLength {
		return "", ErrSettingsDisplayNameTooLong
	}
	return displayName, nil
}

// NormalizeTelegramChatID trims raw. An empty result switches Telegram
// delivery off for the user.
func (service *SettingsService) NormalizeTelegramChatID(raw string) (string, error) {
	chatID := strings.TrimSpace(raw)
	if chatID == "" {
		return "", nil
	}
	if !telegramChatIDPattern.MatchString(chatID) {
		return "", ErrSettingsInvalidTelegramChatID
	}
	return chatID, nil
}

func (service *SettingsService) ResolveProfileUpdateStatus(previousDisplayName string, updatedDisplayName string) string {
	status := "profile_updated"
	if strings.TrimSpace(previousDisplayName) != "" && updatedDisplayName == "" {
		status = "profile_name_cleared"
	}
	return status
}
