package models

import "time"

type User struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Email              string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash       string    `gorm:"not null" json:"-"`
	MustChangePassword bool      `gorm:"not null;default:false" json:"must_change_password"`
	DisplayName        string    `gorm:"not null;default:''" json:"display_name"`
	TelegramChatID     string    `gorm:"not null;default:''" json:"telegram_chat_id"`
	RemindersEnabled   bool      `gorm:"not null;default:true" json:"reminders_enabled"`
	CreatedAt          time.Time `gorm:"not null" json:"created_at"`
}
