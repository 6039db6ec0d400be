package models

import "time"

// User represents an account. The Telegram* fields are the widget profile
// captured at sign-up and are never mutated afterwards.
type User struct {
	Base
	Email             string `gorm:"uniqueIndex;not null" json:"email"`
	Password          string `gorm:"not null" json:"-"`
	TelegramID        int64  `json:"telegram_id"`
	TelegramUsername  string `json:"telegram_username"`
	TelegramFirstName string `json:"telegram_first_name,omitempty"`
	TelegramPhotoURL  string `json:"telegram_photo_url,omitempty"`
	TelegramAuthDate  int64  `json:"-"`
	IsActive          bool   `gorm:"default:true" json:"is_active"`

	RefreshTokenHash    string     `gorm:"size:64" json:"-"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`

	Valentines []Valentine `gorm:"foreignKey:UserID" json:"valentines,omitempty"`
}
