package models

// TelegramLink maps an account to its Telegram identity. One row per user,
// created at sign-up completion and never mutated or deleted afterwards.
// Username uniqueness is what the registration flow checks before creating
// the account.
type TelegramLink struct {
	Base
	UserID     string `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	TelegramID int64  `gorm:"not null" json:"telegram_id"`
	Username   string `gorm:"uniqueIndex;not null" json:"username"`
	User       User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
