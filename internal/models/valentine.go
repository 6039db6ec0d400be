package models

// AnswerYes is the sentinel stored when a recipient answers a valentine.
// Answer stays NULL until then; there is no "no" value.
const AnswerYes = 1

// PlaceholderFileKey is the shared storage key used when a valentine is
// submitted without an attached image.
const PlaceholderFileKey = "default.gif"

// Valentine represents one sent greeting. RecipientTelegram is opaque
// `@handle` text; it is not resolved against Telegram until notification
// time. Only the answer field is ever mutated.
type Valentine struct {
	Base
	UserID            string `gorm:"type:uuid;index;not null" json:"user_id"`
	RecipientTelegram string `gorm:"index;not null" json:"recipient_telegram"`
	Message           string `gorm:"not null" json:"message"`
	File              string `gorm:"not null;default:'default.gif'" json:"file"`
	Answer            *int   `json:"answer,omitempty"`
}

// Answered reports whether the recipient has answered yes.
func (v *Valentine) Answered() bool {
	return v.Answer != nil && *v.Answer == AnswerYes
}
