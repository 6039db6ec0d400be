package services

import (
	"io"

	"valentina/internal/models"
	"valentina/internal/pagination"
)

// TelegramProfile is the payload the Telegram login widget hands to its
// callback. It is the only source of a user's external identity.
type TelegramProfile struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	PhotoURL  string `json:"photo_url"`
	AuthDate  int64  `json:"auth_date"`
	Hash      string `json:"hash"`
}

// BotAPI is the outbound Telegram surface used by notification workflows.
type BotAPI interface {
	SendMessage(chatID int64, text string) (messageID int, err error)
	PinMessage(chatID int64, messageID int) error
	FindRecentChat(handle string) (chatID int64, username string, found bool, err error)
}

// UserServicer defines the contract for account-related business logic.
type UserServicer interface {
	// RegisterWithTelegram runs the sign-up flow and returns the created
	// user together with the generated plaintext password.
	RegisterWithTelegram(email string, profile TelegramProfile) (*models.User, string, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
	ClearRefreshTokenHash(userID string) error
}

// LinkServicer defines the contract for the account/Telegram identity mapping.
type LinkServicer interface {
	GetLinkByUserID(userID string) (*models.TelegramLink, error)
	UsernameExists(username string) (bool, error)
	CreateLink(userID string, telegramID int64, username string) (*models.TelegramLink, error)
}

// ValentineUpload is an attached image handed to the submission workflow.
type ValentineUpload struct {
	Name   string
	Reader io.Reader
}

// ValentineServicer defines the contract for the valentine lifecycle.
type ValentineServicer interface {
	CreateValentine(userID, recipient, message string, upload *ValentineUpload) (*models.Valentine, error)
	GetValentineByID(id string) (*models.Valentine, error)
	ListSent(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Valentine], error)
	ListReceived(handle string, page pagination.PageRequest) (*pagination.PageResponse[models.Valentine], error)
	AnswerValentine(id, viewerID string) (*models.Valentine, error)
}

// NotificationServicer defines the contract for outbound Telegram
// notifications. All of these run after the primary persistence step and
// never cause it to roll back.
type NotificationServicer interface {
	SendWelcome(profile TelegramProfile, password string) error
	NotifyValentine(v *models.Valentine, sender *models.User) error
	NotifyAnswered(v *models.Valentine) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
