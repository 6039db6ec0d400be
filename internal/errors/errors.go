// Package errors provides custom error types for the Valentina API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrAccountLocked      = &AppError{Code: "ACCOUNT_LOCKED", Message: "Account is temporarily locked", StatusCode: http.StatusLocked}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User & registration errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
	ErrUsernameTaken  = &AppError{Code: "USERNAME_TAKEN", Message: "A user with this username already exists", StatusCode: http.StatusConflict}
	ErrLinkNotFound   = &AppError{Code: "TELEGRAM_LINK_NOT_FOUND", Message: "Telegram link not found", StatusCode: http.StatusNotFound}
)

// Valentine errors.
var (
	ErrValentineNotFound = &AppError{Code: "VALENTINE_NOT_FOUND", Message: "Valentine not found", StatusCode: http.StatusNotFound}
	ErrOwnValentine      = &AppError{Code: "OWN_VALENTINE", Message: "You cannot answer your own valentine", StatusCode: http.StatusForbidden}
)

// Storage errors.
var (
	ErrObjectExists = &AppError{Code: "OBJECT_EXISTS", Message: "An object with this key already exists", StatusCode: http.StatusConflict}
	ErrUploadFailed = &AppError{Code: "UPLOAD_FAILED", Message: "Failed to store the uploaded file", StatusCode: http.StatusInternalServerError}
)

// Notification errors. These are non-fatal: the persisted record is never
// rolled back when a notification cannot be delivered.
var (
	ErrRecipientUnreachable = &AppError{Code: "RECIPIENT_UNREACHABLE", Message: "Recipient has never messaged the bot", StatusCode: http.StatusBadGateway}
	ErrNotificationFailed   = &AppError{Code: "NOTIFICATION_FAILED", Message: "Failed to deliver the Telegram notification", StatusCode: http.StatusBadGateway}
)
