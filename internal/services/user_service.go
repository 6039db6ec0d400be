package services

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "valentina/internal/errors"
	"valentina/internal/logger"
	"valentina/internal/models"
)

const (
	maxFailedLogins = 5
	lockoutDuration = 15 * time.Minute
)

// userService handles account-related business logic.
type userService struct {
	db    *gorm.DB
	links LinkServicer
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB, links LinkServicer) UserServicer {
	return &userService{db: db, links: links}
}

// temporaryPassword derives the deterministic initial credential from the
// widget profile's hash field: hex(sha256(hash)) truncated to 6 characters.
func temporaryPassword(profileHash string) string {
	digest := sha256.Sum256([]byte(profileHash))
	return hex.EncodeToString(digest[:])[:6]
}

// RegisterWithTelegram runs the sign-up flow: username uniqueness check,
// password generation, account creation, identity link creation. Each step
// aborts the remainder on failure; there is no compensating rollback for
// steps that already completed.
func (s *userService) RegisterWithTelegram(email string, profile TelegramProfile) (*models.User, string, error) {
	if email == "" || profile.Username == "" || profile.Hash == "" {
		return nil, "", apperrors.WithMessage(apperrors.ErrInvalidInput, "email and telegram profile are required")
	}

	taken, err := s.links.UsernameExists(profile.Username)
	if err != nil {
		return nil, "", err
	}
	if taken {
		return nil, "", apperrors.ErrUsernameTaken
	}

	var count int64
	if err := s.db.Model(&models.User{}).
		Where("email = ?", strings.ToLower(email)).
		Count(&count).Error; err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, "", apperrors.ErrDuplicateEmail
	}

	password := temporaryPassword(profile.Hash)
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Email:             strings.ToLower(email),
		Password:          string(hashedPassword),
		TelegramID:        profile.ID,
		TelegramUsername:  profile.Username,
		TelegramFirstName: profile.FirstName,
		TelegramPhotoURL:  profile.PhotoURL,
		TelegramAuthDate:  profile.AuthDate,
		IsActive:          true,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Link row is built from the stored account metadata, not the request.
	if _, err := s.links.CreateLink(user.ID, user.TelegramID, user.TelegramUsername); err != nil {
		return nil, "", err
	}

	return user, password, nil
}

// GetUserByEmail retrieves an active user by email
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ? AND is_active = ?", strings.ToLower(email), true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// AttemptLogin authenticates a user, tracking failed attempts and locking
// the account after too many.
func (s *userService) AttemptLogin(email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.LockedUntil != nil && time.Now().Before(*user.LockedUntil) {
		return nil, apperrors.ErrAccountLocked
	}

	if !s.VerifyPassword(user, password) {
		attempts := user.FailedLoginAttempts + 1
		updates := map[string]interface{}{"failed_login_attempts": attempts}
		if attempts >= maxFailedLogins {
			updates["locked_until"] = time.Now().Add(lockoutDuration)
			updates["failed_login_attempts"] = 0
		}
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			logger.Get().Errorw("failed to record failed login attempt",
				"user_id", user.ID,
				"error", err,
			)
		}
		return nil, apperrors.ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.db.Model(user).Updates(map[string]interface{}{
		"failed_login_attempts": 0,
		"locked_until":          nil,
		"last_login_at":         now,
	}).Error; err != nil {
		logger.Get().Errorw("failed to reset login attempt counters",
			"user_id", user.ID,
			"error", err,
		)
	}
	user.LastLoginAt = &now
	return user, nil
}

// VerifyPassword checks if the provided password matches the stored hash
func (s *userService) VerifyPassword(user *models.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	return err == nil
}

// StoreRefreshTokenHash persists the hash of the user's current refresh token.
func (s *userService) StoreRefreshTokenHash(userID, tokenHash string) error {
	if err := s.db.Model(&models.User{}).Where("id = ?", userID).
		Update("refresh_token_hash", tokenHash).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetRefreshTokenHash returns the stored refresh token hash for the user.
func (s *userService) GetRefreshTokenHash(userID string) (string, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return "", err
	}
	return user.RefreshTokenHash, nil
}

// ClearRefreshTokenHash invalidates the user's refresh token on sign-out.
func (s *userService) ClearRefreshTokenHash(userID string) error {
	return s.StoreRefreshTokenHash(userID, "")
}
