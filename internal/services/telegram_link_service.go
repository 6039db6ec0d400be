package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "valentina/internal/errors"
	"valentina/internal/models"
)

// telegramLinkService handles the account/Telegram identity mapping.
type telegramLinkService struct {
	db *gorm.DB
}

// NewTelegramLinkService creates a new LinkServicer.
func NewTelegramLinkService(db *gorm.DB) LinkServicer {
	return &telegramLinkService{db: db}
}

// GetLinkByUserID retrieves the link for an account.
func (s *telegramLinkService) GetLinkByUserID(userID string) (*models.TelegramLink, error) {
	var link models.TelegramLink
	if err := s.db.Where("user_id = ?", userID).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrLinkNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &link, nil
}

// UsernameExists reports whether a link row with this Telegram username
// already exists. Sign-up aborts when it does.
func (s *telegramLinkService) UsernameExists(username string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.TelegramLink{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

// CreateLink inserts the link row. Links are never mutated or deleted.
func (s *telegramLinkService) CreateLink(userID string, telegramID int64, username string) (*models.TelegramLink, error) {
	link := &models.TelegramLink{
		UserID:     userID,
		TelegramID: telegramID,
		Username:   username,
	}
	if err := s.db.Create(link).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return link, nil
}
