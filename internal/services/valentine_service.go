package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "valentina/internal/errors"
	"valentina/internal/events"
	"valentina/internal/models"
	"valentina/internal/pagination"
	"valentina/internal/storage"
)

// valentineService handles the valentine lifecycle.
type valentineService struct {
	db    *gorm.DB
	store storage.Store
	hub   *events.Hub
}

// NewValentineService creates a new ValentineServicer.
func NewValentineService(db *gorm.DB, store storage.Store, hub *events.Hub) ValentineServicer {
	return &valentineService{db: db, store: store, hub: hub}
}

// uploadKey derives the storage key for an attached file from its original
// name and the submission time.
func uploadKey(name string, now time.Time) string {
	return fmt.Sprintf("%s-%s", name, now.UTC().Format(time.RFC3339))
}

// CreateValentine stores the attached image (if any) and persists the
// valentine row. Notification delivery is a separate, best-effort step that
// runs after this returns; its failure never removes the row.
func (s *valentineService) CreateValentine(userID, recipient, message string, upload *ValentineUpload) (*models.Valentine, error) {
	if message == "" || recipient == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "message and recipient are required")
	}

	fileKey := models.PlaceholderFileKey
	if upload != nil {
		fileKey = uploadKey(upload.Name, time.Now())
		if err := s.store.Save(fileKey, upload.Reader, false); err != nil {
			if errors.Is(err, storage.ErrObjectExists) {
				return nil, apperrors.Wrap(apperrors.ErrObjectExists, err)
			}
			return nil, apperrors.Wrap(apperrors.ErrUploadFailed, err)
		}
	}

	valentine := &models.Valentine{
		UserID:            userID,
		RecipientTelegram: recipient,
		Message:           message,
		File:              fileKey,
	}
	if err := s.db.Create(valentine).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.hub.Publish(*valentine)
	return valentine, nil
}

// GetValentineByID retrieves a single valentine.
func (s *valentineService) GetValentineByID(id string) (*models.Valentine, error) {
	var valentine models.Valentine
	if err := s.db.Where("id = ?", id).First(&valentine).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrValentineNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &valentine, nil
}

// ListSent returns valentines sent by the account, newest first.
func (s *valentineService) ListSent(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Valentine], error) {
	return s.list("user_id = ?", userID, page)
}

// ListReceived returns valentines addressed to the handle, newest first.
// The handle is compared in `@username` form, matching the initial fetch.
func (s *valentineService) ListReceived(handle string, page pagination.PageRequest) (*pagination.PageResponse[models.Valentine], error) {
	return s.list("recipient_telegram = ?", handle, page)
}

func (s *valentineService) list(cond, arg string, page pagination.PageRequest) (*pagination.PageResponse[models.Valentine], error) {
	page.Defaults()

	var total int64
	if err := s.db.Model(&models.Valentine{}).Where(cond, arg).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var valentines []models.Valentine
	if err := s.db.Where(cond, arg).
		Order("created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&valentines).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(valentines, page.Page, page.PageSize, total)
	return &resp, nil
}

// AnswerValentine records the fixed "yes" answer. Only a viewer who is not
// the sender may answer. The write is not rolled back if the follow-up
// notification fails.
func (s *valentineService) AnswerValentine(id, viewerID string) (*models.Valentine, error) {
	valentine, err := s.GetValentineByID(id)
	if err != nil {
		return nil, err
	}

	if valentine.UserID == viewerID {
		return nil, apperrors.ErrOwnValentine
	}

	answer := models.AnswerYes
	if err := s.db.Model(valentine).Update("answer", answer).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	valentine.Answer = &answer
	return valentine, nil
}
