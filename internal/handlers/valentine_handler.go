package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "valentina/internal/errors"
	"valentina/internal/events"
	"valentina/internal/models"
	"valentina/internal/pagination"
	"valentina/internal/services"
	"valentina/internal/storage"
)

// streamBuffer is the per-subscriber event buffer; a subscriber that falls
// this far behind misses events rather than blocking the write path.
const streamBuffer = 16

// ValentineHandler handles valentine-related requests.
type ValentineHandler struct {
	valentineService services.ValentineServicer
	userService      services.UserServicer
	linkService      services.LinkServicer
	notifications    services.NotificationServicer
	auditService     services.AuditServicer
	store            storage.Store
	hub              *events.Hub
}

// NewValentineHandler creates a new ValentineHandler.
func NewValentineHandler(
	valentineService services.ValentineServicer,
	userService services.UserServicer,
	linkService services.LinkServicer,
	notifications services.NotificationServicer,
	auditService services.AuditServicer,
	store storage.Store,
	hub *events.Hub,
) *ValentineHandler {
	return &ValentineHandler{
		valentineService: valentineService,
		userService:      userService,
		linkService:      linkService,
		notifications:    notifications,
		auditService:     auditService,
		store:            store,
		hub:              hub,
	}
}

// CreateValentineRequest represents the multipart submission fields.
type CreateValentineRequest struct {
	Message           string `form:"message" binding:"required"`
	RecipientTelegram string `form:"recipient_telegram" binding:"required,telegram_handle"`
}

// ValentineResponse represents a valentine in API responses.
type ValentineResponse struct {
	ID                string `json:"id"`
	UserID            string `json:"user_id"`
	RecipientTelegram string `json:"recipient_telegram"`
	Message           string `json:"message"`
	File              string `json:"file"`
	FileURL           string `json:"file_url"`
	Answer            *int   `json:"answer,omitempty"`
	CreatedAt         string `json:"created_at"`
}

// NotificationResult reports the outcome of the best-effort delivery step,
// separately from the persistence result.
type NotificationResult struct {
	Delivered bool         `json:"delivered"`
	Error     *ErrorDetail `json:"error,omitempty"`
}

func (h *ValentineHandler) toResponse(v *models.Valentine) ValentineResponse {
	return ValentineResponse{
		ID:                v.ID,
		UserID:            v.UserID,
		RecipientTelegram: v.RecipientTelegram,
		Message:           v.Message,
		File:              v.File,
		FileURL:           h.store.URL(v.File),
		Answer:            v.Answer,
		CreatedAt:         v.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *ValentineHandler) toResponsePage(page *pagination.PageResponse[models.Valentine]) pagination.PageResponse[ValentineResponse] {
	data := make([]ValentineResponse, 0, len(page.Data))
	for i := range page.Data {
		data = append(data, h.toResponse(&page.Data[i]))
	}
	return pagination.PageResponse[ValentineResponse]{
		Data:       data,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
	}
}

func notificationResult(err error) NotificationResult {
	if err == nil {
		return NotificationResult{Delivered: true}
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return NotificationResult{Delivered: false, Error: &ErrorDetail{Code: appErr.Code, Message: appErr.Message}}
	}
	return NotificationResult{Delivered: false, Error: &ErrorDetail{
		Code:    apperrors.ErrNotificationFailed.Code,
		Message: apperrors.ErrNotificationFailed.Message,
	}}
}

// Create handles valentine submission
// @Summary     Send a valentine
// @Description Store an optional image, persist the valentine, then attempt Telegram delivery. Delivery failure does not undo persistence; the response carries a separate notification outcome.
// @Tags        valentines
// @Accept      mpfd
// @Produce     json
// @Security    BearerAuth
// @Param       message formData string true "Message text"
// @Param       recipient_telegram formData string true "Recipient handle, @handle form"
// @Param       file formData file false "Attached image or gif"
// @Success     201 {object} object "Valentine persisted, with notification outcome"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Storage or database error"
// @Router      /valentines [post]
func (h *ValentineHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateValentineRequest
	if err := c.ShouldBind(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var upload *services.ValentineUpload
	fileHeader, err := c.FormFile("file")
	switch {
	case err == nil:
		f, openErr := fileHeader.Open()
		if openErr != nil {
			respondWithError(c, apperrors.Wrap(apperrors.ErrUploadFailed, openErr))
			return
		}
		defer f.Close()
		upload = &services.ValentineUpload{Name: fileHeader.Filename, Reader: f}
	case errors.Is(err, http.ErrMissingFile):
		// No attachment: the shared placeholder is used.
	default:
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	valentine, err := h.valentineService.CreateValentine(userID, req.RecipientTelegram, req.Message, upload)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_VALENTINE", "valentine", valentine.ID, c.ClientIP(), nil)

	sender, err := h.userService.GetUserByID(userID)
	var notifyErr error
	if err != nil {
		notifyErr = err
	} else {
		notifyErr = h.notifications.NotifyValentine(valentine, sender)
	}

	c.JSON(http.StatusCreated, gin.H{
		"valentine":    h.toResponse(valentine),
		"notification": notificationResult(notifyErr),
	})
}

// ListSent returns valentines sent by the current user
// @Summary     List sent valentines
// @Description List valentines sent by the authenticated user, newest first
// @Tags        valentines
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} object "Paginated valentines"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /valentines/sent [get]
func (h *ValentineHandler) ListSent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.valentineService.ListSent(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.toResponsePage(result))
}

// ListReceived returns valentines addressed to the current user's handle
// @Summary     List received valentines
// @Description List valentines addressed to the authenticated user's linked Telegram handle, newest first
// @Tags        valentines
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} object "Paginated valentines"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No Telegram link"
// @Router      /valentines/received [get]
func (h *ValentineHandler) ListReceived(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	link, err := h.linkService.GetLinkByUserID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.valentineService.ListReceived("@"+link.Username, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.toResponsePage(result))
}

// GetByID returns one valentine (public detail page)
// @Summary     Get a valentine
// @Description Get a valentine by ID. can_answer is false only for the sender viewing their own valentine.
// @Tags        valentines
// @Produce     json
// @Param       id path string true "Valentine ID"
// @Success     200 {object} object "Valentine with answer affordance flag"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /valentines/{id} [get]
func (h *ValentineHandler) GetByID(c *gin.Context) {
	id, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	valentine, err := h.valentineService.GetValentineByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valentine":  h.toResponse(valentine),
		"can_answer": valentine.UserID != viewerID(c),
	})
}

// Answer records the "yes" answer on a valentine
// @Summary     Answer a valentine
// @Description Record the affirmative answer and notify the sender. Forbidden for the sender. The answer stays recorded even when the notification fails.
// @Tags        valentines
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Valentine ID"
// @Success     200 {object} object "Answer recorded, with notification outcome"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Sender cannot answer"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /valentines/{id}/answer [post]
func (h *ValentineHandler) Answer(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	valentine, err := h.valentineService.AnswerValentine(id, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "ANSWER_VALENTINE", "valentine", valentine.ID, c.ClientIP(), nil)

	notifyErr := h.notifications.NotifyAnswered(valentine)

	c.JSON(http.StatusOK, gin.H{
		"valentine":    h.toResponse(valentine),
		"notification": notificationResult(notifyErr),
	})
}

// Stream pushes inserted valentines matching the current user over SSE
// @Summary     Live valentine stream
// @Description Server-Sent Events stream: a `sent` event for each inserted valentine sent by the user, a `received` event for each one addressed to the user's linked handle. Closed when the client disconnects.
// @Tags        valentines
// @Produce     text/event-stream
// @Security    BearerAuth
// @Success     200 {string} string "Event stream"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /valentines/stream [get]
func (h *ValentineHandler) Stream(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	link, err := h.linkService.GetLinkByUserID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	handle := "@" + link.Username

	sub := h.hub.Subscribe(streamBuffer)
	defer h.hub.Unsubscribe(sub)

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case v, ok := <-sub.C:
			if !ok {
				return false
			}
			// The received filter matches the linked handle, consistent
			// with the initial fetch.
			switch {
			case v.UserID == userID:
				c.SSEvent("sent", h.toResponse(&v))
			case v.RecipientTelegram == handle:
				c.SSEvent("received", h.toResponse(&v))
			}
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
