package services

import (
	"fmt"

	apperrors "valentina/internal/errors"
	"valentina/internal/models"
)

// notificationService delivers Telegram notifications. Message copy is kept
// from the original application.
type notificationService struct {
	links   LinkServicer
	bot     BotAPI
	baseURL string
}

// NewNotificationService creates a new NotificationServicer. baseURL is the
// public frontend URL used when composing valentine links.
func NewNotificationService(links LinkServicer, bot BotAPI, baseURL string) NotificationServicer {
	return &notificationService{links: links, bot: bot, baseURL: baseURL}
}

func (s *notificationService) valentineURL(id string) string {
	return fmt.Sprintf("%s/valentine/%s", s.baseURL, id)
}

// SendWelcome sends the generated password to the freshly registered user
// and pins that message. Callers treat failures as non-fatal: registration
// is never rolled back over an undeliverable welcome message.
func (s *notificationService) SendWelcome(profile TelegramProfile, password string) error {
	text := fmt.Sprintf(
		"Добро пожаловать в приложение валентина!\nДля вашего аккаунта: @%s был сгенерирован пароль: ```copy\n%s```",
		profile.Username, password,
	)
	messageID, err := s.bot.SendMessage(profile.ID, text)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrNotificationFailed, err)
	}
	if err := s.bot.PinMessage(profile.ID, messageID); err != nil {
		return apperrors.Wrap(apperrors.ErrNotificationFailed, err)
	}
	return nil
}

// NotifyValentine resolves the recipient through the bot's recent update
// feed and sends the pair of delivery notifications: one to the recipient
// with a link to the valentine, one to the sender as confirmation.
//
// Resolution is best-effort: Telegram has no lookup by handle, so a
// recipient who has never messaged the bot cannot be reached. The valentine
// row stays persisted either way.
func (s *notificationService) NotifyValentine(v *models.Valentine, sender *models.User) error {
	chatID, username, found, err := s.bot.FindRecentChat(v.RecipientTelegram)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrNotificationFailed, err)
	}
	if !found {
		return apperrors.ErrRecipientUnreachable
	}

	link := s.valentineURL(v.ID)

	recipientText := fmt.Sprintf(
		"Урааа вам пришла валентинка!\nОт пользователя @%s\nВы можете посмотреть приглашение перейдя на ссылку: %s",
		sender.TelegramUsername, link,
	)
	if _, err := s.bot.SendMessage(chatID, recipientText); err != nil {
		return apperrors.Wrap(apperrors.ErrNotificationFailed, err)
	}

	senderText := fmt.Sprintf(
		"Вы отправили валентинку пользователю @%s\nВалентинка: %s",
		username, link,
	)
	if _, err := s.bot.SendMessage(sender.TelegramID, senderText); err != nil {
		return apperrors.Wrap(apperrors.ErrNotificationFailed, err)
	}
	return nil
}

// NotifyAnswered tells the original sender their valentine was answered
// affirmatively. The answer write has already happened and stays.
func (s *notificationService) NotifyAnswered(v *models.Valentine) error {
	link, err := s.links.GetLinkByUserID(v.UserID)
	if err != nil {
		return err
	}

	if _, err := s.bot.SendMessage(link.TelegramID, "Вам ответили на валентинку:\nДа"); err != nil {
		return apperrors.Wrap(apperrors.ErrNotificationFailed, err)
	}
	return nil
}
