// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Telegram usernames are 5-32 characters of letters, digits and underscores.
// A leading @ is accepted since recipients are entered in `@handle` form.
var telegramHandleRegex = regexp.MustCompile(`^[A-Za-z0-9_]{5,32}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("telegram_handle", validateTelegramHandle)
	}
}

func validateTelegramHandle(fl validator.FieldLevel) bool {
	handle := strings.TrimPrefix(fl.Field().String(), "@")
	return telegramHandleRegex.MatchString(handle)
}
