package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/chatapp/realtime-chat/internal/core/domain"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

func NewValidator() *echoValidator {
	return &echoValidator{v: validator.New()}
}

// Validate satisfies echo.Validator. Missing fields and short passwords map to
// their dedicated domain errors; anything else becomes VALIDATION_FAILED.
func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return domain.NewValidationError(err.Error())
	}

	msgs := make([]string, 0, len(ve))
	var passwordErr error
	for _, fe := range ve {
		switch {
		case fe.Tag() == "required":
			return domain.ErrRequiredFields
		case fe.Tag() == "min" && fe.Field() == "Password":
			passwordErr = domain.ErrPasswordTooShort
		case fe.Tag() == "max" && fe.Field() == "Password":
			passwordErr = domain.ErrPasswordTooLong
		}
		msgs = append(msgs, fieldError(fe))
	}
	if passwordErr != nil {
		return passwordErr
	}
	return domain.NewValidationError(strings.Join(msgs, "; "))
}

func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
