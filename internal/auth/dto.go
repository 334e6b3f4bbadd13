package auth

import (
	errors "github.com/frahmantamala/funcionarios/internal"
	"github.com/frahmantamala/funcionarios/internal/core/common/validation"
	"github.com/frahmantamala/funcionarios/internal/i18n"
)

const minPasswordLength = 6

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks presence first, then the e-mail format.
func (d LoginDTO) Validate(tr *i18n.Translator) *errors.AppError {
	if d.Email == "" || d.Password == "" {
		return errors.NewValidationError(tr.T(i18n.AuthRequiredCredentials), errors.ErrCodeRequiredCredentials)
	}
	v := validation.NewValidator()
	v.Field("email", d.Email).Email(tr.T(i18n.AuthInvalidEmail), errors.ErrCodeInvalidEmail)
	return v.Validate()
}

type RegisterDTO struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Validate runs the local registration rules in order: presence, e-mail
// format, confirmation match, minimum length.
func (d RegisterDTO) Validate(tr *i18n.Translator) *errors.AppError {
	if d.Email == "" || d.Password == "" || d.ConfirmPassword == "" {
		return errors.NewValidationError(tr.T(i18n.AuthRequiredFields), errors.ErrCodeRequiredFields)
	}

	v := validation.NewValidator()
	v.Field("email", d.Email).Email(tr.T(i18n.AuthInvalidEmail), errors.ErrCodeInvalidEmail)
	v.Field("confirm_password", d.ConfirmPassword).Equals(d.Password, tr.T(i18n.AuthPasswordMismatch), errors.ErrCodePasswordMismatch)
	v.Field("password", d.Password).MinLength(minPasswordLength, tr.T(i18n.AuthPasswordTooShort), errors.ErrCodePasswordTooShort)
	return v.Validate()
}
