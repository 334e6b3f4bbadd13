package auth

import (
	"net/http"

	errors "github.com/frahmantamala/funcionarios/internal"
	"github.com/frahmantamala/funcionarios/internal/backend"
	"github.com/frahmantamala/funcionarios/internal/i18n"
)

// loginError maps a sign-in failure to the message shown to the user. Known
// backend messages are translated, others pass through verbatim.
func loginError(tr *i18n.Translator, err error) *errors.AppError {
	be, ok := backend.AsError(err)
	if !ok {
		return errors.NewExternalError(tr.T(i18n.ErrInternal), errors.ErrCodeBackendFailure, http.StatusBadGateway, err)
	}

	switch {
	case be.Message == backend.MsgInvalidCredentials:
		return errors.NewUnauthorizedError(tr.T(i18n.AuthInvalidCredentials), errors.ErrCodeInvalidCredentials).WithCause(err)
	case be.Message == backend.MsgEmailNotConfirmed:
		return errors.NewUnauthorizedError(tr.T(i18n.AuthEmailNotConfirmed), errors.ErrCodeEmailNotConfirmed).WithCause(err)
	case be.Message == backend.MsgTooManyRequests, be.Status == http.StatusTooManyRequests:
		return errors.NewExternalError(tr.T(i18n.AuthTooManyRequests), errors.ErrCodeRateLimited, http.StatusTooManyRequests, err)
	}

	msg := be.Message
	if msg == "" {
		msg = tr.T(i18n.AuthLoginFailed)
	}
	return errors.NewExternalError(msg, errors.ErrCodeBackendFailure, passthroughStatus(be.Status), err)
}

func registerError(tr *i18n.Translator, err error) *errors.AppError {
	be, ok := backend.AsError(err)
	if !ok {
		return errors.NewExternalError(tr.T(i18n.ErrInternal), errors.ErrCodeBackendFailure, http.StatusBadGateway, err)
	}

	switch be.Message {
	case backend.MsgUserRegistered:
		return errors.NewConflictError(tr.T(i18n.AuthUserExists), errors.ErrCodeUserExists).WithCause(err)
	case backend.MsgWeakPassword:
		return errors.NewExternalError(tr.T(i18n.AuthWeakPassword), errors.ErrCodeWeakPassword, http.StatusBadRequest, err)
	case backend.MsgTooManyRequests:
		return errors.NewExternalError(tr.T(i18n.AuthTooManyRequests), errors.ErrCodeRateLimited, http.StatusTooManyRequests, err)
	}

	msg := be.Message
	if msg == "" {
		msg = tr.T(i18n.AuthRegisterFailed)
	}
	return errors.NewExternalError(msg, errors.ErrCodeBackendFailure, passthroughStatus(be.Status), err)
}

// passthroughStatus keeps client errors reported by the backend and turns
// everything else into a gateway failure.
func passthroughStatus(status int) int {
	if status >= 400 && status < 500 {
		return status
	}
	return http.StatusBadGateway
}
