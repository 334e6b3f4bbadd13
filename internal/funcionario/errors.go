package funcionario

import (
	"net/http"

	errors "github.com/frahmantamala/funcionarios/internal"
	"github.com/frahmantamala/funcionarios/internal/backend"
	"github.com/frahmantamala/funcionarios/internal/i18n"
)

func listError(tr *i18n.Translator, err error) *errors.AppError {
	be, ok := backend.AsError(err)
	if !ok {
		return errors.NewExternalError(tr.T(i18n.ErrInternal), errors.ErrCodeBackendFailure, http.StatusBadGateway, err)
	}

	switch be.Code {
	case backend.ErrCodeSingleRow:
		return errors.NewExternalError(tr.T(i18n.FuncTableNotFound), errors.ErrCodeTableNotFound, http.StatusBadGateway, err)
	case backend.ErrCodeUndefinedTable:
		return errors.NewExternalError(tr.T(i18n.FuncTableMissing), errors.ErrCodeTableNotFound, http.StatusBadGateway, err)
	case backend.ErrCodePermissionDenied:
		return errors.NewForbiddenError(tr.T(i18n.FuncReadForbidden), errors.ErrCodePermissionDenied).WithCause(err)
	}
	return fallback(be, tr.T(i18n.FuncListUnknown), err)
}

func createError(tr *i18n.Translator, err error) *errors.AppError {
	be, ok := backend.AsError(err)
	if !ok {
		return errors.NewExternalError(tr.T(i18n.ErrInternal), errors.ErrCodeBackendFailure, http.StatusBadGateway, err)
	}

	switch be.Code {
	case backend.ErrCodeUniqueViolation:
		return errors.NewConflictError(tr.T(i18n.FuncDuplicate), errors.ErrCodeDuplicate).WithCause(err)
	case backend.ErrCodePermissionDenied:
		return errors.NewForbiddenError(tr.T(i18n.FuncCreateForbidden), errors.ErrCodePermissionDenied).WithCause(err)
	case backend.ErrCodeCheckViolation:
		return errors.NewExternalError(tr.T(i18n.FuncInvalidData), errors.ErrCodeCheckViolation, http.StatusBadRequest, err)
	}
	return fallback(be, tr.T(i18n.FuncCreateUnknown), err)
}

// fallback shows the backend's own message, or unknown when it sent none.
func fallback(be *backend.Error, unknown string, cause error) *errors.AppError {
	msg := be.Message
	if msg == "" {
		msg = unknown
	}
	status := http.StatusBadGateway
	if be.Status >= 400 && be.Status < 500 {
		status = be.Status
	}
	return errors.NewExternalError(msg, errors.ErrCodeBackendFailure, status, cause)
}
