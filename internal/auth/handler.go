package auth

import (
	"context"
	"net/http"

	errors "github.com/frahmantamala/funcionarios/internal"
	"github.com/frahmantamala/funcionarios/internal/i18n"
	"github.com/frahmantamala/funcionarios/internal/notification"
	"github.com/frahmantamala/funcionarios/internal/transport"
)

// ServiceResolver returns the auth service of the client bound to ctx.
type ServiceResolver func(ctx context.Context) ServiceAPI

// NotifierResolver returns the notification queue of the client bound to ctx.
type NotifierResolver func(ctx context.Context) *notification.Service

type Handler struct {
	*transport.BaseHandler
	Services  ServiceResolver
	Notifiers NotifierResolver
}

// NewHandler builds the auth endpoints. notifiers may be nil, in which case
// no toasts are raised.
func NewHandler(baseHandler *transport.BaseHandler, services ServiceResolver, notifiers NotifierResolver) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Services:    services,
		Notifiers:   notifiers,
	}
}

func (h *Handler) notifier(ctx context.Context) *notification.Service {
	if h.Notifiers == nil {
		return nil
	}
	return h.Notifiers(ctx)
}

func (h *Handler) service(w http.ResponseWriter, r *http.Request) (ServiceAPI, bool) {
	svc := h.Services(r.Context())
	if svc == nil {
		h.Logger.Error("auth handler: no client context bound to request")
		h.HandleServiceError(w, errors.NewInternalError(h.Translator.T(i18n.ErrInternal), nil))
		return nil, false
	}
	return svc, true
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w, r)
	if !ok {
		return
	}

	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	notes := h.notifier(r.Context())
	result, err := svc.Login(r.Context(), dto)
	if err != nil {
		if notes != nil {
			notes.Error(err.Error())
		}
		h.HandleServiceError(w, err)
		return
	}

	if notes != nil {
		notes.Auth().LoginSuccess()
	}
	h.WriteSuccess(w, http.StatusOK, result, result.RedirectTo)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w, r)
	if !ok {
		return
	}

	var dto RegisterDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	notes := h.notifier(r.Context())
	result, err := svc.Register(r.Context(), dto)
	if err != nil {
		if notes != nil {
			notes.Auth().RegisterError(err.Error())
		}
		h.HandleServiceError(w, err)
		return
	}

	status := http.StatusCreated
	if result.PendingConfirmation {
		status = http.StatusAccepted
	}
	if notes != nil {
		if result.PendingConfirmation {
			notes.Info(result.Message)
		} else {
			notes.Auth().RegisterSuccess()
		}
	}
	h.WriteJSON(w, status, transport.Response{
		Success:    true,
		Data:       result,
		Message:    result.Message,
		RedirectTo: result.RedirectTo,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w, r)
	if !ok {
		return
	}

	redirect := svc.Logout(r.Context())
	if notes := h.notifier(r.Context()); notes != nil {
		notes.Auth().LogoutSuccess()
	}
	h.WriteSuccess(w, http.StatusOK, nil, redirect)
}

// Session re-checks the backend session and returns the resulting state. A
// client that was signed in and no longer is gets a session-expired toast.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w, r)
	if !ok {
		return
	}

	wasAuthenticated := svc.State().Authenticated()
	svc.CheckAuth(r.Context())
	state := svc.State()
	if wasAuthenticated && !state.Authenticated() {
		if notes := h.notifier(r.Context()); notes != nil {
			notes.Auth().SessionExpired()
		}
	}
	h.WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"authenticated": state.Authenticated(),
		"user":          state.User,
		"loading":       state.Loading,
		"error":         state.Error,
	}, "")
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w, r)
	if !ok {
		return
	}

	profile := svc.GetUserProfile(r.Context())
	h.WriteSuccess(w, http.StatusOK, profile, "")
}
