package notification

import (
	"context"
	"net/http"

	errors "github.com/frahmantamala/funcionarios/internal"
	"github.com/frahmantamala/funcionarios/internal/i18n"
	"github.com/frahmantamala/funcionarios/internal/transport"
	"github.com/go-chi/chi"
)

// ServiceResolver returns the notification queue of the client bound to ctx.
type ServiceResolver func(ctx context.Context) *Service

type Handler struct {
	*transport.BaseHandler
	Services ServiceResolver
}

func NewHandler(baseHandler *transport.BaseHandler, services ServiceResolver) *Handler {
	return &Handler{BaseHandler: baseHandler, Services: services}
}

func (h *Handler) service(w http.ResponseWriter, r *http.Request) (*Service, bool) {
	svc := h.Services(r.Context())
	if svc == nil {
		h.Logger.Error("notification handler: no client context bound to request")
		h.HandleServiceError(w, errors.NewInternalError(h.Translator.T(i18n.ErrInternal), nil))
		return nil, false
	}
	return svc, true
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w, r)
	if !ok {
		return
	}
	h.WriteSuccess(w, http.StatusOK, svc.List(), "")
}

// DismissResult reports whether the notification was still live.
type DismissResult struct {
	Dismissed bool `json:"dismissed"`
}

func (h *Handler) Dismiss(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.service(w, r)
	if !ok {
		return
	}

	// Unknown or already expired ids are a no-op.
	dismissed := svc.Dismiss(chi.URLParam(r, "id"))
	h.WriteSuccess(w, http.StatusOK, DismissResult{Dismissed: dismissed}, "")
}
