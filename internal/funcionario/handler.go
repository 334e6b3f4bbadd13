package funcionario

import (
	"context"
	"net/http"
	"strconv"

	errors "github.com/frahmantamala/funcionarios/internal"
	"github.com/frahmantamala/funcionarios/internal/i18n"
	"github.com/frahmantamala/funcionarios/internal/notification"
	"github.com/frahmantamala/funcionarios/internal/transport"
	"github.com/go-chi/chi"
)

type StoreAPI interface {
	List(ctx context.Context) ([]Funcionario, error)
	Create(ctx context.Context, dto CreateFuncionarioDTO) (*Funcionario, error)
	GetByID(id int64) (*Funcionario, bool)
	Search(filters Filters) []Funcionario
	Count() int
	Funcionarios() []Funcionario
	Loaded() bool
}

// StoreResolver returns the collection store of the client bound to ctx.
type StoreResolver func(ctx context.Context) StoreAPI

// NotifierResolver returns the notification queue of the client bound to ctx.
type NotifierResolver func(ctx context.Context) *notification.Service

type Handler struct {
	*transport.BaseHandler
	Stores    StoreResolver
	Notifiers NotifierResolver
}

func NewHandler(baseHandler *transport.BaseHandler, stores StoreResolver, notifiers NotifierResolver) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Stores:      stores,
		Notifiers:   notifiers,
	}
}

func (h *Handler) store(w http.ResponseWriter, r *http.Request) (StoreAPI, bool) {
	store := h.Stores(r.Context())
	if store == nil {
		h.Logger.Error("funcionario handler: no client context bound to request")
		h.HandleServiceError(w, errors.NewInternalError(h.Translator.T(i18n.ErrInternal), nil))
		return nil, false
	}
	return store, true
}

func (h *Handler) notifier(ctx context.Context) *notification.Service {
	if h.Notifiers == nil {
		return nil
	}
	return h.Notifiers(ctx)
}

// List reloads from the backend unless refresh=false and the collection was
// already loaded. nome, cargo and email narrow the result.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	if query.Get("refresh") != "false" || !store.Loaded() {
		if _, err := store.List(r.Context()); err != nil {
			h.HandleServiceError(w, err)
			return
		}
	}

	filters := Filters{
		Nome:  query.Get("nome"),
		Cargo: query.Get("cargo"),
		Email: query.Get("email"),
	}
	var items []Funcionario
	if filters.Empty() {
		items = store.Funcionarios()
	} else {
		items = store.Search(filters)
	}

	h.WriteSuccess(w, http.StatusOK, items, "")
}

func (h *Handler) Count(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	h.WriteSuccess(w, http.StatusOK, map[string]int{"count": store.Count()}, "")
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.Logger.Warn("Get: invalid funcionario ID", "id", idStr)
		h.HandleServiceError(w, errors.NewValidationFieldError("id", h.Translator.T(i18n.FuncInvalidID), errors.ErrCodeInvalidID))
		return
	}

	f, found := store.GetByID(id)
	if !found {
		h.HandleServiceError(w, errors.NewNotFoundError(h.Translator.T(i18n.FuncNotFound), errors.ErrCodeFuncionarioNotFound))
		return
	}
	h.WriteSuccess(w, http.StatusOK, f, "")
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	var dto CreateFuncionarioDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	notes := h.notifier(r.Context())
	created, err := store.Create(r.Context(), dto)
	if err != nil {
		if notes != nil {
			notes.Error(err.Error())
		}
		h.HandleServiceError(w, err)
		return
	}

	if notes != nil {
		notes.CRUD().Created(h.Translator.T(i18n.FuncEntity))
	}
	h.WriteSuccess(w, http.StatusCreated, created, "")
}
