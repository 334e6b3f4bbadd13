package transport

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/funcionarios/internal"
	"github.com/frahmantamala/funcionarios/internal/i18n"
	"github.com/frahmantamala/funcionarios/pkg/logger"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Response is the envelope every operation endpoint answers with.
type Response struct {
	Success    bool        `json:"success"`
	Error      string      `json:"error,omitempty"`
	Code       string      `json:"code,omitempty"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	RedirectTo string      `json:"redirect_to,omitempty"`
}

// ErrorResponse is the envelope for a failed operation.
func ErrorResponse(appErr *internal.AppError) Response {
	return Response{
		Success: false,
		Error:   appErr.Error(),
		Code:    string(appErr.Code),
		Data:    appErr.Details,
	}
}

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger     *slog.Logger
	Translator *i18n.Translator
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger, tr *i18n.Translator) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	if tr == nil {
		tr = i18n.Default()
	}
	return &BaseHandler{Logger: lg, Translator: tr}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteSuccess answers with success=true, the payload and an optional redirect.
func (h *BaseHandler) WriteSuccess(w http.ResponseWriter, status int, data interface{}, redirectTo string) {
	h.WriteJSON(w, status, Response{Success: true, Data: data, RedirectTo: redirectTo})
}

// WriteError writes an error response
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	if status >= http.StatusInternalServerError {
		h.Logger.Error("http error", "status", status, "message", message)
	} else {
		h.Logger.Warn("http error", "status", status, "message", message)
	}
	h.WriteJSON(w, status, Response{Success: false, Error: message})
}

// HandleServiceError renders an AppError with its status and code. Anything
// else becomes a generic 500 whose cause stays in the logs.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		if appErr.StatusCode >= http.StatusInternalServerError {
			h.Logger.Error("service error", "code", appErr.Code, "error", appErr.GetDetailedMessage())
		}
		h.WriteJSON(w, appErr.StatusCode, ErrorResponse(appErr))
		return
	}

	h.Logger.Error("unexpected service error", "error", err)
	h.WriteJSON(w, http.StatusInternalServerError, Response{
		Success: false,
		Error:   h.Translator.T(i18n.ErrInternal),
		Code:    "INTERNAL_ERROR",
	})
}

// DecodeJSON reads the request body into dst. An empty body leaves dst
// untouched.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
