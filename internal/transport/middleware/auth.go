package middleware

import (
	"encoding/json"
	"net/http"

	errors "github.com/frahmantamala/funcionarios/internal"
	"github.com/frahmantamala/funcionarios/internal/app"
	"github.com/frahmantamala/funcionarios/internal/i18n"
	"github.com/frahmantamala/funcionarios/internal/transport"
	"github.com/frahmantamala/funcionarios/pkg/logger"
)

const loginPath = "/login"

// RequireSession rejects requests whose client is not signed in. It must run
// after ClientContext.
func RequireSession(tr *i18n.Translator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientCtx := app.FromContext(r.Context())
			if clientCtx == nil || !clientCtx.Session.IsAuthenticated() {
				logger.From(r.Context()).Warn("rejected request without session",
					"client", errors.ClientIDFromContext(r.Context()),
					"method", r.Method,
					"path", r.URL.Path)
				appErr := errors.NewUnauthorizedError(tr.T(i18n.AuthNotAuthenticated), errors.ErrCodeNotAuthenticated)
				resp := transport.ErrorResponse(appErr)
				resp.RedirectTo = loginPath
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(appErr.StatusCode)
				_ = json.NewEncoder(w).Encode(resp)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
