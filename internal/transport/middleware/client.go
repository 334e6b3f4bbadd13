package middleware

import (
	"net/http"
	"time"

	"github.com/frahmantamala/funcionarios/internal"
	"github.com/frahmantamala/funcionarios/internal/app"
	"github.com/frahmantamala/funcionarios/pkg/logger"
)

type CookieConfig struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

// ClientContext binds the caller's application context, found through the
// client cookie, to the request. Unknown callers get a fresh context and a
// new cookie.
func ClientContext(registry *app.Registry, cookie CookieConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(cookie.Name); err == nil {
				id = c.Value
			}

			clientCtx, created := registry.Acquire(r.Context(), id)
			if created || id != clientCtx.ID {
				http.SetCookie(w, &http.Cookie{
					Name:     cookie.Name,
					Value:    clientCtx.ID,
					Path:     "/",
					MaxAge:   int(cookie.MaxAge.Seconds()),
					HttpOnly: true,
					Secure:   cookie.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := app.WithContext(r.Context(), clientCtx)
			ctx = internal.ContextWithClientID(ctx, clientCtx.ID)
			ctx = logger.With(ctx, "client_id", clientCtx.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
