package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/funcionarios/pkg/logger"
)

const (
	filtered = "[FILTERED]"

	// maxLoggedBody caps how much of a body is kept for the log line.
	maxLoggedBody = 4 << 10
)

// secretKeys are JSON keys and header names whose values never reach the
// logs. Matching ignores case and treats '-' and '_' alike.
var secretKeys = map[string]bool{
	"password":         true,
	"confirm_password": true,
	"access_token":     true,
	"refresh_token":    true,
	"provider_token":   true,
	"authorization":    true,
	"apikey":           true,
	"x_api_key":        true,
	"jwt_secret":       true,
}

// cookieHeaders carry the fs_client id, which is enough to act as the
// signed-in client. Only cookie names are logged.
var cookieHeaders = map[string]bool{
	"cookie":     true,
	"set_cookie": true,
}

func normalizeKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "-", "_")
}

func isSecret(name string) bool {
	key := normalizeKey(name)
	return secretKeys[key] || strings.HasSuffix(key, "_token") || strings.HasSuffix(key, "_secret")
}

// LoggingMiddleware logs every request and response with credentials,
// session cookies and e-mail addresses masked. It uses the request logger
// set by RequestID.
func LoggingMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lg := logger.From(r.Context())

			logRequest(lg, r)

			ww := &responseWriter{ResponseWriter: w}
			next.ServeHTTP(ww, r)

			logResponse(lg, r, ww, time.Since(start))
		})
	}
}

// responseWriter records the status and the head of the body.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
	head       bytes.Buffer
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if room := maxLoggedBody - rw.head.Len(); room > 0 {
		rw.head.Write(b[:min(room, len(b))])
	}
	rw.size += len(b)
	return rw.ResponseWriter.Write(b)
}

func logRequest(lg *slog.Logger, r *http.Request) {
	var body []byte
	if r.Body != nil {
		body, _ = io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
	}

	lg.Info("incoming request",
		"method", r.Method,
		"path", r.URL.Path,
		"query", r.URL.RawQuery,
		"remote_addr", r.RemoteAddr,
		"user_agent", r.UserAgent(),
		"headers", maskHeaders(r.Header),
		"body", maskBody(r.Header.Get("Content-Type"), body, len(body)),
	)
}

func logResponse(lg *slog.Logger, r *http.Request, rw *responseWriter, duration time.Duration) {
	status := rw.statusCode
	if status == 0 {
		status = http.StatusOK
	}

	level := slog.LevelInfo
	switch {
	case status >= http.StatusInternalServerError:
		level = slog.LevelError
	case status >= http.StatusBadRequest:
		level = slog.LevelWarn
	}

	attrs := []any{
		"status_code", status,
		"duration_ms", duration.Milliseconds(),
		"response_size", rw.size,
		"body", maskBody(rw.Header().Get("Content-Type"), rw.head.Bytes(), rw.size),
	}
	if names := cookieNames(rw.Header().Values("Set-Cookie")); names != "" {
		attrs = append(attrs, "set_cookie", names)
	}
	lg.Log(r.Context(), level, "response", attrs...)
}

func maskHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		switch {
		case cookieHeaders[normalizeKey(name)]:
			out[name] = cookieNames(values)
		case isSecret(name):
			out[name] = filtered
		default:
			out[name] = strings.Join(values, ", ")
		}
	}
	return out
}

// cookieNames renders Cookie or Set-Cookie values as "name=[FILTERED]" pairs.
func cookieNames(values []string) string {
	var names []string
	for _, v := range values {
		for _, part := range strings.Split(v, ";") {
			name, _, ok := strings.Cut(strings.TrimSpace(part), "=")
			if !ok || isCookieAttribute(name) {
				continue
			}
			names = append(names, name+"="+filtered)
		}
	}
	return strings.Join(names, "; ")
}

func isCookieAttribute(name string) bool {
	switch strings.ToLower(name) {
	case "path", "domain", "expires", "max-age", "samesite":
		return true
	}
	return false
}

// maskBody returns a loggable form of body. Only JSON is decoded and
// masked; other payloads such as the OpenAPI document or swagger assets are
// logged by size.
func maskBody(contentType string, body []byte, size int) string {
	if size == 0 {
		return ""
	}
	if size > len(body) || !isJSON(contentType, body) {
		return fmt.Sprintf("[%d bytes]", size)
	}

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return fmt.Sprintf("[%d bytes]", size)
	}
	masked, err := json.Marshal(maskValue("", data))
	if err != nil {
		return fmt.Sprintf("[%d bytes]", size)
	}
	return string(masked)
}

func isJSON(contentType string, body []byte) bool {
	if strings.Contains(contentType, "json") {
		return true
	}
	trimmed := bytes.TrimSpace(body)
	return contentType == "" && len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}

func maskValue(key string, v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			if isSecret(k) {
				out[k] = filtered
				continue
			}
			out[k] = maskValue(k, child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = maskValue(key, child)
		}
		return out
	case string:
		if normalizeKey(key) == "email" {
			return maskEmail(val)
		}
		return val
	default:
		return val
	}
}

// maskEmail keeps the first letter of the local part and the domain.
func maskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return filtered
	}
	return local[:1] + "***@" + domain
}
