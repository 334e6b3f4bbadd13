// Package supabase talks to a hosted Supabase project: GoTrue for
// authentication under /auth/v1 and PostgREST for tables under /rest/v1.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/frahmantamala/funcionarios/internal/backend"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/frahmantamala/funcionarios/internal/backend/supabase"

type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// Client is one browser client's connection to the project. It keeps the
// current session in memory, the way the JavaScript SDK does per tab.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
	now        func() time.Time

	mu        sync.RWMutex
	session   *backend.Session
	closed    bool
	listeners *backend.Listeners
}

func New(config Config, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(config.URL, "/"),
		apiKey:     config.APIKey,
		httpClient: httpClient,
		logger:     logger,
		tracer:     otel.Tracer(tracerName),
		now:        time.Now,
		listeners:  backend.NewListeners(),
	}
}

// NewFactory shares one HTTP connection pool between every per-client Client.
func NewFactory(config Config, logger *slog.Logger) backend.Factory {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}
	return backend.FactoryFunc(func() backend.Client {
		return New(config, httpClient, logger)
	})
}

// Ping checks that the auth service of the project answers.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodGet, path: "/auth/v1/health"}, nil)
}

func (c *Client) Close() error {
	c.mu.Lock()
	c.closed = true
	c.session = nil
	c.mu.Unlock()
	c.listeners.Clear()
	return nil
}

func (c *Client) currentSession() *backend.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

func (c *Client) setSession(s *backend.Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

func (c *Client) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

type request struct {
	method  string
	path    string
	query   url.Values
	body    any
	headers map[string]string
	token   string
}

// do sends one request. Non-2xx responses become *backend.Error; a nil dest
// discards the body.
func (c *Client) do(ctx context.Context, req request, dest any) error {
	if c.isClosed() {
		return backend.ErrClosed
	}

	ctx, span := c.tracer.Start(ctx, "supabase "+req.method+" "+req.path, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.request.method", req.method),
		attribute.String("url.path", req.path),
	)

	endpoint := c.baseURL + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "marshal request")
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}

	token := req.token
	if token == "" {
		token = c.apiKey
	}
	httpReq.Header.Set("apikey", c.apiKey)
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		c.logger.Error("supabase request failed", "method", req.method, "path", req.path, "error", err)
		return fmt.Errorf("supabase %s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	c.logger.Debug("supabase request",
		"method", req.method,
		"path", req.path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := parseError(resp.StatusCode, raw)
		span.SetStatus(codes.Error, apiErr.Message)
		return apiErr
	}

	if dest == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorBody covers both GoTrue shapes ({msg, error_code} and
// {error, error_description}) and PostgREST ({code, message, details, hint}).
type errorBody struct {
	Code             json.RawMessage `json:"code"`
	ErrorCode        string          `json:"error_code"`
	Msg              string          `json:"msg"`
	Message          string          `json:"message"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
	Details          *string         `json:"details"`
	Hint             *string         `json:"hint"`
}

func parseError(status int, raw []byte) *backend.Error {
	apiErr := &backend.Error{Status: status}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		apiErr.Message = strings.TrimSpace(string(raw))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(status)
		}
		return apiErr
	}

	var code string
	if err := json.Unmarshal(body.Code, &code); err == nil {
		apiErr.Code = code
	} else {
		apiErr.Code = body.ErrorCode
	}

	for _, m := range []string{body.Msg, body.Message, body.ErrorDescription, body.Error} {
		if m != "" {
			apiErr.Message = m
			break
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	if body.Details != nil {
		apiErr.Details = *body.Details
	}
	if body.Hint != nil {
		apiErr.Hint = *body.Hint
	}
	return apiErr
}
