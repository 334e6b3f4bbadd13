package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frahmantamala/funcionarios/internal"
	"github.com/frahmantamala/funcionarios/internal/app"
	"github.com/frahmantamala/funcionarios/internal/backend"
	"github.com/frahmantamala/funcionarios/internal/backend/backendtest"
	"github.com/frahmantamala/funcionarios/internal/i18n"
	"github.com/frahmantamala/funcionarios/internal/notification"
	"github.com/frahmantamala/funcionarios/internal/transport"
	"github.com/frahmantamala/funcionarios/internal/transport/middleware"
	"github.com/frahmantamala/funcionarios/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestMiddleware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Middleware Suite")
}

func newRegistry() *app.Registry {
	registry := app.NewRegistry(app.Deps{
		Backend: backend.FactoryFunc(func() backend.Client {
			return backendtest.New()
		}),
		Translator:   i18n.New("pt-BR"),
		Logger:       logger.Discard(),
		Notification: notification.Config{},
	}, app.RegistryConfig{})
	DeferCleanup(registry.Close)
	return registry
}

var _ = Describe("RequestID", func() {
	It("should reuse the caller's trace id", func() {
		var seen string
		h := middleware.RequestID(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = w.Header().Get(middleware.TraceIDHeader)
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.TraceIDHeader, "trace-1")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		Expect(seen).To(Equal("trace-1"))
		Expect(rec.Header().Get(middleware.TraceIDHeader)).To(Equal("trace-1"))
	})

	It("should issue one when missing", func() {
		h := middleware.RequestID(logger.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(rec.Header().Get(middleware.TraceIDHeader)).NotTo(BeEmpty())
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	It("should answer the internal error envelope", func() {
		h := middleware.RecoveryMiddleware(logger.Discard(), i18n.New("pt-BR"))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		var resp transport.Response
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Success).To(BeFalse())
		Expect(resp.Error).To(Equal("Erro interno do servidor"))
		Expect(rec.Body.String()).NotTo(ContainSubstring("boom"))
	})
})

var _ = Describe("ClientContext", func() {
	var (
		registry *app.Registry
		cookie   middleware.CookieConfig
		bound    *app.Context
		clientID string
		handler  http.Handler
	)

	BeforeEach(func() {
		registry = newRegistry()
		cookie = middleware.CookieConfig{Name: "fs_client", MaxAge: 30 * time.Minute}
		bound = nil
		handler = middleware.ClientContext(registry, cookie)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bound = app.FromContext(r.Context())
			clientID = internal.ClientIDFromContext(r.Context())
		}))
	})

	It("should set a cookie for a new client", func() {
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(bound).NotTo(BeNil())
		Expect(clientID).To(Equal(bound.ID))
		cookies := rec.Result().Cookies()
		Expect(cookies).To(HaveLen(1))
		Expect(cookies[0].Name).To(Equal("fs_client"))
		Expect(cookies[0].Value).To(Equal(bound.ID))
		Expect(cookies[0].HttpOnly).To(BeTrue())
	})

	It("should bind the same context for a returning client", func() {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		first := bound

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(rec.Result().Cookies()[0])
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		Expect(bound).To(BeIdenticalTo(first))
		Expect(rec.Result().Cookies()).To(BeEmpty())
		Expect(registry.Len()).To(Equal(1))
	})

	It("should replace a forged cookie", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "fs_client", Value: "forged"})
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		Expect(bound.ID).NotTo(Equal("forged"))
		Expect(rec.Result().Cookies()[0].Value).To(Equal(bound.ID))
	})
})

var _ = Describe("RequireSession", func() {
	var (
		registry *app.Registry
		called   bool
		handler  http.Handler
	)

	BeforeEach(func() {
		registry = newRegistry()
		called = false
		protected := middleware.RequireSession(i18n.New("pt-BR"))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			called = true
		}))
		handler = middleware.ClientContext(registry, middleware.CookieConfig{Name: "fs_client"})(protected)
	})

	It("should reject anonymous clients", func() {
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

		Expect(called).To(BeFalse())
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		var resp transport.Response
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Success).To(BeFalse())
		Expect(resp.Error).To(Equal("Faça o login para continuar"))
		Expect(resp.Code).To(Equal(string(internal.ErrCodeNotAuthenticated)))
		Expect(resp.RedirectTo).To(Equal("/login"))
	})

	It("should let signed-in clients through", func() {
		c, _ := registry.Acquire(context.Background(), "")
		sess := backendtest.Session("u-1", "ana@example.com")
		c.Session.SetAuth(sess.User, sess)
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.AddCookie(&http.Cookie{Name: "fs_client", Value: c.ID})
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		Expect(called).To(BeTrue())
	})
})

var _ = Describe("CORS", func() {
	It("should echo any origin for a wildcard", func() {
		h := middleware.CORS("*")(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://app.example.com")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://app.example.com"))
		Expect(rec.Header().Get("Access-Control-Allow-Credentials")).To(Equal("true"))
	})

	It("should ignore origins outside the list", func() {
		h := middleware.CORS("http://a.example.com, http://b.example.com")(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://evil.example.com")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
	})
})
