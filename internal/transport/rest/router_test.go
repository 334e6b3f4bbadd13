package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/frahmantamala/funcionarios/internal/app"
	"github.com/frahmantamala/funcionarios/internal/auth"
	"github.com/frahmantamala/funcionarios/internal/backend"
	"github.com/frahmantamala/funcionarios/internal/backend/backendtest"
	"github.com/frahmantamala/funcionarios/internal/funcionario"
	"github.com/frahmantamala/funcionarios/internal/i18n"
	"github.com/frahmantamala/funcionarios/internal/notification"
	"github.com/frahmantamala/funcionarios/internal/transport"
	"github.com/frahmantamala/funcionarios/internal/transport/middleware"
	"github.com/frahmantamala/funcionarios/internal/transport/swagger"
	"github.com/frahmantamala/funcionarios/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const specPath = "../../../api/openapi.yml"

func TestRest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Rest Suite")
}

var _ = Describe("Router", func() {
	var (
		router   *chi.Mux
		registry *app.Registry
		fakes    []*backendtest.Fake
		pingErr  error
	)

	BeforeEach(func() {
		fakes = nil
		pingErr = nil
		tr := i18n.New("pt-BR")
		lg := logger.Discard()

		registry = app.NewRegistry(app.Deps{
			Backend: backend.FactoryFunc(func() backend.Client {
				f := backendtest.New()
				fakes = append(fakes, f)
				return f
			}),
			Translator:   tr,
			Logger:       lg,
			Notification: notification.Config{},
		}, app.RegistryConfig{})
		DeferCleanup(registry.Close)

		base := transport.NewBaseHandler(lg, tr)
		router = chi.NewRouter()
		RegisterAllRoutes(router, Handlers{
			Auth:         auth.NewHandler(base, app.AuthService, app.NotificationService),
			Funcionario:  funcionario.NewHandler(base, app.FuncionarioStore, app.NotificationService),
			Notification: notification.NewHandler(base, app.NotificationService),
			Health: NewHealthHandler(map[string]Pinger{
				"backend": PingerFunc(func(context.Context) error { return pingErr }),
			}, func() map[string]any {
				return map[string]any{"clients": registry.Len()}
			}),
			Registry:      registry,
			Cookie:        middleware.CookieConfig{Name: "fs_client"},
			Translator:    tr,
			OpenAPIPath:   specPath,
			AllowedOrigin: "*",
		}, lg)
	})

	serve := func(method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	Describe("health", func() {
		It("should answer ping without a client context", func() {
			rec := serve(http.MethodGet, "/api/v1/ping", "")

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(`"OK"`))
			Expect(rec.Result().Cookies()).To(BeEmpty())
			Expect(registry.Len()).To(BeZero())
		})

		It("should report a healthy backend", func() {
			rec := serve(http.MethodGet, "/api/v1/health", "")

			Expect(rec.Code).To(Equal(http.StatusOK))
			var resp HealthResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Status).To(Equal(HealthHealthy))
			Expect(resp.Components).To(HaveKey("backend"))
			Expect(resp.Components["app"].Details).To(HaveKeyWithValue("clients", BeNumerically("==", 0)))
		})

		It("should answer 503 when the backend is down", func() {
			pingErr = errors.New("connection refused")

			rec := serve(http.MethodGet, "/api/v1/health", "")

			Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
			var resp HealthResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Status).To(Equal(HealthUnhealthy))
			Expect(resp.Components["backend"].Message).To(Equal("connection refused"))
		})
	})

	It("should keep one context per cookie", func() {
		rec := serve(http.MethodGet, "/api/v1/notifications", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		cookies := rec.Result().Cookies()
		Expect(cookies).To(HaveLen(1))

		rec = serve(http.MethodGet, "/api/v1/notifications", "", cookies[0])

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(registry.Len()).To(Equal(1))
		Expect(rec.Header().Get(middleware.TraceIDHeader)).NotTo(BeEmpty())
	})

	It("should require a session to create a funcionário", func() {
		rec := serve(http.MethodPost, "/api/v1/funcionarios", `{"nome":"Ana","cargo":"Dev","salario":100}`)

		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(fakes).To(HaveLen(1))
		Expect(fakes[0].Calls("Insert")).To(BeZero())
	})

	It("should create after signing in and surface the notification", func() {
		rec := serve(http.MethodGet, "/api/v1/notifications", "")
		cookie := rec.Result().Cookies()[0]
		sess := backendtest.Session("u-1", "ana@example.com")
		fakes[0].SignInFunc = func(context.Context, string, string) (*backend.AuthResponse, error) {
			return &backend.AuthResponse{User: sess.User, Session: sess}, nil
		}

		rec = serve(http.MethodPost, "/api/v1/auth/login", `{"email":"ana@example.com","password":"secret1"}`, cookie)
		Expect(rec.Code).To(Equal(http.StatusOK))

		fakes[0].InsertFunc = func(_ context.Context, _ string, row any) (any, error) {
			return map[string]any{"id": 7, "nome": "Ana", "cargo": "Dev", "salario": 100}, nil
		}
		rec = serve(http.MethodPost, "/api/v1/funcionarios", `{"nome":"Ana","cargo":"Dev","salario":100}`, cookie)
		Expect(rec.Code).To(Equal(http.StatusCreated))

		rec = serve(http.MethodGet, "/api/v1/funcionarios/7", "", cookie)
		Expect(rec.Code).To(Equal(http.StatusOK))

		rec = serve(http.MethodGet, "/api/v1/notifications", "", cookie)
		var resp transport.Response
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Data).To(HaveLen(2))
	})

	It("should serve the OpenAPI document", func() {
		rec := serve(http.MethodGet, "/openapi.yml", "")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("openapi: 3.0.3"))
	})

	It("should document every API route", func() {
		doc, err := swagger.LoadSpec(context.Background(), specPath)
		Expect(err).NotTo(HaveOccurred())

		var routes int
		err = chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
			if !strings.HasPrefix(route, "/api/v1/") {
				return nil
			}
			path := strings.TrimPrefix(route, "/api/v1")
			if len(path) > 1 {
				path = strings.TrimSuffix(path, "/")
			}
			routes++

			item := doc.Paths.Value(path)
			Expect(item).NotTo(BeNil(), "undocumented path %s", path)
			Expect(item.GetOperation(method)).NotTo(BeNil(), "undocumented %s %s", method, path)
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(routes).To(Equal(13))
	})
})
