package funcionario_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/funcionarios/internal/backend"
	"github.com/frahmantamala/funcionarios/internal/backend/backendtest"
	"github.com/frahmantamala/funcionarios/internal/funcionario"
	"github.com/frahmantamala/funcionarios/internal/i18n"
	"github.com/frahmantamala/funcionarios/internal/notification"
	"github.com/frahmantamala/funcionarios/internal/transport"
	"github.com/frahmantamala/funcionarios/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

var _ = Describe("Handler", func() {
	var (
		fake   *backendtest.Fake
		store  *funcionario.Store
		notes  *notification.Service
		router chi.Router
	)

	BeforeEach(func() {
		tr := i18n.New("pt-BR")
		fake = backendtest.New()
		fake.SelectFunc = func(context.Context, string, backend.Query) (any, error) {
			return sampleRows(), nil
		}
		store = funcionario.NewStore(fake, tr, logger.Discard())
		notes = notification.NewService(notification.Config{}, tr, logger.Discard())
		DeferCleanup(notes.Close)

		h := funcionario.NewHandler(transport.NewBaseHandler(logger.Discard(), tr),
			func(context.Context) funcionario.StoreAPI { return store },
			func(context.Context) *notification.Service { return notes },
		)
		router = chi.NewRouter()
		router.Get("/funcionarios", h.List)
		router.Get("/funcionarios/count", h.Count)
		router.Get("/funcionarios/{id}", h.Get)
		router.Post("/funcionarios", h.Create)
	})

	do := func(method, target, body string) (*httptest.ResponseRecorder, envelope) {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, target, nil)
		} else {
			req = httptest.NewRequest(method, target, strings.NewReader(body))
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		var env envelope
		Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(Succeed())
		return rec, env
	}

	Describe("GET /funcionarios", func() {
		It("should load and return the collection", func() {
			rec, env := do(http.MethodGet, "/funcionarios", "")

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(env.Success).To(BeTrue())
			var items []funcionario.Funcionario
			Expect(json.Unmarshal(env.Data, &items)).To(Succeed())
			Expect(items).To(HaveLen(3))
		})

		It("should serve the cache when refresh=false", func() {
			do(http.MethodGet, "/funcionarios", "")
			do(http.MethodGet, "/funcionarios?refresh=false", "")

			Expect(fake.Calls("Select")).To(Equal(1))
		})

		It("should load on refresh=false when nothing is cached", func() {
			do(http.MethodGet, "/funcionarios?refresh=false", "")

			Expect(fake.Calls("Select")).To(Equal(1))
		})

		It("should apply filters", func() {
			_, env := do(http.MethodGet, "/funcionarios?cargo=gerente", "")

			var items []funcionario.Funcionario
			Expect(json.Unmarshal(env.Data, &items)).To(Succeed())
			Expect(items).To(HaveLen(1))
			Expect(items[0].Nome).To(Equal("Carla Dias"))
		})

		It("should map backend errors", func() {
			fake.SelectFunc = func(context.Context, string, backend.Query) (any, error) {
				return nil, &backend.Error{Status: 401, Code: "42501"}
			}

			rec, env := do(http.MethodGet, "/funcionarios", "")

			Expect(rec.Code).To(Equal(http.StatusForbidden))
			Expect(env.Error).To(Equal("Sem permissão para acessar os dados"))
			Expect(env.Code).To(Equal("PERMISSION_DENIED"))
		})
	})

	Describe("GET /funcionarios/{id}", func() {
		BeforeEach(func() {
			do(http.MethodGet, "/funcionarios", "")
		})

		It("should return a cached row", func() {
			rec, env := do(http.MethodGet, "/funcionarios/2", "")

			Expect(rec.Code).To(Equal(http.StatusOK))
			var f funcionario.Funcionario
			Expect(json.Unmarshal(env.Data, &f)).To(Succeed())
			Expect(f.Nome).To(Equal("Bruno Lima"))
		})

		It("should answer 404 for unknown ids", func() {
			rec, env := do(http.MethodGet, "/funcionarios/99", "")

			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(env.Code).To(Equal("FUNCIONARIO_NOT_FOUND"))
		})

		It("should answer 400 with an invalid id message for malformed ids", func() {
			rec, env := do(http.MethodGet, "/funcionarios/abc", "")

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(env.Success).To(BeFalse())
			Expect(env.Code).To(Equal("INVALID_ID"))
			Expect(env.Error).To(Equal("ID de funcionário inválido"))
			Expect(string(env.Data)).To(ContainSubstring(`"field":"id"`))
		})
	})

	It("should count the cached collection", func() {
		do(http.MethodGet, "/funcionarios", "")

		_, env := do(http.MethodGet, "/funcionarios/count", "")

		Expect(string(env.Data)).To(MatchJSON(`{"count":3}`))
	})

	Describe("POST /funcionarios", func() {
		It("should create and notify", func() {
			fake.InsertFunc = func(_ context.Context, _ string, row any) (any, error) {
				var m map[string]any
				Expect(backendtest.Decode(row, &m)).To(Succeed())
				m["id"] = 42
				return m, nil
			}

			rec, env := do(http.MethodPost, "/funcionarios", `{"nome":"Eva","cargo":"Designer","salario":3200}`)

			Expect(rec.Code).To(Equal(http.StatusCreated))
			Expect(env.Success).To(BeTrue())
			Expect(notes.List()).To(HaveLen(1))
			Expect(notes.List()[0].Message).To(Equal("Funcionário criado com sucesso!"))
			Expect(notes.List()[0].Severity).To(Equal(notification.SeveritySuccess))
		})

		It("should answer 400 and raise an error notification on validation failure", func() {
			rec, env := do(http.MethodPost, "/funcionarios", `{"nome":"Eva","cargo":"Designer","salario":0}`)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(env.Error).To(Equal("Salário deve ser maior que zero"))
			Expect(notes.List()).To(HaveLen(1))
			Expect(notes.List()[0].Severity).To(Equal(notification.SeverityError))
		})

		It("should answer 409 on duplicates", func() {
			fake.InsertFunc = func(context.Context, string, any) (any, error) {
				return nil, &backend.Error{Status: 409, Code: "23505", Message: "duplicate key"}
			}

			rec, env := do(http.MethodPost, "/funcionarios", `{"nome":"Eva","cargo":"Designer","salario":3200}`)

			Expect(rec.Code).To(Equal(http.StatusConflict))
			Expect(env.Error).To(Equal("Já existe um funcionário com estes dados"))
		})
	})
})
