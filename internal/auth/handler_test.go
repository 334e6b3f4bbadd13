package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/funcionarios/internal/auth"
	"github.com/frahmantamala/funcionarios/internal/backend"
	"github.com/frahmantamala/funcionarios/internal/backend/backendtest"
	"github.com/frahmantamala/funcionarios/internal/i18n"
	"github.com/frahmantamala/funcionarios/internal/notification"
	"github.com/frahmantamala/funcionarios/internal/session"
	"github.com/frahmantamala/funcionarios/internal/transport"
	"github.com/frahmantamala/funcionarios/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func decodeResponse(rec *httptest.ResponseRecorder) transport.Response {
	var resp transport.Response
	Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
	return resp
}

var _ = Describe("Handler", func() {
	var (
		fake    *backendtest.Fake
		service *auth.Service
		notes   *notification.Service
		handler *auth.Handler
	)

	BeforeEach(func() {
		fake = backendtest.New()
		tr := i18n.New("pt-BR")
		service = auth.NewService(fake, session.NewStore(), &recordingNavigator{}, tr, logger.Discard())
		notes = notification.NewService(notification.Config{}, tr, logger.Discard())
		DeferCleanup(notes.Close)
		handler = auth.NewHandler(transport.NewBaseHandler(logger.Discard(), tr), func(context.Context) auth.ServiceAPI {
			return service
		}, func(context.Context) *notification.Service {
			return notes
		})
	})

	post := func(fn http.HandlerFunc, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		fn(rec, req)
		return rec
	}

	Describe("Login", func() {
		It("should answer 400 with the validation message", func() {
			rec := post(handler.Login, `{"email":"","password":""}`)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			resp := decodeResponse(rec)
			Expect(resp.Success).To(BeFalse())
			Expect(resp.Error).To(Equal("E-mail e senha são obrigatórios"))
			Expect(resp.Code).To(Equal("REQUIRED_CREDENTIALS"))
		})

		It("should answer 401 for bad credentials", func() {
			fake.SignInFunc = func(context.Context, string, string) (*backend.AuthResponse, error) {
				return nil, &backend.Error{Status: 400, Message: backend.MsgInvalidCredentials}
			}

			rec := post(handler.Login, `{"email":"ana@example.com","password":"secret1"}`)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(decodeResponse(rec).Error).To(Equal("E-mail ou senha incorretos"))
			Expect(notes.List()).To(HaveLen(1))
			Expect(notes.List()[0].Severity).To(Equal(notification.SeverityError))
		})

		It("should redirect home on success", func() {
			sess := backendtest.Session("u-1", "ana@example.com")
			fake.SignInFunc = func(context.Context, string, string) (*backend.AuthResponse, error) {
				return &backend.AuthResponse{User: sess.User, Session: sess}, nil
			}

			rec := post(handler.Login, `{"email":"ana@example.com","password":"secret1"}`)

			Expect(rec.Code).To(Equal(http.StatusOK))
			resp := decodeResponse(rec)
			Expect(resp.Success).To(BeTrue())
			Expect(resp.RedirectTo).To(Equal("/"))
			Expect(notes.List()).To(HaveLen(1))
			Expect(notes.List()[0].Message).To(Equal("Login realizado com sucesso!"))
		})

		It("should reject malformed JSON", func() {
			rec := post(handler.Login, `{"email":`)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(fake.Calls("SignInWithPassword")).To(BeZero())
		})
	})

	Describe("Register", func() {
		It("should answer 202 while confirmation is pending", func() {
			fake.SignUpFunc = func(context.Context, string, string) (*backend.AuthResponse, error) {
				return &backend.AuthResponse{User: &backend.User{ID: "u-2"}}, nil
			}

			rec := post(handler.Register, `{"email":"ana@example.com","password":"secret1","confirm_password":"secret1"}`)

			Expect(rec.Code).To(Equal(http.StatusAccepted))
			resp := decodeResponse(rec)
			Expect(resp.Success).To(BeTrue())
			Expect(resp.Message).NotTo(BeEmpty())
			Expect(resp.RedirectTo).To(BeEmpty())
		})

		It("should answer 201 when signed in right away", func() {
			sess := backendtest.Session("u-3", "ana@example.com")
			fake.SignUpFunc = func(context.Context, string, string) (*backend.AuthResponse, error) {
				return &backend.AuthResponse{User: sess.User, Session: sess}, nil
			}

			rec := post(handler.Register, `{"email":"ana@example.com","password":"secret1","confirm_password":"secret1"}`)

			Expect(rec.Code).To(Equal(http.StatusCreated))
			Expect(decodeResponse(rec).RedirectTo).To(Equal("/"))
		})

		It("should answer 409 for a registered e-mail", func() {
			fake.SignUpFunc = func(context.Context, string, string) (*backend.AuthResponse, error) {
				return nil, &backend.Error{Status: 422, Message: backend.MsgUserRegistered}
			}

			rec := post(handler.Register, `{"email":"ana@example.com","password":"secret1","confirm_password":"secret1"}`)

			Expect(rec.Code).To(Equal(http.StatusConflict))
			Expect(decodeResponse(rec).Code).To(Equal("USER_ALREADY_EXISTS"))
		})
	})

	Describe("Logout", func() {
		It("should redirect to login", func() {
			rec := post(handler.Logout, "")

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(decodeResponse(rec).RedirectTo).To(Equal("/login"))
			Expect(notes.List()).To(HaveLen(1))
			Expect(notes.List()[0].Severity).To(Equal(notification.SeverityInfo))
		})
	})

	Describe("Session", func() {
		It("should report the refreshed state", func() {
			fake.SetSession(backendtest.Session("u-1", "ana@example.com"))

			rec := httptest.NewRecorder()
			handler.Session(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))
			resp := decodeResponse(rec)
			data, ok := resp.Data.(map[string]interface{})
			Expect(ok).To(BeTrue())
			Expect(data["authenticated"]).To(BeTrue())
			Expect(notes.List()).To(BeEmpty())
		})

		It("should warn when a signed-in session has gone away", func() {
			sess := backendtest.Session("u-1", "ana@example.com")
			fake.SignInFunc = func(context.Context, string, string) (*backend.AuthResponse, error) {
				return &backend.AuthResponse{User: sess.User, Session: sess}, nil
			}
			_, err := service.Login(context.Background(), auth.LoginDTO{Email: "ana@example.com", Password: "secret1"})
			Expect(err).NotTo(HaveOccurred())
			fake.SetSession(nil)

			rec := httptest.NewRecorder()
			handler.Session(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(notes.List()).To(HaveLen(1))
			Expect(notes.List()[0].Severity).To(Equal(notification.SeverityWarning))
		})
	})

	It("should answer 500 when no client is bound", func() {
		handler = auth.NewHandler(transport.NewBaseHandler(logger.Discard(), nil), func(context.Context) auth.ServiceAPI {
			return nil
		}, nil)

		rec := post(handler.Login, `{}`)

		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(decodeResponse(rec).Error).To(Equal("Erro interno do servidor"))
	})
})
