package notification_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/funcionarios/internal/i18n"
	"github.com/frahmantamala/funcionarios/internal/notification"
	"github.com/frahmantamala/funcionarios/internal/transport"
	"github.com/frahmantamala/funcionarios/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func dismissResult(rec *httptest.ResponseRecorder) notification.DismissResult {
	var body struct {
		Success bool                       `json:"success"`
		Data    notification.DismissResult `json:"data"`
	}
	Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
	Expect(body.Success).To(BeTrue())
	return body.Data
}

var _ = Describe("Handler", func() {
	var (
		service *notification.Service
		router  chi.Router
	)

	BeforeEach(func() {
		tr := i18n.New("pt-BR")
		service = notification.NewService(notification.Config{}, tr, logger.Discard(),
			notification.WithAfterFunc((&manualClock{}).AfterFunc))
		h := notification.NewHandler(transport.NewBaseHandler(logger.Discard(), tr),
			func(context.Context) *notification.Service { return service })

		router = chi.NewRouter()
		router.Get("/notifications", h.List)
		router.Delete("/notifications/{id}", h.Dismiss)
	})

	It("should list live notifications", func() {
		service.Success("ok")
		service.Error("falha")

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notifications", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		var body struct {
			Success bool                        `json:"success"`
			Data    []notification.Notification `json:"data"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Data).To(HaveLen(2))
		Expect(body.Data[1].Severity).To(Equal(notification.SeverityError))
	})

	It("should dismiss by id", func() {
		n := service.Info("tchau")

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/notifications/"+n.ID, nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(dismissResult(rec).Dismissed).To(BeTrue())
		Expect(service.List()).To(BeEmpty())
	})

	It("should treat unknown ids as a no-op", func() {
		service.Info("fica")

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/notifications/missing", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(dismissResult(rec).Dismissed).To(BeFalse())
		Expect(service.List()).To(HaveLen(1))
	})

	It("should succeed when the same id is dismissed twice", func() {
		n := service.Info("tchau")
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/notifications/"+n.ID, nil))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/notifications/"+n.ID, nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(dismissResult(rec).Dismissed).To(BeFalse())
	})
})
