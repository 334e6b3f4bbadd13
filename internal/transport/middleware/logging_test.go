package middleware_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/funcionarios/internal/transport/middleware"
	"github.com/frahmantamala/funcionarios/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// logEntries decodes the JSON log lines written for one request.
func logEntries(buf *bytes.Buffer) map[string]map[string]any {
	entries := map[string]map[string]any{}
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var entry map[string]any
		Expect(json.Unmarshal(scanner.Bytes(), &entry)).To(Succeed())
		entries[entry["msg"].(string)] = entry
	}
	return entries
}

var _ = Describe("LoggingMiddleware", func() {
	var (
		buf     *bytes.Buffer
		respond http.HandlerFunc
		handler http.Handler
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		respond = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}
		handler = middleware.RequestID(logger.New(buf, "production"))(
			middleware.LoggingMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				respond(w, r)
			})))
	})

	serve := func(req *http.Request) (*httptest.ResponseRecorder, map[string]map[string]any) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec, logEntries(buf)
	}

	It("should mask passwords and e-mails in the request body", func() {
		var seen []byte
		respond = func(w http.ResponseWriter, r *http.Request) {
			seen, _ = io.ReadAll(r.Body)
		}
		body := `{"email":"ana@example.com","password":"secret1","confirm_password":"secret1","nome":"Ana"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		_, entries := serve(req)

		logged := entries["incoming request"]["body"].(string)
		Expect(logged).To(MatchJSON(`{"email":"a***@example.com","password":"[FILTERED]","confirm_password":"[FILTERED]","nome":"Ana"}`))
		Expect(string(seen)).To(Equal(body))
	})

	It("should log only cookie names for the client cookie", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/funcionarios", nil)
		req.AddCookie(&http.Cookie{Name: "fs_client", Value: "3f1c2a9e-0000-4000-8000-000000000000"})
		req.Header.Set("Authorization", "Bearer abc.def.ghi")

		_, entries := serve(req)

		headers := entries["incoming request"]["headers"].(map[string]any)
		Expect(headers["Cookie"]).To(Equal("fs_client=[FILTERED]"))
		Expect(headers["Authorization"]).To(Equal("[FILTERED]"))
		Expect(buf.String()).NotTo(ContainSubstring("3f1c2a9e"))
	})

	It("should mask tokens in the response and name the cookies it sets", func() {
		respond = func(w http.ResponseWriter, r *http.Request) {
			http.SetCookie(w, &http.Cookie{Name: "fs_client", Value: "c-42", Path: "/", HttpOnly: true})
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"success":true,"data":{"session":{"access_token":"jwt","refresh_token":"r"},"user":{"email":"ana@example.com"}}}`))
		}

		rec, entries := serve(httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		resp := entries["response"]
		Expect(resp["status_code"]).To(BeNumerically("==", http.StatusOK))
		Expect(resp["set_cookie"]).To(Equal("fs_client=[FILTERED]"))
		Expect(resp["body"].(string)).To(MatchJSON(`{"success":true,"data":{"session":{"access_token":"[FILTERED]","refresh_token":"[FILTERED]"},"user":{"email":"a***@example.com"}}}`))
		Expect(buf.String()).NotTo(ContainSubstring("c-42"))
	})

	It("should log non-JSON bodies by size", func() {
		respond = func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/yaml")
			_, _ = w.Write([]byte("openapi: 3.0.3\n"))
		}

		_, entries := serve(httptest.NewRequest(http.MethodGet, "/openapi.yml", nil))

		Expect(entries["response"]["body"]).To(Equal("[15 bytes]"))
		Expect(entries["response"]["response_size"]).To(BeNumerically("==", 15))
	})

	It("should log client errors at warn level", func() {
		respond = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}

		_, entries := serve(httptest.NewRequest(http.MethodPost, "/api/v1/funcionarios", nil))

		Expect(entries["response"]["level"]).To(Equal("WARN"))
		Expect(entries["response"]["body"]).To(Equal(""))
	})
})
