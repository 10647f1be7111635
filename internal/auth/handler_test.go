package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/business-management/internal/access"
	"github.com/frahmantamala/business-management/internal/user"
	"github.com/frahmantamala/business-management/pkg/logger"
)

var _ = ginkgo.Describe("AuthHandler", func() {
	var (
		handler  *Handler
		tokenGen *JWTTokenGenerator
	)

	ginkgo.BeforeEach(func() {
		hasher := user.NewBcryptHasher(bcrypt.MinCost)
		tokenGen = NewJWTTokenGenerator("access", "refresh", time.Minute, time.Hour)
		svc := NewService(newMockUserRepository(hasher), tokenGen, hasher, &mockRegistrar{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
		handler = NewHandler(svc)
	})

	ginkgo.Describe("Login", func() {
		ginkgo.It("should return tokens", func() {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"user@example.com","password":"correct_password"}`))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"access"`))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"refresh"`))
		})

		ginkgo.It("should return 401 for bad credentials", func() {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"user@example.com","password":"nope"}`))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("INVALID_CREDENTIALS"))
		})

		ginkgo.It("should return 400 for malformed JSON", func() {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{`))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("Register", func() {
		ginkgo.It("should return 201", func() {
			req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(`{"email":"new@example.com","username":"new","password":"password123"}`))
			rec := httptest.NewRecorder()

			handler.Register(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusCreated))
		})
	})

	ginkgo.Describe("AuthMiddleware", func() {
		var (
			seen *access.Identity
			next http.Handler
		)

		ginkgo.BeforeEach(func() {
			seen = nil
			next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = access.IdentityFromContext(r.Context())
				w.WriteHeader(http.StatusNoContent)
			})
		})

		ginkgo.It("should reject a request without a token", func() {
			rec := httptest.NewRecorder()
			handler.AuthMiddleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(seen).To(gomega.BeNil())
		})

		ginkgo.It("should reject an invalid token", func() {
			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			req.Header.Set("Authorization", "Bearer garbage")
			rec := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("should reject a deactivated user with 403", func() {
			token, _ := tokenGen.GenerateAccessToken(3, access.RoleEmployee)
			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
		})

		ginkgo.It("should put the identity on the request context", func() {
			token, _ := tokenGen.GenerateAccessToken(1, access.RoleEmployee)
			req := httptest.NewRequest(http.MethodGet, "/users", nil).WithContext(context.Background())
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNoContent))
			gomega.Expect(seen).ToNot(gomega.BeNil())
			gomega.Expect(seen.ID).To(gomega.Equal(int64(1)))
		})

		ginkgo.It("should annotate the enclosing request log with the user id", func() {
			token, _ := tokenGen.GenerateAccessToken(1, access.RoleEmployee)
			ctx := logger.WithRequest(context.Background())
			req := httptest.NewRequest(http.MethodGet, "/users", nil).WithContext(ctx)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNoContent))
			gomega.Expect(logger.Fields(ctx)).To(gomega.Equal([]any{"userID", int64(1)}))
		})
	})
})
