package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pet-custody-go/internal/config"
	"pet-custody-go/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func testLogger() logger.Logger {
	return logger.New(io.Discard, slog.LevelError, "json")
}

func signToken(t *testing.T, secret string, userID uuid.UUID, expiresAt time.Time) string {
	t.Helper()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func authHarness(cfg config.AuthConfig) (http.Handler, *uuid.UUID) {
	var seen uuid.UUID
	auth := NewJWTAuth(cfg, testLogger())
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if ok {
			seen = userID
		}
		w.WriteHeader(http.StatusOK)
	})
	return auth.Middleware(next), &seen
}

func TestAuthValidToken(t *testing.T) {
	userID := uuid.New()
	handler, seen := authHarness(config.AuthConfig{JWTSecret: "secret"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "secret", userID, time.Now().Add(time.Hour)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if *seen != userID {
		t.Fatalf("expected user %s on context, got %s", userID, *seen)
	}
}

func TestAuthRejections(t *testing.T) {
	handler, _ := authHarness(config.AuthConfig{JWTSecret: "secret"})

	cases := map[string]string{
		"missing header": "",
		"not bearer":     "Basic abc",
		"wrong secret":   "Bearer " + signToken(t, "other", uuid.New(), time.Now().Add(time.Hour)),
		"expired":        "Bearer " + signToken(t, "secret", uuid.New(), time.Now().Add(-time.Hour)),
	}
	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, rec.Code)
		}
	}
}

func TestAuthSkipUsesMockUser(t *testing.T) {
	mockID := uuid.New()
	handler, seen := authHarness(config.AuthConfig{SkipAuth: true, MockUserID: mockID.String()})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if *seen != mockID {
		t.Fatalf("expected mock user, got %s", *seen)
	}
}

func TestAuthSkipWithoutMockUserFails(t *testing.T) {
	handler, _ := authHarness(config.AuthConfig{SkipAuth: true})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
