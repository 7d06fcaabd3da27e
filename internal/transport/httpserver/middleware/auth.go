package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"pet-custody-go/internal/config"
	"pet-custody-go/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey int

const userIDKey contextKey = iota

// Claims is the token payload issued by the external auth layer.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTAuth validates bearer tokens and puts the authenticated user ID on the
// request context. Role and permission resolution stays with the callers.
type JWTAuth struct {
	secret     []byte
	skipAuth   bool
	mockUserID uuid.UUID
	log        logger.Logger
}

func NewJWTAuth(cfg config.AuthConfig, log logger.Logger) *JWTAuth {
	mockID, err := uuid.Parse(strings.TrimSpace(cfg.MockUserID))
	if err != nil {
		mockID = uuid.Nil
	}
	return &JWTAuth{
		secret:     []byte(cfg.JWTSecret),
		skipAuth:   cfg.SkipAuth,
		mockUserID: mockID,
		log:        log,
	}
}

func (a *JWTAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			if a.mockUserID == uuid.Nil {
				authError(w, http.StatusInternalServerError, "auth_not_configured", "auth mock user id not configured")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), a.mockUserID)))
			return
		}

		if len(a.secret) == 0 {
			authError(w, http.StatusInternalServerError, "auth_not_configured", "auth not configured")
			return
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		userID, err := a.validate(token)
		if err != nil {
			a.log.BusinessError("auth: token rejected", err)
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

func (a *JWTAuth) validate(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == uuid.Nil {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}
	return claims.UserID, nil
}

func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	return userID, ok
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func unauthorized(w http.ResponseWriter) {
	authError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func authError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
