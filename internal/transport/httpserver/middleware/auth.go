package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"finance-tracker-go/internal/config"
	"finance-tracker-go/pkg/logger"
)

// JWTAuth resolves the caller from an HMAC-signed bearer token. The owner id of every
// request is the token subject.
type JWTAuth struct {
	secret   []byte
	issuer   string
	skipAuth bool
	mockUser User
	log      logger.Logger
}

type contextKey int

const userKey contextKey = iota

type User struct {
	ID    string
	Email string
}

type claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

func NewJWTAuth(cfg config.AuthConfig, log logger.Logger) *JWTAuth {
	if log == nil {
		log = logger.NewNop()
	}
	return &JWTAuth{
		secret:   []byte(cfg.JWTSecret),
		issuer:   strings.TrimSpace(cfg.JWTIssuer),
		skipAuth: cfg.SkipAuth,
		mockUser: User{ID: strings.TrimSpace(cfg.MockUserID)},
		log:      log,
	}
}

func (a *JWTAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			if a.mockUser.ID == "" {
				writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth mock user id not configured")
				return
			}
			next.ServeHTTP(w, a.authenticated(r, a.mockUser))
			return
		}

		if len(a.secret) == 0 {
			writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth not configured")
			return
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		user, err := a.parse(token)
		if err != nil {
			logger.FromContext(r.Context(), a.log).BusinessError("auth: token rejected", err)
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, a.authenticated(r, user))
	})
}

// authenticated attaches the caller and tags the request logger with the owner id.
func (a *JWTAuth) authenticated(r *http.Request, user User) *http.Request {
	ctx := WithUser(r.Context(), user)
	ctx = logger.WithContext(ctx, logger.FromContext(ctx, a.log).With("owner_id", user.ID))
	return r.WithContext(ctx)
}

func (a *JWTAuth) parse(raw string) (User, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if a.issuer != "" {
		options = append(options, jwt.WithIssuer(a.issuer))
	}

	var parsed claims
	_, err := jwt.ParseWithClaims(raw, &parsed, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, options...)
	if err != nil {
		return User{}, err
	}

	subject := strings.TrimSpace(parsed.Subject)
	if subject == "" {
		return User{}, errors.New("token has no subject")
	}
	return User{ID: subject, Email: parsed.Email}, nil
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(userKey).(User)
	if !ok || user.ID == "" {
		return User{}, false
	}
	return user, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
