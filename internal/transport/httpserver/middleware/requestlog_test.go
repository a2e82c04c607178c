package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"finance-tracker-go/internal/config"
	"finance-tracker-go/pkg/logger"
)

func TestRequestLoggerTagsRequestAndOwner(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, slog.LevelInfo, "text")
	auth := NewJWTAuth(config.AuthConfig{JWTSecret: secret, JWTIssuer: "finance"}, log)

	handler := chimw.RequestID(RequestLogger(log)(auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context(), log).Info("handler: reached")
		w.WriteHeader(http.StatusCreated)
	}))))

	req := httptest.NewRequest(http.MethodPost, "/api/categories", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, jwt.SigningMethodHS256, []byte(secret), validClaims("owner-7")))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	out := buf.String()
	require.Contains(t, out, "handler: reached")
	require.Contains(t, out, "owner_id=owner-7")
	require.Contains(t, out, "http.request: served")
	require.Contains(t, out, "status=201")
	require.Contains(t, out, "path=/api/categories")
	require.Contains(t, out, "request_id=")
}
