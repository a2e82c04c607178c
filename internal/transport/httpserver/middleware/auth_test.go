package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"finance-tracker-go/internal/config"
)

const secret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, c jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, c).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims(subject string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    "finance",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
}

func serve(auth *JWTAuth, header string) (*httptest.ResponseRecorder, string) {
	var seen string
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		seen = user.ID
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, seen
}

func TestJWTAuthResolvesSubject(t *testing.T) {
	auth := NewJWTAuth(config.AuthConfig{JWTSecret: secret, JWTIssuer: "finance"}, nil)
	token := sign(t, jwt.SigningMethodHS256, []byte(secret), validClaims("user-42"))

	rec, seen := serve(auth, "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "user-42", seen)
}

func TestJWTAuthRejects(t *testing.T) {
	auth := NewJWTAuth(config.AuthConfig{JWTSecret: secret, JWTIssuer: "finance"}, nil)

	expired := validClaims("user-42")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	wrongIssuer := validClaims("user-42")
	wrongIssuer.Issuer = "someone-else"

	cases := map[string]string{
		"missing header":  "",
		"not bearer":      "Basic abc",
		"garbage":         "Bearer not-a-token",
		"wrong secret":    "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("other"), validClaims("user-42")),
		"expired":         "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), expired),
		"wrong issuer":    "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), wrongIssuer),
		"empty subject":   "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), validClaims("")),
		"unsigned method": "Bearer " + sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, validClaims("user-42")),
	}

	for name, header := range cases {
		rec, seen := serve(auth, header)
		require.Equal(t, http.StatusUnauthorized, rec.Code, name)
		require.Empty(t, seen, name)
		require.Contains(t, rec.Body.String(), `"invalid_token"`, name)
	}
}

func TestJWTAuthSkipUsesMockUser(t *testing.T) {
	auth := NewJWTAuth(config.AuthConfig{SkipAuth: true, MockUserID: "mock-user"}, nil)

	rec, seen := serve(auth, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "mock-user", seen)
}

func TestCORSPreflight(t *testing.T) {
	handler := NewCORS([]string{"http://localhost:5173"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("preflight must not reach the handler")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/transactions", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "Content-Disposition", rec.Header().Get("Access-Control-Expose-Headers"))
}
