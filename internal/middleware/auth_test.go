package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursebank/backend/internal/models"
	"github.com/coursebank/backend/internal/services"
)

const testKey = "middleware-secret"

func signToken(t *testing.T, claims jwt.MapClaims, method jwt.SigningMethod, key any) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validToken(t *testing.T) string {
	return signToken(t, jwt.MapClaims{
		"user_id": "user-1",
		"role":    "instructor",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}, jwt.SigningMethodHS256, []byte(testKey))
}

// echo writes the authenticated user back to the response.
var echo = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	w.Write([]byte(userID + "/" + string(Role(r.Context()))))
})

func TestAuthMiddleware(t *testing.T) {
	auth := NewAuth(testKey, nil)
	handler := auth.Middleware(echo)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + validToken(t), http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"wrong key", "Bearer " + signToken(t, jwt.MapClaims{"user_id": "u", "exp": time.Now().Add(time.Hour).Unix()}, jwt.SigningMethodHS256, []byte("other")), http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, jwt.MapClaims{"user_id": "u", "exp": time.Now().Add(-time.Hour).Unix()}, jwt.SigningMethodHS256, []byte(testKey)), http.StatusUnauthorized},
		{"no expiry", "Bearer " + signToken(t, jwt.MapClaims{"user_id": "u"}, jwt.SigningMethodHS256, []byte(testKey)), http.StatusUnauthorized},
		{"no user id", "Bearer " + signToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}, jwt.SigningMethodHS256, []byte(testKey)), http.StatusUnauthorized},
		{"valid", "Bearer " + validToken(t), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, r)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "user-1/instructor", w.Body.String())
			}
		})
	}
}

func TestAuthMiddleware_Blacklist(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	handler := NewAuth(testKey, rdb).Middleware(echo)
	token := validToken(t)

	serve := func() int {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w.Code
	}

	mock.ExpectExists(services.BlacklistKey(token)).SetVal(1)
	assert.Equal(t, http.StatusUnauthorized, serve())

	mock.ExpectExists(services.BlacklistKey(token)).SetVal(0)
	assert.Equal(t, http.StatusOK, serve())

	mock.ExpectExists(services.BlacklistKey(token)).SetErr(errors.New("connection refused"))
	assert.Equal(t, http.StatusOK, serve())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(models.RoleAdmin)(echo)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r.WithContext(WithUser(r.Context(), "u1", models.RoleStudent)))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r.WithContext(WithUser(r.Context(), "u2", models.RoleAdmin)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u2/admin", w.Body.String())
}

func TestSecurityHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	SecurityHeaders(echo).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}
