package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
)

func TestAuthRequiredAllowsAccessToken(t *testing.T) {
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)

	called := false
	handler := AuthRequired(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := requestWithClaims(t, ja, map[string]interface{}{"sub": "emp-1", "type": "access"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRequiredRejectsRefreshToken(t *testing.T) {
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)

	called := false
	handler := AuthRequired(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := requestWithClaims(t, ja, map[string]interface{}{"sub": "emp-1", "type": "refresh"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRequiredRejectsMissingToken(t *testing.T) {
	called := false
	handler := AuthRequired(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
