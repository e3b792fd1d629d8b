package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/WB2302103/backend/internal/auth"
	"github.com/WB2302103/backend/internal/models"
)

func TestRequireRejectsMissingToken(t *testing.T) {
	a := &Authenticator{Secret: testSecret}
	handler := a.Require(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "missing or malformed")
}

func TestRequireRejectsInvalidToken(t *testing.T) {
	a := &Authenticator{Secret: testSecret}
	handler := a.Require(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec := httptest.NewRecorder()
	handler(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid or expired token")
}

func TestRequireAttachesClaims(t *testing.T) {
	a := &Authenticator{Secret: testSecret}
	user := &models.User{ID: 9, Email: "ctx@example.com", Role: models.RoleUser}
	token, err := auth.Sign(testSecret, user)
	require.NoError(t, err)

	var got *auth.Claims
	handler := a.Require(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	require.Equal(t, int64(9), got.UserID)
}

func TestRequireAdminRejectsNonAdmin(t *testing.T) {
	a := &Authenticator{Secret: testSecret}
	user := &models.User{ID: 3, Email: "user@example.com", Role: models.RoleUser}
	token, err := auth.Sign(testSecret, user)
	require.NoError(t, err)

	handler := a.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	a := &Authenticator{Secret: testSecret}
	admin := &models.User{ID: 1, Email: "admin@example.com", Role: models.RoleAdmin}
	token, err := auth.Sign(testSecret, admin)
	require.NoError(t, err)

	handler := a.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
