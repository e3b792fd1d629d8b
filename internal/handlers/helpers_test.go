package handlers

import (
	"net/http"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/WB2302103/backend/internal/auth"
	"github.com/WB2302103/backend/internal/models"
	"github.com/WB2302103/backend/internal/store"
)

var testSecret = []byte("handler-test-secret")

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewStore("file::memory:")
	require.NoError(t, err)
	s.DB.SetMaxOpenConns(1)
	require.NoError(t, s.Migrate(filepath.Join("..", "..", "migrations")))
	t.Cleanup(func() { s.Close() })
	return s
}

func seedUser(t *testing.T, s *store.Store, email, role string) *models.User {
	t.Helper()
	u := &models.User{Name: "Test User", Email: email, PasswordHash: "x", Role: role}
	require.NoError(t, s.CreateUser(u))
	return u
}

func seedProduct(t *testing.T, s *store.Store, title, price string) *models.Product {
	t.Helper()
	p := &models.Product{
		Title:         title,
		Description:   "test product",
		Price:         decimal.RequireFromString(price),
		StockQuantity: 10,
	}
	require.NoError(t, s.CreateProduct(p, "accessories"))
	return p
}

// asUser attaches an authenticated identity, the way the auth middleware
// would after verifying a token.
func asUser(r *http.Request, u *models.User) *http.Request {
	claims := &auth.Claims{UserID: u.ID, Email: u.Email, Role: u.Role}
	return r.WithContext(auth.NewContext(r.Context(), claims))
}
