package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/WB2302103/backend/internal/models"
)

func TestGetCartEmptyShape(t *testing.T) {
	s := newTestStore(t)
	h := &CartHandler{Store: s}
	u := seedUser(t, s, "cart-get@example.com", models.RoleUser)

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/cart", nil), u)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var cart struct {
		Items []json.RawMessage `json:"items"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&cart))
	require.NotNil(t, cart.Items)
	require.Empty(t, cart.Items)
}

func TestAddMergesDuplicateProduct(t *testing.T) {
	s := newTestStore(t)
	h := &CartHandler{Store: s}
	u := seedUser(t, s, "cart-add@example.com", models.RoleUser)
	p := seedProduct(t, s, "Echo Plus", "99.99")

	add := func(quantity int) *httptest.ResponseRecorder {
		body := fmt.Sprintf(`{"productId":%d,"quantity":%d}`, p.ID, quantity)
		req := asUser(httptest.NewRequest(http.MethodPost, "/api/cart/add", strings.NewReader(body)), u)
		rec := httptest.NewRecorder()
		h.Add(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, add(2).Code)
	require.Equal(t, http.StatusOK, add(3).Code)

	cart, err := s.GetCartForUser(u.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	require.Equal(t, 5, cart.Items[0].Quantity)
}

func TestAddRejectsBadQuantity(t *testing.T) {
	s := newTestStore(t)
	h := &CartHandler{Store: s}
	u := seedUser(t, s, "cart-badqty@example.com", models.RoleUser)
	p := seedProduct(t, s, "Airpods", "129.99")

	body := fmt.Sprintf(`{"productId":%d,"quantity":0}`, p.ID)
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/cart/add", strings.NewReader(body)), u)
	rec := httptest.NewRecorder()
	h.Add(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateRejectsNonPositiveQuantity(t *testing.T) {
	s := newTestStore(t)
	h := &CartHandler{Store: s}
	u := seedUser(t, s, "cart-update@example.com", models.RoleUser)
	p := seedProduct(t, s, "Charger", "19.99")

	item, err := s.AddCartItem(u.ID, p.ID, 2)
	require.NoError(t, err)

	for _, quantity := range []int{0, -3} {
		req := asUser(httptest.NewRequest(http.MethodPut, "/api/cart/update/1", strings.NewReader(fmt.Sprintf(`{"quantity":%d}`, quantity))), u)
		req.SetPathValue("itemId", fmt.Sprint(item.ID))
		rec := httptest.NewRecorder()
		h.Update(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "Quantity must be > 0")
	}

	// state unchanged
	cart, err := s.GetCartForUser(u.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	require.Equal(t, 2, cart.Items[0].Quantity)
}

func TestRemoveMissingItem(t *testing.T) {
	s := newTestStore(t)
	h := &CartHandler{Store: s}
	u := seedUser(t, s, "cart-remove@example.com", models.RoleUser)

	req := asUser(httptest.NewRequest(http.MethodDelete, "/api/cart/remove/777", nil), u)
	req.SetPathValue("itemId", "777")
	rec := httptest.NewRecorder()
	h.Remove(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
