package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/WB2302103/backend/internal/auth"
	"github.com/WB2302103/backend/internal/store"
)

type CartHandler struct {
	Store *store.Store
}

// Get returns the caller's cart with resolved product details. A user who
// has never added anything gets {"items": []}, not a 404.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())

	cart, err := h.Store.GetCartForUser(claims.UserID)
	if err != nil {
		slog.Error("Failed to fetch cart", "error", err, "user_id", claims.UserID)
		respondError(w, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

type addItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())

	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ProductID <= 0 || req.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "productId and quantity required")
		return
	}

	item, err := h.Store.AddCartItem(claims.UserID, req.ProductID, req.Quantity)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Product not found")
			return
		}
		slog.Error("Failed to add cart item", "error", err, "user_id", claims.UserID)
		respondError(w, http.StatusInternalServerError, "Failed to add item to cart")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"message": "Item added to cart", "cartItem": item})
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())

	itemID, err := strconv.ParseInt(r.PathValue("itemId"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "Quantity must be > 0")
		return
	}

	item, err := h.Store.UpdateCartItem(claims.UserID, itemID, req.Quantity)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Cart item not found")
			return
		}
		slog.Error("Failed to update cart item", "error", err, "user_id", claims.UserID)
		respondError(w, http.StatusInternalServerError, "Failed to update cart item")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"message": "Cart item updated", "updatedItem": item})
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())

	itemID, err := strconv.ParseInt(r.PathValue("itemId"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	if err := h.Store.RemoveCartItem(claims.UserID, itemID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Cart item not found")
			return
		}
		slog.Error("Failed to remove cart item", "error", err, "user_id", claims.UserID)
		respondError(w, http.StatusInternalServerError, "Failed to remove cart item")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Cart item removed"})
}
