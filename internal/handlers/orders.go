package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/WB2302103/backend/internal/auth"
	"github.com/WB2302103/backend/internal/checkout"
	"github.com/WB2302103/backend/internal/models"
	"github.com/WB2302103/backend/internal/store"
)

type OrderHandler struct {
	Store    *store.Store
	Checkout *checkout.Service
}

// PlaceOrder converts the caller's cart into a PENDING order. An optional
// Idempotency-Key header makes repeated submissions return the same order.
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())

	order, err := h.Checkout.Checkout(claims.UserID, r.Header.Get("Idempotency-Key"))
	if err != nil {
		if errors.Is(err, store.ErrEmptyCart) {
			respondError(w, http.StatusBadRequest, "Cart is empty")
			return
		}
		slog.Error("Order placement failed", "error", err, "user_id", claims.UserID)
		respondError(w, http.StatusInternalServerError, "Failed to place order")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"message": "Order placed successfully", "order": order})
}

// ListMine returns the caller's orders with items and product details.
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())

	orders, err := h.Store.OrdersByUser(claims.UserID)
	if err != nil {
		slog.Error("Failed to fetch orders", "error", err, "user_id", claims.UserID)
		respondError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// ListAll is the admin view over every order.
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Store.AllOrders()
	if err != nil {
		slog.Error("Failed to fetch all orders", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch all orders")
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus is the administrative status override.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(r.PathValue("orderId"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !models.ValidOrderStatus(req.Status) {
		respondError(w, http.StatusBadRequest, "Invalid status value")
		return
	}

	order, err := h.Store.UpdateOrderStatus(orderID, req.Status)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
		slog.Error("Failed to update order status", "error", err, "order_id", orderID)
		respondError(w, http.StatusInternalServerError, "Failed to update order status")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"message": "Order status updated", "updatedOrder": order})
}
