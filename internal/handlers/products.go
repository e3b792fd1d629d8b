package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/WB2302103/backend/internal/store"
)

type ProductHandler struct {
	Store *store.Store
}

// List is the paginated public catalog.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	products, err := h.Store.ListProducts(limit, offset)
	if err != nil {
		slog.Error("Failed to list products", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to get paginated products")
		return
	}
	total, err := h.Store.CountProducts()
	if err != nil {
		slog.Error("Failed to count products", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to get paginated products")
		return
	}

	totalPages := (total + limit - 1) / limit
	respondJSON(w, http.StatusOK, map[string]any{
		"total":      total,
		"page":       page,
		"totalPages": totalPages,
		"products":   products,
	})
}

func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	results, err := h.Store.SearchProducts(r.URL.Query().Get("query"))
	if err != nil {
		slog.Error("Product search failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to search products")
		return
	}
	respondJSON(w, http.StatusOK, results)
}

func (h *ProductHandler) Filter(w http.ResponseWriter, r *http.Request) {
	var filter store.ProductFilter

	if v := r.URL.Query().Get("categoryId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid categoryId")
			return
		}
		filter.CategoryID = &id
	}
	if v := r.URL.Query().Get("minPrice"); v != "" {
		min, err := decimal.NewFromString(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid minPrice")
			return
		}
		filter.MinPrice = &min
	}
	if v := r.URL.Query().Get("maxPrice"); v != "" {
		max, err := decimal.NewFromString(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid maxPrice")
			return
		}
		filter.MaxPrice = &max
	}

	filtered, err := h.Store.FilterProducts(filter)
	if err != nil {
		slog.Error("Product filter failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to filter products")
		return
	}
	respondJSON(w, http.StatusOK, filtered)
}

func (h *ProductHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	category, err := h.Store.GetCategoryByName(name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Category not found")
			return
		}
		slog.Error("Category lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to get category products")
		return
	}

	products, err := h.Store.ProductsByCategory(category.ID)
	if err != nil {
		slog.Error("Category products lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to get category products")
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) ByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := h.Store.GetProductByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Product not found")
			return
		}
		slog.Error("Product lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch product")
		return
	}
	respondJSON(w, http.StatusOK, product)
}
