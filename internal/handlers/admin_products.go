package handlers

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"github.com/shopspring/decimal"

	"github.com/WB2302103/backend/internal/models"
	"github.com/WB2302103/backend/internal/store"
)

const uploadDir = "static/uploads"

// ListProducts is the unpaginated admin catalog view.
func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.AllProducts()
	if err != nil {
		slog.Error("Failed to fetch products", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	respondJSON(w, http.StatusOK, products)
}

type productRequest struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	ImageURL      string          `json:"imageUrl"`
	CategoryName  string          `json:"categoryName"`
}

func (req *productRequest) validate() string {
	if req.Title == "" {
		return "Title is required"
	}
	if !req.Price.IsPositive() {
		return "Price must be positive"
	}
	if req.StockQuantity < 0 {
		return "stockQuantity must not be negative"
	}
	if req.CategoryName == "" {
		return "categoryName is required"
	}
	return ""
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	product := &models.Product{
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		ImageURL:      req.ImageURL,
	}
	if err := h.Store.CreateProduct(product, req.CategoryName); err != nil {
		slog.Error("Failed to create product", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	respondJSON(w, http.StatusCreated, product)
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("productId"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	product := &models.Product{
		ID:            id,
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		ImageURL:      req.ImageURL,
	}
	if err := h.Store.UpdateProduct(product, req.CategoryName); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Product not found")
			return
		}
		slog.Error("Failed to update product", "error", err, "product_id", id)
		respondError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("productId"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := h.Store.DeleteProduct(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Product not found")
			return
		}
		slog.Error("Failed to delete product", "error", err, "product_id", id)
		respondError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

// UploadProductImage accepts a multipart PNG/JPEG, resizes it to a max width
// of 800px and swaps the product's image URL to the stored copy.
func (h *AdminHandler) UploadProductImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("productId"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil { // 10MB
		respondError(w, http.StatusBadRequest, "File too large. Max 10MB.")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	var img image.Image
	switch filepath.Ext(header.Filename) {
	case ".png":
		img, err = png.Decode(file)
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(file)
	default:
		respondError(w, http.StatusBadRequest, "Unsupported image format. Only PNG, JPG, JPEG are allowed.")
		return
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to decode image")
		return
	}

	resized := resize.Resize(800, 0, img, resize.Lanczos3)

	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		slog.Error("Failed to create upload directory", "error", err)
		respondError(w, http.StatusInternalServerError, "Error saving image file")
		return
	}
	filename := fmt.Sprintf("%s.jpg", uuid.New().String())
	out, err := os.Create(filepath.Join(uploadDir, filename))
	if err != nil {
		slog.Error("Failed to create image file", "error", err)
		respondError(w, http.StatusInternalServerError, "Error saving image file")
		return
	}
	defer out.Close()

	if err := jpeg.Encode(out, resized, &jpeg.Options{Quality: 80}); err != nil {
		slog.Error("Failed to encode image", "error", err)
		respondError(w, http.StatusInternalServerError, "Error encoding image")
		return
	}

	imageURL := "/static/uploads/" + filename
	if err := h.Store.UpdateProductImage(id, imageURL); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Product not found")
			return
		}
		slog.Error("Failed to update product image", "error", err, "product_id", id)
		respondError(w, http.StatusInternalServerError, "Failed to update product image")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"imageUrl": imageURL})
}
