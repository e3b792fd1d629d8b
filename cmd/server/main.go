package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/WB2302103/backend/internal/checkout"
	"github.com/WB2302103/backend/internal/config"
	"github.com/WB2302103/backend/internal/handlers"
	"github.com/WB2302103/backend/internal/sslcommerz"
	"github.com/WB2302103/backend/internal/store"
)

func main() {
	// Configure slog as early as possible in main.
	handlerOpts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, handlerOpts))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Init DB
	db, err := store.NewStore(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}

	// Run Migrations
	if err := db.Migrate("migrations"); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// 3. Payment gateway + checkout workflow
	gateway := sslcommerz.NewClient(cfg.SSLCStoreID, cfg.SSLCStorePw, cfg.SSLCLive)
	checkoutSvc := &checkout.Service{
		Store:   db,
		Gateway: gateway,
		BaseURL: cfg.BaseURL,
	}

	// 4. Setup Handlers
	authn := &handlers.Authenticator{Secret: cfg.JWTSecret}
	authHandler := &handlers.AuthHandler{Store: db, Secret: cfg.JWTSecret}
	productHandler := &handlers.ProductHandler{Store: db}
	cartHandler := &handlers.CartHandler{Store: db}
	orderHandler := &handlers.OrderHandler{Store: db, Checkout: checkoutSvc}
	paymentHandler := &handlers.PaymentHandler{Checkout: checkoutSvc, FrontendURL: cfg.FrontendURL}
	adminHandler := &handlers.AdminHandler{Store: db}

	mux := http.NewServeMux()

	// Static files (uploaded product images)
	fileServer := http.FileServer(http.Dir("./static"))
	mux.Handle("/static/", http.StripPrefix("/static", fileServer))

	// Rate Limiter for credential endpoints
	rateLimiter := handlers.NewRateLimiter(10 * time.Second)

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"API is working"}`))
	})

	// Auth
	mux.HandleFunc("POST /api/auth/register", rateLimiter.Middleware(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", rateLimiter.Middleware(authHandler.Login))

	// Public catalog
	mux.HandleFunc("GET /api/products", productHandler.List)
	mux.HandleFunc("GET /api/products/search", productHandler.Search)
	mux.HandleFunc("GET /api/products/filter", productHandler.Filter)
	mux.HandleFunc("GET /api/products/category/{name}", productHandler.ByCategory)
	mux.HandleFunc("GET /api/products/{id}", productHandler.ByID)

	// Cart
	mux.HandleFunc("GET /api/cart", authn.Require(cartHandler.Get))
	mux.HandleFunc("POST /api/cart/add", authn.Require(cartHandler.Add))
	mux.HandleFunc("PUT /api/cart/update/{itemId}", authn.Require(cartHandler.Update))
	mux.HandleFunc("DELETE /api/cart/remove/{itemId}", authn.Require(cartHandler.Remove))

	// Orders
	mux.HandleFunc("POST /api/orders/checkout", authn.Require(orderHandler.PlaceOrder))
	mux.HandleFunc("GET /api/orders", authn.Require(orderHandler.ListMine))
	mux.HandleFunc("GET /api/orders/all", authn.RequireAdmin(orderHandler.ListAll))
	mux.HandleFunc("PUT /api/orders/{orderId}/status", authn.RequireAdmin(orderHandler.UpdateStatus))

	// Payment: init is authenticated; the callbacks are invoked by the
	// gateway and carry no credentials.
	mux.HandleFunc("POST /api/payment/init", authn.Require(paymentHandler.Init))
	mux.HandleFunc("POST /api/payment/success", paymentHandler.Success)
	mux.HandleFunc("POST /api/payment/fail", paymentHandler.Fail)
	mux.HandleFunc("POST /api/payment/cancel", paymentHandler.Cancel)

	// Admin
	mux.HandleFunc("GET /api/admin/stats", authn.RequireAdmin(adminHandler.Stats))
	mux.HandleFunc("GET /api/admin/products", authn.RequireAdmin(adminHandler.ListProducts))
	mux.HandleFunc("POST /api/admin/products", authn.RequireAdmin(adminHandler.CreateProduct))
	mux.HandleFunc("PUT /api/admin/products/{productId}", authn.RequireAdmin(adminHandler.UpdateProduct))
	mux.HandleFunc("DELETE /api/admin/products/{productId}", authn.RequireAdmin(adminHandler.DeleteProduct))
	mux.HandleFunc("POST /api/admin/products/{productId}/image", authn.RequireAdmin(adminHandler.UploadProductImage))

	// 5. Middleware chain: Logger -> Security Headers -> Mux
	handler := handlers.LoggingMiddleware(
		handlers.SecurityHeadersMiddleware(mux),
	)

	// 6. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	<-stop

	slog.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited gracefully.")
}
