package config

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"os"
	"strconv"
)

type Config struct {
	Port        string
	DBPath      string
	JWTSecret   []byte
	SSLCStoreID string
	SSLCStorePw string
	SSLCLive    bool
	// BaseURL is the public address the payment gateway uses for its
	// success/fail/cancel callbacks.
	BaseURL string
	// FrontendURL is where payment callbacks redirect the customer's browser.
	FrontendURL string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "5000"),
		DBPath:      getEnv("DB_PATH", "./shop.db"),
		SSLCStoreID: os.Getenv("SSLC_STORE_ID"),
		SSLCStorePw: os.Getenv("SSLC_STORE_PASSWORD"),
		SSLCLive:    getEnv("SSLC_LIVE", "false") == "true",
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
	}

	// JWT secret (critical for security)
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		slog.Warn("JWT_SECRET environment variable not set. Generating a random secret for development. All tokens will be invalid on restart. PLEASE SET JWT_SECRET IN PRODUCTION!")
		cfg.JWTSecret = generateRandomBytes(32)
	} else {
		cfg.JWTSecret = []byte(secret)
	}

	if cfg.SSLCStoreID == "" || cfg.SSLCStorePw == "" {
		slog.Warn("SSLC_STORE_ID / SSLC_STORE_PASSWORD not set. Payment initiation will fail against the real gateway.")
	}

	// Make sure port is valid
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		slog.Error("Invalid PORT environment variable. Falling back to default.", "PORT", os.Getenv("PORT"))
		cfg.Port = "5000"
	}

	cfg.BaseURL = getEnv("BASE_URL", "http://localhost:"+cfg.Port)

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// generateRandomBytes returns n bytes from crypto/rand, hex-padded as a last
// resort if the source fails.
func generateRandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		slog.Error("Failed to read random bytes", "error", err)
		fallback := make([]byte, n)
		copy(fallback, []byte(hex.EncodeToString([]byte("fallback-insecure-secret"))))
		return fallback
	}
	return b
}
