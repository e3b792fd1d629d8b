package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/WB2302103/backend/internal/models"
	"github.com/WB2302103/backend/internal/store"
)

func main() {
	addAdminCmd := flag.NewFlagSet("add-admin", flag.ExitOnError)
	name := addAdminCmd.String("name", "", "Display name for the admin user")
	email := addAdminCmd.String("email", "", "Email for the admin user")
	password := addAdminCmd.String("password", "", "Password for the admin user")

	if len(os.Args) < 2 {
		fmt.Println("expected 'add-admin' or 'seed' subcommand")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add-admin":
		addAdminCmd.Parse(os.Args[2:])
		if *name == "" || *email == "" || *password == "" {
			fmt.Println("name, email and password are required")
			addAdminCmd.PrintDefaults()
			os.Exit(1)
		}
		createAdmin(*name, *email, *password)
	case "seed":
		seedCatalog()
	default:
		fmt.Println("expected 'add-admin' or 'seed' subcommand")
		os.Exit(1)
	}
}

func openStore() *store.Store {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./shop.db"
	}

	db, err := store.NewStore(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	// Ensure schema exists if running cli before the server
	if err := db.Migrate("migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func createAdmin(name, email, password string) {
	db := openStore()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{Name: name, Email: email, PasswordHash: string(hash), Role: models.RoleAdmin}
	if err := db.CreateUser(user); err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	fmt.Printf("Admin '%s' created successfully.\n", email)
}

type seedProduct struct {
	title       string
	description string
	price       string
	stock       int
	imageURL    string
}

var seedProducts = []seedProduct{
	{"Amazon Echo Plus", "Smart speaker with built-in Alexa voice control and premium sound. Doubles as a smart home hub.", "99.99", 61, "https://cdn.dummyjson.com/product-images/mobile-accessories/amazon-echo-plus/1.webp"},
	{"Apple Airpods", "Wireless earbuds with easy pairing, high-quality sound and Siri integration.", "129.99", 67, "https://cdn.dummyjson.com/product-images/mobile-accessories/apple-airpods/1.webp"},
	{"Apple AirPods Max Silver", "Premium over-ear headphones with high-fidelity audio, adaptive EQ and active noise cancellation.", "549.99", 59, "https://cdn.dummyjson.com/product-images/mobile-accessories/apple-airpods-max-silver/1.webp"},
	{"Apple Airpower Wireless Charger", "Charging mat for charging compatible Apple devices wirelessly.", "79.99", 1, "https://cdn.dummyjson.com/product-images/mobile-accessories/apple-airpower-wireless-charger/1.webp"},
	{"Apple HomePod Mini Cosmic Grey", "Compact smart speaker that integrates with the Apple ecosystem.", "99.99", 27, "https://cdn.dummyjson.com/product-images/mobile-accessories/apple-homepod-mini-cosmic-grey/1.webp"},
	{"Apple iPhone Charger", "Fast and efficient charger for iPhone.", "19.99", 31, "https://cdn.dummyjson.com/product-images/mobile-accessories/apple-iphone-charger/1.webp"},
	{"Apple MagSafe Battery Pack", "Portable battery pack that attaches magnetically to MagSafe-compatible iPhones.", "99.99", 1, "https://cdn.dummyjson.com/product-images/mobile-accessories/apple-magsafe-battery-pack/1.webp"},
	{"Apple Watch Series 4 Gold", "Smartwatch with heart rate monitoring, fitness tracking and a Retina display.", "349.99", 33, "https://cdn.dummyjson.com/product-images/mobile-accessories/apple-watch-series-4-gold/1.webp"},
	{"Beats Flex Wireless Earphones", "Magnetic earbuds with up to 12 hours of battery life.", "49.99", 50, "https://cdn.dummyjson.com/product-images/mobile-accessories/beats-flex-wireless-earphones/1.webp"},
	{"Selfie Stick Monopod", "Extendable and foldable stick for selfies and group photos.", "12.99", 11, "https://cdn.dummyjson.com/product-images/mobile-accessories/selfie-stick-monopod/1.webp"},
}

func seedCatalog() {
	db := openStore()

	const categoryName = "mobile-accessories"
	for _, sp := range seedProducts {
		price, err := decimal.NewFromString(sp.price)
		if err != nil {
			log.Fatalf("Bad seed price %q: %v", sp.price, err)
		}
		p := &models.Product{
			Title:         sp.title,
			Description:   sp.description,
			Price:         price,
			StockQuantity: sp.stock,
			ImageURL:      sp.imageURL,
		}
		if err := db.CreateProduct(p, categoryName); err != nil {
			log.Fatalf("Failed to seed product %q: %v", sp.title, err)
		}
	}

	fmt.Printf("Seeded %d products into category %q.\n", len(seedProducts), categoryName)
}
