package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order lifecycle. Transitions driven by checkout/payment are monotonic:
// PENDING -> PAID -> SHIPPED, with CANCELLED reachable from PENDING (gateway
// fail/cancel) or by admin action.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusPaid      = "PAID"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusCancelled = "CANCELLED"
)

const (
	PaymentStatusSuccess   = "SUCCESS"
	PaymentStatusFailed    = "FAILED"
	PaymentStatusCancelled = "CANCELLED"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// ValidOrderStatus reports whether s is one of the four order states.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusCancelled:
		return true
	}
	return false
}

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	ImageURL      string          `json:"imageUrl"`
	CategoryID    int64           `json:"categoryId"`
	Category      *Category       `json:"category,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Cart is the per-user staging area consumed by checkout. One cart per user,
// created lazily on the first add.
type Cart struct {
	ID     int64      `json:"id"`
	UserID int64      `json:"userId"`
	Items  []CartItem `json:"items"`
}

type CartItem struct {
	ID        int64    `json:"id"`
	CartID    int64    `json:"cartId"`
	ProductID int64    `json:"productId"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product,omitempty"`
}

type Order struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"userId"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	// TranID correlates this order to its external payment lifecycle.
	TranID    string      `json:"tranId"`
	Items     []OrderItem `json:"items,omitempty"`
	User      *User       `json:"user,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// OrderItem is an immutable snapshot of a cart line. UnitPrice is the product
// price frozen at order-creation time.
type OrderItem struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"orderId"`
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Product   *Product        `json:"product,omitempty"`
}

// Payment records one gateway callback outcome. An order may accumulate more
// than one across gateway retries.
type Payment struct {
	ID            int64           `json:"id"`
	OrderID       int64           `json:"orderId"`
	Provider      string          `json:"provider"`
	Status        string          `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transactionId"`
	PaidAt        time.Time       `json:"paidAt"`
}
