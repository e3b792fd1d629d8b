// Package checkout implements the order/checkout workflow: converting a cart
// into an immutable PENDING order, initiating payment with the external
// gateway, and applying the asynchronous payment outcome callbacks.
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/WB2302103/backend/internal/models"
	"github.com/WB2302103/backend/internal/sslcommerz"
)

const provider = "SSLCommerz"

// Store is the data access the workflow needs. *store.Store satisfies it;
// tests may substitute doubles.
type Store interface {
	CreateOrderFromCart(userID int64, tranID, idempotencyKey string) (*models.Order, error)
	ApplyPaymentResult(tranID, orderStatus string, payment *models.Payment) (*models.Order, error)
	ClearCartForUser(userID int64) error
}

// Gateway initiates a payment session and returns the redirect URL for the
// customer to complete it.
type Gateway interface {
	InitiateTransaction(ctx context.Context, req sslcommerz.InitRequest) (string, error)
}

// PaymentInitiationError wraps a gateway invocation fault. Initiation is not
// retried: the gateway may already have registered the transaction.
type PaymentInitiationError struct {
	Err error
}

func (e *PaymentInitiationError) Error() string {
	return fmt.Sprintf("payment initiation failed: %v", e.Err)
}

func (e *PaymentInitiationError) Unwrap() error { return e.Err }

type Service struct {
	Store   Store
	Gateway Gateway
	// BaseURL is the public address used to build the gateway's
	// success/fail/cancel callback URLs.
	BaseURL string
}

// Checkout drains the user's cart into a new PENDING order with a fresh
// transaction correlation id. An empty or absent cart fails with
// store.ErrEmptyCart. The same idempotencyKey always yields the same order.
func (s *Service) Checkout(userID int64, idempotencyKey string) (*models.Order, error) {
	tranID := uuid.New().String()
	return s.Store.CreateOrderFromCart(userID, tranID, idempotencyKey)
}

// PaymentRequest carries the customer contact details the gateway wants at
// initiation. TotalAmount is what the client expects to pay; the order's
// authoritative total is still computed from the cart.
type PaymentRequest struct {
	TotalAmount decimal.Decimal
	CusName     string
	CusEmail    string
	CusAdd1     string
	CusPhone    string
}

// InitiatePayment creates a PENDING order snapshot from the current cart
// (the same unified operation Checkout uses) and asks the gateway for a
// redirect URL correlated by the order's tran_id.
func (s *Service) InitiatePayment(ctx context.Context, userID int64, req PaymentRequest, idempotencyKey string) (string, *models.Order, error) {
	order, err := s.Checkout(userID, idempotencyKey)
	if err != nil {
		return "", nil, err
	}

	if !req.TotalAmount.IsZero() && !req.TotalAmount.Equal(order.TotalAmount) {
		slog.Warn("Client-supplied total differs from computed order total; charging the computed total",
			"tran_id", order.TranID, "client_total", req.TotalAmount, "order_total", order.TotalAmount)
	}

	url, err := s.Gateway.InitiateTransaction(ctx, sslcommerz.InitRequest{
		TotalAmount: order.TotalAmount,
		Currency:    "BDT",
		TranID:      order.TranID,
		SuccessURL:  s.BaseURL + "/api/payment/success",
		FailURL:     s.BaseURL + "/api/payment/fail",
		CancelURL:   s.BaseURL + "/api/payment/cancel",
		CusName:     req.CusName,
		CusEmail:    req.CusEmail,
		CusAdd1:     req.CusAdd1,
		CusPhone:    req.CusPhone,
	})
	if err != nil {
		return "", nil, &PaymentInitiationError{Err: err}
	}
	return url, order, nil
}

// Notification is a parsed gateway callback.
type Notification struct {
	TranID        string
	TransactionID string // gateway's validation id
	Amount        decimal.Decimal
	CardType      string
}

// HandleSuccess applies a payment success callback: the correlated order
// moves to PAID with a SUCCESS payment record, then the order owner's
// current cart is cleared.
//
// The clearing deliberately targets whatever cart the user has *now*, not
// the (already drained) cart that produced the order. A cart started after
// checkout but before the callback gets wiped too; see DESIGN.md.
func (s *Service) HandleSuccess(n Notification) (*models.Order, error) {
	order, err := s.Store.ApplyPaymentResult(n.TranID, models.OrderStatusPaid, &models.Payment{
		Provider:      provider,
		Status:        models.PaymentStatusSuccess,
		Amount:        n.Amount,
		TransactionID: n.TransactionID,
		PaidAt:        time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Store.ClearCartForUser(order.UserID); err != nil {
		return order, fmt.Errorf("clearing cart after payment: %w", err)
	}
	return order, nil
}

// HandleFailure applies a payment failure callback: PENDING order to
// CANCELLED plus a FAILED payment record. Cart state is untouched.
func (s *Service) HandleFailure(n Notification) (*models.Order, error) {
	return s.Store.ApplyPaymentResult(n.TranID, models.OrderStatusCancelled, &models.Payment{
		Provider:      provider,
		Status:        models.PaymentStatusFailed,
		Amount:        n.Amount,
		TransactionID: n.TransactionID,
		PaidAt:        time.Now(),
	})
}

// HandleCancel applies a customer-cancelled callback, mirroring HandleFailure
// with a CANCELLED payment record.
func (s *Service) HandleCancel(n Notification) (*models.Order, error) {
	return s.Store.ApplyPaymentResult(n.TranID, models.OrderStatusCancelled, &models.Payment{
		Provider:      provider,
		Status:        models.PaymentStatusCancelled,
		Amount:        n.Amount,
		TransactionID: n.TransactionID,
		PaidAt:        time.Now(),
	})
}
