package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/WB2302103/backend/internal/auth"
	"github.com/WB2302103/backend/internal/checkout"
	"github.com/WB2302103/backend/internal/store"
)

type PaymentHandler struct {
	Checkout *checkout.Service
	// FrontendURL is where callback handlers redirect the customer's
	// browser after the gateway reports an outcome.
	FrontendURL string
}

type paymentInitRequest struct {
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CusName     string          `json:"cus_name"`
	CusEmail    string          `json:"cus_email"`
	CusAdd1     string          `json:"cus_add1"`
	CusPhone    string          `json:"cus_phone"`
}

// Init creates a PENDING order snapshot from the caller's cart and returns
// the gateway redirect URL.
func (h *PaymentHandler) Init(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())

	var req paymentInitRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TotalAmount.IsNegative() {
		respondError(w, http.StatusBadRequest, "Invalid totalAmount")
		return
	}

	url, order, err := h.Checkout.InitiatePayment(r.Context(), claims.UserID, checkout.PaymentRequest{
		TotalAmount: req.TotalAmount,
		CusName:     req.CusName,
		CusEmail:    req.CusEmail,
		CusAdd1:     req.CusAdd1,
		CusPhone:    req.CusPhone,
	}, r.Header.Get("Idempotency-Key"))
	if err != nil {
		if errors.Is(err, store.ErrEmptyCart) {
			respondError(w, http.StatusBadRequest, "Cart is empty")
			return
		}
		var initErr *checkout.PaymentInitiationError
		if errors.As(err, &initErr) {
			slog.Error("Payment initiation error", "error", err, "user_id", claims.UserID)
			respondError(w, http.StatusBadGateway, "Payment initiation failed")
			return
		}
		slog.Error("Payment init failed", "error", err, "user_id", claims.UserID)
		respondError(w, http.StatusInternalServerError, "Payment initiation failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"url": url, "tranId": order.TranID})
}

// parseNotification pulls the gateway's form-encoded callback fields.
// The callback channel is unauthenticated; the only required field is the
// transaction correlation id.
func parseNotification(r *http.Request) (checkout.Notification, bool) {
	if err := r.ParseForm(); err != nil {
		return checkout.Notification{}, false
	}
	tranID := r.FormValue("tran_id")
	if tranID == "" {
		return checkout.Notification{}, false
	}

	amount, err := decimal.NewFromString(r.FormValue("amount"))
	if err != nil {
		slog.Warn("Gateway callback carried an unparsable amount", "tran_id", tranID, "amount", r.FormValue("amount"))
		amount = decimal.Zero
	}

	return checkout.Notification{
		TranID:        tranID,
		TransactionID: r.FormValue("val_id"),
		Amount:        amount,
		CardType:      r.FormValue("card_type"),
	}, true
}

// Success handles the gateway's payment-success callback. The gateway
// expects a redirect back, which is sent whether or not the internal update
// fully succeeded; only an uncorrelatable tran_id gets an error response.
func (h *PaymentHandler) Success(w http.ResponseWriter, r *http.Request) {
	n, ok := parseNotification(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Missing tran_id in request body")
		return
	}

	order, err := h.Checkout.HandleSuccess(n)
	if err != nil {
		if errors.Is(err, store.ErrUnknownTransaction) {
			slog.Warn("Success callback for unknown transaction", "tran_id", n.TranID)
			respondError(w, http.StatusNotFound, "Unknown transaction")
			return
		}
		// The payment may already be recorded; the gateway retries on
		// non-redirect responses, so log and carry on.
		slog.Error("Success callback processing failed", "error", err, "tran_id", n.TranID)
	} else {
		slog.Info("Payment succeeded", "tran_id", n.TranID, "order_id", order.ID, "amount", n.Amount)
	}

	http.Redirect(w, r, h.FrontendURL+"/payment-success", http.StatusSeeOther)
}

// Fail handles the gateway's payment-failed callback.
func (h *PaymentHandler) Fail(w http.ResponseWriter, r *http.Request) {
	n, ok := parseNotification(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Missing tran_id in request body")
		return
	}

	if _, err := h.Checkout.HandleFailure(n); err != nil {
		if errors.Is(err, store.ErrUnknownTransaction) {
			slog.Warn("Fail callback for unknown transaction", "tran_id", n.TranID)
			respondError(w, http.StatusNotFound, "Unknown transaction")
			return
		}
		slog.Error("Fail callback processing failed", "error", err, "tran_id", n.TranID)
	}

	http.Redirect(w, r, h.FrontendURL+"/payment-fail", http.StatusSeeOther)
}

// Cancel handles the customer-cancelled callback.
func (h *PaymentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	n, ok := parseNotification(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Missing tran_id in request body")
		return
	}

	if _, err := h.Checkout.HandleCancel(n); err != nil {
		if errors.Is(err, store.ErrUnknownTransaction) {
			slog.Warn("Cancel callback for unknown transaction", "tran_id", n.TranID)
			respondError(w, http.StatusNotFound, "Unknown transaction")
			return
		}
		slog.Error("Cancel callback processing failed", "error", err, "tran_id", n.TranID)
	}

	http.Redirect(w, r, h.FrontendURL+"/payment-cancel", http.StatusSeeOther)
}
