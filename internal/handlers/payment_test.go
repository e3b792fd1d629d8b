package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/WB2302103/backend/internal/checkout"
	"github.com/WB2302103/backend/internal/models"
	"github.com/WB2302103/backend/internal/sslcommerz"
	"github.com/WB2302103/backend/internal/store"
)

type stubGateway struct {
	req sslcommerz.InitRequest
	url string
	err error
}

func (g *stubGateway) InitiateTransaction(ctx context.Context, req sslcommerz.InitRequest) (string, error) {
	g.req = req
	return g.url, g.err
}

func newPaymentEnv(t *testing.T, gw checkout.Gateway) (*store.Store, *PaymentHandler) {
	t.Helper()
	s := newTestStore(t)
	svc := &checkout.Service{Store: s, Gateway: gw, BaseURL: "http://localhost:5000"}
	return s, &PaymentHandler{Checkout: svc, FrontendURL: "http://localhost:5173"}
}

func callbackRequest(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestPaymentInit(t *testing.T) {
	gw := &stubGateway{url: "https://sandbox.sslcommerz.com/pay/session"}
	s, h := newPaymentEnv(t, gw)

	u := seedUser(t, s, "pay-init@example.com", models.RoleUser)
	p := seedProduct(t, s, "Watch", "349.99")
	_, err := s.AddCartItem(u.ID, p.ID, 1)
	require.NoError(t, err)

	body := `{"totalAmount":"349.99","cus_name":"Alice","cus_email":"pay-init@example.com","cus_add1":"Dhaka","cus_phone":"0171"}`
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/payment/init", strings.NewReader(body)), u)
	rec := httptest.NewRecorder()
	h.Init(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		URL    string `json:"url"`
		TranID string `json:"tranId"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, gw.url, resp.URL)
	require.Equal(t, gw.req.TranID, resp.TranID)

	// The initiation created its own PENDING order from the cart.
	orders, err := s.OrdersByUser(u.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, models.OrderStatusPending, orders[0].Status)
}

func TestPaymentInitEmptyCart(t *testing.T) {
	s, h := newPaymentEnv(t, &stubGateway{url: "u"})
	u := seedUser(t, s, "pay-empty@example.com", models.RoleUser)

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/payment/init", strings.NewReader(`{"totalAmount":"10"}`)), u)
	rec := httptest.NewRecorder()
	h.Init(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Cart is empty")
}

func TestPaymentInitGatewayFault(t *testing.T) {
	gw := &stubGateway{err: context.DeadlineExceeded}
	s, h := newPaymentEnv(t, gw)
	u := seedUser(t, s, "pay-fault@example.com", models.RoleUser)
	p := seedProduct(t, s, "Monopod", "12.99")
	_, err := s.AddCartItem(u.ID, p.ID, 1)
	require.NoError(t, err)

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/payment/init", strings.NewReader(`{"totalAmount":"12.99"}`)), u)
	rec := httptest.NewRecorder()
	h.Init(rec, req)
	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSuccessCallback(t *testing.T) {
	s, h := newPaymentEnv(t, &stubGateway{url: "u"})
	u := seedUser(t, s, "cb-success@example.com", models.RoleUser)
	p := seedProduct(t, s, "Earphones", "49.99")
	_, err := s.AddCartItem(u.ID, p.ID, 1)
	require.NoError(t, err)
	order, err := h.Checkout.Checkout(u.ID, "")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.Success(rec, callbackRequest("/api/payment/success", url.Values{
		"tran_id": {order.TranID},
		"val_id":  {"val-77"},
		"amount":  {"49.99"},
	}))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "http://localhost:5173/payment-success", rec.Header().Get("Location"))

	paid, err := s.GetOrderByID(order.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusPaid, paid.Status)

	payments, err := s.PaymentsByOrder(order.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	require.Equal(t, "val-77", payments[0].TransactionID)
}

func TestSuccessCallbackMissingTranID(t *testing.T) {
	_, h := newPaymentEnv(t, &stubGateway{url: "u"})

	rec := httptest.NewRecorder()
	h.Success(rec, callbackRequest("/api/payment/success", url.Values{"amount": {"10"}}))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSuccessCallbackUnknownTranID(t *testing.T) {
	s, h := newPaymentEnv(t, &stubGateway{url: "u"})

	rec := httptest.NewRecorder()
	h.Success(rec, callbackRequest("/api/payment/success", url.Values{
		"tran_id": {"no-such-transaction"},
		"amount":  {"10"},
	}))
	require.Equal(t, http.StatusNotFound, rec.Code)

	// nothing was written
	var count int
	require.NoError(t, s.DB.QueryRow(`SELECT COUNT(*) FROM payments`).Scan(&count))
	require.Zero(t, count)
}

func TestCancelCallback(t *testing.T) {
	s, h := newPaymentEnv(t, &stubGateway{url: "u"})
	u := seedUser(t, s, "cb-cancel@example.com", models.RoleUser)
	p := seedProduct(t, s, "Stick", "12.99")
	_, err := s.AddCartItem(u.ID, p.ID, 1)
	require.NoError(t, err)
	order, err := h.Checkout.Checkout(u.ID, "")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.Cancel(rec, callbackRequest("/api/payment/cancel", url.Values{
		"tran_id": {order.TranID},
		"amount":  {"12.99"},
	}))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "http://localhost:5173/payment-cancel", rec.Header().Get("Location"))

	cancelled, err := s.GetOrderByID(order.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusCancelled, cancelled.Status)
}
