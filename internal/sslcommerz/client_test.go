package sslcommerz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testRequest() InitRequest {
	return InitRequest{
		TotalAmount: decimal.RequireFromString("25.00"),
		Currency:    "BDT",
		TranID:      "tran-1",
		SuccessURL:  "http://localhost:5000/api/payment/success",
		FailURL:     "http://localhost:5000/api/payment/fail",
		CancelURL:   "http://localhost:5000/api/payment/cancel",
		CusName:     "Customer",
		CusEmail:    "customer@example.com",
		CusAdd1:     "Dhaka",
		CusPhone:    "0171000000",
	}
}

func TestInitiateTransaction(t *testing.T) {
	var form map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		form = map[string]string{
			"store_id":     r.FormValue("store_id"),
			"store_passwd": r.FormValue("store_passwd"),
			"tran_id":      r.FormValue("tran_id"),
			"total_amount": r.FormValue("total_amount"),
			"currency":     r.FormValue("currency"),
			"success_url":  r.FormValue("success_url"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"SUCCESS","GatewayPageURL":"https://sandbox.sslcommerz.com/pay/abc"}`))
	}))
	defer srv.Close()

	c := NewClient("teststore", "testpw", false)
	c.BaseURL = srv.URL

	url, err := c.InitiateTransaction(context.Background(), testRequest())
	require.NoError(t, err)
	require.Equal(t, "https://sandbox.sslcommerz.com/pay/abc", url)

	require.Equal(t, "teststore", form["store_id"])
	require.Equal(t, "testpw", form["store_passwd"])
	require.Equal(t, "tran-1", form["tran_id"])
	require.Equal(t, "25.00", form["total_amount"])
	require.Equal(t, "BDT", form["currency"])
	require.Equal(t, "http://localhost:5000/api/payment/success", form["success_url"])
}

func TestInitiateTransactionRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"FAILED","failedreason":"Store Credential Error"}`))
	}))
	defer srv.Close()

	c := NewClient("teststore", "badpw", false)
	c.BaseURL = srv.URL

	_, err := c.InitiateTransaction(context.Background(), testRequest())
	require.ErrorContains(t, err, "Store Credential Error")
}

func TestInitiateTransactionHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient("teststore", "testpw", false)
	c.BaseURL = srv.URL

	_, err := c.InitiateTransaction(context.Background(), testRequest())
	require.ErrorContains(t, err, "status 500")
}

func TestEndpointSelection(t *testing.T) {
	require.Equal(t, sandboxEndpoint, NewClient("s", "p", false).endpoint())
	require.Equal(t, liveEndpoint, NewClient("s", "p", true).endpoint())
}
