// Package sslcommerz talks to the SSLCommerz hosted-payment initiation API.
// The gateway completes payment out-of-band and reports the outcome through
// the success/fail/cancel callback URLs supplied at initiation.
package sslcommerz

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	sandboxEndpoint = "https://sandbox.sslcommerz.com/gwprocess/v4/api.php"
	liveEndpoint    = "https://securepay.sslcommerz.com/gwprocess/v4/api.php"
)

type Client struct {
	StoreID  string
	StorePw  string
	Live     bool
	// BaseURL overrides the gateway endpoint. Leave empty to select
	// sandbox/live from the Live flag.
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(storeID, storePw string, live bool) *Client {
	return &Client{
		StoreID:    storeID,
		StorePw:    storePw,
		Live:       live,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type InitRequest struct {
	TotalAmount decimal.Decimal
	Currency    string
	TranID      string
	SuccessURL  string
	FailURL     string
	CancelURL   string

	CusName  string
	CusEmail string
	CusAdd1  string
	CusPhone string
}

type initResponse struct {
	Status         string `json:"status"`
	FailedReason   string `json:"failedreason"`
	GatewayPageURL string `json:"GatewayPageURL"`
}

// InitiateTransaction registers a payment session with the gateway and
// returns the page URL the customer must be redirected to. Not safe to retry
// blindly: the gateway may have registered the transaction even when the
// call errors.
func (c *Client) InitiateTransaction(ctx context.Context, req InitRequest) (string, error) {
	form := url.Values{}
	form.Set("store_id", c.StoreID)
	form.Set("store_passwd", c.StorePw)
	form.Set("total_amount", req.TotalAmount.StringFixed(2))
	form.Set("currency", req.Currency)
	form.Set("tran_id", req.TranID)
	form.Set("success_url", req.SuccessURL)
	form.Set("fail_url", req.FailURL)
	form.Set("cancel_url", req.CancelURL)
	form.Set("cus_name", req.CusName)
	form.Set("cus_email", req.CusEmail)
	form.Set("cus_add1", req.CusAdd1)
	form.Set("cus_phone", req.CusPhone)
	form.Set("shipping_method", "Courier")
	form.Set("ship_name", req.CusName)
	form.Set("ship_add1", req.CusAdd1)
	form.Set("ship_city", "Dhaka")
	form.Set("ship_state", "Dhaka")
	form.Set("ship_postcode", "1207")
	form.Set("ship_country", "Bangladesh")
	form.Set("product_name", "Cart Items")
	form.Set("product_category", "Mixed")
	form.Set("product_profile", "general")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("sslcommerz: init request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("sslcommerz: init returned status %d", resp.StatusCode)
	}

	var body initResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("sslcommerz: decoding init response: %w", err)
	}
	if body.Status != "SUCCESS" || body.GatewayPageURL == "" {
		return "", fmt.Errorf("sslcommerz: init rejected: %s", body.FailedReason)
	}
	return body.GatewayPageURL, nil
}

func (c *Client) endpoint() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	if c.Live {
		return liveEndpoint
	}
	return sandboxEndpoint
}
