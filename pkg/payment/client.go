package payment

import (
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client wraps the external payment processor HTTP API.
type Client struct {
	http *resty.Client
}

// Order is the processor-side view of a payment order.
type Order struct {
	Reference   string  `json:"reference"`
	ProviderRef string  `json:"provider_ref"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Status      string  `json:"status"`
	PayURL      string  `json:"pay_url,omitempty"`
}

type orderResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    Order  `json:"data"`
}

// NewClient builds a client from PAYMENT_API_URL / PAYMENT_API_KEY.
func NewClient() *Client {
	c := resty.New().
		SetBaseURL(os.Getenv("PAYMENT_API_URL")).
		SetHeader("Authorization", "Bearer "+os.Getenv("PAYMENT_API_KEY")).
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(2 * time.Second)
	return &Client{http: c}
}

// CreatePayment registers a deposit intent and returns the checkout info.
func (c *Client) CreatePayment(reference string, userID uint, amount float64) (*Order, error) {
	var out orderResponse
	resp, err := c.http.R().
		SetBody(map[string]interface{}{
			"reference": reference,
			"user_id":   userID,
			"amount":    amount,
			"currency":  "USD",
			"callback":  os.Getenv("PAYMENT_CALLBACK_URL"),
		}).
		SetResult(&out).
		Post("/v1/payments")
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	if resp.IsError() || out.Code != 0 {
		return nil, fmt.Errorf("create payment: status %d, code %d: %s", resp.StatusCode(), out.Code, out.Message)
	}
	return &out.Data, nil
}

// CreatePayout submits a withdrawal to the processor.
func (c *Client) CreatePayout(reference string, userID uint, amount float64, destination string) (*Order, error) {
	var out orderResponse
	resp, err := c.http.R().
		SetBody(map[string]interface{}{
			"reference":   reference,
			"user_id":     userID,
			"amount":      amount,
			"currency":    "USD",
			"destination": destination,
		}).
		SetResult(&out).
		Post("/v1/payouts")
	if err != nil {
		return nil, fmt.Errorf("create payout: %w", err)
	}
	if resp.IsError() || out.Code != 0 {
		return nil, fmt.Errorf("create payout: status %d, code %d: %s", resp.StatusCode(), out.Code, out.Message)
	}
	return &out.Data, nil
}

// QueryStatus re-fetches the processor-side status of an order,
// used by the admin requery endpoint when a callback is missing.
func (c *Client) QueryStatus(reference string) (*Order, error) {
	var out orderResponse
	resp, err := c.http.R().
		SetPathParam("reference", reference).
		SetResult(&out).
		Get("/v1/orders/{reference}")
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}
	if resp.IsError() || out.Code != 0 {
		return nil, fmt.Errorf("query order: status %d, code %d: %s", resp.StatusCode(), out.Code, out.Message)
	}
	return &out.Data, nil
}
