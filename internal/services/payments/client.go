// Package payments is the client for the third-party payment capture
// service. The coordinator consumes its three-call surface: create an
// order for the cart total, capture it on approval, and report errors.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"storefront/internal/logger"
)

type Client struct {
	baseURL    string
	clientID   string
	secret     string
	httpClient *http.Client
	logger     *logger.Logger
}

func NewClient(baseURL, clientID, secret string, logger *logger.Logger) *Client {
	return &Client{
		baseURL:  baseURL,
		clientID: clientID,
		secret:   secret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// GatewayOrder is the provider-side order created for a cart total before
// the customer approves payment.
type GatewayOrder struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CaptureDetails is the raw capture result handed back on approval.
type CaptureDetails map[string]interface{}

// CreateOrder opens a payment order for the given total.
func (c *Client) CreateOrder(ctx context.Context, total float64, currency string) (*GatewayOrder, error) {
	if total <= 0 {
		return nil, fmt.Errorf("invalid total amount: %.2f", total)
	}

	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{"amount": map[string]string{
				"currency_code": currency,
				"value":         fmt.Sprintf("%.2f", total),
			}},
		},
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v2/checkout/orders", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.secret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("payment API request failed: %d - %s", resp.StatusCode, string(body))
	}

	var order GatewayOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &order, nil
}

// Capture finalizes an approved payment order and returns the capture
// details that accompany the checkout submission.
func (c *Client) Capture(ctx context.Context, orderID string) (CaptureDetails, error) {
	url := fmt.Sprintf("%s/v2/checkout/orders/%s/capture", c.baseURL, orderID)

	req, err := http.NewRequestWithContext(ctx, "POST", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.secret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("payment capture failed: %d - %s", resp.StatusCode, string(body))
	}

	var details CaptureDetails
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return nil, fmt.Errorf("failed to decode capture details: %w", err)
	}
	return details, nil
}
