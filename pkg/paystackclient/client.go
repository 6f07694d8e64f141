/**
 * @description
 * This package provides a client for the Paystack REST API.
 * Only transaction verification is needed by this service: the /verify-payment
 * endpoint confirms a checkout reference before the webhook activates the
 * subscription.
 */
package paystackclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a client for the Paystack API.
type Client struct {
	BaseURL    string
	SecretKey  string
	httpClient *http.Client
}

// NewClient creates a new Paystack API client.
func NewClient(baseURL, secretKey string) *Client {
	return &Client{
		BaseURL:   baseURL,
		SecretKey: secretKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// TransactionVerification is the subset of Paystack's verify response this
// service consumes.
type TransactionVerification struct {
	Status bool `json:"status"`
	Data   struct {
		Status   string `json:"status"`
		Customer struct {
			Email        string `json:"email"`
			CustomerCode string `json:"customer_code"`
		} `json:"customer"`
		Subscription string `json:"subscription"`
	} `json:"data"`
}

// Succeeded reports whether Paystack confirmed the charge.
func (v *TransactionVerification) Succeeded() bool {
	return v != nil && v.Status && v.Data.Status == "success"
}

// VerifyTransaction looks up a transaction by checkout reference.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*TransactionVerification, error) {
	url := fmt.Sprintf("%s/transaction/verify/%s", c.BaseURL, reference)

	httpReq, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create http request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.SecretKey)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to Paystack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("paystack API error with status %d, but failed to read response body", resp.StatusCode)
		}
		return nil, fmt.Errorf("paystack API request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var verification TransactionVerification
	if err := json.NewDecoder(resp.Body).Decode(&verification); err != nil {
		return nil, fmt.Errorf("failed to decode successful response: %w", err)
	}
	return &verification, nil
}
