// Package paystack is a thin client for the Paystack REST API. It wraps the
// handful of endpoints the marketplace needs: transaction initialization and
// verification, transfer recipients and transfers, bank account resolution,
// customers, and dedicated virtual accounts.
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"time"
)

const DefaultBaseURL = "https://api.paystack.co"

// Client is a client for the Paystack API.
type Client struct {
	BaseURL    string
	SecretKey  string
	HTTPClient *http.Client
}

// NewClient creates a new Paystack API client.
func NewClient(baseURL, secretKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:   baseURL,
		SecretKey: secretKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Kobo converts a naira amount to the integer kobo representation Paystack
// expects on the wire.
func Kobo(naira float64) int64 {
	return int64(math.Round(naira * 100))
}

// InitializeTransaction creates a checkout session and returns the hosted
// authorization URL.
func (c *Client) InitializeTransaction(ctx context.Context, req *InitializeTransactionRequest) (*InitializeTransactionData, error) {
	var data InitializeTransactionData
	if err := c.do(ctx, http.MethodPost, "/transaction/initialize", req, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// VerifyTransaction fetches the settlement status of a charge by reference.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*VerifyTransactionData, error) {
	var data VerifyTransactionData
	path := "/transaction/verify/" + url.PathEscape(reference)
	if err := c.do(ctx, http.MethodGet, path, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ResolveAccount validates a bank account number against a bank code and
// returns the registered account name.
func (c *Client) ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*ResolveAccountData, error) {
	var data ResolveAccountData
	path := fmt.Sprintf("/bank/resolve?account_number=%s&bank_code=%s",
		url.QueryEscape(accountNumber), url.QueryEscape(bankCode))
	if err := c.do(ctx, http.MethodGet, path, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// CreateTransferRecipient registers bank details for outbound transfers.
func (c *Client) CreateTransferRecipient(ctx context.Context, name, accountNumber, bankCode string) (*TransferRecipientData, error) {
	req := &TransferRecipientRequest{
		Type:          "nuban",
		Name:          name,
		AccountNumber: accountNumber,
		BankCode:      bankCode,
		Currency:      "NGN",
	}
	var data TransferRecipientData
	if err := c.do(ctx, http.MethodPost, "/transferrecipient", req, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// InitiateTransfer moves funds from the platform balance to a recipient.
func (c *Client) InitiateTransfer(ctx context.Context, recipientCode, reason, reference string, amountKobo int64) (*TransferData, error) {
	req := &TransferRequest{
		Source:    "balance",
		Amount:    amountKobo,
		Recipient: recipientCode,
		Reason:    reason,
		Reference: reference,
	}
	var data TransferData
	if err := c.do(ctx, http.MethodPost, "/transfer", req, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// CreateCustomer registers a Paystack customer for the user.
func (c *Client) CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (*CustomerData, error) {
	var data CustomerData
	if err := c.do(ctx, http.MethodPost, "/customer", req, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// CreateDedicatedAccount requests a dedicated virtual account for a customer.
// Assignment completes asynchronously via the webhook.
func (c *Client) CreateDedicatedAccount(ctx context.Context, customerCode, preferredBank string) (*DedicatedAccountData, error) {
	req := &DedicatedAccountRequest{
		Customer:      customerCode,
		PreferredBank: preferredBank,
	}
	var data DedicatedAccountData
	if err := c.do(ctx, http.MethodPost, "/dedicated_account", req, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// do executes an authenticated request and decodes the enveloped response.
func (c *Client) do(ctx context.Context, method, path string, payload, dest interface{}) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errResp := &ErrorResponse{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(bodyBytes, errResp); err != nil {
			log.Printf("paystack: non-2xx response with unparsable body, status=%d path=%s", resp.StatusCode, path)
			return fmt.Errorf("paystack request failed with status %d", resp.StatusCode)
		}
		log.Printf("paystack: request failed, status=%d path=%s message=%q", resp.StatusCode, path, errResp.Message)
		return errResp
	}

	var envelope struct {
		Status  bool            `json:"status"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(bodyBytes, &envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !envelope.Status {
		return &ErrorResponse{StatusCode: resp.StatusCode, Message: envelope.Message}
	}

	if dest != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, dest); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}
