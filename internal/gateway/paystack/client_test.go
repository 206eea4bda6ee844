package paystack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_xyz", r.Header.Get("Authorization"))

		var req InitializeTransactionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(150000), req.Amount)
		assert.Equal(t, "ord_abc", req.Reference)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  true,
			"message": "Authorization URL created",
			"data": map[string]interface{}{
				"authorization_url": "https://checkout.paystack.com/abc123",
				"access_code":       "abc123",
				"reference":         "ord_abc",
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test_xyz")
	data, err := client.InitializeTransaction(context.Background(), &InitializeTransactionRequest{
		Email:     "buyer@example.com",
		Amount:    Kobo(1500),
		Reference: "ord_abc",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://checkout.paystack.com/abc123", data.AuthorizationURL)
	assert.Equal(t, "ord_abc", data.Reference)
}

func TestInitiateTransfer_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  false,
			"message": "Your balance is not enough to fulfil this request",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test_xyz")
	_, err := client.InitiateTransfer(context.Background(), "RCP_123", "order payout", "ref_1", 5000)

	require.Error(t, err)
	var apiErr *ErrorResponse
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "balance is not enough")
}

func TestResolveAccount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bank/resolve", r.URL.Path)
		assert.Equal(t, "0123456789", r.URL.Query().Get("account_number"))
		assert.Equal(t, "058", r.URL.Query().Get("bank_code"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": true,
			"data": map[string]interface{}{
				"account_number": "0123456789",
				"account_name":   "ADAEZE OKONKWO",
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test_xyz")
	data, err := client.ResolveAccount(context.Background(), "0123456789", "058")

	require.NoError(t, err)
	assert.Equal(t, "ADAEZE OKONKWO", data.AccountName)
}

func TestVerifySignature(t *testing.T) {
	secret := "sk_test_secret"
	body := []byte(`{"event":"charge.success","data":{"reference":"ref_1"}}`)

	t.Run("valid signature accepted", func(t *testing.T) {
		assert.True(t, VerifySignature(secret, body, Sign(secret, body)))
	})

	t.Run("tampered body rejected", func(t *testing.T) {
		sig := Sign(secret, body)
		tampered := []byte(`{"event":"charge.success","data":{"reference":"ref_2"}}`)
		assert.False(t, VerifySignature(secret, tampered, sig))
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		assert.False(t, VerifySignature("sk_other", body, Sign(secret, body)))
	})

	t.Run("empty signature rejected", func(t *testing.T) {
		assert.False(t, VerifySignature(secret, body, ""))
	})
}

func TestKobo(t *testing.T) {
	assert.Equal(t, int64(150000), Kobo(1500))
	assert.Equal(t, int64(99), Kobo(0.99))
	assert.Equal(t, int64(1050), Kobo(10.499999999))
}
