package bkash

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		Username:   "merchant",
		Password:   "secret",
		AppKey:     "app-key",
		AppSecret:  "app-secret",
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestGrantToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/token/grant", r.URL.Path)
		require.Equal(t, "merchant", r.Header.Get("username"))
		require.Equal(t, "secret", r.Header.Get("password"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "app-key", body["app_key"])

		json.NewEncoder(w).Encode(map[string]string{"id_token": "tok-123"})
	}))
	defer srv.Close()

	token, err := testClient(srv.URL).GrantToken()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
}

func TestGrantTokenFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"statusMessage": "Invalid credentials"})
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).GrantToken()
	assert.Error(t, err)
}

func TestCreatePayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/create", r.URL.Path)
		require.Equal(t, "tok-123", r.Header.Get("authorization"))
		require.Equal(t, "app-key", r.Header.Get("x-app-key"))

		var req CreatePaymentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "0011", req.Mode)
		assert.Equal(t, "sale", req.Intent)
		assert.Equal(t, "49.99", req.Amount)
		assert.Equal(t, "BDT", req.Currency)

		json.NewEncoder(w).Encode(CreatePaymentResponse{
			PaymentID: "TR0011abc",
			BkashURL:  "https://sandbox.payment.bka.sh/redirect",
		})
	}))
	defer srv.Close()

	resp, err := testClient(srv.URL).CreatePayment("tok-123", CreatePaymentRequest{
		CallbackURL:           "https://app.test/bkash/callback",
		Amount:                "49.99",
		Currency:              "BDT",
		MerchantInvoiceNumber: "inv-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "TR0011abc", resp.PaymentID)
	assert.NotEmpty(t, resp.BkashURL)
}

func TestCreatePaymentProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(CreatePaymentResponse{ErrorMessage: "Insufficient merchant config"})
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).CreatePayment("tok-123", CreatePaymentRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Insufficient merchant config")
}

func TestQueryPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payment/status", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "TR0011abc", body["paymentID"])

		json.NewEncoder(w).Encode(PaymentStatusResponse{
			PaymentID:         "TR0011abc",
			TrxID:             "8FJ4A2B",
			TransactionStatus: "Completed",
		})
	}))
	defer srv.Close()

	status, err := testClient(srv.URL).QueryPayment("tok-123", "TR0011abc")
	require.NoError(t, err)
	assert.True(t, status.Completed())
	assert.Equal(t, "8FJ4A2B", status.TrxID)
}

func TestQueryPaymentNotCompleted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(PaymentStatusResponse{TransactionStatus: "Failed"})
	}))
	defer srv.Close()

	status, err := testClient(srv.URL).QueryPayment("tok-123", "TR0011abc")
	require.NoError(t, err)
	assert.False(t, status.Completed())
}
