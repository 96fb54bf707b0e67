package bkash

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Client talks to the bKash tokenized checkout API. Every call grants a
// fresh id_token first; bKash tokens are short-lived and the call volume
// here (one create + one verify per purchase) does not justify caching.
type Client struct {
	BaseURL   string
	Username  string
	Password  string
	AppKey    string
	AppSecret string

	httpClient *http.Client
}

const sandboxBaseURL = "https://tokenized.sandbox.bka.sh/v1.2.0-beta/tokenized/checkout"

func NewClient() *Client {
	baseURL := os.Getenv("BKASH_BASE_URL")
	if baseURL == "" {
		baseURL = sandboxBaseURL
	}

	return &Client{
		BaseURL:    baseURL,
		Username:   os.Getenv("BKASH_USERNAME"),
		Password:   os.Getenv("BKASH_PASSWORD"),
		AppKey:     os.Getenv("BKASH_APP_KEY"),
		AppSecret:  os.Getenv("BKASH_APP_SECRET"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type tokenResponse struct {
	IDToken string `json:"id_token"`
}

// GrantToken exchanges the merchant credentials for an id_token.
func (c *Client) GrantToken() (string, error) {
	body, _ := json.Marshal(map[string]string{
		"app_key":    c.AppKey,
		"app_secret": c.AppSecret,
	})

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+"/token/grant", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("username", c.Username)
	req.Header.Set("password", c.Password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", err
	}
	if token.IDToken == "" {
		return "", fmt.Errorf("could not get bKash auth token")
	}

	return token.IDToken, nil
}

type CreatePaymentRequest struct {
	Mode                  string `json:"mode"`
	PayerReference        string `json:"payerReference"`
	CallbackURL           string `json:"callbackURL"`
	Amount                string `json:"amount"`
	Currency              string `json:"currency"`
	Intent                string `json:"intent"`
	MerchantInvoiceNumber string `json:"merchantInvoiceNumber"`
}

type CreatePaymentResponse struct {
	PaymentID    string `json:"paymentID"`
	BkashURL     string `json:"bkashURL"`
	ErrorMessage string `json:"errorMessage"`
}

// CreatePayment opens a tokenized checkout and returns the redirect URL.
func (c *Client) CreatePayment(token string, payment CreatePaymentRequest) (*CreatePaymentResponse, error) {
	if payment.Mode == "" {
		payment.Mode = "0011" // tokenized checkout (URL based)
	}
	if payment.PayerReference == "" {
		payment.PayerReference = " "
	}
	if payment.Intent == "" {
		payment.Intent = "sale"
	}

	var result CreatePaymentResponse
	if err := c.post(token, "/create", payment, &result); err != nil {
		return nil, err
	}
	if result.BkashURL == "" {
		if result.ErrorMessage != "" {
			return nil, fmt.Errorf("could not create bKash payment: %s", result.ErrorMessage)
		}
		return nil, fmt.Errorf("could not create bKash payment")
	}

	return &result, nil
}

type PaymentStatusResponse struct {
	PaymentID         string `json:"paymentID"`
	TrxID             string `json:"trxID"`
	TransactionStatus string `json:"transactionStatus"`
	Amount            string `json:"amount"`
	ErrorMessage      string `json:"errorMessage"`
}

func (s *PaymentStatusResponse) Completed() bool {
	return s.TransactionStatus == "Completed"
}

// QueryPayment fetches the current status of a payment.
func (c *Client) QueryPayment(token, paymentID string) (*PaymentStatusResponse, error) {
	var result PaymentStatusResponse
	err := c.post(token, "/payment/status", map[string]string{"paymentID": paymentID}, &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) post(token, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("authorization", token)
	req.Header.Set("x-app-key", c.AppKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(out)
}
