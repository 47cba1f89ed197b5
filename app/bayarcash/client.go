package bayarcash

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type PaymentIntentRequest struct {
	OrderNumber          string      `json:"order_number"`
	Amount               string      `json:"amount"`
	PortalKey            string      `json:"portal_key"`
	PayerName            string      `json:"payer_name"`
	PayerEmail           string      `json:"payer_email"`
	PayerTelephoneNumber json.Number `json:"payer_telephone_number,omitempty"`
	ReturnURL            string      `json:"return_url"`
	CallbackURL          string      `json:"callback_url"`
	PaymentChannel       int         `json:"payment_channel"`
	Checksum             string      `json:"checksum"`
}

type PaymentIntent struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Client talks to the payment intent API. It keeps no per-mode state; every
// call receives the ClientConfig resolved for the order being paid.
type Client struct {
	http *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{http: &http.Client{Timeout: timeout}}
}

func (c *Client) CreatePaymentIntent(ctx context.Context, cfg ClientConfig, req *PaymentIntentRequest) (*PaymentIntent, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("bayarcash api base url is not configured")
	}
	if strings.TrimSpace(cfg.APIToken) == "" {
		return nil, errors.New("bayarcash api token is not configured")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	body, err := c.postJSON(ctx, cfg, "/payment-intents", payload)
	if err != nil {
		return nil, err
	}

	var intent PaymentIntent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, err
	}
	intent.ID = strings.TrimSpace(intent.ID)
	intent.URL = strings.TrimSpace(intent.URL)

	return &intent, nil
}

func (c *Client) postJSON(ctx context.Context, cfg ClientConfig, path string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+cfg.APIToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("bayarcash request failed: path=%s status=%d body=%s", path, resp.StatusCode, string(body))
	}

	return body, nil
}
