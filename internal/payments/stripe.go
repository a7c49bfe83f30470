package payments

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const DefaultStripeURL = "https://api.stripe.com"

// SessionRequest describes a one-line hosted checkout
type SessionRequest struct {
	ProductName string
	UnitAmount  int64 // minor currency units
	Quantity    int64
}

// Session is the processor's answer to a checkout request
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type stripeError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// StripeClient talks to the Stripe Checkout Sessions API
type StripeClient struct {
	client     *resty.Client
	currency   string
	successURL string
	cancelURL  string
}

// StripeConfig holds the processor account settings
type StripeConfig struct {
	SecretKey  string
	BaseURL    string
	Currency   string
	SuccessURL string
	CancelURL  string
}

// NewStripeClient creates a new Stripe client
func NewStripeClient(cfg StripeConfig) *StripeClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultStripeURL
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(cfg.SecretKey).
		SetTimeout(15 * time.Second)

	return &StripeClient{
		client:     client,
		currency:   cfg.Currency,
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
	}
}

// CreateCheckoutSession creates a card-only payment session and returns its redirect URL
func (c *StripeClient) CreateCheckoutSession(ctx context.Context, req SessionRequest) (*Session, error) {
	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	var session Session
	var apiErr stripeError

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Idempotency-Key", uuid.NewString()).
		SetFormData(map[string]string{
			"mode":                                          "payment",
			"payment_method_types[0]":                       "card",
			"line_items[0][quantity]":                       strconv.FormatInt(quantity, 10),
			"line_items[0][price_data][currency]":           c.currency,
			"line_items[0][price_data][unit_amount]":        strconv.FormatInt(req.UnitAmount, 10),
			"line_items[0][price_data][product_data][name]": req.ProductName,
			"success_url":                                   c.successURL,
			"cancel_url":                                    c.cancelURL,
		}).
		SetResult(&session).
		SetError(&apiErr).
		Post("/v1/checkout/sessions")
	if err != nil {
		return nil, fmt.Errorf("failed to reach payment processor: %w", err)
	}

	if resp.IsError() {
		if apiErr.Error.Message != "" {
			return nil, fmt.Errorf("payment processor error (status %d): %s", resp.StatusCode(), apiErr.Error.Message)
		}
		return nil, fmt.Errorf("payment processor error (status %d)", resp.StatusCode())
	}

	if session.URL == "" {
		return nil, fmt.Errorf("payment processor returned no checkout url")
	}

	return &session, nil
}
