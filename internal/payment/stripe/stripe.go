package stripe

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	paymentdomain "github.com/hopelink/hopelink/internal/payment/domain"
)

const apiBaseURL = "https://api.stripe.com"

// Client talks to the Stripe Checkout API over plain HTTP and verifies
// webhook deliveries. It implements both the payment gateway and the
// webhook verifier.
type Client struct {
	apiKey        string
	webhookSecret string
	baseURL       string
	client        *http.Client
}

type Option func(*Client)

// WithBaseURL overrides the API host, used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

func NewClient(apiKey, webhookSecret string, opts ...Option) *Client {
	c := &Client{
		apiKey:        strings.TrimSpace(apiKey),
		webhookSecret: strings.TrimSpace(webhookSecret),
		baseURL:       apiBaseURL,
		client:        &http.Client{Timeout: 12 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) CreateCheckoutSession(ctx context.Context, req paymentdomain.CreateCheckoutSessionRequest) (paymentdomain.CheckoutSession, error) {
	values := url.Values{}
	values.Set("mode", "payment")
	values.Set("line_items[0][quantity]", "1")
	values.Set("line_items[0][price_data][currency]", strings.ToLower(req.Currency))
	values.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(req.AmountCents, 10))
	values.Set("line_items[0][price_data][product_data][name]", req.ProductName)
	values.Set("success_url", req.SuccessURL)
	values.Set("cancel_url", req.CancelURL)
	if email := strings.TrimSpace(req.CustomerEmail); email != "" {
		values.Set("customer_email", email)
	}
	for key, value := range req.Metadata {
		values.Set("metadata["+key+"]", value)
	}

	return c.doRequest(ctx, http.MethodPost, "/v1/checkout/sessions", values)
}

func (c *Client) GetCheckoutSession(ctx context.Context, sessionID string) (paymentdomain.CheckoutSession, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return paymentdomain.CheckoutSession{}, paymentdomain.ErrSessionNotFound
	}
	return c.doRequest(ctx, http.MethodGet, "/v1/checkout/sessions/"+url.PathEscape(sessionID), nil)
}

// Verify checks the Stripe-Signature header against the webhook secret.
func (c *Client) Verify(ctx context.Context, payload []byte, headers http.Header) error {
	if c.webhookSecret == "" {
		return paymentdomain.ErrInvalidConfig
	}

	sigHeader := strings.TrimSpace(headers.Get("Stripe-Signature"))
	if sigHeader == "" {
		return paymentdomain.ErrInvalidSignature
	}

	timestamp, signatures, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return paymentdomain.ErrInvalidSignature
	}

	signedPayload := fmt.Sprintf("%s.%s", timestamp, string(payload))
	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	_, _ = mac.Write([]byte(signedPayload))
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, signature := range signatures {
		if hmac.Equal([]byte(signature), []byte(expected)) {
			return nil
		}
	}

	return paymentdomain.ErrInvalidSignature
}

// Parse decodes a checkout session event. Event types outside the
// checkout session lifecycle return ErrEventIgnored.
func (c *Client) Parse(ctx context.Context, payload []byte) (*paymentdomain.CheckoutEvent, error) {
	var event stripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, paymentdomain.ErrInvalidPayload
	}
	if strings.TrimSpace(event.ID) == "" {
		return nil, paymentdomain.ErrInvalidEvent
	}

	eventType := strings.TrimSpace(event.Type)
	switch eventType {
	case paymentdomain.EventTypeCheckoutCompleted, paymentdomain.EventTypeCheckoutExpired:
	default:
		return nil, paymentdomain.ErrEventIgnored
	}

	var session stripeCheckoutSession
	if err := json.Unmarshal(event.Data.Object, &session); err != nil {
		return nil, paymentdomain.ErrInvalidPayload
	}
	if strings.TrimSpace(session.ID) == "" {
		return nil, paymentdomain.ErrInvalidEvent
	}

	return &paymentdomain.CheckoutEvent{
		ProviderEventID: event.ID,
		Type:            eventType,
		Session:         session.toDomain(),
		OccurredAt:      timestamp(session.Created, event.Created),
		RawPayload:      payload,
	}, nil
}

type stripeEvent struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Created int64           `json:"created"`
	Data    stripeEventData `json:"data"`
}

type stripeEventData struct {
	Object json.RawMessage `json:"object"`
}

type stripeCheckoutSession struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	CustomerEmail string            `json:"customer_email"`
	Created       int64             `json:"created"`
	Metadata      map[string]string `json:"metadata"`
}

type stripeErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (s stripeCheckoutSession) toDomain() paymentdomain.CheckoutSession {
	return paymentdomain.CheckoutSession{
		ID:            s.ID,
		URL:           s.URL,
		Status:        paymentdomain.SessionStatus(strings.TrimSpace(s.Status)),
		PaymentStatus: paymentdomain.PaymentStatus(strings.TrimSpace(s.PaymentStatus)),
		AmountTotal:   s.AmountTotal,
		Currency:      strings.ToLower(strings.TrimSpace(s.Currency)),
		CustomerEmail: strings.TrimSpace(s.CustomerEmail),
		Metadata:      s.Metadata,
		CreatedAt:     timestamp(s.Created, 0),
	}
}

func (c *Client) doRequest(ctx context.Context, method, path string, values url.Values) (paymentdomain.CheckoutSession, error) {
	if c.apiKey == "" {
		return paymentdomain.CheckoutSession{}, paymentdomain.ErrInvalidConfig
	}

	var bodyReader *strings.Reader
	if values != nil {
		bodyReader = strings.NewReader(values.Encode())
	} else {
		bodyReader = strings.NewReader("")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return paymentdomain.CheckoutSession{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if values != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return paymentdomain.CheckoutSession{}, paymentdomain.ErrGatewayUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return paymentdomain.CheckoutSession{}, paymentdomain.ErrSessionNotFound
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return paymentdomain.CheckoutSession{}, paymentdomain.ErrGatewayUnavailable
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var stripeErr stripeErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&stripeErr); err != nil {
			return paymentdomain.CheckoutSession{}, errors.New("stripe_request_failed")
		}
		message := strings.TrimSpace(stripeErr.Error.Message)
		if message == "" {
			message = "stripe_request_failed"
		}
		return paymentdomain.CheckoutSession{}, errors.New(message)
	}

	var session stripeCheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return paymentdomain.CheckoutSession{}, err
	}
	if session.ID == "" {
		return paymentdomain.CheckoutSession{}, errors.New("stripe_response_invalid")
	}
	return session.toDomain(), nil
}

func parseSignatureHeader(header string) (string, []string, error) {
	parts := strings.Split(header, ",")
	var timestamp string
	signatures := []string{}
	for _, part := range parts {
		piece := strings.TrimSpace(part)
		if piece == "" {
			continue
		}
		keyValue := strings.SplitN(piece, "=", 2)
		if len(keyValue) != 2 {
			continue
		}
		key := strings.TrimSpace(keyValue[0])
		value := strings.TrimSpace(keyValue[1])
		if key == "t" {
			timestamp = value
		}
		if key == "v1" {
			signatures = append(signatures, value)
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return "", nil, errors.New("invalid_signature")
	}
	return timestamp, signatures, nil
}

func timestamp(primary int64, fallback int64) time.Time {
	value := primary
	if value == 0 {
		value = fallback
	}
	if value == 0 {
		return time.Now().UTC()
	}
	return time.Unix(value, 0).UTC()
}
