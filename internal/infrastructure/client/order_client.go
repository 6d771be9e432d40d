package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appres "github.com/ticketing/backend/internal/application/reservation"
	"github.com/ticketing/backend/internal/domain/shared"
	"github.com/ticketing/backend/internal/infrastructure/config"
)

// OrderHTTPClient talks to the order service over HTTP
type OrderHTTPClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewOrderHTTPClient creates a client for the order service
func NewOrderHTTPClient(cfg config.OrderConfig, logger *zap.Logger) *OrderHTTPClient {
	return &OrderHTTPClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

type orderItemPayload struct {
	SessionID    string `json:"session_id"`
	TicketTypeID string `json:"ticket_type_id"`
	Quantity     int64  `json:"quantity"`
	UnitPrice    string `json:"unit_price"`
}

type createOrderPayload struct {
	CustomerEmail string             `json:"customer_email"`
	HoldID        string             `json:"hold_id"`
	Items         []orderItemPayload `json:"items"`
}

type orderSummaryPayload struct {
	ID          uuid.UUID       `json:"id"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type orderEnvelope struct {
	Success bool                 `json:"success"`
	Data    *orderSummaryPayload `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateOrder creates or replays an order. The bool reports whether a
// new order was created (201) versus an idempotent replay (200).
func (c *OrderHTTPClient) CreateOrder(ctx context.Context, req appres.CreateOrderRequest) (*appres.OrderSummary, bool, error) {
	items := make([]orderItemPayload, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, orderItemPayload{
			SessionID:    item.SessionID.String(),
			TicketTypeID: item.TicketTypeID.String(),
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice.String(),
		})
	}
	payload := createOrderPayload{
		CustomerEmail: req.CustomerEmail,
		HoldID:        req.HoldID.String(),
		Items:         items,
	}

	resp, err := c.post(ctx, "/orders", payload, req.IdempotencyKey)
	if err != nil {
		return nil, false, fmt.Errorf("order service unreachable: %w", err)
	}
	defer resp.Body.Close()

	envelope, err := decodeOrderEnvelope(resp.Body)
	if err != nil {
		return nil, false, err
	}

	switch resp.StatusCode {
	case http.StatusCreated, http.StatusOK:
		if envelope.Data == nil {
			return nil, false, fmt.Errorf("order service answered without an order body")
		}
		return toOrderSummary(envelope.Data), resp.StatusCode == http.StatusCreated, nil
	default:
		return nil, false, envelopeError(envelope, resp.StatusCode)
	}
}

// ConfirmOrder charges and confirms an order. A 402 answer maps to
// shared.ErrPaymentFailed.
func (c *OrderHTTPClient) ConfirmOrder(ctx context.Context, orderID uuid.UUID) (*appres.OrderSummary, error) {
	resp, err := c.post(ctx, "/orders/"+orderID.String()+"/confirm", struct{}{}, "")
	if err != nil {
		return nil, fmt.Errorf("order service unreachable: %w", err)
	}
	defer resp.Body.Close()

	envelope, err := decodeOrderEnvelope(resp.Body)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		if envelope.Data == nil {
			return nil, fmt.Errorf("order service answered without an order body")
		}
		return toOrderSummary(envelope.Data), nil
	case http.StatusPaymentRequired:
		return nil, shared.ErrPaymentFailed
	default:
		return nil, envelopeError(envelope, resp.StatusCode)
	}
}

func (c *OrderHTTPClient) post(ctx context.Context, path string, payload any, idempotencyKey string) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	return c.httpClient.Do(req)
}

func decodeOrderEnvelope(r io.Reader) (*orderEnvelope, error) {
	body, err := io.ReadAll(io.LimitReader(r, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read order service response: %w", err)
	}
	var envelope orderEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode order service response: %w", err)
	}
	return &envelope, nil
}

func envelopeError(envelope *orderEnvelope, statusCode int) error {
	if envelope.Error != nil {
		return shared.NewDomainError(envelope.Error.Code, envelope.Error.Message)
	}
	return fmt.Errorf("order service answered status %d", statusCode)
}

func toOrderSummary(p *orderSummaryPayload) *appres.OrderSummary {
	return &appres.OrderSummary{
		ID:          p.ID,
		Status:      p.Status,
		TotalAmount: p.TotalAmount,
	}
}

var _ appres.OrderClient = (*OrderHTTPClient)(nil)
