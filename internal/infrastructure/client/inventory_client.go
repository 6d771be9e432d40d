package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	appres "github.com/ticketing/backend/internal/application/reservation"
	"github.com/ticketing/backend/internal/domain/shared"
	"github.com/ticketing/backend/internal/infrastructure/config"
)

// maxResponseSize caps response bodies read from peer services (1MB)
const maxResponseSize = 1 << 20

// InventoryHTTPClient talks to the inventory service over HTTP.
// Transport failures and 5xx answers surface as
// shared.ErrInventoryUnavailable so the gateway can answer 503.
type InventoryHTTPClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewInventoryHTTPClient creates a client for the inventory service
func NewInventoryHTTPClient(cfg config.InventoryConfig, logger *zap.Logger) *InventoryHTTPClient {
	return &InventoryHTTPClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

type holdRequestPayload struct {
	HoldID       string    `json:"hold_id"`
	SessionID    string    `json:"session_id"`
	TicketTypeID string    `json:"ticket_type_id"`
	Quantity     int64     `json:"quantity"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type holdResponsePayload struct {
	Success           bool  `json:"success"`
	AvailableQuantity int64 `json:"available_quantity"`
}

// PlaceHold reserves capacity on the inventory service
func (c *InventoryHTTPClient) PlaceHold(ctx context.Context, req appres.PlaceHoldRequest) (*appres.PlaceHoldResponse, error) {
	payload := holdRequestPayload{
		HoldID:       req.HoldID.String(),
		SessionID:    req.SessionID.String(),
		TicketTypeID: req.TicketTypeID.String(),
		Quantity:     req.Quantity,
		ExpiresAt:    req.ExpiresAt,
	}

	resp, err := c.post(ctx, "/inventory/hold", payload)
	if err != nil {
		c.logger.Warn("inventory service unreachable", zap.Error(err))
		return nil, shared.ErrInventoryUnavailable
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, shared.ErrInventoryUnavailable
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		var result holdResponsePayload
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, fmt.Errorf("decode inventory hold response: %w", err)
		}
		return &appres.PlaceHoldResponse{AvailableQuantity: result.AvailableQuantity}, nil

	case resp.StatusCode == http.StatusConflict:
		return nil, shared.ErrInsufficientInventory

	case resp.StatusCode >= 500:
		c.logger.Warn("inventory service answered with a server error",
			zap.Int("status", resp.StatusCode))
		return nil, shared.ErrInventoryUnavailable

	default:
		return nil, errorFromBody(body, resp.StatusCode, "inventory")
	}
}

func (c *InventoryHTTPClient) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.httpClient.Do(req)
}

// errorEnvelope is the error half of the services' response envelope
type errorEnvelope struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// errorFromBody turns a non-success answer into a domain error,
// preserving the peer's error code when the body carries one
func errorFromBody(body []byte, statusCode int, service string) error {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		return shared.NewDomainError(envelope.Error.Code, envelope.Error.Message)
	}
	return fmt.Errorf("%s service answered status %d", service, statusCode)
}

var _ appres.InventoryClient = (*InventoryHTTPClient)(nil)
