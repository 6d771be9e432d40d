package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appres "github.com/ticketing/backend/internal/application/reservation"
	"github.com/ticketing/backend/internal/domain/shared"
	"github.com/ticketing/backend/internal/infrastructure/config"
)

func newInventoryClient(baseURL string) *InventoryHTTPClient {
	return NewInventoryHTTPClient(config.InventoryConfig{
		BaseURL: baseURL,
		Timeout: 2 * time.Second,
	}, zap.NewNop())
}

func placeHoldRequest() appres.PlaceHoldRequest {
	return appres.PlaceHoldRequest{
		HoldID:       uuid.New(),
		SessionID:    uuid.New(),
		TicketTypeID: uuid.New(),
		Quantity:     2,
		ExpiresAt:    time.Now().Add(10 * time.Minute),
	}
}

func TestInventoryHTTPClient_PlaceHold(t *testing.T) {
	t.Run("returns the remaining availability on success", func(t *testing.T) {
		req := placeHoldRequest()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/inventory/hold", r.URL.Path)

			var payload holdRequestPayload
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, req.HoldID.String(), payload.HoldID)
			assert.Equal(t, int64(2), payload.Quantity)

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"success":            true,
				"hold_id":            req.HoldID.String(),
				"available_quantity": 98,
			})
		}))
		defer server.Close()

		result, err := newInventoryClient(server.URL).PlaceHold(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, int64(98), result.AvailableQuantity)
	})

	t.Run("maps 409 to insufficient inventory", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]any{
				"success":            false,
				"error":              map[string]string{"code": "INSUFFICIENT_INVENTORY", "message": "not enough capacity"},
				"available_quantity": 1,
			})
		}))
		defer server.Close()

		_, err := newInventoryClient(server.URL).PlaceHold(context.Background(), placeHoldRequest())
		assert.ErrorIs(t, err, shared.ErrInsufficientInventory)
	})

	t.Run("maps a connection failure to service unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		_, err := newInventoryClient(server.URL).PlaceHold(context.Background(), placeHoldRequest())
		assert.ErrorIs(t, err, shared.ErrInventoryUnavailable)
	})

	t.Run("maps a server error to service unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := newInventoryClient(server.URL).PlaceHold(context.Background(), placeHoldRequest())
		assert.ErrorIs(t, err, shared.ErrInventoryUnavailable)
	})

	t.Run("carries the peer's error code on other failures", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"error":   map[string]string{"code": "INVALID_INPUT", "message": "quantity must be positive"},
			})
		}))
		defer server.Close()

		_, err := newInventoryClient(server.URL).PlaceHold(context.Background(), placeHoldRequest())

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})
}
