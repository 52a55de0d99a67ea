package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lojaviva/checkout/internal/domain"
	"github.com/lojaviva/checkout/internal/mercadopago"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postWebhook(h *CheckoutHandler, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.HandleWebhook(rr, req)
	return rr
}

func approvedPaymentFetcher(orderID string) func(context.Context, string) (*mercadopago.Payment, error) {
	return func(_ context.Context, paymentID string) (*mercadopago.Payment, error) {
		return &mercadopago.Payment{
			ID:                json.Number(paymentID),
			Status:            "approved",
			ExternalReference: orderID,
		}, nil
	}
}

func TestHandleWebhookSuccess(t *testing.T) {
	mp := &mockMPClient{getPaymentFn: approvedPaymentFetcher("order-9")}
	orders := &mockOrderStore{}
	h := newTestHandler(mp, orders)

	rr := postWebhook(h, "/mp/webhook?id=123", "")

	require.Equal(t, http.StatusOK, rr.Code)

	var resp WebhookResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, "order-9", resp.OrderID)
	assert.Equal(t, "123", resp.PaymentID)
	assert.Equal(t, "approved", resp.MPStatus)
	assert.Equal(t, domain.PaymentPaid, resp.Updated.PaymentStatus)
	assert.Equal(t, domain.OrderPreparing, resp.Updated.Status)

	require.Len(t, orders.applied, 1)
	assert.Equal(t, "order-9", orders.applied[0].orderID)
	assert.Equal(t, "mercadopago", orders.applied[0].provider)
	assert.Equal(t, domain.PaymentPaid, orders.applied[0].update.PaymentStatus)
	assert.Equal(t, domain.OrderPreparing, orders.applied[0].update.OrderStatus)
}

func TestHandleWebhookBodyShapes(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   string
		wantID string
	}{
		{"data.id body", "/mp/webhook", `{"data":{"id":"456"}}`, "456"},
		{"top-level id body", "/mp/webhook", `{"id":456}`, "456"},
		{"resource url body", "/mp/webhook", `{"resource":"https://x/v1/payments/789?foo"}`, "789"},
		{"query data.id", "/mp/webhook?data.id=42", "", "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fetchedID string
			mp := &mockMPClient{
				getPaymentFn: func(_ context.Context, paymentID string) (*mercadopago.Payment, error) {
					fetchedID = paymentID
					return &mercadopago.Payment{
						Status:            "pending",
						ExternalReference: "order-1",
					}, nil
				},
			}
			h := newTestHandler(mp, &mockOrderStore{})

			rr := postWebhook(h, tt.target, tt.body)

			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.wantID, fetchedID)
		})
	}
}

func TestHandleWebhookNoPaymentID(t *testing.T) {
	mp := &mockMPClient{}
	orders := &mockOrderStore{}
	h := newTestHandler(mp, orders)

	rr := postWebhook(h, "/mp/webhook", `{"topic":"merchant_order"}`)

	require.Equal(t, http.StatusOK, rr.Code, "unresolvable id is acknowledged, not rejected")

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["ok"])
	assert.Equal(t, "No payment id found", resp["warning"])
	assert.Zero(t, mp.getPaymentCalls)
	assert.Empty(t, orders.applied)
}

func TestHandleWebhookFetchFailure(t *testing.T) {
	mp := &mockMPClient{
		getPaymentFn: func(context.Context, string) (*mercadopago.Payment, error) {
			return nil, &mercadopago.APIError{
				StatusCode: http.StatusNotFound,
				Body:       json.RawMessage(`{"message":"payment not found"}`),
			}
		},
	}
	orders := &mockOrderStore{}
	h := newTestHandler(mp, orders)

	rr := postWebhook(h, "/mp/webhook?id=404", "")

	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["ok"])
	assert.Equal(t, "Could not fetch payment", resp["warning"])
	assert.NotNil(t, resp["mp_error"])
	assert.Empty(t, orders.applied)
}

func TestHandleWebhookMissingExternalReference(t *testing.T) {
	mp := &mockMPClient{
		getPaymentFn: func(_ context.Context, paymentID string) (*mercadopago.Payment, error) {
			return &mercadopago.Payment{
				ID:     json.Number(paymentID),
				Status: "approved",
			}, nil
		},
	}
	orders := &mockOrderStore{}
	h := newTestHandler(mp, orders)

	rr := postWebhook(h, "/mp/webhook?id=55", "")

	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Missing external_reference on payment", resp["warning"])
	assert.Equal(t, "approved", resp["mp_status"])
	assert.Empty(t, orders.applied, "no external reference means no store update")
}

func TestHandleWebhookStoreFailure(t *testing.T) {
	mp := &mockMPClient{getPaymentFn: approvedPaymentFetcher("order-9")}
	orders := &mockOrderStore{
		applyPaymentResultFn: func(context.Context, string, string, domain.StatusUpdate) error {
			return errors.New("connection refused")
		},
	}
	h := newTestHandler(mp, orders)

	rr := postWebhook(h, "/mp/webhook?id=77", "")

	require.Equal(t, http.StatusOK, rr.Code, "store failures must not trigger provider retries")

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["ok"])
	assert.Equal(t, "Failed updating order", resp["warning"])
	assert.Contains(t, resp["details"], "connection refused")
}

func TestHandleWebhookMissingToken(t *testing.T) {
	mp := &mockMPClient{
		getPaymentFn: func(context.Context, string) (*mercadopago.Payment, error) {
			return nil, mercadopago.ErrMissingAccessToken
		},
	}
	h := newTestHandler(mp, &mockOrderStore{})

	rr := postWebhook(h, "/mp/webhook?id=1", "")

	assert.Equal(t, http.StatusInternalServerError, rr.Code,
		"missing configuration is a genuine error, not a warning")
}

// Duplicate deliveries converge on the same final state.
func TestHandleWebhookIdempotent(t *testing.T) {
	mp := &mockMPClient{getPaymentFn: approvedPaymentFetcher("order-9")}
	orders := &mockOrderStore{}
	h := newTestHandler(mp, orders)

	first := postWebhook(h, "/mp/webhook?id=123", "")
	second := postWebhook(h, "/mp/webhook?id=123", "")

	assert.Equal(t, first.Body.String(), second.Body.String())
	require.Len(t, orders.applied, 2)
	assert.Equal(t, orders.applied[0], orders.applied[1])
}
