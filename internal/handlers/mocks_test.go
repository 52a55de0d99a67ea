package handlers

import (
	"context"
	"log/slog"

	"github.com/lojaviva/checkout/internal/domain"
	"github.com/lojaviva/checkout/internal/mercadopago"
)

type mockMPClient struct {
	createPreferenceFn func(ctx context.Context, req mercadopago.PreferenceRequest) (*mercadopago.PreferenceResponse, error)
	getPaymentFn       func(ctx context.Context, paymentID string) (*mercadopago.Payment, error)

	createPreferenceCalls int
	getPaymentCalls       int
}

func (m *mockMPClient) CreatePreference(ctx context.Context, req mercadopago.PreferenceRequest) (*mercadopago.PreferenceResponse, error) {
	m.createPreferenceCalls++
	return m.createPreferenceFn(ctx, req)
}

func (m *mockMPClient) GetPayment(ctx context.Context, paymentID string) (*mercadopago.Payment, error) {
	m.getPaymentCalls++
	return m.getPaymentFn(ctx, paymentID)
}

type appliedUpdate struct {
	orderID  string
	provider string
	update   domain.StatusUpdate
}

type mockOrderStore struct {
	findByIDFn           func(ctx context.Context, id string) (*domain.Order, error)
	applyPaymentResultFn func(ctx context.Context, orderID, provider string, update domain.StatusUpdate) error

	applied []appliedUpdate
}

func (m *mockOrderStore) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockOrderStore) ApplyPaymentResult(ctx context.Context, orderID, provider string, update domain.StatusUpdate) error {
	m.applied = append(m.applied, appliedUpdate{orderID, provider, update})
	if m.applyPaymentResultFn != nil {
		return m.applyPaymentResultFn(ctx, orderID, provider, update)
	}
	return nil
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func newTestHandler(mp *mockMPClient, orders *mockOrderStore) *CheckoutHandler {
	logger := slog.New(slog.DiscardHandler)
	return NewCheckoutHandler(mp, orders, pingerFunc(func(context.Context) error { return nil }), logger)
}
