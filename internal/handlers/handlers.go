// Package handlers exposes the three checkout endpoints: preference
// creation, the payment webhook, and the order-status read.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator"
	"github.com/lojaviva/checkout/internal/domain"
	"github.com/lojaviva/checkout/internal/mercadopago"
)

// MercadoPagoClient is the outbound surface the handlers need from the
// payment provider.
type MercadoPagoClient interface {
	CreatePreference(ctx context.Context, req mercadopago.PreferenceRequest) (*mercadopago.PreferenceResponse, error)
	GetPayment(ctx context.Context, paymentID string) (*mercadopago.Payment, error)
}

// OrderStore reads and partially updates orders.
type OrderStore interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	ApplyPaymentResult(ctx context.Context, orderID, provider string, update domain.StatusUpdate) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type CheckoutHandler struct {
	mp       MercadoPagoClient
	orders   OrderStore
	health   Pinger
	validate *validator.Validate
	logger   *slog.Logger
}

func NewCheckoutHandler(mp MercadoPagoClient, orders OrderStore, health Pinger, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		mp:       mp,
		orders:   orders,
		health:   health,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, "Not found")
	})

	r.Post("/mp/create-preference", h.HandleCreatePreference)
	r.Post("/mp/webhook", h.HandleWebhook)
	r.Get("/order-status", h.HandleOrderStatus)
	r.Get("/healthz", h.HandleHealth)
}
