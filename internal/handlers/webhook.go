package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/lojaviva/checkout/internal/domain"
	"github.com/lojaviva/checkout/internal/mercadopago"
	"github.com/lojaviva/checkout/internal/notification"
)

type WebhookResponse struct {
	OK        bool           `json:"ok"`
	OrderID   string         `json:"order_id"`
	PaymentID string         `json:"payment_id"`
	MPStatus  string         `json:"mp_status"`
	Updated   WebhookUpdated `json:"updated"`
}

type WebhookUpdated struct {
	PaymentStatus domain.PaymentStatus `json:"payment_status"`
	Status        domain.OrderStatus   `json:"status"`
}

// HandleWebhook reconciles a Mercado Pago payment notification into the
// order store. Once a payment id has been resolved, every failure is
// acknowledged with 200 and a warning; a non-2xx answer would make the
// provider retry the delivery indefinitely.
func (h *CheckoutHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		body = nil
	}

	paymentID := notification.PaymentID(r.URL.Query(), body)
	if paymentID == "" {
		h.logger.Warn("webhook without payment id", "body_bytes", len(body))
		respondJSON(w, http.StatusOK, warningResponse("No payment id found", nil))
		return
	}

	payment, err := h.mp.GetPayment(r.Context(), paymentID)
	if err != nil {
		if errors.Is(err, mercadopago.ErrMissingAccessToken) {
			respondError(w, http.StatusInternalServerError, "missing mercado pago access token")
			return
		}

		h.logger.Warn("could not fetch payment", "payment_id", paymentID, "error", err)
		extra := map[string]any{}
		if apiErr, ok := mercadopago.IsAPIError(err); ok {
			extra["mp_error"] = apiErr.Details()
		}
		respondJSON(w, http.StatusOK, warningResponse("Could not fetch payment", extra))
		return
	}

	orderID := payment.ExternalReference
	if orderID == "" {
		h.logger.Warn("payment without external reference",
			"payment_id", paymentID,
			"mp_status", payment.Status,
		)
		respondJSON(w, http.StatusOK, warningResponse("Missing external_reference on payment", map[string]any{
			"mp_status": payment.Status,
		}))
		return
	}

	update := domain.MapProviderStatus(payment.Status)

	err = h.orders.ApplyPaymentResult(r.Context(), orderID, domain.ProviderMercadoPago, update)
	if err != nil {
		h.logger.Warn("failed updating order",
			"order_id", orderID,
			"payment_id", paymentID,
			"error", err,
		)
		respondJSON(w, http.StatusOK, warningResponse("Failed updating order", map[string]any{
			"details": err.Error(),
		}))
		return
	}

	h.logger.Info("order reconciled",
		"order_id", orderID,
		"payment_id", paymentID,
		"mp_status", payment.Status,
		"payment_status", update.PaymentStatus,
		"status", update.OrderStatus,
	)

	respondJSON(w, http.StatusOK, WebhookResponse{
		OK:        true,
		OrderID:   orderID,
		PaymentID: paymentID,
		MPStatus:  payment.Status,
		Updated: WebhookUpdated{
			PaymentStatus: update.PaymentStatus,
			Status:        update.OrderStatus,
		},
	})
}
