package handlers

import (
	"net/http"
	"time"

	"github.com/lojaviva/checkout/internal/domain"
)

type OrderStatusResponse struct {
	OK             bool      `json:"ok"`
	OrderID        string    `json:"order_id"`
	PaymentStatus  string    `json:"payment_status"`
	Status         string    `json:"status"`
	TotalCents     int64     `json:"total_cents"`
	CreatedAt      time.Time `json:"created_at"`
	PayOnDelivery  bool      `json:"pay_on_delivery"`
	ChangeForCents *int64    `json:"change_for_cents"`
}

// HandleOrderStatus returns a normalized projection of one order. Null
// statuses default to the initial values so polling clients never see null.
func (h *CheckoutHandler) HandleOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := r.URL.Query().Get("order_id")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "order_id is required")
		return
	}

	order, err := h.orders.FindByID(r.Context(), orderID)
	if err != nil {
		respondJSON(w, http.StatusNotFound, map[string]any{
			"error":   "Order not found",
			"details": err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, OrderStatusResponse{
		OK:             true,
		OrderID:        order.ID,
		PaymentStatus:  stringOr(order.PaymentStatus, string(domain.PaymentPending)),
		Status:         stringOr(order.Status, string(domain.OrderNew)),
		TotalCents:     order.TotalCents,
		CreatedAt:      order.CreatedAt,
		PayOnDelivery:  order.PayOnDelivery != nil && *order.PayOnDelivery,
		ChangeForCents: order.ChangeForCents,
	})
}

func stringOr(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}
