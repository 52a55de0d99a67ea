package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator"
	"github.com/lojaviva/checkout/internal/mercadopago"
	"github.com/shopspring/decimal"
)

type CreatePreferenceRequest struct {
	OrderID         string `json:"order_id" validate:"required"`
	TotalCents      int64  `json:"total_cents" validate:"required,gt=0"`
	BaseURL         string `json:"base_url" validate:"required"`
	NotificationURL string `json:"notification_url"`
	Mode            string `json:"mode"`
}

type CreatePreferenceResponse struct {
	OK                bool                 `json:"ok"`
	PreferenceID      string               `json:"preference_id"`
	InitPoint         string               `json:"init_point"`
	SandboxInitPoint  string               `json:"sandbox_init_point"`
	Mode              string               `json:"mode"`
	ExternalReference string               `json:"external_reference"`
	BackURLs          mercadopago.BackURLs `json:"back_urls"`
}

// HandleCreatePreference builds a Mercado Pago checkout session for an
// order and returns the redirect URLs.
func (h *CheckoutHandler) HandleCreatePreference(w http.ResponseWriter, r *http.Request) {
	var req CreatePreferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, firstValidationMessage(err))
		return
	}

	if req.Mode == "" {
		req.Mode = "test"
	}

	baseURL := strings.TrimRight(req.BaseURL, "/")

	// all three callbacks land on the order-detail page, never on a
	// separate checkout page
	backURLs := mercadopago.BackURLs{
		Success: fmt.Sprintf("%s/pedido.html?status=success&order_id=%s", baseURL, req.OrderID),
		Pending: fmt.Sprintf("%s/pedido.html?status=pending&order_id=%s", baseURL, req.OrderID),
		Failure: fmt.Sprintf("%s/pedido.html?status=failure&order_id=%s", baseURL, req.OrderID),
	}

	unitPrice, _ := decimal.NewFromInt(req.TotalCents).
		Div(decimal.NewFromInt(100)).
		Round(2).
		Float64()

	payload := mercadopago.PreferenceRequest{
		Items: []mercadopago.PreferenceItem{{
			Title:      "Pedido " + req.OrderID,
			Quantity:   1,
			CurrencyID: "BRL",
			UnitPrice:  unitPrice,
		}},
		ExternalReference: req.OrderID,
		NotificationURL:   req.NotificationURL,
		BackURLs:          backURLs,
	}

	// plain http (localhost) usually cannot redirect back automatically
	if strings.HasPrefix(baseURL, "https://") {
		payload.AutoReturn = "approved"
	}

	pref, err := h.mp.CreatePreference(r.Context(), payload)
	if err != nil {
		if errors.Is(err, mercadopago.ErrMissingAccessToken) {
			respondError(w, http.StatusInternalServerError, "missing mercado pago access token")
			return
		}
		if apiErr, ok := mercadopago.IsAPIError(err); ok {
			respondJSON(w, http.StatusBadRequest, map[string]any{
				"error":   "Mercado Pago error",
				"status":  apiErr.StatusCode,
				"details": apiErr.Details(),
				"sent":    apiErr.Sent,
			})
			return
		}
		h.logger.Error("preference creation failed", "order_id", req.OrderID, "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, CreatePreferenceResponse{
		OK:                true,
		PreferenceID:      pref.ID,
		InitPoint:         pref.InitPoint,
		SandboxInitPoint:  pref.SandboxInitPoint,
		Mode:              req.Mode,
		ExternalReference: req.OrderID,
		BackURLs:          backURLs,
	})
}

// firstValidationMessage reports only the first failed field, matching the
// fail-fast contract of the endpoint.
func firstValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}

	fe := verrs[0]
	field := jsonFieldName(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gt":
		return field + " must be positive"
	default:
		return field + " is invalid"
	}
}

var jsonFieldNames = map[string]string{
	"OrderID":         "order_id",
	"TotalCents":      "total_cents",
	"BaseURL":         "base_url",
	"NotificationURL": "notification_url",
	"Mode":            "mode",
}

func jsonFieldName(goName string) string {
	if name, ok := jsonFieldNames[goName]; ok {
		return name
	}
	return goName
}
