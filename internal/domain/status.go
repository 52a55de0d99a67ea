package domain

import "strings"

// StatusUpdate is the internal (payment_status, status) pair derived from a
// Mercado Pago payment status.
type StatusUpdate struct {
	PaymentStatus PaymentStatus
	OrderStatus   OrderStatus
}

// providerStatusMap translates Mercado Pago payment statuses into the
// store's vocabulary. Adding a provider status is a one-line change here.
var providerStatusMap = map[string]StatusUpdate{
	"approved":     {PaymentPaid, OrderPreparing},
	"rejected":     {PaymentRejected, OrderCancelled},
	"cancelled":    {PaymentCancelled, OrderCancelled},
	"refunded":     {PaymentRefunded, OrderCancelled},
	"charged_back": {PaymentRefunded, OrderCancelled},
}

// Anything the table does not name, including pending and in_process, keeps
// the order waiting.
var defaultStatusUpdate = StatusUpdate{PaymentPending, OrderNew}

// MapProviderStatus resolves a provider status case-insensitively.
func MapProviderStatus(providerStatus string) StatusUpdate {
	if u, ok := providerStatusMap[strings.ToLower(providerStatus)]; ok {
		return u
	}
	return defaultStatusUpdate
}
