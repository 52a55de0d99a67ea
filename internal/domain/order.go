// Package domain defines the order model shared by the checkout endpoints.
package domain

import "time"

// PaymentStatus is the store's view of how an order was paid.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentRejected  PaymentStatus = "rejected"
	PaymentCancelled PaymentStatus = "cancelled"
	PaymentRefunded  PaymentStatus = "refunded"
)

// OrderStatus is the fulfillment stage of an order. The stored values are
// the Portuguese strings used by the storefront.
type OrderStatus string

const (
	OrderNew       OrderStatus = "novo"
	OrderPreparing OrderStatus = "preparando"
	OrderCancelled OrderStatus = "cancelado"
)

// ProviderMercadoPago is written to orders.payment_provider on every
// webhook-driven update.
const ProviderMercadoPago = "mercadopago"

// Order is owned by the store. This service only reads it and partially
// updates payment_provider, payment_status and status; it never creates or
// deletes rows. Nullable columns are pointers.
type Order struct {
	ID              string
	Status          *string
	PaymentStatus   *string
	PaymentProvider *string
	StoreID         *string
	TotalCents      int64
	PayOnDelivery   *bool
	ChangeForCents  *int64
	CreatedAt       time.Time
}
