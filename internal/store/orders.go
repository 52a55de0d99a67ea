package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lojaviva/checkout/internal/domain"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderRepository struct {
	db *DB
}

func NewOrderRepository(db *DB) *OrderRepository {
	return &OrderRepository{db: db}
}

type orderModel struct {
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

func toDomainOrder(m orderModel) *domain.Order {
	return &domain.Order{
		ID:              m.ID,
		Status:          m.Status,
		PaymentStatus:   m.PaymentStatus,
		PaymentProvider: m.PaymentProvider,
		StoreID:         m.StoreID,
		TotalCents:      m.TotalCents,
		PayOnDelivery:   m.PayOnDelivery,
		ChangeForCents:  m.ChangeForCents,
		CreatedAt:       m.CreatedAt,
	}
}

// FindByID retrieves one order by key equality on id.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT id, status, payment_status, payment_provider, store_id,
		       total_cents, pay_on_delivery, change_for_cents, created_at
		FROM orders WHERE id = $1
	`

	var m orderModel
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.Status, &m.PaymentStatus, &m.PaymentProvider, &m.StoreID,
		&m.TotalCents, &m.PayOnDelivery, &m.ChangeForCents, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
		}
		return nil, fmt.Errorf("query order by id: %w", err)
	}

	return toDomainOrder(m), nil
}

// ApplyPaymentResult writes the reconciled provider outcome onto the order.
// Last write wins; duplicate webhook deliveries simply reapply the same
// values.
func (r *OrderRepository) ApplyPaymentResult(ctx context.Context, orderID, provider string, update domain.StatusUpdate) error {
	query := `
		UPDATE orders
		SET payment_provider = $1, payment_status = $2, status = $3
		WHERE id = $4
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		provider,
		string(update.PaymentStatus),
		string(update.OrderStatus),
		orderID,
	)
	if err != nil {
		return fmt.Errorf("update order payment result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}

	return nil
}
