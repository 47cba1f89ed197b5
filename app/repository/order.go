package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vibast-solutions/ms-go-bayarcash/app/entity"
)

var ErrOrderNotFound = errors.New("order not found")

const orderColumns = `id, mode, payment_status, total_cents, currency,
			customer_first_name, customer_full_name, customer_email, billing_phone, shipping_phone,
			metadata_json, created_at, updated_at`

type OrderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) FindByID(ctx context.Context, id uint64) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`

	order := &entity.Order{}
	if err := scanOrder(conn(ctx, r.db).QueryRowContext(ctx, query, id), order); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return order, nil
}

// Update writes the mutable payment fields. Customer data belongs to the cart
// platform and is never written back.
func (r *OrderRepository) Update(ctx context.Context, order *entity.Order) error {
	metadataJSON, err := serializeMetadata(order.Metadata)
	if err != nil {
		return err
	}

	query := `
		UPDATE orders SET
			payment_status = ?,
			metadata_json = ?,
			updated_at = ?
		WHERE id = ?
	`

	result, err := conn(ctx, r.db).ExecContext(ctx, query,
		order.PaymentStatus,
		metadataJSON,
		order.UpdatedAt,
		order.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func scanOrder(scan rowScanner, order *entity.Order) error {
	var metadataJSON string

	err := scan.Scan(
		&order.ID,
		&order.Mode,
		&order.PaymentStatus,
		&order.TotalCents,
		&order.Currency,
		&order.CustomerFirstName,
		&order.CustomerFullName,
		&order.CustomerEmail,
		&order.BillingPhone,
		&order.ShippingPhone,
		&metadataJSON,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return err
	}

	metadata, err := parseMetadata(metadataJSON)
	if err != nil {
		return err
	}
	order.Metadata = metadata

	return nil
}
