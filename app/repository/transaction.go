package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vibast-solutions/ms-go-bayarcash/app/entity"
)

var ErrTransactionNotFound = errors.New("transaction not found")

const transactionColumns = `id, uuid, order_id, total_cents, status, vendor_charge_id,
			payment_method, payment_method_type, note, created_at, updated_at`

type TransactionRepository struct {
	db DBTX
}

func NewTransactionRepository(db DBTX) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) FindByID(ctx context.Context, id uint64) (*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM order_transactions WHERE id = ?`
	return r.findOne(ctx, query, id)
}

func (r *TransactionRepository) FindByUUID(ctx context.Context, uuid string) (*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM order_transactions WHERE uuid = ? LIMIT 1`
	return r.findOne(ctx, query, uuid)
}

// FindFirstByMethod returns the oldest transaction of the order paid with method.
func (r *TransactionRepository) FindFirstByMethod(ctx context.Context, orderID uint64, method string) (*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM order_transactions
		WHERE order_id = ? AND payment_method = ?
		ORDER BY id ASC
		LIMIT 1`
	return r.findOne(ctx, query, orderID, method)
}

func (r *TransactionRepository) ListByOrder(ctx context.Context, orderID uint64) ([]*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM order_transactions WHERE order_id = ? ORDER BY id ASC`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*entity.Transaction, 0)
	for rows.Next() {
		item := &entity.Transaction{}
		if err := scanTransaction(rows, item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// Update persists status changes. vendor_charge_id is only written while it
// is still NULL.
func (r *TransactionRepository) Update(ctx context.Context, txn *entity.Transaction) error {
	query := `
		UPDATE order_transactions SET
			status = ?,
			vendor_charge_id = COALESCE(vendor_charge_id, ?),
			payment_method = ?,
			payment_method_type = ?,
			note = ?,
			updated_at = ?
		WHERE id = ?
	`

	result, err := conn(ctx, r.db).ExecContext(ctx, query,
		txn.Status,
		nullableStringValue(txn.VendorChargeID),
		txn.PaymentMethod,
		txn.PaymentMethodType,
		txn.Note,
		txn.UpdatedAt,
		txn.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTransactionNotFound
	}

	return nil
}

func (r *TransactionRepository) findOne(ctx context.Context, query string, args ...interface{}) (*entity.Transaction, error) {
	txn := &entity.Transaction{}
	if err := scanTransaction(conn(ctx, r.db).QueryRowContext(ctx, query, args...), txn); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return txn, nil
}

func scanTransaction(scan rowScanner, txn *entity.Transaction) error {
	var vendorChargeID sql.NullString

	err := scan.Scan(
		&txn.ID,
		&txn.UUID,
		&txn.OrderID,
		&txn.TotalCents,
		&txn.Status,
		&vendorChargeID,
		&txn.PaymentMethod,
		&txn.PaymentMethodType,
		&txn.Note,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
	if err != nil {
		return err
	}

	txn.VendorChargeID = stringPtrFromNull(vendorChargeID)
	return nil
}
