package repository

import (
	"context"
	"errors"
	"time"

	"github.com/vibast-solutions/ms-go-bayarcash/app/entity"
)

// ErrDuplicateNotification means the same signed payload was already recorded
// on the same channel, which happens on gateway retries.
var ErrDuplicateNotification = errors.New("gateway notification already recorded")

type GatewayNotificationRepository struct {
	db DBTX
}

func NewGatewayNotificationRepository(db DBTX) *GatewayNotificationRepository {
	return &GatewayNotificationRepository{db: db}
}

func (r *GatewayNotificationRepository) Create(ctx context.Context, notification *entity.GatewayNotification) error {
	query := `
		INSERT INTO gateway_notifications (
			order_id, channel, record_type, checksum, payload_json, status, error, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		nullableUint64Value(notification.OrderID),
		notification.Channel,
		notification.RecordType,
		notification.Checksum,
		notification.PayloadJSON,
		notification.Status,
		nullableStringValue(notification.Error),
		notification.CreatedAt,
		notification.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateNotification
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	notification.ID = uint64(id)

	return nil
}

// DeleteOlderThan removes at most limit audit rows created before cutoff and
// reports how many were removed.
func (r *GatewayNotificationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time, limit int32) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM gateway_notifications WHERE created_at < ? ORDER BY id ASC LIMIT ?`, cutoff, limit)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
