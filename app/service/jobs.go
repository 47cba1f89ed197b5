package service

import (
	"context"
	"time"
)

const defaultNotificationRetention = 90 * 24 * time.Hour

// RunPurgeNotificationsBatch deletes one batch of audit rows older than the
// configured retention and reports how many were removed.
func (s *PaymentService) RunPurgeNotificationsBatch(ctx context.Context) (int64, error) {
	retention := s.notificationsCfg.Retention
	if retention <= 0 {
		retention = defaultNotificationRetention
	}
	cutoff := time.Now().UTC().Add(-retention)

	deleted, err := s.notificationRepo.DeleteOlderThan(ctx, cutoff, s.batchSize())
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.WithField("deleted", deleted).WithField("cutoff", cutoff.Format(time.RFC3339)).Info("Purged gateway notifications")
	}
	return deleted, nil
}
