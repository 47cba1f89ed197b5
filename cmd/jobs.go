package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vibast-solutions/ms-go-bayarcash/app/service"
	"github.com/vibast-solutions/ms-go-bayarcash/config"
)

var (
	workerMode bool
)

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Run gateway notification audit commands",
}

var notificationsPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete gateway notification audit rows older than the retention window",
	Run: func(_ *cobra.Command, _ []string) {
		runCommand(
			"notifications_purge",
			func(cfg *config.Config) time.Duration { return cfg.Notifications.PurgeInterval },
			func(s *service.PaymentService, ctx context.Context) (int64, error) {
				return s.RunPurgeNotificationsBatch(ctx)
			},
		)
	},
}

func init() {
	rootCmd.AddCommand(notificationsCmd)
	notificationsCmd.AddCommand(notificationsPurgeCmd)

	rootCmd.PersistentFlags().BoolVar(&workerMode, "worker", false, "Run continuously using configured interval")
}

func runCommand(
	name string,
	intervalResolver func(cfg *config.Config) time.Duration,
	fn func(s *service.PaymentService, ctx context.Context) (int64, error),
) {
	cfg, paymentService, cleanup := mustCreatePaymentService()
	defer cleanup()

	if workerMode {
		runWorker(name, intervalResolver(cfg), paymentService, fn)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	runJob(name, func() (int64, error) { return fn(paymentService, ctx) })
}

// runWorker repeats the job every interval until SIGINT or SIGTERM; a batch
// in flight sees its context cancelled.
func runWorker(
	name string,
	interval time.Duration,
	paymentService *service.PaymentService,
	fn func(s *service.PaymentService, ctx context.Context) (int64, error),
) {
	if interval <= 0 {
		logrus.WithField("job", name).Fatal("invalid worker interval")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		runJob(name, func() (int64, error) { return fn(paymentService, ctx) })

		select {
		case <-ctx.Done():
			logrus.WithField("job", name).Info("Worker shutdown requested")
			return
		case <-ticker.C:
		}
	}
}

func runJob(name string, fn func() (int64, error)) {
	start := time.Now()
	processed, err := fn()
	entry := logrus.WithFields(logrus.Fields{
		"job":       name,
		"latency":   time.Since(start).String(),
		"processed": processed,
	})
	if err != nil {
		entry.WithError(err).Error("job_failed")
		return
	}
	entry.Info("job_completed")
}
