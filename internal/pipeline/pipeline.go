// Package pipeline glues file transfer, conversion and the Shopify workflows
// into the three scheduled jobs.
package pipeline

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/angelopoggi/PFSH-Parser/internal/config"
	"github.com/angelopoggi/PFSH-Parser/internal/csvfile"
	"github.com/angelopoggi/PFSH-Parser/internal/domain"
	"github.com/angelopoggi/PFSH-Parser/internal/notify"
	"github.com/angelopoggi/PFSH-Parser/internal/service"
	"github.com/angelopoggi/PFSH-Parser/internal/sftp"
)

// Remote directories on the partner's server
const (
	RemoteOrdersDir   = "Orders"
	RemoteShippingDir = "Shipping"
	RemoteLogDir      = "Log_Files"
)

// Job names, also used as command names
const (
	JobInventory = "inventory-sync"
	JobOrders    = "orders-sync"
	JobShipping  = "shipping-sync"
)

// Exporter produces the partner order rows
type Exporter interface {
	Export(ctx context.Context, status string) (*service.ExportResult, error)
}

// Reconciler applies shipping confirmations
type Reconciler interface {
	Reconcile(ctx context.Context, rows []domain.TrackingRow) (*service.ReconcileResult, error)
}

// Notifier delivers the run summary
type Notifier interface {
	Send(ctx context.Context, s notify.Summary) error
}

// Runner executes one job per process run
type Runner struct {
	cfg      *config.Config
	runID    uuid.UUID
	transfer sftp.Transferer
	notifier Notifier
	logger   *zap.Logger
}

// NewRunner creates a new job runner
func NewRunner(cfg *config.Config, runID uuid.UUID, transfer sftp.Transferer, notifier Notifier, logger *zap.Logger) *Runner {
	return &Runner{
		cfg:      cfg,
		runID:    runID,
		transfer: transfer,
		notifier: notifier,
		logger:   logger,
	}
}

// Inventory pulls the partner's inventory feed, converts it to the catalog
// import layout and pushes the result back
func (r *Runner) Inventory(ctx context.Context) error {
	return r.run(ctx, JobInventory, func(ctx context.Context) ([]notify.Stat, error) {
		files := r.cfg.Files
		base := filepath.Join(files.WorkDir, files.BaseInventoryFile)
		updated := filepath.Join(files.WorkDir, files.UpdatedInventoryFile)

		r.logger.Info("Pulling daily inventory file from SFTP")
		if err := r.transfer.Transfer(ctx, sftp.Pull, base, files.BaseInventoryFile); err != nil {
			return nil, err
		}
		if err := r.pause(ctx); err != nil {
			return nil, err
		}

		r.logger.Info("Converting inventory file", zap.String("file", base))
		result, err := csvfile.ConvertInventoryFile(base, updated)
		if err != nil {
			return nil, err
		}
		if len(result.SkippedLines) > 0 {
			r.logger.Warn("Inventory lines skipped for an unusable price", zap.Ints("lines", result.SkippedLines))
		}
		if err := r.pause(ctx); err != nil {
			return nil, err
		}

		r.logger.Info("Pushing updated inventory file to SFTP")
		if err := r.transfer.Transfer(ctx, sftp.Push, updated, files.UpdatedInventoryFile); err != nil {
			return nil, err
		}
		return []notify.Stat{
			{Label: "Products written", Value: strconv.Itoa(result.Rows)},
			{Label: "Lines skipped", Value: strconv.Itoa(len(result.SkippedLines))},
		}, nil
	})
}

// Orders exports and fulfills Shopify orders, then pushes the orders file.
// Nothing is written or pushed when the export fails or yields no rows.
func (r *Runner) Orders(ctx context.Context, exporter Exporter) error {
	return r.run(ctx, JobOrders, func(ctx context.Context) ([]notify.Stat, error) {
		files := r.cfg.Files

		r.logger.Info("Exporting orders from Shopify", zap.String("status", r.cfg.OrdersStatus))
		result, err := exporter.Export(ctx, r.cfg.OrdersStatus)
		if err != nil {
			return nil, err
		}
		stats := []notify.Stat{
			{Label: "Orders exported", Value: strconv.Itoa(result.Orders)},
			{Label: "Rows written", Value: strconv.Itoa(len(result.Rows))},
			{Label: "Fulfillments created", Value: strconv.Itoa(result.FulfillmentsCreated)},
			{Label: "Lines skipped", Value: strconv.Itoa(result.SkippedLines)},
		}
		if len(result.Rows) == 0 {
			r.logger.Info("No order rows, nothing to push")
			return stats, nil
		}

		local := filepath.Join(files.WorkDir, files.UpdatedOrdersFile)
		r.logger.Info("Writing orders file", zap.String("file", local), zap.Int("rows", len(result.Rows)))
		if err := csvfile.WriteOrders(local, result.Rows); err != nil {
			return stats, err
		}
		if err := r.pause(ctx); err != nil {
			return stats, err
		}

		r.logger.Info("Pushing orders file to SFTP")
		if err := r.transfer.Transfer(ctx, sftp.Push, local, path.Join(RemoteOrdersDir, files.UpdatedOrdersFile)); err != nil {
			return stats, err
		}
		return stats, nil
	})
}

// Shipping pulls the partner's shipping confirmations and applies them to Shopify
func (r *Runner) Shipping(ctx context.Context, reconciler Reconciler) error {
	return r.run(ctx, JobShipping, func(ctx context.Context) ([]notify.Stat, error) {
		files := r.cfg.Files
		local := filepath.Join(files.WorkDir, files.ShippingFile)

		r.logger.Info("Pulling shipping file from SFTP")
		if err := r.transfer.Transfer(ctx, sftp.Pull, local, path.Join(RemoteShippingDir, files.ShippingFile)); err != nil {
			return nil, err
		}
		if err := r.pause(ctx); err != nil {
			return nil, err
		}

		rows, err := csvfile.ReadTracking(local)
		if err != nil {
			return nil, err
		}

		r.logger.Info("Updating tracking information in Shopify", zap.Int("rows", len(rows)))
		result, err := reconciler.Reconcile(ctx, rows)
		if result == nil {
			return nil, err
		}
		return []notify.Stat{
			{Label: "Rows read", Value: strconv.Itoa(result.Rows)},
			{Label: "Rows matched", Value: strconv.Itoa(result.Matched)},
			{Label: "Tracking updates", Value: strconv.Itoa(result.TrackingUpdates)},
			{Label: "Orders closed", Value: strconv.Itoa(result.OrdersClosed)},
			{Label: "Orders without fulfillments", Value: strconv.Itoa(result.NoFulfillments)},
		}, err
	})
}

// run wraps a job with start/finish logging, the log push and the summary email
func (r *Runner) run(ctx context.Context, job string, fn func(ctx context.Context) ([]notify.Stat, error)) error {
	started := time.Now()
	r.logger.Info("Job started", zap.String("job", job), zap.String("run_id", r.runID.String()))

	stats, err := fn(ctx)
	if err != nil {
		r.logger.Error("Job failed", zap.String("job", job), zap.Error(err))
	} else {
		r.logger.Info("Job finished", zap.String("job", job), zap.Duration("elapsed", time.Since(started)))
	}

	if logErr := r.pushLog(ctx); logErr != nil {
		if err == nil {
			err = logErr
		} else {
			r.logger.Warn("Failed to push log file", zap.Error(logErr))
		}
	}

	summary := notify.Summary{
		Job:        job,
		RunID:      r.runID.String(),
		StartedAt:  started,
		FinishedAt: time.Now(),
		Err:        err,
		Stats:      stats,
	}
	if r.notifier != nil {
		// the summary still goes out when the run was interrupted
		if nerr := r.notifier.Send(context.WithoutCancel(ctx), summary); nerr != nil {
			r.logger.Warn("Failed to send notification", zap.Error(nerr))
		}
	}
	return err
}

// pushLog uploads the run log next to the partner's files
func (r *Runner) pushLog(ctx context.Context) error {
	if r.cfg.LogFile == "" {
		return nil
	}
	if err := r.pause(ctx); err != nil {
		return err
	}
	_ = r.logger.Sync()
	remote := path.Join(RemoteLogDir, filepath.Base(r.cfg.LogFile))
	if err := r.transfer.Transfer(ctx, sftp.Push, r.cfg.LogFile, remote); err != nil {
		return fmt.Errorf("push log file: %w", err)
	}
	return nil
}

// pause waits the configured stage delay between steps
func (r *Runner) pause(ctx context.Context) error {
	if r.cfg.StageDelay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(r.cfg.StageDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
