package cron

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mazaohq/mazao-pos-backend/pkg/logger"
)

// Stock receipts are an audit trail for cost merges; two years is plenty for
// a duka's books.
const receiptRetentionDays = 730

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type receiptRetentionRepo interface {
	DeleteReceiptsOlderThan(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
}

// ReceiptRetentionJobParams configure the stock receipt retention job.
type ReceiptRetentionJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository receiptRetentionRepo
	Retention  int
}

// NewReceiptRetentionJob builds the job that trims old stock receipt rows.
func NewReceiptRetentionJob(params ReceiptRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("receipt repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = receiptRetentionDays
	}
	return &receiptRetentionJob{
		logg:      params.Logger,
		db:        params.DB,
		repo:      params.Repository,
		retention: retention,
		now:       time.Now,
	}, nil
}

type receiptRetentionJob struct {
	logg      *logger.Logger
	db        txRunner
	repo      receiptRetentionRepo
	retention int
	now       func() time.Time
}

func (j *receiptRetentionJob) Name() string { return "stock-receipt-retention" }

func (j *receiptRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.retention) * 24 * time.Hour)
	var deleted int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := j.repo.DeleteReceiptsOlderThan(ctx, tx, cutoff)
		if err != nil {
			return err
		}
		deleted = rows
		return nil
	})
	if err != nil {
		return fmt.Errorf("receipt retention: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.retention,
		"rows_deleted":   deleted,
	})
	j.logg.Info(logCtx, "stock receipt retention complete")
	return nil
}
