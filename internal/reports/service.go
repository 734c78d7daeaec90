package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/mazaohq/mazao-pos-backend/pkg/errors"
)

const (
	defaultPeriod   = 30 * 24 * time.Hour
	maxPeriod       = 366 * 24 * time.Hour
	topProductLimit = 5
	lowStockLimit   = 20
)

type reportRepository interface {
	Totals(ctx context.Context, shopID uuid.UUID, from, to time.Time) (*Totals, error)
	PaymentBreakdown(ctx context.Context, shopID uuid.UUID, from, to time.Time) ([]PaymentBreakdown, error)
	DailyTotals(ctx context.Context, shopID uuid.UUID, from, to time.Time) ([]DayTotal, error)
	TopProducts(ctx context.Context, shopID uuid.UUID, from, to time.Time, limit int) ([]TopProduct, error)
	LowStockProducts(ctx context.Context, shopID uuid.UUID, limit int) ([]LowStockItem, error)
}

// Service assembles the sales summary report.
type Service interface {
	Summary(ctx context.Context, input SummaryInput) (*Summary, error)
}

type service struct {
	repo  reportRepository
	clock func() time.Time
}

// NewService builds the reporting service.
func NewService(repo reportRepository, clock func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("report repository required")
	}
	if clock == nil {
		clock = time.Now
	}
	return &service{repo: repo, clock: clock}, nil
}

func (s *service) Summary(ctx context.Context, input SummaryInput) (*Summary, error) {
	from, to, err := s.normalizeRange(input.From, input.To)
	if err != nil {
		return nil, err
	}

	totals, err := s.repo.Totals(ctx, input.ShopID, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "report totals")
	}
	byPayment, err := s.repo.PaymentBreakdown(ctx, input.ShopID, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "payment breakdown")
	}
	byDay, err := s.repo.DailyTotals(ctx, input.ShopID, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "daily totals")
	}
	topProducts, err := s.repo.TopProducts(ctx, input.ShopID, from, to, topProductLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "top products")
	}
	lowStock, err := s.repo.LowStockProducts(ctx, input.ShopID, lowStockLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "low stock list")
	}

	return &Summary{
		From:        from,
		To:          to,
		Totals:      *totals,
		ByPayment:   byPayment,
		ByDay:       byDay,
		TopProducts: topProducts,
		LowStock:    lowStock,
	}, nil
}

func (s *service) normalizeRange(from, to time.Time) (time.Time, time.Time, error) {
	if to.IsZero() {
		to = s.clock().UTC()
	}
	if from.IsZero() {
		from = to.Add(-defaultPeriod)
	}
	if !from.Before(to) {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "report period start must precede its end")
	}
	if to.Sub(from) > maxPeriod {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "report period is limited to one year")
	}
	return from, to, nil
}
