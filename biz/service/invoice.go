package service

import (
	"context"
	"errors"
	"time"

	"dogker/lintang/monitor-billing-service/biz/domain"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"go.uber.org/zap"
)

type InvoiceRepository interface {
	Insert(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error)
	ExistsForPeriod(ctx context.Context, userID string, period time.Time) (bool, error)
	GetOutstanding(ctx context.Context) ([]domain.Invoice, error)
	GetUserInvoices(ctx context.Context, userID string) ([]domain.Invoice, error)
	UpdateStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, paymentLink string) error
}

type InvoiceService struct {
	metricsRepo MetricsRepository
	invoiceRepo InvoiceRepository
	dueOffset   time.Duration
}

func NewInvoiceService(m MetricsRepository, i InvoiceRepository, dueDateOffsetDays int) *InvoiceService {
	return &InvoiceService{
		metricsRepo: m,
		invoiceRepo: i,
		dueOffset:   time.Duration(dueDateOffsetDays) * 24 * time.Hour,
	}
}

// GenerateTick creates one PENDING invoice per user for the previous calendar
// month. Users with no daily_metrics rows in the window get no invoice. The
// (user, period) existence check plus the unique index on invoices make a
// rerun inside the same cycle a no-op instead of a duplicate billing.
func (s *InvoiceService) GenerateTick(ctx context.Context) error {
	now := time.Now()
	from, to := domain.PreviousMonthWindow(now)
	period := domain.PeriodOf(from)
	periodEnd := period.AddDate(0, 1, 0)

	aggs, err := s.metricsRepo.SumUserMetricsInRange(ctx, from, to)
	if err != nil {
		zap.L().Error("s.metricsRepo.SumUserMetricsInRange (GenerateTick) (InvoiceService)", zap.Error(err))
		return err
	}

	for _, agg := range aggs {
		exists, err := s.invoiceRepo.ExistsForPeriod(ctx, agg.UserID, period)
		if err != nil {
			zap.L().Error("s.invoiceRepo.ExistsForPeriod (GenerateTick) (InvoiceService)", zap.Error(err), zap.String("userID", agg.UserID))
			continue
		}
		if exists {
			hlog.Debug("invoice for userId: " + agg.UserID + " already generated for this period")
			continue
		}

		_, err = s.invoiceRepo.Insert(ctx, &domain.Invoice{
			UserID:        agg.UserID,
			TotalCpuSecs:  agg.TotalCpuSecs,
			TotalMemBytes: agg.TotalMemBytes,
			TotalNetBytes: agg.TotalNetBytes,
			Amount:        agg.Amount,
			Status:        domain.InvoiceStatusPending,
			Period:        period,
			DueDate:       periodEnd.Add(s.dueOffset),
		})
		if err != nil {
			var ierr *domain.Error
			if errors.As(err, &ierr) && ierr.Code() == domain.ErrConflict {
				// lost the race against another run, the guard did its job
				hlog.Debug("invoice for userId: " + agg.UserID + " already generated for this period")
				continue
			}
			zap.L().Error("s.invoiceRepo.Insert (GenerateTick) (InvoiceService)", zap.Error(err), zap.String("userID", agg.UserID))
			continue
		}
	}
	return nil
}

// GetUserInvoices lists a user's invoices for the dashboard service.
func (s *InvoiceService) GetUserInvoices(ctx context.Context, userID string) ([]domain.Invoice, error) {
	return s.invoiceRepo.GetUserInvoices(ctx, userID)
}
