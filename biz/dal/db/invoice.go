package db

import (
	"context"
	"errors"
	"time"

	"dogker/lintang/monitor-billing-service/biz/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type InvoiceRepository struct {
	db *Postgres
}

func NewInvoiceRepo(db *Postgres) *InvoiceRepository {
	return &InvoiceRepository{db}
}

// Insert creates one invoice for one (user, period) pair. The unique index
// uq_invoices_user_period makes a rerun inside the same cycle a conflict
// instead of a duplicate invoice.
func (r *InvoiceRepository) Insert(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	now := time.Now().UTC()
	row := r.db.Pool.QueryRowContext(ctx,
		`INSERT INTO invoices
			(user_id, total_cpu_secs, total_mem_bytes, total_net_bytes, amount, status, period, due_date, created_time, updated_time)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		 RETURNING id`,
		inv.UserID, inv.TotalCpuSecs, inv.TotalMemBytes, inv.TotalNetBytes, inv.Amount,
		inv.Status, inv.Period, inv.DueDate, now)

	err := row.Scan(&inv.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.WrapErrorf(err, domain.ErrConflict,
				"invoice for userId: "+inv.UserID+" already exists for this billing period")
		}
		zap.L().Error("row.Scan (Insert) (InvoiceRepository)", zap.Error(err))
		return nil, domain.WrapErrorf(err, domain.ErrInternalServerError, domain.MessageInternalServerError)
	}
	inv.CreatedTime = now
	inv.UpdatedTime = now
	return inv, nil
}

// ExistsForPeriod reports whether the user already has an invoice for the
// given billing period.
func (r *InvoiceRepository) ExistsForPeriod(ctx context.Context, userID string, period time.Time) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM invoices WHERE user_id = $1 AND period = $2)`,
		userID, period).Scan(&exists)
	if err != nil {
		zap.L().Error("row.Scan (ExistsForPeriod) (InvoiceRepository)", zap.Error(err))
		return false, domain.WrapErrorf(err, domain.ErrInternalServerError, domain.MessageInternalServerError)
	}
	return exists, nil
}

// GetOutstanding fetches every invoice the payment orchestrator still has work
// for: PENDING, GENERATED and FAILED.
func (r *InvoiceRepository) GetOutstanding(ctx context.Context) ([]domain.Invoice, error) {
	rows, err := r.db.Pool.QueryContext(ctx,
		`SELECT id, user_id, total_cpu_secs, total_mem_bytes, total_net_bytes, amount,
			status, COALESCE(payment_link, ''), period, due_date, created_time, updated_time
		 FROM invoices
		 WHERE status IN ($1, $2, $3)`,
		domain.InvoiceStatusPending, domain.InvoiceStatusGenerated, domain.InvoiceStatusFailed)
	if err != nil {
		zap.L().Error("r.db.Pool.QueryContext (GetOutstanding) (InvoiceRepository)", zap.Error(err))
		return nil, domain.WrapErrorf(err, domain.ErrInternalServerError, domain.MessageInternalServerError)
	}
	defer rows.Close()

	var res []domain.Invoice
	for rows.Next() {
		var inv domain.Invoice
		err = rows.Scan(&inv.ID, &inv.UserID, &inv.TotalCpuSecs, &inv.TotalMemBytes, &inv.TotalNetBytes,
			&inv.Amount, &inv.Status, &inv.PaymentLink, &inv.Period, &inv.DueDate, &inv.CreatedTime, &inv.UpdatedTime)
		if err != nil {
			zap.L().Error("rows.Scan (GetOutstanding) (InvoiceRepository)", zap.Error(err))
			return nil, domain.WrapErrorf(err, domain.ErrInternalServerError, domain.MessageInternalServerError)
		}
		res = append(res, inv)
	}
	if err = rows.Err(); err != nil {
		zap.L().Error("rows.Err (GetOutstanding) (InvoiceRepository)", zap.Error(err))
		return nil, domain.WrapErrorf(err, domain.ErrInternalServerError, domain.MessageInternalServerError)
	}
	return res, nil
}

// GetUserInvoices lists a user's invoices newest first, for the dashboard.
func (r *InvoiceRepository) GetUserInvoices(ctx context.Context, userID string) ([]domain.Invoice, error) {
	rows, err := r.db.Pool.QueryContext(ctx,
		`SELECT id, user_id, total_cpu_secs, total_mem_bytes, total_net_bytes, amount,
			status, COALESCE(payment_link, ''), period, due_date, created_time, updated_time
		 FROM invoices
		 WHERE user_id = $1
		 ORDER BY period DESC`, userID)
	if err != nil {
		zap.L().Error("r.db.Pool.QueryContext (GetUserInvoices) (InvoiceRepository)", zap.Error(err))
		return nil, domain.WrapErrorf(err, domain.ErrInternalServerError, domain.MessageInternalServerError)
	}
	defer rows.Close()

	var res []domain.Invoice
	for rows.Next() {
		var inv domain.Invoice
		err = rows.Scan(&inv.ID, &inv.UserID, &inv.TotalCpuSecs, &inv.TotalMemBytes, &inv.TotalNetBytes,
			&inv.Amount, &inv.Status, &inv.PaymentLink, &inv.Period, &inv.DueDate, &inv.CreatedTime, &inv.UpdatedTime)
		if err != nil {
			zap.L().Error("rows.Scan (GetUserInvoices) (InvoiceRepository)", zap.Error(err))
			return nil, domain.WrapErrorf(err, domain.ErrInternalServerError, domain.MessageInternalServerError)
		}
		res = append(res, inv)
	}
	if err = rows.Err(); err != nil {
		zap.L().Error("rows.Err (GetUserInvoices) (InvoiceRepository)", zap.Error(err))
		return nil, domain.WrapErrorf(err, domain.ErrInternalServerError, domain.MessageInternalServerError)
	}
	return res, nil
}

// UpdateStatus persists a payment-state transition and the hosted link when
// one was obtained.
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, paymentLink string) error {
	_, err := r.db.Pool.ExecContext(ctx,
		`UPDATE invoices
		 SET status = $2,
			 payment_link = NULLIF($3, ''),
			 updated_time = $4
		 WHERE id = $1`,
		invoiceID, status, paymentLink, time.Now().UTC())
	if err != nil {
		zap.L().Error("r.db.Pool.ExecContext (UpdateStatus) (InvoiceRepository)", zap.Error(err))
		return domain.WrapErrorf(err, domain.ErrInternalServerError, domain.MessageInternalServerError)
	}
	return nil
}
