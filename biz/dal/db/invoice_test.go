package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"dogker/lintang/monitor-billing-service/biz/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockInvoiceRepo(t *testing.T) (*InvoiceRepository, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewInvoiceRepo(&Postgres{Pool: conn}), mock
}

func TestInvoiceInsertReturnsID(t *testing.T) {
	repo, mock := newMockInvoiceRepo(t)

	mock.ExpectQuery(`INSERT INTO invoices`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("inv-uuid-1"))

	inv, err := repo.Insert(context.Background(), &domain.Invoice{
		UserID:  "user-1",
		Amount:  42.5,
		Status:  domain.InvoiceStatusPending,
		Period:  time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
		DueDate: time.Date(2024, time.May, 8, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "inv-uuid-1", inv.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceInsertDuplicatePeriodIsConflict(t *testing.T) {
	repo, mock := newMockInvoiceRepo(t)

	mock.ExpectQuery(`INSERT INTO invoices`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_invoices_user_period"})

	_, err := repo.Insert(context.Background(), &domain.Invoice{
		UserID: "user-1",
		Period: time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)

	var ierr *domain.Error
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, domain.ErrConflict, ierr.Code())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOutstandingScansRows(t *testing.T) {
	repo, mock := newMockInvoiceRepo(t)

	period := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	due := period.AddDate(0, 1, 7)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "total_cpu_secs", "total_mem_bytes", "total_net_bytes",
		"amount", "status", "payment_link", "period", "due_date", "created_time", "updated_time",
	}).
		AddRow("inv-1", "user-1", 12.5, int64(1024), int64(2048), 42.5, "PENDING", "", period, due, now, now).
		AddRow("inv-2", "user-2", 1.0, int64(1), int64(2), 0.5, "FAILED", "https://checkout.test/x", period, due, now, now)

	mock.ExpectQuery(`SELECT (.+) FROM invoices`).
		WithArgs(string(domain.InvoiceStatusPending), string(domain.InvoiceStatusGenerated), string(domain.InvoiceStatusFailed)).
		WillReturnRows(rows)

	invs, err := repo.GetOutstanding(context.Background())
	require.NoError(t, err)
	require.Len(t, invs, 2)
	assert.Equal(t, domain.InvoiceStatusPending, invs[0].Status)
	assert.Equal(t, "https://checkout.test/x", invs[1].PaymentLink)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusClearsLinkOnFailure(t *testing.T) {
	repo, mock := newMockInvoiceRepo(t)

	mock.ExpectExec(`UPDATE invoices`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), "inv-1", domain.InvoiceStatusFailed, "")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
