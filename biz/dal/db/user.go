package db

import (
	"context"
	"database/sql"
	"time"

	"dogker/lintang/monitor-billing-service/biz/domain"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

type UserRepository struct {
	db *Postgres
}

func NewUserRepo(db *Postgres) *UserRepository {
	return &UserRepository{db}
}

func (r *UserRepository) Get(ctx context.Context, userID string) (*domain.User, error) {
	uid, err := uuid.FromString(userID)
	if err != nil {
		zap.L().Error("uuid.FromString(userID) (Get) (UserRepository)", zap.Error(err))
		return nil, domain.WrapErrorf(err, domain.ErrBadParamInput, "userId: "+userID+" is not a valid uuid")
	}

	row := r.db.Pool.QueryRowContext(ctx,
		`SELECT id, email, status, suspended_at FROM users WHERE id = $1`, uid.String())

	var (
		usr         domain.User
		suspendedAt sql.NullTime
	)
	err = row.Scan(&usr.ID, &usr.Email, &usr.Status, &suspendedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.WrapErrorf(err, domain.ErrNotFound, "user with id: "+userID+" not in database")
		}
		zap.L().Error("row.Scan (Get) (UserRepository)", zap.Error(err))
		return nil, domain.WrapErrorf(err, domain.ErrInternalServerError, domain.MessageInternalServerError)
	}
	if suspendedAt.Valid {
		usr.SuspendedAt = suspendedAt.Time
	}
	return &usr, nil
}

// Suspend marks the account SUSPENDED with the given timestamp. Only the
// payment orchestrator calls this, and only for overdue unpaid invoices.
func (r *UserRepository) Suspend(ctx context.Context, userID string, suspendedAt time.Time) error {
	_, err := r.db.Pool.ExecContext(ctx,
		`UPDATE users
		 SET status = $2, suspended_at = $3
		 WHERE id = $1`,
		userID, domain.UserStatusSuspended, suspendedAt)
	if err != nil {
		zap.L().Error("r.db.Pool.ExecContext (Suspend) (UserRepository)", zap.Error(err))
		return domain.WrapErrorf(err, domain.ErrInternalServerError, domain.MessageInternalServerError)
	}
	return nil
}
