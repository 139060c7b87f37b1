package db

import (
	"context"
	"database/sql"

	"dogker/lintang/monitor-billing-service/biz/domain"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"go.uber.org/zap"
)

type ContainerRepository struct {
	db *Postgres
}

func NewContainerRepo(db *Postgres) *ContainerRepository {
	return &ContainerRepository{db}
}

// GetByName resolves the billable owner of a usage stream. Container names are
// unique per swarm, so the newest matching deployment row wins.
func (r *ContainerRepository) GetByName(ctx context.Context, name string) (*domain.Container, error) {
	row := r.db.Pool.QueryRowContext(ctx,
		`SELECT id, user_id, name, service_id, status, created_time
		 FROM containers
		 WHERE name = $1
		 ORDER BY created_time DESC
		 LIMIT 1`, name)

	var ctr domain.Container
	err := row.Scan(&ctr.ID, &ctr.UserID, &ctr.Name, &ctr.ServiceID, &ctr.Status, &ctr.CreatedTime)
	if err != nil {
		if err == sql.ErrNoRows {
			hlog.Debug("container with name: " + name + " not in database")
			return nil, domain.WrapErrorf(err, domain.ErrNotFound, "container with name: "+name+" not in database")
		}
		zap.L().Error("row.Scan (GetByName) (ContainerRepository)", zap.Error(err))
		return nil, domain.WrapErrorf(err, domain.ErrInternalServerError, domain.MessageInternalServerError)
	}
	return &ctr, nil
}
