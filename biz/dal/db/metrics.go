package db

import (
	"context"
	"time"

	"dogker/lintang/monitor-billing-service/biz/domain"

	"go.uber.org/zap"
)

type MetricsRepository struct {
	db *Postgres
}

func NewMetricsRepo(db *Postgres) *MetricsRepository {
	return &MetricsRepository{db}
}

// InsertDailyMetric persists one billable usage row. Rows are immutable, the
// aggregator only ever evicts the source stream after this succeeds.
func (r *MetricsRepository) InsertDailyMetric(ctx context.Context, m *domain.DailyMetricRecord) (*domain.DailyMetricRecord, error) {
	row := r.db.Pool.QueryRowContext(ctx,
		`INSERT INTO daily_metrics
			(user_id, container_name, date, cpu_seconds, memory_bytes, net_rx_bytes, net_tx_bytes, amount)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		m.UserID, m.ContainerName, m.Date, m.CpuSeconds, m.MemoryBytes, m.NetRxBytes, m.NetTxBytes, m.Amount)

	err := row.Scan(&m.ID)
	if err != nil {
		zap.L().Error("row.Scan (InsertDailyMetric) (MetricsRepository)", zap.Error(err))
		return nil, domain.WrapErrorf(err, domain.ErrInternalServerError, domain.MessageInternalServerError)
	}
	return m, nil
}

// SumUserMetricsInRange groups daily_metrics rows inside [from, to] by user and
// sums cost and resource totals. Users with no rows in range do not appear.
func (r *MetricsRepository) SumUserMetricsInRange(ctx context.Context, from time.Time, to time.Time) ([]domain.MonthlyAggregate, error) {
	rows, err := r.db.Pool.QueryContext(ctx,
		`SELECT user_id,
			COALESCE(SUM(cpu_seconds), 0),
			COALESCE(SUM(memory_bytes), 0),
			COALESCE(SUM(net_rx_bytes + net_tx_bytes), 0),
			COALESCE(SUM(amount), 0)
		 FROM daily_metrics
		 WHERE date >= $1 AND date <= $2
		 GROUP BY user_id`, from, to)
	if err != nil {
		zap.L().Error("r.db.Pool.QueryContext (SumUserMetricsInRange) (MetricsRepository)", zap.Error(err))
		return nil, domain.WrapErrorf(err, domain.ErrInternalServerError, domain.MessageInternalServerError)
	}
	defer rows.Close()

	var res []domain.MonthlyAggregate
	for rows.Next() {
		var agg domain.MonthlyAggregate
		err = rows.Scan(&agg.UserID, &agg.TotalCpuSecs, &agg.TotalMemBytes, &agg.TotalNetBytes, &agg.Amount)
		if err != nil {
			zap.L().Error("rows.Scan (SumUserMetricsInRange) (MetricsRepository)", zap.Error(err))
			return nil, domain.WrapErrorf(err, domain.ErrInternalServerError, domain.MessageInternalServerError)
		}
		res = append(res, agg)
	}
	if err = rows.Err(); err != nil {
		zap.L().Error("rows.Err (SumUserMetricsInRange) (MetricsRepository)", zap.Error(err))
		return nil, domain.WrapErrorf(err, domain.ErrInternalServerError, domain.MessageInternalServerError)
	}
	return res, nil
}
