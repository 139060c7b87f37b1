package tsdb

import (
	"context"
	"strconv"

	"dogker/lintang/monitor-billing-service/biz/domain"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// MetricsStreamRepository is the append-only time-series store backed by Redis
// Streams. One stream per container; entry IDs are assigned by Redis, so range
// reads come back in append order regardless of sample timestamps.
type MetricsStreamRepository struct {
	rdb *Redis
}

func NewMetricsStreamRepo(rdb *Redis) *MetricsStreamRepository {
	return &MetricsStreamRepository{rdb}
}

const (
	fieldTimestamp = "timestamp"
	fieldCpu       = "cpu"
	fieldMemory    = "memory"
	fieldNetRx     = "net_rx"
	fieldNetTx     = "net_tx"
)

// Append adds one sample to the container's stream with an auto-generated
// entry ID. The stream is created implicitly on first append.
func (r *MetricsStreamRepository) Append(ctx context.Context, key string, s *domain.ContainerSample) (string, error) {
	id, err := r.rdb.Client.XAdd(ctx, &redis.XAddArgs{
		Stream: key,
		Values: map[string]interface{}{
			fieldTimestamp: strconv.FormatUint(s.Timestamp, 10),
			fieldCpu:       strconv.FormatUint(s.CpuTotal, 10),
			fieldMemory:    strconv.FormatUint(s.MemoryUsage, 10),
			fieldNetRx:     strconv.FormatUint(s.NetRxBytes, 10),
			fieldNetTx:     strconv.FormatUint(s.NetTxBytes, 10),
		},
	}).Result()
	if err != nil {
		zap.L().Error("r.rdb.Client.XAdd (Append) (MetricsStreamRepository)", zap.Error(err), zap.String("key", key))
		return "", domain.WrapErrorf(err, domain.ErrInternalServerError, domain.MessageInternalServerError)
	}
	return id, nil
}

// ScanKeys walks the metrics keyspace with SCAN cursor semantics, so a large
// key space never blocks the server the way KEYS would.
func (r *MetricsStreamRepository) ScanKeys(ctx context.Context, pattern string, cursor uint64, count int64) (uint64, []string, error) {
	keys, next, err := r.rdb.Client.Scan(ctx, cursor, pattern, count).Result()
	if err != nil {
		zap.L().Error("r.rdb.Client.Scan (ScanKeys) (MetricsStreamRepository)", zap.Error(err))
		return 0, nil, domain.WrapErrorf(err, domain.ErrInternalServerError, domain.MessageInternalServerError)
	}
	return next, keys, nil
}

// Range reads the full stream in entry-ID (append) order.
func (r *MetricsStreamRepository) Range(ctx context.Context, key string) ([]domain.ContainerSample, error) {
	entries, err := r.rdb.Client.XRange(ctx, key, "-", "+").Result()
	if err != nil {
		zap.L().Error("r.rdb.Client.XRange (Range) (MetricsStreamRepository)", zap.Error(err), zap.String("key", key))
		return nil, domain.WrapErrorf(err, domain.ErrInternalServerError, domain.MessageInternalServerError)
	}

	samples := make([]domain.ContainerSample, 0, len(entries))
	for _, entry := range entries {
		samples = append(samples, domain.ContainerSample{
			ContainerKey: key,
			Timestamp:    parseField(entry.Values, fieldTimestamp),
			CpuTotal:     parseField(entry.Values, fieldCpu),
			MemoryUsage:  parseField(entry.Values, fieldMemory),
			NetRxBytes:   parseField(entry.Values, fieldNetRx),
			NetTxBytes:   parseField(entry.Values, fieldNetTx),
		})
	}
	return samples, nil
}

// Delete evicts a fully aggregated stream. A concurrent append landing after
// the DEL just starts a fresh stream for the next window.
func (r *MetricsStreamRepository) Delete(ctx context.Context, key string) error {
	err := r.rdb.Client.Del(ctx, key).Err()
	if err != nil {
		zap.L().Error("r.rdb.Client.Del (Delete) (MetricsStreamRepository)", zap.Error(err), zap.String("key", key))
		return domain.WrapErrorf(err, domain.ErrInternalServerError, domain.MessageInternalServerError)
	}
	return nil
}

func parseField(values map[string]interface{}, field string) uint64 {
	raw, ok := values[field]
	if !ok {
		return 0
	}
	str, ok := raw.(string)
	if !ok {
		return 0
	}
	v, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
