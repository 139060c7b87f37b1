package service

import (
	"context"
	"errors"
	"time"

	"dogker/lintang/monitor-billing-service/biz/domain"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"go.uber.org/zap"
)

type ContainerRepository interface {
	GetByName(ctx context.Context, name string) (*domain.Container, error)
}

type MetricsRepository interface {
	InsertDailyMetric(ctx context.Context, m *domain.DailyMetricRecord) (*domain.DailyMetricRecord, error)
	SumUserMetricsInRange(ctx context.Context, from time.Time, to time.Time) ([]domain.MonthlyAggregate, error)
}

type BillingPublisher interface {
	PublishUserMetrics(ctx context.Context, msg domain.UserMetricsMessage) error
	PublishUserSuspended(ctx context.Context, msg domain.UserSuspendedMessage) error
}

type AggregatorService struct {
	stream        MetricsStream
	containerRepo ContainerRepository
	metricsRepo   MetricsRepository
	publisher     BillingPublisher
	pricing       domain.Pricing
}

func NewAggregatorService(stream MetricsStream, c ContainerRepository, m MetricsRepository,
	p BillingPublisher, pricing domain.Pricing) *AggregatorService {
	return &AggregatorService{
		stream:        stream,
		containerRepo: c,
		metricsRepo:   m,
		publisher:     p,
		pricing:       pricing,
	}
}

const scanBatchSize = 100

// AggregateTick collapses every usage stream into one billable daily_metrics
// row and evicts the consumed stream. Keys are enumerated with a cursor scan;
// a failure on one key never stops the rest of the run.
func (s *AggregatorService) AggregateTick(ctx context.Context) error {
	pattern := domain.MetricsKeyPrefix + "*"
	var cursor uint64
	for {
		next, keys, err := s.stream.ScanKeys(ctx, pattern, cursor, scanBatchSize)
		if err != nil {
			zap.L().Error("s.stream.ScanKeys (AggregateTick) (AggregatorService)", zap.Error(err))
			return err
		}

		for _, key := range keys {
			if err := s.aggregateKey(ctx, key); err != nil {
				zap.L().Error("s.aggregateKey (AggregateTick) (AggregatorService)", zap.Error(err), zap.String("key", key))
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}
	return nil
}

// aggregateKey computes the window delta for one stream, persists the billable
// record, then deletes the stream. Deletion strictly follows a successful
// persist: a failed insert leaves the stream intact for the next run.
func (s *AggregatorService) aggregateKey(ctx context.Context, key string) error {
	samples, err := s.stream.Range(ctx, key)
	if err != nil {
		return err
	}
	if len(samples) < 2 {
		// not enough data for a delta, leave the stream for the next run
		hlog.Debug("stream " + key + " has fewer than 2 samples, skipping")
		return nil
	}

	containerName := domain.ContainerNameFromKey(key)
	ctr, err := s.containerRepo.GetByName(ctx, containerName)
	if err != nil {
		var ierr *domain.Error
		if errors.As(err, &ierr) && ierr.Code() == domain.ErrNotFound {
			// orphaned container, nobody to bill
			hlog.Debug("no owning deployment for stream " + key + ", skipping")
			return nil
		}
		return err
	}

	first := samples[0]
	last := samples[len(samples)-1]

	// cpu and network are cumulative counters: bill last-first, clamped so a
	// counter reset (container restart) never produces negative cost. memory
	// is a gauge: bill the latest reading.
	cpuSeconds := float64(clampDelta(last.CpuTotal, first.CpuTotal)) / 1e9
	memoryBytes := last.MemoryUsage
	rxBytes := clampDelta(last.NetRxBytes, first.NetRxBytes)
	txBytes := clampDelta(last.NetTxBytes, first.NetTxBytes)

	record := &domain.DailyMetricRecord{
		UserID:        ctr.UserID,
		ContainerName: containerName,
		Date:          time.Now().UTC(),
		CpuSeconds:    cpuSeconds,
		MemoryBytes:   memoryBytes,
		NetRxBytes:    rxBytes,
		NetTxBytes:    txBytes,
		Amount:        s.pricing.Cost(cpuSeconds, memoryBytes, rxBytes+txBytes),
	}

	record, err = s.metricsRepo.InsertDailyMetric(ctx, record)
	if err != nil {
		return err
	}

	err = s.publisher.PublishUserMetrics(ctx, domain.UserMetricsMessage{
		ContainerName: containerName,
		UserID:        ctr.UserID,
		CpuSeconds:    record.CpuSeconds,
		MemoryBytes:   record.MemoryBytes,
		NetRxBytes:    record.NetRxBytes,
		NetTxBytes:    record.NetTxBytes,
		Amount:        record.Amount,
	})
	if err != nil {
		// the record is already persisted, a lost dashboard message is not
		// worth re-billing the window for
		zap.L().Error("s.publisher.PublishUserMetrics (aggregateKey) (AggregatorService)", zap.Error(err), zap.String("key", key))
	}

	return s.stream.Delete(ctx, key)
}

func clampDelta(last, first uint64) uint64 {
	if last < first {
		return 0
	}
	return last - first
}
