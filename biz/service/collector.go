package service

import (
	"context"

	"dogker/lintang/monitor-billing-service/biz/domain"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"go.uber.org/zap"
)

type UsageAPI interface {
	GetAllContainers(ctx context.Context) ([]domain.ContainerUsageReport, error)
}

// MetricsStream is the append-only per-container time-series store shared by
// the collector (appender) and the aggregator (reader + evictor).
type MetricsStream interface {
	Append(ctx context.Context, key string, s *domain.ContainerSample) (string, error)
	ScanKeys(ctx context.Context, pattern string, cursor uint64, count int64) (uint64, []string, error)
	Range(ctx context.Context, key string) ([]domain.ContainerSample, error)
	Delete(ctx context.Context, key string) error
}

type CollectorService struct {
	usageAPI UsageAPI
	stream   MetricsStream
}

func NewCollectorService(u UsageAPI, stream MetricsStream) *CollectorService {
	return &CollectorService{
		usageAPI: u,
		stream:   stream,
	}
}

// CollectTick fetches the full usage snapshot and appends the newest stats
// entry of every aliased container to its stream. Each tick only ever appends
// the latest reading, so a failed tick needs no retry queue: the next tick
// self-heals.
func (s *CollectorService) CollectTick(ctx context.Context) error {
	ctrs, err := s.usageAPI.GetAllContainers(ctx)
	if err != nil {
		zap.L().Error("s.usageAPI.GetAllContainers (CollectTick) (CollectorService)", zap.Error(err))
		return err
	}

	for _, ctr := range ctrs {
		if len(ctr.Aliases) == 0 {
			// no alias -> no billable deployment name to attribute usage to
			hlog.Debug("skipping unaliased container: " + ctr.ID)
			continue
		}
		if len(ctr.Stats) == 0 {
			continue
		}

		latest := ctr.Stats[len(ctr.Stats)-1]
		key := domain.MetricsKey(ctr.Aliases[0])
		sample := &domain.ContainerSample{
			ContainerKey: key,
			Timestamp:    latest.Timestamp,
			CpuTotal:     latest.CpuTotal,
			MemoryUsage:  latest.MemoryUsage,
			NetRxBytes:   latest.NetRxBytes,
			NetTxBytes:   latest.NetTxBytes,
		}

		_, err = s.stream.Append(ctx, key, sample)
		if err != nil {
			// one container must not abort the rest of the snapshot
			zap.L().Error("s.stream.Append (CollectTick) (CollectorService)", zap.Error(err), zap.String("key", key))
			continue
		}
	}
	return nil
}
