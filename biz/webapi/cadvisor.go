package webapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"dogker/lintang/monitor-billing-service/biz/domain"
	"dogker/lintang/monitor-billing-service/config"

	"go.uber.org/zap"
)

// CAdvisorAPI polls the platform's resource usage reporting endpoint for the
// full snapshot of monitored containers.
type CAdvisorAPI struct {
	BaseURL string
	client  *http.Client
}

func CreateCAdvisorAPI(cfg *config.Config) *CAdvisorAPI {
	return &CAdvisorAPI{
		BaseURL: cfg.CAdvisor.CAdvisorURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type cadvisorContainer struct {
	ID      string          `json:"id"`
	Aliases []string        `json:"aliases"`
	Stats   []cadvisorStats `json:"stats"`
}

type cadvisorStats struct {
	Timestamp time.Time `json:"timestamp"`
	Cpu       struct {
		Usage struct {
			Total uint64 `json:"total"`
		} `json:"usage"`
	} `json:"cpu"`
	Memory struct {
		Usage uint64 `json:"usage"`
	} `json:"memory"`
	Network struct {
		Interfaces []struct {
			RxBytes uint64 `json:"rx_bytes"`
			TxBytes uint64 `json:"tx_bytes"`
		} `json:"interfaces"`
	} `json:"network"`
}

// GetAllContainers fetches the current snapshot of every monitored container,
// stats ordered oldest to newest per container.
func (c *CAdvisorAPI) GetAllContainers(ctx context.Context) ([]domain.ContainerUsageReport, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL, nil)
	if err != nil {
		zap.L().Error("NewRequest (GetAllContainers) (CAdvisorAPI)", zap.Error(err))
		return nil, domain.WrapErrorf(err, domain.ErrInternalServerError, domain.MessageInternalServerError)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		zap.L().Error("c.client.Do(req) (GetAllContainers) (CAdvisorAPI)", zap.Error(err))
		return nil, domain.WrapErrorf(err, domain.ErrInternalServerError, domain.MessageInternalServerError)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		zap.L().Error("cadvisor returned non-200", zap.Int("status", resp.StatusCode))
		return nil, domain.NewErrorf(domain.ErrInternalServerError, "cadvisor returned status %d", resp.StatusCode)
	}

	var ctrs []cadvisorContainer
	if err := json.NewDecoder(resp.Body).Decode(&ctrs); err != nil {
		zap.L().Error("json.Decode (GetAllContainers) (CAdvisorAPI)", zap.Error(err))
		return nil, domain.WrapErrorf(err, domain.ErrInternalServerError, domain.MessageInternalServerError)
	}

	res := make([]domain.ContainerUsageReport, 0, len(ctrs))
	for _, ctr := range ctrs {
		report := domain.ContainerUsageReport{
			ID:      ctr.ID,
			Aliases: ctr.Aliases,
		}
		for _, st := range ctr.Stats {
			var rx, tx uint64
			for _, iface := range st.Network.Interfaces {
				rx += iface.RxBytes
				tx += iface.TxBytes
			}
			report.Stats = append(report.Stats, domain.UsageStat{
				Timestamp:   uint64(st.Timestamp.UnixNano()),
				CpuTotal:    st.Cpu.Usage.Total,
				MemoryUsage: st.Memory.Usage,
				NetRxBytes:  rx,
				NetTxBytes:  tx,
			})
		}
		res = append(res, report)
	}
	return res, nil
}
