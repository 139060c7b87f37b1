package domain

import (
	"strings"
	"time"
)

// MetricsKeyPrefix is the time-series namespace for per-container usage streams.
// One stream per container, keyed "metrics:<containerName>".
const MetricsKeyPrefix = "metrics:"

func MetricsKey(containerName string) string {
	return MetricsKeyPrefix + containerName
}

// ContainerNameFromKey parses the billable container name back out of a stream key.
func ContainerNameFromKey(key string) string {
	return strings.TrimPrefix(key, MetricsKeyPrefix)
}

// ContainerUsageReport is one monitored container as reported by the usage
// source, stats ordered oldest to newest. Containers without aliases cannot be
// attributed to a billable deployment name.
type ContainerUsageReport struct {
	ID      string      `json:"id"`
	Aliases []string    `json:"aliases"`
	Stats   []UsageStat `json:"stats"`
}

type UsageStat struct {
	Timestamp   uint64 `json:"timestamp"` // nanoseconds
	CpuTotal    uint64 `json:"cpu_total"`
	MemoryUsage uint64 `json:"memory_usage"`
	NetRxBytes  uint64 `json:"net_rx_bytes"`
	NetTxBytes  uint64 `json:"net_tx_bytes"`
}

// ContainerSample is one usage snapshot appended to a container's stream.
// CpuTotal, NetRxBytes and NetTxBytes are cumulative counters since container
// start (non-decreasing unless the container restarted); MemoryUsage is a gauge.
type ContainerSample struct {
	ContainerKey string `json:"container_key"`
	Timestamp    uint64 `json:"timestamp"` // nanoseconds, monotonic
	CpuTotal     uint64 `json:"cpu_total"`
	MemoryUsage  uint64 `json:"memory_usage"`
	NetRxBytes   uint64 `json:"net_rx_bytes"`
	NetTxBytes   uint64 `json:"net_tx_bytes"`
}

// DailyMetricRecord is one billable usage row per container per aggregation run.
// Immutable once persisted.
type DailyMetricRecord struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	ContainerName string    `json:"container_name"`
	Date          time.Time `json:"date"`
	CpuSeconds    float64   `json:"cpu_seconds"`
	MemoryBytes   uint64    `json:"memory_bytes"`
	NetRxBytes    uint64    `json:"net_rx_bytes"`
	NetTxBytes    uint64    `json:"net_tx_bytes"`
	Amount        float64   `json:"amount"`
}

// MonthlyAggregate is the per-user GROUP BY sum over a billing window.
// Derived at invoice time, never persisted on its own.
type MonthlyAggregate struct {
	UserID        string  `json:"user_id"`
	TotalCpuSecs  float64 `json:"total_cpu_secs"`
	TotalMemBytes uint64  `json:"total_mem_bytes"`
	TotalNetBytes uint64  `json:"total_net_bytes"`
	Amount        float64 `json:"amount"`
}

type UserMetricsMessage struct {
	ContainerName string
	UserID        string
	CpuSeconds    float64
	MemoryBytes   uint64
	NetRxBytes    uint64
	NetTxBytes    uint64
	Amount        float64
}
