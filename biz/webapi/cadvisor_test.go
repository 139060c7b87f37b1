package webapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cadvisorSnapshot = `[
  {
    "id": "abc123",
    "aliases": ["web-1", "abc123"],
    "stats": [
      {
        "timestamp": "2024-05-10T10:00:00Z",
        "cpu": {"usage": {"total": 100}},
        "memory": {"usage": 200},
        "network": {"interfaces": [{"rx_bytes": 6, "tx_bytes": 3}, {"rx_bytes": 4, "tx_bytes": 2}]}
      },
      {
        "timestamp": "2024-05-10T10:00:30Z",
        "cpu": {"usage": {"total": 300}},
        "memory": {"usage": 400},
        "network": {"interfaces": [{"rx_bytes": 30, "tx_bytes": 15}]}
      }
    ]
  },
  {
    "id": "noalias",
    "aliases": [],
    "stats": [{"cpu": {"usage": {"total": 1}}, "memory": {"usage": 1}}]
  }
]`

func TestGetAllContainersParsesSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(cadvisorSnapshot))
	}))
	defer srv.Close()

	api := &CAdvisorAPI{BaseURL: srv.URL, client: srv.Client()}
	ctrs, err := api.GetAllContainers(context.Background())
	require.NoError(t, err)
	require.Len(t, ctrs, 2)

	web := ctrs[0]
	assert.Equal(t, "abc123", web.ID)
	assert.Equal(t, []string{"web-1", "abc123"}, web.Aliases)
	require.Len(t, web.Stats, 2)

	// stats keep source order, interface counters are summed
	assert.Equal(t, uint64(100), web.Stats[0].CpuTotal)
	assert.Equal(t, uint64(10), web.Stats[0].NetRxBytes)
	assert.Equal(t, uint64(5), web.Stats[0].NetTxBytes)
	assert.Equal(t, uint64(300), web.Stats[1].CpuTotal)
	assert.Equal(t, uint64(400), web.Stats[1].MemoryUsage)

	ts := time.Date(2024, time.May, 10, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, uint64(ts.UnixNano()), web.Stats[0].Timestamp)

	assert.Empty(t, ctrs[1].Aliases)
}

func TestGetAllContainersNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	api := &CAdvisorAPI{BaseURL: srv.URL, client: srv.Client()}
	_, err := api.GetAllContainers(context.Background())
	require.Error(t, err)
}
