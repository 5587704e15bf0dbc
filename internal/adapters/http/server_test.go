package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	poe2opt "github.com/User-dev-volt/poe2-optimizer-v6-sub001"
	httpadapter "github.com/User-dev-volt/poe2-optimizer-v6-sub001/internal/adapters/http"
	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/adapters/memory"
	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/adapters/oracle"
	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/domain"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	nodes := []domain.PassiveNode{
		{ID: 1, Name: "Start", Kind: domain.NodeKindSmall},
		{ID: 2, Name: "A", Kind: domain.NodeKindSmall},
		{ID: 3, Name: "B", Kind: domain.NodeKindNotable},
	}
	edges := map[domain.NodeID][]domain.NodeID{1: {2}, 2: {3}}
	tree, err := domain.NewPassiveTree(nodes, edges, map[string]domain.NodeID{"witch": 1})
	require.NoError(t, err)

	orc := oracle.NewScripted(
		domain.BuildStats{TotalDPS: 100, Life: 100},
		map[domain.NodeID]oracle.NodeEffect{2: {DPS: 10}, 3: {DPS: 30}},
	)
	opt, err := poe2opt.New("", orc,
		poe2opt.WithLoader(memory.NewStaticLoader(tree)),
		poe2opt.WithStore(memory.NewRunStore()),
	)
	require.NoError(t, err)

	srv := httptest.NewServer(httpadapter.NewHandler(opt))
	t.Cleanup(srv.Close)
	return srv
}

func TestServer_Optimize(t *testing.T) {
	srv := newTestServer(t)

	body := `{
		"run_id": "http-run",
		"class": "witch",
		"metric": "dps",
		"unallocated": 2,
		"respec": 0
	}`
	resp, err := http.Post(srv.URL+"/optimize", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result domain.OptimizationResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, 140.0, result.BestMetric)
	assert.ElementsMatch(t, []domain.NodeID{2, 3}, result.Allocation.IDs())

	// The run was persisted and can be fetched back.
	got, err := http.Get(srv.URL + "/runs/http-run")
	require.NoError(t, err)
	defer got.Body.Close()
	assert.Equal(t, http.StatusOK, got.StatusCode)
}

func TestServer_OptimizeUnlimitedRespec(t *testing.T) {
	srv := newTestServer(t)

	body := `{"class": "witch", "metric": "dps", "unallocated": 1, "respec": "unlimited"}`
	resp, err := http.Post(srv.URL+"/optimize", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_OptimizeRejectsUnknownMetric(t *testing.T) {
	srv := newTestServer(t)

	body := `{"class": "witch", "metric": "mana", "unallocated": 1, "respec": 0}`
	resp, err := http.Post(srv.URL+"/optimize", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_OptimizeRejectsUnknownClass(t *testing.T) {
	srv := newTestServer(t)

	body := `{"class": "druid", "metric": "dps", "unallocated": 1, "respec": 0}`
	resp, err := http.Post(srv.URL+"/optimize", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_GetRunNotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/runs/absent")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_TreeStats(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/tree/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats struct {
		Nodes   int      `json:"nodes"`
		Edges   int      `json:"edges"`
		Classes []string `json:"classes"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, 3, stats.Nodes)
	assert.Equal(t, 2, stats.Edges)
	assert.Equal(t, []string{"witch"}, stats.Classes)
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
