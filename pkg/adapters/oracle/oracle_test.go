package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/domain"
)

func TestScripted_SumsAllocatedEffects(t *testing.T) {
	orc := NewScripted(
		domain.BuildStats{TotalDPS: 100, Life: 50},
		map[domain.NodeID]NodeEffect{
			101: {DPS: 10},
			102: {Life: 20, EnergyShield: 5},
		},
	)

	stats, err := orc.Calculate(context.Background(), domain.BuildContext{
		Allocation: domain.NewAllocation(101, 102, 999),
	})
	require.NoError(t, err)
	assert.Equal(t, 110.0, stats.TotalDPS)
	assert.Equal(t, 70.0, stats.Life)
	assert.Equal(t, 75.0, stats.EHP())
}

func TestScripted_FailEvery(t *testing.T) {
	orc := NewScripted(domain.BuildStats{}, nil, WithFailEvery(2))
	ctx := context.Background()

	_, err := orc.Calculate(ctx, domain.BuildContext{})
	assert.NoError(t, err)
	_, err = orc.Calculate(ctx, domain.BuildContext{})
	assert.Error(t, err)
	_, err = orc.Calculate(ctx, domain.BuildContext{})
	assert.NoError(t, err)
	assert.Equal(t, 3, orc.Calls())
}

func TestHTTPClient_Calculate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var build domain.BuildContext
		require.NoError(t, json.NewDecoder(r.Body).Decode(&build))
		assert.Equal(t, "witch", build.Class)

		json.NewEncoder(w).Encode(domain.BuildStats{TotalDPS: 321, Life: 100})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL)
	stats, err := client.Calculate(context.Background(), domain.BuildContext{
		Class:      "witch",
		Allocation: domain.NewAllocation(1),
	})
	require.NoError(t, err)
	assert.Equal(t, 321.0, stats.TotalDPS)
}

func TestHTTPClient_NonOKStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL)
	_, err := client.Calculate(context.Background(), domain.BuildContext{})
	assert.ErrorContains(t, err, "503")
}
