package search

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsearch/internal/config"
	"docsearch/internal/model"
)

// With no host configured the gateway must short-circuit every call without
// network I/O: mutations succeed as no-ops, queries return empty results.
func TestGateway_DisabledMode(t *testing.T) {
	ctx := context.Background()
	gw := NewGateway(config.MeiliConfig{IndexUID: "documents"}, prometheus.NewRegistry())

	assert.True(t, gw.Add(ctx, &model.Document{ID: "a"}))
	assert.True(t, gw.Update(ctx, "a", map[string]any{"views": 1}))
	assert.True(t, gw.Delete(ctx, "a"))

	res := gw.Search(ctx, "query", model.SearchFilters{})
	require.NotNil(t, res)
	assert.Empty(t, res.Hits)
	assert.Zero(t, res.EstimatedTotalHits)

	assert.False(t, gw.Health(ctx))
	assert.NoError(t, gw.Configure(ctx))
	assert.False(t, gw.SyncAll(ctx, []*model.Document{{ID: "a"}}))
}

// An unreachable index host must not take the application down: Configure
// reports the error to its caller, but the availability probe turns it into a
// routing decision and queries degrade to empty results instead of failing.
func TestGateway_UnreachableHostDegrades(t *testing.T) {
	ctx := context.Background()
	gw := NewGateway(config.MeiliConfig{
		Host:     "http://127.0.0.1:1",
		IndexUID: "documents",
	}, prometheus.NewRegistry())

	assert.Error(t, gw.Configure(ctx))

	avail := NewAvailability(ctx, gw)
	assert.False(t, avail.Enabled())

	res := gw.Search(ctx, "query", model.SearchFilters{})
	require.NotNil(t, res)
	assert.Empty(t, res.Hits)
}

func TestAvailability_DisabledGatewayRoutesToFallback(t *testing.T) {
	ctx := context.Background()
	gw := NewGateway(config.MeiliConfig{IndexUID: "documents"}, prometheus.NewRegistry())

	avail := NewAvailability(ctx, gw)

	assert.False(t, avail.Enabled())
	assert.False(t, avail.Refresh(ctx))
}
