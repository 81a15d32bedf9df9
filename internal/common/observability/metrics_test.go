package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func familyNames(t *testing.T, reg *promclient.Registry) []string {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	return names
}

func hasPrefix(names []string, prefix string) bool {
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			return true
		}
	}
	return false
}

func TestObservability_ExportsInstruments(t *testing.T) {
	reg := promclient.NewRegistry()
	obs, err := New("inverter-savings-test", reg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = obs.Shutdown(context.Background()) })

	ctx := context.Background()
	obs.RecordJobProcessed(ctx, "calculate-savings", "completed")
	obs.RecordJobDuration(ctx, "calculate-savings", 12*time.Millisecond, "completed")
	obs.RecordLeadScore(ctx, 85, "HIGH")

	names := familyNames(t, reg)
	assert.True(t, hasPrefix(names, "jobs_processed"), "got %v", names)
	assert.True(t, hasPrefix(names, "jobs_duration"), "got %v", names)
	assert.True(t, hasPrefix(names, "leads_score"), "got %v", names)
}

func TestObservability_NilSafe(t *testing.T) {
	var obs *Observability
	obs.RecordJobProcessed(context.Background(), "x", "y")
	obs.RecordLeadScore(context.Background(), 1, "LOW")
	assert.NoError(t, obs.Shutdown(context.Background()))
}
