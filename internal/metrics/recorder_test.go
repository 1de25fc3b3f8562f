package metrics

import (
	"net/http/httptest"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// TestRecorder verifies collectors register, count and encode without panics.
func TestRecorder(t *testing.T) {
	t.Parallel()

	reg := prom.NewRegistry()
	r := NewRecorder(reg)

	r.IncRefresh(ResultSuccess)
	r.IncRefresh(ResultFailed)
	r.IncCommand("arm_away", ResultSuccess)
	r.IncCommand("disarm", ResultPrecondition)
	r.IncRecovery(ResultSuccess)
	r.SetCachePopulated(true)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mfs)
}

// TestRecorder_NilSafe verifies a nil recorder swallows calls quietly.
func TestRecorder_NilSafe(t *testing.T) {
	t.Parallel()

	var r *Recorder

	r.IncRefresh(ResultSuccess)
	r.IncCommand("disarm", ResultFailed)
	r.IncRecovery(ResultFailed)
	r.SetCachePopulated(false)
	require.NotNil(t, r.Handler())
}

// TestRecorder_Handler verifies the scrape endpoint serves the registry.
func TestRecorder_Handler(t *testing.T) {
	t.Parallel()

	r := NewRecorder(nil)
	r.IncRefresh(ResultSuccess)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, 200, resp.StatusCode)
}
