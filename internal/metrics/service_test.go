package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)

	s.IncRoundsGenerated()
	s.AddMatchesGenerated(3)
	s.AddCourtsSkipped(1)
	s.IncInsufficientPlayers()
	s.IncSaveFailures()
	s.ObserveSaveDuration(0.02)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.RoundsGenerated))
	assert.Equal(t, 3.0, testutil.ToFloat64(s.MatchesGenerated))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.CourtsSkipped))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.InsufficientPlayers))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.SaveFailures))
	assert.Equal(t, 1, testutil.CollectAndCount(s.SaveDuration))
}

func TestMetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)
	s.AddMatchesGenerated(2)

	rr := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "draw_matches_generated_total 2")
}
