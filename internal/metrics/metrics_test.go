package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNoopRecorderSatisfiesRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.RecordRun(true, time.Second)
	r.RecordRegistrySize(3)
	r.RecordChanges(1, 2, 3)
}

func scrape(t *testing.T, r *PrometheusRecorder) string {
	t.Helper()
	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestPrometheusRecorder_Exposition(t *testing.T) {
	r := NewPrometheusRecorder()
	r.RecordRun(true, 250*time.Millisecond)
	r.RecordRun(false, time.Second)
	r.RecordRegistrySize(42)
	r.RecordChanges(2, 1, 3)

	out := scrape(t, r)
	require.Contains(t, out, `regbuilder_runs_total{result="success"} 1`)
	require.Contains(t, out, `regbuilder_runs_total{result="failure"} 1`)
	require.Contains(t, out, "regbuilder_registry_entries 42")
	require.Contains(t, out, `regbuilder_changes_total{kind="added"} 2`)
	require.Contains(t, out, `regbuilder_changes_total{kind="removed"} 1`)
	require.Contains(t, out, `regbuilder_changes_total{kind="updated"} 3`)
	require.Contains(t, out, "regbuilder_run_duration_seconds_count 2")
	require.Contains(t, out, "regbuilder_last_run_timestamp_seconds")
}

func TestPrometheusRecorder_RegistriesAreIndependent(t *testing.T) {
	a := NewPrometheusRecorder()
	b := NewPrometheusRecorder()
	a.RecordRegistrySize(5)

	require.NotContains(t, scrape(t, b), "regbuilder_registry_entries 5")
}
