package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("run_generator", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("run_generator", ResultSuccess)
	pr.IncBuildOutcome("success")
	pr.ObserveStyleClone("go-git", time.Second, true)
	pr.SetGeneratorExitCode(0)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	require.True(t, names["doxybuild_stage_duration_seconds"])
	require.True(t, names["doxybuild_build_outcomes_total"])
	require.True(t, names["doxybuild_style_clone_duration_seconds"])
	require.True(t, names["doxybuild_generator_exit_code"])
}

func TestPrometheusRecorder_NilReceiver(t *testing.T) {
	var pr *PrometheusRecorder
	require.NotPanics(t, func() {
		pr.ObserveStageDuration("cleanup", time.Millisecond)
		pr.IncBuildOutcome("failed")
		pr.SetGeneratorExitCode(2)
	})
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncStageResult("prepare_dirs", ResultFatal)

	path := filepath.Join(t.TempDir(), "textfile", "doxybuild.prom")
	require.NoError(t, WriteTextfile(reg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `doxybuild_stage_results_total{result="fatal",stage="prepare_dirs"} 1`)
}

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncStageResult("cleanup", ResultWarning)
	r.ObserveStyleClone("git", 0, false)
}
