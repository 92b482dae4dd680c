// Package metrics provides build and stage metrics for doxybuild.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default; PrometheusRecorder collects into a registry which the CLI
// exports to a node_exporter textfile after each build:
//
//	reg := prom.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	// ... run the pipeline with rec ...
//	_ = metrics.WriteTextfile(reg, "/var/lib/node_exporter/doxybuild.prom")
package metrics
