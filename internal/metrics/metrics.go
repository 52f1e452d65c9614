// Package metrics exposes the SDK's operational counters. Collection is a
// side concern: callers never branch on these values.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PipelineRuns counts export/import pipeline executions by operation
	// and terminal status ("success" or "failure").
	PipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sunbird_sdk_pipeline_runs_total",
		Help: "Export/import pipeline executions by operation and status.",
	}, []string{"operation", "status"})

	// DatasetRefreshes counts TTL dataset refresh attempts by dataset and
	// outcome ("success" or "failure").
	DatasetRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sunbird_sdk_dataset_refreshes_total",
		Help: "Reference dataset refresh attempts by dataset and outcome.",
	}, []string{"dataset", "status"})
)
