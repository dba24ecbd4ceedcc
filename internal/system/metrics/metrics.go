/*
 * Copyright (c) 2025-2026, Quickstrap Technologies Ltd.
 *
 * Quickstrap Technologies Ltd. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gds_pipeline_runs_total",
		Help: "Total number of discovery pipeline runs, labelled by outcome.",
	}, []string{"outcome"})

	GatesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gds_gates_created_total",
		Help: "Total number of gates materialized as new catalog rows.",
	})

	GatesUpdated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gds_gates_updated_total",
		Help: "Total number of existing gates refreshed by a pipeline run.",
	})

	CheckinsAssigned = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gds_checkins_assigned_total",
		Help: "Total number of check-ins attached to a gate, labelled by method.",
	}, []string{"method"})

	MergeSuggestions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gds_merge_suggestions_total",
		Help: "Total number of merge suggestions created or refreshed.",
	})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gds_pipeline_run_duration_ms",
		Help:    "End-to-end discovery pipeline run latency in milliseconds.",
		Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	})

	QueueUtilization = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gds_run_queue_utilization_ratio",
		Help: "Current discovery run queue utilization (0-1).",
	})
)
