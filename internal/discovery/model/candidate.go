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

package model

import "time"

// Gate type selected for a pipeline run. The choice is exclusive per run.
const (
	GateTypePhysical = "physical"
	GateTypeVirtual  = "virtual"
)

// ClusterCandidate is a physical gate candidate produced by the spatial
// clusterer and scored by the confidence scorer.
type ClusterCandidate struct {
	Latitude         float64
	Longitude        float64
	SampleCount      int
	CategoryCounts   map[string]int
	CategoryOrder    []string
	DominantCategory string
	DominantCount    int
	FirstSeen        time.Time
	LastSeen         time.Time
	MeanAccuracy     float64
	DistinctBands    int
	DistinctStaff    int
	ActiveHours      int
	LatVariance      float64
	LonVariance      float64

	// Derived by the scorer.
	Confidence          float64
	Purity              float64
	SpatialVariance     float64
	TemporalConsistency float64
	CategoryEntropy     float64
}

// CategoryCandidate is a virtual gate candidate produced by the category
// segmenter.
type CategoryCandidate struct {
	Category      string
	SampleCount   int
	DistinctBands int
	ActiveHours   int
	FirstSeen     time.Time
	LastSeen      time.Time
	Confidence    float64
}
