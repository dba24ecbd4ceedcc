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

package service

import (
	"math"

	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/discovery/model"
)

const (
	// physicalConfidenceFloor rejects physical candidates below it.
	physicalConfidenceFloor = 0.60
	// virtualConfidenceFloor rejects virtual candidates below it.
	virtualConfidenceFloor = 0.65
)

// ScoreCluster derives the confidence of a physical gate candidate as the
// product of independent quality factors, each in (0, 1]. The result and the
// derived diagnostics are written back onto the candidate.
func ScoreCluster(candidate *model.ClusterCandidate) {
	purity := 0.0
	if candidate.SampleCount > 0 {
		purity = float64(candidate.DominantCount) / float64(candidate.SampleCount)
	}
	spatialVariance := candidate.LatVariance + candidate.LonVariance

	confidence := volumeFactor(candidate.SampleCount) *
		accuracyFactor(candidate.MeanAccuracy) *
		purityFactor(purity) *
		spatialFactor(spatialVariance) *
		temporalFactor(candidate.ActiveHours)

	candidate.Confidence = clamp01(confidence)
	candidate.Purity = purity
	candidate.SpatialVariance = spatialVariance
	candidate.TemporalConsistency = math.Min(float64(candidate.ActiveHours)/8.0, 1.0)
	candidate.CategoryEntropy = categoryEntropy(candidate.CategoryCounts, candidate.SampleCount)
}

// ScoreCategory derives the confidence of a virtual gate candidate from its
// share of the event's volume, its audience breadth and its temporal spread.
// A near-zero location variance across the whole event means GPS carries no
// separating signal, which slightly boosts trust in the category split.
func ScoreCategory(candidate *model.CategoryCandidate, totalCheckins int, zeroVariance bool) {
	share := 0.0
	if totalCheckins > 0 {
		share = float64(candidate.SampleCount) / float64(totalCheckins)
	}
	confidence := volumeShareFactor(share) *
		uniquenessFactor(candidate.DistinctBands) *
		temporalFactor(candidate.ActiveHours)
	if zeroVariance {
		confidence *= 1.05
	}
	candidate.Confidence = clamp01(confidence)
}

// MeetsFloor reports whether a scored confidence clears the minimum for the
// given gate type.
func MeetsFloor(confidence float64, gateType string) bool {
	if gateType == model.GateTypeVirtual {
		return confidence >= virtualConfidenceFloor
	}
	return confidence >= physicalConfidenceFloor
}

func volumeFactor(n int) float64 {
	switch {
	case n >= 200:
		return 0.98
	case n >= 100:
		return 0.95
	case n >= 50:
		return 0.90
	case n >= 20:
		return 0.82
	case n >= 10:
		return 0.72
	default:
		return 0.60
	}
}

func accuracyFactor(meanAccuracy float64) float64 {
	switch {
	case meanAccuracy <= 10:
		return 1.00
	case meanAccuracy <= 15:
		return 0.97
	case meanAccuracy <= 25:
		return 0.93
	case meanAccuracy <= 40:
		return 0.89
	default:
		return 0.85
	}
}

func purityFactor(purity float64) float64 {
	return 0.7 + 0.3*purity
}

func spatialFactor(variance float64) float64 {
	switch {
	case variance < 1e-4:
		return 1.00
	case variance < 5e-4:
		return 0.95
	default:
		return 0.90
	}
}

func temporalFactor(activeHours int) float64 {
	switch {
	case activeHours >= 6:
		return 1.00
	case activeHours >= 3:
		return 0.95
	case activeHours >= 1:
		return 0.90
	default:
		return 0.85
	}
}

func volumeShareFactor(share float64) float64 {
	switch {
	case share >= 0.5:
		return 1.00
	case share >= 0.3:
		return 0.92
	case share >= 0.15:
		return 0.85
	case share >= 0.05:
		return 0.75
	default:
		return 0.65
	}
}

func uniquenessFactor(distinctBands int) float64 {
	switch {
	case distinctBands >= 100:
		return 1.00
	case distinctBands >= 50:
		return 0.95
	case distinctBands >= 20:
		return 0.90
	case distinctBands >= 10:
		return 0.85
	default:
		return 0.75
	}
}

// categoryEntropy is the Shannon entropy of the category distribution in
// nats. Zero means a single category.
func categoryEntropy(counts map[string]int, total int) float64 {
	if total == 0 {
		return 0
	}
	entropy := 0.0
	for _, count := range counts {
		if count == 0 {
			continue
		}
		p := float64(count) / float64(total)
		entropy -= p * math.Log(p)
	}
	return entropy
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
