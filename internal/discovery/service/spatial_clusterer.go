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
	"fmt"
	"math"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	checkinmodel "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/checkins/model"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/discovery/model"
)

const (
	// maxRefineRadiusMeters caps the dynamic reassignment radius around a
	// cluster seed.
	maxRefineRadiusMeters = 50.0

	// Cluster validation cutoffs.
	minClusterSpan        = 30 * time.Minute
	spanWaiverSampleCount = 10
	maxClusterAxisStdDev  = 0.001
	stdDevWaiverCount     = 20
)

// haversineMeters is the great-circle distance between two lat/lon points.
func haversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	return geo.DistanceHaversine(orb.Point{lon1, lat1}, orb.Point{lon2, lat2})
}

// precisionForAccuracy selects the grid quantization tier from the mean GPS
// accuracy: 5 decimals (~1 m) for tight fixes, 4 (~11 m) for moderate ones,
// 3 (~111 m) otherwise.
func precisionForAccuracy(meanAccuracy float64) int {
	switch {
	case meanAccuracy <= 15:
		return 5
	case meanAccuracy <= 30:
		return 4
	default:
		return 3
	}
}

type clusterSeed struct {
	key          string
	centroidLat  float64
	centroidLon  float64
	meanAccuracy float64
	members      []checkinmodel.Checkin
}

// ClusterByLocation groups a filtered, outlier-free check-in set into
// physical location clusters. The procedure is deterministic for a given
// input order: grid bucketing at accuracy-adaptive precision forms seeds,
// every point is then reassigned to the nearest seed centroid within a
// dynamic radius, undersized clusters are discarded and the survivors are
// validated for temporal and spatial coherence.
func ClusterByLocation(checkins []checkinmodel.Checkin, minClusterSize int) []model.ClusterCandidate {
	if len(checkins) == 0 {
		return nil
	}

	meanAccuracy := 0.0
	for _, checkin := range checkins {
		meanAccuracy += *checkin.Accuracy
	}
	meanAccuracy /= float64(len(checkins))
	decimals := precisionForAccuracy(meanAccuracy)

	// Bucket points into grid cells to form seeds; insertion order is kept
	// for deterministic tie-breaks.
	seedIndex := map[string]int{}
	var seeds []*clusterSeed
	for _, checkin := range checkins {
		key := fmt.Sprintf("%.*f|%.*f", decimals, *checkin.Latitude, decimals, *checkin.Longitude)
		i, ok := seedIndex[key]
		if !ok {
			i = len(seeds)
			seedIndex[key] = i
			seeds = append(seeds, &clusterSeed{key: key})
		}
		seeds[i].members = append(seeds[i].members, checkin)
	}
	for _, seed := range seeds {
		seed.centroidLat, seed.centroidLon = centroidOf(seed.members)
		accuracySum := 0.0
		for _, member := range seed.members {
			accuracySum += *member.Accuracy
		}
		seed.meanAccuracy = accuracySum / float64(len(seed.members))
	}

	// Refine: each point joins the nearest seed centroid within the dynamic
	// radius. Strictly-closer wins, so ties go to the earlier seed.
	assigned := make([][]checkinmodel.Checkin, len(seeds))
	for _, checkin := range checkins {
		best := -1
		bestDistance := math.MaxFloat64
		for i, seed := range seeds {
			radius := math.Min(maxRefineRadiusMeters, 2*seed.meanAccuracy)
			distance := haversineMeters(*checkin.Latitude, *checkin.Longitude, seed.centroidLat, seed.centroidLon)
			if distance <= radius && distance < bestDistance {
				best = i
				bestDistance = distance
			}
		}
		if best >= 0 {
			assigned[best] = append(assigned[best], checkin)
		}
	}

	var candidates []model.ClusterCandidate
	for _, members := range assigned {
		if len(members) < minClusterSize {
			continue
		}
		candidate := summarizeCluster(members)
		if validateCluster(candidate) {
			candidates = append(candidates, candidate)
		}
	}
	return candidates
}

// validateCluster applies the joint temporal and spatial coherence checks: a
// cluster must either span enough wall-clock time or carry enough samples,
// and must either be spatially tight on one axis or carry enough samples to
// trust regardless.
func validateCluster(candidate model.ClusterCandidate) bool {
	temporalOK := candidate.LastSeen.Sub(candidate.FirstSeen) >= minClusterSpan ||
		candidate.SampleCount >= spanWaiverSampleCount
	latStd := math.Sqrt(candidate.LatVariance)
	lonStd := math.Sqrt(candidate.LonVariance)
	spatialOK := latStd < maxClusterAxisStdDev || lonStd < maxClusterAxisStdDev ||
		candidate.SampleCount >= stdDevWaiverCount
	return temporalOK && spatialOK
}

// summarizeCluster computes the per-cluster record: centroid, category
// profile, temporal footprint and dispersion.
func summarizeCluster(members []checkinmodel.Checkin) model.ClusterCandidate {
	candidate := model.ClusterCandidate{
		SampleCount:    len(members),
		CategoryCounts: map[string]int{},
	}
	candidate.Latitude, candidate.Longitude = centroidOf(members)

	bands := map[string]bool{}
	staff := map[string]bool{}
	hours := map[time.Time]bool{}
	accuracySum := 0.0
	for i, member := range members {
		if _, seen := candidate.CategoryCounts[member.Category]; !seen {
			candidate.CategoryOrder = append(candidate.CategoryOrder, member.Category)
		}
		candidate.CategoryCounts[member.Category]++
		bands[member.WristbandID] = true
		if member.StaffID != "" {
			staff[member.StaffID] = true
		}
		hours[member.CheckinTime.UTC().Truncate(time.Hour)] = true
		accuracySum += *member.Accuracy
		if i == 0 || member.CheckinTime.Before(candidate.FirstSeen) {
			candidate.FirstSeen = member.CheckinTime
		}
		if i == 0 || member.CheckinTime.After(candidate.LastSeen) {
			candidate.LastSeen = member.CheckinTime
		}
	}
	candidate.MeanAccuracy = accuracySum / float64(len(members))
	candidate.DistinctBands = len(bands)
	candidate.DistinctStaff = len(staff)
	candidate.ActiveHours = len(hours)

	// Dominant category is the mode; ties break to the first-encountered.
	for _, category := range candidate.CategoryOrder {
		if candidate.CategoryCounts[category] > candidate.DominantCount {
			candidate.DominantCategory = category
			candidate.DominantCount = candidate.CategoryCounts[category]
		}
	}

	candidate.LatVariance = varianceOf(members, func(c checkinmodel.Checkin) float64 { return *c.Latitude })
	candidate.LonVariance = varianceOf(members, func(c checkinmodel.Checkin) float64 { return *c.Longitude })
	return candidate
}

func centroidOf(members []checkinmodel.Checkin) (float64, float64) {
	latSum, lonSum := 0.0, 0.0
	for _, member := range members {
		latSum += *member.Latitude
		lonSum += *member.Longitude
	}
	n := float64(len(members))
	return latSum / n, lonSum / n
}

func varianceOf(members []checkinmodel.Checkin, value func(checkinmodel.Checkin) float64) float64 {
	mean := 0.0
	for _, member := range members {
		mean += value(member)
	}
	mean /= float64(len(members))

	variance := 0.0
	for _, member := range members {
		d := value(member) - mean
		variance += d * d
	}
	return variance / float64(len(members))
}
