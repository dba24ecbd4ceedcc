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

	checkinmodel "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/checkins/model"
)

const (
	// maxUsableAccuracyMeters caps the accuracy a point may report and still
	// feed clustering.
	maxUsableAccuracyMeters = 100.0

	// nullIslandEpsilon bounds the degenerate region around (0,0) that broken
	// GPS firmware reports.
	nullIslandEpsilon = 0.001

	// outlierSigmas is the cutoff for statistical outlier rejection.
	outlierSigmas = 3.0
)

// HasUsableGPS is the quality predicate for a single check-in: coordinates in
// range, accuracy present and within (0, 100] meters, and not in the null
// island region. Rejected points are excluded from clustering but remain
// available for orphan assignment at reduced confidence.
func HasUsableGPS(checkin checkinmodel.Checkin) bool {
	if !checkin.HasCoordinates() || checkin.Accuracy == nil {
		return false
	}
	lat, lon, accuracy := *checkin.Latitude, *checkin.Longitude, *checkin.Accuracy
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return false
	}
	if accuracy <= 0 || accuracy > maxUsableAccuracyMeters {
		return false
	}
	if math.Abs(lat) < nullIslandEpsilon && math.Abs(lon) < nullIslandEpsilon {
		return false
	}
	return true
}

// FilterUsableGPS returns the subset of check-ins that pass the quality
// predicate, preserving input order.
func FilterUsableGPS(checkins []checkinmodel.Checkin) []checkinmodel.Checkin {
	var filtered []checkinmodel.Checkin
	for _, checkin := range checkins {
		if HasUsableGPS(checkin) {
			filtered = append(filtered, checkin)
		}
	}
	return filtered
}

// RejectOutliers drops points whose latitude or longitude deviates from the
// mean by more than three standard deviations. Sets with fewer than two
// points or zero variance are returned unchanged to guard against degenerate
// statistics.
func RejectOutliers(checkins []checkinmodel.Checkin) []checkinmodel.Checkin {
	if len(checkins) < 2 {
		return checkins
	}

	latMean, latStd := meanAndStdDev(checkins, func(c checkinmodel.Checkin) float64 { return *c.Latitude })
	lonMean, lonStd := meanAndStdDev(checkins, func(c checkinmodel.Checkin) float64 { return *c.Longitude })
	if latStd == 0 && lonStd == 0 {
		return checkins
	}

	var kept []checkinmodel.Checkin
	for _, checkin := range checkins {
		if latStd > 0 && math.Abs(*checkin.Latitude-latMean) > outlierSigmas*latStd {
			continue
		}
		if lonStd > 0 && math.Abs(*checkin.Longitude-lonMean) > outlierSigmas*lonStd {
			continue
		}
		kept = append(kept, checkin)
	}
	return kept
}

func meanAndStdDev(checkins []checkinmodel.Checkin, value func(checkinmodel.Checkin) float64) (float64, float64) {
	mean := 0.0
	for _, checkin := range checkins {
		mean += value(checkin)
	}
	mean /= float64(len(checkins))

	variance := 0.0
	for _, checkin := range checkins {
		d := value(checkin) - mean
		variance += d * d
	}
	variance /= float64(len(checkins))
	return mean, math.Sqrt(variance)
}
