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
	"time"

	"github.com/google/uuid"

	gatemodel "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/gates/model"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/metrics"
)

// SuggestMerges scans every physical gate pair of an event and upserts a
// merge suggestion for pairs closer than the duplicate distance. Pairs are
// stored in canonical order so a repeat run refreshes rather than duplicates.
func SuggestMerges(eventId string, duplicateDistanceMeters float64, catalog GateCatalog) (int, error) {
	gates, err := catalog.GatesByEvent(eventId)
	if err != nil {
		return 0, err
	}
	var physical []gatemodel.Gate
	for _, gate := range gates {
		if gate.IsPhysical() {
			physical = append(physical, gate)
		}
	}

	suggested := 0
	now := time.Now().UTC()
	for i := 0; i < len(physical); i++ {
		for j := i + 1; j < len(physical); j++ {
			a, b := physical[i], physical[j]
			distance := haversineMeters(*a.Latitude, *a.Longitude, *b.Latitude, *b.Longitude)
			if distance >= duplicateDistanceMeters {
				continue
			}
			primary, secondary := gatemodel.CanonicalPair(a.GateID, b.GateID)
			confidence := mergeConfidence(distance)
			reason := fmt.Sprintf("gates %q and %q are %.1f m apart", a.Name, b.Name, distance)

			existing, err := catalog.MergeSuggestionByPair(primary, secondary)
			if err != nil {
				return suggested, err
			}
			if existing != nil {
				if err := catalog.RefreshMergeSuggestion(existing.SuggestionID, distance, confidence, reason); err != nil {
					return suggested, err
				}
			} else {
				if err := catalog.InsertMergeSuggestion(gatemodel.GateMergeSuggestion{
					SuggestionID:    uuid.New().String(),
					EventID:         eventId,
					PrimaryGateID:   primary,
					SecondaryGateID: secondary,
					DistanceMeters:  distance,
					Confidence:      confidence,
					Reason:          reason,
					Status:          gatemodel.MergeStatusPending,
					CreatedAt:       now,
					UpdatedAt:       now,
				}); err != nil {
					return suggested, err
				}
				metrics.MergeSuggestions.Inc()
			}
			suggested++
		}
	}
	return suggested, nil
}

func mergeConfidence(distanceMeters float64) float64 {
	switch {
	case distanceMeters < 10:
		return 0.98
	case distanceMeters < 15:
		return 0.92
	case distanceMeters < 20:
		return 0.85
	default:
		return 0.75
	}
}
