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

import "fmt"

// AdaptiveThreshold is the per-event tunable discovery configuration. Every
// numeric threshold is a default, overridable per event; none is a fixed
// invariant.
type AdaptiveThreshold struct {
	EventID                 string  `json:"event_id"`
	DuplicateDistanceMeters float64 `json:"duplicate_distance_meters"`
	PromotionSampleSize     int     `json:"promotion_sample_size"`
	ConfidenceThreshold     float64 `json:"confidence_threshold"`
	MinCheckinsForGate      int     `json:"min_checkins_for_gate"`
	MaxLocationVariance     float64 `json:"max_location_variance"`
}

// Validate rejects nonsensical threshold values before a run starts.
func (t AdaptiveThreshold) Validate() error {
	if t.DuplicateDistanceMeters < 0 {
		return fmt.Errorf("duplicate_distance_meters must not be negative")
	}
	if t.PromotionSampleSize < 0 {
		return fmt.Errorf("promotion_sample_size must not be negative")
	}
	if t.ConfidenceThreshold < 0 || t.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence_threshold must be within [0,1]")
	}
	if t.MinCheckinsForGate < 0 {
		return fmt.Errorf("min_checkins_for_gate must not be negative")
	}
	if t.MaxLocationVariance < 0 {
		return fmt.Errorf("max_location_variance must not be negative")
	}
	return nil
}
