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

// Merge suggestion review statuses.
const (
	MergeStatusPending  = "pending"
	MergeStatusApproved = "approved"
	MergeStatusRejected = "rejected"
	MergeStatusApplied  = "applied"
)

var AllowedMergeReviewStatuses = map[string]bool{
	MergeStatusApproved: true,
	MergeStatusRejected: true,
	MergeStatusApplied:  true,
}

// GateMergeSuggestion flags a pair of physical gates that likely represent
// the same location. The pair is stored in canonical order (primary id <
// secondary id) to guarantee uniqueness.
type GateMergeSuggestion struct {
	SuggestionID    string    `json:"suggestion_id"`
	EventID         string    `json:"event_id"`
	PrimaryGateID   string    `json:"primary_gate_id"`
	SecondaryGateID string    `json:"secondary_gate_id"`
	DistanceMeters  float64   `json:"distance_meters"`
	Confidence      float64   `json:"confidence"`
	Reason          string    `json:"reason"`
	Status          string    `json:"status"`
	ReviewedBy      string    `json:"reviewed_by,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CanonicalPair orders two gate ids so the smaller id is always primary.
func CanonicalPair(a, b string) (primary, secondary string) {
	if a < b {
		return a, b
	}
	return b, a
}
