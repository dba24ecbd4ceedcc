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

// Binding status ladder. Status is monotonic non-decreasing except on
// explicit rejection.
const (
	BindingStatusUnbound   = "unbound"
	BindingStatusProbation = "probation"
	BindingStatusEnforced  = "enforced"
	BindingStatusRejected  = "rejected"
)

// GateBinding associates a gate with a wristband category. The confidence
// ladder controls enforcement by logic outside this subsystem.
type GateBinding struct {
	BindingID   string    `json:"binding_id"`
	GateID      string    `json:"gate_id"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	SampleCount int       `json:"sample_count"`
	Confidence  float64   `json:"confidence"`
	Violations  int       `json:"violations"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BindingStatusRank orders the ladder for monotonic upgrades. Rejected sits
// outside the ladder and is handled explicitly.
func BindingStatusRank(status string) int {
	switch status {
	case BindingStatusEnforced:
		return 2
	case BindingStatusProbation:
		return 1
	default:
		return 0
	}
}

// Enforceable reports whether the binding participates in enforcement and
// assignment boosting.
func (b *GateBinding) Enforceable() bool {
	return b.Status == BindingStatusEnforced || b.Status == BindingStatusProbation
}
