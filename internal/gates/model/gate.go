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

import (
	"encoding/json"
	"time"
)

// Gate lifecycle statuses. Gates are never deleted by the discovery
// subsystem; they are deactivated via status instead.
const (
	GateStatusProbation = "probation"
	GateStatusApproved  = "approved"
	GateStatusRejected  = "rejected"
	GateStatusActive    = "active"
	GateStatusInactive  = "inactive"
)

// Derivation method tags.
const (
	DerivationSpatialClustering    = "spatial_clustering"
	DerivationCategorySegmentation = "category_segmentation"
)

var AllowedGateStatusUpdates = map[string]bool{
	GateStatusActive:   true,
	GateStatusInactive: true,
	GateStatusRejected: true,
}

// Gate is a discovered check-in gate. Physical gates carry a centroid;
// virtual gates are defined by category and have no coordinates.
type Gate struct {
	GateID           string       `json:"gate_id"`
	EventID          string       `json:"event_id"`
	Name             string       `json:"name"`
	Latitude         *float64     `json:"latitude,omitempty"`
	Longitude        *float64     `json:"longitude,omitempty"`
	Status           string       `json:"status"`
	DerivationMethod string       `json:"derivation_method"`
	Confidence       float64      `json:"confidence"`
	Purity           float64      `json:"purity"`
	SpatialVariance  float64      `json:"spatial_variance"`
	AutoCreated      bool         `json:"auto_created"`
	Metadata         GateMetadata `json:"metadata"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// IsPhysical reports whether the gate has a geographic centroid.
func (g *Gate) IsPhysical() bool {
	return g.Latitude != nil && g.Longitude != nil
}

// GateMetadata carries the derivation fields this subsystem owns as typed
// values, plus an open extension map for fields owned by other collaborators.
// Extension fields survive round trips untouched.
type GateMetadata struct {
	TemporalConsistency float64 `json:"temporal_consistency,omitempty"`
	CategoryEntropy     float64 `json:"category_entropy,omitempty"`
	SampleCount         int     `json:"sample_count,omitempty"`
	DominantCategory    string  `json:"dominant_category,omitempty"`
	ActiveHours         int     `json:"active_hours,omitempty"`
	LastDerivedAt       string  `json:"last_derived_at,omitempty"`

	Extra map[string]interface{} `json:"-"`
}

var gateMetadataKeys = map[string]bool{
	"temporal_consistency": true,
	"category_entropy":     true,
	"sample_count":         true,
	"dominant_category":    true,
	"active_hours":         true,
	"last_derived_at":      true,
}

// MarshalJSON flattens the typed fields and the extension map into one object.
func (m GateMetadata) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(m.Extra)+6)
	for k, v := range m.Extra {
		if !gateMetadataKeys[k] {
			out[k] = v
		}
	}
	if m.TemporalConsistency != 0 {
		out["temporal_consistency"] = m.TemporalConsistency
	}
	if m.CategoryEntropy != 0 {
		out["category_entropy"] = m.CategoryEntropy
	}
	if m.SampleCount != 0 {
		out["sample_count"] = m.SampleCount
	}
	if m.DominantCategory != "" {
		out["dominant_category"] = m.DominantCategory
	}
	if m.ActiveHours != 0 {
		out["active_hours"] = m.ActiveHours
	}
	if m.LastDerivedAt != "" {
		out["last_derived_at"] = m.LastDerivedAt
	}
	return json.Marshal(out)
}

// UnmarshalJSON splits an object into the typed fields and the extension map.
func (m *GateMetadata) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = GateMetadata{}
	for k, v := range raw {
		switch k {
		case "temporal_consistency":
			m.TemporalConsistency = asFloat(v)
		case "category_entropy":
			m.CategoryEntropy = asFloat(v)
		case "sample_count":
			m.SampleCount = int(asFloat(v))
		case "dominant_category":
			m.DominantCategory, _ = v.(string)
		case "active_hours":
			m.ActiveHours = int(asFloat(v))
		case "last_derived_at":
			m.LastDerivedAt, _ = v.(string)
		default:
			if m.Extra == nil {
				m.Extra = make(map[string]interface{})
			}
			m.Extra[k] = v
		}
	}
	return nil
}

// Merge overlays freshly derived fields onto prior metadata without dropping
// externally-set extension fields.
func (m GateMetadata) Merge(prior GateMetadata) GateMetadata {
	merged := m
	if len(prior.Extra) > 0 {
		merged.Extra = make(map[string]interface{}, len(prior.Extra))
		for k, v := range prior.Extra {
			merged.Extra[k] = v
		}
		for k, v := range m.Extra {
			merged.Extra[k] = v
		}
	}
	return merged
}

func asFloat(v interface{}) float64 {
	if f, ok := v.(float64); ok {
		return f
	}
	return 0
}
