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

// Checkin is an immutable check-in record produced by the ingestion
// collaborator. The gate reference is the only field the discovery subsystem
// mutates.
type Checkin struct {
	CheckinID   string                 `json:"checkin_id"`
	EventID     string                 `json:"event_id"`
	WristbandID string                 `json:"wristband_id"`
	StaffID     string                 `json:"staff_id,omitempty"`
	CheckinTime time.Time              `json:"checkin_time"`
	Latitude    *float64               `json:"latitude,omitempty"`
	Longitude   *float64               `json:"longitude,omitempty"`
	Accuracy    *float64               `json:"accuracy,omitempty"`
	LatencyMs   int                    `json:"latency_ms"`
	Status      string                 `json:"status"`
	Category    string                 `json:"category"`
	GateID      *string                `json:"gate_id,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// HasCoordinates reports whether both latitude and longitude are present.
func (c *Checkin) HasCoordinates() bool {
	return c.Latitude != nil && c.Longitude != nil
}

// Assigned reports whether the check-in already references a gate.
func (c *Checkin) Assigned() bool {
	return c.GateID != nil && *c.GateID != ""
}

// AssignmentNote is the audit annotation appended to a check-in's metadata
// when a gate is attached.
type AssignmentNote struct {
	Method         string   `json:"method"`
	Confidence     float64  `json:"confidence"`
	DistanceMeters *float64 `json:"distance_meters,omitempty"`
	AssignedAt     string   `json:"assigned_at"`
}
