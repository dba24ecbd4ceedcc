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

// Pipeline outcomes. Insufficient data is a normal, reported outcome, not an
// error.
const (
	OutcomeCompleted        = "completed"
	OutcomeInsufficientData = "insufficient_data"
	OutcomeDryRun           = "dry_run"
	OutcomeFailed           = "failed"
)

// DataQualityReport summarizes how usable the GPS signal of an event's
// check-in stream is.
type DataQualityReport struct {
	EventID              string         `json:"eventId"`
	TotalCheckins        int            `json:"totalCheckins"`
	WithCoordinates      int            `json:"withCoordinates"`
	GoodGPS              int            `json:"goodGps"`
	GPSCoveragePct       float64        `json:"gpsCoveragePct"`
	AccuracyDistribution map[string]int `json:"accuracyDistribution"`
	DistinctCategories   int            `json:"distinctCategories"`
	Sufficient           bool           `json:"sufficient"`
}

// CatalogSummary is the current state of the gate catalog after a run.
type CatalogSummary struct {
	TotalGates              int `json:"totalGates"`
	ActiveGates             int `json:"activeGates"`
	ProbationGates          int `json:"probationGates"`
	VirtualGates            int `json:"virtualGates"`
	PendingMergeSuggestions int `json:"pendingMergeSuggestions"`
}

// PipelineReport is the structured result of one discovery run.
type PipelineReport struct {
	Success          bool               `json:"success"`
	Outcome          string             `json:"outcome"`
	EventID          string             `json:"eventId"`
	DryRun           bool               `json:"dryRun"`
	GateType         string             `json:"gateType,omitempty"`
	GatesCreated     int                `json:"gatesCreated"`
	GatesUpdated     int                `json:"gatesUpdated"`
	CheckinsAssigned int                `json:"checkinsAssigned"`
	AvgConfidence    float64            `json:"avgConfidence"`
	QualityReport    *DataQualityReport `json:"qualityReport,omitempty"`
	CatalogSummary   *CatalogSummary    `json:"catalogSummary,omitempty"`
	Recommendations  []string           `json:"recommendations"`
	Error            string             `json:"error,omitempty"`
	Timestamp        time.Time          `json:"timestamp"`
}

// AssignmentReport is the structured result of an orphan assignment pass.
type AssignmentReport struct {
	EventID       string         `json:"eventId"`
	Orphans       int            `json:"orphans"`
	Assigned      int            `json:"assigned"`
	AvgConfidence float64        `json:"avgConfidence"`
	ByMethod      map[string]int `json:"byMethod"`
	Timestamp     time.Time      `json:"timestamp"`
}

// PipelineRun is the audit trail row persisted for every run.
type PipelineRun struct {
	RunID      string    `json:"run_id"`
	EventID    string    `json:"event_id"`
	DryRun     bool      `json:"dry_run"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Outcome    string    `json:"outcome"`
	Report     string    `json:"report"`
}
