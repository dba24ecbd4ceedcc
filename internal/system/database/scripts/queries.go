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

package scripts

var GetCheckinsByEvent = map[string]string{
	"postgres": `SELECT checkin_id, event_id, wristband_id, staff_id, checkin_time, latitude, longitude, accuracy,
       latency_ms, status, category, gate_id, metadata::text FROM checkins WHERE event_id = $1
       ORDER BY checkin_time, checkin_id`,
}

var GetUnassignedCheckinsByEvent = map[string]string{
	"postgres": `SELECT checkin_id, event_id, wristband_id, staff_id, checkin_time, latitude, longitude, accuracy,
       latency_ms, status, category, gate_id, metadata::text FROM checkins WHERE event_id = $1 AND gate_id IS NULL
       ORDER BY checkin_time, checkin_id`,
}

var AssignCheckinGate = map[string]string{
	"postgres": `UPDATE checkins SET gate_id = $2, metadata = metadata || $3::jsonb
       WHERE checkin_id = $1 AND gate_id IS NULL RETURNING checkin_id`,
}

var CountCheckinsByEvent = map[string]string{
	"postgres": `SELECT COUNT(*) AS total,
       COUNT(*) FILTER (WHERE status = 'success') AS successful,
       COUNT(*) FILTER (WHERE gate_id IS NULL) AS unassigned
       FROM checkins WHERE event_id = $1`,
}

var GetActiveEventIds = map[string]string{
	"postgres": `SELECT DISTINCT event_id FROM checkins ORDER BY event_id`,
}

var GetGatesByEvent = map[string]string{
	"postgres": `SELECT gate_id, event_id, name, latitude, longitude, status, derivation_method, confidence, purity,
       spatial_variance, auto_created, metadata::text, created_at, updated_at FROM gates WHERE event_id = $1
       ORDER BY created_at, gate_id`,
}

var GetGateById = map[string]string{
	"postgres": `SELECT gate_id, event_id, name, latitude, longitude, status, derivation_method, confidence, purity,
       spatial_variance, auto_created, metadata::text, created_at, updated_at FROM gates WHERE gate_id = $1`,
}

var InsertGate = map[string]string{
	"postgres": `INSERT INTO gates (gate_id, event_id, name, latitude, longitude, status, derivation_method,
       confidence, purity, spatial_variance, auto_created, metadata, created_at, updated_at)
       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12::jsonb, $13, $14)`,
}

var UpdateGate = map[string]string{
	"postgres": `UPDATE gates SET name = $2, latitude = $3, longitude = $4, status = $5, confidence = $6,
       purity = $7, spatial_variance = $8, metadata = $9::jsonb, updated_at = $10 WHERE gate_id = $1`,
}

var UpdateGateStatus = map[string]string{
	"postgres": `UPDATE gates SET status = $2, updated_at = $3 WHERE gate_id = $1`,
}

var GetBindingsByGate = map[string]string{
	"postgres": `SELECT binding_id, gate_id, category, status, sample_count, confidence, violations, created_at,
       updated_at FROM gate_bindings WHERE gate_id = $1 ORDER BY category`,
}

var GetBindingByGateAndCategory = map[string]string{
	"postgres": `SELECT binding_id, gate_id, category, status, sample_count, confidence, violations, created_at,
       updated_at FROM gate_bindings WHERE gate_id = $1 AND category = $2`,
}

var InsertBinding = map[string]string{
	"postgres": `INSERT INTO gate_bindings (binding_id, gate_id, category, status, sample_count, confidence,
       violations, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
}

var UpdateBinding = map[string]string{
	"postgres": `UPDATE gate_bindings SET status = $2, sample_count = $3, confidence = $4, violations = $5,
       updated_at = $6 WHERE binding_id = $1`,
}

var GetMergeSuggestionsByEvent = map[string]string{
	"postgres": `SELECT suggestion_id, event_id, primary_gate_id, secondary_gate_id, distance_meters, confidence,
       reason, status, reviewed_by, created_at, updated_at FROM gate_merge_suggestions WHERE event_id = $1
       ORDER BY created_at, suggestion_id`,
}

var GetMergeSuggestionById = map[string]string{
	"postgres": `SELECT suggestion_id, event_id, primary_gate_id, secondary_gate_id, distance_meters, confidence,
       reason, status, reviewed_by, created_at, updated_at FROM gate_merge_suggestions WHERE suggestion_id = $1`,
}

var GetMergeSuggestionByPair = map[string]string{
	"postgres": `SELECT suggestion_id, event_id, primary_gate_id, secondary_gate_id, distance_meters, confidence,
       reason, status, reviewed_by, created_at, updated_at FROM gate_merge_suggestions
       WHERE primary_gate_id = $1 AND secondary_gate_id = $2`,
}

var InsertMergeSuggestion = map[string]string{
	"postgres": `INSERT INTO gate_merge_suggestions (suggestion_id, event_id, primary_gate_id, secondary_gate_id,
       distance_meters, confidence, reason, status, created_at, updated_at)
       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
}

var RefreshMergeSuggestion = map[string]string{
	"postgres": `UPDATE gate_merge_suggestions SET distance_meters = $2, confidence = $3, reason = $4,
       updated_at = $5 WHERE suggestion_id = $1`,
}

var ReviewMergeSuggestion = map[string]string{
	"postgres": `UPDATE gate_merge_suggestions SET status = $2, reviewed_by = $3, updated_at = $4
       WHERE suggestion_id = $1`,
}

var GetThresholdsByEvent = map[string]string{
	"postgres": `SELECT event_id, duplicate_distance_meters, promotion_sample_size, confidence_threshold,
       min_checkins_for_gate, max_location_variance FROM discovery_thresholds WHERE event_id = $1`,
}

var InsertPipelineRun = map[string]string{
	"postgres": `INSERT INTO pipeline_runs (run_id, event_id, dry_run, started_at, finished_at, outcome, report)
       VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb)`,
}
