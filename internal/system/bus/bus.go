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

package bus

// CheckinRecorded is published by the ingestion collaborator for every stored
// check-in. The discovery scheduler consumes it to maintain per-event counters;
// pipeline execution is decoupled from the ingestion write path.
type CheckinRecorded struct {
	EventID   string `json:"event_id"`
	CheckinID string `json:"checkin_id"`
	Status    string `json:"status"`
}

// DiscoveryCompleted is published after every finished pipeline run so that
// downstream consumers can react to catalog changes.
type DiscoveryCompleted struct {
	EventID      string `json:"event_id"`
	Outcome      string `json:"outcome"`
	GateType     string `json:"gate_type,omitempty"`
	GatesCreated int    `json:"gates_created"`
	GatesUpdated int    `json:"gates_updated"`
}

// Publisher publishes JSON-encoded events to a subject.
type Publisher interface {
	Publish(subject string, event any) error
	Close() error
}

// Subscriber delivers raw event payloads for a subject.
type Subscriber interface {
	Subscribe(subject string) (<-chan []byte, func(), error)
	Close() error
}
