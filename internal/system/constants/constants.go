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

package constants

const (
	// ApiBasePath is the base path for all HTTP endpoints.
	ApiBasePath = "/api/v1"

	// DefaultQueueSize is the capacity of the discovery run queue.
	DefaultQueueSize = 100

	// DiscoveryLockPrefix keys the per-event advisory lock.
	DiscoveryLockPrefix = "gate-discovery:"

	// SubjectCheckinRecorded is the bus subject the ingestion collaborator
	// publishes to for every stored check-in.
	SubjectCheckinRecorded = "gds.checkin.recorded"

	// SubjectDiscoveryCompleted is the bus subject downstream consumers watch
	// for finished discovery runs.
	SubjectDiscoveryCompleted = "gds.discovery.completed"
)

// Check-in outcome statuses as recorded by the ingestion collaborator.
const (
	CheckinStatusSuccess   = "success"
	CheckinStatusDuplicate = "duplicate"
	CheckinStatusFailed    = "failed"
)
