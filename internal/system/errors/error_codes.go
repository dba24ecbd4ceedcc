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

package errors

const errorPrefix = "GDS-"

var (
	// Server error codes

	DB_CLIENT_INIT = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Unable to initialize database client.",
	}

	EXECUTE_QUERY = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "Error while executing database query.",
	}

	LOCK_ACQUIRE = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Advisory lock acquisition failed",
	}

	LOCK_RELEASE = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Error while releasing the lock.",
	}

	LOCK_KEY_GEN = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Error generating advisory lock key",
	}

	LOCK_RESULT_INVALID = ErrorMessage{
		Code:    errorPrefix + "15006",
		Message: "Invalid response from advisory lock query.",
	}

	MARSHAL_JSON = ErrorMessage{
		Code:    errorPrefix + "15007",
		Message: "Error while marshalling JSON.",
	}

	UNMARSHAL_JSON = ErrorMessage{
		Code:    errorPrefix + "15008",
		Message: "Error while un-marshalling JSON.",
	}

	FETCH_CHECKINS = ErrorMessage{
		Code:    errorPrefix + "15009",
		Message: "Error while fetching check-ins.",
	}

	ASSIGN_CHECKIN = ErrorMessage{
		Code:    errorPrefix + "15010",
		Message: "Error while assigning check-in to gate.",
	}

	UPSERT_GATE = ErrorMessage{
		Code:    errorPrefix + "15011",
		Message: "Error while persisting gate.",
	}

	FETCH_GATES = ErrorMessage{
		Code:    errorPrefix + "15012",
		Message: "Error while fetching gates.",
	}

	UPSERT_BINDING = ErrorMessage{
		Code:    errorPrefix + "15013",
		Message: "Error while persisting gate binding.",
	}

	FETCH_BINDINGS = ErrorMessage{
		Code:    errorPrefix + "15014",
		Message: "Error while fetching gate bindings.",
	}

	UPSERT_MERGE_SUGGESTION = ErrorMessage{
		Code:    errorPrefix + "15015",
		Message: "Error while persisting merge suggestion.",
	}

	FETCH_MERGE_SUGGESTIONS = ErrorMessage{
		Code:    errorPrefix + "15016",
		Message: "Error while fetching merge suggestions.",
	}

	FETCH_THRESHOLDS = ErrorMessage{
		Code:    errorPrefix + "15017",
		Message: "Error while fetching discovery thresholds.",
	}

	RECORD_PIPELINE_RUN = ErrorMessage{
		Code:    errorPrefix + "15018",
		Message: "Error while recording pipeline run.",
	}

	EVENT_RUN_IN_PROGRESS = ErrorMessage{
		Code:    errorPrefix + "15019",
		Message: "A discovery run is already in progress for the event.",
	}

	BUS_PUBLISH = ErrorMessage{
		Code:    errorPrefix + "15020",
		Message: "Error while publishing to the event bus.",
	}

	// Client error codes

	BAD_REQUEST = ErrorMessage{
		Code:    errorPrefix + "11001",
		Message: "Invalid request payload.",
	}

	EVENT_ID_REQUIRED = ErrorMessage{
		Code:    errorPrefix + "11002",
		Message: "Event id is required.",
	}

	GATE_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "11003",
		Message: "Gate not found.",
	}

	MERGE_SUGGESTION_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "11004",
		Message: "Merge suggestion not found.",
	}

	INVALID_GATE_STATUS = ErrorMessage{
		Code:    errorPrefix + "11005",
		Message: "Invalid gate status.",
	}

	INVALID_REVIEW_STATUS = ErrorMessage{
		Code:    errorPrefix + "11006",
		Message: "Invalid review status.",
	}

	INVALID_THRESHOLDS = ErrorMessage{
		Code:    errorPrefix + "11007",
		Message: "Invalid discovery threshold configuration.",
	}
)
