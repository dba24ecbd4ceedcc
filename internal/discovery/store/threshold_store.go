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

package store

import (
	"fmt"

	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/discovery/model"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/database/provider"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/database/scripts"
	errors2 "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/errors"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/log"
)

// GetThresholds fetches the per-event threshold override row. Returns nil
// when the event has no override and configuration defaults apply.
func GetThresholds(eventId string) (*model.AdaptiveThreshold, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for fetching thresholds for event: %s", eventId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := scripts.GetThresholdsByEvent[provider.NewDBProvider().GetDBType()]
	results, err := dbClient.ExecuteQuery(query, eventId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed in fetching thresholds for event: %s", eventId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_THRESHOLDS.Code,
			Message:     errors2.FETCH_THRESHOLDS.Message,
			Description: errorMsg,
		}, err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	row := results[0]
	threshold := model.AdaptiveThreshold{
		EventID:                 asString(row["event_id"]),
		DuplicateDistanceMeters: asFloat(row["duplicate_distance_meters"]),
		PromotionSampleSize:     asInt(row["promotion_sample_size"]),
		ConfidenceThreshold:     asFloat(row["confidence_threshold"]),
		MinCheckinsForGate:      asInt(row["min_checkins_for_gate"]),
		MaxLocationVariance:     asFloat(row["max_location_variance"]),
	}
	return &threshold, nil
}

func asString(v interface{}) string {
	switch value := v.(type) {
	case string:
		return value
	case []byte:
		return string(value)
	default:
		return ""
	}
}

func asInt(v interface{}) int {
	switch value := v.(type) {
	case int64:
		return int(value)
	case int:
		return value
	case float64:
		return int(value)
	default:
		return 0
	}
}

func asFloat(v interface{}) float64 {
	switch value := v.(type) {
	case float64:
		return value
	case int64:
		return float64(value)
	default:
		return 0
	}
}
