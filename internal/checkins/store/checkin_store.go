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
	"encoding/json"
	"fmt"
	"time"

	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/checkins/model"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/database/provider"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/database/scripts"
	errors2 "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/errors"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/log"
)

// GetCheckinsByEvent fetches every check-in recorded for an event, in stable
// chronological order.
func GetCheckinsByEvent(eventId string) ([]model.Checkin, error) {

	return queryCheckins(scripts.GetCheckinsByEvent, eventId)
}

// GetUnassignedCheckins fetches check-ins for an event that have no gate
// reference yet.
func GetUnassignedCheckins(eventId string) ([]model.Checkin, error) {

	return queryCheckins(scripts.GetUnassignedCheckinsByEvent, eventId)
}

func queryCheckins(queries map[string]string, eventId string) ([]model.Checkin, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for fetching check-ins for event: %s", eventId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := queries[provider.NewDBProvider().GetDBType()]
	results, err := dbClient.ExecuteQuery(query, eventId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed in fetching check-ins for event: %s", eventId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_CHECKINS.Code,
			Message:     errors2.FETCH_CHECKINS.Message,
			Description: errorMsg,
		}, err)
	}

	var checkins []model.Checkin
	for _, row := range results {
		checkins = append(checkins, checkinFromRow(row))
	}
	return checkins, nil
}

// AssignGate attaches a gate to a check-in and appends the audit annotation to
// its metadata. The update is guarded by gate_id IS NULL, so an already
// assigned check-in is never overwritten; the return value reports whether the
// assignment was applied.
func AssignGate(checkinId, gateId string, note model.AssignmentNote) (bool, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for assigning check-in: %s", checkinId)
		logger.Debug(errorMsg, log.Error(err))
		return false, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	if note.AssignedAt == "" {
		note.AssignedAt = time.Now().UTC().Format(time.RFC3339)
	}
	annotation, err := json.Marshal(map[string]interface{}{"gate_assignment": note})
	if err != nil {
		return false, errors2.NewServerError(errors2.MARSHAL_JSON, err)
	}

	query := scripts.AssignCheckinGate[provider.NewDBProvider().GetDBType()]
	results, err := dbClient.ExecuteQuery(query, checkinId, gateId, string(annotation))
	if err != nil {
		errorMsg := fmt.Sprintf("Error occurred while assigning check-in %s to gate %s", checkinId, gateId)
		logger.Debug(errorMsg, log.Error(err))
		return false, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ASSIGN_CHECKIN.Code,
			Message:     errors2.ASSIGN_CHECKIN.Message,
			Description: errorMsg,
		}, err)
	}

	return len(results) > 0, nil
}

// CountCheckinsByEvent returns total, successful and unassigned check-in
// counts for an event. Used by the trigger policy.
func CountCheckinsByEvent(eventId string) (total, successful, unassigned int, err error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for counting check-ins for event: %s", eventId)
		logger.Debug(errorMsg, log.Error(err))
		return 0, 0, 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := scripts.CountCheckinsByEvent[provider.NewDBProvider().GetDBType()]
	results, err := dbClient.ExecuteQuery(query, eventId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed in counting check-ins for event: %s", eventId)
		logger.Debug(errorMsg, log.Error(err))
		return 0, 0, 0, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_CHECKINS.Code,
			Message:     errors2.FETCH_CHECKINS.Message,
			Description: errorMsg,
		}, err)
	}
	if len(results) == 0 {
		return 0, 0, 0, nil
	}

	row := results[0]
	return asInt(row["total"]), asInt(row["successful"]), asInt(row["unassigned"]), nil
}

// GetActiveEventIds lists every event id present in the check-in stream.
func GetActiveEventIds() ([]string, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for listing active events"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := scripts.GetActiveEventIds[provider.NewDBProvider().GetDBType()]
	results, err := dbClient.ExecuteQuery(query)
	if err != nil {
		return nil, errors2.NewServerError(errors2.FETCH_CHECKINS, err)
	}

	var eventIds []string
	for _, row := range results {
		eventIds = append(eventIds, asString(row["event_id"]))
	}
	return eventIds, nil
}

func checkinFromRow(row map[string]interface{}) model.Checkin {

	var checkin model.Checkin
	checkin.CheckinID = asString(row["checkin_id"])
	checkin.EventID = asString(row["event_id"])
	checkin.WristbandID = asString(row["wristband_id"])
	checkin.StaffID = asString(row["staff_id"])
	checkin.CheckinTime = asTime(row["checkin_time"])
	checkin.Latitude = asFloatPtr(row["latitude"])
	checkin.Longitude = asFloatPtr(row["longitude"])
	checkin.Accuracy = asFloatPtr(row["accuracy"])
	checkin.LatencyMs = asInt(row["latency_ms"])
	checkin.Status = asString(row["status"])
	checkin.Category = asString(row["category"])
	if gateId := asString(row["gate_id"]); gateId != "" {
		checkin.GateID = &gateId
	}
	if raw := asString(row["metadata"]); raw != "" {
		_ = json.Unmarshal([]byte(raw), &checkin.Metadata)
	}
	return checkin
}

// Column values arrive as driver-dependent types; normalize them here.

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

func asFloatPtr(v interface{}) *float64 {
	switch value := v.(type) {
	case float64:
		return &value
	case int64:
		f := float64(value)
		return &f
	default:
		return nil
	}
}

func asTime(v interface{}) time.Time {
	if t, ok := v.(time.Time); ok {
		return t
	}
	return time.Time{}
}
