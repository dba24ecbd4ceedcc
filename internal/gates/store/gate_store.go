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

	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/gates/model"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/database/provider"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/database/scripts"
	errors2 "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/errors"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/log"
)

// GetGatesByEvent fetches every gate in the catalog for an event.
func GetGatesByEvent(eventId string) ([]model.Gate, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for fetching gates for event: %s", eventId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := scripts.GetGatesByEvent[provider.NewDBProvider().GetDBType()]
	results, err := dbClient.ExecuteQuery(query, eventId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed in fetching gates for event: %s", eventId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_GATES.Code,
			Message:     errors2.FETCH_GATES.Message,
			Description: errorMsg,
		}, err)
	}

	var gates []model.Gate
	for _, row := range results {
		gates = append(gates, gateFromRow(row))
	}
	return gates, nil
}

// GetGate fetches a single gate by id. Returns nil when no gate exists.
func GetGate(gateId string) (*model.Gate, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for fetching gate: %s", gateId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := scripts.GetGateById[provider.NewDBProvider().GetDBType()]
	results, err := dbClient.ExecuteQuery(query, gateId)
	if err != nil {
		return nil, errors2.NewServerError(errors2.FETCH_GATES, err)
	}
	if len(results) == 0 {
		logger.Debug(fmt.Sprintf("No gate found for gate_id: %s", gateId))
		return nil, nil
	}

	gate := gateFromRow(results[0])
	return &gate, nil
}

// InsertGate adds a new gate to the catalog.
func InsertGate(gate model.Gate) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for adding gate: %s", gate.Name)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	metadata, err := json.Marshal(gate.Metadata)
	if err != nil {
		return errors2.NewServerError(errors2.MARSHAL_JSON, err)
	}

	query := scripts.InsertGate[provider.NewDBProvider().GetDBType()]
	_, err = dbClient.ExecuteQuery(query, gate.GateID, gate.EventID, gate.Name, gate.Latitude, gate.Longitude,
		gate.Status, gate.DerivationMethod, gate.Confidence, gate.Purity, gate.SpatialVariance, gate.AutoCreated,
		string(metadata), gate.CreatedAt, gate.UpdatedAt)
	if err != nil {
		errorMsg := fmt.Sprintf("Error occurred while adding gate: %s", gate.Name)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPSERT_GATE.Code,
			Message:     errors2.UPSERT_GATE.Message,
			Description: errorMsg,
		}, err)
	}

	logger.Info(fmt.Sprintf("Gate %s added successfully for event: %s", gate.Name, gate.EventID))
	return nil
}

// UpdateGate refreshes a gate's derived fields in place.
func UpdateGate(gate model.Gate) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for updating gate: %s", gate.GateID)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	metadata, err := json.Marshal(gate.Metadata)
	if err != nil {
		return errors2.NewServerError(errors2.MARSHAL_JSON, err)
	}

	query := scripts.UpdateGate[provider.NewDBProvider().GetDBType()]
	_, err = dbClient.ExecuteQuery(query, gate.GateID, gate.Name, gate.Latitude, gate.Longitude, gate.Status,
		gate.Confidence, gate.Purity, gate.SpatialVariance, string(metadata), gate.UpdatedAt)
	if err != nil {
		errorMsg := fmt.Sprintf("Error occurred while updating gate: %s", gate.GateID)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPSERT_GATE.Code,
			Message:     errors2.UPSERT_GATE.Message,
			Description: errorMsg,
		}, err)
	}
	return nil
}

// UpdateGateStatus applies a lifecycle status change to a gate.
func UpdateGateStatus(gateId, status string) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		return errors2.NewServerError(errors2.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	query := scripts.UpdateGateStatus[provider.NewDBProvider().GetDBType()]
	_, err = dbClient.ExecuteQuery(query, gateId, status, time.Now().UTC())
	if err != nil {
		errorMsg := fmt.Sprintf("Error occurred while updating status of gate: %s", gateId)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPSERT_GATE.Code,
			Message:     errors2.UPSERT_GATE.Message,
			Description: errorMsg,
		}, err)
	}
	return nil
}

func gateFromRow(row map[string]interface{}) model.Gate {

	var gate model.Gate
	gate.GateID = asString(row["gate_id"])
	gate.EventID = asString(row["event_id"])
	gate.Name = asString(row["name"])
	gate.Latitude = asFloatPtr(row["latitude"])
	gate.Longitude = asFloatPtr(row["longitude"])
	gate.Status = asString(row["status"])
	gate.DerivationMethod = asString(row["derivation_method"])
	gate.Confidence = asFloat(row["confidence"])
	gate.Purity = asFloat(row["purity"])
	gate.SpatialVariance = asFloat(row["spatial_variance"])
	gate.AutoCreated = asBool(row["auto_created"])
	if raw := asString(row["metadata"]); raw != "" {
		_ = json.Unmarshal([]byte(raw), &gate.Metadata)
	}
	gate.CreatedAt = asTime(row["created_at"])
	gate.UpdatedAt = asTime(row["updated_at"])
	return gate
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

func asBool(v interface{}) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return false
}

func asTime(v interface{}) time.Time {
	if t, ok := v.(time.Time); ok {
		return t
	}
	return time.Time{}
}
