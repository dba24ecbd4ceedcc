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

	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/gates/model"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/database/provider"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/database/scripts"
	errors2 "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/errors"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/log"
)

// GetBindingsByGate fetches all category bindings of a gate.
func GetBindingsByGate(gateId string) ([]model.GateBinding, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for fetching bindings of gate: %s", gateId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := scripts.GetBindingsByGate[provider.NewDBProvider().GetDBType()]
	results, err := dbClient.ExecuteQuery(query, gateId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed in fetching bindings for gate: %s", gateId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_BINDINGS.Code,
			Message:     errors2.FETCH_BINDINGS.Message,
			Description: errorMsg,
		}, err)
	}

	var bindings []model.GateBinding
	for _, row := range results {
		bindings = append(bindings, bindingFromRow(row))
	}
	return bindings, nil
}

// GetBinding fetches the binding of a gate for one category. Returns nil when
// the pair is unbound.
func GetBinding(gateId, category string) (*model.GateBinding, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		return nil, errors2.NewServerError(errors2.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	query := scripts.GetBindingByGateAndCategory[provider.NewDBProvider().GetDBType()]
	results, err := dbClient.ExecuteQuery(query, gateId, category)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed in fetching binding for gate %s and category %s", gateId, category)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_BINDINGS.Code,
			Message:     errors2.FETCH_BINDINGS.Message,
			Description: errorMsg,
		}, err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	binding := bindingFromRow(results[0])
	return &binding, nil
}

// InsertBinding adds a new gate binding.
func InsertBinding(binding model.GateBinding) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		return errors2.NewServerError(errors2.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	query := scripts.InsertBinding[provider.NewDBProvider().GetDBType()]
	_, err = dbClient.ExecuteQuery(query, binding.BindingID, binding.GateID, binding.Category, binding.Status,
		binding.SampleCount, binding.Confidence, binding.Violations, binding.CreatedAt, binding.UpdatedAt)
	if err != nil {
		errorMsg := fmt.Sprintf("Error occurred while adding binding for gate %s and category %s",
			binding.GateID, binding.Category)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPSERT_BINDING.Code,
			Message:     errors2.UPSERT_BINDING.Message,
			Description: errorMsg,
		}, err)
	}
	return nil
}

// UpdateBinding refreshes the ladder state of an existing binding.
func UpdateBinding(binding model.GateBinding) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		return errors2.NewServerError(errors2.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	query := scripts.UpdateBinding[provider.NewDBProvider().GetDBType()]
	_, err = dbClient.ExecuteQuery(query, binding.BindingID, binding.Status, binding.SampleCount,
		binding.Confidence, binding.Violations, binding.UpdatedAt)
	if err != nil {
		errorMsg := fmt.Sprintf("Error occurred while updating binding: %s", binding.BindingID)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPSERT_BINDING.Code,
			Message:     errors2.UPSERT_BINDING.Message,
			Description: errorMsg,
		}, err)
	}
	return nil
}

func bindingFromRow(row map[string]interface{}) model.GateBinding {

	var binding model.GateBinding
	binding.BindingID = asString(row["binding_id"])
	binding.GateID = asString(row["gate_id"])
	binding.Category = asString(row["category"])
	binding.Status = asString(row["status"])
	binding.SampleCount = asInt(row["sample_count"])
	binding.Confidence = asFloat(row["confidence"])
	binding.Violations = asInt(row["violations"])
	binding.CreatedAt = asTime(row["created_at"])
	binding.UpdatedAt = asTime(row["updated_at"])
	return binding
}
