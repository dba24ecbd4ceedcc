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
	"time"

	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/gates/model"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/database/provider"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/database/scripts"
	errors2 "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/errors"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/log"
)

// GetMergeSuggestionsByEvent fetches all merge suggestions for an event.
func GetMergeSuggestionsByEvent(eventId string) ([]model.GateMergeSuggestion, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		return nil, errors2.NewServerError(errors2.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	query := scripts.GetMergeSuggestionsByEvent[provider.NewDBProvider().GetDBType()]
	results, err := dbClient.ExecuteQuery(query, eventId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed in fetching merge suggestions for event: %s", eventId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_MERGE_SUGGESTIONS.Code,
			Message:     errors2.FETCH_MERGE_SUGGESTIONS.Message,
			Description: errorMsg,
		}, err)
	}

	var suggestions []model.GateMergeSuggestion
	for _, row := range results {
		suggestions = append(suggestions, suggestionFromRow(row))
	}
	return suggestions, nil
}

// GetMergeSuggestion fetches a merge suggestion by id. Returns nil when none
// exists.
func GetMergeSuggestion(suggestionId string) (*model.GateMergeSuggestion, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return nil, errors2.NewServerError(errors2.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	query := scripts.GetMergeSuggestionById[provider.NewDBProvider().GetDBType()]
	results, err := dbClient.ExecuteQuery(query, suggestionId)
	if err != nil {
		return nil, errors2.NewServerError(errors2.FETCH_MERGE_SUGGESTIONS, err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	suggestion := suggestionFromRow(results[0])
	return &suggestion, nil
}

// GetMergeSuggestionByPair fetches the suggestion stored for a canonically
// ordered gate pair. Returns nil when the pair has not been flagged.
func GetMergeSuggestionByPair(primaryGateId, secondaryGateId string) (*model.GateMergeSuggestion, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return nil, errors2.NewServerError(errors2.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	query := scripts.GetMergeSuggestionByPair[provider.NewDBProvider().GetDBType()]
	results, err := dbClient.ExecuteQuery(query, primaryGateId, secondaryGateId)
	if err != nil {
		return nil, errors2.NewServerError(errors2.FETCH_MERGE_SUGGESTIONS, err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	suggestion := suggestionFromRow(results[0])
	return &suggestion, nil
}

// InsertMergeSuggestion adds a new merge suggestion.
func InsertMergeSuggestion(suggestion model.GateMergeSuggestion) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		return errors2.NewServerError(errors2.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	query := scripts.InsertMergeSuggestion[provider.NewDBProvider().GetDBType()]
	_, err = dbClient.ExecuteQuery(query, suggestion.SuggestionID, suggestion.EventID, suggestion.PrimaryGateID,
		suggestion.SecondaryGateID, suggestion.DistanceMeters, suggestion.Confidence, suggestion.Reason,
		suggestion.Status, suggestion.CreatedAt, suggestion.UpdatedAt)
	if err != nil {
		errorMsg := fmt.Sprintf("Error occurred while adding merge suggestion for gates %s and %s",
			suggestion.PrimaryGateID, suggestion.SecondaryGateID)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPSERT_MERGE_SUGGESTION.Code,
			Message:     errors2.UPSERT_MERGE_SUGGESTION.Message,
			Description: errorMsg,
		}, err)
	}
	return nil
}

// RefreshMergeSuggestion updates distance, confidence and reason of an
// existing suggestion without duplicating the row.
func RefreshMergeSuggestion(suggestionId string, distanceMeters, confidence float64, reason string) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		return errors2.NewServerError(errors2.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	query := scripts.RefreshMergeSuggestion[provider.NewDBProvider().GetDBType()]
	_, err = dbClient.ExecuteQuery(query, suggestionId, distanceMeters, confidence, reason, time.Now().UTC())
	if err != nil {
		errorMsg := fmt.Sprintf("Error occurred while refreshing merge suggestion: %s", suggestionId)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPSERT_MERGE_SUGGESTION.Code,
			Message:     errors2.UPSERT_MERGE_SUGGESTION.Message,
			Description: errorMsg,
		}, err)
	}
	return nil
}

// ReviewMergeSuggestion records a review decision together with the reviewer,
// passed explicitly for auditability.
func ReviewMergeSuggestion(suggestionId, status, reviewedBy string) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		return errors2.NewServerError(errors2.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	query := scripts.ReviewMergeSuggestion[provider.NewDBProvider().GetDBType()]
	_, err = dbClient.ExecuteQuery(query, suggestionId, status, reviewedBy, time.Now().UTC())
	if err != nil {
		errorMsg := fmt.Sprintf("Error occurred while reviewing merge suggestion: %s", suggestionId)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPSERT_MERGE_SUGGESTION.Code,
			Message:     errors2.UPSERT_MERGE_SUGGESTION.Message,
			Description: errorMsg,
		}, err)
	}
	return nil
}

func suggestionFromRow(row map[string]interface{}) model.GateMergeSuggestion {

	var suggestion model.GateMergeSuggestion
	suggestion.SuggestionID = asString(row["suggestion_id"])
	suggestion.EventID = asString(row["event_id"])
	suggestion.PrimaryGateID = asString(row["primary_gate_id"])
	suggestion.SecondaryGateID = asString(row["secondary_gate_id"])
	suggestion.DistanceMeters = asFloat(row["distance_meters"])
	suggestion.Confidence = asFloat(row["confidence"])
	suggestion.Reason = asString(row["reason"])
	suggestion.Status = asString(row["status"])
	suggestion.ReviewedBy = asString(row["reviewed_by"])
	suggestion.CreatedAt = asTime(row["created_at"])
	suggestion.UpdatedAt = asTime(row["updated_at"])
	return suggestion
}
