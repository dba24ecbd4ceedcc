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

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/gates/provider"
	errors2 "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/errors"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/utils"
)

// GateHandler exposes the gate catalog administration endpoints.
type GateHandler struct{}

// NewGateHandler creates a new instance of GateHandler.
func NewGateHandler() *GateHandler {
	return &GateHandler{}
}

// GetGatesByEvent handles GET /events/{id}/gates.
func (gh *GateHandler) GetGatesByEvent(w http.ResponseWriter, r *http.Request) {

	eventId := utils.ExtractPathParam(r.URL.Path, "events")
	if eventId == "" {
		utils.WriteErrorResponse(w, errors2.NewClientError(errors2.EVENT_ID_REQUIRED, http.StatusBadRequest))
		return
	}

	gateService := provider.NewGateProvider().GetGateService()
	gates, err := gateService.GetGatesByEvent(eventId)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, gates)
}

// GetGate handles GET /gates/{id}, returning the gate with its bindings.
func (gh *GateHandler) GetGate(w http.ResponseWriter, r *http.Request) {

	gateId := utils.ExtractPathParam(r.URL.Path, "gates")
	if gateId == "" {
		utils.WriteErrorResponse(w, errors2.NewClientError(errors2.BAD_REQUEST, http.StatusBadRequest))
		return
	}

	gateService := provider.NewGateProvider().GetGateService()
	detail, err := gateService.GetGate(gateId)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, detail)
}

// UpdateGateStatus handles PATCH /gates/{id}.
func (gh *GateHandler) UpdateGateStatus(w http.ResponseWriter, r *http.Request) {

	gateId := utils.ExtractPathParam(r.URL.Path, "gates")
	if gateId == "" {
		utils.WriteErrorResponse(w, errors2.NewClientError(errors2.BAD_REQUEST, http.StatusBadRequest))
		return
	}

	var body struct {
		Status    string `json:"status"`
		UpdatedBy string `json:"updatedBy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteErrorResponse(w, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "gate status"),
		}, http.StatusBadRequest))
		return
	}

	gateService := provider.NewGateProvider().GetGateService()
	if err := gateService.UpdateGateStatus(gateId, body.Status, body.UpdatedBy); err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, map[string]string{"gateId": gateId, "status": body.Status})
}

// GetMergeSuggestions handles GET /events/{id}/merge-suggestions.
func (gh *GateHandler) GetMergeSuggestions(w http.ResponseWriter, r *http.Request) {

	eventId := utils.ExtractPathParam(r.URL.Path, "events")
	if eventId == "" {
		utils.WriteErrorResponse(w, errors2.NewClientError(errors2.EVENT_ID_REQUIRED, http.StatusBadRequest))
		return
	}

	gateService := provider.NewGateProvider().GetGateService()
	suggestions, err := gateService.GetMergeSuggestionsByEvent(eventId)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, suggestions)
}

// ReviewMergeSuggestion handles POST /merge-suggestions/{id}/review.
func (gh *GateHandler) ReviewMergeSuggestion(w http.ResponseWriter, r *http.Request) {

	suggestionId := utils.ExtractPathParam(r.URL.Path, "merge-suggestions")
	if suggestionId == "" {
		utils.WriteErrorResponse(w, errors2.NewClientError(errors2.BAD_REQUEST, http.StatusBadRequest))
		return
	}

	var body struct {
		Status     string `json:"status"`
		ReviewedBy string `json:"reviewedBy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteErrorResponse(w, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "merge suggestion review"),
		}, http.StatusBadRequest))
		return
	}

	gateService := provider.NewGateProvider().GetGateService()
	if err := gateService.ReviewMergeSuggestion(suggestionId, body.Status, body.ReviewedBy); err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, map[string]string{"suggestionId": suggestionId, "status": body.Status})
}
