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
	"net/http"

	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/discovery/provider"
	errors2 "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/errors"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/log"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/utils"
)

// DiscoveryHandler exposes the discovery pipeline over HTTP.
type DiscoveryHandler struct{}

// NewDiscoveryHandler creates a new instance of DiscoveryHandler.
func NewDiscoveryHandler() *DiscoveryHandler {
	return &DiscoveryHandler{}
}

// RunDiscovery handles POST /events/{id}/discovery. The dryRun query
// parameter previews the run without catalog writes.
func (dh *DiscoveryHandler) RunDiscovery(w http.ResponseWriter, r *http.Request) {

	eventId := utils.ExtractPathParam(r.URL.Path, "events")
	if eventId == "" {
		utils.WriteErrorResponse(w, errors2.NewClientError(errors2.EVENT_ID_REQUIRED, http.StatusBadRequest))
		return
	}
	dryRun := r.URL.Query().Get("dryRun") == "true"

	discoveryService := provider.NewDiscoveryProvider().GetDiscoveryService()
	report, err := discoveryService.RunDiscovery(eventId, dryRun)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	logger := log.GetLogger()
	logger.Audit(log.AuditEvent{
		InitiatorID:   r.RemoteAddr,
		InitiatorType: log.InitiatorTypeAdmin,
		TargetID:      eventId,
		TargetType:    log.TargetTypeEvent,
		ActionID:      log.ActionRunDiscovery,
		Data:          map[string]interface{}{"dryRun": dryRun, "outcome": report.Outcome},
	})

	utils.WriteJSONResponse(w, http.StatusOK, report)
}

// AssignOrphans handles POST /events/{id}/assignments.
func (dh *DiscoveryHandler) AssignOrphans(w http.ResponseWriter, r *http.Request) {

	eventId := utils.ExtractPathParam(r.URL.Path, "events")
	if eventId == "" {
		utils.WriteErrorResponse(w, errors2.NewClientError(errors2.EVENT_ID_REQUIRED, http.StatusBadRequest))
		return
	}

	discoveryService := provider.NewDiscoveryProvider().GetDiscoveryService()
	report, err := discoveryService.AssignOrphans(eventId)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	logger := log.GetLogger()
	logger.Audit(log.AuditEvent{
		InitiatorID:   r.RemoteAddr,
		InitiatorType: log.InitiatorTypeAdmin,
		TargetID:      eventId,
		TargetType:    log.TargetTypeEvent,
		ActionID:      log.ActionAssignOrphans,
		Data:          map[string]interface{}{"assigned": report.Assigned},
	})

	utils.WriteJSONResponse(w, http.StatusOK, report)
}

// QualityReport handles GET /events/{id}/quality.
func (dh *DiscoveryHandler) QualityReport(w http.ResponseWriter, r *http.Request) {

	eventId := utils.ExtractPathParam(r.URL.Path, "events")
	if eventId == "" {
		utils.WriteErrorResponse(w, errors2.NewClientError(errors2.EVENT_ID_REQUIRED, http.StatusBadRequest))
		return
	}

	discoveryService := provider.NewDiscoveryProvider().GetDiscoveryService()
	report, err := discoveryService.QualityReport(eventId)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, report)
}
