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

package service

import (
	"net/http"

	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/gates/model"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/gates/store"
	errors2 "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/errors"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/log"
)

// GateDetail is a gate together with its category bindings.
type GateDetail struct {
	model.Gate
	Bindings []model.GateBinding `json:"bindings"`
}

// GateServiceInterface defines the gate catalog administration surface.
type GateServiceInterface interface {
	GetGatesByEvent(eventId string) ([]model.Gate, error)
	GetGate(gateId string) (*GateDetail, error)
	UpdateGateStatus(gateId, status, updatedBy string) error
	GetMergeSuggestionsByEvent(eventId string) ([]model.GateMergeSuggestion, error)
	ReviewMergeSuggestion(suggestionId, status, reviewedBy string) error
}

// GateService is the default implementation.
type GateService struct{}

// GetGateService returns a new instance.
func GetGateService() GateServiceInterface {
	return &GateService{}
}

func (gs *GateService) GetGatesByEvent(eventId string) ([]model.Gate, error) {
	return store.GetGatesByEvent(eventId)
}

func (gs *GateService) GetGate(gateId string) (*GateDetail, error) {

	gate, err := store.GetGate(gateId)
	if err != nil {
		return nil, err
	}
	if gate == nil {
		return nil, errors2.NewClientError(errors2.GATE_NOT_FOUND, http.StatusNotFound)
	}
	bindings, err := store.GetBindingsByGate(gateId)
	if err != nil {
		return nil, err
	}
	return &GateDetail{Gate: *gate, Bindings: bindings}, nil
}

// UpdateGateStatus applies an administrative status change. The actor is
// passed explicitly for auditing.
func (gs *GateService) UpdateGateStatus(gateId, status, updatedBy string) error {

	if !model.AllowedGateStatusUpdates[status] {
		return errors2.NewClientError(errors2.INVALID_GATE_STATUS, http.StatusBadRequest)
	}
	gate, err := store.GetGate(gateId)
	if err != nil {
		return err
	}
	if gate == nil {
		return errors2.NewClientError(errors2.GATE_NOT_FOUND, http.StatusNotFound)
	}
	if err := store.UpdateGateStatus(gateId, status); err != nil {
		return err
	}

	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   updatedBy,
		InitiatorType: log.InitiatorTypeAdmin,
		TargetID:      gateId,
		TargetType:    log.TargetTypeGate,
		ActionID:      log.ActionUpdateGateStatus,
		Data:          map[string]interface{}{"from": gate.Status, "to": status},
	})
	return nil
}

func (gs *GateService) GetMergeSuggestionsByEvent(eventId string) ([]model.GateMergeSuggestion, error) {
	return store.GetMergeSuggestionsByEvent(eventId)
}

// ReviewMergeSuggestion records a human decision on a pending suggestion.
// The reviewer is passed explicitly for auditing.
func (gs *GateService) ReviewMergeSuggestion(suggestionId, status, reviewedBy string) error {

	if !model.AllowedMergeReviewStatuses[status] {
		return errors2.NewClientError(errors2.INVALID_REVIEW_STATUS, http.StatusBadRequest)
	}
	suggestion, err := store.GetMergeSuggestion(suggestionId)
	if err != nil {
		return err
	}
	if suggestion == nil {
		return errors2.NewClientError(errors2.MERGE_SUGGESTION_NOT_FOUND, http.StatusNotFound)
	}
	if err := store.ReviewMergeSuggestion(suggestionId, status, reviewedBy); err != nil {
		return err
	}

	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   reviewedBy,
		InitiatorType: log.InitiatorTypeAdmin,
		TargetID:      suggestionId,
		TargetType:    log.TargetTypeMergeSuggestion,
		ActionID:      log.ActionReviewMergeSuggestion,
		Data:          map[string]interface{}{"status": status},
	})
	return nil
}
