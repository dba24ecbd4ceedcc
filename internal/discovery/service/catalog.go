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
	checkinmodel "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/checkins/model"
	checkinstore "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/checkins/store"
	discoverymodel "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/discovery/model"
	discoverystore "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/discovery/store"
	gatemodel "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/gates/model"
	gatestore "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/gates/store"
)

// CheckinSource reads and annotates the check-in stream of an event.
type CheckinSource interface {
	CheckinsByEvent(eventId string) ([]checkinmodel.Checkin, error)
	UnassignedCheckins(eventId string) ([]checkinmodel.Checkin, error)
	Counts(eventId string) (total, successful, unassigned int, err error)
	Assign(checkinId, gateId string, note checkinmodel.AssignmentNote) (bool, error)
}

// GateCatalog reads and reconciles the persisted gate catalog of an event.
type GateCatalog interface {
	GatesByEvent(eventId string) ([]gatemodel.Gate, error)
	InsertGate(gate gatemodel.Gate) error
	UpdateGate(gate gatemodel.Gate) error
	Binding(gateId, category string) (*gatemodel.GateBinding, error)
	BindingsByGate(gateId string) ([]gatemodel.GateBinding, error)
	InsertBinding(binding gatemodel.GateBinding) error
	UpdateBinding(binding gatemodel.GateBinding) error
	MergeSuggestionsByEvent(eventId string) ([]gatemodel.GateMergeSuggestion, error)
	MergeSuggestionByPair(primaryGateId, secondaryGateId string) (*gatemodel.GateMergeSuggestion, error)
	InsertMergeSuggestion(suggestion gatemodel.GateMergeSuggestion) error
	RefreshMergeSuggestion(suggestionId string, distanceMeters, confidence float64, reason string) error
	Thresholds(eventId string) (*discoverymodel.AdaptiveThreshold, error)
	RecordRun(run discoverymodel.PipelineRun) error
}

// DBCheckinSource is the store-backed CheckinSource.
type DBCheckinSource struct{}

func (DBCheckinSource) CheckinsByEvent(eventId string) ([]checkinmodel.Checkin, error) {
	return checkinstore.GetCheckinsByEvent(eventId)
}

func (DBCheckinSource) UnassignedCheckins(eventId string) ([]checkinmodel.Checkin, error) {
	return checkinstore.GetUnassignedCheckins(eventId)
}

func (DBCheckinSource) Counts(eventId string) (int, int, int, error) {
	return checkinstore.CountCheckinsByEvent(eventId)
}

func (DBCheckinSource) Assign(checkinId, gateId string, note checkinmodel.AssignmentNote) (bool, error) {
	return checkinstore.AssignGate(checkinId, gateId, note)
}

// DBGateCatalog is the store-backed GateCatalog.
type DBGateCatalog struct{}

func (DBGateCatalog) GatesByEvent(eventId string) ([]gatemodel.Gate, error) {
	return gatestore.GetGatesByEvent(eventId)
}

func (DBGateCatalog) InsertGate(gate gatemodel.Gate) error {
	return gatestore.InsertGate(gate)
}

func (DBGateCatalog) UpdateGate(gate gatemodel.Gate) error {
	return gatestore.UpdateGate(gate)
}

func (DBGateCatalog) Binding(gateId, category string) (*gatemodel.GateBinding, error) {
	return gatestore.GetBinding(gateId, category)
}

func (DBGateCatalog) BindingsByGate(gateId string) ([]gatemodel.GateBinding, error) {
	return gatestore.GetBindingsByGate(gateId)
}

func (DBGateCatalog) InsertBinding(binding gatemodel.GateBinding) error {
	return gatestore.InsertBinding(binding)
}

func (DBGateCatalog) UpdateBinding(binding gatemodel.GateBinding) error {
	return gatestore.UpdateBinding(binding)
}

func (DBGateCatalog) MergeSuggestionsByEvent(eventId string) ([]gatemodel.GateMergeSuggestion, error) {
	return gatestore.GetMergeSuggestionsByEvent(eventId)
}

func (DBGateCatalog) MergeSuggestionByPair(primaryGateId, secondaryGateId string) (*gatemodel.GateMergeSuggestion, error) {
	return gatestore.GetMergeSuggestionByPair(primaryGateId, secondaryGateId)
}

func (DBGateCatalog) InsertMergeSuggestion(suggestion gatemodel.GateMergeSuggestion) error {
	return gatestore.InsertMergeSuggestion(suggestion)
}

func (DBGateCatalog) RefreshMergeSuggestion(suggestionId string, distanceMeters, confidence float64, reason string) error {
	return gatestore.RefreshMergeSuggestion(suggestionId, distanceMeters, confidence, reason)
}

func (DBGateCatalog) Thresholds(eventId string) (*discoverymodel.AdaptiveThreshold, error) {
	return discoverystore.GetThresholds(eventId)
}

func (DBGateCatalog) RecordRun(run discoverymodel.PipelineRun) error {
	return discoverystore.RecordPipelineRun(run)
}
