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
	"fmt"
	"os"
	"testing"
	"time"

	checkinmodel "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/checkins/model"
	discoverymodel "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/discovery/model"
	gatemodel "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/gates/model"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/config"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/log"
)

func TestMain(m *testing.M) {
	os.Setenv("TEST_MODE", "true")

	config.OverrideGDSRuntime(config.Config{
		Log: config.LogConfig{LogLevel: "ERROR"},
		Discovery: config.DiscoveryConfig{
			DuplicateDistanceMeters: 25,
			PromotionSampleSize:     100,
			ConfidenceThreshold:     0.80,
			MinCheckinsForGate:      3,
			MaxLocationVariance:     0.0001,
			WorkerCount:             4,
		},
	})
	_ = log.Init("ERROR")

	os.Exit(m.Run())
}

func mkCheckin(id, band, category string, lat, lon, accuracy float64, at time.Time) checkinmodel.Checkin {
	return checkinmodel.Checkin{
		CheckinID:   id,
		EventID:     "evt-1",
		WristbandID: band,
		CheckinTime: at,
		Latitude:    &lat,
		Longitude:   &lon,
		Accuracy:    &accuracy,
		Status:      "success",
		Category:    category,
	}
}

func mkCheckinNoGPS(id, band, category string, at time.Time) checkinmodel.Checkin {
	return checkinmodel.Checkin{
		CheckinID:   id,
		EventID:     "evt-1",
		WristbandID: band,
		CheckinTime: at,
		Status:      "success",
		Category:    category,
	}
}

// fakeCheckins is an in-memory CheckinSource.
type fakeCheckins struct {
	checkins []checkinmodel.Checkin
}

func (f *fakeCheckins) CheckinsByEvent(eventId string) ([]checkinmodel.Checkin, error) {
	var out []checkinmodel.Checkin
	for _, c := range f.checkins {
		if c.EventID == eventId {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCheckins) UnassignedCheckins(eventId string) ([]checkinmodel.Checkin, error) {
	var out []checkinmodel.Checkin
	for _, c := range f.checkins {
		if c.EventID == eventId && !c.Assigned() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCheckins) Counts(eventId string) (int, int, int, error) {
	total, successful, unassigned := 0, 0, 0
	for _, c := range f.checkins {
		if c.EventID != eventId {
			continue
		}
		total++
		if c.Status == "success" {
			successful++
		}
		if !c.Assigned() {
			unassigned++
		}
	}
	return total, successful, unassigned, nil
}

func (f *fakeCheckins) Assign(checkinId, gateId string, note checkinmodel.AssignmentNote) (bool, error) {
	for i := range f.checkins {
		if f.checkins[i].CheckinID != checkinId {
			continue
		}
		if f.checkins[i].Assigned() {
			return false, nil
		}
		f.checkins[i].GateID = &gateId
		return true, nil
	}
	return false, fmt.Errorf("unknown check-in %s", checkinId)
}

// fakeCatalog is an in-memory GateCatalog.
type fakeCatalog struct {
	gates       []gatemodel.Gate
	bindings    []gatemodel.GateBinding
	suggestions []gatemodel.GateMergeSuggestion
	thresholds  *discoverymodel.AdaptiveThreshold
	runs        []discoverymodel.PipelineRun
}

func defaultThresholds() *discoverymodel.AdaptiveThreshold {
	return &discoverymodel.AdaptiveThreshold{
		EventID:                 "evt-1",
		DuplicateDistanceMeters: 25,
		PromotionSampleSize:     100,
		ConfidenceThreshold:     0.80,
		MinCheckinsForGate:      3,
		MaxLocationVariance:     0.0001,
	}
}

func (f *fakeCatalog) GatesByEvent(eventId string) ([]gatemodel.Gate, error) {
	var out []gatemodel.Gate
	for _, g := range f.gates {
		if g.EventID == eventId {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeCatalog) InsertGate(gate gatemodel.Gate) error {
	f.gates = append(f.gates, gate)
	return nil
}

func (f *fakeCatalog) UpdateGate(gate gatemodel.Gate) error {
	for i := range f.gates {
		if f.gates[i].GateID == gate.GateID {
			f.gates[i] = gate
			return nil
		}
	}
	return fmt.Errorf("unknown gate %s", gate.GateID)
}

func (f *fakeCatalog) Binding(gateId, category string) (*gatemodel.GateBinding, error) {
	for i := range f.bindings {
		if f.bindings[i].GateID == gateId && f.bindings[i].Category == category {
			b := f.bindings[i]
			return &b, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) BindingsByGate(gateId string) ([]gatemodel.GateBinding, error) {
	var out []gatemodel.GateBinding
	for _, b := range f.bindings {
		if b.GateID == gateId {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeCatalog) InsertBinding(binding gatemodel.GateBinding) error {
	f.bindings = append(f.bindings, binding)
	return nil
}

func (f *fakeCatalog) UpdateBinding(binding gatemodel.GateBinding) error {
	for i := range f.bindings {
		if f.bindings[i].BindingID == binding.BindingID {
			f.bindings[i] = binding
			return nil
		}
	}
	return fmt.Errorf("unknown binding %s", binding.BindingID)
}

func (f *fakeCatalog) MergeSuggestionsByEvent(eventId string) ([]gatemodel.GateMergeSuggestion, error) {
	var out []gatemodel.GateMergeSuggestion
	for _, s := range f.suggestions {
		if s.EventID == eventId {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeCatalog) MergeSuggestionByPair(primaryGateId, secondaryGateId string) (*gatemodel.GateMergeSuggestion, error) {
	for i := range f.suggestions {
		if f.suggestions[i].PrimaryGateID == primaryGateId && f.suggestions[i].SecondaryGateID == secondaryGateId {
			s := f.suggestions[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) InsertMergeSuggestion(suggestion gatemodel.GateMergeSuggestion) error {
	f.suggestions = append(f.suggestions, suggestion)
	return nil
}

func (f *fakeCatalog) RefreshMergeSuggestion(suggestionId string, distanceMeters, confidence float64, reason string) error {
	for i := range f.suggestions {
		if f.suggestions[i].SuggestionID == suggestionId {
			f.suggestions[i].DistanceMeters = distanceMeters
			f.suggestions[i].Confidence = confidence
			f.suggestions[i].Reason = reason
			return nil
		}
	}
	return fmt.Errorf("unknown suggestion %s", suggestionId)
}

func (f *fakeCatalog) Thresholds(eventId string) (*discoverymodel.AdaptiveThreshold, error) {
	return f.thresholds, nil
}

func (f *fakeCatalog) RecordRun(run discoverymodel.PipelineRun) error {
	f.runs = append(f.runs, run)
	return nil
}

// fakeLock always grants the lock unless marked busy.
type fakeLock struct {
	busy       bool
	releaseErr error
}

func (l *fakeLock) Acquire(key string) (bool, error) { return !l.busy, nil }
func (l *fakeLock) Release(key string) error         { return l.releaseErr }
