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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gatemodel "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/gates/model"
)

func physicalGate(id string, lat, lon float64) gatemodel.Gate {
	return gatemodel.Gate{
		GateID:    id,
		EventID:   "evt-1",
		Name:      "Gate 1",
		Latitude:  &lat,
		Longitude: &lon,
		Status:    gatemodel.GateStatusActive,
	}
}

func TestAssignOrphansGPSProximityWithBindingBoost(t *testing.T) {
	now := time.Now()
	catalog := &fakeCatalog{thresholds: defaultThresholds()}
	catalog.gates = append(catalog.gates, physicalGate("gate-1", 40.7128, -74.0060))
	catalog.bindings = append(catalog.bindings, gatemodel.GateBinding{
		BindingID:  "b1",
		GateID:     "gate-1",
		Category:   "General",
		Status:     gatemodel.BindingStatusEnforced,
		Confidence: 0.92,
	})

	// Fifteen meters north of the gate at 20 m accuracy: base confidence
	// 1 - 15/60 = 0.75, boosted by the enforced binding to 0.90.
	checkins := &fakeCheckins{}
	checkins.checkins = append(checkins.checkins,
		mkCheckin("near", "band-1", "General", 40.7128+15.0/111320.0, -74.0060, 20, now),
		mkCheckin("distant", "band-2", "General", 40.7228, -74.0060, 20, now),
	)

	report, err := AssignOrphans("evt-1", checkins, catalog)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Orphans)
	assert.Equal(t, 1, report.Assigned)
	assert.Equal(t, 1, report.ByMethod[MethodGPSProximity])
	assert.InDelta(t, 0.90, report.AvgConfidence, 0.01)

	require.NotNil(t, checkins.checkins[0].GateID)
	assert.Equal(t, "gate-1", *checkins.checkins[0].GateID)
	assert.Nil(t, checkins.checkins[1].GateID)
}

func TestAssignOrphansRespectsConfidenceFloor(t *testing.T) {
	now := time.Now()
	catalog := &fakeCatalog{thresholds: defaultThresholds()}
	catalog.gates = append(catalog.gates, physicalGate("gate-1", 40.7128, -74.0060))

	// Forty meters away at 20 m accuracy: 1 - 40/60 = 0.33, below the floor.
	checkins := &fakeCheckins{}
	checkins.checkins = append(checkins.checkins,
		mkCheckin("weak", "band-1", "General", 40.7128+40.0/111320.0, -74.0060, 20, now),
	)

	report, err := AssignOrphans("evt-1", checkins, catalog)
	require.NoError(t, err)
	assert.Zero(t, report.Assigned)
	assert.Nil(t, checkins.checkins[0].GateID)
}

func TestAssignOrphansSkipsFailedCheckins(t *testing.T) {
	now := time.Now()
	catalog := &fakeCatalog{thresholds: defaultThresholds()}
	catalog.gates = append(catalog.gates, physicalGate("gate-1", 40.7128, -74.0060))

	failed := mkCheckin("failed", "band-1", "General", 40.7128, -74.0060, 10, now)
	failed.Status = "failed"
	checkins := &fakeCheckins{}
	checkins.checkins = append(checkins.checkins, failed)

	report, err := AssignOrphans("evt-1", checkins, catalog)
	require.NoError(t, err)
	assert.Zero(t, report.Assigned)
	assert.Nil(t, checkins.checkins[0].GateID)
}

func TestAssignOrphansCategoryMatch(t *testing.T) {
	now := time.Now()
	catalog := &fakeCatalog{thresholds: defaultThresholds()}
	catalog.gates = append(catalog.gates, gatemodel.Gate{
		GateID:  "gate-vip",
		EventID: "evt-1",
		Name:    "VIP Virtual Gate",
		Status:  gatemodel.GateStatusActive,
	})
	catalog.bindings = append(catalog.bindings, gatemodel.GateBinding{
		BindingID:  "b1",
		GateID:     "gate-vip",
		Category:   "VIP",
		Status:     gatemodel.BindingStatusProbation,
		Confidence: 0.85,
	})

	checkins := &fakeCheckins{}
	checkins.checkins = append(checkins.checkins, mkCheckinNoGPS("orphan", "band-1", "VIP", now))

	report, err := AssignOrphans("evt-1", checkins, catalog)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Assigned)
	assert.Equal(t, 1, report.ByMethod[MethodCategoryMatch])
	assert.InDelta(t, 0.85, report.AvgConfidence, 1e-9)
	require.NotNil(t, checkins.checkins[0].GateID)
	assert.Equal(t, "gate-vip", *checkins.checkins[0].GateID)
}

func TestAssignOrphansTemporalPattern(t *testing.T) {
	at := time.Date(2026, 5, 1, 10, 10, 0, 0, time.UTC)
	catalog := &fakeCatalog{thresholds: defaultThresholds()}
	catalog.gates = append(catalog.gates, physicalGate("gate-1", 40.7128, -74.0060))

	gateId := "gate-1"
	peer := mkCheckinNoGPS("peer", "band-peer", "General", at.Add(-3*time.Minute))
	peer.GateID = &gateId

	checkins := &fakeCheckins{}
	checkins.checkins = append(checkins.checkins,
		peer,
		mkCheckinNoGPS("orphan", "band-orphan", "General", at),
	)

	report, err := AssignOrphans("evt-1", checkins, catalog)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Orphans)
	assert.Equal(t, 1, report.Assigned)
	assert.Equal(t, 1, report.ByMethod[MethodTemporalPattern])
	assert.InDelta(t, 0.70, report.AvgConfidence, 1e-9)
}

func TestAssignOrphansTemporalPatternWindow(t *testing.T) {
	at := time.Date(2026, 5, 1, 10, 30, 0, 0, time.UTC)
	catalog := &fakeCatalog{thresholds: defaultThresholds()}
	gateId := "gate-1"

	t.Run("outside the five minute window", func(t *testing.T) {
		peer := mkCheckinNoGPS("peer", "band-peer", "General", at.Add(-10*time.Minute))
		peer.GateID = &gateId
		checkins := &fakeCheckins{}
		checkins.checkins = append(checkins.checkins, peer, mkCheckinNoGPS("orphan", "band-orphan", "General", at))

		report, err := AssignOrphans("evt-1", checkins, catalog)
		require.NoError(t, err)
		assert.Zero(t, report.Assigned)
	})

	t.Run("same wristband never links", func(t *testing.T) {
		peer := mkCheckinNoGPS("peer", "band-same", "General", at.Add(-2*time.Minute))
		peer.GateID = &gateId
		checkins := &fakeCheckins{}
		checkins.checkins = append(checkins.checkins, peer, mkCheckinNoGPS("orphan", "band-same", "General", at))

		report, err := AssignOrphans("evt-1", checkins, catalog)
		require.NoError(t, err)
		assert.Zero(t, report.Assigned)
	})

	t.Run("different clock hour never links", func(t *testing.T) {
		edge := time.Date(2026, 5, 1, 11, 1, 0, 0, time.UTC)
		peer := mkCheckinNoGPS("peer", "band-peer", "General", edge.Add(-4*time.Minute))
		peer.GateID = &gateId
		checkins := &fakeCheckins{}
		checkins.checkins = append(checkins.checkins, peer, mkCheckinNoGPS("orphan", "band-orphan", "General", edge))

		report, err := AssignOrphans("evt-1", checkins, catalog)
		require.NoError(t, err)
		assert.Zero(t, report.Assigned)
	})
}

func TestAssignOrphansPrefersHigherConfidenceMethod(t *testing.T) {
	now := time.Now()
	catalog := &fakeCatalog{thresholds: defaultThresholds()}
	catalog.gates = append(catalog.gates,
		physicalGate("gate-1", 40.7128, -74.0060),
		gatemodel.Gate{GateID: "gate-vip", EventID: "evt-1", Name: "VIP Virtual Gate", Status: gatemodel.GateStatusActive},
	)
	catalog.bindings = append(catalog.bindings, gatemodel.GateBinding{
		BindingID:  "b1",
		GateID:     "gate-vip",
		Category:   "VIP",
		Status:     gatemodel.BindingStatusEnforced,
		Confidence: 0.95,
	})

	// GPS proposes gate-1 at 1 - 30/60 = 0.50; the category match at 0.95
	// must win.
	checkins := &fakeCheckins{}
	checkins.checkins = append(checkins.checkins,
		mkCheckin("orphan", "band-1", "VIP", 40.7128+30.0/111320.0, -74.0060, 20, now),
	)

	report, err := AssignOrphans("evt-1", checkins, catalog)
	require.NoError(t, err)
	assert.Equal(t, 1, report.ByMethod[MethodCategoryMatch])
	require.NotNil(t, checkins.checkins[0].GateID)
	assert.Equal(t, "gate-vip", *checkins.checkins[0].GateID)
}
