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

	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/discovery/model"
	gatemodel "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/gates/model"
)

func entranceCandidate(confidence float64, sampleCount int) model.ClusterCandidate {
	return model.ClusterCandidate{
		Latitude:         40.7128,
		Longitude:        -74.0060,
		SampleCount:      sampleCount,
		DominantCategory: "General",
		DominantCount:    sampleCount,
		Confidence:       confidence,
		Purity:           1.0,
		ActiveHours:      6,
	}
}

func TestMaterializePhysicalCreatesGateAndBinding(t *testing.T) {
	now := time.Now()
	catalog := &fakeCatalog{thresholds: defaultThresholds()}
	checkins := &fakeCheckins{}
	// One orphan ten meters from the centroid, one far outside the sweep.
	checkins.checkins = append(checkins.checkins,
		mkCheckin("near", "b1", "General", 40.71289, -74.0060, 10, now),
		mkCheckin("far", "b2", "General", 40.7150, -74.0060, 10, now),
	)

	result, err := MaterializePhysical("evt-1", []model.ClusterCandidate{entranceCandidate(0.90, 60)},
		*defaultThresholds(), catalog, checkins)
	require.NoError(t, err)

	assert.Equal(t, 1, result.GatesCreated)
	assert.Zero(t, result.GatesUpdated)
	assert.Equal(t, 1, result.CheckinsAssigned)

	require.Len(t, catalog.gates, 1)
	gate := catalog.gates[0]
	assert.Equal(t, "Gate 1", gate.Name)
	assert.Equal(t, gatemodel.GateStatusActive, gate.Status)
	assert.Equal(t, gatemodel.DerivationSpatialClustering, gate.DerivationMethod)
	assert.True(t, gate.AutoCreated)
	assert.InDelta(t, 40.7128, *gate.Latitude, 1e-9)

	require.Len(t, catalog.bindings, 1)
	binding := catalog.bindings[0]
	assert.Equal(t, "General", binding.Category)
	assert.Equal(t, gatemodel.BindingStatusEnforced, binding.Status)
	assert.Equal(t, 60, binding.SampleCount)

	assert.NotNil(t, checkins.checkins[0].GateID)
	assert.Nil(t, checkins.checkins[1].GateID)
}

func TestMaterializePhysicalSecondRunUpdatesInPlace(t *testing.T) {
	catalog := &fakeCatalog{thresholds: defaultThresholds()}
	checkins := &fakeCheckins{}

	_, err := MaterializePhysical("evt-1", []model.ClusterCandidate{entranceCandidate(0.90, 60)},
		*defaultThresholds(), catalog, checkins)
	require.NoError(t, err)

	// A weaker re-run against the same centroid must not duplicate the gate
	// and must not walk the binding back down the ladder.
	result, err := MaterializePhysical("evt-1", []model.ClusterCandidate{entranceCandidate(0.78, 40)},
		*defaultThresholds(), catalog, checkins)
	require.NoError(t, err)

	assert.Zero(t, result.GatesCreated)
	assert.Equal(t, 1, result.GatesUpdated)
	require.Len(t, catalog.gates, 1)
	assert.InDelta(t, 0.78, catalog.gates[0].Confidence, 1e-9)
	assert.Equal(t, gatemodel.GateStatusProbation, catalog.gates[0].Status)

	require.Len(t, catalog.bindings, 1)
	binding := catalog.bindings[0]
	assert.Equal(t, gatemodel.BindingStatusEnforced, binding.Status)
	assert.InDelta(t, 0.90, binding.Confidence, 1e-9)
	assert.Equal(t, 100, binding.SampleCount)
}

func TestMaterializePhysicalPreservesManualName(t *testing.T) {
	lat, lon := 40.7128, -74.0060
	catalog := &fakeCatalog{thresholds: defaultThresholds()}
	catalog.gates = append(catalog.gates, gatemodel.Gate{
		GateID:    "gate-manual",
		EventID:   "evt-1",
		Name:      "Main Entrance",
		Latitude:  &lat,
		Longitude: &lon,
		Status:    gatemodel.GateStatusActive,
	})

	_, err := MaterializePhysical("evt-1", []model.ClusterCandidate{entranceCandidate(0.85, 30)},
		*defaultThresholds(), catalog, &fakeCheckins{})
	require.NoError(t, err)

	require.Len(t, catalog.gates, 1)
	assert.Equal(t, "Main Entrance", catalog.gates[0].Name)
	assert.InDelta(t, 0.85, catalog.gates[0].Confidence, 1e-9)
}

func TestMaterializePhysicalRefreshesAutoCreatedName(t *testing.T) {
	lat, lon := 40.7128, -74.0060
	catalog := &fakeCatalog{thresholds: defaultThresholds()}
	// Auto-created gate carrying a stale generated name from an earlier run.
	catalog.gates = append(catalog.gates, gatemodel.Gate{
		GateID:      "gate-auto",
		EventID:     "evt-1",
		Name:        "Gate 7",
		Latitude:    &lat,
		Longitude:   &lon,
		Status:      gatemodel.GateStatusProbation,
		AutoCreated: true,
	})

	_, err := MaterializePhysical("evt-1", []model.ClusterCandidate{entranceCandidate(0.85, 30)},
		*defaultThresholds(), catalog, &fakeCheckins{})
	require.NoError(t, err)

	require.Len(t, catalog.gates, 1)
	assert.Equal(t, "gate-auto", catalog.gates[0].GateID)
	assert.Equal(t, "Gate 1", catalog.gates[0].Name)
}

func TestMaterializeVirtualCreatesGatesAndAssignsByCategory(t *testing.T) {
	now := time.Now()
	catalog := &fakeCatalog{thresholds: defaultThresholds()}
	checkins := &fakeCheckins{}
	checkins.checkins = append(checkins.checkins,
		mkCheckinNoGPS("v1", "b1", "VIP", now),
		mkCheckinNoGPS("v2", "b2", "VIP", now),
		mkCheckinNoGPS("s1", "b3", "Staff", now),
	)

	candidates := []model.CategoryCandidate{
		{Category: "VIP", SampleCount: 45, DistinctBands: 45, ActiveHours: 2, Confidence: 0.85},
		{Category: "Staff", SampleCount: 15, DistinctBands: 15, ActiveHours: 2, Confidence: 0.68},
	}
	result, err := MaterializeVirtual("evt-1", candidates, catalog, checkins)
	require.NoError(t, err)

	assert.Equal(t, 2, result.GatesCreated)
	assert.Equal(t, 3, result.CheckinsAssigned)
	require.Len(t, catalog.gates, 2)

	vip, staff := catalog.gates[0], catalog.gates[1]
	assert.Equal(t, "VIP Virtual Gate", vip.Name)
	assert.Equal(t, gatemodel.GateStatusActive, vip.Status)
	assert.False(t, vip.IsPhysical())
	assert.Equal(t, "Staff Virtual Gate", staff.Name)
	assert.Equal(t, gatemodel.GateStatusProbation, staff.Status)

	require.Len(t, catalog.bindings, 2)
	assert.Equal(t, gatemodel.BindingStatusProbation, catalog.bindings[0].Status)
	assert.Equal(t, gatemodel.BindingStatusUnbound, catalog.bindings[1].Status)

	require.NotNil(t, checkins.checkins[0].GateID)
	assert.Equal(t, vip.GateID, *checkins.checkins[0].GateID)
	require.NotNil(t, checkins.checkins[2].GateID)
	assert.Equal(t, staff.GateID, *checkins.checkins[2].GateID)
}

func TestMaterializeVirtualMatchesExistingGateBySubstring(t *testing.T) {
	catalog := &fakeCatalog{thresholds: defaultThresholds()}
	catalog.gates = append(catalog.gates, gatemodel.Gate{
		GateID:  "gate-vip",
		EventID: "evt-1",
		Name:    "VIP Entrance",
		Status:  gatemodel.GateStatusProbation,
	})

	result, err := MaterializeVirtual("evt-1", []model.CategoryCandidate{
		{Category: "VIP", SampleCount: 50, DistinctBands: 50, ActiveHours: 4, Confidence: 0.88},
	}, catalog, &fakeCheckins{})
	require.NoError(t, err)

	assert.Zero(t, result.GatesCreated)
	assert.Equal(t, 1, result.GatesUpdated)
	require.Len(t, catalog.gates, 1)
	assert.Equal(t, "VIP Entrance", catalog.gates[0].Name)
	assert.Equal(t, gatemodel.GateStatusActive, catalog.gates[0].Status)
}

func TestUpsertBindingLadder(t *testing.T) {
	now := time.Now().UTC()

	t.Run("rejected stays rejected", func(t *testing.T) {
		catalog := &fakeCatalog{}
		catalog.bindings = append(catalog.bindings, gatemodel.GateBinding{
			BindingID:  "b1",
			GateID:     "g1",
			Category:   "General",
			Status:     gatemodel.BindingStatusRejected,
			Confidence: 0.40,
		})
		require.NoError(t, upsertBinding(catalog, "g1", "General", 0.95, 20, now))
		assert.Equal(t, gatemodel.BindingStatusRejected, catalog.bindings[0].Status)
		assert.InDelta(t, 0.95, catalog.bindings[0].Confidence, 1e-9)
	})

	t.Run("status climbs but never descends", func(t *testing.T) {
		catalog := &fakeCatalog{}
		require.NoError(t, upsertBinding(catalog, "g1", "General", 0.70, 10, now))
		assert.Equal(t, gatemodel.BindingStatusUnbound, catalog.bindings[0].Status)

		require.NoError(t, upsertBinding(catalog, "g1", "General", 0.80, 10, now))
		assert.Equal(t, gatemodel.BindingStatusProbation, catalog.bindings[0].Status)

		require.NoError(t, upsertBinding(catalog, "g1", "General", 0.60, 10, now))
		assert.Equal(t, gatemodel.BindingStatusProbation, catalog.bindings[0].Status)
		assert.InDelta(t, 0.80, catalog.bindings[0].Confidence, 1e-9)
		assert.Equal(t, 30, catalog.bindings[0].SampleCount)
	})

	t.Run("empty category is a no-op", func(t *testing.T) {
		catalog := &fakeCatalog{}
		require.NoError(t, upsertBinding(catalog, "g1", "", 0.95, 20, now))
		assert.Empty(t, catalog.bindings)
	})
}
