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

package integration

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	checkinstore "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/checkins/store"
	discoverymodel "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/discovery/model"
	discoveryservice "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/discovery/service"
	gatemodel "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/gates/model"
	gatestore "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/gates/store"
)

func seedCheckin(t *testing.T, eventId, category string, lat, lon, accuracy float64, at time.Time) string {
	t.Helper()
	id := uuid.New().String()
	_, err := testDB.Exec(`INSERT INTO checkins (checkin_id, event_id, wristband_id, checkin_time, latitude,
        longitude, accuracy, status, category) VALUES ($1, $2, $3, $4, $5, $6, $7, 'success', $8)`,
		id, eventId, uuid.New().String(), at, lat, lon, accuracy, category)
	require.NoError(t, err)
	return id
}

func seedCheckinNoGPS(t *testing.T, eventId, category string, at time.Time) string {
	t.Helper()
	id := uuid.New().String()
	_, err := testDB.Exec(`INSERT INTO checkins (checkin_id, event_id, wristband_id, checkin_time, status,
        category) VALUES ($1, $2, $3, $4, 'success', $5)`,
		id, eventId, uuid.New().String(), at, category)
	require.NoError(t, err)
	return id
}

func TestDiscoveryPipelinePhysical(t *testing.T) {
	eventId := "evt-it-physical"
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		seedCheckin(t, eventId, "General", 40.7128, -74.0060, 8, start.Add(time.Duration(i)*6*time.Minute))
	}

	service := discoveryservice.NewDiscoveryService()
	report, err := service.RunDiscovery(eventId, false)
	require.NoError(t, err)

	assert.True(t, report.Success)
	assert.Equal(t, discoverymodel.OutcomeCompleted, report.Outcome)
	assert.Equal(t, discoverymodel.GateTypePhysical, report.GateType)
	assert.Equal(t, 1, report.GatesCreated)

	gates, err := gatestore.GetGatesByEvent(eventId)
	require.NoError(t, err)
	require.Len(t, gates, 1)
	gate := gates[0]
	assert.Equal(t, gatemodel.GateStatusActive, gate.Status)
	assert.True(t, gate.AutoCreated)
	require.NotNil(t, gate.Latitude)
	assert.InDelta(t, 40.7128, *gate.Latitude, 1e-6)

	bindings, err := gatestore.GetBindingsByGate(gate.GateID)
	require.NoError(t, err)
	require.Len(t, bindings, 1)
	assert.Equal(t, gatemodel.BindingStatusEnforced, bindings[0].Status)

	_, _, unassigned, err := checkinstore.CountCheckinsByEvent(eventId)
	require.NoError(t, err)
	assert.Zero(t, unassigned)

	var runCount int
	require.NoError(t, testDB.QueryRow(
		`SELECT COUNT(*) FROM pipeline_runs WHERE event_id = $1`, eventId).Scan(&runCount))
	assert.Equal(t, 1, runCount)

	// A second run must update the same gate rather than mint another.
	second, err := service.RunDiscovery(eventId, false)
	require.NoError(t, err)
	assert.Zero(t, second.GatesCreated)
	gates, err = gatestore.GetGatesByEvent(eventId)
	require.NoError(t, err)
	assert.Len(t, gates, 1)
}

func TestDiscoveryPipelineVirtual(t *testing.T) {
	eventId := "evt-it-virtual"
	start := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)
	for i := 0; i < 45; i++ {
		seedCheckin(t, eventId, "VIP", 40.7128, -74.0060, 8, start.Add(time.Duration(i)*80*time.Second))
	}
	for i := 0; i < 30; i++ {
		seedCheckin(t, eventId, "Staff", 40.7128, -74.0060, 8, start.Add(time.Duration(i)*2*time.Minute))
	}

	service := discoveryservice.NewDiscoveryService()
	report, err := service.RunDiscovery(eventId, false)
	require.NoError(t, err)

	assert.Equal(t, discoverymodel.GateTypeVirtual, report.GateType)
	assert.Equal(t, 2, report.GatesCreated)

	gates, err := gatestore.GetGatesByEvent(eventId)
	require.NoError(t, err)
	require.Len(t, gates, 2)
	names := []string{gates[0].Name, gates[1].Name}
	assert.Contains(t, names, "VIP Virtual Gate")
	assert.Contains(t, names, "Staff Virtual Gate")
	for _, gate := range gates {
		assert.False(t, gate.IsPhysical())
	}
}

func TestDiscoveryPipelineInsufficientData(t *testing.T) {
	eventId := "evt-it-sparse"
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 20; i++ {
		seedCheckinNoGPS(t, eventId, "General", start.Add(time.Duration(i)*time.Minute))
	}

	service := discoveryservice.NewDiscoveryService()
	report, err := service.RunDiscovery(eventId, false)
	require.NoError(t, err)

	assert.Equal(t, discoverymodel.OutcomeInsufficientData, report.Outcome)
	gates, err := gatestore.GetGatesByEvent(eventId)
	require.NoError(t, err)
	assert.Empty(t, gates)
}

func TestOrphanAssignmentRun(t *testing.T) {
	eventId := "evt-it-orphans"
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		seedCheckin(t, eventId, "General", 40.7128, -74.0060, 8, start.Add(time.Duration(i)*6*time.Minute))
	}
	service := discoveryservice.NewDiscoveryService()
	_, err := service.RunDiscovery(eventId, false)
	require.NoError(t, err)

	// A latecomer fifteen meters from the discovered gate.
	orphanId := seedCheckin(t, eventId, "General", 40.7128+15.0/111320.0, -74.0060, 20, start.Add(7*time.Hour))

	report, err := service.AssignOrphans(eventId)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Assigned)

	var gateId *string
	require.NoError(t, testDB.QueryRow(
		`SELECT gate_id FROM checkins WHERE checkin_id = $1`, orphanId).Scan(&gateId))
	assert.NotNil(t, gateId)
}

func TestGateStatusReview(t *testing.T) {
	eventId := "evt-it-review"
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		seedCheckin(t, eventId, "General", 40.7128, -74.0060, 8, start.Add(time.Duration(i)*6*time.Minute))
	}
	service := discoveryservice.NewDiscoveryService()
	_, err := service.RunDiscovery(eventId, false)
	require.NoError(t, err)

	gates, err := gatestore.GetGatesByEvent(eventId)
	require.NoError(t, err)
	require.Len(t, gates, 1)

	require.NoError(t, gatestore.UpdateGateStatus(gates[0].GateID, gatemodel.GateStatusInactive))
	gate, err := gatestore.GetGate(gates[0].GateID)
	require.NoError(t, err)
	require.NotNil(t, gate)
	assert.Equal(t, gatemodel.GateStatusInactive, gate.Status)
}

func TestThresholdOverrideRow(t *testing.T) {
	eventId := fmt.Sprintf("evt-it-thresholds-%d", time.Now().UnixNano())
	_, err := testDB.Exec(`INSERT INTO discovery_thresholds (event_id, duplicate_distance_meters,
        promotion_sample_size, confidence_threshold, min_checkins_for_gate, max_location_variance, updated_at)
        VALUES ($1, 40, 150, 0.85, 5, 0.0002, NOW())`, eventId)
	require.NoError(t, err)

	// The run reads the override row before the quality gate; a parse or
	// validation problem would surface as an error here.
	service := discoveryservice.NewDiscoveryService()
	report, err := service.RunDiscovery(eventId, false)
	require.NoError(t, err)
	assert.Equal(t, discoverymodel.OutcomeInsufficientData, report.Outcome)
}
