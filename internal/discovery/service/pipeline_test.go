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
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	checkinmodel "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/checkins/model"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/discovery/model"
	gatemodel "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/gates/model"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/errors"
)

func newTestService(checkins *fakeCheckins, catalog *fakeCatalog) *DiscoveryService {
	return &DiscoveryService{
		Checkins: checkins,
		Catalog:  catalog,
		Locker:   &fakeLock{},
	}
}

func TestRunDiscoveryInsufficientData(t *testing.T) {
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	checkins := &fakeCheckins{}
	for i := 0; i < 30; i++ {
		checkins.checkins = append(checkins.checkins,
			mkCheckinNoGPS(fmt.Sprintf("c-%d", i), fmt.Sprintf("b-%d", i), "General", start.Add(time.Duration(i)*time.Minute)))
	}
	catalog := &fakeCatalog{thresholds: defaultThresholds()}
	service := newTestService(checkins, catalog)

	report, err := service.RunDiscovery("evt-1", false)
	require.NoError(t, err)

	assert.False(t, report.Success)
	assert.Equal(t, model.OutcomeInsufficientData, report.Outcome)
	assert.NotEmpty(t, report.Recommendations)
	require.NotNil(t, report.QualityReport)
	assert.False(t, report.QualityReport.Sufficient)
	assert.Zero(t, report.QualityReport.GoodGPS)

	assert.Empty(t, catalog.gates)
	require.Len(t, catalog.runs, 1)
	assert.Equal(t, model.OutcomeInsufficientData, catalog.runs[0].Outcome)
}

func TestRunDiscoveryPhysicalEndToEnd(t *testing.T) {
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	checkins := &fakeCheckins{checkins: tightCluster(60, "General", 40.7128, -74.0060, 8, start, 6*time.Hour)}
	catalog := &fakeCatalog{thresholds: defaultThresholds()}
	service := newTestService(checkins, catalog)

	report, err := service.RunDiscovery("evt-1", false)
	require.NoError(t, err)

	assert.True(t, report.Success)
	assert.Equal(t, model.OutcomeCompleted, report.Outcome)
	assert.Equal(t, model.GateTypePhysical, report.GateType)
	assert.Equal(t, 1, report.GatesCreated)
	assert.Equal(t, 60, report.CheckinsAssigned)
	assert.InDelta(t, 0.90, report.AvgConfidence, 1e-9)

	require.Len(t, catalog.gates, 1)
	gate := catalog.gates[0]
	assert.Equal(t, gatemodel.GateStatusActive, gate.Status)
	assert.True(t, gate.AutoCreated)
	require.Len(t, catalog.bindings, 1)
	assert.Equal(t, gatemodel.BindingStatusEnforced, catalog.bindings[0].Status)

	for _, checkin := range checkins.checkins {
		require.NotNil(t, checkin.GateID)
		assert.Equal(t, gate.GateID, *checkin.GateID)
	}

	require.NotNil(t, report.CatalogSummary)
	assert.Equal(t, 1, report.CatalogSummary.ActiveGates)
	assert.Zero(t, report.CatalogSummary.PendingMergeSuggestions)
}

func TestRunDiscoverySecondRunUpdatesInPlace(t *testing.T) {
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	checkins := &fakeCheckins{checkins: tightCluster(60, "General", 40.7128, -74.0060, 8, start, 6*time.Hour)}
	catalog := &fakeCatalog{thresholds: defaultThresholds()}
	service := newTestService(checkins, catalog)

	_, err := service.RunDiscovery("evt-1", false)
	require.NoError(t, err)

	report, err := service.RunDiscovery("evt-1", false)
	require.NoError(t, err)

	assert.Zero(t, report.GatesCreated)
	assert.Equal(t, 1, report.GatesUpdated)
	assert.Len(t, catalog.gates, 1)
	assert.Len(t, catalog.bindings, 1)
	assert.Len(t, catalog.runs, 2)
}

func TestRunDiscoveryDryRunLeavesCatalogUntouched(t *testing.T) {
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	checkins := &fakeCheckins{checkins: tightCluster(60, "General", 40.7128, -74.0060, 8, start, 6*time.Hour)}
	catalog := &fakeCatalog{thresholds: defaultThresholds()}
	service := newTestService(checkins, catalog)

	report, err := service.RunDiscovery("evt-1", true)
	require.NoError(t, err)

	assert.True(t, report.Success)
	assert.Equal(t, model.OutcomeDryRun, report.Outcome)
	assert.Equal(t, model.GateTypePhysical, report.GateType)
	assert.Equal(t, 1, report.GatesCreated)

	assert.Empty(t, catalog.gates)
	assert.Empty(t, catalog.bindings)
	for _, checkin := range checkins.checkins {
		assert.Nil(t, checkin.GateID)
	}

	// Dry runs still leave an audit trail.
	require.Len(t, catalog.runs, 1)
	assert.True(t, catalog.runs[0].DryRun)
}

func TestRunDiscoveryVirtualForColocatedCategories(t *testing.T) {
	start := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)
	checkins := &fakeCheckins{}
	checkins.checkins = append(checkins.checkins, tightCluster(45, "VIP", 40.7128, -74.0060, 8, start, time.Hour)...)
	checkins.checkins = append(checkins.checkins, tightCluster(30, "Staff", 40.7128, -74.0060, 8, start, time.Hour)...)
	catalog := &fakeCatalog{thresholds: defaultThresholds()}
	service := newTestService(checkins, catalog)

	report, err := service.RunDiscovery("evt-1", false)
	require.NoError(t, err)

	assert.Equal(t, model.GateTypeVirtual, report.GateType)
	assert.Equal(t, 2, report.GatesCreated)
	assert.Equal(t, 75, report.CheckinsAssigned)

	require.Len(t, catalog.gates, 2)
	vip, staff := catalog.gates[0], catalog.gates[1]
	assert.Equal(t, "VIP Virtual Gate", vip.Name)
	assert.Equal(t, gatemodel.GateStatusActive, vip.Status)
	assert.Equal(t, "Staff Virtual Gate", staff.Name)
	assert.Equal(t, gatemodel.GateStatusProbation, staff.Status)
	assert.Greater(t, vip.Confidence, staff.Confidence)
}

func TestRunDiscoveryConflictsWhileRunInProgress(t *testing.T) {
	service := &DiscoveryService{
		Checkins: &fakeCheckins{},
		Catalog:  &fakeCatalog{thresholds: defaultThresholds()},
		Locker:   &fakeLock{busy: true},
	}

	_, err := service.RunDiscovery("evt-1", false)
	require.Error(t, err)
	var clientErr *errors.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, http.StatusConflict, clientErr.StatusCode)
}

func TestRunDiscoveryRejectsInvalidThresholds(t *testing.T) {
	catalog := &fakeCatalog{thresholds: &model.AdaptiveThreshold{
		EventID:                 "evt-1",
		DuplicateDistanceMeters: -5,
	}}
	service := newTestService(&fakeCheckins{checkins: tightCluster(60, "General", 40.7128, -74.0060, 8, time.Now(), 6*time.Hour)}, catalog)

	_, err := service.RunDiscovery("evt-1", false)
	require.Error(t, err)
	var clientErr *errors.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, http.StatusBadRequest, clientErr.StatusCode)
}

func TestAssignOrphansServiceHonorsLock(t *testing.T) {
	service := &DiscoveryService{
		Checkins: &fakeCheckins{},
		Catalog:  &fakeCatalog{thresholds: defaultThresholds()},
		Locker:   &fakeLock{busy: true},
	}
	_, err := service.AssignOrphans("evt-1")
	require.Error(t, err)
}

func TestAssignOrphansServiceSurvivesReleaseFailure(t *testing.T) {
	// A failed lock release is logged, not surfaced: the pass already ran.
	service := &DiscoveryService{
		Checkins: &fakeCheckins{},
		Catalog:  &fakeCatalog{thresholds: defaultThresholds()},
		Locker:   &fakeLock{releaseErr: fmt.Errorf("session gone")},
	}
	report, err := service.AssignOrphans("evt-1")
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Zero(t, report.Orphans)
}

func TestBuildQualityReport(t *testing.T) {
	now := time.Now()
	checkins := []checkinmodel.Checkin{
		mkCheckin("c1", "b1", "General", 40.7128, -74.0060, 8, now),
		mkCheckin("c2", "b2", "VIP", 40.7128, -74.0060, 20, now),
		mkCheckin("c3", "b3", "General", 40.7128, -74.0060, 120, now),
		mkCheckinNoGPS("c4", "b4", "General", now),
	}

	report := BuildQualityReport("evt-1", checkins)
	assert.Equal(t, 4, report.TotalCheckins)
	assert.Equal(t, 3, report.WithCoordinates)
	assert.Equal(t, 2, report.GoodGPS)
	assert.Equal(t, 2, report.DistinctCategories)
	assert.Equal(t, 1, report.AccuracyDistribution["0-10m"])
	assert.Equal(t, 1, report.AccuracyDistribution["10-25m"])
	assert.Equal(t, 1, report.AccuracyDistribution[">100m"])
	assert.InDelta(t, 50.0, report.GPSCoveragePct, 1e-9)

	// Small event with mostly usable GPS still clears the gate.
	assert.True(t, report.Sufficient)
}

func TestBuildQualityReportInsufficient(t *testing.T) {
	now := time.Now()
	var checkins []checkinmodel.Checkin
	for i := 0; i < 40; i++ {
		checkins = append(checkins, mkCheckinNoGPS(fmt.Sprintf("c-%d", i), fmt.Sprintf("b-%d", i), "General", now))
	}
	checkins = append(checkins, mkCheckin("good", "b-good", "General", 40.7128, -74.0060, 8, now))

	report := BuildQualityReport("evt-1", checkins)
	assert.False(t, report.Sufficient)
}

func TestLocationVarianceLow(t *testing.T) {
	now := time.Now()
	colocated := tightCluster(10, "General", 40.7128, -74.0060, 8, now, time.Hour)
	assert.True(t, locationVarianceLow(colocated, 0.0001))

	spread := append(tightCluster(5, "General", 40.7128, -74.0060, 8, now, time.Hour),
		tightCluster(5, "General", 40.7228, -74.0060, 8, now, time.Hour)...)
	assert.False(t, locationVarianceLow(spread, 0.0001))
}
