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
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/checkins/model"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/database/client"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/database/provider"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/log"
)

func TestMain(m *testing.M) {
	os.Setenv("TEST_MODE", "true")
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

func newMockDB(t *testing.T) sqlmock.Sqlmock {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	provider.SetDBClientForTest(client.NewDBClient(db))
	t.Cleanup(func() {
		provider.SetDBClientForTest(nil)
		_ = db.Close()
	})
	return mock
}

var checkinColumns = []string{"checkin_id", "event_id", "wristband_id", "staff_id", "checkin_time",
	"latitude", "longitude", "accuracy", "latency_ms", "status", "category", "gate_id", "metadata"}

func TestGetCheckinsByEventRowMapping(t *testing.T) {
	mock := newMockDB(t)
	at := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT checkin_id, event_id, wristband_id").
		WithArgs("evt-1").
		WillReturnRows(sqlmock.NewRows(checkinColumns).
			AddRow("c1", "evt-1", "band-1", "staff-7", at, 40.7128, -74.0060, 8.0, int64(120), "success", "VIP", nil,
				`{"gate_assignment":{"method":"gps_proximity","confidence":0.9}}`).
			AddRow("c2", "evt-1", "band-2", "", at.Add(time.Minute), nil, nil, nil, int64(95), "failed", "", "gate-1", ""))

	checkins, err := GetCheckinsByEvent("evt-1")
	require.NoError(t, err)
	require.Len(t, checkins, 2)

	first := checkins[0]
	assert.Equal(t, "c1", first.CheckinID)
	assert.Equal(t, "staff-7", first.StaffID)
	assert.Equal(t, at, first.CheckinTime)
	require.NotNil(t, first.Latitude)
	assert.InDelta(t, 40.7128, *first.Latitude, 1e-9)
	require.NotNil(t, first.Accuracy)
	assert.Equal(t, 120, first.LatencyMs)
	assert.Nil(t, first.GateID)
	require.Contains(t, first.Metadata, "gate_assignment")

	second := checkins[1]
	assert.False(t, second.HasCoordinates())
	assert.True(t, second.Assigned())
	assert.Equal(t, "gate-1", *second.GateID)
	assert.Nil(t, second.Metadata)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignGateApplied(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery("UPDATE checkins SET gate_id").
		WithArgs("c1", "gate-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"checkin_id"}).AddRow("c1"))

	applied, err := AssignGate("c1", "gate-1", model.AssignmentNote{Method: "gps_proximity", Confidence: 0.9})
	require.NoError(t, err)
	assert.True(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignGateAlreadyAssigned(t *testing.T) {
	mock := newMockDB(t)
	// The guarded update returns no row when gate_id is already set.
	mock.ExpectQuery("UPDATE checkins SET gate_id").
		WithArgs("c1", "gate-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"checkin_id"}))

	applied, err := AssignGate("c1", "gate-1", model.AssignmentNote{Method: "gps_proximity", Confidence: 0.9})
	require.NoError(t, err)
	assert.False(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountCheckinsByEvent(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) AS total`).
		WithArgs("evt-1").
		WillReturnRows(sqlmock.NewRows([]string{"total", "successful", "unassigned"}).AddRow(int64(120), int64(110), int64(15)))

	total, successful, unassigned, err := CountCheckinsByEvent("evt-1")
	require.NoError(t, err)
	assert.Equal(t, 120, total)
	assert.Equal(t, 110, successful)
	assert.Equal(t, 15, unassigned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetActiveEventIds(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery("SELECT DISTINCT event_id FROM checkins").
		WillReturnRows(sqlmock.NewRows([]string{"event_id"}).AddRow("evt-1").AddRow("evt-2"))

	eventIds, err := GetActiveEventIds()
	require.NoError(t, err)
	assert.Equal(t, []string{"evt-1", "evt-2"}, eventIds)
	assert.NoError(t, mock.ExpectationsWereMet())
}
