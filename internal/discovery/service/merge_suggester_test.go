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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gatemodel "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/gates/model"
)

func TestSuggestMergesCloseGatePair(t *testing.T) {
	catalog := &fakeCatalog{thresholds: defaultThresholds()}
	// Roughly eight meters apart.
	catalog.gates = append(catalog.gates,
		physicalGate("gate-b", 40.7128, -74.0060),
		physicalGate("gate-a", 40.7128+8.0/111320.0, -74.0060),
	)

	suggested, err := SuggestMerges("evt-1", 25, catalog)
	require.NoError(t, err)
	assert.Equal(t, 1, suggested)

	require.Len(t, catalog.suggestions, 1)
	suggestion := catalog.suggestions[0]
	assert.Equal(t, "gate-a", suggestion.PrimaryGateID)
	assert.Equal(t, "gate-b", suggestion.SecondaryGateID)
	assert.InDelta(t, 0.98, suggestion.Confidence, 1e-9)
	assert.InDelta(t, 8, suggestion.DistanceMeters, 0.5)
	assert.Equal(t, gatemodel.MergeStatusPending, suggestion.Status)
	assert.Contains(t, suggestion.Reason, "m apart")
}

func TestSuggestMergesRefreshesExistingPair(t *testing.T) {
	catalog := &fakeCatalog{thresholds: defaultThresholds()}
	catalog.gates = append(catalog.gates,
		physicalGate("gate-a", 40.7128, -74.0060),
		physicalGate("gate-b", 40.7128+12.0/111320.0, -74.0060),
	)

	_, err := SuggestMerges("evt-1", 25, catalog)
	require.NoError(t, err)
	require.Len(t, catalog.suggestions, 1)
	first := catalog.suggestions[0]
	assert.InDelta(t, 0.92, first.Confidence, 1e-9)

	// The pair drifts closer on the next run: same row, refreshed numbers.
	lat := 40.7128 + 5.0/111320.0
	catalog.gates[1].Latitude = &lat
	suggested, err := SuggestMerges("evt-1", 25, catalog)
	require.NoError(t, err)

	assert.Equal(t, 1, suggested)
	require.Len(t, catalog.suggestions, 1)
	assert.Equal(t, first.SuggestionID, catalog.suggestions[0].SuggestionID)
	assert.InDelta(t, 0.98, catalog.suggestions[0].Confidence, 1e-9)
	assert.InDelta(t, 5, catalog.suggestions[0].DistanceMeters, 0.5)
}

func TestSuggestMergesIgnoresDistantAndVirtualGates(t *testing.T) {
	catalog := &fakeCatalog{thresholds: defaultThresholds()}
	catalog.gates = append(catalog.gates,
		physicalGate("gate-a", 40.7128, -74.0060),
		physicalGate("gate-b", 40.7150, -74.0060),
		gatemodel.Gate{GateID: "gate-vip", EventID: "evt-1", Name: "VIP Virtual Gate"},
	)

	suggested, err := SuggestMerges("evt-1", 25, catalog)
	require.NoError(t, err)
	assert.Zero(t, suggested)
	assert.Empty(t, catalog.suggestions)
}

func TestMergeConfidenceSteps(t *testing.T) {
	assert.InDelta(t, 0.98, mergeConfidence(5), 1e-9)
	assert.InDelta(t, 0.92, mergeConfidence(12), 1e-9)
	assert.InDelta(t, 0.85, mergeConfidence(17), 1e-9)
	assert.InDelta(t, 0.75, mergeConfidence(23), 1e-9)
}
