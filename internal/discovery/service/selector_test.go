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

	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/discovery/model"
)

func clusterWithConfidence(confidence float64) model.ClusterCandidate {
	return model.ClusterCandidate{Confidence: confidence}
}

func TestSelectGateTypeNoClustersGoesVirtual(t *testing.T) {
	got := SelectGateType(SelectionInput{
		Virtual:            []model.CategoryCandidate{{Category: "VIP", Confidence: 0.85}},
		TotalCheckins:      40,
		DistinctCategories: 2,
	})
	assert.Equal(t, model.GateTypeVirtual, got)
}

func TestSelectGateTypeSingleStrongClusterGoesPhysical(t *testing.T) {
	// One tight cluster, one category: GPS is the only signal worth acting
	// on even though the event-wide variance is tiny.
	got := SelectGateType(SelectionInput{
		Physical:           []model.ClusterCandidate{clusterWithConfidence(0.90)},
		TotalCheckins:      60,
		DistinctCategories: 1,
		VarianceExceeds:    false,
	})
	assert.Equal(t, model.GateTypePhysical, got)
}

func TestSelectGateTypeColocatedCategoriesGoVirtual(t *testing.T) {
	// Two categories checked in at the same spot: coordinates cannot tell
	// them apart, the category split can.
	got := SelectGateType(SelectionInput{
		Physical:           []model.ClusterCandidate{clusterWithConfidence(0.88)},
		Virtual:            []model.CategoryCandidate{{Category: "VIP", Confidence: 0.85}, {Category: "Staff", Confidence: 0.68}},
		TotalCheckins:      75,
		DistinctCategories: 2,
		VarianceExceeds:    false,
	})
	assert.Equal(t, model.GateTypeVirtual, got)
}

func TestSelectGateTypeSpreadClustersGoPhysical(t *testing.T) {
	got := SelectGateType(SelectionInput{
		Physical: []model.ClusterCandidate{
			clusterWithConfidence(0.88),
			clusterWithConfidence(0.82),
			clusterWithConfidence(0.79),
		},
		Virtual:            []model.CategoryCandidate{{Category: "VIP", Confidence: 0.90}},
		TotalCheckins:      200,
		DistinctCategories: 3,
		VarianceExceeds:    true,
	})
	assert.Equal(t, model.GateTypePhysical, got)
}

func TestSelectGateTypeWeakClustersFallBackToVirtual(t *testing.T) {
	got := SelectGateType(SelectionInput{
		Physical: []model.ClusterCandidate{
			clusterWithConfidence(0.62),
			clusterWithConfidence(0.65),
		},
		Virtual:            []model.CategoryCandidate{{Category: "VIP", Confidence: 0.80}},
		TotalCheckins:      120,
		DistinctCategories: 1,
		VarianceExceeds:    true,
	})
	assert.Equal(t, model.GateTypeVirtual, got)
}

func TestSelectGateTypeSmallSplitEventGoesVirtual(t *testing.T) {
	got := SelectGateType(SelectionInput{
		Physical:           []model.ClusterCandidate{clusterWithConfidence(0.85)},
		Virtual:            []model.CategoryCandidate{{Category: "VIP", Confidence: 0.80}, {Category: "Staff", Confidence: 0.70}},
		TotalCheckins:      40,
		DistinctCategories: 2,
		VarianceExceeds:    true,
	})
	assert.Equal(t, model.GateTypeVirtual, got)
}
