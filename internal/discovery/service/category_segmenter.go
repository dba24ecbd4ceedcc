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
	"time"

	checkinmodel "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/checkins/model"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/discovery/model"
)

// minCategorySampleSize is the smallest category worth a virtual gate.
const minCategorySampleSize = 5

// SegmentByCategory groups check-ins by ticket category and builds a virtual
// gate candidate per category with enough presence. Output order follows the
// first appearance of each category in the input.
func SegmentByCategory(checkins []checkinmodel.Checkin) []model.CategoryCandidate {
	type segment struct {
		members []checkinmodel.Checkin
	}
	index := map[string]int{}
	var order []string
	segments := map[string]*segment{}
	for _, checkin := range checkins {
		if checkin.Category == "" {
			continue
		}
		if _, ok := index[checkin.Category]; !ok {
			index[checkin.Category] = len(order)
			order = append(order, checkin.Category)
			segments[checkin.Category] = &segment{}
		}
		segments[checkin.Category].members = append(segments[checkin.Category].members, checkin)
	}

	var candidates []model.CategoryCandidate
	for _, category := range order {
		members := segments[category].members
		if len(members) < minCategorySampleSize {
			continue
		}
		candidate := model.CategoryCandidate{
			Category:    category,
			SampleCount: len(members),
		}
		bands := map[string]bool{}
		hours := map[time.Time]bool{}
		for i, member := range members {
			bands[member.WristbandID] = true
			hours[member.CheckinTime.UTC().Truncate(time.Hour)] = true
			if i == 0 || member.CheckinTime.Before(candidate.FirstSeen) {
				candidate.FirstSeen = member.CheckinTime
			}
			if i == 0 || member.CheckinTime.After(candidate.LastSeen) {
				candidate.LastSeen = member.CheckinTime
			}
		}
		candidate.DistinctBands = len(bands)
		candidate.ActiveHours = len(hours)
		candidates = append(candidates, candidate)
	}
	return candidates
}
