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
	"strings"
	"time"

	"github.com/google/uuid"

	checkinmodel "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/checkins/model"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/discovery/model"
	gatemodel "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/gates/model"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/log"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/metrics"
)

// Assignment method tags recorded in check-in audit annotations and metrics.
const (
	MethodProximityReassignment = "proximity_reassignment"
	MethodCategoryReassignment  = "category_reassignment"
	MethodGPSProximity          = "gps_proximity"
	MethodCategoryMatch         = "category_match"
	MethodTemporalPattern       = "temporal_pattern"
)

// MaterializationResult summarizes the catalog writes of one run.
type MaterializationResult struct {
	GatesCreated     int
	GatesUpdated     int
	CheckinsAssigned int
}

// MaterializePhysical reconciles scored cluster candidates against the
// persisted catalog: nearest existing physical gate within the duplicate
// distance is updated in place, otherwise a new auto-created gate is
// inserted. Each gate's dominant-category binding moves up the confidence
// ladder, and unassigned check-ins near the refreshed centroid are swept in.
func MaterializePhysical(eventId string, candidates []model.ClusterCandidate,
	thresholds model.AdaptiveThreshold, catalog GateCatalog, checkins CheckinSource) (MaterializationResult, error) {

	var result MaterializationResult
	existing, err := catalog.GatesByEvent(eventId)
	if err != nil {
		return result, err
	}

	unassigned, err := checkins.UnassignedCheckins(eventId)
	if err != nil {
		return result, err
	}

	now := time.Now().UTC()
	for i, candidate := range candidates {
		// Candidates arrive in deterministic order, so the rank-based name is
		// the canonical auto name for this run.
		name := fmt.Sprintf("Gate %d", i+1)
		match := nearestPhysicalGate(existing, candidate.Latitude, candidate.Longitude, thresholds.DuplicateDistanceMeters)

		gate, created := reconcilePhysicalGate(eventId, candidate, match, name, now)
		if created {
			if err := catalog.InsertGate(gate); err != nil {
				return result, err
			}
			existing = append(existing, gate)
			result.GatesCreated++
			metrics.GatesCreated.Inc()
		} else {
			if err := catalog.UpdateGate(gate); err != nil {
				return result, err
			}
			result.GatesUpdated++
			metrics.GatesUpdated.Inc()
		}

		if err := upsertBinding(catalog, gate.GateID, candidate.DominantCategory,
			candidate.Confidence, candidate.SampleCount, now); err != nil {
			return result, err
		}

		assigned, err := reassignNearby(checkins, unassigned, gate, candidate.Confidence, thresholds.DuplicateDistanceMeters)
		if err != nil {
			return result, err
		}
		result.CheckinsAssigned += assigned
	}
	return result, nil
}

// MaterializeVirtual reconciles scored category candidates: an existing
// virtual gate matches by exact name or by category substring, otherwise a
// new one is inserted. Unassigned check-ins of the matching category are
// swept in.
func MaterializeVirtual(eventId string, candidates []model.CategoryCandidate,
	catalog GateCatalog, checkins CheckinSource) (MaterializationResult, error) {

	var result MaterializationResult
	existing, err := catalog.GatesByEvent(eventId)
	if err != nil {
		return result, err
	}
	unassigned, err := checkins.UnassignedCheckins(eventId)
	if err != nil {
		return result, err
	}

	now := time.Now().UTC()
	for _, candidate := range candidates {
		name := fmt.Sprintf("%s Virtual Gate", candidate.Category)
		match := matchVirtualGate(existing, name, candidate.Category)

		status := gatemodel.GateStatusProbation
		if candidate.Confidence >= 0.80 {
			status = gatemodel.GateStatusActive
		}
		fresh := gatemodel.GateMetadata{
			SampleCount:   candidate.SampleCount,
			ActiveHours:   candidate.ActiveHours,
			LastDerivedAt: now.Format(time.RFC3339),
		}

		var gate gatemodel.Gate
		if match != nil {
			gate = *match
			if gate.AutoCreated {
				gate.Name = name
			}
			gate.Status = status
			gate.Confidence = candidate.Confidence
			gate.Metadata = fresh.Merge(gate.Metadata)
			gate.UpdatedAt = now
			if err := catalog.UpdateGate(gate); err != nil {
				return result, err
			}
			result.GatesUpdated++
			metrics.GatesUpdated.Inc()
		} else {
			gate = gatemodel.Gate{
				GateID:           uuid.New().String(),
				EventID:          eventId,
				Name:             name,
				Status:           status,
				DerivationMethod: gatemodel.DerivationCategorySegmentation,
				Confidence:       candidate.Confidence,
				AutoCreated:      true,
				Metadata:         fresh,
				CreatedAt:        now,
				UpdatedAt:        now,
			}
			if err := catalog.InsertGate(gate); err != nil {
				return result, err
			}
			existing = append(existing, gate)
			result.GatesCreated++
			metrics.GatesCreated.Inc()
		}

		if err := upsertBinding(catalog, gate.GateID, candidate.Category,
			candidate.Confidence, candidate.SampleCount, now); err != nil {
			return result, err
		}

		for _, orphan := range unassigned {
			if orphan.Category != candidate.Category || orphan.Assigned() {
				continue
			}
			applied, err := checkins.Assign(orphan.CheckinID, gate.GateID, checkinmodel.AssignmentNote{
				Method:     MethodCategoryReassignment,
				Confidence: candidate.Confidence,
				AssignedAt: now.Format(time.RFC3339),
			})
			if err != nil {
				return result, err
			}
			if applied {
				result.CheckinsAssigned++
				metrics.CheckinsAssigned.WithLabelValues(MethodCategoryReassignment).Inc()
			}
		}
	}
	return result, nil
}

func reconcilePhysicalGate(eventId string, candidate model.ClusterCandidate,
	match *gatemodel.Gate, name string, now time.Time) (gatemodel.Gate, bool) {

	status := gatemodel.GateStatusProbation
	if candidate.Confidence >= 0.80 {
		status = gatemodel.GateStatusActive
	}
	lat, lon := candidate.Latitude, candidate.Longitude
	fresh := gatemodel.GateMetadata{
		TemporalConsistency: candidate.TemporalConsistency,
		CategoryEntropy:     candidate.CategoryEntropy,
		SampleCount:         candidate.SampleCount,
		DominantCategory:    candidate.DominantCategory,
		ActiveHours:         candidate.ActiveHours,
		LastDerivedAt:       now.Format(time.RFC3339),
	}

	if match != nil {
		gate := *match
		if gate.AutoCreated {
			gate.Name = name
		}
		gate.Latitude = &lat
		gate.Longitude = &lon
		gate.Status = status
		gate.Confidence = candidate.Confidence
		gate.Purity = candidate.Purity
		gate.SpatialVariance = candidate.SpatialVariance
		gate.Metadata = fresh.Merge(gate.Metadata)
		gate.UpdatedAt = now
		return gate, false
	}
	return gatemodel.Gate{
		GateID:           uuid.New().String(),
		EventID:          eventId,
		Name:             name,
		Latitude:         &lat,
		Longitude:        &lon,
		Status:           status,
		DerivationMethod: gatemodel.DerivationSpatialClustering,
		Confidence:       candidate.Confidence,
		Purity:           candidate.Purity,
		SpatialVariance:  candidate.SpatialVariance,
		AutoCreated:      true,
		Metadata:         fresh,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, true
}

// upsertBinding moves a gate/category binding up the confidence ladder.
// Status never moves down across runs, rejected bindings stay rejected, and
// confidence keeps the greater of the stored and fresh values.
func upsertBinding(catalog GateCatalog, gateId, category string, confidence float64,
	sampleCount int, now time.Time) error {

	if category == "" {
		return nil
	}
	computed := bindingStatusFor(confidence)
	existing, err := catalog.Binding(gateId, category)
	if err != nil {
		return err
	}
	if existing == nil {
		return catalog.InsertBinding(gatemodel.GateBinding{
			BindingID:   uuid.New().String(),
			GateID:      gateId,
			Category:    category,
			Status:      computed,
			SampleCount: sampleCount,
			Confidence:  confidence,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	binding := *existing
	if binding.Status != gatemodel.BindingStatusRejected &&
		gatemodel.BindingStatusRank(computed) > gatemodel.BindingStatusRank(binding.Status) {
		binding.Status = computed
	}
	if confidence > binding.Confidence {
		binding.Confidence = confidence
	}
	binding.SampleCount += sampleCount
	binding.UpdatedAt = now
	return catalog.UpdateBinding(binding)
}

func bindingStatusFor(confidence float64) string {
	switch {
	case confidence >= 0.90:
		return gatemodel.BindingStatusEnforced
	case confidence >= 0.75:
		return gatemodel.BindingStatusProbation
	default:
		return gatemodel.BindingStatusUnbound
	}
}

// reassignNearby sweeps unassigned check-ins within the duplicate distance of
// a refreshed physical centroid onto the gate.
func reassignNearby(checkins CheckinSource, unassigned []checkinmodel.Checkin,
	gate gatemodel.Gate, confidence, radiusMeters float64) (int, error) {

	logger := log.GetLogger()
	assigned := 0
	now := time.Now().UTC().Format(time.RFC3339)
	for _, orphan := range unassigned {
		if !orphan.HasCoordinates() || orphan.Assigned() {
			continue
		}
		distance := haversineMeters(*orphan.Latitude, *orphan.Longitude, *gate.Latitude, *gate.Longitude)
		if distance > radiusMeters {
			continue
		}
		applied, err := checkins.Assign(orphan.CheckinID, gate.GateID, checkinmodel.AssignmentNote{
			Method:         MethodProximityReassignment,
			Confidence:     confidence,
			DistanceMeters: &distance,
			AssignedAt:     now,
		})
		if err != nil {
			return assigned, err
		}
		if applied {
			assigned++
			metrics.CheckinsAssigned.WithLabelValues(MethodProximityReassignment).Inc()
			logger.Debug("Reassigned check-in to refreshed gate centroid",
				log.String("checkinId", orphan.CheckinID),
				log.String("gateId", gate.GateID),
				log.Float("distanceMeters", distance))
		}
	}
	return assigned, nil
}

func nearestPhysicalGate(gates []gatemodel.Gate, lat, lon, maxMeters float64) *gatemodel.Gate {
	var best *gatemodel.Gate
	bestDistance := maxMeters
	for i := range gates {
		gate := &gates[i]
		if !gate.IsPhysical() {
			continue
		}
		distance := haversineMeters(lat, lon, *gate.Latitude, *gate.Longitude)
		if distance <= bestDistance {
			best = gate
			bestDistance = distance
		}
	}
	return best
}

func matchVirtualGate(gates []gatemodel.Gate, name, category string) *gatemodel.Gate {
	loweredCategory := strings.ToLower(category)
	for i := range gates {
		gate := &gates[i]
		if gate.IsPhysical() {
			continue
		}
		if gate.Name == name || strings.Contains(strings.ToLower(gate.Name), loweredCategory) {
			return gate
		}
	}
	return nil
}
