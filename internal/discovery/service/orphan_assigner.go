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
	"math"
	"time"

	checkinmodel "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/checkins/model"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/discovery/model"
	gatemodel "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/gates/model"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/constants"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/log"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/metrics"
)

const (
	// assignmentConfidenceFloor rejects candidates below it.
	assignmentConfidenceFloor = 0.50
	// temporalPatternConfidence is the fixed confidence of the lowest-priority
	// strategy.
	temporalPatternConfidence = 0.70
	// temporalPatternWindow bounds how far apart two check-ins may be for the
	// temporal strategy to link them.
	temporalPatternWindow = 5 * time.Minute
	// enforcedBindingBoost multiplies GPS-proximity confidence when the gate
	// already carries an enforceable binding for the orphan's category.
	enforcedBindingBoost = 1.2
)

type assignmentCandidate struct {
	gateID     string
	method     string
	confidence float64
	distance   *float64
	timeDelta  time.Duration
}

// methodPriority breaks confidence ties deterministically.
func methodPriority(method string) int {
	switch method {
	case MethodGPSProximity:
		return 0
	case MethodCategoryMatch:
		return 1
	default:
		return 2
	}
}

// AssignOrphans attaches gates to check-ins that survived the pipeline
// unassigned, keeping per check-in the single best candidate from three
// independent strategies. Already-assigned check-ins are never overwritten.
func AssignOrphans(eventId string, checkins CheckinSource, catalog GateCatalog) (*model.AssignmentReport, error) {
	logger := log.GetLogger()
	report := &model.AssignmentReport{
		EventID:   eventId,
		ByMethod:  map[string]int{},
		Timestamp: time.Now().UTC(),
	}

	orphans, err := checkins.UnassignedCheckins(eventId)
	if err != nil {
		return nil, err
	}
	report.Orphans = len(orphans)
	if len(orphans) == 0 {
		return report, nil
	}

	gates, err := catalog.GatesByEvent(eventId)
	if err != nil {
		return nil, err
	}
	bindings := map[string][]gatemodel.GateBinding{}
	for _, gate := range gates {
		list, err := catalog.BindingsByGate(gate.GateID)
		if err != nil {
			return nil, err
		}
		bindings[gate.GateID] = list
	}

	all, err := checkins.CheckinsByEvent(eventId)
	if err != nil {
		return nil, err
	}
	var assignedPeers []checkinmodel.Checkin
	for _, checkin := range all {
		if checkin.Assigned() {
			assignedPeers = append(assignedPeers, checkin)
		}
	}

	confidenceSum := 0.0
	for _, orphan := range orphans {
		if orphan.Status != constants.CheckinStatusSuccess {
			continue
		}
		var candidates []assignmentCandidate
		candidates = append(candidates, gpsProximityCandidates(orphan, gates, bindings)...)
		candidates = append(candidates, categoryMatchCandidates(orphan, gates, bindings)...)
		candidates = append(candidates, temporalPatternCandidates(orphan, assignedPeers)...)

		best := pickBest(candidates)
		if best == nil || best.confidence < assignmentConfidenceFloor {
			continue
		}
		applied, err := checkins.Assign(orphan.CheckinID, best.gateID, checkinmodel.AssignmentNote{
			Method:         best.method,
			Confidence:     best.confidence,
			DistanceMeters: best.distance,
			AssignedAt:     time.Now().UTC().Format(time.RFC3339),
		})
		if err != nil {
			return nil, err
		}
		if !applied {
			continue
		}
		report.Assigned++
		report.ByMethod[best.method]++
		confidenceSum += best.confidence
		metrics.CheckinsAssigned.WithLabelValues(best.method).Inc()
	}
	if report.Assigned > 0 {
		report.AvgConfidence = confidenceSum / float64(report.Assigned)
	}

	logger.Info("Orphan assignment pass finished",
		log.String("eventId", eventId),
		log.Int("orphans", report.Orphans),
		log.Int("assigned", report.Assigned))
	return report, nil
}

// gpsProximityCandidates proposes physical gates within a radius scaled by
// the fix accuracy. Confidence decays linearly with distance and gets a boost
// when the gate already has an enforceable binding for the orphan's category.
func gpsProximityCandidates(orphan checkinmodel.Checkin, gates []gatemodel.Gate,
	bindings map[string][]gatemodel.GateBinding) []assignmentCandidate {

	if !HasUsableGPS(orphan) {
		return nil
	}
	accuracy := *orphan.Accuracy
	radius := math.Max(100, 5*accuracy)

	var candidates []assignmentCandidate
	for _, gate := range gates {
		if !gate.IsPhysical() {
			continue
		}
		distance := haversineMeters(*orphan.Latitude, *orphan.Longitude, *gate.Latitude, *gate.Longitude)
		if distance > radius {
			continue
		}
		confidence := math.Max(0, 1-distance/(3*accuracy))
		if hasEnforceableBinding(bindings[gate.GateID], orphan.Category) {
			confidence = math.Min(1, confidence*enforcedBindingBoost)
		}
		d := distance
		candidates = append(candidates, assignmentCandidate{
			gateID:     gate.GateID,
			method:     MethodGPSProximity,
			confidence: confidence,
			distance:   &d,
		})
	}
	return candidates
}

// categoryMatchCandidates proposes virtual gates whose enforceable binding
// covers the orphan's category, at the binding's stored confidence.
func categoryMatchCandidates(orphan checkinmodel.Checkin, gates []gatemodel.Gate,
	bindings map[string][]gatemodel.GateBinding) []assignmentCandidate {

	if orphan.Category == "" {
		return nil
	}
	var candidates []assignmentCandidate
	for _, gate := range gates {
		if gate.IsPhysical() {
			continue
		}
		for _, binding := range bindings[gate.GateID] {
			if binding.Category == orphan.Category && binding.Enforceable() {
				candidates = append(candidates, assignmentCandidate{
					gateID:     gate.GateID,
					method:     MethodCategoryMatch,
					confidence: binding.Confidence,
				})
			}
		}
	}
	return candidates
}

// temporalPatternCandidates infers a gate from already-assigned check-ins of
// the same category, same clock hour and within the pattern window, made by a
// different attendee.
func temporalPatternCandidates(orphan checkinmodel.Checkin, peers []checkinmodel.Checkin) []assignmentCandidate {
	if orphan.Category == "" {
		return nil
	}
	orphanHour := orphan.CheckinTime.UTC().Truncate(time.Hour)

	var candidates []assignmentCandidate
	for _, peer := range peers {
		if peer.Category != orphan.Category || peer.WristbandID == orphan.WristbandID {
			continue
		}
		if !peer.CheckinTime.UTC().Truncate(time.Hour).Equal(orphanHour) {
			continue
		}
		delta := orphan.CheckinTime.Sub(peer.CheckinTime)
		if delta < 0 {
			delta = -delta
		}
		if delta > temporalPatternWindow {
			continue
		}
		candidates = append(candidates, assignmentCandidate{
			gateID:     *peer.GateID,
			method:     MethodTemporalPattern,
			confidence: temporalPatternConfidence,
			timeDelta:  delta,
		})
	}
	return candidates
}

// pickBest orders candidates by confidence, then method priority, then
// smallest time delta, then gate id, and returns the winner.
func pickBest(candidates []assignmentCandidate) *assignmentCandidate {
	var best *assignmentCandidate
	for i := range candidates {
		c := &candidates[i]
		if best == nil || betterCandidate(c, best) {
			best = c
		}
	}
	return best
}

func betterCandidate(a, b *assignmentCandidate) bool {
	if a.confidence != b.confidence {
		return a.confidence > b.confidence
	}
	if methodPriority(a.method) != methodPriority(b.method) {
		return methodPriority(a.method) < methodPriority(b.method)
	}
	if a.timeDelta != b.timeDelta {
		return a.timeDelta < b.timeDelta
	}
	return a.gateID < b.gateID
}

func hasEnforceableBinding(bindings []gatemodel.GateBinding, category string) bool {
	for _, binding := range bindings {
		if binding.Category == category && binding.Enforceable() {
			return true
		}
	}
	return false
}
