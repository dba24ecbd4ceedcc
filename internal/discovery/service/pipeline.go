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
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	checkinmodel "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/checkins/model"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/discovery/model"
	gatemodel "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/gates/model"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/config"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/constants"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/database/lock"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/errors"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/log"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/metrics"
)

const (
	// persistenceAttempts bounds retries around catalog writes before the run
	// is reported failed.
	persistenceAttempts = 3
	retryBackoff        = 100 * time.Millisecond

	// Insufficient-data cutoffs for the quality gate.
	minSufficientCheckins = 50
	minGoodGPSRatio       = 0.20

	// scoringWorkers bounds the parallel per-cluster scoring fan-out.
	scoringWorkers = 4
)

// DiscoveryServiceInterface defines the discovery invocation surface.
type DiscoveryServiceInterface interface {
	RunDiscovery(eventId string, dryRun bool) (*model.PipelineReport, error)
	AssignOrphans(eventId string) (*model.AssignmentReport, error)
	QualityReport(eventId string) (*model.DataQualityReport, error)
}

// DiscoveryService orchestrates the full discovery pipeline for one event at
// a time. Runs for the same event are serialized through an advisory lock;
// runs for different events are independent.
type DiscoveryService struct {
	Checkins CheckinSource
	Catalog  GateCatalog
	Locker   lock.DistributedLock
}

// NewDiscoveryService wires the store-backed collaborators.
func NewDiscoveryService() *DiscoveryService {
	return &DiscoveryService{
		Checkins: DBCheckinSource{},
		Catalog:  DBGateCatalog{},
		Locker:   lock.NewPostgresLock(),
	}
}

// RunDiscovery executes the pipeline for one event: quality gate, gate-type
// selection, clustering or segmentation, scoring, materialization, orphan
// assignment and merge suggestion, then records the run and returns the
// structured report. Dry-run mode stops after scoring and previews the
// outcome without mutating the catalog.
func (s *DiscoveryService) RunDiscovery(eventId string, dryRun bool) (*model.PipelineReport, error) {
	logger := log.GetLogger()
	started := time.Now().UTC()

	lockKey := constants.DiscoveryLockPrefix + eventId
	acquired, err := s.Locker.Acquire(lockKey)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, errors.NewClientError(errors.EVENT_RUN_IN_PROGRESS, http.StatusConflict)
	}
	defer func() {
		if err := s.Locker.Release(lockKey); err != nil {
			logger.Warn("Failed to release discovery lock", log.String("eventId", eventId), log.Error(err))
		}
	}()

	report, err := s.runLocked(eventId, dryRun, started)
	outcome := model.OutcomeFailed
	if report != nil {
		outcome = report.Outcome
	}
	metrics.PipelineRuns.WithLabelValues(outcome).Inc()
	metrics.RunDuration.Observe(float64(time.Since(started).Milliseconds()))

	if report != nil {
		s.recordRun(eventId, dryRun, started, report)
	}
	return report, err
}

func (s *DiscoveryService) runLocked(eventId string, dryRun bool, started time.Time) (*model.PipelineReport, error) {
	logger := log.GetLogger()
	report := &model.PipelineReport{
		EventID:   eventId,
		DryRun:    dryRun,
		Timestamp: started,
	}

	thresholds, err := s.thresholds(eventId)
	if err != nil {
		return nil, err
	}

	all, err := s.Checkins.CheckinsByEvent(eventId)
	if err != nil {
		return nil, err
	}

	quality := BuildQualityReport(eventId, all)
	report.QualityReport = quality
	if !quality.Sufficient {
		report.Outcome = model.OutcomeInsufficientData
		report.Recommendations = []string{
			"accumulate more check-ins with usable GPS before the next discovery run",
		}
		logger.Info("Discovery aborted on quality gate",
			log.String("eventId", eventId),
			log.Int("totalCheckins", quality.TotalCheckins),
			log.Int("goodGps", quality.GoodGPS))
		return report, nil
	}

	valid := successfulOnly(all)
	usable := RejectOutliers(FilterUsableGPS(valid))
	lowVariance := locationVarianceLow(usable, thresholds.MaxLocationVariance)

	physical := ClusterByLocation(usable, thresholds.MinCheckinsForGate)
	scoreClustersParallel(physical)
	physical = filterClusters(physical)

	virtual := SegmentByCategory(valid)
	for i := range virtual {
		ScoreCategory(&virtual[i], len(valid), lowVariance)
	}
	virtual = filterCategories(virtual)

	gateType := SelectGateType(SelectionInput{
		Physical:           physical,
		Virtual:            virtual,
		VarianceExceeds:    !lowVariance,
		TotalCheckins:      quality.TotalCheckins,
		DistinctCategories: quality.DistinctCategories,
	})
	report.GateType = gateType
	report.AvgConfidence = selectedMeanConfidence(gateType, physical, virtual)

	if dryRun {
		report.Success = true
		report.Outcome = model.OutcomeDryRun
		if gateType == model.GateTypePhysical {
			report.GatesCreated = len(physical)
		} else {
			report.GatesCreated = len(virtual)
		}
		report.Recommendations = []string{"re-run without dryRun to materialize the previewed gates"}
		return report, nil
	}

	var materialized MaterializationResult
	err = withRetries(persistenceAttempts, func() error {
		var innerErr error
		if gateType == model.GateTypePhysical {
			materialized, innerErr = MaterializePhysical(eventId, physical, *thresholds, s.Catalog, s.Checkins)
		} else {
			materialized, innerErr = MaterializeVirtual(eventId, virtual, s.Catalog, s.Checkins)
		}
		return innerErr
	})
	if err != nil {
		report.Outcome = model.OutcomeFailed
		report.Error = err.Error()
		return report, err
	}
	report.GatesCreated = materialized.GatesCreated
	report.GatesUpdated = materialized.GatesUpdated
	report.CheckinsAssigned = materialized.CheckinsAssigned

	var assignment *model.AssignmentReport
	err = withRetries(persistenceAttempts, func() error {
		var innerErr error
		assignment, innerErr = AssignOrphans(eventId, s.Checkins, s.Catalog)
		return innerErr
	})
	if err != nil {
		report.Outcome = model.OutcomeFailed
		report.Error = err.Error()
		return report, err
	}
	report.CheckinsAssigned += assignment.Assigned

	err = withRetries(persistenceAttempts, func() error {
		_, innerErr := SuggestMerges(eventId, thresholds.DuplicateDistanceMeters, s.Catalog)
		return innerErr
	})
	if err != nil {
		report.Outcome = model.OutcomeFailed
		report.Error = err.Error()
		return report, err
	}

	summary, err := s.catalogSummary(eventId)
	if err != nil {
		return nil, err
	}
	report.CatalogSummary = summary
	report.Recommendations = buildRecommendations(summary, assignment)
	report.Success = true
	report.Outcome = model.OutcomeCompleted

	logger.Info("Discovery pipeline finished",
		log.String("eventId", eventId),
		log.String("gateType", gateType),
		log.Int("gatesCreated", report.GatesCreated),
		log.Int("gatesUpdated", report.GatesUpdated),
		log.Int("checkinsAssigned", report.CheckinsAssigned))
	return report, nil
}

// AssignOrphans runs the orphan assignment pass alone, serialized under the
// same per-event lock as a full run.
func (s *DiscoveryService) AssignOrphans(eventId string) (*model.AssignmentReport, error) {
	lockKey := constants.DiscoveryLockPrefix + eventId
	acquired, err := s.Locker.Acquire(lockKey)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, errors.NewClientError(errors.EVENT_RUN_IN_PROGRESS, http.StatusConflict)
	}
	defer func() {
		if err := s.Locker.Release(lockKey); err != nil {
			log.GetLogger().Warn("Failed to release discovery lock", log.String("eventId", eventId), log.Error(err))
		}
	}()

	var report *model.AssignmentReport
	err = withRetries(persistenceAttempts, func() error {
		var innerErr error
		report, innerErr = AssignOrphans(eventId, s.Checkins, s.Catalog)
		return innerErr
	})
	return report, err
}

// QualityReport computes the data-quality report without running the
// pipeline.
func (s *DiscoveryService) QualityReport(eventId string) (*model.DataQualityReport, error) {
	all, err := s.Checkins.CheckinsByEvent(eventId)
	if err != nil {
		return nil, err
	}
	return BuildQualityReport(eventId, all), nil
}

// BuildQualityReport summarizes GPS coverage and accuracy spread for an
// event's check-in stream and applies the insufficient-data cutoff.
func BuildQualityReport(eventId string, checkins []checkinmodel.Checkin) *model.DataQualityReport {
	report := &model.DataQualityReport{
		EventID:              eventId,
		TotalCheckins:        len(checkins),
		AccuracyDistribution: map[string]int{},
	}
	categories := map[string]bool{}
	for _, checkin := range checkins {
		if checkin.Category != "" {
			categories[checkin.Category] = true
		}
		if !checkin.HasCoordinates() {
			continue
		}
		report.WithCoordinates++
		if checkin.Accuracy != nil {
			report.AccuracyDistribution[accuracyBucket(*checkin.Accuracy)]++
		}
		if HasUsableGPS(checkin) {
			report.GoodGPS++
		}
	}
	report.DistinctCategories = len(categories)
	if report.TotalCheckins > 0 {
		report.GPSCoveragePct = 100 * float64(report.GoodGPS) / float64(report.TotalCheckins)
	}
	goodRatio := 0.0
	if report.TotalCheckins > 0 {
		goodRatio = float64(report.GoodGPS) / float64(report.TotalCheckins)
	}
	report.Sufficient = !(report.TotalCheckins < minSufficientCheckins && goodRatio < minGoodGPSRatio)
	return report
}

func accuracyBucket(accuracy float64) string {
	switch {
	case accuracy <= 10:
		return "0-10m"
	case accuracy <= 25:
		return "10-25m"
	case accuracy <= 50:
		return "25-50m"
	case accuracy <= 100:
		return "50-100m"
	default:
		return ">100m"
	}
}

func (s *DiscoveryService) thresholds(eventId string) (*model.AdaptiveThreshold, error) {
	override, err := s.Catalog.Thresholds(eventId)
	if err != nil {
		return nil, err
	}
	if override == nil {
		discovery := config.GetGDSRuntime().Config.Discovery
		override = &model.AdaptiveThreshold{
			EventID:                 eventId,
			DuplicateDistanceMeters: discovery.DuplicateDistanceMeters,
			PromotionSampleSize:     discovery.PromotionSampleSize,
			ConfidenceThreshold:     discovery.ConfidenceThreshold,
			MinCheckinsForGate:      discovery.MinCheckinsForGate,
			MaxLocationVariance:     discovery.MaxLocationVariance,
		}
	}
	if err := override.Validate(); err != nil {
		return nil, errors.NewClientError(errors.INVALID_THRESHOLDS, http.StatusBadRequest)
	}
	return override, nil
}

func (s *DiscoveryService) catalogSummary(eventId string) (*model.CatalogSummary, error) {
	gates, err := s.Catalog.GatesByEvent(eventId)
	if err != nil {
		return nil, err
	}
	suggestions, err := s.Catalog.MergeSuggestionsByEvent(eventId)
	if err != nil {
		return nil, err
	}
	summary := &model.CatalogSummary{TotalGates: len(gates)}
	for _, gate := range gates {
		switch gate.Status {
		case gatemodel.GateStatusActive:
			summary.ActiveGates++
		case gatemodel.GateStatusProbation:
			summary.ProbationGates++
		}
		if !gate.IsPhysical() {
			summary.VirtualGates++
		}
	}
	for _, suggestion := range suggestions {
		if suggestion.Status == gatemodel.MergeStatusPending {
			summary.PendingMergeSuggestions++
		}
	}
	return summary, nil
}

func (s *DiscoveryService) recordRun(eventId string, dryRun bool, started time.Time, report *model.PipelineReport) {
	payload, err := json.Marshal(report)
	if err != nil {
		log.GetLogger().Warn("Failed to serialize pipeline report", log.Error(err))
		payload = []byte("{}")
	}
	err = withRetries(persistenceAttempts, func() error {
		return s.Catalog.RecordRun(model.PipelineRun{
			RunID:      uuid.New().String(),
			EventID:    eventId,
			DryRun:     dryRun,
			StartedAt:  started,
			FinishedAt: time.Now().UTC(),
			Outcome:    report.Outcome,
			Report:     string(payload),
		})
	})
	if err != nil {
		log.GetLogger().Error("Failed to record pipeline run", log.String("eventId", eventId), log.Error(err))
	}
}

// scoreClustersParallel scores candidates with a bounded worker fan-out.
// Results land at the candidate's own index, so the merge is deterministic
// regardless of scheduling.
func scoreClustersParallel(candidates []model.ClusterCandidate) {
	if len(candidates) == 0 {
		return
	}
	workers := scoringWorkers
	if len(candidates) < workers {
		workers = len(candidates)
	}
	indexes := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indexes {
				ScoreCluster(&candidates[i])
			}
		}()
	}
	for i := range candidates {
		indexes <- i
	}
	close(indexes)
	wg.Wait()
}

// filterClusters drops candidates under the physical floor and orders the
// survivors deterministically: confidence descending, then sample count,
// then centroid.
func filterClusters(candidates []model.ClusterCandidate) []model.ClusterCandidate {
	var kept []model.ClusterCandidate
	for _, candidate := range candidates {
		if MeetsFloor(candidate.Confidence, model.GateTypePhysical) {
			kept = append(kept, candidate)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Confidence != kept[j].Confidence {
			return kept[i].Confidence > kept[j].Confidence
		}
		if kept[i].SampleCount != kept[j].SampleCount {
			return kept[i].SampleCount > kept[j].SampleCount
		}
		if kept[i].Latitude != kept[j].Latitude {
			return kept[i].Latitude < kept[j].Latitude
		}
		return kept[i].Longitude < kept[j].Longitude
	})
	return kept
}

func filterCategories(candidates []model.CategoryCandidate) []model.CategoryCandidate {
	var kept []model.CategoryCandidate
	for _, candidate := range candidates {
		if MeetsFloor(candidate.Confidence, model.GateTypeVirtual) {
			kept = append(kept, candidate)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Confidence != kept[j].Confidence {
			return kept[i].Confidence > kept[j].Confidence
		}
		return kept[i].Category < kept[j].Category
	})
	return kept
}

func selectedMeanConfidence(gateType string, physical []model.ClusterCandidate, virtual []model.CategoryCandidate) float64 {
	if gateType == model.GateTypePhysical {
		return meanClusterConfidence(physical)
	}
	return meanCategoryConfidence(virtual)
}

// locationVarianceLow reports whether the event-wide coordinate spread is
// too small for GPS to separate locations.
func locationVarianceLow(checkins []checkinmodel.Checkin, maxLocationVariance float64) bool {
	if len(checkins) == 0 {
		return true
	}
	_, latStd := meanAndStdDev(checkins, func(c checkinmodel.Checkin) float64 { return *c.Latitude })
	_, lonStd := meanAndStdDev(checkins, func(c checkinmodel.Checkin) float64 { return *c.Longitude })
	return latStd < maxLocationVariance && lonStd < maxLocationVariance
}

func buildRecommendations(summary *model.CatalogSummary, assignment *model.AssignmentReport) []string {
	var recommendations []string
	if assignment != nil && assignment.Orphans > assignment.Assigned {
		recommendations = append(recommendations,
			fmt.Sprintf("re-run assignment for the %d remaining orphan check-ins", assignment.Orphans-assignment.Assigned))
	}
	if summary.PendingMergeSuggestions > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("review %d pending merge suggestions", summary.PendingMergeSuggestions))
	}
	if summary.ProbationGates > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("%d gates remain in probation pending more check-in volume", summary.ProbationGates))
	}
	return recommendations
}

func successfulOnly(checkins []checkinmodel.Checkin) []checkinmodel.Checkin {
	var kept []checkinmodel.Checkin
	for _, checkin := range checkins {
		if checkin.Status == constants.CheckinStatusSuccess {
			kept = append(kept, checkin)
		}
	}
	return kept
}

func withRetries(attempts int, op func() error) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		if attempt < attempts {
			time.Sleep(time.Duration(attempt) * retryBackoff)
		}
	}
	return err
}
