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

package workers

import (
	"sync"

	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/discovery/provider"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/bus"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/constants"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/log"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/metrics"
)

// RunRequest is one unit of discovery work for an event.
type RunRequest struct {
	EventID    string
	AssignOnly bool
}

var (
	RunQueue chan RunRequest

	publisher bus.Publisher = bus.NoopPublisher{}

	inflightMu sync.Mutex
	inflight   = map[string]bool{}
)

// StartDiscoveryWorkers starts the pool consuming the run queue. Each event
// has at most one queued-or-running request at a time; the advisory lock in
// the pipeline is the backstop for writers outside this process. Completed
// runs are announced on the bus through pub.
func StartDiscoveryWorkers(workerCount int, pub bus.Publisher) {

	if pub != nil {
		publisher = pub
	}
	RunQueue = make(chan RunRequest, constants.DefaultQueueSize)

	for i := 0; i < workerCount; i++ {
		go func() {
			for request := range RunQueue {
				process(request)
				inflightMu.Lock()
				delete(inflight, request.EventID)
				inflightMu.Unlock()
				updateQueueGauge()
			}
		}()
	}
}

// EnqueueDiscoveryRun queues a run for the event unless one is already queued
// or running. Returns whether the request was accepted.
func EnqueueDiscoveryRun(request RunRequest) bool {

	if RunQueue == nil {
		return false
	}
	inflightMu.Lock()
	if inflight[request.EventID] {
		inflightMu.Unlock()
		return false
	}
	inflight[request.EventID] = true
	inflightMu.Unlock()

	select {
	case RunQueue <- request:
		updateQueueGauge()
		return true
	default:
		inflightMu.Lock()
		delete(inflight, request.EventID)
		inflightMu.Unlock()
		log.GetLogger().Warn("Discovery run queue full, dropping request",
			log.String("eventId", request.EventID))
		return false
	}
}

func process(request RunRequest) {

	logger := log.GetLogger()
	discoveryService := provider.NewDiscoveryProvider().GetDiscoveryService()

	if request.AssignOnly {
		if _, err := discoveryService.AssignOrphans(request.EventID); err != nil {
			logger.Error("Scheduled orphan assignment failed",
				log.String("eventId", request.EventID), log.Error(err))
		}
		return
	}
	report, err := discoveryService.RunDiscovery(request.EventID, false)
	if err != nil {
		logger.Error("Scheduled discovery run failed",
			log.String("eventId", request.EventID), log.Error(err))
		return
	}
	if err := publisher.Publish(constants.SubjectDiscoveryCompleted, bus.DiscoveryCompleted{
		EventID:      request.EventID,
		Outcome:      report.Outcome,
		GateType:     report.GateType,
		GatesCreated: report.GatesCreated,
		GatesUpdated: report.GatesUpdated,
	}); err != nil {
		logger.Warn("Failed to publish discovery completion",
			log.String("eventId", request.EventID), log.Error(err))
	}
}

func updateQueueGauge() {
	if RunQueue != nil {
		metrics.QueueUtilization.Set(float64(len(RunQueue)) / float64(cap(RunQueue)))
	}
}
