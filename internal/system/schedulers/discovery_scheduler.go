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

package schedulers

import (
	"encoding/json"
	"time"

	checkinstore "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/checkins/store"
	gatemodel "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/gates/model"
	gatestore "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/gates/store"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/bus"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/cache"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/config"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/constants"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/log"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/workers"
)

// gateCatalogCache avoids refetching the gate list for every recorded
// check-in. Entries are dropped whenever a run is queued, and the inflight
// dedup in the worker pool tolerates a stale read in between.
var gateCatalogCache = cache.NewCache(30 * time.Second)

// StartDiscoveryScheduler starts the trigger policy loop: a bus consumer
// counts recorded check-ins per event, and a periodic sweep evaluates every
// active event against the volume thresholds. Returns a stop function.
func StartDiscoveryScheduler(subscriber bus.Subscriber, cfg config.SchedulerConfig) func() {

	logger := log.GetLogger()
	stopCh := make(chan struct{})

	if subscriber != nil {
		events, cancel, err := subscriber.Subscribe(constants.SubjectCheckinRecorded)
		if err != nil {
			logger.Error("Failed to subscribe to check-in events, falling back to sweep only", log.Error(err))
		} else {
			go func() {
				defer cancel()
				for {
					select {
					case payload, ok := <-events:
						if !ok {
							return
						}
						onCheckinRecorded(payload, cfg)
					case <-stopCh:
						return
					}
				}
			}()
		}
	}

	go func() {
		ticker := time.NewTicker(time.Duration(cfg.SweepIntervalSeconds) * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sweep(cfg)
			case <-stopCh:
				return
			}
		}
	}()

	return func() { close(stopCh) }
}

// onCheckinRecorded reacts to a single ingestion event. The counters come
// from the store rather than in-memory state, so the policy survives process
// restarts and multiple scheduler replicas agree.
func onCheckinRecorded(payload []byte, cfg config.SchedulerConfig) {

	logger := log.GetLogger()
	var event bus.CheckinRecorded
	if err := json.Unmarshal(payload, &event); err != nil {
		logger.Warn("Dropping malformed check-in event", log.Error(err))
		return
	}
	if event.EventID == "" || event.Status != constants.CheckinStatusSuccess {
		return
	}
	evaluateEvent(event.EventID, cfg)
}

// sweep evaluates every event with recent check-ins. It backstops the bus
// consumer for events whose ingestion predates this process.
func sweep(cfg config.SchedulerConfig) {

	logger := log.GetLogger()
	eventIds, err := checkinstore.GetActiveEventIds()
	if err != nil {
		logger.Error("Scheduler sweep failed to list active events", log.Error(err))
		return
	}
	for _, eventId := range eventIds {
		evaluateEvent(eventId, cfg)
	}
}

func evaluateEvent(eventId string, cfg config.SchedulerConfig) {

	logger := log.GetLogger()
	_, successful, unassigned, err := checkinstore.CountCheckinsByEvent(eventId)
	if err != nil {
		logger.Error("Scheduler failed to count check-ins", log.String("eventId", eventId), log.Error(err))
		return
	}
	gates, err := gatesForEvent(eventId)
	if err != nil {
		logger.Error("Scheduler failed to fetch gates", log.String("eventId", eventId), log.Error(err))
		return
	}

	switch {
	// Initial discovery once enough check-ins accumulate with no catalog yet.
	case len(gates) == 0 && successful >= cfg.InitialTrigger:
		if workers.EnqueueDiscoveryRun(workers.RunRequest{EventID: eventId}) {
			gateCatalogCache.Delete(eventId)
			logger.Info("Queued initial discovery run",
				log.String("eventId", eventId), log.Int("successfulCheckins", successful))
		}

	// Re-run materialization on every volume interval.
	case len(gates) > 0 && successful > 0 && successful%cfg.RerunInterval == 0:
		if workers.EnqueueDiscoveryRun(workers.RunRequest{EventID: eventId}) {
			gateCatalogCache.Delete(eventId)
			logger.Info("Queued discovery re-run",
				log.String("eventId", eventId), log.Int("successfulCheckins", successful))
		}

	// Orphan assignment when enough unassigned check-ins pile up.
	case len(gates) > 0 && unassigned >= cfg.OrphanMinimum && unassigned%cfg.OrphanInterval == 0:
		if workers.EnqueueDiscoveryRun(workers.RunRequest{EventID: eventId, AssignOnly: true}) {
			gateCatalogCache.Delete(eventId)
			logger.Info("Queued orphan assignment pass",
				log.String("eventId", eventId), log.Int("unassigned", unassigned))
		}
	}
}

func gatesForEvent(eventId string) ([]gatemodel.Gate, error) {

	if cached, ok := gateCatalogCache.Get(eventId); ok {
		return cached.([]gatemodel.Gate), nil
	}
	gates, err := gatestore.GetGatesByEvent(eventId)
	if err != nil {
		return nil, err
	}
	gateCatalogCache.Set(eventId, gates)
	return gates, nil
}
