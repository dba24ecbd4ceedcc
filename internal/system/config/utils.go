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

package config

import (
	"fmt"
	"os"
	"path"

	"gopkg.in/yaml.v2"
)

// LoadConfig reads the deployment configuration file, expands environment
// variable references, applies defaults and validates the result.
func LoadConfig(gdsHome, filePath string) (*Config, error) {
	file, err := os.ReadFile(path.Join(gdsHome, filePath))
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(file))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Log.LogLevel == "" {
		cfg.Log.LogLevel = "INFO"
	}
	if cfg.Bus.Subject == "" {
		cfg.Bus.Subject = "gds.checkin.recorded"
	}
	if cfg.Scheduler.SweepIntervalSeconds == 0 {
		cfg.Scheduler.SweepIntervalSeconds = 60
	}
	if cfg.Scheduler.InitialTrigger == 0 {
		cfg.Scheduler.InitialTrigger = 25
	}
	if cfg.Scheduler.RerunInterval == 0 {
		cfg.Scheduler.RerunInterval = 100
	}
	if cfg.Scheduler.OrphanInterval == 0 {
		cfg.Scheduler.OrphanInterval = 50
	}
	if cfg.Scheduler.OrphanMinimum == 0 {
		cfg.Scheduler.OrphanMinimum = 20
	}
	if cfg.Discovery.DuplicateDistanceMeters == 0 {
		cfg.Discovery.DuplicateDistanceMeters = 25
	}
	if cfg.Discovery.PromotionSampleSize == 0 {
		cfg.Discovery.PromotionSampleSize = 100
	}
	if cfg.Discovery.ConfidenceThreshold == 0 {
		cfg.Discovery.ConfidenceThreshold = 0.80
	}
	if cfg.Discovery.MinCheckinsForGate == 0 {
		cfg.Discovery.MinCheckinsForGate = 3
	}
	if cfg.Discovery.MaxLocationVariance == 0 {
		cfg.Discovery.MaxLocationVariance = 0.0001
	}
	if cfg.Discovery.WorkerCount == 0 {
		cfg.Discovery.WorkerCount = 4
	}
}

// Validate rejects invalid configuration before a run can start.
func Validate(cfg *Config) error {
	if cfg.Discovery.DuplicateDistanceMeters < 0 {
		return fmt.Errorf("discovery.duplicate_distance_meters must not be negative")
	}
	if cfg.Discovery.PromotionSampleSize < 0 {
		return fmt.Errorf("discovery.promotion_sample_size must not be negative")
	}
	if cfg.Discovery.ConfidenceThreshold < 0 || cfg.Discovery.ConfidenceThreshold > 1 {
		return fmt.Errorf("discovery.confidence_threshold must be within [0,1]")
	}
	if cfg.Discovery.MinCheckinsForGate < 0 {
		return fmt.Errorf("discovery.min_checkins_for_gate must not be negative")
	}
	if cfg.Discovery.MaxLocationVariance < 0 {
		return fmt.Errorf("discovery.max_location_variance must not be negative")
	}
	if cfg.Scheduler.InitialTrigger < 0 || cfg.Scheduler.RerunInterval < 0 ||
		cfg.Scheduler.OrphanInterval < 0 || cfg.Scheduler.OrphanMinimum < 0 {
		return fmt.Errorf("scheduler thresholds must not be negative")
	}
	return nil
}
