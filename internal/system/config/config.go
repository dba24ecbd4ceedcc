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

type AddrConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type LogConfig struct {
	LogLevel string `yaml:"log_level"`
}

type DataSourceConfig struct {
	Hostname string `yaml:"hostname"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type BusConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// SchedulerConfig carries the reference trigger policy. Thresholds are tunable
// deployment configuration, not invariants.
type SchedulerConfig struct {
	SweepIntervalSeconds int `yaml:"sweep_interval_seconds"`
	InitialTrigger       int `yaml:"initial_trigger"`
	RerunInterval        int `yaml:"rerun_interval"`
	OrphanInterval       int `yaml:"orphan_interval"`
	OrphanMinimum        int `yaml:"orphan_minimum"`
}

// DiscoveryConfig carries the default adaptive thresholds applied to events
// that have no per-event override row.
type DiscoveryConfig struct {
	DuplicateDistanceMeters float64 `yaml:"duplicate_distance_meters"`
	PromotionSampleSize     int     `yaml:"promotion_sample_size"`
	ConfidenceThreshold     float64 `yaml:"confidence_threshold"`
	MinCheckinsForGate      int     `yaml:"min_checkins_for_gate"`
	MaxLocationVariance     float64 `yaml:"max_location_variance"`
	WorkerCount             int     `yaml:"worker_count"`
}

type Config struct {
	Addr       AddrConfig       `yaml:"addr"`
	Log        LogConfig        `yaml:"log"`
	DataSource DataSourceConfig `yaml:"datasource"`
	Bus        BusConfig        `yaml:"bus"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Discovery  DiscoveryConfig  `yaml:"discovery"`
}
