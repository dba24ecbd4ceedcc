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

import "sync"

// GDSRuntime holds the runtime configuration for the gate discovery server.
type GDSRuntime struct {
	GDSHome string `yaml:"gds_home"`
	Config  Config `yaml:"config"`
}

var (
	runtimeConfig *GDSRuntime
	once          sync.Once
)

// InitializeGDSRuntime initializes the GDSRuntime configuration.
func InitializeGDSRuntime(gdsHome string, config *Config) error {

	once.Do(func() {
		runtimeConfig = &GDSRuntime{
			GDSHome: gdsHome,
			Config:  *config,
		}
	})

	return nil
}

// GetGDSRuntime returns the GDSRuntime configuration.
func GetGDSRuntime() *GDSRuntime {

	if runtimeConfig == nil {
		panic("GDSRuntime is not initialized")
	}
	return runtimeConfig
}

// OverrideGDSRuntime replaces the runtime configuration. Intended for tests.
func OverrideGDSRuntime(conf Config) {
	runtimeConfig = &GDSRuntime{
		Config: conf,
	}
}
