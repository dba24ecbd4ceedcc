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

package provider

import (
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/gates/service"
)

// GateProviderInterface defines the interface for the gate provider.
type GateProviderInterface interface {
	GetGateService() service.GateServiceInterface
}

// GateProvider is the default implementation of the GateProviderInterface.
type GateProvider struct{}

// NewGateProvider creates a new instance of GateProvider.
func NewGateProvider() GateProviderInterface {

	return &GateProvider{}
}

// GetGateService returns the gate service instance.
func (gp *GateProvider) GetGateService() service.GateServiceInterface {

	return service.GetGateService()
}
