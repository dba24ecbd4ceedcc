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

package services

import (
	"net/http"
	"strings"

	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/gates/handler"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/constants"
)

// GateService handles routing for the gate catalog endpoints.
type GateService struct {
	gateHandler *handler.GateHandler
}

// NewGateService creates a new GateService instance.
func NewGateService() *GateService {
	return &GateService{
		gateHandler: handler.NewGateHandler(),
	}
}

// Route dispatches gate catalog requests.
func (s *GateService) Route(w http.ResponseWriter, r *http.Request) {

	path := strings.TrimPrefix(r.URL.Path, constants.ApiBasePath)
	path = strings.TrimSuffix(path, "/")
	method := r.Method

	switch {
	case method == http.MethodGet && strings.HasPrefix(path, "/events/") && strings.HasSuffix(path, "/gates"):
		s.gateHandler.GetGatesByEvent(w, r)

	case method == http.MethodGet && strings.HasPrefix(path, "/events/") && strings.HasSuffix(path, "/merge-suggestions"):
		s.gateHandler.GetMergeSuggestions(w, r)

	case method == http.MethodGet && strings.HasPrefix(path, "/gates/"):
		s.gateHandler.GetGate(w, r)

	case method == http.MethodPatch && strings.HasPrefix(path, "/gates/"):
		s.gateHandler.UpdateGateStatus(w, r)

	case method == http.MethodPost && strings.HasPrefix(path, "/merge-suggestions/") && strings.HasSuffix(path, "/review"):
		s.gateHandler.ReviewMergeSuggestion(w, r)

	default:
		http.NotFound(w, r)
	}
}
