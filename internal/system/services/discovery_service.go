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

	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/discovery/handler"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/constants"
)

// DiscoveryService handles routing for the discovery pipeline endpoints.
type DiscoveryService struct {
	discoveryHandler *handler.DiscoveryHandler
}

// NewDiscoveryService creates a new DiscoveryService instance.
func NewDiscoveryService() *DiscoveryService {
	return &DiscoveryService{
		discoveryHandler: handler.NewDiscoveryHandler(),
	}
}

// Route dispatches discovery pipeline requests.
func (s *DiscoveryService) Route(w http.ResponseWriter, r *http.Request) {

	path := strings.TrimPrefix(r.URL.Path, constants.ApiBasePath)
	path = strings.TrimSuffix(path, "/")
	method := r.Method

	switch {
	case method == http.MethodPost && strings.HasPrefix(path, "/events/") && strings.HasSuffix(path, "/discovery"):
		s.discoveryHandler.RunDiscovery(w, r)

	case method == http.MethodPost && strings.HasPrefix(path, "/events/") && strings.HasSuffix(path, "/assignments"):
		s.discoveryHandler.AssignOrphans(w, r)

	case method == http.MethodGet && strings.HasPrefix(path, "/events/") && strings.HasSuffix(path, "/quality"):
		s.discoveryHandler.QualityReport(w, r)

	default:
		http.NotFound(w, r)
	}
}
