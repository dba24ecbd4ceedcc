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

package store

import (
	"fmt"

	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/discovery/model"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/database/provider"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/database/scripts"
	errors2 "github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/errors"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/log"
)

// RecordPipelineRun persists the audit trail row of a run. The row is written
// for the reporting layer and never read back by the pipeline.
func RecordPipelineRun(run model.PipelineRun) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for recording pipeline run for event: %s", run.EventID)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := scripts.InsertPipelineRun[provider.NewDBProvider().GetDBType()]
	_, err = dbClient.ExecuteQuery(query, run.RunID, run.EventID, run.DryRun, run.StartedAt, run.FinishedAt,
		run.Outcome, run.Report)
	if err != nil {
		errorMsg := fmt.Sprintf("Error occurred while recording pipeline run: %s", run.RunID)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.RECORD_PIPELINE_RUN.Code,
			Message:     errors2.RECORD_PIPELINE_RUN.Message,
			Description: errorMsg,
		}, err)
	}
	return nil
}
