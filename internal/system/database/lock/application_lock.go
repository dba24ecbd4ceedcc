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

package lock

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/database/client"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/database/provider"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/errors"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/log"
)

// DistributedLock serializes discovery runs per event. The materializer's
// match-then-upsert is read-then-write; concurrent runs for the same event
// would create duplicate gates or double-assign check-ins.
type DistributedLock interface {
	Acquire(key string) (bool, error)
	Release(key string) error
}

// lockSession pins an acquired advisory lock to one database session.
// Advisory locks are session-scoped, so the connection must stay open for
// the whole time the lock is held.
type lockSession struct {
	conn     *sql.Conn
	dbClient client.DBClientInterface
}

func (s *lockSession) close() {
	_ = s.conn.Close()
	_ = s.dbClient.Close()
}

// PostgresLock implements DistributedLock using PostgreSQL advisory locks.
// Each acquired key holds a dedicated session until Release.
type PostgresLock struct {
	mu       sync.Mutex
	sessions map[string]*lockSession
}

func NewPostgresLock() *PostgresLock {
	return &PostgresLock{sessions: map[string]*lockSession{}}
}

// PostgreSQL advisory locks use a single bigint key; string keys are hashed.
func (l *PostgresLock) generateLockKey(key string) (int64, error) {

	h := fnv.New64a()
	_, err := h.Write([]byte(key))
	if err != nil {
		errorMsg := fmt.Sprintf("failed to hash lock key '%s'", key)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return 0, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_KEY_GEN.Code,
			Message:     errors.LOCK_KEY_GEN.Message,
			Description: errorMsg,
		}, err)
	}
	return int64(h.Sum64()), nil
}

func (l *PostgresLock) Acquire(key string) (bool, error) {

	logger := log.GetLogger()
	lockID, err := l.generateLockKey(key)
	if err != nil {
		return false, err
	}
	logger.Debug(fmt.Sprintf("Generated lock id: %d", lockID))

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		errorMsg := "Failed during DB client creation for advisory lock acquiring."
		logger.Error(errorMsg, log.Error(err))
		return false, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.DB_CLIENT_INIT.Code,
			Message:     errors.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}

	conn, err := dbClient.Conn(context.Background())
	if err != nil {
		_ = dbClient.Close()
		errorMsg := "Failed to obtain a session for advisory lock acquiring."
		logger.Error(errorMsg, log.Error(err))
		return false, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.DB_CLIENT_INIT.Code,
			Message:     errors.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	session := &lockSession{conn: conn, dbClient: dbClient}

	var acquired bool
	err = conn.QueryRowContext(context.Background(), "SELECT pg_try_advisory_lock($1)", lockID).Scan(&acquired)
	if err != nil {
		session.close()
		errorMsg := "Failed to execute pg_try_advisory_lock"
		logger.Error(errorMsg, log.Error(err))
		return false, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_ACQUIRE.Code,
			Message:     errors.LOCK_ACQUIRE.Message,
			Description: errorMsg,
		}, err)
	}
	if !acquired {
		session.close()
		return false, nil
	}

	l.mu.Lock()
	l.sessions[key] = session
	l.mu.Unlock()
	return true, nil
}

func (l *PostgresLock) Release(key string) error {

	logger := log.GetLogger()

	l.mu.Lock()
	session := l.sessions[key]
	delete(l.sessions, key)
	l.mu.Unlock()

	if session == nil {
		errorMsg := fmt.Sprintf("advisory lock was not held for key: %s", key)
		logger.Error(errorMsg)
		return errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_RELEASE.Code,
			Message:     errors.LOCK_RELEASE.Message,
			Description: errorMsg,
		}, nil)
	}
	defer session.close()

	lockID, err := l.generateLockKey(key)
	if err != nil {
		return err
	}

	var released bool
	err = session.conn.QueryRowContext(context.Background(), "SELECT pg_advisory_unlock($1)", lockID).Scan(&released)
	if err != nil {
		errorMsg := "pg_advisory_unlock failed"
		logger.Error(errorMsg, log.Error(err))
		return errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_RELEASE.Code,
			Message:     errors.LOCK_RELEASE.Message,
			Description: errorMsg,
		}, err)
	}
	if !released {
		errorMsg := fmt.Sprintf("advisory lock was not held for key: %s", key)
		logger.Error(errorMsg)
		return errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_RELEASE.Code,
			Message:     errors.LOCK_RELEASE.Message,
			Description: errorMsg,
		}, nil)
	}
	logger.Debug(fmt.Sprintf("Advisory lock released for key: %s", key))
	return nil
}
