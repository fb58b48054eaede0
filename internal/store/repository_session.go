// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Dmitry Kotelnikov

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/dkotelnikov/go-password-safe/internal/logger"
	"github.com/dkotelnikov/go-password-safe/models"
)

// sessionRepository is the SQL-backed implementation of [SessionRepository].
// The "sessions" table holds at most one row per username; a repeated login
// refreshes that row with a fresh id and expiry.
type sessionRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewSessionRepository constructs a [SessionRepository] backed by the
// provided database connection and logger.
func NewSessionRepository(db *DB, logger *logger.Logger) SessionRepository {
	logger.Debug().Msg("creating session repository")
	return &sessionRepository{
		db:     db,
		logger: logger,
	}
}

// FindSession retrieves the session with the given opaque id.
func (r *sessionRepository) FindSession(ctx context.Context, sessionID []byte) (models.Session, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.Builder().
		Select("session_id", "username", "expires_at").
		From(models.Session{}.TableName()).
		Where(sq.Eq{"session_id": sessionID}).
		ToSql()
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var found models.Session
	row := r.db.QueryRowContext(ctx, query, args...)
	if err = row.Scan(&found.ID, &found.Username, &found.ExpiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, ErrSessionNotFound
		}
		log.Err(err).Str("func", "*sessionRepository.FindSession").Msg("error: scanning error")
		return models.Session{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return found, nil
}

// LoginExchange consumes the user's outstanding challenge and creates or
// refreshes the session row in a single transaction. A rollback on any step
// guarantees no request can observe a half-applied login: either the old
// challenge is still valid and no session was touched, or the challenge is
// gone and the new session is live.
func (r *sessionRepository) LoginExchange(ctx context.Context, session models.Session) error {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.LoginExchange").Msg("error: begin failed")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	deleteQuery, deleteArgs, err := r.db.Builder().
		Delete(models.Challenge{}.TableName()).
		Where(sq.Eq{"username": session.Username}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		log.Err(err).Str("func", "*sessionRepository.LoginExchange").Msg("error: challenge delete failed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	upsertQuery, upsertArgs, err := r.db.Builder().
		Insert(session.TableName()).
		Columns("username", "session_id", "expires_at").
		Values(session.Username, session.ID, session.ExpiresAt).
		Suffix("ON CONFLICT (username) DO UPDATE SET session_id = excluded.session_id, expires_at = excluded.expires_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = tx.ExecContext(ctx, upsertQuery, upsertArgs...); err != nil {
		log.Err(err).Str("func", "*sessionRepository.LoginExchange").Msg("error: session upsert failed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "*sessionRepository.LoginExchange").Msg("error: commit failed")
		return fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}

	return nil
}

// DeleteSession removes the session with the given id. Logout is idempotent,
// so a missing row is not an error.
func (r *sessionRepository) DeleteSession(ctx context.Context, sessionID []byte) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.Builder().
		Delete(models.Session{}.TableName()).
		Where(sq.Eq{"session_id": sessionID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*sessionRepository.DeleteSession").Msg("error: delete failed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}
