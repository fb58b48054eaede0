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

// challengeRepository is the SQL-backed implementation of
// [ChallengeRepository]. The "challenges" table holds at most one row per
// username; upserts replace the previous challenge in place.
type challengeRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewChallengeRepository constructs a [ChallengeRepository] backed by the
// provided database connection and logger.
func NewChallengeRepository(db *DB, logger *logger.Logger) ChallengeRepository {
	logger.Debug().Msg("creating challenge repository")
	return &challengeRepository{
		db:     db,
		logger: logger,
	}
}

// UpsertChallenge inserts or replaces the outstanding challenge for
// challenge.Username. Both supported backends understand
// ON CONFLICT ... DO UPDATE.
func (r *challengeRepository) UpsertChallenge(ctx context.Context, challenge models.Challenge) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.Builder().
		Insert(challenge.TableName()).
		Columns("username", "value", "expires_at").
		Values(challenge.Username, challenge.Value, challenge.ExpiresAt).
		Suffix("ON CONFLICT (username) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*challengeRepository.UpsertChallenge").Msg("error: upsert failed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

// FindChallenge retrieves the outstanding challenge for username.
func (r *challengeRepository) FindChallenge(ctx context.Context, username string) (models.Challenge, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.Builder().
		Select("username", "value", "expires_at").
		From(models.Challenge{}.TableName()).
		Where(sq.Eq{"username": username}).
		ToSql()
	if err != nil {
		return models.Challenge{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var found models.Challenge
	row := r.db.QueryRowContext(ctx, query, args...)
	if err = row.Scan(&found.Username, &found.Value, &found.ExpiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Challenge{}, ErrChallengeNotFound
		}
		log.Err(err).Str("func", "*challengeRepository.FindChallenge").Msg("error: scanning error")
		return models.Challenge{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return found, nil
}

// DeleteChallenge removes the outstanding challenge for username. It is the
// failed-login consumption path; absence of a row is not an error.
func (r *challengeRepository) DeleteChallenge(ctx context.Context, username string) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.Builder().
		Delete(models.Challenge{}.TableName()).
		Where(sq.Eq{"username": username}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*challengeRepository.DeleteChallenge").Msg("error: delete failed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}
