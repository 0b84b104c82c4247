package postgresql

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/codenest/erp-backend/internal/domain/session"
	"github.com/codenest/erp-backend/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type sessionRepositoryImpl struct {
	db *database.DB
}

// NewSessionRepository creates a new instance of SessionRepository.
func NewSessionRepository(db *database.DB) session.SessionRepository {
	return &sessionRepositoryImpl{db: db}
}

// hashToken hashes the input string using SHA256 and encodes the result in base64.
func hashToken(input string) string {
	hash := sha256.Sum256([]byte(input))
	return base64.StdEncoding.EncodeToString(hash[:])
}

const sessionColumns = `id, user_id, token_hash, expires_at, revoked_at, user_agent, ip_address, created_at`

func scanSession(row pgx.Row) (session.Record, error) {
	var rec session.Record
	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.TokenHash,
		&rec.ExpiresAt,
		&rec.RevokedAt,
		&rec.UserAgent,
		&rec.IPAddress,
		&rec.CreatedAt,
	)
	return rec, err
}

func (r *sessionRepositoryImpl) Create(ctx context.Context, userID string, refreshToken string, expiresAt int64, tracking session.Tracking) (session.Record, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return session.Record{}, fmt.Errorf("generate session id: %w", err)
	}

	query := `
		INSERT INTO sessions (id, user_id, token_hash, expires_at, user_agent, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + sessionColumns

	return scanSession(q.QueryRow(ctx, query,
		id.String(),
		userID,
		hashToken(refreshToken),
		time.Unix(expiresAt, 0).UTC(),
		tracking.UserAgent,
		tracking.IPAddress,
	))
}

func (r *sessionRepositoryImpl) GetByToken(ctx context.Context, refreshToken string) (session.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE token_hash = $1`

	rec, err := scanSession(q.QueryRow(ctx, query, hashToken(refreshToken)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.Record{}, session.ErrSessionNotFound
		}
		return session.Record{}, err
	}
	return rec, nil
}

func (r *sessionRepositoryImpl) GetByID(ctx context.Context, id string) (session.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

	rec, err := scanSession(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.Record{}, session.ErrSessionNotFound
		}
		return session.Record{}, err
	}
	return rec, nil
}

// Revoke is a no-op on an already revoked row.
func (r *sessionRepositoryImpl) Revoke(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE sessions
		SET revoked_at = NOW()
		WHERE id = $1 AND revoked_at IS NULL
	`
	_, err := q.Exec(ctx, query, id)
	return err
}

func (r *sessionRepositoryImpl) RevokeAllForUser(ctx context.Context, userID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE sessions
		SET revoked_at = NOW()
		WHERE user_id = $1 AND revoked_at IS NULL AND expires_at > NOW()
	`
	tag, err := q.Exec(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *sessionRepositoryImpl) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM sessions
		WHERE expires_at < $1 OR (revoked_at IS NOT NULL AND revoked_at < $1)
	`
	tag, err := q.Exec(ctx, query, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
