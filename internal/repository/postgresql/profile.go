package postgresql

import (
	"context"
	"errors"

	"github.com/codenest/erp-backend/internal/domain/profile"
	"github.com/codenest/erp-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type profileRepositoryImpl struct {
	db *database.DB
}

func NewProfileRepository(db *database.DB) profile.ProfileRepository {
	return &profileRepositoryImpl{db: db}
}

const profileColumns = `p.user_id, p.full_name, p.role, p.is_approved, p.created_at, p.updated_at, u.email`

func scanProfile(row pgx.Row) (profile.Profile, error) {
	var p profile.Profile
	err := row.Scan(
		&p.UserID,
		&p.FullName,
		&p.Role,
		&p.IsApproved,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.Email,
	)
	return p, err
}

// FindByUserID implements profile.ProfileRepository.
func (r *profileRepositoryImpl) FindByUserID(ctx context.Context, userID string) (profile.Profile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + profileColumns + `
		FROM profiles p
		LEFT JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1
	`

	found, err := scanProfile(q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.Profile{}, profile.ErrProfileNotFound
		}
		return profile.Profile{}, err
	}
	return found, nil
}

// Create implements profile.ProfileRepository.
func (r *profileRepositoryImpl) Create(ctx context.Context, newProfile profile.Profile) (profile.Profile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO profiles (user_id, full_name, role, is_approved)
		VALUES ($1, $2, $3, $4)
		RETURNING user_id, full_name, role, is_approved, created_at, updated_at
	`

	var created profile.Profile
	err := q.QueryRow(ctx, query,
		newProfile.UserID,
		newProfile.FullName,
		string(newProfile.Role),
		newProfile.IsApproved,
	).Scan(
		&created.UserID,
		&created.FullName,
		&created.Role,
		&created.IsApproved,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return profile.Profile{}, profile.ErrProfileExists
		}
		return profile.Profile{}, err
	}
	return created, nil
}

// UpdateApproval implements profile.ProfileRepository.
func (r *profileRepositoryImpl) UpdateApproval(ctx context.Context, userID string, approved bool) (profile.Profile, error) {
	return r.update(ctx, `is_approved = $2`, userID, approved)
}

// UpdateRole implements profile.ProfileRepository.
func (r *profileRepositoryImpl) UpdateRole(ctx context.Context, userID string, role profile.Role) (profile.Profile, error) {
	return r.update(ctx, `role = $2`, userID, string(role))
}

// UpdateFullName implements profile.ProfileRepository.
func (r *profileRepositoryImpl) UpdateFullName(ctx context.Context, userID string, fullName string) (profile.Profile, error) {
	return r.update(ctx, `full_name = $2`, userID, fullName)
}

func (r *profileRepositoryImpl) update(ctx context.Context, set string, userID string, value interface{}) (profile.Profile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH p AS (
			UPDATE profiles
			SET ` + set + `, updated_at = NOW()
			WHERE user_id = $1
			RETURNING *
		)
		SELECT ` + profileColumns + `
		FROM p
		LEFT JOIN users u ON u.id = p.user_id
	`

	updated, err := scanProfile(q.QueryRow(ctx, query, userID, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.Profile{}, profile.ErrProfileNotFound
		}
		return profile.Profile{}, err
	}
	return updated, nil
}

// List implements profile.ProfileRepository. Pending profiles come oldest first
// so the approval queue is worked in arrival order.
func (r *profileRepositoryImpl) List(ctx context.Context, filter profile.ListProfilesFilter) ([]profile.Profile, error) {
	q := GetQuerier(ctx, r.db)

	where := ``
	order := `p.created_at DESC`
	switch filter.Status {
	case profile.StatusPending:
		where = `WHERE p.is_approved = FALSE AND lower(p.role) <> 'admin'`
		order = `p.created_at ASC`
	case profile.StatusApproved:
		where = `WHERE p.is_approved = TRUE OR lower(p.role) = 'admin'`
	}

	query := `
		SELECT ` + profileColumns + `
		FROM profiles p
		LEFT JOIN users u ON u.id = p.user_id
		` + where + `
		ORDER BY ` + order + `
		LIMIT $1 OFFSET $2
	`

	rows, err := q.Query(ctx, query, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]profile.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
