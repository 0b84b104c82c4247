package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/codenest/erp-backend/internal/domain/dashboard"
	"github.com/codenest/erp-backend/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// GetStaffStats returns total, admin, approved and pending counts in single query
func (r *dashboardRepositoryImpl) GetStaffStats(ctx context.Context) (*dashboard.StaffStats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) as total,
			COALESCE(SUM(CASE WHEN lower(role) = 'admin' THEN 1 ELSE 0 END), 0) as admins,
			COALESCE(SUM(CASE WHEN lower(role) <> 'admin' AND is_approved THEN 1 ELSE 0 END), 0) as approved,
			COALESCE(SUM(CASE WHEN lower(role) <> 'admin' AND NOT is_approved THEN 1 ELSE 0 END), 0) as pending
		FROM profiles
	`

	var stats dashboard.StaffStats
	err := q.QueryRow(ctx, query).Scan(
		&stats.Total, &stats.Admins, &stats.Approved, &stats.Pending,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff stats: %w", err)
	}
	return &stats, nil
}

// GetProjectStats returns client, per-status project and assignment counts in single query
func (r *dashboardRepositoryImpl) GetProjectStats(ctx context.Context) (*dashboard.ProjectStats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			(SELECT COUNT(*) FROM clients) as clients,
			COALESCE(SUM(CASE WHEN status = 'active' THEN 1 ELSE 0 END), 0) as active,
			COALESCE(SUM(CASE WHEN status = 'on_hold' THEN 1 ELSE 0 END), 0) as on_hold,
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0) as completed,
			(SELECT COUNT(*) FROM project_assignments) as assignments
		FROM projects
	`

	var stats dashboard.ProjectStats
	err := q.QueryRow(ctx, query).Scan(
		&stats.Clients, &stats.Active, &stats.OnHold, &stats.Completed, &stats.Assignments,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get project stats: %w", err)
	}
	return &stats, nil
}

// GetPendingSignups returns the approval queue, oldest first
func (r *dashboardRepositoryImpl) GetPendingSignups(ctx context.Context, limit int) ([]dashboard.PendingSignup, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT p.user_id, p.full_name, u.email, p.created_at
		FROM profiles p
		LEFT JOIN users u ON u.id = p.user_id
		WHERE NOT p.is_approved AND lower(p.role) <> 'admin'
		ORDER BY p.created_at ASC
		LIMIT $1
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending signups: %w", err)
	}
	defer rows.Close()

	signups := make([]dashboard.PendingSignup, 0, limit)
	for rows.Next() {
		var s dashboard.PendingSignup
		if err := rows.Scan(&s.UserID, &s.FullName, &s.Email, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pending signup: %w", err)
		}
		signups = append(signups, s)
	}
	return signups, rows.Err()
}

// CountOrphanedIdentities counts identities without a profile created before olderThan
func (r *dashboardRepositoryImpl) CountOrphanedIdentities(ctx context.Context, olderThan time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM users u
		WHERE u.created_at < $1
		  AND NOT EXISTS (SELECT 1 FROM profiles p WHERE p.user_id = u.id)
	`

	var count int64
	if err := q.QueryRow(ctx, query, olderThan).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count orphaned identities: %w", err)
	}
	return count, nil
}
