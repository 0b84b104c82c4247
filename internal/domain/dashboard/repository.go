package dashboard

import (
	"context"
	"time"
)

// StaffStats combines all profile counts in single query
type StaffStats struct {
	Total    int64
	Admins   int64
	Approved int64
	Pending  int64
}

// ProjectStats combines client, project and assignment counts
type ProjectStats struct {
	Clients     int64
	Active      int64
	OnHold      int64
	Completed   int64
	Assignments int64
}

// PendingSignup is a profile waiting in the approval queue
type PendingSignup struct {
	UserID    string
	FullName  string
	Email     *string
	CreatedAt time.Time
}

// DashboardRepository defines the interface for dashboard data access
type DashboardRepository interface {
	// GetStaffStats returns total, admin, approved and pending counts in single query
	GetStaffStats(ctx context.Context) (*StaffStats, error)

	// GetProjectStats returns client count, projects per status and assignment count
	GetProjectStats(ctx context.Context) (*ProjectStats, error)

	// GetPendingSignups returns the oldest pending profiles first
	GetPendingSignups(ctx context.Context, limit int) ([]PendingSignup, error)

	// CountOrphanedIdentities counts identities without a profile created before the cutoff
	CountOrphanedIdentities(ctx context.Context, olderThan time.Time) (int64, error)
}
