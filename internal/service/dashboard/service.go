package dashboard

import (
	"context"
	"time"

	"github.com/codenest/erp-backend/internal/domain/dashboard"
	"golang.org/x/sync/errgroup"
)

const (
	pendingPreviewLimit = 10
	orphanGracePeriod   = 10 * time.Minute
)

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	now func() time.Time
}

func NewDashboardService(repo dashboard.DashboardRepository) dashboard.DashboardService {
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		now:                 time.Now,
	}
}

// GetOverview returns combined admin overview data using parallel goroutines,
// one query each.
func (s *DashboardServiceImpl) GetOverview(ctx context.Context) (*dashboard.OverviewResponse, error) {
	now := s.now()

	var (
		staff    dashboard.StaffSummaryResponse
		projects dashboard.ProjectSummaryResponse
		pending  []dashboard.PendingSignupItem
		orphans  dashboard.OrphanSummaryResponse
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Staff summary (total, admins, approved, pending)
	g.Go(func() error {
		stats, err := s.GetStaffStats(gCtx)
		if err != nil {
			return err
		}
		staff = dashboard.StaffSummaryResponse{
			Total:     stats.Total,
			Admins:    stats.Admins,
			Approved:  stats.Approved,
			Pending:   stats.Pending,
			UpdatedAt: now.Format(time.RFC3339),
		}
		return nil
	})

	// 2. Clients, projects per status, assignments
	g.Go(func() error {
		stats, err := s.GetProjectStats(gCtx)
		if err != nil {
			return err
		}
		projects = dashboard.ProjectSummaryResponse{
			Clients:     stats.Clients,
			Active:      stats.Active,
			OnHold:      stats.OnHold,
			Completed:   stats.Completed,
			Assignments: stats.Assignments,
		}
		return nil
	})

	// 3. Approval queue preview
	g.Go(func() error {
		signups, err := s.GetPendingSignups(gCtx, pendingPreviewLimit)
		if err != nil {
			return err
		}
		pending = make([]dashboard.PendingSignupItem, 0, len(signups))
		for i, su := range signups {
			pending = append(pending, dashboard.PendingSignupItem{
				No:        i + 1,
				UserID:    su.UserID,
				FullName:  su.FullName,
				Email:     su.Email,
				CreatedAt: su.CreatedAt.Format(time.RFC3339),
			})
		}
		return nil
	})

	// 4. Identities left without a profile by failed sign-ups
	g.Go(func() error {
		count, err := s.CountOrphanedIdentities(gCtx, now.Add(-orphanGracePeriod))
		if err != nil {
			return err
		}
		orphans = dashboard.OrphanSummaryResponse{Count: count}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dashboard.OverviewResponse{
		Staff:          staff,
		Projects:       projects,
		PendingSignups: pending,
		Orphans:        orphans,
	}, nil
}
