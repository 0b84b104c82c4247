package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/codenest/erp-backend/internal/domain/dashboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDashboardRepo struct {
	staffErr  error
	orphanCut time.Time
}

func (f *fakeDashboardRepo) GetStaffStats(ctx context.Context) (*dashboard.StaffStats, error) {
	if f.staffErr != nil {
		return nil, f.staffErr
	}
	return &dashboard.StaffStats{Total: 4, Admins: 1, Approved: 2, Pending: 1}, nil
}

func (f *fakeDashboardRepo) GetProjectStats(ctx context.Context) (*dashboard.ProjectStats, error) {
	return &dashboard.ProjectStats{Clients: 2, Active: 3, OnHold: 1, Assignments: 5}, nil
}

func (f *fakeDashboardRepo) GetPendingSignups(ctx context.Context, limit int) ([]dashboard.PendingSignup, error) {
	email := "ali@codenest.com"
	return []dashboard.PendingSignup{
		{UserID: "u-ali", FullName: "Ali", Email: &email, CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
	}, nil
}

func (f *fakeDashboardRepo) CountOrphanedIdentities(ctx context.Context, olderThan time.Time) (int64, error) {
	f.orphanCut = olderThan
	return 1, nil
}

func TestGetOverview(t *testing.T) {
	repo := &fakeDashboardRepo{}
	svc := NewDashboardService(repo).(*DashboardServiceImpl)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	overview, err := svc.GetOverview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(4), overview.Staff.Total)
	assert.Equal(t, int64(1), overview.Staff.Pending)
	assert.Equal(t, int64(3), overview.Projects.Active)
	require.Len(t, overview.PendingSignups, 1)
	assert.Equal(t, 1, overview.PendingSignups[0].No)
	assert.Equal(t, "2026-01-02T03:04:05Z", overview.PendingSignups[0].CreatedAt)
	assert.Equal(t, int64(1), overview.Orphans.Count)
	assert.Equal(t, now.Add(-orphanGracePeriod), repo.orphanCut)
}

func TestGetOverview_PropagatesError(t *testing.T) {
	boom := errors.New("db down")
	svc := NewDashboardService(&fakeDashboardRepo{staffErr: boom})

	_, err := svc.GetOverview(context.Background())
	assert.ErrorIs(t, err, boom)
}
