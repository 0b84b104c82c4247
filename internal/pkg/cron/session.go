package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/codenest/erp-backend/internal/domain/session"
	"github.com/codenest/erp-backend/internal/domain/user"
)

const (
	JobPurgeExpiredSessions  = "purge_expired_sessions"
	JobAuditOrphanIdentities = "audit_orphaned_identities"

	// Identities younger than this may still be inside a sign-up.
	orphanGracePeriod = 10 * time.Minute
	orphanAuditLimit  = 100
)

type SessionJobs struct {
	sessionRepo session.SessionRepository
	userRepo    user.UserRepository
	retention   time.Duration
	now         func() time.Time
}

// NewSessionJobs creates the maintenance jobs. retention is how long expired
// or revoked session rows are kept before they are deleted.
func NewSessionJobs(sessionRepo session.SessionRepository, userRepo user.UserRepository, retention time.Duration) *SessionJobs {
	return &SessionJobs{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		retention:   retention,
		now:         time.Now,
	}
}

func (j *SessionJobs) RegisterJobs(scheduler *Scheduler, purgeInterval, auditInterval time.Duration) {
	scheduler.AddJob(JobPurgeExpiredSessions, purgeInterval, j.PurgeExpiredSessions)
	scheduler.AddJob(JobAuditOrphanIdentities, auditInterval, j.AuditOrphanedIdentities)
}

func (j *SessionJobs) PurgeExpiredSessions(ctx context.Context) error {
	cutoff := j.now().Add(-j.retention)
	purged, err := j.sessionRepo.PurgeExpired(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("purge sessions before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	if purged > 0 {
		slog.Info("Cron: purged expired sessions", "count", purged, "cutoff", cutoff)
	}
	return nil
}

// AuditOrphanedIdentities reports identities that were created without a
// profile. Those users resolve through the fallback path on every sign-in
// until an administrator repairs or removes them.
func (j *SessionJobs) AuditOrphanedIdentities(ctx context.Context) error {
	orphans, err := j.userRepo.ListWithoutProfile(ctx, j.now().Add(-orphanGracePeriod), orphanAuditLimit)
	if err != nil {
		return fmt.Errorf("list orphaned identities: %w", err)
	}
	if len(orphans) == 0 {
		return nil
	}

	ids := make([]string, 0, len(orphans))
	for _, u := range orphans {
		ids = append(ids, u.ID)
	}
	slog.Warn("Cron: identities without profile", "count", len(orphans), "user_ids", ids)
	return nil
}
