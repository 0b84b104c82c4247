package access

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/codenest/erp-backend/internal/domain/profile"
)

const DefaultResolveTimeout = 5 * time.Second

// ProfileResolver turns a user id into a tagged profile lookup.
type ProfileResolver interface {
	Resolve(ctx context.Context, userID string) profile.Lookup
}

type Resolver struct {
	repo    profile.ProfileRepository
	timeout time.Duration
}

func NewResolver(repo profile.ProfileRepository, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = DefaultResolveTimeout
	}
	return &Resolver{repo: repo, timeout: timeout}
}

// Resolve never fails; store problems and timeouts come back as StoreError.
func (r *Resolver) Resolve(ctx context.Context, userID string) profile.Lookup {
	if strings.TrimSpace(userID) == "" {
		resolutionsTotal.WithLabelValues(string(profile.LookupStoreError)).Inc()
		return profile.StoreError(profile.ErrEmptyUserID)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	p, err := r.repo.FindByUserID(ctx, userID)
	resolveDuration.Observe(time.Since(start).Seconds())

	var lookup profile.Lookup
	switch {
	case err == nil:
		lookup = profile.Found(p)
	case errors.Is(err, profile.ErrProfileNotFound):
		lookup = profile.NotFound()
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		lookup = profile.StoreError(fmt.Errorf("profile lookup timed out after %s: %w", r.timeout, err))
	default:
		lookup = profile.StoreError(fmt.Errorf("profile lookup: %w", err))
	}

	resolutionsTotal.WithLabelValues(string(lookup.Status)).Inc()
	return lookup
}
