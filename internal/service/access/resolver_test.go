package access

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/codenest/erp-backend/internal/domain/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Outcomes(t *testing.T) {
	profiles := newFakeProfiles(aliProfile())
	profiles.errs["u-broken"] = errors.New("relation \"profiles\" does not exist")
	resolver := NewResolver(profiles, time.Second)
	ctx := context.Background()

	found := resolver.Resolve(ctx, ali.UserID)
	require.True(t, found.IsFound())
	assert.Equal(t, "Ali", found.Profile.FullName)

	missing := resolver.Resolve(ctx, "u-ghost")
	assert.Equal(t, profile.LookupNotFound, missing.Status)
	assert.NoError(t, missing.Err)

	broken := resolver.Resolve(ctx, "u-broken")
	assert.Equal(t, profile.LookupStoreError, broken.Status)
	assert.Error(t, broken.Err)
}

func TestResolver_EmptyUserIDIsStoreError(t *testing.T) {
	profiles := newFakeProfiles()
	resolver := NewResolver(profiles, time.Second)

	lookup := resolver.Resolve(context.Background(), "  ")

	assert.Equal(t, profile.LookupStoreError, lookup.Status)
	assert.ErrorIs(t, lookup.Err, profile.ErrEmptyUserID)
	assert.Zero(t, profiles.calls)
}

func TestResolver_TimeoutIsStoreError(t *testing.T) {
	profiles := newFakeProfiles(aliProfile())
	release := profiles.hold(ali.UserID)
	defer release()
	resolver := NewResolver(profiles, 20*time.Millisecond)

	lookup := resolver.Resolve(context.Background(), ali.UserID)

	assert.Equal(t, profile.LookupStoreError, lookup.Status)
	assert.ErrorIs(t, lookup.Err, context.DeadlineExceeded)
}

func TestNewResolver_DefaultTimeout(t *testing.T) {
	resolver := NewResolver(newFakeProfiles(), 0)
	assert.Equal(t, DefaultResolveTimeout, resolver.timeout)
}
