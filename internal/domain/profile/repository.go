package profile

import "context"

type ProfileRepository interface {
	// FindByUserID returns ErrProfileNotFound when no row exists.
	FindByUserID(ctx context.Context, userID string) (Profile, error)
	// Create returns ErrProfileExists when a row for the same user id is already present.
	Create(ctx context.Context, newProfile Profile) (Profile, error)
	UpdateApproval(ctx context.Context, userID string, approved bool) (Profile, error)
	UpdateRole(ctx context.Context, userID string, role Role) (Profile, error)
	UpdateFullName(ctx context.Context, userID string, fullName string) (Profile, error)
	List(ctx context.Context, filter ListProfilesFilter) ([]Profile, error)
}
