package profile

import "context"

// ProfileService covers the administrator's staff management and a user's own profile.
// actorID is the user id of whoever performs the change.
type ProfileService interface {
	GetOwn(ctx context.Context, userID string) (ProfileResponse, error)
	UpdateOwn(ctx context.Context, userID string, req UpdateOwnProfileRequest) (ProfileResponse, error)
	List(ctx context.Context, filter ListProfilesFilter) ([]ProfileResponse, error)
	Approve(ctx context.Context, actorID, userID string) (ProfileResponse, error)
	RevokeApproval(ctx context.Context, actorID, userID string) (ProfileResponse, error)
	UpdateRole(ctx context.Context, actorID string, req UpdateRoleRequest) (ProfileResponse, error)
}
