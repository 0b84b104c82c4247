package profile

import (
	"context"
	"strings"

	"github.com/codenest/erp-backend/internal/domain/profile"
	"github.com/codenest/erp-backend/internal/domain/session"
	"github.com/codenest/erp-backend/internal/pkg/sse"
)

type ProfileServiceImpl struct {
	profile.ProfileRepository
	hub *sse.Hub
}

func NewProfileService(repo profile.ProfileRepository, hub *sse.Hub) profile.ProfileService {
	return &ProfileServiceImpl{
		ProfileRepository: repo,
		hub:               hub,
	}
}

// GetOwn implements profile.ProfileService.
func (s *ProfileServiceImpl) GetOwn(ctx context.Context, userID string) (profile.ProfileResponse, error) {
	p, err := s.FindByUserID(ctx, userID)
	if err != nil {
		return profile.ProfileResponse{}, err
	}
	return profile.NewProfileResponse(p), nil
}

// UpdateOwn implements profile.ProfileService.
func (s *ProfileServiceImpl) UpdateOwn(ctx context.Context, userID string, req profile.UpdateOwnProfileRequest) (profile.ProfileResponse, error) {
	if err := req.Validate(); err != nil {
		return profile.ProfileResponse{}, err
	}

	p, err := s.UpdateFullName(ctx, userID, strings.TrimSpace(req.FullName))
	if err != nil {
		return profile.ProfileResponse{}, err
	}
	s.changed(p.UserID)
	return profile.NewProfileResponse(p), nil
}

// List implements profile.ProfileService.
func (s *ProfileServiceImpl) List(ctx context.Context, filter profile.ListProfilesFilter) ([]profile.ProfileResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	profiles, err := s.ProfileRepository.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]profile.ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		responses = append(responses, profile.NewProfileResponse(p))
	}
	return responses, nil
}

// Approve implements profile.ProfileService.
func (s *ProfileServiceImpl) Approve(ctx context.Context, actorID, userID string) (profile.ProfileResponse, error) {
	return s.setApproval(ctx, actorID, userID, true)
}

// RevokeApproval implements profile.ProfileService.
func (s *ProfileServiceImpl) RevokeApproval(ctx context.Context, actorID, userID string) (profile.ProfileResponse, error) {
	return s.setApproval(ctx, actorID, userID, false)
}

func (s *ProfileServiceImpl) setApproval(ctx context.Context, actorID, userID string, approved bool) (profile.ProfileResponse, error) {
	if actorID == userID {
		return profile.ProfileResponse{}, profile.ErrCannotSelfApprove
	}

	p, err := s.UpdateApproval(ctx, userID, approved)
	if err != nil {
		return profile.ProfileResponse{}, err
	}
	s.changed(p.UserID)
	return profile.NewProfileResponse(p), nil
}

// UpdateRole implements profile.ProfileService.
func (s *ProfileServiceImpl) UpdateRole(ctx context.Context, actorID string, req profile.UpdateRoleRequest) (profile.ProfileResponse, error) {
	if err := req.Validate(); err != nil {
		return profile.ProfileResponse{}, err
	}
	if actorID == req.UserID {
		return profile.ProfileResponse{}, profile.ErrCannotChangeOwnRole
	}

	role, err := profile.ParseRole(req.Role)
	if err != nil {
		return profile.ProfileResponse{}, err
	}

	p, err := s.ProfileRepository.UpdateRole(ctx, req.UserID, role)
	if err != nil {
		return profile.ProfileResponse{}, err
	}
	s.changed(p.UserID)
	return profile.NewProfileResponse(p), nil
}

// changed tells open access streams of userID to re-resolve.
func (s *ProfileServiceImpl) changed(userID string) {
	s.hub.Publish(session.Event{Kind: session.EventProfileUpdated, UserID: userID})
}
