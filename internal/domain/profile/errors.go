package profile

import "errors"

var (
	ErrProfileNotFound     = errors.New("profile not found")
	ErrProfileExists       = errors.New("profile already exists")
	ErrInvalidRole         = errors.New("role must be admin or employee")
	ErrCannotSelfApprove   = errors.New("cannot change approval of your own profile")
	ErrCannotChangeOwnRole = errors.New("cannot change your own role")
	ErrInvalidStatusFilter = errors.New("status must be pending, approved or all")
	ErrEmptyUserID         = errors.New("user id is empty")
)
