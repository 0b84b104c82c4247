package session

import "errors"

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSignOutForbidden = errors.New("session cannot be signed out from this client")
)
