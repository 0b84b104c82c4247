package session

import "time"

// Session is proof of an authenticated identity. ID names the persisted
// refresh-token row and survives access-token refreshes.
type Session struct {
	ID                    string
	UserID                string
	Email                 string
	AccessToken           string
	AccessTokenExpiresAt  int64
	RefreshToken          string
	RefreshTokenExpiresAt int64
}

// Record is the stored form of a session. Only a hash of the refresh token is kept.
type Record struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	UserAgent string
	IPAddress string
	CreatedAt time.Time
}

// Active reports whether the record can still back a session at now.
func (r *Record) Active(now time.Time) bool {
	return r.RevokedAt == nil && r.ExpiresAt.After(now)
}

type Tracking struct {
	UserAgent string
	IPAddress string
}

type EventKind string

const (
	EventSignedIn       EventKind = "signed_in"
	EventSignedOut      EventKind = "signed_out"
	EventTokenRefreshed EventKind = "token_refreshed"
	EventProfileUpdated EventKind = "profile_updated"
)

// Event is published on every change a subscriber of UserID should re-resolve on.
// An empty SessionID on EventSignedOut means every session of the user ended.
type Event struct {
	Kind      EventKind
	UserID    string
	SessionID string
	Session   *Session
}
