package user

import "time"

// OrphanResponse describes an identity left without a profile by a failed sign-up.
type OrphanResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

func NewOrphanResponse(u User) OrphanResponse {
	return OrphanResponse{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}
