package user

import (
	"context"
	"time"
)

type UserRepository interface {
	// GetByEmail and GetByID return ErrUserNotFound when no row exists.
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	// Create returns ErrUserEmailExists on a duplicate email, including a concurrent one.
	Create(ctx context.Context, newUser User) (User, error)
	// ListWithoutProfile returns identities that never received a profile row.
	ListWithoutProfile(ctx context.Context, olderThan time.Time, limit int) ([]User, error)
	DeleteWithoutProfile(ctx context.Context, id string) error
}
