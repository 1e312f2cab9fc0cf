package profile

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no profile exists for the given user.
var ErrNotFound = errors.New("profile not found")

type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	// Update merges non-nil fields into the caller's profile and returns the
	// result, or ErrNotFound when no profile exists.
	Update(ctx context.Context, userID string, upd *Update) (*Profile, error)
	ListDoctors(ctx context.Context) ([]*Doctor, error)
}
