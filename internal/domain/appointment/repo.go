package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound covers both absent appointments and appointments the caller
// is not a party to.
var ErrNotFound = errors.New("appointment not found")

type Repository interface {
	// ListByParty returns appointments where userID is the patient or the
	// doctor, newest first.
	ListByParty(ctx context.Context, userID string) ([]*WithParties, error)
	Create(ctx context.Context, a *Appointment) error
	// Update applies non-nil fields, scoped to appointments the user is a
	// party to.
	Update(ctx context.Context, id uuid.UUID, userID string, status, notes *string) (*Appointment, error)
}
