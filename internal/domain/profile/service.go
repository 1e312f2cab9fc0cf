package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/calcifyx/calcifyx/internal/platform/cache"
)

const (
	doctorsCacheKey = "doctors:directory"
	doctorsCacheTTL = time.Minute
)

type Service struct {
	profiles Repository
	cache    cache.Cache
}

func NewService(profiles Repository, c cache.Cache) *Service {
	if c == nil {
		c = cache.NewNoop()
	}
	return &Service{profiles: profiles, cache: c}
}

var validUserTypes = map[string]bool{
	TypePatient: true,
	TypeDoctor:  true,
}

// validationError marks input failures so the handler can map them to 400;
// store failures stay generic 500s.
type validationError struct{ msg string }

func (e *validationError) Error() string { return e.msg }

func validationErrorf(format string, args ...interface{}) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is an input-validation failure.
func IsValidationError(err error) bool {
	var ve *validationError
	return errors.As(err, &ve)
}

func (s *Service) Create(ctx context.Context, p *Profile) error {
	if p.UserID == "" {
		return validationErrorf("user_id is required")
	}
	if p.UserType == "" || p.FullName == "" {
		return validationErrorf("user_type and full_name are required")
	}
	if !validUserTypes[p.UserType] {
		return validationErrorf("invalid user_type: %s", p.UserType)
	}
	if err := s.profiles.Create(ctx, p); err != nil {
		return err
	}
	if p.UserType == TypeDoctor {
		_ = s.cache.Delete(ctx, doctorsCacheKey)
	}
	return nil
}

// Get returns nil (not an error) when no profile exists yet.
func (s *Service) Get(ctx context.Context, userID string) (*Profile, error) {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return p, err
}

func (s *Service) Update(ctx context.Context, userID string, upd *Update) (*Profile, error) {
	p, err := s.profiles.Update(ctx, userID, upd)
	if err != nil {
		return nil, err
	}
	if p.UserType == TypeDoctor {
		_ = s.cache.Delete(ctx, doctorsCacheKey)
	}
	return p, nil
}

// ListDoctors serves the public doctor directory through the cache.
func (s *Service) ListDoctors(ctx context.Context) ([]*Doctor, error) {
	var cached []*Doctor
	if err := s.cache.GetJSON(ctx, doctorsCacheKey, &cached); err == nil {
		return cached, nil
	}

	doctors, err := s.profiles.ListDoctors(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.SetJSON(ctx, doctorsCacheKey, doctors, doctorsCacheTTL)
	return doctors, nil
}
