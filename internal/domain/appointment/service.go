package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrMissingFields = errors.New("Missing required fields")
	ErrMissingID     = errors.New("Missing appointment ID")
	ErrInvalidStatus = errors.New("invalid appointment status")
)

var validStatuses = map[string]bool{
	StatusScheduled: true,
	StatusConfirmed: true,
	StatusCompleted: true,
	StatusCancelled: true,
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, userID string) ([]*WithParties, error) {
	return s.repo.ListByParty(ctx, userID)
}

// Book creates a scheduled appointment with the caller as patient.
func (s *Service) Book(ctx context.Context, patientID string, req *CreateRequest) (*Appointment, error) {
	if req.DoctorID == "" || req.AppointmentDate == nil {
		return nil, ErrMissingFields
	}

	a := &Appointment{
		PatientID:       patientID,
		DoctorID:        req.DoctorID,
		ScanID:          req.ScanID,
		AppointmentDate: *req.AppointmentDate,
		Notes:           req.Notes,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Update changes status or notes. Only a party to the appointment may
// update it; anyone else sees ErrNotFound.
func (s *Service) Update(ctx context.Context, userID string, req *UpdateRequest) (*Appointment, error) {
	if req.AppointmentID == uuid.Nil {
		return nil, ErrMissingID
	}
	if req.Status != nil && !validStatuses[*req.Status] {
		return nil, ErrInvalidStatus
	}
	return s.repo.Update(ctx, req.AppointmentID, userID, req.Status, req.Notes)
}
