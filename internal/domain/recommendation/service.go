package recommendation

import (
	"context"
	"errors"
)

var ErrMissingFields = errors.New("Missing required fields")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, patientID string) ([]*Recommendation, error) {
	return s.repo.ListActive(ctx, patientID)
}

func (s *Service) Create(ctx context.Context, patientID string, req *CreateRequest) (*Recommendation, error) {
	if req.RecommendationType == "" || req.Title == "" {
		return nil, ErrMissingFields
	}

	priority := 1
	if req.Priority != nil {
		priority = *req.Priority
	}

	rec := &Recommendation{
		PatientID:          patientID,
		RecommendationType: req.RecommendationType,
		Title:              req.Title,
		Description:        req.Description,
		VideoURL:           req.VideoURL,
		VideoThumbnail:     req.VideoThumbnail,
		Priority:           priority,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}
