package recommendation

import "context"

type Repository interface {
	// ListActive returns the patient's active recommendations, highest
	// priority first, newest first within a priority.
	ListActive(ctx context.Context, patientID string) ([]*Recommendation, error)
	Create(ctx context.Context, rec *Recommendation) error
}
