package scan

import (
	"context"

	"github.com/google/uuid"

	"github.com/calcifyx/calcifyx/pkg/pagination"
)

type Repository interface {
	Create(ctx context.Context, s *Scan) error
	ListByPatient(ctx context.Context, patientID string, p pagination.Params) ([]*WithDetection, error)
}

// AnalysisQueue enqueues a newly accepted scan for background analysis.
// Implemented by the analysis job runner.
type AnalysisQueue interface {
	Enqueue(ctx context.Context, scanID uuid.UUID) error
}
