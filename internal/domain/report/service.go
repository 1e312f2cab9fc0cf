package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidType rejects unknown report variants.
var ErrInvalidType = errors.New("invalid report type")

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Rendered is the downloadable report payload.
type Rendered struct {
	PDFContent string
	Filename   string
	Data       *RenderData
}

// Get renders the requested report variant for the caller's scan. Works for
// any scan the caller owns; before analysis completes the document renders
// with placeholder findings.
func (s *Service) Get(ctx context.Context, patientID string, scanID uuid.UUID, reportType string) (*Rendered, error) {
	if reportType != TypePatient && reportType != TypeDoctor {
		return nil, ErrInvalidType
	}

	data, err := s.repo.GetRenderData(ctx, scanID, patientID, reportType)
	if err != nil {
		return nil, err
	}

	now := s.now()
	html, err := Render(data, reportType, now)
	if err != nil {
		return nil, err
	}

	return &Rendered{
		PDFContent: html,
		Filename: fmt.Sprintf("CalcifyX_%s_report_%s_%s.pdf",
			reportType, scanID, now.Format("2006-01-02")),
		Data: data,
	}, nil
}
