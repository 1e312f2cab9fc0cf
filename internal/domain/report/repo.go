package report

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when the scan does not exist for the requesting
// patient. Report rows are joined in optionally; only the scan must exist.
var ErrNotFound = errors.New("scan not found")

// RenderData is everything the renderer needs for one report, joined from
// the scan, its detection, the stored report document, and the patient
// profile. Detection and profile fields are nil when analysis has not
// completed or no profile exists.
type RenderData struct {
	ScanID              uuid.UUID
	ScanType            string
	UploadDate          time.Time
	StoneCount          *int
	MaxStoneSize        *float64
	RiskLevel           *string
	RequiresAppointment *bool
	ConfidenceScore     *float64
	StonesData          json.RawMessage
	ReportContent       json.RawMessage
	FullName            *string
	DateOfBirth         *time.Time
}

type Repository interface {
	// GetRenderData loads the render inputs for one scan, ownership-scoped.
	GetRenderData(ctx context.Context, scanID uuid.UUID, patientID, reportType string) (*RenderData, error)
}
