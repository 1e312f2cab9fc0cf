package scan

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/calcifyx/calcifyx/pkg/pagination"
)

var validScanTypes = map[string]bool{
	TypeCT:   true,
	TypeMRI:  true,
	TypeXRay: true,
}

// validationError marks input failures so the handler can map them to 400
// without inspecting message text.
type validationError struct{ msg string }

func (e *validationError) Error() string { return e.msg }

func validationErrorf(format string, args ...interface{}) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

func isValidationError(err error) bool {
	var ve *validationError
	return errors.As(err, &ve)
}

type Service struct {
	scans  Repository
	queue  AnalysisQueue
	gate   *ColorGate
	logger zerolog.Logger
}

func NewService(scans Repository, queue AnalysisQueue, gate *ColorGate, logger zerolog.Logger) *Service {
	return &Service{scans: scans, queue: queue, gate: gate, logger: logger}
}

// Submit validates the upload descriptor, persists a pending scan, and
// enqueues it for analysis. The pending row is returned immediately; analysis
// happens in the background and is observed by polling.
func (s *Service) Submit(ctx context.Context, patientID string, req *SubmitRequest) (*Scan, error) {
	if req.ScanType == "" || req.ScanFileURL == "" {
		return nil, validationErrorf("Missing required fields")
	}
	if !validScanTypes[req.ScanType] {
		return nil, validationErrorf("invalid scan_type: %s", req.ScanType)
	}

	filename := req.Filename
	if filename == "" {
		filename = "scan.dcm"
	}

	class, err := ClassifyFilename(filename)
	if err != nil {
		return nil, err
	}
	if class.NeedsValidation && s.gate.DetectColored(filename) {
		return nil, ErrColoredImage
	}

	sc := &Scan{
		PatientID:   patientID,
		ScanType:    req.ScanType,
		ScanFileURL: req.ScanFileURL,
	}
	if err := s.scans.Create(ctx, sc); err != nil {
		return nil, err
	}

	if err := s.queue.Enqueue(ctx, sc.ID); err != nil {
		// The scan row exists but will sit in pending until re-enqueued; the
		// enqueue failure is surfaced so the client can retry the upload.
		s.logger.Error().Err(err).Str("scan_id", sc.ID.String()).Msg("enqueue analysis job")
		return nil, err
	}

	return sc, nil
}

func (s *Service) List(ctx context.Context, patientID string, p pagination.Params) ([]*WithDetection, error) {
	return s.scans.ListByPatient(ctx, patientID, p)
}
