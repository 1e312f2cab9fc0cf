package scan

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/calcifyx/calcifyx/pkg/pagination"
)

type mockRepo struct {
	scans map[uuid.UUID]*Scan
}

func newMockRepo() *mockRepo {
	return &mockRepo{scans: make(map[uuid.UUID]*Scan)}
}

func (m *mockRepo) Create(ctx context.Context, s *Scan) error {
	s.ID = uuid.New()
	s.AnalysisStatus = StatusPending
	cp := *s
	m.scans[s.ID] = &cp
	return nil
}

func (m *mockRepo) ListByPatient(ctx context.Context, patientID string, p pagination.Params) ([]*WithDetection, error) {
	var out []*WithDetection
	for _, s := range m.scans {
		if s.PatientID == patientID {
			out = append(out, &WithDetection{Scan: *s})
		}
	}
	if p.Offset >= len(out) {
		return nil, nil
	}
	out = out[p.Offset:]
	if len(out) > p.Limit {
		out = out[:p.Limit]
	}
	return out, nil
}

type mockQueue struct {
	enqueued []uuid.UUID
	fail     error
}

func (m *mockQueue) Enqueue(ctx context.Context, scanID uuid.UUID) error {
	if m.fail != nil {
		return m.fail
	}
	m.enqueued = append(m.enqueued, scanID)
	return nil
}

func newTestService(repo *mockRepo, queue *mockQueue) *Service {
	gate := NewColorGate(rand.New(rand.NewSource(1)))
	return NewService(repo, queue, gate, zerolog.Nop())
}

func TestSubmitCreatesPendingScan(t *testing.T) {
	repo := newMockRepo()
	queue := &mockQueue{}
	svc := newTestService(repo, queue)

	sc, err := svc.Submit(context.Background(), "patient-1", &SubmitRequest{
		ScanType:    TypeCT,
		ScanFileURL: "https://storage.example.com/scan.dcm",
		Filename:    "abdomen.dcm",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sc.AnalysisStatus != StatusPending {
		t.Errorf("expected status %q, got %q", StatusPending, sc.AnalysisStatus)
	}
	if sc.PatientID != "patient-1" {
		t.Errorf("expected patient-1, got %q", sc.PatientID)
	}
	if len(queue.enqueued) != 1 || queue.enqueued[0] != sc.ID {
		t.Errorf("expected scan %s enqueued, got %v", sc.ID, queue.enqueued)
	}
}

func TestSubmitMissingFields(t *testing.T) {
	svc := newTestService(newMockRepo(), &mockQueue{})

	_, err := svc.Submit(context.Background(), "patient-1", &SubmitRequest{ScanType: TypeCT})
	if err == nil {
		t.Fatal("expected error for missing scan_file_url")
	}
	if !isValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
	if err.Error() != "Missing required fields" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestSubmitInvalidScanType(t *testing.T) {
	svc := newTestService(newMockRepo(), &mockQueue{})

	_, err := svc.Submit(context.Background(), "patient-1", &SubmitRequest{
		ScanType:    "Ultrasound",
		ScanFileURL: "https://storage.example.com/scan.dcm",
	})
	if !isValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitUnsupportedFormat(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, &mockQueue{})

	_, err := svc.Submit(context.Background(), "patient-1", &SubmitRequest{
		ScanType:    TypeCT,
		ScanFileURL: "https://storage.example.com/scan.gif",
		Filename:    "scan.gif",
	})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if len(repo.scans) != 0 {
		t.Error("rejected upload must not create a scan row")
	}
}

func TestSubmitDefaultsFilename(t *testing.T) {
	repo := newMockRepo()
	queue := &mockQueue{}
	svc := newTestService(repo, queue)

	// No filename falls back to a DICOM name and skips the color gate.
	sc, err := svc.Submit(context.Background(), "patient-1", &SubmitRequest{
		ScanType:    TypeMRI,
		ScanFileURL: "https://storage.example.com/upload",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(queue.enqueued) != 1 || queue.enqueued[0] != sc.ID {
		t.Errorf("expected scan enqueued, got %v", queue.enqueued)
	}
}

func TestSubmitEnqueueFailureSurfaced(t *testing.T) {
	repo := newMockRepo()
	queue := &mockQueue{fail: errors.New("queue down")}
	svc := newTestService(repo, queue)

	_, err := svc.Submit(context.Background(), "patient-1", &SubmitRequest{
		ScanType:    TypeCT,
		ScanFileURL: "https://storage.example.com/scan.dcm",
	})
	if err == nil {
		t.Fatal("expected enqueue failure to surface")
	}
}

func TestListScopedToPatient(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, &mockQueue{})

	for _, pid := range []string{"patient-1", "patient-1", "patient-2"} {
		if _, err := svc.Submit(context.Background(), pid, &SubmitRequest{
			ScanType:    TypeCT,
			ScanFileURL: "https://storage.example.com/scan.dcm",
		}); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}

	scans, err := svc.List(context.Background(), "patient-1", pagination.Params{Limit: pagination.DefaultLimit})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(scans) != 2 {
		t.Errorf("expected 2 scans for patient-1, got %d", len(scans))
	}

	scans, err = svc.List(context.Background(), "patient-1", pagination.Params{Limit: 1})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(scans) != 1 {
		t.Errorf("limit 1 must return one scan, got %d", len(scans))
	}
}
