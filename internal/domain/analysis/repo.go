package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Job stages. A job is created queued and moves to processing exactly once;
// completion deletes the row.
const (
	StageQueued     = "queued"
	StageProcessing = "processing"
)

// Job is a durable unit of analysis work for one scan. PatientID and
// ScanType are joined in from the scan row when the job is claimed.
type Job struct {
	ScanID    uuid.UUID `db:"scan_id"`
	PatientID string    `db:"patient_id"`
	ScanType  string    `db:"scan_type"`
	Stage     string    `db:"stage"`
	Attempts  int       `db:"attempts"`
	RunAfter  time.Time `db:"run_after"`
	CreatedAt time.Time `db:"created_at"`
}

// Result pairs findings with the derived clinical flags persisted alongside.
type Result struct {
	Findings            *Findings
	RiskLevel           string
	RequiresAppointment bool
}

// JobStore persists analysis jobs and applies their scan-side effects.
type JobStore interface {
	// Enqueue creates a queued job for the scan, due at runAfter.
	Enqueue(ctx context.Context, scanID uuid.UUID, runAfter time.Time) error
	// DueJobs claims up to limit due jobs and leases them so concurrent
	// runners skip them.
	DueJobs(ctx context.Context, limit int) ([]*Job, error)
	// MarkProcessing flips the scan to processing and schedules the job's
	// completion pass at runAfter.
	MarkProcessing(ctx context.Context, scanID uuid.UUID, runAfter time.Time) error
	// CompleteScan applies the full completion in one transaction: scan row
	// update, detection insert, report persistence, job deletion.
	CompleteScan(ctx context.Context, job *Job, res *Result) error
	// RetryLater reschedules a failed attempt.
	RetryLater(ctx context.Context, scanID uuid.UUID, runAfter time.Time) error
	// FailScan marks the scan failed and removes the job.
	FailScan(ctx context.Context, scanID uuid.UUID) error
}

// ReportGenerator persists the patient and doctor reports for a completed
// analysis within the caller's transaction. Implemented by the report package.
type ReportGenerator interface {
	PersistReports(ctx context.Context, tx pgx.Tx, scanID uuid.UUID, patientID string, res *Result) error
}
