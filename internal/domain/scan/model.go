package scan

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Analysis statuses. Transitions are monotonic:
// pending -> processing -> completed | failed.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Scan types accepted at intake.
const (
	TypeCT   = "CT"
	TypeMRI  = "MRI"
	TypeXRay = "X-Ray"
)

// Scan maps to the medical_scans table. AIAnalysisResult is the opaque
// findings blob written when analysis completes.
type Scan struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	PatientID        string          `db:"patient_id" json:"patient_id"`
	ScanType         string          `db:"scan_type" json:"scan_type"`
	ScanFileURL      string          `db:"scan_file_url" json:"scan_file_url"`
	AnalysisStatus   string          `db:"analysis_status" json:"analysis_status"`
	AIAnalysisResult json.RawMessage `db:"ai_analysis_result" json:"ai_analysis_result,omitempty"`
	UploadDate       time.Time       `db:"upload_date" json:"upload_date"`
}

// WithDetection is a scan row left-joined with its detection summary.
// Detection fields are nil until analysis completes.
type WithDetection struct {
	Scan
	StoneCount          *int     `db:"stone_count" json:"stone_count,omitempty"`
	MaxStoneSize        *float64 `db:"max_stone_size" json:"max_stone_size,omitempty"`
	RiskLevel           *string  `db:"risk_level" json:"risk_level,omitempty"`
	RequiresAppointment *bool    `db:"requires_appointment" json:"requires_appointment,omitempty"`
	ConfidenceScore     *float64 `db:"confidence_score" json:"confidence_score,omitempty"`
}

// SubmitRequest is the intake payload.
type SubmitRequest struct {
	ScanType    string `json:"scan_type"`
	ScanFileURL string `json:"scan_file_url"`
	Filename    string `json:"filename"`
	FileSize    int64  `json:"file_size"`
}
