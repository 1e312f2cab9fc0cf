// Package report builds and renders the patient-facing and clinical reports
// produced when a scan's analysis completes. Both variants are persisted as
// JSON documents and rendered to printable HTML on demand.
package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/calcifyx/calcifyx/internal/domain/analysis"
)

// Report variants. The patient report is plain-language; the doctor report
// carries the full clinical detail.
const (
	TypePatient = "patient"
	TypeDoctor  = "doctor"
)

const aiModelVersion = "CalcifyX AI v2.1"

// PatientFindings is the plain-language findings block.
type PatientFindings struct {
	StoneCount      int      `json:"stone_count"`
	LargestStone    string   `json:"largest_stone"`
	RiskLevel       string   `json:"risk_level"`
	Recommendations []string `json:"recommendations"`
}

// PatientReport is the document stored for the patient variant.
type PatientReport struct {
	Summary     string          `json:"summary"`
	Findings    PatientFindings `json:"findings"`
	NextSteps   string          `json:"next_steps"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// ClinicalFindings carries the full detection detail for clinicians.
type ClinicalFindings struct {
	StoneCount      int              `json:"stone_count"`
	StoneDetails    []analysis.Stone `json:"stone_details"`
	MaxDiameter     float64          `json:"max_diameter"`
	ConfidenceScore float64          `json:"confidence_score"`
	ScanQuality     string           `json:"scan_quality"`
}

// Assessment is the clinical risk stratification block.
type Assessment struct {
	RiskStratification   string `json:"risk_stratification"`
	RequiresIntervention bool   `json:"requires_intervention"`
	FollowUpRecommended  bool   `json:"follow_up_recommended"`
}

// DoctorReport is the document stored for the doctor variant.
type DoctorReport struct {
	ClinicalFindings ClinicalFindings `json:"clinical_findings"`
	Assessment       Assessment       `json:"assessment"`
	Recommendations  []string         `json:"recommendations"`
	TechnicalNotes   string           `json:"technical_notes"`
	GeneratedAt      time.Time        `json:"generated_at"`
}

// BuildReports derives both report variants from a completed analysis.
func BuildReports(res *analysis.Result, now time.Time) (*PatientReport, *DoctorReport) {
	f := res.Findings

	nextSteps := "Continue monitoring and follow lifestyle recommendations."
	if res.RiskLevel == "high" {
		nextSteps = "Please schedule an appointment with a urologist as soon as possible."
	}

	patient := &PatientReport{
		Summary: fmt.Sprintf("Analysis completed. %d kidney stone(s) detected.", f.StonesDetected),
		Findings: PatientFindings{
			StoneCount:      f.StonesDetected,
			LargestStone:    FormatSize(f.MaxSize) + " cm",
			RiskLevel:       res.RiskLevel,
			Recommendations: f.Recommendations,
		},
		NextSteps:   nextSteps,
		GeneratedAt: now,
	}

	doctor := &DoctorReport{
		ClinicalFindings: ClinicalFindings{
			StoneCount:      f.StonesDetected,
			StoneDetails:    f.Stones,
			MaxDiameter:     f.MaxSize,
			ConfidenceScore: f.Confidence,
			ScanQuality:     f.ScanQuality,
		},
		Assessment: Assessment{
			RiskStratification:   res.RiskLevel,
			RequiresIntervention: f.MaxSize > 1.0,
			FollowUpRecommended:  true,
		},
		Recommendations: f.Recommendations,
		TechnicalNotes: fmt.Sprintf("Automated analysis using AI model v2.1. Confidence: %.1f%%",
			f.Confidence*100),
		GeneratedAt: now,
	}

	return patient, doctor
}

// FormatSize renders a diameter without trailing zeros, so 1.0 prints as "1"
// and 1.2 as "1.2".
func FormatSize(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
