package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"time"

	"github.com/calcifyx/calcifyx/internal/domain/analysis"
)

// content is the loose shape of a stored report document. Only the fields
// the renderer consumes are declared; patient and doctor documents differ.
type content struct {
	Summary          string            `json:"summary"`
	Findings         *PatientFindings  `json:"findings"`
	ClinicalFindings *ClinicalFindings `json:"clinical_findings"`
	Recommendations  []string          `json:"recommendations"`
	TechnicalNotes   string            `json:"technical_notes"`
}

type stoneRow struct {
	Label       string
	Size        string
	Location    string
	Composition string
	Probability string
	Coordinates string
}

type renderView struct {
	ReportTitle         string
	GeneratedDate       string
	ReportID            string
	PatientName         string
	DateOfBirth         string
	ScanDate            string
	ScanType            string
	Summary             string
	StoneCount          int
	LargestStone        string
	RiskLevel           string
	RiskClass           string
	Confidence          string
	Stones              []stoneRow
	IsDoctor            bool
	Recommendations     []string
	RequiresAppointment bool
	AIModel             string
	AnalysisTime        string
	ScanQuality         string
	TechnicalNotes      string
	Year                int
}

// fallbackRecommendations covers documents generated before analysis wrote
// guidance, so the rendered report never shows an empty section.
var fallbackRecommendations = []string{
	"Follow up with healthcare provider",
	"Maintain adequate hydration",
	"Consider dietary modifications",
}

// Render produces the printable HTML document for one report variant.
func Render(d *RenderData, reportType string, now time.Time) (string, error) {
	var c content
	if len(d.ReportContent) > 0 {
		if err := json.Unmarshal(d.ReportContent, &c); err != nil {
			return "", fmt.Errorf("decode report content: %w", err)
		}
	}

	view := buildView(d, &c, reportType, now)

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}

func buildView(d *RenderData, c *content, reportType string, now time.Time) *renderView {
	view := &renderView{
		ReportTitle:   "Patient Report",
		GeneratedDate: now.Format("1/2/2006"),
		ReportID:      d.ScanID.String(),
		PatientName:   "N/A",
		DateOfBirth:   "N/A",
		ScanDate:      d.UploadDate.Format("1/2/2006"),
		ScanType:      d.ScanType,
		LargestStone:  "N/A cm",
		RiskLevel:     "Low",
		RiskClass:     "low",
		Confidence:    "85.0%",
		IsDoctor:      reportType == TypeDoctor,
		AIModel:       aiModelVersion,
		AnalysisTime:  d.UploadDate.Format("1/2/2006, 3:04:05 PM"),
		ScanQuality:   "Good",
		Year:          now.Year(),
	}
	if view.IsDoctor {
		view.ReportTitle = "Clinical Report"
	}
	if d.FullName != nil && *d.FullName != "" {
		view.PatientName = *d.FullName
	}
	if d.DateOfBirth != nil {
		view.DateOfBirth = d.DateOfBirth.Format("1/2/2006")
	}

	if d.StoneCount != nil {
		view.StoneCount = *d.StoneCount
	}
	view.Summary = c.Summary
	if view.Summary == "" {
		view.Summary = fmt.Sprintf("Analysis completed. %d kidney stone(s) detected.", view.StoneCount)
	}
	if d.MaxStoneSize != nil {
		view.LargestStone = FormatSize(*d.MaxStoneSize) + " cm"
	}
	if d.RiskLevel != nil && *d.RiskLevel != "" {
		view.RiskLevel = *d.RiskLevel
		view.RiskClass = *d.RiskLevel
	}
	if d.ConfidenceScore != nil {
		view.Confidence = fmt.Sprintf("%.1f%%", *d.ConfidenceScore*100)
	}
	if d.RequiresAppointment != nil {
		view.RequiresAppointment = *d.RequiresAppointment
	}

	if len(d.StonesData) > 0 {
		var stones []analysis.Stone
		if err := json.Unmarshal(d.StonesData, &stones); err == nil {
			for _, s := range stones {
				view.Stones = append(view.Stones, stoneRow{
					Label:       fmt.Sprintf("Stone %d", s.ID),
					Size:        FormatSize(s.Size),
					Location:    s.Location,
					Composition: s.Composition,
					Probability: fmt.Sprintf("%.1f%%", s.Probability*100),
					Coordinates: fmt.Sprintf("(%d, %d, %d)", s.Coordinates.X, s.Coordinates.Y, s.Coordinates.Z),
				})
			}
		}
	}

	switch {
	case c.Findings != nil && len(c.Findings.Recommendations) > 0:
		view.Recommendations = c.Findings.Recommendations
	case len(c.Recommendations) > 0:
		view.Recommendations = c.Recommendations
	default:
		view.Recommendations = fallbackRecommendations
	}

	if c.ClinicalFindings != nil && c.ClinicalFindings.ScanQuality != "" {
		view.ScanQuality = c.ClinicalFindings.ScanQuality
	}
	view.TechnicalNotes = c.TechnicalNotes

	return view
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>CalcifyX Medical Report</title>
  <style>
    body { font-family: 'Arial', sans-serif; margin: 0; padding: 20px; background: white; color: #333; }
    .header { display: flex; justify-content: space-between; align-items: center; border-bottom: 3px solid #14B8A6; padding-bottom: 20px; margin-bottom: 30px; }
    .logo-text { font-size: 24px; font-weight: bold; color: #14B8A6; }
    .report-info { text-align: right; color: #666; }
    .patient-info { background: #f8f9fa; padding: 20px; border-radius: 10px; margin-bottom: 30px; }
    .section { margin-bottom: 30px; }
    .section-title { font-size: 18px; font-weight: bold; color: #14B8A6; border-bottom: 2px solid #14B8A6; padding-bottom: 5px; margin-bottom: 15px; }
    .findings-grid { display: grid; grid-template-columns: repeat(2, 1fr); gap: 20px; margin-bottom: 20px; }
    .finding-card { background: #f8f9fa; padding: 15px; border-radius: 8px; border-left: 4px solid #14B8A6; }
    .finding-label { font-size: 12px; color: #666; text-transform: uppercase; letter-spacing: 1px; }
    .finding-value { font-size: 20px; font-weight: bold; color: #333; margin-top: 5px; }
    .risk-level { display: inline-block; padding: 5px 15px; border-radius: 20px; font-weight: bold; text-transform: uppercase; font-size: 12px; }
    .risk-high { background: #fef2f2; color: #dc2626; }
    .risk-medium { background: #fef3c7; color: #d97706; }
    .risk-low { background: #f0fdf4; color: #16a34a; }
    .recommendations { background: #f0f9ff; padding: 20px; border-radius: 10px; border-left: 4px solid #3b82f6; }
    .recommendations ul { margin: 0; padding-left: 20px; }
    .recommendations li { margin-bottom: 8px; line-height: 1.5; }
    .appointment-warning { background: #fef2f2; padding: 10px; border-radius: 5px; color: #dc2626; font-weight: bold; }
    .stones-table { width: 100%; border-collapse: collapse; margin-top: 15px; }
    .stones-table th, .stones-table td { border: 1px solid #e5e7eb; padding: 10px; text-align: left; }
    .stones-table th { background: #f8f9fa; font-weight: bold; }
    .technical { background: #f8f9fa; padding: 20px; border-radius: 10px; }
    .footer { margin-top: 50px; padding-top: 20px; border-top: 1px solid #e5e7eb; font-size: 12px; color: #666; text-align: center; }
    @media print { body { margin: 0; } .header { page-break-after: avoid; } }
  </style>
</head>
<body>
  <div class="header">
    <div class="logo-text">CalcifyX</div>
    <div class="report-info">
      <div><strong>{{.ReportTitle}}</strong></div>
      <div>Generated: {{.GeneratedDate}}</div>
      <div>Report ID: {{.ReportID}}</div>
    </div>
  </div>

  <div class="patient-info">
    <h3 style="margin-top: 0;">Patient Information</h3>
    <p><strong>Name:</strong> {{.PatientName}}</p>
    <p><strong>Date of Birth:</strong> {{.DateOfBirth}}</p>
    <p><strong>Scan Date:</strong> {{.ScanDate}}</p>
    <p><strong>Scan Type:</strong> {{.ScanType}}</p>
  </div>

  <div class="section">
    <h2 class="section-title">Analysis Summary</h2>
    {{.Summary}}
  </div>

  <div class="section">
    <h2 class="section-title">Key Findings</h2>
    <div class="findings-grid">
      <div class="finding-card">
        <div class="finding-label">Stones Detected</div>
        <div class="finding-value">{{.StoneCount}}</div>
      </div>
      <div class="finding-card">
        <div class="finding-label">Largest Stone</div>
        <div class="finding-value">{{.LargestStone}}</div>
      </div>
      <div class="finding-card">
        <div class="finding-label">Risk Level</div>
        <div class="finding-value">
          <span class="risk-level risk-{{.RiskClass}}">{{.RiskLevel}}</span>
        </div>
      </div>
      <div class="finding-card">
        <div class="finding-label">Confidence Score</div>
        <div class="finding-value">{{.Confidence}}</div>
      </div>
    </div>
  </div>

  {{if .Stones}}
  <div class="section">
    <h2 class="section-title">Detected Stones</h2>
    <table class="stones-table">
      <thead>
        <tr>
          <th>Stone ID</th>
          <th>Size (cm)</th>
          <th>Location</th>
          {{if .IsDoctor}}<th>Composition</th>{{end}}
          <th>Probability</th>
          {{if .IsDoctor}}<th>Coordinates</th>{{end}}
        </tr>
      </thead>
      <tbody>
        {{range .Stones}}
        <tr>
          <td>{{.Label}}</td>
          <td>{{.Size}}</td>
          <td>{{.Location}}</td>
          {{if $.IsDoctor}}<td>{{.Composition}}</td>{{end}}
          <td>{{.Probability}}</td>
          {{if $.IsDoctor}}<td>{{.Coordinates}}</td>{{end}}
        </tr>
        {{end}}
      </tbody>
    </table>
  </div>
  {{end}}

  <div class="section">
    <h2 class="section-title">Recommendations</h2>
    <div class="recommendations">
      <ul>
        {{range .Recommendations}}<li>{{.}}</li>{{end}}
      </ul>
      {{if .RequiresAppointment}}
      <p class="appointment-warning">Appointment with a specialist is recommended.</p>
      {{end}}
    </div>
  </div>

  {{if .IsDoctor}}
  <div class="section">
    <h2 class="section-title">Technical Analysis</h2>
    <div class="technical">
      <p><strong>AI Model:</strong> {{.AIModel}}</p>
      <p><strong>Analysis Time:</strong> {{.AnalysisTime}}</p>
      <p><strong>Scan Quality:</strong> {{.ScanQuality}}</p>
      <p><strong>Confidence Score:</strong> {{.Confidence}}</p>
      {{if .TechnicalNotes}}<p><strong>Technical Notes:</strong> {{.TechnicalNotes}}</p>{{end}}
    </div>
  </div>
  {{end}}

  <div class="footer">
    <p><strong>CalcifyX - Smarter Kidney Care with AI</strong></p>
    <p>This report was generated using advanced AI analysis. Please consult with a healthcare professional for medical advice.</p>
    <p>&copy; {{.Year}} CalcifyX. All rights reserved.</p>
  </div>
</body>
</html>
`))
