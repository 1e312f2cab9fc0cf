package scan

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Scans"

var exportHeaders = []string{
	"Scan ID", "Scan Type", "Status", "Upload Date",
	"Stones Detected", "Max Stone Size (cm)", "Risk Level",
	"Requires Appointment", "Confidence",
}

// BuildWorkbook renders the caller's scan history as an xlsx workbook.
func BuildWorkbook(scans []*WithDetection) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return nil, err
		}
	}

	for rowIdx, s := range scans {
		values := []interface{}{
			s.ID.String(),
			s.ScanType,
			s.AnalysisStatus,
			s.UploadDate.Format(time.RFC3339),
			intOrEmpty(s.StoneCount),
			floatOrEmpty(s.MaxStoneSize),
			strOrEmpty(s.RiskLevel),
			boolOrEmpty(s.RequiresAppointment),
			floatOrEmpty(s.ConfidenceScore),
		}
		for colIdx, v := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(exportSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	return f.WriteToBuffer()
}

// ExportFilename computes the attachment filename for a scan export.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("CalcifyX_scans_%s.xlsx", now.Format("2006-01-02"))
}

func intOrEmpty(v *int) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func floatOrEmpty(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func strOrEmpty(v *string) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func boolOrEmpty(v *bool) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
