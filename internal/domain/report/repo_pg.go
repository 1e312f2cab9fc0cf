package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/calcifyx/calcifyx/internal/domain/analysis"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) *repoPG { return &repoPG{pool: pool} }

// PersistReports writes both report variants inside the completion
// transaction. Satisfies analysis.ReportGenerator.
func (r *repoPG) PersistReports(ctx context.Context, tx pgx.Tx, scanID uuid.UUID,
	patientID string, res *analysis.Result) error {
	now := time.Now().UTC()
	patient, doctor := BuildReports(res, now)

	patientJSON, err := json.Marshal(patient)
	if err != nil {
		return fmt.Errorf("marshal patient report: %w", err)
	}
	doctorJSON, err := json.Marshal(doctor)
	if err != nil {
		return fmt.Errorf("marshal doctor report: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO medical_reports (scan_id, patient_id, report_type, report_content)
		VALUES ($1,$2,$3,$4), ($1,$2,$5,$6)`,
		scanID, patientID, TypePatient, patientJSON, TypeDoctor, doctorJSON)
	return err
}

func (r *repoPG) GetRenderData(ctx context.Context, scanID uuid.UUID,
	patientID, reportType string) (*RenderData, error) {
	var d RenderData
	err := r.pool.QueryRow(ctx, `
		SELECT ms.id, ms.scan_type, ms.upload_date,
			sd.stone_count, sd.max_stone_size, sd.risk_level,
			sd.requires_appointment, sd.confidence_score, sd.stones_data,
			mr.report_content,
			up.full_name, up.date_of_birth
		FROM medical_scans ms
		LEFT JOIN stone_detections sd ON ms.id = sd.scan_id
		LEFT JOIN medical_reports mr ON ms.id = mr.scan_id AND mr.report_type = $3
		LEFT JOIN user_profiles up ON ms.patient_id = up.user_id
		WHERE ms.id = $1 AND ms.patient_id = $2`,
		scanID, patientID, reportType).
		Scan(&d.ScanID, &d.ScanType, &d.UploadDate,
			&d.StoneCount, &d.MaxStoneSize, &d.RiskLevel,
			&d.RequiresAppointment, &d.ConfidenceScore, &d.StonesData,
			&d.ReportContent,
			&d.FullName, &d.DateOfBirth)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}
