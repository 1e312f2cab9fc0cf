package scan

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/calcifyx/calcifyx/pkg/pagination"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const scanCols = `id, patient_id, scan_type, scan_file_url, analysis_status,
	ai_analysis_result, upload_date`

func (r *repoPG) Create(ctx context.Context, s *Scan) error {
	s.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO medical_scans (id, patient_id, scan_type, scan_file_url, analysis_status)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING `+scanCols,
		s.ID, s.PatientID, s.ScanType, s.ScanFileURL, StatusPending).
		Scan(&s.ID, &s.PatientID, &s.ScanType, &s.ScanFileURL, &s.AnalysisStatus,
			&s.AIAnalysisResult, &s.UploadDate)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID string, p pagination.Params) ([]*WithDetection, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ms.id, ms.patient_id, ms.scan_type, ms.scan_file_url, ms.analysis_status,
			ms.ai_analysis_result, ms.upload_date,
			sd.stone_count, sd.max_stone_size, sd.risk_level,
			sd.requires_appointment, sd.confidence_score
		FROM medical_scans ms
		LEFT JOIN stone_detections sd ON ms.id = sd.scan_id
		WHERE ms.patient_id = $1
		ORDER BY ms.upload_date DESC
		LIMIT $2 OFFSET $3`, patientID, p.Limit, p.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scans []*WithDetection
	for rows.Next() {
		var s WithDetection
		if err := rows.Scan(&s.ID, &s.PatientID, &s.ScanType, &s.ScanFileURL,
			&s.AnalysisStatus, &s.AIAnalysisResult, &s.UploadDate,
			&s.StoneCount, &s.MaxStoneSize, &s.RiskLevel,
			&s.RequiresAppointment, &s.ConfidenceScore); err != nil {
			return nil, err
		}
		scans = append(scans, &s)
	}
	return scans, rows.Err()
}
