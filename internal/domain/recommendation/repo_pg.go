package recommendation

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const recCols = `id, patient_id, recommendation_type, title, description,
	video_url, video_thumbnail, priority, is_active, created_at`

func (r *repoPG) ListActive(ctx context.Context, patientID string) ([]*Recommendation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+recCols+` FROM lifestyle_recommendations
		WHERE patient_id = $1 AND is_active = true
		ORDER BY priority ASC, created_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*Recommendation
	for rows.Next() {
		var rec Recommendation
		if err := rows.Scan(&rec.ID, &rec.PatientID, &rec.RecommendationType,
			&rec.Title, &rec.Description, &rec.VideoURL, &rec.VideoThumbnail,
			&rec.Priority, &rec.IsActive, &rec.CreatedAt); err != nil {
			return nil, err
		}
		recs = append(recs, &rec)
	}
	return recs, rows.Err()
}

func (r *repoPG) Create(ctx context.Context, rec *Recommendation) error {
	rec.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO lifestyle_recommendations (
			id, patient_id, recommendation_type, title, description,
			video_url, video_thumbnail, priority
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING `+recCols,
		rec.ID, rec.PatientID, rec.RecommendationType, rec.Title, rec.Description,
		rec.VideoURL, rec.VideoThumbnail, rec.Priority).
		Scan(&rec.ID, &rec.PatientID, &rec.RecommendationType, &rec.Title,
			&rec.Description, &rec.VideoURL, &rec.VideoThumbnail,
			&rec.Priority, &rec.IsActive, &rec.CreatedAt)
}
