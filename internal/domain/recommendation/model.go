// Package recommendation serves per-patient lifestyle guidance entries,
// optionally linking educational video content.
package recommendation

import (
	"time"

	"github.com/google/uuid"
)

type Recommendation struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	PatientID          string    `db:"patient_id" json:"patient_id"`
	RecommendationType string    `db:"recommendation_type" json:"recommendation_type"`
	Title              string    `db:"title" json:"title"`
	Description        *string   `db:"description" json:"description,omitempty"`
	VideoURL           *string   `db:"video_url" json:"video_url,omitempty"`
	VideoThumbnail     *string   `db:"video_thumbnail" json:"video_thumbnail,omitempty"`
	Priority           int       `db:"priority" json:"priority"`
	IsActive           bool      `db:"is_active" json:"is_active"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// CreateRequest is the creation payload. Priority defaults to 1.
type CreateRequest struct {
	RecommendationType string  `json:"recommendation_type"`
	Title              string  `json:"title"`
	Description        *string `json:"description"`
	VideoURL           *string `json:"video_url"`
	VideoThumbnail     *string `json:"video_thumbnail"`
	Priority           *int    `json:"priority"`
}
