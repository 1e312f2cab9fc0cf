package profile

import (
	"time"

	"github.com/google/uuid"
)

// User types.
const (
	TypePatient = "patient"
	TypeDoctor  = "doctor"
)

// Profile maps to the user_profiles table. UserID is the stable identifier
// supplied by the auth provider; user_type is never updated after creation.
type Profile struct {
	ID                  uuid.UUID  `db:"id" json:"id"`
	UserID              string     `db:"user_id" json:"user_id"`
	UserType            string     `db:"user_type" json:"user_type"`
	FullName            string     `db:"full_name" json:"full_name"`
	Phone               *string    `db:"phone" json:"phone,omitempty"`
	DateOfBirth         *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender              *string    `db:"gender" json:"gender,omitempty"`
	Specialization      *string    `db:"specialization" json:"specialization,omitempty"`
	YearsExperience     *int       `db:"years_experience" json:"years_experience,omitempty"`
	HospitalAffiliation *string    `db:"hospital_affiliation" json:"hospital_affiliation,omitempty"`
	Rating              *float64   `db:"rating" json:"rating,omitempty"`
	TotalReviews        *int       `db:"total_reviews" json:"total_reviews,omitempty"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// Update carries the mergeable profile fields; nil fields are left unchanged.
type Update struct {
	FullName            *string    `json:"full_name,omitempty"`
	Phone               *string    `json:"phone,omitempty"`
	DateOfBirth         *time.Time `json:"date_of_birth,omitempty"`
	Gender              *string    `json:"gender,omitempty"`
	Specialization      *string    `json:"specialization,omitempty"`
	YearsExperience     *int       `json:"years_experience,omitempty"`
	HospitalAffiliation *string    `json:"hospital_affiliation,omitempty"`
}

// Doctor is the public directory view of a doctor profile.
type Doctor struct {
	UserID              string   `db:"user_id" json:"user_id"`
	FullName            string   `db:"full_name" json:"full_name"`
	Specialization      *string  `db:"specialization" json:"specialization,omitempty"`
	YearsExperience     *int     `db:"years_experience" json:"years_experience,omitempty"`
	Rating              *float64 `db:"rating" json:"rating,omitempty"`
	TotalReviews        *int     `db:"total_reviews" json:"total_reviews,omitempty"`
	HospitalAffiliation *string  `db:"hospital_affiliation" json:"hospital_affiliation,omitempty"`
}
