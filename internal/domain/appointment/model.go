// Package appointment manages bookings between patients and doctors.
// Appointments are visible to both parties; either side may update status
// or notes.
package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses.
const (
	StatusScheduled = "scheduled"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

type Appointment struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	PatientID       string     `db:"patient_id" json:"patient_id"`
	DoctorID        string     `db:"doctor_id" json:"doctor_id"`
	ScanID          *uuid.UUID `db:"scan_id" json:"scan_id,omitempty"`
	AppointmentDate time.Time  `db:"appointment_date" json:"appointment_date"`
	Status          string     `db:"status" json:"status"`
	Notes           *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// WithParties is an appointment enriched with both parties' profile fields
// for display.
type WithParties struct {
	Appointment
	DoctorName          *string `db:"doctor_name" json:"doctor_name"`
	Specialization      *string `db:"specialization" json:"specialization,omitempty"`
	HospitalAffiliation *string `db:"hospital_affiliation" json:"hospital_affiliation,omitempty"`
	PatientName         *string `db:"patient_name" json:"patient_name"`
}

// CreateRequest is the booking payload.
type CreateRequest struct {
	DoctorID        string     `json:"doctor_id"`
	ScanID          *uuid.UUID `json:"scan_id"`
	AppointmentDate *time.Time `json:"appointment_date"`
	Notes           *string    `json:"notes"`
}

// UpdateRequest mutates status or notes; absent fields are left unchanged.
type UpdateRequest struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	Status        *string   `json:"status"`
	Notes         *string   `json:"notes"`
}
