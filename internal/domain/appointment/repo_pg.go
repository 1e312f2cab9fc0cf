package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const apptCols = `id, patient_id, doctor_id, scan_id, appointment_date, status,
	notes, created_at, updated_at`

func (r *repoPG) ListByParty(ctx context.Context, userID string) ([]*WithParties, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.patient_id, a.doctor_id, a.scan_id, a.appointment_date,
			a.status, a.notes, a.created_at, a.updated_at,
			dp.full_name AS doctor_name, dp.specialization, dp.hospital_affiliation,
			pp.full_name AS patient_name
		FROM appointments a
		JOIN user_profiles dp ON a.doctor_id = dp.user_id
		JOIN user_profiles pp ON a.patient_id = pp.user_id
		WHERE a.patient_id = $1 OR a.doctor_id = $1
		ORDER BY a.appointment_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []*WithParties
	for rows.Next() {
		var a WithParties
		if err := rows.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.ScanID,
			&a.AppointmentDate, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
			&a.DoctorName, &a.Specialization, &a.HospitalAffiliation,
			&a.PatientName); err != nil {
			return nil, err
		}
		appts = append(appts, &a)
	}
	return appts, rows.Err()
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, scan_id, appointment_date, notes)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING `+apptCols,
		a.ID, a.PatientID, a.DoctorID, a.ScanID, a.AppointmentDate, a.Notes).
		Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.ScanID, &a.AppointmentDate,
			&a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
}

func (r *repoPG) Update(ctx context.Context, id uuid.UUID, userID string, status, notes *string) (*Appointment, error) {
	var a Appointment
	err := r.pool.QueryRow(ctx, `
		UPDATE appointments SET
			status = COALESCE($1, status),
			notes = COALESCE($2, notes),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $3 AND (patient_id = $4 OR doctor_id = $4)
		RETURNING `+apptCols,
		status, notes, id, userID).
		Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.ScanID, &a.AppointmentDate,
			&a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
