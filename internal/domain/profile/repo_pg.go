package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const profileCols = `id, user_id, user_type, full_name, phone, date_of_birth, gender,
	specialization, years_experience, hospital_affiliation, rating, total_reviews,
	created_at, updated_at`

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.UserID, &p.UserType, &p.FullName, &p.Phone, &p.DateOfBirth,
		&p.Gender, &p.Specialization, &p.YearsExperience, &p.HospitalAffiliation,
		&p.Rating, &p.TotalReviews, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Profile) error {
	p.ID = uuid.New()
	return scanInto(p, r.pool.QueryRow(ctx, `
		INSERT INTO user_profiles (id, user_id, user_type, full_name, phone, date_of_birth,
			gender, specialization, years_experience, hospital_affiliation)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING `+profileCols,
		p.ID, p.UserID, p.UserType, p.FullName, p.Phone, p.DateOfBirth,
		p.Gender, p.Specialization, p.YearsExperience, p.HospitalAffiliation))
}

func scanInto(p *Profile, row pgx.Row) error {
	got, err := scanProfile(row)
	if err != nil {
		return err
	}
	*p = *got
	return nil
}

func (r *repoPG) GetByUserID(ctx context.Context, userID string) (*Profile, error) {
	p, err := scanProfile(r.pool.QueryRow(ctx,
		`SELECT `+profileCols+` FROM user_profiles WHERE user_id = $1`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repoPG) Update(ctx context.Context, userID string, upd *Update) (*Profile, error) {
	p, err := scanProfile(r.pool.QueryRow(ctx, `
		UPDATE user_profiles SET
			full_name = COALESCE($2, full_name),
			phone = COALESCE($3, phone),
			date_of_birth = COALESCE($4, date_of_birth),
			gender = COALESCE($5, gender),
			specialization = COALESCE($6, specialization),
			years_experience = COALESCE($7, years_experience),
			hospital_affiliation = COALESCE($8, hospital_affiliation),
			updated_at = NOW()
		WHERE user_id = $1
		RETURNING `+profileCols,
		userID, upd.FullName, upd.Phone, upd.DateOfBirth, upd.Gender,
		upd.Specialization, upd.YearsExperience, upd.HospitalAffiliation))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repoPG) ListDoctors(ctx context.Context) ([]*Doctor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, full_name, specialization, years_experience, rating,
			total_reviews, hospital_affiliation
		FROM user_profiles
		WHERE user_type = 'doctor'
		ORDER BY rating DESC NULLS LAST, total_reviews DESC NULLS LAST`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var doctors []*Doctor
	for rows.Next() {
		var d Doctor
		if err := rows.Scan(&d.UserID, &d.FullName, &d.Specialization, &d.YearsExperience,
			&d.Rating, &d.TotalReviews, &d.HospitalAffiliation); err != nil {
			return nil, err
		}
		doctors = append(doctors, &d)
	}
	return doctors, rows.Err()
}
