package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/calcifyx/calcifyx/internal/domain/scan"
)

// leaseInterval is how long a claimed job stays invisible to other runners.
// Longer than any single processing pass, shorter than a stuck-runner recovery
// window worth waiting for.
const leaseInterval = 30 * time.Second

type jobStorePG struct {
	pool    *pgxpool.Pool
	reports ReportGenerator
}

// NewJobStorePG builds the postgres-backed job store. Report persistence is
// delegated so completion stays a single transaction.
func NewJobStorePG(pool *pgxpool.Pool, reports ReportGenerator) JobStore {
	return &jobStorePG{pool: pool, reports: reports}
}

func (s *jobStorePG) Enqueue(ctx context.Context, scanID uuid.UUID, runAfter time.Time) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO analysis_jobs (scan_id, stage, run_after)
		VALUES ($1, $2, $3)
		ON CONFLICT (scan_id) DO NOTHING`,
		scanID, StageQueued, runAfter)
	return err
}

func (s *jobStorePG) DueJobs(ctx context.Context, limit int) ([]*Job, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT j.scan_id, ms.patient_id, ms.scan_type, j.stage, j.attempts,
			j.run_after, j.created_at
		FROM analysis_jobs j
		JOIN medical_scans ms ON ms.id = j.scan_id
		WHERE j.run_after <= now()
		ORDER BY j.run_after
		LIMIT $1
		FOR UPDATE OF j SKIP LOCKED`, limit)
	if err != nil {
		return nil, err
	}

	var jobs []*Job
	var ids []uuid.UUID
	for rows.Next() {
		var j Job
		if err := rows.Scan(&j.ScanID, &j.PatientID, &j.ScanType, &j.Stage,
			&j.Attempts, &j.RunAfter, &j.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		jobs = append(jobs, &j)
		ids = append(ids, j.ScanID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		if _, err := tx.Exec(ctx, `
			UPDATE analysis_jobs SET run_after = $1
			WHERE scan_id = ANY($2)`,
			time.Now().Add(leaseInterval), ids); err != nil {
			return nil, err
		}
	}
	return jobs, tx.Commit(ctx)
}

func (s *jobStorePG) MarkProcessing(ctx context.Context, scanID uuid.UUID, runAfter time.Time) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		UPDATE medical_scans SET analysis_status = $1 WHERE id = $2`,
		scan.StatusProcessing, scanID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		UPDATE analysis_jobs SET stage = $1, run_after = $2 WHERE scan_id = $3`,
		StageProcessing, runAfter, scanID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *jobStorePG) CompleteScan(ctx context.Context, job *Job, res *Result) error {
	findingsJSON, err := json.Marshal(res.Findings)
	if err != nil {
		return fmt.Errorf("marshal findings: %w", err)
	}
	stonesJSON, err := json.Marshal(res.Findings.Stones)
	if err != nil {
		return fmt.Errorf("marshal stones: %w", err)
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			UPDATE medical_scans SET analysis_status = $1, ai_analysis_result = $2
			WHERE id = $3`,
			scan.StatusCompleted, findingsJSON, job.ScanID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO stone_detections (
				scan_id, stone_count, stones_data, max_stone_size,
				risk_level, requires_appointment, confidence_score
			) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			job.ScanID, res.Findings.StonesDetected, stonesJSON,
			res.Findings.MaxSize, res.RiskLevel, res.RequiresAppointment,
			res.Findings.Confidence); err != nil {
			return err
		}
		if err := s.reports.PersistReports(ctx, tx, job.ScanID, job.PatientID, res); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `DELETE FROM analysis_jobs WHERE scan_id = $1`, job.ScanID)
		return err
	})
}

func (s *jobStorePG) RetryLater(ctx context.Context, scanID uuid.UUID, runAfter time.Time) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE analysis_jobs SET attempts = attempts + 1, run_after = $1
		WHERE scan_id = $2`, runAfter, scanID)
	return err
}

func (s *jobStorePG) FailScan(ctx context.Context, scanID uuid.UUID) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			UPDATE medical_scans SET analysis_status = $1 WHERE id = $2`,
			scan.StatusFailed, scanID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `DELETE FROM analysis_jobs WHERE scan_id = $1`, scanID)
		return err
	})
}
