package analysis

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/calcifyx/calcifyx/internal/platform/notify"
)

const (
	// processingDelay is how long an accepted scan sits pending before the
	// runner flips it to processing.
	processingDelay = 1 * time.Second
	// completionDelayMin and completionDelaySpan bound the simulated
	// analysis duration: completion lands 5 to 10 seconds after the
	// processing transition.
	completionDelayMin  = 5 * time.Second
	completionDelaySpan = 5 * time.Second

	retryDelay  = 5 * time.Second
	maxAttempts = 3
	claimBatch  = 10
)

// Runner polls the job store and drives each scan through its two-stage
// lifecycle. It also serves as the intake-side enqueue point.
type Runner struct {
	store    JobStore
	engine   Engine
	notifier notify.Notifier
	logger   zerolog.Logger
	interval time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRunner(store JobStore, engine Engine, notifier notify.Notifier,
	interval time.Duration, rnd *rand.Rand, logger zerolog.Logger) *Runner {
	return &Runner{
		store:    store,
		engine:   engine,
		notifier: notifier,
		logger:   logger,
		interval: interval,
		rnd:      rnd,
	}
}

// Enqueue schedules a freshly accepted scan. Satisfies scan.AnalysisQueue.
func (r *Runner) Enqueue(ctx context.Context, scanID uuid.UUID) error {
	return r.store.Enqueue(ctx, scanID, time.Now().Add(processingDelay))
}

// Start polls until ctx is canceled. Blocking; run it in its own goroutine.
func (r *Runner) Start(ctx context.Context) {
	r.logger.Info().Dur("interval", r.interval).Msg("analysis runner started")
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("analysis runner stopped")
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Runner) tick(ctx context.Context) {
	jobs, err := r.store.DueJobs(ctx, claimBatch)
	if err != nil {
		r.logger.Error().Err(err).Msg("claim analysis jobs")
		return
	}
	for _, job := range jobs {
		r.process(ctx, job)
	}
}

func (r *Runner) process(ctx context.Context, job *Job) {
	switch job.Stage {
	case StageQueued:
		r.advance(ctx, job)
	case StageProcessing:
		r.complete(ctx, job)
	default:
		r.logger.Error().Str("scan_id", job.ScanID.String()).
			Str("stage", job.Stage).Msg("unknown job stage")
	}
}

func (r *Runner) advance(ctx context.Context, job *Job) {
	due := time.Now().Add(r.completionDelay())
	if err := r.store.MarkProcessing(ctx, job.ScanID, due); err != nil {
		r.fail(ctx, job, err)
		return
	}
	r.logger.Info().Str("scan_id", job.ScanID.String()).
		Time("complete_after", due).Msg("scan processing")
}

func (r *Runner) complete(ctx context.Context, job *Job) {
	findings := r.engine.Analyze(job.ScanType)
	res := &Result{
		Findings:            findings,
		RiskLevel:           RiskLevel(findings.MaxSize),
		RequiresAppointment: RequiresAppointment(findings.MaxSize, findings.StonesDetected),
	}

	if err := r.store.CompleteScan(ctx, job, res); err != nil {
		r.fail(ctx, job, err)
		return
	}

	r.logger.Info().Str("scan_id", job.ScanID.String()).
		Int("stones", findings.StonesDetected).
		Float64("max_size", findings.MaxSize).
		Str("risk_level", res.RiskLevel).
		Msg("scan completed")
	r.notifier.Notify(ctx, notify.Event{
		Type:      notify.EventScanCompleted,
		ScanID:    job.ScanID.String(),
		PatientID: job.PatientID,
	})
}

// fail retries a bounded number of times, then marks the scan failed.
func (r *Runner) fail(ctx context.Context, job *Job, cause error) {
	if job.Attempts+1 < maxAttempts {
		r.logger.Warn().Err(cause).Str("scan_id", job.ScanID.String()).
			Int("attempts", job.Attempts+1).Msg("analysis attempt failed, retrying")
		if err := r.store.RetryLater(ctx, job.ScanID, time.Now().Add(retryDelay)); err != nil {
			r.logger.Error().Err(err).Str("scan_id", job.ScanID.String()).Msg("reschedule analysis job")
		}
		return
	}

	r.logger.Error().Err(cause).Str("scan_id", job.ScanID.String()).Msg("analysis failed permanently")
	if err := r.store.FailScan(ctx, job.ScanID); err != nil {
		r.logger.Error().Err(err).Str("scan_id", job.ScanID.String()).Msg("mark scan failed")
		return
	}
	r.notifier.Notify(ctx, notify.Event{
		Type:      notify.EventScanFailed,
		ScanID:    job.ScanID.String(),
		PatientID: job.PatientID,
	})
}

func (r *Runner) completionDelay() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return completionDelayMin + time.Duration(r.rnd.Int63n(int64(completionDelaySpan)))
}
