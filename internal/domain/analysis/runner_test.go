package analysis

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/calcifyx/calcifyx/internal/platform/notify"
)

type mockJobStore struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*Job

	completed   []uuid.UUID
	failed      []uuid.UUID
	completeErr error
}

func newMockJobStore() *mockJobStore {
	return &mockJobStore{jobs: make(map[uuid.UUID]*Job)}
}

func (m *mockJobStore) Enqueue(ctx context.Context, scanID uuid.UUID, runAfter time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[scanID]; ok {
		return nil
	}
	m.jobs[scanID] = &Job{
		ScanID:    scanID,
		PatientID: "patient-1",
		ScanType:  "CT",
		Stage:     StageQueued,
		RunAfter:  runAfter,
	}
	return nil
}

func (m *mockJobStore) DueJobs(ctx context.Context, limit int) ([]*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Job
	for _, j := range m.jobs {
		cp := *j
		out = append(out, &cp)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockJobStore) MarkProcessing(ctx context.Context, scanID uuid.UUID, runAfter time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[scanID]
	if !ok {
		return errors.New("job not found")
	}
	j.Stage = StageProcessing
	j.RunAfter = runAfter
	return nil
}

func (m *mockJobStore) CompleteScan(ctx context.Context, job *Job, res *Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.completeErr != nil {
		return m.completeErr
	}
	delete(m.jobs, job.ScanID)
	m.completed = append(m.completed, job.ScanID)
	return nil
}

func (m *mockJobStore) RetryLater(ctx context.Context, scanID uuid.UUID, runAfter time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[scanID]
	if !ok {
		return errors.New("job not found")
	}
	j.Attempts++
	j.RunAfter = runAfter
	return nil
}

func (m *mockJobStore) FailScan(ctx context.Context, scanID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.jobs, scanID)
	m.failed = append(m.failed, scanID)
	return nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (n *recordingNotifier) Notify(ctx context.Context, e notify.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

func newTestRunner(store JobStore, notifier notify.Notifier) *Runner {
	engine := NewSimulatedEngine(rand.New(rand.NewSource(1)))
	return NewRunner(store, engine, notifier, 10*time.Millisecond,
		rand.New(rand.NewSource(2)), zerolog.Nop())
}

func TestRunnerTwoStageLifecycle(t *testing.T) {
	store := newMockJobStore()
	notifier := &recordingNotifier{}
	runner := newTestRunner(store, notifier)
	ctx := context.Background()

	scanID := uuid.New()
	if err := runner.Enqueue(ctx, scanID); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	// First pass claims the queued job and advances it to processing.
	runner.tick(ctx)
	store.mu.Lock()
	job := store.jobs[scanID]
	if job == nil || job.Stage != StageProcessing {
		store.mu.Unlock()
		t.Fatalf("expected job in processing stage, got %+v", job)
	}
	store.mu.Unlock()

	// Second pass completes it.
	runner.tick(ctx)
	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.completed) != 1 || store.completed[0] != scanID {
		t.Fatalf("expected scan completed, got %v", store.completed)
	}
	if _, ok := store.jobs[scanID]; ok {
		t.Error("completed job must be removed")
	}

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.events) != 1 || notifier.events[0].Type != notify.EventScanCompleted {
		t.Errorf("expected one scan.completed event, got %v", notifier.events)
	}
}

func TestRunnerEnqueueIdempotent(t *testing.T) {
	store := newMockJobStore()
	runner := newTestRunner(store, notify.NewNoop())
	ctx := context.Background()

	scanID := uuid.New()
	for i := 0; i < 3; i++ {
		if err := runner.Enqueue(ctx, scanID); err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}
	if len(store.jobs) != 1 {
		t.Errorf("expected a single job, got %d", len(store.jobs))
	}
}

func TestRunnerRetriesThenFails(t *testing.T) {
	store := newMockJobStore()
	store.completeErr = errors.New("db down")
	notifier := &recordingNotifier{}
	runner := newTestRunner(store, notifier)
	ctx := context.Background()

	scanID := uuid.New()
	if err := runner.Enqueue(ctx, scanID); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	runner.tick(ctx) // queued -> processing
	runner.tick(ctx) // attempt 1 fails, rescheduled
	runner.tick(ctx) // attempt 2 fails, rescheduled
	runner.tick(ctx) // attempt 3 fails permanently

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.failed) != 1 || store.failed[0] != scanID {
		t.Fatalf("expected scan marked failed, got %v", store.failed)
	}
	if len(store.completed) != 0 {
		t.Error("no completion expected")
	}

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.events) != 1 || notifier.events[0].Type != notify.EventScanFailed {
		t.Errorf("expected one scan.failed event, got %v", notifier.events)
	}
}

func TestRunnerStartStops(t *testing.T) {
	store := newMockJobStore()
	runner := newTestRunner(store, notify.NewNoop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		runner.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop after cancel")
	}
}
