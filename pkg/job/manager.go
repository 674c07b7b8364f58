package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/robfig/cron/v3"

	"github.com/dmitrymomot/hashtags/pkg/store"
)

// Queue is the default River queue for hashtag jobs.
const Queue = "hashtags"

// Manager enqueues and works hashtag sync jobs and schedules the periodic
// trending refresh.
type Manager struct {
	pool   *pgxpool.Pool
	client *river.Client[pgx.Tx]
	logger *slog.Logger

	queue       string
	maxAttempts int

	mu      sync.Mutex
	started bool
}

// NewManager creates a job manager backed by pool. The River client is
// created immediately so jobs can be enqueued before Start.
func NewManager(pool *pgxpool.Pool, syncer Syncer, opts ...Option) (*Manager, error) {
	if pool == nil {
		return nil, ErrPoolRequired
	}
	if syncer == nil {
		return nil, ErrSyncerRequired
	}

	cfg := newConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}

	var periodicJobs []*river.PeriodicJob
	if cfg.trendingRefresh != "" {
		schedule, err := parseCronSchedule(cfg.trendingRefresh)
		if err != nil {
			return nil, errors.Join(ErrInvalidSchedule, fmt.Errorf("%q: %w", cfg.trendingRefresh, err))
		}
		queue := cfg.queue
		periodicJobs = append(periodicJobs, river.NewPeriodicJob(
			schedule,
			func() (river.JobArgs, *river.InsertOpts) {
				return RefreshTrendingArgs{}, &river.InsertOpts{Queue: queue, MaxAttempts: 1}
			},
			&river.PeriodicJobOpts{RunOnStart: true},
		))
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, &syncWorker{syncer: syncer, log: cfg.logger})
	river.AddWorker(workers, &refreshWorker{syncer: syncer, log: cfg.logger})

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			cfg.queue: {MaxWorkers: cfg.maxWorkers},
		},
		Workers:      workers,
		PeriodicJobs: periodicJobs,
		Logger:       cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("job: create client: %w", err)
	}

	return &Manager{
		pool:        pool,
		client:      client,
		logger:      cfg.logger,
		queue:       cfg.queue,
		maxAttempts: cfg.maxAttempts,
	}, nil
}

// Start begins working jobs.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return ErrAlreadyStarted
	}

	if err := m.client.Start(ctx); err != nil {
		return fmt.Errorf("job: start client: %w", err)
	}

	m.started = true
	m.logger.Info("job manager started", slog.String("queue", m.queue))

	return nil
}

// Stop waits for running jobs to finish and stops the client.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return ErrNotStarted
	}

	if err := m.client.Stop(ctx); err != nil {
		return fmt.Errorf("job: stop client: %w", err)
	}

	m.started = false
	m.logger.Info("job manager stopped")
	return nil
}

// Pause stops the queue from fetching new sync and refresh jobs. Jobs keep
// being accepted and run once Resume is called. Healthcheck fails meanwhile.
func (m *Manager) Pause(ctx context.Context) error {
	if err := m.client.QueuePause(ctx, m.queue, nil); err != nil {
		return fmt.Errorf("job: pause queue %s: %w", m.queue, err)
	}
	m.logger.InfoContext(ctx, "hashtag queue paused", slog.String("queue", m.queue))
	return nil
}

// Resume undoes Pause.
func (m *Manager) Resume(ctx context.Context) error {
	if err := m.client.QueueResume(ctx, m.queue, nil); err != nil {
		return fmt.Errorf("job: resume queue %s: %w", m.queue, err)
	}
	m.logger.InfoContext(ctx, "hashtag queue resumed", slog.String("queue", m.queue))
	return nil
}

func (m *Manager) running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

// EnqueueSync schedules a sync of owner's hashtags to those found in text.
func (m *Manager) EnqueueSync(ctx context.Context, owner store.Owner, text string) error {
	args, opts, err := m.syncJob(owner, text)
	if err != nil {
		return err
	}
	if _, err := m.client.Insert(ctx, args, opts); err != nil {
		return fmt.Errorf("job: enqueue sync: %w", err)
	}
	return nil
}

// EnqueueSyncTx is EnqueueSync inside tx. The job becomes visible only
// after tx commits, so it can be inserted alongside the owner's own row.
func (m *Manager) EnqueueSyncTx(ctx context.Context, tx pgx.Tx, owner store.Owner, text string) error {
	args, opts, err := m.syncJob(owner, text)
	if err != nil {
		return err
	}
	if _, err := m.client.InsertTx(ctx, tx, args, opts); err != nil {
		return fmt.Errorf("job: enqueue sync tx: %w", err)
	}
	return nil
}

func (m *Manager) syncJob(owner store.Owner, text string) (SyncArgs, *river.InsertOpts, error) {
	if !owner.Valid() {
		return SyncArgs{}, nil, store.ErrInvalidOwner
	}
	args := SyncArgs{OwnerType: owner.Type, OwnerID: owner.ID, Text: text}
	return args, &river.InsertOpts{Queue: m.queue, MaxAttempts: m.maxAttempts}, nil
}

// Shutdown returns a shutdown function for the job manager.
func (m *Manager) Shutdown() func(context.Context) error {
	return func(ctx context.Context) error {
		return m.Stop(ctx)
	}
}

// StartFunc returns a startup function for the job manager.
func (m *Manager) StartFunc() func(context.Context) error {
	return func(ctx context.Context) error {
		return m.Start(ctx)
	}
}

// Migrate brings River's own tables up to date.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if pool == nil {
		return ErrPoolRequired
	}
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("job: create migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		return fmt.Errorf("job: migrate: %w", err)
	}
	return nil
}

type cronScheduleAdapter struct {
	schedule cron.Schedule
}

func (a *cronScheduleAdapter) Next(current time.Time) time.Time {
	return a.schedule.Next(current)
}

func parseCronSchedule(expr string) (river.PeriodicSchedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(expr)
	if err != nil {
		return nil, err
	}
	return &cronScheduleAdapter{schedule: schedule}, nil
}
