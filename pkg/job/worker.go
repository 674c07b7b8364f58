package job

import (
	"context"
	"errors"
	"log/slog"

	"github.com/riverqueue/river"

	"github.com/dmitrymomot/hashtags/pkg/hashtag"
	"github.com/dmitrymomot/hashtags/pkg/logger"
	"github.com/dmitrymomot/hashtags/pkg/store"
)

// Syncer is the part of the hashtag service the workers drive.
type Syncer interface {
	Sync(ctx context.Context, owner store.Owner, text string) error
	RefreshTrending(ctx context.Context) error
}

type syncWorker struct {
	river.WorkerDefaults[SyncArgs]
	syncer Syncer
	log    *slog.Logger
}

func (w *syncWorker) Work(ctx context.Context, job *river.Job[SyncArgs]) error {
	ctx = logger.WithOwner(ctx, job.Args.OwnerType, job.Args.OwnerID)

	w.log.DebugContext(ctx, "syncing hashtags",
		slog.Int64("job_id", job.ID),
		slog.Int("attempt", job.Attempt),
	)

	if err := w.syncer.Sync(ctx, job.Args.Owner(), job.Args.Text); err != nil {
		w.log.ErrorContext(ctx, "hashtag sync failed",
			slog.Int64("job_id", job.ID),
			slog.Int("attempt", job.Attempt),
			slog.Any("error", err),
		)
		if permanent(err) {
			return river.JobCancel(err)
		}
		return err
	}

	return nil
}

type refreshWorker struct {
	river.WorkerDefaults[RefreshTrendingArgs]
	syncer Syncer
	log    *slog.Logger
}

func (w *refreshWorker) Work(ctx context.Context, job *river.Job[RefreshTrendingArgs]) error {
	if err := w.syncer.RefreshTrending(ctx); err != nil {
		w.log.ErrorContext(ctx, "trending refresh failed",
			slog.Int64("job_id", job.ID),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}

// permanent reports errors that will not go away on retry.
func permanent(err error) bool {
	return errors.Is(err, store.ErrInvalidOwner) ||
		errors.Is(err, store.ErrEmptyName) ||
		errors.Is(err, hashtag.ErrInvalidPattern)
}
