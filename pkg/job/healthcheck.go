package job

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riverqueue/river/rivertype"
)

// ErrHealthcheckFailed wraps every failure reported by Healthcheck.
var ErrHealthcheckFailed = errors.New("job: healthcheck failed")

var (
	errManagerNil        = errors.New("manager is nil")
	errManagerNotStarted = errors.New("manager not started")
	errQueuePaused       = errors.New("sync queue paused")
)

// Healthcheck fails while hashtag syncs cannot make progress: the manager is
// stopped, its queue is paused or the database is unreachable.
// Compatible with health.CheckFunc.
func Healthcheck(m *Manager) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if m == nil {
			return errors.Join(ErrHealthcheckFailed, errManagerNil)
		}
		if !m.running() {
			return errors.Join(ErrHealthcheckFailed, errManagerNotStarted)
		}

		q, err := m.client.QueueGet(ctx, m.queue)
		switch {
		case errors.Is(err, rivertype.ErrNotFound):
			// River records the queue once its producer has polled; until then
			// only the connection can be checked.
			if err := m.pool.Ping(ctx); err != nil {
				return errors.Join(ErrHealthcheckFailed, err)
			}
			return nil
		case err != nil:
			return errors.Join(ErrHealthcheckFailed, err)
		case q.PausedAt != nil:
			return errors.Join(ErrHealthcheckFailed, fmt.Errorf("%w: %s since %s", errQueuePaused, m.queue, q.PausedAt.Format(time.RFC3339)))
		}
		return nil
	}
}
