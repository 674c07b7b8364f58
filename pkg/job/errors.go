package job

import "errors"

// Job errors.
var (
	// ErrAlreadyStarted is returned when attempting to start a manager
	// that is already running.
	ErrAlreadyStarted = errors.New("job: already started")

	// ErrNotStarted is returned when attempting to stop a manager
	// that is not running.
	ErrNotStarted = errors.New("job: not started")

	// ErrPoolRequired is returned when a manager is created without a pool.
	ErrPoolRequired = errors.New("job: pool is required")

	// ErrSyncerRequired is returned when a manager is created without a syncer.
	ErrSyncerRequired = errors.New("job: syncer is required")

	// ErrInvalidSchedule is returned for an unparsable cron expression.
	ErrInvalidSchedule = errors.New("job: invalid schedule")
)
