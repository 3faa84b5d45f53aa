package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when interacting with a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrInvalidCronSpec is returned when a cron expression cannot be parsed
	ErrInvalidCronSpec = errors.New("invalid cron spec")

	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")
)
