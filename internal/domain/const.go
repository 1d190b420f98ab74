package domain

import "time"

const (
	// Retry policy
	DEFAULT_MAX_RETRIES         = 3
	DEFAULT_BACKOFF_INITIAL     = 1 * time.Second
	DEFAULT_BACKOFF_MAX         = 5 * time.Second
	DEFAULT_AGGRESSIVE_INTERVAL = 100 * time.Millisecond

	// Drop-time burst
	DEFAULT_BURST_INTERVAL = 100 * time.Millisecond
	MAX_BURST_WINDOW       = 60 * time.Second
	DEFAULT_PRE_WARM_LEAD  = 3 * time.Second

	// Identity usage
	DEFAULT_MONTHLY_LIMIT = 6

	// Drop pattern learning
	PATTERN_INITIAL_CONFIDENCE = 50
	PATTERN_MIN_CONFIDENCE     = 10
	PATTERN_MAX_CONFIDENCE     = 100
	PATTERN_SUCCESS_BONUS      = 10
	PATTERN_FAILURE_PENALTY    = 2
	PATTERN_LOCK_THRESHOLD     = 3
)
