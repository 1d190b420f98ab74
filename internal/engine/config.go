package engine

import (
	"time"

	"github.com/feral-file/ff-acquirer/internal/config"
	"github.com/feral-file/ff-acquirer/internal/domain"
)

const (
	DEFAULT_CALL_TIMEOUT         = 15 * time.Second
	DEFAULT_MAX_CONCURRENT_DROPS = 16
)

// Config holds the engine tuning with every default applied
type Config struct {
	MaxRetries         int
	BackoffInitial     time.Duration
	BackoffMax         time.Duration
	AggressiveInterval time.Duration
	CallTimeout        time.Duration
	BurstCeiling       time.Duration
	BurstInterval      time.Duration
	PreWarmLead        time.Duration
	MaxConcurrentDrops int
}

// NewConfig fills unset values with defaults and clamps the burst ceiling
func NewConfig(cfg config.EngineConfig) Config {
	c := Config{
		MaxRetries:         cfg.MaxRetries,
		BackoffInitial:     cfg.BackoffInitial,
		BackoffMax:         cfg.BackoffMax,
		AggressiveInterval: cfg.AggressiveInterval,
		CallTimeout:        cfg.CallTimeout,
		BurstCeiling:       cfg.BurstCeiling,
		BurstInterval:      cfg.BurstInterval,
		PreWarmLead:        cfg.PreWarmLead,
		MaxConcurrentDrops: cfg.MaxConcurrentDrops,
	}

	if c.MaxRetries <= 0 {
		c.MaxRetries = domain.DEFAULT_MAX_RETRIES
	}
	if c.BackoffInitial <= 0 {
		c.BackoffInitial = domain.DEFAULT_BACKOFF_INITIAL
	}
	if c.BackoffMax <= 0 {
		c.BackoffMax = domain.DEFAULT_BACKOFF_MAX
	}
	if c.AggressiveInterval <= 0 {
		c.AggressiveInterval = domain.DEFAULT_AGGRESSIVE_INTERVAL
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = DEFAULT_CALL_TIMEOUT
	}
	if c.BurstCeiling <= 0 || c.BurstCeiling > domain.MAX_BURST_WINDOW {
		c.BurstCeiling = domain.MAX_BURST_WINDOW
	}
	if c.BurstInterval <= 0 {
		c.BurstInterval = domain.DEFAULT_BURST_INTERVAL
	}
	if c.PreWarmLead <= 0 {
		c.PreWarmLead = domain.DEFAULT_PRE_WARM_LEAD
	}
	if c.MaxConcurrentDrops <= 0 {
		c.MaxConcurrentDrops = DEFAULT_MAX_CONCURRENT_DROPS
	}

	return c
}

// dropConfig resolves the burst parameters of one execution against the engine limits
func (c Config) dropConfig(drop domain.DropTimeConfig) domain.DropTimeConfig {
	if drop.PreWarmLead <= 0 {
		drop.PreWarmLead = c.PreWarmLead
	}
	if drop.BurstInterval <= 0 {
		drop.BurstInterval = c.BurstInterval
	}
	if drop.BurstWindow <= 0 || drop.BurstWindow > c.BurstCeiling {
		drop.BurstWindow = c.BurstCeiling
	}
	return drop.WithDefaults()
}
