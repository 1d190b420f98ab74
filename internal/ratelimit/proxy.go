package ratelimit

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/go-redis/redis_rate/v10"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/feral-file/ff-acquirer/internal/adapter"
	"github.com/feral-file/ff-acquirer/internal/config"
	"github.com/feral-file/ff-acquirer/internal/logger"
)

// ErrProxyClosed is returned for requests submitted after Close
var ErrProxyClosed = fmt.Errorf("proxy is closed")

// RequestFunc performs the actual platform call
type RequestFunc func(ctx context.Context) (any, error)

type requestResult struct {
	value any
	err   error
}

// Proxy spaces out calls to each reservation platform.
// The budget is shared through Redis by every acquirer process, so a fleet never
// exceeds what a platform tolerates before it starts blocking identities.
//
//go:generate mockgen -source=proxy.go -destination=../mocks/ratelimit_proxy.go -package=mocks -mock_names=Proxy=MockRateLimitProxy
type Proxy interface {
	// Request runs fn once a token for the platform is available
	Request(ctx context.Context, platform string, fn RequestFunc) (any, error)

	// Close stops accepting requests and waits for in-flight ones
	Close() error
}

type proxy struct {
	config         config.RateLimiterConfig
	pool           pond.ResultPool[*requestResult]
	limiters       map[string]*platformLimiter
	redis          adapter.RedisClient
	clock          adapter.Clock
	closed         atomic.Bool
	closeOnce      sync.Once
	done           chan struct{}
	redisAvailable atomic.Bool
}

type platformLimiter struct {
	name               string
	config             config.RateLimitConfig
	distributedLimiter adapter.RedisRateLimiter
	localLimiter       *rate.Limiter
	preFilterLimiter   *rate.Limiter
}

// NewProxy creates a new rate-limiting proxy
func NewProxy(cfg config.RateLimiterConfig, rc adapter.RedisClient, clock adapter.Clock) (Proxy, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	redisAvailable := true
	if err := rc.Ping(ctx).Err(); err != nil {
		redisAvailable = false
		if !cfg.EnableLocalFallback {
			return nil, fmt.Errorf("redis unavailable and fallback disabled: %w", err)
		}
		logger.Warn("Redis unavailable, will use local fallback", zap.Error(err))
	}

	distributedLimiter := rc.NewRateLimiter()

	limiters := make(map[string]*platformLimiter, len(cfg.Platforms))
	for name, platformConfig := range cfg.Platforms {
		// The local fallback runs at a fraction of the shared rate since peers may fall back too
		localRate := max(float64(platformConfig.RequestsPerSecond)*cfg.LocalFallbackMultiplier, 1.0)

		limiters[name] = &platformLimiter{
			name:               name,
			config:             platformConfig,
			distributedLimiter: distributedLimiter,
			localLimiter:       rate.NewLimiter(rate.Limit(localRate), platformConfig.Burst),
			// Pre-filter keeps a single process from hammering Redis with doomed checks
			preFilterLimiter: rate.NewLimiter(rate.Limit(platformConfig.RequestsPerSecond), platformConfig.Burst),
		}
	}

	p := &proxy{
		config:   cfg,
		pool:     pond.NewResultPool[*requestResult](cfg.MaxWorkers, pond.WithQueueSize(cfg.MaxQueueSize)),
		limiters: limiters,
		redis:    rc,
		clock:    clock,
		done:     make(chan struct{}),
	}
	p.redisAvailable.Store(redisAvailable)

	go p.monitorRedisHealth(clock.NewTicker(10 * time.Second))

	logger.Info("Rate limit proxy initialized",
		zap.Int("max_workers", cfg.MaxWorkers),
		zap.Int("max_queue_size", cfg.MaxQueueSize),
		zap.Int("platforms", len(cfg.Platforms)),
		zap.Bool("local_fallback", cfg.EnableLocalFallback),
	)

	return p, nil
}

// Request runs fn through the proxy and returns a typed result.
// A nil proxy runs fn directly.
func Request[T any](ctx context.Context, p Proxy, platform string, fn func(ctx context.Context) (T, error)) (T, error) {
	if p == nil {
		return fn(ctx)
	}

	var zero T
	result, err := p.Request(ctx, platform, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, nil
	}
	return typed, nil
}

// Request blocks until the call completes, the context is done or the platform's
// maximum queue time elapses while waiting for a token.
func (p *proxy) Request(ctx context.Context, platform string, fn RequestFunc) (any, error) {
	if p.closed.Load() {
		return nil, ErrProxyClosed
	}

	limiter, ok := p.limiters[platform]
	if !ok {
		return nil, fmt.Errorf("platform '%s' not configured", platform)
	}

	task := p.pool.Submit(func() *requestResult {
		value, err := p.executeWithRateLimit(ctx, limiter, fn)
		return &requestResult{value: value, err: err}
	})

	result, err := task.Wait()
	if err != nil {
		return nil, err
	}
	if result.err != nil {
		return nil, result.err
	}
	return result.value, nil
}

func (p *proxy) executeWithRateLimit(ctx context.Context, limiter *platformLimiter, fn RequestFunc) (any, error) {
	queueCtx, cancel := context.WithTimeout(ctx, limiter.config.MaxQueueTime)
	err := p.acquireToken(queueCtx, limiter)
	cancel()
	if err != nil {
		return nil, err
	}

	// The queue deadline only bounds waiting; the call keeps the caller's deadline
	return fn(ctx)
}

// acquireToken blocks until a token is available
func (p *proxy) acquireToken(ctx context.Context, limiter *platformLimiter) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if p.redisAvailable.Load() {
			allowed, retryAfter, err := p.tryDistributedLimit(ctx, limiter)
			switch {
			case err != nil:
				if ctx.Err() != nil {
					return ctx.Err()
				}

				p.redisAvailable.Store(false)
				if !p.config.EnableLocalFallback {
					return fmt.Errorf("redis rate limiter unavailable: %w", err)
				}

				logger.Warn("Redis rate limiter error, falling back to local",
					zap.String("platform", limiter.name),
					zap.Error(err),
				)
			case allowed:
				return nil
			case retryAfter > 0:
				// 50-150% jitter spreads out peers that were refused together
				jitter := time.Duration(float64(retryAfter) * (0.5 + rand.Float64())) //nolint:gosec,G404
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-p.clock.After(jitter):
					continue
				}
			}
		}

		if !p.redisAvailable.Load() && p.config.EnableLocalFallback {
			return limiter.localLimiter.Wait(ctx)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.clock.After(100 * time.Millisecond):
		}
	}
}

// tryDistributedLimit returns whether a token was granted and, if not, how long to wait
func (p *proxy) tryDistributedLimit(ctx context.Context, limiter *platformLimiter) (bool, time.Duration, error) {
	if limiter.distributedLimiter == nil {
		return false, 0, fmt.Errorf("distributed limiter not available")
	}

	if err := limiter.preFilterLimiter.Wait(ctx); err != nil {
		return false, 0, err
	}

	redisKey := p.config.RedisKeyPrefix + limiter.name
	res, err := limiter.distributedLimiter.Allow(ctx, redisKey, redis_rate.PerSecond(limiter.config.RequestsPerSecond))
	if err != nil {
		return false, 0, err
	}

	if res.Allowed == 0 {
		logger.Debug("Rate limit token unavailable, waiting",
			zap.String("platform", limiter.name),
			zap.Duration("retry_after", res.RetryAfter),
			zap.Int("remaining", res.Remaining),
		)
		return false, res.RetryAfter, nil
	}

	return true, 0, nil
}

// monitorRedisHealth re-enables the distributed limiter once Redis answers again
func (p *proxy) monitorRedisHealth(ticker *time.Ticker) {
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := p.redis.Ping(ctx).Err()
		cancel()

		available := err == nil
		wasAvailable := p.redisAvailable.Swap(available)
		if !wasAvailable && available {
			logger.Info("Redis connection restored")
		}
	}
}

// Close waits for in-flight requests and closes the Redis client
func (p *proxy) Close() error {
	var err error
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.done)

		logger.Info("Shutting down rate limit proxy")

		if errTasks := p.pool.Stop().Wait(); errTasks != nil {
			logger.Warn("Error waiting for pool tasks to complete", zap.Error(errTasks))
			err = errTasks
		}

		if closeErr := p.redis.Close(); closeErr != nil {
			logger.Warn("Error closing Redis connection", zap.Error(closeErr))
			err = closeErr
		}

		logger.Info("Rate limit proxy shutdown complete")
	})
	return err
}

func validateConfig(cfg *config.RateLimiterConfig) error {
	if len(cfg.Platforms) == 0 {
		return fmt.Errorf("at least one platform must be configured")
	}

	platforms := make(map[string]config.RateLimitConfig, len(cfg.Platforms))
	for name, platform := range cfg.Platforms {
		if platform.RequestsPerSecond <= 0 {
			return fmt.Errorf("platform %s: requests_per_second must be positive", name)
		}
		if platform.Burst <= 0 {
			platform.Burst = platform.RequestsPerSecond
		}
		if platform.MaxQueueTime <= 0 {
			platform.MaxQueueTime = 30 * time.Second
		}
		platforms[name] = platform
	}
	cfg.Platforms = platforms

	if cfg.RedisKeyPrefix == "" {
		cfg.RedisKeyPrefix = "ff:acquirer:limiter:"
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = runtime.NumCPU() * 10
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 10000
	}
	if cfg.LocalFallbackMultiplier <= 0 {
		cfg.LocalFallbackMultiplier = 0.5
	}

	return nil
}
