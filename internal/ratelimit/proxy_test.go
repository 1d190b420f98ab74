package ratelimit_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/golang/mock/gomock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-acquirer/internal/config"
	"github.com/feral-file/ff-acquirer/internal/logger"
	"github.com/feral-file/ff-acquirer/internal/mocks"
	"github.com/feral-file/ff-acquirer/internal/ratelimit"
)

func TestMain(m *testing.M) {
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

type testProxyMocks struct {
	ctrl             *gomock.Controller
	redisClient      *mocks.MockRedisClient
	redisRateLimiter *mocks.MockRedisRateLimiter
	clock            *mocks.MockClock
}

func setupTestProxy(t *testing.T) *testProxyMocks {
	ctrl := gomock.NewController(t)

	return &testProxyMocks{
		ctrl:             ctrl,
		redisClient:      mocks.NewMockRedisClient(ctrl),
		redisRateLimiter: mocks.NewMockRedisRateLimiter(ctrl),
		clock:            mocks.NewMockClock(ctrl),
	}
}

func tearDownTestProxy(mocks *testProxyMocks) {
	mocks.ctrl.Finish()
}

func testConfig(platforms map[string]config.RateLimitConfig) config.RateLimiterConfig {
	return config.RateLimiterConfig{
		RedisKeyPrefix:          "test:limiter:",
		MaxWorkers:              10,
		MaxQueueSize:            100,
		EnableLocalFallback:     true,
		LocalFallbackMultiplier: 0.5,
		Platforms:               platforms,
	}
}

func resyOnly() map[string]config.RateLimitConfig {
	return map[string]config.RateLimitConfig{
		"resy": {
			RequestsPerSecond: 10,
			Burst:             20,
			MaxQueueTime:      5 * time.Second,
		},
	}
}

// setupProxyWithMocks creates a proxy with the startup expectations in place
func setupProxyWithMocks(t *testing.T, mocks *testProxyMocks, cfg config.RateLimiterConfig, redisAvailable bool) ratelimit.Proxy {
	statusCmd := redis.NewStatusCmd(context.Background())
	if redisAvailable {
		statusCmd.SetVal("PONG")
	} else {
		statusCmd.SetErr(errors.New("connection refused"))
	}
	mocks.redisClient.EXPECT().
		Ping(gomock.Any()).
		Return(statusCmd)

	mocks.redisClient.EXPECT().
		NewRateLimiter().
		Return(mocks.redisRateLimiter)

	mocks.clock.EXPECT().
		NewTicker(10 * time.Second).
		DoAndReturn(time.NewTicker)

	proxy, err := ratelimit.NewProxy(cfg, mocks.redisClient, mocks.clock)
	require.NoError(t, err)

	return proxy
}

func closeProxy(mocks *testProxyMocks, proxy ratelimit.Proxy) {
	mocks.redisClient.EXPECT().Close().Return(nil).AnyTimes()
	_ = proxy.Close()
}

func immediately(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

func TestNewProxy_Success(t *testing.T) {
	mocks := setupTestProxy(t)
	defer tearDownTestProxy(mocks)

	proxy := setupProxyWithMocks(t, mocks, testConfig(resyOnly()), true)
	assert.NotNil(t, proxy)

	closeProxy(mocks, proxy)
}

func TestNewProxy_RedisUnavailable_FallbackEnabled(t *testing.T) {
	mocks := setupTestProxy(t)
	defer tearDownTestProxy(mocks)

	proxy := setupProxyWithMocks(t, mocks, testConfig(resyOnly()), false)
	assert.NotNil(t, proxy)

	// Redis is down from the start, so the local limiter serves the request
	result, err := proxy.Request(context.Background(), "resy", func(ctx context.Context) (any, error) {
		return "local", nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "local", result)

	closeProxy(mocks, proxy)
}

func TestNewProxy_RedisUnavailable_FallbackDisabled(t *testing.T) {
	mocks := setupTestProxy(t)
	defer tearDownTestProxy(mocks)

	cfg := testConfig(resyOnly())
	cfg.EnableLocalFallback = false

	statusCmd := redis.NewStatusCmd(context.Background())
	statusCmd.SetErr(errors.New("connection refused"))
	mocks.redisClient.EXPECT().
		Ping(gomock.Any()).
		Return(statusCmd)

	proxy, err := ratelimit.NewProxy(cfg, mocks.redisClient, mocks.clock)

	assert.Error(t, err)
	assert.Nil(t, proxy)
	assert.Contains(t, err.Error(), "redis unavailable and fallback disabled")
}

func TestNewProxy_InvalidConfig(t *testing.T) {
	tests := []struct {
		name      string
		platforms map[string]config.RateLimitConfig
		wantErr   string
	}{
		{
			name:      "no platforms",
			platforms: map[string]config.RateLimitConfig{},
			wantErr:   "at least one platform must be configured",
		},
		{
			name: "non-positive rate",
			platforms: map[string]config.RateLimitConfig{
				"tock": {RequestsPerSecond: 0},
			},
			wantErr: "requests_per_second must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := setupTestProxy(t)
			defer tearDownTestProxy(mocks)

			proxy, err := ratelimit.NewProxy(testConfig(tt.platforms), mocks.redisClient, mocks.clock)

			assert.Error(t, err)
			assert.Nil(t, proxy)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestProxy_Request_Success(t *testing.T) {
	mocks := setupTestProxy(t)
	defer tearDownTestProxy(mocks)

	proxy := setupProxyWithMocks(t, mocks, testConfig(resyOnly()), true)

	mocks.redisRateLimiter.EXPECT().
		Allow(gomock.Any(), "test:limiter:resy", redis_rate.PerSecond(10)).
		Return(&redis_rate.Result{
			Allowed:   1,
			Remaining: 9,
		}, nil)

	result, err := proxy.Request(context.Background(), "resy", func(ctx context.Context) (any, error) {
		return "success", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "success", result)

	closeProxy(mocks, proxy)
}

func TestRequest_Typed(t *testing.T) {
	mocks := setupTestProxy(t)
	defer tearDownTestProxy(mocks)

	proxy := setupProxyWithMocks(t, mocks, testConfig(resyOnly()), true)

	mocks.redisRateLimiter.EXPECT().
		Allow(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&redis_rate.Result{Allowed: 1}, nil)

	slots, err := ratelimit.Request(context.Background(), proxy, "resy", func(ctx context.Context) ([]string, error) {
		return []string{"19:00", "19:30"}, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"19:00", "19:30"}, slots)

	closeProxy(mocks, proxy)
}

func TestRequest_NilProxy(t *testing.T) {
	n, err := ratelimit.Request(context.Background(), nil, "resy", func(ctx context.Context) (int, error) {
		return 42, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 42, n)
}

func TestProxy_Request_UnknownPlatform(t *testing.T) {
	mocks := setupTestProxy(t)
	defer tearDownTestProxy(mocks)

	proxy := setupProxyWithMocks(t, mocks, testConfig(resyOnly()), true)

	result, err := proxy.Request(context.Background(), "opentable", func(ctx context.Context) (any, error) {
		return "success", nil
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "platform 'opentable' not configured")

	closeProxy(mocks, proxy)
}

func TestProxy_Request_ContextCanceled(t *testing.T) {
	mocks := setupTestProxy(t)
	defer tearDownTestProxy(mocks)

	proxy := setupProxyWithMocks(t, mocks, testConfig(resyOnly()), true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	result, err := proxy.Request(ctx, "resy", func(ctx context.Context) (any, error) {
		called = true
		return "success", nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
	assert.False(t, called)

	closeProxy(mocks, proxy)
}

func TestProxy_Request_RateLimitExceeded_WithRetryAfter(t *testing.T) {
	mocks := setupTestProxy(t)
	defer tearDownTestProxy(mocks)

	proxy := setupProxyWithMocks(t, mocks, testConfig(resyOnly()), true)

	gomock.InOrder(
		mocks.redisRateLimiter.EXPECT().
			Allow(gomock.Any(), "test:limiter:resy", gomock.Any()).
			Return(&redis_rate.Result{
				Allowed:    0,
				RetryAfter: 50 * time.Millisecond,
			}, nil),
		mocks.clock.EXPECT().
			After(gomock.Any()).
			DoAndReturn(immediately),
		mocks.redisRateLimiter.EXPECT().
			Allow(gomock.Any(), "test:limiter:resy", gomock.Any()).
			Return(&redis_rate.Result{Allowed: 1}, nil),
	)

	result, err := proxy.Request(context.Background(), "resy", func(ctx context.Context) (any, error) {
		return "success", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "success", result)

	closeProxy(mocks, proxy)
}

func TestProxy_Request_RedisFailure_FallbackToLocal(t *testing.T) {
	mocks := setupTestProxy(t)
	defer tearDownTestProxy(mocks)

	proxy := setupProxyWithMocks(t, mocks, testConfig(resyOnly()), true)

	mocks.redisRateLimiter.EXPECT().
		Allow(gomock.Any(), "test:limiter:resy", gomock.Any()).
		Return(nil, errors.New("redis connection error"))

	result, err := proxy.Request(context.Background(), "resy", func(ctx context.Context) (any, error) {
		return "success with fallback", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "success with fallback", result)

	closeProxy(mocks, proxy)
}

func TestProxy_RedisFailure_NoFallback(t *testing.T) {
	mocks := setupTestProxy(t)
	defer tearDownTestProxy(mocks)

	cfg := testConfig(resyOnly())
	cfg.EnableLocalFallback = false
	proxy := setupProxyWithMocks(t, mocks, cfg, true)

	mocks.redisRateLimiter.EXPECT().
		Allow(gomock.Any(), "test:limiter:resy", gomock.Any()).
		Return(nil, errors.New("redis connection error"))

	result, err := proxy.Request(context.Background(), "resy", func(ctx context.Context) (any, error) {
		return "success", nil
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "redis rate limiter unavailable")

	closeProxy(mocks, proxy)
}

func TestProxy_Request_RequestFunctionError(t *testing.T) {
	mocks := setupTestProxy(t)
	defer tearDownTestProxy(mocks)

	proxy := setupProxyWithMocks(t, mocks, testConfig(resyOnly()), true)

	mocks.redisRateLimiter.EXPECT().
		Allow(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&redis_rate.Result{Allowed: 1}, nil)

	expectedError := errors.New("request failed")
	result, err := proxy.Request(context.Background(), "resy", func(ctx context.Context) (any, error) {
		return nil, expectedError
	})

	assert.Nil(t, result)
	assert.Equal(t, expectedError, err)

	closeProxy(mocks, proxy)
}

func TestProxy_Request_QueueTimeout(t *testing.T) {
	mocks := setupTestProxy(t)
	defer tearDownTestProxy(mocks)

	cfg := testConfig(map[string]config.RateLimitConfig{
		"tock": {
			RequestsPerSecond: 1,
			Burst:             1,
			MaxQueueTime:      50 * time.Millisecond,
		},
	})
	cfg.MaxWorkers = 1
	proxy := setupProxyWithMocks(t, mocks, cfg, true)

	mocks.redisRateLimiter.EXPECT().
		Allow(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&redis_rate.Result{RetryAfter: time.Second}, nil).
		AnyTimes()

	mocks.clock.EXPECT().
		After(gomock.Any()).
		DoAndReturn(func(d time.Duration) <-chan time.Time {
			return make(chan time.Time)
		}).
		AnyTimes()

	called := false
	result, err := proxy.Request(context.Background(), "tock", func(ctx context.Context) (any, error) {
		called = true
		return "success", nil
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, result)
	assert.False(t, called)

	closeProxy(mocks, proxy)
}

func TestProxy_Request_QueueTimeoutDoesNotBoundCall(t *testing.T) {
	mocks := setupTestProxy(t)
	defer tearDownTestProxy(mocks)

	cfg := testConfig(map[string]config.RateLimitConfig{
		"sevenrooms": {
			RequestsPerSecond: 10,
			Burst:             10,
			MaxQueueTime:      20 * time.Millisecond,
		},
	})
	proxy := setupProxyWithMocks(t, mocks, cfg, true)

	mocks.redisRateLimiter.EXPECT().
		Allow(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&redis_rate.Result{Allowed: 1}, nil)

	result, err := proxy.Request(context.Background(), "sevenrooms", func(ctx context.Context) (any, error) {
		time.Sleep(50 * time.Millisecond)
		return "slow", ctx.Err()
	})

	assert.NoError(t, err)
	assert.Equal(t, "slow", result)

	closeProxy(mocks, proxy)
}

func TestProxy_Request_Concurrent(t *testing.T) {
	mocks := setupTestProxy(t)
	defer tearDownTestProxy(mocks)

	cfg := testConfig(resyOnly())
	cfg.MaxWorkers = 5
	proxy := setupProxyWithMocks(t, mocks, cfg, true)

	mocks.redisRateLimiter.EXPECT().
		Allow(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&redis_rate.Result{Allowed: 1}, nil).
		Times(3)

	var wg sync.WaitGroup
	for i := range 3 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			result, err := proxy.Request(context.Background(), "resy", func(ctx context.Context) (any, error) {
				time.Sleep(10 * time.Millisecond)
				return id, nil
			})
			assert.NoError(t, err)
			assert.Equal(t, id, result)
		}(i)
	}
	wg.Wait()

	closeProxy(mocks, proxy)
}

func TestProxy_Request_MultiplePlatforms(t *testing.T) {
	mocks := setupTestProxy(t)
	defer tearDownTestProxy(mocks)

	proxy := setupProxyWithMocks(t, mocks, testConfig(map[string]config.RateLimitConfig{
		"resy": {RequestsPerSecond: 10, Burst: 20},
		"tock": {RequestsPerSecond: 5, Burst: 10},
	}), true)

	mocks.redisRateLimiter.EXPECT().
		Allow(gomock.Any(), "test:limiter:resy", redis_rate.PerSecond(10)).
		Return(&redis_rate.Result{Allowed: 1}, nil)
	mocks.redisRateLimiter.EXPECT().
		Allow(gomock.Any(), "test:limiter:tock", redis_rate.PerSecond(5)).
		Return(&redis_rate.Result{Allowed: 1}, nil)

	for _, platform := range []string{"resy", "tock"} {
		result, err := proxy.Request(context.Background(), platform, func(ctx context.Context) (any, error) {
			return platform + "-result", nil
		})
		assert.NoError(t, err)
		assert.Equal(t, platform+"-result", result)
	}

	closeProxy(mocks, proxy)
}

func TestProxy_Request_ProxyClosed(t *testing.T) {
	mocks := setupTestProxy(t)
	defer tearDownTestProxy(mocks)

	proxy := setupProxyWithMocks(t, mocks, testConfig(resyOnly()), true)

	mocks.redisClient.EXPECT().Close().Return(nil)
	require.NoError(t, proxy.Close())

	result, err := proxy.Request(context.Background(), "resy", func(ctx context.Context) (any, error) {
		return "success", nil
	})

	assert.ErrorIs(t, err, ratelimit.ErrProxyClosed)
	assert.Nil(t, result)
}

func TestProxy_Close_Multiple(t *testing.T) {
	mocks := setupTestProxy(t)
	defer tearDownTestProxy(mocks)

	proxy := setupProxyWithMocks(t, mocks, testConfig(resyOnly()), true)

	mocks.redisClient.EXPECT().Close().Return(nil).Times(1)

	assert.NoError(t, proxy.Close())
	assert.NoError(t, proxy.Close())
	assert.NoError(t, proxy.Close())
}

func TestProxy_Close_WithRedisError(t *testing.T) {
	mocks := setupTestProxy(t)
	defer tearDownTestProxy(mocks)

	proxy := setupProxyWithMocks(t, mocks, testConfig(resyOnly()), true)

	mocks.redisClient.EXPECT().Close().Return(errors.New("close error"))

	assert.Error(t, proxy.Close())
}
