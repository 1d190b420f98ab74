package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/feral-file/ff-acquirer/internal/domain"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadHost        string        `mapstructure:"read_host"`
	ReadPort        int           `mapstructure:"read_port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// NotifierConfig selects the transport used for result events
type NotifierConfig struct {
	// Driver is one of "nats", "rabbitmq", "webhook" or "none"
	Driver string `mapstructure:"driver"`
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	SubjectPrefix  string        `mapstructure:"subject_prefix"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
}

// RabbitMQConfig holds RabbitMQ configuration
type RabbitMQConfig struct {
	URL            string        `mapstructure:"url"`
	Exchange       string        `mapstructure:"exchange"`
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`
}

// WebhookConfig holds the signed webhook notifier configuration
type WebhookConfig struct {
	URL        string        `mapstructure:"url"`
	Secret     string        `mapstructure:"secret"`
	MaxRetries uint64        `mapstructure:"max_retries"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RateLimitConfig holds the outbound budget of one platform
type RateLimitConfig struct {
	RequestsPerSecond int           `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	MaxQueueTime      time.Duration `mapstructure:"max_queue_time"`
}

// RateLimiterConfig holds the rate limiting proxy configuration
type RateLimiterConfig struct {
	RedisKeyPrefix          string                     `mapstructure:"redis_key_prefix"`
	MaxWorkers              int                        `mapstructure:"max_workers"`
	MaxQueueSize            int                        `mapstructure:"max_queue_size"`
	EnableLocalFallback     bool                       `mapstructure:"enable_local_fallback"`
	LocalFallbackMultiplier float64                    `mapstructure:"local_fallback_multiplier"`
	Platforms               map[string]RateLimitConfig `mapstructure:"platforms"`
}

// PlatformConfig holds the API endpoint of a reservation platform
type PlatformConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// PlatformsConfig holds every platform adapter's configuration
type PlatformsConfig struct {
	HTTPTimeout time.Duration  `mapstructure:"http_timeout"`
	Resy        PlatformConfig `mapstructure:"resy"`
	OpenTable   PlatformConfig `mapstructure:"opentable"`
	SevenRooms  PlatformConfig `mapstructure:"sevenrooms"`
	Tock        PlatformConfig `mapstructure:"tock"`
}

// EngineConfig holds acquisition engine tuning
type EngineConfig struct {
	MaxRetries         int           `mapstructure:"max_retries"`
	BackoffInitial     time.Duration `mapstructure:"backoff_initial"`
	BackoffMax         time.Duration `mapstructure:"backoff_max"`
	AggressiveInterval time.Duration `mapstructure:"aggressive_interval"`
	CallTimeout        time.Duration `mapstructure:"call_timeout"`
	BurstCeiling       time.Duration `mapstructure:"burst_ceiling"`
	BurstInterval      time.Duration `mapstructure:"burst_interval"`
	PreWarmLead        time.Duration `mapstructure:"pre_warm_lead"`
	MaxConcurrentDrops int           `mapstructure:"max_concurrent_drops"`
}

// IdentityConfig holds identity pool configuration
type IdentityConfig struct {
	DefaultMonthlyLimit int `mapstructure:"default_monthly_limit"`
}

// WatcherConfig holds drop watcher configuration
type WatcherConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Interval      time.Duration `mapstructure:"interval"`
	Lookahead     time.Duration `mapstructure:"lookahead"`
	MinConfidence int           `mapstructure:"min_confidence"`
	BatchSize     int           `mapstructure:"batch_size"`
	Workers       int           `mapstructure:"workers"`
}

// TemporalConfig holds Temporal configuration
type TemporalConfig struct {
	HostPort                           string  `mapstructure:"host_port"`
	Namespace                          string  `mapstructure:"namespace"`
	TaskQueue                          string  `mapstructure:"task_queue"`
	MaxConcurrentActivityExecutionSize int     `mapstructure:"max_concurrent_activity_execution_size"`
	WorkerActivitiesPerSecond          float64 `mapstructure:"worker_activities_per_second"`
	// IdentityResetCron is the cron schedule of the monthly identity usage reset
	IdentityResetCron string `mapstructure:"identity_reset_cron"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
	// CORSOrigins restricts cross-origin callers; empty allows all
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	APIKeys      []string `mapstructure:"api_keys"`
}

// APIConfig holds configuration for the acquirer API service
type APIConfig struct {
	BaseConfig  `mapstructure:",squash"`
	Server      ServerConfig      `mapstructure:"server"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Notifier    NotifierConfig    `mapstructure:"notifier"`
	NATS        NATSConfig        `mapstructure:"nats"`
	RabbitMQ    RabbitMQConfig    `mapstructure:"rabbitmq"`
	Webhook     WebhookConfig     `mapstructure:"webhook"`
	Redis       RedisConfig       `mapstructure:"redis"`
	RateLimiter RateLimiterConfig `mapstructure:"rate_limiter"`
	Platforms   PlatformsConfig   `mapstructure:"platforms"`
	Engine      EngineConfig      `mapstructure:"engine"`
	Identity    IdentityConfig    `mapstructure:"identity"`
	Watcher     WatcherConfig     `mapstructure:"watcher"`
}

// WorkerCoreConfig holds configuration for the Temporal maintenance worker
type WorkerCoreConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig `mapstructure:"database"`
	Temporal   TemporalConfig `mapstructure:"temporal"`
}

// LoadAPIConfig loads configuration for the acquirer API service
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 90)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("notifier.driver", "nats")
	v.SetDefault("nats.stream_name", "ACQUISITIONS")
	v.SetDefault("nats.subject_prefix", "acquisitions")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", 2*time.Second)
	v.SetDefault("nats.connection_name", "ff-acquirer")
	v.SetDefault("rabbitmq.exchange", "acquisitions")
	v.SetDefault("webhook.max_retries", 3)
	v.SetDefault("webhook.timeout", 10*time.Second)
	v.SetDefault("rabbitmq.publish_timeout", 5*time.Second)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("rate_limiter.redis_key_prefix", "ff:acquirer:limiter:")
	v.SetDefault("rate_limiter.enable_local_fallback", true)
	v.SetDefault("rate_limiter.local_fallback_multiplier", 0.5)
	v.SetDefault("platforms.http_timeout", 20*time.Second)
	v.SetDefault("platforms.resy.base_url", "https://api.resy.com")
	v.SetDefault("platforms.opentable.base_url", "https://www.opentable.com/dapi")
	v.SetDefault("platforms.sevenrooms.base_url", "https://www.sevenrooms.com/api-yoa")
	v.SetDefault("platforms.tock.base_url", "https://www.exploretock.com/api")
	v.SetDefault("engine.max_retries", domain.DEFAULT_MAX_RETRIES)
	v.SetDefault("engine.backoff_initial", domain.DEFAULT_BACKOFF_INITIAL)
	v.SetDefault("engine.backoff_max", domain.DEFAULT_BACKOFF_MAX)
	v.SetDefault("engine.aggressive_interval", domain.DEFAULT_AGGRESSIVE_INTERVAL)
	v.SetDefault("engine.call_timeout", 15*time.Second)
	v.SetDefault("engine.burst_ceiling", domain.MAX_BURST_WINDOW)
	v.SetDefault("engine.burst_interval", domain.DEFAULT_BURST_INTERVAL)
	v.SetDefault("engine.pre_warm_lead", domain.DEFAULT_PRE_WARM_LEAD)
	v.SetDefault("engine.max_concurrent_drops", 16)
	v.SetDefault("identity.default_monthly_limit", domain.DEFAULT_MONTHLY_LIMIT)
	v.SetDefault("watcher.enabled", true)
	v.SetDefault("watcher.interval", time.Minute)
	v.SetDefault("watcher.lookahead", 10*time.Minute)
	v.SetDefault("watcher.min_confidence", 60)
	v.SetDefault("watcher.batch_size", 100)
	v.SetDefault("watcher.workers", 4)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Engine.BurstCeiling > domain.MAX_BURST_WINDOW {
		config.Engine.BurstCeiling = domain.MAX_BURST_WINDOW
	}

	return &config, nil
}

// LoadWorkerCoreConfig loads configuration for worker-core
func LoadWorkerCoreConfig(configFile string, envPath string) (*WorkerCoreConfig, error) {
	v := configureViper("worker-core", configFile, envPath)

	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "acquirer-maintenance")
	v.SetDefault("temporal.max_concurrent_activity_execution_size", 10)
	v.SetDefault("temporal.worker_activities_per_second", 10)
	v.SetDefault("temporal.identity_reset_cron", "0 0 1 * *")

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config WorkerCoreConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// readConfig reads the config file, falling back to environment variables when none exists
func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("FF_ACQUIRER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars binds every known key so env-only deployments unmarshal into the structs
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.read_host",
		"database.read_port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// Server
		"server.host",
		"server.port",
		"server.cors_origins",
		"auth.jwt_public_key",
		"auth.api_keys",
		// Notifier
		"notifier.driver",
		"nats.url",
		"nats.stream_name",
		"nats.subject_prefix",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		"rabbitmq.url",
		"rabbitmq.exchange",
		"rabbitmq.publish_timeout",
		"webhook.url",
		"webhook.secret",
		"webhook.max_retries",
		"webhook.timeout",
		// Redis
		"redis.addr",
		"redis.password",
		"redis.db",
		// Platforms
		"platforms.http_timeout",
		"platforms.resy.enabled",
		"platforms.resy.base_url",
		"platforms.resy.api_key",
		"platforms.opentable.enabled",
		"platforms.opentable.base_url",
		"platforms.sevenrooms.enabled",
		"platforms.sevenrooms.base_url",
		"platforms.sevenrooms.api_key",
		"platforms.tock.enabled",
		"platforms.tock.base_url",
		// Engine
		"engine.max_retries",
		"engine.backoff_initial",
		"engine.backoff_max",
		"engine.aggressive_interval",
		"engine.call_timeout",
		"engine.burst_ceiling",
		"engine.burst_interval",
		"engine.pre_warm_lead",
		"engine.max_concurrent_drops",
		"identity.default_monthly_limit",
		// Watcher
		"watcher.enabled",
		"watcher.interval",
		"watcher.lookahead",
		"watcher.min_confidence",
		"watcher.batch_size",
		"watcher.workers",
		// Temporal
		"temporal.host_port",
		"temporal.namespace",
		"temporal.task_queue",
		"temporal.identity_reset_cron",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads .env files from envPath, later files overriding earlier ones
func loadEnv(envPath string, service string) {
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		_ = godotenv.Overload(filepath.Join(envPath, envFile))
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ReadDSN returns the read-replica connection string, or "" when no replica is configured
func (c *DatabaseConfig) ReadDSN() string {
	if c.ReadHost == "" {
		return ""
	}

	port := c.ReadPort
	if port == 0 {
		port = c.Port
	}

	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.ReadHost, port, c.User, c.Password, c.DBName, c.SSLMode)
}

// Get returns the configuration of a platform
func (c *PlatformsConfig) Get(p domain.Platform) PlatformConfig {
	switch p {
	case domain.PlatformResy:
		return c.Resy
	case domain.PlatformOpenTable:
		return c.OpenTable
	case domain.PlatformSevenRooms:
		return c.SevenRooms
	case domain.PlatformTock:
		return c.Tock
	}
	return PlatformConfig{}
}
