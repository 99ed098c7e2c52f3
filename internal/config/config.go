package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Feed     FeedConfig     `yaml:"feed"`
	Sync     SyncConfig     `yaml:"sync"`
	Notifier NotifierConfig `yaml:"notifier"`
	Roster   RosterConfig   `yaml:"roster"`
	LogLevel string         `yaml:"log_level"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type RabbitMQConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

// Enabled reports whether notifications should also be published to RabbitMQ.
func (r RabbitMQConfig) Enabled() bool {
	return r.URL != ""
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Enabled reports whether the feed cache is backed by PostgreSQL.
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

// FeedConfig points at a remote summaries endpoint. An empty BaseURL selects
// the built-in demo feed.
type FeedConfig struct {
	BaseURL  string        `yaml:"base_url"`
	PageSize int           `yaml:"page_size"`
	Timeout  time.Duration `yaml:"timeout"`
	Retry    RetryConfig   `yaml:"retry"`
	Limit    int           `yaml:"limit"`
}

func (f FeedConfig) Remote() bool {
	return f.BaseURL != ""
}

type RetryConfig struct {
	MaxAttempts    int           `yaml:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
}

type SyncConfig struct {
	Interval          time.Duration `yaml:"interval"`
	MaxPagesPerSync   int           `yaml:"max_pages_per_sync"`
	MaxHistoricalDays int           `yaml:"max_historical_days"`
}

type NotifierConfig struct {
	AddAnalysisDelay time.Duration `yaml:"add_analysis_delay"`
	AnalysisDelay    time.Duration `yaml:"analysis_delay"`
	DeliverTimeout   time.Duration `yaml:"deliver_timeout"`
	CancelOnRemove   *bool         `yaml:"cancel_on_remove"`
	InboxSize        int           `yaml:"inbox_size"`
}

type RosterConfig struct {
	SeedDefaults *bool `yaml:"seed_defaults"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return Parse(data)
}

// Parse expands environment variables in data and decodes it.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.HTTP.ShutdownTimeout == 0 {
		c.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "vibetracker"
	}
	if c.RabbitMQ.RoutingKey == "" {
		c.RabbitMQ.RoutingKey = "notifications"
	}
	if c.RabbitMQ.QueueName == "" {
		c.RabbitMQ.QueueName = "vibetracker_notifications"
	}
	if c.Feed.PageSize == 0 {
		c.Feed.PageSize = 20
	}
	if c.Feed.Timeout == 0 {
		c.Feed.Timeout = 30 * time.Second
	}
	if c.Feed.Retry.MaxAttempts == 0 {
		c.Feed.Retry.MaxAttempts = 3
	}
	if c.Feed.Retry.InitialBackoff == 0 {
		c.Feed.Retry.InitialBackoff = 1 * time.Second
	}
	if c.Feed.Retry.MaxBackoff == 0 {
		c.Feed.Retry.MaxBackoff = 30 * time.Second
	}
	if c.Feed.Limit == 0 {
		c.Feed.Limit = 50
	}
	if c.Sync.Interval == 0 {
		c.Sync.Interval = 5 * time.Minute
	}
	if c.Sync.MaxPagesPerSync == 0 {
		c.Sync.MaxPagesPerSync = 5
	}
	if c.Sync.MaxHistoricalDays == 0 {
		c.Sync.MaxHistoricalDays = 30
	}
	if c.Notifier.AddAnalysisDelay == 0 {
		c.Notifier.AddAnalysisDelay = 2 * time.Second
	}
	if c.Notifier.AnalysisDelay == 0 {
		c.Notifier.AnalysisDelay = 3 * time.Second
	}
	if c.Notifier.DeliverTimeout == 0 {
		c.Notifier.DeliverTimeout = 10 * time.Second
	}
	if c.Notifier.CancelOnRemove == nil {
		c.Notifier.CancelOnRemove = boolPtr(true)
	}
	if c.Notifier.InboxSize == 0 {
		c.Notifier.InboxSize = 50
	}
	if c.Roster.SeedDefaults == nil {
		c.Roster.SeedDefaults = boolPtr(true)
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func boolPtr(v bool) *bool {
	return &v
}
