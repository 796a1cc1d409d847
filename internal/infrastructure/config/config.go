package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	OTLP      OTLPConfig      `yaml:"otlp"`
	Store     StoreConfig     `yaml:"store"`
	GraphQL   GraphQLConfig   `yaml:"graphql"`
	Heartbeat HeartbeatConfig `yaml:"heartbeat"`
	Report    ReportConfig    `yaml:"report"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Events    EventsConfig    `yaml:"events"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Host string `yaml:"host"`
}

type OTLPConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`
}

type StoreConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// GraphQLConfig locates the API that the scheduled jobs query
type GraphQLConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type HeartbeatConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
	LogFile  string        `yaml:"log_file"`
}

type ReportConfig struct {
	Enabled  bool          `yaml:"enabled"`
	LogFile  string        `yaml:"log_file"`
	Timezone string        `yaml:"timezone"`
	Currency string        `yaml:"currency"`
	Weekday  time.Weekday  `yaml:"weekday"`
	Hour     int           `yaml:"hour"`
	Minute   int           `yaml:"minute"`
	Timeout  time.Duration `yaml:"timeout"`
}

// SchedulerConfig controls cross-replica coordination of scheduled jobs.
// An empty RedisAddr keeps the run lock in-process.
type SchedulerConfig struct {
	RedisAddr string        `yaml:"redis_addr"`
	LockTTL   time.Duration `yaml:"lock_ttl"`
}

// EventsConfig selects the domain event publisher. An empty AMQPURL disables publishing.
type EventsConfig struct {
	AMQPURL  string `yaml:"amqp_url"`
	Exchange string `yaml:"exchange"`
}

// Defaults returns the configuration used when nothing is set
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8080",
		},
		OTLP: OTLPConfig{
			Enabled:     true,
			Endpoint:    "localhost:4317",
			ServiceName: "crm-api",
			Environment: "development",
			LogLevel:    "info",
		},
		Store: StoreConfig{
			Driver: "memory",
			DSN:    "crm.db?_foreign_keys=on",
		},
		GraphQL: GraphQLConfig{
			Endpoint: "http://localhost:8080/graphql",
		},
		Heartbeat: HeartbeatConfig{
			Enabled:  true,
			Interval: 5 * time.Minute,
			Timeout:  10 * time.Second,
			LogFile:  "/tmp/crm_heartbeat_log.txt",
		},
		Report: ReportConfig{
			Enabled:  true,
			LogFile:  "/tmp/crm_report_log.txt",
			Timezone: "Africa/Lagos",
			Currency: "₦",
			Weekday:  time.Monday,
			Hour:     6,
			Minute:   0,
			Timeout:  30 * time.Second,
		},
		Scheduler: SchedulerConfig{
			LockTTL: time.Minute,
		},
		Events: EventsConfig{
			Exchange: "crm.events",
		},
	}
}

// LoadConfig loads configuration from the YAML file named by CRM_CONFIG_FILE
// (if any) and then from environment variables, which take precedence
func LoadConfig() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CRM_CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	c.Server.Host = getEnv("SERVER_HOST", c.Server.Host)
	c.Server.Port = getEnv("SERVER_PORT", c.Server.Port)

	c.OTLP.Endpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.OTLP.Endpoint)
	c.OTLP.ServiceName = getEnv("OTEL_SERVICE_NAME", c.OTLP.ServiceName)
	c.OTLP.Environment = getEnv("OTEL_ENVIRONMENT", c.OTLP.Environment)
	c.OTLP.LogLevel = getEnv("LOG_LEVEL", c.OTLP.LogLevel)

	c.Store.Driver = getEnv("STORE_DRIVER", c.Store.Driver)
	c.Store.DSN = getEnv("STORE_DSN", c.Store.DSN)

	c.Heartbeat.LogFile = getEnv("HEARTBEAT_LOG_FILE", c.Heartbeat.LogFile)
	c.GraphQL.Endpoint = getEnv("GRAPHQL_ENDPOINT", c.GraphQL.Endpoint)

	c.Report.LogFile = getEnv("REPORT_LOG_FILE", c.Report.LogFile)
	c.Report.Timezone = getEnv("REPORT_TIMEZONE", c.Report.Timezone)
	c.Report.Currency = getEnv("REPORT_CURRENCY", c.Report.Currency)

	c.Scheduler.RedisAddr = getEnv("SCHEDULER_REDIS_ADDR", c.Scheduler.RedisAddr)

	c.Events.AMQPURL = getEnv("EVENTS_AMQP_URL", c.Events.AMQPURL)
	c.Events.Exchange = getEnv("EVENTS_EXCHANGE", c.Events.Exchange)

	var err error
	if c.OTLP.Enabled, err = getBool("OTEL_ENABLED", c.OTLP.Enabled); err != nil {
		return err
	}
	if c.Heartbeat.Enabled, err = getBool("HEARTBEAT_ENABLED", c.Heartbeat.Enabled); err != nil {
		return err
	}
	if c.Report.Enabled, err = getBool("REPORT_ENABLED", c.Report.Enabled); err != nil {
		return err
	}
	if c.Heartbeat.Interval, err = getDuration("HEARTBEAT_INTERVAL", c.Heartbeat.Interval); err != nil {
		return err
	}
	if c.Heartbeat.Timeout, err = getDuration("HEARTBEAT_TIMEOUT", c.Heartbeat.Timeout); err != nil {
		return err
	}
	if c.Report.Timeout, err = getDuration("REPORT_TIMEOUT", c.Report.Timeout); err != nil {
		return err
	}
	if c.Scheduler.LockTTL, err = getDuration("SCHEDULER_LOCK_TTL", c.Scheduler.LockTTL); err != nil {
		return err
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
