package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment names
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
	EnvTest        = "test"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Apps      AppsConfig      `mapstructure:"apps"`
	Discord   DiscordConfig   `mapstructure:"discord"`
	Redis     RedisConfig     `mapstructure:"redis"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Email     EmailConfig     `mapstructure:"email"`
	Log       LogConfig       `mapstructure:"log"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

// AppConfig holds process-level settings
type AppConfig struct {
	Env string `mapstructure:"env"` // production, development, test
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	BodyLimit       int           `mapstructure:"body_limit"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds connection settings for every supported driver
type DatabaseConfig struct {
	Type        string `mapstructure:"type"` // mysql, mariadb, postgres, sqlite, sqlite3, sqlserver
	Host        string `mapstructure:"host"`
	Port        string `mapstructure:"port"`
	Name        string `mapstructure:"name"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	MaxConns    int    `mapstructure:"max_conns"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// AppsConfig locates the app-token table
type AppsConfig struct {
	File string `mapstructure:"file"`
}

// DiscordConfig holds Discord API client settings
type DiscordConfig struct {
	APIToken string        `mapstructure:"api_token"`
	BaseURL  string        `mapstructure:"base_url"`
	Rate     float64       `mapstructure:"rate"` // requests per second
	Burst    int           `mapstructure:"burst"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// RedisConfig is optional; an empty URL disables the profile cache
type RedisConfig struct {
	URL string `mapstructure:"url"`
}

// SMTPConfig holds outbound mail relay settings
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// EmailConfig holds transactional email settings
type EmailConfig struct {
	VerifyURL string `mapstructure:"verify_url"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
	Path   string `mapstructure:"path"`
}

// SchedulerConfig holds cron specs; empty specs disable the job
type SchedulerConfig struct {
	HealthSpec  string `mapstructure:"health_spec"`
	CleanupSpec string `mapstructure:"cleanup_spec"`
}

// RateLimitConfig bounds requests per client IP
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// legacyEnv maps older environment variable names onto config keys.
var legacyEnv = map[string]string{
	"app.env":           "NODE_ENV",
	"server.port":       "HTTP_PORT",
	"log.path":          "LOG_PATH",
	"database.host":     "POSTGRES_HOST",
	"database.port":     "POSTGRES_PORT",
	"database.user":     "POSTGRES_USER",
	"database.password": "POSTGRES_PASSWORD",
	"database.name":     "POSTGRES_DATABASE",
	"discord.api_token": "DISCORD_API_TOKEN",
	"smtp.from":         "EMAIL_FROM",
}

// Load loads configuration from an optional .env file, an optional
// config.yaml, and the environment, in increasing precedence.
func Load() (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	for key, env := range legacyEnv {
		if err := v.BindEnv(key, strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Keys need a default to be visible to Unmarshal through AutomaticEnv.
	for _, key := range []string{
		"database.name", "database.user", "database.password",
		"discord.api_token", "redis.url",
		"smtp.host", "smtp.user", "smtp.password", "smtp.from",
		"email.verify_url", "log.path",
	} {
		v.SetDefault(key, "")
	}

	v.SetDefault("app.env", EnvDevelopment)

	v.SetDefault("server.port", "3000")
	v.SetDefault("server.body_limit", 4*1024*1024)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.type", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("apps.file", "config.json")

	v.SetDefault("discord.base_url", "https://discord.com/api/v10")
	v.SetDefault("discord.rate", 5.0)
	v.SetDefault("discord.burst", 5)
	v.SetDefault("discord.cache_ttl", 10*time.Minute)
	v.SetDefault("discord.timeout", 5*time.Second)

	v.SetDefault("smtp.port", 465)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "")

	v.SetDefault("scheduler.health_spec", "@every 5m")
	v.SetDefault("scheduler.cleanup_spec", "@every 10m")

	v.SetDefault("ratelimit.rps", 20.0)
	v.SetDefault("ratelimit.burst", 40)
}

// Validate checks for configuration errors that would fail later at runtime.
func (c *Config) Validate() error {
	switch c.App.Env {
	case EnvProduction, EnvDevelopment, EnvTest:
	default:
		return fmt.Errorf("app.env must be one of production, development, test; got %q", c.App.Env)
	}

	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	switch c.Database.Type {
	case "sqlite", "sqlite3":
	default:
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required for %s", c.Database.Type)
		}
	}

	if c.Apps.File == "" {
		return fmt.Errorf("apps.file is required")
	}

	if c.Log.Format == "" {
		if c.IsProduction() {
			c.Log.Format = "json"
		} else {
			c.Log.Format = "console"
		}
	}

	return nil
}

// IsProduction reports whether the process runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.App.Env == EnvProduction
}

// MailEnabled reports whether an SMTP relay is configured.
func (c *Config) MailEnabled() bool {
	return c.SMTP.Host != "" && c.SMTP.From != ""
}
