package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the process-wide configuration, read once at startup and
// read-only afterwards.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Log      LogConfig
	HTTP     HTTPConfig
	Storage  StorageConfig
	Email    EmailConfig
	Printing PrintingConfig
}

// AppConfig holds application-level settings
type AppConfig struct {
	Name          string
	Environment   string // development, staging, production
	Port          int
	PublicURL     string
	SignupEnabled bool
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN builds the postgres connection URL
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns the host:port address for the Redis client
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig holds session-token settings
type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level      string
	Format     string
	Output     string
	TimeFormat string
}

// HTTPConfig holds HTTP server settings
type HTTPConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	BodyLimitBytes  int64
}

// StorageConfig holds object-storage (S3-compatible) settings
type StorageConfig struct {
	Endpoint         string
	Region           string
	Bucket           string
	AccessKey        string
	SecretKey        string
	UsePathStyle     bool
	PresignExpiry    time.Duration
	LogoKeyPrefix    string
	MaxLogoSizeBytes int64
}

// EmailConfig holds the outbound sender identity
type EmailConfig struct {
	SenderName    string
	SenderAddress string
}

// PrintingConfig holds PDF renderer settings
type PrintingConfig struct {
	Enabled         bool
	ChromeRemoteURL string
	NoSandbox       bool
	Timeout         time.Duration
}

// Load reads configuration from config.toml and FINVOICE_-prefixed
// environment variables. Environment variables win.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	if len(paths) == 0 {
		paths = []string{".", "./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("FINVOICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		App: AppConfig{
			Name:          v.GetString("app.name"),
			Environment:   v.GetString("app.environment"),
			Port:          v.GetInt("app.port"),
			PublicURL:     v.GetString("app.public_url"),
			SignupEnabled: v.GetBool("app.signup_enabled"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			Name:            v.GetString("database.name"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			AccessSecret:  v.GetString("jwt.access_secret"),
			RefreshSecret: v.GetString("jwt.refresh_secret"),
			AccessTTL:     v.GetDuration("jwt.access_ttl"),
			RefreshTTL:    v.GetDuration("jwt.refresh_ttl"),
			Issuer:        v.GetString("jwt.issuer"),
		},
		Log: LogConfig{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			Output:     v.GetString("log.output"),
			TimeFormat: v.GetString("log.time_format"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:     v.GetDuration("http.read_timeout"),
			WriteTimeout:    v.GetDuration("http.write_timeout"),
			ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
			CORSOrigins:     v.GetStringSlice("http.cors_origins"),
			BodyLimitBytes:  v.GetInt64("http.body_limit_bytes"),
		},
		Storage: StorageConfig{
			Endpoint:         v.GetString("storage.endpoint"),
			Region:           v.GetString("storage.region"),
			Bucket:           v.GetString("storage.bucket"),
			AccessKey:        v.GetString("storage.access_key"),
			SecretKey:        v.GetString("storage.secret_key"),
			UsePathStyle:     v.GetBool("storage.use_path_style"),
			PresignExpiry:    v.GetDuration("storage.presign_expiry"),
			LogoKeyPrefix:    v.GetString("storage.logo_key_prefix"),
			MaxLogoSizeBytes: v.GetInt64("storage.max_logo_size_bytes"),
		},
		Email: EmailConfig{
			SenderName:    v.GetString("email.sender_name"),
			SenderAddress: v.GetString("email.sender_address"),
		},
		Printing: PrintingConfig{
			Enabled:         v.GetBool("printing.enabled"),
			ChromeRemoteURL: v.GetString("printing.chrome_remote_url"),
			NoSandbox:       v.GetBool("printing.no_sandbox"),
			Timeout:         v.GetDuration("printing.timeout"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "finvoice")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.public_url", "http://localhost:8080")
	v.SetDefault("app.signup_enabled", true)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "finvoice")
	v.SetDefault("database.name", "finvoice")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.access_ttl", 15*time.Minute)
	v.SetDefault("jwt.refresh_ttl", 7*24*time.Hour)
	v.SetDefault("jwt.issuer", "finvoice")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.time_format", "2006-01-02T15:04:05.000Z07:00")

	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
	v.SetDefault("http.body_limit_bytes", int64(4<<20))

	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.bucket", "finvoice")
	v.SetDefault("storage.use_path_style", true)
	v.SetDefault("storage.presign_expiry", 15*time.Minute)
	v.SetDefault("storage.logo_key_prefix", "logos/")
	v.SetDefault("storage.max_logo_size_bytes", int64(2<<20))

	v.SetDefault("email.sender_name", "Finvoice")
	v.SetDefault("email.sender_address", "no-reply@finvoice.local")

	v.SetDefault("printing.enabled", true)
	v.SetDefault("printing.no_sandbox", false)
	v.SetDefault("printing.timeout", 30*time.Second)
}

func (c *Config) validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("invalid app.port: %d", c.App.Port)
	}

	if c.IsProduction() {
		if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
			return fmt.Errorf("jwt secrets are required in production")
		}
		if len(c.JWT.AccessSecret) < 32 {
			return fmt.Errorf("jwt.access_secret must be at least 32 characters in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode must not be 'disable' in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
	} else {
		// Development fallbacks so the server starts without a config file
		if c.JWT.AccessSecret == "" {
			c.JWT.AccessSecret = "dev-access-secret-do-not-use-in-prod"
		}
		if c.JWT.RefreshSecret == "" {
			c.JWT.RefreshSecret = "dev-refresh-secret-do-not-use-in-prod"
		}
	}

	return nil
}

// IsProduction reports whether the app runs in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
