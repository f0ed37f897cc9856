package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DevJWTSecret is the signing secret used when none is configured outside production.
const DevJWTSecret = "dev-secret-change-me"

// DefaultTokenTTL is the session token lifetime when AUTH_JWT_EXPIRES_IN is unset.
const DefaultTokenTTL = 7 * 24 * time.Hour

// ErrInsecureSecret is returned when production runs without a real signing secret.
var ErrInsecureSecret = errors.New("AUTH_JWT_SECRET must be set to a non-default value in production")

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Storage  StorageConfig
	Mail     MailConfig
	Seed     SeedConfig
	Gate     GateConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	BodyLimitBytes        int
	StaticDir             string
	SchoolName            string
	CORSAllowOrigins      string
	MetricsAddr           string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	RunMigrations   bool
	ConnMaxIdleSec  int32
	ConnMaxLifeSec  int32
	ConnectAttempts int
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret    string
	TokenTTL     time.Duration
	BcryptCost   int
	RoleCacheTTL time.Duration
}

// StorageConfig points at the S3-compatible media bucket.
type StorageConfig struct {
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UsePathStyle  bool
	PublicBaseURL string
	MaxImageBytes int64
	MaxVideoBytes int64
}

// MailConfig configures outbound SMTP notifications.
type MailConfig struct {
	SMTPHost   string
	SMTPPort   int
	Username   string
	Password   string
	From       string
	AdminEmail string
	QueueSize  int
	TLSPolicy  string
}

// SeedConfig carries the optional bootstrap administrator.
type SeedConfig struct {
	AdminEmail    string
	AdminUsername string
	AdminPassword string
	AdminFullName string
}

// GateConfig holds the browser redirect targets used by the request gate.
type GateConfig struct {
	LoginPath string
	HomePath  string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	tokenTTL, err := ParseTokenTTL(getEnv("AUTH_JWT_EXPIRES_IN", "7d"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_JWT_EXPIRES_IN: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "school-portal"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			BodyLimitBytes:        getEnvAsInt("HTTP_BODY_LIMIT_BYTES", 110*1024*1024),
			StaticDir:             os.Getenv("STATIC_DIR"),
			SchoolName:            getEnv("APP_SCHOOL_NAME", "School Portal"),
			CORSAllowOrigins:      getEnv("CORS_ALLOW_ORIGINS", "*"),
			MetricsAddr:           getEnv("METRICS_ADDR", "127.0.0.1:9090"),
		},
		Postgres: PostgresConfig{
			DSN:             os.Getenv("POSTGRES_DSN"),
			MaxConns:        int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:        int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:   getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec:  int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec:  int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
			ConnectAttempts: getEnvAsInt("POSTGRES_CONNECT_ATTEMPTS", 5),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("AUTH_JWT_SECRET", DevJWTSecret),
			TokenTTL:     tokenTTL,
			BcryptCost:   getEnvAsInt("AUTH_BCRYPT_COST", 10),
			RoleCacheTTL: time.Duration(getEnvAsInt("AUTH_ROLE_CACHE_TTL_SECONDS", 300)) * time.Second,
		},
		Storage: StorageConfig{
			Endpoint:      os.Getenv("S3_ENDPOINT"),
			Region:        getEnv("S3_REGION", "us-east-1"),
			AccessKey:     os.Getenv("S3_ACCESS_KEY"),
			SecretKey:     os.Getenv("S3_SECRET_KEY"),
			Bucket:        os.Getenv("S3_BUCKET"),
			UsePathStyle:  getEnvAsBool("S3_USE_PATH_STYLE", true),
			PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
			MaxImageBytes: int64(getEnvAsInt("UPLOAD_MAX_IMAGE_BYTES", 10*1024*1024)),
			MaxVideoBytes: int64(getEnvAsInt("UPLOAD_MAX_VIDEO_BYTES", 100*1024*1024)),
		},
		Mail: MailConfig{
			SMTPHost:   os.Getenv("SMTP_HOST"),
			SMTPPort:   getEnvAsInt("SMTP_PORT", 587),
			Username:   os.Getenv("SMTP_USERNAME"),
			Password:   os.Getenv("SMTP_PASSWORD"),
			From:       getEnv("MAIL_FROM", "School <noreply@school.local>"),
			AdminEmail: getEnv("ADMIN_EMAIL", "admin@school.local"),
			QueueSize:  getEnvAsInt("MAIL_QUEUE_SIZE", 100),
			TLSPolicy:  strings.ToLower(getEnv("SMTP_TLS", "opportunistic")),
		},
		Seed: SeedConfig{
			AdminEmail:    os.Getenv("SEED_ADMIN_EMAIL"),
			AdminUsername: getEnv("SEED_ADMIN_USERNAME", "admin"),
			AdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
			AdminFullName: getEnv("SEED_ADMIN_FULL_NAME", "System Administrator"),
		},
		Gate: GateConfig{
			LoginPath: getEnv("GATE_LOGIN_PATH", "/login"),
			HomePath:  getEnv("GATE_HOME_PATH", "/"),
		},
	}
	if strings.EqualFold(cfg.App.MetricsAddr, "off") {
		cfg.App.MetricsAddr = ""
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate enforces invariants that defaults cannot satisfy.
func (c *Config) Validate() error {
	if c.App.IsProduction() {
		secret := strings.TrimSpace(c.Auth.JWTSecret)
		if secret == "" || secret == DevJWTSecret {
			return ErrInsecureSecret
		}
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("token lifetime must be positive")
	}
	return nil
}

// IsProduction reports whether the service runs in production mode.
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Env, "production")
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Enabled reports whether a media bucket is configured.
func (s StorageConfig) Enabled() bool {
	return s.Bucket != ""
}

// Enabled reports whether an SMTP relay is configured.
func (m MailConfig) Enabled() bool {
	return m.SMTPHost != ""
}

// ParseTokenTTL parses a token lifetime. It accepts Go durations ("12h"),
// whole days ("7d") and bare integers as seconds ("3600").
func ParseTokenTTL(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultTokenTTL, nil
	}
	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid day count %q", value)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("invalid second count %q", value)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("non-positive duration %q", value)
	}
	return d, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
