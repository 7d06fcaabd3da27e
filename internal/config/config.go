package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"pet-custody-go/pkg/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort string
	Env      string
	DB       DBConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Invites  InviteConfig
	Transfer TransferConfig
	Sweep    SweepConfig
	Cache    CacheConfig
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Enabled      bool
	Addr         string
	Password     string
	DB           int
	EventChannel string
}

type AuthConfig struct {
	JWTSecret  string
	SkipAuth   bool
	MockUserID string
}

type InviteConfig struct {
	TokenSecret string
	DefaultTTL  time.Duration
	MaxTTL      time.Duration
}

type TransferConfig struct {
	RequestTTL time.Duration
}

type SweepConfig struct {
	Enabled  bool
	Interval time.Duration
}

type CacheConfig struct {
	RelationshipTTL time.Duration
}

func Load(log logger.Logger) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	} else if err == nil {
		log.Info("config: loaded .env")
	}

	cfg := Config{
		HTTPPort: getEnv("HTTP_PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "pet_custody"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Enabled:      getEnvBool("REDIS_ENABLED", false),
			Addr:         getEnv("REDIS_ADDR", "localhost:6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvInt("REDIS_DB", 0),
			EventChannel: getEnv("REDIS_EVENT_CHANNEL", "pet-custody.events"),
		},
		Auth: AuthConfig{
			JWTSecret:  getEnv("AUTH_JWT_SECRET", ""),
			SkipAuth:   getEnvBool("AUTH_SKIP", false),
			MockUserID: getEnv("AUTH_MOCK_USER_ID", "00000000-0000-0000-0000-000000000001"),
		},
		Invites: InviteConfig{
			TokenSecret: getEnv("INVITE_TOKEN_SECRET", ""),
			DefaultTTL:  getEnvDuration("INVITE_DEFAULT_TTL", 72*time.Hour),
			MaxTTL:      getEnvDuration("INVITE_MAX_TTL", 30*24*time.Hour),
		},
		Transfer: TransferConfig{
			RequestTTL: getEnvDuration("TRANSFER_REQUEST_TTL", 7*24*time.Hour),
		},
		Sweep: SweepConfig{
			Enabled:  getEnvBool("SWEEP_ENABLED", false),
			Interval: getEnvDuration("SWEEP_INTERVAL", 10*time.Minute),
		},
		Cache: CacheConfig{
			RelationshipTTL: getEnvDuration("RELATIONSHIP_CACHE_TTL", time.Minute),
		},
	}

	if cfg.Invites.TokenSecret == "" {
		cfg.Invites.TokenSecret = cfg.Auth.JWTSecret
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
