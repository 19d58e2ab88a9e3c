package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env   string
	Port  int
	DBURL string

	DBMaxConns int32

	JWTSecret    string
	JWTExpiresIn time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CORSAllowedOrigins []string
	LoginRatePerMinute int
	MaxBodyBytes       int64

	OTelEndpoint    string
	OTelServiceName string

	AdminEmail    string
	AdminPassword string
	AdminName     string
}

func Load() Config {
	// a missing .env is fine; real deployments use the environment
	_ = godotenv.Load()

	return Config{
		Env:   getEnv("APP_ENV", "dev"),
		Port:  getEnvInt("PORT", 3333),
		DBURL: getEnv("DATABASE_URL", buildDBURL()),

		DBMaxConns: int32(getEnvInt("DB_MAX_CONNS", 10)),

		JWTSecret:    getEnv("JWT_SECRET", ""),
		JWTExpiresIn: getEnvDuration("JWT_EXPIRES_IN", 7*24*time.Hour),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LoginRatePerMinute: getEnvInt("LOGIN_RATE_PER_MINUTE", 20),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),

		OTelEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTelServiceName: getEnv("OTEL_SERVICE_NAME", "koinonia-api"),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminName:     getEnv("ADMIN_NAME", "Admin"),
	}
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.DBURL == "" {
		return errors.New("database url is required")
	}
	if c.JWTSecret == "" && !c.IsDevOrTest() {
		return errors.New("JWT_SECRET is required outside dev/test")
	}
	if c.JWTExpiresIn <= 0 {
		return errors.New("JWT_EXPIRES_IN must be positive")
	}
	return nil
}

func (c Config) IsDevOrTest() bool {
	return c.Env == "dev" || c.Env == "test"
}

// SigningSecret falls back to a fixed development secret when none is set.
func (c Config) SigningSecret() string {
	if c.JWTSecret == "" && c.IsDevOrTest() {
		return "dev-only-insecure-secret"
	}
	return c.JWTSecret
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "koinonia")
	pass := getEnv("DB_PASSWORD", "koinonia")
	name := getEnv("DB_NAME", "koinonia")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

// WithTimeoutFrom bounds a request-scoped context so cancellation and trace
// spans carry over into store calls.
func WithTimeoutFrom(parent context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)
		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}

// accepts Go durations ("168h") and the "7d" form
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	if strings.HasSuffix(v, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(v, "d"))
		if err != nil {
			return fallback
		}
		return time.Duration(days) * 24 * time.Hour
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
