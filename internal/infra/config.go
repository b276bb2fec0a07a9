package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	RemoteProviderHTTP   = "http"
	RemoteProviderGemini = "gemini"
	RemoteProviderNone   = "none"

	HandoffBackendMemory   = "memory"
	HandoffBackendRedis    = "redis"
	HandoffBackendPostgres = "postgres"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
	CORSAllowedOrigins []string
	DefaultLocale      string
	GeoIPDBPath        string
	JWTSecret          string
	MaxUploadBytes     int64

	RemoteProvider   string
	RemoteBaseURL    string
	RemoteTimeout    time.Duration
	GeminiAPIKey     string
	GeminiModel      string
	RemotePacing     time.Duration
	ProgressInterval time.Duration
	GenerateTimeout  time.Duration

	HandoffBackend string
	HandoffTTL     time.Duration
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	DatabaseURL    string

	StoragePath    string
	StorageBaseURL string
	SessionTTL     time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	port := getEnv("PORT", "8080")
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               port,
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 60)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		DefaultLocale:      getEnv("DEFAULT_LOCALE", "en"),
		GeoIPDBPath:        os.Getenv("GEOIP_DB_PATH"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		MaxUploadBytes:     int64(getEnvInt("MAX_UPLOAD_BYTES", 10<<20)),
		RemoteProvider:     strings.ToLower(getEnv("REMOTE_PROVIDER", RemoteProviderNone)),
		RemoteBaseURL:      os.Getenv("REMOTE_BASE_URL"),
		RemoteTimeout:      time.Second * time.Duration(getEnvInt("REMOTE_TIMEOUT_SECONDS", 30)),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.5-flash-image"),
		RemotePacing:       time.Millisecond * time.Duration(getEnvInt("REMOTE_PACING_MS", 500)),
		ProgressInterval:   time.Millisecond * time.Duration(getEnvInt("PROGRESS_INTERVAL_MS", 400)),
		GenerateTimeout:    time.Second * time.Duration(getEnvInt("GENERATE_TIMEOUT_SECONDS", 600)),
		HandoffBackend:     strings.ToLower(getEnv("HANDOFF_BACKEND", HandoffBackendMemory)),
		HandoffTTL:         time.Hour * time.Duration(getEnvInt("HANDOFF_TTL_HOURS", 24)),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		StoragePath:        os.Getenv("STORAGE_PATH"),
		StorageBaseURL:     getEnv("STORAGE_BASE_URL", "http://localhost:"+port+"/static"),
		SessionTTL:         time.Minute * time.Duration(getEnvInt("SESSION_TTL_MINUTES", 120)),
	}

	switch cfg.RemoteProvider {
	case RemoteProviderNone:
	case RemoteProviderHTTP:
		if cfg.RemoteBaseURL == "" {
			return nil, fmt.Errorf("REMOTE_BASE_URL is required when REMOTE_PROVIDER=http")
		}
	case RemoteProviderGemini:
		// the key may also come from the credentials table
		if cfg.GeminiAPIKey == "" && cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY or DATABASE_URL is required when REMOTE_PROVIDER=gemini")
		}
	default:
		return nil, fmt.Errorf("unsupported REMOTE_PROVIDER %q", cfg.RemoteProvider)
	}

	switch cfg.HandoffBackend {
	case HandoffBackendMemory, HandoffBackendRedis:
	case HandoffBackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when HANDOFF_BACKEND=postgres")
		}
	default:
		return nil, fmt.Errorf("unsupported HANDOFF_BACKEND %q", cfg.HandoffBackend)
	}

	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	cfg.StorageBaseURL = strings.TrimRight(cfg.StorageBaseURL, "/")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
