package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration

	JWTSecret string
	TokenTTL  time.Duration

	AIBase  string
	AIKey   string
	AIModel string

	CloudinaryAPI    string
	CloudinaryName   string
	CloudinaryKey    string
	CloudinarySecret string
	CloudinaryFolder string

	TelegramToken    string
	TelegramChatID   int64
	TelegramEndpoint string

	FailClosed    bool
	CORSOrigins   []string
	RateLimitRPS  int
	ImportWorkers int
	Location      *time.Location
}

// Load reads the environment, after merging a local .env file when present.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg(".env not loaded")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		LogLevel:    env("LOG_LEVEL", "info"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/villa?parseTime=true&clientFoundRows=true&charset=utf8mb4&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,

		JWTSecret: env("JWT_SECRET", ""),
		TokenTTL:  time.Duration(atoi("TOKEN_TTL_HOURS", 12)) * time.Hour,

		AIBase:  env("AI_BASE_URL", "https://api.openai.com/v1"),
		AIKey:   env("AI_API_KEY", ""),
		AIModel: env("AI_MODEL", "gpt-4o-mini"),

		CloudinaryAPI:    env("CLOUDINARY_API_URL", ""),
		CloudinaryName:   env("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryKey:    env("CLOUDINARY_API_KEY", ""),
		CloudinarySecret: env("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder: env("CLOUDINARY_FOLDER", "villa-mare"),

		TelegramToken:    env("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   int64(atoi("TELEGRAM_CHAT_ID", 0)),
		TelegramEndpoint: env("TELEGRAM_API_ENDPOINT", ""),

		FailClosed:    boolEnv("AVAILABILITY_FAIL_CLOSED", false),
		CORSOrigins:   list(env("CORS_ORIGINS", "*")),
		RateLimitRPS:  atoi("RATE_LIMIT_RPS", 10),
		ImportWorkers: atoi("IMPORT_WORKERS", 4),
	}

	tz := env("TIMEZONE", "Europe/Rome")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Warn().Err(err).Str("timezone", tz).Msg("unknown timezone, using UTC")
		loc = time.UTC
	}
	c.Location = loc

	if c.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty; admin login is disabled")
	}
	if c.AIKey == "" {
		log.Warn().Msg("AI_API_KEY is empty; review extraction is disabled")
	}
	return c
}

// Now is the wall clock in the villa's time zone.
func (c Config) Now() time.Time { return time.Now().In(c.Location) }

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func boolEnv(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func list(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
