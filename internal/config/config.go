package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	Environment string
	ServerPort  string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	JWTSecret        string
	JWTExpiry        time.Duration
	CookieExpiry     time.Duration
	BcryptCost       int
	PasswordMinLen   int
	ResetTokenExpiry time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	FromName     string
	FromEmail    string
	FrontendURL  string

	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3UsePathStyle bool

	AllowedOrigins []string
	SwaggerHost    string
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is loaded first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Environment: getEnv("APP_ENV", "development"),
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		MySQLDSN:    getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/estatehub?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:     getEnvInt("REDIS_DB", 0),
		RedisPass:   os.Getenv("REDIS_PASSWORD"),

		JWTSecret:        getEnv("JWT_SECRET", "change-me"),
		JWTExpiry:        time.Duration(getEnvInt("JWT_EXPIRE_DAYS", 30)) * 24 * time.Hour,
		CookieExpiry:     time.Duration(getEnvInt("JWT_COOKIE_EXPIRE_DAYS", 30)) * 24 * time.Hour,
		BcryptCost:       getEnvInt("PASSWORD_SALT_ROUNDS", 10),
		PasswordMinLen:   getEnvInt("PASSWORD_MIN_LENGTH", 8),
		ResetTokenExpiry: time.Duration(getEnvInt("RESET_TOKEN_EXPIRE_MINUTES", 10)) * time.Minute,

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		FromName:     getEnv("FROM_NAME", "Estatehub"),
		FromEmail:    getEnv("FROM_EMAIL", "noreply@estatehub.local"),
		FrontendURL:  getEnv("FRONTEND_URL", "http://localhost:3000"),

		S3Bucket:       getEnv("S3_BUCKET", "property-images"),
		S3Region:       getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:     os.Getenv("S3_ENDPOINT"),
		S3AccessKey:    os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:    os.Getenv("S3_SECRET_KEY"),
		S3UsePathStyle: getEnvBool("S3_USE_PATH_STYLE", false),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
		SwaggerHost:    os.Getenv("SWAGGER_HOST"),
	}
}

// IsProduction reports whether the app runs with production hardening enabled.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsDevelopment reports whether the app runs in local development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
