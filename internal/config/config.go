package config

import (
	"errors"
	"os"
	"strconv"
)

const (
	defaultSessionSecret = "default-secret-key-change-me"
	defaultJWTSecret     = "default-jwt-secret-change-me"
)

var ErrDefaultSecret = errors.New("JWT_SECRET and SESSION_SECRET must be set in release mode")

type Config struct {
	Port          string
	GinMode       string
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBPath        string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	JWTSecret     string
	TokenTTLHours int
	UploadDir     string
	StorageDriver string
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
	S3AccessKeyID string
	S3SecretKey   string
	OpenAIAPIKey  string
	LogLevel      string
	LogFormat     string
}

func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		DBDriver:      getEnv("DB_DRIVER", "mysql"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBUser:        getEnv("DB_USER", "taskuser"),
		DBPassword:    getEnv("DB_PASSWORD", "taskpassword"),
		DBName:        getEnv("DB_NAME", "task_dashboard"),
		DBPath:        getEnv("DB_PATH", "task_dashboard.db"),
		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		SessionSecret: getEnv("SESSION_SECRET", defaultSessionSecret),
		JWTSecret:     getEnv("JWT_SECRET", defaultJWTSecret),
		TokenTTLHours: getEnvInt("TOKEN_TTL_HOURS", 24),
		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		StorageDriver: getEnv("STORAGE_DRIVER", "local"),
		S3Bucket:      getEnv("S3_BUCKET", ""),
		S3Region:      getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:    getEnv("S3_ENDPOINT", ""),
		S3AccessKeyID: getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretKey:   getEnv("S3_SECRET_ACCESS_KEY", ""),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
	}
}

// UsesDefaultSecrets reports whether either signing secret was left at its
// built-in value.
func (c *Config) UsesDefaultSecrets() bool {
	return c.JWTSecret == defaultJWTSecret || c.SessionSecret == defaultSessionSecret
}

// Validate rejects settings that are unsafe in release mode.
func (c *Config) Validate() error {
	if c.GinMode == "release" && c.UsesDefaultSecrets() {
		return ErrDefaultSecret
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
