package config

import (
	"os"
	"strconv"
	"time"
)

// AzureBlobConfig holds Azure Blob Storage settings. The connection string is
// the only credential; its absence disables cloud save/load without failing
// startup.
type AzureBlobConfig struct {
	ConnectionString string
	ContainerName    string
}

// MinIOConfig holds object storage settings for the S3-compatible backend
// (MinIO, AWS S3, etc.), typically used for local development.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// OpenAIConfig holds Azure OpenAI chat-completions settings used by the AI
// assistance features (enhancement, summaries, methodology critique).
type OpenAIConfig struct {
	Endpoint   string
	APIKey     string
	Deployment string
	APIVersion string
	Timeout    time.Duration
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port           string
	LogLevel       string
	StorageBackend string // "azure" or "s3"
	StorageTimeout time.Duration
	SessionTTL     time.Duration
	MaxUploadBytes int64

	Azure  AzureBlobConfig
	MinIO  MinIOConfig
	OpenAI OpenAIConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		StorageBackend: getEnv("STORAGE_BACKEND", "azure"),
		StorageTimeout: time.Duration(getEnvInt("STORAGE_TIMEOUT_SEC", 30)) * time.Second,
		SessionTTL:     time.Duration(getEnvInt("SESSION_TTL_MIN", 60)) * time.Minute,
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_MB", 10)) * 1024 * 1024,
		Azure: AzureBlobConfig{
			ConnectionString: getEnv("AZURE_STORAGE_CONNECTION_STRING", ""),
			ContainerName:    getEnv("AZURE_CONTAINER_NAME", ""),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		OpenAI: OpenAIConfig{
			Endpoint:   getEnv("AZURE_OPENAI_ENDPOINT", ""),
			APIKey:     getEnv("AZURE_OPENAI_API_KEY", ""),
			Deployment: getEnv("AZURE_OPENAI_DEPLOYMENT_NAME", ""),
			APIVersion: getEnv("AZURE_OPENAI_API_VERSION", "2023-05-15"),
			Timeout:    time.Duration(getEnvInt("AZURE_OPENAI_TIMEOUT_SEC", 60)) * time.Second,
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
