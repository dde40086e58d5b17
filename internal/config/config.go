package config

import (
	"os"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	CORSOrigins string
	TablePrefix string
	// Auth configuration. When AuthJWKSURL is empty the verifier falls back
	// to local (unverified) decode with expiry checking only.
	AuthJWKSURL string
	// Drive provider configuration
	DriveProvider     string // provider profile name from the embedded registry
	DriveAPIBase      string // override, mostly for tests
	DriveUploadBase   string // override, mostly for tests
	DriveTokenURL     string // override, mostly for tests
	DriveClientID     string
	DriveClientSecret string
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	tablePrefix := getTablePrefix(env)

	return &Config{
		Port:              getEnv("PORT", "8080"),
		Environment:       env,
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		CORSOrigins:       getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:       tablePrefix,
		AuthJWKSURL:       getEnv("AUTH_JWKS_URL", ""),
		DriveProvider:     getEnv("DRIVE_PROVIDER", "gdrive"),
		DriveAPIBase:      getEnv("DRIVE_API_BASE", ""),
		DriveUploadBase:   getEnv("DRIVE_UPLOAD_BASE", ""),
		DriveTokenURL:     getEnv("DRIVE_TOKEN_URL", ""),
		DriveClientID:     getEnv("DRIVE_CLIENT_ID", ""),
		DriveClientSecret: getEnv("DRIVE_CLIENT_SECRET", ""),
		Debug:             getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
