package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds environment driven configuration values. Sensitive data has
// no defaults inside code and must be provided via the environment or a .env
// file.
type AppConfig struct {
	AppPort   string
	GinMode   string
	JWTSecret string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string

	// Google Drive credentials for the media storage collaborator
	DriveClientID     string
	DriveClientSecret string
	DriveRefreshToken string
	DriveRootFolderID string

	AllowedOrigins     []string
	RateLimitPerMinute int
	MaxUploadSizeMB    int

	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

var (
	cfg    AppConfig
	loaded bool
)

// Load loads the application configuration from the environment. It should be
// called once during boot; a .env file is honored when present.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	_ = godotenv.Load()

	cfg = AppConfig{
		AppPort:   getEnv("APP_PORT", "8080"),
		GinMode:   getEnv("GIN_MODE", "release"),
		JWTSecret: getEnv("JWT_SECRET", ""),

		DBHost:     getEnv("DB_HOST", "127.0.0.1"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "pinpost"),

		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:     getEnvInt("REDIS_PORT", 6379),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		DriveClientID:     getEnv("GOOGLE_DRIVE_CLIENT_ID", ""),
		DriveClientSecret: getEnv("GOOGLE_DRIVE_CLIENT_SECRET", ""),
		DriveRefreshToken: getEnv("GOOGLE_DRIVE_REFRESH_TOKEN", ""),
		DriveRootFolderID: getEnv("GOOGLE_DRIVE_ROOT_FOLDER_ID", ""),

		AllowedOrigins:     getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		MaxUploadSizeMB:    getEnvInt("MAX_UPLOAD_SIZE_MB", 20),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogPath:       getEnv("LOG_PATH", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 100),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 7),
		LogCompress:   getEnv("LOG_COMPRESS", "") == "true",
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// SetForTesting overrides the cached configuration. Tests only.
func SetForTesting(c AppConfig) {
	cfg = c
	loaded = true
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid integer value for %s: %v", key, err)
		}
		return n
	}
	return defaultVal
}

func getEnvList(key string, defaults []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaults
	}
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
