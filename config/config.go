package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yeremiapane/gobblego/services"
	"github.com/yeremiapane/gobblego/utils"
)

// Config is read once from the environment (after godotenv loaded .env).
type Config struct {
	Port     string
	GinMode  string
	LogLevel string
	Currency string

	Backend      services.BackendConfig
	PollInterval time.Duration

	StoreDriver    string
	StoreDSN       string
	StoreNamespace string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	Assets services.AssetConfig

	JoinURLBase string
	CORSOrigins []string

	RateLimit int
	RateBurst int
}

func Load() *Config {
	cfg := &Config{
		Port:     getEnvOrDefault("PORT", "3000"),
		GinMode:  getEnvOrDefault("GIN_MODE", "debug"),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		Currency: strings.ToUpper(getEnvOrDefault("CURRENCY", "INR")),

		Backend: services.BackendConfig{
			BaseURL: getEnvOrDefault("BACKEND_BASE_URL", "http://localhost:8080/api/v1"),
			Timeout: getDurationOrDefault("BACKEND_TIMEOUT", 30*time.Second),
		},
		PollInterval: getDurationOrDefault("CART_POLL_INTERVAL", services.DefaultPollInterval),

		StoreDriver:    strings.ToLower(getEnvOrDefault("STORE_DRIVER", "sqlite")),
		StoreDSN:       getEnvOrDefault("STORE_DSN", "gobblego.db"),
		StoreNamespace: getEnvOrDefault("STORE_NAMESPACE", "default"),
		RedisAddr:      getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        getIntOrDefault("REDIS_DB", 0),

		Assets: services.AssetConfig{
			Endpoint:  os.Getenv("ASSET_ENDPOINT"),
			Bucket:    getEnvOrDefault("ASSET_BUCKET", "gobblego"),
			Prefix:    getEnvOrDefault("ASSET_PREFIX", "assets"),
			AccessKey: os.Getenv("ASSET_ACCESS_KEY"),
			SecretKey: os.Getenv("ASSET_SECRET_KEY"),
			UseSSL:    getBoolOrDefault("ASSET_USE_SSL", true),
			Region:    getEnvOrDefault("ASSET_REGION", "ap-south-1"),
		},

		JoinURLBase: getEnvOrDefault("JOIN_URL_BASE", "http://localhost:3000"),
		CORSOrigins: splitList(getEnvOrDefault("CORS_ORIGINS", "http://localhost:3000")),

		RateLimit: getIntOrDefault("RATE_LIMIT", 20),
		RateBurst: getIntOrDefault("RATE_BURST", 40),
	}
	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

// getDurationOrDefault accepts "45s"-style durations or a plain number of seconds.
func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(value); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	utils.ErrorLogger.Warnf("Invalid %s=%q, using %s", key, value, defaultValue)
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		utils.ErrorLogger.Warnf("Invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		utils.ErrorLogger.Warnf("Invalid %s=%q, using %t", key, value, defaultValue)
		return defaultValue
	}
	return b
}

func splitList(value string) []string {
	out := []string{}
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
