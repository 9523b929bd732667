package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string
	JWTSecret       string
	JWTExpiration   time.Duration
	DataDir         string
	ShutdownTimeout time.Duration

	MongoURI string
	MongoDB  string

	AdminEmail    string
	AdminPassword string
	AdminName     string

	AuthRatePerMinute float64
	AuthRateBurst     int

	CORSAllowedOrigins []string

	LogLevel       string
	LogDevelopment bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerAddress:   getEnv("SERVER_ADDRESS", ":8080"),
		JWTSecret:       getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTExpiration:   getDurationEnv("JWT_EXPIRATION", 24*time.Hour),
		DataDir:         getEnv("DATA_DIR", ""),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 15*time.Second),

		MongoURI: getEnv("MONGO_URI", ""),
		MongoDB:  getEnv("MONGO_DB", ""),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminName:     getEnv("ADMIN_NAME", ""),

		AuthRatePerMinute: getFloatEnv("AUTH_RATE_PER_MINUTE", 20),
		AuthRateBurst:     getIntEnv("AUTH_RATE_BURST", 5),

		CORSAllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),

		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogDevelopment: getBoolEnv("LOG_DEVELOPMENT", false),
	}
}

// UseMongo reports whether both Mongo settings are present.
func (c *Config) UseMongo() bool {
	return c.MongoURI != "" && c.MongoDB != ""
}

// HasAdmin reports whether an admin account should be bootstrapped.
func (c *Config) HasAdmin() bool {
	return c.AdminEmail != "" && c.AdminPassword != ""
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	v, err := strconv.Atoi(strings.TrimSpace(getEnv(key, "")))
	if err != nil {
		return defaultValue
	}
	return v
}

func getFloatEnv(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(getEnv(key, "")), 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func getBoolEnv(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(getEnv(key, "")))
	if err != nil {
		return defaultValue
	}
	return v
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(getEnv(key, "")))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

func getListEnv(key string, defaultValue []string) []string {
	raw := getEnv(key, "")
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
