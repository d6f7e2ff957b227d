package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Knowledge base
	DataDir string

	// Generation providers
	GeminiAPIKey   string
	GeminiModel    string
	OpenAIAPIKey   string
	OpenAIModel    string
	LLMTimeout     time.Duration
	LLMMaxTokens   int32
	LLMTemperature float32

	// Session store
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	SessionTTL    time.Duration

	// Search policy
	MaxSearchResults int
	UsedRecencyYears int

	// Booking
	DefaultBookingHour int
	CompanyName        string
	ShowroomLocation   string
	SalesContacts      string

	// Notifications (optional)
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	SalesNotifyEmail  string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DataDir: getEnv("DATA_DIR", "data"),

		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		LLMTimeout:     getEnvAsDuration("LLM_TIMEOUT", 30*time.Second),
		LLMMaxTokens:   int32(getEnvAsInt("LLM_MAX_TOKENS", 4000)),
		LLMTemperature: float32(getEnvAsFloat("LLM_TEMPERATURE", 0.3)),

		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 24*time.Hour),

		MaxSearchResults: getEnvAsInt("MAX_SEARCH_RESULTS", 8),
		UsedRecencyYears: getEnvAsInt("USED_RECENCY_YEARS", 2),

		DefaultBookingHour: getEnvAsInt("DEFAULT_BOOKING_HOUR", 14),
		CompanyName:        getEnv("COMPANY_NAME", "Stephex Horse Trucks"),
		ShowroomLocation:   getEnv("SHOWROOM_LOCATION", "Stephex Horse Trucks Showroom"),
		SalesContacts:      getEnv("SALES_CONTACTS", "Tom Kerkhofs +32 478 44 76 63 or Dimitri Engels +32 470 10 13 40"),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Stephex AI Assistant"),
		SalesNotifyEmail:  getEnv("SALES_NOTIFY_EMAIL", ""),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
