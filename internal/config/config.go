package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Host string
	Env  string

	// MongoDB
	MongoURI     string
	DatabaseName string
	MongoTimeout int

	// JWT
	JWTSecret     string
	JWTExpiration int

	// Messaging channel (Twilio-compatible API)
	ChannelBaseURL    string
	ChannelAccountSID string
	ChannelAuthToken  string
	ChannelSender     string

	// Alert dispatch
	AlertRecipients []string
	SendTimeoutSec  int
	SummaryHour     int

	// CORS / rate limiting
	AllowedOrigins    []string
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file, using environment variables: %v", err)
	}

	config := &Config{
		Port:              getEnv("PORT", "8080"),
		Host:              getEnv("HOST", "0.0.0.0"),
		Env:               getEnv("ENV", "development"),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DatabaseName:      getEnv("DATABASE_NAME", "greenwatch"),
		MongoTimeout:      getEnvAsInt("MONGO_TIMEOUT", 10),
		JWTSecret:         getEnv("JWT_SECRET", "your-secret-key"),
		JWTExpiration:     getEnvAsInt("JWT_EXPIRATION", 24), // hours
		ChannelBaseURL:    getEnv("CHANNEL_BASE_URL", "https://api.twilio.com"),
		ChannelAccountSID: getEnv("CHANNEL_ACCOUNT_SID", ""),
		ChannelAuthToken:  getEnv("CHANNEL_AUTH_TOKEN", ""),
		ChannelSender:     getEnv("CHANNEL_SENDER", ""),
		AlertRecipients:   getEnvAsList("ALERT_RECIPIENTS", nil),
		SendTimeoutSec:    getEnvAsInt("SEND_TIMEOUT_SECONDS", 15),
		SummaryHour:       getEnvAsInt("SUMMARY_HOUR", 18),
		AllowedOrigins:    getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		RateLimitEnabled:  getEnv("RATE_LIMIT_ENABLED", "true") == "true",
		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 60),
	}

	return config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsList parses a comma-separated value, preserving order.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
