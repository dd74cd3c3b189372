package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	Environment string

	FirebaseProject        string
	FirebaseApiKey         string
	FirebaseDatabaseURL    string
	ServiceAccountJSON     string
	ServiceAccountPath     string
	StorageBucket          string
	IdentityToolkitBaseURL string

	// rtdb | redis
	PresenceBackend string
	// file | redis
	NotificationBackend string
	StoreDir            string
	NotificationsMax    int

	RedisAddr     string
	RedisPassword string

	PromptFlowURL     string
	PromptTimeout     time.Duration
	ChatRatePerMinute int
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		FirebaseProject:        getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseApiKey:         getEnv("FIREBASE_API_KEY", ""),
		FirebaseDatabaseURL:    getEnv("FIREBASE_DATABASE_URL", ""),
		ServiceAccountJSON:     getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		ServiceAccountPath:     getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", "./predu-firebase-adminsdk.json"),
		StorageBucket:          getEnv("STORAGE_BUCKET", ""),
		IdentityToolkitBaseURL: getEnv("IDENTITY_TOOLKIT_URL", "https://identitytoolkit.googleapis.com/v1"),

		PresenceBackend:     getEnv("PRESENCE_BACKEND", "rtdb"),
		NotificationBackend: getEnv("NOTIFICATION_BACKEND", "file"),
		StoreDir:            getEnv("STORE_DIR", "./data"),
		NotificationsMax:    getEnvAsInt("NOTIFICATIONS_MAX", 50),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		PromptFlowURL:     getEnv("PROMPT_FLOW_URL", ""),
		PromptTimeout:     getEnvAsDuration("PROMPT_TIMEOUT", 30*time.Second),
		ChatRatePerMinute: getEnvAsInt("CHAT_RATE_PER_MINUTE", 10),
	}

	return config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.Atoi(value)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
