package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration (serve mode)
	Port    string
	Debug   bool
	RunMode string // "once" or "serve"

	// Twitter API credentials
	TwitterAPIKey       string
	TwitterAPISecret    string
	TwitterAccessToken  string
	TwitterAccessSecret string
	TwitterBearerToken  string

	// Batch configuration
	MaxTweets              int
	EngagementThreshold    float64
	InterReplyPauseSeconds int
	SearchWindowHours      int
	MinLikes               int
	SearchKeywords         []string
	Persona                string

	// History storage
	HistoryFile      string
	StorageAccount   string
	StorageContainer string

	// Run summary notifications
	TeamsWebhookURL   string
	NotificationEmail string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:    getEnv("PORT", "8080"),
		Debug:   getBoolEnv("DEBUG", false),
		RunMode: getEnv("RUN_MODE", "once"),

		TwitterAPIKey:       getEnv("TWITTER_API_KEY", ""),
		TwitterAPISecret:    getEnv("TWITTER_API_SECRET", ""),
		TwitterAccessToken:  getEnv("TWITTER_ACCESS_TOKEN", ""),
		TwitterAccessSecret: getEnv("TWITTER_ACCESS_SECRET", ""),
		TwitterBearerToken:  getEnv("TWITTER_BEARER_TOKEN", ""),

		MaxTweets:              getIntEnv("MAX_TWEETS", 5),
		EngagementThreshold:    getFloatEnv("ENGAGEMENT_THRESHOLD", 100),
		InterReplyPauseSeconds: getIntEnv("INTER_REPLY_PAUSE_SECONDS", 30),
		SearchWindowHours:      getIntEnv("SEARCH_WINDOW_HOURS", 24),
		MinLikes:               getIntEnv("MIN_LIKES", 50),
		Persona:                getEnv("PERSONA", "random"),

		SearchKeywords: getSliceEnv("SEARCH_KEYWORDS", []string{
			"crypto",
			"cryptocurrency",
			"bitcoin",
			"ethereum",
			"blockchain",
			"defi",
			"nft",
			"airdrop",
			"staking",
		}),

		HistoryFile:      getEnv("HISTORY_FILE", "tweet_history.json"),
		StorageAccount:   getEnv("AZURE_STORAGE_ACCOUNT", ""),
		StorageContainer: getEnv("AZURE_STORAGE_CONTAINER", "replybot"),

		TeamsWebhookURL:   getEnv("TEAMS_WEBHOOK_URL", ""),
		NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getIntEnv("SMTP_PORT", 587),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
	}

	// Validate required configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	credentials := []struct {
		key   string
		value string
	}{
		{"TWITTER_API_KEY", c.TwitterAPIKey},
		{"TWITTER_API_SECRET", c.TwitterAPISecret},
		{"TWITTER_ACCESS_TOKEN", c.TwitterAccessToken},
		{"TWITTER_ACCESS_SECRET", c.TwitterAccessSecret},
		{"TWITTER_BEARER_TOKEN", c.TwitterBearerToken},
	}

	var missing []string
	for _, cred := range credentials {
		if cred.value == "" {
			missing = append(missing, cred.key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing Twitter API credentials: %s", strings.Join(missing, ", "))
	}

	if c.RunMode != "once" && c.RunMode != "serve" {
		return fmt.Errorf("RUN_MODE must be 'once' or 'serve'")
	}

	if c.MaxTweets < 1 {
		return fmt.Errorf("MAX_TWEETS must be at least 1")
	}

	if c.NotificationEmail != "" {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("SMTP configuration is required when NOTIFICATION_EMAIL is set")
		}
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
