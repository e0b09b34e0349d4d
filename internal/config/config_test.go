package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("TWITTER_API_KEY", "key")
	t.Setenv("TWITTER_API_SECRET", "secret")
	t.Setenv("TWITTER_ACCESS_TOKEN", "token")
	t.Setenv("TWITTER_ACCESS_SECRET", "token-secret")
	t.Setenv("TWITTER_BEARER_TOKEN", "bearer")
}

func TestLoad_Defaults(t *testing.T) {
	setCredentials(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.MaxTweets)
	assert.Equal(t, float64(100), cfg.EngagementThreshold)
	assert.Equal(t, 30, cfg.InterReplyPauseSeconds)
	assert.Equal(t, 24, cfg.SearchWindowHours)
	assert.Equal(t, 50, cfg.MinLikes)
	assert.Equal(t, "random", cfg.Persona)
	assert.Equal(t, "once", cfg.RunMode)
	assert.Equal(t, "tweet_history.json", cfg.HistoryFile)
	assert.Contains(t, cfg.SearchKeywords, "bitcoin")
}

func TestLoad_MissingCredentialsIsFatal(t *testing.T) {
	setCredentials(t)
	t.Setenv("TWITTER_BEARER_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TWITTER_BEARER_TOKEN")
}

func TestLoad_Overrides(t *testing.T) {
	setCredentials(t)
	t.Setenv("MAX_TWEETS", "3")
	t.Setenv("ENGAGEMENT_THRESHOLD", "250.5")
	t.Setenv("SEARCH_KEYWORDS", "solana,memecoin")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.MaxTweets)
	assert.Equal(t, 250.5, cfg.EngagementThreshold)
	assert.Equal(t, []string{"solana", "memecoin"}, cfg.SearchKeywords)
}

func TestLoad_InvalidRunMode(t *testing.T) {
	setCredentials(t)
	t.Setenv("RUN_MODE", "daemon")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_EmailRequiresSMTP(t *testing.T) {
	setCredentials(t)
	t.Setenv("NOTIFICATION_EMAIL", "ops@example.com")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP")
}
