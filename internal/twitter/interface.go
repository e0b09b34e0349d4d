package twitter

import (
	"context"
	"time"

	"github.com/palomitas/crypto-reply-bot/internal/models"
)

// Client defines the contract for the Twitter API operations the bot needs
type Client interface {
	// SearchRecent returns tweets matching the query posted after since.
	SearchRecent(ctx context.Context, query string, maxResults int, since time.Time) ([]models.Candidate, error)

	// PostReply posts text as a reply to the given tweet and returns the id
	// of the new tweet.
	PostReply(ctx context.Context, parentID, text string) (string, error)
}

// RateObserver receives authoritative rate-limit values parsed from API
// response headers.
type RateObserver interface {
	UpdateFromResponse(endpoint string, remaining int, resetAt time.Time)
}
