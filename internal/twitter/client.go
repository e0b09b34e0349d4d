// Package twitter implements the X API v2 calls used by the bot: recent
// search and reply posting.
package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/palomitas/crypto-reply-bot/internal/models"
	"github.com/palomitas/crypto-reply-bot/internal/ratelimit"
	"github.com/sirupsen/logrus"
)

const defaultBaseURL = "https://api.twitter.com"

// APIClient talks to the X API v2 over HTTP
type APIClient struct {
	bearerToken string
	baseURL     string
	client      *resty.Client
	rates       RateObserver
}

// Ensure APIClient implements Client
var _ Client = (*APIClient)(nil)

type searchResponse struct {
	Data     []tweet `json:"data"`
	Includes struct {
		Users []user `json:"users"`
	} `json:"includes"`
	Meta struct {
		ResultCount int    `json:"result_count"`
		NextToken   string `json:"next_token"`
	} `json:"meta"`
}

type tweet struct {
	ID             string `json:"id"`
	Text           string `json:"text"`
	AuthorID       string `json:"author_id"`
	ConversationID string `json:"conversation_id"`
	CreatedAt      string `json:"created_at"`
	PublicMetrics  struct {
		RetweetCount int `json:"retweet_count"`
		LikeCount    int `json:"like_count"`
		ReplyCount   int `json:"reply_count"`
	} `json:"public_metrics"`
}

type user struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type createTweetRequest struct {
	Text  string `json:"text"`
	Reply struct {
		InReplyToTweetID string `json:"in_reply_to_tweet_id"`
	} `json:"reply"`
}

type createTweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

// NewAPIClient creates a client authenticated with the given bearer token.
// The observer, when non-nil, receives rate-limit values from every
// response's headers.
func NewAPIClient(bearerToken string, rates RateObserver) *APIClient {
	return &APIClient{
		bearerToken: bearerToken,
		baseURL:     defaultBaseURL,
		rates:       rates,
		client: resty.New().
			SetTimeout(30 * time.Second).
			SetHeader("User-Agent", "crypto-reply-bot/1.0"),
	}
}

// BuildQuery assembles the fixed search query: an OR-list of keywords,
// original English tweets only, with a minimum-likes floor.
func BuildQuery(keywords []string, minLikes int) string {
	quoted := make([]string, len(keywords))
	for i, kw := range keywords {
		quoted[i] = strings.TrimSpace(kw)
	}
	return fmt.Sprintf("(%s) -is:retweet -is:reply min_faves:%d lang:en", strings.Join(quoted, " OR "), minLikes)
}

// SearchRecent queries the recent-search endpoint and maps the results to
// candidates. Engagement scores are left for the selector to compute.
func (c *APIClient) SearchRecent(ctx context.Context, query string, maxResults int, since time.Time) ([]models.Candidate, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.bearerToken).
		SetQueryParams(map[string]string{
			"query":        query,
			"max_results":  strconv.Itoa(maxResults),
			"start_time":   since.UTC().Format(time.RFC3339),
			"tweet.fields": "created_at,author_id,public_metrics,conversation_id",
			"user.fields":  "username,name",
			"expansions":   "author_id",
		}).
		Get(c.baseURL + "/2/tweets/search/recent")

	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}

	c.observeRateHeaders(ratelimit.EndpointSearch, resp)

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("search returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var searchResp searchResponse
	if err := json.Unmarshal(resp.Body(), &searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	usersByID := make(map[string]user, len(searchResp.Includes.Users))
	for _, u := range searchResp.Includes.Users {
		usersByID[u.ID] = u
	}

	var candidates []models.Candidate
	for _, tw := range searchResp.Data {
		createdAt, err := time.Parse(time.RFC3339, tw.CreatedAt)
		if err != nil {
			logrus.Errorf("Failed to parse timestamp on tweet %s: %v", tw.ID, err)
			continue
		}

		handle := "unknown"
		if u, ok := usersByID[tw.AuthorID]; ok {
			handle = u.Username
		}

		candidates = append(candidates, models.Candidate{
			ID:             tw.ID,
			Text:           tw.Text,
			AuthorID:       tw.AuthorID,
			AuthorHandle:   handle,
			ConversationID: tw.ConversationID,
			CreatedAt:      createdAt,
			Metrics: models.Metrics{
				Likes:   tw.PublicMetrics.LikeCount,
				Reposts: tw.PublicMetrics.RetweetCount,
				Replies: tw.PublicMetrics.ReplyCount,
			},
		})
	}

	logrus.Infof("Search returned %d tweets", len(candidates))
	return candidates, nil
}

// PostReply posts text as a reply to parentID
func (c *APIClient) PostReply(ctx context.Context, parentID, text string) (string, error) {
	body := createTweetRequest{Text: text}
	body.Reply.InReplyToTweetID = parentID

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.bearerToken).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(c.baseURL + "/2/tweets")

	if err != nil {
		return "", fmt.Errorf("post request failed: %w", err)
	}

	c.observeRateHeaders(ratelimit.EndpointPost, resp)

	if resp.StatusCode() != 201 && resp.StatusCode() != 200 {
		return "", fmt.Errorf("post returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var created createTweetResponse
	if err := json.Unmarshal(resp.Body(), &created); err != nil {
		return "", fmt.Errorf("failed to parse post response: %w", err)
	}

	if created.Data.ID == "" {
		return "", fmt.Errorf("post response carried no tweet id")
	}

	return created.Data.ID, nil
}

// observeRateHeaders forwards x-rate-limit header values to the observer
func (c *APIClient) observeRateHeaders(endpoint string, resp *resty.Response) {
	if c.rates == nil {
		return
	}

	remainingHeader := resp.Header().Get("x-rate-limit-remaining")
	resetHeader := resp.Header().Get("x-rate-limit-reset")
	if remainingHeader == "" || resetHeader == "" {
		return
	}

	remaining, err := strconv.Atoi(remainingHeader)
	if err != nil {
		return
	}
	resetUnix, err := strconv.ParseInt(resetHeader, 10, 64)
	if err != nil {
		return
	}

	c.rates.UpdateFromResponse(endpoint, remaining, time.Unix(resetUnix, 0))
}
