package twitter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedUpdate struct {
	endpoint  string
	remaining int
	resetAt   time.Time
}

type fakeObserver struct {
	updates []recordedUpdate
}

func (f *fakeObserver) UpdateFromResponse(endpoint string, remaining int, resetAt time.Time) {
	f.updates = append(f.updates, recordedUpdate{endpoint, remaining, resetAt})
}

func TestBuildQuery(t *testing.T) {
	query := BuildQuery([]string{"crypto", "bitcoin", "defi"}, 50)

	assert.Equal(t, "(crypto OR bitcoin OR defi) -is:retweet -is:reply min_faves:50 lang:en", query)
}

func TestAPIClient_SearchRecent(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{}
		for key := range r.URL.Query() {
			gotQuery[key] = r.URL.Query().Get(key)
		}

		w.Header().Set("x-rate-limit-remaining", "449")
		w.Header().Set("x-rate-limit-reset", "1735732800")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"data": [
				{
					"id": "100",
					"text": "bitcoin to the moon",
					"author_id": "u1",
					"conversation_id": "100",
					"created_at": "2025-01-01T10:00:00Z",
					"public_metrics": {"retweet_count": 20, "like_count": 80, "reply_count": 10}
				},
				{
					"id": "101",
					"text": "quiet market day",
					"author_id": "u2",
					"conversation_id": "101",
					"created_at": "2025-01-01T11:00:00Z",
					"public_metrics": {"retweet_count": 1, "like_count": 5, "reply_count": 0}
				}
			],
			"includes": {"users": [{"id": "u1", "username": "hodler", "name": "Hodler"}]},
			"meta": {"result_count": 2}
		}`))
	}))
	defer server.Close()

	observer := &fakeObserver{}
	client := NewAPIClient("token", observer)
	client.baseURL = server.URL

	since := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	candidates, err := client.SearchRecent(context.Background(), "q", 30, since)
	require.NoError(t, err)

	assert.Equal(t, "/2/tweets/search/recent", gotPath)
	assert.Equal(t, "q", gotQuery["query"])
	assert.Equal(t, "30", gotQuery["max_results"])
	assert.Equal(t, "2025-01-01T00:00:00Z", gotQuery["start_time"])
	assert.Equal(t, "author_id", gotQuery["expansions"])

	require.Len(t, candidates, 2)
	assert.Equal(t, "100", candidates[0].ID)
	assert.Equal(t, "hodler", candidates[0].AuthorHandle)
	assert.Equal(t, 80, candidates[0].Metrics.Likes)
	assert.Equal(t, 20, candidates[0].Metrics.Reposts)
	assert.Equal(t, 10, candidates[0].Metrics.Replies)
	// Author not in includes resolves to the unknown placeholder
	assert.Equal(t, "unknown", candidates[1].AuthorHandle)

	require.Len(t, observer.updates, 1)
	assert.Equal(t, "search", observer.updates[0].endpoint)
	assert.Equal(t, 449, observer.updates[0].remaining)
	assert.Equal(t, time.Unix(1735732800, 0), observer.updates[0].resetAt)
}

func TestAPIClient_SearchRecent_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"title":"Too Many Requests"}`))
	}))
	defer server.Close()

	client := NewAPIClient("token", nil)
	client.baseURL = server.URL

	_, err := client.SearchRecent(context.Background(), "q", 30, time.Now())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestAPIClient_PostReply(t *testing.T) {
	var gotBody createTweetRequest
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data": {"id": "900", "text": "reply text"}}`))
	}))
	defer server.Close()

	client := NewAPIClient("token", nil)
	client.baseURL = server.URL

	replyID, err := client.PostReply(context.Background(), "100", "reply text")
	require.NoError(t, err)

	assert.Equal(t, "900", replyID)
	assert.Equal(t, "Bearer token", gotAuth)
	assert.Equal(t, "reply text", gotBody.Text)
	assert.Equal(t, "100", gotBody.Reply.InReplyToTweetID)
}

func TestAPIClient_PostReply_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"title":"Forbidden"}`))
	}))
	defer server.Close()

	client := NewAPIClient("token", nil)
	client.baseURL = server.URL

	_, err := client.PostReply(context.Background(), "100", "reply text")
	assert.Error(t, err)
}

func TestAPIClient_PostReply_EmptyID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {}}`))
	}))
	defer server.Close()

	client := NewAPIClient("token", nil)
	client.baseURL = server.URL

	_, err := client.PostReply(context.Background(), "100", "reply text")
	assert.Error(t, err)
}
