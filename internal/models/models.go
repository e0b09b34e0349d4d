package models

import "time"

// Metrics holds the public engagement counts of a tweet
type Metrics struct {
	Likes   int `json:"likes"`
	Reposts int `json:"reposts"`
	Replies int `json:"replies"`
}

// EngagementScore weighs reposts and replies above plain likes
func (m Metrics) EngagementScore() float64 {
	return float64(m.Likes) + 2*float64(m.Reposts) + 1.5*float64(m.Replies)
}

// Candidate represents a tweet under consideration for a reply
type Candidate struct {
	ID              string    `json:"id"`
	Text            string    `json:"text"`
	AuthorID        string    `json:"author_id"`
	AuthorHandle    string    `json:"author_handle"`
	ConversationID  string    `json:"conversation_id"`
	CreatedAt       time.Time `json:"created_at"`
	Metrics         Metrics   `json:"metrics"`
	EngagementScore float64   `json:"engagement_score"`
}

// HistoryRecord captures a reply that was already posted for a tweet.
// Field names match the on-disk layout of existing history files.
type HistoryRecord struct {
	ReplyID   string    `json:"reply_id"`
	Timestamp time.Time `json:"timestamp"`
	TweetText string    `json:"tweet_text"`
	ReplyText string    `json:"reply_text"`
}

// RunSummary describes the outcome of one batch run
type RunSummary struct {
	RunID                string        `json:"run_id"`
	StartedAt            time.Time     `json:"started_at"`
	Duration             time.Duration `json:"duration"`
	CandidatesConsidered int           `json:"candidates_considered"`
	RepliesPosted        int           `json:"replies_posted"`
	Skipped              int           `json:"skipped"`
	Failed               int           `json:"failed"`
}
