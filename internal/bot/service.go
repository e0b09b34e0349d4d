// Package bot drives one bounded reply batch: search, dedupe, compose,
// pace, post, record.
package bot

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/palomitas/crypto-reply-bot/internal/composer"
	"github.com/palomitas/crypto-reply-bot/internal/config"
	"github.com/palomitas/crypto-reply-bot/internal/history"
	"github.com/palomitas/crypto-reply-bot/internal/models"
	"github.com/palomitas/crypto-reply-bot/internal/notifications"
	"github.com/palomitas/crypto-reply-bot/internal/ratelimit"
	"github.com/palomitas/crypto-reply-bot/internal/selector"
	"github.com/palomitas/crypto-reply-bot/internal/twitter"
	"github.com/sirupsen/logrus"
)

// searchOvershoot is how many results to request when the quota is smaller,
// compensating for candidates lost to skips and failures.
const searchOvershoot = 30

// Service orchestrates reply batches
type Service struct {
	config   *config.Config
	client   twitter.Client
	history  *history.Store
	composer *composer.Composer
	governor *ratelimit.Governor
	notifier notifications.Notifier

	sleep func(time.Duration)

	// runMu serializes batches: the history store map is not safe for
	// concurrent use, and two interleaved runs could both reply to the
	// same tweet before either records it.
	runMu sync.Mutex

	metrics *Metrics
	mu      sync.RWMutex
}

// Metrics holds run metrics for the serve-mode metrics endpoint
type Metrics struct {
	LastRunID         string    `json:"last_run_id"`
	LastRun           time.Time `json:"last_run"`
	LastRunDuration   string    `json:"last_run_duration"`
	LastRepliesPosted int       `json:"last_replies_posted"`
	LastSkipped       int       `json:"last_skipped"`
	LastFailed        int       `json:"last_failed"`
	TotalRuns         int       `json:"total_runs"`
	TotalReplies      int       `json:"total_replies"`
}

// NewService creates a batch orchestrator. notifier may be nil when no
// notification channel is configured.
func NewService(cfg *config.Config, client twitter.Client, historyStore *history.Store, replyComposer *composer.Composer, governor *ratelimit.Governor, notifier notifications.Notifier) *Service {
	return &Service{
		config:   cfg,
		client:   client,
		history:  historyStore,
		composer: replyComposer,
		governor: governor,
		notifier: notifier,
		sleep:    time.Sleep,
		metrics:  &Metrics{},
	}
}

// RunBatch performs one reply batch and returns its summary. Batches are
// serialized: a concurrent caller blocks until the current batch finishes.
// It never returns an error: every failure inside the batch is logged and
// degrades to fewer replies than requested.
func (s *Service) RunBatch(ctx context.Context) *models.RunSummary {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	return s.runBatch(ctx)
}

// TriggerBatch starts a batch in the background unless one is already
// running, reporting whether it was started. The serve-mode trigger
// endpoint uses this so overlapping triggers cannot interleave runs.
func (s *Service) TriggerBatch(ctx context.Context) bool {
	if !s.runMu.TryLock() {
		logrus.Warn("Batch trigger ignored: a run is already in progress")
		return false
	}

	go func() {
		defer s.runMu.Unlock()
		summary := s.runBatch(ctx)
		logrus.Infof("Triggered run complete: %d replies posted", summary.RepliesPosted)
	}()

	return true
}

func (s *Service) runBatch(ctx context.Context) *models.RunSummary {
	summary := &models.RunSummary{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
	}

	logrus.Infof("Starting reply batch %s (quota %d)", summary.RunID, s.config.MaxTweets)

	func() {
		defer func() {
			if r := recover(); r != nil {
				logrus.Errorf("Batch %s aborted mid-run, reporting partial results: %v", summary.RunID, r)
			}
		}()
		s.process(ctx, summary)
	}()

	summary.Duration = time.Since(summary.StartedAt)
	s.updateMetrics(summary)

	if s.notifier != nil {
		if err := s.notifier.SendRunSummary(summary); err != nil {
			logrus.Errorf("Failed to deliver run summary: %v", err)
		}
	}

	logrus.Infof("Batch %s complete in %v. Posted %d replies (%d skipped, %d failed).",
		summary.RunID, summary.Duration, summary.RepliesPosted, summary.Skipped, summary.Failed)

	return summary
}

func (s *Service) process(ctx context.Context, summary *models.RunSummary) {
	quota := s.config.MaxTweets

	requested := quota
	if requested < searchOvershoot {
		requested = searchOvershoot
	}

	query := twitter.BuildQuery(s.config.SearchKeywords, s.config.MinLikes)
	since := time.Now().Add(-time.Duration(s.config.SearchWindowHours) * time.Hour)

	s.governor.Acquire(ratelimit.EndpointSearch)
	raw, err := s.client.SearchRecent(ctx, query, requested, since)
	if err != nil {
		// No candidates is a normal outcome, not a fatal one
		logrus.Errorf("Search failed, continuing with no candidates: %v", err)
		raw = nil
	}

	candidates := selector.Select(raw, s.config.EngagementThreshold)
	summary.CandidatesConsidered = len(candidates)
	logrus.Infof("Found %d high-engagement candidates", len(candidates))

	for _, candidate := range candidates {
		if summary.RepliesPosted >= quota {
			break
		}

		if s.history.HasReplied(candidate.ID) {
			logrus.Infof("Already replied to tweet %s - skipping", candidate.ID)
			summary.Skipped++
			continue
		}

		replyText := s.composer.Compose(candidate.Text, s.config.Persona)

		s.governor.Acquire(ratelimit.EndpointPost)
		replyID, err := s.client.PostReply(ctx, candidate.ID, replyText)
		if err != nil {
			// Not recorded in history: a later run may retry this tweet
			logrus.Errorf("Failed to reply to tweet %s: %v", candidate.ID, err)
			summary.Failed++
			continue
		}

		if err := s.history.RecordReply(candidate.ID, replyID, candidate.Text, replyText); err != nil {
			logrus.Errorf("Failed to record reply for tweet %s, the next run may reply to it again: %v", candidate.ID, err)
		}

		summary.RepliesPosted++
		logrus.Infof("Reply #%d: replied to @%s (tweet %s, reply %s)",
			summary.RepliesPosted, candidate.AuthorHandle, candidate.ID, replyID)

		if summary.RepliesPosted >= quota {
			break
		}

		// Pause between replies to avoid bursty posting
		s.sleep(time.Duration(s.config.InterReplyPauseSeconds) * time.Second)
	}
}

func (s *Service) updateMetrics(summary *models.RunSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.LastRunID = summary.RunID
	s.metrics.LastRun = summary.StartedAt
	s.metrics.LastRunDuration = summary.Duration.String()
	s.metrics.LastRepliesPosted = summary.RepliesPosted
	s.metrics.LastSkipped = summary.Skipped
	s.metrics.LastFailed = summary.Failed
	s.metrics.TotalRuns++
	s.metrics.TotalReplies += summary.RepliesPosted
}

// MetricsJSON returns current metrics as JSON
func (s *Service) MetricsJSON() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, _ := json.MarshalIndent(s.metrics, "", "  ")
	return string(data)
}
