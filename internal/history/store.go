// Package history persists which tweets have already been replied to. The
// store is the sole guard against duplicate replies across runs, so every
// successful reply is written through to storage before the run continues.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/palomitas/crypto-reply-bot/internal/models"
	"github.com/palomitas/crypto-reply-bot/internal/storage"
	"github.com/sirupsen/logrus"
)

// Store maps tweet id to the reply already posted for it. The orchestrator
// serializes runs, so no locking is needed around the map.
type Store struct {
	backend storage.Interface
	name    string
	replied map[string]models.HistoryRecord
	now     func() time.Time
}

// NewStore loads existing history from the backend. A missing entry starts
// an empty history; a corrupt or unreadable one degrades to empty as well,
// since losing dedupe protection beats refusing to run, but the degradation
// is logged loudly.
func NewStore(backend storage.Interface, name string) *Store {
	s := &Store{
		backend: backend,
		name:    name,
		replied: make(map[string]models.HistoryRecord),
		now:     time.Now,
	}

	data, err := backend.Retrieve(name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			logrus.Infof("No existing reply history at %s, starting fresh", name)
		} else {
			logrus.Warnf("Failed to load reply history from %s, duplicate-reply protection is weakened for this run: %v", name, err)
		}
		return s
	}

	if err := json.Unmarshal(data, &s.replied); err != nil {
		logrus.Warnf("Reply history at %s is corrupt, duplicate-reply protection is weakened for this run: %v", name, err)
		s.replied = make(map[string]models.HistoryRecord)
	}

	return s
}

// HasReplied reports whether a reply was already posted for the tweet
func (s *Store) HasReplied(tweetID string) bool {
	_, ok := s.replied[tweetID]
	return ok
}

// Count returns the number of recorded replies
func (s *Store) Count() int {
	return len(s.replied)
}

// RecordReply stores the reply metadata for a tweet and persists the whole
// history synchronously before returning. A tweet that already has a record
// keeps it: the first successful reply wins.
func (s *Store) RecordReply(tweetID, replyID, tweetText, replyText string) error {
	if _, ok := s.replied[tweetID]; ok {
		logrus.Debugf("Reply for tweet %s already recorded, keeping the original record", tweetID)
		return nil
	}

	s.replied[tweetID] = models.HistoryRecord{
		ReplyID:   replyID,
		Timestamp: s.now().UTC(),
		TweetText: tweetText,
		ReplyText: replyText,
	}

	data, err := json.Marshal(s.replied)
	if err != nil {
		return fmt.Errorf("failed to marshal reply history: %w", err)
	}

	if err := s.backend.Store(s.name, data); err != nil {
		return fmt.Errorf("failed to persist reply history: %w", err)
	}

	return nil
}
