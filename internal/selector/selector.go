// Package selector scores raw search results and keeps the candidates
// worth replying to, ordered by engagement.
package selector

import (
	"sort"

	"github.com/palomitas/crypto-reply-bot/internal/models"
)

// Select computes engagement scores for the raw results, drops everything
// below the threshold (inclusive boundary: a score exactly at the threshold
// survives) and returns the remainder sorted by score descending. Equal
// scores keep their original relevance order.
func Select(raw []models.Candidate, threshold float64) []models.Candidate {
	var selected []models.Candidate

	for _, candidate := range raw {
		candidate.EngagementScore = candidate.Metrics.EngagementScore()
		if candidate.EngagementScore >= threshold {
			selected = append(selected, candidate)
		}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].EngagementScore > selected[j].EngagementScore
	})

	return selected
}
