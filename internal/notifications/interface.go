package notifications

import "github.com/palomitas/crypto-reply-bot/internal/models"

// Notifier defines the contract for delivering run summaries
type Notifier interface {
	SendRunSummary(summary *models.RunSummary) error
}
