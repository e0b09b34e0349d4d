// Package notifications delivers run summaries to the configured channels.
// Delivery failures never affect the run itself.
package notifications

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/palomitas/crypto-reply-bot/internal/config"
	"github.com/palomitas/crypto-reply-bot/internal/models"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Service sends run summaries via a Teams webhook and/or email
type Service struct {
	config *config.Config
	client *resty.Client
}

// Ensure Service implements Notifier
var _ Notifier = (*Service)(nil)

// TeamsMessage represents a Microsoft Teams message card
type TeamsMessage struct {
	Type     string         `json:"@type"`
	Context  string         `json:"@context"`
	Title    string         `json:"title"`
	Text     string         `json:"text"`
	Sections []TeamsSection `json:"sections,omitempty"`
}

type TeamsSection struct {
	ActivityTitle string      `json:"activityTitle,omitempty"`
	Facts         []TeamsFact `json:"facts,omitempty"`
	Markdown      bool        `json:"markdown,omitempty"`
}

type TeamsFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewService creates a notification service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// Enabled reports whether any notification channel is configured
func (s *Service) Enabled() bool {
	return s.config.TeamsWebhookURL != "" || s.config.NotificationEmail != ""
}

// SendRunSummary sends the summary via every configured channel
func (s *Service) SendRunSummary(summary *models.RunSummary) error {
	var errors []string

	if s.config.TeamsWebhookURL != "" {
		if err := s.sendToTeams(summary); err != nil {
			logrus.Errorf("Failed to send Teams notification: %v", err)
			errors = append(errors, fmt.Sprintf("Teams: %v", err))
		} else {
			logrus.Info("Sent run summary to Teams")
		}
	}

	if s.config.NotificationEmail != "" {
		if err := s.sendEmail(summary); err != nil {
			logrus.Errorf("Failed to send email notification: %v", err)
			errors = append(errors, fmt.Sprintf("Email: %v", err))
		} else {
			logrus.Info("Sent run summary via email")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

func (s *Service) sendToTeams(summary *models.RunSummary) error {
	message := s.buildTeamsMessage(summary)

	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(message).
		Post(s.config.TeamsWebhookURL)

	if err != nil {
		return fmt.Errorf("failed to send Teams message: %w", err)
	}

	if resp.StatusCode() != 200 {
		return fmt.Errorf("Teams webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	return nil
}

func (s *Service) buildTeamsMessage(summary *models.RunSummary) *TeamsMessage {
	message := &TeamsMessage{
		Type:    "MessageCard",
		Context: "https://schema.org/extensions",
		Title:   "Crypto Reply Bot Run Summary",
		Text:    fmt.Sprintf("Posted %d replies this run", summary.RepliesPosted),
	}

	message.Sections = append(message.Sections, TeamsSection{
		ActivityTitle: "Run Details",
		Facts: []TeamsFact{
			{Name: "Run ID", Value: summary.RunID},
			{Name: "Started", Value: summary.StartedAt.Format("2006-01-02 15:04:05 UTC")},
			{Name: "Duration", Value: summary.Duration.String()},
			{Name: "Candidates Considered", Value: fmt.Sprintf("%d", summary.CandidatesConsidered)},
			{Name: "Replies Posted", Value: fmt.Sprintf("%d", summary.RepliesPosted)},
			{Name: "Skipped (already replied)", Value: fmt.Sprintf("%d", summary.Skipped)},
			{Name: "Failed", Value: fmt.Sprintf("%d", summary.Failed)},
		},
		Markdown: true,
	})

	return message
}

func (s *Service) sendEmail(summary *models.RunSummary) error {
	subject := fmt.Sprintf("Crypto Reply Bot Run - %d replies posted", summary.RepliesPosted)

	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.NotificationEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", s.buildEmailText(summary))

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func (s *Service) buildEmailText(summary *models.RunSummary) string {
	var text strings.Builder

	text.WriteString("Crypto Reply Bot Run Summary\n")
	text.WriteString("============================\n\n")
	text.WriteString(fmt.Sprintf("Run ID:                %s\n", summary.RunID))
	text.WriteString(fmt.Sprintf("Started:               %s\n", summary.StartedAt.Format("2006-01-02 15:04:05 UTC")))
	text.WriteString(fmt.Sprintf("Duration:              %s\n", summary.Duration))
	text.WriteString(fmt.Sprintf("Candidates considered: %d\n", summary.CandidatesConsidered))
	text.WriteString(fmt.Sprintf("Replies posted:        %d\n", summary.RepliesPosted))
	text.WriteString(fmt.Sprintf("Skipped:               %d\n", summary.Skipped))
	text.WriteString(fmt.Sprintf("Failed:                %d\n", summary.Failed))

	return text.String()
}
