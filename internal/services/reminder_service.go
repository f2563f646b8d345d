package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/terraincognita07/medminder/internal/logging"
	"github.com/terraincognita07/medminder/internal/models"
)

const (
	defaultReminderInterval = 5 * time.Minute
	defaultReminderLead     = 30 * time.Minute
	reminderScanLimit       = 100
	maxRememberedReminders  = 500
)

var ErrReminderRecipientUnreachable = errors.New("reminder recipient has no delivery address")

// ReminderRecipientLister returns the users who have reminders switched on.
type ReminderRecipientLister interface {
	ListReminderRecipients() ([]models.User, error)
}

type DoseSource interface {
	Upcoming(userID uint, limit int) ([]models.DoseInstance, error)
}

type ReminderSender interface {
	Send(ctx context.Context, recipient models.User, message string) error
}

type ReminderConfig struct {
	Interval time.Duration
	Lead     time.Duration
}

// ReminderService periodically announces doses that are not taken yet and
// fall due within the lead window. Each dose is announced once.
type ReminderService struct {
	users    ReminderRecipientLister
	doses    DoseSource
	sender   ReminderSender
	interval time.Duration
	lead     time.Duration
	now      func() time.Time
	log      *logging.Logger

	mu   sync.Mutex
	sent map[string]time.Time
}

func NewReminderService(users ReminderRecipientLister, doses DoseSource, sender ReminderSender, config ReminderConfig, now func() time.Time, logger *logging.Logger) *ReminderService {
	if config.Interval <= 0 {
		config.Interval = defaultReminderInterval
	}
	if config.Lead <= 0 {
		config.Lead = defaultReminderLead
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ReminderService{
		users:    users,
		doses:    doses,
		sender:   sender,
		interval: config.Interval,
		lead:     config.Lead,
		now:      now,
		log:      logger,
		sent:     make(map[string]time.Time),
	}
}

// Run scans immediately and then on every tick until ctx is done.
func (service *ReminderService) Run(ctx context.Context) error {
	ticker := time.NewTicker(service.interval)
	defer ticker.Stop()

	service.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			service.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single scan and returns how many reminders were sent.
func (service *ReminderService) RunOnce(ctx context.Context) int {
	recipients, err := service.users.ListReminderRecipients()
	if err != nil {
		service.log.Error("reminders: list users failed", "error", err)
		return 0
	}

	now := service.now()
	sentCount := 0
	for _, recipient := range recipients {
		if ctx.Err() != nil {
			return sentCount
		}
		if !recipient.RemindersEnabled {
			continue
		}
		sentCount += service.remindUser(ctx, recipient, now)
	}
	return sentCount
}

func (service *ReminderService) remindUser(ctx context.Context, recipient models.User, now time.Time) int {
	userID := recipient.ID
	doses, err := service.doses.Upcoming(userID, reminderScanLimit)
	if err != nil {
		service.log.Warn("reminders: load doses failed", "user_id", userID, "error", err)
		return 0
	}

	sentCount := 0
	for _, dose := range dosesDueSoon(doses, now, service.lead) {
		key := fmt.Sprintf("%d:%s:%s", userID, dose.MedicationID, dose.Time.Format(time.RFC3339))
		if !service.shouldSend(key, now) {
			continue
		}
		message := fmt.Sprintf("Medication reminder: %s (%s) at %s.",
			dose.MedicationName,
			dose.Dosage,
			dose.Time.Format("15:04"),
		)
		if err := service.sender.Send(ctx, recipient, message); err != nil {
			service.forget(key)
			if errors.Is(err, ErrReminderRecipientUnreachable) {
				service.log.Debug("reminders: user has no delivery address", "user_id", userID)
				return sentCount
			}
			service.log.Warn("reminders: send failed", "user_id", userID, "medication_id", dose.MedicationID, "error", err)
			continue
		}
		sentCount++
	}
	return sentCount
}

func dosesDueSoon(doses []models.DoseInstance, now time.Time, lead time.Duration) []models.DoseInstance {
	due := make([]models.DoseInstance, 0)
	windowEnd := now.Add(lead)
	for _, dose := range doses {
		if dose.Taken || dose.Time.IsZero() {
			continue
		}
		if dose.Time.Before(now) || !dose.Time.Before(windowEnd) {
			continue
		}
		due = append(due, dose)
	}
	return due
}

func (service *ReminderService) shouldSend(key string, now time.Time) bool {
	service.mu.Lock()
	defer service.mu.Unlock()

	if _, ok := service.sent[key]; ok {
		return false
	}
	if len(service.sent) >= maxRememberedReminders {
		service.pruneLocked(now)
	}
	service.sent[key] = now
	return true
}

func (service *ReminderService) forget(key string) {
	service.mu.Lock()
	defer service.mu.Unlock()
	delete(service.sent, key)
}

func (service *ReminderService) pruneLocked(now time.Time) {
	threshold := now.Add(-24 * time.Hour)
	for key, sentAt := range service.sent {
		if sentAt.Before(threshold) {
			delete(service.sent, key)
		}
	}
	if len(service.sent) >= maxRememberedReminders {
		service.sent = make(map[string]time.Time)
	}
}

// LogReminderSender writes reminders to the application log.
type LogReminderSender struct {
	log *logging.Logger
}

func NewLogReminderSender(logger *logging.Logger) *LogReminderSender {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &LogReminderSender{log: logger}
}

func (sender *LogReminderSender) Send(_ context.Context, recipient models.User, message string) error {
	sender.log.Info("dose reminder", "user_id", recipient.ID, "message", message)
	return nil
}

// TelegramReminderSender posts each reminder to the recipient's own chat.
// Users without a chat id cannot be reached.
type TelegramReminderSender struct {
	botToken string
	baseURL  string
	client   *http.Client
}

func NewTelegramReminderSender(botToken string) *TelegramReminderSender {
	return &TelegramReminderSender{
		botToken: botToken,
		baseURL:  "https://api.telegram.org",
		client: &http.Client{
			Timeout: 8 * time.Second,
		},
	}
}

func (sender *TelegramReminderSender) Send(ctx context.Context, recipient models.User, message string) error {
	chatID := strings.TrimSpace(recipient.TelegramChatID)
	if chatID == "" {
		return ErrReminderRecipientUnreachable
	}

	values := url.Values{}
	values.Set("chat_id", chatID)
	values.Set("text", message)

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(sender.baseURL, "/"), sender.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := sender.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
