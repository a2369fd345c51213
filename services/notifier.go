// services/notifier.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"barbershop-backend/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// TelegramSender delivers a staff notification message.
type TelegramSender interface {
	Send(ctx context.Context, text string) error
}

// SMSSender delivers a text message to a client phone number.
type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

// NotifierConfig carries the delivery settings for the pipeline.
// Built once in main and injected, never read inside the worker.
type NotifierConfig struct {
	AdminBaseURL string
	MaxAttempts  int
	RetryDelay   time.Duration
	CallTimeout  time.Duration
}

func LoadNotifierConfig() NotifierConfig {
	cfg := NotifierConfig{
		AdminBaseURL: os.Getenv("ADMIN_BASE_URL"),
		MaxAttempts:  3,
		RetryDelay:   2 * time.Second,
		CallTimeout:  10 * time.Second,
	}
	if cfg.AdminBaseURL == "" {
		cfg.AdminBaseURL = "http://localhost:8080"
	}
	if env := os.Getenv("NOTIFY_MAX_ATTEMPTS"); env != "" {
		if n, err := strconv.Atoi(env); err == nil && n > 0 {
			cfg.MaxAttempts = n
		}
	}
	return cfg
}

// Notifier reacts to domain events after the entity write committed.
// Every failure here is logged and contained; nothing propagates back
// to the request that created the entity.
type Notifier struct {
	db         *gorm.DB
	telegram   TelegramSender
	sms        SMSSender
	moderation ModerationClient
	cfg        NotifierConfig
	modCfg     ModerationConfig
}

func NewNotifier(db *gorm.DB, telegram TelegramSender, sms SMSSender, moderation ModerationClient, cfg NotifierConfig, modCfg ModerationConfig) *Notifier {
	return &Notifier{
		db:         db,
		telegram:   telegram,
		sms:        sms,
		moderation: moderation,
		cfg:        cfg,
		modCfg:     modCfg,
	}
}

// Handle dispatches one domain event. An error return means the event
// could not be processed and should not be redelivered as a duplicate;
// the sweeper covers reviews left mid-flight.
func (n *Notifier) Handle(ctx context.Context, msg EventMessage) error {
	switch msg.EventType {
	case models.EventOrderCreated:
		return n.handleOrderCreated(ctx, msg.AggregateID)
	case models.EventOrderConfirmed:
		return n.handleOrderConfirmed(ctx, msg.AggregateID)
	case models.EventReviewCreated:
		return n.handleReviewCreated(ctx, msg.AggregateID)
	default:
		return fmt.Errorf("unknown event type %q", msg.EventType)
	}
}

// FormatOrderMessage builds the staff notification for a new booking.
func (n *Notifier) FormatOrderMessage(order *models.Order) string {
	masterName := "-"
	masterTag := "-"
	if order.Master != nil {
		masterName = order.Master.FullName()
		masterTag = order.Master.LastName
	}
	serviceNames := make([]string, 0, len(order.Services))
	for _, s := range order.Services {
		serviceNames = append(serviceNames, s.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "New order %s\n", order.CreatedAt.Format("02.01.2006 15:04"))
	fmt.Fprintf(&b, "Name: %s\n", order.Name)
	fmt.Fprintf(&b, "Phone: %s\n", order.Phone)
	fmt.Fprintf(&b, "Master: %s\n", masterName)
	fmt.Fprintf(&b, "Services: %s\n", strings.Join(serviceNames, ", "))
	fmt.Fprintf(&b, "---\nComment: %s\n---\n", order.Comment)
	fmt.Fprintf(&b, "Admin: %s/admin/orders/%s\n", n.cfg.AdminBaseURL, order.ID)
	fmt.Fprintf(&b, "#order #%s", masterTag)
	return b.String()
}

// alreadyDelivered reports whether this event already produced a
// successful send. The dispatcher can republish an event when the
// process dies between the broker publish and marking the row
// dispatched; a redelivery must not repeat the message.
func (n *Notifier) alreadyDelivered(eventType string, aggregateID uuid.UUID) bool {
	var count int64
	n.db.Model(&models.NotificationLog{}).
		Where("event_type = ? AND aggregate_id = ? AND status = ?", eventType, aggregateID, "sent").
		Count(&count)
	return count > 0
}

func (n *Notifier) handleOrderCreated(ctx context.Context, orderID uuid.UUID) error {
	if n.alreadyDelivered(models.EventOrderCreated, orderID) {
		return nil
	}

	var order models.Order
	if err := n.db.Preload("Master").Preload("Services").
		First(&order, "id = ?", orderID).Error; err != nil {
		return fmt.Errorf("load order %s: %w", orderID, err)
	}

	message := n.FormatOrderMessage(&order)

	callCtx, cancel := context.WithTimeout(ctx, n.cfg.CallTimeout)
	defer cancel()
	err := n.telegram.Send(callCtx, message)

	n.logDelivery(models.EventOrderCreated, order.ID, "telegram", message, err)
	if err != nil {
		// Best effort: the booking is already committed, staff can
		// still see it in the order list.
		log.Printf("[Notifier] telegram notification for order %s failed: %v", order.ID, err)
	}
	return nil
}

func (n *Notifier) handleOrderConfirmed(ctx context.Context, orderID uuid.UUID) error {
	if n.alreadyDelivered(models.EventOrderConfirmed, orderID) {
		return nil
	}

	var order models.Order
	if err := n.db.First(&order, "id = ?", orderID).Error; err != nil {
		return fmt.Errorf("load order %s: %w", orderID, err)
	}

	body := fmt.Sprintf("Hi %s, your booking is confirmed. See you soon!", order.Name)
	if order.AppointmentAt != nil {
		body = fmt.Sprintf("Hi %s, your booking for %s is confirmed. See you soon!",
			order.Name, order.AppointmentAt.Format("02.01.2006 15:04"))
	}

	callCtx, cancel := context.WithTimeout(ctx, n.cfg.CallTimeout)
	defer cancel()
	err := n.sms.Send(callCtx, order.Phone, body)

	n.logDelivery(models.EventOrderConfirmed, order.ID, "sms", body, err)
	if err != nil {
		log.Printf("[Notifier] confirmation SMS for order %s failed: %v", order.ID, err)
	}
	return nil
}

func (n *Notifier) handleReviewCreated(ctx context.Context, reviewID uuid.UUID) error {
	var review models.Review
	if err := n.db.First(&review, "id = ?", reviewID).Error; err != nil {
		return fmt.Errorf("load review %s: %w", reviewID, err)
	}

	// Redelivered events must not re-moderate a settled review.
	if review.ModerationStatus != models.ModerationUnchecked {
		return nil
	}

	review.ModerationStatus = models.ModerationInProgress
	if err := n.db.Save(&review).Error; err != nil {
		return fmt.Errorf("mark review %s in progress: %w", reviewID, err)
	}

	var scores map[string]float64
	var err error
	for attempt := 1; attempt <= n.cfg.MaxAttempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, n.cfg.CallTimeout)
		scores, err = n.moderation.Classify(callCtx, review.Text)
		cancel()
		if err == nil {
			break
		}
		log.Printf("[Notifier] moderation attempt %d for review %s failed: %v",
			attempt, review.ID, err)
		if attempt < n.cfg.MaxAttempts {
			time.Sleep(n.cfg.RetryDelay)
		}
	}
	if err != nil {
		// The review stays in progress; the sweeper bounds its dwell
		// time and forces a terminal state.
		return fmt.Errorf("classify review %s: %w", reviewID, err)
	}

	if n.modCfg.Exceeds(scores) {
		review.ModerationStatus = models.ModerationRejected
	} else {
		review.ModerationStatus = models.ModerationApproved
	}
	if err := n.db.Save(&review).Error; err != nil {
		return fmt.Errorf("persist moderation result for review %s: %w", reviewID, err)
	}

	log.Printf("[Notifier] review %s moderated: %s", review.ID, review.ModerationStatus)
	return nil
}

func (n *Notifier) logDelivery(eventType string, aggregateID uuid.UUID, channel, message string, sendErr error) {
	entry := models.NotificationLog{
		EventType:   eventType,
		AggregateID: aggregateID,
		Channel:     channel,
		Message:     message,
		Status:      "sent",
		SentAt:      time.Now(),
	}
	if sendErr != nil {
		entry.Status = "failed"
		entry.ErrorMessage = sendErr.Error()
	}
	if err := n.db.Create(&entry).Error; err != nil {
		log.Printf("[Notifier] failed to log %s delivery for %s: %v", channel, aggregateID, err)
	}
}

// Start consumes broker deliveries until the channel closes. Failed
// events are dropped, not requeued; the sweeper catches reviews left
// mid-moderation.
func (n *Notifier) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			var event EventMessage
			if err := json.Unmarshal(msg.Body, &event); err != nil {
				log.Printf("[Notifier] failed to unmarshal event: %v", err)
				msg.Nack(false, false)
				continue
			}
			if err := n.Handle(context.Background(), event); err != nil {
				log.Printf("[Notifier] event %s (%s) failed: %v", event.EventID, event.EventType, err)
				msg.Nack(false, false)
				continue
			}
			msg.Ack(false)
		}
		log.Println("[Notifier] delivery channel closed, stopping worker")
	}()
}

// NewTelegramSender builds the production Telegram sender from the bot
// credential and recipient chat id.
func NewTelegramSender(token string, chatID int64) (TelegramSender, error) {
	if token == "" {
		return nil, errors.New("TELEGRAM_BOT_API_KEY not set")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &telegramSender{bot: bot, chatID: chatID}, nil
}

type telegramSender struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func (t *telegramSender) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, text))
	return err
}

// NewTwilioSender builds the production SMS sender.
func NewTwilioSender() SMSSender {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &twilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		from: os.Getenv("TWILIO_PHONE_NUMBER"),
	}
}

type twilioSender struct {
	client *twilio.RestClient
	from   string
}

func (s *twilioSender) Send(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return err
	}
	if resp.Sid != nil {
		log.Printf("[Notifier] SMS sent to %s, SID: %s", to, *resp.Sid)
	}
	return nil
}
