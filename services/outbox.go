package services

import (
	"context"
	"log"
	"time"

	"barbershop-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventPublisher delivers a serialized domain event to the broker.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

// EventMessage is the broker payload for a domain event.
type EventMessage struct {
	EventID     uuid.UUID `json:"eventId"`
	EventType   string    `json:"eventType"`
	AggregateID uuid.UUID `json:"aggregateId"`
}

// AppendEvent stores a domain event in the same transaction as the
// entity write that produced it.
func AppendEvent(tx *gorm.DB, eventType string, aggregateID uuid.UUID, payload models.JSONB) error {
	event := models.OutboxEvent{
		EventType:   eventType,
		AggregateID: aggregateID,
		Payload:     payload,
	}
	return tx.Create(&event).Error
}

// OutboxDispatcher moves pending outbox rows to the broker. Publish
// failures leave the row pending for the next poll; rows that keep
// failing are parked as failed so one bad event cannot clog the queue.
type OutboxDispatcher struct {
	db          *gorm.DB
	publisher   EventPublisher
	interval    time.Duration
	maxAttempts int
}

func NewOutboxDispatcher(db *gorm.DB, publisher EventPublisher, interval time.Duration, maxAttempts int) *OutboxDispatcher {
	return &OutboxDispatcher{
		db:          db,
		publisher:   publisher,
		interval:    interval,
		maxAttempts: maxAttempts,
	}
}

// Start polls until the context is cancelled.
func (d *OutboxDispatcher) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Println("[Outbox] dispatcher stopped")
				return
			case <-ticker.C:
				d.DispatchPending()
			}
		}
	}()
	log.Println("[Outbox] dispatcher started")
}

// DispatchPending publishes all currently pending events, oldest first.
// Returns the number of events handed to the broker.
func (d *OutboxDispatcher) DispatchPending() int {
	var events []models.OutboxEvent
	if err := d.db.Where("status = ?", models.OutboxPending).
		Order("created_at ASC").
		Limit(100).
		Find(&events).Error; err != nil {
		log.Printf("[Outbox] failed to fetch pending events: %v", err)
		return 0
	}

	dispatched := 0
	for i := range events {
		event := &events[i]
		msg := EventMessage{
			EventID:     event.ID,
			EventType:   event.EventType,
			AggregateID: event.AggregateID,
		}

		if err := d.publisher.Publish(event.EventType, msg); err != nil {
			event.Attempts++
			event.LastError = err.Error()
			if event.Attempts >= d.maxAttempts {
				event.Status = models.OutboxFailed
				log.Printf("[Outbox] event %s failed permanently after %d attempts: %v",
					event.ID, event.Attempts, err)
			} else {
				log.Printf("[Outbox] publish attempt %d for event %s failed: %v",
					event.Attempts, event.ID, err)
			}
			if err := d.db.Save(event).Error; err != nil {
				log.Printf("[Outbox] failed to record publish failure for %s: %v", event.ID, err)
			}
			continue
		}

		now := time.Now()
		event.Status = models.OutboxDispatched
		event.DispatchedAt = &now
		event.Attempts++
		if err := d.db.Save(event).Error; err != nil {
			log.Printf("[Outbox] failed to mark event %s dispatched: %v", event.ID, err)
			continue
		}
		dispatched++
	}
	return dispatched
}
