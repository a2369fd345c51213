package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EventOrderCreated   = "order.created"
	EventOrderConfirmed = "order.confirmed"
	EventReviewCreated  = "review.created"
)

const (
	OutboxPending    = "pending"
	OutboxDispatched = "dispatched"
	OutboxFailed     = "failed"
)

// OutboxEvent is a domain event appended in the same transaction as the
// entity write it describes. A dispatcher publishes pending rows to the
// broker; the entity write never waits on delivery.
type OutboxEvent struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key"`

	EventType   string    `gorm:"type:varchar(40);not null;index"`
	AggregateID uuid.UUID `gorm:"type:uuid;not null;index"`
	Payload     JSONB     `gorm:"type:jsonb;default:'{}'"`

	Status       string `gorm:"type:varchar(20);default:'pending';index"`
	Attempts     int    `gorm:"default:0"`
	LastError    string `gorm:"type:text"`
	DispatchedAt *time.Time

	gorm.Model
}

func (e *OutboxEvent) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Status == "" {
		e.Status = OutboxPending
	}
	return
}

// Custom JSONB type for event payloads
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, &j)
	case string:
		return json.Unmarshal([]byte(v), &j)
	default:
		return errors.New("unsupported type for JSONB scan")
	}
}
