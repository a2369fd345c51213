// models/notification_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	EventType    string    `gorm:"type:varchar(40)"`
	AggregateID  uuid.UUID `gorm:"type:uuid;index"`
	Channel      string    `gorm:"type:varchar(20)"` // telegram, sms
	Message      string    `gorm:"type:text"`
	Status       string    `gorm:"type:varchar(20)"` // sent, failed
	ErrorMessage string    `gorm:"type:text"`
	SentAt       time.Time
	gorm.Model
}

func (n *NotificationLog) BeforeCreate(tx *gorm.DB) (err error) {
	n.ID = uuid.New()
	return
}
