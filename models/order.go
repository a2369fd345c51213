package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OrderStatusNew       = "new"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// OrderStatuses lists every valid order status.
var OrderStatuses = []string{
	OrderStatusNew,
	OrderStatusConfirmed,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

func IsValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Order struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key"`

	Name    string `gorm:"not null"`
	Phone   string `gorm:"not null;index"`
	Comment string `gorm:"type:text"`

	MasterID *uuid.UUID `gorm:"type:uuid;index"`
	Master   *Master    `gorm:"foreignKey:MasterID"`

	Services []Service `gorm:"many2many:order_services"`

	Status        string `gorm:"type:varchar(20);default:'new';index"`
	AppointmentAt *time.Time

	gorm.Model
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return
}

// BeforeSave keeps the status inside the enumerated set; anything
// unknown or empty collapses to "new".
func (o *Order) BeforeSave(tx *gorm.DB) (err error) {
	if !IsValidOrderStatus(o.Status) {
		o.Status = OrderStatusNew
	}
	return
}
