package models

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ModerationUnchecked  = "unchecked"
	ModerationInProgress = "in_progress"
	ModerationApproved   = "approved"
	ModerationRejected   = "rejected"
)

type Review struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key"`

	Text       string `gorm:"type:text;not null"`
	ClientName string

	MasterID *uuid.UUID `gorm:"type:uuid;index"`
	Master   *Master    `gorm:"foreignKey:MasterID"`

	PhotoURL string
	Rating   int `gorm:"not null;check:rating >= 1 AND rating <= 5"`

	// Publication is staff-controlled and independent of moderation.
	IsPublished      bool   `gorm:"default:false"`
	ModerationStatus string `gorm:"type:varchar(20);default:'unchecked';index"`

	gorm.Model
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.ModerationStatus == "" {
		r.ModerationStatus = ModerationUnchecked
	}
	if r.Rating < 1 || r.Rating > 5 {
		return errors.New("rating must be between 1 and 5")
	}
	return
}
