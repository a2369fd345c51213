package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Master struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key"`

	FirstName  string `gorm:"not null"`
	LastName   string `gorm:"not null;index"`
	MiddleName string
	Phone      string `gorm:"not null"`
	Email      string
	PhotoURL   string
	IsActive   bool `gorm:"default:true"`

	Services []Service `gorm:"many2many:master_services"`

	gorm.Model
}

func (m *Master) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}

// FullName joins the name parts, skipping an empty middle name.
func (m *Master) FullName() string {
	parts := []string{m.FirstName}
	if m.MiddleName != "" {
		parts = append(parts, m.MiddleName)
	}
	parts = append(parts, m.LastName)
	return strings.Join(parts, " ")
}
