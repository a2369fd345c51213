// services/sweeper.go
package services

import (
	"log"
	"time"

	"barbershop-backend/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// ModerationSweeper bounds how long a review may sit in the in-progress
// moderation state. Reviews stuck past the max dwell are forced to
// rejected: unscreened text is never auto-approved, and staff can still
// publish manually after reading it.
type ModerationSweeper struct {
	db       *gorm.DB
	maxDwell time.Duration
}

func NewModerationSweeper(db *gorm.DB, maxDwell time.Duration) *ModerationSweeper {
	return &ModerationSweeper{db: db, maxDwell: maxDwell}
}

func (s *ModerationSweeper) StartScheduler() *cron.Cron {
	c := cron.New()

	c.AddFunc("@every 1m", func() {
		s.Sweep(time.Now())
	})

	c.Start()
	log.Println("Moderation sweeper started")
	return c
}

// Sweep forces every review that has been in progress longer than the
// max dwell into the rejected state. Returns the number of rows swept.
func (s *ModerationSweeper) Sweep(now time.Time) int64 {
	cutoff := now.Add(-s.maxDwell)

	result := s.db.Model(&models.Review{}).
		Where("moderation_status = ? AND updated_at < ?", models.ModerationInProgress, cutoff).
		Update("moderation_status", models.ModerationRejected)

	if result.Error != nil {
		log.Printf("[Sweeper] failed to sweep stuck reviews: %v", result.Error)
		return 0
	}
	if result.RowsAffected > 0 {
		log.Printf("[Sweeper] forced %d stuck reviews to rejected", result.RowsAffected)
	}
	return result.RowsAffected
}
