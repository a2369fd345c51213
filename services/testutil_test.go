package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"barbershop-backend/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Master{},
		&models.Service{},
		&models.Order{},
		&models.Review{},
		&models.OutboxEvent{},
		&models.NotificationLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// --- Mock senders and clients ---

type recordingTelegram struct {
	messages []string
	err      error
}

func (r *recordingTelegram) Send(ctx context.Context, text string) error {
	if r.err != nil {
		return r.err
	}
	r.messages = append(r.messages, text)
	return nil
}

type recordingSMS struct {
	to     []string
	bodies []string
	err    error
}

func (r *recordingSMS) Send(ctx context.Context, to, body string) error {
	if r.err != nil {
		return r.err
	}
	r.to = append(r.to, to)
	r.bodies = append(r.bodies, body)
	return nil
}

type stubModeration struct {
	scores   map[string]float64
	err      error
	calls    int
	observer func()
}

func (s *stubModeration) Classify(ctx context.Context, text string) (map[string]float64, error) {
	s.calls++
	if s.observer != nil {
		s.observer()
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.scores, nil
}

type stubPublisher struct {
	published []string
	err       error
}

func (p *stubPublisher) Publish(routingKey string, payload any) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, routingKey)
	return nil
}

var errUnreachable = errors.New("endpoint unreachable")

func testNotifierConfig() NotifierConfig {
	return NotifierConfig{
		AdminBaseURL: "http://localhost:8080",
		MaxAttempts:  3,
		RetryDelay:   0,
		CallTimeout:  time.Second,
	}
}
