package services

import (
	"testing"
	"time"

	"barbershop-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAppendEvent_RollsBackWithTransaction(t *testing.T) {
	db := openTestDB(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := AppendEvent(tx, models.EventOrderCreated, uuid.New(), models.JSONB{}); err != nil {
			return err
		}
		return gorm.ErrInvalidData // force rollback
	})
	require.Error(t, err)

	var count int64
	db.Model(&models.OutboxEvent{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestDispatchPending_PublishesAndMarksDispatched(t *testing.T) {
	db := openTestDB(t)
	pub := &stubPublisher{}
	d := NewOutboxDispatcher(db, pub, time.Second, 3)

	require.NoError(t, AppendEvent(db, models.EventOrderCreated, uuid.New(), models.JSONB{}))
	require.NoError(t, AppendEvent(db, models.EventReviewCreated, uuid.New(), models.JSONB{}))

	assert.Equal(t, 2, d.DispatchPending())
	assert.Equal(t, []string{models.EventOrderCreated, models.EventReviewCreated}, pub.published)

	var pending int64
	db.Model(&models.OutboxEvent{}).Where("status = ?", models.OutboxPending).Count(&pending)
	assert.EqualValues(t, 0, pending)

	var event models.OutboxEvent
	require.NoError(t, db.First(&event).Error)
	assert.Equal(t, models.OutboxDispatched, event.Status)
	assert.NotNil(t, event.DispatchedAt)

	// Nothing left to dispatch on the next poll.
	assert.Equal(t, 0, d.DispatchPending())
}

func TestDispatchPending_BrokerFailureLeavesEventPending(t *testing.T) {
	db := openTestDB(t)
	pub := &stubPublisher{err: errUnreachable}
	d := NewOutboxDispatcher(db, pub, time.Second, 3)

	require.NoError(t, AppendEvent(db, models.EventOrderCreated, uuid.New(), models.JSONB{}))

	assert.Equal(t, 0, d.DispatchPending())

	var event models.OutboxEvent
	require.NoError(t, db.First(&event).Error)
	assert.Equal(t, models.OutboxPending, event.Status)
	assert.Equal(t, 1, event.Attempts)
	assert.Contains(t, event.LastError, "unreachable")
}

func TestDispatchPending_ParksEventAfterMaxAttempts(t *testing.T) {
	db := openTestDB(t)
	pub := &stubPublisher{err: errUnreachable}
	d := NewOutboxDispatcher(db, pub, time.Second, 3)

	require.NoError(t, AppendEvent(db, models.EventOrderCreated, uuid.New(), models.JSONB{}))

	for i := 0; i < 3; i++ {
		d.DispatchPending()
	}

	var event models.OutboxEvent
	require.NoError(t, db.First(&event).Error)
	assert.Equal(t, models.OutboxFailed, event.Status)
	assert.Equal(t, 3, event.Attempts)

	// Parked events are no longer polled.
	pub.err = nil
	assert.Equal(t, 0, d.DispatchPending())
}
