package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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
	if err := db.AutoMigrate(&Master{}, &Service{}, &Order{}, &Review{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestOrderStatus_DefaultsToNew(t *testing.T) {
	db := openTestDB(t)

	order := Order{Name: "John", Phone: "+79990001122"}
	require.NoError(t, db.Create(&order).Error)
	assert.Equal(t, OrderStatusNew, order.Status)
}

func TestOrderStatus_UnknownValueCollapsesToNew(t *testing.T) {
	db := openTestDB(t)

	order := Order{Name: "John", Phone: "+79990001122", Status: "teleported"}
	require.NoError(t, db.Create(&order).Error)
	assert.Equal(t, OrderStatusNew, order.Status)

	var loaded Order
	require.NoError(t, db.First(&loaded, "id = ?", order.ID).Error)
	assert.Equal(t, OrderStatusNew, loaded.Status)
}

func TestOrderStatus_ValidValuesKept(t *testing.T) {
	db := openTestDB(t)

	for _, status := range OrderStatuses {
		order := Order{Name: "John", Phone: "+79990001122", Status: status}
		require.NoError(t, db.Create(&order).Error)
		assert.Equal(t, status, order.Status)
	}
}

func TestReviewRating_OutOfRangeRejected(t *testing.T) {
	db := openTestDB(t)

	for _, rating := range []int{0, 6, -1} {
		review := Review{Text: "text", Rating: rating}
		assert.Error(t, db.Create(&review).Error, "rating %d", rating)
	}
}

func TestReview_DefaultsToUnchecked(t *testing.T) {
	db := openTestDB(t)

	review := Review{Text: "text", Rating: 5}
	require.NoError(t, db.Create(&review).Error)
	assert.Equal(t, ModerationUnchecked, review.ModerationStatus)
	assert.False(t, review.IsPublished)
}

func TestMasterFullName(t *testing.T) {
	withMiddle := Master{FirstName: "Ivan", MiddleName: "Petrovich", LastName: "Sidorov"}
	assert.Equal(t, "Ivan Petrovich Sidorov", withMiddle.FullName())

	noMiddle := Master{FirstName: "Ivan", LastName: "Sidorov"}
	assert.Equal(t, "Ivan Sidorov", noMiddle.FullName())
}
