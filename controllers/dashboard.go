package controllers

import (
	"net/http"
	"time"

	"barbershop-backend/config"
	"barbershop-backend/models"

	"github.com/gin-gonic/gin"
)

type DashboardOverview struct {
	OrdersByStatus map[string]int64 `json:"ordersByStatus"`
	OrdersToday    int64            `json:"ordersToday"`
	PendingReviews int64            `json:"pendingReviews"`
	TotalMasters   int64            `json:"totalMasters"`
	TotalServices  int64            `json:"totalServices"`
}

// GetDashboardOverview returns the staff landing numbers: order counts
// per status, today's intake, and reviews awaiting a moderation verdict.
func GetDashboardOverview(c *gin.Context) {
	overview := DashboardOverview{
		OrdersByStatus: make(map[string]int64),
	}

	for _, status := range models.OrderStatuses {
		var count int64
		config.DB.Model(&models.Order{}).Where("status = ?", status).Count(&count)
		overview.OrdersByStatus[status] = count
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	config.DB.Model(&models.Order{}).
		Where("created_at >= ?", startOfDay).
		Count(&overview.OrdersToday)

	config.DB.Model(&models.Review{}).
		Where("moderation_status IN ?", []string{models.ModerationUnchecked, models.ModerationInProgress}).
		Count(&overview.PendingReviews)

	config.DB.Model(&models.Master{}).Where("is_active = ?", true).Count(&overview.TotalMasters)
	config.DB.Model(&models.Service{}).Count(&overview.TotalServices)

	c.JSON(http.StatusOK, overview)
}
