// controllers/review.go
package controllers

import (
	"errors"
	"net/http"

	"barbershop-backend/config"
	"barbershop-backend/models"
	"barbershop-backend/services"
	"barbershop-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateReviewInput defines the expected JSON structure for a public
// review submission
type CreateReviewInput struct {
	Text       string     `json:"text" binding:"required"`
	ClientName string     `json:"clientName"`
	MasterID   *uuid.UUID `json:"masterId"`
	PhotoURL   string     `json:"photoUrl"`
	Rating     int        `json:"rating" binding:"required,min=1,max=5"`
}

// CreateReview persists a public review in the unchecked state and
// queues it for moderation. The submitter never waits on the
// classification endpoint.
func CreateReview(c *gin.Context) {
	var input CreateReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.MasterID != nil {
		var master models.Master
		if err := config.DB.First(&master, "id = ?", *input.MasterID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Master not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
	}

	review := models.Review{
		Text:             input.Text,
		ClientName:       input.ClientName,
		MasterID:         input.MasterID,
		PhotoURL:         input.PhotoURL,
		Rating:           input.Rating,
		IsPublished:      false,
		ModerationStatus: models.ModerationUnchecked,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return services.AppendEvent(tx, models.EventReviewCreated, review.ID, models.JSONB{})
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create review")
		return
	}

	c.JSON(http.StatusCreated, review)
}

// GetPublishedReviews returns reviews visible on the public site:
// approved by moderation AND published by staff.
func GetPublishedReviews(c *gin.Context) {
	var reviews []models.Review
	if err := config.DB.
		Where("moderation_status = ? AND is_published = ?", models.ModerationApproved, true).
		Preload("Master").
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve reviews")
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// GetAllReviews returns every review for staff, optionally filtered by
// moderation status.
func GetAllReviews(c *gin.Context) {
	query := config.DB.Preload("Master").Order("created_at DESC")
	if status := c.Query("moderation_status"); status != "" {
		query = query.Where("moderation_status = ?", status)
	}

	var reviews []models.Review
	if err := query.Find(&reviews).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve reviews")
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// PublishReviewInput toggles a review's visibility flag
type PublishReviewInput struct {
	IsPublished *bool `json:"isPublished" binding:"required"`
}

// PublishReview toggles publication. Independent of moderation status;
// staff may pull an approved review or push one through by hand.
func PublishReview(c *gin.Context) {
	reviewUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid review ID format")
		return
	}

	var input PublishReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var review models.Review
	if err := config.DB.First(&review, "id = ?", reviewUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Review not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	review.IsPublished = *input.IsPublished
	if err := config.DB.Save(&review).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update review")
		return
	}

	c.JSON(http.StatusOK, review)
}
