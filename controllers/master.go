package controllers

import (
	"errors"
	"net/http"

	"barbershop-backend/config"
	"barbershop-backend/models"
	"barbershop-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateMasterInput defines the expected JSON structure for creating a master
type CreateMasterInput struct {
	FirstName  string      `json:"firstName" binding:"required"`
	LastName   string      `json:"lastName" binding:"required"`
	MiddleName string      `json:"middleName"`
	Phone      string      `json:"phone" binding:"required"`
	Email      string      `json:"email" binding:"omitempty,email"`
	PhotoURL   string      `json:"photoUrl"`
	ServiceIDs []uuid.UUID `json:"serviceIds"`
}

// UpdateMasterInput defines the expected JSON structure for updating a master
type UpdateMasterInput struct {
	FirstName  *string      `json:"firstName"`
	LastName   *string      `json:"lastName"`
	MiddleName *string      `json:"middleName"`
	Phone      *string      `json:"phone"`
	Email      *string      `json:"email"`
	PhotoURL   *string      `json:"photoUrl"`
	IsActive   *bool        `json:"isActive"`
	ServiceIDs *[]uuid.UUID `json:"serviceIds"`
}

// GetMasters returns active masters with their services, ordered the way
// the shop lists them: by last name, then first name.
func GetMasters(c *gin.Context) {
	var masters []models.Master
	if err := config.DB.Where("is_active = ?", true).
		Preload("Services").
		Order("last_name, first_name").
		Find(&masters).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve masters")
		return
	}

	c.JSON(http.StatusOK, masters)
}

// GetMaster retrieves a specific master by ID
func GetMaster(c *gin.Context) {
	masterUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid master ID format")
		return
	}

	var master models.Master
	if err := config.DB.Preload("Services").
		First(&master, "id = ?", masterUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Master not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, master)
}

// GetMasterServices returns the services a specific master offers.
// Used by the booking form to narrow the service choices.
func GetMasterServices(c *gin.Context) {
	masterUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid master ID format")
		return
	}

	var master models.Master
	if err := config.DB.Preload("Services").
		First(&master, "id = ?", masterUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Master not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, master.Services)
}

// CreateMaster creates a new master with an optional service assignment
func CreateMaster(c *gin.Context) {
	var input CreateMasterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	var masterServices []models.Service
	if len(input.ServiceIDs) > 0 {
		if err := config.DB.Find(&masterServices, "id IN ?", input.ServiceIDs).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		if len(masterServices) != len(input.ServiceIDs) {
			utils.RespondWithError(c, http.StatusBadRequest, "One or more services not found")
			return
		}
	}

	master := models.Master{
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		MiddleName: input.MiddleName,
		Phone:      utils.NormalizePhone(input.Phone),
		Email:      input.Email,
		PhotoURL:   input.PhotoURL,
		IsActive:   true,
		Services:   masterServices,
	}

	if err := config.DB.Create(&master).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create master")
		return
	}

	c.JSON(http.StatusCreated, master)
}

// UpdateMaster updates an existing master
func UpdateMaster(c *gin.Context) {
	masterUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid master ID format")
		return
	}

	var input UpdateMasterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var master models.Master
	if err := config.DB.First(&master, "id = ?", masterUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Master not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.FirstName != nil {
		master.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		master.LastName = *input.LastName
	}
	if input.MiddleName != nil {
		master.MiddleName = *input.MiddleName
	}
	if input.Phone != nil {
		if !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		master.Phone = utils.NormalizePhone(*input.Phone)
	}
	if input.Email != nil {
		master.Email = *input.Email
	}
	if input.PhotoURL != nil {
		master.PhotoURL = *input.PhotoURL
	}
	if input.IsActive != nil {
		master.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&master).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update master")
		return
	}

	if input.ServiceIDs != nil {
		var masterServices []models.Service
		if err := config.DB.Find(&masterServices, "id IN ?", *input.ServiceIDs).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		if len(masterServices) != len(*input.ServiceIDs) {
			utils.RespondWithError(c, http.StatusBadRequest, "One or more services not found")
			return
		}
		if err := config.DB.Model(&master).Association("Services").Replace(masterServices); err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update services")
			return
		}
	}

	c.JSON(http.StatusOK, master)
}

// DeleteMaster removes a master without orphaning dependents: orders and
// reviews that reference the master fall back to no master.
func DeleteMaster(c *gin.Context) {
	masterUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid master ID format")
		return
	}

	var master models.Master
	if err := config.DB.First(&master, "id = ?", masterUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Master not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Order{}).
			Where("master_id = ?", masterUUID).
			Update("master_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Review{}).
			Where("master_id = ?", masterUUID).
			Update("master_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&master).Association("Services").Clear(); err != nil {
			return err
		}
		return tx.Delete(&master).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete master")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Master deleted successfully"})
}
