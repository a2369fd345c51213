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

type AddEmployeeInput struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=owner staff"`
}

type UpdateEmployeeInput struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Role     *string `json:"role" binding:"omitempty,oneof=owner staff"`
	IsActive *bool   `json:"isActive"`
}

// GetEmployees lists staff accounts
func GetEmployees(c *gin.Context) {
	var employees []models.User
	if err := config.DB.Order("name").Find(&employees).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve employees")
		return
	}

	out := make([]gin.H, 0, len(employees))
	for _, e := range employees {
		out = append(out, gin.H{
			"id":       e.ID,
			"email":    e.Email,
			"name":     e.Name,
			"phone":    e.Phone,
			"role":     e.Role,
			"isActive": e.IsActive,
		})
	}
	c.JSON(http.StatusOK, out)
}

// AddEmployee creates a staff account
func AddEmployee(c *gin.Context) {
	var input AddEmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var existing models.User
	result := config.DB.Where("email = ?", input.Email).First(&existing)
	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email already registered")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	role := input.Role
	if role == "" {
		role = "staff"
	}

	employee := models.User{
		Email:    input.Email,
		Name:     input.Name,
		Phone:    input.Phone,
		Password: input.Password,
		Role:     role,
		IsActive: true,
	}

	if err := config.DB.Create(&employee).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create employee")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":    employee.ID,
		"email": employee.Email,
		"name":  employee.Name,
		"role":  employee.Role,
	})
}

// UpdateEmployee edits a staff account
func UpdateEmployee(c *gin.Context) {
	employeeUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid employee ID format")
		return
	}

	var input UpdateEmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var employee models.User
	if err := config.DB.First(&employee, "id = ?", employeeUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Employee not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		employee.Name = *input.Name
	}
	if input.Phone != nil {
		employee.Phone = *input.Phone
	}
	if input.Role != nil {
		employee.Role = *input.Role
	}
	if input.IsActive != nil {
		employee.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&employee).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update employee")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       employee.ID,
		"email":    employee.Email,
		"name":     employee.Name,
		"role":     employee.Role,
		"isActive": employee.IsActive,
	})
}

// DeleteEmployee soft deletes a staff account
func DeleteEmployee(c *gin.Context) {
	employeeUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid employee ID format")
		return
	}

	result := config.DB.Where("id = ?", employeeUUID).Delete(&models.User{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete employee")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Employee not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted successfully"})
}
