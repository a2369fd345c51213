package controllers

import (
	"errors"
	"net/http"
	"time"

	"barbershop-backend/config"
	"barbershop-backend/models"
	"barbershop-backend/services"
	"barbershop-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateOrderInput defines the expected JSON structure for the public
// booking form
type CreateOrderInput struct {
	Name          string      `json:"name" binding:"required"`
	Phone         string      `json:"phone" binding:"required"`
	Comment       string      `json:"comment"`
	MasterID      *uuid.UUID  `json:"masterId"`
	ServiceIDs    []uuid.UUID `json:"serviceIds"`
	AppointmentAt *time.Time  `json:"appointmentAt"`
}

// UpdateOrderInput defines the expected JSON structure for staff edits
type UpdateOrderInput struct {
	Name          *string      `json:"name"`
	Phone         *string      `json:"phone"`
	Comment       *string      `json:"comment"`
	MasterID      *uuid.UUID   `json:"masterId"`
	ServiceIDs    *[]uuid.UUID `json:"serviceIds"`
	AppointmentAt *time.Time   `json:"appointmentAt"`
	Status        *string      `json:"status"`
}

// CreateOrder handles a public booking submission. The order row, its
// service associations and the staff-notification event are written in
// one transaction; nothing downstream of the commit can fail the booking.
func CreateOrder(c *gin.Context) {
	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
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

	var orderServices []models.Service
	if len(input.ServiceIDs) > 0 {
		if err := config.DB.Find(&orderServices, "id IN ?", input.ServiceIDs).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		if len(orderServices) != len(input.ServiceIDs) {
			utils.RespondWithError(c, http.StatusBadRequest, "One or more services not found")
			return
		}
	}

	order := models.Order{
		Name:          input.Name,
		Phone:         utils.NormalizePhone(input.Phone),
		Comment:       input.Comment,
		MasterID:      input.MasterID,
		Services:      orderServices,
		Status:        models.OrderStatusNew,
		AppointmentAt: input.AppointmentAt,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		// Notify staff only when the booking carried services; a bare
		// order row is not a complete booking yet.
		if len(orderServices) > 0 {
			return services.AppendEvent(tx, models.EventOrderCreated, order.ID, models.JSONB{
				"name":  order.Name,
				"phone": order.Phone,
			})
		}
		return nil
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create order")
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GetOrders retrieves orders for staff, filtered and sorted by the
// optional search parameters
func GetOrders(c *gin.Context) {
	params := ParseOrderListParams(c)

	var orders []models.Order
	if err := params.Apply(config.DB).
		Preload("Master").
		Preload("Services").
		Find(&orders).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetOrder retrieves a specific order by ID
func GetOrder(c *gin.Context) {
	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var order models.Order
	if err := config.DB.Preload("Master").Preload("Services").
		First(&order, "id = ?", orderUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, order)
}

// UpdateOrder updates an existing order. A transition into the confirmed
// status queues a confirmation message to the client.
func UpdateOrder(c *gin.Context) {
	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var input UpdateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var order models.Order
	if err := config.DB.Preload("Services").First(&order, "id = ?", orderUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		order.Name = *input.Name
	}
	if input.Phone != nil {
		if !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		order.Phone = utils.NormalizePhone(*input.Phone)
	}
	if input.Comment != nil {
		order.Comment = *input.Comment
	}
	if input.MasterID != nil {
		var master models.Master
		if err := config.DB.First(&master, "id = ?", *input.MasterID).Error; err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Master not found")
			return
		}
		order.MasterID = input.MasterID
	}
	if input.AppointmentAt != nil {
		order.AppointmentAt = input.AppointmentAt
	}

	confirmed := false
	if input.Status != nil {
		if !models.IsValidOrderStatus(*input.Status) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid order status")
			return
		}
		confirmed = *input.Status == models.OrderStatusConfirmed &&
			order.Status != models.OrderStatusConfirmed
		order.Status = *input.Status
	}

	var updateServices []models.Service
	if input.ServiceIDs != nil {
		if err := config.DB.Find(&updateServices, "id IN ?", *input.ServiceIDs).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		if len(updateServices) != len(*input.ServiceIDs) {
			utils.RespondWithError(c, http.StatusBadRequest, "One or more services not found")
			return
		}
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&order).Error; err != nil {
			return err
		}
		if input.ServiceIDs != nil {
			if err := tx.Model(&order).Association("Services").Replace(updateServices); err != nil {
				return err
			}
		}
		if confirmed {
			return services.AppendEvent(tx, models.EventOrderConfirmed, order.ID, models.JSONB{
				"phone": order.Phone,
			})
		}
		return nil
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update order")
		return
	}

	c.JSON(http.StatusOK, order)
}
