package controllers

import (
	"strconv"
	"strings"

	"barbershop-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// OrderListParams captures the optional search/filter/sort parameters of
// the staff order listing. Absent or malformed values fall back to their
// defaults; parsing never fails.
type OrderListParams struct {
	Query string

	SearchByPhone   bool
	SearchByName    bool
	SearchByComment bool

	StatusNew       bool
	StatusConfirmed bool
	StatusCompleted bool
	StatusCancelled bool

	OrderByDate string // "asc" or "desc"
}

// ParseOrderListParams reads the listing parameters from the request.
// Booleans default to false on any unparsable value.
func ParseOrderListParams(c *gin.Context) OrderListParams {
	boolParam := func(name string) bool {
		v, err := strconv.ParseBool(c.DefaultQuery(name, "false"))
		if err != nil {
			return false
		}
		return v
	}

	p := OrderListParams{
		Query:           strings.TrimSpace(c.Query("q")),
		SearchByPhone:   boolParam("search_by_phone"),
		SearchByName:    boolParam("search_by_name"),
		SearchByComment: boolParam("search_by_comment"),
		StatusNew:       boolParam("status_new"),
		StatusConfirmed: boolParam("status_confirmed"),
		StatusCompleted: boolParam("status_completed"),
		StatusCancelled: boolParam("status_cancelled"),
		OrderByDate:     c.DefaultQuery("order_by_date", "desc"),
	}
	if p.OrderByDate != "asc" && p.OrderByDate != "desc" {
		p.OrderByDate = "desc"
	}
	return p
}

func (p OrderListParams) statuses() []string {
	var statuses []string
	if p.StatusNew {
		statuses = append(statuses, models.OrderStatusNew)
	}
	if p.StatusConfirmed {
		statuses = append(statuses, models.OrderStatusConfirmed)
	}
	if p.StatusCompleted {
		statuses = append(statuses, models.OrderStatusCompleted)
	}
	if p.StatusCancelled {
		statuses = append(statuses, models.OrderStatusCancelled)
	}
	return statuses
}

// Apply builds the filtered, sorted order query. The text group ORs the
// enabled per-field substring matches, the status group ORs the enabled
// statuses, and the two groups AND together. An empty group filters
// nothing. A query string with no field flags enabled also filters
// nothing - that mirrors the behavior the search form always had.
func (p OrderListParams) Apply(db *gorm.DB) *gorm.DB {
	q := db.Model(&models.Order{})

	if p.Query != "" {
		pattern := "%" + strings.ToLower(p.Query) + "%"
		var conds []string
		var args []interface{}
		if p.SearchByPhone {
			conds = append(conds, "LOWER(phone) LIKE ?")
			args = append(args, pattern)
		}
		if p.SearchByName {
			conds = append(conds, "LOWER(name) LIKE ?")
			args = append(args, pattern)
		}
		if p.SearchByComment {
			conds = append(conds, "LOWER(comment) LIKE ?")
			args = append(args, pattern)
		}
		if len(conds) > 0 {
			q = q.Where(strings.Join(conds, " OR "), args...)
		}
	}

	if statuses := p.statuses(); len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}

	if p.OrderByDate == "asc" {
		q = q.Order("created_at ASC")
	} else {
		q = q.Order("created_at DESC")
	}

	return q
}
