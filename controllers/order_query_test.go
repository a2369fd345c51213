package controllers

import (
	"net/http/httptest"
	"testing"
	"time"

	"barbershop-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedOrders(t *testing.T, db *gorm.DB) {
	t.Helper()

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	orders := []models.Order{
		{Name: "John Smith", Phone: "+79990001122", Comment: "fade please", Status: models.OrderStatusNew},
		{Name: "Ann Smithson", Phone: "+79990003344", Comment: "beard trim", Status: models.OrderStatusConfirmed},
		{Name: "Peter Brown", Phone: "+79995550000", Comment: "ask for smith", Status: models.OrderStatusCompleted},
		{Name: "Kate Green", Phone: "+79991112233", Comment: "color", Status: models.OrderStatusCancelled},
	}
	for i := range orders {
		orders[i].CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, db.Create(&orders[i]).Error)
	}
}

func listNames(t *testing.T, db *gorm.DB, p OrderListParams) []string {
	t.Helper()

	var orders []models.Order
	require.NoError(t, p.Apply(db).Find(&orders).Error)
	names := make([]string, 0, len(orders))
	for _, o := range orders {
		names = append(names, o.Name)
	}
	return names
}

func TestOrderList_TextFlagsUnionPerField(t *testing.T) {
	db := setupTestDB(t)
	seedOrders(t, db)

	tests := []struct {
		name   string
		params OrderListParams
		want   []string
	}{
		{
			name:   "name flag only",
			params: OrderListParams{Query: "smith", SearchByName: true, OrderByDate: "asc"},
			want:   []string{"John Smith", "Ann Smithson"},
		},
		{
			name:   "comment flag only",
			params: OrderListParams{Query: "smith", SearchByComment: true, OrderByDate: "asc"},
			want:   []string{"Peter Brown"},
		},
		{
			name:   "phone flag only",
			params: OrderListParams{Query: "999000", SearchByPhone: true, OrderByDate: "asc"},
			want:   []string{"John Smith", "Ann Smithson"},
		},
		{
			name: "name and comment union",
			params: OrderListParams{
				Query: "smith", SearchByName: true, SearchByComment: true, OrderByDate: "asc",
			},
			want: []string{"John Smith", "Ann Smithson", "Peter Brown"},
		},
		{
			name:   "case insensitive",
			params: OrderListParams{Query: "SMITH", SearchByName: true, OrderByDate: "asc"},
			want:   []string{"John Smith", "Ann Smithson"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, listNames(t, db, tt.params))
		})
	}
}

// A query with no field flags enabled filters nothing. The search form
// has always behaved this way and the listing preserves it.
func TestOrderList_QueryWithoutFlagsMatchesEverything(t *testing.T) {
	db := setupTestDB(t)
	seedOrders(t, db)

	got := listNames(t, db, OrderListParams{Query: "smith", OrderByDate: "asc"})
	assert.Len(t, got, 4)
}

func TestOrderList_StatusFlagsUnion(t *testing.T) {
	db := setupTestDB(t)
	seedOrders(t, db)

	tests := []struct {
		name   string
		params OrderListParams
		want   []string
	}{
		{
			name:   "single status",
			params: OrderListParams{StatusNew: true, OrderByDate: "asc"},
			want:   []string{"John Smith"},
		},
		{
			name:   "two statuses union",
			params: OrderListParams{StatusConfirmed: true, StatusCancelled: true, OrderByDate: "asc"},
			want:   []string{"Ann Smithson", "Kate Green"},
		},
		{
			name:   "no status flags matches everything",
			params: OrderListParams{OrderByDate: "asc"},
			want:   []string{"John Smith", "Ann Smithson", "Peter Brown", "Kate Green"},
		},
		{
			name: "all four statuses",
			params: OrderListParams{
				StatusNew: true, StatusConfirmed: true,
				StatusCompleted: true, StatusCancelled: true, OrderByDate: "asc",
			},
			want: []string{"John Smith", "Ann Smithson", "Peter Brown", "Kate Green"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, listNames(t, db, tt.params))
		})
	}
}

// Text group and status group combine with AND.
func TestOrderList_GroupsIntersect(t *testing.T) {
	db := setupTestDB(t)
	seedOrders(t, db)

	got := listNames(t, db, OrderListParams{
		Query:           "smith",
		SearchByName:    true,
		StatusConfirmed: true,
		StatusCancelled: true,
		OrderByDate:     "asc",
	})
	assert.Equal(t, []string{"Ann Smithson"}, got)
}

func TestOrderList_SortByCreationTime(t *testing.T) {
	db := setupTestDB(t)
	seedOrders(t, db)

	asc := listNames(t, db, OrderListParams{OrderByDate: "asc"})
	desc := listNames(t, db, OrderListParams{OrderByDate: "desc"})

	require.Len(t, asc, 4)
	assert.Equal(t, "John Smith", asc[0])
	assert.Equal(t, "Kate Green", asc[3])

	for i := range asc {
		assert.Equal(t, asc[i], desc[len(desc)-1-i])
	}
}

func TestParseOrderListParams_Defaults(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		url  string
		want OrderListParams
	}{
		{
			name: "no params",
			url:  "/api/orders",
			want: OrderListParams{OrderByDate: "desc"},
		},
		{
			name: "malformed booleans fall back to false",
			url:  "/api/orders?search_by_name=banana&status_new=12banana",
			want: OrderListParams{OrderByDate: "desc"},
		},
		{
			name: "malformed sort falls back to desc",
			url:  "/api/orders?order_by_date=sideways",
			want: OrderListParams{OrderByDate: "desc"},
		},
		{
			name: "full set",
			url:  "/api/orders?q=smith&search_by_name=true&status_confirmed=true&status_cancelled=1&order_by_date=asc",
			want: OrderListParams{
				Query:           "smith",
				SearchByName:    true,
				StatusConfirmed: true,
				StatusCancelled: true,
				OrderByDate:     "asc",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", tt.url, nil)
			assert.Equal(t, tt.want, ParseOrderListParams(c))
		})
	}
}
