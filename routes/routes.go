package routes

import (
	"os"
	"strings"

	"barbershop-backend/config"
	"barbershop-backend/controllers"
	"barbershop-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	origins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	// Public site endpoints: booking, reviews, catalog
	public := r.Group("/api")
	{
		public.GET("/masters", controllers.GetMasters)
		public.GET("/masters/:id", controllers.GetMaster)
		public.GET("/masters/:id/services", controllers.GetMasterServices)
		public.GET("/services", controllers.GetServices)
		public.GET("/services/:id", controllers.GetService)
		public.GET("/reviews", controllers.GetPublishedReviews)

		public.POST("/orders", controllers.CreateOrder)
		public.POST("/reviews", controllers.CreateReview)
	}

	// Staff endpoints
	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		orders := api.Group("/orders")
		{
			orders.GET("", controllers.GetOrders)
			orders.GET("/:id", controllers.GetOrder)
			orders.PUT("/:id", controllers.UpdateOrder)
		}

		masters := api.Group("/masters")
		{
			masters.POST("", controllers.CreateMaster)
			masters.PUT("/:id", controllers.UpdateMaster)
			masters.DELETE("/:id", controllers.DeleteMaster)
		}

		catalog := api.Group("/services")
		{
			catalog.POST("", controllers.CreateService)
			catalog.PUT("/:id", controllers.UpdateService)
			catalog.DELETE("/:id", controllers.DeleteService)
		}

		reviews := api.Group("/reviews")
		{
			reviews.GET("/all", controllers.GetAllReviews)
			reviews.PUT("/:id/publish", controllers.PublishReview)
		}

		api.GET("/dashboard", controllers.GetDashboardOverview)

		employees := api.Group("/employees", utils.RequireRole("owner"))
		{
			employees.GET("", controllers.GetEmployees)          // GET /api/employees
			employees.POST("", controllers.AddEmployee)          // POST /api/employees
			employees.PUT("/:id", controllers.UpdateEmployee)    // PUT /api/employees/:id
			employees.DELETE("/:id", controllers.DeleteEmployee) // DELETE /api/employees/:id
		}
	}

	return r
}
