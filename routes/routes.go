package routes

import (
	"os"
	"strings"
	"time"

	"spabliss-backend/config"
	"spabliss-backend/controllers"
	"spabliss-backend/models"
	"spabliss-backend/utils"

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

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		adminOnly := utils.RequireRole(models.RoleAdmin)

		// Customer routes
		customers := api.Group("/customers")
		{
			customers.POST("", controllers.CreateCustomer)
			customers.GET("", controllers.GetCustomers)
			customers.GET("/search", controllers.SearchCustomers)
			customers.GET("/:id", controllers.GetCustomer)
			customers.PUT("/update/:id", adminOnly, controllers.UpdateCustomer)
			customers.PUT("/renew/:id", controllers.RenewCustomer)
			customers.DELETE("/delete/:id", adminOnly, controllers.DeleteCustomer)
		}

		// Subscription plan routes
		subscriptions := api.Group("/subscriptions")
		{
			subscriptions.POST("/add", adminOnly, controllers.CreateSubscription)
			subscriptions.GET("", controllers.GetSubscriptions)
			subscriptions.GET("/search", controllers.SearchSubscriptions)
			subscriptions.PUT("/update/:id", adminOnly, controllers.UpdateSubscription)
			subscriptions.DELETE("/delete/:id", adminOnly, controllers.DeleteSubscription)
		}

		// Massage catalog routes
		massages := api.Group("/massages")
		{
			massages.POST("", controllers.CreateMassage)
			massages.GET("", controllers.GetMassages)
			massages.GET("/search", controllers.SearchMassages)
			massages.PUT("/update/:id", controllers.UpdateMassage)
			massages.DELETE("/:id", controllers.DeleteMassage)
		}

		// Invoice routes
		invoices := api.Group("/invoices")
		{
			invoices.GET("", controllers.GetInvoices)
			invoices.GET("/search", controllers.SearchInvoices)
			invoices.POST("/add", controllers.AddInvoice)
			invoices.POST("/use", controllers.UseService)
			invoices.PUT("/update/:id", controllers.UpdateInvoice)
			invoices.DELETE("/:id", controllers.DeleteInvoice)
		}

		// Dashboard
		api.GET("/dashboard", config.CacheResponse(time.Minute), controllers.GetDashboard)
	}

	return r
}
