package main

import (
	"fmt"
	"os"

	"spabliss-backend/config"
	"spabliss-backend/models"
	"spabliss-backend/routes"
	"spabliss-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found")
	}
	config.ConnectDB()
	config.ConnectRedis()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Subscription{},
		&models.Massage{},
		&models.Invoice{},
		&models.InvoiceSequence{},
		&models.ReminderLog{},
	)
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	expiry := services.NewExpiryService(config.DB)
	expiry.StartScheduler()

	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
