package config

import (
	"os"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	dsn := os.Getenv("DB_URL")

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		// Invoice->Customer and Customer->Subscription are weak references
		// that may dangle, so no FK constraints are created.
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect database")
	}

	DB = db
}
