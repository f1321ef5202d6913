package config

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/kodzovi/eventbook/internal/helpers"
	"github.com/kodzovi/eventbook/internal/models"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
}

func LoadConfig() (*Config, error) {
	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
	}, nil
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := SetupSchema(db); err != nil {
		return nil, err
	}

	seedSuperuser(db)

	return db, nil
}

// SetupSchema registers the custom join tables and migrates every model. The
// tests run it against their own database.
func SetupSchema(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Event{}, "Participants", &models.Participation{}); err != nil {
		return err
	}
	if err := db.SetupJoinTable(&models.User{}, "Events", &models.Participation{}); err != nil {
		return err
	}
	if err := db.SetupJoinTable(&models.User{}, "FavouriteEvents", &models.Favourite{}); err != nil {
		return err
	}

	return db.AutoMigrate(
		&models.User{},
		&models.Organizer{},
		&models.Admin{},
		&models.Event{},
		&models.RevokedToken{},
	)
}

// seedSuperuser bootstraps the first superuser from the environment so the
// admin surface is reachable on a fresh database. No-op once one exists.
func seedSuperuser(db *gorm.DB) {
	email := os.Getenv("SUPERUSER_EMAIL")
	password := os.Getenv("SUPERUSER_PASSWORD")
	if email == "" || password == "" {
		return
	}

	var existing models.Admin
	if err := db.Where("role = ?", models.RoleSuperuser).First(&existing).Error; err == nil {
		return
	}

	hashedPassword, err := helpers.HashPassword(password)
	if err != nil {
		log.Printf("failed to seed superuser: %v", err)
		return
	}

	username := os.Getenv("SUPERUSER_USERNAME")
	if username == "" {
		username = "superuser"
	}

	admin := models.Admin{
		Username: username,
		Email:    email,
		Password: hashedPassword,
		Contacts: os.Getenv("SUPERUSER_CONTACTS"),
		Role:     models.RoleSuperuser,
		Active:   true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("failed to seed superuser: %v", err)
	}
}
