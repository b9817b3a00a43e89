package database

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sangkips/pos-backoffice/internal/config"
	"github.com/sangkips/pos-backoffice/internal/domain/entity"
	"github.com/sangkips/pos-backoffice/internal/domain/enum"
	"github.com/sangkips/pos-backoffice/pkg/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)

	log.Info().Str("host", cfg.Host).Str("db", cfg.Name).Msg("connected to PostgreSQL")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Info().Msg("running database migrations")

	err := db.AutoMigrate(
		&entity.Tenant{},
		&entity.User{},

		&entity.Category{},
		&entity.Product{},

		&entity.Customer{},
		&entity.Employee{},
		&entity.AttendanceRecord{},

		&entity.Order{},
		&entity.OrderItem{},

		&entity.InvoiceSetting{},
		&entity.PrinterConfig{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info().Msg("database migrations completed")
	return nil
}

// SeedDefaultData makes sure a first store and its admin account exist.
// When no admin password is configured a random one is generated and logged once.
func SeedDefaultData(db *gorm.DB, cfg config.SeedConfig) error {
	slug := utils.Slugify(cfg.StoreName)
	if slug == "" {
		slug = "default"
	}

	var tenant entity.Tenant
	err := db.Where("slug = ?", slug).First(&tenant).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		tenant = entity.Tenant{Name: cfg.StoreName, Slug: slug}
		if err := db.Create(&tenant).Error; err != nil {
			return fmt.Errorf("create default tenant: %w", err)
		}
		log.Info().Str("tenant", tenant.Slug).Msg("created default store")
	case err != nil:
		return fmt.Errorf("load default tenant: %w", err)
	}

	var settings int64
	if err := db.Model(&entity.InvoiceSetting{}).Where("tenant_id = ?", tenant.ID).Count(&settings).Error; err != nil {
		return fmt.Errorf("count invoice settings: %w", err)
	}
	if settings == 0 {
		if err := db.Create(entity.DefaultInvoiceSetting(tenant.ID, tenant.Name)).Error; err != nil {
			return fmt.Errorf("create invoice settings: %w", err)
		}
	}

	if cfg.AdminEmail == "" {
		return nil
	}
	var admins int64
	if err := db.Model(&entity.User{}).Where("email = ?", cfg.AdminEmail).Count(&admins).Error; err != nil {
		return fmt.Errorf("look up admin: %w", err)
	}
	if admins > 0 {
		return nil
	}

	password := cfg.AdminPassword
	generated := password == ""
	if generated {
		password, err = randomPassword()
		if err != nil {
			return err
		}
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := entity.User{
		TenantID: tenant.ID,
		Name:     "Administrator",
		Email:    cfg.AdminEmail,
		Password: hash,
		Role:     enum.RoleAdmin,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	ev := log.Warn().Str("email", admin.Email)
	if generated {
		ev = ev.Str("password", password)
	}
	ev.Msg("created admin account, change its password after first login")
	return nil
}

func randomPassword() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate admin password: %w", err)
	}
	return hex.EncodeToString(b), nil
}
