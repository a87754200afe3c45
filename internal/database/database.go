package database

import (
	"log"
	"time"

	"medicore/config"
	"medicore/internal/domain"
	"medicore/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error), // Only log errors, not every SQL query
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Patient{},
		&models.Invoice{},
		&models.Payment{},
		&models.ControlNumber{},
		&models.InsuranceClaim{},
		&models.Notification{},
		&models.NotificationRead{},
		&models.InventoryItem{},
		&models.AuditLog{},
	)
}

// SeedAdmin creates the default admin account if no admin exists yet.
func SeedAdmin(db *gorm.DB) {
	var count int64
	db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count)
	if count > 0 {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("admin-change-me"), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[SEED] bcrypt: %v", err)
		return
	}
	admin := &models.User{
		Name:         "System Admin",
		Email:        "admin@medicore.local",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		CreatedAt:    time.Now(),
	}
	if err := db.Create(admin).Error; err != nil {
		log.Printf("[SEED] admin: %v", err)
		return
	}
	log.Printf("[SEED] created default admin admin@medicore.local")
}
