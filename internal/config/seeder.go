package config

import (
	"log"

	"lexora-lms/internal/adapters/persistence/models"
	"lexora-lms/internal/pkg/password"

	"gorm.io/gorm"
)

// SeedAdminUser creates the initial LIBRARIAN account if no librarian exists
// yet. With no SEED_ADMIN_PASSWORD set, seeding is skipped so a production
// deployment never ships a default credential.
func SeedAdminUser(db *gorm.DB, cfg *Config) error {
	if cfg.Seed.AdminPassword == "" {
		log.Println("⚠️ SEED_ADMIN_PASSWORD not set, skipping librarian seed")
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleLibrarian).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := password.Hash(cfg.Seed.AdminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		Username: cfg.Seed.AdminUsername,
		Email:    cfg.Seed.AdminEmail,
		Password: hashed,
		Role:     models.RoleLibrarian,
		IsActive: true,
	}

	if err := db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded librarian account: %s", admin.Username)
	return nil
}
