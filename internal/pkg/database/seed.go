package database

import (
	"log"

	"gorm.io/gorm"

	"github.com/aigatehq/aigate/app/models"
	"github.com/aigatehq/aigate/internal/pkg/env"
	"github.com/aigatehq/aigate/internal/pkg/permissions"
)

// Seed brings the database to a usable baseline: the free plan, the
// default super-admin from env, the permission registry, and the three
// platform config keys. Every step is idempotent.
func Seed(db *gorm.DB) error {
	freePlan := models.Subscription{
		Name:          models.PLAN_FREE,
		MonthlyCost:   0,
		AnnualCost:    0,
		MonthlyCredit: 100,
	}
	if err := db.Where("name = ?", models.PLAN_FREE).
		FirstOrCreate(&freePlan).Error; err != nil {
		return err
	}

	admin, err := seedSuperAdmin(db)
	if err != nil {
		return err
	}

	for _, name := range permissions.All() {
		perm := models.Permission{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&perm).Error; err != nil {
			return err
		}
	}

	configs := []models.AdminConfig{
		{
			Name:        models.CONFIG_CREDIT_MODE,
			Value:       models.CREDIT_MODE_BALANCE,
			Description: "Which account column counts as spendable credits",
			Type:        "string",
			AddedBy:     admin.ID,
		},
		{
			Name:        models.CONFIG_DEDUCT_OWN_KEY,
			Value:       "false",
			Description: "Whether own-key chat sends are metered",
			Type:        "boolean",
			AddedBy:     admin.ID,
		},
		{
			Name:        models.CONFIG_USER_USE_OWN_API_KEY,
			Value:       "true",
			Description: "Whether the own-key chat route is open",
			Type:        "boolean",
			AddedBy:     admin.ID,
		},
	}
	for _, cfg := range configs {
		entry := cfg
		if err := db.Where("name = ?", cfg.Name).FirstOrCreate(&entry).Error; err != nil {
			return err
		}
	}
	return nil
}

// seedSuperAdmin creates the bootstrap super-admin from env if no admin
// with that email exists yet.
func seedSuperAdmin(db *gorm.DB) (*models.Admin, error) {
	email := env.GetEnv("ADMIN_EMAIL", "admin@localhost")
	var admin models.Admin
	err := db.Where("email = ?", email).First(&admin).Error
	if err == nil {
		return &admin, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hash, err := models.HashPassword(env.GetEnv("ADMIN_PASSWORD", "changeme"))
	if err != nil {
		return nil, err
	}
	admin = models.Admin{
		Name:     env.GetEnv("ADMIN_NAME", "Administrator"),
		Email:    email,
		Password: hash,
		UserType: models.SUPER_ADMIN_TYPE,
	}
	if err := db.Create(&admin).Error; err != nil {
		return nil, err
	}
	log.Printf("Seeded super-admin %s", email)
	return &admin, nil
}
