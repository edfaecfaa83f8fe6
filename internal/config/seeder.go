package config

import (
	"log"

	"expensehub/internal/adapters/persistence/models"
	"expensehub/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}
	if err := s.seedCategories(); err != nil {
		return err
	}
	if err := s.seedDefaultPolicy(); err != nil {
		return err
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds default admin user
// This is for development/testing only
// In production, create admin through secure process
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", "admin").Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		EmployeeNo: "EMP0001",
		Name:       "System Admin",
		Email:      "admin@expensehub.local",
		Password:   hashedPassword,
		Role:       "admin",
		Department: "Finance",
		IsActive:   true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Email)
	return nil
}

// seedCategories seeds starter expense categories
func (s *Seeder) seedCategories() error {
	categories := []models.Category{
		{
			Name:           "Travel",
			Description:    "Flights, trains, taxis and lodging",
			BudgetLimit:    100000,
			RequireReceipt: true,
			IsActive:       true,
		},
		{
			Name:           "Meals",
			Description:    "Client and team meals",
			BudgetLimit:    20000,
			RequireReceipt: true,
			IsActive:       true,
		},
		{
			Name:           "Office Supplies",
			Description:    "Stationery and small equipment",
			BudgetLimit:    15000,
			RequireReceipt: false,
			IsActive:       true,
		},
		{
			Name:           "Software",
			Description:    "Licenses and subscriptions",
			BudgetLimit:    50000,
			RequireReceipt: true,
			IsActive:       true,
		},
	}

	for _, cat := range categories {
		var existing models.Category
		if err := s.db.Where("name = ?", cat.Name).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := s.db.Create(&cat).Error; err != nil {
					return err
				}
				log.Printf("   Created category: %s", cat.Name)
			}
		}
	}
	return nil
}

// seedDefaultPolicy seeds a global spending policy applied to every category
func (s *Seeder) seedDefaultPolicy() error {
	var count int64
	s.db.Model(&models.Policy{}).Count(&count)
	if count > 0 {
		return nil
	}

	maxAmount := 200000.0
	policy := &models.Policy{
		PolicyID:                "POL001",
		Name:                    "General spending policy",
		Description:             "Company-wide default limits",
		MaxAmount:               &maxAmount,
		RequiresReceipt:         true,
		RequiresApprovalAbove:   5000,
		RequiresManagerApproval: true,
		IsActive:                true,
	}

	if err := s.db.Create(policy).Error; err != nil {
		return err
	}

	log.Printf("   Created policy: %s", policy.Name)
	return nil
}
