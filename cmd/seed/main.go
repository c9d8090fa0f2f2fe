package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"carebook/internal/appointments"
	"carebook/internal/shared/config"
	"carebook/internal/shared/database"
	"carebook/internal/users"

	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting CareBook Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order (respecting foreign key constraints)
func (s *Seeder) CleanDatabase() error {
	tables := []string{"appointments", "users"}
	for _, table := range tables {
		if err := s.db.PostgreSQL.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

// SeedAll creates one demo account per role plus a sample appointment
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	demoUsers := []struct {
		firstName string
		lastName  string
		email     string
		phone     string
		role      users.Role
	}{
		{"Clara", "Ochieng", "client@carebook.dev", "+15550100", users.RoleClient},
		{"Nadia", "Ferreira", "nurse@carebook.dev", "+15550101", users.RoleNurse},
		{"Amir", "Haddad", "admin@carebook.dev", "+15550102", users.RoleAdmin},
	}

	created := make(map[users.Role]*users.User)
	for _, u := range demoUsers {
		hashed, err := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		user := &users.User{
			FirstName:         u.firstName,
			LastName:          u.lastName,
			Email:             u.email,
			Phone:             u.phone,
			Password:          string(hashed),
			Role:              u.role,
			Status:            users.StatusActive,
			PreferredLanguage: "en",
			EmailVerified:     true,
		}
		if err := s.db.PostgreSQL.WithContext(ctx).Create(user).Error; err != nil {
			return fmt.Errorf("failed to create %s: %w", u.email, err)
		}
		created[u.role] = user
		fmt.Printf("  👤 %s (%s)\n", u.email, u.role)
	}

	appt := &appointments.Appointment{
		ClientID:    created[users.RoleClient].ID,
		NurseID:     created[users.RoleNurse].ID,
		ScheduledAt: time.Now().Add(48 * time.Hour).Truncate(time.Hour),
		DurationMin: 45,
		VisitType:   appointments.VisitTypeHome,
		Status:      appointments.StatusScheduled,
		Notes:       "Post-surgery wound dressing change",
	}
	if err := s.db.PostgreSQL.WithContext(ctx).Create(appt).Error; err != nil {
		return fmt.Errorf("failed to create sample appointment: %w", err)
	}
	fmt.Printf("  📅 appointment %s\n", appt.ID)

	return nil
}
