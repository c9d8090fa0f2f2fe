package database

import (
	"carebook/internal/appointments"
	"carebook/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&appointments.Appointment{},
	)
}
