package models

import "gorm.io/gorm"

// AutoMigrate creates or updates every table the portal owns.
// Order matters: referenced tables first.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Team{},
		&Player{},
		&Match{},
		&Statistic{},
		&Standing{},
		&User{},
	)
}
