package repository

import (
	"context"
	"fmt"
	"time"

	"league-portal/models"

	"gorm.io/gorm"
)

// UserRepository stores site accounts keyed by email.
type UserRepository interface {
	// Create inserts a new user. An existing email yields ErrDuplicateEntry and
	// leaves the table untouched.
	Create(ctx context.Context, user *models.User) error
	// FindByEmail returns ErrNotFound when no such user exists.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	TouchLastLogin(ctx context.Context, email string, at time.Time) error
	// Promote turns an existing account into a superuser with the given password hash.
	Promote(ctx context.Context, email, passwordHash string) error
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	if db == nil {
		panic("database connection cannot be nil for GormUserRepository")
	}
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: create user %s: %w", user.Email, err)
	}
	return nil
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if mapNotFound(err) == ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("gorm: find user by email '%s': %w", email, err)
	}
	return &user, nil
}

func (r *GormUserRepository) TouchLastLogin(ctx context.Context, email string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Update("last_login", at)
	if res.Error != nil {
		return fmt.Errorf("gorm: touch last login for %s: %w", email, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormUserRepository) Promote(ctx context.Context, email, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Updates(map[string]interface{}{
		"is_staff":     true,
		"is_superuser": true,
		"is_active":    true,
		"password":     passwordHash,
	})
	if res.Error != nil {
		return fmt.Errorf("gorm: promote %s: %w", email, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
