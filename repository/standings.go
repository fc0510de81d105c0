package repository

import (
	"context"
	"fmt"

	"league-portal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StandingRepository interface {
	// List is ordered by points, then goals, both descending.
	List(ctx context.Context) ([]models.Standing, error)
	// Replace makes the table hold exactly the given rows, one per team.
	Replace(ctx context.Context, rows []models.Standing) error
}

type GormStandingRepository struct {
	db *gorm.DB
}

func NewGormStandingRepository(db *gorm.DB) *GormStandingRepository {
	if db == nil {
		panic("database connection cannot be nil for GormStandingRepository")
	}
	return &GormStandingRepository{db: db}
}

func (r *GormStandingRepository) List(ctx context.Context) ([]models.Standing, error) {
	var rows []models.Standing
	err := r.db.WithContext(ctx).Preload("Team").
		Order("points DESC, goals DESC, teamid ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list standings: %w", err)
	}
	return rows, nil
}

func (r *GormStandingRepository) Replace(ctx context.Context, rows []models.Standing) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		teamIDs := make([]int, 0, len(rows))
		for _, row := range rows {
			teamIDs = append(teamIDs, row.TeamID)
		}

		stale := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if len(teamIDs) > 0 {
			stale = stale.Where("teamid NOT IN ?", teamIDs)
		}
		if err := stale.Delete(&models.Standing{}).Error; err != nil {
			return fmt.Errorf("gorm: prune standings: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}

		err := tx.Omit("Team").Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "teamid"}},
			DoUpdates: clause.AssignmentColumns([]string{"goals", "winlose", "points", "updated_at"}),
		}).Create(&rows).Error
		if err != nil {
			return fmt.Errorf("gorm: upsert standings: %w", err)
		}
		return nil
	})
}
