package repository

import (
	"context"
	"errors"
	"fmt"

	"league-portal/models"

	"gorm.io/gorm"
)

type StatisticRepository interface {
	// Record adds stat.BehaviorCount to the player's tally for that behaviour in
	// that match, creating the row on first use. stat is refreshed with the
	// stored total.
	Record(ctx context.Context, stat *models.Statistic) error
	ListByMatch(ctx context.Context, matchID int) ([]models.Statistic, error)
}

type GormStatisticRepository struct {
	db *gorm.DB
}

func NewGormStatisticRepository(db *gorm.DB) *GormStatisticRepository {
	if db == nil {
		panic("database connection cannot be nil for GormStatisticRepository")
	}
	return &GormStatisticRepository{db: db}
}

func (r *GormStatisticRepository) Record(ctx context.Context, stat *models.Statistic) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Statistic
		err := tx.Where("playerid = ? AND matchid = ? AND behavior = ?", stat.PlayerID, stat.MatchID, stat.Behavior).
			First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Omit("Player", "Match").Create(stat).Error; err != nil {
				return fmt.Errorf("gorm: create statistic: %w", err)
			}
			return nil
		case err != nil:
			return fmt.Errorf("gorm: load statistic: %w", err)
		}

		if err := tx.Model(&existing).
			UpdateColumn("behaviorcount", gorm.Expr("behaviorcount + ?", stat.BehaviorCount)).Error; err != nil {
			return fmt.Errorf("gorm: increment statistic %d: %w", existing.ID, err)
		}
		return tx.First(stat, existing.ID).Error
	})
}

func (r *GormStatisticRepository) ListByMatch(ctx context.Context, matchID int) ([]models.Statistic, error) {
	var stats []models.Statistic
	err := r.db.WithContext(ctx).Preload("Player").
		Where("matchid = ?", matchID).
		Order("playerid ASC, behavior ASC").
		Find(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list statistics of match %d: %w", matchID, err)
	}
	return stats, nil
}
