package repository

import (
	"context"
	"fmt"

	"league-portal/models"

	"gorm.io/gorm"
)

type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	Update(ctx context.Context, match *models.Match) error
	Get(ctx context.Context, id int) (*models.Match, error)
	// RecentFinishedForTeam returns the newest finished matches the team hosted
	// or visited, newest first.
	RecentFinishedForTeam(ctx context.Context, teamID, limit int) ([]models.Match, error)
	ListFinished(ctx context.Context) ([]models.Match, error)
	// Delete removes the match and its statistics.
	Delete(ctx context.Context, id int) error
}

type GormMatchRepository struct {
	db *gorm.DB
}

func NewGormMatchRepository(db *gorm.DB) *GormMatchRepository {
	if db == nil {
		panic("database connection cannot be nil for GormMatchRepository")
	}
	return &GormMatchRepository{db: db}
}

func (r *GormMatchRepository) Create(ctx context.Context, match *models.Match) error {
	if err := r.db.WithContext(ctx).Omit("HostTeam", "GuestTeam").Create(match).Error; err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: create match %d: %w", match.ID, err)
	}
	return nil
}

func (r *GormMatchRepository) Update(ctx context.Context, match *models.Match) error {
	res := r.db.WithContext(ctx).Model(&models.Match{}).Where("matchid = ?", match.ID).
		Select("hostteamid", "guestteamid", "hostgoal", "guestgoal", "date", "status", "updated_at").
		Updates(match)
	if res.Error != nil {
		return fmt.Errorf("gorm: update match %d: %w", match.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormMatchRepository) Get(ctx context.Context, id int) (*models.Match, error) {
	var match models.Match
	err := r.db.WithContext(ctx).Preload("HostTeam").Preload("GuestTeam").First(&match, "matchid = ?", id).Error
	if err != nil {
		if mapNotFound(err) == ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("gorm: get match %d: %w", id, err)
	}
	return &match, nil
}

func (r *GormMatchRepository) RecentFinishedForTeam(ctx context.Context, teamID, limit int) ([]models.Match, error) {
	if limit <= 0 {
		limit = 10
	}
	var matches []models.Match
	err := r.db.WithContext(ctx).
		Preload("HostTeam").Preload("GuestTeam").
		Where("status = ? AND (hostteamid = ? OR guestteamid = ?)", models.MatchFinished, teamID, teamID).
		Order("date DESC, matchid DESC").
		Limit(limit).
		Find(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: recent matches of team %d: %w", teamID, err)
	}
	return matches, nil
}

func (r *GormMatchRepository) ListFinished(ctx context.Context) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.WithContext(ctx).Where("status = ?", models.MatchFinished).Order("date ASC, matchid ASC").Find(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list finished matches: %w", err)
	}
	return matches, nil
}

func (r *GormMatchRepository) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("matchid = ?", id).Delete(&models.Statistic{}).Error; err != nil {
			return fmt.Errorf("gorm: delete statistics of match %d: %w", id, err)
		}
		res := tx.Where("matchid = ?", id).Delete(&models.Match{})
		if res.Error != nil {
			return fmt.Errorf("gorm: delete match %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
