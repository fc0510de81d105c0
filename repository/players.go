package repository

import (
	"context"
	"fmt"

	"league-portal/models"

	"gorm.io/gorm"
)

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	Update(ctx context.Context, player *models.Player) error
	Get(ctx context.Context, id int) (*models.Player, error)
	List(ctx context.Context) ([]models.Player, error)
	ListByTeam(ctx context.Context, teamID int) ([]models.Player, error)
	// ListByIDs keeps the order of ids and silently skips ids with no row.
	ListByIDs(ctx context.Context, ids []int) ([]models.Player, error)
	// Delete removes the player and their statistics.
	Delete(ctx context.Context, id int) error
}

type GormPlayerRepository struct {
	db *gorm.DB
}

func NewGormPlayerRepository(db *gorm.DB) *GormPlayerRepository {
	if db == nil {
		panic("database connection cannot be nil for GormPlayerRepository")
	}
	return &GormPlayerRepository{db: db}
}

func (r *GormPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	if err := r.db.WithContext(ctx).Omit("Team").Create(player).Error; err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: create player %d: %w", player.ID, err)
	}
	return nil
}

func (r *GormPlayerRepository) Update(ctx context.Context, player *models.Player) error {
	res := r.db.WithContext(ctx).Model(&models.Player{}).Where("playerid = ?", player.ID).
		Select("name", "chinaname", "position", "nation", "age", "prize", "num", "teamid", "updated_at").
		Updates(player)
	if res.Error != nil {
		return fmt.Errorf("gorm: update player %d: %w", player.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormPlayerRepository) Get(ctx context.Context, id int) (*models.Player, error) {
	var player models.Player
	if err := r.db.WithContext(ctx).Preload("Team").First(&player, "playerid = ?", id).Error; err != nil {
		if mapNotFound(err) == ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("gorm: get player %d: %w", id, err)
	}
	return &player, nil
}

func (r *GormPlayerRepository) List(ctx context.Context) ([]models.Player, error) {
	var players []models.Player
	if err := r.db.WithContext(ctx).Preload("Team").Order("playerid ASC").Find(&players).Error; err != nil {
		return nil, fmt.Errorf("gorm: list players: %w", err)
	}
	return players, nil
}

func (r *GormPlayerRepository) ListByTeam(ctx context.Context, teamID int) ([]models.Player, error) {
	var players []models.Player
	err := r.db.WithContext(ctx).Where("teamid = ?", teamID).Order("num ASC, playerid ASC").Find(&players).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list players of team %d: %w", teamID, err)
	}
	return players, nil
}

func (r *GormPlayerRepository) ListByIDs(ctx context.Context, ids []int) ([]models.Player, error) {
	if len(ids) == 0 {
		return []models.Player{}, nil
	}
	var found []models.Player
	if err := r.db.WithContext(ctx).Where("playerid IN ?", ids).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("gorm: list players by ids: %w", err)
	}
	byID := make(map[int]models.Player, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]models.Player, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *GormPlayerRepository) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playerid = ?", id).Delete(&models.Statistic{}).Error; err != nil {
			return fmt.Errorf("gorm: delete statistics of player %d: %w", id, err)
		}
		res := tx.Where("playerid = ?", id).Delete(&models.Player{})
		if res.Error != nil {
			return fmt.Errorf("gorm: delete player %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
