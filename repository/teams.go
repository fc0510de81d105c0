package repository

import (
	"context"
	"fmt"

	"league-portal/models"

	"gorm.io/gorm"
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	Update(ctx context.Context, team *models.Team) error
	Get(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
	// ListByIDs keeps the order of ids and silently skips ids with no row.
	ListByIDs(ctx context.Context, ids []int) ([]models.Team, error)
	// Delete removes the team with its players, matches, their statistics and
	// the team's standing.
	Delete(ctx context.Context, id int) error
}

type GormTeamRepository struct {
	db *gorm.DB
}

func NewGormTeamRepository(db *gorm.DB) *GormTeamRepository {
	if db == nil {
		panic("database connection cannot be nil for GormTeamRepository")
	}
	return &GormTeamRepository{db: db}
}

func (r *GormTeamRepository) Create(ctx context.Context, team *models.Team) error {
	team.RefreshSlug()
	if err := r.db.WithContext(ctx).Create(team).Error; err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: create team %d: %w", team.ID, err)
	}
	return nil
}

func (r *GormTeamRepository) Update(ctx context.Context, team *models.Team) error {
	team.RefreshSlug()
	res := r.db.WithContext(ctx).Model(&models.Team{}).Where("teamid = ?", team.ID).
		Select("name", "shortname", "chinaname", "othername", "foundtime", "city", "home", "coach", "slug", "crest_url", "updated_at").
		Updates(team)
	if res.Error != nil {
		if isDuplicateEntryError(res.Error) {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: update team %d: %w", team.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormTeamRepository) Get(ctx context.Context, id int) (*models.Team, error) {
	var team models.Team
	if err := r.db.WithContext(ctx).First(&team, "teamid = ?", id).Error; err != nil {
		if mapNotFound(err) == ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("gorm: get team %d: %w", id, err)
	}
	return &team, nil
}

func (r *GormTeamRepository) List(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	if err := r.db.WithContext(ctx).Order("teamid ASC").Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("gorm: list teams: %w", err)
	}
	return teams, nil
}

func (r *GormTeamRepository) ListByIDs(ctx context.Context, ids []int) ([]models.Team, error) {
	if len(ids) == 0 {
		return []models.Team{}, nil
	}
	var found []models.Team
	if err := r.db.WithContext(ctx).Where("teamid IN ?", ids).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("gorm: list teams by ids: %w", err)
	}
	byID := make(map[int]models.Team, len(found))
	for _, t := range found {
		byID[t.ID] = t
	}
	out := make([]models.Team, 0, len(found))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *GormTeamRepository) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var team models.Team
		if err := tx.First(&team, "teamid = ?", id).Error; err != nil {
			if mapNotFound(err) == ErrNotFound {
				return ErrNotFound
			}
			return fmt.Errorf("gorm: load team %d for delete: %w", id, err)
		}

		players := tx.Model(&models.Player{}).Select("playerid").Where("teamid = ?", id)
		matches := tx.Model(&models.Match{}).Select("matchid").Where("hostteamid = ? OR guestteamid = ?", id, id)

		if err := tx.Where("playerid IN (?) OR matchid IN (?)", players, matches).Delete(&models.Statistic{}).Error; err != nil {
			return fmt.Errorf("gorm: delete statistics of team %d: %w", id, err)
		}
		if err := tx.Where("hostteamid = ? OR guestteamid = ?", id, id).Delete(&models.Match{}).Error; err != nil {
			return fmt.Errorf("gorm: delete matches of team %d: %w", id, err)
		}
		if err := tx.Where("teamid = ?", id).Delete(&models.Player{}).Error; err != nil {
			return fmt.Errorf("gorm: delete players of team %d: %w", id, err)
		}
		if err := tx.Where("teamid = ?", id).Delete(&models.Standing{}).Error; err != nil {
			return fmt.Errorf("gorm: delete standing of team %d: %w", id, err)
		}
		if err := tx.Delete(&team).Error; err != nil {
			return fmt.Errorf("gorm: delete team %d: %w", id, err)
		}
		return nil
	})
}
