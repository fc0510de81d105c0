package services

import (
	"context"
	"errors"
	"io"
	"strings"

	"league-portal/models"
	"league-portal/repository"
	"league-portal/search"
	"league-portal/utils"

	"github.com/sirupsen/logrus"
)

// ObjectStorage stores uploaded files and returns their public URL.
type ObjectStorage interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// AdminService is the write side of the league data. Every mutation refreshes
// the affected search documents; index errors are logged, not returned, since
// the periodic rebuild repairs them.
type AdminService struct {
	teams   repository.TeamRepository
	players repository.PlayerRepository
	matches repository.MatchRepository
	stats   repository.StatisticRepository
	search  *SearchService
	storage ObjectStorage
	log     logrus.FieldLogger
}

func NewAdminService(
	teams repository.TeamRepository,
	players repository.PlayerRepository,
	matches repository.MatchRepository,
	stats repository.StatisticRepository,
	searchSvc *SearchService,
	storage ObjectStorage,
	log logrus.FieldLogger,
) *AdminService {
	return &AdminService{
		teams:   teams,
		players: players,
		matches: matches,
		stats:   stats,
		search:  searchSvc,
		storage: storage,
		log:     log,
	}
}

// ---- teams ----

func (s *AdminService) CreateTeam(ctx context.Context, team *models.Team) error {
	team.Name = strings.TrimSpace(team.Name)
	if team.ID <= 0 || team.Name == "" {
		return newError(ErrInvalidInput, "teamid and name are required")
	}
	if err := s.teams.Create(ctx, team); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return newError(ErrInvalidInput, "team already exists")
		}
		return err
	}
	s.reindexTeam(ctx, team.ID)
	return nil
}

// UpdateTeam replaces the team's fields; the crest is kept unless team carries one.
func (s *AdminService) UpdateTeam(ctx context.Context, team *models.Team) error {
	team.Name = strings.TrimSpace(team.Name)
	if team.Name == "" {
		return newError(ErrInvalidInput, "name is required")
	}
	existing, err := s.teams.Get(ctx, team.ID)
	if err != nil {
		return notFound(err, "team %d not found", team.ID)
	}
	if team.CrestURL == "" {
		team.CrestURL = existing.CrestURL
	}
	if err := s.teams.Update(ctx, team); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return newError(ErrInvalidInput, "team already exists")
		}
		return notFound(err, "team %d not found", team.ID)
	}
	s.reindexTeam(ctx, team.ID)
	return nil
}

func (s *AdminService) DeleteTeam(ctx context.Context, teamID int) error {
	roster, err := s.players.ListByTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if err := s.teams.Delete(ctx, teamID); err != nil {
		return notFound(err, "team %d not found", teamID)
	}
	s.unindex(ctx, search.KindTeam, teamID)
	for _, p := range roster {
		s.unindex(ctx, search.KindPlayer, p.ID)
	}
	return nil
}

// UploadCrest stores a crest image and points the team at it.
func (s *AdminService) UploadCrest(ctx context.Context, teamID int, filename string, size int64, body io.Reader) (*models.Team, error) {
	contentType, ok := utils.CrestContentType(filename)
	if !ok {
		return nil, newError(ErrInvalidInput, "crest must be png, jpg, webp or svg")
	}
	if size <= 0 || size > utils.MaxCrestSize {
		return nil, newError(ErrInvalidInput, "crest must be at most 2 MiB")
	}
	if s.storage == nil {
		return nil, newError(ErrInvalidInput, "crest uploads are disabled")
	}

	team, err := s.teams.Get(ctx, teamID)
	if err != nil {
		return nil, notFound(err, "team %d not found", teamID)
	}
	url, err := s.storage.Upload(ctx, utils.CrestKey(teamID, filename), contentType, io.LimitReader(body, utils.MaxCrestSize))
	if err != nil {
		return nil, err
	}
	team.CrestURL = url
	if err := s.teams.Update(ctx, team); err != nil {
		return nil, notFound(err, "team %d not found", teamID)
	}
	s.log.WithFields(logrus.Fields{"teamid": teamID, "url": url}).Info("Crest uploaded")
	return team, nil
}

// ---- players ----

func (s *AdminService) CreatePlayer(ctx context.Context, player *models.Player) error {
	if err := s.checkPlayer(ctx, player); err != nil {
		return err
	}
	if err := s.players.Create(ctx, player); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return newError(ErrInvalidInput, "player already exists")
		}
		return err
	}
	s.reindexPlayer(ctx, player.ID)
	return nil
}

func (s *AdminService) UpdatePlayer(ctx context.Context, player *models.Player) error {
	if err := s.checkPlayer(ctx, player); err != nil {
		return err
	}
	if err := s.players.Update(ctx, player); err != nil {
		return notFound(err, "player %d not found", player.ID)
	}
	s.reindexPlayer(ctx, player.ID)
	return nil
}

func (s *AdminService) DeletePlayer(ctx context.Context, playerID int) error {
	if err := s.players.Delete(ctx, playerID); err != nil {
		return notFound(err, "player %d not found", playerID)
	}
	s.unindex(ctx, search.KindPlayer, playerID)
	return nil
}

func (s *AdminService) checkPlayer(ctx context.Context, p *models.Player) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.ID <= 0 || p.Name == "" {
		return newError(ErrInvalidInput, "playerid and name are required")
	}
	if _, err := s.teams.Get(ctx, p.TeamID); err != nil {
		return invalidRef(err, "team %d does not exist", p.TeamID)
	}
	p.Team = nil
	return nil
}

// ---- matches ----

func (s *AdminService) CreateMatch(ctx context.Context, match *models.Match) error {
	if err := s.checkMatch(ctx, match); err != nil {
		return err
	}
	if err := s.matches.Create(ctx, match); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return newError(ErrInvalidInput, "match already exists")
		}
		return err
	}
	return nil
}

func (s *AdminService) UpdateMatch(ctx context.Context, match *models.Match) error {
	if err := s.checkMatch(ctx, match); err != nil {
		return err
	}
	if err := s.matches.Update(ctx, match); err != nil {
		return notFound(err, "match %d not found", match.ID)
	}
	return nil
}

func (s *AdminService) DeleteMatch(ctx context.Context, matchID int) error {
	if err := s.matches.Delete(ctx, matchID); err != nil {
		return notFound(err, "match %d not found", matchID)
	}
	return nil
}

func (s *AdminService) checkMatch(ctx context.Context, m *models.Match) error {
	if m.ID <= 0 {
		return newError(ErrInvalidInput, "matchid is required")
	}
	if m.HostTeamID == m.GuestTeamID {
		return newError(ErrInvalidInput, "a team cannot play itself")
	}
	if m.Status == 0 {
		m.Status = models.MatchNotPlayed
	}
	if !m.Status.Valid() {
		return newError(ErrInvalidInput, "unknown match status %d", m.Status)
	}
	if m.HostGoal < 0 || m.GuestGoal < 0 {
		return newError(ErrInvalidInput, "goals cannot be negative")
	}
	for _, id := range []int{m.HostTeamID, m.GuestTeamID} {
		if _, err := s.teams.Get(ctx, id); err != nil {
			return invalidRef(err, "team %d does not exist", id)
		}
	}
	m.HostTeam, m.GuestTeam = nil, nil
	return nil
}

// ---- statistics ----

// RecordStatistic adds stat.BehaviorCount occurrences to the player's tally.
func (s *AdminService) RecordStatistic(ctx context.Context, stat *models.Statistic) error {
	if !stat.Behavior.Valid() {
		return newError(ErrInvalidInput, "unknown behavior %d", stat.Behavior)
	}
	if stat.BehaviorCount <= 0 {
		return newError(ErrInvalidInput, "behaviorcount must be positive")
	}
	if _, err := s.players.Get(ctx, stat.PlayerID); err != nil {
		return invalidRef(err, "player %d does not exist", stat.PlayerID)
	}
	if _, err := s.matches.Get(ctx, stat.MatchID); err != nil {
		return invalidRef(err, "match %d does not exist", stat.MatchID)
	}
	stat.ID = 0
	stat.Player, stat.Match = nil, nil
	return s.stats.Record(ctx, stat)
}

func (s *AdminService) reindexTeam(ctx context.Context, teamID int) {
	if err := s.search.IndexTeam(ctx, teamID); err != nil {
		s.log.WithError(err).WithField("teamid", teamID).Warn("Search index update failed")
	}
}

func (s *AdminService) reindexPlayer(ctx context.Context, playerID int) {
	if err := s.search.IndexPlayer(ctx, playerID); err != nil {
		s.log.WithError(err).WithField("playerid", playerID).Warn("Search index update failed")
	}
}

func (s *AdminService) unindex(ctx context.Context, kind search.Kind, id int) {
	if err := s.search.Remove(ctx, kind, id); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"kind": kind, "id": id}).Warn("Search index removal failed")
	}
}

// invalidRef reports a missing referenced row as bad input rather than a 404.
func invalidRef(err error, format string, args ...interface{}) error {
	if errors.Is(err, repository.ErrNotFound) {
		return newError(ErrInvalidInput, format, args...)
	}
	return err
}
