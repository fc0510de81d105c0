package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"league-portal/models"
	"league-portal/repository"
	"league-portal/search"

	"github.com/sirupsen/logrus"
)

// SearchResults keeps the response shape the search box expects; cities,
// countries and languages are always empty lists.
type SearchResults struct {
	Cities    []string        `json:"cities"`
	Countries []string        `json:"countries"`
	Languages []string        `json:"languages"`
	Teams     []models.Team   `json:"teams"`
	Players   []models.Player `json:"players"`
}

func emptyResults() *SearchResults {
	return &SearchResults{
		Cities:    []string{},
		Countries: []string{},
		Languages: []string{},
		Teams:     []models.Team{},
		Players:   []models.Player{},
	}
}

type SearchService struct {
	index   search.Index
	teams   repository.TeamRepository
	players repository.PlayerRepository
	log     logrus.FieldLogger
}

func NewSearchService(index search.Index, teams repository.TeamRepository, players repository.PlayerRepository, log logrus.FieldLogger) *SearchService {
	return &SearchService{index: index, teams: teams, players: players, log: log}
}

// Search autocompletes query against teams and players and loads the hits.
// Ids the database no longer knows are dropped.
func (s *SearchService) Search(ctx context.Context, query string) (*SearchResults, error) {
	res := emptyResults()
	query = strings.TrimSpace(query)

	teamIDs, err := s.index.Autocomplete(ctx, search.KindTeam, query)
	if err != nil {
		return nil, err
	}
	playerIDs, err := s.index.Autocomplete(ctx, search.KindPlayer, query)
	if err != nil {
		return nil, err
	}

	if res.Teams, err = s.teams.ListByIDs(ctx, teamIDs); err != nil {
		return nil, err
	}
	if res.Players, err = s.players.ListByIDs(ctx, playerIDs); err != nil {
		return nil, err
	}
	if dropped := len(teamIDs) + len(playerIDs) - len(res.Teams) - len(res.Players); dropped > 0 {
		s.log.WithFields(logrus.Fields{"query": query, "dropped": dropped}).Debug("Search hits missing from database")
	}
	return res, nil
}

// IndexAll rebuilds the index of one kind from the database and returns the
// number of documents written.
func (s *SearchService) IndexAll(ctx context.Context, kind search.Kind) (int, error) {
	var docs []search.Document
	switch kind {
	case search.KindTeam:
		teams, err := s.teams.List(ctx)
		if err != nil {
			return 0, err
		}
		for _, t := range teams {
			docs = append(docs, search.TeamDocument(t))
		}
	case search.KindPlayer:
		players, err := s.players.List(ctx)
		if err != nil {
			return 0, err
		}
		for _, p := range players {
			docs = append(docs, search.PlayerDocument(p, teamName(p.Team)))
		}
	default:
		return 0, search.ErrUnknownKind
	}

	if err := s.index.Replace(ctx, kind, docs); err != nil {
		return 0, fmt.Errorf("reindex %s: %w", kind, err)
	}
	return len(docs), nil
}

// Reindex rebuilds both indexes.
func (s *SearchService) Reindex(ctx context.Context) (map[search.Kind]int, error) {
	counts := make(map[search.Kind]int, 2)
	for _, kind := range []search.Kind{search.KindTeam, search.KindPlayer} {
		n, err := s.IndexAll(ctx, kind)
		if err != nil {
			return counts, err
		}
		counts[kind] = n
	}
	return counts, nil
}

// IndexTeam refreshes the team's document and those of its players, whose
// documents carry the team name.
func (s *SearchService) IndexTeam(ctx context.Context, teamID int) error {
	team, err := s.teams.Get(ctx, teamID)
	if errors.Is(err, repository.ErrNotFound) {
		return s.index.Remove(ctx, search.KindTeam, teamID)
	}
	if err != nil {
		return err
	}
	if err := s.index.Put(ctx, search.TeamDocument(*team)); err != nil {
		return err
	}
	players, err := s.players.ListByTeam(ctx, teamID)
	if err != nil {
		return err
	}
	for _, p := range players {
		if err := s.index.Put(ctx, search.PlayerDocument(p, team.Name)); err != nil {
			return err
		}
	}
	return nil
}

func (s *SearchService) IndexPlayer(ctx context.Context, playerID int) error {
	player, err := s.players.Get(ctx, playerID)
	if errors.Is(err, repository.ErrNotFound) {
		return s.index.Remove(ctx, search.KindPlayer, playerID)
	}
	if err != nil {
		return err
	}
	return s.index.Put(ctx, search.PlayerDocument(*player, teamName(player.Team)))
}

func (s *SearchService) Remove(ctx context.Context, kind search.Kind, id int) error {
	return s.index.Remove(ctx, kind, id)
}

func teamName(t *models.Team) string {
	if t == nil {
		return ""
	}
	return t.Name
}
