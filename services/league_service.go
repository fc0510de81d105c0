package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"league-portal/models"
	"league-portal/repository"

	"github.com/sirupsen/logrus"
)

// RecentMatchLimit is how many finished matches a team page lists.
const RecentMatchLimit = 10

type TeamDetails struct {
	Team    *models.Team    `json:"team"`
	Matches []models.Match  `json:"matches"`
	Players []models.Player `json:"players"`
}

type MatchDetails struct {
	Match      *models.Match      `json:"match"`
	Statistics []models.Statistic `json:"statistics"`
	// Players are the distinct players with at least one statistic.
	Players      []models.Player `json:"players"`
	HostPlayers  []models.Player `json:"host_players"`
	GuestPlayers []models.Player `json:"guest_players"`
}

// LeagueService answers the read-only league pages.
type LeagueService struct {
	teams     repository.TeamRepository
	players   repository.PlayerRepository
	matches   repository.MatchRepository
	stats     repository.StatisticRepository
	standings repository.StandingRepository
	log       logrus.FieldLogger
}

func NewLeagueService(
	teams repository.TeamRepository,
	players repository.PlayerRepository,
	matches repository.MatchRepository,
	stats repository.StatisticRepository,
	standings repository.StandingRepository,
	log logrus.FieldLogger,
) *LeagueService {
	return &LeagueService{
		teams:     teams,
		players:   players,
		matches:   matches,
		stats:     stats,
		standings: standings,
		log:       log,
	}
}

// Standing lists the table, best team first.
func (s *LeagueService) Standing(ctx context.Context) ([]models.Standing, error) {
	return s.standings.List(ctx)
}

func (s *LeagueService) TeamDetails(ctx context.Context, teamID int) (*TeamDetails, error) {
	team, err := s.teams.Get(ctx, teamID)
	if err != nil {
		return nil, notFound(err, "team %d not found", teamID)
	}
	matches, err := s.matches.RecentFinishedForTeam(ctx, teamID, RecentMatchLimit)
	if err != nil {
		return nil, err
	}
	players, err := s.players.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return &TeamDetails{Team: team, Matches: matches, Players: players}, nil
}

func (s *LeagueService) MatchDetails(ctx context.Context, matchID int) (*MatchDetails, error) {
	match, err := s.matches.Get(ctx, matchID)
	if err != nil {
		return nil, notFound(err, "match %d not found", matchID)
	}
	stats, err := s.stats.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{})
	players := []models.Player{}
	for _, st := range stats {
		if st.Player == nil {
			continue
		}
		if _, dup := seen[st.PlayerID]; dup {
			continue
		}
		seen[st.PlayerID] = struct{}{}
		players = append(players, *st.Player)
	}

	host, err := s.players.ListByTeam(ctx, match.HostTeamID)
	if err != nil {
		return nil, err
	}
	guest, err := s.players.ListByTeam(ctx, match.GuestTeamID)
	if err != nil {
		return nil, err
	}
	return &MatchDetails{
		Match:        match,
		Statistics:   stats,
		Players:      players,
		HostPlayers:  host,
		GuestPlayers: guest,
	}, nil
}

// RecomputeStandings rebuilds the table from finished matches: three points
// for a win, one for a draw. Goals counts goals scored.
func (s *LeagueService) RecomputeStandings(ctx context.Context) ([]models.Standing, error) {
	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, err
	}
	matches, err := s.matches.ListFinished(ctx)
	if err != nil {
		return nil, err
	}

	rows := TallyStandings(teams, matches)
	if err := s.standings.Replace(ctx, rows); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"teams": len(rows), "matches": len(matches)}).Debug("Standings recomputed")
	return s.standings.List(ctx)
}

// TallyStandings is the pure part of RecomputeStandings. Every team gets a
// row; matches naming unknown teams are skipped.
func TallyStandings(teams []models.Team, matches []models.Match) []models.Standing {
	type tally struct{ won, drawn, lost, goals int }
	byTeam := make(map[int]*tally, len(teams))
	for _, t := range teams {
		byTeam[t.ID] = &tally{}
	}

	for _, m := range matches {
		if m.Status != models.MatchFinished {
			continue
		}
		host, okHost := byTeam[m.HostTeamID]
		guest, okGuest := byTeam[m.GuestTeamID]
		if !okHost || !okGuest {
			continue
		}
		host.goals += m.HostGoal
		guest.goals += m.GuestGoal
		switch {
		case m.HostGoal > m.GuestGoal:
			host.won++
			guest.lost++
		case m.HostGoal < m.GuestGoal:
			guest.won++
			host.lost++
		default:
			host.drawn++
			guest.drawn++
		}
	}

	rows := make([]models.Standing, 0, len(byTeam))
	for id, t := range byTeam {
		rows = append(rows, models.Standing{
			TeamID:  id,
			Goals:   t.goals,
			WinLose: fmt.Sprintf("%d/%d/%d", t.won, t.drawn, t.lost),
			Points:  3*t.won + t.drawn,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		if rows[i].Goals != rows[j].Goals {
			return rows[i].Goals > rows[j].Goals
		}
		return rows[i].TeamID < rows[j].TeamID
	})
	return rows
}

func notFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, repository.ErrNotFound) {
		return newError(ErrNotFound, format, args...)
	}
	return err
}
