package models

import "time"

// MatchStatus mirrors the league's fixture states.
type MatchStatus int16

const (
	MatchFinished   MatchStatus = 1
	MatchInProgress MatchStatus = 2
	MatchNotPlayed  MatchStatus = 3
)

func (s MatchStatus) Valid() bool {
	return s >= MatchFinished && s <= MatchNotPlayed
}

func (s MatchStatus) Label() string {
	switch s {
	case MatchFinished:
		return "finished"
	case MatchInProgress:
		return "in-progress"
	case MatchNotPlayed:
		return "not-played"
	}
	return "unknown"
}

// Match is a fixture between a host and a guest team.
type Match struct {
	ID          int `gorm:"column:matchid;primaryKey;autoIncrement:false" json:"matchid"`
	HostTeamID  int `gorm:"column:hostteamid;index;not null" json:"hostteamid"`
	GuestTeamID int `gorm:"column:guestteamid;index;not null" json:"guestteamid"`

	HostTeam  *Team `gorm:"foreignKey:HostTeamID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"host_team,omitempty"`
	GuestTeam *Team `gorm:"foreignKey:GuestTeamID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"guest_team,omitempty"`

	HostGoal  int         `gorm:"column:hostgoal;default:0" json:"hostgoal"`
	GuestGoal int         `gorm:"column:guestgoal;default:0" json:"guestgoal"`
	Date      time.Time   `gorm:"index" json:"date"`
	Status    MatchStatus `gorm:"type:smallint;not null;default:3" json:"status"`

	Timestamps
}

// Involves reports whether the team played in the match.
func (m *Match) Involves(teamID int) bool {
	return m.HostTeamID == teamID || m.GuestTeamID == teamID
}
