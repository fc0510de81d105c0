package models

// Behavior is a countable on-pitch event.
type Behavior int16

const (
	BehaviorGoal Behavior = iota + 1
	BehaviorPenalty
	BehaviorAssist
	BehaviorClearance
	BehaviorTackle
	BehaviorRedCard
	BehaviorYellowCard
	BehaviorOffside
)

var behaviorLabels = map[Behavior]string{
	BehaviorGoal:       "GOAL",
	BehaviorPenalty:    "PENALTY",
	BehaviorAssist:     "ASSIST",
	BehaviorClearance:  "CLEARANCE",
	BehaviorTackle:     "TACKLE",
	BehaviorRedCard:    "REDCARD",
	BehaviorYellowCard: "YELLOWCARD",
	BehaviorOffside:    "OFFSIDE",
}

func (b Behavior) Valid() bool {
	_, ok := behaviorLabels[b]
	return ok
}

func (b Behavior) Label() string {
	if l, ok := behaviorLabels[b]; ok {
		return l
	}
	return "UNKNOWN"
}

// Statistic counts one behaviour of one player in one match.
type Statistic struct {
	ID            uint     `gorm:"primaryKey" json:"id"`
	PlayerID      int      `gorm:"column:playerid;not null;uniqueIndex:idx_stat_player_match_behavior" json:"playerid"`
	MatchID       int      `gorm:"column:matchid;not null;index;uniqueIndex:idx_stat_player_match_behavior" json:"matchid"`
	Behavior      Behavior `gorm:"type:smallint;not null;uniqueIndex:idx_stat_player_match_behavior" json:"behavior"`
	BehaviorCount int      `gorm:"column:behaviorcount;default:0" json:"behaviorcount"`

	Player *Player `gorm:"foreignKey:PlayerID;references:ID;constraint:OnDelete:CASCADE" json:"player,omitempty"`
	Match  *Match  `gorm:"foreignKey:MatchID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}
