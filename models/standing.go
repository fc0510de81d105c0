package models

// Standing is the table row of one team.
type Standing struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	TeamID  int    `gorm:"column:teamid;uniqueIndex;not null" json:"teamid"`
	Team    *Team  `gorm:"foreignKey:TeamID;references:ID;constraint:OnDelete:CASCADE" json:"team,omitempty"`
	Goals   int    `gorm:"default:0" json:"goals"`
	WinLose string `gorm:"column:winlose;size:20" json:"winlose"` // "W/D/L"
	Points  int    `gorm:"default:0" json:"points"`

	Timestamps
}
