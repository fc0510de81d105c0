package models

// Player belongs to exactly one team; deleting the team deletes the player.
type Player struct {
	ID        int    `gorm:"column:playerid;primaryKey;autoIncrement:false" json:"playerid"`
	Name      string `gorm:"size:20;not null" json:"name"`
	ChinaName string `gorm:"column:chinaname;size:20" json:"chinaname"`
	Position  string `gorm:"size:20" json:"position"`
	Nation    string `gorm:"size:20" json:"nation"`
	Age       int    `json:"age"`
	Prize     string `gorm:"size:20" json:"prize"` // market value, free text ("€12m")
	Num       int    `json:"num"`                  // jersey number

	TeamID int   `gorm:"column:teamid;index;not null" json:"teamid"`
	Team   *Team `gorm:"foreignKey:TeamID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"team,omitempty"`

	Timestamps
}
