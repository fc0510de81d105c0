package models

import (
	"time"

	"github.com/gosimple/slug"
)

// Team is a club in the league. The id is assigned by the league, not the database.
type Team struct {
	ID        int       `gorm:"column:teamid;primaryKey;autoIncrement:false" json:"teamid"`
	Name      string    `gorm:"size:20;uniqueIndex;not null" json:"name"`      // English name
	ShortName string    `gorm:"column:shortname;size:20" json:"shortname"`    // e.g. "GZE"
	ChinaName string    `gorm:"column:chinaname;size:20" json:"chinaname"`    // Chinese name
	OtherName string    `gorm:"column:othername;size:20" json:"othername"`    // Chinese alias
	FoundTime time.Time `gorm:"column:foundtime" json:"foundtime"`
	City      string    `gorm:"size:20" json:"city"`
	Home      string    `gorm:"size:20" json:"home"` // home venue
	Coach     string    `gorm:"size:20" json:"coach"`

	Slug     string `gorm:"size:64;index" json:"slug"`
	CrestURL string `gorm:"type:text" json:"crest_url,omitempty"`

	Timestamps
}

// RefreshSlug derives the URL slug from the English name.
func (t *Team) RefreshSlug() {
	t.Slug = slug.Make(t.Name)
}
