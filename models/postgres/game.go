package postgres

import (
	"time"

	"gorm.io/datatypes"
)

/*
 * 'Game' is one catalog entry. ExternalAPIID is the upstream catalog key and
 * makes imports idempotent: re-importing the same dump updates in place.
 */
type Game struct {
	ID            uint           `gorm:"primaryKey"`
	ExternalAPIID string         `gorm:"size:64;not null;uniqueIndex"`
	Title         string         `gorm:"size:255;not null;index"`
	Description   string         `gorm:"type:text"`
	CoverImageURL string         `gorm:"type:text"`
	ReleaseDate   *time.Time     `gorm:""`
	Platforms     datatypes.JSON `gorm:"default:'[]'"`
	Genres        datatypes.JSON `gorm:"default:'[]'"`
}

func (g *Game) PlatformList() []string {
	return decodeStringSlice(g.Platforms)
}

func (g *Game) SetPlatformList(platforms []string) {
	g.Platforms = encodeJSON(platforms)
}

func (g *Game) GenreList() []string {
	return decodeStringSlice(g.Genres)
}

func (g *Game) SetGenreList(genres []string) {
	g.Genres = encodeJSON(genres)
}
