package ai

import (
	"time"

	"gamerscove/models/postgres"
)

// Static datasets used when the catalog (or its reviews) are empty, so the
// assistant stays useful on a fresh install.

func date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func fallbackGame(externalID, title, description, cover string, released *time.Time, platforms, genres []string) postgres.Game {
	g := postgres.Game{
		ExternalAPIID: externalID,
		Title:         title,
		Description:   description,
		CoverImageURL: cover,
		ReleaseDate:   released,
	}
	g.SetPlatformList(platforms)
	g.SetGenreList(genres)
	return g
}

// FallbackGames is the built-in mini catalog.
func FallbackGames() []postgres.Game {
	return []postgres.Game{
		fallbackGame("API-001", "Hollow Knight",
			"A challenging 2D action-adventure through a vast, ruined kingdom of insects.",
			"https://images.igdb.com/igdb/image/upload/t_cover_big/co1r9j.jpg",
			date(2017, time.February, 24),
			[]string{"PC", "Switch", "PS4", "Xbox"},
			[]string{"Metroidvania", "Action", "Platformer"}),
		fallbackGame("API-002", "Celeste",
			"A platforming masterpiece about climbing a mountain and overcoming anxiety.",
			"https://images.igdb.com/igdb/image/upload/t_cover_big/co2t4g.jpg",
			date(2018, time.January, 25),
			[]string{"PC", "Switch", "PS4", "Xbox"},
			[]string{"Platformer", "Indie", "Adventure"}),
		fallbackGame("API-003", "Ori and the Blind Forest",
			"An emotional journey through a beautiful forest filled with secrets and challenges.",
			"https://images.igdb.com/igdb/image/upload/t_cover_big/co1qv7.jpg",
			date(2015, time.March, 11),
			[]string{"PC", "Switch", "Xbox"},
			[]string{"Adventure", "Platformer", "Metroidvania"}),
		fallbackGame("API-004", "Dead Cells",
			"A roguelike, Metroidvania-inspired action-platformer where you explore an ever-changing castle.",
			"https://images.igdb.com/igdb/image/upload/t_cover_big/co2ox1.jpg",
			date(2018, time.August, 7),
			[]string{"PC", "Switch", "PS4", "Xbox"},
			[]string{"Roguelike", "Action", "Platformer"}),
	}
}

// fallbackReviews maps a fallback game title to canned reviews, already
// sorted best first.
var fallbackReviews = map[string][]ReviewInfo{
	"Hollow Knight": {
		{Rating: 10, Content: "An absolute masterpiece: haunting atmosphere and rewarding gameplay."},
		{Rating: 9, Content: "Stunning art direction and deep lore. A must-play."},
	},
	"Celeste": {
		{Rating: 8, Content: "Celeste is emotional and challenging, with tight controls and a moving story."},
	},
	"Ori and the Blind Forest": {
		{Rating: 9, Content: "Ori offers one of the most heartfelt adventures in gaming."},
	},
	"Dead Cells": {
		{Rating: 7, Content: "Dead Cells brings fast-paced roguelike action with great replayability."},
	},
}

// PopularTitles is the recommendation fallback when the primary title does
// not resolve against the catalog.
var PopularTitles = []string{
	"The Legend of Zelda: Breath of the Wild",
	"The Witcher 3: Wild Hunt",
	"Red Dead Redemption 2",
	"God of War (2018)",
	"Elden Ring",
}

func popularRecommendations() []Recommendation {
	recs := make([]Recommendation, 0, len(PopularTitles))
	for _, title := range PopularTitles {
		recs = append(recs, Recommendation{
			Title:  title,
			Genres: []string{"Action", "Adventure"},
			Rating: "N/A",
		})
	}
	return recs
}
