package ai

import (
	"fmt"
	"strings"

	"gamerscove/models/postgres"
)

const maxQuizHints = 5

// QuizHint builds hint n (1..5) for the hidden game, each more specific
// than the last: title initials, genres, release year, platforms, then a
// description snippet. Out-of-range n is clamped.
func QuizHint(game *postgres.Game, n int) string {
	if n < 1 {
		n = 1
	}
	if n > maxQuizHints {
		n = maxQuizHints
	}

	switch n {
	case 1:
		var initials strings.Builder
		for _, word := range strings.Fields(game.Title) {
			initials.WriteString(string([]rune(word)[0]))
			initials.WriteString(".")
		}
		return fmt.Sprintf("The game's title is abbreviated as: %s", initials.String())
	case 2:
		genres := game.GenreList()
		if len(genres) == 0 {
			return "It's a game of an unspecified genre."
		}
		return fmt.Sprintf("It's a %s game.", strings.Join(genres, " or "))
	case 3:
		if game.ReleaseDate == nil {
			return "The release date is not specified."
		}
		return fmt.Sprintf("It was released in the year %d.", game.ReleaseDate.Year())
	case 4:
		platforms := game.PlatformList()
		if len(platforms) == 0 {
			return "Platform information is not available for this game."
		}
		return fmt.Sprintf("You can play it on: %s", strings.Join(platforms, ", "))
	default:
		if game.Description == "" {
			return "No description available for this game."
		}
		snippet := game.Description
		if runes := []rune(snippet); len(runes) > 150 {
			snippet = string(runes[:150]) + "..."
		}
		return "Description: " + snippet
	}
}
