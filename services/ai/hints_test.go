package ai

import (
	"strings"
	"testing"

	models "gamerscove/models/postgres"

	"github.com/stretchr/testify/assert"
)

func TestQuizHintLadder(t *testing.T) {
	games := FallbackGames()
	var hollowKnight *models.Game
	for i := range games {
		if games[i].Title == "Hollow Knight" {
			hollowKnight = &games[i]
		}
	}
	assert.NotNil(t, hollowKnight)

	t.Run("hint 1 gives title initials", func(t *testing.T) {
		hint := QuizHint(hollowKnight, 1)
		assert.Contains(t, hint, "H.K.")
		assert.NotContains(t, hint, "Hollow")
	})

	t.Run("hint 2 gives genres", func(t *testing.T) {
		hint := QuizHint(hollowKnight, 2)
		for _, genre := range hollowKnight.GenreList() {
			assert.Contains(t, hint, genre)
		}
	})

	t.Run("hint 3 gives release year", func(t *testing.T) {
		assert.Contains(t, QuizHint(hollowKnight, 3), "2017")
	})

	t.Run("hint 4 gives platforms", func(t *testing.T) {
		hint := QuizHint(hollowKnight, 4)
		for _, platform := range hollowKnight.PlatformList() {
			assert.Contains(t, hint, platform)
		}
	})

	t.Run("hint 5 gives a bounded description snippet", func(t *testing.T) {
		hint := QuizHint(hollowKnight, 5)
		assert.True(t, strings.HasPrefix(hint, "Description: "))
		snippet := strings.TrimPrefix(hint, "Description: ")
		assert.LessOrEqual(t, len([]rune(strings.TrimSuffix(snippet, "..."))), 150)
	})

	t.Run("out of range clamps", func(t *testing.T) {
		assert.Equal(t, QuizHint(hollowKnight, 1), QuizHint(hollowKnight, 0))
		assert.Equal(t, QuizHint(hollowKnight, 5), QuizHint(hollowKnight, 9))
	})
}

func TestQuizHintMissingData(t *testing.T) {
	bare := &models.Game{Title: "Mystery Game"}

	assert.Contains(t, QuizHint(bare, 1), "M.G.")
	assert.Equal(t, "It's a game of an unspecified genre.", QuizHint(bare, 2))
	assert.Equal(t, "The release date is not specified.", QuizHint(bare, 3))
	assert.Equal(t, "Platform information is not available for this game.", QuizHint(bare, 4))
	assert.Equal(t, "No description available for this game.", QuizHint(bare, 5))
}
