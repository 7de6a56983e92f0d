package ai

import (
	"context"
	"testing"

	models "gamerscove/models/postgres"
	"gamerscove/services/games"
	"gamerscove/services/reviews"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Game{}, &models.Review{}))
	return db
}

func newTestTools(t *testing.T) (*Tools, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewTools(games.NewService(db), reviews.NewService(db)), db
}

func seedGame(t *testing.T, db *gorm.DB, title string) *models.Game {
	t.Helper()
	game := &models.Game{ExternalAPIID: "ext-" + title, Title: title}
	require.NoError(t, db.Create(game).Error)
	return game
}

func TestLookupReviews(t *testing.T) {
	ctx := context.Background()

	t.Run("empty catalog falls back to the static dataset", func(t *testing.T) {
		tools, _ := newTestTools(t)

		env := tools.LookupReviews(ctx, "Hollow Knight")
		require.NotNil(t, env.Game)
		assert.Equal(t, "Hollow Knight", env.Game.Title)
		require.NotEmpty(t, env.Reviews)
		assert.Equal(t, 10, env.Reviews[0].Rating)
	})

	t.Run("misspelled title still resolves", func(t *testing.T) {
		tools, _ := newTestTools(t)

		env := tools.LookupReviews(ctx, "Hollow Knigt")
		require.NotNil(t, env.Game)
		assert.Equal(t, "Hollow Knight", env.Game.Title)
	})

	t.Run("stored reviews win over canned ones, top three by rating", func(t *testing.T) {
		tools, db := newTestTools(t)
		game := seedGame(t, db, "Hollow Knight")
		user := &models.User{FirebaseUID: "uid-1", Username: "ana"}
		require.NoError(t, db.Create(user).Error)
		for _, rating := range []int{5, 8, 6, 9} {
			require.NoError(t, db.Create(&models.Review{UserID: user.ID, GameID: game.ID, Rating: rating}).Error)
		}

		env := tools.LookupReviews(ctx, "Hollow Knight")
		require.Len(t, env.Reviews, 3)
		assert.Equal(t, 9, env.Reviews[0].Rating)
		assert.Equal(t, 8, env.Reviews[1].Rating)
		assert.Equal(t, 6, env.Reviews[2].Rating)
		assert.Equal(t, "Hollow Knight", env.Reviews[0].GameTitle)
	})

	t.Run("catalog game without reviews gets an explicit reply", func(t *testing.T) {
		tools, db := newTestTools(t)
		seedGame(t, db, "Obscure Indie Game")

		env := tools.LookupReviews(ctx, "Obscure Indie Game")
		require.NotNil(t, env.Game)
		assert.Empty(t, env.Reviews)
		assert.Contains(t, env.Reply, "no reviews for Obscure Indie Game")
	})

	t.Run("blank title asks for one", func(t *testing.T) {
		tools, _ := newTestTools(t)
		env := tools.LookupReviews(ctx, "  ")
		assert.Nil(t, env.Game)
		assert.Contains(t, env.Reply, "which game")
	})
}

func TestRecommend(t *testing.T) {
	ctx := context.Background()

	t.Run("unresolved primary falls back to popular titles", func(t *testing.T) {
		tools, _ := newTestTools(t)

		env := tools.Recommend(ctx, "Some Unknown Game", nil)
		require.Len(t, env.Recommendations, len(PopularTitles))
		assert.Contains(t, env.Reply, "popular games")
	})

	t.Run("resolved candidates come from the catalog", func(t *testing.T) {
		tools, db := newTestTools(t)
		seedGame(t, db, "Hollow Knight")
		celeste := seedGame(t, db, "Celeste")
		seedGame(t, db, "Dead Cells")

		env := tools.Recommend(ctx, "Hollow Knight", []string{"Celeste", "Dead Cells", "Nonexistent Game"})
		require.Len(t, env.Recommendations, 2)
		assert.Equal(t, celeste.ID, env.Recommendations[0].ID)
		assert.Equal(t, "N/A", env.Recommendations[0].Rating)
	})

	t.Run("no resolvable candidates is still not an error", func(t *testing.T) {
		tools, db := newTestTools(t)
		seedGame(t, db, "Hollow Knight")

		env := tools.Recommend(ctx, "Hollow Knight", []string{"Nonexistent Game"})
		assert.Empty(t, env.Recommendations)
		assert.Contains(t, env.Reply, "couldn't find any similar games")
	})

	t.Run("candidate list capped at three", func(t *testing.T) {
		tools, db := newTestTools(t)
		for _, title := range []string{"A", "B", "C", "D", "E"} {
			seedGame(t, db, title)
		}

		env := tools.Recommend(ctx, "A", []string{"B", "C", "D", "E"})
		assert.Len(t, env.Recommendations, 3)
	})
}

func TestStartQuiz(t *testing.T) {
	ctx := context.Background()

	t.Run("quiz from catalog", func(t *testing.T) {
		tools, db := newTestTools(t)
		game := seedGame(t, db, "Hollow Knight")

		env, state := tools.StartQuiz(ctx)
		require.NotNil(t, state)
		assert.True(t, state.Active)
		assert.Equal(t, game.ID, state.GameID)
		assert.Equal(t, "Hollow Knight", state.Title)
		assert.Equal(t, 1, state.HintNumber)
		assert.Equal(t, quizAttempts, state.RemainingAttempts)

		assert.True(t, env.Quiz.Active)
		require.NotNil(t, env.Quiz.HintNumber)
		assert.Equal(t, 1, *env.Quiz.HintNumber)
		require.NotNil(t, env.Quiz.Hint)
		assert.Contains(t, *env.Quiz.Hint, "H.K.")
		// The answer never rides along in the envelope.
		assert.Nil(t, env.Game)
		assert.NotContains(t, env.Reply, "Hollow Knight")
	})

	t.Run("empty catalog uses the static one", func(t *testing.T) {
		tools, _ := newTestTools(t)

		env, state := tools.StartQuiz(ctx)
		require.NotNil(t, state)
		assert.True(t, state.Active)

		titles := map[string]bool{}
		for _, g := range FallbackGames() {
			titles[g.Title] = true
		}
		assert.True(t, titles[state.Title])
		assert.True(t, env.Quiz.Active)
	})
}
