package ai

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"gamerscove/apperror"
	"gamerscove/logger"
	"gamerscove/models/postgres"
	redismodels "gamerscove/models/redis"
	"gamerscove/services/games"
	"gamerscove/services/reviews"
)

const (
	maxReviewsPerLookup = 3
	maxSimilarTitles    = 3
	quizAttempts        = 5
)

// Tools are the three capabilities the model may invoke. All of them are
// catalog reads; each degrades to the static fallback dataset instead of
// failing, so a tool call always yields a usable envelope.
type Tools struct {
	games   *games.Service
	reviews *reviews.Service
}

func NewTools(g *games.Service, r *reviews.Service) *Tools {
	return &Tools{games: g, reviews: r}
}

// LookupReviews resolves the title (exact, then fuzzy) and returns up to
// three reviews for the match, best rated first, plus the game's
// descriptive fields. An unmatched title falls back to the static catalog;
// a matched game without reviews gets an explicit "no reviews" reply
// instead of an empty success.
func (t *Tools) LookupReviews(ctx context.Context, title string) Envelope {
	if strings.TrimSpace(title) == "" {
		return NewEnvelope("Please tell me which game's reviews you'd like to see, for example: 'Show me reviews for Hollow Knight'.")
	}

	game, err := t.games.ResolveByApproximateTitle(ctx, title)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			logger.Log.Warnw("review lookup falling back to static catalog", "error", err)
		}
		fallback := FallbackGames()
		game = games.BestTitleMatch(fallback, title)
	}
	if game == nil {
		return NewEnvelope(fmt.Sprintf("I couldn't find a game matching %q.", title))
	}

	infos := t.reviewsFor(ctx, game)
	if len(infos) == 0 {
		e := NewEnvelope(fmt.Sprintf("There are no reviews for %s yet.", game.Title))
		e.Game = GameInfoFrom(game)
		return e
	}

	e := NewEnvelope(fmt.Sprintf("Here are the top reviews for %s:", game.Title))
	e.Game = GameInfoFrom(game)
	e.Reviews = infos
	return e
}

func (t *Tools) reviewsFor(ctx context.Context, game *postgres.Game) []ReviewInfo {
	infos := []ReviewInfo{}

	if game.ID != 0 {
		stored, err := t.reviews.TopByGame(ctx, game.ID, maxReviewsPerLookup)
		if err != nil {
			logger.Log.Warnw("review query failed", "game_id", game.ID, "error", err)
		}
		for _, r := range stored {
			infos = append(infos, ReviewInfo{
				ID:        r.ID,
				UserID:    r.UserID,
				GameID:    r.GameID,
				GameTitle: game.Title,
				Rating:    r.Rating,
				Content:   r.Content,
				CreatedAt: r.CreatedAt.Format("2006-01-02T15:04:05"),
			})
		}
	}

	if len(infos) == 0 {
		for _, r := range fallbackReviews[game.Title] {
			r.GameTitle = game.Title
			infos = append(infos, r)
		}
	}

	sort.SliceStable(infos, func(i, j int) bool { return infos[i].Rating > infos[j].Rating })
	if len(infos) > maxReviewsPerLookup {
		infos = infos[:maxReviewsPerLookup]
	}
	return infos
}

// Recommend resolves the model-proposed similar titles against the catalog
// and returns whichever of them exist. When the primary title itself does
// not resolve, a static list of well-known games is returned instead of an
// error.
func (t *Tools) Recommend(ctx context.Context, title string, similarTitles []string) Envelope {
	primary, err := t.games.ResolveByApproximateTitle(ctx, title)
	if err != nil || primary == nil {
		e := NewEnvelope(fmt.Sprintf("I couldn't find information about %q, but here are some popular games you might like:", title))
		e.Recommendations = popularRecommendations()
		return e
	}

	if len(similarTitles) > maxSimilarTitles {
		similarTitles = similarTitles[:maxSimilarTitles]
	}

	recs := []Recommendation{}
	for _, candidate := range similarTitles {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		game, err := t.games.FindByTitle(ctx, candidate)
		if err != nil {
			continue
		}
		recs = append(recs, Recommendation{
			ID:            game.ID,
			Title:         game.Title,
			CoverImageURL: game.CoverImageURL,
			Genres:        game.GenreList(),
			Rating:        "N/A",
		})
	}

	if len(recs) == 0 {
		return NewEnvelope(fmt.Sprintf("I couldn't find any similar games to %s in the catalog.", primary.Title))
	}

	e := NewEnvelope(fmt.Sprintf("Here are some games similar to %s:", primary.Title))
	e.Recommendations = recs
	return e
}

// StartQuiz picks a game uniformly at random (static fallback when the
// catalog is empty), returns the first hint, and hands back the session
// quiz state for the gateway to persist. The envelope never includes the
// game block; the answer stays server-side.
func (t *Tools) StartQuiz(ctx context.Context) (Envelope, *redismodels.QuizState) {
	catalog, err := t.games.List(ctx)
	if err != nil {
		logger.Log.Warnw("quiz catalog query failed, using fallback", "error", err)
		catalog = nil
	}
	if len(catalog) == 0 {
		catalog = FallbackGames()
	}
	if len(catalog) == 0 {
		e := NewEnvelope("It seems there was an issue starting the quiz: no games are available.")
		return e, nil
	}

	picked := catalog[rand.Intn(len(catalog))]
	hint := QuizHint(&picked, 1)

	e := NewEnvelope(fmt.Sprintf(
		"🎮 Let's play! I'm thinking of a game.\n\n💡 Hint #1: %s\n\nYou have %d attempts. Type your guess!",
		hint, quizAttempts))
	hintNumber := 1
	attempts := quizAttempts
	e.Quiz = Quiz{
		Active:            true,
		HintNumber:        &hintNumber,
		Hint:              &hint,
		RemainingAttempts: &attempts,
	}

	state := &redismodels.QuizState{
		Active:            true,
		GameID:            picked.ID,
		Title:             picked.Title,
		HintNumber:        1,
		RemainingAttempts: quizAttempts,
	}
	return e, state
}
