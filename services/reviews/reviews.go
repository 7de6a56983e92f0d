package reviews

import (
	"context"
	"errors"
	"math"

	"gamerscove/apperror"
	"gamerscove/logger"
	"gamerscove/models/postgres"

	"gorm.io/gorm"
)

const (
	minRating = 1
	maxRating = 10
)

// Service manages game reviews. Updates and deletes are owner-only.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create stores a review after checking the referenced user and game exist
// and the rating is in range.
func (s *Service) Create(ctx context.Context, review *postgres.Review) (*postgres.Review, error) {
	if review.Rating < minRating || review.Rating > maxRating {
		return nil, apperror.InvalidArgument("rating must be between 1 and 10")
	}

	db := s.db.WithContext(ctx)

	var user postgres.User
	if err := db.First(&user, review.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user", review.UserID)
		}
		return nil, err
	}
	var game postgres.Game
	if err := db.First(&game, review.GameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("game", review.GameID)
		}
		return nil, err
	}

	if err := db.Create(review).Error; err != nil {
		return nil, err
	}
	logger.Log.Infow("review created",
		"review_id", review.ID, "game_id", review.GameID, "user_id", review.UserID)
	return review, nil
}

func (s *Service) FindByID(ctx context.Context, id uint) (*postgres.Review, error) {
	var review postgres.Review
	if err := s.db.WithContext(ctx).First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("review", id)
		}
		return nil, err
	}
	return &review, nil
}

func (s *Service) ListByGame(ctx context.Context, gameID uint) ([]postgres.Review, error) {
	reviews := []postgres.Review{}
	err := s.db.WithContext(ctx).Where("game_id = ?", gameID).Order("created_at DESC").Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (s *Service) ListByUser(ctx context.Context, userID uint) ([]postgres.Review, error) {
	reviews := []postgres.Review{}
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// TopByGame returns up to limit reviews for a game, best rated first.
func (s *Service) TopByGame(ctx context.Context, gameID uint, limit int) ([]postgres.Review, error) {
	reviews := []postgres.Review{}
	err := s.db.WithContext(ctx).Where("game_id = ?", gameID).
		Order("rating DESC").Order("id").Limit(limit).Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// Update changes the rating and content of a review owned by actingUserID.
func (s *Service) Update(ctx context.Context, id, actingUserID uint, rating int, content string) (*postgres.Review, error) {
	if rating < minRating || rating > maxRating {
		return nil, apperror.InvalidArgument("rating must be between 1 and 10")
	}

	review, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.UserID != actingUserID {
		return nil, apperror.Forbidden("only the author can update this review")
	}

	review.Rating = rating
	review.Content = content
	if err := s.db.WithContext(ctx).Save(review).Error; err != nil {
		return nil, err
	}
	logger.Log.Infow("review updated", "review_id", review.ID)
	return review, nil
}

// Delete removes a review owned by actingUserID.
func (s *Service) Delete(ctx context.Context, id, actingUserID uint) error {
	review, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if review.UserID != actingUserID {
		return apperror.Forbidden("only the author can delete this review")
	}

	if err := s.db.WithContext(ctx).Delete(review).Error; err != nil {
		return err
	}
	logger.Log.Infow("review deleted", "review_id", id)
	return nil
}

// AverageForGame returns the game's mean rating rounded to one decimal,
// 0.0 when the game has no reviews.
func (s *Service) AverageForGame(ctx context.Context, gameID uint) (float64, error) {
	reviews, err := s.ListByGame(ctx, gameID)
	if err != nil {
		return 0, err
	}
	if len(reviews) == 0 {
		return 0, nil
	}

	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(reviews))
	return math.Round(avg*10) / 10, nil
}
