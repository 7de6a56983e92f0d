package games

import (
	"context"
	"errors"

	"gamerscove/apperror"
	"gamerscove/logger"
	"gamerscove/models/postgres"

	"gorm.io/gorm"
)

// Service provides catalog access. Catalog entries are immutable aside
// from upsert-by-external-id, which keeps re-imports idempotent.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Upsert creates the game, or updates the existing row carrying the same
// external catalog id.
func (s *Service) Upsert(ctx context.Context, game *postgres.Game) (*postgres.Game, error) {
	if game.ExternalAPIID == "" {
		return nil, apperror.InvalidArgument("external API id is required")
	}
	if game.Title == "" {
		return nil, apperror.InvalidArgument("title is required")
	}

	db := s.db.WithContext(ctx)

	var existing postgres.Game
	err := db.Where("external_api_id = ?", game.ExternalAPIID).First(&existing).Error
	switch {
	case err == nil:
		existing.Title = game.Title
		existing.Description = game.Description
		existing.CoverImageURL = game.CoverImageURL
		existing.ReleaseDate = game.ReleaseDate
		existing.Platforms = game.Platforms
		existing.Genres = game.Genres
		if err := db.Save(&existing).Error; err != nil {
			return nil, err
		}
		logger.Log.Infow("game updated via upsert", "game_id", existing.ID, "external_api_id", existing.ExternalAPIID)
		return &existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := db.Create(game).Error; err != nil {
			return nil, err
		}
		logger.Log.Infow("game created", "game_id", game.ID, "title", game.Title)
		return game, nil
	default:
		return nil, err
	}
}

func (s *Service) FindByID(ctx context.Context, id uint) (*postgres.Game, error) {
	var game postgres.Game
	if err := s.db.WithContext(ctx).First(&game, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("game", id)
		}
		return nil, err
	}
	return &game, nil
}

func (s *Service) FindByExternalAPIID(ctx context.Context, externalAPIID string) (*postgres.Game, error) {
	var game postgres.Game
	err := s.db.WithContext(ctx).Where("external_api_id = ?", externalAPIID).First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("game", externalAPIID)
		}
		return nil, err
	}
	return &game, nil
}

// FindByTitle matches the title case-insensitively but otherwise exactly.
func (s *Service) FindByTitle(ctx context.Context, title string) (*postgres.Game, error) {
	var game postgres.Game
	err := s.db.WithContext(ctx).Where("LOWER(title) = LOWER(?)", title).First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("game", title)
		}
		return nil, err
	}
	return &game, nil
}

// List returns the whole catalog in insertion order.
func (s *Service) List(ctx context.Context) ([]postgres.Game, error) {
	games := []postgres.Game{}
	if err := s.db.WithContext(ctx).Order("id").Find(&games).Error; err != nil {
		return nil, err
	}
	return games, nil
}
